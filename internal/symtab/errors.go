package symtab

import "errors"

// ErrEmptyStack is returned by Close/Add when the scope stack has no open
// scopes — a usage error per spec §4.2 ("It is a usage error to close
// when top=0"), surfaced as an internal invariant violation if it ever
// reaches the driver (spec §7).
var ErrEmptyStack = errors.New("symtab: scope stack is empty")
