package cli

import (
	"encoding/json"
	"errors"
)

// Sentinel errors for conditions the driver checks for by identity,
// grounded on the teacher's internal/model/errors.go.
var (
	ErrNoFixture      = errors.New("no fixture files matched the given root")
	ErrAmbiguousCall  = errors.New("call site has more than one equally good candidate")
	ErrFixtureInvalid = errors.New("fixture does not decode to a valid AST")
)

// ErrorCode is a machine-readable error identifier for JSON output.
type ErrorCode string

const (
	ECNone         ErrorCode = ""
	ECFixtureRead  ErrorCode = "ERR_FIXTURE_READ"
	ECFixtureParse ErrorCode = "ERR_FIXTURE_PARSE"
	ECAnalysis     ErrorCode = "ERR_ANALYSIS"
	ECRender       ErrorCode = "ERR_RENDER"
	ECStore        ErrorCode = "ERR_STORE"
	ECConfig       ErrorCode = "ERR_CONFIG"
	ECUnknown      ErrorCode = "ERR_UNKNOWN"
)

// CLIError is a uniform error payload for both human and JSON output,
// grounded on the teacher's internal/core.CLIError.
type CLIError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Detail  string    `json:"detail,omitempty"`
}

func (e CLIError) Error() string {
	if e.Detail != "" {
		return e.Message + ": " + e.Detail
	}
	return e.Message
}

// JSON renders e as a single-line JSON payload for --json error output.
func (e CLIError) JSON() string {
	b, _ := json.Marshal(e)
	return string(b)
}

// Wrap builds a CLIError carrying code and msg, with inner's message as
// detail — the call-boundary wrapping idiom from runner.go.
func Wrap(code ErrorCode, msg string, inner error) error {
	return CLIError{Code: code, Message: msg, Detail: inner.Error()}
}
