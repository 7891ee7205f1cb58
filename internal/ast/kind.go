// Package ast implements the typed, tagged abstract syntax tree (C2): node
// kinds, the Node type, and the payload each kind carries.
package ast

// Kind is a tag over the closed enumeration of node shapes the core
// understands. Dispatch over Kind is exhaustive (Design Notes §9):
// operations switch on Kind rather than using a virtual-method hierarchy.
type Kind int

const (
	KindInvalid Kind = iota

	// Literals.
	KindCharLit
	KindIntLit8
	KindIntLit16
	KindIntLit32
	KindIntLit64
	KindFloatLit32
	KindFloatLit64
	KindStrLit
	KindRawStrLit
	KindTripleStrLit
	KindNilLit
	// KindArrayConstructor is a literal "[x, y, z]" bracket expression. The
	// parameter matcher (spec §4.5 step 3) also synthesises nodes of this
	// kind when it collapses trailing positional actuals into an implicit
	// open-array/sequence argument.
	KindArrayConstructor

	// Identifiers and symbol references.
	KindIdent
	KindSym

	// Operators.
	KindCall
	KindInfix
	KindPrefix
	KindPostfix
	KindDotExpr
	KindBracketExpr
	KindRange
	KindAddr
	KindDeref
	KindTypeOf
	KindObjDownConv
	KindObjUpConv

	// Control structures.
	KindIf
	KindWhen
	KindCase
	KindWhile
	KindFor
	KindTry
	KindBlock
	KindRecordCase
	KindRecordWhen
	KindOfBranch
	KindElif
	KindElse
	KindFinally
	KindExcept

	// Declarations.
	KindProcDef
	KindMethodDef
	KindIteratorDef
	KindMacroDef
	KindTemplateDef
	KindConstDef
	KindIdentDefs
	KindVarTuple
	KindTypeDef
	KindGenericParams
	KindFormalParams
	KindEnumDef
	KindObjectType
	KindRefQual
	KindPtrQual
	KindVarQual
	KindDistinctQual
	KindTupleType
	KindProcType

	// Sections.
	KindTypeSection
	KindConstSection
	KindVarSection
	KindImportSection
	KindFromSection
	KindIncludeSection
	KindStmtList

	// Hidden conversions, inserted by C4 and consumed by C5.
	KindHiddenStdConv
	KindHiddenSubConv
	KindHiddenCallConv
	KindStringToCString
	KindCStringToString
	KindObjectUpConv
	KindObjectDownConv
	KindPassAsOpenArray
	KindChckRange
	KindChckRange64
	KindChckRangeF

	kindSentinel // never constructed; used to size tables.
)

var kindNames = map[Kind]string{
	KindInvalid:          "invalid",
	KindCharLit:          "char-lit",
	KindIntLit8:          "int8-lit",
	KindIntLit16:         "int16-lit",
	KindIntLit32:         "int32-lit",
	KindIntLit64:         "int64-lit",
	KindFloatLit32:       "float32-lit",
	KindFloatLit64:       "float64-lit",
	KindStrLit:           "str-lit",
	KindRawStrLit:        "raw-str-lit",
	KindTripleStrLit:     "triple-str-lit",
	KindNilLit:           "nil-lit",
	KindArrayConstructor: "array-constructor",
	KindIdent:            "ident",
	KindSym:              "sym",
	KindCall:             "call",
	KindInfix:            "infix",
	KindPrefix:           "prefix",
	KindPostfix:          "postfix",
	KindDotExpr:          "dot",
	KindBracketExpr:      "bracket",
	KindRange:            "range",
	KindAddr:             "addr",
	KindDeref:            "deref",
	KindTypeOf:           "type-of",
	KindObjDownConv:      "obj-down-conv",
	KindObjUpConv:        "obj-up-conv",
	KindIf:               "if",
	KindWhen:             "when",
	KindCase:             "case",
	KindWhile:            "while",
	KindFor:              "for",
	KindTry:              "try",
	KindBlock:            "block",
	KindRecordCase:       "record-case",
	KindRecordWhen:       "record-when",
	KindOfBranch:         "of-branch",
	KindElif:             "elif",
	KindElse:             "else",
	KindFinally:          "finally",
	KindExcept:           "except",
	KindProcDef:          "proc-def",
	KindMethodDef:        "method-def",
	KindIteratorDef:      "iterator-def",
	KindMacroDef:         "macro-def",
	KindTemplateDef:      "template-def",
	KindConstDef:         "const-def",
	KindIdentDefs:        "ident-defs",
	KindVarTuple:         "var-tuple",
	KindTypeDef:          "type-def",
	KindGenericParams:    "generic-params",
	KindFormalParams:     "formal-params",
	KindEnumDef:          "enum-def",
	KindObjectType:       "object-type",
	KindRefQual:          "ref-qual",
	KindPtrQual:          "ptr-qual",
	KindVarQual:          "var-qual",
	KindDistinctQual:     "distinct-qual",
	KindTupleType:        "tuple-type",
	KindProcType:         "proc-type",
	KindTypeSection:      "type-section",
	KindConstSection:     "const-section",
	KindVarSection:       "var-section",
	KindImportSection:    "import-section",
	KindFromSection:      "from-section",
	KindIncludeSection:   "include-section",
	KindStmtList:         "stmt-list",
	KindHiddenStdConv:    "hidden-std-conv",
	KindHiddenSubConv:    "hidden-sub-conv",
	KindHiddenCallConv:   "hidden-call-conv",
	KindStringToCString:  "string-to-cstring",
	KindCStringToString:  "cstring-to-string",
	KindObjectUpConv:     "object-up-conv",
	KindObjectDownConv:   "object-down-conv",
	KindPassAsOpenArray:  "pass-as-open-array",
	KindChckRange:        "chck-range",
	KindChckRange64:      "chck-range-64",
	KindChckRangeF:       "chck-range-f",
}

// String renders the kind's canonical lowercase-hyphenated name, used both
// for debug dumps and by internal/render when it needs a keyword-shaped
// token.
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown-kind"
}

var namesToKind = func() map[string]Kind {
	m := make(map[string]Kind, len(kindNames))
	for k, s := range kindNames {
		m[s] = k
	}
	return m
}()

// ParseKind is the inverse of String, used by internal/fixture to decode
// a node kind from its canonical hyphenated name in a JSON fixture.
func ParseKind(s string) (Kind, bool) {
	k, ok := namesToKind[s]
	return k, ok
}

// IsHiddenConversion reports whether k is one of the conversion node kinds
// the typechecker inserts (§3, C2). The overload resolver uses this to make
// "re-typecheck an already-rewritten call" a no-op (testable property 6).
func (k Kind) IsHiddenConversion() bool {
	switch k {
	case KindHiddenStdConv, KindHiddenSubConv, KindHiddenCallConv,
		KindStringToCString, KindCStringToString,
		KindObjectUpConv, KindObjectDownConv, KindPassAsOpenArray,
		KindChckRange, KindChckRange64, KindChckRangeF:
		return true
	default:
		return false
	}
}
