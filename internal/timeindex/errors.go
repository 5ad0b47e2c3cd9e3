package timeindex

import (
	"errors"
	"fmt"
)

// Kind categorizes a rejection. Each Kind has a stable numeric failure code
// surfaced to the host environment.
type Kind uint8

const (
	// KindIndexOutOfBound: the host was asked for an entry past the end of a side.
	KindIndexOutOfBound Kind = 1
	// KindItemMissing: the host could not load an entry that was expected to exist.
	KindItemMissing Kind = 2
	// KindLengthNotEnough: the host returned a truncated field.
	KindLengthNotEnough Kind = 3
	// KindEncoding: the host could not decode an entry.
	KindEncoding Kind = 4
	// KindInvalidArgument: identity tag binding violated (wrong, empty or mismatched).
	KindInvalidArgument Kind = 5
	// KindInvalidInput: cardinality violation on the consumed side.
	KindInvalidInput Kind = 6
	// KindInvalidOutput: cardinality violation on the produced side.
	KindInvalidOutput Kind = 7
	// KindMalformedRecord: payload shape or self-check byte violated.
	KindMalformedRecord Kind = 8
	// KindInvalidTransition: counter did not advance per the transition rule.
	KindInvalidTransition Kind = 9
	// KindRecordNotFound: a matching entry was absent where one is required.
	KindRecordNotFound Kind = 10
)

var kindNames = map[Kind]string{
	KindIndexOutOfBound:   "IndexOutOfBound",
	KindItemMissing:       "ItemMissing",
	KindLengthNotEnough:   "LengthNotEnough",
	KindEncoding:          "Encoding",
	KindInvalidArgument:   "InvalidArgument",
	KindInvalidInput:      "InvalidInput",
	KindInvalidOutput:     "InvalidOutput",
	KindMalformedRecord:   "MalformedRecord",
	KindInvalidTransition: "InvalidTransition",
	KindRecordNotFound:    "RecordNotFound",
}

// Code is the failure code reported to the host for this kind.
func (k Kind) Code() int { return int(k) }

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// ParseKind is the inverse of Kind.String.
func ParseKind(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name {
			return k, true
		}
	}
	return 0, false
}

// Kinds lists every kind in code order.
func Kinds() []Kind {
	out := make([]Kind, 0, len(kindNames))
	for k := KindIndexOutOfBound; k <= KindRecordNotFound; k++ {
		out = append(out, k)
	}
	return out
}

// Reason refines a Kind. Callers may branch on it; it is stable.
type Reason string

const (
	ReasonIdentityMismatch Reason = "identity_mismatch"
	ReasonEmptyIdentity    Reason = "empty_identity"
	ReasonBadLength        Reason = "bad_length"
	ReasonIndexOutOfRange  Reason = "index_out_of_range"
	ReasonBadModulus       Reason = "bad_modulus"
	ReasonCardinality      Reason = "cardinality"
	ReasonNonZeroStart     Reason = "non_zero_start"
	ReasonBadAdvance       Reason = "bad_advance"
	ReasonMissingTypeTag   Reason = "missing_type_tag"
	ReasonNoMatchingInput  Reason = "no_matching_input"
	ReasonNoMatchingEntry  Reason = "no_matching_entry"
	ReasonHostLoad         Reason = "host_load"
)

// Error is a rejected transition. Message is for humans; match on Kind and
// Reason instead.
type Error struct {
	Kind    Kind
	Reason  Reason
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func newError(kind Kind, reason Reason, format string, args ...any) *Error {
	return &Error{Kind: kind, Reason: reason, Message: fmt.Sprintf(format, args...)}
}

// Errors returned by a ScriptContext when an entry cannot be loaded.
var (
	ErrNotFound        = errors.New("timeindex: entry not found")
	ErrIndexOutOfBound = errors.New("timeindex: index out of bound")
)

// hostError converts a collaborator failure into a structured rejection.
func hostError(op string, err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	kind := KindItemMissing
	if errors.Is(err, ErrIndexOutOfBound) {
		kind = KindIndexOutOfBound
	}
	return &Error{Kind: kind, Reason: ReasonHostLoad, Message: op, Cause: err}
}

// KindOf returns the Kind of err, or 0 if err is not (or does not wrap) an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// IsKind reports whether err is (or wraps) an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// ReasonOf returns the Reason of err, or "" if unknown.
func ReasonOf(err error) Reason {
	var e *Error
	if errors.As(err, &e) {
		return e.Reason
	}
	return ""
}
