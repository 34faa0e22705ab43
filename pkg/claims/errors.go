package claims

import (
	"errors"
	"fmt"
)

// Decode failure kinds. Match them with errors.Is on anything returned by
// Decode, DecodeRevision or DecodeToken.
var (
	ErrMalformed    = errors.New("claims document is not a JSON object")
	ErrMissingField = errors.New("required claim is missing")
	ErrFieldType    = errors.New("claim has the wrong JSON type")
)

// DecodeError describes why a claims document was rejected.
type DecodeError struct {
	Field string // wire key of the offending claim, empty for ErrMalformed
	Kind  error  // one of ErrMalformed, ErrMissingField, ErrFieldType
	Err   error  // underlying encoding/json error, if any
}

func (e *DecodeError) Error() string {
	msg := e.Kind.Error()
	if e.Field != "" {
		msg = fmt.Sprintf("%s: %q", msg, e.Field)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *DecodeError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// ErrUnknownRevision is returned for a Revision outside the defined set.
var ErrUnknownRevision = errors.New("unknown claims revision")
