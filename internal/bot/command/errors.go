package command

import "fmt"

// FormatError reports a template placeholder referencing an absent state key.
// It is surfaced as the command's outcome, not swallowed.
type FormatError struct {
	Key string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("format error: no state value for key %q", e.Key)
}

// ValueError reports a message that could not be coerced to a number.
type ValueError struct {
	Input string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("value error: cannot parse %q as a number", e.Input)
}

// DecodeError reports malformed structured data.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode error: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
