package model

import "fmt"

// ParseError reports a malformed line in any of the text input formats.
// Line is 1-based; 0 means the location is unknown.
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
	}
	return e.Msg
}

// MalformedTranscriptError reports a model invariant violation detected
// when a Builder is finalized.
type MalformedTranscriptError struct {
	ID     string
	Reason string
}

func (e *MalformedTranscriptError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("malformed transcript %s: %s", e.ID, e.Reason)
	}
	return fmt.Sprintf("malformed transcript: %s", e.Reason)
}
