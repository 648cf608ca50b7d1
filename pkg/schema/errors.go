package schema

import "fmt"

// ParseError reports a malformed or identity-incomplete schema file. The
// loader recovers locally: the file is excluded from the graph and recorded
// as a completeness finding, and the load as a whole still succeeds.
type ParseError struct {
	File   string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("schema parse error in %s: %s", e.File, e.Reason)
}

// LinkError reports a relationship that references an unknown node type or
// predicate. Like ParseError it is recorded as a completeness finding, never
// fatal.
type LinkError struct {
	File   string
	Ref    string
	Reason string
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("schema link error in %s (%s): %s", e.File, e.Ref, e.Reason)
}
