package depot

import "fmt"

// The errors below describe contract violations. They are raised with panic, never
// returned: callers are expected to build prototypes and queries that respect them.

type LayoutMismatchError struct {
	Archetype uint16
	Want, Got Layout
}

func (e LayoutMismatchError) Error() string {
	return fmt.Sprintf("prototype layout %v does not match archetype %d layout %v", e.Got, e.Archetype, e.Want)
}

type ComponentNotInLayoutError struct {
	Component string
	Layout    Layout
}

func (e ComponentNotInLayoutError) Error() string {
	return fmt.Sprintf("component %s is not part of layout %v", e.Component, e.Layout)
}

type ComponentTypeMismatchError struct {
	Column, Value string
}

func (e ComponentTypeMismatchError) Error() string {
	return fmt.Sprintf("cannot push %s into column of %s", e.Value, e.Column)
}

type ColumnLengthError struct {
	Component     string
	Length, Alive int
}

func (e ColumnLengthError) Error() string {
	return fmt.Sprintf("column %s has %d values for %d live entities", e.Component, e.Length, e.Alive)
}

type ArchetypeLimitError struct {
	Limit int
}

func (e ArchetypeLimitError) Error() string {
	return fmt.Sprintf("the maximum number of archetypes has been reached (%d)", e.Limit)
}

type PrototypeConsumedError struct{}

func (e PrototypeConsumedError) Error() string {
	return "prototype has already been consumed by an insert"
}

type ComponentNotRequestedError struct {
	Component string
	Write     bool
}

func (e ComponentNotRequestedError) Error() string {
	if e.Write {
		return fmt.Sprintf("component %s was not requested for writing by this query", e.Component)
	}
	return fmt.Sprintf("component %s was not requested by this query", e.Component)
}

type QueryStateError struct {
	State string
}

func (e QueryStateError) Error() string {
	return fmt.Sprintf("query has no current row (%s)", e.State)
}

// ComponentLimitError reports a component type registered past the width of the
// layout mask. Building with the m256, m512 or m1024 tag widens it.
type ComponentLimitError struct {
	Component string
	Limit     int
}

func (e ComponentLimitError) Error() string {
	return fmt.Sprintf("cannot register component %s: the layout mask holds %d component types", e.Component, e.Limit)
}
