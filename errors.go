package depot

import "fmt"

// UnknownComponentError reports use of a component type (or name) that was never
// registered with the World.
type UnknownComponentError struct {
	Name string
}

func (e UnknownComponentError) Error() string {
	return fmt.Sprintf("attempted use of non-registered component %s", e.Name)
}

// UnknownResourceError reports a snapshot resource name with no registered type.
type UnknownResourceError struct {
	Name string
}

func (e UnknownResourceError) Error() string {
	return fmt.Sprintf("resource %s not known", e.Name)
}

type MissingComponentError struct {
	Entity Entity
	Name   string
}

func (e MissingComponentError) Error() string {
	return fmt.Sprintf("required component %s is not found for entity %d", e.Name, e.Entity)
}

type MissingResourceError struct {
	Name string
}

func (e MissingResourceError) Error() string {
	return fmt.Sprintf("required resource %s is not set", e.Name)
}

// DuplicateNameError is returned when two distinct types are registered under the
// same stable name. Names must be unique for restore to find the right type.
type DuplicateNameError struct {
	Name string
}

func (e DuplicateNameError) Error() string {
	return fmt.Sprintf("name %q is already registered to another type", e.Name)
}

// ComponentLimitError is returned when a World already holds MaxComponentTypes
// component types.
type ComponentLimitError struct {
	Name  string
	Limit int
}

func (e ComponentLimitError) Error() string {
	return fmt.Sprintf("cannot register component %s: world holds the maximum of %d component types", e.Name, e.Limit)
}

type InvalidQueryElementError struct {
	Element QueryElement
}

func (e InvalidQueryElementError) Error() string {
	return fmt.Sprintf("invalid query element: %T", e.Element)
}

type InvalidResourceError struct {
	Value any
}

func (e InvalidResourceError) Error() string {
	return fmt.Sprintf("resource must be a non-nil pointer, got %T", e.Value)
}

type InvalidComponentError struct {
	Value any
}

func (e InvalidComponentError) Error() string {
	return fmt.Sprintf("component must be a non-nil pointer, got %T", e.Value)
}

type InvalidEntityError struct {
	Entity Entity
}

func (e InvalidEntityError) Error() string {
	return fmt.Sprintf("invalid entity id %d: ids start at 1", e.Entity)
}
