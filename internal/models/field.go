// ABOUTME: Optional field type used by partial-update patches.
// ABOUTME: A Field is either present or absent; absent fields are never written.
package models

// Field holds a value that is present only when Set is true. The zero
// Field is absent, so a patch struct literal only carries what it names.
type Field[T any] struct {
	Value T
	Set   bool
}

// Some returns a present field holding v.
func Some[T any](v T) Field[T] {
	return Field[T]{Value: v, Set: true}
}

// Get returns the value and whether it is present.
func (f Field[T]) Get() (T, bool) {
	return f.Value, f.Set
}

// Ptr returns a pointer to v. Handy for optional model attributes.
func Ptr[T any](v T) *T {
	return &v
}
