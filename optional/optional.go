// Package optional holds a value which may or may not be set.
package optional

// Optional is a value of type T which may be unset. The zero value is unset.
type Optional[T any] struct {
	value T
	set   bool
}

// Of returns an Optional holding v.
func Of[T any](v T) Optional[T] {
	return Optional[T]{value: v, set: true}
}

// Set stores v.
func (o *Optional[T]) Set(v T) {
	o.value = v
	o.set = true
}

// Get returns the stored value or the zero value of T when unset.
func (o Optional[T]) Get() T {
	return o.value
}

// HasValue returns true if a value has been set.
func (o Optional[T]) HasValue() bool {
	return o.set
}
