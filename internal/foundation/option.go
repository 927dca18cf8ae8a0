package foundation

import "fmt"

// Option represents a value that may be absent. It replaces nullable
// pointers and empty-string sentinels where absence is meaningful, such as
// name-grammar inference results.
type Option[T any] struct {
	value   T
	present bool
}

// Some wraps a present value.
func Some[T any](value T) Option[T] {
	return Option[T]{value: value, present: true}
}

// None is the absent value.
func None[T any]() Option[T] {
	return Option[T]{}
}

// IsSome reports whether a value is present.
func (o Option[T]) IsSome() bool { return o.present }

// IsNone reports whether the Option is empty.
func (o Option[T]) IsNone() bool { return !o.present }

// Unwrap returns the contained value and panics when absent. Callers must
// check IsSome first (or prefer UnwrapOr).
func (o Option[T]) Unwrap() T {
	if !o.present {
		panic("foundation: Unwrap on None option")
	}
	return o.value
}

// UnwrapOr returns the contained value, or fallback when absent.
func (o Option[T]) UnwrapOr(fallback T) T {
	if o.present {
		return o.value
	}
	return fallback
}

// Get returns the value with an ok flag, mirroring the map-access idiom.
func (o Option[T]) Get() (T, bool) { return o.value, o.present }

// String renders Some(v) or None for logs and test failures.
func (o Option[T]) String() string {
	if o.present {
		return fmt.Sprintf("Some(%v)", o.value)
	}
	return "None"
}
