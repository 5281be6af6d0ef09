package chain

// Maybe holds an optional value.
type Maybe[T any] struct {
	value T
	valid bool
}

func Some[T any](v T) Maybe[T] {
	return Maybe[T]{value: v, valid: true}
}

func None[T any]() Maybe[T] {
	return Maybe[T]{}
}

// Get returns the value and whether it is present.
func (m Maybe[T]) Get() (T, bool) {
	return m.value, m.valid
}

func (m Maybe[T]) Valid() bool { return m.valid }
