// Package chain sequences operations that thread a state value (usually a
// connection handle) through each step and stop at the first failure.
package chain

// Result is either a failure or a (state, value) pair.
// A failed Result still carries the last known state so that its owner can
// dispose of it; the state is not otherwise meaningful.
type Result[S, V any] struct {
	state S
	value V
	err   error
}

// Ok returns a successful Result.
func Ok[S, V any](s S, v V) Result[S, V] {
	return Result[S, V]{state: s, value: v}
}

// Fail returns a failed Result carrying s for disposal.
func Fail[V, S any](s S, err error) Result[S, V] {
	if err == nil {
		panic("chain: Fail called with a nil error")
	}
	return Result[S, V]{state: s, err: err}
}

// Err returns the failure, or nil.
func (r Result[S, V]) Err() error { return r.err }

// OK reports whether r succeeded.
func (r Result[S, V]) OK() bool { return r.err == nil }

// State returns the threaded state.
func (r Result[S, V]) State() S { return r.state }

// Value returns the value. It is the zero value when r failed.
func (r Result[S, V]) Value() V { return r.value }

// Get unpacks r.
func (r Result[S, V]) Get() (S, V, error) {
	return r.state, r.value, r.err
}

// Bind runs f on the state and value of r. If r failed, f is not called and
// the failure is propagated unchanged.
func Bind[S, A, B any](r Result[S, A], f func(S, A) Result[S, B]) Result[S, B] {
	if r.err != nil {
		return Result[S, B]{state: r.state, err: r.err}
	}
	return f(r.state, r.value)
}

// Then is Bind for steps that only need the state.
func Then[S, A, B any](r Result[S, A], f func(S) Result[S, B]) Result[S, B] {
	return Bind(r, func(s S, _ A) Result[S, B] { return f(s) })
}

// Map transforms the value of a successful Result.
func Map[S, A, B any](r Result[S, A], f func(A) B) Result[S, B] {
	if r.err != nil {
		return Result[S, B]{state: r.state, err: r.err}
	}
	return Ok(r.state, f(r.value))
}
