package depot

// Next continues a middleware chain with the value for the following stage. A stage
// may call it any number of times, including zero.
type Next[B any] func(B) error

// Middleware is one pipeline stage: it receives the view, the continuation and the
// value produced by the previous stage.
type Middleware[A, B any] func(w WorldView, next Next[B], in A) error

// Pipe2 composes two stages into one.
func Pipe2[A, B, C any](first Middleware[A, B], second Middleware[B, C]) Middleware[A, C] {
	return func(w WorldView, next Next[C], in A) error {
		return first(w, func(b B) error {
			return second(w, next, b)
		}, in)
	}
}

func Pipe3[A, B, C, D any](first Middleware[A, B], second Middleware[B, C], third Middleware[C, D]) Middleware[A, D] {
	return Pipe2(Pipe2(first, second), third)
}

func Pipe4[A, B, C, D, E any](first Middleware[A, B], second Middleware[B, C], third Middleware[C, D], fourth Middleware[D, E]) Middleware[A, E] {
	return Pipe2(Pipe3(first, second, third), fourth)
}

// Pipe composes untyped stages. The continuations are built right to left; calling
// next from the last stage reaches the caller's next.
func Pipe(stages ...Middleware[any, any]) Middleware[any, any] {
	return func(w WorldView, next Next[any], in any) error {
		cont := next
		for i := len(stages) - 1; i >= 0; i-- {
			stage, following := stages[i], cont
			cont = func(v any) error {
				return stage(w, following, v)
			}
		}
		return cont(in)
	}
}

// MiddlewareSystem runs a pipeline as a System: the first stage receives the zero
// value of A and the terminal continuation does nothing.
func MiddlewareSystem[A, B any](m Middleware[A, B]) System {
	return SystemFunc(func(w WorldView) error {
		var zero A
		return m(w, func(B) error { return nil }, zero)
	})
}
