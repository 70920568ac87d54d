package api

// Result is what every operation returns: Data on success, a human-readable
// Error otherwise. Operations never return Go errors or panic past the client.
type Result[T any] struct {
	Success bool
	Data    T
	Error   string
}

func okResult[T any](data T) Result[T] {
	return Result[T]{Success: true, Data: data}
}

func failResult[T any](msg string) Result[T] {
	return Result[T]{Error: msg}
}
