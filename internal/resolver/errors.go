package resolver

import "fmt"

type panicError struct {
	value any
}

func (e panicError) Error() string {
	return fmt.Sprintf("panic: %v", e.value)
}
