package utilities

func Conditional(condition bool, t string, f string) string {
	if condition {
		return t
	}
	return f
}

// Optional holds a value that may be absent, e.g. a metrics column that
// an older scheme wrapper did not emit.
type Optional[T any] struct {
	value T
	some  bool
}

func Some[T any](value T) Optional[T] {
	return Optional[T]{value: value, some: true}
}

func None[T any]() Optional[T] {
	return Optional[T]{}
}

func IsSome[T any](o Optional[T]) bool {
	return o.some
}

func IsNone[T any](o Optional[T]) bool {
	return !o.some
}

// GetSome returns the zero value of T when the Optional is empty. Use
// IsSome first when the distinction matters.
func GetSome[T any](o Optional[T]) T {
	return o.value
}

func Filter[T any](elements []T, predicate func(T) bool) []T {
	result := make([]T, 0)
	for _, element := range elements {
		if predicate(element) {
			result = append(result, element)
		}
	}
	return result
}

func Fmap[T any, U any](elements []T, mapper func(T) U) []U {
	result := make([]U, 0, len(elements))
	for _, element := range elements {
		result = append(result, mapper(element))
	}
	return result
}
