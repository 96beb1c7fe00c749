package outcome

import "sync"

// Result — исход обработки одного элемента.
type Result[T any] struct {
	Value T
	Err   error
}

func (r Result[T]) Success() bool {
	return r.Err == nil
}

// Settle применяет fn к каждому элементу и собирает все исходы:
// отказ одной ветки не прерывает остальные. Результаты в порядке входа,
// каждая горутина пишет только свой индекс.
func Settle[I, O any](items []I, fn func(I) (O, error)) []Result[O] {
	results := make([]Result[O], len(items))

	var wg sync.WaitGroup
	for i, item := range items {
		wg.Add(1)
		go func(i int, item I) {
			defer wg.Done()
			value, err := fn(item)
			results[i] = Result[O]{Value: value, Err: err}
		}(i, item)
	}
	wg.Wait()

	return results
}

// AnySuccess — есть ли хотя бы один успешный исход.
func AnySuccess[T any](results []Result[T]) bool {
	for _, r := range results {
		if r.Err == nil {
			return true
		}
	}
	return false
}
