package executor

import (
	"sync"
)

type ExecutionMethod int

const (
	Parallel ExecutionMethod = iota
	Serial
)

type ExecutionUnit func()

func (ep ExecutionMethod) ToString() string {
	switch ep {
	case Parallel:
		return "Parallel"
	case Serial:
		return "Serial"
	}
	return "Unrecognized execution method"
}

// Execute schedules the units and returns a WaitGroup that completes
// when every unit has run. Serial execution runs the units in the
// caller's goroutine, in order, so by the time Execute returns the
// WaitGroup is already done -- that property is what the run matrix
// relies on for its one-pair-at-a-time guarantee.
func Execute(executionMethod ExecutionMethod, executionUnits []ExecutionUnit) *sync.WaitGroup {
	waiter := &sync.WaitGroup{}

	// Add all the units before starting any -- there is a potential
	// race condition otherwise.
	waiter.Add(len(executionUnits))

	for _, executionUnit := range executionUnits {
		executionUnit := executionUnit

		invoker := func() {
			executionUnit()
			waiter.Done()
		}
		switch executionMethod {
		case Parallel:
			go invoker()
		case Serial:
			invoker()
		default:
			panic("Invalid execution method value given.")
		}
	}

	return waiter
}
