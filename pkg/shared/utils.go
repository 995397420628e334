package shared

import (
	"sync"

	"github.com/spf13/pflag"
)

// HasFlags reports whether any flag in the set was changed on the command
// line.
func HasFlags(flags *pflag.FlagSet) bool {
	found := false
	flags.VisitAll(func(flag *pflag.Flag) {
		if flag.Changed {
			found = true
		}
	})
	return found
}

// ForEveryWithBoundedGoroutines runs f over values with at most limit
// goroutines in flight, blocking until all complete.
func ForEveryWithBoundedGoroutines[T any](limit int, values []T, f func(i int, value T)) {
	if limit < 1 {
		limit = 1
	}
	guard := make(chan struct{}, limit)
	var wg sync.WaitGroup
	for i, value := range values {
		guard <- struct{}{} // blocks while the guard channel is full
		wg.Add(1)
		go func(i int, value T) {
			defer wg.Done()
			f(i, value)
			<-guard
		}(i, value)
	}
	wg.Wait()
}
