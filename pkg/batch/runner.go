// Package batch runs many documents through the parsing pipeline
// concurrently. Documents are the unit of parallelism; each document
// is parsed on a single goroutine.
package batch

import (
	"sync"
)

// WorkerFunc processes one item, reporting progress on messages,
// output on results and failures on errors.
type WorkerFunc[T any, R any] func(item T, messages chan<- string, results chan<- R, errors chan<- error)

// RunnerConfig configures a Runner. MaxConcurrency of 0 means
// unlimited.
type RunnerConfig struct {
	MaxConcurrency int
	OnMessage      func(string)
}

// Runner fans items out to worker goroutines and gathers their output.
type Runner[T any, R any] struct {
	config RunnerConfig
}

// NewRunner creates a runner with the given configuration.
func NewRunner[T any, R any](config RunnerConfig) *Runner[T, R] {
	return &Runner[T, R]{config: config}
}

// RunResult holds everything a run produced.
type RunResult[R any] struct {
	Results []R
	Errors  []error
}

// Run executes worker for every item concurrently and returns the
// gathered results and errors once all workers have finished.
func (r *Runner[T, R]) Run(items []T, worker WorkerFunc[T, R]) RunResult[R] {
	if len(items) == 0 {
		return RunResult[R]{Results: []R{}, Errors: []error{}}
	}

	var collectorsWG sync.WaitGroup

	messages := make(chan string)
	collectorsWG.Add(1)
	go func() {
		defer collectorsWG.Done()
		for message := range messages {
			if r.config.OnMessage != nil {
				r.config.OnMessage(message)
			}
		}
	}()

	results := make(chan R)
	var resultsList []R
	collectorsWG.Add(1)
	go func() {
		defer collectorsWG.Done()
		for result := range results {
			resultsList = append(resultsList, result)
		}
	}()

	errs := make(chan error)
	var errorsList []error
	collectorsWG.Add(1)
	go func() {
		defer collectorsWG.Done()
		for err := range errs {
			errorsList = append(errorsList, err)
		}
	}()

	var workersWG sync.WaitGroup
	var throttle chan struct{}
	if r.config.MaxConcurrency > 0 {
		throttle = make(chan struct{}, r.config.MaxConcurrency)
	}

	for _, item := range items {
		workersWG.Add(1)
		if throttle != nil {
			throttle <- struct{}{}
		}
		go func(item T) {
			defer workersWG.Done()
			if throttle != nil {
				defer func() { <-throttle }()
			}
			worker(item, messages, results, errs)
		}(item)
	}

	workersWG.Wait()
	close(messages)
	close(results)
	close(errs)
	collectorsWG.Wait()

	return RunResult[R]{Results: resultsList, Errors: errorsList}
}
