package batch

import (
	"fmt"
	"sort"
	"sync/atomic"
	"testing"
)

func TestRunnerGathersResultsAndErrors(t *testing.T) {
	runner := NewRunner[int, int](RunnerConfig{MaxConcurrency: 2})
	items := []int{1, 2, 3, 4, 5}

	run := runner.Run(items, func(item int, messages chan<- string, results chan<- int, errs chan<- error) {
		if item%2 == 0 {
			errs <- fmt.Errorf("even item %d", item)
			return
		}
		messages <- fmt.Sprintf("processed %d", item)
		results <- item * 10
	})

	sort.Ints(run.Results)
	want := []int{10, 30, 50}
	if len(run.Results) != len(want) {
		t.Fatalf("Results = %v, want %v", run.Results, want)
	}
	for i, r := range run.Results {
		if r != want[i] {
			t.Errorf("Results[%d] = %d, want %d", i, r, want[i])
		}
	}
	if len(run.Errors) != 2 {
		t.Errorf("Errors = %v, want 2 errors", run.Errors)
	}
}

func TestRunnerEmptyInput(t *testing.T) {
	runner := NewRunner[string, string](RunnerConfig{})
	run := runner.Run(nil, func(string, chan<- string, chan<- string, chan<- error) {
		t.Error("worker called for empty input")
	})
	if len(run.Results) != 0 || len(run.Errors) != 0 {
		t.Errorf("run = %+v, want empty", run)
	}
}

func TestRunnerThrottlesConcurrency(t *testing.T) {
	const limit = 3
	runner := NewRunner[int, int](RunnerConfig{MaxConcurrency: limit})

	var active, peak atomic.Int32
	items := make([]int, 50)
	runner.Run(items, func(item int, messages chan<- string, results chan<- int, errs chan<- error) {
		n := active.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		active.Add(-1)
		results <- item
	})

	if p := peak.Load(); p > limit {
		t.Errorf("peak concurrency %d exceeded limit %d", p, limit)
	}
}

func TestRunnerMessages(t *testing.T) {
	var got atomic.Int32
	runner := NewRunner[int, int](RunnerConfig{
		OnMessage: func(string) { got.Add(1) },
	})
	runner.Run([]int{1, 2, 3}, func(item int, messages chan<- string, results chan<- int, errs chan<- error) {
		messages <- "done"
		results <- item
	})
	if got.Load() != 3 {
		t.Errorf("received %d messages, want 3", got.Load())
	}
}
