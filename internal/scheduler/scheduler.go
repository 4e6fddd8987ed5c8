package scheduler

import (
	"context"
	"time"

	"enrich-engine/internal/scrape/types"
)

type Task func(ctx context.Context) error

// Every runs task now and then on each tick until ctx ends. Task errors are
// logged and do not stop the loop.
func Every(ctx context.Context, interval time.Duration, name string, task Task, logger types.Logger) {
	log := types.OrDefault(logger)
	runOnce := func() {
		if err := task(ctx); err != nil && ctx.Err() == nil {
			log.Printf("[%s] error: %v", name, err)
		}
	}

	runOnce()
	if interval <= 0 {
		return
	}

	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			runOnce()
		}
	}
}

// Chain runs tasks in order and returns the first error, after running the
// rest.
func Chain(tasks ...Task) Task {
	return func(ctx context.Context) error {
		var first error
		for _, t := range tasks {
			if err := t(ctx); err != nil && first == nil {
				first = err
			}
		}
		return first
	}
}
