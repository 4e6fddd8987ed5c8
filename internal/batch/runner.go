package batch

import (
	"context"
	"sync/atomic"
	"time"

	"enrich-engine/internal/domain"
	"enrich-engine/internal/scrape/types"
	"enrich-engine/internal/scrape/util"

	"golang.org/x/sync/errgroup"
)

// Progress is reported once per finished company.
type Progress struct {
	Index   int                     `json:"index"`
	Done    int                     `json:"done"`
	Total   int                     `json:"total"`
	Company string                  `json:"company"`
	Result  domain.EnrichmentResult `json:"result"`
}

// Runner enriches a list of companies with a bounded pool of workers.
// Politeness towards individual hosts comes from the fetcher's shared
// HostLimiter; CompanyDelay is an extra pause each worker takes between
// companies.
type Runner struct {
	Enricher     types.Enricher
	Workers      int
	CompanyDelay time.Duration
	Pace         types.Pacer
	Logger       types.Logger
}

// Run returns one result per input, in input order. If ctx ends early the
// companies that were not reached get an error result and ctx.Err() is
// returned alongside.
func (r *Runner) Run(ctx context.Context, inputs []domain.CompanyInput, onProgress func(Progress)) ([]domain.EnrichmentResult, error) {
	workers := r.Workers
	if workers <= 0 {
		workers = 1
	}
	if workers > len(inputs) {
		workers = len(inputs)
	}
	pace := r.Pace
	if pace == nil {
		pace = types.Sleep
	}
	log := types.OrDefault(r.Logger)

	results := make([]domain.EnrichmentResult, len(inputs))
	reached := make([]bool, len(inputs))
	var done atomic.Int64

	work := make(chan int)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(work)
		for i := range inputs {
			select {
			case <-gctx.Done():
				return gctx.Err()
			case work <- i:
			}
		}
		return nil
	})

	for w := 0; w < workers; w++ {
		g.Go(func() error {
			first := true
			for i := range work {
				if !first {
					if err := pace(gctx, r.CompanyDelay); err != nil {
						return err
					}
				}
				first = false

				in := inputs[i]
				res := r.Enricher.Enrich(gctx, in.Name)
				results[i] = res
				reached[i] = true

				n := int(done.Add(1))
				log.Printf("[batch] %d/%d company=%q email=%q source=%q", n, len(inputs), in.Name, res.FoundEmail, res.EmailSource)
				if onProgress != nil {
					onProgress(Progress{Index: i, Done: n, Total: len(inputs), Company: in.Name, Result: res})
				}
			}
			return nil
		})
	}

	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		for i, ok := range reached {
			if !ok {
				name, _ := util.CleanCompanyName(inputs[i].Name)
				results[i] = domain.NotFoundResult(name, domain.ErrorSource(err))
			}
		}
	}
	return results, err
}
