// Package sweep evaluates a design across a grid of target powers or
// effect sizes, producing the table behind power curves. Points are
// computed concurrently with a weighted semaphore bound.
package sweep

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/montanaflynn/stats"
	"golang.org/x/sync/semaphore"

	"statdesign/api"
	"statdesign/internal/errors"
)

// DesignKind names the design being swept.
type DesignKind string

const (
	DesignTwoProp DesignKind = "two_prop"
	DesignMean    DesignKind = "mean"
)

// Request defines a sweep: a base design plus exactly one grid.
// Powers varies the target power; Effects varies the effect (p1 for
// a two-proportion design, mu1-mu2 for a mean design).
type Request struct {
	Design  DesignKind        `json:"design"`
	TwoProp *api.TwoPropParams `json:"two_prop,omitempty"`
	Mean    *api.MeanParams    `json:"mean,omitempty"`
	Powers  []float64          `json:"powers,omitempty"`
	Effects []float64          `json:"effects,omitempty"`
}

// Point is one evaluated grid position.
type Point struct {
	Power  float64 `json:"power"`
	Effect float64 `json:"effect"`
	N1     int     `json:"n1"`
	N2     int     `json:"n2"`
	Total  int     `json:"n_total"`
}

// Summary aggregates the total-n column of a sweep.
type Summary struct {
	MinN  float64 `json:"min_n"`
	MaxN  float64 `json:"max_n"`
	MeanN float64 `json:"mean_n"`
}

// Result contains the complete output of a sweep run.
type Result struct {
	SweepID   string     `json:"sweep_id"`
	Design    DesignKind `json:"design"`
	Points    []Point    `json:"points"`
	Summary   Summary    `json:"summary"`
	RuntimeMs int64      `json:"runtime_ms"`
}

// Service runs sweeps with a fixed concurrency bound.
type Service struct {
	sem   *semaphore.Weighted
	limit int
}

// NewService creates a sweep service allowing up to concurrency
// simultaneous point evaluations.
func NewService(concurrency int) *Service {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Service{
		sem:   semaphore.NewWeighted(int64(concurrency)),
		limit: concurrency,
	}
}

func (r Request) validate() error {
	switch r.Design {
	case DesignTwoProp:
		if r.TwoProp == nil {
			return errors.InvalidInput("two_prop parameters are required for a two_prop sweep")
		}
	case DesignMean:
		if r.Mean == nil {
			return errors.InvalidInput("mean parameters are required for a mean sweep")
		}
	default:
		return errors.InvalidInputf("unsupported sweep design: %q", string(r.Design))
	}
	if len(r.Powers) == 0 && len(r.Effects) == 0 {
		return errors.InvalidInput("a sweep needs a powers or effects grid")
	}
	if len(r.Powers) > 0 && len(r.Effects) > 0 {
		return errors.InvalidInput("powers and effects grids are mutually exclusive")
	}
	return nil
}

// gridSize returns the number of points in the request's grid.
func (r Request) gridSize() int {
	if len(r.Powers) > 0 {
		return len(r.Powers)
	}
	return len(r.Effects)
}

// solvePoint evaluates one grid position against the api layer.
func (r Request) solvePoint(idx int) (Point, error) {
	var point Point
	switch r.Design {
	case DesignTwoProp:
		params := *r.TwoProp
		if len(r.Powers) > 0 {
			params.Power = r.Powers[idx]
		} else {
			params.P1 = r.Effects[idx]
		}
		n1, n2, err := api.NTwoProp(params)
		if err != nil {
			return point, err
		}
		point = Point{Power: params.Power, Effect: params.P1 - params.P2, N1: n1, N2: n2, Total: n1 + n2}
	case DesignMean:
		params := *r.Mean
		if len(r.Powers) > 0 {
			params.Power = r.Powers[idx]
		} else {
			params.Mu1 = params.Mu2 + r.Effects[idx]
		}
		n1, n2, err := api.NMean(params)
		if err != nil {
			return point, err
		}
		point = Point{Power: params.Power, Effect: params.Mu1 - params.Mu2, N1: n1, N2: n2, Total: n1 + n2}
	}
	return point, nil
}

// Run evaluates every grid point, honoring context cancellation. The
// first point error aborts the sweep.
func (s *Service) Run(ctx context.Context, req Request) (*Result, error) {
	startTime := time.Now()
	if err := req.validate(); err != nil {
		return nil, err
	}

	size := req.gridSize()
	points := make([]Point, size)
	pointErrs := make([]error, size)

	var wg sync.WaitGroup
	for i := 0; i < size; i++ {
		if err := s.sem.Acquire(ctx, 1); err != nil {
			pointErrs[i] = err
			break
		}
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			defer s.sem.Release(1)
			points[idx], pointErrs[idx] = req.solvePoint(idx)
		}(i)
	}
	wg.Wait()

	for _, err := range pointErrs {
		if err != nil {
			return nil, errors.Wrap(err, "sweep point evaluation failed")
		}
	}

	totals := make([]float64, size)
	for i, p := range points {
		totals[i] = float64(p.Total)
	}
	minN, err := stats.Min(totals)
	if err != nil {
		return nil, errors.Wrap(err, "sweep summary failed")
	}
	maxN, err := stats.Max(totals)
	if err != nil {
		return nil, errors.Wrap(err, "sweep summary failed")
	}
	meanN, err := stats.Mean(totals)
	if err != nil {
		return nil, errors.Wrap(err, "sweep summary failed")
	}

	return &Result{
		SweepID:   uuid.NewString(),
		Design:    req.Design,
		Points:    points,
		Summary:   Summary{MinN: minN, MaxN: maxN, MeanN: meanN},
		RuntimeMs: time.Since(startTime).Milliseconds(),
	}, nil
}
