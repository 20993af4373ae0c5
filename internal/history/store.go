// Package history persists immutable records of completed optimization runs.
// The core never reads history; it only exists for auditing and charts.
package history

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"wattweaver/pkg/api"
)

// Record is one stored run. Monetary aggregates are kept as decimals so the
// stored history is exact regardless of how the floats were produced.
type Record struct {
	ID          uuid.UUID
	Owner       string
	Region      string
	Method      string
	EnergyFocus []string
	CostWeight  float64

	OptimizedCost      decimal.Decimal
	BaselineCost       decimal.Decimal
	OptimizedEmissions decimal.Decimal
	BaselineEmissions  decimal.Decimal

	OptimizedReliability    float64
	BaselineReliability     float64
	OptimizedRenewableShare float64
	BaselineRenewableShare  float64

	CreatedAt time.Time
}

// NewRecord builds a Record from a run's inputs and results.
func NewRecord(owner string, req api.SimulateRequest, resp *api.SimulateResponse) *Record {
	return &Record{
		ID:          uuid.New(),
		Owner:       owner,
		Region:      req.Region,
		Method:      req.Method,
		EnergyFocus: req.EnergyFocus,
		CostWeight:  req.CostWeight,

		OptimizedCost:      decimal.NewFromFloat(resp.Results.Optimized.Cost),
		BaselineCost:       decimal.NewFromFloat(resp.Results.Baseline.Cost),
		OptimizedEmissions: decimal.NewFromFloat(resp.Results.Optimized.Emissions),
		BaselineEmissions:  decimal.NewFromFloat(resp.Results.Baseline.Emissions),

		OptimizedReliability:    resp.Results.Optimized.Reliability,
		BaselineReliability:     resp.Results.Baseline.Reliability,
		OptimizedRenewableShare: resp.Results.Optimized.RenewableShare,
		BaselineRenewableShare:  resp.Results.Baseline.RenewableShare,

		CreatedAt: time.Now().UTC(),
	}
}

// Store is the persistence contract for run history.
type Store interface {
	// Save appends an immutable run record.
	Save(ctx context.Context, rec *Record) error

	// Get returns a record by ID, or nil if absent.
	Get(ctx context.Context, id uuid.UUID) (*Record, error)

	// List returns an owner's records, newest first, up to limit.
	List(ctx context.Context, owner string, limit int) ([]*Record, error)
}
