package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/google/uuid"
)

// ClickHouseConfig holds connection settings for the run history database.
type ClickHouseConfig struct {
	Host     string
	Port     int
	Database string
	Username string
	Password string
	Debug    bool
}

// DefaultClickHouseConfig returns development defaults.
func DefaultClickHouseConfig() *ClickHouseConfig {
	return &ClickHouseConfig{
		Host:     "localhost",
		Port:     9000,
		Database: "wattweaver",
		Username: "default",
		Password: "",
	}
}

// ClickHouseStore implements Store on ClickHouse. Runs are append-only,
// which maps well onto the MergeTree storage model.
type ClickHouseStore struct {
	conn clickhouse.Conn
	cfg  *ClickHouseConfig
}

// NewClickHouseStore connects to ClickHouse.
func NewClickHouseStore(cfg *ClickHouseConfig) (*ClickHouseStore, error) {
	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)},
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.Username,
			Password: cfg.Password,
		},
		Debug: cfg.Debug,
		Settings: clickhouse.Settings{
			"max_execution_time": 60,
		},
		Compression: &clickhouse.Compression{
			Method: clickhouse.CompressionLZ4,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ClickHouse: %w", err)
	}
	return &ClickHouseStore{conn: conn, cfg: cfg}, nil
}

// Ping checks database connectivity.
func (s *ClickHouseStore) Ping(ctx context.Context) error {
	return s.conn.Ping(ctx)
}

// Close closes the database connection.
func (s *ClickHouseStore) Close() error {
	return s.conn.Close()
}

// EnsureSchema creates the run history table if it does not exist.
func (s *ClickHouseStore) EnsureSchema(ctx context.Context) error {
	ddl := `
		CREATE TABLE IF NOT EXISTS energy_runs (
			id UUID,
			owner String,
			region String,
			method String,
			energy_focus Array(String),
			cost_weight Float64,
			optimized_cost Decimal(18, 6),
			baseline_cost Decimal(18, 6),
			optimized_emissions Decimal(18, 6),
			baseline_emissions Decimal(18, 6),
			optimized_reliability Float64,
			baseline_reliability Float64,
			optimized_renewable_share Float64,
			baseline_renewable_share Float64,
			created_at DateTime64(3)
		) ENGINE = MergeTree()
		ORDER BY (owner, created_at)
	`
	return s.conn.Exec(ctx, ddl)
}

func (s *ClickHouseStore) Save(ctx context.Context, rec *Record) error {
	query := `
		INSERT INTO energy_runs (
			id, owner, region, method, energy_focus, cost_weight,
			optimized_cost, baseline_cost, optimized_emissions, baseline_emissions,
			optimized_reliability, baseline_reliability,
			optimized_renewable_share, baseline_renewable_share, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	return s.conn.Exec(ctx, query,
		rec.ID,
		rec.Owner,
		rec.Region,
		rec.Method,
		rec.EnergyFocus,
		rec.CostWeight,
		rec.OptimizedCost,
		rec.BaselineCost,
		rec.OptimizedEmissions,
		rec.BaselineEmissions,
		rec.OptimizedReliability,
		rec.BaselineReliability,
		rec.OptimizedRenewableShare,
		rec.BaselineRenewableShare,
		rec.CreatedAt,
	)
}

func (s *ClickHouseStore) Get(ctx context.Context, id uuid.UUID) (*Record, error) {
	query := selectColumns + ` FROM energy_runs WHERE id = ? LIMIT 1`
	row := s.conn.QueryRow(ctx, query, id)

	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return rec, nil
}

func (s *ClickHouseStore) List(ctx context.Context, owner string, limit int) ([]*Record, error) {
	if limit <= 0 {
		limit = 50
	}
	query := selectColumns + ` FROM energy_runs WHERE owner = ? ORDER BY created_at DESC LIMIT ?`
	rows, err := s.conn.Query(ctx, query, owner, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

const selectColumns = `
	SELECT id, owner, region, method, energy_focus, cost_weight,
		   optimized_cost, baseline_cost, optimized_emissions, baseline_emissions,
		   optimized_reliability, baseline_reliability,
		   optimized_renewable_share, baseline_renewable_share, created_at
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*Record, error) {
	var rec Record
	var createdAt time.Time
	err := row.Scan(
		&rec.ID, &rec.Owner, &rec.Region, &rec.Method, &rec.EnergyFocus, &rec.CostWeight,
		&rec.OptimizedCost, &rec.BaselineCost, &rec.OptimizedEmissions, &rec.BaselineEmissions,
		&rec.OptimizedReliability, &rec.BaselineReliability,
		&rec.OptimizedRenewableShare, &rec.BaselineRenewableShare, &createdAt,
	)
	if err != nil {
		return nil, err
	}
	rec.CreatedAt = createdAt
	return &rec, nil
}
