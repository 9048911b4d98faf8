// Package sqlite persists simulation runs in a SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"github.com/vsinha/restock/pkg/application/dto"
	"github.com/vsinha/restock/pkg/domain/entities"
	"github.com/vsinha/restock/pkg/domain/repositories"
)

// timestamps are stored as fixed-width UTC text so they sort lexically
const timeLayout = "2006-01-02T15:04:05.000000000Z"

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	strategy TEXT NOT NULL,
	seed INTEGER NOT NULL,
	start_day INTEGER NOT NULL,
	days INTEGER NOT NULL,
	service_level REAL NOT NULL,
	total_cost TEXT NOT NULL,
	lost_sales INTEGER NOT NULL,
	orders_placed INTEGER NOT NULL,
	orders_rejected INTEGER NOT NULL,
	orders_arrived INTEGER NOT NULL,
	created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS run_items (
	run_id TEXT NOT NULL,
	position INTEGER NOT NULL,
	sku TEXT NOT NULL,
	name TEXT NOT NULL,
	stock INTEGER NOT NULL,
	total_ordered INTEGER NOT NULL,
	total_cost TEXT NOT NULL,
	lost_sales INTEGER NOT NULL,
	PRIMARY KEY (run_id, sku)
);

CREATE TABLE IF NOT EXISTS run_days (
	run_id TEXT NOT NULL,
	sku TEXT NOT NULL,
	day_offset INTEGER NOT NULL,
	stock INTEGER NOT NULL,
	demand INTEGER NOT NULL,
	reorder INTEGER NOT NULL,
	cost TEXT NOT NULL,
	PRIMARY KEY (run_id, sku, day_offset)
);

CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);
`

type runRow struct {
	ID           string          `db:"id"`
	Strategy     string          `db:"strategy"`
	Seed         int64           `db:"seed"`
	StartDay     int64           `db:"start_day"`
	Days         int64           `db:"days"`
	ServiceLevel float64         `db:"service_level"`
	TotalCost    decimal.Decimal `db:"total_cost"`
	LostSales    int64           `db:"lost_sales"`
	Placed       int64           `db:"orders_placed"`
	Rejected     int64           `db:"orders_rejected"`
	Arrived      int64           `db:"orders_arrived"`
	CreatedAt    string          `db:"created_at"`
}

type itemRow struct {
	RunID        string          `db:"run_id"`
	Position     int64           `db:"position"`
	SKU          string          `db:"sku"`
	Name         string          `db:"name"`
	Stock        int64           `db:"stock"`
	TotalOrdered int64           `db:"total_ordered"`
	TotalCost    decimal.Decimal `db:"total_cost"`
	LostSales    int64           `db:"lost_sales"`
}

type dayRow struct {
	SKU       string          `db:"sku"`
	DayOffset int64           `db:"day_offset"`
	Stock     int64           `db:"stock"`
	Demand    int64           `db:"demand"`
	Reorder   int64           `db:"reorder"`
	Cost      decimal.Decimal `db:"cost"`
}

// RunRepository stores runs in SQLite
type RunRepository struct {
	conn *sqlx.DB
}

// Verify interface compliance
var _ repositories.RunRepository = (*RunRepository)(nil)

// Open opens or creates a SQLite database at the given path
func Open(path string) (*RunRepository, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// a single writer keeps WAL mode and pragmas consistent
	conn.SetMaxOpenConns(1)

	repo := &RunRepository{conn: conn}
	if err := repo.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return repo, nil
}

// Close closes the database connection
func (r *RunRepository) Close() error {
	return r.conn.Close()
}

func (r *RunRepository) migrate() error {
	_, err := r.conn.Exec(schema)
	return err
}

// SaveRun writes the run with its items and daily history, replacing any
// previous run with the same ID
func (r *RunRepository) SaveRun(ctx context.Context, run *dto.RunResult) error {
	if run == nil {
		return fmt.Errorf("cannot save nil run")
	}

	tx, err := r.conn.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	id := run.ID.String()
	for _, table := range []string{"run_days", "run_items", "runs"} {
		column := "run_id"
		if table == "runs" {
			column = "id"
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE "+column+" = ?", id); err != nil {
			return fmt.Errorf("clear %s for %s: %w", table, id, err)
		}
	}

	_, err = tx.NamedExecContext(ctx, `INSERT INTO runs
		(id, strategy, seed, start_day, days, service_level, total_cost, lost_sales,
		 orders_placed, orders_rejected, orders_arrived, created_at)
		VALUES (:id, :strategy, :seed, :start_day, :days, :service_level, :total_cost, :lost_sales,
		 :orders_placed, :orders_rejected, :orders_arrived, :created_at)`,
		runRow{
			ID:           id,
			Strategy:     run.Strategy,
			Seed:         run.Seed,
			StartDay:     int64(run.StartDay),
			Days:         int64(run.Days),
			ServiceLevel: run.ServiceLevel,
			TotalCost:    run.TotalCost,
			LostSales:    int64(run.LostSales),
			Placed:       int64(run.Orders.Placed),
			Rejected:     int64(run.Orders.Rejected),
			Arrived:      int64(run.Orders.Arrived),
			CreatedAt:    run.CreatedAt.UTC().Format(timeLayout),
		})
	if err != nil {
		return fmt.Errorf("insert run %s: %w", run.ID, err)
	}

	itemStmt, err := tx.PreparexContext(ctx, `INSERT INTO run_items
		(run_id, position, sku, name, stock, total_ordered, total_cost, lost_sales)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer itemStmt.Close()

	dayStmt, err := tx.PreparexContext(ctx, `INSERT INTO run_days
		(run_id, sku, day_offset, stock, demand, reorder, cost)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer dayStmt.Close()

	for position, item := range run.Items {
		_, err := itemStmt.ExecContext(ctx,
			id, position, string(item.SKU), item.Name,
			int64(item.Stock), int64(item.TotalOrdered), item.TotalCost, int64(item.LostSales),
		)
		if err != nil {
			return fmt.Errorf("insert item %s: %w", item.SKU, err)
		}

		h := item.History
		for d := 0; d < h.Len(); d++ {
			_, err := dayStmt.ExecContext(ctx,
				id, string(item.SKU), d, int64(h.Stock[d]), int64(h.Demand[d]), int64(h.Reorder[d]), h.Cost[d],
			)
			if err != nil {
				return fmt.Errorf("insert day %d for %s: %w", d, item.SKU, err)
			}
		}
	}

	return tx.Commit()
}

// GetRun loads a run with its full history
func (r *RunRepository) GetRun(ctx context.Context, id uuid.UUID) (*dto.RunResult, error) {
	var row runRow
	err := r.conn.GetContext(ctx, &row, "SELECT * FROM runs WHERE id = ?", id.String())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", repositories.ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get run %s: %w", id, err)
	}

	run, err := r.loadRun(ctx, row)
	if err != nil {
		return nil, err
	}

	var days []dayRow
	err = r.conn.SelectContext(ctx, &days, `SELECT sku, day_offset, stock, demand, reorder, cost
		FROM run_days WHERE run_id = ? ORDER BY sku, day_offset`, id.String())
	if err != nil {
		return nil, fmt.Errorf("load history for %s: %w", id, err)
	}

	positions := make(map[entities.SKU]int, len(run.Items))
	for i, item := range run.Items {
		positions[item.SKU] = i
	}
	for _, d := range days {
		i, ok := positions[entities.SKU(d.SKU)]
		if !ok {
			continue
		}
		h := &run.Items[i].History
		h.Stock = append(h.Stock, entities.Quantity(d.Stock))
		h.Demand = append(h.Demand, entities.Quantity(d.Demand))
		h.Reorder = append(h.Reorder, entities.Quantity(d.Reorder))
		h.Cost = append(h.Cost, d.Cost)
	}

	return run, nil
}

// ListRuns returns up to limit runs, newest first, without daily history.
// A limit <= 0 returns all runs.
func (r *RunRepository) ListRuns(ctx context.Context, limit int) ([]*dto.RunResult, error) {
	query := "SELECT * FROM runs ORDER BY created_at DESC, rowid DESC"
	args := []interface{}{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	var rows []runRow
	if err := r.conn.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}

	runs := make([]*dto.RunResult, 0, len(rows))
	for _, row := range rows {
		run, err := r.loadRun(ctx, row)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, nil
}

// loadRun converts a run row and attaches its item summaries
func (r *RunRepository) loadRun(ctx context.Context, row runRow) (*dto.RunResult, error) {
	id, err := uuid.Parse(row.ID)
	if err != nil {
		return nil, fmt.Errorf("parse run id %q: %w", row.ID, err)
	}
	created, err := time.Parse(timeLayout, row.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at for %s: %w", row.ID, err)
	}

	var items []itemRow
	err = r.conn.SelectContext(ctx, &items, "SELECT * FROM run_items WHERE run_id = ? ORDER BY position", row.ID)
	if err != nil {
		return nil, fmt.Errorf("load items for %s: %w", row.ID, err)
	}

	run := &dto.RunResult{
		ID:           id,
		Strategy:     row.Strategy,
		Seed:         row.Seed,
		StartDay:     entities.Day(row.StartDay),
		Days:         int(row.Days),
		ServiceLevel: row.ServiceLevel,
		TotalCost:    row.TotalCost,
		LostSales:    entities.Quantity(row.LostSales),
		Orders: dto.OrderCounts{
			Placed:   int(row.Placed),
			Rejected: int(row.Rejected),
			Arrived:  int(row.Arrived),
		},
		CreatedAt: created,
		Items:     make([]dto.ItemResult, len(items)),
	}
	for i, item := range items {
		run.Items[i] = dto.ItemResult{ItemSummary: entities.ItemSummary{
			SKU:          entities.SKU(item.SKU),
			Name:         item.Name,
			Stock:        entities.Quantity(item.Stock),
			TotalOrdered: entities.Quantity(item.TotalOrdered),
			TotalCost:    item.TotalCost,
			LostSales:    entities.Quantity(item.LostSales),
		}}
	}
	return run, nil
}
