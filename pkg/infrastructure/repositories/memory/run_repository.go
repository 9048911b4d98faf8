package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/vsinha/restock/pkg/application/dto"
	"github.com/vsinha/restock/pkg/domain/repositories"
)

// RunRepository provides in-memory run storage
type RunRepository struct {
	mu      sync.RWMutex
	runs    []dto.RunResult
	runsMap map[uuid.UUID]int
}

// NewRunRepository creates a new in-memory run repository
func NewRunRepository(expectedRuns int) *RunRepository {
	return &RunRepository{
		runs:    make([]dto.RunResult, 0, expectedRuns),
		runsMap: make(map[uuid.UUID]int, expectedRuns),
	}
}

// Verify interface compliance
var _ repositories.RunRepository = (*RunRepository)(nil)

// SaveRun stores a copy of the run, replacing any run with the same ID
func (r *RunRepository) SaveRun(ctx context.Context, run *dto.RunResult) error {
	if run == nil {
		return fmt.Errorf("cannot save nil run")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if index, exists := r.runsMap[run.ID]; exists {
		r.runs[index] = *run
		return nil
	}
	r.runsMap[run.ID] = len(r.runs)
	r.runs = append(r.runs, *run)
	return nil
}

// GetRun returns the run with the given ID
func (r *RunRepository) GetRun(ctx context.Context, id uuid.UUID) (*dto.RunResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	index, exists := r.runsMap[id]
	if !exists {
		return nil, fmt.Errorf("%w: %s", repositories.ErrRunNotFound, id)
	}
	run := r.runs[index]
	return &run, nil
}

// ListRuns returns up to limit runs, newest first. A limit <= 0 returns all runs.
func (r *RunRepository) ListRuns(ctx context.Context, limit int) ([]*dto.RunResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var runs []*dto.RunResult
	for i := range r.runs {
		run := r.runs[i]
		run.Items = make([]dto.ItemResult, len(r.runs[i].Items))
		for j, item := range r.runs[i].Items {
			run.Items[j] = dto.ItemResult{ItemSummary: item.ItemSummary}
		}
		runs = append(runs, &run)
	}

	// Stable on insertion order for runs created at the same instant
	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].CreatedAt.After(runs[j].CreatedAt)
	})

	if limit > 0 && len(runs) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}
