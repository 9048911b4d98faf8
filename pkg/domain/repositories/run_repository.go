package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/vsinha/restock/pkg/application/dto"
)

// ErrRunNotFound is returned when no run matches the requested ID
var ErrRunNotFound = errors.New("run not found")

// RunRepository stores completed simulation runs
type RunRepository interface {
	SaveRun(ctx context.Context, run *dto.RunResult) error
	GetRun(ctx context.Context, id uuid.UUID) (*dto.RunResult, error)
	// ListRuns returns runs ordered by creation time, newest first, without histories
	ListRuns(ctx context.Context, limit int) ([]*dto.RunResult, error)
}
