package repository

import (
	"context"

	"tax-estimator/domain"
)

type HistoryRepository interface {
	Save(ctx context.Context, entry domain.HistoryEntry) error
	// Recent returns at most limit entries, newest first.
	Recent(ctx context.Context, limit int) ([]domain.HistoryEntry, error)
}
