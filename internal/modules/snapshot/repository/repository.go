package repository

import (
	"github.com/slackstats/workstats/internal/modules/snapshot/domain"
)

// Repository defines the interface for snapshot persistence
// This abstraction allows easy replacement of storage implementations
type Repository interface {
	Save(snapshot *domain.Snapshot) error
	MarkLatestSaved() (*domain.Snapshot, error)
	Get(id string) (*domain.Snapshot, error)
	Recent(limit int) ([]*domain.Snapshot, error)
	Close() error
}
