package presence

import (
	"context"

	"github.com/uniride/uniride/internal/pkg/models"
)

// PresenceRepo caches live positions so proximity queries can run against
// the current population without round-tripping the coordination endpoint.
//go:generate mockgen -destination=mocks/mock_repository.go -package=mocks github.com/uniride/uniride/services/presence PresenceRepo
type PresenceRepo interface {
	UpsertPosition(ctx context.Context, pos models.Position) error
	ListPositions(ctx context.Context) ([]models.Position, error)
	RemovePosition(ctx context.Context, subjectID string) error
}
