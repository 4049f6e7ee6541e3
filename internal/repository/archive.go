package repository

import (
	"context"

	"github.com/rocketscienceinc/chess-backend/internal/entity"
)

// ArchiveRepository stores finished matches. Save reports apperror.ErrRecordAlreadySaved for a
// duplicate id and FindByID reports apperror.ErrRecordNotFound for an unknown one.
type ArchiveRepository interface {
	FindByID(ctx context.Context, matchID string) (*entity.MatchRecord, error)
	Save(ctx context.Context, record *entity.MatchRecord) error
	ListByPlayer(ctx context.Context, userID string) ([]entity.MatchRecord, error)
}
