package repos

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/learning-planner/internal/platform/dbctx"
	"github.com/yungbote/learning-planner/internal/platform/logger"
	"github.com/yungbote/learning-planner/internal/types"
)

const defaultRecentLimit = 20

type TutorExchangeRepo interface {
	Create(dbc dbctx.Context, row *types.TutorExchange) error
	ListRecent(dbc dbctx.Context, userID uuid.UUID, limit int) ([]*types.TutorExchange, error)
}

type tutorExchangeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTutorExchangeRepo(db *gorm.DB, baseLog *logger.Logger) TutorExchangeRepo {
	return &tutorExchangeRepo{
		db:  db,
		log: baseLog.With("repo", "TutorExchangeRepo"),
	}
}

func (r *tutorExchangeRepo) Create(dbc dbctx.Context, row *types.TutorExchange) error {
	if row == nil {
		return nil
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	return dbc.Conn(r.db).Create(row).Error
}

// ListRecent returns the newest exchanges first.
func (r *tutorExchangeRepo) ListRecent(dbc dbctx.Context, userID uuid.UUID, limit int) ([]*types.TutorExchange, error) {
	out := []*types.TutorExchange{}
	if userID == uuid.Nil {
		return out, nil
	}
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	if err := dbc.Conn(r.db).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
