package repos

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/learning-planner/internal/platform/dbctx"
	"github.com/yungbote/learning-planner/internal/platform/logger"
	"github.com/yungbote/learning-planner/internal/types"
)

type ConceptMasteryRepo interface {
	Snapshot(dbc dbctx.Context, userID uuid.UUID, topic string) (types.ConceptScores, error)
	SaveSnapshot(dbc dbctx.Context, userID uuid.UUID, topic string, scores types.ConceptScores) error
}

type conceptMasteryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewConceptMasteryRepo(db *gorm.DB, baseLog *logger.Logger) ConceptMasteryRepo {
	return &conceptMasteryRepo{
		db:  db,
		log: baseLog.With("repo", "ConceptMasteryRepo"),
	}
}

// TopicKey is the stored form of a topic; lookups and writes both go through it.
func TopicKey(topic string) string {
	return strings.ToLower(strings.TrimSpace(topic))
}

func (r *conceptMasteryRepo) Snapshot(dbc dbctx.Context, userID uuid.UUID, topic string) (types.ConceptScores, error) {
	out := types.ConceptScores{}
	if userID == uuid.Nil {
		return out, nil
	}
	var rows []*types.ConceptMastery
	if err := dbc.Conn(r.db).
		Where("user_id = ? AND topic = ?", userID, TopicKey(topic)).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.Concept] = row.Score
	}
	return out, nil
}

// SaveSnapshot upserts score per (user, topic, concept), keeping the higher of the stored and new
// score so a stale concurrent write never lowers it. Concepts absent from scores keep their rows.
func (r *conceptMasteryRepo) SaveSnapshot(dbc dbctx.Context, userID uuid.UUID, topic string, scores types.ConceptScores) error {
	if userID == uuid.Nil || len(scores) == 0 {
		return nil
	}
	now := time.Now().UTC()
	key := TopicKey(topic)
	rows := make([]*types.ConceptMastery, 0, len(scores))
	for concept, score := range scores {
		concept = strings.ToLower(strings.TrimSpace(concept))
		if concept == "" {
			continue
		}
		rows = append(rows, &types.ConceptMastery{
			ID:        uuid.New(),
			UserID:    userID,
			Topic:     key,
			Concept:   concept,
			Score:     score,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	if len(rows) == 0 {
		return nil
	}
	if err := dbc.Conn(r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "topic"}, {Name: "concept"}},
			DoUpdates: clause.Assignments(map[string]any{
				"score":      gorm.Expr("CASE WHEN excluded.score > concept_mastery.score THEN excluded.score ELSE concept_mastery.score END"),
				"updated_at": gorm.Expr("excluded.updated_at"),
			}),
		}).
		Create(&rows).Error; err != nil {
		r.log.Warn("save snapshot failed", "user_id", userID.String(), "topic", key, "error", err)
		return err
	}
	return nil
}
