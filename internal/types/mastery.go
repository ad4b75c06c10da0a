package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ConceptScores maps a lower-cased concept name to a mastery score in [0,100].
type ConceptScores map[string]int

// Clone returns an independent copy; a nil receiver yields an empty table.
func (s ConceptScores) Clone() ConceptScores {
	out := make(ConceptScores, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

type ConceptMastery struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_concept_mastery_key,priority:1" json:"user_id"`
	Topic     string    `gorm:"column:topic;not null;uniqueIndex:idx_concept_mastery_key,priority:2" json:"topic"`
	Concept   string    `gorm:"column:concept;not null;uniqueIndex:idx_concept_mastery_key,priority:3" json:"concept"`
	Score     int       `gorm:"column:score;not null;default:0" json:"score"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (ConceptMastery) TableName() string { return "concept_mastery" }

// TutorExchange is an audit row for one model call: what was asked and what the normalizer made of it.
type TutorExchange struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	Topic     string         `gorm:"column:topic;index" json:"topic"`
	Kind      string         `gorm:"column:kind;not null" json:"kind"`
	Question  string         `gorm:"column:question" json:"question"`
	Stage     string         `gorm:"column:stage" json:"stage"`
	Payload   datatypes.JSON `gorm:"column:payload" json:"payload"`
	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
}

func (TutorExchange) TableName() string { return "tutor_exchange" }
