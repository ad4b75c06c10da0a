package db

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/learning-planner/internal/types"
)

func AutoMigrateAll(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&types.ConceptMastery{},
		&types.TutorExchange{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
