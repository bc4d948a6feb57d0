package tenant

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ForGym returns a GORM scope that filters by gym_id.
func ForGym(gymID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("gym_id = ?", gymID)
	}
}
