package persistence

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// saveChildren reconciles a parent's line items: rows no longer present are
// deleted, the rest are inserted or updated
func saveChildren[T any](tx *gorm.DB, fkColumn string, parentID uuid.UUID, items []T, idOf func(*T) uuid.UUID) error {
	ids := make([]uuid.UUID, len(items))
	for i := range items {
		ids[i] = idOf(&items[i])
	}

	query := tx.Where(fkColumn+" = ?", parentID)
	if len(ids) > 0 {
		query = query.Where("id NOT IN ?", ids)
	}
	if err := query.Delete(new(T)).Error; err != nil {
		return err
	}

	for i := range items {
		if err := tx.Save(&items[i]).Error; err != nil {
			return err
		}
	}
	return nil
}
