package users

import (
	"context"

	"gorm.io/gorm"

	"github.com/angelmondragon/moviereview-backend/pkg/db/models"
)

// Repository exposes read access to user display data.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a users repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// NamesByIDs resolves display names in a single query. Unknown ids are absent from the map.
func (r *Repository) NamesByIDs(ctx context.Context, ids []int64) (map[int64]string, error) {
	names := make(map[int64]string, len(ids))
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return names, nil
	}

	var rows []models.User
	if err := r.db.WithContext(ctx).
		Select("user_id", "name").
		Where("user_id IN ?", ids).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		names[row.UserID] = row.Name
	}
	return names, nil
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
