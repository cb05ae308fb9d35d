package genres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/angelmondragon/moviereview-backend/pkg/db"
	"github.com/angelmondragon/moviereview-backend/pkg/db/models"
)

const uniqueNameConstraint = "genres_genre_key"

// Repository owns genre rows.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository whose statements run on tx.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindOrCreate returns the genre with the given name, inserting it first if needed.
// A concurrent insert of the same name is resolved by reloading the winner's row.
func (r *Repository) FindOrCreate(ctx context.Context, name string) (*models.Genre, error) {
	conn := r.db.WithContext(ctx)

	genre, err := findByName(conn, name)
	if err == nil {
		return genre, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("load genre %q: %w", name, err)
	}

	// inside an outer transaction this runs as a savepoint, so a failed insert leaves it usable
	row := models.Genre{Genre: name}
	err = conn.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&row).Error
	})
	if err == nil {
		return &row, nil
	}
	if !db.IsUniqueViolation(err, uniqueNameConstraint) {
		return nil, fmt.Errorf("insert genre %q: %w", name, err)
	}

	genre, err = findByName(conn, name)
	if err != nil {
		return nil, fmt.Errorf("reload genre %q: %w", name, err)
	}
	return genre, nil
}

func findByName(conn *gorm.DB, name string) (*models.Genre, error) {
	var genre models.Genre
	if err := conn.Where("genre = ?", name).First(&genre).Error; err != nil {
		return nil, err
	}
	return &genre, nil
}

// FindOrCreateMany resolves every name in order. Names are expected to be normalized.
func (r *Repository) FindOrCreateMany(ctx context.Context, names []string) ([]models.Genre, error) {
	out := make([]models.Genre, 0, len(names))
	for _, name := range names {
		genre, err := r.FindOrCreate(ctx, name)
		if err != nil {
			return nil, err
		}
		out = append(out, *genre)
	}
	return out, nil
}

// List returns every genre ordered by name.
func (r *Repository) List(ctx context.Context) ([]models.Genre, error) {
	var rows []models.Genre
	if err := r.db.WithContext(ctx).Order("genre ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// NormalizeNames trims names, drops blanks and keeps the first occurrence of each.
func NormalizeNames(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}
