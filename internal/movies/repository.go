package movies

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/angelmondragon/moviereview-backend/internal/genres"
	"github.com/angelmondragon/moviereview-backend/internal/reviews"
	"github.com/angelmondragon/moviereview-backend/internal/users"
	"github.com/angelmondragon/moviereview-backend/pkg/db"
	"github.com/angelmondragon/moviereview-backend/pkg/db/models"
)

// ErrMissingPrimaryKey is returned when the movie insert yields no id.
var ErrMissingPrimaryKey = errors.New("movie insert returned no primary key")

const summaryColumns = `m.movie_id, m.user_id, m.title, m.img, m."desc", m.release_yr, m.director, m.length, m.producer,
CAST(AVG(rr.rating) AS DOUBLE PRECISION) AS average_rating`

const genreExistsClause = `EXISTS (
  SELECT 1 FROM movie_genres mgf
  JOIN genres gf ON gf.genre_id = mgf.genre_id
  WHERE mgf.movie_id = m.movie_id AND gf.genre = ?
)`

// Repository owns movies and the rows that hang off them.
type Repository struct {
	db      *gorm.DB
	tx      db.Transactor
	genres  *genres.Repository
	reviews *reviews.Repository
	users   *users.Repository
}

// NewRepository binds the movie repository and its collaborators to client.
func NewRepository(client *db.Client) *Repository {
	conn := client.DB()
	return &Repository{
		db:      conn,
		tx:      client,
		genres:  genres.NewRepository(conn),
		reviews: reviews.NewRepository(conn),
		users:   users.NewRepository(conn),
	}
}

// Create inserts the movie, finds or creates each genre and links them, all in one transaction.
func (r *Repository) Create(ctx context.Context, movie *models.Movie, genreNames []string) (*models.Movie, error) {
	names := genres.NormalizeNames(genreNames)

	err := r.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := tx.Create(movie).Error; err != nil {
			return fmt.Errorf("insert movie: %w", err)
		}
		if movie.MovieID == 0 {
			return ErrMissingPrimaryKey
		}
		return r.linkGenres(ctx, tx, movie.MovieID, names)
	})
	if err != nil {
		return nil, err
	}
	return movie, nil
}

func (r *Repository) linkGenres(ctx context.Context, tx *gorm.DB, movieID int64, names []string) error {
	if len(names) == 0 {
		return nil
	}
	rows, err := r.genres.WithTx(tx).FindOrCreateMany(ctx, names)
	if err != nil {
		return err
	}
	links := make([]models.MovieGenre, 0, len(rows))
	for _, g := range rows {
		links = append(links, models.MovieGenre{MovieID: movieID, GenreID: g.GenreID})
	}
	if err := tx.Create(&links).Error; err != nil {
		return fmt.Errorf("link genres: %w", err)
	}
	return nil
}

// FindByID loads a bare movie row.
func (r *Repository) FindByID(ctx context.Context, id int64) (*models.Movie, error) {
	var movie models.Movie
	if err := r.db.WithContext(ctx).First(&movie, "movie_id = ?", id).Error; err != nil {
		return nil, err
	}
	return &movie, nil
}

// Exists reports whether a movie row with id is present.
func (r *Repository) Exists(ctx context.Context, id int64) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Movie{}).Where("movie_id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Describe composes a movie row with its mean rating, owner, genres and reviews.
// Everything except the row itself is read fresh on each call.
func (r *Repository) Describe(ctx context.Context, movie MovieDTO) (*MovieDetailDTO, error) {
	id := movie.MovieID

	rrs, err := r.reviews.ListByMovie(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load reviews: %w", err)
	}

	userIDs := make([]int64, 0, len(rrs)+1)
	userIDs = append(userIDs, movie.UserID)
	for _, rr := range rrs {
		userIDs = append(userIDs, rr.UserID)
	}
	names, err := r.users.NamesByIDs(ctx, userIDs)
	if err != nil {
		return nil, fmt.Errorf("load user names: %w", err)
	}

	genreNames, err := r.genreNamesForMovie(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load genres: %w", err)
	}

	owner, ok := names[movie.UserID]
	if !ok {
		owner = UnknownUser
	}

	entries := make([]ReviewEntry, 0, len(rrs))
	for _, rr := range rrs {
		entry := ReviewEntry{
			RRID:   rr.RRID,
			UserID: rr.UserID,
			Review: rr.Review,
			Rating: rr.Rating,
		}
		if name, ok := names[rr.UserID]; ok {
			entry.User = &name
		}
		entries = append(entries, entry)
	}

	return &MovieDetailDTO{
		MovieDTO: movie,
		Rating:   reviews.AverageRating(rrs),
		Genres:   genreNames,
		User:     owner,
		RR:       entries,
	}, nil
}

func (r *Repository) genreNamesForMovie(ctx context.Context, movieID int64) ([]string, error) {
	var rows []sql.NullString
	if err := r.db.WithContext(ctx).
		Table("movie_genres mg").
		Joins("LEFT JOIN genres g ON g.genre_id = mg.genre_id").
		Where("mg.movie_id = ?", movieID).
		Order("mg.genre_id ASC").
		Pluck("g.genre", &rows).Error; err != nil {
		return nil, err
	}
	out := make([]string, 0, len(rows))
	for _, row := range rows {
		if row.Valid {
			out = append(out, row.String)
		} else {
			out = append(out, UnknownGenre)
		}
	}
	return out, nil
}

// ListByUser returns the user's movies newest first.
func (r *Repository) ListByUser(ctx context.Context, userID int64) ([]MovieSummaryDTO, error) {
	return r.summaries(ctx, ownedBy(userID))
}

// Search filters by case-insensitive title substring and exact genre name.
func (r *Repository) Search(ctx context.Context, filters SearchFilters) ([]MovieSummaryDTO, error) {
	return r.summaries(ctx, matching(filters))
}

func ownedBy(userID int64) func(*gorm.DB) *gorm.DB {
	return func(q *gorm.DB) *gorm.DB {
		return q.Where("m.user_id = ?", userID)
	}
}

func matching(filters SearchFilters) func(*gorm.DB) *gorm.DB {
	title := strings.TrimSpace(filters.Title)
	genre := strings.TrimSpace(filters.Genre)
	return func(q *gorm.DB) *gorm.DB {
		if title != "" {
			q = q.Where(`LOWER(m.title) LIKE LOWER(?) ESCAPE '\'`, "%"+escapeLike(title)+"%")
		}
		if genre != "" {
			q = q.Where(genreExistsClause, genre)
		}
		return q
	}
}

type summaryRecord struct {
	MovieID       int64    `gorm:"column:movie_id"`
	UserID        int64    `gorm:"column:user_id"`
	Title         string   `gorm:"column:title"`
	Img           string   `gorm:"column:img"`
	Desc          string   `gorm:"column:desc"`
	ReleaseYr     int      `gorm:"column:release_yr"`
	Director      string   `gorm:"column:director"`
	Length        int      `gorm:"column:length"`
	Producer      string   `gorm:"column:producer"`
	AverageRating *float64 `gorm:"column:average_rating"`
}

func (s summaryRecord) toDTO(genreNames []string) MovieSummaryDTO {
	if genreNames == nil {
		genreNames = []string{}
	}
	return MovieSummaryDTO{
		MovieDTO: MovieDTO{
			MovieID:   s.MovieID,
			UserID:    s.UserID,
			Title:     s.Title,
			Img:       s.Img,
			Desc:      s.Desc,
			ReleaseYr: s.ReleaseYr,
			Director:  s.Director,
			Length:    s.Length,
			Producer:  s.Producer,
		},
		AverageRating: s.AverageRating,
		Genres:        genreNames,
	}
}

// summaryQuery averages ratings in the database. The cast keeps postgres from handing back NUMERIC text.
func (r *Repository) summaryQuery(ctx context.Context, filter func(*gorm.DB) *gorm.DB) *gorm.DB {
	query := r.db.WithContext(ctx).
		Table("movies m").
		Select(summaryColumns).
		Joins("LEFT JOIN ratings_reviews rr ON rr.movie_id = m.movie_id")
	return filter(query).
		Group("m.movie_id").
		Order("m.movie_id DESC")
}

func (r *Repository) summaries(ctx context.Context, filter func(*gorm.DB) *gorm.DB) ([]MovieSummaryDTO, error) {
	var records []summaryRecord
	if err := r.summaryQuery(ctx, filter).Scan(&records).Error; err != nil {
		return nil, fmt.Errorf("query movie summaries: %w", err)
	}
	if len(records) == 0 {
		return []MovieSummaryDTO{}, nil
	}

	ids := make([]int64, 0, len(records))
	for _, rec := range records {
		ids = append(ids, rec.MovieID)
	}
	byMovie, err := r.genreNamesByMovie(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load genres: %w", err)
	}

	out := make([]MovieSummaryDTO, 0, len(records))
	for _, rec := range records {
		out = append(out, rec.toDTO(byMovie[rec.MovieID]))
	}
	return out, nil
}

type movieGenreName struct {
	MovieID int64  `gorm:"column:movie_id"`
	Genre   string `gorm:"column:genre"`
}

func (r *Repository) genreNamesByMovie(ctx context.Context, movieIDs []int64) (map[int64][]string, error) {
	var rows []movieGenreName
	if err := r.db.WithContext(ctx).
		Table("movie_genres mg").
		Select("mg.movie_id, g.genre").
		Joins("JOIN genres g ON g.genre_id = mg.genre_id").
		Where("mg.movie_id IN ?", movieIDs).
		Order("mg.movie_id ASC, mg.genre_id ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[int64][]string, len(movieIDs))
	for _, row := range rows {
		out[row.MovieID] = append(out[row.MovieID], row.Genre)
	}
	return out, nil
}

// Update applies the provided fields and, when a genre list is given, replaces the genre set.
// Returns gorm.ErrRecordNotFound when the movie is absent.
func (r *Repository) Update(ctx context.Context, id int64, patch UpdateMovieRequest) (*models.Movie, error) {
	var movie models.Movie
	err := r.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := tx.First(&movie, "movie_id = ?", id).Error; err != nil {
			return err
		}
		if cols := patch.columns(); len(cols) > 0 {
			if err := tx.Model(&movie).Updates(cols).Error; err != nil {
				return fmt.Errorf("update movie: %w", err)
			}
		}
		if patch.Genre != nil {
			if err := tx.Where("movie_id = ?", id).Delete(&models.MovieGenre{}).Error; err != nil {
				return fmt.Errorf("clear genres: %w", err)
			}
			if err := r.linkGenres(ctx, tx, id, genres.NormalizeNames(patch.Genre)); err != nil {
				return err
			}
		}
		return tx.First(&movie, "movie_id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}
	return &movie, nil
}

// Delete removes the movie together with its reviews and genre links atomically.
// Deleting an id that does not exist succeeds.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	return r.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := r.reviews.WithTx(tx).DeleteByMovie(ctx, id); err != nil {
			return fmt.Errorf("delete reviews: %w", err)
		}
		if err := tx.Where("movie_id = ?", id).Delete(&models.MovieGenre{}).Error; err != nil {
			return fmt.Errorf("delete genre links: %w", err)
		}
		if err := tx.Where("movie_id = ?", id).Delete(&models.Movie{}).Error; err != nil {
			return fmt.Errorf("delete movie: %w", err)
		}
		return nil
	})
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
