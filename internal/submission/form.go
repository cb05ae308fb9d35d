package submission

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"github.com/angelmondragon/moviereview-backend/internal/genres"
	"github.com/angelmondragon/moviereview-backend/internal/movies"
	"github.com/angelmondragon/moviereview-backend/pkg/logger"
)

const (
	MsgImageRequired = "Please select an image before submitting."
	MsgSubmitFailed  = "Image upload or movie submission failed."
	MsgSubmitted     = "Movie successfully added!"
)

// ErrImageRequired is returned by Submit when no image is attached.
var ErrImageRequired = errors.New("image required")

// Event is emitted by the form to whoever owns the surrounding view.
type Event int

const (
	// EventRefresh asks the owner to reload genres and listings.
	EventRefresh Event = iota + 1
	// EventSubmitted follows a successful movie creation.
	EventSubmitted
)

func (e Event) String() string {
	switch e {
	case EventRefresh:
		return "refresh"
	case EventSubmitted:
		return "submitted"
	default:
		return "unknown"
	}
}

// API is the server surface the form needs. Satisfied by pkg/apiclient.Client.
type API interface {
	UploadImage(ctx context.Context, fileName string, data []byte) (string, error)
	CreateMovie(ctx context.Context, req movies.CreateMovieRequest) (movies.MovieDTO, error)
	CreateGenre(ctx context.Context, name string) (genres.GenreDTO, error)
}

// Fields are the free-form movie inputs.
type Fields struct {
	Title     string
	Desc      string
	ReleaseYr int
	Director  string
	Length    int
	Producer  string
}

// Image is an attached but not yet uploaded poster.
type Image struct {
	Name    string
	Data    []byte
	Preview string
}

// Options configures a Form. UserID and Client are required.
type Options struct {
	UserID int64
	Client API
	Clock  func() time.Time
	Genres []string
	Notify func(Event)
	Logger *logger.Logger
}

// Form holds the state of one movie submission. It is not safe for concurrent use.
type Form struct {
	userID int64
	client API
	clock  func() time.Time
	notify func(Event)
	logg   *logger.Logger

	known    []string
	fields   Fields
	selected []string
	newGenre string
	image    *Image
	message  string
}

func NewForm(opts Options) (*Form, error) {
	if opts.UserID <= 0 {
		return nil, errors.New("user id is required")
	}
	if opts.Client == nil {
		return nil, errors.New("api client is required")
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	notify := opts.Notify
	if notify == nil {
		notify = func(Event) {}
	}
	logg := opts.Logger
	if logg == nil {
		logg = logger.Nop()
	}

	f := &Form{
		userID: opts.UserID,
		client: opts.Client,
		clock:  clock,
		notify: notify,
		logg:   logg,
		known:  append([]string(nil), opts.Genres...),
	}
	f.reset()
	return f, nil
}

func (f *Form) reset() {
	f.fields = Fields{ReleaseYr: f.clock().Year()}
	f.selected = nil
	f.image = nil
}

func (f *Form) Fields() Fields {
	return f.fields
}

func (f *Form) SetFields(fields Fields) {
	f.fields = fields
}

// SetKnownGenres replaces the list new genres are checked against.
func (f *Form) SetKnownGenres(names []string) {
	f.known = append(f.known[:0], names...)
}

// SelectGenres replaces the selected genre names.
func (f *Form) SelectGenres(names ...string) {
	f.selected = append([]string(nil), names...)
}

func (f *Form) SelectedGenres() []string {
	return append([]string(nil), f.selected...)
}

// SetNewGenre stores the pending add-genre text.
func (f *Form) SetNewGenre(name string) {
	f.newGenre = name
}

func (f *Form) NewGenre() string {
	return f.newGenre
}

func (f *Form) Message() string {
	return f.message
}

// Image returns the attached image or nil.
func (f *Form) Image() *Image {
	return f.image
}

func (f *Form) isKnown(name string) bool {
	for _, g := range f.known {
		if g == name {
			return true
		}
	}
	return false
}

// AddGenre posts the pending genre when it is non-empty and not already known. It returns
// false without a request otherwise. On success the input clears and a refresh is emitted.
func (f *Form) AddGenre(ctx context.Context) (bool, error) {
	name := strings.TrimSpace(f.newGenre)
	if name == "" || f.isKnown(name) {
		return false, nil
	}

	genre, err := f.client.CreateGenre(ctx, name)
	if err != nil {
		f.logg.Error(f.logg.WithField(ctx, "genre", name), "submission.add_genre_failed", err)
		return false, err
	}

	f.known = append(f.known, genre.Genre)
	f.newGenre = ""
	f.notify(EventRefresh)
	return true, nil
}

// AttachImage stores data with a data-URI preview. Nothing is uploaded until Submit.
func (f *Form) AttachImage(name string, data []byte) {
	mt := mimetype.Detect(data)
	f.image = &Image{
		Name:    name,
		Data:    data,
		Preview: "data:" + mt.String() + ";base64," + base64.StdEncoding.EncodeToString(data),
	}
}

func (f *Form) CancelImage() {
	f.image = nil
}

// Submit uploads the image, then creates the movie. Without an image it sets a message and
// makes no request. Any failure leaves the form intact for a retry.
func (f *Form) Submit(ctx context.Context) (movies.MovieDTO, error) {
	f.message = ""
	if f.image == nil {
		f.message = MsgImageRequired
		return movies.MovieDTO{}, ErrImageRequired
	}

	ctx = f.logg.WithUserID(ctx, f.userID)
	filePath, err := f.client.UploadImage(ctx, f.image.Name, f.image.Data)
	if err != nil {
		return movies.MovieDTO{}, f.fail(ctx, "submission.upload_failed", err)
	}

	movie, err := f.client.CreateMovie(ctx, f.request(filePath))
	if err != nil {
		return movies.MovieDTO{}, f.fail(ctx, "submission.create_failed", err)
	}

	f.reset()
	f.notify(EventRefresh)
	f.notify(EventSubmitted)
	f.message = MsgSubmitted
	f.logg.Info(f.logg.WithMovieID(ctx, movie.MovieID), "submission.completed")
	return movie, nil
}

func (f *Form) request(filePath string) movies.CreateMovieRequest {
	return movies.CreateMovieRequest{
		UserID:    f.userID,
		Title:     f.fields.Title,
		Img:       filePath,
		Desc:      f.fields.Desc,
		ReleaseYr: f.fields.ReleaseYr,
		Director:  f.fields.Director,
		Length:    f.fields.Length,
		Producer:  f.fields.Producer,
		Genre:     append([]string{}, f.selected...),
	}
}

func (f *Form) fail(ctx context.Context, msg string, err error) error {
	f.logg.Error(ctx, msg, err)
	f.message = MsgSubmitFailed
	return err
}
