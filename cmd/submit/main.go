package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/angelmondragon/moviereview-backend/internal/submission"
	"github.com/angelmondragon/moviereview-backend/pkg/apiclient"
	"github.com/angelmondragon/moviereview-backend/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := command().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func command() *cobra.Command {
	var (
		apiURL   string
		userID   int64
		image    string
		fields   submission.Fields
		genres   []string
		newGenre string
		timeout  time.Duration
		logLevel string
	)

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Upload a poster and create a movie",
		Long: `Upload a poster image, then create a movie that references it.

Examples:
  submit --user-id=1 --image=alien.png --title="Alien" --year=1979 --genre=Horror --genre=Sci-Fi
  submit --user-id=1 --image=heat.jpg --title="Heat" --new-genre="Crime Epic" --genre="Crime Epic"`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logg := logger.New(logger.Options{
				ServiceName: "submit",
				Level:       logger.ParseLevel(logLevel),
				Format:      "console",
				Output:      cmd.ErrOrStderr(),
			})

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			client, err := apiclient.New(apiURL)
			if err != nil {
				return err
			}

			known, err := client.ListGenres(ctx)
			if err != nil {
				return fmt.Errorf("load genres: %w", err)
			}
			names := make([]string, 0, len(known))
			for _, g := range known {
				names = append(names, g.Genre)
			}

			coordinator := submission.NewCoordinator(nil)
			coordinator.ShowCreate()
			form, err := submission.NewForm(submission.Options{
				UserID: userID,
				Client: client,
				Genres: names,
				Notify: coordinator.Handle,
				Logger: logg,
			})
			if err != nil {
				return err
			}

			if newGenre != "" {
				form.SetNewGenre(newGenre)
				if _, err := form.AddGenre(ctx); err != nil {
					return fmt.Errorf("add genre %q: %w", newGenre, err)
				}
			}

			if fields.ReleaseYr == 0 {
				fields.ReleaseYr = form.Fields().ReleaseYr
			}
			form.SetFields(fields)
			form.SelectGenres(genres...)

			if image != "" {
				data, err := os.ReadFile(image)
				if err != nil {
					return fmt.Errorf("read image: %w", err)
				}
				form.AttachImage(filepath.Base(image), data)
			}

			movie, err := form.Submit(ctx)
			fmt.Fprintln(cmd.OutOrStdout(), form.Message())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "movie_id=%d view=%s\n", movie.MovieID, coordinator.Mode())
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&apiURL, "api", envOr("MOVIEREVIEW_API_URL", "http://localhost:3000"), "API base URL")
	flags.Int64Var(&userID, "user-id", 0, "acting user id")
	flags.StringVar(&image, "image", "", "poster image path")
	flags.StringVar(&fields.Title, "title", "", "movie title")
	flags.StringVar(&fields.Desc, "desc", "", "description")
	flags.IntVar(&fields.ReleaseYr, "year", 0, "release year (defaults to the current year)")
	flags.StringVar(&fields.Director, "director", "", "director")
	flags.IntVar(&fields.Length, "length", 0, "length in minutes")
	flags.StringVar(&fields.Producer, "producer", "", "producer")
	flags.StringArrayVar(&genres, "genre", nil, "genre name (repeatable)")
	flags.StringVar(&newGenre, "new-genre", "", "create this genre before submitting")
	flags.DurationVar(&timeout, "timeout", 2*time.Minute, "overall timeout")
	flags.StringVar(&logLevel, "log-level", "warn", "log level")
	_ = cmd.MarkFlagRequired("user-id")

	return cmd
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
