// Package handler exposes HTTP handlers for both authenticated and public
// endpoints.  This file defines the public browsing API: guests can list
// cinemas and the movies playing at one of them on a day, which is what a
// client needs to build a generation request.
package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/iliyamo/cinema-marathon-planner/internal/repository"
)

// PublicHandler aggregates the read-only sources needed for
// unauthenticated browsing.
type PublicHandler struct {
	cinemas CinemaFinder
	movies  MovieSource
	log     zerolog.Logger
}

// NewPublicHandler constructs a PublicHandler and panics if a source is nil.
func NewPublicHandler(cinemas CinemaFinder, movies MovieSource, log zerolog.Logger) *PublicHandler {
	if cinemas == nil || movies == nil {
		panic("nil repository passed to NewPublicHandler")
	}
	return &PublicHandler{cinemas: cinemas, movies: movies, log: log.With().Str("component", "public-handler").Logger()}
}

// ListCinemas returns {"items": [...]} with every cinema.
func (h *PublicHandler) ListCinemas(c echo.Context) error {
	cinemas, err := h.cinemas.List(c.Request().Context())
	if err != nil {
		h.log.Error().Err(err).Msg("list cinemas failed")
		return fail(c, http.StatusInternalServerError, "database_error", "could not list cinemas")
	}
	return c.JSON(http.StatusOK, echo.Map{"items": cinemas})
}

// ListMovies returns the movies of a cinema on ?date=YYYY-MM-DD with their
// sessions and the duration the planner will use for each.
func (h *PublicHandler) ListMovies(c echo.Context) error {
	date := c.QueryParam("date")
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return fail(c, http.StatusBadRequest, "invalid_request", "date must match 2006-01-02")
	}
	ctx := c.Request().Context()
	code := c.Param("code")
	cinema, err := h.cinemas.GetByCode(ctx, code)
	if errors.Is(err, repository.ErrCinemaNotFound) {
		return fail(c, http.StatusNotFound, "cinema_not_found", "no cinema with code "+code)
	}
	if err != nil {
		return fail(c, http.StatusInternalServerError, "database_error", "could not load cinema")
	}
	movies, err := h.movies.ListByCinemaDate(ctx, cinema.ID, date)
	if err != nil {
		h.log.Error().Err(err).Str("cinema_code", code).Msg("list movies failed")
		return fail(c, http.StatusInternalServerError, "database_error", "could not list movies")
	}

	type publicMovie struct {
		ID              string      `json:"id"`
		Title           string      `json:"title"`
		Duration        string      `json:"duration,omitempty"`
		DurationMinutes int         `json:"duration_minutes"`
		DurationSource  string      `json:"duration_source"`
		Showtimes       interface{} `json:"showtimes"`
	}
	out := make([]publicMovie, 0, len(movies))
	for _, m := range movies {
		d := m.Duration()
		out = append(out, publicMovie{
			ID:              m.ID,
			Title:           m.Title,
			Duration:        m.DurationText,
			DurationMinutes: d.Minutes,
			DurationSource:  d.Source.String(),
			Showtimes:       m.Showtimes,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"cinema": cinema, "date": date, "items": out})
}

func itoa(n int) string { return strconv.Itoa(n) }
