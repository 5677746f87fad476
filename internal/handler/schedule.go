package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/iliyamo/cinema-marathon-planner/internal/config"
	"github.com/iliyamo/cinema-marathon-planner/internal/model"
	"github.com/iliyamo/cinema-marathon-planner/internal/planner"
	"github.com/iliyamo/cinema-marathon-planner/internal/queue"
	"github.com/iliyamo/cinema-marathon-planner/internal/repository"
)

// ItineraryPlanner generates itineraries and serves them back by ID.
type ItineraryPlanner interface {
	Generate(ctx context.Context, req planner.Request) (*planner.Result, error)
	Lookup(ctx context.Context, id string) (model.Itinerary, error)
	Forget(ctx context.Context, id string)
}

// CinemaFinder resolves cinemas by public code.
type CinemaFinder interface {
	List(ctx context.Context) ([]model.Cinema, error)
	GetByCode(ctx context.Context, code string) (*model.Cinema, error)
}

// MovieSource loads movies with their sessions.
type MovieSource interface {
	ListByCinemaDate(ctx context.Context, cinemaID uint64, date string) ([]model.Movie, error)
	ListForPlanning(ctx context.Context, cinemaID uint64, date string, ids []string) ([]model.Movie, error)
}

// ScheduleStore persists saved schedules per user.
type ScheduleStore interface {
	Create(ctx context.Context, s *model.SavedSchedule) error
	ListByUser(ctx context.Context, userID uint64) ([]model.SavedSchedule, error)
	GetByID(ctx context.Context, userID uint64, id string) (*model.SavedSchedule, error)
	Delete(ctx context.Context, userID uint64, id string) error
}

// EventPublisher announces saved schedules.
type EventPublisher interface {
	PublishScheduleSaved(ctx context.Context, ev queue.ScheduleSavedEvent) error
}

// ScheduleHandler serves generation, saving and the saved schedule CRUD.
type ScheduleHandler struct {
	planner   ItineraryPlanner
	cinemas   CinemaFinder
	movies    MovieSource
	schedules ScheduleStore
	publisher EventPublisher // optional
	cfg       config.PlannerConfig
	log       zerolog.Logger
	now       func() time.Time
}

// NewScheduleHandler constructs a ScheduleHandler and panics if a required
// dependency is nil.  publisher may be nil to disable events.
func NewScheduleHandler(p ItineraryPlanner, cinemas CinemaFinder, movies MovieSource, schedules ScheduleStore,
	publisher EventPublisher, cfg config.PlannerConfig, log zerolog.Logger) *ScheduleHandler {
	if p == nil || cinemas == nil || movies == nil || schedules == nil {
		panic("nil dependency passed to NewScheduleHandler")
	}
	return &ScheduleHandler{
		planner:   p,
		cinemas:   cinemas,
		movies:    movies,
		schedules: schedules,
		publisher: publisher,
		cfg:       cfg,
		log:       log.With().Str("component", "schedule-handler").Logger(),
		now:       time.Now,
	}
}

type flexibilityBody struct {
	AllowLateEntry *int `json:"allow_late_entry"`
	AllowEarlyExit *int `json:"allow_early_exit"`
	BreakTime      *int `json:"break_time"`
}

type preferencesBody struct {
	PreferredStartTime string `json:"preferred_start_time"`
	AvoidLateNight     *bool  `json:"avoid_late_night"`
	PreferMatinee      *bool  `json:"prefer_matinee"`
}

type generateRequest struct {
	CinemaCode  string           `json:"cinema_code" validate:"required"`
	Date        string           `json:"date" validate:"required,datetime=2006-01-02"`
	MovieIDs    []string         `json:"movie_ids" validate:"required,min=1,dive,required"`
	Mode        string           `json:"mode" validate:"omitempty,oneof=scored feasibility"`
	Flexibility *flexibilityBody `json:"flexibility"`
	Preferences *preferencesBody `json:"preferences"`
}

type regenerateRequest struct {
	MovieIDs    []string         `json:"movie_ids" validate:"required,min=1,dive,required"`
	Flexibility *flexibilityBody `json:"flexibility"`
}

type saveRequest struct {
	ItineraryID string `json:"itinerary_id" validate:"required"`
	CinemaCode  string `json:"cinema_code"`
	Date        string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Name        string `json:"name" validate:"max=255"`
}

type generateResponse struct {
	Mode              planner.Mode      `json:"mode"`
	ScheduleID        string            `json:"schedule_id,omitempty"`
	CinemaCode        string            `json:"cinema_code"`
	Date              string            `json:"date"`
	TotalCombinations int               `json:"total_combinations"`
	Recommendations   []model.Itinerary `json:"recommendations"`
	Notices           []string          `json:"notices"`
	Excluded          []string          `json:"excluded"`
	ExpiresAt         time.Time         `json:"expires_at"`
}

// flexibility resolves the body against the 5/5/5 defaults and clamps
// every value to [0, FlexMax].  A nil body keeps the engine default.
func (h *ScheduleHandler) flexibility(b *flexibilityBody) *model.Flexibility {
	if b == nil {
		return nil
	}
	f := model.DefaultFlexibility()
	pick := func(v *int, def int) int {
		if v == nil {
			return def
		}
		return clamp(*v, 0, h.cfg.FlexMax)
	}
	f.AllowLateEntry = pick(b.AllowLateEntry, f.AllowLateEntry)
	f.AllowEarlyExit = pick(b.AllowEarlyExit, f.AllowEarlyExit)
	f.BreakTime = pick(b.BreakTime, f.BreakTime)
	return &f
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// preferences applies the defaults used when a field is absent: avoid
// late nights and prefer matinees.
func preferences(b *preferencesBody) model.Preferences {
	p := model.Preferences{AvoidLateNight: true, PreferMatinee: true}
	if b == nil {
		return p
	}
	p.PreferredStartTime = strings.TrimSpace(b.PreferredStartTime)
	if b.AvoidLateNight != nil {
		p.AvoidLateNight = *b.AvoidLateNight
	}
	if b.PreferMatinee != nil {
		p.PreferMatinee = *b.PreferMatinee
	}
	return p
}

// bind decodes and validates a body, writing the 400 response itself.
// It returns false when the handler should stop.
func bind(c echo.Context, dst interface{}) (bool, error) {
	if err := c.Bind(dst); err != nil {
		return false, fail(c, http.StatusBadRequest, "invalid_request", "request body is not valid JSON")
	}
	if err := c.Validate(dst); err != nil {
		return false, fail(c, http.StatusBadRequest, "invalid_request", describeValidation(err))
	}
	return true, nil
}

// loadMovies resolves the cinema and the requested movies.  It writes the
// error response itself and returns ok=false when any lookup fails.
func (h *ScheduleHandler) loadMovies(c echo.Context, code, date string, ids []string) ([]model.Movie, bool, error) {
	ctx := c.Request().Context()
	if len(ids) > h.cfg.MaxMovies {
		return nil, false, fail(c, http.StatusBadRequest, "too_many_movies",
			"at most "+itoa(h.cfg.MaxMovies)+" movies can be planned at once")
	}
	cinema, err := h.cinemas.GetByCode(ctx, code)
	if errors.Is(err, repository.ErrCinemaNotFound) {
		return nil, false, fail(c, http.StatusNotFound, "cinema_not_found", "no cinema with code "+code)
	}
	if err != nil {
		h.log.Error().Err(err).Str("cinema_code", code).Msg("cinema lookup failed")
		return nil, false, fail(c, http.StatusInternalServerError, "database_error", "could not load cinema")
	}
	movies, err := h.movies.ListForPlanning(ctx, cinema.ID, date, ids)
	if err != nil {
		h.log.Error().Err(err).Str("cinema_code", code).Str("date", date).Msg("movie lookup failed")
		return nil, false, fail(c, http.StatusInternalServerError, "database_error", "could not load movies")
	}
	if missing := missingIDs(ids, movies); len(missing) > 0 {
		return nil, false, c.JSON(http.StatusNotFound, echo.Map{
			"error":   "movie_not_found",
			"message": "some movies are not playing at " + code + " on " + date,
			"missing": missing,
		})
	}
	return movies, true, nil
}

func missingIDs(ids []string, movies []model.Movie) []string {
	found := make(map[string]bool, len(movies))
	for _, m := range movies {
		found[m.ID] = true
	}
	var out []string
	for _, id := range ids {
		if !found[strings.TrimSpace(id)] {
			out = append(out, id)
		}
	}
	return out
}

// generate runs the planner under the configured deadline and maps its
// errors to responses.
func (h *ScheduleHandler) generate(c echo.Context, req planner.Request) (*planner.Result, bool, error) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.cfg.GenerateTimeout)
	defer cancel()

	res, err := h.planner.Generate(ctx, req)
	switch {
	case err == nil:
		return res, true, nil
	case errors.Is(err, planner.ErrTooManyCombinations):
		return nil, false, fail(c, http.StatusUnprocessableEntity, "too_many_combinations", err.Error())
	case errors.Is(err, planner.ErrNoCombinations):
		return nil, false, fail(c, http.StatusUnprocessableEntity, "no_combinations", err.Error())
	case errors.Is(err, planner.ErrInput):
		return nil, false, fail(c, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return nil, false, fail(c, http.StatusGatewayTimeout, "generation_timeout", "generation took too long; plan fewer movies")
	case errors.Is(err, context.Canceled):
		return nil, false, nil
	default:
		h.log.Error().Err(err).Msg("generation failed")
		return nil, false, fail(c, http.StatusInternalServerError, "generation_failed", "could not generate itineraries")
	}
}

// Generate handles POST /v1/schedules/generate.
func (h *ScheduleHandler) Generate(c echo.Context) error {
	var req generateRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}
	movies, ok, err := h.loadMovies(c, req.CinemaCode, req.Date, req.MovieIDs)
	if !ok {
		return err
	}
	res, ok, err := h.generate(c, planner.Request{
		Movies:      movies,
		Flexibility: h.flexibility(req.Flexibility),
		Preferences: preferences(req.Preferences),
		Mode:        planner.Mode(req.Mode),
		CinemaCode:  req.CinemaCode,
		Date:        req.Date,
	})
	if !ok {
		return err
	}
	mode := planner.Mode(req.Mode)
	if mode == "" {
		mode = planner.ModeScored
	}
	return c.JSON(http.StatusOK, newGenerateResponse(mode, req.CinemaCode, req.Date, res))
}

func newGenerateResponse(mode planner.Mode, code, date string, res *planner.Result) generateResponse {
	return generateResponse{
		Mode:              mode,
		CinemaCode:        code,
		Date:              date,
		TotalCombinations: res.TotalCombinations,
		Recommendations:   res.Itineraries,
		Notices:           res.Notices,
		Excluded:          res.Excluded,
		ExpiresAt:         res.ExpiresAt,
	}
}

// Save handles POST /v1/schedules/save.  The itinerary must still be in
// the result cache; once persisted it is dropped from the cache so it can
// only be saved once.
func (h *ScheduleHandler) Save(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "unauthorized", err.Error())
	}
	var req saveRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}
	ctx := c.Request().Context()

	it, err := h.planner.Lookup(ctx, req.ItineraryID)
	if errors.Is(err, planner.ErrItineraryNotFound) {
		return fail(c, http.StatusNotFound, "itinerary_not_found", err.Error())
	}
	if err != nil {
		h.log.Error().Err(err).Str("itinerary_id", req.ItineraryID).Msg("itinerary lookup failed")
		return fail(c, http.StatusInternalServerError, "cache_error", "could not load itinerary")
	}
	code, date, ok, err := saveTarget(c, it, req)
	if !ok {
		return err
	}
	if _, err := h.cinemas.GetByCode(ctx, code); err != nil {
		if errors.Is(err, repository.ErrCinemaNotFound) {
			return fail(c, http.StatusNotFound, "cinema_not_found", "no cinema with code "+code)
		}
		return fail(c, http.StatusInternalServerError, "database_error", "could not load cinema")
	}

	saved := model.NewSavedSchedule(it, userID, code, date, strings.TrimSpace(req.Name), h.now())
	if err := h.schedules.Create(ctx, &saved); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return fail(c, http.StatusConflict, "already_saved", "this itinerary has already been saved")
		}
		h.log.Error().Err(err).Str("itinerary_id", it.ID).Msg("save schedule failed")
		return fail(c, http.StatusInternalServerError, "database_error", "could not save schedule")
	}
	h.planner.Forget(ctx, it.ID)
	h.publishSaved(ctx, saved)

	h.log.Info().Str("schedule_id", saved.ID).Uint64("user_id", userID).Int("items", len(saved.Items)).Msg("schedule saved")
	return c.JSON(http.StatusCreated, saved)
}

// saveTarget resolves the cinema and day a schedule is stored under.  The
// values recorded at generation win; the request may repeat them but not
// contradict them, and only fills them in for itineraries cached without.
func saveTarget(c echo.Context, it model.Itinerary, req saveRequest) (string, string, bool, error) {
	code, date := it.CinemaCode, it.Date
	if code != "" && req.CinemaCode != "" && req.CinemaCode != code {
		return "", "", false, fail(c, http.StatusBadRequest, "itinerary_mismatch",
			"itinerary was generated for cinema "+code)
	}
	if date != "" && req.Date != "" && req.Date != date {
		return "", "", false, fail(c, http.StatusBadRequest, "itinerary_mismatch",
			"itinerary was generated for "+date)
	}
	if code == "" {
		code = req.CinemaCode
	}
	if date == "" {
		date = req.Date
	}
	if code == "" || date == "" {
		return "", "", false, fail(c, http.StatusBadRequest, "invalid_request", "cinema_code and date are required")
	}
	return code, date, true, nil
}

// publishSaved announces a schedule.  Failures are logged by the
// publisher and never fail the request.
func (h *ScheduleHandler) publishSaved(ctx context.Context, s model.SavedSchedule) {
	if h.publisher == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 3*time.Second)
	defer cancel()
	_ = h.publisher.PublishScheduleSaved(ctx, queue.NewScheduleSavedEvent(s))
}

// List handles GET /v1/schedules.
func (h *ScheduleHandler) List(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "unauthorized", err.Error())
	}
	items, err := h.schedules.ListByUser(c.Request().Context(), userID)
	if err != nil {
		h.log.Error().Err(err).Uint64("user_id", userID).Msg("list schedules failed")
		return fail(c, http.StatusInternalServerError, "database_error", "could not list schedules")
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Get handles GET /v1/schedules/:id.
func (h *ScheduleHandler) Get(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "unauthorized", err.Error())
	}
	s, err := h.schedules.GetByID(c.Request().Context(), userID, c.Param("id"))
	if errors.Is(err, repository.ErrScheduleNotFound) {
		return fail(c, http.StatusNotFound, "schedule_not_found", err.Error())
	}
	if err != nil {
		return fail(c, http.StatusInternalServerError, "database_error", "could not load schedule")
	}
	return c.JSON(http.StatusOK, s)
}

// Delete handles DELETE /v1/schedules/:id.
func (h *ScheduleHandler) Delete(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "unauthorized", err.Error())
	}
	err = h.schedules.Delete(c.Request().Context(), userID, c.Param("id"))
	if errors.Is(err, repository.ErrScheduleNotFound) {
		return fail(c, http.StatusNotFound, "schedule_not_found", err.Error())
	}
	if err != nil {
		return fail(c, http.StatusInternalServerError, "database_error", "could not delete schedule")
	}
	return c.NoContent(http.StatusNoContent)
}

// Regenerate handles POST /v1/schedules/:id/regenerate.  It plans a new
// movie list for the cinema and day of a saved schedule using the plain
// feasibility ranking; the saved schedule itself is left untouched until
// one of the new itineraries is saved.
func (h *ScheduleHandler) Regenerate(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "unauthorized", err.Error())
	}
	saved, err := h.schedules.GetByID(c.Request().Context(), userID, c.Param("id"))
	if errors.Is(err, repository.ErrScheduleNotFound) {
		return fail(c, http.StatusNotFound, "schedule_not_found", err.Error())
	}
	if err != nil {
		return fail(c, http.StatusInternalServerError, "database_error", "could not load schedule")
	}

	var req regenerateRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}
	movies, ok, err := h.loadMovies(c, saved.CinemaCode, saved.Date, req.MovieIDs)
	if !ok {
		return err
	}
	res, ok, err := h.generate(c, planner.Request{
		Movies:      movies,
		Flexibility: h.flexibility(req.Flexibility),
		Mode:        planner.ModeFeasibility,
		CinemaCode:  saved.CinemaCode,
		Date:        saved.Date,
	})
	if !ok {
		return err
	}
	out := newGenerateResponse(planner.ModeFeasibility, saved.CinemaCode, saved.Date, res)
	out.ScheduleID = saved.ID
	return c.JSON(http.StatusOK, out)
}
