package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cinebook/movie-reservation/internal/booking"
	"github.com/cinebook/movie-reservation/internal/model"
	"github.com/cinebook/movie-reservation/internal/queue"
	"github.com/cinebook/movie-reservation/internal/repository"
	queue_publisher "github.com/cinebook/movie-reservation/internal/service"
)

// The handler reads its data through narrow interfaces so the success
// paths are testable with in-memory fakes; the concrete repositories
// satisfy them.

// MovieStore resolves movies by primary key.
type MovieStore interface {
	GetByID(ctx context.Context, id uint64) (*model.Movie, error)
}

// ScheduleStore resolves schedules by primary key.
type ScheduleStore interface {
	GetByID(ctx context.Context, id uint64) (*model.Schedule, error)
}

// SheetStore resolves sheets and lists a screen's layout.
type SheetStore interface {
	GetByID(ctx context.Context, id uint64) (*model.Sheet, error)
	ListByScreen(ctx context.Context, screenID uint64) ([]model.Sheet, error)
}

// UserStore resolves user profiles.
type UserStore interface {
	GetByID(ctx context.Context, id uint64) (model.User, error)
}

// ReservationStore serves the read side of the booking endpoints;
// writes go through the booking service.
type ReservationStore interface {
	ReservedSheetIDs(ctx context.Context, scheduleID uint64, date string) (map[uint64]bool, error)
	ListByUser(ctx context.Context, userID uint64) ([]repository.ReservationDetail, error)
}

// PublishFunc emits a reservation.created event to the broker.
type PublishFunc func(ctx context.Context, event queue.ReservationCreatedEvent) error

// ReservationHandler serves the customer-facing booking endpoints:
// the per-schedule availability view, reservation creation, and the
// caller's reservation history. The admission decision itself lives in
// the booking service; the handler resolves the acting user, shapes
// the JSON, and maps rejection errors to HTTP statuses.
type ReservationHandler struct {
	Movies       MovieStore
	Schedules    ScheduleStore
	Sheets       SheetStore
	Users        UserStore
	Reservations ReservationStore
	Booking      *booking.Service
	Publish      PublishFunc
}

// NewReservationHandler wires the handler with its stores, the booking
// service and the RabbitMQ publisher.
func NewReservationHandler(
	movies MovieStore,
	schedules ScheduleStore,
	sheets SheetStore,
	users UserStore,
	reservations ReservationStore,
	svc *booking.Service,
) *ReservationHandler {
	return &ReservationHandler{
		Movies:       movies,
		Schedules:    schedules,
		Sheets:       sheets,
		Users:        users,
		Reservations: reservations,
		Booking:      svc,
		Publish:      queue_publisher.PublishReservationCreated,
	}
}

// getUserID extracts the authenticated user's ID placed into the
// context by JWTAuth. JWT numeric claims decode as float64; tokens
// minted by other tooling may carry the subject as a string.
func getUserID(c echo.Context) (uint64, bool) {
	switch v := c.Get("user_id").(type) {
	case float64:
		return uint64(v), true
	case uint64:
		return v, true
	case string:
		if id, err := strconv.ParseUint(v, 10, 64); err == nil {
			return id, true
		}
	}
	return 0, false
}

// sheetView is one seat in the availability response.
type sheetView struct {
	ID          uint64 `json:"id"`
	RowLabel    string `json:"row_label"`
	SheetNumber uint32 `json:"sheet_number"`
	Taken       bool   `json:"taken"`
}

// Availability handles GET /v1/schedules/:id/availability. It answers
// whether the requested sheet is free for the schedule on the given
// date and returns the full seat layout of the schedule's screen with
// taken markers, so a client can render the picker from one call.
//
// Query parameters: sheet_id (required), date (required, 2006-01-02).
func (h *ReservationHandler) Availability(c echo.Context) error {
	scheduleID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || scheduleID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid schedule id"})
	}
	sheetID, err := strconv.ParseUint(c.QueryParam("sheet_id"), 10, 64)
	if err != nil || sheetID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "sheet_id is required"})
	}
	date := c.QueryParam("date")
	if date == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date is required"})
	}

	ctx := c.Request().Context()

	schedule, err := h.Schedules.GetByID(ctx, scheduleID)
	if err != nil {
		if errors.Is(err, repository.ErrScheduleNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "schedule not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load schedule"})
	}
	movie, err := h.Movies.GetByID(ctx, schedule.MovieID)
	if err != nil {
		if errors.Is(err, repository.ErrMovieNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load movie"})
	}
	sheet, err := h.Sheets.GetByID(ctx, sheetID)
	if err != nil {
		if errors.Is(err, repository.ErrSheetNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "sheet not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load sheet"})
	}
	if sheet.ScreenID != schedule.ScreenID {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "sheet does not belong to the schedule's screen"})
	}

	available, err := h.Booking.CheckAvailability(ctx, scheduleID, sheetID, date)
	if err != nil {
		var ve *booking.ValidationError
		if errors.As(err, &ve) {
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "validation failed", "fields": ve.Fields})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "availability check failed"})
	}

	layout, err := h.Sheets.ListByScreen(ctx, schedule.ScreenID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load sheets"})
	}
	taken, err := h.Reservations.ReservedSheetIDs(ctx, scheduleID, date)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load reservations"})
	}

	views := make([]sheetView, 0, len(layout))
	for _, s := range layout {
		views = append(views, sheetView{
			ID:          s.ID,
			RowLabel:    s.RowLabel,
			SheetNumber: s.SheetNumber,
			Taken:       taken[s.ID],
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"schedule_id": schedule.ID,
		"movie_name":  movie.Name,
		"starts_at":   schedule.StartsAt,
		"screen_id":   schedule.ScreenID,
		"sheet_id":    sheetID,
		"date":        date,
		"available":   available,
		"sheets":      views,
	})
}

// createRequest is the body of POST /v1/reservations. The holder's
// name and email are deliberately absent: they are copied from the
// authenticated user's profile row and a client cannot override them.
type createRequest struct {
	ScheduleID uint64 `json:"schedule_id"`
	SheetID    uint64 `json:"sheet_id"`
	Date       string `json:"date"`
}

// Create handles POST /v1/reservations. The acting user comes from the
// verified token, never from the body, and the holder name/email are
// taken from that user's profile row. Conflicts with an existing
// booking, whether seen by the pre-check or decided by the unique
// index, come back as 409.
func (h *ReservationHandler) Create(c echo.Context) error {
	userID, ok := getUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
	}

	var req createRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	ctx := c.Request().Context()

	user, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load user"})
	}

	res, err := h.Booking.CreateReservation(ctx, booking.CreateParams{
		UserID:     userID,
		ScheduleID: req.ScheduleID,
		SheetID:    req.SheetID,
		Date:       req.Date,
		Name:       user.Name,
		Email:      user.Email,
	})
	if err != nil {
		return reservationError(c, err)
	}

	h.publishCreated(res)

	return c.JSON(http.StatusCreated, echo.Map{
		"id":          res.ID,
		"schedule_id": res.ScheduleID,
		"sheet_id":    res.SheetID,
		"date":        res.Date,
		"name":        res.Name,
		"email":       res.Email,
		"user_id":     res.UserID,
		"created_at":  res.CreatedAt,
	})
}

// reservationError maps booking rejections to HTTP responses. Unknown
// errors become 500 without leaking internals.
func reservationError(c echo.Context, err error) error {
	var ve *booking.ValidationError
	switch {
	case errors.As(err, &ve):
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "validation failed", "fields": ve.Fields})
	case errors.Is(err, booking.ErrSheetMismatch):
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrSeatTaken):
		return c.JSON(http.StatusConflict, echo.Map{"error": "seat already booked"})
	case errors.Is(err, repository.ErrScheduleNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "schedule not found"})
	case errors.Is(err, repository.ErrSheetNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "sheet not found"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create reservation"})
	}
}

// publishCreated emits the reservation.created event in the
// background. The booking is already committed; a broker outage only
// costs the notification, so failures are logged and dropped.
func (h *ReservationHandler) publishCreated(res *model.Reservation) {
	if h.Publish == nil {
		return
	}
	ev := queue.ReservationCreatedEvent{
		ReservationID: res.ID,
		UserID:        res.UserID,
		ScheduleID:    res.ScheduleID,
		SheetID:       res.SheetID,
		Date:          res.Date,
		HolderName:    res.Name,
		CreatedAt:     res.CreatedAt.UTC().Format(time.RFC3339),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		// Enrich with display fields; best effort.
		if sheet, err := h.Sheets.GetByID(ctx, res.SheetID); err == nil {
			ev.RowLabel = sheet.RowLabel
			ev.SheetNumber = sheet.SheetNumber
		}
		if schedule, err := h.Schedules.GetByID(ctx, res.ScheduleID); err == nil {
			if movie, err := h.Movies.GetByID(ctx, schedule.MovieID); err == nil {
				ev.MovieName = movie.Name
			}
		}
		if err := h.Publish(ctx, ev); err != nil {
			log.Printf("reservation %d: publish event failed: %v", res.ID, err)
		}
	}()
}

// MyReservations handles GET /v1/my-reservations and returns the
// acting user's bookings, newest first.
func (h *ReservationHandler) MyReservations(c echo.Context) error {
	userID, ok := getUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
	}

	details, err := h.Reservations.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load reservations"})
	}
	return c.JSON(http.StatusOK, echo.Map{"reservations": details})
}
