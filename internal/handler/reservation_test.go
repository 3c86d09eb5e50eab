package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinebook/movie-reservation/internal/booking"
	"github.com/cinebook/movie-reservation/internal/model"
	"github.com/cinebook/movie-reservation/internal/queue"
	"github.com/cinebook/movie-reservation/internal/repository"
)

func newContext(t *testing.T, method, target string, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

// In-memory stores in the shape the handler and the booking service
// consume. One fake per narrow interface keeps the success paths
// testable without MySQL.

type stubMovies struct{ movie *model.Movie }

func (s stubMovies) GetByID(ctx context.Context, id uint64) (*model.Movie, error) {
	if s.movie != nil && s.movie.ID == id {
		return s.movie, nil
	}
	return nil, repository.ErrMovieNotFound
}

type stubSchedules struct{ schedule *model.Schedule }

func (s stubSchedules) GetByID(ctx context.Context, id uint64) (*model.Schedule, error) {
	if s.schedule != nil && s.schedule.ID == id {
		return s.schedule, nil
	}
	return nil, repository.ErrScheduleNotFound
}

type stubSheets struct{ sheets map[uint64]*model.Sheet }

func (s stubSheets) GetByID(ctx context.Context, id uint64) (*model.Sheet, error) {
	if sh, ok := s.sheets[id]; ok {
		return sh, nil
	}
	return nil, repository.ErrSheetNotFound
}

func (s stubSheets) ListByScreen(ctx context.Context, screenID uint64) ([]model.Sheet, error) {
	var out []model.Sheet
	for _, id := range []uint64{20, 21} {
		if sh, ok := s.sheets[id]; ok && sh.ScreenID == screenID {
			out = append(out, *sh)
		}
	}
	return out, nil
}

type stubUsers struct{ user model.User }

func (s stubUsers) GetByID(ctx context.Context, id uint64) (model.User, error) {
	if s.user.ID == id {
		return s.user, nil
	}
	return model.User{}, repository.ErrUserNotFound
}

type memReservations struct {
	mu     sync.Mutex
	rows   []model.Reservation
	nextID uint64
}

func (m *memReservations) Exists(ctx context.Context, scheduleID, sheetID uint64, date string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rows {
		if r.ScheduleID == scheduleID && r.SheetID == sheetID && r.Date == date {
			return true, nil
		}
	}
	return false, nil
}

func (m *memReservations) Create(ctx context.Context, res *model.Reservation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rows {
		if r.ScheduleID == res.ScheduleID && r.SheetID == res.SheetID && r.Date == res.Date {
			return repository.ErrSeatTaken
		}
	}
	m.nextID++
	res.ID = m.nextID
	res.CreatedAt = time.Now().UTC()
	m.rows = append(m.rows, *res)
	return nil
}

func (m *memReservations) ReservedSheetIDs(ctx context.Context, scheduleID uint64, date string) (map[uint64]bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	taken := make(map[uint64]bool)
	for _, r := range m.rows {
		if r.ScheduleID == scheduleID && r.Date == date {
			taken[r.SheetID] = true
		}
	}
	return taken, nil
}

func (m *memReservations) ListByUser(ctx context.Context, userID uint64) ([]repository.ReservationDetail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]repository.ReservationDetail, 0)
	for _, r := range m.rows {
		if r.UserID == userID {
			out = append(out, repository.ReservationDetail{
				ID: r.ID, ScheduleID: r.ScheduleID, SheetID: r.SheetID, Date: r.Date,
			})
		}
	}
	return out, nil
}

// newTestHandler wires the handler over in-memory stores: schedule 10
// shows movie 3 in screen 1; sheets 20 and 21 sit in screen 1; user 42
// is the authenticated customer. Publish is a no-op unless a test
// swaps it.
func newTestHandler() (*ReservationHandler, *memReservations) {
	schedules := stubSchedules{schedule: &model.Schedule{ID: 10, MovieID: 3, ScreenID: 1, StartsAt: "2024-06-01 19:30:00"}}
	sheets := stubSheets{sheets: map[uint64]*model.Sheet{
		20: {ID: 20, ScreenID: 1, RowLabel: "A", SheetNumber: 5},
		21: {ID: 21, ScreenID: 1, RowLabel: "A", SheetNumber: 6},
	}}
	store := &memReservations{}
	h := &ReservationHandler{
		Movies:       stubMovies{movie: &model.Movie{ID: 3, Name: "The Long Night"}},
		Schedules:    schedules,
		Sheets:       sheets,
		Users:        stubUsers{user: model.User{ID: 42, Name: "Alice", Email: "alice@example.com", Role: "CUSTOMER"}},
		Reservations: store,
		Booking:      booking.New(schedules, sheets, store),
		Publish:      func(ctx context.Context, ev queue.ReservationCreatedEvent) error { return nil },
	}
	return h, store
}

func authedContext(t *testing.T, method, target, body string, userID uint64) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	c, rec := newContext(t, method, target, body)
	c.Set("user_id", float64(userID)) // JWT numeric claims decode as float64
	return c, rec
}

func TestHealth(t *testing.T) {
	c, rec := newContext(t, http.MethodGet, "/healthz", "")

	require.NoError(t, Health(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decodeBody(t, rec)["status"])
}

func TestGetUserID(t *testing.T) {
	tests := []struct {
		name   string
		value  any
		wantID uint64
		wantOK bool
	}{
		{name: "float64 claim", value: float64(42), wantID: 42, wantOK: true},
		{name: "uint64 value", value: uint64(7), wantID: 7, wantOK: true},
		{name: "numeric string", value: "19", wantID: 19, wantOK: true},
		{name: "garbage string", value: "abc", wantOK: false},
		{name: "missing", value: nil, wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newContext(t, http.MethodGet, "/", "")
			if tt.value != nil {
				c.Set("user_id", tt.value)
			}

			id, ok := getUserID(c)

			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantID, id)
		})
	}
}

func TestCreateAdmitsAndPublishes(t *testing.T) {
	h, store := newTestHandler()
	events := make(chan queue.ReservationCreatedEvent, 1)
	h.Publish = func(ctx context.Context, ev queue.ReservationCreatedEvent) error {
		events <- ev
		return nil
	}
	c, rec := authedContext(t, http.MethodPost, "/v1/reservations",
		`{"schedule_id":10,"sheet_id":20,"date":"2024-06-01"}`, 42)

	require.NoError(t, h.Create(c))

	require.Equal(t, http.StatusCreated, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, float64(1), body["id"])
	assert.Equal(t, "2024-06-01", body["date"])
	assert.Equal(t, "Alice", body["name"])

	require.Len(t, store.rows, 1)
	assert.Equal(t, uint64(42), store.rows[0].UserID)

	ev := <-events
	assert.Equal(t, uint64(1), ev.ReservationID)
	assert.Equal(t, "Alice", ev.HolderName)
	assert.Equal(t, "The Long Night", ev.MovieName)
	assert.Equal(t, "A", ev.RowLabel)
}

func TestCreateIgnoresHolderDetailsFromBody(t *testing.T) {
	h, store := newTestHandler()
	c, rec := authedContext(t, http.MethodPost, "/v1/reservations",
		`{"schedule_id":10,"sheet_id":20,"date":"2024-06-01","name":"Mallory","email":"mallory@evil.example"}`, 42)

	require.NoError(t, h.Create(c))

	require.Equal(t, http.StatusCreated, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Alice", body["name"])
	assert.Equal(t, "alice@example.com", body["email"])

	// The stored row carries the profile details, not the body's.
	require.Len(t, store.rows, 1)
	assert.Equal(t, "Alice", store.rows[0].Name)
	assert.Equal(t, "alice@example.com", store.rows[0].Email)
}

func TestCreateConflictWhenSeatTaken(t *testing.T) {
	h, store := newTestHandler()
	require.NoError(t, store.Create(context.Background(), &model.Reservation{
		ScheduleID: 10, SheetID: 20, Date: "2024-06-01", UserID: 7,
	}))
	c, rec := authedContext(t, http.MethodPost, "/v1/reservations",
		`{"schedule_id":10,"sheet_id":20,"date":"2024-06-01"}`, 42)

	require.NoError(t, h.Create(c))

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "seat already booked", decodeBody(t, rec)["error"])
	assert.Len(t, store.rows, 1)
}

func TestAvailabilityReportsSeatAndLayout(t *testing.T) {
	h, store := newTestHandler()
	require.NoError(t, store.Create(context.Background(), &model.Reservation{
		ScheduleID: 10, SheetID: 21, Date: "2024-06-01", UserID: 7,
	}))
	c, rec := newContext(t, http.MethodGet, "/v1/schedules/10/availability?sheet_id=20&date=2024-06-01", "")
	c.SetPath("/v1/schedules/:id/availability")
	c.SetParamNames("id")
	c.SetParamValues("10")

	require.NoError(t, h.Availability(c))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["available"])
	assert.Equal(t, "The Long Night", body["movie_name"])

	sheets, ok := body["sheets"].([]any)
	require.True(t, ok)
	require.Len(t, sheets, 2)
	taken := make(map[float64]bool)
	for _, raw := range sheets {
		s := raw.(map[string]any)
		taken[s["id"].(float64)] = s["taken"].(bool)
	}
	assert.False(t, taken[20])
	assert.True(t, taken[21])
}

func TestMyReservationsListsOwnBookings(t *testing.T) {
	h, store := newTestHandler()
	require.NoError(t, store.Create(context.Background(), &model.Reservation{
		ScheduleID: 10, SheetID: 20, Date: "2024-06-01", UserID: 42,
	}))
	require.NoError(t, store.Create(context.Background(), &model.Reservation{
		ScheduleID: 10, SheetID: 21, Date: "2024-06-01", UserID: 7,
	}))
	c, rec := authedContext(t, http.MethodGet, "/v1/my-reservations", "", 42)

	require.NoError(t, h.MyReservations(c))

	require.Equal(t, http.StatusOK, rec.Code)
	list, ok := decodeBody(t, rec)["reservations"].([]any)
	require.True(t, ok)
	require.Len(t, list, 1)
	assert.Equal(t, float64(20), list[0].(map[string]any)["sheet_id"])
}

func TestReservationErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{
			name:       "validation failure",
			err:        &booking.ValidationError{Fields: []booking.FieldError{{Field: "date", Message: "must be a calendar date"}}},
			wantStatus: http.StatusUnprocessableEntity,
		},
		{name: "sheet from another screen", err: booking.ErrSheetMismatch, wantStatus: http.StatusUnprocessableEntity},
		{name: "seat already booked", err: repository.ErrSeatTaken, wantStatus: http.StatusConflict},
		{name: "unknown schedule", err: repository.ErrScheduleNotFound, wantStatus: http.StatusNotFound},
		{name: "unknown sheet", err: repository.ErrSheetNotFound, wantStatus: http.StatusNotFound},
		{name: "storage failure", err: errors.New("connection reset"), wantStatus: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newContext(t, http.MethodPost, "/v1/reservations", "")

			require.NoError(t, reservationError(c, tt.err))

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestReservationErrorHidesInternals(t *testing.T) {
	c, rec := newContext(t, http.MethodPost, "/v1/reservations", "")

	require.NoError(t, reservationError(c, errors.New("dial tcp 10.0.0.5:3306: i/o timeout")))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "10.0.0.5")
}

func TestAvailabilityRejectsBadParams(t *testing.T) {
	h := &ReservationHandler{}

	tests := []struct {
		name    string
		id      string
		query   string
		wantMsg string
	}{
		{name: "non-numeric schedule id", id: "abc", query: "sheet_id=1&date=2024-06-01", wantMsg: "invalid schedule id"},
		{name: "zero schedule id", id: "0", query: "sheet_id=1&date=2024-06-01", wantMsg: "invalid schedule id"},
		{name: "missing sheet_id", id: "10", query: "date=2024-06-01", wantMsg: "sheet_id is required"},
		{name: "missing date", id: "10", query: "sheet_id=1", wantMsg: "date is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newContext(t, http.MethodGet, "/v1/schedules/"+tt.id+"/availability?"+tt.query, "")
			c.SetPath("/v1/schedules/:id/availability")
			c.SetParamNames("id")
			c.SetParamValues(tt.id)

			require.NoError(t, h.Availability(c))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.wantMsg, decodeBody(t, rec)["error"])
		})
	}
}

func TestCreateRequiresIdentity(t *testing.T) {
	h := &ReservationHandler{}
	c, rec := newContext(t, http.MethodPost, "/v1/reservations",
		`{"schedule_id":10,"sheet_id":20,"date":"2024-06-01"}`)

	require.NoError(t, h.Create(c))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMyReservationsRequiresIdentity(t *testing.T) {
	h := &ReservationHandler{}
	c, rec := newContext(t, http.MethodGet, "/v1/my-reservations", "")

	require.NoError(t, h.MyReservations(c))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
