package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huzaiif/game-zone/middleware"
	"github.com/huzaiif/game-zone/models"
	"github.com/huzaiif/game-zone/services"
)

// asUser подставляет идентификатор пользователя в контекст запроса,
// как это сделал бы middleware.Authenticate после разбора токена.
func asUser(userID int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(middleware.WithUserID(r.Context(), userID)))
		})
	}
}

func newTestRouter(authedUserID *int, ts services.TournamentService, ps services.ParticipantService, bs services.BracketService, ms services.MatchService) *chi.Mux {
	tournamentHandler := NewTournamentHandler(ts)
	participantHandler := NewParticipantHandler(ps, ts)
	matchHandler := NewMatchHandler(bs, ms)

	router := chi.NewRouter()
	if authedUserID != nil {
		router.Use(asUser(*authedUserID))
	}
	router.Get("/tournaments/{tournamentID}", tournamentHandler.GetByIDHandler)
	router.Get("/tournaments/{tournamentID}/participants", participantHandler.ListHandler)
	router.Get("/tournaments/{tournamentID}/matches", matchHandler.ListMatchesHandler)
	router.Post("/tournaments", tournamentHandler.CreateHandler)
	router.Post("/tournaments/{tournamentID}/cancel", tournamentHandler.CancelHandler)
	router.Post("/tournaments/{tournamentID}/register", participantHandler.RegisterHandler)
	router.Delete("/tournaments/{tournamentID}/register", participantHandler.UnregisterHandler)
	router.Post("/tournaments/{tournamentID}/bracket", matchHandler.GenerateBracketHandler)
	router.Post("/tournaments/{tournamentID}/matches/{matchID}/result", matchHandler.RecordResultHandler)
	return router
}

func intPtr(v int) *int { return &v }

func TestRegisterHandlerStatusCodes(t *testing.T) {
	tests := []struct {
		name       string
		serviceErr error
		wantStatus int
	}{
		{name: "created", serviceErr: nil, wantStatus: http.StatusCreated},
		{name: "already registered", serviceErr: services.ErrAlreadyRegistered, wantStatus: http.StatusConflict},
		{name: "registration closed", serviceErr: services.ErrRegistrationClosed, wantStatus: http.StatusForbidden},
		{name: "tournament full", serviceErr: services.ErrTournamentFull, wantStatus: http.StatusConflict},
		{name: "not eligible", serviceErr: services.ErrNotEligible, wantStatus: http.StatusForbidden},
		{name: "tournament not found", serviceErr: services.ErrNotFound, wantStatus: http.StatusNotFound},
		{name: "concurrent modification", serviceErr: services.ErrConcurrentModification, wantStatus: http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ps := &fakeParticipantService{
				participant: &models.Participant{UserID: 7, Status: models.ParticipantRegistered},
				err:         tt.serviceErr,
			}
			router := newTestRouter(intPtr(7), &fakeTournamentService{}, ps, &fakeBracketService{}, &fakeMatchService{})

			req := httptest.NewRequest(http.MethodPost, "/tournaments/42/register", nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, 1, ps.registerCalls)
		})
	}
}

func TestRegisterHandlerRequiresAuth(t *testing.T) {
	ps := &fakeParticipantService{}
	router := newTestRouter(nil, &fakeTournamentService{}, ps, &fakeBracketService{}, &fakeMatchService{})

	req := httptest.NewRequest(http.MethodPost, "/tournaments/42/register", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, 0, ps.registerCalls)
}

func TestUnregisterHandlerStatusCodes(t *testing.T) {
	tests := []struct {
		name       string
		serviceErr error
		wantStatus int
	}{
		{name: "no content", serviceErr: nil, wantStatus: http.StatusNoContent},
		{name: "not registered", serviceErr: services.ErrNotRegistered, wantStatus: http.StatusBadRequest},
		{name: "tournament started", serviceErr: services.ErrTournamentStarted, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ps := &fakeParticipantService{err: tt.serviceErr}
			router := newTestRouter(intPtr(7), &fakeTournamentService{}, ps, &fakeBracketService{}, &fakeMatchService{})

			req := httptest.NewRequest(http.MethodDelete, "/tournaments/42/register", nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestRecordResultHandler(t *testing.T) {
	winnerID := 7
	ms := &fakeMatchService{
		match: &models.Match{ID: 3, WinnerID: &winnerID, Status: models.MatchCompleted},
	}
	router := newTestRouter(intPtr(100), &fakeTournamentService{}, &fakeParticipantService{}, &fakeBracketService{}, ms)

	body := `{"winner_id": 7, "score": {"player1": 3, "player2": 1}}`
	req := httptest.NewRequest(http.MethodPost, "/tournaments/42/matches/3/result", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 7, ms.lastInput.WinnerID)
	assert.Equal(t, 3, ms.lastInput.Score.Player1)
	assert.Contains(t, rec.Body.String(), `"match"`)
}

func TestRecordResultHandlerErrors(t *testing.T) {
	tests := []struct {
		name       string
		serviceErr error
		wantStatus int
	}{
		{name: "forbidden for outsider", serviceErr: services.ErrForbiddenOperation, wantStatus: http.StatusForbidden},
		{name: "match not found", serviceErr: services.ErrMatchNotFound, wantStatus: http.StatusNotFound},
		{name: "negative score", serviceErr: services.ErrNegativeScore, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ms := &fakeMatchService{err: tt.serviceErr}
			router := newTestRouter(intPtr(100), &fakeTournamentService{}, &fakeParticipantService{}, &fakeBracketService{}, ms)

			body := `{"winner_id": 7, "score": {"player1": 3, "player2": 1}}`
			req := httptest.NewRequest(http.MethodPost, "/tournaments/42/matches/3/result", strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestRecordResultHandlerRejectsUnknownFields(t *testing.T) {
	ms := &fakeMatchService{}
	router := newTestRouter(intPtr(100), &fakeTournamentService{}, &fakeParticipantService{}, &fakeBracketService{}, ms)

	body := `{"winner_id": 7, "loser_id": 9}`
	req := httptest.NewRequest(http.MethodPost, "/tournaments/42/matches/3/result", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "unknown key")
}

func TestGenerateBracketHandlerStatusCodes(t *testing.T) {
	tests := []struct {
		name       string
		serviceErr error
		wantStatus int
	}{
		{name: "created", serviceErr: nil, wantStatus: http.StatusCreated},
		{name: "insufficient participants", serviceErr: services.ErrInsufficientParticipants, wantStatus: http.StatusBadRequest},
		{name: "unsupported format", serviceErr: services.ErrUnsupportedBracketType, wantStatus: http.StatusBadRequest},
		{name: "not organizer", serviceErr: services.ErrForbiddenOperation, wantStatus: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bs := &fakeBracketService{
				matches: []models.Match{{ID: 1, Round: 1, MatchNumber: 1, Status: models.MatchScheduled}},
				err:     tt.serviceErr,
			}
			router := newTestRouter(intPtr(100), &fakeTournamentService{}, &fakeParticipantService{}, bs, &fakeMatchService{})

			req := httptest.NewRequest(http.MethodPost, "/tournaments/42/bracket", nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestGetTournamentHandlerInvalidID(t *testing.T) {
	router := newTestRouter(nil, &fakeTournamentService{}, &fakeParticipantService{}, &fakeBracketService{}, &fakeMatchService{})

	req := httptest.NewRequest(http.MethodGet, "/tournaments/abc", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListParticipantsHandlerIsPublic(t *testing.T) {
	ts := &fakeTournamentService{
		participants: []models.Participant{
			{UserID: 1, Status: models.ParticipantRegistered},
			{UserID: 2, Status: models.ParticipantRegistered},
		},
	}
	router := newTestRouter(nil, ts, &fakeParticipantService{}, &fakeBracketService{}, &fakeMatchService{})

	req := httptest.NewRequest(http.MethodGet, "/tournaments/42/participants", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"participants"`)
}

func TestAuthenticateMiddlewareRoundTrip(t *testing.T) {
	secret := []byte("test-secret")

	handler := middleware.Authenticate(secret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := middleware.GetUserIDFromContext(r.Context())
		require.NoError(t, err)
		assert.Equal(t, 7, userID)
		w.WriteHeader(http.StatusOK)
	}))

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": 7,
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString(secret)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	t.Run("missing token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("wrong signature", func(t *testing.T) {
		forged, err := token.SignedString([]byte("other-secret"))
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+forged)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
