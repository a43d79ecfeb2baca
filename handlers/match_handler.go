package handlers

import (
	"net/http"

	"github.com/huzaiif/game-zone/middleware"
	"github.com/huzaiif/game-zone/services"
)

type MatchHandler struct {
	bracketService services.BracketService
	matchService   services.MatchService
}

func NewMatchHandler(bs services.BracketService, ms services.MatchService) *MatchHandler {
	return &MatchHandler{
		bracketService: bs,
		matchService:   ms,
	}
}

// GenerateBracketHandler godoc
// @Summary Сгенерировать сетку турнира
// @Tags matches
// @Description Строит каркас single elimination по числу зарегистрированных участников.
// @Produce json
// @Param tournamentID path int true "Tournament ID"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]string "Недостаточно участников или неподдерживаемый формат"
// @Failure 403 {object} map[string]string "Только организатор"
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/bracket [post]
func (h *MatchHandler) GenerateBracketHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required to generate bracket")
		return
	}

	matches, err := h.bracketService.GenerateBracket(r.Context(), tournamentID, currentUserID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"matches": matches}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListMatchesHandler обрабатывает GET /tournaments/{tournamentID}/matches
func (h *MatchHandler) ListMatchesHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	matches, err := h.bracketService.ListMatches(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"matches": matches}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// RecordResultHandler godoc
// @Summary Записать результат матча
// @Tags matches
// @Description Доступно организатору и модераторам турнира.
// @Accept json
// @Produce json
// @Param tournamentID path int true "Tournament ID"
// @Param matchID path int true "Match ID"
// @Param body body services.RecordResultInput true "Победитель и счёт"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]string "Нет прав на запись результата"
// @Failure 404 {object} map[string]string "Матч не найден"
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/matches/{matchID}/result [post]
func (h *MatchHandler) RecordResultHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required to record result")
		return
	}

	var input services.RecordResultInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.matchService.RecordResult(r.Context(), tournamentID, matchID, currentUserID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
