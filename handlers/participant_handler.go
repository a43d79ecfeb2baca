package handlers

import (
	"net/http"

	"github.com/huzaiif/game-zone/middleware"
	"github.com/huzaiif/game-zone/services"
)

type ParticipantHandler struct {
	participantService services.ParticipantService
	tournamentService  services.TournamentService
}

func NewParticipantHandler(ps services.ParticipantService, ts services.TournamentService) *ParticipantHandler {
	return &ParticipantHandler{
		participantService: ps,
		tournamentService:  ts,
	}
}

// RegisterHandler godoc
// @Summary Зарегистрироваться на турнир
// @Tags participants
// @Description Регистрация текущего пользователя в открытом окне регистрации.
// @Produce json
// @Param tournamentID path int true "Tournament ID"
// @Success 201 {object} map[string]interface{}
// @Failure 403 {object} map[string]string "Окно закрыто или требования не выполнены"
// @Failure 409 {object} map[string]string "Уже зарегистрирован или мест нет"
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/register [post]
func (h *ParticipantHandler) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required to register")
		return
	}

	participant, err := h.participantService.Register(r.Context(), tournamentID, currentUserID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"participant": participant}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UnregisterHandler godoc
// @Summary Сняться с турнира
// @Tags participants
// @Description Снятие возможно только до старта турнира.
// @Produce json
// @Param tournamentID path int true "Tournament ID"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string "Турнир уже начался"
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/register [delete]
func (h *ParticipantHandler) UnregisterHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required to unregister")
		return
	}

	if err := h.participantService.Unregister(r.Context(), tournamentID, currentUserID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListHandler обрабатывает GET /tournaments/{tournamentID}/participants
func (h *ParticipantHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	participants, err := h.tournamentService.ListParticipants(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"participants": participants}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
