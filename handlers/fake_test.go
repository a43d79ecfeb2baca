package handlers

import (
	"context"
	"io"

	"github.com/huzaiif/game-zone/models"
	"github.com/huzaiif/game-zone/services"
)

// Фейки сервисного слоя для тестов обработчиков: каждый метод
// отдаёт заранее заданный результат или ошибку.

type fakeTournamentService struct {
	tournament   *models.Tournament
	tournaments  []models.Tournament
	participants []models.Participant
	err          error
}

func (f *fakeTournamentService) CreateTournament(_ context.Context, _ int, _ services.CreateTournamentInput) (*models.Tournament, error) {
	return f.tournament, f.err
}

func (f *fakeTournamentService) GetTournamentByID(_ context.Context, _ int) (*models.Tournament, error) {
	return f.tournament, f.err
}

func (f *fakeTournamentService) ListTournaments(_ context.Context, _ services.ListTournamentsFilter) ([]models.Tournament, error) {
	return f.tournaments, f.err
}

func (f *fakeTournamentService) ListParticipants(_ context.Context, _ int) ([]models.Participant, error) {
	return f.participants, f.err
}

func (f *fakeTournamentService) CancelTournament(_ context.Context, _, _ int) (*models.Tournament, error) {
	return f.tournament, f.err
}

func (f *fakeTournamentService) UploadBanner(_ context.Context, _, _ int, _ string, _ io.Reader) (*models.Tournament, error) {
	return f.tournament, f.err
}

type fakeParticipantService struct {
	participant *models.Participant
	err         error

	registerCalls   int
	unregisterCalls int
}

func (f *fakeParticipantService) Register(_ context.Context, _, _ int) (*models.Participant, error) {
	f.registerCalls++
	return f.participant, f.err
}

func (f *fakeParticipantService) Unregister(_ context.Context, _, _ int) error {
	f.unregisterCalls++
	return f.err
}

type fakeBracketService struct {
	matches []models.Match
	err     error
}

func (f *fakeBracketService) GenerateBracket(_ context.Context, _, _ int) ([]models.Match, error) {
	return f.matches, f.err
}

func (f *fakeBracketService) ListMatches(_ context.Context, _ int) ([]models.Match, error) {
	return f.matches, f.err
}

type fakeMatchService struct {
	match *models.Match
	err   error

	lastInput services.RecordResultInput
}

func (f *fakeMatchService) RecordResult(_ context.Context, _, _, _ int, input services.RecordResultInput) (*models.Match, error) {
	f.lastInput = input
	return f.match, f.err
}
