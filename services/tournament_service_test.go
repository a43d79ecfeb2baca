package services

import (
	"context"
	"testing"
	"time"

	"github.com/huzaiif/game-zone/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTournamentFixture(t *testing.T) (*fakeTournamentRepo, *fakeClock, TournamentService) {
	t.Helper()
	tournamentRepo := newFakeTournamentRepo()
	gameRepo := newFakeGameRepo(&models.Game{ID: 1, Title: "Aim Arena", Category: "fps"})
	userRepo := newFakeUserRepo(testUser(100))
	clock := &fakeClock{now: testBase}
	svc := NewTournamentService(tournamentRepo, gameRepo, userRepo, nil, &fakeNotifier{}, clock, testLogger())
	return tournamentRepo, clock, svc
}

func validCreateInput() CreateTournamentInput {
	return CreateTournamentInput{
		Title:                 "Summer Cup",
		GameID:                1,
		Format:                models.FormatSingleElimination,
		RegistrationStartDate: testBase,
		RegistrationEndDate:   testBase.Add(24 * time.Hour),
		MaxParticipants:       8,
		MinParticipants:       2,
		ScheduleStartDate:     testBase.Add(48 * time.Hour),
		ScheduleEndDate:       testBase.Add(72 * time.Hour),
		Timezone:              "UTC",
	}
}

func TestCreateTournamentInheritsCategory(t *testing.T) {
	_, _, svc := newTournamentFixture(t)

	tournament, err := svc.CreateTournament(context.Background(), 100, validCreateInput())
	require.NoError(t, err)

	// Категория берётся из игры, отдельно не передаётся.
	assert.Equal(t, "fps", tournament.Category)
	assert.Equal(t, 100, tournament.OrganizerID)
	assert.Equal(t, models.StatusUpcoming, tournament.Status)
	assert.True(t, tournament.Registration.IsOpen)
	assert.Empty(t, tournament.Matches)
}

func TestCreateTournamentValidation(t *testing.T) {
	testCases := []struct {
		name        string
		mutate      func(*CreateTournamentInput)
		expectedErr error
	}{
		{
			name:        "missing title",
			mutate:      func(in *CreateTournamentInput) { in.Title = "" },
			expectedErr: ErrTournamentTitleRequired,
		},
		{
			name:        "unknown format",
			mutate:      func(in *CreateTournamentInput) { in.Format = "ladder" },
			expectedErr: ErrTournamentInvalidFormat,
		},
		{
			name:        "capacity below two",
			mutate:      func(in *CreateTournamentInput) { in.MaxParticipants = 1 },
			expectedErr: ErrTournamentInvalidCapacity,
		},
		{
			name: "inverted registration window",
			mutate: func(in *CreateTournamentInput) {
				in.RegistrationEndDate = in.RegistrationStartDate.Add(-time.Hour)
			},
			expectedErr: ErrTournamentInvalidRegWindow,
		},
		{
			name: "inverted schedule window",
			mutate: func(in *CreateTournamentInput) {
				in.ScheduleEndDate = in.ScheduleStartDate.Add(-time.Hour)
			},
			expectedErr: ErrTournamentInvalidDateRange,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, svc := newTournamentFixture(t)
			input := validCreateInput()
			tc.mutate(&input)

			_, err := svc.CreateTournament(context.Background(), 100, input)
			assert.ErrorIs(t, err, tc.expectedErr)
		})
	}
}

func TestCreateTournamentUnknownGame(t *testing.T) {
	_, _, svc := newTournamentFixture(t)
	input := validCreateInput()
	input.GameID = 42

	_, err := svc.CreateTournament(context.Background(), 100, input)
	assert.ErrorIs(t, err, ErrGameNotFound)
}

func TestGetTournamentDerivesStatusOnRead(t *testing.T) {
	tournamentRepo, clock, svc := newTournamentFixture(t)
	seeded := seedTournament(tournamentRepo)

	// Персистентный статус остался upcoming, но игровое окно уже началось:
	// читающий видит живой статус без дополнительной записи.
	clock.now = testBase.Add(50 * time.Hour)

	tournament, err := svc.GetTournamentByID(context.Background(), seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusLive, tournament.Status)
	assert.False(t, tournament.Registration.IsOpen)

	stored, _ := tournamentRepo.GetByID(context.Background(), seeded.ID)
	assert.Equal(t, models.StatusUpcoming, stored.Status)
}

func TestGetTournamentCountsView(t *testing.T) {
	tournamentRepo, _, svc := newTournamentFixture(t)
	seeded := seedTournament(tournamentRepo)

	first, err := svc.GetTournamentByID(context.Background(), seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Stats.Views)

	second, err := svc.GetTournamentByID(context.Background(), seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, second.Stats.Views)
}

func TestGetTournamentPopulatesRelations(t *testing.T) {
	tournamentRepo, _, svc := newTournamentFixture(t)
	seeded := seedTournament(tournamentRepo)

	tournament, err := svc.GetTournamentByID(context.Background(), seeded.ID)
	require.NoError(t, err)
	require.NotNil(t, tournament.Game)
	assert.Equal(t, "Aim Arena", tournament.Game.Title)
	require.NotNil(t, tournament.Organizer)
	assert.Equal(t, 100, tournament.Organizer.ID)
}

func TestCancelTournament(t *testing.T) {
	tournamentRepo, clock, svc := newTournamentFixture(t)
	seeded := seedTournament(tournamentRepo)

	cancelled, err := svc.CancelTournament(context.Background(), seeded.ID, 100)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, cancelled.Status)
	assert.False(t, cancelled.Registration.IsOpen)

	// Отмена липкая: временная нормализация её не перезаписывает.
	clock.now = testBase.Add(50 * time.Hour)
	reread, err := svc.GetTournamentByID(context.Background(), seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, reread.Status)
	assert.False(t, reread.Registration.IsOpen)
}

func TestCancelTournamentOnlyOrganizer(t *testing.T) {
	tournamentRepo, _, svc := newTournamentFixture(t)
	seeded := seedTournament(tournamentRepo)

	_, err := svc.CancelTournament(context.Background(), seeded.ID, 999)
	assert.ErrorIs(t, err, ErrForbiddenOperation)
}

func TestCancelCompletedTournamentFails(t *testing.T) {
	tournamentRepo, clock, svc := newTournamentFixture(t)
	seeded := seedTournament(tournamentRepo)
	clock.now = testBase.Add(100 * time.Hour)

	_, err := svc.CancelTournament(context.Background(), seeded.ID, 100)
	assert.ErrorIs(t, err, ErrTournamentInvalidStatusTransition)
}

func TestListTournamentsFiltersByStatus(t *testing.T) {
	tournamentRepo, _, svc := newTournamentFixture(t)
	seedTournament(tournamentRepo)
	seedTournament(tournamentRepo, func(tr *models.Tournament) {
		tr.Title = "Cancelled Cup"
		tr.Status = models.StatusCancelled
	})

	status := models.StatusCancelled
	tournaments, err := svc.ListTournaments(context.Background(), ListTournamentsFilter{Status: &status})
	require.NoError(t, err)
	require.Len(t, tournaments, 1)
	assert.Equal(t, "Cancelled Cup", tournaments[0].Title)
}
