package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/huzaiif/game-zone/brackets"
	"github.com/huzaiif/game-zone/models"
	"github.com/huzaiif/game-zone/realtime"
	"github.com/huzaiif/game-zone/repositories"
)

type BracketService interface {
	GenerateBracket(ctx context.Context, tournamentID, actorID int) ([]models.Match, error)
	ListMatches(ctx context.Context, tournamentID int) ([]models.Match, error)
}

type bracketService struct {
	tournamentRepo repositories.TournamentRepository
	notifier       Notifier
	clock          Clock
	logger         *slog.Logger
}

func NewBracketService(
	tournamentRepo repositories.TournamentRepository,
	notifier Notifier,
	clock Clock,
	logger *slog.Logger,
) BracketService {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	return &bracketService{
		tournamentRepo: tournamentRepo,
		notifier:       notifier,
		clock:          clock,
		logger:         logger,
	}
}

// GenerateBracket строит каркас сетки по зарегистрированным участникам и
// целиком замещает им коллекцию матчей турнира. Повторный вызов перегенерирует
// сетку заново, затирая прежние результаты — операция рассчитана на один
// запуск организатором после фактического закрытия регистрации.
func (s *bracketService) GenerateBracket(ctx context.Context, tournamentID, actorID int) ([]models.Match, error) {
	tournament, err := saveTournament(ctx, s.tournamentRepo, s.clock, tournamentID, func(t *models.Tournament, now time.Time) error {
		if t.OrganizerID != actorID {
			return ErrForbiddenOperation
		}

		eligible := t.RegisteredParticipants()
		if len(eligible) < 2 {
			return fmt.Errorf("%w: found %d", ErrInsufficientParticipants, len(eligible))
		}

		var generator brackets.BracketGenerator
		switch t.Format {
		case models.FormatSingleElimination, models.FormatBracket:
			generator = brackets.NewSingleEliminationGenerator()
		default:
			return fmt.Errorf("%w: %q", ErrUnsupportedBracketType, t.Format)
		}

		matches, genErr := generator.GenerateBracket(ctx, brackets.GenerateBracketParams{
			Tournament:   t,
			Participants: eligible,
		})
		if genErr != nil {
			return fmt.Errorf("failed to generate bracket for tournament %d: %w", t.ID, genErr)
		}

		scheduled := t.Schedule.StartDate
		for i := range matches {
			matches[i].ScheduledTime = &scheduled
		}

		t.Matches = matches
		t.Stats.MatchesCompleted = 0
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("bracket generated",
		slog.Int("tournament_id", tournament.ID),
		slog.Int("matches", len(tournament.Matches)))

	s.notifier.Notify(tournament.ID, realtime.EventBracketGenerated, map[string]interface{}{
		"total_matches": tournament.Stats.TotalMatches,
	})
	return tournament.Matches, nil
}

func (s *bracketService) ListMatches(ctx context.Context, tournamentID int) ([]models.Match, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		return nil, mapTournamentRepoError(err)
	}
	return tournament.Matches, nil
}
