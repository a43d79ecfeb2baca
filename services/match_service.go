package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/huzaiif/game-zone/models"
	"github.com/huzaiif/game-zone/realtime"
	"github.com/huzaiif/game-zone/repositories"
)

type RecordResultInput struct {
	WinnerID int          `json:"winner_id"`
	Score    models.Score `json:"score"`
}

// MatchService записывает результаты матчей и поддерживает согласованность
// агрегатной статистики турнира.
type MatchService interface {
	RecordResult(ctx context.Context, tournamentID, matchID, actorID int, input RecordResultInput) (*models.Match, error)
}

type matchService struct {
	tournamentRepo repositories.TournamentRepository
	notifier       Notifier
	clock          Clock
	logger         *slog.Logger
}

func NewMatchService(
	tournamentRepo repositories.TournamentRepository,
	notifier Notifier,
	clock Clock,
	logger *slog.Logger,
) MatchService {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	return &matchService{
		tournamentRepo: tournamentRepo,
		notifier:       notifier,
		clock:          clock,
		logger:         logger,
	}
}

// RecordResult фиксирует исход матча. Право записи есть у организатора
// турнира и его модераторов. Продвижение победителя в следующий раунд
// не выполняется — это точка расширения, а не часть записи результата.
func (s *matchService) RecordResult(ctx context.Context, tournamentID, matchID, actorID int, input RecordResultInput) (*models.Match, error) {
	if input.Score.Player1 < 0 || input.Score.Player2 < 0 {
		return nil, ErrNegativeScore
	}

	var recorded *models.Match
	tournament, err := saveTournament(ctx, s.tournamentRepo, s.clock, tournamentID, func(t *models.Tournament, now time.Time) error {
		if t.OrganizerID != actorID && !t.IsModerator(actorID) {
			return ErrForbiddenOperation
		}

		match := t.MatchByID(matchID)
		if match == nil {
			return ErrMatchNotFound
		}

		winnerID := input.WinnerID
		score := input.Score
		endTime := now

		match.WinnerID = &winnerID
		match.Score = &score
		match.Status = models.MatchCompleted
		match.ActualEndTime = &endTime
		if match.ActualStartTime == nil {
			match.ActualStartTime = &endTime
		}

		s.applyParticipantStats(t, match)

		// Счётчик пересчитывается по коллекции, а не инкрементируется:
		// повторная запись результата не должна задваивать статистику.
		completed := 0
		for i := range t.Matches {
			if t.Matches[i].Status == models.MatchCompleted {
				completed++
			}
		}
		t.Stats.MatchesCompleted = completed

		recorded = match
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(tournament.ID, realtime.EventMatchCompleted, map[string]interface{}{
		"match_id":  matchID,
		"winner_id": input.WinnerID,
		"score":     input.Score,
	})
	return recorded, nil
}

// applyParticipantStats разносит исход по персональной статистике сторон.
// Работает только для матчей с назначенными слотами игроков: каркасные
// матчи без рассадки персональную статистику не меняют.
func (s *matchService) applyParticipantStats(t *models.Tournament, match *models.Match) {
	if match.Player1ID == nil || match.Player2ID == nil || match.WinnerID == nil {
		return
	}

	p1 := t.ParticipantByUser(*match.Player1ID)
	p2 := t.ParticipantByUser(*match.Player2ID)
	if p1 == nil || p2 == nil {
		return
	}

	p1.Stats.Score += match.Score.Player1
	p2.Stats.Score += match.Score.Player2

	if *match.WinnerID == p1.UserID {
		p1.Stats.Wins++
		p2.Stats.Losses++
		p2.Status = models.ParticipantEliminated
	} else if *match.WinnerID == p2.UserID {
		p2.Stats.Wins++
		p1.Stats.Losses++
		p1.Status = models.ParticipantEliminated
	}
}
