package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/huzaiif/game-zone/models"
	"github.com/huzaiif/game-zone/realtime"
	"github.com/huzaiif/game-zone/repositories"
)

// ParticipantService инкапсулирует регистрацию и дерегистрацию участников.
type ParticipantService interface {
	Register(ctx context.Context, tournamentID, userID int) (*models.Participant, error)
	Unregister(ctx context.Context, tournamentID, userID int) error
}

type participantService struct {
	tournamentRepo repositories.TournamentRepository
	userRepo       repositories.UserRepository
	notifier       Notifier
	clock          Clock
	logger         *slog.Logger
}

func NewParticipantService(
	tournamentRepo repositories.TournamentRepository,
	userRepo repositories.UserRepository,
	notifier Notifier,
	clock Clock,
	logger *slog.Logger,
) ParticipantService {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	return &participantService{
		tournamentRepo: tournamentRepo,
		userRepo:       userRepo,
		notifier:       notifier,
		clock:          clock,
		logger:         logger,
	}
}

// Register добавляет пользователя в турнир. Предусловия проверяются по
// порядку, первый отказ выигрывает: повторная регистрация, закрытое окно,
// вместимость, требования к участнику.
func (s *participantService) Register(ctx context.Context, tournamentID, userID int) (*models.Participant, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user %d: %w", userID, err)
	}

	var registered *models.Participant
	tournament, err := saveTournament(ctx, s.tournamentRepo, s.clock, tournamentID, func(t *models.Tournament, now time.Time) error {
		if t.ParticipantByUser(userID) != nil {
			return ErrAlreadyRegistered
		}

		DeriveStatus(t, now)
		if !t.Registration.IsOpen {
			return ErrRegistrationClosed
		}

		if t.ActiveParticipantCount() >= t.Registration.MaxParticipants {
			return ErrTournamentFull
		}

		if !meetsEligibility(user, t.Registration.Eligibility) {
			return ErrNotEligible
		}

		t.Participants = append(t.Participants, models.Participant{
			UserID:       userID,
			RegisteredAt: now,
			Status:       models.ParticipantRegistered,
		})
		registered = &t.Participants[len(t.Participants)-1]
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Зеркалирование членства на записи пользователя — вторичная запись,
	// её отказ не откатывает уже сохранённый агрегат.
	if err := s.userRepo.AddTournamentRef(ctx, userID, tournamentID); err != nil {
		s.logger.Error("failed to mirror tournament membership",
			slog.Int("user_id", userID), slog.Int("tournament_id", tournamentID), slog.Any("error", err))
	}

	s.notifier.Notify(tournament.ID, realtime.EventParticipantJoined, map[string]interface{}{
		"user_id":           userID,
		"participant_count": tournament.ActiveParticipantCount(),
	})
	return registered, nil
}

// Unregister убирает участника из турнира. Допускается только пока турнир
// не стартовал (статусы upcoming/registration).
func (s *participantService) Unregister(ctx context.Context, tournamentID, userID int) error {
	tournament, err := saveTournament(ctx, s.tournamentRepo, s.clock, tournamentID, func(t *models.Tournament, now time.Time) error {
		if t.ParticipantByUser(userID) == nil {
			return ErrNotRegistered
		}

		DeriveStatus(t, now)
		if t.Status == models.StatusLive || t.Status == models.StatusCompleted {
			return ErrTournamentStarted
		}

		filtered := t.Participants[:0]
		for _, p := range t.Participants {
			if p.UserID != userID {
				filtered = append(filtered, p)
			}
		}
		t.Participants = filtered
		return nil
	})
	if err != nil {
		return err
	}

	if err := s.userRepo.RemoveTournamentRef(ctx, userID, tournamentID); err != nil {
		s.logger.Error("failed to remove mirrored tournament membership",
			slog.Int("user_id", userID), slog.Int("tournament_id", tournamentID), slog.Any("error", err))
	}

	s.notifier.Notify(tournament.ID, realtime.EventParticipantLeft, map[string]interface{}{
		"user_id":           userID,
		"participant_count": tournament.ActiveParticipantCount(),
	})
	return nil
}
