package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/huzaiif/game-zone/models"
	"github.com/huzaiif/game-zone/realtime"
	"github.com/huzaiif/game-zone/repositories"
	"github.com/huzaiif/game-zone/storage"
	"golang.org/x/sync/errgroup"
)

type CreateTournamentInput struct {
	Title       string                  `json:"title"`
	Description *string                 `json:"description,omitempty"`
	GameID      int                     `json:"game_id"`
	Format      models.TournamentFormat `json:"format"`

	RegistrationStartDate time.Time          `json:"registration_start_date"`
	RegistrationEndDate   time.Time          `json:"registration_end_date"`
	MaxParticipants       int                `json:"max_participants"`
	MinParticipants       int                `json:"min_participants"`
	EntryFee              float64            `json:"entry_fee"`
	Eligibility           models.Eligibility `json:"eligibility"`

	ScheduleStartDate time.Time `json:"schedule_start_date"`
	ScheduleEndDate   time.Time `json:"schedule_end_date"`
	Duration          *string   `json:"duration,omitempty"`
	Timezone          string    `json:"timezone"`

	PrizePool  models.PrizePool `json:"prize_pool"`
	Moderators []int            `json:"moderators,omitempty"`
}

type ListTournamentsFilter = repositories.ListTournamentsFilter

type TournamentService interface {
	CreateTournament(ctx context.Context, organizerID int, input CreateTournamentInput) (*models.Tournament, error)
	GetTournamentByID(ctx context.Context, id int) (*models.Tournament, error)
	ListTournaments(ctx context.Context, filter ListTournamentsFilter) ([]models.Tournament, error)
	ListParticipants(ctx context.Context, tournamentID int) ([]models.Participant, error)
	CancelTournament(ctx context.Context, tournamentID, actorID int) (*models.Tournament, error)
	UploadBanner(ctx context.Context, tournamentID, actorID int, contentType string, banner io.Reader) (*models.Tournament, error)
}

type tournamentService struct {
	tournamentRepo repositories.TournamentRepository
	gameRepo       repositories.GameRepository
	userRepo       repositories.UserRepository
	uploader       storage.FileUploader
	notifier       Notifier
	clock          Clock
	logger         *slog.Logger
}

func NewTournamentService(
	tournamentRepo repositories.TournamentRepository,
	gameRepo repositories.GameRepository,
	userRepo repositories.UserRepository,
	uploader storage.FileUploader,
	notifier Notifier,
	clock Clock,
	logger *slog.Logger,
) TournamentService {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	return &tournamentService{
		tournamentRepo: tournamentRepo,
		gameRepo:       gameRepo,
		userRepo:       userRepo,
		uploader:       uploader,
		notifier:       notifier,
		clock:          clock,
		logger:         logger,
	}
}

func (s *tournamentService) CreateTournament(ctx context.Context, organizerID int, input CreateTournamentInput) (*models.Tournament, error) {
	if input.Title == "" {
		return nil, ErrTournamentTitleRequired
	}
	if !input.Format.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrTournamentInvalidFormat, input.Format)
	}
	if input.MaxParticipants < 2 {
		return nil, ErrTournamentInvalidCapacity
	}
	if input.MinParticipants < 0 || input.MinParticipants > input.MaxParticipants {
		return nil, fmt.Errorf("%w: min participants out of range", ErrValidationFailed)
	}

	registration := models.Registration{
		StartDate:       input.RegistrationStartDate,
		EndDate:         input.RegistrationEndDate,
		MaxParticipants: input.MaxParticipants,
		MinParticipants: input.MinParticipants,
		EntryFee:        input.EntryFee,
		Eligibility:     input.Eligibility,
	}
	schedule := models.Schedule{
		StartDate: input.ScheduleStartDate,
		EndDate:   input.ScheduleEndDate,
		Duration:  input.Duration,
		Timezone:  input.Timezone,
	}
	if err := validateTournamentWindows(registration, schedule); err != nil {
		return nil, err
	}

	// Категория наследуется от игры, отдельно не передаётся.
	game, err := s.gameRepo.GetByID(ctx, input.GameID)
	if err != nil {
		if errors.Is(err, repositories.ErrGameNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("failed to load game %d: %w", input.GameID, err)
	}

	if _, err := s.userRepo.GetByID(ctx, organizerID); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load organizer %d: %w", organizerID, err)
	}

	tournament := &models.Tournament{
		Title:        input.Title,
		Description:  input.Description,
		GameID:       game.ID,
		OrganizerID:  organizerID,
		Category:     game.Category,
		Format:       input.Format,
		Status:       models.StatusUpcoming,
		Registration: registration,
		Schedule:     schedule,
		PrizePool:    input.PrizePool,
		Participants: []models.Participant{},
		Matches:      []models.Match{},
		Moderators:   input.Moderators,
	}

	DeriveStatus(tournament, s.clock.Now())

	if err := s.tournamentRepo.Create(ctx, tournament); err != nil {
		return nil, mapTournamentRepoError(err)
	}

	s.notifier.Notify(tournament.ID, realtime.EventTournamentCreated, tournament)
	return tournament, nil
}

func (s *tournamentService) GetTournamentByID(ctx context.Context, id int) (*models.Tournament, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapTournamentRepoError(err)
	}

	// Нормализация при чтении — только в памяти, без записи: статус между
	// сохранениями может устареть, читающий всегда видит актуальный.
	DeriveStatus(tournament, s.clock.Now())

	if err := s.populateTournamentDetails(ctx, tournament); err != nil {
		return nil, err
	}

	// Счётчик просмотров — best effort, его отказ не ломает чтение.
	if err := s.tournamentRepo.IncrementViews(ctx, id); err != nil {
		s.logger.Warn("failed to increment tournament views",
			slog.Int("tournament_id", id), slog.Any("error", err))
	} else {
		tournament.Stats.Views++
	}

	return tournament, nil
}

func (s *tournamentService) ListTournaments(ctx context.Context, filter ListTournamentsFilter) ([]models.Tournament, error) {
	tournaments, err := s.tournamentRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	for i := range tournaments {
		DeriveStatus(&tournaments[i], now)
		populateTournamentBannerURL(&tournaments[i], s.uploader)
	}
	return tournaments, nil
}

func (s *tournamentService) ListParticipants(ctx context.Context, tournamentID int) ([]models.Participant, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		return nil, mapTournamentRepoError(err)
	}
	return tournament.Participants, nil
}

// CancelTournament — явный административный перевод в cancelled.
// После него временная нормализация статус больше не меняет.
func (s *tournamentService) CancelTournament(ctx context.Context, tournamentID, actorID int) (*models.Tournament, error) {
	tournament, err := saveTournament(ctx, s.tournamentRepo, s.clock, tournamentID, func(t *models.Tournament, now time.Time) error {
		if t.OrganizerID != actorID {
			return ErrForbiddenOperation
		}
		DeriveStatus(t, now)
		switch t.Status {
		case models.StatusCompleted:
			return fmt.Errorf("%w: cannot cancel a completed tournament", ErrTournamentInvalidStatusTransition)
		case models.StatusCancelled:
			return fmt.Errorf("%w: tournament is already cancelled", ErrTournamentInvalidStatusTransition)
		}
		t.Status = models.StatusCancelled
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(tournament.ID, realtime.EventStatusChanged, map[string]interface{}{
		"status": tournament.Status,
	})
	return tournament, nil
}

func (s *tournamentService) UploadBanner(ctx context.Context, tournamentID, actorID int, contentType string, banner io.Reader) (*models.Tournament, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		return nil, mapTournamentRepoError(err)
	}
	if tournament.OrganizerID != actorID {
		return nil, ErrForbiddenOperation
	}

	key := fmt.Sprintf("tournaments/%d/banner", tournamentID)
	result, err := s.uploader.Upload(ctx, key, contentType, banner)
	if err != nil {
		return nil, fmt.Errorf("failed to upload tournament banner: %w", err)
	}

	if err := s.tournamentRepo.UpdateBannerKey(ctx, tournamentID, &result.Key); err != nil {
		return nil, mapTournamentRepoError(err)
	}

	tournament.BannerKey = &result.Key
	populateTournamentBannerURL(tournament, s.uploader)
	return tournament, nil
}

// populateTournamentDetails параллельно подгружает связанные сущности
// (игру и организатора) и проставляет публичные URL медиа.
func (s *tournamentService) populateTournamentDetails(ctx context.Context, tournament *models.Tournament) error {
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		game, err := s.gameRepo.GetByID(gCtx, tournament.GameID)
		if err != nil {
			return fmt.Errorf("failed to load game %d: %w", tournament.GameID, err)
		}
		populateGameCoverURL(game, s.uploader)
		tournament.Game = game
		return nil
	})

	g.Go(func() error {
		organizer, err := s.userRepo.GetByID(gCtx, tournament.OrganizerID)
		if err != nil {
			return fmt.Errorf("failed to load organizer %d: %w", tournament.OrganizerID, err)
		}
		tournament.Organizer = organizer
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	populateTournamentBannerURL(tournament, s.uploader)
	return nil
}
