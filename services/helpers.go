package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/huzaiif/game-zone/models"
	"github.com/huzaiif/game-zone/repositories"
	"github.com/huzaiif/game-zone/storage"
)

// Notifier — сток уведомлений канала обновлений турнира.
// Реализуется realtime.Hub; в тестах подменяется заглушкой.
type Notifier interface {
	Notify(tournamentID int, eventType string, payload interface{})
}

// noopNotifier используется, когда хаб не подключён.
type noopNotifier struct{}

func (noopNotifier) Notify(int, string, interface{}) {}

// maxSaveAttempts ограничивает повторы цикла read-modify-write при
// конфликте версий. После исчерпания наружу уходит ErrConcurrentModification.
const maxSaveAttempts = 3

// saveTournament выполняет мутацию агрегата по дисциплине условной записи:
// прочитать, применить mutate, нормализовать статус, условно сохранить.
// Конфликт версии приводит к повтору всего цикла на свежем чтении, поэтому
// mutate обязан быть чистой функцией от переданного агрегата. Доменные
// отказы mutate не сохраняют никаких изменений.
func saveTournament(
	ctx context.Context,
	repo repositories.TournamentRepository,
	clock Clock,
	tournamentID int,
	mutate func(t *models.Tournament, now time.Time) error,
) (*models.Tournament, error) {
	for attempt := 0; attempt < maxSaveAttempts; attempt++ {
		tournament, err := repo.GetByID(ctx, tournamentID)
		if err != nil {
			return nil, mapTournamentRepoError(err)
		}

		now := clock.Now()
		if err := mutate(tournament, now); err != nil {
			return nil, err
		}

		DeriveStatus(tournament, now)

		err = repo.UpdateDocument(ctx, tournament)
		if err == nil {
			return tournament, nil
		}
		if !errors.Is(err, repositories.ErrVersionConflict) {
			return nil, mapTournamentRepoError(err)
		}
	}
	return nil, ErrConcurrentModification
}

func mapTournamentRepoError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrTournamentNotFound):
		return ErrTournamentNotFound
	case errors.Is(err, repositories.ErrTournamentInvalidGame):
		return ErrGameNotFound
	case errors.Is(err, repositories.ErrTournamentInvalidOrg):
		return ErrUserNotFound
	default:
		return err
	}
}

func validateTournamentWindows(reg models.Registration, schedule models.Schedule) error {
	if reg.StartDate.IsZero() || reg.EndDate.IsZero() || schedule.StartDate.IsZero() || schedule.EndDate.IsZero() {
		return fmt.Errorf("%w: registration and schedule dates are required", ErrValidationFailed)
	}
	if !reg.StartDate.Before(reg.EndDate) {
		return fmt.Errorf("%w: %s .. %s", ErrTournamentInvalidRegWindow,
			reg.StartDate.Format(time.RFC3339), reg.EndDate.Format(time.RFC3339))
	}
	if !schedule.StartDate.Before(schedule.EndDate) {
		return fmt.Errorf("%w: %s .. %s", ErrTournamentInvalidDateRange,
			schedule.StartDate.Format(time.RFC3339), schedule.EndDate.Format(time.RFC3339))
	}
	return nil
}

// meetsEligibility проверяет требования турнира к пользователю.
func meetsEligibility(user *models.User, e models.Eligibility) bool {
	if e.MinLevel != nil && user.Level < *e.MinLevel {
		return false
	}
	if e.MaxLevel != nil && user.Level > *e.MaxLevel {
		return false
	}
	if e.SkillTier != nil {
		if user.SkillTier == nil || *user.SkillTier != *e.SkillTier {
			return false
		}
	}
	if e.Region != nil {
		if user.Region == nil || *user.Region != *e.Region {
			return false
		}
	}
	return true
}

func populateTournamentBannerURL(tournament *models.Tournament, uploader storage.FileUploader) {
	if tournament != nil && tournament.BannerKey != nil && *tournament.BannerKey != "" && uploader != nil {
		url := uploader.GetPublicURL(*tournament.BannerKey)
		tournament.BannerURL = &url
	}
}

func populateGameCoverURL(game *models.Game, uploader storage.FileUploader) {
	if game != nil && game.CoverKey != nil && *game.CoverKey != "" && uploader != nil {
		url := uploader.GetPublicURL(*game.CoverKey)
		game.CoverURL = &url
	}
}
