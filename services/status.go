package services

import (
	"time"

	"github.com/huzaiif/game-zone/models"
)

// DeriveStatus нормализует выводимые поля агрегата относительно момента now:
// статус по игровому окну, флаг открытой регистрации по окну регистрации и
// счётчик общего числа матчей. Вызывается перед каждым сохранением агрегата
// и при чтении.
//
// Статус cancelled — липкий: он выставляется только явным административным
// действием и никогда не перезаписывается временной нормализацией.
func DeriveStatus(t *models.Tournament, now time.Time) {
	t.Stats.TotalMatches = len(t.Matches)

	if t.Status == models.StatusCancelled {
		t.Registration.IsOpen = false
		return
	}

	t.Registration.IsOpen = !now.Before(t.Registration.StartDate) && !now.After(t.Registration.EndDate)

	switch {
	case now.Before(t.Schedule.StartDate):
		t.Status = models.StatusUpcoming
	case now.After(t.Schedule.EndDate):
		t.Status = models.StatusCompleted
	default:
		t.Status = models.StatusLive
	}
}
