package services

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/huzaiif/game-zone/models"
	"github.com/huzaiif/game-zone/repositories"
)

// testBase — опорный момент времени для фикстур: внутри окна регистрации,
// до начала игрового окна.
var testBase = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// seedTournament кладёт в репозиторий турнир с открытой на testBase
// регистрацией и игровым окном в будущем.
func seedTournament(repo *fakeTournamentRepo, mutators ...func(*models.Tournament)) *models.Tournament {
	t := &models.Tournament{
		Title:       "Summer Cup",
		GameID:      1,
		OrganizerID: 100,
		Category:    "fps",
		Format:      models.FormatSingleElimination,
		Status:      models.StatusUpcoming,
		Registration: models.Registration{
			StartDate:       testBase.Add(-time.Hour),
			EndDate:         testBase.Add(24 * time.Hour),
			MaxParticipants: 8,
			MinParticipants: 2,
		},
		Schedule: models.Schedule{
			StartDate: testBase.Add(48 * time.Hour),
			EndDate:   testBase.Add(72 * time.Hour),
			Timezone:  "UTC",
		},
		Participants: []models.Participant{},
		Matches:      []models.Match{},
	}
	for _, mutate := range mutators {
		mutate(t)
	}
	if err := repo.Create(context.Background(), t); err != nil {
		panic(err)
	}
	return t
}

// fakeClock отдаёт фиксированный момент времени.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

// fakeNotifier копит события для проверок.
type fakeNotifier struct {
	mu     sync.Mutex
	events []string
}

func (n *fakeNotifier) Notify(tournamentID int, eventType string, payload interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, eventType)
}

// fakeTournamentRepo — потокобезопасное in-memory хранилище агрегатов
// с той же семантикой условной записи, что и у Postgres-репозитория.
// conflictsToInject позволяет проверить повторы при конфликте версий.
type fakeTournamentRepo struct {
	mu                sync.Mutex
	byID              map[int]*models.Tournament
	nextID            int
	conflictsToInject int
}

func newFakeTournamentRepo() *fakeTournamentRepo {
	return &fakeTournamentRepo{byID: map[int]*models.Tournament{}, nextID: 1}
}

func cloneTournament(t *models.Tournament) *models.Tournament {
	raw, err := json.Marshal(t)
	if err != nil {
		panic(err)
	}
	clone := &models.Tournament{}
	if err := json.Unmarshal(raw, clone); err != nil {
		panic(err)
	}
	clone.Version = t.Version
	clone.BannerKey = t.BannerKey
	return clone
}

func (r *fakeTournamentRepo) Create(ctx context.Context, t *models.Tournament) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t.ID = r.nextID
	r.nextID++
	t.CreatedAt = time.Now()
	t.Version = 1
	r.byID[t.ID] = cloneTournament(t)
	return nil
}

func (r *fakeTournamentRepo) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.byID[id]
	if !ok {
		return nil, repositories.ErrTournamentNotFound
	}
	return cloneTournament(stored), nil
}

func (r *fakeTournamentRepo) List(ctx context.Context, filter repositories.ListTournamentsFilter) ([]models.Tournament, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]models.Tournament, 0, len(r.byID))
	for _, t := range r.byID {
		if filter.Status != nil && t.Status != *filter.Status {
			continue
		}
		if filter.Category != nil && t.Category != *filter.Category {
			continue
		}
		if filter.Format != nil && t.Format != *filter.Format {
			continue
		}
		result = append(result, *cloneTournament(t))
	}
	return result, nil
}

func (r *fakeTournamentRepo) UpdateDocument(ctx context.Context, t *models.Tournament) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.byID[t.ID]
	if !ok {
		return repositories.ErrTournamentNotFound
	}
	if r.conflictsToInject > 0 {
		r.conflictsToInject--
		return repositories.ErrVersionConflict
	}
	if stored.Version != t.Version {
		return repositories.ErrVersionConflict
	}
	t.Version++
	r.byID[t.ID] = cloneTournament(t)
	return nil
}

func (r *fakeTournamentRepo) UpdateBannerKey(ctx context.Context, tournamentID int, bannerKey *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.byID[tournamentID]
	if !ok {
		return repositories.ErrTournamentNotFound
	}
	stored.BannerKey = bannerKey
	return nil
}

func (r *fakeTournamentRepo) IncrementViews(ctx context.Context, tournamentID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.byID[tournamentID]
	if !ok {
		return repositories.ErrTournamentNotFound
	}
	stored.Stats.Views++
	return nil
}

type fakeUserRepo struct {
	mu   sync.Mutex
	byID map[int]*models.User
	refs map[int][]int
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	repo := &fakeUserRepo{byID: map[int]*models.User{}, refs: map[int][]int{}}
	for _, u := range users {
		repo.byID[u.ID] = u
	}
	return repo
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id int) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	copied := *u
	copied.TournamentIDs = append([]int(nil), r.refs[id]...)
	return &copied, nil
}

func (r *fakeUserRepo) AddTournamentRef(ctx context.Context, userID, tournamentID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range r.refs[userID] {
		if id == tournamentID {
			return nil
		}
	}
	r.refs[userID] = append(r.refs[userID], tournamentID)
	return nil
}

func (r *fakeUserRepo) RemoveTournamentRef(ctx context.Context, userID, tournamentID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	filtered := r.refs[userID][:0]
	for _, id := range r.refs[userID] {
		if id != tournamentID {
			filtered = append(filtered, id)
		}
	}
	r.refs[userID] = filtered
	return nil
}

type fakeGameRepo struct {
	byID map[int]*models.Game
}

func newFakeGameRepo(games ...*models.Game) *fakeGameRepo {
	repo := &fakeGameRepo{byID: map[int]*models.Game{}}
	for _, g := range games {
		repo.byID[g.ID] = g
	}
	return repo
}

func (r *fakeGameRepo) GetByID(ctx context.Context, id int) (*models.Game, error) {
	g, ok := r.byID[id]
	if !ok {
		return nil, repositories.ErrGameNotFound
	}
	copied := *g
	return &copied, nil
}

func (r *fakeGameRepo) List(ctx context.Context, category *string, limit, offset int) ([]models.Game, error) {
	result := make([]models.Game, 0, len(r.byID))
	for _, g := range r.byID {
		if category != nil && g.Category != *category {
			continue
		}
		result = append(result, *g)
	}
	return result, nil
}
