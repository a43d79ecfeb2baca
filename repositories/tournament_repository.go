package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/huzaiif/game-zone/models"
	"github.com/lib/pq"
)

var (
	ErrTournamentNotFound      = errors.New("tournament not found")
	ErrTournamentTitleConflict = errors.New("tournament title conflict for this organizer")
	ErrTournamentInvalidGame   = errors.New("invalid game reference")
	ErrTournamentInvalidOrg    = errors.New("invalid organizer reference")
	// ErrVersionConflict — условная запись не прошла: версия агрегата
	// изменилась между чтением и сохранением.
	ErrVersionConflict = errors.New("tournament was modified concurrently")
)

type ListTournamentsFilter struct {
	Status      *models.TournamentStatus
	Category    *string
	Format      *models.TournamentFormat
	OrganizerID *int
	GameID      *int
	Sort        string // "start_date" | "created_at" | "title"
	Limit       int
	Offset      int
}

// TournamentRepository хранит турнир как документ: скалярные поля,
// по которым фильтруются списки, лежат в колонках, остальное тело
// агрегата (окна, участники, матчи, статистика) — в JSONB-документе.
type TournamentRepository interface {
	Create(ctx context.Context, tournament *models.Tournament) error
	GetByID(ctx context.Context, id int) (*models.Tournament, error)
	List(ctx context.Context, filter ListTournamentsFilter) ([]models.Tournament, error)
	// UpdateDocument выполняет условную запись: сохранение проходит только
	// если версия строки совпадает с прочитанной, иначе ErrVersionConflict.
	UpdateDocument(ctx context.Context, tournament *models.Tournament) error
	UpdateBannerKey(ctx context.Context, tournamentID int, bannerKey *string) error
	IncrementViews(ctx context.Context, tournamentID int) error
}

// tournamentDocument — JSONB-часть строки турнира.
type tournamentDocument struct {
	Registration models.Registration  `json:"registration"`
	Schedule     models.Schedule      `json:"schedule"`
	PrizePool    models.PrizePool     `json:"prize_pool"`
	Participants []models.Participant `json:"participants"`
	Matches      []models.Match       `json:"matches"`
	Moderators   []int                `json:"moderators,omitempty"`
	Stats        models.Stats         `json:"stats"`
}

func documentOf(t *models.Tournament) tournamentDocument {
	return tournamentDocument{
		Registration: t.Registration,
		Schedule:     t.Schedule,
		PrizePool:    t.PrizePool,
		Participants: t.Participants,
		Matches:      t.Matches,
		Moderators:   t.Moderators,
		Stats:        t.Stats,
	}
}

func (d *tournamentDocument) applyTo(t *models.Tournament) {
	t.Registration = d.Registration
	t.Schedule = d.Schedule
	t.PrizePool = d.PrizePool
	t.Participants = d.Participants
	t.Matches = d.Matches
	t.Moderators = d.Moderators
	t.Stats = d.Stats
	if t.Participants == nil {
		t.Participants = []models.Participant{}
	}
	if t.Matches == nil {
		t.Matches = []models.Match{}
	}
}

type postgresTournamentRepository struct {
	db *sql.DB
}

func NewPostgresTournamentRepository(db *sql.DB) TournamentRepository {
	return &postgresTournamentRepository{db: db}
}

func (r *postgresTournamentRepository) Create(ctx context.Context, t *models.Tournament) error {
	doc, err := json.Marshal(documentOf(t))
	if err != nil {
		return fmt.Errorf("failed to marshal tournament document: %w", err)
	}

	query := `
		INSERT INTO tournaments (
			title, description, game_id, organizer_id, category, format,
			status, banner_key, document
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, version`

	err = r.db.QueryRowContext(ctx, query,
		t.Title, t.Description, t.GameID, t.OrganizerID, t.Category, t.Format,
		t.Status, t.BannerKey, doc,
	).Scan(&t.ID, &t.CreatedAt, &t.Version)

	return r.handleTournamentError(err)
}

func (r *postgresTournamentRepository) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	query := `
		SELECT
			id, title, description, game_id, organizer_id, category, format,
			status, banner_key, document, created_at, version
		FROM tournaments
		WHERE id = $1`

	t := &models.Tournament{}
	var doc []byte
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&t.ID, &t.Title, &t.Description, &t.GameID, &t.OrganizerID, &t.Category, &t.Format,
		&t.Status, &t.BannerKey, &doc, &t.CreatedAt, &t.Version,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}

	var d tournamentDocument
	if err := json.Unmarshal(doc, &d); err != nil {
		return nil, fmt.Errorf("failed to unmarshal tournament %d document: %w", id, err)
	}
	d.applyTo(t)

	return t, nil
}

func (r *postgresTournamentRepository) List(ctx context.Context, filter ListTournamentsFilter) ([]models.Tournament, error) {
	query := `
		SELECT
			id, title, description, game_id, organizer_id, category, format,
			status, banner_key, document, created_at, version
		FROM tournaments
		WHERE 1=1`

	args := []interface{}{}
	argID := 1

	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argID)
		args = append(args, *filter.Status)
		argID++
	}
	if filter.Category != nil {
		query += fmt.Sprintf(" AND category = $%d", argID)
		args = append(args, *filter.Category)
		argID++
	}
	if filter.Format != nil {
		query += fmt.Sprintf(" AND format = $%d", argID)
		args = append(args, *filter.Format)
		argID++
	}
	if filter.OrganizerID != nil {
		query += fmt.Sprintf(" AND organizer_id = $%d", argID)
		args = append(args, *filter.OrganizerID)
		argID++
	}
	if filter.GameID != nil {
		query += fmt.Sprintf(" AND game_id = $%d", argID)
		args = append(args, *filter.GameID)
		argID++
	}

	// Сортировка только по белому списку колонок.
	switch filter.Sort {
	case "title":
		query += " ORDER BY title ASC"
	case "created_at":
		query += " ORDER BY created_at DESC"
	default:
		query += " ORDER BY (document->'schedule'->>'start_date') DESC, created_at DESC"
	}

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argID)
		args = append(args, filter.Limit)
		argID++
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argID)
		args = append(args, filter.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tournaments := make([]models.Tournament, 0)
	for rows.Next() {
		var t models.Tournament
		var doc []byte
		if scanErr := rows.Scan(
			&t.ID, &t.Title, &t.Description, &t.GameID, &t.OrganizerID, &t.Category, &t.Format,
			&t.Status, &t.BannerKey, &doc, &t.CreatedAt, &t.Version,
		); scanErr != nil {
			return nil, scanErr
		}
		var d tournamentDocument
		if err := json.Unmarshal(doc, &d); err != nil {
			return nil, fmt.Errorf("failed to unmarshal tournament %d document: %w", t.ID, err)
		}
		d.applyTo(&t)
		tournaments = append(tournaments, t)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return tournaments, nil
}

func (r *postgresTournamentRepository) UpdateDocument(ctx context.Context, t *models.Tournament) error {
	doc, err := json.Marshal(documentOf(t))
	if err != nil {
		return fmt.Errorf("failed to marshal tournament document: %w", err)
	}

	query := `
		UPDATE tournaments SET
			status = $1,
			document = $2,
			version = version + 1
		WHERE id = $3 AND version = $4
		RETURNING version`

	err = r.db.QueryRowContext(ctx, query, t.Status, doc, t.ID, t.Version).Scan(&t.Version)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Либо строки нет, либо версия ушла вперёд. Различаем для вызывающего.
			var exists bool
			if checkErr := r.db.QueryRowContext(ctx,
				`SELECT EXISTS(SELECT 1 FROM tournaments WHERE id = $1)`, t.ID,
			).Scan(&exists); checkErr != nil {
				return checkErr
			}
			if !exists {
				return ErrTournamentNotFound
			}
			return ErrVersionConflict
		}
		return r.handleTournamentError(err)
	}
	return nil
}

func (r *postgresTournamentRepository) UpdateBannerKey(ctx context.Context, tournamentID int, bannerKey *string) error {
	query := `UPDATE tournaments SET banner_key = $1 WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, bannerKey, tournamentID)
	if err != nil {
		return fmt.Errorf("failed to update tournament banner key: %w", err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

// IncrementViews атомарно увеличивает счётчик просмотров внутри документа,
// не трогая версию агрегата: просмотры не участвуют в инвариантах.
func (r *postgresTournamentRepository) IncrementViews(ctx context.Context, tournamentID int) error {
	query := `
		UPDATE tournaments
		SET document = jsonb_set(
			document,
			'{stats,views}',
			to_jsonb(COALESCE((document->'stats'->>'views')::int, 0) + 1)
		)
		WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, tournamentID)
	if err != nil {
		return fmt.Errorf("failed to increment views for tournament %d: %w", tournamentID, err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) handleTournamentError(err error) error {
	if err == nil {
		return nil
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code.Name() {
		case "unique_violation":
			return ErrTournamentTitleConflict
		case "foreign_key_violation":
			switch pqErr.Constraint {
			case "tournaments_game_id_fkey":
				return ErrTournamentInvalidGame
			case "tournaments_organizer_id_fkey":
				return ErrTournamentInvalidOrg
			}
		}
	}

	return err
}
