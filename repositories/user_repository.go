package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/huzaiif/game-zone/models"
)

var ErrUserNotFound = errors.New("user not found")

// UserRepository — для ядра турниров пользователь почти полностью read-only.
// Единственные записи — зеркалирование списка турниров пользователя после
// успешной (де)регистрации (обратная ссылка, вторичная к самому агрегату).
type UserRepository interface {
	GetByID(ctx context.Context, id int) (*models.User, error)
	AddTournamentRef(ctx context.Context, userID, tournamentID int) error
	RemoveTournamentRef(ctx context.Context, userID, tournamentID int) error
}

type postgresUserRepository struct {
	db *sql.DB
}

func NewPostgresUserRepository(db *sql.DB) UserRepository {
	return &postgresUserRepository{db: db}
}

func (r *postgresUserRepository) GetByID(ctx context.Context, id int) (*models.User, error) {
	query := `
		SELECT id, nickname, email, level, skill_tier, region, created_at
		FROM users
		WHERE id = $1`

	u := &models.User{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&u.ID, &u.Nickname, &u.Email, &u.Level, &u.SkillTier, &u.Region, &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	refsQuery := `SELECT tournament_id FROM user_tournaments WHERE user_id = $1 ORDER BY tournament_id`
	rows, err := r.db.QueryContext(ctx, refsQuery, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load tournament refs for user %d: %w", id, err)
	}
	defer rows.Close()

	for rows.Next() {
		var tournamentID int
		if scanErr := rows.Scan(&tournamentID); scanErr != nil {
			return nil, scanErr
		}
		u.TournamentIDs = append(u.TournamentIDs, tournamentID)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return u, nil
}

func (r *postgresUserRepository) AddTournamentRef(ctx context.Context, userID, tournamentID int) error {
	query := `
		INSERT INTO user_tournaments (user_id, tournament_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, tournament_id) DO NOTHING`
	if _, err := r.db.ExecContext(ctx, query, userID, tournamentID); err != nil {
		return fmt.Errorf("failed to add tournament ref for user %d: %w", userID, err)
	}
	return nil
}

func (r *postgresUserRepository) RemoveTournamentRef(ctx context.Context, userID, tournamentID int) error {
	query := `DELETE FROM user_tournaments WHERE user_id = $1 AND tournament_id = $2`
	if _, err := r.db.ExecContext(ctx, query, userID, tournamentID); err != nil {
		return fmt.Errorf("failed to remove tournament ref for user %d: %w", userID, err)
	}
	return nil
}
