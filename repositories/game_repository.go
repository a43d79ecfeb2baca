package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/huzaiif/game-zone/models"
)

var ErrGameNotFound = errors.New("game not found")

type GameRepository interface {
	GetByID(ctx context.Context, id int) (*models.Game, error)
	List(ctx context.Context, category *string, limit, offset int) ([]models.Game, error)
}

type postgresGameRepository struct {
	db *sql.DB
}

func NewPostgresGameRepository(db *sql.DB) GameRepository {
	return &postgresGameRepository{db: db}
}

func (r *postgresGameRepository) GetByID(ctx context.Context, id int) (*models.Game, error) {
	query := `
		SELECT id, title, description, category, developer, cover_key, created_at
		FROM games
		WHERE id = $1`

	g := &models.Game{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&g.ID, &g.Title, &g.Description, &g.Category, &g.Developer, &g.CoverKey, &g.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGameNotFound
		}
		return nil, err
	}
	return g, nil
}

func (r *postgresGameRepository) List(ctx context.Context, category *string, limit, offset int) ([]models.Game, error) {
	query := `
		SELECT id, title, description, category, developer, cover_key, created_at
		FROM games
		WHERE 1=1`

	args := []interface{}{}
	argID := 1

	if category != nil {
		query += fmt.Sprintf(" AND category = $%d", argID)
		args = append(args, *category)
		argID++
	}

	query += " ORDER BY title ASC"

	if limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argID)
		args = append(args, limit)
		argID++
	}
	if offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argID)
		args = append(args, offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	games := make([]models.Game, 0)
	for rows.Next() {
		var g models.Game
		if scanErr := rows.Scan(
			&g.ID, &g.Title, &g.Description, &g.Category, &g.Developer, &g.CoverKey, &g.CreatedAt,
		); scanErr != nil {
			return nil, scanErr
		}
		games = append(games, g)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return games, nil
}
