package services

import (
	"context"
	"errors"

	"github.com/huzaiif/game-zone/models"
	"github.com/huzaiif/game-zone/repositories"
	"github.com/huzaiif/game-zone/storage"
)

// GameService — read-only доступ к каталогу игр.
type GameService interface {
	GetGameByID(ctx context.Context, id int) (*models.Game, error)
	ListGames(ctx context.Context, category *string, limit, offset int) ([]models.Game, error)
}

type gameService struct {
	gameRepo repositories.GameRepository
	uploader storage.FileUploader
}

func NewGameService(gameRepo repositories.GameRepository, uploader storage.FileUploader) GameService {
	return &gameService{gameRepo: gameRepo, uploader: uploader}
}

func (s *gameService) GetGameByID(ctx context.Context, id int) (*models.Game, error) {
	game, err := s.gameRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrGameNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, err
	}
	populateGameCoverURL(game, s.uploader)
	return game, nil
}

func (s *gameService) ListGames(ctx context.Context, category *string, limit, offset int) ([]models.Game, error) {
	games, err := s.gameRepo.List(ctx, category, limit, offset)
	if err != nil {
		return nil, err
	}
	for i := range games {
		populateGameCoverURL(&games[i], s.uploader)
	}
	return games, nil
}
