package brackets

import (
	"context"

	"github.com/huzaiif/game-zone/models"
)

type GenerateBracketParams struct {
	Tournament   *models.Tournament
	Participants []models.Participant
}

// BracketGenerator строит коллекцию матчей-заготовок для турнира.
// Реализация определяется форматом турнира.
type BracketGenerator interface {
	GenerateBracket(ctx context.Context, params GenerateBracketParams) ([]models.Match, error)

	GetName() string
}
