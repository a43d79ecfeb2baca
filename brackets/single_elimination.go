package brackets

import (
	"context"
	"errors"
	"math"

	"github.com/huzaiif/game-zone/models"
)

var ErrNotEnoughParticipants = errors.New("not enough participants to generate a single elimination bracket (minimum 2)")

// SingleEliminationGenerator строит каркас сетки на выбывание:
// rounds = ceil(log2(n)), в раунде r создаётся 2^(rounds-r) матчей,
// match_number растёт сквозной нумерацией по раундам. Слоты игроков
// не заполняются — рассадка и продвижение победителей выполняются
// отдельно от генерации каркаса.
//
// Для n, не являющегося степенью двойки, первый раунд содержит больше
// слотов, чем нужно для рассадки n участников: каркас строится на полную
// сетку без механизма bye. Например, n=5 даёт раунды 4/2/1 (7 матчей).
type SingleEliminationGenerator struct {
}

func NewSingleEliminationGenerator() BracketGenerator {
	return &SingleEliminationGenerator{}
}

func (g *SingleEliminationGenerator) GetName() string {
	return "SingleElimination"
}

func (g *SingleEliminationGenerator) GenerateBracket(ctx context.Context, params GenerateBracketParams) ([]models.Match, error) {
	n := len(params.Participants)
	if n < 2 {
		return nil, ErrNotEnoughParticipants
	}

	numRounds := int(math.Ceil(math.Log2(float64(n))))

	totalMatches := (1 << uint(numRounds)) - 1
	matches := make([]models.Match, 0, totalMatches)

	matchNumber := 0
	for round := 1; round <= numRounds; round++ {
		matchesInRound := 1 << uint(numRounds-round)
		for i := 0; i < matchesInRound; i++ {
			matchNumber++
			matches = append(matches, models.Match{
				ID:          matchNumber,
				Round:       round,
				MatchNumber: matchNumber,
				Status:      models.MatchScheduled,
			})
		}
	}

	return matches, nil
}
