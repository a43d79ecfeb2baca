package brackets

import (
	"context"
	"testing"
	"time"

	"github.com/huzaiif/game-zone/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeParticipants(n int) []models.Participant {
	participants := make([]models.Participant, n)
	for i := range participants {
		participants[i] = models.Participant{
			UserID:       i + 1,
			RegisteredAt: time.Now(),
			Status:       models.ParticipantRegistered,
		}
	}
	return participants
}

func TestGenerateBracketShapes(t *testing.T) {
	testCases := []struct {
		name            string
		numParticipants int
		expectedRounds  int
		expectedPerRnd  []int
	}{
		{
			name:            "2 participants",
			numParticipants: 2,
			expectedRounds:  1,
			expectedPerRnd:  []int{1},
		},
		{
			name:            "4 participants",
			numParticipants: 4,
			expectedRounds:  2,
			expectedPerRnd:  []int{2, 1},
		},
		{
			name:            "8 participants",
			numParticipants: 8,
			expectedRounds:  3,
			expectedPerRnd:  []int{4, 2, 1},
		},
		{
			// Полная сетка без bye: для 5 участников каркас
			// получается на 8 слотов.
			name:            "non-power of 2 (5 participants)",
			numParticipants: 5,
			expectedRounds:  3,
			expectedPerRnd:  []int{4, 2, 1},
		},
	}

	generator := NewSingleEliminationGenerator()

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			matches, err := generator.GenerateBracket(context.Background(), GenerateBracketParams{
				Participants: makeParticipants(tc.numParticipants),
			})
			require.NoError(t, err)

			perRound := map[int]int{}
			maxRound := 0
			for _, m := range matches {
				perRound[m.Round]++
				if m.Round > maxRound {
					maxRound = m.Round
				}
			}
			assert.Equal(t, tc.expectedRounds, maxRound)
			for round, expected := range tc.expectedPerRnd {
				assert.Equal(t, expected, perRound[round+1], "matches in round %d", round+1)
			}
		})
	}
}

func TestGenerateBracketMatchNumbersSequential(t *testing.T) {
	generator := NewSingleEliminationGenerator()

	matches, err := generator.GenerateBracket(context.Background(), GenerateBracketParams{
		Participants: makeParticipants(4),
	})
	require.NoError(t, err)
	require.Len(t, matches, 3)

	for i, m := range matches {
		assert.Equal(t, i+1, m.MatchNumber)
		assert.Equal(t, i+1, m.ID)
		assert.Equal(t, models.MatchScheduled, m.Status)
		assert.Nil(t, m.Player1ID)
		assert.Nil(t, m.Player2ID)
	}
	// Раунды не убывают вдоль сквозной нумерации.
	assert.Equal(t, []int{1, 1, 2}, []int{matches[0].Round, matches[1].Round, matches[2].Round})
}

func TestGenerateBracketTooFewParticipants(t *testing.T) {
	generator := NewSingleEliminationGenerator()

	for _, n := range []int{0, 1} {
		_, err := generator.GenerateBracket(context.Background(), GenerateBracketParams{
			Participants: makeParticipants(n),
		})
		assert.ErrorIs(t, err, ErrNotEnoughParticipants)
	}
}
