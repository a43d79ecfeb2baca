package models

import "time"

type MatchStatus string

const (
	MatchScheduled  MatchStatus = "scheduled"
	MatchInProgress MatchStatus = "in_progress"
	MatchCompleted  MatchStatus = "completed"
	MatchForfeit    MatchStatus = "forfeit"
)

// Score — счёт матча, неотрицательные значения для обеих сторон.
type Score struct {
	Player1 int `json:"player1"`
	Player2 int `json:"player2"`
}

// Match принадлежит турниру и идентифицируется id, уникальным внутри него.
// Слоты игроков остаются пустыми до назначения — генератор сетки создаёт
// только каркас (раунд/номер матча), рассадка участников по слотам и
// продвижение победителей в следующий раунд здесь не выполняются.
type Match struct {
	ID          int `json:"id"`
	Round       int `json:"round"`
	MatchNumber int `json:"match_number"`

	Player1ID *int `json:"player1_id,omitempty"`
	Player2ID *int `json:"player2_id,omitempty"`

	ScheduledTime   *time.Time `json:"scheduled_time,omitempty"`
	ActualStartTime *time.Time `json:"actual_start_time,omitempty"`
	ActualEndTime   *time.Time `json:"actual_end_time,omitempty"`

	WinnerID *int        `json:"winner_id,omitempty"`
	Score    *Score      `json:"score,omitempty"`
	Status   MatchStatus `json:"status"`

	// Внешние медиа-ссылки, ядром не интерпретируются.
	StreamURL *string `json:"stream_url,omitempty"`
	ReplayURL *string `json:"replay_url,omitempty"`
}
