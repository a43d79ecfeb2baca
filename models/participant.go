package models

import "time"

type ParticipantStatus string

const (
	ParticipantRegistered   ParticipantStatus = "registered"
	ParticipantConfirmed    ParticipantStatus = "confirmed"
	ParticipantEliminated   ParticipantStatus = "eliminated"
	ParticipantDisqualified ParticipantStatus = "disqualified"
)

// ParticipantStats — персональная статистика участника в рамках турнира.
type ParticipantStats struct {
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
	Score  int `json:"score"`
}

// Participant — запись участия пользователя в турнире. На один UserID
// в турнире допускается не более одной записи (I1).
type Participant struct {
	UserID       int               `json:"user_id"`
	RegisteredAt time.Time         `json:"registered_at"`
	Status       ParticipantStatus `json:"status"`
	Seed         *int              `json:"seed,omitempty"`
	Stats        ParticipantStats  `json:"stats"`
}
