package models

import "time"

// User — профиль игрока. Ядро турниров читает его для проверок
// существования и требований к уровню; единственная запись с его стороны —
// зеркалирование списка турниров пользователя после (де)регистрации.
type User struct {
	ID        int       `json:"id" db:"id"`
	Nickname  string    `json:"nickname" db:"nickname"`
	Email     string    `json:"email" db:"email"`
	Level     int       `json:"level" db:"level"`
	SkillTier *string   `json:"skill_tier,omitempty" db:"skill_tier"`
	Region    *string   `json:"region,omitempty" db:"region"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// Обратные ссылки на турниры, в которых пользователь зарегистрирован.
	TournamentIDs []int `json:"tournament_ids,omitempty" db:"-"`
}
