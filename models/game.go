package models

import "time"

// Game — запись каталога игр. Для ядра турниров — read-only справочник:
// турнир наследует категорию от своей игры при создании.
type Game struct {
	ID          int       `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Description *string   `json:"description,omitempty" db:"description"`
	Category    string    `json:"category" db:"category"`
	Developer   *string   `json:"developer,omitempty" db:"developer"`
	CoverKey    *string   `json:"-" db:"cover_key"`
	CoverURL    *string   `json:"cover_url,omitempty" db:"-"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
