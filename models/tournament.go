package models

import "time"

// TournamentStatus представляет статусы турнира, соответствующие ENUM в БД.
// Все статусы, кроме StatusCancelled, выводятся из временных окон турнира.
type TournamentStatus string

const (
	StatusUpcoming     TournamentStatus = "upcoming"
	StatusRegistration TournamentStatus = "registration"
	StatusLive         TournamentStatus = "live"
	StatusCompleted    TournamentStatus = "completed"
	StatusCancelled    TournamentStatus = "cancelled"
)

// TournamentFormat — формат проведения турнира. Генерация сетки
// реализована только для single_elimination, остальные форматы
// хранятся и отдаются как есть.
type TournamentFormat string

const (
	FormatSingleElimination TournamentFormat = "single_elimination"
	FormatDoubleElimination TournamentFormat = "double_elimination"
	FormatRoundRobin        TournamentFormat = "round_robin"
	FormatSwiss             TournamentFormat = "swiss"
	FormatBracket           TournamentFormat = "bracket"
	FormatLeague            TournamentFormat = "league"
)

func (f TournamentFormat) Valid() bool {
	switch f {
	case FormatSingleElimination, FormatDoubleElimination, FormatRoundRobin,
		FormatSwiss, FormatBracket, FormatLeague:
		return true
	}
	return false
}

// Eligibility — требования к участникам при регистрации.
type Eligibility struct {
	MinLevel  *int    `json:"min_level,omitempty"`
	MaxLevel  *int    `json:"max_level,omitempty"`
	SkillTier *string `json:"skill_tier,omitempty"`
	Region    *string `json:"region,omitempty"`
}

// Registration — окно регистрации и её ограничения.
// IsOpen — вычисляемое поле (см. services.DeriveStatus): нормализуется
// перед каждым сохранением агрегата, в БД не является источником истины.
type Registration struct {
	StartDate       time.Time   `json:"start_date"`
	EndDate         time.Time   `json:"end_date"`
	IsOpen          bool        `json:"is_open"`
	MaxParticipants int         `json:"max_participants"`
	MinParticipants int         `json:"min_participants"`
	EntryFee        float64     `json:"entry_fee"`
	Eligibility     Eligibility `json:"eligibility"`
}

// Schedule — игровое окно турнира.
type Schedule struct {
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Duration  *string   `json:"duration,omitempty"`
	Timezone  string    `json:"timezone"`
}

// PrizeAward — выплата за занятое место.
type PrizeAward struct {
	Position   int      `json:"position"`
	Amount     float64  `json:"amount"`
	Percentage *float64 `json:"percentage,omitempty"`
}

type PrizePool struct {
	Total        float64      `json:"total"`
	Distribution []PrizeAward `json:"distribution,omitempty"`
}

// Stats — агрегатные счётчики турнира. TotalMatches и MatchesCompleted
// должны оставаться согласованными с коллекцией матчей.
type Stats struct {
	Views            int `json:"views"`
	MatchesCompleted int `json:"matches_completed"`
	TotalMatches     int `json:"total_matches"`
}

// Tournament — корневой агрегат. Все мутации (регистрация, генерация
// сетки, запись результатов) проходят через него; User и Game хранятся
// только по ссылке (id), без владеющих указателей.
type Tournament struct {
	ID          int              `json:"id" db:"id"`
	Title       string           `json:"title" db:"title"`
	Description *string          `json:"description,omitempty" db:"description"`
	GameID      int              `json:"game_id" db:"game_id"`
	OrganizerID int              `json:"organizer_id" db:"organizer_id"`
	Category    string           `json:"category" db:"category"`
	Format      TournamentFormat `json:"format" db:"format"`
	Status      TournamentStatus `json:"status" db:"status"`

	Registration Registration `json:"registration"`
	Schedule     Schedule     `json:"schedule"`
	PrizePool    PrizePool    `json:"prize_pool"`

	Participants []Participant `json:"participants"`
	Matches      []Match       `json:"matches"`
	Moderators   []int         `json:"moderators,omitempty"`
	Stats        Stats         `json:"stats"`

	BannerKey *string `json:"-" db:"banner_key"`
	BannerURL *string `json:"banner_url,omitempty" db:"-"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	Version   int       `json:"-" db:"version"`

	// Опциональные связанные сущности (не мапятся напрямую)
	Game      *Game `json:"game,omitempty" db:"-"`
	Organizer *User `json:"organizer,omitempty" db:"-"`
}

// ParticipantByUser возвращает запись участника для пользователя, если она есть.
func (t *Tournament) ParticipantByUser(userID int) *Participant {
	for i := range t.Participants {
		if t.Participants[i].UserID == userID {
			return &t.Participants[i]
		}
	}
	return nil
}

// ActiveParticipantCount — количество участников, занимающих слот
// вместимости: все, кроме дисквалифицированных.
func (t *Tournament) ActiveParticipantCount() int {
	count := 0
	for i := range t.Participants {
		if t.Participants[i].Status != ParticipantDisqualified {
			count++
		}
	}
	return count
}

// RegisteredParticipants — участники со статусом registered,
// именно они считаются при генерации сетки.
func (t *Tournament) RegisteredParticipants() []Participant {
	result := make([]Participant, 0, len(t.Participants))
	for i := range t.Participants {
		if t.Participants[i].Status == ParticipantRegistered {
			result = append(result, t.Participants[i])
		}
	}
	return result
}

// MatchByID возвращает матч по его id внутри турнира.
func (t *Tournament) MatchByID(matchID int) *Match {
	for i := range t.Matches {
		if t.Matches[i].ID == matchID {
			return &t.Matches[i]
		}
	}
	return nil
}

// IsModerator сообщает, входит ли пользователь в список модераторов турнира.
func (t *Tournament) IsModerator(userID int) bool {
	for _, id := range t.Moderators {
		if id == userID {
			return true
		}
	}
	return false
}
