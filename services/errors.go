package services

import "errors"

// Общие ошибки, используемые в разных сервисах и маппинге HTTP.
var (
	// Ресурс не найден (универсальная)
	ErrNotFound = errors.New("requested resource not found")

	// Ошибки валидации
	ErrValidationFailed           = errors.New("validation failed")
	ErrTournamentTitleRequired    = errors.New("tournament title is required")
	ErrTournamentInvalidFormat    = errors.New("invalid tournament format")
	ErrTournamentInvalidCapacity  = errors.New("tournament max participants must be at least 2")
	ErrTournamentInvalidRegWindow = errors.New("registration end date must be after start date")
	ErrTournamentInvalidDateRange = errors.New("tournament end date must be after start date")
	ErrNegativeScore              = errors.New("match score values must be non-negative")

	// Ошибки бизнес-правил регистрации
	ErrAlreadyRegistered  = errors.New("user is already registered for this tournament")
	ErrRegistrationClosed = errors.New("tournament registration is not open")
	ErrTournamentFull     = errors.New("tournament registration is full")
	ErrNotRegistered      = errors.New("user is not registered for this tournament")
	ErrTournamentStarted  = errors.New("tournament has already started")
	ErrNotEligible        = errors.New("user does not meet tournament eligibility requirements")

	// Ошибки сетки и матчей
	ErrInsufficientParticipants = errors.New("not enough registered participants to generate bracket")
	ErrUnsupportedBracketType   = errors.New("bracket generation is not supported for this format")
	ErrMatchNotFound            = errors.New("match not found in tournament")

	// Ошибки авторизации
	ErrForbiddenOperation = errors.New("operation not allowed for the current user")

	// Конфликт параллельной записи: условное сохранение не прошло даже
	// после повторных попыток.
	ErrConcurrentModification = errors.New("tournament was modified concurrently, please retry")

	// Ошибки, специфичные для сущностей
	ErrUserNotFound       = errors.New("user not found")
	ErrGameNotFound       = errors.New("game not found")
	ErrTournamentNotFound = errors.New("tournament not found")

	// Ошибки переходов статуса
	ErrTournamentInvalidStatusTransition = errors.New("invalid tournament status transition")
)
