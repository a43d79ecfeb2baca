package services

import "time"

// Clock абстрагирует источник текущего времени, чтобы вывод статусов
// был детерминированным в тестах.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func NewRealClock() Clock { return realClock{} }
