package service

import (
	"log/slog"
	"time"
)

// Service implements the business operations over a Store. Methods are
// grouped by concern: exercises, workouts, sessions, stats, users.
type Service struct {
	store Store
	log   *slog.Logger
	now   func() time.Time
}

// New creates a Service.
func New(store Store, log *slog.Logger) *Service {
	return &Service{store: store, log: log, now: time.Now}
}
