package service

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/joyas-pwa/joyas-api/internal/apperr"
	"github.com/joyas-pwa/joyas-api/internal/repository"
)

// notFoundOr maps repository.ErrNotFound to a NotFound error and anything
// else to an Internal one.
func notFoundOr(err error, notFound, internal string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound(notFound)
	}
	return apperr.Internal(err, internal)
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}

// dateOnly drops the time of day, keeping the calendar date in t's zone.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func dateOnlyPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := dateOnly(*t)
	return &d
}

func itoa(i int) string { return strconv.Itoa(i) }
