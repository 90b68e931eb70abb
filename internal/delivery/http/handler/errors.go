package handler

import (
	"context"
	"errors"
	"net/http"

	"patient-portal/internal/domain/repository"
)

// LocalRefresher refreshes this instance's live views after a local write.
type LocalRefresher interface {
	RefreshLocal(ctx context.Context)
}

func isUnavailable(err error) bool {
	return errors.Is(err, repository.ErrNotReady) || errors.Is(err, repository.ErrConnectionFailed)
}

func statusFor(err error) int {
	if isUnavailable(err) {
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}
