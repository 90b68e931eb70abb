package repository

import "errors"

var (
	// ErrConnectionFailed wraps whatever stopped the storage connection from
	// coming up. It is terminal for the process.
	ErrConnectionFailed = errors.New("database connection failed")
	// ErrNotReady is returned by data operations when the connection could
	// not be brought up by the one lazy initialization attempt.
	ErrNotReady = errors.New("database is not initialized")
)
