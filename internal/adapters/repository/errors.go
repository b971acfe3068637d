package repository

import "errors"

// Sentinel kinds for profile store errors.
var (
	ErrScoutNotFound       = errors.New("scout not found")
	ErrSavedSearchNotFound = errors.New("saved search not found")
	ErrBatchTooLarge       = errors.New("id batch exceeds query limit")
	ErrMissingAthleteID    = errors.New("bundle missing athlete id")
)
