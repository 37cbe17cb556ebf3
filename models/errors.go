package models

import (
	"errors"
	"fmt"
)

// Not-found class: the entity is absent, distinct from storage malfunction.
var (
	ErrPlayerNotFound  = errors.New("player not found")
	ErrTownNotFound    = errors.New("town not found")
	ErrMissionNotFound = errors.New("mission not found")
)

// Invalid-state class: the operation was attempted from the wrong player state.
var (
	ErrAlreadyOnMission  = errors.New("already on a mission")
	ErrNoActiveMission   = errors.New("no active mission")
	ErrMissionInProgress = errors.New("mission still in progress")
	ErrCooldownActive    = errors.New("action is still on cooldown")
)

// Validation class: malformed or insufficient caller input.
var (
	ErrInsufficientResources = errors.New("insufficient resources")
	ErrInvalidAmount         = errors.New("amount must be a positive integer")
	ErrInvalidPayload        = errors.New("invalid payload")
)

// ErrRemoteClearAll guards the destructive escape hatch: clearing every table
// is a local-store operation and must fail loudly against the remote backend.
var ErrRemoteClearAll = errors.New("clearAll is not permitted against the remote store")

// StorageError wraps an opaque backend failure so callers can tell "storage
// malfunctioned" apart from "doesn't exist".
type StorageError struct {
	Op    string
	Cause error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Cause)
}

func (e *StorageError) Unwrap() error { return e.Cause }

// WrapStorage tags err as a storage failure. Nil and already-wrapped errors
// pass through unchanged.
func WrapStorage(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *StorageError
	if errors.As(err, &se) {
		return err
	}
	return &StorageError{Op: op, Cause: err}
}
