package service

import (
	"alcyxob/fitness-admin/internal/lock"
	"alcyxob/fitness-admin/internal/observability"
	"errors"
)

// Operation names used for lock entries and metrics.
const (
	OpCreate         = "create"
	OpUpdate         = "update"
	OpDelete         = "delete"
	OpAddExercise    = "add-exercise"
	OpRemoveExercise = "remove-exercise"
	OpToggleRole     = "toggle-role"
	OpToggleBan      = "toggle-ban"
)

// mutator runs one mutation while holding the lock for its resource identity.
type mutator struct {
	locks *lock.Table
}

func (m mutator) run(resource, id, operation string, fn func() error) error {
	release, err := m.locks.TryAcquire(lock.Key{Resource: resource, ID: id}, operation)
	if err != nil {
		observability.RecordMutation(resource, operation, observability.OutcomeBusy)
		return err
	}
	defer release()

	err = fn()
	switch {
	case err == nil:
		observability.RecordMutation(resource, operation, observability.OutcomeSuccess)
	case errors.Is(err, lock.ErrBusy):
		observability.RecordMutation(resource, operation, observability.OutcomeBusy)
	default:
		observability.RecordMutation(resource, operation, observability.OutcomeFailure)
	}
	return err
}

// record counts a mutation that needs no lock, such as a create.
func record(resource, operation string, err error) {
	outcome := observability.OutcomeSuccess
	if err != nil {
		outcome = observability.OutcomeFailure
	}
	observability.RecordMutation(resource, operation, outcome)
}
