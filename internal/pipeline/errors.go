package pipeline

import (
	"errors"
	"fmt"
)

// Stage names the part of a run a fatal error escaped from.
type Stage string

const (
	StageInject Stage = "inject"
	StageWait   Stage = "wait"
	StagePatch  Stage = "patches"
	StageReplay Stage = "replay"
)

// ErrNotStarted is returned by Wait when Start was never called.
var ErrNotStarted = errors.New("pipeline not started")

// FatalError is an error that aborted a run.
type FatalError struct {
	Stage Stage
	Err   error
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *FatalError) Unwrap() error {
	return e.Err
}

// IsFatal reports whether err aborted a run.
// Uses errors.As to handle wrapped errors.
func IsFatal(err error) bool {
	var fe *FatalError
	return errors.As(err, &fe)
}
