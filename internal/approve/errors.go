package approve

import (
	"errors"
	"fmt"
)

// ErrSetup marks a failure before any approval was issued.
var ErrSetup = errors.New("approval setup failed")

// Stage names the setup step that failed.
type Stage string

const (
	StagePlan     Stage = "plan"
	StageArtifact Stage = "artifact"
	StageSigner   Stage = "signer"
	StageBind     Stage = "bind"
)

// SetupError is returned by Run when loading the artifact, obtaining the
// signer or binding the token contracts fails. It matches ErrSetup and the
// underlying cause under errors.Is.
type SetupError struct {
	Stage Stage
	Err   error
}

func (e *SetupError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *SetupError) Unwrap() []error {
	return []error{ErrSetup, e.Err}
}

func setupErr(stage Stage, err error) error {
	return &SetupError{Stage: stage, Err: err}
}
