package cmake

import (
	"errors"
	"fmt"
)

// ErrCMakeNotFound indicates the cmake executable is not on the search path.
// No subprocess is launched and no directory is created when this is returned.
var ErrCMakeNotFound = errors.New("cmake not found in PATH")

// Phase names the two steps of a cmake invocation.
type Phase string

const (
	// PhaseConfigure generates the native build system files
	PhaseConfigure Phase = "configure"
	// PhaseBuild invokes the generated build system
	PhaseBuild Phase = "build"
)

// PresetNotFoundError indicates the requested configure preset is absent
// from the CMakePresets.json file, or is marked hidden.
type PresetNotFoundError struct {
	Name string
}

func (e *PresetNotFoundError) Error() string {
	return fmt.Sprintf("preset %q not found", e.Name)
}

// PhaseError indicates a cmake subprocess exited with a non-zero status.
// A configure PhaseError means the build phase was never attempted.
type PhaseError struct {
	Phase      Phase
	ExitStatus int
}

func (e *PhaseError) Error() string {
	return fmt.Sprintf("cmake %s failed with exit status %d", e.Phase, e.ExitStatus)
}
