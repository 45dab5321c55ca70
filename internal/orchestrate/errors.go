package orchestrate

import "errors"

var (
	ErrNoPlatforms       = errors.New("no platform directories found")
	ErrDescriptorMissing = errors.New("build descriptor missing")
	ErrSelectionAborted  = errors.New("selection aborted")
)
