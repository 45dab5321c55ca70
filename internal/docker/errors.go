package docker

import "errors"

var (
	ErrCommandFailed     = errors.New("docker command failed")
	ErrImageNotFound     = errors.New("image not found")
	ErrDaemonUnavailable = errors.New("docker daemon unavailable")
)
