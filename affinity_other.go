//go:build !linux

package taskqueue

import "errors"

// PinToCPU is only implemented on Linux.
func PinToCPU(cpu int) error {
	return errors.New("queue: cpu pinning is not supported on this platform")
}
