//go:build !darwin && !linux && !freebsd && !windows

package services

import "errors"

var errVolumeUnsupported = errors.New("volume statistics not supported on this platform")

func volumeStats(string) (int64, int64, error) {
	return 0, 0, errVolumeUnsupported
}
