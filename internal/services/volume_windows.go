//go:build windows

package services

import "golang.org/x/sys/windows"

func volumeStats(path string) (total, free int64, err error) {
	ptr, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return 0, 0, err
	}
	var freeAvailable, totalBytes, totalFree uint64
	if err := windows.GetDiskFreeSpaceEx(ptr, &freeAvailable, &totalBytes, &totalFree); err != nil {
		return 0, 0, err
	}
	//nolint:gosec // disk sizes fit in int64
	return int64(totalBytes), int64(freeAvailable), nil
}
