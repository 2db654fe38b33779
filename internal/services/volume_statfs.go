//go:build darwin || linux || freebsd

package services

import "golang.org/x/sys/unix"

// volumeStats returns total and caller-available bytes for the filesystem
// containing path.
func volumeStats(path string) (total, free int64, err error) {
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return 0, 0, err
	}
	//nolint:gosec,unconvert // block size and counts come from the kernel
	bsize := int64(stat.Bsize)
	//nolint:gosec // see above
	return int64(stat.Blocks) * bsize, int64(stat.Bavail) * bsize, nil
}
