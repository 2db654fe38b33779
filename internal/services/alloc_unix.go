//go:build unix

package services

import (
	"io/fs"
	"syscall"
)

const statBlockSize = 512

// allocatedSize reports the bytes a file occupies on disk, which differs from
// its length for sparse files and partially filled blocks.
func allocatedSize(info fs.FileInfo) int64 {
	if stat, ok := info.Sys().(*syscall.Stat_t); ok {
		return int64(stat.Blocks) * statBlockSize //nolint:unconvert // Blocks is not int64 on every platform
	}
	return info.Size()
}
