package domain

import "path/filepath"

// ChildEntry is one immediate child of a scanned root.
type ChildEntry struct {
	Path        string
	SizeBytes   int64
	IsDirectory bool
}

func (entry ChildEntry) Name() string {
	name := filepath.Base(entry.Path)
	if name == "." || name == string(filepath.Separator) {
		return entry.Path
	}
	return name
}

// VolumeUsage is a capacity snapshot of the volume holding a scanned root.
type VolumeUsage struct {
	UsedBytes  int64
	TotalBytes int64
}

// NewVolumeUsage derives used space as total minus free, clamped to [0, total].
func NewVolumeUsage(total, free int64) VolumeUsage {
	if total < 0 {
		total = 0
	}
	used := total - free
	if used < 0 {
		used = 0
	}
	if used > total {
		used = total
	}
	return VolumeUsage{UsedBytes: used, TotalBytes: total}
}

func (usage VolumeUsage) UsedFraction() float64 {
	total := usage.TotalBytes
	if total < 1 {
		total = 1
	}
	return float64(usage.UsedBytes) / float64(total)
}
