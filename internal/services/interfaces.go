package services

import (
	"context"

	"capacity/internal/domain"
)

// Scanner sizes the immediate children of a root and reports volume capacity.
// Implementations never return errors: failures show up as absent entries.
type Scanner interface {
	ListChildren(ctx context.Context, req ScanRequest) ScanResult
	VolumeUsage(path string) (domain.VolumeUsage, bool)
}
