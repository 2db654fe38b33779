package services

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"

	"capacity/internal/domain"
)

type FSScanner struct {
	workers int
	logger  zerolog.Logger
}

type Option func(*FSScanner)

// WithWorkers bounds how many top-level children are sized at once.
func WithWorkers(count int) Option {
	return func(scanner *FSScanner) {
		if count > 0 {
			scanner.workers = count
		}
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(scanner *FSScanner) {
		scanner.logger = logger.With().Str("component", "scanner").Logger()
	}
}

type childJob struct {
	path  string
	entry fs.DirEntry
}

type childResult struct {
	entry domain.ChildEntry
	stats ScanStats
	ok    bool
}

func NewFSScanner(opts ...Option) *FSScanner {
	scanner := &FSScanner{
		workers: maxInt(2, runtime.NumCPU()),
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(scanner)
	}
	return scanner
}

func (scanner *FSScanner) ListChildren(ctx context.Context, req ScanRequest) ScanResult {
	start := time.Now()
	root := cleanPath(req.RootPath)
	result := ScanResult{RootPath: root}
	tracker := newProgressTracker(root, req.Progress)
	defer tracker.done()

	children, err := os.ReadDir(root)
	if err != nil {
		scanner.logger.Debug().Str("path", root).Err(err).Msg("Failed to list children")
		result.Cancelled = ctx.Err() != nil
		result.Duration = time.Since(start)
		return result
	}

	workerCount := minInt(scanner.workers, maxInt(1, len(children)))
	jobs := make(chan childJob, workerCount*8)
	results := make(chan childResult, workerCount*8)
	var wg sync.WaitGroup
	for i := 0; i < workerCount; i++ {
		wg.Add(1)
		go scanner.worker(ctx, jobs, results, tracker, &wg)
	}
	go func() {
		wg.Wait()
		close(results)
	}()
	go func() {
		defer close(jobs)
		for _, child := range children {
			if ctx.Err() != nil {
				return
			}
			select {
			case <-ctx.Done():
				return
			case jobs <- childJob{path: filepath.Join(root, child.Name()), entry: child}:
			}
		}
	}()

	for res := range results {
		result.Stats.merge(res.stats)
		if !res.ok {
			continue
		}
		if res.entry.SizeBytes == 0 {
			result.Stats.ZeroSized++
			scanner.logger.Debug().Str("path", res.entry.Path).Msg("Zero-sized or inaccessible")
			continue
		}
		result.Entries = append(result.Entries, res.entry)
	}

	result.Cancelled = ctx.Err() != nil
	result.Duration = time.Since(start)
	scanner.logger.Debug().
		Str("path", root).
		Int("entries", len(result.Entries)).
		Int64("files", result.Stats.Files).
		Int64("skipped", result.Stats.Skipped()).
		Int64("zero_sized", result.Stats.ZeroSized).
		Bool("cancelled", result.Cancelled).
		Dur("duration", result.Duration).
		Msg("Listed children")
	return result
}

func (scanner *FSScanner) VolumeUsage(path string) (domain.VolumeUsage, bool) {
	path = cleanPath(path)
	total, free, err := volumeStats(path)
	if err != nil {
		scanner.logger.Debug().Str("path", path).Err(err).Msg("Failed to read filesystem attributes")
		return domain.VolumeUsage{}, false
	}
	usage := domain.NewVolumeUsage(total, free)
	scanner.logger.Debug().
		Str("path", path).
		Str("used", humanize.Bytes(uint64(usage.UsedBytes))).
		Str("total", humanize.Bytes(uint64(usage.TotalBytes))).
		Msg("Volume usage")
	return usage, true
}

func (scanner *FSScanner) worker(ctx context.Context, jobs <-chan childJob, results chan<- childResult, tracker *progressTracker, wg *sync.WaitGroup) {
	defer wg.Done()
	// Jobs are drained even after cancellation so the producer never blocks.
	for job := range jobs {
		if ctx.Err() != nil {
			continue
		}
		results <- scanner.sizeChild(ctx, job, tracker)
	}
}

func (scanner *FSScanner) sizeChild(ctx context.Context, job childJob, tracker *progressTracker) childResult {
	var res childResult
	info, err := job.entry.Info()
	if err != nil {
		res.stats.Unreadable++
		scanner.logger.Debug().Str("path", job.path).Err(err).Msg("Could not read metadata")
		return res
	}
	mode := info.Mode()
	switch {
	case mode&fs.ModeSymlink != 0:
		res.stats.Symlinks++
		return res
	case mode.IsRegular():
		res.stats.Files++
		tracker.visit(job.path)
		res.entry = domain.ChildEntry{Path: job.path, SizeBytes: allocatedSize(info)}
	case mode.IsDir():
		res.stats.Directories++
		tracker.visit(job.path)
		size := scanner.directorySize(ctx, job.path, &res.stats, tracker)
		res.entry = domain.ChildEntry{Path: job.path, SizeBytes: size, IsDirectory: true}
	default:
		res.entry = domain.ChildEntry{Path: job.path}
	}
	res.ok = true
	return res
}

// directorySize sums allocated sizes of regular files below dir. Symlinks are
// neither sized nor descended; a cancelled walk counts as 0.
func (scanner *FSScanner) directorySize(ctx context.Context, dir string, stats *ScanStats, tracker *progressTracker) int64 {
	var total int64
	walkErr := filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			stats.Unreadable++
			scanner.logger.Debug().Str("path", path).Err(err).Msg("Resource value failure")
			return nil
		}
		if path == dir {
			return nil
		}
		entryType := entry.Type()
		switch {
		case entryType&fs.ModeSymlink != 0:
			stats.Symlinks++
			return nil
		case entry.IsDir():
			stats.Directories++
			tracker.visit(path)
			return nil
		case !entryType.IsRegular():
			return nil
		}
		info, err := entry.Info()
		if err != nil {
			stats.Unreadable++
			scanner.logger.Debug().Str("path", path).Err(err).Msg("Resource value failure")
			return nil
		}
		stats.Files++
		total += allocatedSize(info)
		tracker.visit(path)
		return nil
	})
	if walkErr != nil {
		return 0
	}
	return total
}

func cleanPath(path string) string {
	if path == "" {
		return path
	}
	clean := filepath.Clean(path)
	abs, err := filepath.Abs(clean)
	if err != nil {
		return clean
	}
	return abs
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
