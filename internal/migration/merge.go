package migration

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sync/atomic"

	"github.com/rs/zerolog"
	"github.com/sourcegraph/conc/pool"

	"github.com/agentx-labs/docmigrate/internal/storage"
)

// MergeStats summarizes one Merge call.
type MergeStats struct {
	// Moved counts entries moved because the current side did not have them.
	Moved int
	// Conflicts counts files handed to the resolver.
	Conflicts int
	// Directories counts directories present on both sides and descended into.
	Directories int
}

// Merger walks a legacy tree and merges it into the current tree.
type Merger struct {
	fs          FileSystem
	resolver    ConflictResolver
	concurrency int
	logger      zerolog.Logger
}

// MergeOption configures a Merger.
type MergeOption func(*Merger)

// WithMaxConcurrency limits how many children of one directory are walked at
// the same time. Zero or less means no limit.
func WithMaxConcurrency(n int) MergeOption {
	return func(m *Merger) {
		m.concurrency = n
	}
}

// WithMergeLogger sets the logger used for per-entry debug output.
func WithMergeLogger(l zerolog.Logger) MergeOption {
	return func(m *Merger) {
		m.logger = l
	}
}

// NewMerger creates a Merger. A nil resolver is replaced with NoopResolver.
func NewMerger(fsys FileSystem, resolver ConflictResolver, opts ...MergeOption) *Merger {
	if resolver == nil {
		resolver = NoopResolver
	}
	m := &Merger{
		fs:       fsys,
		resolver: resolver,
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

type mergeCounters struct {
	moved       atomic.Int64
	conflicts   atomic.Int64
	directories atomic.Int64
}

func (c *mergeCounters) stats() MergeStats {
	return MergeStats{
		Moved:       int(c.moved.Load()),
		Conflicts:   int(c.conflicts.Load()),
		Directories: int(c.directories.Load()),
	}
}

// Merge merges legacyRoot/relativePath into newRoot/relativePath.
//
// It returns once every entry below relativePath has been handled, including
// every resolver call. Children of a directory are walked concurrently; an
// error in one child does not stop its siblings, and all errors are joined.
func (m *Merger) Merge(ctx context.Context, relativePath, legacyRoot, newRoot string) (MergeStats, error) {
	var c mergeCounters
	err := m.walk(ctx, &c, relativePath, legacyRoot, newRoot)
	return c.stats(), err
}

func (m *Merger) walk(ctx context.Context, c *mergeCounters, rel, legacyRoot, newRoot string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	legacyPath := filepath.Join(legacyRoot, rel)
	currentPath := filepath.Join(newRoot, rel)

	legacyInfo, err := m.fs.GetInfo(legacyPath)
	if err != nil {
		return err
	}
	currentInfo, err := m.fs.GetInfo(currentPath)
	if err != nil {
		return err
	}

	// Nothing on the current side: move the whole entry and stop here.
	if legacyInfo.Exists && !currentInfo.Exists {
		moved, err := m.move(legacyPath, currentPath, legacyInfo)
		if err != nil {
			return err
		}
		if moved {
			c.moved.Add(1)
			m.logger.Debug().Str("path", rel).Bool("dir", legacyInfo.IsDirectory).Int64("bytes", legacyInfo.Size).Msg("Moved")
			return nil
		}
		// A sibling resolver claimed the name in the meantime.
		m.logger.Debug().Str("path", rel).Msg("Destination appeared during move")
	}

	// Directories are never conflicts, only files are.
	if legacyInfo.IsDirectory {
		return m.descend(ctx, c, rel, legacyPath, legacyRoot, newRoot)
	}

	c.conflicts.Add(1)
	m.logger.Debug().Str("path", rel).Int64("bytes", legacyInfo.Size).Msg("Conflict")
	if err := m.resolver.OnConflict(ctx, legacyPath, currentPath); err != nil {
		return fmt.Errorf("resolving conflict at %s: %w", rel, err)
	}
	return nil
}

// move copies legacyPath to currentPath and deletes the source. Files are
// placed with an exclusive create so an entry written concurrently by a
// resolver is never overwritten; in that case move reports false and leaves
// the legacy file alone.
func (m *Merger) move(legacyPath, currentPath string, legacyInfo storage.Info) (bool, error) {
	if legacyInfo.IsDirectory {
		if err := m.fs.Copy(legacyPath, currentPath); err != nil {
			return false, err
		}
	} else if err := m.fs.CopyExclusive(legacyPath, currentPath); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return false, nil
		}
		return false, err
	}
	if err := m.fs.Delete(legacyPath); err != nil {
		return false, err
	}
	return true, nil
}

func (m *Merger) descend(ctx context.Context, c *mergeCounters, rel, legacyPath, legacyRoot, newRoot string) error {
	children, err := m.fs.ReadDirectory(legacyPath)
	if err != nil {
		return err
	}
	c.directories.Add(1)

	p := pool.New().WithContext(ctx)
	if m.concurrency > 0 {
		p = p.WithMaxGoroutines(m.concurrency)
	}
	for _, child := range children {
		// Child names come straight from disk and must survive the
		// storage layer's decoding pass.
		childRel := filepath.Join(rel, storage.Escape(child))
		p.Go(func(ctx context.Context) error {
			return m.walk(ctx, c, childRel, legacyRoot, newRoot)
		})
	}
	return p.Wait()
}
