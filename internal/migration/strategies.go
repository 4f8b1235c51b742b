package migration

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/agentx-labs/docmigrate/internal/storage"
)

// Strategy names a built-in conflict resolution policy.
type Strategy string

const (
	// StrategyKeep leaves both files untouched (NoopResolver).
	StrategyKeep Strategy = "keep"
	// StrategyLegacyWins overwrites the current file with the legacy one.
	StrategyLegacyWins Strategy = "legacy-wins"
	// StrategyCurrentWins keeps the current file and drops the legacy one.
	StrategyCurrentWins Strategy = "current-wins"
	// StrategyNewerWins keeps whichever file was modified last.
	StrategyNewerWins Strategy = "newer-wins"
	// StrategyBackup keeps the current file and stores the legacy one next
	// to it with a .legacy suffix.
	StrategyBackup Strategy = "backup"
)

// backupSuffix is appended to the current file name by StrategyBackup.
const backupSuffix = ".legacy"

// Strategies lists the built-in strategies in a stable order.
func Strategies() []Strategy {
	return []Strategy{StrategyKeep, StrategyLegacyWins, StrategyCurrentWins, StrategyNewerWins, StrategyBackup}
}

// ParseStrategy converts a configured name into a Strategy.
// "discard-legacy" is accepted as an alias of current-wins.
func ParseStrategy(s string) (Strategy, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "discard-legacy" {
		return StrategyCurrentWins, nil
	}
	for _, st := range Strategies() {
		if string(st) == name {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown conflict strategy %q", s)
}

// NewResolver builds the resolver for a built-in strategy.
func NewResolver(strategy Strategy, fsys FileSystem) (ConflictResolver, error) {
	switch strategy {
	case StrategyKeep:
		return NoopResolver, nil
	case StrategyLegacyWins:
		return &legacyWinsResolver{fs: fsys}, nil
	case StrategyCurrentWins:
		return &currentWinsResolver{fs: fsys}, nil
	case StrategyNewerWins:
		return &newerWinsResolver{fs: fsys}, nil
	case StrategyBackup:
		return &backupResolver{fs: fsys}, nil
	default:
		return nil, fmt.Errorf("unknown conflict strategy %q", strategy)
	}
}

// fileCollision reports whether both paths are regular files. Strategies
// leave every other shape alone.
func fileCollision(fsys FileSystem, legacyFile, currentFile string) (legacy, current storage.Info, ok bool, err error) {
	legacy, err = fsys.GetInfo(legacyFile)
	if err != nil {
		return legacy, current, false, err
	}
	current, err = fsys.GetInfo(currentFile)
	if err != nil {
		return legacy, current, false, err
	}
	ok = legacy.Exists && !legacy.IsDirectory && current.Exists && !current.IsDirectory
	return legacy, current, ok, nil
}

type legacyWinsResolver struct {
	fs FileSystem
}

func (r *legacyWinsResolver) OnConflict(_ context.Context, legacyFile, currentFile string) error {
	_, _, ok, err := fileCollision(r.fs, legacyFile, currentFile)
	if err != nil || !ok {
		return err
	}
	if err := r.fs.Copy(legacyFile, currentFile); err != nil {
		return err
	}
	return r.fs.Delete(legacyFile)
}

type currentWinsResolver struct {
	fs FileSystem
}

func (r *currentWinsResolver) OnConflict(_ context.Context, legacyFile, currentFile string) error {
	_, _, ok, err := fileCollision(r.fs, legacyFile, currentFile)
	if err != nil || !ok {
		return err
	}
	return r.fs.Delete(legacyFile)
}

type newerWinsResolver struct {
	fs FileSystem
}

func (r *newerWinsResolver) OnConflict(_ context.Context, legacyFile, currentFile string) error {
	legacy, current, ok, err := fileCollision(r.fs, legacyFile, currentFile)
	if err != nil || !ok {
		return err
	}
	if legacy.ModTime.After(current.ModTime) {
		if err := r.fs.Copy(legacyFile, currentFile); err != nil {
			return err
		}
	}
	return r.fs.Delete(legacyFile)
}

type backupResolver struct {
	fs FileSystem
}

func (r *backupResolver) OnConflict(_ context.Context, legacyFile, currentFile string) error {
	_, _, ok, err := fileCollision(r.fs, legacyFile, currentFile)
	if err != nil || !ok {
		return err
	}
	if _, err := r.placeBackup(legacyFile, currentFile); err != nil {
		return err
	}
	return r.fs.Delete(legacyFile)
}

// placeBackup copies legacyFile to <current>.legacy, or <current>.legacy.N
// for the first N that is free. Each name is claimed with an exclusive
// create, so a name taken by a concurrent move or backup is skipped rather
// than overwritten.
func (r *backupResolver) placeBackup(legacyFile, currentFile string) (string, error) {
	candidate := currentFile + backupSuffix
	for n := 1; ; n++ {
		err := r.fs.CopyExclusive(legacyFile, candidate)
		if err == nil {
			return candidate, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return "", err
		}
		candidate = fmt.Sprintf("%s%s.%d", currentFile, backupSuffix, n)
	}
}
