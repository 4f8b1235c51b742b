package migration

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/agentx-labs/docmigrate/internal/platform"
)

// Environment is what the host reports about the running application.
// Empty strings mean the host could not provide the value.
type Environment struct {
	Platform    platform.ID
	Ownership   platform.Ownership
	AppID       string
	DocumentDir string
}

// State is the outcome of the migration guards.
type State int

const (
	// StatePending means a migration would run.
	StatePending State = iota
	StateUnsupportedPlatform
	StateNotStandalone
	StateNoPaths
	StateNoLegacyDirectory
	StateLocked
)

// String returns a human-readable name for the state.
func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateUnsupportedPlatform:
		return "unsupported-platform"
	case StateNotStandalone:
		return "not-standalone"
	case StateNoPaths:
		return "no-paths"
	case StateNoLegacyDirectory:
		return "no-legacy-directory"
	case StateLocked:
		return "locked"
	default:
		return "unknown"
	}
}

// Status describes whether a migration would run and between which roots.
type Status struct {
	State     State
	LegacyDir string
	NewDir    string
}

// Migrator runs the legacy directory migration for one environment.
type Migrator struct {
	fs        FileSystem
	env       Environment
	logger    zerolog.Logger
	mergeOpts []MergeOption
}

// Option configures a Migrator.
type Option func(*Migrator)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(m *Migrator) {
		m.logger = l
	}
}

// WithMergeOptions passes options to the Merger used on the resolver path.
func WithMergeOptions(opts ...MergeOption) Option {
	return func(m *Migrator) {
		m.mergeOpts = append(m.mergeOpts, opts...)
	}
}

// NewMigrator creates a Migrator for env backed by fsys.
func NewMigrator(fsys FileSystem, env Environment, opts ...Option) *Migrator {
	m := &Migrator{
		fs:     fsys,
		env:    env,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Status evaluates the migration guards in order and reports the first one
// that is not met, or StatePending. Only storage failures are errors.
func (m *Migrator) Status(ctx context.Context) (Status, error) {
	if err := ctx.Err(); err != nil {
		return Status{}, err
	}
	if !m.env.Platform.IsSupported() {
		return Status{State: StateUnsupportedPlatform}, nil
	}
	if m.env.Ownership != platform.OwnershipStandalone {
		return Status{State: StateNotStandalone}, nil
	}

	legacyDir, legacyOK := LegacyDocumentDirectory(m.env)
	newDir, newOK := NewDocumentDirectory(m.env)
	st := Status{LegacyDir: legacyDir, NewDir: newDir}
	if !legacyOK || !newOK {
		st.State = StateNoPaths
		return st, nil
	}

	info, err := m.fs.GetInfo(legacyDir)
	if err != nil {
		return st, fmt.Errorf("checking legacy directory: %w", err)
	}
	if !info.Exists {
		st.State = StateNoLegacyDirectory
		return st, nil
	}

	locked, err := HasLock(m.fs, legacyDir)
	if err != nil {
		return st, err
	}
	if locked {
		st.State = StateLocked
		return st, nil
	}

	st.State = StatePending
	return st, nil
}

// Migrate moves the legacy directory into the document directory.
//
// With a nil resolver the legacy tree is copied over in one go and then
// deleted; no lock is written because the directory is gone. Otherwise the
// trees are merged, resolver is called for every file present on both sides,
// and the lock marker is written once the whole merge has finished.
//
// Unmet guards (wrong platform or ownership, unknown paths, no legacy
// directory, lock already present) make Migrate a no-op.
func (m *Migrator) Migrate(ctx context.Context, resolver ConflictResolver) error {
	st, err := m.Status(ctx)
	if err != nil {
		return err
	}

	log := m.logger.With().
		Str("platform", m.env.Platform.String()).
		Str("ownership", m.env.Ownership.String()).
		Str("legacy_dir", st.LegacyDir).
		Str("new_dir", st.NewDir).
		Logger()

	if st.State != StatePending {
		log.Info().Stringer("state", st.State).Msg("Nothing to migrate")
		return nil
	}

	if resolver == nil {
		log.Info().Msg("Copying legacy directory into document directory")
		if err := m.fs.Copy(st.LegacyDir, st.NewDir); err != nil {
			return fmt.Errorf("copying legacy directory: %w", err)
		}
		if err := m.fs.Delete(st.LegacyDir); err != nil {
			return fmt.Errorf("removing legacy directory: %w", err)
		}
		log.Info().Msg("Legacy directory migrated and removed")
		return nil
	}

	log.Info().Msg("Merging legacy directory into document directory")
	opts := append([]MergeOption{WithMergeLogger(log)}, m.mergeOpts...)
	stats, err := NewMerger(m.fs, resolver, opts...).Merge(ctx, "", st.LegacyDir, st.NewDir)
	if err != nil {
		return fmt.Errorf("merging legacy directory: %w", err)
	}
	if err := SetLock(m.fs, st.LegacyDir); err != nil {
		return err
	}

	log.Info().
		Int("moved", stats.Moved).
		Int("conflicts", stats.Conflicts).
		Int("directories", stats.Directories).
		Msg("Legacy directory merged and locked")
	return nil
}
