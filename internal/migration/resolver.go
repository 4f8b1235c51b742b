package migration

import "context"

// ConflictResolver decides what happens when a file exists at the same
// relative path in both the legacy and the current directory. Both paths are
// storage paths. The merger only invokes the resolver; whatever the resolver
// does to either file is its own business.
//
// Implementations are called from several goroutines at once.
type ConflictResolver interface {
	OnConflict(ctx context.Context, legacyFile, currentFile string) error
}

// ResolverFunc adapts a function to ConflictResolver.
type ResolverFunc func(ctx context.Context, legacyFile, currentFile string) error

// OnConflict calls f.
func (f ResolverFunc) OnConflict(ctx context.Context, legacyFile, currentFile string) error {
	return f(ctx, legacyFile, currentFile)
}

// NoopResolver leaves both files where they are.
var NoopResolver ConflictResolver = noopResolver{}

type noopResolver struct{}

func (noopResolver) OnConflict(context.Context, string, string) error {
	return nil
}
