// Package migration moves user files out of the legacy per-app sandbox
// directory (<document dir>/ExperienceData/<app id>) into the document
// directory, once.
//
// Migrator.Migrate is the entry point. Without a ConflictResolver the whole
// legacy tree is copied into the document directory and then removed. With a
// resolver the trees are merged entry by entry: anything missing from the
// document directory is moved over, directories present on both sides are
// descended into, and files present on both sides are handed to the resolver.
// After a merge the lock marker LockFileName is written into the legacy
// directory so the merge never runs again.
package migration
