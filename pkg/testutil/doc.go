// Package testutil provides utilities for testing cs01 components.
//
// Key components:
//   - NewTestFS: afero-backed in-memory filesystem
//   - FaultyFS: wraps a filesystem and injects errors per operation and path
//   - MockFS: testify mock of types.FS for call-level expectations
//   - WriteTree / ReadTree: seed and snapshot real directories
//
// Tests should prefer the in-memory filesystem and only touch disk
// through t.TempDir.
package testutil
