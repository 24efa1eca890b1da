// Package filesystem provides filesystem implementations for cs01.
//
// This package contains implementations of the types.FS interface:
// the real OS filesystem, whose file writes are atomic replacements,
// and an afero-backed filesystem used for in-memory and fault-injection tests.
package filesystem
