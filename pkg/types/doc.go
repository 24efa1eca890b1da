// Package types defines the core types and interfaces shared across cs01.
// This includes the FS abstraction used by every filesystem-touching
// component and the Node tree that describes files and directories to
// be materialized on disk.
package types
