// Package layout builds the in-memory tree of a freshly initialized
// repository. The tree is handed to pkg/tree for writing; nothing here
// touches the filesystem.
package layout
