// Package repo locates the root of a cs01 repository.
//
// A directory is a repository root when it holds either marker:
//
//  1. a regular file named config whose trimmed content starts with [core]
//     (the layout of a bare repository), or
//  2. a directory named .CS01 (the layout of a standard repository).
//
// A Locator walks upward from a start directory until a marker is found
// or the filesystem root is reached. Not finding a repository is a normal
// result, not an error. Each Locator remembers the last root it found and
// answers queries from beneath that root without touching the filesystem;
// Invalidate drops the remembered root.
package repo
