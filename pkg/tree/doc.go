// Package tree materializes an in-memory types.Node description onto a
// filesystem as real files and directories.
//
// Materialize walks the tree depth first in entry order. Every per-path
// failure (a directory that cannot be created, a file that cannot be
// written) goes through a single decision point: the Options.OnError
// handler when one is set, otherwise the Options.Policy. FailFast aborts
// on the first failure and leaves whatever was already written in place;
// there is no rollback. CollectAndContinue records the failure in the
// Report and keeps going with siblings and later subtrees.
//
// Entry names are validated before anything is touched, so a tree can
// never write outside its destination prefix.
package tree
