// Package paths provides centralized path handling for cs01.
//
// It owns the on-disk names cs01 relies on (the .CS01 control directory,
// the repository config file, the user configuration location) and the
// validation helpers every filesystem-touching component uses:
//
//   - ValidatePath rejects empty or malformed path strings
//   - ValidateEntryName keeps tree entry names from escaping their parent
//   - Contains answers ancestor questions segment by segment, so
//     /repo is not considered to contain /repository
//
// # Environment Variables
//
//   - CS01_CONFIG_DIR: Override the user configuration directory
//     (default: $XDG_CONFIG_HOME/cs01)
package paths
