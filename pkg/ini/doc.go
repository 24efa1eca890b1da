// Package ini serializes repository configuration into the INI-like text
// format stored in a repository's config file.
//
// A configuration is a three-level mapping: section name, then subsection
// name, then key. The empty subsection name means "no subsection":
//
//	ini.Config{
//		"core":   {"": {"bare": false, "repositoryformatversion": 0}},
//		"remote": {"origin": {"url": "https://example.com/repo"}},
//	}
//
// renders as
//
//	[core]
//	  bare = false
//	  repositoryformatversion = 0
//	[remote "origin"]
//	  url = https://example.com/repo
//
// Keys are emitted in ascending order at every level. Subsection names
// are quoted but not escaped.
package ini
