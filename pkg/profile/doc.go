// Package profile loads ordering configuration.
//
// A [Config] holds named ordering profiles. Each [Profile] is an ordered
// list of [Section]s; a section selects subjects (by category or by a named
// selector pattern) and orders them with a sort mode, optional roots and a
// hierarchy relation. Profiles and sections keep the order in which they
// appear in the file.
//
// # Formats
//
// YAML and TOML are supported, chosen by file extension. In YAML, profiles
// are a mapping and sections a list of single-key mappings:
//
//	profiles:
//	  logical:
//	    description: Hierarchy-first ordering
//	    sections:
//	      - header: {}
//	      - classes: {sort: rooted, roots: [ex:Animal]}
//
// TOML has no ordered tables, so profiles and sections are arrays of tables
// with an explicit name:
//
//	[[profiles]]
//	name = "logical"
//	[[profiles.sections]]
//	name = "classes"
//	sort = "rooted"
//	roots = ["ex:Animal"]
//
// YAML anchors and aliases may be used to share sections between profiles.
package profile
