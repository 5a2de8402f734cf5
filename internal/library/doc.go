// Package library runs the tag rules over a music library on disk.
//
// Manager walks the library location, reads each included file through a
// TagStore, applies the rule set and writes changed records back:
//
//	set, _ := rules.Default()
//	m := library.NewManager(settings, audio.NewStore(), set, logger, nil)
//	report, err := m.Clean(ctx)
//
// Files are processed concurrently, at most Settings.MaxConcurrentFiles at a
// time. A file that cannot be read or written, or a rule that fails on a
// file, is recorded in the Report and the run continues.
//
// ExtractTags exports every record as JSON into a mirror of the library tree,
// optionally with the resized front cover next to it.
package library
