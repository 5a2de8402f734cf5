// Command music-manager cleans the tags of a music library from the command
// line.
//
// Usage:
//
//	music-manager clean [-l location] [-r rules.json] [-n] [-j jobs]
//	music-manager extract-tags [location] [-o destination] [--artwork]
//	music-manager rules list [rules.yaml] [--format toml]
//	music-manager signature track.wav
//
// Settings are read from MusicManager.json in the user config directory
// unless --config names another JSON or TOML file. For the interactive
// interface, use music-manager-tui.
package main
