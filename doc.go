// Package quill is an in-process, multi-session text editing core.
//
// The module is split into leaf packages that a host wires together:
//
//   - buffer: grapheme-cluster text buffer with revisions
//   - shaping: shaper interface, shapers, and the per-line shaping cache
//   - cursor: selection set, movement and hit testing over shaped lines
//   - editor: sessions, the edit command processor, undo history, bridges
//   - registry: live sessions, focus and event routing
//   - render: terminal drawing of render snapshots with lipgloss
//   - config: YAML/TOML configuration files
//
// The root package only holds the version and the shared logger.
package quill
