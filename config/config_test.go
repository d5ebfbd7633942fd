package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iw2rmb/quill/editor"
	"github.com/iw2rmb/quill/shaping"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const yamlConfig = `
editor:
  mode: infinite-line
  width: 30
  history_limit: 50
sessions:
  - name: password
    mask: "*"
    max_lines: 1
    placeholder: secret
  - name: notes
    mode: auto-height
    wrap: grapheme
    read_only: true
`

const tomlConfig = `
[editor]
mode = "infinite-line"
width = 30.0
history_limit = 50

[[sessions]]
name = "password"
mask = "*"
max_lines = 1
placeholder = "secret"

[[sessions]]
name = "notes"
mode = "auto-height"
wrap = "grapheme"
read_only = true
`

func TestLoad_YAMLAndTOMLAgree(t *testing.T) {
	for _, tc := range []struct {
		name    string
		file    string
		content string
	}{
		{name: "yaml", file: "quill.yaml", content: yamlConfig},
		{name: "yml", file: "quill.yml", content: yamlConfig},
		{name: "toml", file: "quill.toml", content: tomlConfig},
	} {
		t.Run(tc.name, func(t *testing.T) {
			f, err := Load(writeFile(t, tc.file, tc.content))
			require.NoError(t, err)

			assert.Equal(t, "infinite-line", f.Editor.Mode)
			assert.Equal(t, 30.0, f.Editor.Width)
			assert.Equal(t, 50, f.Editor.HistoryLimit)
			// Unset fields keep their defaults.
			assert.Equal(t, 10.0, f.Editor.Height)
			assert.Equal(t, 4, f.Editor.TabWidth)
			require.Len(t, f.Sessions, 2)

			pw, err := f.EditorConfig("password")
			require.NoError(t, err)
			assert.Equal(t, '*', pw.Mask)
			assert.Equal(t, 1, pw.MaxLines)
			assert.Equal(t, "secret", pw.Placeholder)
			assert.Equal(t, editor.ModeInfiniteLine, pw.Mode)
			assert.Equal(t, 30.0, pw.Width)
			assert.Equal(t, 50, pw.HistoryLimit)

			notes, err := f.EditorConfig("notes")
			require.NoError(t, err)
			assert.Equal(t, editor.ModeAutoHeight, notes.Mode)
			assert.Equal(t, shaping.WrapGrapheme, notes.Wrap)
			assert.True(t, notes.ReadOnly)
			assert.Zero(t, notes.Mask)
		})
	}
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Load(writeFile(t, "quill.json", "{}"))
	assert.ErrorContains(t, err, "unsupported extension")

	_, err = Load(writeFile(t, "quill.yaml", "editor: ["))
	assert.ErrorContains(t, err, "parse YAML")

	_, err = Load(writeFile(t, "quill.toml", "[editor"))
	assert.ErrorContains(t, err, "parse TOML")

	_, err = Load(writeFile(t, "quill.yaml", "editor:\n  mode: sideways\n"))
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "editor.mode", verr.Field)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Default().Validate())

	f := Default()
	f.Editor.Wrap = "lines"
	f.Editor.Mask = "**"
	f.Editor.Width = -1
	f.Editor.Font = "font.ttf"
	f.Sessions = []Preset{
		{Name: "a"},
		{Name: "a"},
		{Editor: Editor{Shaper: "canvas", MaxLines: -2}},
	}
	err := f.Validate()
	require.Error(t, err)

	fields := map[string]bool{}
	for _, e := range err.(interface{ Unwrap() []error }).Unwrap() {
		var verr *ValidationError
		require.ErrorAs(t, e, &verr)
		fields[verr.Field] = true
	}
	for _, want := range []string{
		"editor.wrap", "editor.mask", "editor.width", "editor.font",
		"sessions[1].name", "sessions[2].name", "sessions[2].shaper", "sessions[2].max_lines",
	} {
		assert.True(t, fields[want], "missing error for %s", want)
	}
	assert.Len(t, fields, 8)
}

func TestEditorConfig_Defaults(t *testing.T) {
	cfg, err := Default().EditorConfig("")
	require.NoError(t, err)
	assert.Equal(t, editor.ModeWrap, cfg.Mode)
	assert.Equal(t, shaping.WrapWord, cfg.Wrap)
	assert.Equal(t, 40.0, cfg.Width)
	assert.Equal(t, 10.0, cfg.Height)
	assert.Equal(t, editor.DefaultHistoryLimit, cfg.HistoryLimit)
	assert.Nil(t, cfg.Shaper)

	_, err = Default().EditorConfig("nope")
	assert.ErrorIs(t, err, ErrUnknownPreset)
}

func TestEditorConfig_GoTextShaper(t *testing.T) {
	f := Default()
	f.Editor.Shaper = ShaperGoText
	cfg, err := f.EditorConfig("")
	require.NoError(t, err)
	assert.IsType(t, &shaping.GoTextShaper{}, cfg.Shaper)

	f.Editor.Font = filepath.Join(t.TempDir(), "missing.ttf")
	_, err = f.EditorConfig("")
	assert.ErrorIs(t, err, os.ErrNotExist)

	f.Editor.Font = writeFile(t, "bad.ttf", "not a font")
	_, err = f.EditorConfig("")
	assert.Error(t, err)
}

func TestEditorConfig_BuildsWorkingSession(t *testing.T) {
	f, err := Load(writeFile(t, "quill.yaml", yamlConfig))
	require.NoError(t, err)
	cfg, err := f.EditorConfig("password")
	require.NoError(t, err)

	s := editor.New(cfg)
	s.Focus()
	require.NoError(t, s.Handle(editor.ClipboardEvent{Kind: editor.ClipboardPaste, Text: "hunter2\nmore"}))
	assert.Equal(t, "hunter2", s.Text())
}

func TestEditorConfig_Position(t *testing.T) {
	f, err := Load(writeFile(t, "quill.toml", `
[editor]
position = "left"
padding = 2.0

[[sessions]]
name = "banner"
position = "center"
`))
	require.NoError(t, err)

	cfg, err := f.EditorConfig("")
	require.NoError(t, err)
	assert.Equal(t, editor.Position{Align: editor.AlignLeft, Padding: 2}, cfg.Position)

	cfg, err = f.EditorConfig("banner")
	require.NoError(t, err)
	assert.Equal(t, editor.AlignCenter, cfg.Position.Align)

	_, err = Load(writeFile(t, "quill.yaml", "editor:\n  position: middle\n"))
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "editor.position", verr.Field)
}
