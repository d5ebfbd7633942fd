// Package config loads editor settings from YAML or TOML files.
//
// A file holds editor defaults and named session presets:
//
//	editor:
//	  mode: wrap
//	  width: 40
//	  height: 10
//	sessions:
//	  - name: password
//	    mask: "*"
//	    max_lines: 1
//
// Preset fields override the defaults when set.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/iw2rmb/quill/editor"
	"github.com/iw2rmb/quill/shaping"
)

// ErrUnknownPreset is returned by EditorConfig for names without a preset.
var ErrUnknownPreset = errors.New("config: unknown session preset")

// Shaper names accepted in Editor.Shaper.
const (
	ShaperCell   = "cell"
	ShaperGoText = "gotext"
)

// Editor holds the file form of editor.Config.
type Editor struct {
	Text        string `yaml:"text,omitempty" toml:"text,omitempty"`
	Placeholder string `yaml:"placeholder,omitempty" toml:"placeholder,omitempty"`
	ReadOnly    bool   `yaml:"read_only,omitempty" toml:"read_only,omitempty"`
	// Mask is a single character; empty disables password mode.
	Mask string `yaml:"mask,omitempty" toml:"mask,omitempty"`

	MaxChars     int `yaml:"max_chars,omitempty" toml:"max_chars,omitempty"`
	MaxLines     int `yaml:"max_lines,omitempty" toml:"max_lines,omitempty"`
	HistoryLimit int `yaml:"history_limit,omitempty" toml:"history_limit,omitempty"`

	// Mode is one of wrap, infinite-line, auto-height.
	Mode string `yaml:"mode,omitempty" toml:"mode,omitempty"`
	// Wrap is one of none, word, grapheme.
	Wrap   string  `yaml:"wrap,omitempty" toml:"wrap,omitempty"`
	Width  float64 `yaml:"width,omitempty" toml:"width,omitempty"`
	Height float64 `yaml:"height,omitempty" toml:"height,omitempty"`

	// Position is one of top-left, center, left.
	Position string  `yaml:"position,omitempty" toml:"position,omitempty"`
	Padding  float64 `yaml:"padding,omitempty" toml:"padding,omitempty"`

	TabWidth   int     `yaml:"tab_width,omitempty" toml:"tab_width,omitempty"`
	FontSize   float64 `yaml:"font_size,omitempty" toml:"font_size,omitempty"`
	LineHeight float64 `yaml:"line_height,omitempty" toml:"line_height,omitempty"`

	// Shaper is cell (terminal cells) or gotext (HarfBuzz shaping).
	Shaper string `yaml:"shaper,omitempty" toml:"shaper,omitempty"`
	// Font is a TTF/OTF path for the gotext shaper; empty uses Go Regular.
	Font string `yaml:"font,omitempty" toml:"font,omitempty"`
}

// Preset is a named set of overrides.
type Preset struct {
	Name   string `yaml:"name" toml:"name"`
	Editor `yaml:",inline"`
}

// File is a parsed configuration file.
type File struct {
	Editor   Editor   `yaml:"editor" toml:"editor"`
	Sessions []Preset `yaml:"sessions,omitempty" toml:"sessions,omitempty"`
}

// Default returns the built-in configuration.
func Default() *File {
	return &File{
		Editor: Editor{
			Mode:         editor.ModeWrap.String(),
			Wrap:         shaping.WrapWord.String(),
			Width:        40,
			Height:       10,
			TabWidth:     4,
			HistoryLimit: editor.DefaultHistoryLimit,
			Shaper:       ShaperCell,
		},
	}
}

// Load reads path as YAML (.yaml, .yml) or TOML (.toml) on top of Default
// and validates the result.
func Load(path string) (*File, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	f := Default()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(content, f); err != nil {
			return nil, fmt.Errorf("parse YAML %s: %w", path, err)
		}
	case ".toml":
		if err := toml.Unmarshal(content, f); err != nil {
			return nil, fmt.Errorf("parse TOML %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("config %s: unsupported extension %q", path, ext)
	}
	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return f, nil
}

// ValidationError describes one invalid field.
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got %v)", e.Field, e.Message, e.Value)
}

// Validate checks the defaults and every preset. All problems are reported,
// joined.
func (f *File) Validate() error {
	var errs []error
	errs = append(errs, f.Editor.validate("editor")...)
	seen := make(map[string]bool, len(f.Sessions))
	for i, p := range f.Sessions {
		field := fmt.Sprintf("sessions[%d]", i)
		if p.Name == "" {
			errs = append(errs, &ValidationError{Field: field + ".name", Value: p.Name, Message: "must not be empty"})
		} else if seen[p.Name] {
			errs = append(errs, &ValidationError{Field: field + ".name", Value: p.Name, Message: "duplicate preset"})
		}
		seen[p.Name] = true
		errs = append(errs, p.Editor.validate(field)...)
	}
	return errors.Join(errs...)
}

func (e Editor) validate(prefix string) []error {
	var errs []error
	bad := func(field string, value any, msg string) {
		errs = append(errs, &ValidationError{Field: prefix + "." + field, Value: value, Message: msg})
	}
	if e.Mode != "" {
		if _, ok := parseMode(e.Mode); !ok {
			bad("mode", e.Mode, "must be one of: wrap, infinite-line, auto-height")
		}
	}
	if e.Wrap != "" {
		if _, ok := parseWrap(e.Wrap); !ok {
			bad("wrap", e.Wrap, "must be one of: none, word, grapheme")
		}
	}
	if e.Position != "" {
		if _, ok := parseAlign(e.Position); !ok {
			bad("position", e.Position, "must be one of: top-left, center, left")
		}
	}
	if e.Shaper != "" && e.Shaper != ShaperCell && e.Shaper != ShaperGoText {
		bad("shaper", e.Shaper, "must be one of: cell, gotext")
	}
	if e.Font != "" && e.Shaper != ShaperGoText {
		bad("font", e.Font, "requires shaper gotext")
	}
	if e.Mask != "" && utf8.RuneCountInString(e.Mask) != 1 {
		bad("mask", e.Mask, "must be a single character")
	}
	for field, v := range map[string]float64{
		"width": e.Width, "height": e.Height, "padding": e.Padding, "font_size": e.FontSize, "line_height": e.LineHeight,
	} {
		if v < 0 {
			bad(field, v, "must not be negative")
		}
	}
	for field, v := range map[string]int{
		"max_chars": e.MaxChars, "max_lines": e.MaxLines, "tab_width": e.TabWidth,
	} {
		if v < 0 {
			bad(field, v, "must not be negative")
		}
	}
	return errs
}

// Preset returns the named preset.
func (f *File) Preset(name string) (Preset, bool) {
	for _, p := range f.Sessions {
		if p.Name == name {
			return p, true
		}
	}
	return Preset{}, false
}

// EditorConfig builds an editor.Config from the defaults with the named
// preset applied. An empty name uses the defaults alone. Callbacks, the key
// map and bridges are left for the host to fill in.
func (f *File) EditorConfig(name string) (editor.Config, error) {
	e := f.Editor
	if name != "" {
		p, ok := f.Preset(name)
		if !ok {
			return editor.Config{}, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
		}
		e = merge(e, p.Editor)
	}
	return e.toEditorConfig()
}

func (e Editor) toEditorConfig() (editor.Config, error) {
	cfg := editor.Config{
		Text:         e.Text,
		Placeholder:  e.Placeholder,
		ReadOnly:     e.ReadOnly,
		MaxChars:     e.MaxChars,
		MaxLines:     e.MaxLines,
		HistoryLimit: e.HistoryLimit,
		Width:        e.Width,
		Height:       e.Height,
		Position:     editor.Position{Padding: e.Padding},
		TabWidth:     e.TabWidth,
		FontSize:     e.FontSize,
		LineHeight:   e.LineHeight,
	}
	if e.Mask != "" {
		cfg.Mask, _ = utf8.DecodeRuneInString(e.Mask)
	}
	if e.Mode != "" {
		mode, ok := parseMode(e.Mode)
		if !ok {
			return editor.Config{}, &ValidationError{Field: "mode", Value: e.Mode, Message: "unknown mode"}
		}
		cfg.Mode = mode
	}
	if e.Position != "" {
		align, ok := parseAlign(e.Position)
		if !ok {
			return editor.Config{}, &ValidationError{Field: "position", Value: e.Position, Message: "unknown position"}
		}
		cfg.Position.Align = align
	}
	if e.Wrap != "" {
		wrap, ok := parseWrap(e.Wrap)
		if !ok {
			return editor.Config{}, &ValidationError{Field: "wrap", Value: e.Wrap, Message: "unknown wrap"}
		}
		cfg.Wrap = wrap
	}
	if e.Shaper == ShaperGoText {
		shaper, err := goTextShaper(e.Font)
		if err != nil {
			return editor.Config{}, err
		}
		cfg.Shaper = shaper
	}
	return cfg, nil
}

func goTextShaper(path string) (shaping.Shaper, error) {
	if path == "" {
		return shaping.NewDefaultGoTextShaper(), nil
	}
	ttf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read font: %w", err)
	}
	s, err := shaping.NewGoTextShaper(ttf)
	if err != nil {
		return nil, fmt.Errorf("font %s: %w", path, err)
	}
	return s, nil
}

// merge overlays the set fields of over onto base.
func merge(base, over Editor) Editor {
	out := base
	setS := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	setI := func(dst *int, v int) {
		if v != 0 {
			*dst = v
		}
	}
	setF := func(dst *float64, v float64) {
		if v != 0 {
			*dst = v
		}
	}
	setS(&out.Text, over.Text)
	setS(&out.Placeholder, over.Placeholder)
	setS(&out.Mask, over.Mask)
	setS(&out.Mode, over.Mode)
	setS(&out.Wrap, over.Wrap)
	setS(&out.Position, over.Position)
	setS(&out.Shaper, over.Shaper)
	setS(&out.Font, over.Font)
	setI(&out.MaxChars, over.MaxChars)
	setI(&out.MaxLines, over.MaxLines)
	setI(&out.HistoryLimit, over.HistoryLimit)
	setI(&out.TabWidth, over.TabWidth)
	setF(&out.Width, over.Width)
	setF(&out.Height, over.Height)
	setF(&out.Padding, over.Padding)
	setF(&out.FontSize, over.FontSize)
	setF(&out.LineHeight, over.LineHeight)
	if over.ReadOnly {
		out.ReadOnly = true
	}
	return out
}

func parseMode(s string) (editor.Mode, bool) {
	for _, m := range []editor.Mode{editor.ModeWrap, editor.ModeInfiniteLine, editor.ModeAutoHeight} {
		if m.String() == s {
			return m, true
		}
	}
	return 0, false
}

func parseAlign(s string) (editor.Align, bool) {
	for _, a := range []editor.Align{editor.AlignTopLeft, editor.AlignCenter, editor.AlignLeft} {
		if a.String() == s {
			return a, true
		}
	}
	return 0, false
}

func parseWrap(s string) (shaping.WrapKind, bool) {
	for _, k := range []shaping.WrapKind{shaping.WrapNone, shaping.WrapWord, shaping.WrapGrapheme} {
		if k.String() == s {
			return k, true
		}
	}
	return 0, false
}
