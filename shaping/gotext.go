package shaping

import (
	"bytes"
	"fmt"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	hb "github.com/go-text/typesetting/shaping"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"

	"github.com/iw2rmb/quill/internal/grapheme"
)

// DefaultFontSize is used by GoTextShaper when Style.FontSize is unset.
const DefaultFontSize = 16

// GoTextShaper shapes with the HarfBuzz port from go-text/typesetting, so
// ligatures, kerning and complex scripts come out as the font intends.
//
// A GoTextShaper is not safe for concurrent use.
type GoTextShaper struct {
	font   *font.Font
	engine hb.HarfbuzzShaper

	// metrics caches line metrics per font size.
	metrics map[fixed.Int26_6]lineMetrics
}

type lineMetrics struct {
	height float64
	ascent float64
}

var _ Shaper = (*GoTextShaper)(nil)

// NewGoTextShaper parses an OpenType/TrueType font.
func NewGoTextShaper(ttf []byte) (*GoTextShaper, error) {
	face, err := font.ParseTTF(bytes.NewReader(ttf))
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	return &GoTextShaper{
		font:    face.Font,
		metrics: make(map[fixed.Int26_6]lineMetrics),
	}, nil
}

// NewDefaultGoTextShaper uses the Go Regular font.
func NewDefaultGoTextShaper() *GoTextShaper {
	s, err := NewGoTextShaper(goregular.TTF)
	if err != nil {
		// goregular is embedded and known good.
		panic(err)
	}
	return s
}

func (s *GoTextShaper) ShapeLine(text string, style Style) Run {
	size := style.FontSize
	if size <= 0 {
		size = DefaultFontSize
	}
	fsize := floatToFixed(size)
	m := s.lineMetrics(fsize)

	run := Run{
		LineHeight: m.height,
		Ascent:     m.ascent,
		Direction:  DetectDirection(text),
	}
	if text == "" {
		return run
	}

	clusters := grapheme.Split(text)
	runes := make([]rune, 0, len(text))
	runeCluster := make([]int, 0, len(text))
	for ci, c := range clusters {
		for _, r := range c {
			runes = append(runes, r)
			runeCluster = append(runeCluster, ci)
		}
	}

	dir := di.DirectionLTR
	if run.Direction == RTL {
		dir = di.DirectionRTL
	}
	out := s.shape(runes, dir, fsize)

	run.Advances = make([]float64, len(clusters))
	hasGlyph := make([]bool, len(clusters))
	run.Glyphs = make([]Glyph, 0, len(out.Glyphs))
	for _, g := range out.Glyphs {
		ci := 0
		if idx := g.TextIndex(); idx >= 0 && idx < len(runeCluster) {
			ci = runeCluster[idx]
		}
		adv := fixedToFloat(g.Advance)
		run.Advances[ci] += adv
		hasGlyph[ci] = true
		run.Glyphs = append(run.Glyphs, Glyph{
			ID:      uint32(g.GlyphID),
			Cluster: ci,
			X:       fixedToFloat(g.XOffset),
			Y:       -fixedToFloat(g.YOffset),
			Advance: adv,
		})
	}

	s.expandTabs(clusters, run.Advances, style, fsize)
	spreadLigatures(run.Advances, hasGlyph)
	return run
}

func (s *GoTextShaper) shape(runes []rune, dir di.Direction, size fixed.Int26_6) hb.Output {
	return s.engine.Shape(hb.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: dir,
		Face:      font.NewFace(s.font),
		Size:      size,
		Script:    detectScript(runes),
		Language:  language.NewLanguage("en"),
	})
}

func (s *GoTextShaper) lineMetrics(size fixed.Int26_6) lineMetrics {
	if m, ok := s.metrics[size]; ok {
		return m
	}
	out := s.shape([]rune{' '}, di.DirectionLTR, size)
	b := out.LineBounds
	m := lineMetrics{
		height: fixedToFloat(b.Ascent - b.Descent + b.Gap),
		ascent: fixedToFloat(b.Ascent),
	}
	if m.height <= 0 {
		m.height = fixedToFloat(size) * 1.2
		m.ascent = fixedToFloat(size)
	}
	s.metrics[size] = m
	return m
}

// expandTabs gives tab clusters the advance of the next tab stop, measured
// in space advances.
func (s *GoTextShaper) expandTabs(clusters []string, adv []float64, style Style, size fixed.Int26_6) {
	var space float64
	x := 0.0
	for i, c := range clusters {
		if c == "\t" {
			if space == 0 {
				out := s.shape([]rune{' '}, di.DirectionLTR, size)
				space = fixedToFloat(out.Advance)
				if space <= 0 {
					space = fixedToFloat(size) / 2
				}
			}
			stop := space * float64(style.tabWidth())
			n := int(x/stop) + 1
			adv[i] = float64(n)*stop - x
		}
		x += adv[i]
	}
}

// spreadLigatures splits the advance of a multi-cluster ligature evenly
// across the clusters it covers, so carets inside it land between glyph
// parts instead of piling up on one edge.
func spreadLigatures(adv []float64, hasGlyph []bool) {
	for i := 0; i < len(adv); {
		if !hasGlyph[i] {
			i++
			continue
		}
		j := i + 1
		for j < len(adv) && !hasGlyph[j] && adv[j] == 0 {
			j++
		}
		if n := j - i; n > 1 {
			share := adv[i] / float64(n)
			for k := i; k < j; k++ {
				adv[k] = share
			}
		}
		i = j
	}
}

func detectScript(runes []rune) language.Script {
	for _, r := range runes {
		if r == ' ' || r == '\t' {
			continue
		}
		return language.LookupScript(r)
	}
	return language.Latin
}

func floatToFixed(v float64) fixed.Int26_6 { return fixed.Int26_6(v * 64) }

func fixedToFloat(v fixed.Int26_6) float64 { return float64(v) / 64 }
