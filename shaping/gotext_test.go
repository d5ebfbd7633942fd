package shaping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/iw2rmb/quill/internal/grapheme"
)

func TestGoTextShaper_BasicLatin(t *testing.T) {
	s, err := NewGoTextShaper(goregular.TTF)
	require.NoError(t, err)

	run := s.ShapeLine("Hello", Style{FontSize: 16})
	require.Len(t, run.Advances, 5)
	for i, a := range run.Advances {
		assert.Greater(t, a, 0.0, "cluster %d", i)
	}
	assert.Greater(t, run.LineHeight, 0.0)
	assert.Greater(t, run.Ascent, 0.0)
	assert.NotEmpty(t, run.Glyphs)
}

func TestGoTextShaper_OneAdvancePerCluster(t *testing.T) {
	s := NewDefaultGoTextShaper()
	for _, text := range []string{"éx", "a\U0001F600b", "fi fl", "שלום"} {
		run := s.ShapeLine(text, Style{})
		assert.Len(t, run.Advances, grapheme.Count(text), "%q", text)
	}
}

func TestGoTextShaper_TabAdvancesToStop(t *testing.T) {
	s := NewDefaultGoTextShaper()
	space := s.ShapeLine(" ", Style{}).Advances[0]
	run := s.ShapeLine("\t", Style{TabWidth: 2})
	require.Len(t, run.Advances, 1)
	assert.InDelta(t, 2*space, run.Advances[0], 0.01)
}

func TestGoTextShaper_CacheProducesPixelLayout(t *testing.T) {
	c := NewCache(stringSource{"Hello world"}, NewDefaultGoTextShaper(), Style{FontSize: 20})
	l, err := c.Line(0)
	require.NoError(t, err)
	assert.Greater(t, l.Width(), 20.0)
	_, end := l.Caret(l.Clusters)
	assert.InDelta(t, l.Width(), end, 0.001)
}

func TestSpreadLigatures(t *testing.T) {
	adv := []float64{10, 0, 4, 0}
	spreadLigatures(adv, []bool{true, false, true, true})
	assert.Equal(t, []float64{5, 5, 4, 0}, adv)
}

type stringSource []string

func (s stringSource) LineCount() int        { return len(s) }
func (s stringSource) LineText(i int) string { return s[i] }
func (stringSource) LineRevision(int) uint64 { return 0 }
