package shaping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCellShaper_Widths(t *testing.T) {
	run := CellShaper{}.ShapeLine("aé\U0001F600テ", Style{})
	assert.Equal(t, []float64{1, 1, 2, 2}, run.Advances)
	require.Len(t, run.Glyphs, 4)
	assert.Equal(t, uint32('a'), run.Glyphs[0].ID)
	assert.Equal(t, 1.0, run.LineHeight)
	assert.Equal(t, LTR, run.Direction)
}

func TestCellShaper_TabStops(t *testing.T) {
	run := CellShaper{}.ShapeLine("a\tb\t", Style{TabWidth: 4})
	assert.Equal(t, []float64{1, 3, 1, 3}, run.Advances)

	run = CellShaper{}.ShapeLine("\t", Style{})
	assert.Equal(t, []float64{4}, run.Advances)
}

func TestCellShaper_EastAsianAmbiguous(t *testing.T) {
	narrow := CellShaper{}.ShapeLine("±", Style{})
	wide := CellShaper{EastAsian: true}.ShapeLine("±", Style{})
	assert.Equal(t, []float64{1}, narrow.Advances)
	assert.Equal(t, []float64{2}, wide.Advances)
}

func TestDetectDirection(t *testing.T) {
	assert.Equal(t, LTR, DetectDirection("hello"))
	assert.Equal(t, RTL, DetectDirection("שלום"))
	assert.Equal(t, RTL, DetectDirection("123 مرحبا"))
	assert.Equal(t, LTR, DetectDirection("123 !"))
}
