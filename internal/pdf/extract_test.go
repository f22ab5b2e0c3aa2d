package pdf

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeText(t *testing.T) {
	t.Run("CollapsesSpaces", func(t *testing.T) {
		assert.Equal(t, "one two three", NormalizeText("one   two \t three"))
	})

	t.Run("TrimsTrailingSpacesPerLine", func(t *testing.T) {
		assert.Equal(t, "line one\nline two", NormalizeText("line one   \nline two  "))
	})

	t.Run("CollapsesBlankLineRuns", func(t *testing.T) {
		assert.Equal(t, "a\n\nb", NormalizeText("a\n\n\n\n\nb"))
	})

	t.Run("NormalizesCRLF", func(t *testing.T) {
		assert.Equal(t, "a\nb", NormalizeText("a\r\nb"))
	})

	t.Run("Empty", func(t *testing.T) {
		assert.Equal(t, "", NormalizeText("   \n\n  "))
	})
}

func TestExtractPages_MissingFile(t *testing.T) {
	e := NewExtractor()
	_, err := e.ExtractPages("testdata/does-not-exist.pdf")
	assert.Error(t, err)
}
