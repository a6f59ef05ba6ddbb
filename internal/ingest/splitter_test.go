package ingest

import (
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

var defaultSeparators = []string{"\n\n", "\n", ". ", " ", ""}

func TestSplit_ShortText(t *testing.T) {
	s := Splitter{ChunkSize: 800, Overlap: 150, Separators: defaultSeparators}
	assert.Equal(t, []string{"Vacation days accrue monthly."}, s.Split("  Vacation days accrue monthly.\n"))
}

func TestSplit_BlankText(t *testing.T) {
	s := Splitter{ChunkSize: 10, Overlap: 2, Separators: defaultSeparators}
	assert.Empty(t, s.Split(""))
	assert.Empty(t, s.Split("   \n\n  "))
}

func TestSplit_PrefersParagraphs(t *testing.T) {
	s := Splitter{ChunkSize: 12, Overlap: 0, Separators: defaultSeparators}
	assert.Equal(t, []string{"para one.", "para two."}, s.Split("para one.\n\npara two."))
}

func TestSplit_HardCut(t *testing.T) {
	s := Splitter{ChunkSize: 4, Overlap: 0, Separators: defaultSeparators}
	assert.Equal(t, []string{"abcd", "efgh", "ij"}, s.Split("abcdefghij"))
}

func TestSplit_CountsRunes(t *testing.T) {
	s := Splitter{ChunkSize: 2, Overlap: 0, Separators: []string{""}}
	assert.Equal(t, []string{"éé", "éé", "é"}, s.Split("ééééé"))
}

func TestSplit_Overlap(t *testing.T) {
	var words []string
	for i := 0; i < 20; i++ {
		words = append(words, fmt.Sprintf("w%02d", i))
	}
	s := Splitter{ChunkSize: 20, Overlap: 8, Separators: defaultSeparators}
	chunks := s.Split(strings.Join(words, " "))

	assert.Equal(t, "w00 w01 w02 w03 w04", chunks[0])
	assert.Equal(t, "w03 w04 w05 w06 w07", chunks[1])
	assert.True(t, strings.HasSuffix(chunks[len(chunks)-1], "w19"))
}

func TestSplit_ChunksNeverExceedSize(t *testing.T) {
	text := strings.Repeat("The quick brown fox jumps over the lazy dog. ", 40) +
		"\n\n" + strings.Repeat("Supercalifragilisticexpialidocious", 5) +
		"\n" + strings.Repeat("lorem ipsum ", 30)

	for _, size := range []int{10, 25, 50, 120} {
		s := Splitter{ChunkSize: size, Overlap: size / 4, Separators: defaultSeparators}
		chunks := s.Split(text)
		assert.NotEmpty(t, chunks)
		for _, c := range chunks {
			assert.LessOrEqual(t, utf8.RuneCountInString(c), size, "chunk %q", c)
			assert.Equal(t, strings.TrimSpace(c), c)
		}
	}
}

func TestSplit_KeepsAllWords(t *testing.T) {
	text := "Alpha beta gamma.\n\nDelta epsilon zeta eta theta.\nIota kappa lambda mu nu xi omicron pi."
	s := Splitter{ChunkSize: 30, Overlap: 5, Separators: defaultSeparators}
	joined := strings.Join(s.Split(text), " ")
	for _, w := range strings.Fields(text) {
		assert.Contains(t, joined, w)
	}
}

func TestSplit_HardCutWithoutEmptySeparator(t *testing.T) {
	s := Splitter{ChunkSize: 20, Overlap: 5, Separators: []string{"\n\n", "\n"}}
	chunks := s.Split(strings.Repeat("a", 50))

	a20 := strings.Repeat("a", 20)
	assert.Equal(t, []string{a20, a20, a20}, chunks)
}

func TestSplit_CustomSeparatorsRespectSize(t *testing.T) {
	s := Splitter{ChunkSize: 20, Overlap: 0, Separators: []string{"\n"}}
	chunks := s.Split("short line\n" + strings.Repeat("b", 30))

	assert.Equal(t, "short line", chunks[0])
	assert.Equal(t, 30, strings.Count(strings.Join(chunks[1:], ""), "b"))
	for _, c := range chunks {
		assert.LessOrEqual(t, utf8.RuneCountInString(c), 20, "chunk %q", c)
	}
}
