package ingest

import (
	"strings"
	"unicode/utf8"
)

// Splitter cuts text into overlapping chunks of at most ChunkSize runes.
// It splits on the first separator present in the text, recursing with the
// remaining separators into pieces that are still too long. An empty
// separator cuts between runes. Separators stay attached to the start of
// the piece that follows them.
type Splitter struct {
	ChunkSize  int
	Overlap    int
	Separators []string
}

// Split returns the chunks of text, trimmed of surrounding whitespace.
// Blank chunks are dropped.
func (s Splitter) Split(text string) []string {
	seps := s.Separators
	if len(seps) == 0 {
		seps = []string{""}
	}
	return s.split(text, seps)
}

func (s Splitter) split(text string, separators []string) []string {
	separator := separators[len(separators)-1]
	var rest []string
	for i, sep := range separators {
		if sep == "" {
			separator = ""
			break
		}
		if strings.Contains(text, sep) {
			separator = sep
			rest = separators[i+1:]
			break
		}
	}

	var chunks, pending []string
	for _, piece := range splitKeepingSeparator(text, separator) {
		if runeLen(piece) < s.ChunkSize {
			pending = append(pending, piece)
			continue
		}
		if len(pending) > 0 {
			chunks = append(chunks, s.merge(pending)...)
			pending = nil
		}
		switch {
		case len(rest) > 0:
			chunks = append(chunks, s.split(piece, rest)...)
		case separator != "":
			// No separator left to try: cut between runes.
			chunks = append(chunks, s.split(piece, []string{""})...)
		default:
			chunks = append(chunks, piece)
		}
	}
	if len(pending) > 0 {
		chunks = append(chunks, s.merge(pending)...)
	}
	return chunks
}

// merge greedily packs pieces into chunks of at most ChunkSize runes, carrying
// up to Overlap runes of trailing pieces into the next chunk.
func (s Splitter) merge(pieces []string) []string {
	var (
		chunks  []string
		current []string
		total   int
	)
	for _, piece := range pieces {
		n := runeLen(piece)
		if total+n > s.ChunkSize && len(current) > 0 {
			if chunk := join(current); chunk != "" {
				chunks = append(chunks, chunk)
			}
			for total > s.Overlap || (total+n > s.ChunkSize && total > 0) {
				total -= runeLen(current[0])
				current = current[1:]
			}
		}
		current = append(current, piece)
		total += n
	}
	if chunk := join(current); chunk != "" {
		chunks = append(chunks, chunk)
	}
	return chunks
}

func splitKeepingSeparator(text, separator string) []string {
	if separator == "" {
		pieces := make([]string, 0, utf8.RuneCountInString(text))
		for _, r := range text {
			pieces = append(pieces, string(r))
		}
		return pieces
	}

	parts := strings.Split(text, separator)
	pieces := make([]string, 0, len(parts))
	if parts[0] != "" {
		pieces = append(pieces, parts[0])
	}
	for _, p := range parts[1:] {
		pieces = append(pieces, separator+p)
	}
	return pieces
}

func join(pieces []string) string {
	return strings.TrimSpace(strings.Join(pieces, ""))
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}
