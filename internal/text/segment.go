// Package text holds the Unicode helpers shared by the input pipeline:
// NFC normalization and grapheme cluster segmentation.
package text

import (
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
	"golang.org/x/text/unicode/norm"
)

// Segment is one grapheme cluster of a normalized string.
type Segment struct {
	// Text is the cluster's bytes.
	Text string
	// Start and End are byte offsets into the normalized string.
	Start, End int
	// Width is the cluster's display width in terminal cells.
	Width int
}

// NFC returns s in Normalization Form C.
func NFC(s string) string {
	if norm.NFC.IsNormalString(s) {
		return s
	}
	return norm.NFC.String(s)
}

// Segments normalizes s to NFC and splits it into grapheme clusters.
func Segments(s string) []Segment {
	s = NFC(s)
	segs := make([]Segment, 0, len(s))
	state := -1
	offset := 0
	for len(s) > 0 {
		cluster, rest, _, newState := uniseg.FirstGraphemeClusterInString(s, state)
		segs = append(segs, Segment{
			Text:  cluster,
			Start: offset,
			End:   offset + len(cluster),
			Width: ClusterWidth(cluster),
		})
		offset += len(cluster)
		s = rest
		state = newState
	}
	return segs
}

// ClusterCount returns the number of grapheme clusters in s.
func ClusterCount(s string) int {
	return uniseg.GraphemeClusterCount(s)
}

// ClusterWidth returns the display width of one grapheme cluster.
// Multi-rune clusters such as ZWJ sequences and flags are measured as a
// whole.
func ClusterWidth(cluster string) int {
	r, size := utf8.DecodeRuneInString(cluster)
	switch {
	case size == 0:
		return 0
	case size == len(cluster):
		return runewidth.RuneWidth(r)
	default:
		return uniseg.StringWidth(cluster)
	}
}

// Width returns the display width of s in terminal cells.
func Width(s string) int {
	w := 0
	for _, seg := range Segments(s) {
		w += seg.Width
	}
	return w
}
