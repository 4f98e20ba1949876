package sheets

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rivo/uniseg"
)

// truncateGraphemes shortens s to at most maxRunes runes without splitting
// a grapheme cluster.
func truncateGraphemes(s string, maxRunes int) string {
	if utf8.RuneCountInString(s) <= maxRunes {
		return s
	}

	var (
		b     strings.Builder
		count int
		state = -1
	)
	for len(s) > 0 {
		var cluster string
		cluster, s, _, state = uniseg.FirstGraphemeClusterInString(s, state)
		n := utf8.RuneCountInString(cluster)
		if count+n > maxRunes {
			break
		}
		b.WriteString(cluster)
		count += n
	}
	return strings.TrimRightFunc(b.String(), unicode.IsSpace)
}
