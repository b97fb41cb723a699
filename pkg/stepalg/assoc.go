package stepalg

import (
	"github.com/clipperhouse/uax29/words"

	"github.com/xheldon-t/prosemirror-history/pkg/history"
)

// WordBoundaryAssoc picks the Assoc a selection bookmark at pos should map
// with: AssocBefore when pos sits inside or at the end of a word (so it
// stays glued to the word it was in), AssocAfter otherwise. This keeps a
// cursor from silently hopping across word boundaries when an edit
// elsewhere remaps it. A pos at the very start or end of text always gets
// AssocAfter.
func WordBoundaryAssoc(text string, pos int) history.Assoc {
	runes := []rune(text)
	if pos <= 0 || pos >= len(runes) {
		return history.AssocAfter
	}

	runePos := 0
	for _, word := range words.SegmentAllString(text) {
		wordRunes := []rune(word)
		start := runePos
		end := runePos + len(wordRunes)
		if pos > start && pos <= end && isWordlike(wordRunes) {
			return history.AssocBefore
		}
		runePos = end
	}
	return history.AssocAfter
}

func isWordlike(runes []rune) bool {
	for _, r := range runes {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			return true
		}
	}
	return false
}
