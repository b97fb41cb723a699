package document

import "golang.org/x/text/unicode/norm"

// Normalize applies Unicode NFC normalization to text before it is inserted
// into a document. Collaborating clients may produce the same visible text
// as different code point sequences (e.g. precomposed vs. combining-mark
// accents); normalizing on insert keeps rune positions comparable across
// steps that originated on different clients.
func Normalize(text string) string {
	return norm.NFC.String(text)
}
