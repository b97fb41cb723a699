package document

import "github.com/xheldon-t/prosemirror-history/pkg/rope"

// RopeDocument is a Document backed by a balanced rope rather than a flat
// string. It exists for hosts editing documents large enough that
// StringDocument's O(n) slice-and-rebuild on every step becomes a problem;
// the two are otherwise interchangeable.
type RopeDocument struct {
	r *rope.Rope
}

// NewRopeDocument wraps content in a rope-backed Document.
func NewRopeDocument(content string) *RopeDocument {
	return &RopeDocument{r: rope.New(content)}
}

func newRopeDocumentFrom(r *rope.Rope) *RopeDocument {
	return &RopeDocument{r: r}
}

func (d *RopeDocument) Length() int {
	return d.r.Length()
}

func (d *RopeDocument) Slice(start, end int) string {
	s, err := d.r.Slice(start, end)
	if err != nil {
		return ""
	}
	return s
}

func (d *RopeDocument) String() string {
	return d.r.String()
}

func (d *RopeDocument) Bytes() []byte {
	return d.r.Bytes()
}

func (d *RopeDocument) Clone() Document {
	return &RopeDocument{r: d.r.Clone()}
}

// Insert returns a new RopeDocument with text inserted at pos.
func (d *RopeDocument) Insert(pos int, text string) (*RopeDocument, error) {
	r, err := d.r.Insert(pos, text)
	if err != nil {
		return nil, err
	}
	return newRopeDocumentFrom(r), nil
}

// Delete returns a new RopeDocument with the range [start, end) removed.
func (d *RopeDocument) Delete(start, end int) (*RopeDocument, error) {
	r, err := d.r.Delete(start, end)
	if err != nil {
		return nil, err
	}
	return newRopeDocumentFrom(r), nil
}
