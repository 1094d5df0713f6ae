package corpus

// Document types tagged in metadata under "doc_type".
const (
	DocTypeCustomerRow  = "customer_row"
	DocTypeSegment      = "segment_statistics"
	DocTypeMultiSegment = "multi_segment_statistics"
)

// DocTypes lists the recognized document types in synthesis order.
var DocTypes = []string{DocTypeCustomerRow, DocTypeSegment, DocTypeMultiSegment}

// Document is the unit of retrieval: a human-readable narrative plus a
// string metadata mapping that supports exact-match filtering by doc_type,
// dimension name(s) and value(s). Documents are created once during
// synthesis and never mutated.
type Document struct {
	Content  string            `json:"content"`
	Metadata map[string]string `json:"metadata"`
}

// Type returns the document's doc_type tag.
func (d Document) Type() string { return d.Metadata["doc_type"] }

// Matches reports whether every criteria key/value exactly matches the
// document's metadata.
func (d Document) Matches(criteria map[string]string) bool {
	for k, v := range criteria {
		if d.Metadata[k] != v {
			return false
		}
	}
	return true
}
