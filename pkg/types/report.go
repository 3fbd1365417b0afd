package types

// Orphan records a unit whose parent id does not exist in the tree.
type Orphan struct {
	ID       string `json:"id"`
	ParentID string `json:"parent_id"`
}

// SequenceGap records missing numbers in a numbered run of units, such
// as recitals jumping from (3) to (5).
type SequenceGap struct {
	Type    string `json:"type"`
	Missing []int  `json:"missing"`
}

// ValidationReport collects structural checks performed after parsing.
// CountsExpected is derived from source markup markers before the
// walk; CountsParsed from the units actually built.
type ValidationReport struct {
	SourceFile       string         `json:"source_file,omitempty"`
	CountsExpected   map[string]int `json:"counts_expected"`
	CountsParsed     map[string]int `json:"counts_parsed"`
	SequenceGaps     []SequenceGap  `json:"sequence_gaps,omitempty"`
	Orphans          []Orphan       `json:"orphans,omitempty"`
	UnparsedNodes    []string       `json:"unparsed_nodes,omitempty"`
	MismatchedLabels []string       `json:"mismatched_labels,omitempty"`
}

// NewValidationReport returns an empty report with count maps ready.
func NewValidationReport() *ValidationReport {
	return &ValidationReport{
		CountsExpected: make(map[string]int),
		CountsParsed:   make(map[string]int),
	}
}

// IsValid reports whether the document parsed cleanly: no sequence
// gaps, no orphans, no unparsed nodes and no mismatched labels. Count
// differences are informational; consolidated sources legitimately
// carry fewer live articles than their markers suggest.
func (r *ValidationReport) IsValid() bool {
	return len(r.SequenceGaps) == 0 &&
		len(r.Orphans) == 0 &&
		len(r.UnparsedNodes) == 0 &&
		len(r.MismatchedLabels) == 0
}

// DocumentMetadata summarizes a parsed document.
type DocumentMetadata struct {
	Title             string   `json:"title,omitempty"`
	TotalUnits        int      `json:"total_units"`
	TotalArticles     int      `json:"total_articles"`
	TotalParagraphs   int      `json:"total_paragraphs"`
	TotalPoints       int      `json:"total_points"`
	TotalDefinitions  int      `json:"total_definitions"`
	HasAnnexes        bool     `json:"has_annexes"`
	AmendmentArticles []string `json:"amendment_articles,omitempty"`
}
