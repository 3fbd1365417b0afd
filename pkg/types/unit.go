// Package types defines the data model shared by the parser, the
// citation engine and the enrichment pass: structural units of an
// EUR-Lex document, extracted citations, validation reports and
// document-level metadata.
package types

import (
	"fmt"
	"strconv"
	"strings"
)

// UnitType classifies a structural unit of a legal document.
type UnitType string

const (
	UnitDocumentTitle UnitType = "document_title"
	UnitRecital       UnitType = "recital"
	UnitArticle       UnitType = "article"
	UnitParagraph     UnitType = "paragraph"
	UnitSubparagraph  UnitType = "subparagraph"
	UnitPoint         UnitType = "point"
	UnitSubpoint      UnitType = "subpoint"
	UnitSubsubpoint   UnitType = "subsubpoint"
	UnitAnnex         UnitType = "annex"
	UnitAnnexPart     UnitType = "annex_part"
	UnitAnnexItem     UnitType = "annex_item"
	UnitIntro         UnitType = "intro"
	UnitUnknown       UnitType = "unknown_unit"
)

// NestedType returns the unit type for list rows nested deeper than
// subsubpoint, e.g. NestedType(3) == "nested_3".
func NestedType(depth int) UnitType {
	return UnitType(fmt.Sprintf("nested_%d", depth))
}

// NestedDepth reports the depth of a nested_N type. ok is false for
// every other unit type.
func NestedDepth(t UnitType) (depth int, ok bool) {
	s, found := strings.CutPrefix(string(t), "nested_")
	if !found {
		return 0, false
	}
	depth, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return depth, true
}

// Unit is one structural element of a parsed document. Units are
// emitted in document order; hierarchy is carried by ParentID and by
// the dot-separated ID itself (e.g. "art-5.par-1.pt-a").
type Unit struct {
	ID       string   `json:"id"`
	Type     UnitType `json:"type"`
	Ref      string   `json:"ref,omitempty"`
	Text     string   `json:"text"`
	ParentID string   `json:"parent_id,omitempty"`

	SourceID   string `json:"source_id,omitempty"`
	SourceFile string `json:"source_file,omitempty"`

	ArticleNumber     string   `json:"article_number,omitempty"`
	ParagraphNumber   string   `json:"paragraph_number,omitempty"`
	ParagraphIndex    int      `json:"paragraph_index,omitempty"`
	SubparagraphIndex int      `json:"subparagraph_index,omitempty"`
	PointLabel        string   `json:"point_label,omitempty"`
	SubpointLabel     string   `json:"subpoint_label,omitempty"`
	SubsubpointLabel  string   `json:"subsubpoint_label,omitempty"`
	ExtraLabels       []string `json:"extra_labels,omitempty"`

	Heading       string `json:"heading,omitempty"`
	AnnexNumber   string `json:"annex_number,omitempty"`
	AnnexPart     string `json:"annex_part,omitempty"`
	RecitalNumber string `json:"recital_number,omitempty"`

	// IsAmendmentText marks quoted text that amends another act.
	// Citation extraction is suppressed for these units.
	IsAmendmentText bool `json:"is_amendment_text,omitempty"`

	// Enrichment fields, populated after the tree is built.
	TargetPath     string `json:"target_path,omitempty"`
	ArticleHeading string `json:"article_heading,omitempty"`
	ChildrenCount  int    `json:"children_count"`
	IsLeaf         bool   `json:"is_leaf"`
	IsStem         bool   `json:"is_stem"`
	WordCount      int    `json:"word_count"`
	CharCount      int    `json:"char_count"`

	Citations []*Citation `json:"citations,omitempty"`
}

// ParseResult is the full output for one document.
type ParseResult struct {
	SourceFile string            `json:"source_file"`
	Format     string            `json:"format"`
	Units      []*Unit           `json:"units"`
	Report     *ValidationReport `json:"validation"`
	Metadata   *DocumentMetadata `json:"metadata"`
}
