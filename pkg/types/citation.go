package types

// CitationType distinguishes references within the parsed document
// from references to other EU acts.
type CitationType string

const (
	CitationInternal      CitationType = "internal"
	CitationEULegislation CitationType = "eu_legislation"
)

// ActType identifies the kind of EU act a citation points at.
type ActType string

const (
	ActRegulation ActType = "regulation"
	ActDirective  ActType = "directive"
	ActDecision   ActType = "decision"
)

// Treaty codes for primary-law citations.
const (
	TreatyTFEU     = "TFEU"
	TreatyTEU      = "TEU"
	TreatyCharter  = "CHARTER"
	TreatyGeneric  = "TREATY_GENERIC"
	TreatyProtocol = "PROTOCOL"
)

// Range is an inclusive numeric span, as in "Articles 10 to 14".
type Range struct {
	First int `json:"first"`
	Last  int `json:"last"`
}

// LabelRange is an inclusive span of point labels, as in
// "points (a) to (d)".
type LabelRange struct {
	First string `json:"first"`
	Last  string `json:"last"`
}

// Citation is a single reference found in a unit's text. SpanStart and
// SpanEnd are byte offsets into the unit text; spans of the citations
// of one unit never overlap.
type Citation struct {
	RawText   string       `json:"raw_text"`
	Type      CitationType `json:"citation_type"`
	SpanStart int          `json:"span_start"`
	SpanEnd   int          `json:"span_end"`

	Article        *int        `json:"article,omitempty"`
	ArticleLabel   string      `json:"article_label,omitempty"`
	ArticleRange   *Range      `json:"article_range,omitempty"`
	Paragraph      *int        `json:"paragraph,omitempty"`
	ParagraphRange *Range      `json:"paragraph_range,omitempty"`
	Point          string      `json:"point,omitempty"`
	PointRange     *LabelRange `json:"point_range,omitempty"`

	SubparagraphOrdinal string `json:"subparagraph_ordinal,omitempty"`
	SubparagraphIndex   *int   `json:"subparagraph_index,omitempty"`

	Chapter  string `json:"chapter,omitempty"`
	Section  string `json:"section,omitempty"`
	TitleRef string `json:"title_ref,omitempty"`

	Annex     string `json:"annex,omitempty"`
	AnnexPart string `json:"annex_part,omitempty"`

	TreatyCode string `json:"treaty_code,omitempty"`

	// ConnectivePhrase is the linking phrase immediately before the
	// reference ("referred to in", "laid down in"), when present.
	ConnectivePhrase string `json:"connective_phrase,omitempty"`

	// TargetNodeID is the unit id the citation resolves to, for
	// internal references ("art-36.par-1.subpar-1.pt-b").
	TargetNodeID string `json:"target_node_id,omitempty"`

	ActYear   *int    `json:"act_year,omitempty"`
	ActType   ActType `json:"act_type,omitempty"`
	ActNumber string  `json:"act_number,omitempty"`
	CELEX     string  `json:"celex,omitempty"`
}
