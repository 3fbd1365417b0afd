// Package enrich derives the presentation-level fields of parsed
// units: child counts, human-readable target paths, article heading
// propagation, word and character counts, and the document summary.
package enrich

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/blevesearch/segment"

	"github.com/coolbeans/lexunit/pkg/types"
)

var (
	parIDSegmentRe = regexp.MustCompile(`(?:^|\.)par-(\d+)(?:\.|$)`)
	definitionsRe  = regexp.MustCompile(`(?i)\bdefinitions?\b`)
	amendHeadingRe = regexp.MustCompile(`(?i)Amendments?\s+to\b|Amendment\s+of\b`)
)

// Apply fills in the enrichment fields of every unit in place. Units
// must be in document order; article headings propagate forward until
// the next article or annex starts.
func Apply(units []*types.Unit) {
	children := make(map[string]int, len(units))
	for _, u := range units {
		if u.ParentID != "" {
			children[u.ParentID]++
		}
	}

	currentHeading := ""
	for _, u := range units {
		switch u.Type {
		case types.UnitArticle:
			currentHeading = u.Heading
		case types.UnitAnnex, types.UnitRecital, types.UnitDocumentTitle:
			currentHeading = ""
		}

		u.ChildrenCount = children[u.ID]
		u.IsLeaf = u.ChildrenCount == 0
		u.IsStem = u.ChildrenCount > 0 && strings.HasSuffix(strings.TrimSpace(u.Text), ":")
		if u.ArticleNumber != "" {
			u.ArticleHeading = currentHeading
		}
		u.TargetPath = targetPath(u)
		u.WordCount = wordCount(u.Text)
		u.CharCount = len(u.Text)
	}
}

// targetPath renders a unit's position the way practitioners cite it,
// e.g. "Art. 9(4)(a)" or "Annex I, Part A".
func targetPath(u *types.Unit) string {
	switch u.Type {
	case types.UnitDocumentTitle:
		return "Title"
	case types.UnitRecital:
		return "Recital " + u.RecitalNumber
	}

	if u.AnnexNumber != "" && u.ArticleNumber == "" {
		var b strings.Builder
		b.WriteString("Annex " + u.AnnexNumber)
		if u.AnnexPart != "" {
			b.WriteString(", Part " + u.AnnexPart)
		}
		if u.Type == types.UnitAnnexItem && u.Ref != "" {
			b.WriteString(", " + u.Ref)
		}
		return b.String()
	}

	if u.ArticleNumber == "" {
		return ""
	}
	var b strings.Builder
	b.WriteString("Art. " + u.ArticleNumber)
	par := u.ParagraphNumber
	if par == "" && u.ParagraphIndex > 0 {
		par = strconv.Itoa(u.ParagraphIndex)
	}
	if par == "" {
		if m := parIDSegmentRe.FindStringSubmatch(u.ID); m != nil {
			par = m[1]
		}
	}
	if par != "" {
		b.WriteString("(" + par + ")")
	}
	for _, label := range []string{u.PointLabel, u.SubpointLabel, u.SubsubpointLabel} {
		if label != "" {
			b.WriteString("(" + label + ")")
		}
	}
	for _, label := range u.ExtraLabels {
		b.WriteString("(" + label + ")")
	}
	return b.String()
}

// wordCount counts word segments, skipping whitespace and punctuation
// runs.
func wordCount(text string) int {
	if text == "" {
		return 0
	}
	seg := segment.NewWordSegmenterDirect([]byte(text))
	count := 0
	for seg.Segment() {
		if seg.Type() != segment.None {
			count++
		}
	}
	return count
}

// Metadata summarizes the parsed document. Definitions are counted as
// points under an article whose heading names definitions. Amendment
// articles are listed in order of first appearance, whether flagged on
// the article heading or detected from quoted amendment text inside.
func Metadata(units []*types.Unit) *types.DocumentMetadata {
	md := &types.DocumentMetadata{}

	definitionArticles := map[string]bool{}
	amendSeen := map[string]bool{}

	for _, u := range units {
		md.TotalUnits++
		switch u.Type {
		case types.UnitDocumentTitle:
			if md.Title == "" {
				md.Title = u.Text
			}
		case types.UnitArticle:
			md.TotalArticles++
			if definitionsRe.MatchString(u.Heading) {
				definitionArticles[u.ArticleNumber] = true
			}
			if amendHeadingRe.MatchString(u.Heading) && !amendSeen[u.ArticleNumber] {
				amendSeen[u.ArticleNumber] = true
				md.AmendmentArticles = append(md.AmendmentArticles, u.ArticleNumber)
			}
		case types.UnitParagraph:
			md.TotalParagraphs++
		case types.UnitPoint:
			md.TotalPoints++
		case types.UnitAnnex:
			md.HasAnnexes = true
		}
		if u.IsAmendmentText && u.ArticleNumber != "" && !amendSeen[u.ArticleNumber] {
			amendSeen[u.ArticleNumber] = true
			md.AmendmentArticles = append(md.AmendmentArticles, u.ArticleNumber)
		}
	}

	for _, u := range units {
		if u.Type == types.UnitPoint && definitionArticles[u.ArticleNumber] {
			md.TotalDefinitions++
		}
	}
	return md
}
