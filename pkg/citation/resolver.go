package citation

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/coolbeans/lexunit/pkg/types"
)

var parSegmentRe = regexp.MustCompile(`(?:^|\.)par-(\d+)(?:\.|$)`)

var indexOrdinals = map[int]string{
	1: "first", 2: "second", 3: "third", 4: "fourth", 5: "fifth",
	6: "sixth", 7: "seventh", 8: "eighth", 9: "ninth", 10: "tenth",
}

// Resolve walks every unit's citations and fills in what the citing
// text left implicit: the enclosing article and paragraph, the annex a
// bare part refers to, and the unit id the reference points at.
// External citations are never modified; their addressing belongs to
// another act. Internal targets are only set when the target unit
// actually exists.
func Resolve(units []*types.Unit) {
	byID := make(map[string]*types.Unit, len(units))
	for _, u := range units {
		byID[u.ID] = u
	}
	for _, u := range units {
		resolveUnit(u, byID)
	}
}

func resolveUnit(u *types.Unit, byID map[string]*types.Unit) {
	ctxLabel := strings.ToLower(strings.TrimSpace(u.ArticleNumber))
	var ctxParagraph *int
	if u.ParagraphNumber != "" {
		if n, err := strconv.Atoi(u.ParagraphNumber); err == nil {
			ctxParagraph = intPtr(n)
		}
	} else if u.ParagraphIndex > 0 {
		ctxParagraph = intPtr(u.ParagraphIndex)
	} else if m := parSegmentRe.FindStringSubmatch(u.ID); m != nil {
		// subparagraphs and points name their paragraph only in the id
		if n, err := strconv.Atoi(m[1]); err == nil {
			ctxParagraph = intPtr(n)
		}
	}

	for _, c := range u.Citations {
		if c.Type == types.CitationInternal && c.ActType != "" {
			reclassifyThatAct(c, u.Citations)
			continue
		}
		if c.Type != types.CitationInternal {
			continue
		}
		resolveInternal(c, u, byID, ctxLabel, ctxParagraph)
	}
}

// reclassifyThatAct turns "that Directive" (and "Article N of that
// Directive") into an external citation when exactly one earlier act
// of the same kind appears in the unit. With zero or several distinct
// antecedents the reference stays internal.
func reclassifyThatAct(c *types.Citation, all []*types.Citation) {
	var antecedent *types.Citation
	seen := map[string]bool{}
	for _, a := range all {
		if a == c || a.Type != types.CitationEULegislation || a.TreatyCode != "" {
			continue
		}
		if a.ActType != c.ActType || a.ActNumber == "" || a.SpanEnd > c.SpanStart {
			continue
		}
		if !seen[a.ActNumber] {
			seen[a.ActNumber] = true
			antecedent = a
		}
	}
	if len(seen) != 1 {
		return
	}
	c.Type = types.CitationEULegislation
	c.ActNumber = antecedent.ActNumber
	c.ActYear = copyInt(antecedent.ActYear)
	c.CELEX = antecedent.CELEX
	if c.ArticleLabel != "" {
		c.TargetNodeID = nodeID(c.ArticleLabel, c.Paragraph, 0, c.Point)
	}
}

func resolveInternal(c *types.Citation, u *types.Unit, byID map[string]*types.Unit, ctxLabel string, ctxParagraph *int) {
	raw := strings.ToLower(strings.TrimSpace(c.RawText))

	// Annex references resolve against the enclosing annex and stop.
	if c.Annex != "" || c.AnnexPart != "" {
		resolveAnnex(c, u, byID)
		return
	}
	// Chapter, section and title references carry no unit target.
	if c.Chapter != "" || c.Section != "" || c.TitleRef != "" {
		return
	}

	hadMissingArticle := c.ArticleLabel == ""
	hadMissingParagraph := c.Paragraph == nil

	// A bare point list leans on the nearest earlier reference in the
	// same sentence that names an article.
	barePoint := (c.Point != "" || c.PointRange != nil) &&
		c.ArticleLabel == "" && c.Paragraph == nil && c.SubparagraphOrdinal == ""
	anchored := false
	if barePoint {
		if a := nearestArticleAnchor(c, u); a != nil {
			anchored = true
			c.ArticleLabel = a.ArticleLabel
			c.Article = copyInt(a.Article)
			c.Paragraph = copyInt(a.Paragraph)
		}
	}

	needsArticle := c.ArticleLabel == "" &&
		(c.Paragraph != nil || c.ParagraphRange != nil || c.SubparagraphOrdinal != "" ||
			c.Point != "" || c.PointRange != nil ||
			raw == "this article" || raw == "this paragraph")
	if needsArticle && ctxLabel != "" {
		c.ArticleLabel = ctxLabel
		if n, ok := parseArticleLabel(ctxLabel); ok {
			c.Article = intPtr(n)
		}
	}

	if c.Paragraph == nil && ctxParagraph != nil {
		if c.SubparagraphOrdinal != "" || raw == "this paragraph" || (barePoint && !anchored && hadMissingArticle && c.ArticleLabel != "") {
			c.Paragraph = copyInt(ctxParagraph)
		}
	}

	// A point list inside a subparagraph points back into that same
	// subparagraph, not into the paragraph's own points.
	if barePoint && !anchored && c.Point != "" {
		if sp := enclosingSubparagraph(u, byID); sp != nil && sp.SubparagraphIndex > 0 {
			c.SubparagraphIndex = intPtr(sp.SubparagraphIndex)
			if w := indexOrdinals[sp.SubparagraphIndex]; w != "" {
				c.SubparagraphOrdinal = w
			}
			if target := sp.ID + ".pt-" + c.Point; exists(byID, target) {
				c.TargetNodeID = target
				return
			}
		}
	}

	if c.ArticleLabel == "" && c.Paragraph == nil {
		return
	}

	var primary string
	if c.SubparagraphOrdinal != "" && c.ArticleLabel != "" && c.Paragraph != nil &&
		(hadMissingArticle || hadMissingParagraph) {
		// EU drafting counts the paragraph's opening text as its first
		// subparagraph, so "first subparagraph" is the paragraph node
		// itself and the Nth maps to subpar-(N-1).
		sub := 0
		if ord := ordinalValue(c.SubparagraphOrdinal); ord > 1 {
			sub = ord - 1
		}
		primary = nodeID(c.ArticleLabel, c.Paragraph, sub, c.Point)
	} else {
		sub := 0
		if c.SubparagraphIndex != nil {
			sub = *c.SubparagraphIndex
		}
		primary = nodeID(c.ArticleLabel, c.Paragraph, sub, c.Point)
	}

	for _, candidate := range []string{
		primary,
		nodeID(c.ArticleLabel, c.Paragraph, 0, c.Point),
		nodeID(c.ArticleLabel, c.Paragraph, 0, ""),
		nodeID(c.ArticleLabel, nil, 0, ""),
	} {
		if exists(byID, candidate) {
			c.TargetNodeID = candidate
			return
		}
	}
}

func resolveAnnex(c *types.Citation, u *types.Unit, byID map[string]*types.Unit) {
	if c.Annex == "" && u.AnnexNumber != "" {
		c.Annex = strings.ToUpper(u.AnnexNumber)
	}
	if c.Annex == "" {
		return
	}
	if c.AnnexPart != "" {
		if target := "annex-" + c.Annex + ".part-" + c.AnnexPart; exists(byID, target) {
			c.TargetNodeID = target
			return
		}
	}
	if target := "annex-" + c.Annex; exists(byID, target) {
		c.TargetNodeID = target
	}
}

// nearestArticleAnchor finds the closest earlier internal citation in
// the unit that names an article, provided no sentence boundary sits
// between it and c.
func nearestArticleAnchor(c *types.Citation, u *types.Unit) *types.Citation {
	var best *types.Citation
	for _, a := range u.Citations {
		if a == c || a.Type != types.CitationInternal || a.ArticleLabel == "" {
			continue
		}
		if a.SpanEnd > c.SpanStart {
			continue
		}
		if best == nil || a.SpanEnd > best.SpanEnd {
			best = a
		}
	}
	if best == nil {
		return nil
	}
	if start, end := best.SpanEnd, c.SpanStart; start <= end && end <= len(u.Text) {
		if strings.ContainsAny(u.Text[start:end], ".;:") {
			return nil
		}
	}
	return best
}

func enclosingSubparagraph(u *types.Unit, byID map[string]*types.Unit) *types.Unit {
	parentID := u.ParentID
	for parentID != "" {
		parent, ok := byID[parentID]
		if !ok {
			return nil
		}
		if parent.Type == types.UnitSubparagraph {
			return parent
		}
		parentID = parent.ParentID
	}
	return nil
}

func exists(byID map[string]*types.Unit, id string) bool {
	_, ok := byID[id]
	return ok
}
