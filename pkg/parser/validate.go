package parser

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/coolbeans/lexunit/pkg/types"
)

var renameSuffixRe = regexp.MustCompile(`_\d+$`)

// validate runs the post-parse structural checks: orphaned parent ids,
// id/label mismatches, source blocks that yielded no unit, and gaps in
// the recital numbering.
func (p *Parser) validate() {
	for _, u := range p.units {
		if u.ParentID != "" && !p.seen[u.ParentID] {
			p.report.Orphans = append(p.report.Orphans, types.Orphan{
				ID:       u.ID,
				ParentID: u.ParentID,
			})
		}
		p.checkLabel(u)
	}
	p.checkUnparsed()
	p.checkRecitalSequence()
}

// checkLabel verifies that a unit's structural labels agree with its
// id. Collision renames carry a numeric suffix, which is stripped
// before comparing.
func (p *Parser) checkLabel(u *types.Unit) {
	id := renameSuffixRe.ReplaceAllString(u.ID, "")
	var wantSegment string
	switch u.Type {
	case types.UnitArticle:
		wantSegment = "art-" + u.ArticleNumber
	case types.UnitParagraph:
		if u.ParagraphNumber == "" {
			return
		}
		wantSegment = "par-" + u.ParagraphNumber
	case types.UnitPoint:
		if u.PointLabel == "" {
			return
		}
		wantSegment = "pt-" + u.PointLabel
	case types.UnitRecital:
		wantSegment = "rct-" + u.RecitalNumber
	default:
		return
	}
	last := id[strings.LastIndex(id, ".")+1:]
	if last != wantSegment {
		p.report.MismatchedLabels = append(p.report.MismatchedLabels,
			fmt.Sprintf("%s: id segment %q does not match label %q", u.ID, last, wantSegment))
	}
}

// checkUnparsed flags source blocks that match the structural markers
// but produced no unit.
func (p *Parser) checkUnparsed() {
	if p.doc == nil {
		return
	}
	srcSeen := map[string]bool{}
	for _, u := range p.units {
		if u.SourceID != "" {
			srcSeen[u.SourceID] = true
		}
	}
	selector := `div[id^="rct_"], div[id^="art_"], div[id^="anx_"]`
	if p.format == FormatConsolidated {
		selector = `div[id^="rct_"], p.title-article-norm, div[id^="anx_"]`
	}
	p.doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
		if id := sel.AttrOr("id", ""); id != "" && !srcSeen[id] {
			p.report.UnparsedNodes = append(p.report.UnparsedNodes, id)
		}
	})
}

func (p *Parser) checkRecitalSequence() {
	have := map[int]bool{}
	max := 0
	for _, u := range p.units {
		if u.Type != types.UnitRecital {
			continue
		}
		n, err := strconv.Atoi(u.RecitalNumber)
		if err != nil {
			continue
		}
		have[n] = true
		if n > max {
			max = n
		}
	}
	var missing []int
	for n := 1; n <= max; n++ {
		if !have[n] {
			missing = append(missing, n)
		}
	}
	if len(missing) > 0 {
		sort.Ints(missing)
		p.report.SequenceGaps = append(p.report.SequenceGaps, types.SequenceGap{
			Type:    "recital",
			Missing: missing,
		})
	}
}
