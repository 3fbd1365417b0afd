package parser

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/coolbeans/lexunit/pkg/markup"
	"github.com/coolbeans/lexunit/pkg/types"
)

// parseConsolidatedArticles walks the consolidated layout, where each
// article is a flat run of siblings after its title paragraph rather
// than a containing division.
func (p *Parser) parseConsolidatedArticles() {
	p.doc.Find("p.title-article-norm").Each(func(_ int, title *goquery.Selection) {
		titleText := markup.Text(title)
		artNum := ""
		if m := articleNumRe.FindStringSubmatch(titleText); m != nil {
			artNum = strings.ToLower(m[1])
		}
		if artNum == "" {
			return
		}
		heading := ""
		if next := title.Next(); next.HasClass("stitle-article-norm") {
			heading = markup.Text(next)
		}

		artID := "art-" + artNum
		art := &types.Unit{
			ID:            artID,
			Type:          types.UnitArticle,
			Ref:           titleText,
			Heading:       heading,
			ArticleNumber: artNum,
			SourceID:      title.AttrOr("id", ""),
		}
		p.addUnit(art)
		artID = art.ID

		introIdx := 0
		for sib := title.Next(); sib.Length() > 0; sib = sib.Next() {
			if sib.HasClass("title-article-norm") {
				break
			}
			node := sib.Get(0)
			switch {
			case node.Data == "div" && sib.HasClass("norm"):
				p.parseConsolidatedParagraph(sib, artID, artNum)
			case node.Data == "div" && sib.HasClass("grid-container"):
				// points can sit directly under the article title,
				// without a paragraph wrapper
				p.parseSingleGridPoint(sib, artID, artNum, 0)
			case node.Data == "p" && sib.HasClass("norm"):
				text := markup.Text(sib)
				if text == "" {
					continue
				}
				introIdx++
				p.addUnit(&types.Unit{
					ID:            fmt.Sprintf("%s.intro-%d", artID, introIdx),
					Type:          types.UnitIntro,
					Text:          text,
					ParentID:      artID,
					ArticleNumber: artNum,
				})
			}
		}
	})
}

// parseConsolidatedParagraph handles one div.norm sibling. A
// span.no-parag carries the paragraph number; without one the content
// attaches to the article itself.
func (p *Parser) parseConsolidatedParagraph(div *goquery.Selection, artID, artNum string) {
	numSpan := div.ChildrenFiltered("span.no-parag").First()
	if numSpan.Length() == 0 {
		numSpan = div.Find("span.no-parag").First()
	}

	parNum := ""
	if numSpan.Length() > 0 {
		raw := markup.Text(numSpan)
		parNum = strings.TrimRight(strings.TrimSpace(raw), ".")
		for _, r := range parNum {
			if r < '0' || r > '9' {
				parNum = ""
				break
			}
		}
	}

	parentID := artID
	if parNum != "" {
		par := &types.Unit{
			ID:              fmt.Sprintf("%s.par-%s", artID, parNum),
			Type:            types.UnitParagraph,
			Ref:             parNum + ".",
			Text:            consolidatedText(div),
			ParentID:        artID,
			ArticleNumber:   artNum,
			ParagraphNumber: parNum,
			SourceID:        div.AttrOr("id", ""),
		}
		p.addUnit(par)
		parentID = par.ID
	} else if text := consolidatedText(div); text != "" {
		par := &types.Unit{
			ID:             artID + ".par-1",
			Type:           types.UnitParagraph,
			Text:           text,
			ParentID:       artID,
			ArticleNumber:  artNum,
			ParagraphIndex: 1,
			SourceID:       div.AttrOr("id", ""),
		}
		p.addUnit(par)
		parentID = par.ID
	}

	p.parseConsolidatedPoints(div, parentID, artNum, 0)
}

// parseConsolidatedPoints recurses into the grid-container rows that
// hold points in the consolidated layout. Grids wrapped in an
// inline-element div count as direct children.
func (p *Parser) parseConsolidatedPoints(container *goquery.Selection, parentID, artNum string, depth int) {
	var grids []*goquery.Selection
	container.ChildrenFiltered("div").Each(func(_ int, div *goquery.Selection) {
		if div.HasClass("grid-container") {
			grids = append(grids, div)
			return
		}
		if div.HasClass("inline-element") {
			div.ChildrenFiltered("div.grid-container").Each(func(_ int, g *goquery.Selection) {
				grids = append(grids, g)
			})
		}
	})
	for _, grid := range grids {
		p.parseSingleGridPoint(grid, parentID, artNum, depth)
	}
}

func (p *Parser) parseSingleGridPoint(grid *goquery.Selection, parentID, artNum string, depth int) {
	if depth >= maxPointDepth {
		return
	}
	labelCol := grid.Find("div.grid-list-column-1").First()
	rawLabel := markup.Text(labelCol.Find("span").First())
	if rawLabel == "" {
		rawLabel = markup.Text(labelCol.Find("div.list").First())
	}
	if rawLabel == "" {
		rawLabel = markup.Text(labelCol)
	}
	label, _, quoted := markup.NormalizeLabel(rawLabel)
	if label == "" {
		return
	}
	contentCol := grid.Find("div.grid-list-column-2").First()

	unit := &types.Unit{
		ID:              fmt.Sprintf("%s.%s-%s", parentID, idPrefixForDepth(depth), label),
		Type:            childTypeForDepth(depth),
		Ref:             rawLabel,
		Text:            consolidatedText(contentCol),
		ParentID:        parentID,
		ArticleNumber:   artNum,
		IsAmendmentText: quoted,
	}
	switch depth {
	case 0:
		unit.PointLabel = label
	case 1:
		unit.SubpointLabel = label
	case 2:
		unit.SubsubpointLabel = label
	default:
		unit.ExtraLabels = append(unit.ExtraLabels, label)
	}
	p.addUnit(unit)

	p.parseConsolidatedPoints(contentCol, unit.ID, artNum, depth+1)
}

// consolidatedText extracts a consolidated node's own text, leaving
// out the paragraph number span and any nested grid rows.
func consolidatedText(sel *goquery.Selection) string {
	if sel.Length() == 0 {
		return ""
	}
	clone := sel.Clone()
	markup.RemoveNoteTags(clone)
	clone.Find("span.no-parag").Remove()
	clone.Find("div.grid-container").Remove()

	norms := clone.Find("p.norm")
	if norms.Length() > 0 {
		var parts []string
		norms.Each(func(_ int, n *goquery.Selection) {
			if t := markup.Text(n); t != "" {
				parts = append(parts, t)
			}
		})
		return markup.NormalizeText(strings.Join(parts, " "))
	}
	return markup.Text(clone)
}
