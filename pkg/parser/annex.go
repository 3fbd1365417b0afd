package parser

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/coolbeans/lexunit/pkg/markup"
	"github.com/coolbeans/lexunit/pkg/types"
)

// parseAnnexes walks the annex divisions. Annex content is loosely
// structured, so everything below parts and list rows falls back to
// positional item ids.
func (p *Parser) parseAnnexes() {
	p.doc.Find(`div[id^="anx_"]`).Each(func(i int, div *goquery.Selection) {
		title := markup.Text(div.Find("p.oj-doc-ti").First())
		annexNum := ""
		if m := annexNumberRe.FindStringSubmatch(title); m != nil {
			annexNum = strings.ToUpper(m[1])
		}
		if annexNum == "" {
			annexNum = intToRoman(i + 1)
		}
		if title == "" {
			title = "ANNEX " + annexNum
		}
		heading := markup.Text(div.Find("p.oj-ti-grseq-1").First())
		if heading == "" {
			heading = title
		}

		annexID := "annex-" + annexNum
		annex := &types.Unit{
			ID:          annexID,
			Type:        types.UnitAnnex,
			Ref:         "ANNEX " + annexNum,
			Text:        title,
			Heading:     heading,
			AnnexNumber: annexNum,
			SourceID:    div.AttrOr("id", ""),
		}
		p.addUnit(annex)
		annexID = annex.ID

		currentParent := annexID
		currentPart := ""
		itemIdx := 0

		emitItem := func(text, ref, label string, quoted bool) *types.Unit {
			if label == "" {
				itemIdx++
				label = fmt.Sprintf("%d", itemIdx)
			}
			u := &types.Unit{
				ID:              currentParent + ".item-" + label,
				Type:            types.UnitAnnexItem,
				Ref:             ref,
				Text:            text,
				ParentID:        currentParent,
				AnnexNumber:     annexNum,
				AnnexPart:       currentPart,
				IsAmendmentText: quoted,
			}
			p.addUnit(u)
			return u
		}

		div.Children().Each(func(_ int, child *goquery.Selection) {
			node := child.Get(0)
			switch {
			case node.Data == "p" && child.HasClass("oj-ti-grseq-1"):
				text := markup.Text(child)
				if strings.HasPrefix(strings.ToLower(text), "part ") {
					if m := partLetterRe.FindStringSubmatch(text); m != nil {
						currentPart = strings.ToUpper(m[1])
						part := &types.Unit{
							ID:          annexID + ".part-" + currentPart,
							Type:        types.UnitAnnexPart,
							Ref:         "Part " + currentPart,
							Text:        text,
							ParentID:    annexID,
							AnnexNumber: annexNum,
							AnnexPart:   currentPart,
						}
						p.addUnit(part)
						currentParent = part.ID
					}
				}

			case node.Data == "table" && markup.IsListTable(child):
				rows := child.ChildrenFiltered("tbody").ChildrenFiltered("tr")
				if rows.Length() == 0 {
					rows = child.ChildrenFiltered("tr")
				}
				rows.Each(func(_ int, tr *goquery.Selection) {
					cells := tr.ChildrenFiltered("td")
					if cells.Length() < 2 {
						return
					}
					rawLabel := markup.Text(cells.Eq(0).ChildrenFiltered("p").First())
					if rawLabel == "" {
						rawLabel = markup.Text(cells.Eq(0))
					}
					label, _, quoted := markup.NormalizeLabel(rawLabel)
					if label == "" {
						return
					}
					item := emitItem(markup.CellText(cells.Eq(1), true), rawLabel, label, quoted)
					var nested []*goquery.Selection
					cells.Eq(1).ChildrenFiltered("table").Each(func(_ int, t *goquery.Selection) {
						nested = append(nested, t)
					})
					if len(nested) > 0 {
						p.parsePointTables(nested, item.ID, "", annexNum, 1, quoted)
					}
				})

			case node.Data == "table":
				child.Find("td").Each(func(_ int, td *goquery.Selection) {
					emitted := false
					td.ChildrenFiltered("p").Each(func(_ int, sel *goquery.Selection) {
						if text := markup.Text(sel); len(text) >= 5 {
							emitted = true
							emitItem(text, "", "", false)
						}
					})
					if emitted {
						return
					}
					clone := td.Clone()
					clone.Find("p, figure, table, div").Remove()
					if residue := markup.Text(clone); len(residue) >= 5 {
						emitItem(residue, "", "", false)
					}
				})

			case node.Data == "p":
				if child.HasClass("oj-doc-ti") || child.HasClass("oj-ti-grseq-1") {
					return
				}
				if text := markup.Text(child); len(text) >= 5 {
					emitItem(text, "", "", false)
				}

			case node.Data == "div" && child.HasClass("oj-enumeration-spacing"):
				if text := markup.Text(child); len(text) >= 5 {
					emitItem(text, "", "", false)
				}
			}
		})
	})
}
