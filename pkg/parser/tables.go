package parser

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/coolbeans/lexunit/pkg/markup"
	"github.com/coolbeans/lexunit/pkg/types"
)

// parsePointTables walks a run of list-tables holding points, indents
// or deeper rows, attaching each row as a child of parentID. Nested
// tables inside a row recurse one level deeper.
func (p *Parser) parsePointTables(tables []*goquery.Selection, parentID, artNum, annexNum string, depth int, isAmendment bool) {
	if depth >= maxPointDepth {
		return
	}
	for _, table := range tables {
		if !markup.IsListTable(table) {
			p.extractNonListTable(table, parentID, artNum, annexNum, isAmendment)
			continue
		}
		rows := table.ChildrenFiltered("tbody").ChildrenFiltered("tr")
		if rows.Length() == 0 {
			rows = table.ChildrenFiltered("tr")
		}
		rows.Each(func(_ int, tr *goquery.Selection) {
			cells := tr.ChildrenFiltered("td")
			if cells.Length() < 2 {
				return
			}
			labelCell := cells.Eq(0)
			rawLabel := markup.Text(labelCell.ChildrenFiltered("p").First())
			if rawLabel == "" {
				rawLabel = markup.Text(labelCell)
			}
			label, _, quoted := markup.NormalizeLabel(rawLabel)
			if label == "" {
				return
			}

			unit := &types.Unit{
				ID:              fmt.Sprintf("%s.%s-%s", parentID, idPrefixForDepth(depth), label),
				Type:            childTypeForDepth(depth),
				Ref:             rawLabel,
				Text:            markup.CellText(cells.Eq(1), true),
				ParentID:        parentID,
				ArticleNumber:   artNum,
				AnnexNumber:     annexNum,
				IsAmendmentText: isAmendment || quoted,
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
			unitID := unit.ID

			contentCell := cells.Eq(1)
			var nested []*goquery.Selection
			contentCell.ChildrenFiltered("table").Each(func(_ int, t *goquery.Selection) {
				nested = append(nested, t)
			})
			if len(nested) > 0 {
				p.parsePointTables(nested, unitID, artNum, annexNum, depth+1, unit.IsAmendmentText)
			}

			p.extractRowContinuations(contentCell, unitID, artNum, annexNum, depth, unit.IsAmendmentText)
		})
	}
}

// extractRowContinuations picks up the text a list row carries beyond
// its first paragraph and its nested tables: follow-on paragraphs,
// paragraphs wrapped in plain divs, and whatever text remains once the
// structured children are removed.
func (p *Parser) extractRowContinuations(cell *goquery.Selection, unitID, artNum, annexNum string, depth int, isAmendment bool) {
	childType := childTypeForDepth(depth + 1)
	contIdx := 0

	cell.ChildrenFiltered("p").Each(func(i int, sel *goquery.Selection) {
		if i == 0 {
			return
		}
		text := markup.Text(sel)
		if len(text) < 3 {
			return
		}
		contIdx++
		p.addUnit(&types.Unit{
			ID:              fmt.Sprintf("%s.cont-%d", unitID, contIdx),
			Type:            childType,
			Text:            text,
			ParentID:        unitID,
			ArticleNumber:   artNum,
			AnnexNumber:     annexNum,
			IsAmendmentText: isAmendment,
		})
	})

	divIdx := 0
	cell.ChildrenFiltered("div").Each(func(_ int, div *goquery.Selection) {
		div.ChildrenFiltered("p").Each(func(_ int, sel *goquery.Selection) {
			class := sel.AttrOr("class", "")
			if strings.Contains(class, "oj-ti-art") || strings.Contains(class, "oj-sti-art") {
				return
			}
			text := markup.Text(sel)
			if len(text) < 10 {
				return
			}
			divIdx++
			p.addUnit(&types.Unit{
				ID:              fmt.Sprintf("%s.div-%d", unitID, divIdx),
				Type:            childType,
				Text:            text,
				ParentID:        unitID,
				ArticleNumber:   artNum,
				AnnexNumber:     annexNum,
				IsAmendmentText: isAmendment,
			})
		})
	})

	clone := cell.Clone()
	clone.Find("p, figure, table, div").Remove()
	if residue := markup.Text(clone); len(residue) >= 10 {
		p.addUnit(&types.Unit{
			ID:              unitID + ".bare-1",
			Type:            childType,
			Text:            residue,
			ParentID:        unitID,
			ArticleNumber:   artNum,
			AnnexNumber:     annexNum,
			IsAmendmentText: isAmendment,
		})
	}
}

// nonListChildType picks the unit type for cells of a layout table
// from the type of the unit the table hangs under.
var nonListChildType = map[types.UnitType]types.UnitType{
	types.UnitParagraph:    types.UnitSubparagraph,
	types.UnitSubparagraph: types.UnitPoint,
	types.UnitArticle:      types.UnitPoint,
	types.UnitPoint:        types.UnitSubpoint,
	types.UnitAnnexItem:    types.UnitSubpoint,
	types.UnitSubpoint:     types.UnitSubsubpoint,
	types.UnitSubsubpoint:  types.NestedType(3),
}

// extractNonListTable salvages the text of a layout table that is not
// a point list: every cell's direct paragraphs become children of
// parentID in reading order.
func (p *Parser) extractNonListTable(table *goquery.Selection, parentID, artNum, annexNum string, isAmendment bool) {
	childType, ok := nonListChildType[p.parentType(parentID)]
	if !ok {
		if d, isNested := types.NestedDepth(p.parentType(parentID)); isNested {
			childType = types.NestedType(d + 1)
		} else {
			childType = types.UnitSubparagraph
		}
	}

	idx := 0
	table.Find("td").Each(func(_ int, td *goquery.Selection) {
		emitted := false
		td.ChildrenFiltered("p").Each(func(_ int, sel *goquery.Selection) {
			text := markup.Text(sel)
			if len(text) < 10 {
				return
			}
			idx++
			emitted = true
			u := &types.Unit{
				ID:              fmt.Sprintf("%s.tbl-%d", parentID, idx),
				Type:            childType,
				Text:            text,
				ParentID:        parentID,
				ArticleNumber:   artNum,
				AnnexNumber:     annexNum,
				IsAmendmentText: isAmendment,
			}
			if childType == types.UnitSubparagraph {
				u.SubparagraphIndex = idx
			}
			p.addUnit(u)
		})
		if emitted {
			return
		}
		clone := td.Clone()
		clone.Find("p, figure, table, div").Remove()
		if residue := markup.Text(clone); len(residue) >= 10 {
			idx++
			u := &types.Unit{
				ID:              fmt.Sprintf("%s.tbl-%d", parentID, idx),
				Type:            childType,
				Text:            residue,
				ParentID:        parentID,
				ArticleNumber:   artNum,
				AnnexNumber:     annexNum,
				IsAmendmentText: isAmendment,
			}
			if childType == types.UnitSubparagraph {
				u.SubparagraphIndex = idx
			}
			p.addUnit(u)
		}
	})
}
