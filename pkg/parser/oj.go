package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/coolbeans/lexunit/pkg/markup"
	"github.com/coolbeans/lexunit/pkg/types"
)

var relevanceNoteRe = regexp.MustCompile(`(?i)^\(\s*Text with .* relevance\s*\)$`)

// parseDocumentTitle builds the single document_title unit from the
// title block. The "(Text with EEA relevance)" marker is dropped.
func (p *Parser) parseDocumentTitle() {
	block := p.doc.Find("div.eli-main-title").First()
	if block.Length() == 0 {
		block = p.doc.Find(`div[id^="tit_"]`).First()
	}
	if block.Length() == 0 {
		return
	}
	ps := block.Find("p.oj-doc-ti")
	if ps.Length() == 0 {
		ps = block.Find("p")
	}
	var parts []string
	ps.Each(func(_ int, sel *goquery.Selection) {
		t := markup.Text(sel)
		if t == "" || relevanceNoteRe.MatchString(t) {
			return
		}
		parts = append(parts, t)
	})
	text := strings.Join(parts, " ")
	if text == "" {
		return
	}
	p.addUnit(&types.Unit{
		ID:       "document-title",
		Type:     types.UnitDocumentTitle,
		Text:     text,
		SourceID: block.AttrOr("id", ""),
	})
}

// parseRecitals walks the recital subdivisions. Most recitals are a
// two-column list-table with the "(N)" label on the left; one unit is
// emitted per row, and the label number wins over the running count.
func (p *Parser) parseRecitals() {
	seq := 0
	p.doc.Find(`div.eli-subdivision[id^="rct_"]`).Each(func(_ int, div *goquery.Selection) {
		sourceID := div.AttrOr("id", "")

		table := div.Find("table").First()
		if table.Length() > 0 && markup.IsListTable(table) {
			table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
				cells := tr.ChildrenFiltered("td")
				if cells.Length() < 2 {
					return
				}
				text := markup.CellText(cells.Eq(1), false)
				if strings.TrimSpace(text) == "" {
					return
				}
				seq++
				num := strconv.Itoa(seq)
				label := strings.TrimSpace(markup.CellText(cells.Eq(0), false))
				if m := recitalLabelRe.FindStringSubmatch(label); m != nil {
					num = m[1]
				}
				p.addUnit(&types.Unit{
					ID:            "rct-" + num,
					Type:          types.UnitRecital,
					Ref:           label,
					Text:          text,
					RecitalNumber: num,
					SourceID:      sourceID,
				})
			})
			return
		}

		var parts []string
		div.Find("p.oj-normal").Each(func(_ int, sel *goquery.Selection) {
			t, _ := markup.StripLeadingLabel(cleanText(sel))
			if t != "" {
				parts = append(parts, t)
			}
		})
		text := strings.Join(parts, " ")
		if strings.TrimSpace(text) == "" {
			return
		}
		seq++
		num := strconv.Itoa(seq)
		p.addUnit(&types.Unit{
			ID:            "rct-" + num,
			Type:          types.UnitRecital,
			Ref:           "(" + num + ")",
			Text:          text,
			RecitalNumber: num,
			SourceID:      sourceID,
		})
	})
}

// cleanText extracts a selection's text with footnote markers removed.
// The selection is cloned first; note stripping mutates the tree.
func cleanText(sel *goquery.Selection) string {
	clone := sel.Clone()
	markup.RemoveNoteTags(clone)
	return markup.Text(clone)
}

// parseArticles walks the OJ article subdivisions. Articles amending
// another act are handed to the quoted-text walker; their content
// describes changes to a different document.
func (p *Parser) parseArticles() {
	p.doc.Find(`div[id^="art_"]`).Each(func(_ int, div *goquery.Selection) {
		sourceID := div.AttrOr("id", "")
		titleText := markup.Text(div.Find("p.oj-ti-art").First())
		artNum := ""
		if m := articleNumRe.FindStringSubmatch(titleText); m != nil {
			artNum = strings.ToLower(m[1])
		}
		if artNum == "" {
			artNum = strings.TrimPrefix(sourceID, "art_")
		}
		heading := markup.Text(div.Find("div.eli-title p.oj-sti-art").First())
		if heading == "" {
			heading = markup.Text(div.Find("p.oj-sti-art").First())
		}

		amending := amendSubtitleRe.MatchString(heading)
		if !amending {
			first := strings.ToLower(markup.Text(div.Find("p.oj-normal").First()))
			if len(first) > 200 {
				first = first[:200]
			}
			if strings.Contains(first, "is amended as follows") || strings.Contains(first, "are amended as follows") {
				amending = true
			}
		}

		artID := "art-" + artNum
		art := &types.Unit{
			ID:            artID,
			Type:          types.UnitArticle,
			Ref:           titleText,
			Heading:       heading,
			ArticleNumber: artNum,
			SourceID:      sourceID,
		}
		p.addUnit(art)
		artID = art.ID

		if amending {
			p.parseAmendingArticle(div, artID, artNum)
			return
		}

		parDivs := div.ChildrenFiltered("div").FilterFunction(func(_ int, d *goquery.Selection) bool {
			return paragraphDivIDRe.MatchString(d.AttrOr("id", ""))
		})
		if parDivs.Length() > 0 {
			parDivs.Each(func(i int, d *goquery.Selection) {
				p.parseParagraphDiv(d, artID, artNum, i)
			})
		} else {
			p.parseArticleDirectContent(div, artID, artNum)
		}
	})
}

// paragraphWalk holds the per-paragraph-division state: the paragraph
// unit being built, the subparagraph counter and tables waiting for a
// parent to attach to.
type paragraphWalk struct {
	parID         string
	parNum        string
	currentParent string
	subparIdx     int
	pending       []*goquery.Selection
}

func (p *Parser) flushPending(w *paragraphWalk, artNum string) {
	if w.currentParent == "" || len(w.pending) == 0 {
		return
	}
	p.parsePointTables(w.pending, w.currentParent, artNum, "", 0, false)
	w.pending = nil
}

// parseParagraphDiv parses one numbered paragraph division. The first
// qualifying paragraph becomes the paragraph unit; later paragraphs
// and long bare text nodes become its subparagraphs; tables attach to
// whatever unit came last.
func (p *Parser) parseParagraphDiv(div *goquery.Selection, artID, artNum string, idx int) {
	w := &paragraphWalk{}
	p.walkParagraphNodes(div, w, artID, artNum, idx)

	if len(w.pending) > 0 {
		if w.currentParent == "" {
			num := idx + 1
			if m := trailingNumRe.FindStringSubmatch(div.AttrOr("id", "")); m != nil {
				if n, err := strconv.Atoi(m[1]); err == nil {
					num = n
				}
			}
			par := &types.Unit{
				ID:              fmt.Sprintf("%s.par-%d", artID, num),
				Type:            types.UnitParagraph,
				Ref:             fmt.Sprintf("%d.", num),
				ParentID:        artID,
				ArticleNumber:   artNum,
				ParagraphNumber: strconv.Itoa(num),
			}
			p.addUnit(par)
			w.parID = par.ID
			w.currentParent = par.ID
		}
		p.flushPending(w, artNum)
	}
}

func (p *Parser) walkParagraphNodes(div *goquery.Selection, w *paragraphWalk, artID, artNum string, idx int) {
	div.Contents().Each(func(_ int, sel *goquery.Selection) {
		n := sel.Get(0)
		switch {
		case n.Type == html.TextNode:
			t := markup.NormalizeText(n.Data)
			if len(t) >= 10 && w.parID != "" {
				w.subparIdx++
				sub := &types.Unit{
					ID:                fmt.Sprintf("%s.subpar-%d", w.parID, w.subparIdx),
					Type:              types.UnitSubparagraph,
					Text:              t,
					ParentID:          w.parID,
					ArticleNumber:     artNum,
					SubparagraphIndex: w.subparIdx,
				}
				p.addUnit(sub)
				w.currentParent = sub.ID
			}

		case n.Type == html.ElementNode && n.Data == "p":
			class := sel.AttrOr("class", "")
			if !strings.Contains(class, "oj-normal") && !strings.Contains(class, "oj-ti-tbl") && !strings.Contains(class, "oj-note") {
				return
			}
			p.flushPending(w, artNum)
			text := cleanText(sel)
			if text == "" {
				return
			}
			if w.parID == "" {
				stripped, label := markup.StripLeadingLabel(text)
				par := &types.Unit{
					Type:          types.UnitParagraph,
					Text:          stripped,
					ParentID:      artID,
					ArticleNumber: artNum,
					SourceID:      sel.AttrOr("id", ""),
				}
				if label != "" {
					par.ID = fmt.Sprintf("%s.par-%s", artID, label)
					par.ParagraphNumber = label
					par.Ref = label + "."
					w.parNum = label
				} else {
					par.ID = fmt.Sprintf("%s.par-%d", artID, idx+1)
					par.ParagraphIndex = idx + 1
				}
				p.addUnit(par)
				w.parID = par.ID
				w.currentParent = par.ID
			} else {
				w.subparIdx++
				sub := &types.Unit{
					ID:                fmt.Sprintf("%s.subpar-%d", w.parID, w.subparIdx),
					Type:              types.UnitSubparagraph,
					Text:              text,
					ParentID:          w.parID,
					ArticleNumber:     artNum,
					SourceID:          sel.AttrOr("id", ""),
					SubparagraphIndex: w.subparIdx,
				}
				p.addUnit(sub)
				w.currentParent = sub.ID
			}

		case n.Type == html.ElementNode && n.Data == "table":
			w.pending = append(w.pending, sel)

		case n.Type == html.ElementNode && n.Data == "div":
			class := sel.AttrOr("class", "")
			if sel.AttrOr("id", "") == "" && !strings.Contains(class, "eli-subdivision") && !strings.Contains(class, "eli-title") {
				p.walkParagraphNodes(sel, w, artID, artNum, idx)
			}
		}
	})
}

// parseArticleDirectContent handles articles without numbered
// paragraph divisions: all content hangs off a synthetic first
// paragraph.
func (p *Parser) parseArticleDirectContent(div *goquery.Selection, artID, artNum string) {
	w := &paragraphWalk{}
	div.Contents().Each(func(_ int, sel *goquery.Selection) {
		n := sel.Get(0)
		switch {
		case n.Type == html.TextNode:
			t := markup.NormalizeText(n.Data)
			if len(t) >= 10 && w.parID != "" {
				w.subparIdx++
				sub := &types.Unit{
					ID:                fmt.Sprintf("%s.subpar-%d", w.parID, w.subparIdx),
					Type:              types.UnitSubparagraph,
					Text:              t,
					ParentID:          w.parID,
					ArticleNumber:     artNum,
					SubparagraphIndex: w.subparIdx,
				}
				p.addUnit(sub)
				w.currentParent = sub.ID
			}

		case n.Type == html.ElementNode && n.Data == "p":
			class := sel.AttrOr("class", "")
			if strings.Contains(class, "oj-ti-art") || strings.Contains(class, "oj-sti-art") {
				return
			}
			p.flushPending(w, artNum)
			text := cleanText(sel)
			if text == "" {
				return
			}
			if w.parID == "" {
				par := &types.Unit{
					ID:             artID + ".par-1",
					Type:           types.UnitParagraph,
					Text:           text,
					ParentID:       artID,
					ArticleNumber:  artNum,
					ParagraphIndex: 1,
					SourceID:       sel.AttrOr("id", ""),
				}
				p.addUnit(par)
				w.parID = par.ID
				w.currentParent = par.ID
			} else {
				w.subparIdx++
				sub := &types.Unit{
					ID:                fmt.Sprintf("%s.subpar-%d", w.parID, w.subparIdx),
					Type:              types.UnitSubparagraph,
					Text:              text,
					ParentID:          w.parID,
					ArticleNumber:     artNum,
					SourceID:          sel.AttrOr("id", ""),
					SubparagraphIndex: w.subparIdx,
				}
				p.addUnit(sub)
				w.currentParent = sub.ID
			}

		case n.Type == html.ElementNode && n.Data == "table":
			w.pending = append(w.pending, sel)

		case n.Type == html.ElementNode && n.Data == "div":
			if strings.Contains(sel.AttrOr("class", ""), "eli-title") {
				return
			}
			sel.ChildrenFiltered("table").Each(func(_ int, t *goquery.Selection) {
				w.pending = append(w.pending, t)
			})
		}
	})
	if w.currentParent != "" {
		p.flushPending(w, artNum)
	}
}

// parseAmendingArticle flattens an amending article. Everything below
// the synthetic first paragraph is marked as amendment text, and
// repeated fragments (the markup often duplicates quoted passages) are
// dropped.
func (p *Parser) parseAmendingArticle(div *goquery.Selection, artID, artNum string) {
	parID := ""
	subparIdx := 0
	seenTexts := map[string]bool{}

	ensureParagraph := func() string {
		if parID == "" {
			par := &types.Unit{
				ID:              artID + ".par-1",
				Type:            types.UnitParagraph,
				ParentID:        artID,
				ArticleNumber:   artNum,
				ParagraphIndex:  1,
				IsAmendmentText: true,
			}
			p.addUnit(par)
			parID = par.ID
		}
		return parID
	}

	var walk func(root *goquery.Selection)
	walk = func(root *goquery.Selection) {
		root.Contents().Each(func(_ int, sel *goquery.Selection) {
			n := sel.Get(0)
			switch {
			case n.Type == html.TextNode:
				t := markup.NormalizeText(n.Data)
				if len(t) < 10 || seenTexts[t] {
					return
				}
				seenTexts[t] = true
				pid := ensureParagraph()
				subparIdx++
				p.addUnit(&types.Unit{
					ID:                fmt.Sprintf("%s.subpar-%d", pid, subparIdx),
					Type:              types.UnitSubparagraph,
					Text:              t,
					ParentID:          pid,
					ArticleNumber:     artNum,
					SubparagraphIndex: subparIdx,
					IsAmendmentText:   true,
				})

			case n.Type == html.ElementNode && n.Data == "p":
				class := sel.AttrOr("class", "")
				if strings.Contains(class, "oj-ti-art") || strings.Contains(class, "oj-sti-art") || strings.Contains(class, "oj-doc-ti") || strings.Contains(class, "oj-note") {
					return
				}
				text := cleanText(sel)
				if len(text) < 3 {
					return
				}
				stripped, label := markup.StripLeadingLabel(text)
				if seenTexts[stripped] {
					return
				}
				seenTexts[stripped] = true
				if parID == "" {
					par := &types.Unit{
						ID:              artID + ".par-1",
						Type:            types.UnitParagraph,
						Text:            stripped,
						ParentID:        artID,
						ArticleNumber:   artNum,
						ParagraphIndex:  1,
						IsAmendmentText: true,
						SourceID:        sel.AttrOr("id", ""),
					}
					if label != "" {
						par.Ref = label + "."
						par.ParagraphNumber = label
					}
					p.addUnit(par)
					parID = par.ID
				} else {
					subparIdx++
					p.addUnit(&types.Unit{
						ID:                fmt.Sprintf("%s.subpar-%d", parID, subparIdx),
						Type:              types.UnitSubparagraph,
						Text:              stripped,
						ParentID:          parID,
						ArticleNumber:     artNum,
						SubparagraphIndex: subparIdx,
						IsAmendmentText:   true,
						SourceID:          sel.AttrOr("id", ""),
					})
				}

			case n.Type == html.ElementNode && n.Data == "table":
				pid := ensureParagraph()
				if markup.IsListTable(sel) {
					p.parsePointTables([]*goquery.Selection{sel}, pid, artNum, "", 0, true)
				} else {
					p.extractNonListTable(sel, pid, artNum, "", true)
				}

			case n.Type == html.ElementNode && n.Data == "div":
				walk(sel)

			case n.Type == html.ElementNode && n.Data == "figure":
				// images and formulas carry no text content

			case n.Type == html.ElementNode:
				t := markup.Text(sel)
				if len(t) < 10 || seenTexts[t] {
					return
				}
				seenTexts[t] = true
				pid := ensureParagraph()
				subparIdx++
				p.addUnit(&types.Unit{
					ID:              fmt.Sprintf("%s.unk-%d", pid, subparIdx),
					Type:            types.UnitUnknown,
					Text:            t,
					ParentID:        pid,
					ArticleNumber:   artNum,
					IsAmendmentText: true,
				})
			}
		})
	}
	walk(div)
}
