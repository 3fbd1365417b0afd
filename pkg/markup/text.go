package markup

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

var (
	whitespaceRe  = regexp.MustCompile(`\s+`)
	leadingNumRe  = regexp.MustCompile(`(?s)^(\d+)\.\s+(.*)$`)
	superNoteRe   = regexp.MustCompile(`^[*]?\d+$`)
	colWidthPctRe = regexp.MustCompile(`(\d+)\s*%`)
)

// NormalizeText collapses runs of whitespace to single spaces and
// trims the result.
func NormalizeText(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

// StripLeadingLabel splits a leading "N. " paragraph marker off the
// text. label is empty when no marker is present.
func StripLeadingLabel(s string) (text, label string) {
	if m := leadingNumRe.FindStringSubmatch(s); m != nil {
		return strings.TrimSpace(m[2]), m[1]
	}
	return s, ""
}

// Text extracts the selection's text with a space between adjacent
// text nodes, whitespace-normalized. goquery's own Text() concatenates
// nodes without separators, which glues words together across tags.
func Text(sel *goquery.Selection) string {
	var parts []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				parts = append(parts, t)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range sel.Nodes {
		walk(n)
	}
	return NormalizeText(strings.Join(parts, " "))
}

// RemoveNoteTags strips footnote anchors and superscript note markers
// in place: anchors to #ntr/#ntc targets, anchors with note classes,
// oj-note-tag spans and numeric oj-super spans.
func RemoveNoteTags(sel *goquery.Selection) {
	sel.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		if strings.Contains(href, "#ntr") || strings.Contains(href, "#ntc") {
			a.Remove()
			return
		}
		if class, ok := a.Attr("class"); ok && strings.Contains(class, "note") {
			a.Remove()
		}
	})
	sel.Find("span.oj-note-tag").Remove()
	sel.Find("span.oj-super").Each(func(_ int, span *goquery.Selection) {
		if superNoteRe.MatchString(strings.TrimSpace(span.Text())) {
			span.Remove()
		}
	})
}

// IsListTable reports whether a table is a two-column list-table with
// the label in the narrow left column, the structure EUR-Lex uses for
// points and indents. Wide first columns and first cells that do not
// normalize to a known label kind disqualify it.
func IsListTable(table *goquery.Selection) bool {
	cols := table.ChildrenFiltered("col")
	if cols.Length() == 0 {
		cols = table.ChildrenFiltered("colgroup").ChildrenFiltered("col")
	}
	hasCols := cols.Length() == 2

	if hasCols {
		if width, ok := cols.First().Attr("width"); ok {
			if m := colWidthPctRe.FindStringSubmatch(width); m != nil {
				if pct, err := strconv.Atoi(m[1]); err == nil && pct > 15 {
					return false
				}
			}
		}
	}

	firstRow := table.ChildrenFiltered("tbody").ChildrenFiltered("tr").First()
	if firstRow.Length() == 0 {
		firstRow = table.ChildrenFiltered("tr").First()
	}
	if firstRow.Length() == 0 {
		return false
	}

	tds := firstRow.ChildrenFiltered("td")
	if !hasCols && tds.Length() != 2 {
		return false
	}
	firstTD := tds.First()
	if firstTD.Length() == 0 {
		return false
	}

	text := Text(firstTD.ChildrenFiltered("p").First())
	if text == "" {
		text = Text(firstTD)
	}
	if len([]rune(text)) > 15 {
		return false
	}
	_, kind, _ := NormalizeLabel(text)
	return kind != KindUnknown
}

// CellText extracts text from a table cell. With excludeNested set,
// only direct paragraphs before the first nested table are used, and
// when the cell holds nested structure only the first paragraph is
// taken; if nothing qualifies, nested tables are dropped and the
// remaining text returned.
func CellText(cell *goquery.Selection, excludeNested bool) string {
	clone := cell.Clone()
	RemoveNoteTags(clone)

	if excludeNested {
		hasNested := clone.ChildrenFiltered("table").Length() > 0 ||
			clone.ChildrenFiltered("div").Length() > 0
		var parts []string
	scan:
		for _, n := range clone.Contents().Nodes {
			switch {
			case n.Type == html.TextNode:
				if t := strings.TrimSpace(n.Data); t != "" {
					parts = append(parts, t)
				}
			case n.Type == html.ElementNode && n.Data == "table":
				break scan
			case n.Type == html.ElementNode && n.Data == "p":
				p := newSelection(clone, n)
				if class, ok := p.Attr("class"); ok && strings.Contains(class, "oj-note") {
					continue
				}
				if t := Text(p); t != "" {
					parts = append(parts, t)
					if hasNested {
						break scan
					}
				}
			}
		}
		if len(parts) > 0 {
			return NormalizeText(strings.Join(parts, " "))
		}
		clone.Find("table").Remove()
		return Text(clone)
	}

	paragraphs := clone.ChildrenFiltered("p")
	if paragraphs.Length() > 0 {
		var parts []string
		paragraphs.Each(func(_ int, p *goquery.Selection) {
			if t := Text(p); t != "" {
				parts = append(parts, t)
			}
		})
		return NormalizeText(strings.Join(parts, " "))
	}
	return Text(clone)
}

// newSelection wraps a raw node in a selection bound to the same
// document as ref.
func newSelection(ref *goquery.Selection, n *html.Node) *goquery.Selection {
	sel := ref.Slice(0, 0)
	return sel.AddNodes(n)
}
