// Package parser turns EUR-Lex HTML into a flat list of structural
// units. Two markup dialects are handled: the Official Journal layout
// and the consolidated layout, which the parser detects from the
// markup itself.
package parser

import (
	"fmt"
	"io"
	"regexp"

	"github.com/PuerkitoBio/goquery"
	"github.com/pkg/errors"

	"github.com/coolbeans/lexunit/pkg/citation"
	"github.com/coolbeans/lexunit/pkg/enrich"
	"github.com/coolbeans/lexunit/pkg/types"
)

// Source markup dialects.
const (
	FormatOJ           = "oj"
	FormatConsolidated = "consolidated"
)

// maxPointDepth caps recursion into nested list structures.
const maxPointDepth = 10

var (
	paragraphDivIDRe = regexp.MustCompile(`^\d{3}\.\d{3}$`)
	articleNumRe     = regexp.MustCompile(`(?i)Article\s+(\d+[a-z]?)`)
	amendSubtitleRe  = regexp.MustCompile(`(?i)Amendments?\s+to\b|Amendment\s+of\b`)
	recitalLabelRe   = regexp.MustCompile(`\((\d+)\)`)
	trailingNumRe    = regexp.MustCompile(`\.(\d+)$`)
	annexNumberRe    = regexp.MustCompile(`(?i)^ANNEX\s+([IVXLC]+|\d+)`)
	partLetterRe     = regexp.MustCompile(`(?i)Part\s+([A-Z])`)
)

// Parser carries the walk state for one document.
type Parser struct {
	doc        *goquery.Document
	sourceFile string
	format     string
	units      []*types.Unit
	seen       map[string]bool
	byID       map[string]*types.Unit
	report     *types.ValidationReport
}

// Parse reads EUR-Lex HTML and returns the unit list together with
// the validation report and document metadata. The units are fully
// enriched and their citations extracted and resolved.
func Parse(r io.Reader, sourceFile string) (*types.ParseResult, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "reading document")
	}
	p := &Parser{
		doc:        doc,
		sourceFile: sourceFile,
		seen:       make(map[string]bool),
		byID:       make(map[string]*types.Unit),
		report:     types.NewValidationReport(),
	}
	p.report.SourceFile = sourceFile
	p.format = p.detectFormat()
	p.countExpected()

	p.parseDocumentTitle()
	p.parseRecitals()
	if p.format == FormatConsolidated {
		p.parseConsolidatedArticles()
	} else {
		p.parseArticles()
	}
	p.parseAnnexes()

	p.countParsed()
	p.validate()

	enrich.Apply(p.units)
	citation.ExtractAll(p.units)
	citation.Resolve(p.units)

	return &types.ParseResult{
		SourceFile: sourceFile,
		Format:     p.format,
		Units:      p.units,
		Report:     p.report,
		Metadata:   enrich.Metadata(p.units),
	}, nil
}

// addUnit registers a unit, renaming its id with a numeric suffix when
// the id is already taken. Callers read the final id back from u.ID.
func (p *Parser) addUnit(u *types.Unit) {
	id := u.ID
	suffix := 1
	for p.seen[id] {
		id = fmt.Sprintf("%s_%d", u.ID, suffix)
		suffix++
	}
	u.ID = id
	if u.SourceFile == "" {
		u.SourceFile = p.sourceFile
	}
	p.seen[id] = true
	p.byID[id] = u
	p.units = append(p.units, u)
}

func (p *Parser) parentType(parentID string) types.UnitType {
	if parent, ok := p.byID[parentID]; ok {
		return parent.Type
	}
	return types.UnitParagraph
}

func (p *Parser) detectFormat() string {
	if p.doc.Find("p.title-article-norm").Length() > 0 || p.doc.Find("div.grid-container").Length() > 0 {
		return FormatConsolidated
	}
	return FormatOJ
}

func (p *Parser) countExpected() {
	exp := p.report.CountsExpected
	exp["recitals"] = p.doc.Find(`div.eli-subdivision[id^="rct_"]`).Length()
	if p.format == FormatConsolidated {
		exp["articles"] = p.doc.Find("p.title-article-norm").Length()
	} else {
		exp["articles"] = p.doc.Find(`div[id^="art_"]`).Length()
	}
	exp["annexes"] = p.doc.Find(`div[id^="anx_"]`).Length()
}

func (p *Parser) countParsed() {
	parsed := p.report.CountsParsed
	parsed["recitals"] = 0
	parsed["articles"] = 0
	parsed["annexes"] = 0
	for _, u := range p.units {
		switch u.Type {
		case types.UnitRecital:
			parsed["recitals"]++
		case types.UnitArticle:
			parsed["articles"]++
		case types.UnitAnnex:
			parsed["annexes"]++
		}
	}
}

// childTypeForDepth maps a list nesting depth to the unit type at that
// depth: points, then subpoints, then subsubpoints, then nested_N.
func childTypeForDepth(depth int) types.UnitType {
	switch depth {
	case 0:
		return types.UnitPoint
	case 1:
		return types.UnitSubpoint
	case 2:
		return types.UnitSubsubpoint
	}
	return types.NestedType(depth)
}

func idPrefixForDepth(depth int) string {
	switch depth {
	case 0:
		return "pt"
	case 1:
		return "sub"
	case 2:
		return "subsub"
	}
	return fmt.Sprintf("n%d", depth)
}

var romanOnes = []string{"", "I", "II", "III", "IV", "V", "VI", "VII", "VIII", "IX"}
var romanTens = []string{"", "X", "XX", "XXX", "XL", "L", "LX", "LXX", "LXXX", "XC"}

func intToRoman(n int) string {
	if n <= 0 || n >= 100 {
		return fmt.Sprintf("%d", n)
	}
	return romanTens[n/10] + romanOnes[n%10]
}
