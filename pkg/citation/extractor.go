// Package citation finds references to articles, paragraphs, points,
// annexes, treaties and other EU acts in unit text, and resolves
// internal references to unit ids using the surrounding document.
package citation

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/coolbeans/lexunit/pkg/types"
)

// Pattern fragments shared by several matchers.
const (
	ordWords = `first|second|third|fourth|fifth|sixth|seventh|eighth|ninth|tenth`

	actPrefix = `(?:Council\s+|Commission\s+|European\s+Parliament\s+and\s+(?:of\s+the\s+)?Council\s+|Delegated\s+|Implementing\s+|Framework\s+)*`
	actFull   = actPrefix + `(?:Regulations?|Directives?|Decisions?)\s+(?:\((?:EU|EC|EEC|Euratom)\)\s+)?(?:No\s+)?\d{2,4}/\d+(?:/(?:EU|EC|EEC|Euratom|JHA|CFSP))?`
	actShort  = `\((?:EU|EC|EEC|Euratom)\)\s+(?:No\s+)?\d{2,4}/\d+(?:/(?:EU|EC|EEC|Euratom|JHA|CFSP))?`
	actList   = actFull + `(?:(?:\s*,\s*|\s*,?\s+and\s+|\s+or\s+)` + actShort + `)*`

	// One article token inside an enumeration attached to an external
	// act: "6(1)(c)", "2, point (10),", "108, second paragraph,",
	// "7(4)(b) and (5)".
	artItem = `\d+[a-z]?(?:\s?\(\d+\))?(?:\s?\([a-z0-9]+\))?` +
		`(?:,\s*points?\s+\(?[a-z0-9]+\)?\s*,?)?` +
		`(?:,?\s*(?:` + ordWords + `)\s+paragraph\s*,?)?` +
		`(?:\s+and\s+\(\d+\)(?:\s?\([a-z0-9]+\))?)?`
	artSep   = `(?:\s*,\s*(?:and\s+|or\s+)?|\s+and\s+|\s+or\s+|\s+to\s+)(?:Articles?\s+)?`
	artItems = artItem + `(?:` + artSep + artItem + `)*`
)

// actListItemRe tokenizes an act list. The first alternative is a full
// act name; the second a short continuation like "(EU) No 1094/2010"
// that inherits the kind of the act before it.
var actListItemRe = regexp.MustCompile(`(?i)(?:(?P<kind>Regulations?|Directives?|Decisions?)\s+(?:\((?:EU|EC|EEC|Euratom)\)\s+)?(?:No\s+)?(?P<y1>\d{2,4})/(?P<n1>\d+)(?:/(?P<suf1>EU|EC|EEC|Euratom|JHA|CFSP))?|\((?:EU|EC|EEC|Euratom)\)\s+(?:No\s+)?(?P<y2>\d{2,4})/(?P<n2>\d+)(?:/(?P<suf2>EU|EC|EEC|Euratom|JHA|CFSP))?)`)

var (
	artItemParseRe = regexp.MustCompile(`(?i)^(?P<num>\d+)(?P<alpha>[a-z])?(?:\s?\((?P<par>\d+)\))?(?:\s?\((?P<pt>[a-z0-9]+)\))?(?:,\s*points?\s+\(?(?P<cpt>[a-z0-9]+)\)?\s*,?)?(?:,?\s*(?P<ordpar>` + ordWords + `)\s+paragraph\s*,?)?(?:\s+and\s+\((?P<par2>\d+)\)(?:\s?\((?P<pt2>[a-z0-9]+)\))?)?`)
	artItemSepRe   = regexp.MustCompile(`(?i)^(?:\s*,\s*(?:and\s+|or\s+)?|\s+and\s+|\s+or\s+|\s+(?P<to>to)\s+)(?:Articles?\s+)?`)
	enumItemRe     = regexp.MustCompile(`(?i)(\d+)([a-z]?)(?:\s?\((\d+)\))?`)
	parenLabelRe   = regexp.MustCompile(`(?i)\(([a-z0-9]+)\)`)
	numberRe       = regexp.MustCompile(`\d+`)
	romanItemRe    = regexp.MustCompile(`(?i)[IVXLC]+`)
)

// connectivePhrases link a reference to the obligation around it. The
// longest phrase ending right before the citation wins.
var connectivePhrases = []string{
	"by way of derogation from",
	"within the meaning of",
	"as referred to in",
	"for the purposes of",
	"in accordance with",
	"provided for in",
	"as laid down in",
	"as required by",
	"as provided in",
	"as set out in",
	"as defined in",
	"referred to in",
	"laid down in",
	"set out in",
	"pursuant to",
	"subject to",
	"defined in",
}

type match struct {
	raw        string
	start, end int
	group      map[string]string
}

type builder func(m *match) []*types.Citation

type pattern struct {
	re    *regexp.Regexp
	build builder
}

// Extractor scans unit text with an ordered pattern cascade. Earlier
// patterns are more specific; a match claims its span and later
// patterns cannot re-match inside it.
type Extractor struct {
	patterns []pattern
}

// NewExtractor compiles the pattern cascade.
func NewExtractor() *Extractor {
	e := &Extractor{}
	add := func(expr string, b builder) {
		e.patterns = append(e.patterns, pattern{re: regexp.MustCompile(expr), build: b})
	}

	// External acts with an article part.
	// "point (b) of the first subparagraph of Article 36(1) of Regulation (EU) 2016/679"
	add(`(?i)\bpoint\s+\((?P<pt>[a-z0-9]+)\)\s+of\s+(?:the\s+(?P<ord>`+ordWords+`)\s+subparagraph\s+of\s+)?Article\s+(?P<art>\d+[a-z]?)(?:\s?\((?P<par>\d+)\))?\s+of\s+(?P<acts>`+actList+`)`, e.buildExternalPointFirst)
	// "Articles 10 and 14(1) of Regulation (EU) 2017/2402",
	// "Article 16 of Regulations (EU) No 1093/2010, (EU) No 1094/2010 and (EU) No 1095/2010"
	add(`(?i)\bArticles?\s+(?P<items>`+artItems+`)\s*,?\s+of\s+(?P<acts>`+actList+`)`, e.buildExternalArticles)
	// "Article 4 of that Directive" (act supplied by an antecedent)
	add(`(?i)\bArticle\s+(?P<art>\d+[a-z]?)(?:\s?\((?P<par>\d+)\))?(?:\s?\((?P<pt>[a-z0-9]+)\))?\s+of\s+that\s+(?P<kind>Regulation|Directive|Decision)\b`, e.buildArticleOfThatAct)
	// "Regulation (EU) 2016/679" standing alone
	add(`(?i)\b(?P<acts>`+actList+`)`, e.buildStandaloneActs)

	// Treaties and the Charter.
	// "Article 16(2) TFEU"
	add(`(?i)\bArticle\s+(?P<art>\d+[a-z]?)(?:\s?\((?P<par>\d+)\))?(?:\s?\((?P<pt>[a-z0-9]+)\))?\s+(?P<code>TFEU|TEU)\b`, e.buildTreatyArticle)
	add(`(?i)\bArticle\s+(?P<art>\d+[a-z]?)(?:\s?\((?P<par>\d+)\))?(?:\s?\((?P<pt>[a-z0-9]+)\))?\s+of\s+the\s+Treaty\s+on\s+the\s+Functioning\s+of\s+the\s+European\s+Union\b`, treatyArticleBuilder(types.TreatyTFEU))
	add(`(?i)\bArticle\s+(?P<art>\d+[a-z]?)(?:\s?\((?P<par>\d+)\))?(?:\s?\((?P<pt>[a-z0-9]+)\))?\s+of\s+the\s+Treaty\s+on\s+European\s+Union\b`, treatyArticleBuilder(types.TreatyTEU))
	// "Article 8(1) of the Charter of Fundamental Rights of the European Union"
	add(`(?i)\bArticle\s+(?P<art>\d+[a-z]?)(?:\s?\((?P<par>\d+)\))?(?:\s?\((?P<pt>[a-z0-9]+)\))?\s+of\s+the\s+Charter(?:\s+of\s+Fundamental\s+Rights(?:\s+of\s+the\s+European\s+Union)?)?\b`, treatyArticleBuilder(types.TreatyCharter))
	add(`(?i)\bthe\s+Treaty\s+on\s+the\s+Functioning\s+of\s+the\s+European\s+Union\b`, treatyNameBuilder(types.TreatyTFEU))
	add(`(?i)\bthe\s+Treaty\s+on\s+European\s+Union\b`, treatyNameBuilder(types.TreatyTEU))
	add(`(?i)\bthe\s+Charter\s+of\s+Fundamental\s+Rights(?:\s+of\s+the\s+European\s+Union)?\b`, treatyNameBuilder(types.TreatyCharter))
	// "Protocol No 21"
	add(`(?i)\bProtocol\s+(?:No\s+)?(?P<num>\d+)\b`, treatyNameBuilder(types.TreatyProtocol))
	add(`(?i)\bthe\s+Treat(?:y|ies)\b`, treatyNameBuilder(types.TreatyGeneric))

	// Internal subparagraph and point combinations.
	// "point (a) of the first subparagraph of paragraph 2"
	add(`(?i)\bpoint\s+\((?P<pt>[a-z0-9]+)\)\s+of\s+the\s+(?P<ord>`+ordWords+`)\s+subparagraph\s+of\s+paragraph\s+(?P<par>\d+)\b`, e.buildSubparCombo)
	// "point (b) of the second subparagraph of Article 17(1)"
	add(`(?i)\bpoint\s+\((?P<pt>[a-z0-9]+)\)\s+of\s+the\s+(?P<ord>`+ordWords+`)\s+subparagraph\s+of\s+Article\s+(?P<art>\d+[a-z]?)(?:\s?\((?P<par>\d+)\))?`, e.buildSubparCombo)
	// "the first subparagraph, point (a)"
	add(`(?i)\bthe\s+(?P<ord>`+ordWords+`)\s+subparagraph\s*,\s*point\s+\((?P<pt>[a-z0-9]+)\)`, e.buildSubparCombo)
	// "the second subparagraph of paragraph 1"
	add(`(?i)\bthe\s+(?P<ord>`+ordWords+`)\s+subparagraph\s+of\s+paragraph\s+(?P<par>\d+)\b`, e.buildSubparCombo)
	// "the first and second subparagraphs"
	add(`(?i)\bthe\s+(?P<o1>`+ordWords+`)\s+and\s+(?P<o2>`+ordWords+`)\s+subparagraphs\b(?:\s+of\s+this\s+paragraph)?`, e.buildSubparPair)
	// "the first subparagraph"
	add(`(?i)\bthe\s+(?P<ord>`+ordWords+`)\s+subparagraph\b(?:\s+of\s+this\s+paragraph)?`, e.buildSubparCombo)

	// "paragraph 1 of this Article"
	add(`(?i)\bparagraphs?\s+(?P<par>\d+)\s+of\s+this\s+Article\b`, e.buildParagraphOfThisArticle)

	// Internal article forms.
	// "Article 2(1), points (a) to (d)"
	add(`(?i)\bArticle\s+(?P<art>\d+[a-z]?)(?:\s?\((?P<par>\d+)\))?\s*,\s*points\s+\((?P<p1>[a-z0-9]+)\)\s+to\s+\((?P<p2>[a-z0-9]+)\)`, e.buildArticlePointRange)
	// "Article 2(1), point (b)"
	add(`(?i)\bArticle\s+(?P<art>\d+[a-z]?)(?:\s?\((?P<par>\d+)\))?\s*,\s*point\s+\(?(?P<pt>[a-z0-9]+)\)?`, e.buildArticlePoint)
	// "point (b) of Article 2(1)"
	add(`(?i)\bpoint\s+\(?(?P<pt>[a-z0-9]+)\)?\s+of\s+Article\s+(?P<art>\d+[a-z]?)(?:\s?\((?P<par>\d+)\))?`, e.buildArticlePoint)
	// "Article 12(5) and (7)"
	add(`(?i)\bArticles?\s+(?P<art>\d+[a-z]?)\s?\((?P<par>\d+)\)(?:\s?\((?P<pt>[a-z0-9]+)\))?\s+and\s+\((?P<par2>\d+)\)(?:\s?\((?P<pt2>[a-z0-9]+)\))?`, e.buildArticleMultiParagraph)
	// "Articles 5 to 15"
	add(`(?i)\bArticles\s+(?P<a1>\d+)[a-z]?\s+to\s+(?P<a2>\d+)[a-z]?\b`, e.buildArticleRange)
	// "Articles 3, 5 and 6", "Article 43 or 44"
	add(`(?i)\bArticles?\s+(?P<items>\d+[a-z]?(?:\s?\(\d+\))?(?:(?:\s*,\s*|\s+and\s+|\s+or\s+)\d+[a-z]?(?:\s?\(\d+\))?)+)\b`, e.buildArticleEnum)
	// "Article 6a(1)"
	add(`(?i)\bArticle\s+(?P<art>\d+[a-z]?)(?:\s?\((?P<par>\d+)\))?(?:\s?\((?P<pt>[a-z0-9]+)\))?`, e.buildArticleSimple)

	// Bare point forms.
	// "points (a) to (d)"
	add(`(?i)\bpoints\s+\((?P<p1>[a-z0-9]+)\)\s+to\s+\((?P<p2>[a-z0-9]+)\)`, e.buildPointRange)
	// "points (a), (b) and (c)"
	add(`(?i)\bpoints?\s+\((?P<first>[a-z0-9]+)\)(?P<rest>(?:(?:\s*,\s*|\s+and\s+|\s+or\s+)\([a-z0-9]+\))*)`, e.buildPointEnum)

	// Paragraph forms.
	// "paragraphs 2 to 4"
	add(`(?i)\bparagraphs\s+(?P<p1>\d+)\s+to\s+(?P<p2>\d+)\b`, e.buildParagraphRange)
	// "paragraphs 1, 2 or 3"
	add(`(?i)\bparagraphs\s+(?P<items>\d+(?:(?:\s*,\s*|\s+and\s+|\s+or\s+)\d+)+)\b`, e.buildParagraphEnum)
	// "paragraph 3"
	add(`(?i)\bparagraphs?\s+(?P<par>\d+)\b`, e.buildParagraphSimple)

	// Structural divisions.
	add(`(?i)\bthis\s+Chapter\b`, e.buildThisChapter)
	add(`(?i)\bChapter\s+(?P<num>[IVXLC]+|\d+)\b`, e.buildChapter)
	// "Section A of Annex I"
	add(`(?i)\bSection\s+(?P<sec>[A-Z0-9]+)\s+of\s+Annex\s+(?P<annex>[IVXLC]+|\d+)\b`, e.buildSectionOfAnnex)
	add(`(?i)\bSection\s+(?P<sec>[IVXLC]+|[A-Z]|\d+)\b`, e.buildSection)
	add(`(?i)\bTitle\s+(?P<num>[IVXLC]+)\b`, e.buildTitle)
	// "Annexes II and III"
	add(`(?i)\bAnnexes\s+(?P<items>[IVXLC]+(?:(?:\s*,\s*|\s+and\s+|\s+or\s+)[IVXLC]+)+)\b`, e.buildAnnexEnum)
	// "Annex VI, Part A"
	add(`(?i)\bAnnex\s+(?P<annex>[IVXLC]+|\d+)\s*,\s*Part\s+(?P<part>[A-Z])\b`, e.buildAnnexWithPart)
	add(`(?i)\bAnnex\s+(?P<annex>[IVXLC]+|\d+)\b`, e.buildAnnexSimple)
	// "Part A" inside an annex; resolved against the enclosing annex.
	add(`\bPart\s+(?P<part>[A-Z])\b`, e.buildPartBare)

	// "that Directive" with no article part.
	add(`(?i)\bthat\s+(?P<kind>Regulation|Directive|Decision)\b`, e.buildThatActBare)
	// "this Regulation", "this paragraph"
	add(`(?i)\bthis\s+(?:Regulation|Directive|Decision|Article|paragraph|Annex)\b`, e.buildRelative)
	add(`(?i)\bthereof\b`, e.buildRelative)

	return e
}

type span struct{ start, end int }

func overlaps(spans []span, start, end int) bool {
	for _, s := range spans {
		if start < s.end && end > s.start {
			return true
		}
	}
	return false
}

// Extract runs the cascade over text and returns citations ordered by
// span start. Citations split out of a single construct, such as an
// article enumeration, share that construct's span.
func (e *Extractor) Extract(text string) []*types.Citation {
	var consumed []span
	var out []*types.Citation

	for _, p := range e.patterns {
		locs := p.re.FindAllStringSubmatchIndex(text, -1)
		sort.SliceStable(locs, func(i, j int) bool {
			li, lj := locs[i][1]-locs[i][0], locs[j][1]-locs[j][0]
			if li != lj {
				return li > lj
			}
			return locs[i][0] < locs[j][0]
		})
		for _, loc := range locs {
			if overlaps(consumed, loc[0], loc[1]) {
				continue
			}
			cits := p.build(newMatch(p.re, text, loc))
			if len(cits) == 0 {
				continue
			}
			consumed = append(consumed, span{loc[0], loc[1]})
			out = append(out, cits...)
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].SpanStart < out[j].SpanStart })
	for _, c := range out {
		c.ConnectivePhrase = connectiveBefore(text, c.SpanStart)
	}
	return out
}

// ExtractAll annotates every unit with the citations found in its
// text. Quoted amendment text is skipped: its references belong to the
// amended act, not this one.
func ExtractAll(units []*types.Unit) {
	e := NewExtractor()
	for _, u := range units {
		if u.IsAmendmentText || strings.TrimSpace(u.Text) == "" {
			continue
		}
		u.Citations = e.Extract(u.Text)
	}
}

func newMatch(re *regexp.Regexp, text string, loc []int) *match {
	m := &match{raw: text[loc[0]:loc[1]], start: loc[0], end: loc[1], group: make(map[string]string)}
	for i, name := range re.SubexpNames() {
		if name == "" || 2*i >= len(loc) || loc[2*i] < 0 {
			continue
		}
		m.group[name] = text[loc[2*i]:loc[2*i+1]]
	}
	return m
}

func (m *match) base(t types.CitationType) *types.Citation {
	return &types.Citation{RawText: m.raw, Type: t, SpanStart: m.start, SpanEnd: m.end}
}

func connectiveBefore(text string, start int) string {
	prefix := strings.ToLower(strings.TrimRight(text[:start], " \t\n"))
	for _, phrase := range connectivePhrases {
		if strings.HasSuffix(prefix, phrase) {
			return phrase
		}
	}
	return ""
}

// actRef is one act out of an act list.
type actRef struct {
	kind   types.ActType
	part1  string
	part2  string
	suffix string
}

func parseActList(blob string) []actRef {
	var acts []actRef
	var lastKind types.ActType
	for _, m := range actListItemRe.FindAllStringSubmatch(blob, -1) {
		name := map[string]string{}
		for i, n := range actListItemRe.SubexpNames() {
			if n != "" {
				name[n] = m[i]
			}
		}
		if name["kind"] != "" {
			kind, ok := normalizeActType(name["kind"])
			if !ok {
				continue
			}
			lastKind = kind
			acts = append(acts, actRef{kind: kind, part1: name["y1"], part2: name["n1"], suffix: name["suf1"]})
		} else if lastKind != "" {
			acts = append(acts, actRef{kind: lastKind, part1: name["y2"], part2: name["n2"], suffix: name["suf2"]})
		}
	}
	return acts
}

// applyAct fills the act fields of an external citation. Pre-Lisbon
// pillar acts (JHA, CFSP suffixes) get a year but no CELEX.
func applyAct(c *types.Citation, act actRef) {
	c.Type = types.CitationEULegislation
	c.ActType = act.kind
	c.ActNumber = act.part1 + "/" + act.part2
	year, number, ok := parseActYearNumber(act.part1, act.part2)
	if !ok {
		return
	}
	c.ActYear = intPtr(year)
	if communityCELEXSuffixes[strings.ToUpper(act.suffix)] {
		c.CELEX = celexID(act.kind, year, number)
	}
}

// artItemRef is one article token of an external article enumeration.
type artItemRef struct {
	label   string
	par     *int
	point   string
	par2    *int
	point2  string
	isRange bool
	rng     *types.Range
}

func newArtItemRef(m *match) artItemRef {
	item := artItemRef{label: strings.ToLower(m.group["num"] + m.group["alpha"])}
	if p := m.group["par"]; p != "" {
		n, _ := strconv.Atoi(p)
		item.par = intPtr(n)
	} else if o := m.group["ordpar"]; o != "" {
		item.par = intPtr(ordinalValue(o))
	}
	if pt := m.group["pt"]; pt != "" {
		item.point = strings.ToLower(pt)
	} else if cpt := m.group["cpt"]; cpt != "" {
		item.point = strings.ToLower(cpt)
	}
	if p2 := m.group["par2"]; p2 != "" {
		n, _ := strconv.Atoi(p2)
		item.par2 = intPtr(n)
		item.point2 = strings.ToLower(m.group["pt2"])
	}
	return item
}

func parseArticleItems(blob string) []artItemRef {
	var items []artItemRef
	pos := 0
	for pos < len(blob) {
		loc := artItemParseRe.FindStringSubmatchIndex(blob[pos:])
		if loc == nil || loc[1] == 0 {
			break
		}
		item := newArtItemRef(newMatch(artItemParseRe, blob[pos:], loc))
		pos += loc[1]

		sep := artItemSepRe.FindStringSubmatchIndex(blob[pos:])
		if sep != nil && newMatch(artItemSepRe, blob[pos:], sep).group["to"] != "" {
			// "10 to 14": the two tokens collapse into a range
			pos += sep[1]
			if next := artItemParseRe.FindStringSubmatchIndex(blob[pos:]); next != nil && next[1] > 0 {
				nm := newMatch(artItemParseRe, blob[pos:], next)
				first, _ := parseArticleLabel(item.label)
				last, _ := parseArticleLabel(strings.ToLower(nm.group["num"]))
				item = artItemRef{isRange: true, rng: &types.Range{First: first, Last: last}}
				pos += next[1]
				sep = artItemSepRe.FindStringSubmatchIndex(blob[pos:])
			}
		}

		items = append(items, item)
		if sep == nil {
			break
		}
		pos += sep[1]
	}
	return items
}

func (e *Extractor) buildExternalArticles(m *match) []*types.Citation {
	acts := parseActList(m.group["acts"])
	items := parseArticleItems(m.group["items"])
	if len(acts) == 0 || len(items) == 0 {
		return nil
	}
	var out []*types.Citation
	for _, item := range items {
		for _, act := range acts {
			c := m.base(types.CitationEULegislation)
			applyAct(c, act)
			if item.isRange {
				c.ArticleRange = item.rng
			} else {
				c.ArticleLabel = item.label
				if n, ok := parseArticleLabel(item.label); ok {
					c.Article = intPtr(n)
				}
				c.Paragraph = copyInt(item.par)
				c.Point = item.point
				c.TargetNodeID = nodeID(c.ArticleLabel, c.Paragraph, 0, c.Point)
			}
			out = append(out, c)
			if item.par2 != nil {
				c2 := m.base(types.CitationEULegislation)
				applyAct(c2, act)
				c2.ArticleLabel = item.label
				if n, ok := parseArticleLabel(item.label); ok {
					c2.Article = intPtr(n)
				}
				c2.Paragraph = copyInt(item.par2)
				c2.Point = item.point2
				c2.TargetNodeID = nodeID(c2.ArticleLabel, c2.Paragraph, 0, c2.Point)
				out = append(out, c2)
			}
		}
	}
	return out
}

func (e *Extractor) buildExternalPointFirst(m *match) []*types.Citation {
	acts := parseActList(m.group["acts"])
	if len(acts) == 0 {
		return nil
	}
	var out []*types.Citation
	for _, act := range acts {
		c := m.base(types.CitationEULegislation)
		applyAct(c, act)
		c.Point = strings.ToLower(m.group["pt"])
		c.ArticleLabel = strings.ToLower(m.group["art"])
		if n, ok := parseArticleLabel(c.ArticleLabel); ok {
			c.Article = intPtr(n)
		}
		if p := m.group["par"]; p != "" {
			n, _ := strconv.Atoi(p)
			c.Paragraph = intPtr(n)
		}
		sub := 0
		if o := m.group["ord"]; o != "" {
			c.SubparagraphOrdinal = strings.ToLower(o)
			sub = ordinalValue(o)
			c.SubparagraphIndex = intPtr(sub)
		}
		c.TargetNodeID = nodeID(c.ArticleLabel, c.Paragraph, sub, c.Point)
		out = append(out, c)
	}
	return out
}

func (e *Extractor) buildArticleOfThatAct(m *match) []*types.Citation {
	kind, ok := normalizeActType(m.group["kind"])
	if !ok {
		return nil
	}
	c := m.base(types.CitationInternal)
	c.ActType = kind
	c.ArticleLabel = strings.ToLower(m.group["art"])
	if n, lok := parseArticleLabel(c.ArticleLabel); lok {
		c.Article = intPtr(n)
	}
	if p := m.group["par"]; p != "" {
		n, _ := strconv.Atoi(p)
		c.Paragraph = intPtr(n)
	}
	c.Point = strings.ToLower(m.group["pt"])
	return []*types.Citation{c}
}

func (e *Extractor) buildStandaloneActs(m *match) []*types.Citation {
	acts := parseActList(m.group["acts"])
	var out []*types.Citation
	for _, act := range acts {
		c := m.base(types.CitationEULegislation)
		applyAct(c, act)
		out = append(out, c)
	}
	return out
}

func (e *Extractor) buildTreatyArticle(m *match) []*types.Citation {
	return treatyArticleBuilder(strings.ToUpper(m.group["code"]))(m)
}

func treatyArticleBuilder(code string) builder {
	return func(m *match) []*types.Citation {
		c := m.base(types.CitationEULegislation)
		c.TreatyCode = code
		c.ArticleLabel = strings.ToLower(m.group["art"])
		if n, ok := parseArticleLabel(c.ArticleLabel); ok {
			c.Article = intPtr(n)
		}
		if p := m.group["par"]; p != "" {
			n, _ := strconv.Atoi(p)
			c.Paragraph = intPtr(n)
		}
		c.Point = strings.ToLower(m.group["pt"])
		return []*types.Citation{c}
	}
}

func treatyNameBuilder(code string) builder {
	return func(m *match) []*types.Citation {
		c := m.base(types.CitationEULegislation)
		c.TreatyCode = code
		return []*types.Citation{c}
	}
}

func (e *Extractor) buildSubparCombo(m *match) []*types.Citation {
	c := m.base(types.CitationInternal)
	if art := m.group["art"]; art != "" {
		c.ArticleLabel = strings.ToLower(art)
		if n, ok := parseArticleLabel(c.ArticleLabel); ok {
			c.Article = intPtr(n)
		}
	}
	if p := m.group["par"]; p != "" {
		n, _ := strconv.Atoi(p)
		c.Paragraph = intPtr(n)
	}
	c.Point = strings.ToLower(m.group["pt"])
	if o := m.group["ord"]; o != "" {
		c.SubparagraphOrdinal = strings.ToLower(o)
		c.SubparagraphIndex = intPtr(ordinalValue(o))
	}
	return []*types.Citation{c}
}

func (e *Extractor) buildSubparPair(m *match) []*types.Citation {
	var out []*types.Citation
	for _, key := range []string{"o1", "o2"} {
		o := strings.ToLower(m.group[key])
		c := m.base(types.CitationInternal)
		c.SubparagraphOrdinal = o
		c.SubparagraphIndex = intPtr(ordinalValue(o))
		out = append(out, c)
	}
	return out
}

func (e *Extractor) buildParagraphOfThisArticle(m *match) []*types.Citation {
	c := m.base(types.CitationInternal)
	n, _ := strconv.Atoi(m.group["par"])
	c.Paragraph = intPtr(n)
	return []*types.Citation{c}
}

func (e *Extractor) buildArticlePointRange(m *match) []*types.Citation {
	c := e.articleBase(m)
	c.PointRange = &types.LabelRange{
		First: strings.ToLower(m.group["p1"]),
		Last:  strings.ToLower(m.group["p2"]),
	}
	return []*types.Citation{c}
}

func (e *Extractor) buildArticlePoint(m *match) []*types.Citation {
	c := e.articleBase(m)
	c.Point = strings.ToLower(m.group["pt"])
	return []*types.Citation{c}
}

func (e *Extractor) buildArticleMultiParagraph(m *match) []*types.Citation {
	c := e.articleBase(m)
	c.Point = strings.ToLower(m.group["pt"])
	c2 := m.base(types.CitationInternal)
	c2.ArticleLabel = c.ArticleLabel
	c2.Article = copyInt(c.Article)
	n, _ := strconv.Atoi(m.group["par2"])
	c2.Paragraph = intPtr(n)
	c2.Point = strings.ToLower(m.group["pt2"])
	return []*types.Citation{c, c2}
}

func (e *Extractor) buildArticleRange(m *match) []*types.Citation {
	c := m.base(types.CitationInternal)
	first, _ := strconv.Atoi(m.group["a1"])
	last, _ := strconv.Atoi(m.group["a2"])
	c.ArticleRange = &types.Range{First: first, Last: last}
	return []*types.Citation{c}
}

func (e *Extractor) buildArticleEnum(m *match) []*types.Citation {
	var out []*types.Citation
	for _, item := range enumItemRe.FindAllStringSubmatch(m.group["items"], -1) {
		c := m.base(types.CitationInternal)
		c.ArticleLabel = strings.ToLower(item[1] + item[2])
		n, _ := strconv.Atoi(item[1])
		c.Article = intPtr(n)
		if item[3] != "" {
			p, _ := strconv.Atoi(item[3])
			c.Paragraph = intPtr(p)
		}
		out = append(out, c)
	}
	return out
}

func (e *Extractor) buildArticleSimple(m *match) []*types.Citation {
	c := e.articleBase(m)
	c.Point = strings.ToLower(m.group["pt"])
	return []*types.Citation{c}
}

// articleBase fills the article and paragraph groups common to the
// internal article patterns.
func (e *Extractor) articleBase(m *match) *types.Citation {
	c := m.base(types.CitationInternal)
	c.ArticleLabel = strings.ToLower(m.group["art"])
	if n, ok := parseArticleLabel(c.ArticleLabel); ok {
		c.Article = intPtr(n)
	}
	if p := m.group["par"]; p != "" {
		n, _ := strconv.Atoi(p)
		c.Paragraph = intPtr(n)
	}
	return c
}

func (e *Extractor) buildPointRange(m *match) []*types.Citation {
	c := m.base(types.CitationInternal)
	c.PointRange = &types.LabelRange{
		First: strings.ToLower(m.group["p1"]),
		Last:  strings.ToLower(m.group["p2"]),
	}
	return []*types.Citation{c}
}

func (e *Extractor) buildPointEnum(m *match) []*types.Citation {
	points := []string{strings.ToLower(m.group["first"])}
	for _, r := range parenLabelRe.FindAllStringSubmatch(m.group["rest"], -1) {
		points = append(points, strings.ToLower(r[1]))
	}
	var out []*types.Citation
	for _, p := range points {
		c := m.base(types.CitationInternal)
		c.Point = p
		out = append(out, c)
	}
	return out
}

func (e *Extractor) buildParagraphRange(m *match) []*types.Citation {
	c := m.base(types.CitationInternal)
	first, _ := strconv.Atoi(m.group["p1"])
	last, _ := strconv.Atoi(m.group["p2"])
	c.ParagraphRange = &types.Range{First: first, Last: last}
	return []*types.Citation{c}
}

func (e *Extractor) buildParagraphEnum(m *match) []*types.Citation {
	var out []*types.Citation
	for _, n := range numberRe.FindAllString(m.group["items"], -1) {
		c := m.base(types.CitationInternal)
		v, _ := strconv.Atoi(n)
		c.Paragraph = intPtr(v)
		out = append(out, c)
	}
	return out
}

func (e *Extractor) buildParagraphSimple(m *match) []*types.Citation {
	c := m.base(types.CitationInternal)
	n, _ := strconv.Atoi(m.group["par"])
	c.Paragraph = intPtr(n)
	return []*types.Citation{c}
}

func (e *Extractor) buildThisChapter(m *match) []*types.Citation {
	c := m.base(types.CitationInternal)
	c.Chapter = "THIS"
	return []*types.Citation{c}
}

func (e *Extractor) buildChapter(m *match) []*types.Citation {
	c := m.base(types.CitationInternal)
	c.Chapter = strings.ToUpper(m.group["num"])
	return []*types.Citation{c}
}

func (e *Extractor) buildSectionOfAnnex(m *match) []*types.Citation {
	c := m.base(types.CitationInternal)
	c.Section = strings.ToUpper(m.group["sec"])
	c.Annex = strings.ToUpper(m.group["annex"])
	return []*types.Citation{c}
}

func (e *Extractor) buildSection(m *match) []*types.Citation {
	c := m.base(types.CitationInternal)
	c.Section = strings.ToUpper(m.group["sec"])
	return []*types.Citation{c}
}

func (e *Extractor) buildTitle(m *match) []*types.Citation {
	c := m.base(types.CitationInternal)
	c.TitleRef = strings.ToUpper(m.group["num"])
	return []*types.Citation{c}
}

func (e *Extractor) buildAnnexEnum(m *match) []*types.Citation {
	var out []*types.Citation
	for _, r := range romanItemRe.FindAllString(m.group["items"], -1) {
		c := m.base(types.CitationInternal)
		c.Annex = strings.ToUpper(r)
		out = append(out, c)
	}
	return out
}

func (e *Extractor) buildAnnexWithPart(m *match) []*types.Citation {
	c := m.base(types.CitationInternal)
	c.Annex = strings.ToUpper(m.group["annex"])
	c.AnnexPart = strings.ToUpper(m.group["part"])
	return []*types.Citation{c}
}

func (e *Extractor) buildAnnexSimple(m *match) []*types.Citation {
	c := m.base(types.CitationInternal)
	c.Annex = strings.ToUpper(m.group["annex"])
	return []*types.Citation{c}
}

func (e *Extractor) buildPartBare(m *match) []*types.Citation {
	c := m.base(types.CitationInternal)
	c.AnnexPart = strings.ToUpper(m.group["part"])
	return []*types.Citation{c}
}

func (e *Extractor) buildThatActBare(m *match) []*types.Citation {
	kind, ok := normalizeActType(m.group["kind"])
	if !ok {
		return nil
	}
	c := m.base(types.CitationInternal)
	c.ActType = kind
	return []*types.Citation{c}
}

func (e *Extractor) buildRelative(m *match) []*types.Citation {
	return []*types.Citation{m.base(types.CitationInternal)}
}

func copyInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
