package citation

import (
	"testing"

	"github.com/coolbeans/lexunit/pkg/types"
)

// pipeline extracts and resolves the citations of every unit and
// returns the one the test reads back.
func pipeline(t *testing.T, units []*types.Unit, id string) *types.Unit {
	t.Helper()
	ExtractAll(units)
	Resolve(units)
	for _, u := range units {
		if u.ID == id {
			return u
		}
	}
	t.Fatalf("unit %q not in fixture", id)
	return nil
}

func TestResolveParagraphOfThisArticle(t *testing.T) {
	units := []*types.Unit{
		{ID: "art-5", Type: types.UnitArticle, ArticleNumber: "5"},
		{ID: "art-5.par-1", Type: types.UnitParagraph, ArticleNumber: "5", ParagraphNumber: "1"},
		{ID: "art-5.par-2", Type: types.UnitParagraph, ArticleNumber: "5", ParagraphNumber: "2",
			Text: "Where applicable, paragraph 1 of this Article shall apply."},
	}
	u := pipeline(t, units, "art-5.par-2")
	if len(u.Citations) != 1 {
		t.Fatalf("got %d citations, want 1", len(u.Citations))
	}
	c := u.Citations[0]
	if c.ArticleLabel != "5" || c.Article == nil || *c.Article != 5 {
		t.Errorf("article = %v %q", c.Article, c.ArticleLabel)
	}
	if c.TargetNodeID != "art-5.par-1" {
		t.Errorf("target = %q", c.TargetNodeID)
	}
}

func TestResolveThisArticle(t *testing.T) {
	units := []*types.Unit{
		{ID: "art-5", Type: types.UnitArticle, ArticleNumber: "5",
			Text: "The obligations set out in this Article shall be proportionate."},
	}
	u := pipeline(t, units, "art-5")
	if len(u.Citations) != 1 {
		t.Fatalf("got %d citations, want 1", len(u.Citations))
	}
	if u.Citations[0].TargetNodeID != "art-5" {
		t.Errorf("target = %q", u.Citations[0].TargetNodeID)
	}
}

func TestResolveThisParagraph(t *testing.T) {
	units := []*types.Unit{
		{ID: "art-5.par-2", Type: types.UnitParagraph, ArticleNumber: "5", ParagraphIndex: 2,
			Text: "The measures referred to in this paragraph shall be reviewed."},
	}
	u := pipeline(t, units, "art-5.par-2")
	if len(u.Citations) != 1 {
		t.Fatalf("got %d citations, want 1", len(u.Citations))
	}
	c := u.Citations[0]
	if c.Paragraph == nil || *c.Paragraph != 2 {
		t.Errorf("paragraph = %v", c.Paragraph)
	}
	if c.TargetNodeID != "art-5.par-2" {
		t.Errorf("target = %q", c.TargetNodeID)
	}
}

func TestResolveFirstSubparagraphShift(t *testing.T) {
	units := []*types.Unit{
		{ID: "art-5.par-2", Type: types.UnitParagraph, ArticleNumber: "5", ParagraphNumber: "2"},
		{ID: "art-5.par-2.subpar-1", Type: types.UnitSubparagraph, ArticleNumber: "5", SubparagraphIndex: 1,
			Text: "The deadline laid down in the first subparagraph may be extended."},
	}
	u := pipeline(t, units, "art-5.par-2.subpar-1")
	if len(u.Citations) != 1 {
		t.Fatalf("got %d citations, want 1", len(u.Citations))
	}
	c := u.Citations[0]
	if c.SubparagraphOrdinal != "first" || c.SubparagraphIndex == nil || *c.SubparagraphIndex != 1 {
		t.Errorf("ordinal %q index %v", c.SubparagraphOrdinal, c.SubparagraphIndex)
	}
	// the paragraph's opening text is its first subparagraph
	if c.TargetNodeID != "art-5.par-2" {
		t.Errorf("target = %q", c.TargetNodeID)
	}
}

func TestResolveArticleLabelContext(t *testing.T) {
	units := []*types.Unit{
		{ID: "art-6a.par-1", Type: types.UnitParagraph, ArticleNumber: "6a", ParagraphNumber: "1",
			Text: "the conditions of paragraph 2 shall apply."},
		{ID: "art-6a.par-2", Type: types.UnitParagraph, ArticleNumber: "6a", ParagraphNumber: "2"},
	}
	u := pipeline(t, units, "art-6a.par-1")
	if len(u.Citations) != 1 {
		t.Fatalf("got %d citations, want 1", len(u.Citations))
	}
	c := u.Citations[0]
	if c.ArticleLabel != "6a" || c.Article == nil || *c.Article != 6 {
		t.Errorf("article = %v %q", c.Article, c.ArticleLabel)
	}
	if c.TargetNodeID != "art-6a.par-2" {
		t.Errorf("target = %q", c.TargetNodeID)
	}
}

func TestResolveNeverMutatesExternal(t *testing.T) {
	units := []*types.Unit{
		{ID: "art-9.par-1", Type: types.UnitParagraph, ArticleNumber: "9", ParagraphNumber: "1",
			Text: "in accordance with Regulation (EU) 2016/679."},
	}
	u := pipeline(t, units, "art-9.par-1")
	if len(u.Citations) != 1 {
		t.Fatalf("got %d citations, want 1", len(u.Citations))
	}
	c := u.Citations[0]
	if c.Type != types.CitationEULegislation {
		t.Fatalf("type = %q", c.Type)
	}
	if c.Article != nil || c.ArticleLabel != "" {
		t.Errorf("external citation picked up article context: %v %q", c.Article, c.ArticleLabel)
	}
}

func TestResolvePointEnumerationLocalContext(t *testing.T) {
	units := []*types.Unit{
		{ID: "art-5.par-2", Type: types.UnitParagraph, ArticleNumber: "5", ParagraphNumber: "2"},
		{ID: "art-5.par-2.pt-a", Type: types.UnitPoint, ArticleNumber: "5"},
		{ID: "art-5.par-2.pt-b", Type: types.UnitPoint, ArticleNumber: "5"},
		{ID: "art-5.par-2.intro-1", Type: types.UnitIntro, ArticleNumber: "5", ParagraphNumber: "2",
			Text: "points (a) and (b) shall apply."},
	}
	u := pipeline(t, units, "art-5.par-2.intro-1")
	if len(u.Citations) != 2 {
		t.Fatalf("got %d citations, want 2", len(u.Citations))
	}
	wantTargets := []string{"art-5.par-2.pt-a", "art-5.par-2.pt-b"}
	for i, want := range wantTargets {
		if u.Citations[i].TargetNodeID != want {
			t.Errorf("citation %d target = %q, want %q", i, u.Citations[i].TargetNodeID, want)
		}
	}
}

func TestResolvePointEnumerationParagraphAnchor(t *testing.T) {
	units := []*types.Unit{
		{ID: "art-5.par-1", Type: types.UnitParagraph, ArticleNumber: "5", ParagraphNumber: "1"},
		{ID: "art-5.par-1.pt-a", Type: types.UnitPoint, ArticleNumber: "5"},
		{ID: "art-5.par-1.pt-b", Type: types.UnitPoint, ArticleNumber: "5"},
		{ID: "art-5.par-4", Type: types.UnitParagraph, ArticleNumber: "5", ParagraphNumber: "4",
			Text: "the obligations under paragraph 1, points (a) and (b), shall apply."},
	}
	u := pipeline(t, units, "art-5.par-4")
	if len(u.Citations) != 3 {
		t.Fatalf("got %d citations, want 3", len(u.Citations))
	}
	if u.Citations[0].TargetNodeID != "art-5.par-1" {
		t.Errorf("anchor target = %q", u.Citations[0].TargetNodeID)
	}
	wantTargets := []string{"art-5.par-1.pt-a", "art-5.par-1.pt-b"}
	for i, want := range wantTargets {
		c := u.Citations[i+1]
		if c.TargetNodeID != want {
			t.Errorf("point citation %d target = %q, want %q", i, c.TargetNodeID, want)
		}
		if c.ArticleLabel != "5" || c.Paragraph == nil || *c.Paragraph != 1 {
			t.Errorf("point citation %d context = %q %v", i, c.ArticleLabel, c.Paragraph)
		}
	}
}

func TestResolvePointEnumerationArticleAnchor(t *testing.T) {
	units := []*types.Unit{
		{ID: "art-38.par-2", Type: types.UnitParagraph, ArticleNumber: "38", ParagraphNumber: "2"},
		{ID: "art-38.par-2.pt-a", Type: types.UnitPoint, ArticleNumber: "38"},
		{ID: "art-38.par-2.pt-b", Type: types.UnitPoint, ArticleNumber: "38"},
		{ID: "art-38.par-2.pt-d", Type: types.UnitPoint, ArticleNumber: "38"},
		{ID: "art-5.par-4", Type: types.UnitParagraph, ArticleNumber: "5", ParagraphNumber: "4",
			Text: "in accordance with Article 38(2), points (a), (b) and (d)."},
	}
	u := pipeline(t, units, "art-5.par-4")
	if len(u.Citations) != 4 {
		t.Fatalf("got %d citations, want 4", len(u.Citations))
	}
	wantTargets := []string{"art-38.par-2.pt-a", "art-38.par-2.pt-b", "art-38.par-2.pt-d"}
	for i, want := range wantTargets {
		c := u.Citations[i+1]
		if c.TargetNodeID != want {
			t.Errorf("point citation %d target = %q, want %q", i, c.TargetNodeID, want)
		}
	}
}

func TestResolvePointEnumerationSubparagraphChain(t *testing.T) {
	units := []*types.Unit{
		{ID: "art-16.par-1", Type: types.UnitParagraph, ArticleNumber: "16", ParagraphNumber: "1"},
		{ID: "art-16.par-1.subpar-1", Type: types.UnitSubparagraph, ArticleNumber: "16",
			ParentID: "art-16.par-1", SubparagraphIndex: 1},
		{ID: "art-16.par-1.subpar-1.pt-a", Type: types.UnitPoint, ArticleNumber: "16",
			ParentID: "art-16.par-1.subpar-1"},
		{ID: "art-16.par-1.subpar-1.pt-c", Type: types.UnitPoint, ArticleNumber: "16",
			ParentID: "art-16.par-1.subpar-1"},
		{ID: "art-16.par-1.subpar-1.pt-g", Type: types.UnitPoint, ArticleNumber: "16",
			ParentID: "art-16.par-1.subpar-1", ParagraphNumber: "1",
			Text: "in accordance with points (a) and (c)."},
	}
	u := pipeline(t, units, "art-16.par-1.subpar-1.pt-g")
	if len(u.Citations) != 2 {
		t.Fatalf("got %d citations, want 2", len(u.Citations))
	}
	wantTargets := []string{"art-16.par-1.subpar-1.pt-a", "art-16.par-1.subpar-1.pt-c"}
	for i, want := range wantTargets {
		c := u.Citations[i]
		if c.TargetNodeID != want {
			t.Errorf("citation %d target = %q, want %q", i, c.TargetNodeID, want)
		}
		if c.SubparagraphOrdinal != "first" {
			t.Errorf("citation %d ordinal = %q", i, c.SubparagraphOrdinal)
		}
	}
}

func TestResolvePointsWithoutContext(t *testing.T) {
	units := []*types.Unit{
		{ID: "u1", Type: types.UnitParagraph, Text: "points (a), (b) and (c) shall apply."},
	}
	u := pipeline(t, units, "u1")
	if len(u.Citations) != 3 {
		t.Fatalf("got %d citations, want 3", len(u.Citations))
	}
	for i, c := range u.Citations {
		if c.TargetNodeID != "" || c.Article != nil {
			t.Errorf("citation %d resolved without context: %q %v", i, c.TargetNodeID, c.Article)
		}
	}
}

func TestResolveParagraphEnumerationLocalContext(t *testing.T) {
	units := []*types.Unit{
		{ID: "art-5.par-1", Type: types.UnitParagraph, ArticleNumber: "5", ParagraphNumber: "1"},
		{ID: "art-5.par-2", Type: types.UnitParagraph, ArticleNumber: "5", ParagraphNumber: "2"},
		{ID: "art-5.par-3", Type: types.UnitParagraph, ArticleNumber: "5", ParagraphNumber: "3"},
		{ID: "art-5.par-4", Type: types.UnitParagraph, ArticleNumber: "5", ParagraphNumber: "4",
			Text: "paragraphs 1, 2 and 3 shall not apply."},
	}
	u := pipeline(t, units, "art-5.par-4")
	if len(u.Citations) != 3 {
		t.Fatalf("got %d citations, want 3", len(u.Citations))
	}
	for i, want := range []string{"art-5.par-1", "art-5.par-2", "art-5.par-3"} {
		if u.Citations[i].TargetNodeID != want {
			t.Errorf("citation %d target = %q, want %q", i, u.Citations[i].TargetNodeID, want)
		}
	}
}

func TestResolveAnnexPartFromEnclosingAnnex(t *testing.T) {
	units := []*types.Unit{
		{ID: "annex-I", Type: types.UnitAnnex, AnnexNumber: "I"},
		{ID: "annex-I.part-A", Type: types.UnitAnnexPart, AnnexNumber: "I", AnnexPart: "A"},
		{ID: "annex-I.item-3", Type: types.UnitAnnexItem, AnnexNumber: "I",
			Text: "as provided in Part A."},
	}
	u := pipeline(t, units, "annex-I.item-3")
	if len(u.Citations) != 1 {
		t.Fatalf("got %d citations, want 1", len(u.Citations))
	}
	c := u.Citations[0]
	if c.Annex != "I" || c.AnnexPart != "A" {
		t.Errorf("annex = %q part %q", c.Annex, c.AnnexPart)
	}
	if c.TargetNodeID != "annex-I.part-A" {
		t.Errorf("target = %q", c.TargetNodeID)
	}
}

func TestResolveMissingAnnexTarget(t *testing.T) {
	units := []*types.Unit{
		{ID: "u1", Type: types.UnitParagraph, Text: "the criteria set out in Annex V."},
	}
	u := pipeline(t, units, "u1")
	if len(u.Citations) != 1 {
		t.Fatalf("got %d citations, want 1", len(u.Citations))
	}
	if u.Citations[0].Annex != "V" || u.Citations[0].TargetNodeID != "" {
		t.Errorf("annex %q target %q", u.Citations[0].Annex, u.Citations[0].TargetNodeID)
	}
}

func TestReclassifyThatDirective(t *testing.T) {
	units := []*types.Unit{
		{ID: "u1", Type: types.UnitParagraph,
			Text: "Operators shall comply with Article 3 of Directive (EU) 2022/2555. This Regulation applies for the purposes of Article 4 of that Directive."},
	}
	u := pipeline(t, units, "u1")

	var contextual []*types.Citation
	for _, c := range u.Citations {
		if c.Type == types.CitationEULegislation && c.ArticleLabel == "4" {
			contextual = append(contextual, c)
		}
		if c.Type == types.CitationInternal && c.ArticleLabel == "4" {
			t.Errorf("Article 4 reference stayed internal")
		}
	}
	if len(contextual) != 1 {
		t.Fatalf("got %d reclassified citations, want 1", len(contextual))
	}
	c := contextual[0]
	if c.ActNumber != "2022/2555" || c.CELEX != "32022L2555" {
		t.Errorf("act = %q celex = %q", c.ActNumber, c.CELEX)
	}
	if c.ActYear == nil || *c.ActYear != 2022 {
		t.Errorf("year = %v", c.ActYear)
	}
}

func TestReclassifyBareThatRegulation(t *testing.T) {
	units := []*types.Unit{
		{ID: "u1", Type: types.UnitParagraph,
			Text: "Regulation (EU) No 1024/2013 applies and that Regulation remains relevant."},
	}
	u := pipeline(t, units, "u1")
	if len(u.Citations) != 2 {
		t.Fatalf("got %d citations, want 2", len(u.Citations))
	}
	c := u.Citations[1]
	if c.Type != types.CitationEULegislation {
		t.Fatalf("type = %q", c.Type)
	}
	if c.ActNumber != "1024/2013" || c.CELEX != "32013R1024" {
		t.Errorf("act = %q celex = %q", c.ActNumber, c.CELEX)
	}
}

func TestThatActWithoutAntecedentStaysInternal(t *testing.T) {
	units := []*types.Unit{
		{ID: "u1", Type: types.UnitParagraph, Text: "the measures set out in that decision were notified."},
	}
	u := pipeline(t, units, "u1")
	if len(u.Citations) != 1 {
		t.Fatalf("got %d citations, want 1", len(u.Citations))
	}
	c := u.Citations[0]
	if c.Type != types.CitationInternal || c.ActType != types.ActDecision {
		t.Errorf("type = %q act = %q", c.Type, c.ActType)
	}
}

func TestThatActAmbiguousStaysInternal(t *testing.T) {
	units := []*types.Unit{
		{ID: "u1", Type: types.UnitParagraph,
			Text: "Directive 2013/34/EU and Directive 2006/43/EC apply. Article 5 of that Directive is amended."},
	}
	u := pipeline(t, units, "u1")

	var found bool
	for _, c := range u.Citations {
		if c.ArticleLabel == "5" {
			found = true
			if c.Type != types.CitationInternal {
				t.Errorf("ambiguous antecedent reclassified: %q", c.Type)
			}
		}
	}
	if !found {
		t.Fatalf("Article 5 citation not extracted")
	}
}
