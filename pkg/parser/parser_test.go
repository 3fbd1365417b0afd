package parser

import (
	"strings"
	"testing"

	"github.com/coolbeans/lexunit/pkg/types"
)

func parse(t *testing.T, html string) *types.ParseResult {
	t.Helper()
	res, err := Parse(strings.NewReader(html), "test.html")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return res
}

func findUnit(t *testing.T, res *types.ParseResult, id string) *types.Unit {
	t.Helper()
	for _, u := range res.Units {
		if u.ID == id {
			return u
		}
	}
	ids := make([]string, len(res.Units))
	for i, u := range res.Units {
		ids[i] = u.ID
	}
	t.Fatalf("unit %s not found; have %v", id, ids)
	return nil
}

const ojDocument = `<html><body>
<div class="eli-main-title" id="tit_1">
  <p class="oj-doc-ti">Regulation (EU) 2022/2554 of the European Parliament and of the Council</p>
  <p class="oj-doc-ti">on digital operational resilience for the financial sector</p>
  <p class="oj-doc-ti">(Text with EEA relevance)</p>
</div>
<div class="eli-subdivision" id="rct_1">
  <table><tbody><tr>
    <td><p class="oj-normal">(1)</p></td>
    <td><p class="oj-normal">In the digital age, information systems underpin financial services.</p></td>
  </tr></tbody></table>
</div>
<div class="eli-subdivision" id="rct_2">
  <table><tbody><tr>
    <td><p class="oj-normal">(2)</p></td>
    <td><p class="oj-normal">The use of such systems carries operational risk.</p></td>
  </tr></tbody></table>
</div>
<div id="art_1" class="eli-subdivision">
  <p class="oj-ti-art">Article 1</p>
  <div class="eli-title"><p class="oj-sti-art">Subject matter</p></div>
  <div id="001.001">
    <p class="oj-normal">1.   This Regulation lays down uniform requirements concerning the following:</p>
    <table><tbody>
      <tr><td><p class="oj-normal">(a)</p></td><td><p class="oj-normal">security of network and information systems;</p></td></tr>
      <tr><td><p class="oj-normal">(b)</p></td><td><p class="oj-normal">management of ICT third-party risk.</p></td></tr>
    </tbody></table>
  </div>
  <div id="001.002">
    <p class="oj-normal">2.   In relation to financial entities, this Regulation applies in full.</p>
    <p class="oj-normal">Member States may adopt stricter provisions in national law.</p>
  </div>
</div>
<div id="anx_1">
  <p class="oj-doc-ti">ANNEX I</p>
  <p class="oj-ti-grseq-1">Part A</p>
  <table><tbody>
    <tr><td><p class="oj-normal">(1)</p></td><td><p class="oj-normal">First listed obligation in the annex.</p></td></tr>
    <tr><td><p class="oj-normal">(2)</p></td><td><p class="oj-normal">Second listed obligation in the annex.</p></td></tr>
  </tbody></table>
</div>
</body></html>`

func TestOJFormatDetection(t *testing.T) {
	res := parse(t, ojDocument)
	if res.Format != FormatOJ {
		t.Errorf("Format = %q, want %q", res.Format, FormatOJ)
	}
}

func TestOJDocumentTitle(t *testing.T) {
	res := parse(t, ojDocument)
	title := findUnit(t, res, "document-title")
	want := "Regulation (EU) 2022/2554 of the European Parliament and of the Council on digital operational resilience for the financial sector"
	if title.Text != want {
		t.Errorf("title text = %q, want %q", title.Text, want)
	}
	if strings.Contains(title.Text, "EEA relevance") {
		t.Error("relevance note not dropped from title")
	}
}

func TestOJRecitals(t *testing.T) {
	res := parse(t, ojDocument)
	rct := findUnit(t, res, "rct-1")
	if rct.RecitalNumber != "1" || rct.Ref != "(1)" {
		t.Errorf("recital number %q ref %q", rct.RecitalNumber, rct.Ref)
	}
	if !strings.HasPrefix(rct.Text, "In the digital age") {
		t.Errorf("recital text = %q", rct.Text)
	}
	if res.Report.CountsExpected["recitals"] != 2 || res.Report.CountsParsed["recitals"] != 2 {
		t.Errorf("recital counts = %d/%d", res.Report.CountsParsed["recitals"], res.Report.CountsExpected["recitals"])
	}
}

func TestRecitalsSharingOneTable(t *testing.T) {
	doc := `<html><body>
<div class="eli-subdivision" id="rct_1">
  <table><tbody>
    <tr><td><p class="oj-normal">(1)</p></td><td><p class="oj-normal">First recital text in the shared table.</p></td></tr>
    <tr><td><p class="oj-normal">(2)</p></td><td><p class="oj-normal">Second recital text in the shared table.</p></td></tr>
  </tbody></table>
</div>
</body></html>`
	res := parse(t, doc)
	first := findUnit(t, res, "rct-1")
	if !strings.HasPrefix(first.Text, "First recital text") {
		t.Errorf("rct-1 text = %q", first.Text)
	}
	second := findUnit(t, res, "rct-2")
	if second.RecitalNumber != "2" || second.Ref != "(2)" {
		t.Errorf("rct-2 number %q ref %q", second.RecitalNumber, second.Ref)
	}
	if !strings.HasPrefix(second.Text, "Second recital text") {
		t.Errorf("rct-2 text = %q", second.Text)
	}
}

func TestOJArticleParagraphs(t *testing.T) {
	res := parse(t, ojDocument)

	art := findUnit(t, res, "art-1")
	if art.Heading != "Subject matter" || art.ArticleNumber != "1" {
		t.Errorf("article heading %q number %q", art.Heading, art.ArticleNumber)
	}

	par1 := findUnit(t, res, "art-1.par-1")
	if par1.ParagraphNumber != "1" || par1.Ref != "1." {
		t.Errorf("par-1 number %q ref %q", par1.ParagraphNumber, par1.Ref)
	}
	if !strings.HasPrefix(par1.Text, "This Regulation lays down") {
		t.Errorf("paragraph label not stripped: %q", par1.Text)
	}

	ptA := findUnit(t, res, "art-1.par-1.pt-a")
	if ptA.PointLabel != "a" || ptA.ParentID != "art-1.par-1" {
		t.Errorf("point label %q parent %q", ptA.PointLabel, ptA.ParentID)
	}
	if ptA.Type != types.UnitPoint {
		t.Errorf("point type = %q", ptA.Type)
	}
	findUnit(t, res, "art-1.par-1.pt-b")

	sub := findUnit(t, res, "art-1.par-2.subpar-1")
	if sub.Type != types.UnitSubparagraph || sub.SubparagraphIndex != 1 {
		t.Errorf("subparagraph type %q index %d", sub.Type, sub.SubparagraphIndex)
	}
	if !strings.HasPrefix(sub.Text, "Member States may adopt") {
		t.Errorf("subparagraph text = %q", sub.Text)
	}
}

func TestOJAnnexParts(t *testing.T) {
	res := parse(t, ojDocument)

	annex := findUnit(t, res, "annex-I")
	if annex.AnnexNumber != "I" || annex.Type != types.UnitAnnex {
		t.Errorf("annex number %q type %q", annex.AnnexNumber, annex.Type)
	}
	part := findUnit(t, res, "annex-I.part-A")
	if part.AnnexPart != "A" || part.ParentID != "annex-I" {
		t.Errorf("part %q parent %q", part.AnnexPart, part.ParentID)
	}
	item := findUnit(t, res, "annex-I.part-A.item-1")
	if item.Type != types.UnitAnnexItem || item.AnnexPart != "A" {
		t.Errorf("item type %q part %q", item.Type, item.AnnexPart)
	}
	if !strings.HasPrefix(item.Text, "First listed obligation") {
		t.Errorf("item text = %q", item.Text)
	}
}

func TestOJValidationClean(t *testing.T) {
	res := parse(t, ojDocument)
	if !res.Report.IsValid() {
		t.Errorf("report not valid: %+v", res.Report)
	}
}

func TestRecitalSequenceGap(t *testing.T) {
	doc := `<html><body>
<div class="eli-subdivision" id="rct_1">
  <table><tbody><tr><td><p class="oj-normal">(1)</p></td><td><p class="oj-normal">First recital text goes here.</p></td></tr></tbody></table>
</div>
<div class="eli-subdivision" id="rct_2">
  <table><tbody><tr><td><p class="oj-normal">(3)</p></td><td><p class="oj-normal">Third recital text goes here.</p></td></tr></tbody></table>
</div>
</body></html>`
	res := parse(t, doc)
	if len(res.Report.SequenceGaps) != 1 {
		t.Fatalf("SequenceGaps = %+v", res.Report.SequenceGaps)
	}
	gap := res.Report.SequenceGaps[0]
	if gap.Type != "recital" || len(gap.Missing) != 1 || gap.Missing[0] != 2 {
		t.Errorf("gap = %+v", gap)
	}
	if res.Report.IsValid() {
		t.Error("report with sequence gap should not be valid")
	}
}

func TestDuplicateIDRenamed(t *testing.T) {
	doc := `<html><body>
<div id="art_1"><p class="oj-ti-art">Article 1</p>
  <p class="oj-normal">The first version of this article text.</p>
</div>
<div id="art_1R"><p class="oj-ti-art">Article 1</p>
  <p class="oj-normal">The second version of this article text.</p>
</div>
</body></html>`
	res := parse(t, doc)
	findUnit(t, res, "art-1")
	renamed := findUnit(t, res, "art-1_1")
	if renamed.Type != types.UnitArticle {
		t.Errorf("renamed unit type = %q", renamed.Type)
	}
}

func TestAmendingArticleFlattened(t *testing.T) {
	doc := `<html><body>
<div id="art_58">
  <p class="oj-ti-art">Article 58</p>
  <div class="eli-title"><p class="oj-sti-art">Amendments to Regulation (EU) No 1093/2010</p></div>
  <p class="oj-normal">Regulation (EU) No 1093/2010 is amended as follows:</p>
  <table><tbody>
    <tr><td><p class="oj-normal">(1)</p></td><td><p class="oj-normal">in Article 1, paragraph 2 is replaced by the following: &#8216;The Authority shall act within the powers conferred.&#8217;</p></td></tr>
  </tbody></table>
</div>
</body></html>`
	res := parse(t, doc)

	par := findUnit(t, res, "art-58.par-1")
	if !par.IsAmendmentText {
		t.Error("amending paragraph not flagged")
	}
	var flagged int
	for _, u := range res.Units {
		if u.IsAmendmentText {
			flagged++
			if len(u.Citations) != 0 {
				t.Errorf("citations extracted from amendment unit %s", u.ID)
			}
		}
	}
	if flagged < 2 {
		t.Errorf("only %d units flagged as amendment text", flagged)
	}
}

func TestParagraphFootnoteMarkersStripped(t *testing.T) {
	doc := `<html><body>
<div id="art_4"><p class="oj-ti-art">Article 4</p>
  <div id="001.001">
    <p class="oj-normal">1.   Entities shall apply the framework <a href="#ntr1-L_2022333EN.01000101-E0001" class="oj-note-tag">(1)</a> without delay.</p>
  </div>
</div>
</body></html>`
	res := parse(t, doc)
	par := findUnit(t, res, "art-4.par-1")
	if strings.Contains(par.Text, "(1)") {
		t.Errorf("footnote marker left in paragraph text: %q", par.Text)
	}
	want := "Entities shall apply the framework without delay."
	if par.Text != want {
		t.Errorf("paragraph text = %q, want %q", par.Text, want)
	}
}

func TestAmendingArticleSkipsFootnoteBodies(t *testing.T) {
	doc := `<html><body>
<div id="art_59">
  <p class="oj-ti-art">Article 59</p>
  <div class="eli-title"><p class="oj-sti-art">Amendments to Regulation (EU) No 1093/2010</p></div>
  <p class="oj-normal">Regulation (EU) No 1093/2010 is amended as follows:</p>
  <p class="oj-note">OJ L 331, 15.12.2010, p. 12.</p>
</div>
</body></html>`
	res := parse(t, doc)
	findUnit(t, res, "art-59.par-1")
	for _, u := range res.Units {
		if strings.Contains(u.Text, "OJ L 331") {
			t.Errorf("footnote body emitted as unit %s: %q", u.ID, u.Text)
		}
	}
}

const consolidatedDocument = `<html><body>
<p id="art_1" class="title-article-norm">Article 1</p>
<p class="stitle-article-norm">Subject matter</p>
<div class="norm" id="001.001"><span class="no-parag">1.</span>
  <p class="norm">This Regulation lays down uniform requirements for financial entities:</p>
  <div class="grid-container">
    <div class="grid-list-column-1"><span>(a)</span></div>
    <div class="grid-list-column-2"><p class="norm">requirements applicable to ICT risk management;</p>
      <div class="grid-container">
        <div class="grid-list-column-1"><span>(i)</span></div>
        <div class="grid-list-column-2"><p class="norm">including the protection of information assets.</p></div>
      </div>
    </div>
  </div>
</div>
<p class="norm">For the purposes of the first subparagraph, entities shall cooperate.</p>
<p id="art_2" class="title-article-norm">Article 2</p>
<div class="norm"><p class="norm">This Regulation applies to the entities listed below.</p></div>
</body></html>`

func TestConsolidatedFormatDetection(t *testing.T) {
	res := parse(t, consolidatedDocument)
	if res.Format != FormatConsolidated {
		t.Errorf("Format = %q, want %q", res.Format, FormatConsolidated)
	}
	if res.Report.CountsExpected["articles"] != 2 {
		t.Errorf("expected articles = %d", res.Report.CountsExpected["articles"])
	}
}

func TestConsolidatedParagraphAndPoints(t *testing.T) {
	res := parse(t, consolidatedDocument)

	art := findUnit(t, res, "art-1")
	if art.Heading != "Subject matter" {
		t.Errorf("heading = %q", art.Heading)
	}

	par := findUnit(t, res, "art-1.par-1")
	if par.ParagraphNumber != "1" {
		t.Errorf("paragraph number = %q", par.ParagraphNumber)
	}
	if strings.Contains(par.Text, "1.") && strings.HasPrefix(par.Text, "1.") {
		t.Errorf("no-parag span leaked into text: %q", par.Text)
	}
	if strings.Contains(par.Text, "ICT risk management") {
		t.Errorf("nested grid text leaked into paragraph: %q", par.Text)
	}

	pt := findUnit(t, res, "art-1.par-1.pt-a")
	if pt.PointLabel != "a" || !strings.HasPrefix(pt.Text, "requirements applicable") {
		t.Errorf("point label %q text %q", pt.PointLabel, pt.Text)
	}
	sub := findUnit(t, res, "art-1.par-1.pt-a.sub-i")
	if sub.Type != types.UnitSubpoint || sub.SubpointLabel != "i" {
		t.Errorf("subpoint type %q label %q", sub.Type, sub.SubpointLabel)
	}
}

func TestConsolidatedIntroText(t *testing.T) {
	res := parse(t, consolidatedDocument)
	intro := findUnit(t, res, "art-1.intro-1")
	if intro.Type != types.UnitIntro {
		t.Errorf("intro type = %q", intro.Type)
	}
	if !strings.HasPrefix(intro.Text, "For the purposes of") {
		t.Errorf("intro text = %q", intro.Text)
	}
}

func TestConsolidatedArticleWithoutParagraphNumber(t *testing.T) {
	res := parse(t, consolidatedDocument)
	par := findUnit(t, res, "art-2.par-1")
	if par.ParagraphIndex != 1 || par.ParagraphNumber != "" {
		t.Errorf("paragraph index %d number %q", par.ParagraphIndex, par.ParagraphNumber)
	}
}

func TestConsolidatedPointsWithoutParagraphWrapper(t *testing.T) {
	doc := `<html><body>
<p id="art_3" class="title-article-norm">Article 3</p>
<div class="grid-container">
  <div class="grid-list-column-1"><span>(a)</span></div>
  <div class="grid-list-column-2"><p class="norm">entities shall maintain resilient ICT systems;</p></div>
</div>
<div class="grid-container">
  <div class="grid-list-column-1"><span>(b)</span></div>
  <div class="grid-list-column-2"><p class="norm">entities shall review their risk tolerance annually.</p></div>
</div>
</body></html>`
	res := parse(t, doc)
	ptA := findUnit(t, res, "art-3.pt-a")
	if ptA.Type != types.UnitPoint || ptA.ParentID != "art-3" {
		t.Errorf("point type %q parent %q", ptA.Type, ptA.ParentID)
	}
	if !strings.HasPrefix(ptA.Text, "entities shall maintain resilient") {
		t.Errorf("point text = %q", ptA.Text)
	}
	findUnit(t, res, "art-3.pt-b")
}

func TestValidateOrphans(t *testing.T) {
	p := &Parser{
		seen:   map[string]bool{},
		byID:   map[string]*types.Unit{},
		report: types.NewValidationReport(),
	}
	p.addUnit(&types.Unit{ID: "art-1", Type: types.UnitArticle})
	p.addUnit(&types.Unit{ID: "art-1.par-3.pt-a", Type: types.UnitPoint, ParentID: "art-1.par-3"})
	p.validate()
	if len(p.report.Orphans) != 1 {
		t.Fatalf("Orphans = %+v", p.report.Orphans)
	}
	if p.report.Orphans[0].ParentID != "art-1.par-3" {
		t.Errorf("orphan parent = %q", p.report.Orphans[0].ParentID)
	}
}

func TestValidateMismatchedLabels(t *testing.T) {
	p := &Parser{
		seen:   map[string]bool{},
		byID:   map[string]*types.Unit{},
		report: types.NewValidationReport(),
	}
	p.addUnit(&types.Unit{ID: "art-2", Type: types.UnitArticle, ArticleNumber: "2"})
	p.addUnit(&types.Unit{ID: "art-2.par-1", Type: types.UnitParagraph, ParentID: "art-2", ParagraphNumber: "1"})
	p.addUnit(&types.Unit{ID: "art-2.par-1.pt-a", Type: types.UnitPoint, ParentID: "art-2.par-1", PointLabel: "b"})
	p.validate()
	if len(p.report.MismatchedLabels) != 1 {
		t.Fatalf("MismatchedLabels = %v", p.report.MismatchedLabels)
	}
	if !strings.Contains(p.report.MismatchedLabels[0], "art-2.par-1.pt-a") {
		t.Errorf("mismatch entry = %q", p.report.MismatchedLabels[0])
	}
	if p.report.IsValid() {
		t.Error("report with mismatched labels should not be valid")
	}
}

func TestCitationPipelineRuns(t *testing.T) {
	doc := `<html><body>
<div id="art_5"><p class="oj-ti-art">Article 5</p>
  <div id="001.001">
    <p class="oj-normal">1.   Financial entities shall comply with Article 6(1) of this Regulation.</p>
  </div>
</div>
<div id="art_6"><p class="oj-ti-art">Article 6</p>
  <div id="001.001">
    <p class="oj-normal">1.   The management body shall define the risk framework.</p>
  </div>
</div>
</body></html>`
	res := parse(t, doc)
	par := findUnit(t, res, "art-5.par-1")
	if len(par.Citations) == 0 {
		t.Fatal("no citations extracted")
	}
	var found bool
	for _, c := range par.Citations {
		if c.TargetNodeID == "art-6.par-1" {
			found = true
		}
	}
	if !found {
		t.Errorf("no citation targeting art-6.par-1: %+v", par.Citations)
	}
}
