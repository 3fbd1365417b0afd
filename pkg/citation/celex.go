package citation

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/coolbeans/lexunit/pkg/types"
)

// CELEX sector-3 type codes.
var celexTypeCodes = map[types.ActType]string{
	types.ActRegulation: "R",
	types.ActDirective:  "L",
	types.ActDecision:   "D",
}

// celexID derives the sector-3 CELEX identifier for an adopted act,
// e.g. (regulation, 2016, 679) -> "32016R0679".
func celexID(actType types.ActType, year, number int) string {
	code, ok := celexTypeCodes[actType]
	if !ok {
		return ""
	}
	return fmt.Sprintf("3%04d%s%04d", year, code, number)
}

// parseActYearNumber disambiguates the two numbers of an act citation
// ("2016/679" vs "45/2001"). A four-digit value in the plausible year
// range wins; a two-digit value is 1900-based. Returns ok=false when
// neither reading is plausible.
func parseActYearNumber(part1, part2 string) (year, number int, ok bool) {
	p1, err1 := strconv.Atoi(part1)
	p2, err2 := strconv.Atoi(part2)
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}

	switch {
	case p1 > 1900 && p1 <= 2100:
		return p1, p2, true
	case p2 > 1900 && p2 <= 2100:
		return p2, p1, true
	case p1 < 100 && p2 < 1000:
		return 1900 + p1, p2, true
	case p2 < 100 && p1 >= 100:
		return 1900 + p2, p1, true
	case p1 >= 1000 && p2 < 1000:
		return p1, p2, true
	}
	return 0, 0, false
}

// normalizeActType maps an act keyword (possibly plural) to its type.
func normalizeActType(keyword string) (types.ActType, bool) {
	switch strings.ToLower(strings.TrimSuffix(strings.ToLower(keyword), "s")) {
	case "regulation":
		return types.ActRegulation, true
	case "directive":
		return types.ActDirective, true
	case "decision":
		return types.ActDecision, true
	}
	return "", false
}

// communityCELEXSuffixes are the act-number suffixes that still map to
// a CELEX identifier; pre-Lisbon pillar suffixes (JHA, CFSP) do not.
var communityCELEXSuffixes = map[string]bool{
	"":        true,
	"EU":      true,
	"EC":      true,
	"EEC":     true,
	"EURATOM": true,
}

var ordinalValues = map[string]int{
	"first": 1, "second": 2, "third": 3, "fourth": 4, "fifth": 5,
	"sixth": 6, "seventh": 7, "eighth": 8, "ninth": 9, "tenth": 10,
}

// ordinalValue maps an ordinal word to its number, 0 when unknown.
func ordinalValue(word string) int {
	return ordinalValues[strings.ToLower(word)]
}

// parseArticleLabel splits an article label like "6a" into its numeric
// part. ok is false when the label has no leading digits.
func parseArticleLabel(label string) (number int, ok bool) {
	i := 0
	for i < len(label) && label[i] >= '0' && label[i] <= '9' {
		i++
	}
	if i == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(label[:i])
	if err != nil {
		return 0, false
	}
	return n, true
}

// nodeID joins the populated addressing parts into a unit id,
// e.g. ("36", 1, 1, "b") -> "art-36.par-1.subpar-1.pt-b".
func nodeID(articleLabel string, paragraph *int, subparIndex int, point string) string {
	var parts []string
	if articleLabel != "" {
		parts = append(parts, "art-"+articleLabel)
	}
	if paragraph != nil {
		parts = append(parts, fmt.Sprintf("par-%d", *paragraph))
	}
	if subparIndex > 0 {
		parts = append(parts, fmt.Sprintf("subpar-%d", subparIndex))
	}
	if point != "" {
		parts = append(parts, "pt-"+point)
	}
	return strings.Join(parts, ".")
}

func intPtr(n int) *int { return &n }
