// Package markup holds the low-level helpers shared by the document
// walkers: label classification, list-table detection, footnote
// stripping and text extraction from EUR-Lex HTML.
package markup

import (
	"regexp"
	"strings"
)

// LabelKind classifies a list label found in the first column of a
// list-table or in a grid row.
type LabelKind string

const (
	KindParagraph LabelKind = "paragraph"
	KindNumeric   LabelKind = "numeric"
	KindSubpoint  LabelKind = "subpoint"
	KindPoint     LabelKind = "point"
	KindDash      LabelKind = "dash"
	KindUnknown   LabelKind = "unknown"
)

var (
	// "1." with nothing else: a numbered paragraph marker.
	paragraphNumRe = regexp.MustCompile(`^(\d+)\.\s*$`)
	// "(1)", "1)", "1.": a numeric list label.
	numericLabelRe = regexp.MustCompile(`^\(?(\d+)\)?[.)]?$`)
	// "(a)", "a)", "aa": an alphabetic point label.
	pointLabelRe = regexp.MustCompile(`^\(?([a-z]{1,2})\)?$`)
	// "(i)", "iv)": a roman subpoint label, validated against the
	// roman set below.
	romanLabelRe = regexp.MustCompile(`^\(?([ivxIVX]+)\)?$`)
	dashLabelRe  = regexp.MustCompile(`^[—–-]$`)
)

// romanLabels covers i through xxxix, the full range seen in practice.
var romanLabels = func() map[string]bool {
	ones := []string{"", "i", "ii", "iii", "iv", "v", "vi", "vii", "viii", "ix"}
	tens := []string{"", "x", "xx", "xxx"}
	set := make(map[string]bool)
	for _, t := range tens {
		for _, o := range ones {
			if t == "" && o == "" {
				continue
			}
			set[t+o] = true
		}
	}
	return set
}()

const quoteChars = "'‘’"

// NormalizeLabel classifies a raw list label and returns its
// normalized form. Roman subpoints are checked before alphabetic
// points so that "ii" is a subpoint, not a two-letter point. quoted
// reports whether the label was wrapped in quote characters, which
// marks quoted amendment text.
func NormalizeLabel(label string) (normalized string, kind LabelKind, quoted bool) {
	trimmed := strings.TrimSpace(label)
	unquoted := strings.Trim(trimmed, quoteChars)
	quoted = unquoted != trimmed
	unquoted = strings.TrimSpace(unquoted)

	if m := paragraphNumRe.FindStringSubmatch(unquoted); m != nil && !strings.Contains(unquoted, "(") {
		return m[1], KindParagraph, quoted
	}
	if m := numericLabelRe.FindStringSubmatch(unquoted); m != nil {
		return m[1], KindNumeric, quoted
	}
	if m := romanLabelRe.FindStringSubmatch(unquoted); m != nil {
		lower := strings.ToLower(m[1])
		if romanLabels[lower] {
			return lower, KindSubpoint, quoted
		}
	}
	if m := pointLabelRe.FindStringSubmatch(unquoted); m != nil {
		return m[1], KindPoint, quoted
	}
	if dashLabelRe.MatchString(unquoted) {
		return "—", KindDash, quoted
	}
	return unquoted, KindUnknown, quoted
}
