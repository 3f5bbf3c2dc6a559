// ABOUTME: Smart Match: exact/tolerant-cascade/none resolution of an old_string
// ABOUTME: against file content, beyond a bare strings.Count/Replace

package edit

import (
	"fmt"
	"strings"
)

// MatchKind names which stage of the cascade resolved a match.
type MatchKind int

const (
	// MatchExact means old_string was found byte-for-byte after line-ending
	// normalization only.
	MatchExact MatchKind = iota
	// MatchSmart means a tolerant normalization found a single unique region.
	MatchSmart
	// MatchNone means no stage produced a unique region.
	MatchNone
)

func (k MatchKind) String() string {
	switch k {
	case MatchExact:
		return "exact"
	case MatchSmart:
		return "smart"
	default:
		return "none"
	}
}

// MatchResult is the outcome of SmartMatch.
type MatchResult struct {
	Kind MatchKind
	// Corrected is the region of content that was actually matched, in
	// content's own original form. For MatchExact this equals the
	// (line-ending normalized) old_string passed in.
	Corrected string
	// Occurrences is the number of times Corrected appears in content.
	Occurrences int
}

// normalizeLineEndings converts CRLF and bare CR to LF, leaving tab/space
// bytes untouched.
func normalizeLineEndings(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// unescapeLiteralSequences converts a literal backslash-n / backslash-t
// (as a model might type them instead of an actual newline/tab) into the
// real control character.
func unescapeLiteralSequences(s string) string {
	s = strings.ReplaceAll(s, `\n`, "\n")
	s = strings.ReplaceAll(s, `\t`, "\t")
	return s
}

// trimLeadingWhitespace strips leading spaces/tabs from each line.
func trimLeadingWhitespace(s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimLeft(l, " \t")
	}
	return strings.Join(lines, "\n")
}

// collapseWhitespaceClass collapses any run of spaces/tabs within a line
// into a single space, so a tab-indented old_string can match a
// space-indented file region (and vice versa).
func collapseWhitespaceClass(s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		var b strings.Builder
		inRun := false
		for _, r := range l {
			if r == ' ' || r == '\t' {
				if !inRun {
					b.WriteByte(' ')
					inRun = true
				}
				continue
			}
			inRun = false
			b.WriteRune(r)
		}
		lines[i] = b.String()
	}
	return strings.Join(lines, "\n")
}

// SmartMatch resolves old_string against content through the cascade
// described in spec §4.F: exact byte match first, then a sequence of
// tolerant normalizations each tried independently against the original
// old_string, stopping at the first stage that finds exactly one
// occurrence. The returned MatchResult.Corrected is always a literal
// substring of content (after line-ending normalization), suitable for a
// direct, unambiguous replacement.
func SmartMatch(content, oldString string) MatchResult {
	content = normalizeLineEndings(content)
	oldString = normalizeLineEndings(oldString)

	if n := strings.Count(content, oldString); n > 0 {
		return MatchResult{Kind: MatchExact, Corrected: oldString, Occurrences: n}
	}

	cascade := []func(string) string{
		unescapeLiteralSequences,
		trimLeadingWhitespace,
		collapseWhitespaceClass,
	}

	for _, normalize := range cascade {
		if region, occ, ok := findUniqueNormalizedRegion(content, oldString, normalize); ok {
			return MatchResult{Kind: MatchSmart, Corrected: region, Occurrences: occ}
		}
	}

	return MatchResult{Kind: MatchNone}
}

// findUniqueNormalizedRegion slides a window of len(lines(oldString)) lines
// over content, applies normalize to both the pattern and each window, and
// reports the original (un-normalized) window text when exactly one window
// matches the normalized pattern.
func findUniqueNormalizedRegion(content, oldString string, normalize func(string) string) (region string, occurrences int, ok bool) {
	pattern := normalize(oldString)
	if pattern == "" {
		return "", 0, false
	}

	contentLines := strings.Split(content, "\n")
	patternLineCount := strings.Count(pattern, "\n") + 1

	var match string
	count := 0
	for start := 0; start+patternLineCount <= len(contentLines); start++ {
		window := strings.Join(contentLines[start:start+patternLineCount], "\n")
		if normalize(window) == pattern {
			count++
			match = window
		}
	}

	if count != 1 {
		return "", 0, false
	}
	return match, 1, true
}

// ReplaceResult is the outcome of a single-edit application.
type ReplaceResult struct {
	Content     string
	Occurrences int
}

// Apply replaces old_string with new_string in content using the Smart
// Match cascade. When replaceAll is false, only the first occurrence of
// the resolved region is replaced; occurrences is still the total count
// found. Replacement is literal text substitution, never regex.
func Apply(content, oldString, newString string, replaceAll bool) (ReplaceResult, MatchResult, error) {
	content = normalizeLineEndings(content)
	m := SmartMatch(content, oldString)
	if m.Kind == MatchNone {
		return ReplaceResult{}, m, fmt.Errorf("old_string not found in file")
	}
	if m.Occurrences > 1 && !replaceAll {
		return ReplaceResult{}, m, fmt.Errorf("old_string found %d times; set replace_all to replace all occurrences", m.Occurrences)
	}

	var out string
	if replaceAll {
		out = strings.ReplaceAll(content, m.Corrected, newString)
	} else {
		out = strings.Replace(content, m.Corrected, newString, 1)
	}

	return ReplaceResult{Content: out, Occurrences: m.Occurrences}, m, nil
}
