// Package beatrule parses free-text cutting rules ("every 4 beats", "fast",
// "每4拍") into a beats-per-cut value for beat-synchronized editing.
package beatrule

import (
	"regexp"
	"strconv"
	"strings"
)

const (
	// DefaultBeatsPerCut is used when no pattern matches the input.
	DefaultBeatsPerCut = 8

	// MinBeatsPerCut and MaxBeatsPerCut bound accepted numeric matches.
	// Values outside the range are rejected and parsing falls through.
	MinBeatsPerCut = 1
	MaxBeatsPerCut = 64
)

// Rule is the result of parsing a beat rule string.
type Rule struct {
	BeatsPerCut    int    `json:"beats_per_cut"`
	IsDefault      bool   `json:"is_default"`
	MatchedPattern string `json:"matched_pattern,omitempty"`
}

var (
	// "8 beats", "4拍", "16 tiempo" - an integer directly followed by a unit token.
	unitRe = regexp.MustCompile(`(\d+)\s*(?:beats?|拍|tiempo)`)

	// "每4拍" - Chinese "every N beats" idiom.
	everyZhRe = regexp.MustCompile(`每\s*(\d+)\s*拍`)

	// "every 4 beats", unit token optional.
	everyEnRe = regexp.MustCompile(`every\s*(\d+)\s*(?:beats?|拍)?`)

	// "cada 16 tiempo", unit token optional.
	cadaEsRe = regexp.MustCompile(`cada\s*(\d+)\s*(?:beats?|tiempo)?`)
)

// keywordEntry maps a pace descriptor to a beats-per-cut value.
// Matching is by substring, not whole word: "make it feel fast-paced"
// still matches "fast". Order matters - the first matching key wins.
type keywordEntry struct {
	key string
	bpc int
}

var keywordTable = []keywordEntry{
	{"fast", 2},
	{"quick", 2},
	{"rapid", 2},
	{"normal", 8},
	{"medium", 8},
	{"regular", 8},
	{"slow", 16},
	{"cinematic", 16},
	{"快", 2},
	{"正常", 8},
	{"普通", 8},
	{"慢", 16},
	{"电影感", 16},
	{"rapido", 2},
	{"rápido", 2},
	{"lento", 16},
}

// Parse maps an arbitrary rule string to a Rule. It is total: any input,
// including empty or unparseable text, yields a usable result. Numeric
// patterns are tried before pace keywords because an explicit count is more
// authoritative than a vague descriptor; among numeric forms the plain
// count+unit match is tried before the every/cada idioms so the recorded
// pattern label is the tighter one.
func Parse(input string) Rule {
	normalized := strings.ToLower(strings.TrimSpace(input))
	if normalized == "" {
		return defaultRule()
	}

	for _, re := range []*regexp.Regexp{unitRe, everyZhRe, everyEnRe, cadaEsRe} {
		if rule, ok := matchNumeric(re, normalized); ok {
			return rule
		}
	}

	for _, entry := range keywordTable {
		if strings.Contains(normalized, entry.key) {
			return Rule{BeatsPerCut: entry.bpc, MatchedPattern: entry.key}
		}
	}

	return defaultRule()
}

// matchNumeric applies a numeric rule pattern. An out-of-range count is
// treated as no match so parsing falls through to lower-priority rules.
func matchNumeric(re *regexp.Regexp, input string) (Rule, bool) {
	m := re.FindStringSubmatch(input)
	if m == nil {
		return Rule{}, false
	}

	n, err := strconv.Atoi(m[1])
	if err != nil || n < MinBeatsPerCut || n > MaxBeatsPerCut {
		return Rule{}, false
	}

	return Rule{BeatsPerCut: n, MatchedPattern: strings.TrimSpace(m[0])}, true
}

func defaultRule() Rule {
	return Rule{BeatsPerCut: DefaultBeatsPerCut, IsDefault: true}
}
