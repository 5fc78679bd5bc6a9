package query

import (
	"regexp"
	"strings"
)

// Kind buckets a free-text question into one retrieval strategy.
type Kind string

const (
	KindTemporal Kind = "temporal"
	KindEntity   Kind = "entity"
	KindStats    Kind = "stats"
	KindSemantic Kind = "semantic"
)

// Params carries the values extracted during classification.
type Params struct {
	TimeType string // set for temporal queries
	Value    string // numeric capture for "last N hours" / "N minutes ago"
	Name     string // set for entity queries
}

type temporalPattern struct {
	re       *regexp.Regexp
	timeType string
}

// Ordered: first match wins, so specific phrases come before generic ones.
var temporalPatterns = []temporalPattern{
	{regexp.MustCompile(`today`), TimeToday},
	{regexp.MustCompile(`yesterday`), TimeYesterday},
	{regexp.MustCompile(`this morning`), TimeThisMorning},
	{regexp.MustCompile(`this afternoon`), TimeThisAfternoon},
	{regexp.MustCompile(`this hour`), TimeThisHour},
	{regexp.MustCompile(`last hour`), TimeLastHour},
	{regexp.MustCompile(`last (\d+) hours?`), TimeLastNHours},
	{regexp.MustCompile(`last week`), TimeLastWeek},
	{regexp.MustCompile(`this week`), TimeThisWeek},
	{regexp.MustCompile(`(\d+) minutes? ago`), TimeMinutesAgo},
	{regexp.MustCompile(`just now`), TimeJustNow},
	{regexp.MustCompile(`recently`), TimeRecent},
}

var entityPatterns = []*regexp.Regexp{
	regexp.MustCompile(`about ([a-zA-Z]+)`),
	regexp.MustCompile(`with ([a-zA-Z]+)`),
	regexp.MustCompile(`from ([a-zA-Z]+)`),
	regexp.MustCompile(`in ([a-zA-Z]+)`),
}

// Only system-level phrases route to the stats bucket; questions like
// "how many emails did I write" must stay semantic.
var statsTerms = []string{
	"activity stats",
	"system stats",
	"how many memories",
	"total events",
	"database size",
}

// Classify deterministically buckets a query. Temporal phrasing is checked
// first, then entity phrasing gated on person-indicating words, then the
// stats whitelist; everything else is semantic.
func Classify(raw string) (Kind, Params) {
	q := strings.ToLower(strings.TrimSpace(raw))

	for _, tp := range temporalPatterns {
		m := tp.re.FindStringSubmatch(q)
		if m == nil {
			continue
		}
		p := Params{TimeType: tp.timeType}
		if len(m) > 1 {
			p.Value = m[1]
		}
		return KindTemporal, p
	}

	if strings.Contains(q, "who") || strings.Contains(q, "person") || strings.Contains(q, "email from") {
		for _, re := range entityPatterns {
			if m := re.FindStringSubmatch(q); m != nil {
				return KindEntity, Params{Name: m[1]}
			}
		}
	}

	for _, term := range statsTerms {
		if strings.Contains(q, term) {
			return KindStats, Params{}
		}
	}

	return KindSemantic, Params{}
}

// Keywords tokenizes a query for the keyword fallback stage, keeping only
// words longer than minLen characters.
func Keywords(raw string, minLen int) []string {
	var out []string
	for _, w := range strings.Fields(raw) {
		if len(w) > minLen {
			out = append(out, w)
		}
	}
	return out
}
