package cv

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
)

const (
	minChars       = 100
	minWords       = 30
	scoreThreshold = 6
	minSections    = 2
)

// Classification is the outcome of the "is this a CV" heuristic.
type Classification struct {
	IsCV     bool     `json:"is_cv"`
	Score    int      `json:"score"`
	Sections []string `json:"sections"`
	Signals  []string `json:"signals"`
	Reason   string   `json:"reason"`
}

var sectionHeadings = map[string]*regexp.Regexp{
	"experience":     heading(`(?:work |professional |relevant )?experience|employment(?: history)?|work history|career history`),
	"education":      heading(`education(?:al background)?|academic (?:background|history)|qualifications`),
	"skills":         heading(`(?:technical |core |key |hard |soft )?skills(?: (?:&|and) (?:tools|technologies|abilities))?|core competencies|competencies|tech stack`),
	"projects":       heading(`(?:personal |academic |selected |key )?projects`),
	"certifications": heading(`certifications?|certificates?|licen[cs]es(?: (?:&|and) certifications)?|courses`),
	"summary":        heading(`(?:professional |career |executive )?(?:summary|profile|objective)|about me`),
	"languages":      heading(`languages?`),
	"achievements":   heading(`(?:key )?achievements|accomplishments`),
	"internship":     heading(`internships?(?: experience)?`),
	"volunteer":      heading(`volunteer(?:ing)?(?: (?:experience|work))?`),
	"references":     heading(`references?`),
	"awards":         heading(`awards?(?: (?:&|and) honou?rs)?|honou?rs(?: (?:&|and) awards)?`),
}

func heading(alts string) *regexp.Regexp {
	return regexp.MustCompile(`^(?:` + alts + `)$`)
}

var (
	emailRe      = regexp.MustCompile(`(?i)[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}`)
	phoneRe      = regexp.MustCompile(`\+?\(?\d[\d ().\-]{7,}\d`)
	profileURLRe = regexp.MustCompile(`(?i)(?:linkedin\.com/|github\.com/|gitlab\.com/|behance\.net/|dribbble\.com/|\bportfolio\b)`)
	dateRangeRe  = regexp.MustCompile(`(?i)\b(?:(?:jan|feb|mar|apr|may|jun|jul|aug|sep|sept|oct|nov|dec)[a-z]*\.?\s+|\d{1,2}/)?(?:19|20)\d{2}\s*(?:-|–|—|to|until)\s*(?:(?:(?:jan|feb|mar|apr|may|jun|jul|aug|sep|sept|oct|nov|dec)[a-z]*\.?\s+|\d{1,2}/)?(?:19|20)\d{2}|present|current|now|today)\b`)
)

var nonCVMarkers = map[string]*regexp.Regexp{
	"invoice":           regexp.MustCompile(`(?i)\binvoice\s*(?:no|number|#|date)`),
	"purchase order":    regexp.MustCompile(`(?i)\bpurchase order\b`),
	"table of contents": regexp.MustCompile(`(?i)\btable of contents\b`),
	"chapter":           regexp.MustCompile(`(?im)^\s*chapter\s+(?:\d+|[ivx]+)\b`),
	"terms":             regexp.MustCompile(`(?i)\bterms (?:and|&) conditions\b`),
	"letter":            regexp.MustCompile(`(?i)\bdear (?:sir|madam|sir or madam|hiring manager)\b`),
	"placeholder":       regexp.MustCompile(`(?i)\blorem ipsum\b`),
}

// Classify scores text on CV-typical structure: section headings, contact
// details and date ranges count for it, markers of other document kinds
// count against it.
func Classify(text string) Classification {
	text = strings.TrimSpace(text)
	if len([]rune(text)) < minChars || len(strings.Fields(text)) < minWords {
		return Classification{Reason: "document is too short to be a CV", Sections: []string{}, Signals: []string{}}
	}

	c := Classification{Sections: findSections(text), Signals: []string{}}
	c.Score += 2 * len(c.Sections)

	if emailRe.MatchString(text) {
		c.Score += 2
		c.Signals = append(c.Signals, "email")
	}
	if hasPhone(text) {
		c.Score++
		c.Signals = append(c.Signals, "phone")
	}
	if profileURLRe.MatchString(text) {
		c.Score++
		c.Signals = append(c.Signals, "profile_url")
	}
	if dateRangeRe.MatchString(text) {
		c.Score += 2
		c.Signals = append(c.Signals, "date_range")
	}

	markers := findMarkers(text)
	c.Score -= 3 * len(markers)
	for _, m := range markers {
		c.Signals = append(c.Signals, "not_cv:"+m)
	}

	switch {
	case len(c.Sections) < minSections:
		c.Reason = "document does not contain enough CV sections"
	case c.Score < scoreThreshold:
		c.Reason = "document does not look like a CV"
	default:
		c.IsCV = true
		c.Reason = "document looks like a CV"
	}
	return c
}

func findSections(text string) []string {
	found := map[string]bool{}
	for _, line := range strings.Split(text, "\n") {
		h := normalizeHeading(line)
		if h == "" || len(h) > 40 {
			continue
		}
		for name, re := range sectionHeadings {
			if re.MatchString(h) {
				found[name] = true
			}
		}
	}

	sections := make([]string, 0, len(found))
	for name := range found {
		sections = append(sections, name)
	}
	sort.Strings(sections)
	return sections
}

// normalizeHeading lowercases a line and trims decoration such as
// "## ", "**", "•" and a trailing colon.
func normalizeHeading(line string) string {
	h := strings.ToLower(strings.TrimSpace(line))
	h = strings.TrimFunc(h, func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	return strings.Join(strings.Fields(h), " ")
}

func hasPhone(text string) bool {
	for _, m := range phoneRe.FindAllString(text, -1) {
		digits := 0
		for _, r := range m {
			if r >= '0' && r <= '9' {
				digits++
			}
		}
		if digits >= 9 && digits <= 15 {
			return true
		}
	}
	return false
}

func findMarkers(text string) []string {
	var markers []string
	for name, re := range nonCVMarkers {
		if re.MatchString(text) {
			markers = append(markers, name)
		}
	}

	// an abstract followed by an introduction is a paper, even with references
	var abstract, intro bool
	for _, line := range strings.Split(text, "\n") {
		switch normalizeHeading(line) {
		case "abstract":
			abstract = true
		case "introduction":
			intro = true
		}
	}
	if abstract && intro {
		markers = append(markers, "academic paper")
	}

	sort.Strings(markers)
	return markers
}
