package cv

import (
	"regexp"
	"strings"
)

type header struct {
	key string
	re  *regexp.Regexp
}

func newHeader(key, alts string) header {
	return header{key: key, re: regexp.MustCompile(`(?i)^(?:` + alts + `)\s*(?:\([^)]*\))?\s*(?:[:\-–—]\s*(.*))?$`)}
}

var analysisHeaders = []header{
	newHeader("score", `(?:overall |cv |final )?(?:score|rating)`),
	newHeader("summary", `(?:overall |executive )?summary|overview|overall impression`),
	newHeader("strengths", `(?:key )?strengths`),
	newHeader("weaknesses", `(?:key )?weaknesses|areas (?:for|of|to) improve(?:ment)?|gaps`),
	newHeader("suggestions", `suggestions|recommendations|improvements|action items`),
	newHeader("keywords", `missing keywords|keywords(?: to add)?`),
}

var tailorHeaders = []header{
	newHeader("score", `(?:fit|match|overall) score|score`),
	newHeader("summary", `tailored (?:professional )?summary|(?:professional )?summary`),
	newHeader("matched", `matched skills|matching skills|skills (?:you|that) match`),
	newHeader("missing", `missing skills|skill gaps|gaps`),
	newHeader("rewrites", `bullet (?:point )?rewrites|rewritten bullets|suggested bullets|rewrites`),
	newHeader("recommendations", `recommendations|suggestions|next steps`),
}

var (
	bulletRe = regexp.MustCompile(`^(?:[-*•]|\d+[.)])\s+(.*)$`)
	numberRe = regexp.MustCompile(`^\d+[.)]\s+`)
)

// scanSections walks reply line by line. A header line switches the current
// section; bullets and plain lines under it become its items. Inline text
// after "Header:" is the first item.
func scanSections(reply string, headers []header) (map[string][]string, bool) {
	sections := map[string][]string{}
	current := ""
	found := false

	for _, raw := range strings.Split(reply, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		if key, inline, ok := matchHeader(line, headers); ok {
			current = key
			found = true
			if _, seen := sections[key]; !seen {
				sections[key] = []string{}
			}
			if inline != "" {
				sections[key] = append(sections[key], inline)
			}
			continue
		}
		if current == "" {
			continue
		}

		item := line
		if m := bulletRe.FindStringSubmatch(line); m != nil {
			item = m[1]
		}
		item = strings.TrimSpace(strings.ReplaceAll(item, "**", ""))
		if item != "" {
			sections[current] = append(sections[current], item)
		}
	}
	return sections, found
}

func matchHeader(line string, headers []header) (string, string, bool) {
	candidate := strings.NewReplacer("**", "", "__", "").Replace(line)
	candidate = strings.TrimSpace(strings.TrimLeft(candidate, "#"))
	for _, c := range []string{candidate, numberRe.ReplaceAllString(candidate, "")} {
		for _, h := range headers {
			if m := h.re.FindStringSubmatch(c); m != nil {
				return h.key, strings.TrimSpace(m[1]), true
			}
		}
	}
	return "", "", false
}
