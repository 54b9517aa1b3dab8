package cv

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

const (
	ParseModeJSON     = "json"
	ParseModeSections = "sections"
	ParseModeRaw      = "raw"
)

var ErrEmptyReply = errors.New("language model returned an empty reply")

type Analysis struct {
	Score           int            `json:"overall_score"`
	Summary         string         `json:"summary"`
	Strengths       []string       `json:"strengths"`
	Weaknesses      []string       `json:"weaknesses"`
	Suggestions     []string       `json:"suggestions"`
	MissingKeywords []string       `json:"missing_keywords"`
	SectionScores   map[string]int `json:"section_scores,omitempty"`
	ParseMode       string         `json:"parse_mode"`
}

type BulletRewrite struct {
	Original  string `json:"original"`
	Suggested string `json:"suggested"`
}

type Tailoring struct {
	FitScore        int             `json:"fit_score"`
	TailoredSummary string          `json:"tailored_summary"`
	MatchedSkills   []string        `json:"matched_skills"`
	MissingSkills   []string        `json:"missing_skills"`
	BulletRewrites  []BulletRewrite `json:"bullet_rewrites"`
	Recommendations []string        `json:"recommendations"`
	ParseMode       string          `json:"parse_mode"`
}

// ParseAnalysisReply reads a review reply. JSON is preferred; failing that
// the reply is scanned for section headers; failing that the whole reply
// becomes the summary. Only an empty reply is an error.
func ParseAnalysisReply(reply string) (Analysis, error) {
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return Analysis{}, ErrEmptyReply
	}

	if obj, ok := jsonObject(reply); ok {
		a := Analysis{
			Score:           scoreValue(firstOf(obj, "overall_score", "score", "rating")),
			Summary:         firstOf(obj, "summary", "overall_summary", "feedback").String(),
			Strengths:       stringList(firstOf(obj, "strengths")),
			Weaknesses:      stringList(firstOf(obj, "weaknesses", "areas_for_improvement")),
			Suggestions:     stringList(firstOf(obj, "suggestions", "recommendations")),
			MissingKeywords: stringList(firstOf(obj, "missing_keywords", "keywords")),
			ParseMode:       ParseModeJSON,
		}
		if scores := obj.Get("section_scores"); scores.IsObject() {
			a.SectionScores = map[string]int{}
			scores.ForEach(func(k, v gjson.Result) bool {
				a.SectionScores[k.String()] = scoreValue(v)
				return true
			})
		}
		return a, nil
	}

	sections, found := scanSections(reply, analysisHeaders)
	if !found {
		return Analysis{Summary: reply, ParseMode: ParseModeRaw}, nil
	}
	return Analysis{
		Score:           sectionScore(sections, reply),
		Summary:         strings.Join(sections["summary"], " "),
		Strengths:       sections["strengths"],
		Weaknesses:      sections["weaknesses"],
		Suggestions:     sections["suggestions"],
		MissingKeywords: splitKeywords(sections["keywords"]),
		ParseMode:       ParseModeSections,
	}, nil
}

// ParseTailorReply reads a tailoring reply with the same fallbacks as
// ParseAnalysisReply.
func ParseTailorReply(reply string) (Tailoring, error) {
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return Tailoring{}, ErrEmptyReply
	}

	if obj, ok := jsonObject(reply); ok {
		t := Tailoring{
			FitScore:        scoreValue(firstOf(obj, "fit_score", "match_score", "score")),
			TailoredSummary: firstOf(obj, "tailored_summary", "summary").String(),
			MatchedSkills:   stringList(firstOf(obj, "matched_skills", "matching_skills")),
			MissingSkills:   stringList(firstOf(obj, "missing_skills", "skill_gaps")),
			Recommendations: stringList(firstOf(obj, "recommendations", "suggestions")),
			ParseMode:       ParseModeJSON,
		}
		for _, r := range firstOf(obj, "bullet_rewrites", "rewrites").Array() {
			if r.Type == gjson.String {
				if s := strings.TrimSpace(r.String()); s != "" {
					t.BulletRewrites = append(t.BulletRewrites, BulletRewrite{Suggested: s})
				}
				continue
			}
			rw := BulletRewrite{
				Original:  strings.TrimSpace(firstOf(r, "original", "before").String()),
				Suggested: strings.TrimSpace(firstOf(r, "suggested", "after", "rewritten").String()),
			}
			if rw.Suggested != "" {
				t.BulletRewrites = append(t.BulletRewrites, rw)
			}
		}
		return t, nil
	}

	sections, found := scanSections(reply, tailorHeaders)
	if !found {
		return Tailoring{TailoredSummary: reply, ParseMode: ParseModeRaw}, nil
	}
	return Tailoring{
		FitScore:        sectionScore(sections, reply),
		TailoredSummary: strings.Join(sections["summary"], " "),
		MatchedSkills:   splitKeywords(sections["matched"]),
		MissingSkills:   splitKeywords(sections["missing"]),
		BulletRewrites:  parseRewrites(sections["rewrites"]),
		Recommendations: sections["recommendations"],
		ParseMode:       ParseModeSections,
	}, nil
}

var (
	fenceRe      = regexp.MustCompile("(?m)^\\s*```[a-zA-Z]*\\s*$")
	fencedBodyRe = regexp.MustCompile("(?s)```[a-zA-Z]*[ \\t]*\\n(.*?)```")
)

// jsonObject prefers the first fenced block holding valid JSON, then falls
// back to the outermost {...} of the whole reply.
func jsonObject(reply string) (gjson.Result, bool) {
	for _, m := range fencedBodyRe.FindAllStringSubmatch(reply, -1) {
		if obj, ok := braceSpan(m[1]); ok {
			return obj, true
		}
	}
	return braceSpan(fenceRe.ReplaceAllString(reply, ""))
}

// braceSpan parses s from its first "{" to its last "}".
func braceSpan(s string) (gjson.Result, bool) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return gjson.Result{}, false
	}
	candidate := s[start : end+1]
	if !gjson.Valid(candidate) {
		return gjson.Result{}, false
	}
	return gjson.Parse(candidate), true
}

func firstOf(obj gjson.Result, keys ...string) gjson.Result {
	for _, k := range keys {
		if r := obj.Get(k); r.Exists() && r.Type != gjson.Null {
			return r
		}
	}
	return gjson.Result{}
}

func stringList(r gjson.Result) []string {
	if !r.Exists() {
		return []string{}
	}
	if !r.IsArray() {
		if s := strings.TrimSpace(r.String()); s != "" {
			return []string{s}
		}
		return []string{}
	}
	out := make([]string, 0, len(r.Array()))
	for _, item := range r.Array() {
		if s := strings.TrimSpace(item.String()); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func scoreValue(r gjson.Result) int {
	switch r.Type {
	case gjson.Number:
		return normalizeScore(r.Float())
	case gjson.String:
		if v, ok := scoreFromText(r.String()); ok {
			return v
		}
	}
	return 0
}

// normalizeScore maps a 0-10 value to 0-100 and clamps.
func normalizeScore(v float64) int {
	if v > 0 && v <= 10 {
		v *= 10
	}
	return int(math.Round(math.Max(0, math.Min(100, v))))
}

var (
	outOf100Re = regexp.MustCompile(`(\d{1,3}(?:\.\d+)?)\s*/\s*100\b`)
	percentRe  = regexp.MustCompile(`(\d{1,3}(?:\.\d+)?)\s*%`)
	outOf10Re  = regexp.MustCompile(`(\d{1,2}(?:\.\d+)?)\s*/\s*10\b`)
	outOf5Re   = regexp.MustCompile(`\b(\d(?:\.\d+)?)\s*/\s*5\b`)
	bareNumRe  = regexp.MustCompile(`\b(\d{1,3}(?:\.\d+)?)\b`)
)

func scoreFromText(s string) (int, bool) {
	parse := func(re *regexp.Regexp) (float64, bool) {
		m := re.FindStringSubmatch(s)
		if m == nil {
			return 0, false
		}
		v, err := strconv.ParseFloat(m[1], 64)
		return v, err == nil
	}

	if v, ok := parse(outOf100Re); ok {
		return clamp(v), true
	}
	if v, ok := parse(percentRe); ok {
		return clamp(v), true
	}
	if v, ok := parse(outOf10Re); ok {
		return clamp(v * 10), true
	}
	if v, ok := parse(outOf5Re); ok {
		return clamp(v * 20), true
	}
	if v, ok := parse(bareNumRe); ok {
		return normalizeScore(v), true
	}
	return 0, false
}

func clamp(v float64) int {
	return int(math.Round(math.Max(0, math.Min(100, v))))
}

// sectionScore reads the score header, or the first "NN/100" anywhere.
func sectionScore(sections map[string][]string, reply string) int {
	if lines, ok := sections["score"]; ok {
		for _, l := range lines {
			if v, ok := scoreFromText(l); ok {
				return v
			}
		}
	}
	if m := outOf100Re.FindStringSubmatch(reply); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			return clamp(v)
		}
	}
	return 0
}

func splitKeywords(lines []string) []string {
	out := []string{}
	for _, l := range lines {
		for _, part := range strings.FieldsFunc(l, func(r rune) bool { return r == ',' || r == ';' }) {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}

var arrowRe = regexp.MustCompile(`\s*(?:->|→|=>)\s*`)

func parseRewrites(lines []string) []BulletRewrite {
	var out []BulletRewrite
	var pending string
	for _, l := range lines {
		lower := strings.ToLower(l)
		switch {
		case strings.HasPrefix(lower, "original:") || strings.HasPrefix(lower, "before:"):
			pending = strings.TrimSpace(l[strings.Index(l, ":")+1:])
		case strings.HasPrefix(lower, "suggested:") || strings.HasPrefix(lower, "after:") || strings.HasPrefix(lower, "rewritten:"):
			out = append(out, BulletRewrite{Original: pending, Suggested: strings.TrimSpace(l[strings.Index(l, ":")+1:])})
			pending = ""
		default:
			if parts := arrowRe.Split(l, 2); len(parts) == 2 {
				out = append(out, BulletRewrite{Original: strings.Trim(parts[0], `"' `), Suggested: strings.Trim(parts[1], `"' `)})
			} else {
				out = append(out, BulletRewrite{Suggested: l})
			}
		}
	}
	return out
}
