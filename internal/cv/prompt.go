package cv

import (
	"fmt"
	"strings"
)

type PromptParts struct {
	System    string
	User      string
	Truncated bool
}

const analysisSystem = `You are an experienced recruiter and career coach reviewing CVs.
Be specific and constructive. Answer with a single JSON object and nothing else.`

const analysisSchema = `{
  "overall_score": <integer 0-100>,
  "summary": "<two or three sentences on the overall impression>",
  "strengths": ["<strength>", ...],
  "weaknesses": ["<weakness>", ...],
  "suggestions": ["<concrete, actionable improvement>", ...],
  "missing_keywords": ["<keyword recruiters would expect>", ...],
  "section_scores": {
    "experience": <integer 0-100>,
    "education": <integer 0-100>,
    "skills": <integer 0-100>,
    "formatting": <integer 0-100>
  }
}`

const tailorSystem = `You are an expert resume writer who tailors CVs to job postings.
Never invent experience the candidate does not have. Answer with a single JSON object and nothing else.`

const tailorSchema = `{
  "fit_score": <integer 0-100, how well the CV fits the job>,
  "tailored_summary": "<professional summary rewritten for this job>",
  "matched_skills": ["<skill from the job the CV already shows>", ...],
  "missing_skills": ["<skill the job asks for that the CV lacks>", ...],
  "bullet_rewrites": [
    {"original": "<bullet from the CV>", "suggested": "<rewritten bullet>"}
  ],
  "recommendations": ["<what to change before applying>", ...]
}`

// BuildAnalysisPrompt asks for a general review of the CV, optionally
// against a target role. The CV is cut to maxTokens.
func BuildAnalysisPrompt(text, targetRole string, maxTokens int) PromptParts {
	cvText, truncated := TruncateToTokens(text, maxTokens)

	var b strings.Builder
	b.WriteString("Review the CV below")
	if role := strings.TrimSpace(targetRole); role != "" {
		fmt.Fprintf(&b, " for a candidate applying to %q roles", role)
	}
	b.WriteString(".\n\nReturn your answer STRICTLY in JSON format with this schema:\n")
	b.WriteString(analysisSchema)
	b.WriteString("\n\nCV:\n")
	b.WriteString(cvText)
	if truncated {
		b.WriteString("\n[CV truncated]")
	}

	return PromptParts{System: analysisSystem, User: b.String(), Truncated: truncated}
}

// BuildTailorPrompt asks for a tailoring plan against one job description.
// The job description gets a third of the budget, the CV the rest.
func BuildTailorPrompt(text, jobDescription string, maxTokens int) PromptParts {
	jdBudget := maxTokens / 3
	jd, jdTruncated := TruncateToTokens(strings.TrimSpace(jobDescription), jdBudget)
	cvText, cvTruncated := TruncateToTokens(text, maxTokens-jdBudget)

	var b strings.Builder
	b.WriteString("Tailor the CV below to the job description.\n\n")
	b.WriteString("Return your answer STRICTLY in JSON format with this schema:\n")
	b.WriteString(tailorSchema)
	b.WriteString("\n\nJob description:\n")
	b.WriteString(jd)
	b.WriteString("\n\nCV:\n")
	b.WriteString(cvText)
	if cvTruncated {
		b.WriteString("\n[CV truncated]")
	}

	return PromptParts{System: tailorSystem, User: b.String(), Truncated: cvTruncated || jdTruncated}
}
