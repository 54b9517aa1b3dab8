package cv_test

import (
	"strings"
	"testing"

	"github.com/fadilmartias/careerhub/internal/cv"
	"github.com/stretchr/testify/assert"
)

const sampleCV = `John Doe
john.doe@example.com | +62 812 3456 7890 | linkedin.com/in/johndoe

## Summary
Backend engineer with six years of experience building APIs in Go and Python for fintech products.

**Experience:**
Senior Backend Engineer, Acme Corp  Jan 2020 - Present
- Built payment services handling two million requests per day
- Led migration from a monolith to microservices on Kubernetes

Education
B.Sc. Computer Science, University of Indonesia 2012 - 2016

SKILLS
Go, PostgreSQL, Redis, Kubernetes, AWS, gRPC`

func TestClassify_CV(t *testing.T) {
	c := cv.Classify(sampleCV)

	assert.True(t, c.IsCV, c.Reason)
	assert.Equal(t, []string{"education", "experience", "skills", "summary"}, c.Sections)
	assert.ElementsMatch(t, []string{"email", "phone", "profile_url", "date_range"}, c.Signals)
	assert.Equal(t, 14, c.Score)
}

func TestClassify_TooShort(t *testing.T) {
	c := cv.Classify("Experience\nEducation\nhello@example.com")
	assert.False(t, c.IsCV)
	assert.Contains(t, c.Reason, "too short")
	assert.Zero(t, c.Score)
}

func TestClassify_Invoice(t *testing.T) {
	text := `Invoice No: INV-2024-0042
Bill to: PT Example Indonesia, Jalan Sudirman 10, Jakarta
Description of services rendered during the month of March including consulting,
hosting and support hours as agreed in the signed purchase order.
Subtotal 10.000.000 Tax 1.100.000 Total due 11.100.000
Payment is due within thirty days. Terms and conditions apply to late payments.`

	c := cv.Classify(text)
	assert.False(t, c.IsCV)
	assert.Less(t, c.Score, 0)
	assert.Contains(t, c.Signals, "not_cv:invoice")
	assert.Contains(t, c.Signals, "not_cv:purchase order")
	assert.Contains(t, c.Signals, "not_cv:terms")
}

func TestClassify_AcademicPaper(t *testing.T) {
	text := `Abstract
We study the effect of retrieval augmented generation on the accuracy of automated resume screening
systems across several thousand anonymised applications collected from public job boards.

Introduction
Automated screening has become common in recruiting pipelines and raises fairness questions that we
examine in detail in the following sections of this paper.

References
[1] Smith, J. Screening at scale. 2021.`

	c := cv.Classify(text)
	assert.False(t, c.IsCV)
	assert.Contains(t, c.Signals, "not_cv:academic paper")
	assert.Equal(t, "document does not contain enough CV sections", c.Reason)
}

func TestClassify_SectionsWithoutContactStillNeedScore(t *testing.T) {
	text := "Skills\n" + strings.Repeat("teamwork communication ", 20) + "\nLanguages\nEnglish Indonesian"
	c := cv.Classify(text)
	assert.Equal(t, []string{"languages", "skills"}, c.Sections)
	assert.Equal(t, 4, c.Score)
	assert.False(t, c.IsCV)
	assert.Equal(t, "document does not look like a CV", c.Reason)
}
