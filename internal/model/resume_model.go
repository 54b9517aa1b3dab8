package model

// Resume is the structured document the resume builder edits. It mirrors
// resume.schema.json.
type Resume struct {
	Name           string            `json:"name"`
	Headline       string            `json:"headline,omitempty"`
	Contact        ResumeContact     `json:"contact"`
	Summary        string            `json:"summary,omitempty"`
	Experience     []ResumeRole      `json:"experience,omitempty"`
	Education      []ResumeEducation `json:"education,omitempty"`
	Skills         []string          `json:"skills,omitempty"`
	Projects       []ResumeProject   `json:"projects,omitempty"`
	Certifications []string          `json:"certifications,omitempty"`
	Languages      []string          `json:"languages,omitempty"`
}

type ResumeContact struct {
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Location string `json:"location,omitempty"`
	Website  string `json:"website,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
	GitHub   string `json:"github,omitempty"`
}

type ResumeRole struct {
	Company  string   `json:"company"`
	Title    string   `json:"title"`
	Location string   `json:"location,omitempty"`
	Start    string   `json:"start,omitempty"`
	End      string   `json:"end,omitempty"`
	Bullets  []string `json:"bullets,omitempty"`
}

type ResumeEducation struct {
	Institution string   `json:"institution"`
	Degree      string   `json:"degree,omitempty"`
	Field       string   `json:"field,omitempty"`
	Start       string   `json:"start,omitempty"`
	End         string   `json:"end,omitempty"`
	Details     []string `json:"details,omitempty"`
}

type ResumeProject struct {
	Name        string   `json:"name"`
	URL         string   `json:"url,omitempty"`
	Description string   `json:"description,omitempty"`
	Stack       []string `json:"stack,omitempty"`
	Bullets     []string `json:"bullets,omitempty"`
}
