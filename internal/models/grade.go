package models

// Semester values.
const (
	FirstSemester  = "1학기"
	SecondSemester = "2학기"
)

// GradeRecord is one subject result for a school term. Year is kept as text
// (for example "2025").
type GradeRecord struct {
	ID       string  `json:"id"`
	Year     string  `json:"year"`
	Semester string  `json:"semester"`
	Subject  string  `json:"subject"`
	Score    float64 `json:"score"`
	Grade    string  `json:"grade"`
	Rank     string  `json:"rank"`
	Notes    string  `json:"notes"`
}

// GradePatch is a partial grade update.
type GradePatch struct {
	Year     *string  `json:"year,omitempty"`
	Semester *string  `json:"semester,omitempty" validate:"omitempty,oneof=1학기 2학기"`
	Subject  *string  `json:"subject,omitempty"`
	Score    *float64 `json:"score,omitempty" validate:"omitempty,gte=0,lte=100"`
	Grade    *string  `json:"grade,omitempty"`
	Rank     *string  `json:"rank,omitempty"`
	Notes    *string  `json:"notes,omitempty"`
}

// Apply merges the patch into r.
func (patch GradePatch) Apply(r *GradeRecord) {
	if patch.Year != nil {
		r.Year = *patch.Year
	}
	if patch.Semester != nil {
		r.Semester = *patch.Semester
	}
	if patch.Subject != nil {
		r.Subject = *patch.Subject
	}
	if patch.Score != nil {
		r.Score = *patch.Score
	}
	if patch.Grade != nil {
		r.Grade = *patch.Grade
	}
	if patch.Rank != nil {
		r.Rank = *patch.Rank
	}
	if patch.Notes != nil {
		r.Notes = *patch.Notes
	}
}

// GradeNewestFirst orders records by year then semester, both descending.
func GradeNewestFirst(a, b GradeRecord) bool {
	if a.Year != b.Year {
		return a.Year > b.Year
	}
	return a.Semester > b.Semester
}
