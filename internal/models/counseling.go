package models

// CounselingCategory classifies a counseling session.
type CounselingCategory string

const (
	CounselingCareer    CounselingCategory = "진로"
	CounselingAcademic  CounselingCategory = "학업"
	CounselingLife      CounselingCategory = "생활"
	CounselingEmotional CounselingCategory = "심리"
	CounselingOther     CounselingCategory = "기타"
)

// CounselingRecord is one counseling session note. Date and NextDate use
// yyyy-MM-dd; NextDate may be empty.
type CounselingRecord struct {
	ID        string             `json:"id"`
	Date      string             `json:"date"`
	Counselor string             `json:"counselor"`
	Category  CounselingCategory `json:"category"`
	Content   string             `json:"content"`
	FollowUp  string             `json:"followUp"`
	NextDate  string             `json:"nextDate"`
}

// CounselingPatch is a partial counseling update.
type CounselingPatch struct {
	Date      *string             `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Counselor *string             `json:"counselor,omitempty"`
	Category  *CounselingCategory `json:"category,omitempty" validate:"omitempty,oneof=진로 학업 생활 심리 기타"`
	Content   *string             `json:"content,omitempty"`
	FollowUp  *string             `json:"followUp,omitempty"`
	NextDate  *string             `json:"nextDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// Apply merges the patch into r.
func (patch CounselingPatch) Apply(r *CounselingRecord) {
	if patch.Date != nil {
		r.Date = *patch.Date
	}
	if patch.Counselor != nil {
		r.Counselor = *patch.Counselor
	}
	if patch.Category != nil {
		r.Category = *patch.Category
	}
	if patch.Content != nil {
		r.Content = *patch.Content
	}
	if patch.FollowUp != nil {
		r.FollowUp = *patch.FollowUp
	}
	if patch.NextDate != nil {
		r.NextDate = *patch.NextDate
	}
}

// CounselingNewestFirst orders records by date descending.
func CounselingNewestFirst(a, b CounselingRecord) bool {
	return a.Date > b.Date
}
