package dto

// CreateGoalRequest adds a daily goal. Date defaults to today.
type CreateGoalRequest struct {
	Content string `json:"content" validate:"required"`
	Date    string `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

// UpdateRoadmapRequest edits one roadmap year.
type UpdateRoadmapRequest struct {
	Title       *string `json:"title"`
	Percentage  *int    `json:"percentage" validate:"required,gte=0,lte=100"`
	Description *string `json:"description"`
}

// ShareLink is an issued portfolio share token.
type ShareLink struct {
	Token     string `json:"token"`
	URL       string `json:"url"`
	ExpiresAt string `json:"expiresAt"`
}
