package dto

import (
	"github.com/noah-isme/career-roadmap-api/internal/models"
	"github.com/noah-isme/career-roadmap-api/pkg/export"
)

// SignUpRequest is the self-service registration form. StudentNumber is kept
// as text so a non-numeric value can be reported as such.
type SignUpRequest struct {
	StudentNumber      string   `json:"student_number" validate:"required"`
	Name               string   `json:"name" validate:"required"`
	Password           string   `json:"password" validate:"required"`
	Department         string   `json:"department" validate:"required"`
	ClassName          string   `json:"class_name" validate:"required"`
	Gender             string   `json:"gender" validate:"required"`
	Clubs              []string `json:"clubs_joined"`
	ParentShareConsent string   `json:"parent_share_consent" validate:"omitempty,oneof=Yes No"`
	// Photo is an optional data URL saved to the photo store.
	Photo string `json:"photo"`
}

// CreateStudentRequest adds a roster row from the admin console.
type CreateStudentRequest struct {
	StudentNumber      int    `json:"student_number" validate:"required,gt=0"`
	Name               string `json:"name" validate:"required"`
	Password           string `json:"password"`
	FirstLogin         *bool  `json:"first_login"`
	IsDataConfirmed    bool   `json:"is_data_confirmed"`
	Department         string `json:"department"`
	ClassName          string `json:"class_name"`
	Gender             string `json:"gender"`
	ClubsJoined        string `json:"clubs_joined"`
	ParentShareConsent string `json:"parent_share_consent" validate:"omitempty,oneof=Yes No"`
	Photo              string `json:"photo"`
}

// ImportResult reports a roster CSV import.
type ImportResult struct {
	Imported    int                 `json:"imported"`
	Students    []models.Student    `json:"students,omitempty"`
	Diagnostics []export.Diagnostic `json:"diagnostics,omitempty"`
}

// SetPhotoRequest stores a data URL for a student.
type SetPhotoRequest struct {
	Photo string `json:"photo" validate:"required"`
}
