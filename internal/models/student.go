package models

import "strings"

// Parent share consent values.
const (
	ConsentYes = "Yes"
	ConsentNo  = "No"
)

// ClubSeparator joins club names in Student.ClubsJoined.
const ClubSeparator = ", "

// Departments lists the school departments offered at sign-up.
var Departments = []string{
	"경영회계과",
	"전자전기과",
	"컴퓨터소프트웨어과",
	"스마트미디어과",
	"인공지능소프트웨어과",
	"일반과",
}

// Clubs lists the clubs a student may join.
var Clubs = []string{
	"진로탐색동아리",
	"학생자치동아리",
	"봉사활동동아리",
	"문화예술동아리",
	"체육동아리",
}

// Student is one roster row. StudentNumber is unique across the roster.
type Student struct {
	StudentNumber      int    `json:"student_number"`
	Name               string `json:"name"`
	Password           string `json:"password"`
	FirstLogin         bool   `json:"first_login"`
	IsDataConfirmed    bool   `json:"is_data_confirmed"`
	Department         string `json:"department"`
	ClassName          string `json:"class_name"`
	Gender             string `json:"gender"`
	ClubsJoined        string `json:"clubs_joined"`
	ParentShareConsent string `json:"parent_share_consent"`
	Photo              string `json:"photo"`
}

// ClubList splits ClubsJoined into trimmed club names.
func (s Student) ClubList() []string {
	if strings.TrimSpace(s.ClubsJoined) == "" {
		return nil
	}
	parts := strings.Split(s.ClubsJoined, ",")
	clubs := make([]string, 0, len(parts))
	for _, part := range parts {
		if club := strings.TrimSpace(part); club != "" {
			clubs = append(clubs, club)
		}
	}
	return clubs
}

// SharesWithParents reports whether the student consented to parent sharing.
func (s Student) SharesWithParents() bool {
	return s.ParentShareConsent == ConsentYes
}

// StudentPatch carries a partial student update. Nil fields are left as-is;
// the student number itself is never patched.
type StudentPatch struct {
	Name               *string `json:"name,omitempty"`
	Password           *string `json:"password,omitempty"`
	FirstLogin         *bool   `json:"first_login,omitempty"`
	IsDataConfirmed    *bool   `json:"is_data_confirmed,omitempty"`
	Department         *string `json:"department,omitempty"`
	ClassName          *string `json:"class_name,omitempty"`
	Gender             *string `json:"gender,omitempty"`
	ClubsJoined        *string `json:"clubs_joined,omitempty"`
	ParentShareConsent *string `json:"parent_share_consent,omitempty" validate:"omitempty,oneof=Yes No"`
	Photo              *string `json:"photo,omitempty"`
}

// Apply merges the patch into s.
func (p StudentPatch) Apply(s *Student) {
	if p.Name != nil {
		s.Name = *p.Name
	}
	if p.Password != nil {
		s.Password = *p.Password
	}
	if p.FirstLogin != nil {
		s.FirstLogin = *p.FirstLogin
	}
	if p.IsDataConfirmed != nil {
		s.IsDataConfirmed = *p.IsDataConfirmed
	}
	if p.Department != nil {
		s.Department = *p.Department
	}
	if p.ClassName != nil {
		s.ClassName = *p.ClassName
	}
	if p.Gender != nil {
		s.Gender = *p.Gender
	}
	if p.ClubsJoined != nil {
		s.ClubsJoined = *p.ClubsJoined
	}
	if p.ParentShareConsent != nil {
		s.ParentShareConsent = *p.ParentShareConsent
	}
	if p.Photo != nil {
		s.Photo = *p.Photo
	}
}
