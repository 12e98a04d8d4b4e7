package repository

// Document keys shared by every deployment of the store.
const (
	KeyStudents        = "students_database"
	KeyPhotos          = "student_photos"
	KeyProjects        = "admin_student_projects"
	KeyCounseling      = "admin_student_counseling"
	KeyGrades          = "admin_student_grades"
	KeyProjectFeedback = "admin_student_project_feedback"
	KeyLoggedInStudent = "logged_in_student"
	KeyLoggedInAdmin   = "logged_in_admin"
	KeyDailyGoals      = "daily_goals"
	KeyRoadmapProgress = "dashboard_roadmap_progress"
	KeyActivities      = "dashboard_activities"
)

// DocumentKeys lists every key a client may subscribe to.
var DocumentKeys = []string{
	KeyStudents,
	KeyPhotos,
	KeyProjects,
	KeyCounseling,
	KeyGrades,
	KeyProjectFeedback,
	KeyLoggedInStudent,
	KeyLoggedInAdmin,
	KeyDailyGoals,
	KeyRoadmapProgress,
	KeyActivities,
}

// IsDocumentKey reports whether key names a known document.
func IsDocumentKey(key string) bool {
	for _, known := range DocumentKeys {
		if known == key {
			return true
		}
	}
	return false
}
