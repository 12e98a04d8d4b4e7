package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultStudentsSeed(t *testing.T) {
	students := DefaultStudents()
	require.Len(t, students, 25)

	seen := make(map[int]bool)
	for _, s := range students {
		assert.False(t, seen[s.StudentNumber], "duplicate number %d", s.StudentNumber)
		seen[s.StudentNumber] = true
		assert.True(t, s.FirstLogin)
		assert.False(t, s.IsDataConfirmed)
		assert.Equal(t, ConsentNo, s.ParentShareConsent)
	}

	first := students[0]
	assert.Equal(t, 1, first.StudentNumber)
	assert.Equal(t, "김민수", first.Name)
	assert.Equal(t, "1", first.Password)
	assert.Equal(t, "https://api.school.edu/photos/1.jpg", first.Photo)

	students[0].Name = "changed"
	assert.Equal(t, "김민수", DefaultStudents()[0].Name)
}

func TestStudentPatchApply(t *testing.T) {
	student := DefaultStudents()[1]
	name := "이서연B"
	confirmed := true
	StudentPatch{Name: &name, IsDataConfirmed: &confirmed}.Apply(&student)

	assert.Equal(t, 2, student.StudentNumber)
	assert.Equal(t, "이서연B", student.Name)
	assert.True(t, student.IsDataConfirmed)
	assert.Equal(t, "경영회계과", student.Department)
}

func TestStudentClubList(t *testing.T) {
	assert.Equal(t, []string{"학생자치동아리", "봉사활동동아리"}, Student{ClubsJoined: "학생자치동아리, 봉사활동동아리"}.ClubList())
	assert.Nil(t, Student{ClubsJoined: "  "}.ClubList())
}

func TestRecordOrdering(t *testing.T) {
	assert.True(t, CounselingNewestFirst(CounselingRecord{Date: "2025-03-02"}, CounselingRecord{Date: "2025-03-01"}))
	assert.False(t, CounselingNewestFirst(CounselingRecord{Date: "2025-03-01"}, CounselingRecord{Date: "2025-03-01"}))

	assert.True(t, GradeNewestFirst(GradeRecord{Year: "2025", Semester: FirstSemester}, GradeRecord{Year: "2024", Semester: SecondSemester}))
	assert.True(t, GradeNewestFirst(GradeRecord{Year: "2025", Semester: SecondSemester}, GradeRecord{Year: "2025", Semester: FirstSemester}))
}

func TestProjectStatusLabel(t *testing.T) {
	assert.Equal(t, "진행 중", ProjectInProgress.Label())
	assert.Equal(t, "custom", ProjectStatus("custom").Label())
}
