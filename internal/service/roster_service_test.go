package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/career-roadmap-api/internal/dto"
	"github.com/noah-isme/career-roadmap-api/internal/models"
	"github.com/noah-isme/career-roadmap-api/pkg/config"
	appErrors "github.com/noah-isme/career-roadmap-api/pkg/errors"
)

const csvHeader = "student_number,name,password,first_login,is_data_confirmed,department,class_name,gender,clubs_joined,parent_share_consent,photo\n"

func newRosterService(r *repos, mode string) *RosterService {
	return NewRosterService(r.roster, r.photos, NewRosterCSV(mode), nil, nil)
}

func signUpRequest() dto.SignUpRequest {
	return dto.SignUpRequest{
		StudentNumber:      "100",
		Name:               "홍길동",
		Password:           "pw",
		Department:         "일반과",
		ClassName:          "1반",
		Gender:             "남",
		Clubs:              []string{"체육동아리", "봉사활동동아리"},
		ParentShareConsent: models.ConsentYes,
	}
}

func TestSignUpCreatesStudent(t *testing.T) {
	r := newRepos(t)
	svc := newRosterService(r, "")
	ctx := context.Background()

	req := signUpRequest()
	req.Photo = "data:image/png;base64,AAAA"
	student, err := svc.SignUp(ctx, req)
	require.NoError(t, err)
	assert.True(t, student.FirstLogin)
	assert.False(t, student.IsDataConfirmed)
	assert.Equal(t, "체육동아리, 봉사활동동아리", student.ClubsJoined)
	assert.Empty(t, student.Photo)

	stored, ok := r.roster.Get(ctx, 100)
	require.True(t, ok)
	assert.Equal(t, student, stored)
	photo, ok := r.photos.Get(ctx, 100)
	require.True(t, ok)
	assert.Equal(t, req.Photo, photo)
}

func TestSignUpValidation(t *testing.T) {
	r := newRepos(t)
	svc := newRosterService(r, "")
	ctx := context.Background()

	cases := []struct {
		name    string
		mutate  func(*dto.SignUpRequest)
		message string
	}{
		{"missing field", func(req *dto.SignUpRequest) { req.Gender = "" }, "모든 필수 항목을 입력해주세요."},
		{"non numeric", func(req *dto.SignUpRequest) { req.StudentNumber = "abc" }, "학생번호는 양의 정수여야 합니다."},
		{"not positive", func(req *dto.SignUpRequest) { req.StudentNumber = "0" }, "학생번호는 양의 정수여야 합니다."},
		{"number taken", func(req *dto.SignUpRequest) { req.StudentNumber = "1" }, "이미 등록된 학생번호입니다."},
		{"name taken", func(req *dto.SignUpRequest) { req.Name = "김민수" }, "이미 등록된 이름입니다."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := signUpRequest()
			tc.mutate(&req)
			_, err := svc.SignUp(ctx, req)
			require.Error(t, err)
			assert.Equal(t, tc.message, appErrors.FromError(err).Message)
		})
	}
	assert.Len(t, svc.List(ctx), 25)
}

func TestRosterCRUDErrors(t *testing.T) {
	r := newRepos(t)
	svc := newRosterService(r, "")
	ctx := context.Background()

	_, err := svc.Create(ctx, dto.CreateStudentRequest{StudentNumber: 1, Name: "dup"})
	assert.True(t, errors.Is(err, appErrors.ErrConflict))
	assert.Len(t, svc.List(ctx), 25)

	_, err = svc.Get(ctx, 999)
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))

	name := "x"
	_, err = svc.Update(ctx, 999, models.StudentPatch{Name: &name})
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
	assert.True(t, errors.Is(svc.Delete(ctx, 999), appErrors.ErrNotFound))

	created, err := svc.Create(ctx, dto.CreateStudentRequest{StudentNumber: 26, Name: "새학생"})
	require.NoError(t, err)
	assert.True(t, created.FirstLogin)
	assert.Equal(t, models.ConsentNo, created.ParentShareConsent)

	updated, err := svc.Update(ctx, 26, models.StudentPatch{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "x", updated.Name)
	require.NoError(t, svc.Delete(ctx, 26))
	assert.Len(t, svc.List(ctx), 25)
}

func TestUpdateRejectsInvalidConsent(t *testing.T) {
	r := newRepos(t)
	svc := newRosterService(r, "")
	consent := "maybe"
	_, err := svc.Update(context.Background(), 1, models.StudentPatch{ParentShareConsent: &consent})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestImportReplacesRoster(t *testing.T) {
	r := newRepos(t)
	svc := newRosterService(r, "")
	ctx := context.Background()

	data := csvHeader +
		"7,A,pw,TRUE,FALSE,일반과,1반,남,\"체육동아리, 봉사활동동아리\",Yes,\n" +
		"\n" +
		"3,B,pw,false,true,일반과,2반,여,,No,\n"
	result, err := svc.Import(ctx, []byte(data))
	require.NoError(t, err)
	assert.Equal(t, 2, result.Imported)

	students := svc.List(ctx)
	require.Len(t, students, 2)
	assert.Equal(t, 7, students[0].StudentNumber)
	assert.Equal(t, "체육동아리, 봉사활동동아리", students[0].ClubsJoined)
	assert.True(t, students[0].FirstLogin)
	assert.False(t, students[0].IsDataConfirmed)
	assert.True(t, students[1].IsDataConfirmed)
}

func TestImportRejectsMalformedRows(t *testing.T) {
	r := newRepos(t)
	svc := newRosterService(r, "")
	ctx := context.Background()

	data := csvHeader +
		"x,A,pw,TRUE,FALSE,d,c,g,,Yes,\n" +
		"5,B,pw,maybe,FALSE,d,c,g,,Yes,\n" +
		"6,C,pw,TRUE,FALSE,d,c,g,체육동아리, 봉사활동동아리,Yes,\n"
	result, err := svc.Import(ctx, []byte(data))
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrCSVInvalid))
	require.Len(t, result.Diagnostics, 3)
	assert.Equal(t, 2, result.Diagnostics[0].Line)
	assert.Equal(t, "student_number", result.Diagnostics[0].Field)
	assert.Equal(t, 4, result.Diagnostics[1].Column)
	assert.Equal(t, 4, result.Diagnostics[2].Line)

	assert.Len(t, svc.List(ctx), 25)
}

func TestImportRejectsBadHeader(t *testing.T) {
	r := newRepos(t)
	svc := newRosterService(r, "")
	result, err := svc.Import(context.Background(), []byte("number,name\n1,A\n"))
	require.Error(t, err)
	require.NotEmpty(t, result.Diagnostics)
	assert.Equal(t, 1, result.Diagnostics[0].Line)
}

func TestExportImportRoundTrip(t *testing.T) {
	for _, mode := range []string{config.CSVConfirmedLiteral, config.CSVConfirmedLegacyInverted} {
		t.Run(mode, func(t *testing.T) {
			r := newRepos(t)
			svc := newRosterService(r, mode)
			ctx := context.Background()

			confirmed := true
			_, err := svc.Update(ctx, 22, models.StudentPatch{IsDataConfirmed: &confirmed})
			require.NoError(t, err)
			original := svc.List(ctx)

			body, err := svc.Export(ctx)
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(string(body), strings.TrimSuffix(csvHeader, "\n")))

			fresh := newRepos(t)
			_, err = newRosterService(fresh, mode).Import(ctx, body)
			require.NoError(t, err)
			assert.Equal(t, original, fresh.roster.GetAll(ctx))
		})
	}
}

func TestLegacyInvertedConfirmedColumn(t *testing.T) {
	students, diagnostics := NewRosterCSV(config.CSVConfirmedLegacyInverted).Decode([]byte(csvHeader +
		"1,A,pw,TRUE,FALSE,d,c,g,,Yes,\n" +
		"2,B,pw,TRUE,TRUE,d,c,g,,Yes,\n" +
		"3,C,pw,TRUE,false,d,c,g,,Yes,\n" +
		"4,D,pw,TRUE,true,d,c,g,,Yes,\n"))
	require.Empty(t, diagnostics)
	require.Len(t, students, 4)
	assert.True(t, students[0].IsDataConfirmed)
	assert.False(t, students[1].IsDataConfirmed)
	assert.False(t, students[2].IsDataConfirmed)
	assert.False(t, students[3].IsDataConfirmed)

	literal, diagnostics := NewRosterCSV(config.CSVConfirmedLiteral).Decode([]byte(csvHeader + "3,C,pw,TRUE,true,d,c,g,,Yes,\n"))
	require.Empty(t, diagnostics)
	assert.True(t, literal[0].IsDataConfirmed)
}

func TestResetReseeds(t *testing.T) {
	r := newRepos(t)
	svc := newRosterService(r, "")
	ctx := context.Background()

	require.True(t, r.roster.BulkReplace(ctx, []models.Student{}))
	assert.Empty(t, svc.List(ctx))
	require.NoError(t, svc.Reset(ctx))
	assert.Len(t, svc.List(ctx), 25)
}
