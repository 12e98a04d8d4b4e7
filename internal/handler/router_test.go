package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/career-roadmap-api/internal/repository"
	"github.com/noah-isme/career-roadmap-api/internal/service"
	"github.com/noah-isme/career-roadmap-api/pkg/config"
	"github.com/noah-isme/career-roadmap-api/pkg/kvstore"
	"github.com/noah-isme/career-roadmap-api/pkg/storage"
)

const rosterHeader = "student_number,name,password,first_login,is_data_confirmed,department,class_name,gender,clubs_joined,parent_share_consent,photo\n"

type echoGenerator struct{}

func (echoGenerator) Generate(_ context.Context, model, _ string) (string, error) {
	return "feedback from " + model, nil
}

type testEnv struct {
	router *gin.Engine
	store  *kvstore.Store
}

func newTestEnv(t *testing.T, apiKey string) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := kvstore.New(kvstore.NewMemoryBackend(), kvstore.WithNamespace("handler-test"), kvstore.WithBus(kvstore.NewBus(16)))
	roster := repository.NewRosterRepository(store, nil)
	photos := repository.NewPhotoRepository(store, nil)
	projects := repository.NewProjectRepository(store, nil)
	feedback := repository.NewFeedbackRepository(store, nil)
	dashboardRepo := repository.NewDashboardRepository(store, nil)
	admins, err := repository.NewAdminCredentialRepository([]config.AdminCredential{{Username: "admin", Password: "admin1234", Name: "관리자"}})
	require.NoError(t, err)

	sessions := service.NewSessionService(roster, repository.NewSessionRepository(store), admins, nil, nil, service.SessionConfig{AccessTokenSecret: "test-secret"})
	rosterSvc := service.NewRosterService(roster, photos, service.NewRosterCSV(config.CSVConfirmedLiteral), nil, nil)
	records := service.NewRecordsService(service.RecordsServiceParams{
		Students:   roster,
		Projects:   projects,
		Counseling: repository.NewCounselingRepository(store, nil),
		Grades:     repository.NewGradeRepository(store, nil),
		Feedback:   feedback,
		Activities: dashboardRepo,
	}, nil, nil)
	feedbackSvc := service.NewFeedbackService(echoGenerator{}, service.FeedbackConfig{APIKey: apiKey}, roster, projects, feedback, nil, nil)
	exports := service.NewExportService(roster, records, nil, storage.NewSignedURLSigner("share-secret", time.Hour), service.ExportConfig{APIPrefix: "/api/v1"}, nil)

	router := gin.New()
	Routes{
		Auth:       NewAuthHandler(sessions, rosterSvc),
		Students:   NewStudentHandler(rosterSvc),
		Photos:     NewPhotoHandler(service.NewPhotoService(photos, roster, nil)),
		Records:    NewRecordsHandler(records),
		Feedback:   NewFeedbackHandler(feedbackSvc, "/api/v1"),
		Dashboard:  NewDashboardHandler(service.NewDashboardService(roster, dashboardRepo, records, nil, nil)),
		Portfolio:  NewPortfolioHandler(exports),
		Documents:  NewDocumentHandler(store.Bus(), sessions, nil, nil),
		Authorizer: sessions,
	}.Register(router.Group("/api/v1"))
	return &testEnv{router: router, store: store}
}

type envelope struct {
	Data  json.RawMessage        `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Meta map[string]interface{} `json:"meta"`
}

func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *bytes.Reader
	switch v := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(v))
	default:
		raw, err := json.Marshal(v)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, "/api/v1"+path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return e.serve(t, req)
}

func (e *testEnv) serve(t *testing.T, req *http.Request) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		_ = json.Unmarshal(rec.Body.Bytes(), &env)
	}
	return rec, env
}

func (e *testEnv) login(t *testing.T, path string, payload map[string]string) string {
	t.Helper()
	rec, env := e.do(t, http.MethodPost, path, "", payload)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var res struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &res))
	require.NotEmpty(t, res.AccessToken)
	return res.AccessToken
}

func (e *testEnv) adminToken(t *testing.T) string {
	return e.login(t, "/auth/admin/login", map[string]string{"username": "admin", "password": "admin1234"})
}

func TestStudentSessionLifecycle(t *testing.T) {
	env := newTestEnv(t, "k")

	rec, body := env.do(t, http.MethodPost, "/auth/student/login", "", map[string]string{"name": "김민수", "studentNumber": "999"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	require.NotNil(t, body.Error)
	assert.Equal(t, "이름 또는 학생번호가 일치하지 않습니다.", body.Error.Message)

	token := env.login(t, "/auth/student/login", map[string]string{"name": "김민수", "studentNumber": "1"})
	rec, body = env.do(t, http.MethodGet, "/me/dashboard", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var dash struct {
		Student struct {
			Name string `json:"name"`
		} `json:"student"`
		Roadmap []interface{} `json:"roadmap"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &dash))
	assert.Equal(t, "김민수", dash.Student.Name)
	assert.Len(t, dash.Roadmap, 3)

	rec, _ = env.do(t, http.MethodGet, "/admin/students", token, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = env.do(t, http.MethodPost, "/auth/student/logout", "", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec, _ = env.do(t, http.MethodGet, "/me/dashboard", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	rec, _ = env.do(t, http.MethodGet, "/auth/student/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGoalsThroughHTTP(t *testing.T) {
	env := newTestEnv(t, "k")
	token := env.login(t, "/auth/student/login", map[string]string{"name": "이서연", "studentNumber": "2"})

	rec, body := env.do(t, http.MethodPost, "/me/goals", token, map[string]string{"content": "자격증 공부"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var goal struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &goal))

	rec, _ = env.do(t, http.MethodPost, "/me/goals/"+goal.ID+"/toggle", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec, body = env.do(t, http.MethodGet, "/me/activities?limit=5", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var activities []map[string]interface{}
	require.NoError(t, json.Unmarshal(body.Data, &activities))
	require.Len(t, activities, 1)
	assert.Equal(t, "goal", activities[0]["type"])

	rec, _ = env.do(t, http.MethodPut, "/me/roadmap/5", token, map[string]int{"percentage": 10})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec, _ = env.do(t, http.MethodPut, "/me/roadmap/3", token, map[string]int{"percentage": 10})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAdminRosterEndpoints(t *testing.T) {
	env := newTestEnv(t, "k")

	rec, body := env.do(t, http.MethodPost, "/auth/admin/login", "", map[string]string{"username": "admin", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	require.NotNil(t, body.Error)
	assert.Equal(t, "아이디 또는 비밀번호가 일치하지 않습니다.", body.Error.Message)

	token := env.adminToken(t)
	rec, body = env.do(t, http.MethodGet, "/admin/students", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 25, body.Meta["total"])

	rec, _ = env.do(t, http.MethodGet, "/admin/students/abc", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec, _ = env.do(t, http.MethodGet, "/admin/students/999", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = env.do(t, http.MethodPost, "/admin/students", token, map[string]interface{}{"student_number": 1, "name": "dup"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	rec, _ = env.do(t, http.MethodPatch, "/admin/students/1", token, map[string]string{"class_name": "1반"})
	assert.Equal(t, http.StatusOK, rec.Code)
	rec, _ = env.do(t, http.MethodDelete, "/admin/students/25", token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec, _ = env.do(t, http.MethodDelete, "/admin/students/25", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRosterImportExport(t *testing.T) {
	env := newTestEnv(t, "k")
	token := env.adminToken(t)

	bad := rosterHeader + "x,홍길동,,TRUE,FALSE,,,,,No,\n"
	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/students/import", strings.NewReader(bad))
	req.Header.Set("Content-Type", "text/csv")
	req.Header.Set("Authorization", "Bearer "+token)
	rec, body := env.serve(t, req)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.NotEmpty(t, body.Meta["diagnostics"])

	good := rosterHeader + "100,홍길동,pw,TRUE,FALSE,일반과,1반,남,\"체육동아리, 봉사활동동아리\",Yes,\n101,김철수,,FALSE,TRUE,일반과,2반,남,,No,\n"
	var form bytes.Buffer
	writer := multipart.NewWriter(&form)
	part, err := writer.CreateFormFile("file", "students.csv")
	require.NoError(t, err)
	_, _ = part.Write([]byte(good))
	require.NoError(t, writer.Close())
	req = httptest.NewRequest(http.MethodPost, "/api/v1/admin/students/import", &form)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	rec, body = env.serve(t, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.EqualValues(t, 2, body.Meta["imported"])

	rec, _ = env.do(t, http.MethodGet, "/admin/students/export", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "students.csv")
	assert.Equal(t, good, rec.Body.String())

	rec, _ = env.do(t, http.MethodPost, "/admin/students/reset", token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec, body = env.do(t, http.MethodGet, "/admin/students", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 25, body.Meta["total"])
}

func TestFeedbackGenerateContract(t *testing.T) {
	env := newTestEnv(t, "k")

	rec, _ := env.do(t, http.MethodPost, "/feedback/generate", "", "{not json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"요청 형식이 올바르지 않습니다."}`, rec.Body.String())

	rec, _ = env.do(t, http.MethodPost, "/feedback/generate", "", map[string]string{"projectTitle": "Site", "status": "완료", "studentName": "김민수"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"feedback":"feedback from gemini-2.5-flash"}`, rec.Body.String())

	unconfigured := newTestEnv(t, service.PlaceholderAPIKey)
	rec, _ = unconfigured.do(t, http.MethodPost, "/feedback/generate", "", map[string]string{"projectTitle": "Site"})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var res map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Contains(t, res["error"], "GEMINI_API_KEY")
	assert.NotContains(t, res, "feedback")
}

func TestFeedbackGenerateChecksCredentialBeforeBody(t *testing.T) {
	for _, key := range []string{"", service.PlaceholderAPIKey} {
		env := newTestEnv(t, key)
		rec, _ := env.do(t, http.MethodPost, "/feedback/generate", "", "{not json")
		assert.Equal(t, http.StatusInternalServerError, rec.Code, "key %q", key)
		var res map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
		assert.Contains(t, res["error"], "GEMINI_API_KEY")
	}
}

func TestProjectFeedbackAndPortfolioShare(t *testing.T) {
	env := newTestEnv(t, "k")
	token := env.adminToken(t)

	rec, body := env.do(t, http.MethodPost, "/admin/students/3/projects", token, map[string]string{"title": "Site", "status": "completed"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var project struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &project))

	rec, _ = env.do(t, http.MethodPost, "/admin/students/3/projects/"+project.ID+"/feedback", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec, body = env.do(t, http.MethodGet, "/admin/students/3/projects/"+project.ID+"/feedback", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(body.Data), "feedback from gemini-2.5-flash")

	rec, _ = env.do(t, http.MethodGet, "/admin/students/3/portfolio.pdf", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")))

	rec, _ = env.do(t, http.MethodPost, "/admin/students/3/portfolio/share", token, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec, _ = env.do(t, http.MethodPatch, "/admin/students/3", token, map[string]string{"parent_share_consent": "Yes"})
	require.Equal(t, http.StatusOK, rec.Code)
	rec, body = env.do(t, http.MethodPost, "/admin/students/3/portfolio/share", token, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	var link struct {
		URL string `json:"url"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &link))

	rec, _ = env.serve(t, httptest.NewRequest(http.MethodGet, link.URL, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "portfolio_3.pdf")

	rec, _ = env.do(t, http.MethodDelete, "/admin/students/3/projects/"+project.ID, token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec, _ = env.do(t, http.MethodGet, "/admin/students/3/projects/"+project.ID+"/feedback", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDocumentStream(t *testing.T) {
	env := newTestEnv(t, "k")
	adminToken := env.adminToken(t)
	srv := httptest.NewServer(env.router)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/ws/documents?keys=" + repository.KeyDailyGoals + "&access_token=" + adminToken
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	_, resp, _ := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/api/v1/ws/documents", nil)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	require.Eventually(t, func() bool { return env.store.Bus().Len() == 1 }, time.Second, 5*time.Millisecond)
	studentToken := env.login(t, "/auth/student/login", map[string]string{"name": "김민수", "studentNumber": "1"})
	rec, _ := env.do(t, http.MethodPost, "/me/goals", studentToken, map[string]string{"content": "stream me"})
	require.Equal(t, http.StatusCreated, rec.Code)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var change kvstore.Change
	require.NoError(t, conn.ReadJSON(&change))
	assert.Equal(t, repository.KeyDailyGoals, change.Key)
	assert.Contains(t, string(change.Value), "stream me")
}
