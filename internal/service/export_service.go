package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/career-roadmap-api/internal/dto"
	"github.com/noah-isme/career-roadmap-api/internal/models"
	appErrors "github.com/noah-isme/career-roadmap-api/pkg/errors"
	"github.com/noah-isme/career-roadmap-api/pkg/export"
	"github.com/noah-isme/career-roadmap-api/pkg/storage"
)

const portfolioResource = "portfolio"

type portfolioRecords interface {
	ListProjects(ctx context.Context, number int) ([]models.Project, error)
	ListCounseling(ctx context.Context, number int) ([]models.CounselingRecord, error)
	ListGrades(ctx context.Context, number int) ([]models.GradeRecord, error)
	FeedbackSummary(ctx context.Context, number int) []models.FeedbackItem
}

type pdfRenderer interface {
	Render(doc export.Document) ([]byte, error)
}

type shareSigner interface {
	Generate(subject, resource string) (string, time.Time, error)
	Parse(token string, allowExpired bool) (subject, resource string, expiresAt time.Time, err error)
}

var (
	errShareInvalid = appErrors.Clone(appErrors.ErrNotFound, "share link not found")
	errShareExpired = appErrors.Clone(appErrors.ErrForbidden, "share link expired")
)

// ExportConfig tunes portfolio export behaviour.
type ExportConfig struct {
	APIPrefix string
}

// ExportService renders student portfolios and manages parent share links.
type ExportService struct {
	students studentLookup
	records  portfolioRecords
	pdf      pdfRenderer
	signer   shareSigner
	cfg      ExportConfig
	logger   *zap.Logger
	now      func() time.Time
}

// NewExportService constructs an ExportService. A nil renderer falls back to
// an exporter without an embedded font.
func NewExportService(students studentLookup, records portfolioRecords, pdf pdfRenderer, signer shareSigner, cfg ExportConfig, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if pdf == nil {
		pdf, _ = export.NewPDFExporter("")
	}
	if cfg.APIPrefix == "" {
		cfg.APIPrefix = "/api/v1"
	}
	return &ExportService{
		students: students,
		records:  records,
		pdf:      pdf,
		signer:   signer,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
	}
}

// PortfolioPDF renders the student's profile, projects, grades and counseling.
func (s *ExportService) PortfolioPDF(ctx context.Context, number int) ([]byte, error) {
	student, ok := s.students.Get(ctx, number)
	if !ok {
		return nil, errStudentAbsent
	}
	doc, err := s.buildPortfolio(ctx, student)
	if err != nil {
		return nil, err
	}
	payload, err := s.pdf.Render(doc)
	if err != nil {
		s.logger.Error("portfolio render failed", zap.Int("student_number", number), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render portfolio")
	}
	return payload, nil
}

// Share issues a signed portfolio link. Students who did not consent to
// parent sharing cannot be shared.
func (s *ExportService) Share(ctx context.Context, number int) (dto.ShareLink, error) {
	student, ok := s.students.Get(ctx, number)
	if !ok {
		return dto.ShareLink{}, errStudentAbsent
	}
	if !student.SharesWithParents() {
		return dto.ShareLink{}, appErrors.Clone(appErrors.ErrConsentRequired, "")
	}
	token, expiresAt, err := s.signer.Generate(strconv.Itoa(number), portfolioResource)
	if err != nil {
		return dto.ShareLink{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign share link")
	}
	s.logger.Info("portfolio share link issued", zap.Int("student_number", number), zap.Time("expires_at", expiresAt))
	return dto.ShareLink{
		Token:     token,
		URL:       fmt.Sprintf("%s/share/portfolio/%s", strings.TrimRight(s.cfg.APIPrefix, "/"), token),
		ExpiresAt: expiresAt.UTC().Format(time.RFC3339),
	}, nil
}

// SharedPortfolio resolves a share token into the rendered portfolio. Consent
// is checked again so withdrawing it revokes outstanding links.
func (s *ExportService) SharedPortfolio(ctx context.Context, token string) ([]byte, int, error) {
	subject, resource, _, err := s.signer.Parse(token, false)
	if err != nil {
		if errors.Is(err, storage.ErrTokenExpired) {
			return nil, 0, errShareExpired
		}
		return nil, 0, errShareInvalid
	}
	number, err := strconv.Atoi(subject)
	if err != nil || resource != portfolioResource {
		return nil, 0, errShareInvalid
	}
	student, ok := s.students.Get(ctx, number)
	if !ok {
		return nil, 0, errShareInvalid
	}
	if !student.SharesWithParents() {
		return nil, 0, appErrors.Clone(appErrors.ErrConsentRequired, "")
	}
	payload, err := s.PortfolioPDF(ctx, number)
	if err != nil {
		return nil, 0, err
	}
	return payload, number, nil
}

// PortfolioFilename is the attachment name for a student's portfolio.
func PortfolioFilename(number int) string {
	return fmt.Sprintf("portfolio_%d.pdf", number)
}

func (s *ExportService) buildPortfolio(ctx context.Context, student models.Student) (export.Document, error) {
	projects, err := s.records.ListProjects(ctx, student.StudentNumber)
	if err != nil {
		return export.Document{}, err
	}
	grades, err := s.records.ListGrades(ctx, student.StudentNumber)
	if err != nil {
		return export.Document{}, err
	}
	counseling, err := s.records.ListCounseling(ctx, student.StudentNumber)
	if err != nil {
		return export.Document{}, err
	}

	profile := export.Section{
		Title: "학생 정보",
		Fields: []export.Field{
			{Label: "학생번호", Value: strconv.Itoa(student.StudentNumber)},
			{Label: "이름", Value: student.Name},
			{Label: "학과", Value: student.Department},
			{Label: "반", Value: student.ClassName},
			{Label: "성별", Value: student.Gender},
			{Label: "동아리", Value: strings.Join(student.ClubList(), ", ")},
		},
	}

	projectTable := &export.Table{Headers: []string{"프로젝트명", "상태", "기술스택", "등록일"}}
	for _, p := range projects {
		projectTable.Rows = append(projectTable.Rows, []string{p.Title, p.Status.Label(), p.TechStack, p.CreatedAt.Format(dateLayout)})
	}
	gradeTable := &export.Table{Headers: []string{"연도", "학기", "과목", "점수", "등급", "석차"}}
	for _, g := range grades {
		gradeTable.Rows = append(gradeTable.Rows, []string{g.Year, g.Semester, g.Subject, strconv.FormatFloat(g.Score, 'f', -1, 64), g.Grade, g.Rank})
	}
	counselingTable := &export.Table{Headers: []string{"일자", "상담자", "분류", "내용"}}
	for _, c := range counseling {
		counselingTable.Rows = append(counselingTable.Rows, []string{c.Date, c.Counselor, string(c.Category), c.Content})
	}

	var feedback []string
	for _, item := range s.records.FeedbackSummary(ctx, student.StudentNumber) {
		feedback = append(feedback, fmt.Sprintf("[%s] %s", item.ProjectTitle, item.Feedback))
	}

	return export.Document{
		Title:    fmt.Sprintf("%s 포트폴리오", student.Name),
		Subtitle: "생성일 " + s.now().Format(dateLayout),
		Sections: []export.Section{
			profile,
			{Title: "프로젝트", Table: projectTable, Empty: "등록된 프로젝트가 없습니다."},
			{Title: "AI 피드백", Paragraphs: feedback, Empty: "생성된 피드백이 없습니다."},
			{Title: "성적", Table: gradeTable, Empty: "등록된 성적이 없습니다."},
			{Title: "상담 기록", Table: counselingTable, Empty: "등록된 상담 기록이 없습니다."},
		},
	}, nil
}
