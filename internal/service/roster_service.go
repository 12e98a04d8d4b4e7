package service

import (
	"context"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/career-roadmap-api/internal/dto"
	"github.com/noah-isme/career-roadmap-api/internal/models"
	appErrors "github.com/noah-isme/career-roadmap-api/pkg/errors"
)

type rosterStore interface {
	GetAll(ctx context.Context) []models.Student
	Get(ctx context.Context, number int) (models.Student, bool)
	FindByName(ctx context.Context, name string) (models.Student, bool)
	Add(ctx context.Context, s models.Student) bool
	Update(ctx context.Context, number int, patch models.StudentPatch) bool
	Delete(ctx context.Context, number int) bool
	BulkReplace(ctx context.Context, students []models.Student) bool
	Reset(ctx context.Context) bool
}

type photoWriter interface {
	Set(ctx context.Context, number int, data string) bool
}

var (
	errWriteFailed   = appErrors.Clone(appErrors.ErrStoreUnavailable, "저장에 실패했습니다. 다시 시도해주세요.")
	errSignUpMissing = appErrors.Clone(appErrors.ErrValidation, "모든 필수 항목을 입력해주세요.")
	errSignUpNumber  = appErrors.Clone(appErrors.ErrValidation, "학생번호는 양의 정수여야 합니다.")
	errNumberTaken   = appErrors.Clone(appErrors.ErrConflict, "이미 등록된 학생번호입니다.")
	errNameTaken     = appErrors.Clone(appErrors.ErrConflict, "이미 등록된 이름입니다.")
	errSignUpFailed  = appErrors.Clone(appErrors.ErrStoreUnavailable, "회원가입에 실패했습니다. 다시 시도해주세요.")
	errStudentAbsent = appErrors.Clone(appErrors.ErrNotFound, "student not found")
)

// RosterService implements roster management and self-service sign-up.
type RosterService struct {
	roster    rosterStore
	photos    photoWriter
	codec     *RosterCSV
	validator *validator.Validate
	logger    *zap.Logger
}

// NewRosterService constructs a RosterService.
func NewRosterService(roster rosterStore, photos photoWriter, codec *RosterCSV, validate *validator.Validate, logger *zap.Logger) *RosterService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if codec == nil {
		codec = NewRosterCSV("")
	}
	return &RosterService{roster: roster, photos: photos, codec: codec, validator: validate, logger: logger}
}

// List returns every student in roster order.
func (s *RosterService) List(ctx context.Context) []models.Student {
	return s.roster.GetAll(ctx)
}

// Get returns one student.
func (s *RosterService) Get(ctx context.Context, number int) (models.Student, error) {
	student, ok := s.roster.Get(ctx, number)
	if !ok {
		return models.Student{}, errStudentAbsent
	}
	return student, nil
}

// Create adds a student from the admin console.
func (s *RosterService) Create(ctx context.Context, req dto.CreateStudentRequest) (models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.Student{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}
	if _, exists := s.roster.Get(ctx, req.StudentNumber); exists {
		return models.Student{}, errNumberTaken
	}

	firstLogin := true
	if req.FirstLogin != nil {
		firstLogin = *req.FirstLogin
	}
	consent := req.ParentShareConsent
	if consent == "" {
		consent = models.ConsentNo
	}
	student := models.Student{
		StudentNumber:      req.StudentNumber,
		Name:               req.Name,
		Password:           req.Password,
		FirstLogin:         firstLogin,
		IsDataConfirmed:    req.IsDataConfirmed,
		Department:         req.Department,
		ClassName:          req.ClassName,
		Gender:             req.Gender,
		ClubsJoined:        req.ClubsJoined,
		ParentShareConsent: consent,
		Photo:              req.Photo,
	}
	if !s.roster.Add(ctx, student) {
		return models.Student{}, errWriteFailed
	}
	return student, nil
}

// SignUp registers a new student. The number and the name must both be
// unused. A supplied photo goes to the photo store, not the roster row.
func (s *RosterService) SignUp(ctx context.Context, req dto.SignUpRequest) (models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.Student{}, errSignUpMissing
	}
	number, err := strconv.Atoi(strings.TrimSpace(req.StudentNumber))
	if err != nil || number <= 0 {
		return models.Student{}, errSignUpNumber
	}
	if _, exists := s.roster.Get(ctx, number); exists {
		return models.Student{}, errNumberTaken
	}
	if _, exists := s.roster.FindByName(ctx, req.Name); exists {
		return models.Student{}, errNameTaken
	}

	consent := req.ParentShareConsent
	if consent == "" {
		consent = models.ConsentNo
	}
	student := models.Student{
		StudentNumber:      number,
		Name:               req.Name,
		Password:           req.Password,
		FirstLogin:         true,
		IsDataConfirmed:    false,
		Department:         req.Department,
		ClassName:          req.ClassName,
		Gender:             req.Gender,
		ClubsJoined:        strings.Join(req.Clubs, models.ClubSeparator),
		ParentShareConsent: consent,
	}
	if !s.roster.Add(ctx, student) {
		return models.Student{}, errSignUpFailed
	}
	if req.Photo != "" && !s.photos.Set(ctx, number, req.Photo) {
		s.logger.Warn("sign-up photo not saved", zap.Int("student_number", number))
	}
	return student, nil
}

// Update merges patch into the student.
func (s *RosterService) Update(ctx context.Context, number int, patch models.StudentPatch) (models.Student, error) {
	if err := s.validator.Struct(patch); err != nil {
		return models.Student{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student patch")
	}
	if _, exists := s.roster.Get(ctx, number); !exists {
		return models.Student{}, errStudentAbsent
	}
	if !s.roster.Update(ctx, number, patch) {
		return models.Student{}, errWriteFailed
	}
	return s.Get(ctx, number)
}

// Delete removes the student. Photos and extended records are kept.
func (s *RosterService) Delete(ctx context.Context, number int) error {
	if _, exists := s.roster.Get(ctx, number); !exists {
		return errStudentAbsent
	}
	if !s.roster.Delete(ctx, number) {
		return errWriteFailed
	}
	return nil
}

// Import replaces the roster with the rows of a CSV document. Nothing is
// written when any row is malformed; the diagnostics are returned instead.
func (s *RosterService) Import(ctx context.Context, data []byte) (dto.ImportResult, error) {
	students, diagnostics := s.codec.Decode(data)
	if len(diagnostics) > 0 {
		s.logger.Warn("roster import rejected", zap.Int("diagnostics", len(diagnostics)))
		return dto.ImportResult{Diagnostics: diagnostics}, appErrors.Clone(appErrors.ErrCSVInvalid, "")
	}
	if !s.roster.BulkReplace(ctx, students) {
		return dto.ImportResult{}, appErrors.Clone(appErrors.ErrStoreUnavailable, "업로드에 실패했습니다.")
	}
	s.logger.Info("roster imported", zap.Int("students", len(students)))
	return dto.ImportResult{Imported: len(students), Students: students}, nil
}

// Export renders the roster as CSV.
func (s *RosterService) Export(ctx context.Context) ([]byte, error) {
	body, err := s.codec.Encode(s.roster.GetAll(ctx))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render roster csv")
	}
	return body, nil
}

// Reset deletes the roster document; the next read reseeds the defaults.
func (s *RosterService) Reset(ctx context.Context) error {
	if !s.roster.Reset(ctx) {
		return errWriteFailed
	}
	return nil
}
