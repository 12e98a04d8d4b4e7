package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/noah-isme/career-roadmap-api/internal/models"
	"github.com/noah-isme/career-roadmap-api/internal/repository"
	appErrors "github.com/noah-isme/career-roadmap-api/pkg/errors"
	"github.com/noah-isme/career-roadmap-api/pkg/kvstore"
)

type sessionRoster interface {
	Match(ctx context.Context, name, number string) (models.Student, bool)
}

type sessionMarkers interface {
	Student(ctx context.Context) (*models.Student, bool)
	SetStudent(ctx context.Context, s models.Student) error
	ClearStudent(ctx context.Context) error
	Admin(ctx context.Context) (*models.AdminSession, bool)
	SetAdmin(ctx context.Context, session models.AdminSession) error
	ClearAdmin(ctx context.Context) error
}

type adminVerifier interface {
	Verify(username, password string) (repository.AdminAccount, bool)
}

// SessionConfig defines token issuing parameters.
type SessionConfig struct {
	AccessTokenSecret string
	AccessTokenExpiry time.Duration
	Issuer            string
}

// SessionService signs students and administrators in and out. Each actor
// kind has one session marker; signing in replaces it.
type SessionService struct {
	roster    sessionRoster
	markers   sessionMarkers
	admins    adminVerifier
	validator *validator.Validate
	logger    *zap.Logger
	config    SessionConfig
	now       func() time.Time
}

// NewSessionService constructs a SessionService.
func NewSessionService(roster sessionRoster, markers sessionMarkers, admins adminVerifier, validate *validator.Validate, logger *zap.Logger, config SessionConfig) *SessionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if config.AccessTokenExpiry <= 0 {
		config.AccessTokenExpiry = 24 * time.Hour
	}
	return &SessionService{
		roster:    roster,
		markers:   markers,
		admins:    admins,
		validator: validate,
		logger:    logger,
		config:    config,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// SignInStudent matches name and student number against the roster. A
// mismatch leaves the current marker untouched.
func (s *SessionService) SignInStudent(ctx context.Context, req models.StudentLoginRequest) (*models.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "이름과 학생번호를 입력해주세요.")
	}

	student, ok := s.roster.Match(ctx, req.Name, req.StudentNumber)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrStudentAuth, "")
	}
	if err := s.markers.SetStudent(ctx, student); err != nil {
		return nil, storeError(err, "failed to store student session")
	}

	claims := s.claims(models.RoleStudent, student.Name)
	claims.StudentNumber = student.StudentNumber
	claims.Subject = fmt.Sprintf("student:%d", student.StudentNumber)
	return s.respond(claims, func(resp *models.LoginResponse) { resp.Student = &student })
}

// SignOutStudent clears the student marker. Clearing an absent marker succeeds.
func (s *SessionService) SignOutStudent(ctx context.Context) error {
	if err := s.markers.ClearStudent(ctx); err != nil {
		return storeError(err, "failed to clear student session")
	}
	return nil
}

// CurrentStudent returns the stored snapshot as it was at sign-in.
func (s *SessionService) CurrentStudent(ctx context.Context) (*models.Student, bool) {
	return s.markers.Student(ctx)
}

// SignInAdmin checks credentials against the administrator store.
func (s *SessionService) SignInAdmin(ctx context.Context, req models.AdminLoginRequest) (*models.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "아이디와 비밀번호를 입력해주세요.")
	}

	account, ok := s.admins.Verify(req.Username, req.Password)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "")
	}
	session := models.AdminSession{Username: account.Username, Name: account.Name, SignedInAt: s.now()}
	if err := s.markers.SetAdmin(ctx, session); err != nil {
		return nil, storeError(err, "failed to store admin session")
	}

	claims := s.claims(models.RoleAdmin, account.Name)
	claims.Username = account.Username
	claims.Subject = "admin:" + account.Username
	return s.respond(claims, func(resp *models.LoginResponse) { resp.Admin = &session })
}

// SignOutAdmin clears the admin marker.
func (s *SessionService) SignOutAdmin(ctx context.Context) error {
	if err := s.markers.ClearAdmin(ctx); err != nil {
		return storeError(err, "failed to clear admin session")
	}
	return nil
}

// CurrentAdmin returns the signed-in administrator.
func (s *SessionService) CurrentAdmin(ctx context.Context) (*models.AdminSession, bool) {
	return s.markers.Admin(ctx)
}

// ValidateToken parses and validates an access token returning the claims.
func (s *SessionService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.AccessTokenSecret), nil
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}

	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}

	return claims, nil
}

// Authorize requires the session marker matching claims to still be present,
// so signing out or signing in another actor of the same kind revokes tokens.
func (s *SessionService) Authorize(ctx context.Context, claims *models.JWTClaims) error {
	if claims == nil {
		return appErrors.ErrUnauthorized
	}
	switch claims.Role {
	case models.RoleStudent:
		current, ok := s.markers.Student(ctx)
		if !ok || current.StudentNumber != claims.StudentNumber {
			return appErrors.Clone(appErrors.ErrUnauthorized, "session ended")
		}
	case models.RoleAdmin:
		current, ok := s.markers.Admin(ctx)
		if !ok || current.Username != claims.Username {
			return appErrors.Clone(appErrors.ErrUnauthorized, "session ended")
		}
	default:
		return appErrors.Clone(appErrors.ErrUnauthorized, "unknown role")
	}
	return nil
}

func (s *SessionService) claims(role models.Role, name string) *models.JWTClaims {
	issuedAt := s.now()
	return &models.JWTClaims{
		Role: role,
		Name: name,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.config.Issuer,
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.config.AccessTokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}
}

func (s *SessionService) respond(claims *models.JWTClaims, fill func(*models.LoginResponse)) (*models.LoginResponse, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.AccessTokenSecret))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create access token")
	}
	resp := &models.LoginResponse{
		AccessToken: signed,
		ExpiresIn:   int64(s.config.AccessTokenExpiry.Seconds()),
		IssuedAt:    claims.IssuedAt.Time,
		Role:        claims.Role,
	}
	fill(resp)
	return resp, nil
}

// storeError maps a failed document write to an HTTP-aware error.
func storeError(err error, message string) error {
	if errors.Is(err, kvstore.ErrUnavailable) {
		return appErrors.Cause(appErrors.ErrStoreUnavailable, err)
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, message)
}
