package repository

import (
	"context"

	"github.com/noah-isme/career-roadmap-api/internal/models"
	"github.com/noah-isme/career-roadmap-api/pkg/kvstore"
)

// SessionRepository persists the student and admin session markers. The two
// markers are independent documents.
type SessionRepository struct {
	student *kvstore.Document[*models.Student]
	admin   *kvstore.Document[*models.AdminSession]
}

// NewSessionRepository constructs a SessionRepository.
func NewSessionRepository(store *kvstore.Store) *SessionRepository {
	return &SessionRepository{
		student: kvstore.NewDocument[*models.Student](store, KeyLoggedInStudent, nil),
		admin:   kvstore.NewDocument[*models.AdminSession](store, KeyLoggedInAdmin, nil),
	}
}

// Student returns the signed-in student snapshot.
func (r *SessionRepository) Student(ctx context.Context) (*models.Student, bool) {
	snapshot, _ := r.student.Load(ctx)
	return snapshot, snapshot != nil
}

// SetStudent stores the student snapshot.
func (r *SessionRepository) SetStudent(ctx context.Context, s models.Student) error {
	return r.student.Save(ctx, &s)
}

// ClearStudent removes the student marker.
func (r *SessionRepository) ClearStudent(ctx context.Context) error {
	return r.student.Clear(ctx)
}

// Admin returns the signed-in administrator.
func (r *SessionRepository) Admin(ctx context.Context) (*models.AdminSession, bool) {
	session, _ := r.admin.Load(ctx)
	return session, session != nil
}

// SetAdmin stores the admin marker.
func (r *SessionRepository) SetAdmin(ctx context.Context, session models.AdminSession) error {
	return r.admin.Save(ctx, &session)
}

// ClearAdmin removes the admin marker.
func (r *SessionRepository) ClearAdmin(ctx context.Context) error {
	return r.admin.Clear(ctx)
}
