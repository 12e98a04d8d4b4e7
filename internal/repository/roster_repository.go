package repository

import (
	"context"
	"errors"
	"strconv"

	"go.uber.org/zap"

	"github.com/noah-isme/career-roadmap-api/internal/models"
	"github.com/noah-isme/career-roadmap-api/pkg/kvstore"
)

// RosterRepository owns the student roster document.
type RosterRepository struct {
	doc    *kvstore.Document[[]models.Student]
	logger *zap.Logger
}

// NewRosterRepository constructs a RosterRepository.
func NewRosterRepository(store *kvstore.Store, logger *zap.Logger) *RosterRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RosterRepository{
		doc:    kvstore.NewDocument(store, KeyStudents, models.DefaultStudents),
		logger: logger,
	}
}

// GetAll returns the roster, seeding the default students when nothing has
// been stored yet. An explicitly emptied roster stays empty.
func (r *RosterRepository) GetAll(ctx context.Context) []models.Student {
	students, ok := r.doc.Load(ctx)
	if !ok {
		if _, err := r.doc.Seed(ctx, students); err != nil && !errors.Is(err, kvstore.ErrUnavailable) {
			r.logger.Warn("seed roster failed", zap.Error(err))
		}
	}
	if students == nil {
		students = []models.Student{}
	}
	return students
}

// Get returns the student with number.
func (r *RosterRepository) Get(ctx context.Context, number int) (models.Student, bool) {
	for _, s := range r.GetAll(ctx) {
		if s.StudentNumber == number {
			return s, true
		}
	}
	return models.Student{}, false
}

// FindByName returns the first student whose name matches exactly.
func (r *RosterRepository) FindByName(ctx context.Context, name string) (models.Student, bool) {
	for _, s := range r.GetAll(ctx) {
		if s.Name == name {
			return s, true
		}
	}
	return models.Student{}, false
}

// Match returns the student whose name and decimal student number both equal
// the given strings.
func (r *RosterRepository) Match(ctx context.Context, name, number string) (models.Student, bool) {
	for _, s := range r.GetAll(ctx) {
		if s.Name == name && strconv.Itoa(s.StudentNumber) == number {
			return s, true
		}
	}
	return models.Student{}, false
}

// Add appends s unless its number is already taken.
func (r *RosterRepository) Add(ctx context.Context, s models.Student) bool {
	changed, err := r.doc.Update(ctx, func(students *[]models.Student) bool {
		for _, existing := range *students {
			if existing.StudentNumber == s.StudentNumber {
				return false
			}
		}
		*students = append(*students, s)
		return true
	})
	return r.settle("add", changed, err)
}

// Update merges patch into the student with number.
func (r *RosterRepository) Update(ctx context.Context, number int, patch models.StudentPatch) bool {
	changed, err := r.doc.Update(ctx, func(students *[]models.Student) bool {
		for i := range *students {
			if (*students)[i].StudentNumber == number {
				patch.Apply(&(*students)[i])
				return true
			}
		}
		return false
	})
	return r.settle("update", changed, err)
}

// Delete removes the student with number.
func (r *RosterRepository) Delete(ctx context.Context, number int) bool {
	changed, err := r.doc.Update(ctx, func(students *[]models.Student) bool {
		for i, s := range *students {
			if s.StudentNumber == number {
				*students = append((*students)[:i], (*students)[i+1:]...)
				return true
			}
		}
		return false
	})
	return r.settle("delete", changed, err)
}

// BulkReplace overwrites the roster with students, preserving order.
func (r *RosterRepository) BulkReplace(ctx context.Context, students []models.Student) bool {
	replacement := make([]models.Student, len(students))
	copy(replacement, students)
	changed, err := r.doc.Update(ctx, func(current *[]models.Student) bool {
		*current = replacement
		return true
	})
	return r.settle("bulk_replace", changed, err)
}

// Reset removes the roster document so the next read reseeds the defaults.
func (r *RosterRepository) Reset(ctx context.Context) bool {
	if err := r.doc.Clear(ctx); err != nil {
		return r.settle("reset", false, err)
	}
	return true
}

func (r *RosterRepository) settle(op string, changed bool, err error) bool {
	if err != nil {
		r.logger.Warn("roster write failed", zap.String("op", op), zap.Error(err))
		return false
	}
	return changed
}
