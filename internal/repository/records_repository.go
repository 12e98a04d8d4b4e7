package repository

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/career-roadmap-api/internal/models"
	"github.com/noah-isme/career-roadmap-api/pkg/kvstore"
)

// RecordRepository stores one kind of per-student record in a document
// shaped as student number -> records. T is the record type, P its patch.
type RecordRepository[T any, P any] struct {
	doc    *kvstore.Document[map[int][]T]
	kind   string
	logger *zap.Logger

	idOf   func(T) string
	assign func(record *T, id string, now time.Time)
	apply  func(patch P, record *T)
	less   func(a, b T) bool

	newID func() string
	now   func() time.Time
}

type (
	// ProjectRepository stores student projects in insertion order.
	ProjectRepository = RecordRepository[models.Project, models.ProjectPatch]
	// CounselingRepository keeps counseling records newest date first.
	CounselingRepository = RecordRepository[models.CounselingRecord, models.CounselingPatch]
	// GradeRepository keeps grade records by year and semester, newest first.
	GradeRepository = RecordRepository[models.GradeRecord, models.GradePatch]
)

// NewProjectRepository constructs a ProjectRepository.
func NewProjectRepository(store *kvstore.Store, logger *zap.Logger) *ProjectRepository {
	return newRecordRepository(store, KeyProjects, "project", logger,
		func(p models.Project) string { return p.ID },
		func(p *models.Project, id string, now time.Time) {
			p.ID = id
			p.CreatedAt = now
		},
		func(patch models.ProjectPatch, p *models.Project) { patch.Apply(p) },
		nil,
	)
}

// NewCounselingRepository constructs a CounselingRepository.
func NewCounselingRepository(store *kvstore.Store, logger *zap.Logger) *CounselingRepository {
	return newRecordRepository(store, KeyCounseling, "counseling", logger,
		func(r models.CounselingRecord) string { return r.ID },
		func(r *models.CounselingRecord, id string, _ time.Time) { r.ID = id },
		func(patch models.CounselingPatch, r *models.CounselingRecord) { patch.Apply(r) },
		models.CounselingNewestFirst,
	)
}

// NewGradeRepository constructs a GradeRepository.
func NewGradeRepository(store *kvstore.Store, logger *zap.Logger) *GradeRepository {
	return newRecordRepository(store, KeyGrades, "grade", logger,
		func(r models.GradeRecord) string { return r.ID },
		func(r *models.GradeRecord, id string, _ time.Time) { r.ID = id },
		func(patch models.GradePatch, r *models.GradeRecord) { patch.Apply(r) },
		models.GradeNewestFirst,
	)
}

func newRecordRepository[T any, P any](
	store *kvstore.Store,
	key, kind string,
	logger *zap.Logger,
	idOf func(T) string,
	assign func(*T, string, time.Time),
	apply func(P, *T),
	less func(a, b T) bool,
) *RecordRepository[T, P] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecordRepository[T, P]{
		doc:    kvstore.NewDocument(store, key, func() map[int][]T { return map[int][]T{} }),
		kind:   kind,
		logger: logger,
		idOf:   idOf,
		assign: assign,
		apply:  apply,
		less:   less,
		newID:  newRecordID,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// newRecordID returns a time-ordered opaque id.
func newRecordID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// List returns the records of one student, or an empty slice.
func (r *RecordRepository[T, P]) List(ctx context.Context, number int) []T {
	db, _ := r.doc.Load(ctx)
	records := db[number]
	if records == nil {
		return []T{}
	}
	return records
}

// Get returns one record from a student's partition.
func (r *RecordRepository[T, P]) Get(ctx context.Context, number int, id string) (T, bool) {
	for _, record := range r.List(ctx, number) {
		if r.idOf(record) == id {
			return record, true
		}
	}
	var zero T
	return zero, false
}

// Add assigns a fresh id, appends record to the student's partition and
// re-sorts it when the kind has an ordering.
func (r *RecordRepository[T, P]) Add(ctx context.Context, number int, record T) (T, bool) {
	r.assign(&record, r.newID(), r.now())
	_, err := r.doc.Update(ctx, func(db *map[int][]T) bool {
		if *db == nil {
			*db = map[int][]T{}
		}
		list := append((*db)[number], record)
		if r.less != nil {
			sort.SliceStable(list, func(i, j int) bool { return r.less(list[i], list[j]) })
		}
		(*db)[number] = list
		return true
	})
	if err != nil {
		r.logger.Warn("record write failed", zap.String("kind", r.kind), zap.String("op", "add"), zap.Error(err))
		var zero T
		return zero, false
	}
	return record, true
}

// Update merges patch into the matching record of that student only.
func (r *RecordRepository[T, P]) Update(ctx context.Context, number int, id string, patch P) bool {
	changed, err := r.doc.Update(ctx, func(db *map[int][]T) bool {
		list := (*db)[number]
		for i := range list {
			if r.idOf(list[i]) == id {
				r.apply(patch, &list[i])
				return true
			}
		}
		return false
	})
	return r.settle("update", changed, err)
}

// Delete removes the matching record from that student's partition.
func (r *RecordRepository[T, P]) Delete(ctx context.Context, number int, id string) bool {
	changed, err := r.doc.Update(ctx, func(db *map[int][]T) bool {
		list := (*db)[number]
		for i := range list {
			if r.idOf(list[i]) == id {
				(*db)[number] = append(list[:i], list[i+1:]...)
				return true
			}
		}
		return false
	})
	return r.settle("delete", changed, err)
}

func (r *RecordRepository[T, P]) settle(op string, changed bool, err error) bool {
	if err != nil {
		r.logger.Warn("record write failed", zap.String("kind", r.kind), zap.String("op", op), zap.Error(err))
		return false
	}
	return changed
}
