package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/career-roadmap-api/internal/repository"
	"github.com/noah-isme/career-roadmap-api/pkg/config"
	"github.com/noah-isme/career-roadmap-api/pkg/kvstore"
)

type repos struct {
	store      *kvstore.Store
	backend    *kvstore.MemoryBackend
	roster     *repository.RosterRepository
	photos     *repository.PhotoRepository
	projects   *repository.ProjectRepository
	counseling *repository.CounselingRepository
	grades     *repository.GradeRepository
	feedback   *repository.FeedbackRepository
	sessions   *repository.SessionRepository
	dashboard  *repository.DashboardRepository
}

func newRepos(t *testing.T) *repos {
	t.Helper()
	backend := kvstore.NewMemoryBackend()
	return reposOver(kvstore.New(backend, kvstore.WithNamespace("test")), backend)
}

func reposOver(store *kvstore.Store, backend *kvstore.MemoryBackend) *repos {
	return &repos{
		store:      store,
		backend:    backend,
		roster:     repository.NewRosterRepository(store, nil),
		photos:     repository.NewPhotoRepository(store, nil),
		projects:   repository.NewProjectRepository(store, nil),
		counseling: repository.NewCounselingRepository(store, nil),
		grades:     repository.NewGradeRepository(store, nil),
		feedback:   repository.NewFeedbackRepository(store, nil),
		sessions:   repository.NewSessionRepository(store),
		dashboard:  repository.NewDashboardRepository(store, nil),
	}
}

func newAdminStore(t *testing.T) *repository.AdminCredentialRepository {
	t.Helper()
	admins, err := repository.NewAdminCredentialRepository([]config.AdminCredential{{Username: "admin", Password: "admin1234", Name: "관리자"}})
	require.NoError(t, err)
	return admins
}
