package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/career-roadmap-api/internal/repository"
	"github.com/noah-isme/career-roadmap-api/internal/service"
	"github.com/noah-isme/career-roadmap-api/pkg/config"
	"github.com/noah-isme/career-roadmap-api/pkg/kvstore"
)

func newRoster() *service.RosterService {
	store := kvstore.New(kvstore.NewMemoryBackend())
	return service.NewRosterService(
		repository.NewRosterRepository(store, nil),
		repository.NewPhotoRepository(store, nil),
		service.NewRosterCSV(config.CSVConfirmedLiteral),
		nil,
		nil,
	)
}

func TestRunImportExportReset(t *testing.T) {
	ctx := context.Background()
	roster := newRoster()
	dir := t.TempDir()

	csvPath := filepath.Join(dir, "in.csv")
	content := strings.Join(service.RosterCSVHeaders, ",") + "\n7,홍길동,pw,TRUE,FALSE,일반과,1반,남,,No,\n"
	require.NoError(t, os.WriteFile(csvPath, []byte(content), 0o600))

	var out bytes.Buffer
	require.NoError(t, run(ctx, []string{"import", "-file", csvPath}, roster, &out))
	assert.Contains(t, out.String(), "imported 1 students")

	out.Reset()
	require.NoError(t, run(ctx, []string{"export"}, roster, &out))
	assert.Equal(t, content, out.String())

	outPath := filepath.Join(dir, "out.csv")
	out.Reset()
	require.NoError(t, run(ctx, []string{"export", "-out", outPath}, roster, &out))
	written, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, content, string(written))

	out.Reset()
	require.NoError(t, run(ctx, []string{"reset"}, roster, &out))
	assert.Len(t, roster.List(ctx), 25)
}

func TestRunImportReportsDiagnostics(t *testing.T) {
	roster := newRoster()
	csvPath := filepath.Join(t.TempDir(), "bad.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte(strings.Join(service.RosterCSVHeaders, ",")+"\nabc,x,,TRUE,FALSE,,,,,No,\n"), 0o600))

	var out bytes.Buffer
	err := run(context.Background(), []string{"import", "-file", csvPath}, roster, &out)
	require.Error(t, err)
	assert.Contains(t, out.String(), "line 2")
	assert.Len(t, roster.List(context.Background()), 25)
}

func TestRunRejectsUnknownCommands(t *testing.T) {
	roster := newRoster()
	assert.Error(t, run(context.Background(), nil, roster, &bytes.Buffer{}))
	assert.Error(t, run(context.Background(), []string{"drop"}, roster, &bytes.Buffer{}))
	assert.Error(t, run(context.Background(), []string{"import"}, roster, &bytes.Buffer{}))
}
