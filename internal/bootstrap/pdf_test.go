package bootstrap

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/noah-isme/career-roadmap-api/pkg/config"
)

func TestOpenPDFExporterWarnsWithoutFont(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)

	pdf := OpenPDFExporter(&config.Config{}, zap.New(core))
	require.NotNil(t, pdf)
	assert.False(t, pdf.HasUnicodeFont())
	require.Equal(t, 1, logs.Len())
	assert.Contains(t, logs.All()[0].Message, "PDF_FONT_PATH")

	missing := filepath.Join(t.TempDir(), "missing.ttf")
	pdf = OpenPDFExporter(&config.Config{PDF: config.PDFConfig{FontPath: missing}}, zap.New(core))
	require.NotNil(t, pdf)
	assert.False(t, pdf.HasUnicodeFont())
	require.Equal(t, 2, logs.Len())
	assert.Equal(t, missing, logs.All()[1].ContextMap()["path"])
}

func TestOpenPDFExporterLoadsFont(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	path := filepath.Join(t.TempDir(), "font.ttf")
	require.NoError(t, os.WriteFile(path, []byte("ttf bytes"), 0o600))

	pdf := OpenPDFExporter(&config.Config{PDF: config.PDFConfig{FontPath: path}}, zap.New(core))
	assert.True(t, pdf.HasUnicodeFont())
	assert.Zero(t, logs.Len())
}
