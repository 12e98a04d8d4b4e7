package bootstrap

import (
	"go.uber.org/zap"

	"github.com/noah-isme/career-roadmap-api/pkg/config"
	"github.com/noah-isme/career-roadmap-api/pkg/export"
)

// OpenPDFExporter loads the portfolio font configured by PDF_FONT_PATH. A
// missing or unreadable font falls back to the core font with a warning.
func OpenPDFExporter(cfg *config.Config, logger *zap.Logger) *export.PDFExporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.PDF.FontPath == "" {
		logger.Warn("PDF_FONT_PATH is not set; Hangul text in portfolio PDFs will not render")
		pdf, _ := export.NewPDFExporter("")
		return pdf
	}
	pdf, err := export.NewPDFExporter(cfg.PDF.FontPath)
	if err != nil {
		logger.Warn("portfolio font unavailable; Hangul text in portfolio PDFs will not render",
			zap.String("path", cfg.PDF.FontPath), zap.Error(err))
		pdf, _ = export.NewPDFExporter("")
	}
	return pdf
}
