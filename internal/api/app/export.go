package app

import (
	"context"

	"linguist/internal/ts"
	"linguist/internal/usecase/exporter"
)

type ExportAPI struct{ svc *exporter.Service }

func NewExportAPI(s *exporter.Service) *ExportAPI { return &ExportAPI{svc: s} }

type ExportFileRequest struct {
	FileID         int64  `json:"file_id"`
	Locale         string `json:"locale"`
	OverrideFormat string `json:"override_format"`
	LanguageName   string `json:"language_name"`
	Fallback       bool   `json:"fallback"`
}

func (a *ExportAPI) ExportFile(ctx context.Context, req ExportFileRequest) (exporter.ExportResult, error) {
	return a.svc.ExportFile(ctx, exporter.ExportArgs{
		FileID:         req.FileID,
		Locale:         req.Locale,
		Fallback:       req.Fallback,
		OverrideFormat: req.OverrideFormat,
		LanguageName:   req.LanguageName,
	})
}

// Catalog rebuilds the stored file as a TS catalog for locale.
func (a *ExportAPI) Catalog(ctx context.Context, fileID int64, locale string) (*ts.Catalog, error) {
	return a.svc.ExportCatalog(ctx, fileID, locale)
}
