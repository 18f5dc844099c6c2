package app

import (
	"context"
	"time"

	"linguist/internal/ports"
	"linguist/internal/usecase/jobs"
)

type JobsAPI struct {
	r         *jobs.Runner
	repo      ports.JobRepository
	providers ports.ProviderRepository
}

func NewJobsAPI(r *jobs.Runner, repo ports.JobRepository, providers ports.ProviderRepository) *JobsAPI {
	return &JobsAPI{r: r, repo: repo, providers: providers}
}

type TranslateFileRequest struct {
	ProjectID  int64    `json:"project_id"`
	ProviderID int64    `json:"provider_id"`
	FileID     int64    `json:"file_id"`
	Locales    []string `json:"locales"`
	SourceLang string   `json:"source_lang"`
	Model      string   `json:"model"`
}

func (req TranslateFileRequest) params() jobs.TranslateFileParams {
	return jobs.TranslateFileParams{FileID: req.FileID, TargetLocales: req.Locales, SourceLang: req.SourceLang, Model: req.Model}
}

// StartTranslateFile runs the job in the background and returns its id.
func (a *JobsAPI) StartTranslateFile(ctx context.Context, req TranslateFileRequest) (int64, error) {
	return a.r.StartTranslateFile(ctx, req.ProjectID, req.ProviderID, req.params(), nil)
}

// RunTranslateFile runs the job and waits for it. Progress is reported to em.
func (a *JobsAPI) RunTranslateFile(ctx context.Context, req TranslateFileRequest, em jobs.EventEmitter) (jobs.Summary, error) {
	return a.r.RunTranslateFile(ctx, req.ProjectID, req.ProviderID, req.params(), em)
}

type TranslateUnitsRequest struct {
	ProjectID  int64    `json:"project_id"`
	ProviderID int64    `json:"provider_id"`
	UnitIDs    []int64  `json:"unit_ids"`
	Locales    []string `json:"locales"`
	SourceLang string   `json:"source_lang"`
	Model      string   `json:"model"`
}

// RunTranslateUnits translates only the given units. Progress is reported to em.
func (a *JobsAPI) RunTranslateUnits(ctx context.Context, req TranslateUnitsRequest, em jobs.EventEmitter) (jobs.Summary, error) {
	return a.r.RunTranslateUnits(ctx, req.ProjectID, req.ProviderID, jobs.TranslateUnitsParams{
		UnitIDs: req.UnitIDs, Locales: req.Locales, SourceLang: req.SourceLang, Model: req.Model,
	}, em)
}

func (a *JobsAPI) Cancel(jobID int64) bool { return a.r.Cancel(jobID) }

type JobDTO struct {
	ID       int64  `json:"id"`
	Type     string `json:"type"`
	Status   string `json:"status"`
	Progress int    `json:"progress"`
	Total    int    `json:"total"`
	Provider string `json:"provider,omitempty"`
	Updated  string `json:"updated"`
}

func (a *JobsAPI) Get(ctx context.Context, jobID int64) (*JobDTO, error) {
	j, err := a.repo.Get(ctx, jobID)
	if err != nil {
		return nil, err
	}
	return a.dto(ctx, j.ID, j.Type, j.Status, j.Progress, j.Total, j.ProviderID, j.UpdatedAt), nil
}

func (a *JobsAPI) List(ctx context.Context, limit int) ([]*JobDTO, error) {
	js, err := a.repo.List(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]*JobDTO, 0, len(js))
	for _, j := range js {
		out = append(out, a.dto(ctx, j.ID, j.Type, j.Status, j.Progress, j.Total, j.ProviderID, j.UpdatedAt))
	}
	return out, nil
}

func (a *JobsAPI) dto(ctx context.Context, id int64, typ, status string, progress, total int, providerID *int64, updated time.Time) *JobDTO {
	d := &JobDTO{ID: id, Type: typ, Status: status, Progress: progress, Total: total, Updated: updated.Format(time.RFC3339)}
	if providerID != nil {
		if p, err := a.providers.Get(ctx, *providerID); err == nil {
			d.Provider = p.Name
		}
	}
	return d
}

type JobItemDTO struct {
	ID     int64   `json:"id"`
	UnitID *int64  `json:"unit_id"`
	Locale *string `json:"locale"`
	Status string  `json:"status"`
	Error  string  `json:"error"`
}

func (a *JobsAPI) Items(ctx context.Context, jobID int64) ([]*JobItemDTO, error) {
	items, err := a.repo.ListItems(ctx, jobID)
	if err != nil {
		return nil, err
	}
	out := make([]*JobItemDTO, 0, len(items))
	for _, it := range items {
		out = append(out, &JobItemDTO{ID: it.ID, UnitID: it.UnitID, Locale: it.Locale, Status: it.Status, Error: it.Error})
	}
	return out, nil
}

type JobLogDTO struct {
	ID      int64  `json:"id"`
	Time    string `json:"time"`
	Level   string `json:"level"`
	Message string `json:"message"`
}

func (a *JobsAPI) Logs(ctx context.Context, jobID int64, limit int) ([]*JobLogDTO, error) {
	logs, err := a.repo.ListLogs(ctx, jobID, limit)
	if err != nil {
		return nil, err
	}
	out := make([]*JobLogDTO, 0, len(logs))
	for _, l := range logs {
		out = append(out, &JobLogDTO{ID: l.ID, Time: l.Time.Format(time.RFC3339), Level: l.Level, Message: l.Message})
	}
	return out, nil
}

func (a *JobsAPI) Delete(ctx context.Context, jobID int64) error {
	return a.repo.Delete(ctx, jobID)
}
