package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	logging "github.com/ipfs/go-log/v2"

	"linguist/internal/domain"
	"linguist/internal/plural"
	"linguist/internal/ports"
	"linguist/internal/ts"
	"linguist/internal/usecase/translator"
)

var log = logging.Logger("jobs")

// Event names passed to the EventEmitter.
const (
	EventStarted   = "job.started"
	EventItemStart = "job.item.start"
	EventItemDone  = "job.item.done"
	EventProgress  = "job.progress"
	EventLog       = "job.log"
)

const defaultItemTimeout = 60 * time.Second

// Translator is the part of translator.Service the runner needs.
type Translator interface {
	TranslateOne(ctx context.Context, a translator.TranslateArgs) (string, error)
}

type Deps struct {
	Jobs         ports.JobRepository
	Files        ports.FileRepository
	Units        ports.UnitRepository
	Providers    ports.ProviderRepository
	Translations ports.TranslationRepository
	Translator   Translator
}

type EventEmitter interface {
	Emit(name string, payload any)
}

// Runner executes machine translation jobs. Each job translates the pending
// (unit, locale) pairs it was given one at a time and records progress in
// the job tables.
type Runner struct {
	d           Deps
	ItemTimeout time.Duration

	mu     sync.Mutex
	active map[int64]context.CancelFunc
	wg     sync.WaitGroup
}

func NewRunner(d Deps) *Runner {
	return &Runner{d: d, ItemTimeout: defaultItemTimeout, active: map[int64]context.CancelFunc{}}
}

type TranslateFileParams struct {
	FileID        int64    `json:"file_id"`
	TargetLocales []string `json:"target_locales"`
	SourceLang    string   `json:"source_lang,omitempty"`
	Model         string   `json:"model"`
}

// TranslateUnitsParams describes a batch of specific units to translate.
type TranslateUnitsParams struct {
	UnitIDs    []int64  `json:"unit_ids"`
	Locales    []string `json:"locales"`
	SourceLang string   `json:"source_lang,omitempty"`
	Model      string   `json:"model"`
}

// Summary reports the outcome of a finished job.
type Summary struct {
	JobID  int64
	Status string
	Total  int
	Done   int
	Failed int
}

type work struct {
	unit   *domain.Unit
	locale string
}

type job struct {
	id         int64
	providerID int64
	model      string
	sourceLang string
	items      []work
	em         EventEmitter
}

// StartTranslateFile queues a job for the file and runs it in the
// background. The returned id can be passed to Cancel. Events of the job go
// to em, which may be nil.
func (r *Runner) StartTranslateFile(ctx context.Context, projectID, providerID int64, p TranslateFileParams, em EventEmitter) (int64, error) {
	j, err := r.prepareFile(ctx, projectID, providerID, p)
	if err != nil {
		return 0, err
	}
	j.em = em
	r.background(j)
	return j.id, nil
}

// RunTranslateFile is StartTranslateFile that waits for the job to end.
func (r *Runner) RunTranslateFile(ctx context.Context, projectID, providerID int64, p TranslateFileParams, em EventEmitter) (Summary, error) {
	j, err := r.prepareFile(ctx, projectID, providerID, p)
	if err != nil {
		return Summary{}, err
	}
	j.em = em
	return r.foreground(ctx, j)
}

func (r *Runner) StartTranslateUnits(ctx context.Context, projectID, providerID int64, p TranslateUnitsParams, em EventEmitter) (int64, error) {
	j, err := r.prepareUnits(ctx, projectID, providerID, p)
	if err != nil {
		return 0, err
	}
	j.em = em
	r.background(j)
	return j.id, nil
}

func (r *Runner) RunTranslateUnits(ctx context.Context, projectID, providerID int64, p TranslateUnitsParams, em EventEmitter) (Summary, error) {
	j, err := r.prepareUnits(ctx, projectID, providerID, p)
	if err != nil {
		return Summary{}, err
	}
	j.em = em
	return r.foreground(ctx, j)
}

// Cancel stops a running job. It reports false when the job is not active.
func (r *Runner) Cancel(jobID int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cancel, ok := r.active[jobID]; ok {
		cancel()
		delete(r.active, jobID)
		return true
	}
	return false
}

// Wait blocks until every background job has returned.
func (r *Runner) Wait() { r.wg.Wait() }

func (r *Runner) prepareFile(ctx context.Context, projectID, providerID int64, p TranslateFileParams) (*job, error) {
	if len(p.TargetLocales) == 0 {
		return nil, errors.New("no target locales")
	}
	f, err := r.d.Files.Get(ctx, p.FileID)
	if err != nil {
		return nil, fmt.Errorf("load file %d: %w", p.FileID, err)
	}
	if p.SourceLang == "" {
		p.SourceLang = f.SourceLang
	}
	units, err := r.d.Units.ListByFile(ctx, p.FileID)
	if err != nil {
		return nil, fmt.Errorf("list units: %w", err)
	}
	items, err := r.pending(ctx, units, p.TargetLocales)
	if err != nil {
		return nil, err
	}
	params, _ := json.Marshal(p)
	return r.create(ctx, domain.JobTranslateFile, projectID, providerID, p.Model, p.SourceLang, string(params), items)
}

func (r *Runner) prepareUnits(ctx context.Context, projectID, providerID int64, p TranslateUnitsParams) (*job, error) {
	if len(p.Locales) == 0 {
		return nil, errors.New("no target locales")
	}
	units := make([]*domain.Unit, 0, len(p.UnitIDs))
	for _, id := range p.UnitIDs {
		u, err := r.d.Units.Get(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("load unit %d: %w", id, err)
		}
		units = append(units, u)
	}
	items, err := r.pending(ctx, units, p.Locales)
	if err != nil {
		return nil, err
	}
	params, _ := json.Marshal(p)
	return r.create(ctx, domain.JobTranslateUnits, projectID, providerID, p.Model, p.SourceLang, string(params), items)
}

// pending selects the pairs without usable text. Vanished and obsolete
// messages are left alone.
func (r *Runner) pending(ctx context.Context, units []*domain.Unit, locales []string) ([]work, error) {
	var out []work
	for _, loc := range locales {
		for _, u := range units {
			t, err := r.d.Translations.Get(ctx, u.ID, loc)
			if err != nil {
				return nil, fmt.Errorf("load translation %s/%s: %w", u.Key, loc, err)
			}
			if t != nil && (t.Status == domain.StatusVanished || t.Status == domain.StatusObsolete || hasText(t)) {
				continue
			}
			out = append(out, work{unit: u, locale: loc})
		}
	}
	return out, nil
}

func hasText(t *domain.Translation) bool {
	if strings.TrimSpace(t.Text) != "" {
		return true
	}
	for _, f := range t.Forms {
		if strings.TrimSpace(f) != "" {
			return true
		}
	}
	return false
}

func (r *Runner) create(ctx context.Context, typ string, projectID, providerID int64, model, sourceLang, params string, items []work) (*job, error) {
	prov, err := r.d.Providers.Get(ctx, providerID)
	if err != nil {
		return nil, fmt.Errorf("load provider %d: %w", providerID, err)
	}
	if model == "" {
		model = prov.Model
	}
	id, err := r.d.Jobs.Create(ctx, &domain.Job{
		Type:       typ,
		Status:     domain.JobQueued,
		ProjectID:  &projectID,
		ProviderID: &providerID,
		ParamsRaw:  params,
		Total:      len(items),
	})
	if err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}
	return &job{id: id, providerID: providerID, model: model, sourceLang: sourceLang, items: items}, nil
}

func (r *Runner) background(j *job) {
	ctx, cancel := context.WithCancel(context.Background())
	r.track(j.id, cancel)
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		if _, err := r.execute(ctx, j); err != nil {
			log.Warnw("job ended", "job", j.id, "err", err)
		}
	}()
}

func (r *Runner) foreground(ctx context.Context, j *job) (Summary, error) {
	ctx, cancel := context.WithCancel(ctx)
	r.track(j.id, cancel)
	return r.execute(ctx, j)
}

func (r *Runner) track(id int64, cancel context.CancelFunc) {
	r.mu.Lock()
	r.active[id] = cancel
	r.mu.Unlock()
}

func (r *Runner) untrack(id int64) {
	r.mu.Lock()
	if cancel, ok := r.active[id]; ok {
		cancel()
		delete(r.active, id)
	}
	r.mu.Unlock()
}

// execute translates the job's items in order. A failed item is recorded
// and skipped; cancellation stops the job and is returned as the error.
func (r *Runner) execute(ctx context.Context, j *job) (Summary, error) {
	defer r.untrack(j.id)
	// bookkeeping must survive cancellation of ctx
	bg := context.WithoutCancel(ctx)
	sum := Summary{JobID: j.id, Total: len(j.items), Status: domain.JobRunning}
	_ = r.d.Jobs.UpdateProgress(bg, j.id, 0, sum.Total, domain.JobRunning)
	j.emit(EventStarted, map[string]any{"job_id": j.id, "total": sum.Total, "model": j.model, "provider_id": j.providerID})
	r.log(bg, j, "info", fmt.Sprintf("job started: provider=%d model=%s items=%d", j.providerID, j.model, sum.Total))

	for _, w := range j.items {
		if err := ctx.Err(); err != nil {
			sum.Status = domain.JobCanceled
			_ = r.d.Jobs.UpdateProgress(bg, j.id, sum.Done, sum.Total, sum.Status)
			j.emit(EventProgress, map[string]any{"job_id": j.id, "done": sum.Done, "total": sum.Total, "status": sum.Status})
			return sum, err
		}
		if err := r.translate(ctx, bg, j, w); err != nil {
			sum.Failed++
		}
		sum.Done++
		_ = r.d.Jobs.UpdateProgress(bg, j.id, sum.Done, sum.Total, domain.JobRunning)
		j.emit(EventProgress, map[string]any{"job_id": j.id, "done": sum.Done, "total": sum.Total, "status": domain.JobRunning})
	}
	sum.Status = domain.JobDone
	if sum.Total > 0 && sum.Failed == sum.Total {
		sum.Status = domain.JobFailed
	}
	_ = r.d.Jobs.UpdateProgress(bg, j.id, sum.Done, sum.Total, sum.Status)
	j.emit(EventProgress, map[string]any{"job_id": j.id, "done": sum.Done, "total": sum.Total, "status": sum.Status})
	r.log(bg, j, "info", fmt.Sprintf("job %s: done=%d failed=%d", sum.Status, sum.Done, sum.Failed))
	return sum, nil
}

func (r *Runner) translate(ctx, bg context.Context, j *job, w work) error {
	u, loc := w.unit, w.locale
	itemID, _ := r.d.Jobs.AddItem(bg, &domain.JobItem{JobID: j.id, UnitID: &u.ID, Locale: &loc, Status: domain.JobRunning})
	j.emit(EventItemStart, map[string]any{"job_id": j.id, "unit_id": u.ID, "key": u.Key, "locale": loc})

	ictx, cancel := context.WithTimeout(ctx, r.ItemTimeout)
	txt, err := r.d.Translator.TranslateOne(ictx, translator.TranslateArgs{
		ProviderID: j.providerID,
		Unit:       u,
		SourceLang: j.sourceLang,
		TargetLang: loc,
		Model:      j.model,
	})
	cancel()
	if err == nil {
		err = r.d.Translations.Upsert(bg, machineTranslation(u, loc, txt, j.providerID))
	}
	if err != nil {
		_ = r.d.Jobs.UpdateItem(bg, itemID, domain.JobFailed, err.Error())
		r.log(bg, j, "error", fmt.Sprintf("%s -> %s: %v", u.Key, loc, err))
		j.emit(EventItemDone, map[string]any{"job_id": j.id, "unit_id": u.ID, "key": u.Key, "locale": loc, "error": err.Error()})
		return err
	}
	_ = r.d.Jobs.UpdateItem(bg, itemID, domain.JobDone, "")
	j.emit(EventItemDone, map[string]any{"job_id": j.id, "unit_id": u.ID, "key": u.Key, "locale": loc, "text": txt})
	return nil
}

// machineTranslation stores provider output as unfinished so a reviewer
// still has to accept it. Numerus messages get the text in every form the
// target language needs.
func machineTranslation(u *domain.Unit, locale, text string, providerID int64) *domain.Translation {
	t := &domain.Translation{UnitID: u.ID, Locale: locale, Status: domain.StatusUnfinished, ProviderID: &providerID}
	if !u.Numerus {
		t.Text = text
		return t
	}
	n := 1
	if tag, err := ts.ParseLanguage(locale); err == nil {
		n = plural.For(tag).Forms()
	}
	t.Forms = make([]string, n)
	for i := range t.Forms {
		t.Forms[i] = text
	}
	return t
}

func (j *job) emit(name string, payload any) {
	if j.em != nil {
		j.em.Emit(name, payload)
	}
}

func (r *Runner) log(ctx context.Context, j *job, level, message string) {
	if level == "error" {
		log.Errorw(message, "job", j.id)
	} else {
		log.Infow(message, "job", j.id)
	}
	_ = r.d.Jobs.AddLog(ctx, &domain.JobLog{JobID: j.id, Level: level, Message: message})
	j.emit(EventLog, map[string]any{"job_id": j.id, "level": level, "message": message, "ts": time.Now().UTC().Format(time.RFC3339)})
}
