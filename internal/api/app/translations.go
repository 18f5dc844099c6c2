package app

import (
	"context"
	"strings"

	"linguist/internal/domain"
	"linguist/internal/ports"
)

type TranslationsAPI struct {
	repo  ports.TranslationRepository
	units ports.UnitRepository
}

func NewTranslationsAPI(repo ports.TranslationRepository, units ports.UnitRepository) *TranslationsAPI {
	return &TranslationsAPI{repo: repo, units: units}
}

type UpsertTranslationRequest struct {
	UnitID     int64    `json:"unit_id"`
	Locale     string   `json:"locale"`
	Text       string   `json:"text"`
	Forms      []string `json:"forms"`
	Status     string   `json:"status"`
	ProviderID *int64   `json:"provider_id"`
}

func (a *TranslationsAPI) Upsert(ctx context.Context, req UpsertTranslationRequest) error {
	status := req.Status
	if status == "" {
		status = domain.StatusFinished
	}
	return a.repo.Upsert(ctx, &domain.Translation{
		UnitID:     req.UnitID,
		Locale:     req.Locale,
		Text:       req.Text,
		Forms:      req.Forms,
		Status:     status,
		ProviderID: req.ProviderID,
	})
}

type UnitText struct {
	UnitID      int64    `json:"unit_id"`
	Key         string   `json:"key"`
	Context     string   `json:"context"`
	Source      string   `json:"source"`
	Comment     string   `json:"comment,omitempty"`
	Numerus     bool     `json:"numerus,omitempty"`
	Translation string   `json:"translation"`
	Forms       []string `json:"forms,omitempty"`
	Status      string   `json:"status"`
	Machine     bool     `json:"machine,omitempty"`
}

// ListUnitTexts pairs every unit of the file with its translation for
// locale. Units without one are reported as unfinished.
func (a *TranslationsAPI) ListUnitTexts(ctx context.Context, fileID int64, locale string) ([]*UnitText, error) {
	units, err := a.units.ListByFile(ctx, fileID)
	if err != nil {
		return nil, err
	}
	trs, err := a.repo.ListByFileLocale(ctx, fileID, locale)
	if err != nil {
		return nil, err
	}
	byUnit := make(map[int64]*domain.Translation, len(trs))
	for _, t := range trs {
		byUnit[t.UnitID] = t
	}
	out := make([]*UnitText, 0, len(units))
	for _, u := range units {
		ut := &UnitText{UnitID: u.ID, Key: u.Key, Context: u.Context, Source: u.SourceText, Comment: u.Comment, Numerus: u.Numerus, Status: domain.StatusUnfinished}
		if t := byUnit[u.ID]; t != nil {
			ut.Translation = t.Text
			ut.Forms = t.Forms
			ut.Status = t.Status
			ut.Machine = t.ProviderID != nil
		}
		out = append(out, ut)
	}
	return out, nil
}

// Accept marks unfinished translations that have text as finished. With
// machineOnly set only provider output is accepted. It returns how many
// translations changed.
func (a *TranslationsAPI) Accept(ctx context.Context, fileID int64, locale string, machineOnly bool) (int, error) {
	trs, err := a.repo.ListByFileLocale(ctx, fileID, locale)
	if err != nil {
		return 0, err
	}
	var changed []*domain.Translation
	for _, t := range trs {
		if t.Status != domain.StatusUnfinished || (machineOnly && t.ProviderID == nil) || !filled(t) {
			continue
		}
		t.Status = domain.StatusFinished
		changed = append(changed, t)
	}
	if err := a.repo.UpsertBatch(ctx, changed); err != nil {
		return 0, err
	}
	return len(changed), nil
}

// filled reports whether t has text, and for plural forms whether every
// form has text.
func filled(t *domain.Translation) bool {
	if len(t.Forms) == 0 {
		return strings.TrimSpace(t.Text) != ""
	}
	for _, f := range t.Forms {
		if strings.TrimSpace(f) == "" {
			return false
		}
	}
	return true
}
