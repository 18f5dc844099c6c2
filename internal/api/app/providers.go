package app

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"linguist/internal/adapters/llm/registry"
	"linguist/internal/domain"
	"linguist/internal/ports"
)

type ProviderAPI struct {
	repo     ports.ProviderRepository
	settings ports.SettingsRepository
	build    func(*domain.Provider) (ports.Provider, error)
}

func NewProviderAPI(repo ports.ProviderRepository, settings ports.SettingsRepository, build func(*domain.Provider) (ports.Provider, error)) *ProviderAPI {
	return &ProviderAPI{repo: repo, settings: settings, build: build}
}

// Create validates the provider type and stores the record. The returned
// copy has its API key masked.
func (a *ProviderAPI) Create(ctx context.Context, p domain.Provider) (*domain.Provider, error) {
	if p.Type == "" || p.Name == "" {
		return nil, errors.New("type and name are required")
	}
	if _, err := a.build(&p); err != nil {
		return nil, err
	}
	if err := a.normalizeModel(ctx, &p); err != nil {
		log.Warnw("model lookup failed", "provider", p.Name, "err", err)
	}
	if err := a.repo.Create(ctx, &p); err != nil {
		return nil, err
	}
	p.APIKey = mask(p.APIKey)
	return &p, nil
}

func (a *ProviderAPI) Update(ctx context.Context, p domain.Provider) (*domain.Provider, error) {
	if p.ID == 0 {
		return nil, errors.New("id is required")
	}
	// a masked or empty key keeps the stored one
	if strings.HasPrefix(p.APIKey, "****") || p.APIKey == "" {
		existing, err := a.repo.Get(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		p.APIKey = existing.APIKey
	}
	if err := a.normalizeModel(ctx, &p); err != nil {
		log.Warnw("model lookup failed", "provider", p.Name, "err", err)
	}
	if err := a.repo.Update(ctx, &p); err != nil {
		return nil, err
	}
	p.APIKey = mask(p.APIKey)
	return &p, nil
}

func (a *ProviderAPI) List(ctx context.Context) ([]*domain.Provider, error) {
	list, err := a.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range list {
		p.APIKey = mask(p.APIKey)
	}
	return list, nil
}

// Resolve finds a provider by name, or by id when ref is numeric.
func (a *ProviderAPI) Resolve(ctx context.Context, ref string) (*domain.Provider, error) {
	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		return a.repo.Get(ctx, id)
	}
	return a.repo.FindByName(ctx, ref)
}

// ListModels queries the provider and refreshes the stored model cache.
func (a *ProviderAPI) ListModels(ctx context.Context, id int64) ([]ports.ModelInfo, error) {
	p, err := a.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	prov, err := a.build(p)
	if err != nil {
		return nil, err
	}
	models, err := prov.ListModels(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(models))
	for _, m := range models {
		names = append(names, m.Name)
	}
	if err := a.repo.SaveModelCache(ctx, p.ID, names); err != nil {
		log.Warnw("model cache write failed", "provider", p.Name, "err", err)
	}
	return models, nil
}

// ProviderTestResult contains details of a live translate test.
type ProviderTestResult struct {
	Ok          bool   `json:"ok"`
	Translation string `json:"translation,omitempty"`
	Raw         string `json:"raw,omitempty"`
	Error       string `json:"error,omitempty"`
}

// Test translates a short phrase with the provider's default model. A
// provider failure is reported in the result, not as an error.
func (a *ProviderAPI) Test(ctx context.Context, id int64, target string) (ProviderTestResult, error) {
	p, err := a.repo.Get(ctx, id)
	if err != nil {
		return ProviderTestResult{}, err
	}
	prov, err := a.build(p)
	if err != nil {
		return ProviderTestResult{}, err
	}
	if target == "" {
		target = "ru"
	}
	res, err := prov.Translate(ctx, ports.Segment{Key: "test", Text: "Open File"}, ports.TranslateParams{
		SourceLang:   "en",
		TargetLang:   target,
		Model:        p.Model,
		SystemPrompt: fmt.Sprintf("You are a professional software localization translator. Translate from en to %s. Return only JSON: {\"translation\":\"...\"}.", target),
		UserPrompt:   "source: Open File",
	})
	if err != nil {
		return ProviderTestResult{Error: err.Error()}, nil
	}
	return ProviderTestResult{Ok: true, Translation: res.Translation, Raw: res.Raw}, nil
}

// HealthCheck checks every stored provider concurrently.
func (a *ProviderAPI) HealthCheck(ctx context.Context) (map[string]error, error) {
	list, err := a.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	reg := registry.New()
	out := map[string]error{}
	for _, p := range list {
		prov, err := a.build(p)
		if err != nil {
			out[p.Name] = err
			continue
		}
		reg.Register(p.Name, prov)
	}
	for name, err := range reg.HealthCheck(ctx) {
		out[name] = err
	}
	return out, nil
}

// normalizeModel turns an OpenRouter model label ("GPT-4o (2024)") into its
// id. Other providers are left alone.
func (a *ProviderAPI) normalizeModel(ctx context.Context, p *domain.Provider) error {
	if p == nil || strings.ToLower(p.Type) != "openrouter" {
		return nil
	}
	m := strings.TrimSpace(p.Model)
	if m == "" || !strings.ContainsAny(m, " ()") {
		return nil
	}
	prov, err := a.build(p)
	if err != nil {
		return err
	}
	models, err := prov.ListModels(ctx)
	if err != nil {
		return err
	}
	for _, mi := range models {
		if strings.EqualFold(mi.Name, m) || strings.EqualFold(mi.Description, m) {
			p.Model = mi.Name
			return nil
		}
	}
	return nil
}

// CachedModels returns the model names stored by the last ListModels call.
func (a *ProviderAPI) CachedModels(ctx context.Context, id int64) ([]string, error) {
	cached, err := a.repo.ListModelCache(ctx, id)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(cached))
	for _, m := range cached {
		names = append(names, m.Name)
	}
	return names, nil
}

// SetDefault makes the provider the one translate uses without --provider.
func (a *ProviderAPI) SetDefault(ctx context.Context, id int64) error {
	p, err := a.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	return a.settings.Set(ctx, domain.SettingDefaultProvider, strconv.FormatInt(p.ID, 10))
}

// Default returns the default provider, or nil when none is set.
func (a *ProviderAPI) Default(ctx context.Context) (*domain.Provider, error) {
	v, err := a.settings.Get(ctx, domain.SettingDefaultProvider)
	if err != nil || v == "" {
		return nil, err
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("setting %s: %w", domain.SettingDefaultProvider, err)
	}
	p, err := a.repo.Get(ctx, id)
	if errors.Is(err, ports.ErrNotFound) {
		return nil, nil
	}
	return p, err
}

// Delete removes the provider and clears it as the default.
func (a *ProviderAPI) Delete(ctx context.Context, id int64) error {
	if err := a.repo.Delete(ctx, id); err != nil {
		return err
	}
	if v, err := a.settings.Get(ctx, domain.SettingDefaultProvider); err == nil && v == strconv.FormatInt(id, 10) {
		return a.settings.Set(ctx, domain.SettingDefaultProvider, "")
	}
	return nil
}

func mask(s string) string {
	if len(s) <= 4 {
		return s
	}
	return "****" + s[len(s)-4:]
}
