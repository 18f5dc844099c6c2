package app

import (
	"context"
	"fmt"

	"linguist/internal/adapters/prompt"
	"linguist/internal/domain"
	"linguist/internal/ports"
)

type TemplatesAPI struct {
	repo     ports.TemplateRepository
	renderer *prompt.Renderer
}

func NewTemplatesAPI(repo ports.TemplateRepository, r *prompt.Renderer) *TemplatesAPI {
	return &TemplatesAPI{repo: repo, renderer: r}
}

// TemplateDTO is the prompt a role gets for a provider, or globally.
type TemplateDTO struct {
	Role   string `json:"role"`
	Body   string `json:"body"`
	Stored bool   `json:"stored"`
}

func scopeOf(providerID *int64) string {
	if providerID != nil {
		return domain.ScopeProvider
	}
	return domain.ScopeGlobal
}

// Set stores the translation prompt for role. An empty body falls back to
// the global prompt, or the builtin one.
func (a *TemplatesAPI) Set(ctx context.Context, providerID *int64, role, body string) error {
	if role != domain.RoleSystem && role != domain.RoleUser {
		return fmt.Errorf("unknown template role %q", role)
	}
	if body != "" {
		if err := prompt.Check(body); err != nil {
			return fmt.Errorf("template: %w", err)
		}
	}
	return a.repo.Upsert(ctx, &domain.Template{
		Scope: scopeOf(providerID),
		RefID: providerID,
		Type:  domain.TemplateTranslate,
		Role:  role,
		Body:  body,
	})
}

// Show returns the effective system and user prompts.
func (a *TemplatesAPI) Show(ctx context.Context, providerID *int64) ([]TemplateDTO, error) {
	var out []TemplateDTO
	for _, role := range []string{domain.RoleSystem, domain.RoleUser} {
		body, stored, err := a.renderer.Source(ctx, scopeOf(providerID), providerID, domain.TemplateTranslate, role)
		if err != nil {
			return nil, err
		}
		out = append(out, TemplateDTO{Role: role, Body: body, Stored: stored})
	}
	return out, nil
}
