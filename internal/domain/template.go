package domain

import "time"

// Template scopes. A provider template overrides the global one.
const (
	ScopeProvider = "provider"
	ScopeGlobal   = "global"
)

// TemplateTranslate is the prompt for a single message.
const TemplateTranslate = "translate_single"

const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// Template replaces a builtin translation prompt. Body is a text/template
// executed with the masked message and its context.
type Template struct {
	ID        int64     `json:"id"`
	Scope     string    `json:"scope"`
	RefID     *int64    `json:"ref_id"` // provider id, nil for global
	Type      string    `json:"type"`
	Role      string    `json:"role"`
	Body      string    `json:"body"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CacheEntry is a provider answer for a masked source text, so the same
// string in another file or context is not sent twice.
type CacheEntry struct {
	ID          int64     `json:"id"`
	SourceText  string    `json:"source_text"`
	SrcLang     string    `json:"src_lang"`
	TgtLang     string    `json:"tgt_lang"`
	Provider    string    `json:"provider"`
	Model       string    `json:"model"`
	Translation string    `json:"translation"`
	CreatedAt   time.Time `json:"created_at"`
}
