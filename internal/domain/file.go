package domain

import "time"

// File is one imported catalog. A .ts file holds one target locale.
type File struct {
	ID         int64     `json:"id"`
	ProjectID  int64     `json:"project_id"`
	Path       string    `json:"path"`
	Format     string    `json:"format"`
	Locale     string    `json:"locale"`
	SourceLang string    `json:"source_lang"`
	Hash       string    `json:"hash"`
	CreatedAt  time.Time `json:"created_at"`
}

// Unit is one message of a catalog. Key is the message id when the catalog
// uses ids, otherwise a digest of context, source and comment.
type Unit struct {
	ID          int64     `json:"id"`
	FileID      int64     `json:"file_id"`
	Key         string    `json:"key"`
	Context     string    `json:"context"`
	SourceText  string    `json:"source_text"`
	Comment     string    `json:"comment"`
	Numerus     bool      `json:"numerus"`
	Position    int       `json:"position"`
	MetadataRaw string    `json:"metadata_json"`
	CreatedAt   time.Time `json:"created_at"`
}

// UnitMeta is the part of a message that is carried through the store
// without being queried: provenance and notes for translators.
type UnitMeta struct {
	ID                string         `json:"id,omitempty"`
	Locations         []UnitLocation `json:"locations,omitempty"`
	OldSource         string         `json:"old_source,omitempty"`
	OldComment        string         `json:"old_comment,omitempty"`
	ExtraComment      string         `json:"extra_comment,omitempty"`
	TranslatorComment string         `json:"translator_comment,omitempty"`
	ContextComment    string         `json:"context_comment,omitempty"`
}

type UnitLocation struct {
	File string `json:"file"`
	Line int    `json:"line"`
}
