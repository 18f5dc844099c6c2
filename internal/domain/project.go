package domain

import "time"

// Project groups the catalogs of one application, one file per locale.
// SourceLang is the language the source strings are written in, "en" for
// most Qt applications.
type Project struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	SourceLang string    `json:"source_lang"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ProjectLocale records a target language of a project, as written in the
// language attribute of its catalogs (ko_KR, ru_RU).
type ProjectLocale struct {
	ID        int64     `json:"id"`
	ProjectID int64     `json:"project_id"`
	Locale    string    `json:"locale"`
	CreatedAt time.Time `json:"created_at"`
}
