package domain

import "time"

// Translation statuses mirror the TS type attribute; finished has no attribute.
const (
	StatusFinished   = "finished"
	StatusUnfinished = "unfinished"
	StatusVanished   = "vanished"
	StatusObsolete   = "obsolete"
)

type Translation struct {
	ID         int64     `json:"id"`
	UnitID     int64     `json:"unit_id"`
	Locale     string    `json:"locale"`
	Text       string    `json:"text"`
	Forms      []string  `json:"forms,omitempty"`
	Status     string    `json:"status"`
	ProviderID *int64    `json:"provider_id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
