package domain

import (
	"encoding/json"

	"github.com/google/uuid"
)

// PageBlock is a named content section on a page: orderable and
// individually toggleable. Disabled blocks stay in the list; hiding
// them is the renderer's job.
type PageBlock struct {
	ID       uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	PageSlug string         `gorm:"size:60;index" json:"pageSlug"`
	Type     string         `gorm:"size:60" json:"type"`
	Enabled  bool           `gorm:"default:true" json:"enabled"`
	Position int            `gorm:"not null;default:0" json:"position"`
	Config   map[string]any `gorm:"type:jsonb;serializer:json" json:"config"`
}

// Page content kinds. Each page slug carries exactly one kind, and the
// kind decides the payload schema.
const (
	PageKindHome    = "home"
	PageKindOptions = "options"
)

// PageContent is one page's structured dataset: a kind tag plus the
// JSON payload for that kind's schema.
type PageContent struct {
	Slug string          `gorm:"primaryKey;size:60" json:"slug"`
	Kind string          `gorm:"size:40" json:"kind"`
	Data json.RawMessage `gorm:"type:jsonb" json:"data"`
}

// HomeContent is the payload for PageKindHome.
type HomeContent struct {
	HeroTitle    string        `json:"heroTitle"`
	HeroSubtitle string        `json:"heroSubtitle"`
	Innovations  []FeatureItem `json:"innovations"`
}

// OptionsContent is the payload for PageKindOptions.
type OptionsContent struct {
	Intro             string       `json:"intro"`
	AdditionalOptions []OptionItem `json:"additionalOptions"`
}

// FeatureItem is one labeled entry in a page's itemized list. IDs are
// assigned from the clock at add time.
type FeatureItem struct {
	ID          int64  `json:"id"`
	Icon        string `json:"icon"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type OptionItem struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
}

// Home decodes the payload as HomeContent.
func (c *PageContent) Home() (HomeContent, error) {
	var h HomeContent
	if len(c.Data) == 0 {
		return h, nil
	}
	err := json.Unmarshal(c.Data, &h)
	return h, err
}

// Options decodes the payload as OptionsContent.
func (c *PageContent) Options() (OptionsContent, error) {
	var o OptionsContent
	if len(c.Data) == 0 {
		return o, nil
	}
	err := json.Unmarshal(c.Data, &o)
	return o, err
}

// SetPayload replaces the payload with the JSON encoding of v.
func (c *PageContent) SetPayload(v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.Data = b
	return nil
}
