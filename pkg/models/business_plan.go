// Package models defines the core domain records for business-plan authoring.
package models

import "time"

// PlanStatus represents the lifecycle state of a business plan.
type PlanStatus string

const (
	PlanStatusDraft    PlanStatus = "draft"    // Being authored
	PlanStatusComplete PlanStatus = "complete" // All sections saved by the owner
	PlanStatusArchived PlanStatus = "archived" // Hidden from default listings
)

// BusinessPlan is one user's plan. Content holds saved markdown keyed by
// section id (composite "group.section" keys included); Details holds the
// structured questionnaire answers keyed the same way. Keys are a subset of
// the section registry's ids; that invariant is enforced at the service
// boundary, not here.
type BusinessPlan struct {
	ID        string                    `json:"id"`
	Title     string                    `json:"title"      validate:"required,min=3"`
	Status    PlanStatus                `json:"status"     validate:"required"`
	Owner     string                    `json:"owner"`
	Content   map[string]string         `json:"content"`
	Details   map[string]map[string]any `json:"details,omitempty"`
	Metadata  map[string]any            `json:"metadata,omitempty"`
	CreatedAt time.Time                 `json:"created_at"`
	UpdatedAt time.Time                 `json:"updated_at"`
	DeletedAt *time.Time                `json:"deleted_at,omitempty"`
}

// SectionContent returns the saved markdown and structured data for one
// section key. Missing keys yield zero values.
func (p *BusinessPlan) SectionContent(key string) (string, map[string]any) {
	var text string
	if p.Content != nil {
		text = p.Content[key]
	}

	var data map[string]any
	if p.Details != nil {
		data = p.Details[key]
	}

	return text, data
}

// SetSection stores markdown (and optionally structured data) under one
// section key, allocating the bags on first use.
func (p *BusinessPlan) SetSection(key, markdown string, data map[string]any) {
	if p.Content == nil {
		p.Content = make(map[string]string)
	}

	p.Content[key] = markdown

	if data != nil {
		if p.Details == nil {
			p.Details = make(map[string]map[string]any)
		}

		p.Details[key] = data
	}
}
