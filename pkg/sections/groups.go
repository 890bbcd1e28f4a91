package sections

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnknownGroup is returned when a group id is not registered.
var ErrUnknownGroup = errors.New("unknown section group")

// Group is an ordered set of sections saved together under one composite
// document. Individual members persist under "group.section" keys; the
// compiled document persists under the group id itself.
type Group struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Sections []string `json:"sections"`
}

var groups = map[string]Group{
	"business-description": {
		ID:    "business-description",
		Title: "Business Description",
		Sections: []string{
			"company-overview",
			"vision",
			"mission",
			"products-services",
			"legal-structure",
		},
	},
	"marketing-plan": {
		ID:    "marketing-plan",
		Title: "Marketing Plan",
		Sections: []string{
			"target-market",
			"competitive-analysis",
			"pricing-strategy",
			"promotion-strategy",
			"sales-strategy",
		},
	},
	"financial-plan": {
		ID:    "financial-plan",
		Title: "Financial Plan",
		Sections: []string{
			"startup-costs",
			"revenue-model",
			"financial-projections",
			"funding-requirements",
		},
	},
	"operations": {
		ID:    "operations",
		Title: "Operations",
		Sections: []string{
			"operations-plan",
			"management-team",
			"staffing-plan",
			"suppliers-logistics",
		},
	},
}

// GetGroup returns the group configuration, or ErrUnknownGroup.
func GetGroup(id string) (Group, error) {
	g, ok := groups[id]
	if !ok {
		return Group{}, fmt.Errorf("%w: %q", ErrUnknownGroup, id)
	}

	out := g
	out.Sections = append([]string(nil), g.Sections...)

	return out, nil
}

// GroupIDs returns all registered group ids, sorted.
func GroupIDs() []string {
	ids := make([]string, 0, len(groups))
	for id := range groups {
		ids = append(ids, id)
	}

	sort.Strings(ids)

	return ids
}

// CompositeKey builds the storage key for one sub-section of a group.
func CompositeKey(groupID, sectionID string) string {
	return groupID + "." + sectionID
}

// ValidKey reports whether key is a plain section id, a group id, or a
// composite "group.section" key whose parts are both registered.
func ValidKey(key string) bool {
	if _, ok := configs[key]; ok {
		return true
	}

	if _, ok := groups[key]; ok {
		return true
	}

	groupID, sectionID, found := strings.Cut(key, ".")
	if !found {
		return false
	}

	g, ok := groups[groupID]
	if !ok {
		return false
	}

	for _, member := range g.Sections {
		if member == sectionID {
			return true
		}
	}

	return false
}

// SectionForKey resolves the section configuration behind a storage key,
// accepting both plain section ids and composite "group.section" keys.
func SectionForKey(key string) (Config, error) {
	if groupID, sectionID, found := strings.Cut(key, "."); found {
		if _, err := GetGroup(groupID); err != nil {
			return Config{}, err
		}

		return Get(sectionID)
	}

	return Get(key)
}

// CompileGroup concatenates the saved markdown of every member section,
// in the group's declared order, each under its own section heading.
// lookup returns the stored markdown for a composite key, or false when
// the sub-section has no saved content yet; unsaved members are skipped.
func CompileGroup(groupID string, lookup func(key string) (string, bool)) (string, error) {
	g, err := GetGroup(groupID)
	if err != nil {
		return "", err
	}

	var b strings.Builder

	b.WriteString("# ")
	b.WriteString(g.Title)
	b.WriteString("\n\n")

	for _, sectionID := range g.Sections {
		text, ok := lookup(CompositeKey(g.ID, sectionID))
		if !ok || strings.TrimSpace(text) == "" {
			continue
		}

		cfg, err := Get(sectionID)
		if err != nil {
			return "", err
		}

		b.WriteString("## ")
		b.WriteString(cfg.Title)
		b.WriteString("\n\n")
		b.WriteString(strings.TrimSpace(text))
		b.WriteString("\n\n")
	}

	return strings.TrimRight(b.String(), "\n") + "\n", nil
}
