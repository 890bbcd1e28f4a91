package sections

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_KnownSection(t *testing.T) {
	cfg, err := Get("executive-summary")
	require.NoError(t, err)

	assert.Equal(t, "executive-summary", cfg.ID)
	assert.Equal(t, "Executive Summary", cfg.Title)
	assert.Equal(t, "/api/business-plans/executive-summary", cfg.APIPath)
	assert.NotEmpty(t, cfg.InitialPrompt)
	assert.NotEmpty(t, cfg.SystemPrompt)
	assert.NotNil(t, cfg.Format)
}

func TestGet_UnknownSection(t *testing.T) {
	_, err := Get("no-such-section")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownSection))
	assert.Contains(t, err.Error(), "no-such-section")
}

func TestGet_ReturnsCopies(t *testing.T) {
	first, err := Get("vision")
	require.NoError(t, err)
	require.NotEmpty(t, first.SuggestedPrompts)

	first.SuggestedPrompts[0] = "mutated"
	first.Fields[0].Heading = "Mutated"

	second, err := Get("vision")
	require.NoError(t, err)
	assert.NotEqual(t, "mutated", second.SuggestedPrompts[0])
	assert.NotEqual(t, "Mutated", second.Fields[0].Heading)
}

func TestIDs_SortedAndComplete(t *testing.T) {
	ids := IDs()
	assert.GreaterOrEqual(t, len(ids), 20)
	assert.IsIncreasing(t, ids)

	for _, id := range []string{
		"executive-summary", "swot-analysis", "startup-costs",
		"financial-projections", "target-market", "operations-plan",
	} {
		assert.Contains(t, ids, id)
	}
}

func TestEverySection_HasFormatterAndPrompts(t *testing.T) {
	for _, id := range IDs() {
		cfg, err := Get(id)
		require.NoError(t, err)

		assert.Equal(t, id, cfg.ID)
		assert.NotEmpty(t, cfg.Title, id)
		assert.NotEmpty(t, cfg.InitialPrompt, id)
		assert.NotEmpty(t, cfg.SystemPrompt, id)
		assert.NotEmpty(t, cfg.Fields, id)
		assert.NotNil(t, cfg.Format, id)
		assert.True(t, strings.HasPrefix(cfg.APIPath, "/api/business-plans/"), id)
	}
}

// Formatters must be pure: same payload, same markdown, and a field that
// is absent or empty leaves no heading behind.
func TestEverySection_FormatterDeterministicAndOmitsAbsent(t *testing.T) {
	for _, id := range IDs() {
		cfg, err := Get(id)
		require.NoError(t, err)

		data := map[string]any{}
		for i, f := range cfg.Fields {
			if i%2 == 0 {
				data[f.Key] = "some answer for " + f.Key
			}
		}

		first := cfg.Format(data)
		second := cfg.Format(data)
		assert.Equal(t, first, second, id)

		for i, f := range cfg.Fields {
			if i%2 != 0 && f.Heading != "" {
				assert.NotContains(t, first, "## "+f.Heading+"\n", id)
			}
		}

		assert.Empty(t, cfg.Format(map[string]any{}), id)
	}
}
