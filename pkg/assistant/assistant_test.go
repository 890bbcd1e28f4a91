package assistant

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

// The backend has shipped the structured payload under several shapes
// over time; extraction probes them in fixed priority order.
func TestExtractSectionData(t *testing.T) {
	tests := []struct {
		name    string
		payload map[string]any
		want    map[string]any
	}{
		{
			name: "top level",
			payload: map[string]any{
				"vision": map[string]any{"vision_statement": "Be everywhere"},
			},
			want: map[string]any{"vision_statement": "Be everywhere"},
		},
		{
			name: "nested under businessPlan",
			payload: map[string]any{
				"businessPlan": map[string]any{
					"vision": map[string]any{"vision_statement": "Nested"},
				},
			},
			want: map[string]any{"vision_statement": "Nested"},
		},
		{
			name: "nested under content",
			payload: map[string]any{
				"content": map[string]any{
					"vision": map[string]any{"vision_statement": "Deep"},
				},
			},
			want: map[string]any{"vision_statement": "Deep"},
		},
		{
			name: "top level wins over nested",
			payload: map[string]any{
				"vision": map[string]any{"vision_statement": "Top"},
				"businessPlan": map[string]any{
					"vision": map[string]any{"vision_statement": "Nested"},
				},
			},
			want: map[string]any{"vision_statement": "Top"},
		},
		{
			name: "businessPlan wins over content",
			payload: map[string]any{
				"businessPlan": map[string]any{
					"vision": map[string]any{"vision_statement": "Nested"},
				},
				"content": map[string]any{
					"vision": map[string]any{"vision_statement": "Deep"},
				},
			},
			want: map[string]any{"vision_statement": "Nested"},
		},
		{
			name:    "missing section yields empty map",
			payload: map[string]any{"reply": "keep talking"},
			want:    map[string]any{},
		},
		{
			name: "wrong type yields empty map",
			payload: map[string]any{
				"vision": "not an object",
			},
			want: map[string]any{},
		},
		{
			name:    "nil payload",
			payload: nil,
			want:    map[string]any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractSectionData(tt.payload, "vision")
			assert.Equal(t, tt.want, got)
			assert.NotNil(t, got)
		})
	}
}

func TestHTTPClient_Parse(t *testing.T) {
	client := NewHTTPClient("http://assistant.local", "", slog.Default())

	resp, err := client.parse([]byte(`{
		"message": "Tell me more about your customers.",
		"businessPlan": {
			"target-market": {"customer_profile": "Local families"}
		}
	}`), "target-market")
	assert.NoError(t, err)
	assert.Equal(t, "Tell me more about your customers.", resp.Reply)
	assert.Equal(t, map[string]any{"customer_profile": "Local families"}, resp.Data)
}

func TestHTTPClient_Parse_ReplyKeyPriority(t *testing.T) {
	client := NewHTTPClient("http://assistant.local", "", slog.Default())

	resp, err := client.parse([]byte(`{"reply": "primary", "message": "secondary"}`), "vision")
	assert.NoError(t, err)
	assert.Equal(t, "primary", resp.Reply)
}

func TestHTTPClient_Parse_InvalidJSON(t *testing.T) {
	client := NewHTTPClient("http://assistant.local", "", slog.Default())

	_, err := client.parse([]byte("not json"), "vision")
	assert.Error(t, err)
}
