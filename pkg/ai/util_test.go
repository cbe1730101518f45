package ai

import "testing"

type testPayload struct {
	Items []string `json:"items"`
}

func TestUnmarshalFlexible(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "standard json",
			input: `{"items": ["Pho", "Banh Mi"]}`,
			want:  []string{"Pho", "Banh Mi"},
		},
		{
			name:  "double encoded",
			input: `"{\"items\": [\"Pho\"]}"`,
			want:  []string{"Pho"},
		},
		{
			name:  "markdown fenced",
			input: "```json\n{\"items\": [\"Kimchi\"]}\n```",
			want:  []string{"Kimchi"},
		},
		{
			name:  "malformed but repairable",
			input: `{items: ["Tonkatsu"]}`,
			want:  []string{"Tonkatsu"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out testPayload
			if err := UnmarshalFlexible(tt.input, &out); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(out.Items) != len(tt.want) {
				t.Fatalf("expected %d items, got %d", len(tt.want), len(out.Items))
			}
			for i := range tt.want {
				if out.Items[i] != tt.want[i] {
					t.Fatalf("item %d: got %q, want %q", i, out.Items[i], tt.want[i])
				}
			}
		})
	}
}

func TestUnmarshalFlexible_Unrepairable(t *testing.T) {
	var out testPayload
	if err := UnmarshalFlexible("not json at all {{{]", &out); err == nil {
		t.Fatal("expected error for unrepairable input")
	}
}
