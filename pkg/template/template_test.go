package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name  string
		input string
		data  map[string]any
		want  string
	}{
		{
			name:  "simple substitution",
			input: "Hello {{name}}",
			data:  map[string]any{"name": "Ann"},
			want:  "Hello Ann",
		},
		{
			name:  "missing key renders empty",
			input: "Hello {{name}}",
			data:  map[string]any{},
			want:  "Hello ",
		},
		{
			name:  "nil data",
			input: "Hello {{name}}",
			data:  nil,
			want:  "Hello ",
		},
		{
			name:  "multiple placeholders",
			input: "{{title}} for {{name}}",
			data:  map[string]any{"title": "Follow up", "name": "John Doe"},
			want:  "Follow up for John Doe",
		},
		{
			name:  "numeric value",
			input: "Deal worth {{value}}",
			data:  map[string]any{"value": 50000.0},
			want:  "Deal worth 50000",
		},
		{
			name:  "nil value renders empty",
			input: "x{{gone}}y",
			data:  map[string]any{"gone": nil},
			want:  "xy",
		},
		{
			name:  "no placeholders",
			input: "plain text",
			data:  map[string]any{"name": "Ann"},
			want:  "plain text",
		},
		{
			name:  "repeated key",
			input: "{{name}} and {{name}}",
			data:  map[string]any{"name": "Ann"},
			want:  "Ann and Ann",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Render(tt.input, tt.data))
		})
	}
}
