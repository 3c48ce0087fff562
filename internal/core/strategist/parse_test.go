package strategist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vectorclash/vectorclash/internal/core/intent"
)

func TestParseDecision(t *testing.T) {
	tests := []struct {
		name         string
		text         string
		want         intent.Decision
		wantThinking string
		wantOK       bool
	}{
		{
			name:         "well-formed response",
			text:         "<thinking>Enemy strafes left, closing gap.</thinking>\n{\"dx\": -0.9, \"dy\": 0.3, \"shoot\": true}",
			want:         intent.Decision{DX: -0.9, DY: 0.3, Fire: true},
			wantThinking: "Enemy strafes left, closing gap.",
			wantOK:       true,
		},
		{
			name:   "bare json no thinking",
			text:   `{"dx": 1.0, "dy": 0.0, "shoot": false}`,
			want:   intent.Decision{DX: 1.0},
			wantOK: true,
		},
		{
			name:   "trailing comma tolerated",
			text:   `{"dx": 0.5, "dy": -0.5, "shoot": true,}`,
			want:   intent.Decision{DX: 0.5, DY: -0.5, Fire: true},
			wantOK: true,
		},
		{
			name:   "last object wins",
			text:   `{"example": 1} some prose {"dx": 0.2, "dy": 0.4, "shoot": true}`,
			want:   intent.Decision{DX: 0.2, DY: 0.4, Fire: true},
			wantOK: true,
		},
		{
			name:   "missing fields default to zero",
			text:   `{"shoot": true}`,
			want:   intent.Decision{Fire: true},
			wantOK: true,
		},
		{
			name:   "regex fallback on malformed json",
			text:   `move with "dx": 0.7 and "dy": -0.2, "shoot": TRUE please`,
			want:   intent.Decision{DX: 0.7, DY: -0.2, Fire: true},
			wantOK: true,
		},
		{
			name:         "nothing recoverable",
			text:         "<thinking>hmm</thinking> I refuse to answer in the requested format.",
			wantThinking: "hmm",
			wantOK:       false,
		},
		{
			name:   "empty input",
			text:   "",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, thinking, ok := ParseDecision(tt.text)
			require.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantThinking, thinking)
			if ok {
				assert.InDelta(t, tt.want.DX, got.DX, 1e-12)
				assert.InDelta(t, tt.want.DY, got.DY, 1e-12)
				assert.Equal(t, tt.want.Fire, got.Fire)
			}
		})
	}
}

func TestParseDecision_ThinkingStrippedFromJSONSearch(t *testing.T) {
	// A JSON-looking fragment inside the thinking block must not be parsed
	// as the command.
	text := `<thinking>I could send {"dx": 9, "dy": 9, "shoot": false}</thinking> {"dx": -1, "dy": 0, "shoot": true}`
	got, _, ok := ParseDecision(text)
	require.True(t, ok)
	assert.Equal(t, -1.0, got.DX)
	assert.True(t, got.Fire)
}
