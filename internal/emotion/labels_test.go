package emotion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLabelsOrderAndValidity(t *testing.T) {
	known := Labels()
	require.Len(t, known, 7)

	expected := []Label{Anger, Disgust, Fear, Joy, Neutral, Sadness, Surprise}
	assert.Equal(t, expected, known)

	for _, l := range known {
		assert.True(t, l.Valid(), "label %q should be valid", l)
	}

	assert.False(t, Label("boredom").Valid())
	assert.False(t, Label("").Valid())
}

func TestDistributionTop(t *testing.T) {
	tests := []struct {
		name string
		dist Distribution
		want Label
		ok   bool
	}{
		{
			name: "clear winner",
			dist: Distribution{
				{Label: Anger, Score: 0.91},
				{Label: Neutral, Score: 0.05},
				{Label: Joy, Score: 0.04},
			},
			want: Anger,
			ok:   true,
		},
		{
			name: "winner not first in input order",
			dist: Distribution{
				{Label: Surprise, Score: 0.2},
				{Label: Sadness, Score: 0.7},
				{Label: Fear, Score: 0.1},
			},
			want: Sadness,
			ok:   true,
		},
		{
			name: "tie resolves to earlier canonical label",
			dist: Distribution{
				{Label: Surprise, Score: 0.5},
				{Label: Disgust, Score: 0.5},
			},
			want: Disgust,
			ok:   true,
		},
		{
			name: "all-equal tie picks first canonical label",
			dist: Distribution{
				{Label: Neutral, Score: 0.142},
				{Label: Joy, Score: 0.142},
				{Label: Anger, Score: 0.142},
			},
			want: Anger,
			ok:   true,
		},
		{
			name: "empty distribution",
			dist: Distribution{},
			want: "",
			ok:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.dist.Top()
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
