package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTargetReps(t *testing.T) {
	tests := []struct {
		name string
		reps string
		sets int
		want []int
	}{
		{name: "empty string", reps: "", sets: 3, want: nil},
		{name: "zero sets", reps: "10", sets: 0, want: nil},
		{name: "negative sets", reps: "10", sets: -1, want: nil},
		{name: "single value applied to every set", reps: "10", sets: 3, want: []int{10, 10, 10}},
		{name: "exact length sequence", reps: "8|8|6", sets: 3, want: []int{8, 8, 6}},
		{name: "short sequence carries last value", reps: "8|8|6", sets: 4, want: []int{8, 8, 6, 6}},
		{name: "longer sequence truncated to sets", reps: "12|10|8|6", sets: 2, want: []int{12, 10}},
		{name: "range token is not numeric", reps: "10-12", sets: 3, want: []int{0, 0, 0}},
		{name: "non numeric single token", reps: "AMRAP", sets: 2, want: []int{0, 0}},
		{name: "malformed mid token falls back to last", reps: "8|x|6", sets: 3, want: []int{8, 6, 6}},
		{name: "malformed last token", reps: "8|6|x", sets: 3, want: []int{8, 6, 0}},
		{name: "empty mid token counts as zero", reps: "8||6", sets: 3, want: []int{8, 0, 6}},
		{name: "trailing empty token carries zero forward", reps: "8|", sets: 3, want: []int{8, 0, 0}},
		{name: "whitespace around tokens", reps: " 8 | 6 ", sets: 2, want: []int{8, 6}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseTargetReps(tt.reps, tt.sets))
		})
	}
}
