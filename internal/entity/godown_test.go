package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseGodown(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Godown
		wantErr bool
	}{
		{"plain delhi", "Delhi", GodownDelhi, false},
		{"delhi with site", "Delhi - Mundka", GodownDelhi, false},
		{"mundka only", "MUNDKA WAREHOUSE", GodownDelhi, false},
		{"plain south", "south", GodownSouth, false},
		{"south godown", "South Godown", GodownSouth, false},
		{"padded", "  delhi  ", GodownDelhi, false},
		{"empty", "", "", true},
		{"blank", "   ", "", true},
		{"unknown", "Mumbai", "", true},
		{"typo", "dehli", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseGodown(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
