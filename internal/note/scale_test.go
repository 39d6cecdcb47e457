package note

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScale(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		factor float64
		want   string
	}{
		{"half again", "2 Eier", 1.5, "3 Eier"},
		{"doubled with unit", "500 g Mehl", 2, "1000 g Mehl"},
		{"fraction amount", "1/2 Zitrone", 2, "1 Zitrone"},
		{"decimal comma amount", "1,5 kg Kartoffeln", 2, "3 kg Kartoffeln"},
		{"fractional result gets two decimals", "2 Eier", 1.25, "2.50 Eier"},
		{"halved", "4 Tomaten", 0.5, "2 Tomaten"},
		{"no leading amount passes through", "Milch", 2, "Milch"},
		{"salt passes through", "Salz und Pfeffer", 3, "Salz und Pfeffer"},
		{"dotted unit keeps remainder", "1 Pck. Backpulver", 2, "2 Pck. Backpulver"},
		{"inner numbers untouched", "2 Eier Größe 2", 2, "4 Eier Größe 2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Scale(tt.raw, tt.factor))
		})
	}
}

func TestScaleIdentityFactor(t *testing.T) {
	// A factor of 1 may still reformat the amount but never changes
	// its value.
	assert.Equal(t, "2 Eier", Scale("2 Eier", 1))
	assert.Equal(t, "3 kg Kartoffeln", Scale("3 kg Kartoffeln", 1))
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"2", 2, true},
		{"2,5", 2.5, true},
		{"2.5", 2.5, true},
		{"1/2", 0.5, true},
		{"3/4", 0.75, true},
		{"1/0", 0, false},
		{"1/2/3", 0, false},
		{"..", 0, false},
	}

	for _, tt := range tests {
		got, ok := parseAmount(tt.in)
		assert.Equal(t, tt.ok, ok, "input %q", tt.in)
		if tt.ok {
			assert.InDelta(t, tt.want, got, 1e-9, "input %q", tt.in)
		}
	}
}
