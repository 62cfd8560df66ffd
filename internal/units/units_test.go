package units

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"g", Grams},
		{" GM ", Grams},
		{"Grams", Grams},
		{"kilogram", Kg},
		{"KG", Kg},
		{"milliliters", Ml},
		{"l", Liters},
		{"Litres", Liters},
		{"pcs", Pieces},
		{"piece", Pieces},
		{"doz", Dozen},
		{"Cups", "cups"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.raw))
		})
	}
}

func TestCompatible(t *testing.T) {
	tests := []struct {
		name     string
		from, to string
		want     bool
	}{
		{"same unit", "g", "grams", true},
		{"same family", "kg", "grams", true},
		{"volume family", "l", "ml", true},
		{"count family", "dozen", "pcs", true},
		{"cross family", "kg", "ml", false},
		{"empty target accepts anything", "cups", "", true},
		{"unknown same spelling", "Cups", "cups", true},
		{"unknown different spelling", "cups", "tbsp", false},
		{"unknown vs known", "cups", "ml", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Compatible(tt.from, tt.to))
		})
	}
}

func TestConvert(t *testing.T) {
	tests := []struct {
		q        string
		from, to string
		want     string
	}{
		{"2", "kg", "grams", "2000"},
		{"500", "g", "kg", "0.5"},
		{"1.5", "l", "ml", "1500"},
		{"2", "dozen", "pieces", "24"},
		{"1", "pc", "dozen", "0.083333333"},
		{"6", "pieces", "dozen", "0.5"},
		{"3", "cups", "cups", "3"},
	}

	for _, tt := range tests {
		t.Run(tt.from+"->"+tt.to, func(t *testing.T) {
			got, err := Convert(decimal.RequireFromString(tt.q), tt.from, tt.to)
			require.NoError(t, err)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "got %s want %s", got, tt.want)
		})
	}

	t.Run("cross family fails", func(t *testing.T) {
		_, err := Convert(decimal.NewFromInt(1), "kg", "ml")
		assert.True(t, errors.Is(err, ErrUnsupportedConversion))
	})

	t.Run("unknown units fail", func(t *testing.T) {
		_, err := Convert(decimal.NewFromInt(1), "cups", "tbsp")
		assert.ErrorIs(t, err, ErrUnsupportedConversion)
	})
}

func TestConvertForItem(t *testing.T) {
	got, err := ConvertForItem(decimal.NewFromInt(2), "kg", "")
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.NewFromInt(2000)))

	got, err = ConvertForItem(decimal.NewFromInt(3), "cups", "")
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.NewFromInt(3)))

	got, err = ConvertForItem(decimal.NewFromInt(250), "g", "kg")
	require.NoError(t, err)
	assert.Equal(t, "0.25", got.String())
}
