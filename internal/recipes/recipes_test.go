package recipes

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
		want    *Recipe
	}{
		{
			name: "full recipe",
			input: `
name: Tomato soup
servings: 4
ingredients:
  - "tomato: 2 kg"
  - "onion: 200g"
`,
			want: &Recipe{
				Name:        "Tomato soup",
				Servings:    4,
				Ingredients: []string{"tomato: 2 kg", "onion: 200g"},
			},
		},
		{
			name:  "servings default to one",
			input: "name: Toast\ningredients: [\"bread: 2pcs\"]\n",
			want:  &Recipe{Name: "Toast", Servings: 1, Ingredients: []string{"bread: 2pcs"}},
		},
		{
			name:    "missing name and ingredients",
			input:   "servings: 2\n",
			wantErr: "name is required",
		},
		{
			name:    "unknown field",
			input:   "name: Soup\ningredients: [\"water: 1l\"]\ncalories: 90\n",
			wantErr: "calories",
		},
		{
			name:    "empty document",
			input:   "",
			wantErr: "empty document",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(strings.NewReader(tt.input))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pilaf.yaml")
	r := &Recipe{
		Name:        "Pilaf",
		Servings:    2,
		Ingredients: []string{"rice: 300g", "onion: 1pcs"},
		Notes:       "rinse the rice",
	}

	require.NoError(t, Save(path, r))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, r, loaded)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	assert.Error(t, Save(path, &Recipe{Name: "Nothing"}))
}
