// Package recipes loads recipe files for the CLI.
//
// A recipe file is YAML:
//
//	name: Tomato soup
//	servings: 4
//	ingredients:
//	  - "tomato: 2 kg"
//	  - "onion: 200g"
package recipes

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Recipe is a named list of ingredient lines.
type Recipe struct {
	Name        string   `yaml:"name"`
	Servings    int      `yaml:"servings"`
	Ingredients []string `yaml:"ingredients"`
	Notes       string   `yaml:"notes,omitempty"`
}

// Validate checks the recipe has a name and at least one ingredient.
func (r *Recipe) Validate() error {
	var errs []error

	if strings.TrimSpace(r.Name) == "" {
		errs = append(errs, errors.New("name is required"))
	}
	if r.Servings < 0 {
		errs = append(errs, fmt.Errorf("servings must be non-negative, got %d", r.Servings))
	}
	if len(r.Ingredients) == 0 {
		errs = append(errs, errors.New("at least one ingredient is required"))
	}

	return errors.Join(errs...)
}

// Decode reads one recipe from r. Unknown fields are rejected.
func Decode(r io.Reader) (*Recipe, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var recipe Recipe
	if err := dec.Decode(&recipe); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("decoding recipe: empty document")
		}
		return nil, fmt.Errorf("decoding recipe: %w", err)
	}
	if recipe.Servings == 0 {
		recipe.Servings = 1
	}
	if err := recipe.Validate(); err != nil {
		return nil, fmt.Errorf("invalid recipe: %w", err)
	}
	return &recipe, nil
}

// Load reads a recipe file.
func Load(path string) (*Recipe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading recipe file: %w", err)
	}

	recipe, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return recipe, nil
}

// Save writes a recipe file.
func Save(path string, r *Recipe) error {
	if err := r.Validate(); err != nil {
		return fmt.Errorf("invalid recipe: %w", err)
	}

	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("encoding recipe: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing recipe file: %w", err)
	}
	return nil
}
