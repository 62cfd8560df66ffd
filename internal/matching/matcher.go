// Package matching resolves parsed ingredient references to inventory items
// by name, gated on unit compatibility.
package matching

import (
	"strings"
	"unicode/utf8"

	"github.com/pantrymind/pantrymind/internal/ingredients"
	"github.com/pantrymind/pantrymind/internal/models"
	"github.com/pantrymind/pantrymind/internal/units"
)

// Tier is a name-matching rule. It reports whether a reference name matches
// a candidate item name. Both names are already lowercased and trimmed.
type Tier struct {
	Name  string
	Match func(refName, itemName string) bool
}

// Exact matches identical names.
var Exact = Tier{
	Name: "exact",
	Match: func(refName, itemName string) bool {
		return refName == itemName
	},
}

// Containment matches when either name contains the other.
var Containment = Tier{
	Name: "containment",
	Match: func(refName, itemName string) bool {
		return strings.Contains(itemName, refName) || strings.Contains(refName, itemName)
	},
}

// WordOverlap matches when some word of one name and some word of the other,
// both longer than two characters, contain one another.
var WordOverlap = Tier{
	Name: "word-overlap",
	Match: func(refName, itemName string) bool {
		for _, rw := range strings.Fields(refName) {
			if utf8.RuneCountInString(rw) <= 2 {
				continue
			}
			for _, iw := range strings.Fields(itemName) {
				if utf8.RuneCountInString(iw) <= 2 {
					continue
				}
				if strings.Contains(rw, iw) || strings.Contains(iw, rw) {
					return true
				}
			}
		}
		return false
	},
}

// DefaultTiers is the standard tier order, strongest first.
var DefaultTiers = []Tier{Exact, Containment, WordOverlap}

// Match is the outcome of a successful lookup.
type Match struct {
	Item *models.InventoryItem
	Tier string

	// UnitReview is set when the match relied on an unknown unit spelling
	// or on the item having no unit at all.
	UnitReview bool
}

// Matcher applies tiers in order over a candidate list.
type Matcher struct {
	tiers []Tier
}

// New creates a matcher with the given tiers, or DefaultTiers when none are
// given.
func New(tiers ...Tier) *Matcher {
	if len(tiers) == 0 {
		tiers = DefaultTiers
	}
	return &Matcher{tiers: tiers}
}

// Match returns the first unit-compatible candidate under the strongest tier
// that yields one. Candidates are scanned in the order given, so callers
// wanting a stable result must pass a stable order. ok is false when no
// candidate matches.
func (m *Matcher) Match(ref ingredients.Reference, candidates []*models.InventoryItem) (Match, bool) {
	refName := strings.ToLower(strings.TrimSpace(ref.Name))
	if refName == "" {
		return Match{}, false
	}

	for _, tier := range m.tiers {
		for _, item := range candidates {
			if !units.Compatible(ref.Unit, item.Unit) {
				continue
			}
			if !tier.Match(refName, strings.ToLower(strings.TrimSpace(item.Name))) {
				continue
			}
			return Match{
				Item:       item,
				Tier:       tier.Name,
				UnitReview: needsUnitReview(ref.Unit, item.Unit),
			}, true
		}
	}
	return Match{}, false
}

func needsUnitReview(refUnit, itemUnit string) bool {
	if strings.TrimSpace(itemUnit) == "" {
		return !units.Lookup(refUnit).Known()
	}
	return !units.Lookup(refUnit).Known() || !units.Lookup(itemUnit).Known()
}
