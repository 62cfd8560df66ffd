// Package units normalizes free-text unit spellings and converts quantities
// between units of the same family.
package units

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Family groups units that can be converted into one another.
type Family string

const (
	FamilyWeight  Family = "weight"
	FamilyVolume  Family = "volume"
	FamilyCount   Family = "count"
	FamilyUnknown Family = ""
)

// Canonical unit names.
const (
	Grams  = "grams"
	Kg     = "kg"
	Ml     = "ml"
	Liters = "liters"
	Pieces = "pieces"
	Dozen  = "dozen"
)

// ErrUnsupportedConversion is returned when two units cannot be converted.
var ErrUnsupportedConversion = errors.New("unsupported unit conversion")

// Scale is the number of decimal places kept when a conversion divides.
const Scale = 9

// Dust is the smallest quantity still treated as stock. Repeated rounded
// conversions (pieces into dozens) can leave less than this behind.
var Dust = decimal.New(1, -6)

// Unit is a normalized unit with its family and its factor to the family base.
type Unit struct {
	Name   string
	Family Family
	Factor decimal.Decimal
}

// Known reports whether the unit belongs to one of the built-in families.
func (u Unit) Known() bool {
	return u.Family != FamilyUnknown
}

var (
	thousand = decimal.NewFromInt(1000)
	twelve   = decimal.NewFromInt(12)
	one      = decimal.NewFromInt(1)
)

var canonical = map[string]Unit{
	Grams:  {Name: Grams, Family: FamilyWeight, Factor: one},
	Kg:     {Name: Kg, Family: FamilyWeight, Factor: thousand},
	Ml:     {Name: Ml, Family: FamilyVolume, Factor: one},
	Liters: {Name: Liters, Family: FamilyVolume, Factor: thousand},
	Pieces: {Name: Pieces, Family: FamilyCount, Factor: one},
	Dozen:  {Name: Dozen, Family: FamilyCount, Factor: twelve},
}

var synonyms = map[string]string{
	"g":           Grams,
	"gm":          Grams,
	"gram":        Grams,
	"grams":       Grams,
	"kg":          Kg,
	"kilogram":    Kg,
	"kilograms":   Kg,
	"ml":          Ml,
	"milliliter":  Ml,
	"milliliters": Ml,
	"l":           Liters,
	"liter":       Liters,
	"liters":      Liters,
	"litre":       Liters,
	"litres":      Liters,
	"pc":          Pieces,
	"pcs":         Pieces,
	"piece":       Pieces,
	"pieces":      Pieces,
	"dozen":       Dozen,
	"doz":         Dozen,
}

var familyBase = map[Family]string{
	FamilyWeight: Grams,
	FamilyVolume: Ml,
	FamilyCount:  Pieces,
}

// Normalize returns the canonical spelling of raw. Unknown units come back
// trimmed and lowercased.
func Normalize(raw string) string {
	key := strings.ToLower(strings.TrimSpace(raw))
	if name, ok := synonyms[key]; ok {
		return name
	}
	return key
}

// Lookup normalizes raw and returns its unit description. Unknown units have
// FamilyUnknown and a factor of one.
func Lookup(raw string) Unit {
	name := Normalize(raw)
	if u, ok := canonical[name]; ok {
		return u
	}
	return Unit{Name: name, Family: FamilyUnknown, Factor: one}
}

// Base returns the base unit name of a family, or "" for FamilyUnknown.
func Base(f Family) string {
	return familyBase[f]
}

// Compatible reports whether a quantity written in from can be consumed from
// an item stocked in to. An empty target accepts anything. Unknown units are
// only compatible with the same spelling.
func Compatible(from, to string) bool {
	if strings.TrimSpace(to) == "" {
		return true
	}
	a, b := Lookup(from), Lookup(to)
	if a.Known() && b.Known() {
		return a.Family == b.Family
	}
	return a.Name == b.Name
}

// Convert expresses q, written in unit from, in unit to.
func Convert(q decimal.Decimal, from, to string) (decimal.Decimal, error) {
	a, b := Lookup(from), Lookup(to)
	if a.Name == b.Name {
		return q, nil
	}
	if !a.Known() || !b.Known() || a.Family != b.Family {
		return decimal.Zero, fmt.Errorf("%w: %s to %s", ErrUnsupportedConversion, a.Name, b.Name)
	}
	return q.Mul(a.Factor).DivRound(b.Factor, Scale), nil
}

// ToBase expresses q in the base unit of its family and returns that unit.
// Unknown units are returned unchanged.
func ToBase(q decimal.Decimal, unit string) (decimal.Decimal, string) {
	u := Lookup(unit)
	if !u.Known() {
		return q, u.Name
	}
	return q.Mul(u.Factor), Base(u.Family)
}

// ConvertForItem converts q into the stocking unit of an item. Items without
// a unit take the family base unit of q.
func ConvertForItem(q decimal.Decimal, from, itemUnit string) (decimal.Decimal, error) {
	if strings.TrimSpace(itemUnit) == "" {
		base, _ := ToBase(q, from)
		return base, nil
	}
	return Convert(q, from, itemUnit)
}
