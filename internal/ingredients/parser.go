// Package ingredients parses recipe ingredient lines of the form
// "<name>: <quantity><unit>".
package ingredients

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Reasons reported by ParseError.
const (
	ReasonMissingSeparator    = "missing separator"
	ReasonMissingName         = "missing name"
	ReasonUnparseableQuantity = "unparseable quantity"
	ReasonNonPositiveQuantity = "non-positive quantity"
)

var quantityPattern = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*([a-zA-Z]+)`)

// Reference is one parsed ingredient line.
type Reference struct {
	RawText  string
	Name     string
	Quantity decimal.Decimal
	Unit     string
}

// ParseError reports an ingredient line that could not be parsed.
type ParseError struct {
	RawText string
	Reason  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing ingredient %q: %s", e.RawText, e.Reason)
}

// Parse splits raw on its first ':' and reads the first number followed by a
// unit word from the right-hand side. Anything after that match is ignored.
func Parse(raw string) (Reference, error) {
	name, rest, ok := strings.Cut(raw, ":")
	if !ok {
		return Reference{}, &ParseError{RawText: raw, Reason: ReasonMissingSeparator}
	}

	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return Reference{}, &ParseError{RawText: raw, Reason: ReasonMissingName}
	}

	m := quantityPattern.FindStringSubmatch(rest)
	if m == nil {
		return Reference{}, &ParseError{RawText: raw, Reason: ReasonUnparseableQuantity}
	}

	qty, err := decimal.NewFromString(m[1])
	if err != nil {
		return Reference{}, &ParseError{RawText: raw, Reason: ReasonUnparseableQuantity}
	}
	if !qty.IsPositive() {
		return Reference{}, &ParseError{RawText: raw, Reason: ReasonNonPositiveQuantity}
	}

	return Reference{
		RawText:  raw,
		Name:     name,
		Quantity: qty,
		Unit:     m[2],
	}, nil
}

// ParseAll parses every line and keeps going past failures. The returned
// references and errors are in input order.
func ParseAll(raws []string) ([]Reference, []error) {
	var (
		refs []Reference
		errs []error
	)
	for _, raw := range raws {
		ref, err := Parse(raw)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		refs = append(refs, ref)
	}
	return refs, errs
}
