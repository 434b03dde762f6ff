package scan

import (
	"fmt"
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Ordering rules accepted by Order.
const (
	OrderName    = "name"
	OrderCollate = "collate"
	OrderListing = "listing"
)

// Order returns a copy of names arranged by rule. OrderName sorts byte-wise,
// OrderCollate sorts with the locale rules of the collation tag, and
// OrderListing keeps the enumeration order ListFiles produced.
func Order(names []string, rule, collation string) ([]string, error) {
	out := slices.Clone(names)
	switch rule {
	case OrderName, "":
		slices.Sort(out)
	case OrderCollate:
		tag, err := language.Parse(collation)
		if err != nil {
			return nil, fmt.Errorf("collation %q: %w", collation, err)
		}
		collate.New(tag, collate.Numeric).SortStrings(out)
	case OrderListing:
	default:
		return nil, fmt.Errorf("unknown ordering rule %q", rule)
	}
	return out, nil
}
