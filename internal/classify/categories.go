// Package classify maps messy document-type labels onto a fixed set of
// standardized categories, via an LLM pass with a deterministic rule-table
// fallback that guarantees total coverage.
package classify

// Categories is the fixed set of standardized document-type tags. Every
// label in a finished mapping carries exactly one of these.
var Categories = []string{
	"SALE_DEED",
	"MORTGAGE",
	"DEED_OF_TRUST",
	"RELEASE",
	"LIEN",
	"PLAT",
	"EASEMENT",
	"LEASE",
	"MISC",
}

var categorySet = func() map[string]struct{} {
	s := make(map[string]struct{}, len(Categories))
	for _, c := range Categories {
		s[c] = struct{}{}
	}
	return s
}()

// ValidCategory reports whether name is one of the standardized tags.
func ValidCategory(name string) bool {
	_, ok := categorySet[name]
	return ok
}
