package classify

import "strings"

// Deed-of-trust shorthand as recorded by county clerks.
var deedOfTrustExact = map[string]struct{}{
	"dt":                   {},
	"d/t":                  {},
	"d-t":                  {},
	"d-tr":                 {},
	"d-trust":              {},
	"sub tr":               {},
	"subst tr":             {},
	"substitution trustee": {},
}

// RuleClassify assigns a category to a label using the ordered keyword
// table. It is total: every input gets a category, with MISC as the final
// bucket. First matching rule wins, so order matters — abbreviations and
// more specific phrases sit above the generic keywords they contain.
func RuleClassify(label string) string {
	lower := strings.ToLower(strings.TrimSpace(label))

	if _, ok := deedOfTrustExact[lower]; ok {
		return "DEED_OF_TRUST"
	}
	if strings.Contains(lower, "trust") && (strings.Contains(lower, "deed") || strings.HasPrefix(lower, "trust")) {
		return "DEED_OF_TRUST"
	}
	if containsAny(lower, "mortgage", "mtge", "mtg", "morg") {
		return "MORTGAGE"
	}
	if containsAny(lower, "satisfaction", "sat") {
		return "RELEASE"
	}
	if containsAny(lower, "cancellation", "can", "cancel") {
		return "RELEASE"
	}
	if containsAny(lower, "release", "rel") {
		return "RELEASE"
	}
	if strings.Contains(lower, "lien") || lower == "judgment" || lower == "judgement" {
		return "LIEN"
	}
	if containsAny(lower, "plat", "map/r", "map") {
		return "PLAT"
	}
	if strings.Contains(lower, "lease") {
		return "LEASE"
	}
	if containsAny(lower, "substitute trustee", "substitution trustee", "sub tr", "subst tr") {
		return "DEED_OF_TRUST"
	}
	if strings.Contains(lower, "easement") || strings.Contains(lower, "right of way") {
		return "EASEMENT"
	}
	if containsAny(lower, "deed", "warranty", "quitclaim", "grant", "conveyance") {
		switch {
		case strings.Contains(lower, "trust"), strings.Contains(lower, "trustee"):
			return "DEED_OF_TRUST"
		case strings.Contains(lower, "easement"):
			return "EASEMENT"
		default:
			return "SALE_DEED"
		}
	}
	if containsAny(lower, "assignment", "asign", "assign") {
		switch {
		case strings.Contains(lower, "mortgage"), strings.Contains(lower, "mtg"):
			return "MORTGAGE"
		case strings.Contains(lower, "trust"), strings.Contains(lower, "trustee"):
			return "DEED_OF_TRUST"
		default:
			return "MISC"
		}
	}
	return "MISC"
}

// RuleClassifyAll applies RuleClassify to every label.
func RuleClassifyAll(labels []string) map[string]string {
	mapping := make(map[string]string, len(labels))
	for _, label := range labels {
		mapping[label] = RuleClassify(label)
	}
	return mapping
}

func containsAny(s string, keywords ...string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
