package dept

import (
	"strings"

	"parshealth.com/triage/types"
)

// matchKeywords runs the legacy substring matcher: the first
// department in taxonomy order with a keyword contained in the
// complaint wins. Deterministic and auditable, but brittle to
// phrasing; it backs the semantic matcher rather than replacing it.
func matchKeywords(taxonomy types.Taxonomy, complaint string) types.Department {
	for _, entry := range taxonomy.Entries {
		for _, keyword := range entry.Keywords {
			if strings.Contains(complaint, keyword) {
				return entry.Department
			}
		}
	}
	return types.DefaultDepartment
}
