package audit

import (
	"fmt"
	"sort"
	"strings"
)

// Built-in guardrail profile names.
const (
	// ProfileAudit matches the audit tool defaults (0.9 / 0.9).
	ProfileAudit = "audit"
	// ProfileSimulator treats guardrails as fully satisfied (1.0 / 1.0).
	ProfileSimulator = "simulator"
)

// GuardrailProfiles are the recognized default safety/proportionality pairs.
// defaults.yaml may add profiles or override these.
var GuardrailProfiles = map[string]Guardrails{
	ProfileAudit:     {Safety: 0.9, Proportionality: 0.9},
	ProfileSimulator: {Safety: 1.0, Proportionality: 1.0},
}

// LookupProfile returns the named profile from profiles, falling back to the
// built-in GuardrailProfiles. An empty name selects ProfileAudit.
func LookupProfile(profiles map[string]Guardrails, name string) (Guardrails, error) {
	if name == "" {
		name = ProfileAudit
	}
	if g, ok := profiles[name]; ok {
		return g, nil
	}
	if g, ok := GuardrailProfiles[name]; ok {
		return g, nil
	}
	return Guardrails{}, fmt.Errorf("unknown guardrail profile %q; valid: %s", name, strings.Join(profileNames(profiles), ", "))
}

func profileNames(profiles map[string]Guardrails) []string {
	seen := make(map[string]bool)
	var names []string
	for _, m := range []map[string]Guardrails{GuardrailProfiles, profiles} {
		for name := range m {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	sort.Strings(names)
	return names
}
