package client

import "logframe-studio/internal/domain"

// DeriveBadges maps project progress onto the badge identifiers that
// should be earned. Pure; callers union the result into existing state
// through the idempotent EarnBadge, which is what makes re-running it
// after every fetch and progress update a safe repair mechanism for
// grants a prior session failed to persist.
func DeriveBadges(projects []domain.Project) []string {
	var out []string
	seen := map[string]bool{}
	add := func(id string) {
		if id != "" && !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}

	for _, p := range projects {
		for _, step := range p.CompletedSteps {
			add(domain.StepBadge(step))
		}
		if len(domain.NormalizeSteps(p.CompletedSteps)) == domain.TotalSteps {
			add(domain.BadgeProgramDesigner)
		}
	}
	if len(projects) > 0 {
		add(domain.BadgeFirstProject)
	}
	return out
}
