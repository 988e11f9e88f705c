package domain

// Badge identifiers. One per wizard step plus the two milestone badges.
const (
	BadgeProblemAnalyst    = "problem-analyst"
	BadgeStakeholderMapper = "stakeholder-mapper"
	BadgeRootCauseDetect   = "root-cause-detective"
	BadgeSolutionArchitect = "solution-architect"
	BadgeTheoryBuilder     = "theory-builder"
	BadgeLogframeMaster    = "logframe-master"
	BadgeImpactMeasurer    = "impact-measurer"
	BadgeProgramDesigner   = "program-designer"
	BadgeFirstProject      = "first-project"
)

var stepBadges = [TotalSteps + 1]string{
	1: BadgeProblemAnalyst,
	2: BadgeStakeholderMapper,
	3: BadgeRootCauseDetect,
	4: BadgeSolutionArchitect,
	5: BadgeTheoryBuilder,
	6: BadgeLogframeMaster,
	7: BadgeImpactMeasurer,
}

// StepBadge maps a wizard step to its badge id; empty for steps outside 1..7.
func StepBadge(step int) string {
	if step < 1 || step > TotalSteps {
		return ""
	}
	return stepBadges[step]
}
