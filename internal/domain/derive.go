package domain

import (
	"strings"

	"github.com/google/uuid"
)

// ObjectiveTreeFromProblemTree mirrors a problem tree into an objective
// tree: same shape, fresh ids, each negative statement reframed as the
// desired positive state. Editors call this to pre-populate step 4 from
// step 3; nothing invokes it implicitly.
func ObjectiveTreeFromProblemTree(pt ProblemTree) ObjectiveTree {
	return ObjectiveTree{
		CoreObjective: reframe(pt.CoreProblem),
		Means:         mirrorItems(pt.Causes),
		Ends:          mirrorItems(pt.Effects),
	}
}

// ResultsChainFromObjectiveTree seeds a results chain from an objective
// tree: ends become outcomes, means become outputs.
func ResultsChainFromObjectiveTree(ot ObjectiveTree) ResultsChain {
	rc := ResultsChain{Impact: ot.CoreObjective}
	for _, e := range ot.Ends {
		rc.Outcomes = append(rc.Outcomes, ChainItem{ID: uuid.NewString(), Text: e.Text})
	}
	for _, m := range ot.Means {
		rc.Outputs = append(rc.Outputs, ChainItem{ID: uuid.NewString(), Text: m.Text})
	}
	return rc
}

func mirrorItems(items []TreeItem) []TreeItem {
	out := make([]TreeItem, 0, len(items))
	for _, it := range items {
		out = append(out, TreeItem{ID: uuid.NewString(), Text: reframe(it.Text), Level: it.Level})
	}
	return out
}

// reframe turns a problem statement into an objective statement. Pure
// string surgery; the user is expected to edit the result.
func reframe(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	replacements := [][2]string{
		{"lack of ", "adequate "},
		{"Lack of ", "Adequate "},
		{"low ", "improved "},
		{"Low ", "Improved "},
		{"poor ", "improved "},
		{"Poor ", "Improved "},
		{"high ", "reduced "},
		{"High ", "Reduced "},
		{"no ", "available "},
		{"No ", "Available "},
	}
	for _, r := range replacements {
		if strings.HasPrefix(s, r[0]) {
			return r[1] + strings.TrimPrefix(s, r[0])
		}
	}
	return "Improved: " + s
}
