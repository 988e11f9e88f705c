package domain

import "testing"

func TestObjectiveTreeFromProblemTree(t *testing.T) {
	pt := ProblemTree{
		CoreProblem: "Low reading proficiency",
		Causes: []TreeItem{
			{ID: "c1", Text: "lack of reading material", Level: 0},
			{ID: "c2", Text: "poor teacher training", Level: 1},
		},
		Effects: []TreeItem{{ID: "e1", Text: "high dropout rates", Level: 0}},
	}
	ot := ObjectiveTreeFromProblemTree(pt)

	if ot.CoreObjective != "Improved reading proficiency" {
		t.Errorf("core = %q", ot.CoreObjective)
	}
	if len(ot.Means) != 2 || len(ot.Ends) != 1 {
		t.Fatalf("means=%d ends=%d", len(ot.Means), len(ot.Ends))
	}
	if ot.Means[0].Text != "adequate reading material" {
		t.Errorf("means[0] = %q", ot.Means[0].Text)
	}
	if ot.Ends[0].Text != "reduced dropout rates" {
		t.Errorf("ends[0] = %q", ot.Ends[0].Text)
	}
	if ot.Means[0].ID == pt.Causes[0].ID {
		t.Error("mirrored items must get fresh ids")
	}
	if ot.Means[1].Level != 1 {
		t.Error("levels must carry over")
	}
}

func TestResultsChainFromObjectiveTree(t *testing.T) {
	ot := ObjectiveTree{
		CoreObjective: "Improved literacy",
		Means:         []TreeItem{{ID: "m1", Text: "trained teachers"}},
		Ends:          []TreeItem{{ID: "e1", Text: "better life outcomes"}},
	}
	rc := ResultsChainFromObjectiveTree(ot)
	if rc.Impact != ot.CoreObjective {
		t.Errorf("impact = %q", rc.Impact)
	}
	if len(rc.Outcomes) != 1 || rc.Outcomes[0].Text != "better life outcomes" {
		t.Errorf("outcomes = %+v", rc.Outcomes)
	}
	if len(rc.Outputs) != 1 || rc.Outputs[0].Text != "trained teachers" {
		t.Errorf("outputs = %+v", rc.Outputs)
	}
}
