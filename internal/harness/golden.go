package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"
)

// RunWithGolden runs the scenario at the given path and compares the
// encoded text against the golden file named after the scenario.
// Regenerate golden files with: go test ./internal/harness/ -update
func RunWithGolden(t *testing.T, scenarioPath string) *Result {
	t.Helper()

	scenario, err := LoadScenario(scenarioPath)
	if err != nil {
		t.Fatalf("failed to load scenario: %v", err)
	}

	result, err := Run(scenario)
	if err != nil {
		t.Fatalf("scenario %s: %v", scenario.Name, err)
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, []byte(result.Text))
	return result
}
