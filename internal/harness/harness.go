package harness

import (
	"fmt"
	"strings"

	"github.com/LDY1998/prusti-dev/internal/encoder"
	"github.com/LDY1998/prusti-dev/internal/fingerprint"
	"github.com/LDY1998/prusti-dev/internal/loader"
	"github.com/LDY1998/prusti-dev/internal/vir"
	"github.com/LDY1998/prusti-dev/internal/viper"
)

// Result holds the outcome of running a scenario.
type Result struct {
	// Text is the printed backend program.
	Text string

	// Fingerprint is the canonical content hash of the loaded program.
	Fingerprint string
}

// Run loads the scenario's program, encodes it with the scenario's flags,
// and checks every assertion. It returns the encoded text and fingerprint
// so callers can pin the output in a golden file.
func Run(s *Scenario) (*Result, error) {
	program, err := loader.LoadFile(s.ProgramPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load program: %w", err)
	}
	if err := vir.Validate(program); err != nil {
		return nil, fmt.Errorf("invalid program: %w", err)
	}

	fp, err := fingerprint.Program(program)
	if err != nil {
		return nil, fmt.Errorf("failed to fingerprint program: %w", err)
	}

	enc := encoder.New(viper.NewAstFactory(), encoder.Config{
		VerifyOnlyPreamble: s.PreambleOnly,
		SimplifyEncoding:   s.Simplify,
	})
	result := &Result{
		Text:        viper.Print(enc.Program(program)),
		Fingerprint: fp,
	}

	for i, a := range s.Assertions {
		if err := checkAssertion(a, result); err != nil {
			return nil, fmt.Errorf("assertion %d failed: %w", i, err)
		}
	}
	return result, nil
}

func checkAssertion(a Assertion, result *Result) error {
	switch a.Type {
	case AssertContains:
		if !strings.Contains(result.Text, a.Text) {
			return fmt.Errorf("encoded text does not contain %q", a.Text)
		}
	case AssertNotContains:
		if strings.Contains(result.Text, a.Text) {
			return fmt.Errorf("encoded text contains %q", a.Text)
		}
	case AssertFingerprint:
		if result.Fingerprint != a.Value {
			return fmt.Errorf("fingerprint %s does not match expected %s", result.Fingerprint, a.Value)
		}
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
	return nil
}
