// Package loader reads verification programs from CUE documents.
//
// A document declares a single program under the top-level "program"
// field. Types are written as strings ("Int", "Bool", "Ref(Name)",
// "Domain(Name)"); expressions and statements are kind-tagged structs.
// Uses the CUE SDK's Go API directly (not CLI subprocess).
package loader

import (
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/LDY1998/prusti-dev/internal/vir"
)

// CompileError reports a structural problem in a program document.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return err
	}
	first := errs[0]
	return &CompileError{
		Field:   "cue",
		Message: first.Error(),
		Pos:     first.Position(),
	}
}

// LoadFile reads and compiles a program from a CUE file.
func LoadFile(path string) (*vir.Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read program: %w", err)
	}
	return LoadBytes(data, path)
}

// LoadBytes compiles a program from CUE source. The filename is used in
// error positions only.
func LoadBytes(data []byte, filename string) (*vir.Program, error) {
	ctx := cuecontext.New()
	value := ctx.CompileBytes(data, cue.Filename(filename))
	if err := value.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	programVal := value.LookupPath(cue.ParsePath("program"))
	if !programVal.Exists() {
		return nil, &CompileError{
			Field:   "program",
			Message: "program is required",
			Pos:     value.Pos(),
		}
	}
	return CompileProgram(programVal)
}
