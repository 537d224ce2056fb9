package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/LDY1998/prusti-dev/internal/loader"
	"github.com/LDY1998/prusti-dev/internal/vir"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Program string   `json:"program"`
	Valid   bool     `json:"valid"`
	Errors  []string `json:"errors,omitempty"`
}

func (r ValidationResult) String() string {
	if r.Valid {
		return fmt.Sprintf("%s: valid", r.Program)
	}
	return fmt.Sprintf("%s: invalid (%d error(s))", r.Program, len(r.Errors))
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <program.cue>",
		Short: "Validate a verification program without encoding it",
		Long: `Validate a CUE verification program without producing output.

Checks document structure and the statement-level invariants the encoder
relies on. Faster than encode for development feedback.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	program, err := loader.LoadFile(path)
	if err != nil {
		var compileErr *loader.CompileError
		if errors.As(err, &compileErr) {
			formatter.Error("E_LOAD", compileErr.Error())
			return WrapExitError(ExitFailure, "program does not parse", err)
		}
		formatter.Error("E_LOAD", err.Error())
		return WrapExitError(ExitCommandError, "loading program", err)
	}
	formatter.VerboseLog("Loaded program %q from %s", program.Name, path)

	if err := vir.Validate(program); err != nil {
		result := ValidationResult{
			Program: program.Name,
			Valid:   false,
			Errors:  []string{err.Error()},
		}
		if out := formatter.Success(result); out != nil {
			return out
		}
		return WrapExitError(ExitFailure, "program is not well formed", err)
	}

	return formatter.Success(ValidationResult{Program: program.Name, Valid: true})
}
