package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/LDY1998/prusti-dev/internal/cache"
	"github.com/LDY1998/prusti-dev/internal/encoder"
	"github.com/LDY1998/prusti-dev/internal/fingerprint"
	"github.com/LDY1998/prusti-dev/internal/loader"
	"github.com/LDY1998/prusti-dev/internal/viper"
	"github.com/LDY1998/prusti-dev/internal/vir"
)

// EncodeOptions holds flags for the encode command.
type EncodeOptions struct {
	*RootOptions
	Output       string // output file path
	CachePath    string // sqlite cache path; empty disables caching
	PreambleOnly bool
	Simplify     bool
}

// EncodeResult is the success payload of the encode command.
type EncodeResult struct {
	Program     string `json:"program"`
	Fingerprint string `json:"fingerprint"`
	Cached      bool   `json:"cached"`
	Output      string `json:"output,omitempty"`
}

// NewEncodeCommand creates the encode command.
func NewEncodeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EncodeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "encode <program.cue>",
		Short: "Encode a verification program to backend syntax",
		Long: `Encode a CUE verification program into the backend's concrete syntax.

The program is validated first. With --cache, the encoded text is stored
under the program's content fingerprint and reused on later runs.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEncode(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path")
	cmd.Flags().StringVar(&opts.CachePath, "cache", "", "path to encoding cache database")
	cmd.Flags().BoolVar(&opts.PreambleOnly, "preamble-only", false, "drop method bodies, keep declarations")
	cmd.Flags().BoolVar(&opts.Simplify, "simplify", false, "simplify encoded expressions")

	return cmd
}

func runEncode(opts *EncodeOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	program, err := loader.LoadFile(path)
	if err != nil {
		formatter.Error("E_LOAD", err.Error())
		return WrapExitError(ExitCommandError, "loading program", err)
	}
	formatter.VerboseLog("Loaded program %q from %s", program.Name, path)

	if err := vir.Validate(program); err != nil {
		formatter.Error("E_VALIDATE", err.Error())
		return WrapExitError(ExitFailure, "program is not well formed", err)
	}

	fp, err := fingerprint.Program(program)
	if err != nil {
		formatter.Error("E_FINGERPRINT", err.Error())
		return WrapExitError(ExitFailure, "fingerprinting program", err)
	}
	formatter.VerboseLog("Fingerprint %s", fp)

	text, cached, err := encodedText(opts, program, fp, formatter)
	if err != nil {
		return err
	}

	if opts.Output != "" {
		if err := os.WriteFile(opts.Output, []byte(text), 0o644); err != nil {
			formatter.Error("E_WRITE", err.Error())
			return WrapExitError(ExitCommandError, "writing output file", err)
		}
		return formatter.Success(EncodeResult{
			Program:     program.Name,
			Fingerprint: fp,
			Cached:      cached,
			Output:      opts.Output,
		})
	}

	if opts.Format == "json" {
		return formatter.Success(EncodeResult{
			Program:     program.Name,
			Fingerprint: fp,
			Cached:      cached,
		})
	}
	fmt.Fprint(cmd.OutOrStdout(), text)
	return nil
}

// encodedText returns the backend text for a program, consulting the
// cache when one is configured. The caching key is the fingerprint plus
// the encoding flags, since flags change the output.
func encodedText(opts *EncodeOptions, program *vir.Program, fp string, formatter *OutputFormatter) (string, bool, error) {
	key := cacheKey(fp, opts.PreambleOnly, opts.Simplify)

	var store *cache.Cache
	if opts.CachePath != "" {
		var err error
		store, err = cache.Open(opts.CachePath)
		if err != nil {
			formatter.Error("E_CACHE", err.Error())
			return "", false, WrapExitError(ExitCommandError, "opening cache", err)
		}
		defer store.Close()

		entry, err := store.Get(context.Background(), key)
		if err == nil {
			formatter.VerboseLog("Cache hit for %s", key)
			return entry.ViperText, true, nil
		}
		if !errors.Is(err, cache.ErrMiss) {
			formatter.Error("E_CACHE", err.Error())
			return "", false, WrapExitError(ExitCommandError, "reading cache", err)
		}
		formatter.VerboseLog("Cache miss for %s", key)
	}

	enc := encoder.New(viper.NewAstFactory(), encoder.Config{
		VerifyOnlyPreamble: opts.PreambleOnly,
		SimplifyEncoding:   opts.Simplify,
	})
	text := viper.Print(enc.Program(program))

	if store != nil {
		if err := store.Put(context.Background(), key, program.Name, text); err != nil {
			formatter.Error("E_CACHE", err.Error())
			return "", false, WrapExitError(ExitCommandError, "writing cache", err)
		}
	}
	return text, false, nil
}

func cacheKey(fp string, preambleOnly, simplify bool) string {
	return fmt.Sprintf("%s/preamble=%t/simplify=%t", fp, preambleOnly, simplify)
}
