package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/legendsbarber/seqfold/internal/harness"
)

// FileValidation holds the validation result of one scenario file.
type FileValidation struct {
	File   string                    `json:"file"`
	Valid  bool                      `json:"valid"`
	Errors []harness.ValidationError `json:"errors,omitempty"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid bool             `json:"valid"`
	Files []FileValidation `json:"files"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <scenarios-dir>",
		Short: "Validate scenario files without running them",
		Long: `Validate scenario files without evaluating them.

Checks YAML syntax, unknown fields, required fields and the scenario
schema. Every problem in every file is reported.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, dir string, cmd *cobra.Command) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return NewExitError(ExitCommandError, fmt.Sprintf("scenarios directory not found: %s", dir))
	}
	files, err := harness.ScenarioFiles(dir)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to find scenarios", err)
	}

	f := opts.formatter(cmd)
	if len(files) == 0 {
		return f.Success(ValidationResult{Valid: true, Files: []FileValidation{}}, "No scenarios found.")
	}

	log := opts.log("validate")
	result := ValidationResult{Valid: true, Files: make([]FileValidation, 0, len(files))}
	var all error
	for _, file := range files {
		log.WithField("file", file).Debug("validating scenario")
		fv := FileValidation{File: file, Valid: true}
		if _, err := harness.LoadScenario(file); err != nil {
			fv.Valid = false
			fv.Errors = harness.ValidationErrors(err)
			result.Valid = false
			for _, ve := range fv.Errors {
				all = multierr.Append(all, ve)
			}
		}
		result.Files = append(result.Files, fv)
	}

	if result.Valid {
		return f.Success(result, fmt.Sprintf("%s All %d scenario(s) valid", passMark(), len(files)))
	}

	errs := multierr.Errors(all)
	if f.JSON() {
		if err := f.Error(errs[0].(harness.ValidationError).Code, fmt.Sprintf("validation failed with %d error(s)", len(errs)), result); err != nil {
			return err
		}
	} else {
		w := cmd.OutOrStdout()
		for _, fv := range result.Files {
			fmt.Fprintf(w, "%s %s\n", mark(fv.Valid), fv.File)
			for _, ve := range fv.Errors {
				fmt.Fprintf(w, "  %s\n", ve.Error())
			}
		}
	}
	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
}
