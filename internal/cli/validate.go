package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/reporter/internal/harness"
	"github.com/roach88/reporter/internal/hostsim"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationIssue `json:"errors,omitempty"`
}

// ValidationIssue is one problem found in a scenario or its bundle.
type ValidationIssue struct {
	File    string `json:"file"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Line    int    `json:"line,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <scenario.yaml>...",
		Short: "Validate scenarios and their host bundles without running them",
		Long: `Load each scenario and the CUE bundle it references, reporting schema and
consistency errors without running the reporter. Faster than test for
development feedback.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args, cmd)
		},
	}
}

func runValidate(opts *RootOptions, paths []string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	var issues []ValidationIssue
	for _, path := range paths {
		formatter.VerboseLog("Validating %s", path)
		issues = append(issues, validateScenarioFile(path)...)
	}

	if len(issues) > 0 {
		return outputValidationErrors(formatter, issues)
	}
	if formatter.JSON() {
		return formatter.Success(ValidationResult{Valid: true})
	}
	fmt.Fprintln(formatter.Writer, "✓ All scenarios valid")
	return nil
}

func validateScenarioFile(path string) []ValidationIssue {
	scenario, err := harness.LoadScenario(path)
	if err != nil {
		return []ValidationIssue{{File: path, Code: ErrCodeScenario, Message: err.Error()}}
	}

	if _, err := hostsim.LoadBundle(scenario.Bundle); err != nil {
		issue := ValidationIssue{File: scenario.Bundle, Code: ErrCodeGeneric, Message: err.Error()}
		var loadErr *hostsim.LoadError
		if errors.As(err, &loadErr) {
			issue.Code = loadErr.Code
			issue.Message = loadErr.Message
			if loadErr.Pos.IsValid() {
				issue.Line = loadErr.Pos.Line()
			}
		}
		return []ValidationIssue{issue}
	}
	return nil
}

// outputValidationErrors writes the issues and returns a validation failure.
func outputValidationErrors(formatter *OutputFormatter, issues []ValidationIssue) error {
	failure := NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(issues)))

	if formatter.JSON() {
		err := formatter.Encode(CLIResponse{
			Status: "error",
			Data:   ValidationResult{Valid: false, Errors: issues},
			Error:  &CLIError{Code: issues[0].Code, Message: issues[0].Message},
		})
		if err != nil {
			return err
		}
		return failure
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)
	for _, issue := range issues {
		if issue.Line > 0 {
			fmt.Fprintf(formatter.Writer, "%s:%d\n", issue.File, issue.Line)
		} else {
			fmt.Fprintln(formatter.Writer, issue.File)
		}
		fmt.Fprintf(formatter.Writer, "  %s: %s\n\n", issue.Code, issue.Message)
	}
	return failure
}
