package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"signalhq/beacon/pkg/cli"
	"signalhq/beacon/pkg/policy"
)

var validateFlags struct {
	strict bool
	output string
}

var validateCmd = &cobra.Command{
	Use:   "validate <policy.yaml>",
	Short: "Validate a policy file offline",
	Long: `Validate a policy file without applying it.

Checks rule id uniqueness, action field bounds, and that condition kinds and
operators come from the recognized sets. Rules that can never match (kinds or
operators without an evaluation path, unknown metric keys) are reported as
warnings; with --strict, warnings fail validation too.

Examples:
  # Validate a policy file
  beacon validate policies/adaptive.yaml

  # Treat warnings as failures
  beacon validate --strict policies/adaptive.yaml

  # Machine-readable report
  beacon validate --output json policies/adaptive.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: validatePolicy,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().BoolVar(&validateFlags.strict, "strict", false, "treat warnings as failures")
	validateCmd.Flags().StringVarP(&validateFlags.output, "output", "o", "text", "output format (text, json)")
}

// validateReport is the validation result rendered by the output formatter.
type validateReport struct {
	PolicyID  string   `json:"policy_id"`
	RuleCount int      `json:"rule_count"`
	Valid     bool     `json:"valid"`
	Errors    []string `json:"errors,omitempty"`
	Warnings  []string `json:"warnings,omitempty"`
}

func (r validateReport) String() string {
	var b strings.Builder
	for _, w := range r.Warnings {
		fmt.Fprintf(&b, "warning: %s\n", w)
	}
	for _, e := range r.Errors {
		fmt.Fprintf(&b, "error: %s\n", e)
	}
	if r.Valid {
		fmt.Fprintf(&b, "policy %q is valid: %d rule(s)", r.PolicyID, r.RuleCount)
	} else {
		fmt.Fprintf(&b, "policy %q is invalid: %d error(s)", r.PolicyID, len(r.Errors))
	}
	return b.String()
}

func validatePolicy(cmd *cobra.Command, args []string) error {
	formatter, err := cli.NewFormatter(cli.OutputFormat(validateFlags.output))
	if err != nil {
		return err
	}

	source := policy.NewFileSource(args[0], slog.Default())
	p, err := source.Load()
	if err != nil {
		return err
	}

	lint := policy.Lint(p)
	report := validateReport{
		PolicyID:  p.ID,
		RuleCount: len(p.Rules),
		Valid:     !lint.HasErrors(),
		Errors:    lint.Errors,
		Warnings:  lint.Warnings,
	}

	if err := formatter.FormatTo(os.Stdout, report); err != nil {
		return err
	}

	if lint.HasErrors() {
		return fmt.Errorf("policy %q is invalid: %d error(s)", p.ID, len(lint.Errors))
	}
	if validateFlags.strict && len(lint.Warnings) > 0 {
		return fmt.Errorf("policy %q has %d warning(s) (strict mode)", p.ID, len(lint.Warnings))
	}
	return nil
}
