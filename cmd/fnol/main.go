package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ormasoftchile/fnol/pkg/fnol"
	"github.com/ormasoftchile/fnol/pkg/playbook"
	"github.com/ormasoftchile/fnol/pkg/triage"
)

// Version is set at build time via ldflags.
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "fnol",
	Short: "Auto claim intake conversation engine",
	Long:  "fnol — a guided first-notice-of-loss intake: safety check, identity verification, incident capture, triage, and claim filing over a scripted conversation.",
}

// --- triage ---

var triageRules string
var triageJSON bool

var triageCmd = &cobra.Command{
	Use:   "triage [state.json]",
	Short: "Run triage over a saved conversation snapshot",
	Args:  cobra.ExactArgs(1),
	RunE:  runTriage,
}

func runTriage(cmd *cobra.Command, args []string) error {
	s, err := fnol.LoadSnapshot(args[0])
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}

	rules := triage.DefaultRules()
	if triageRules != "" {
		rules, err = triage.LoadFile(triageRules)
		if err != nil {
			return fmt.Errorf("load rule table: %w", err)
		}
	}
	engine, err := triage.NewEngine(rules)
	if err != nil {
		return fmt.Errorf("compile rule table: %w", err)
	}

	registry := playbook.NewRegistry()
	result, err := engine.Evaluate(s, registry.AllTriageFlags(s))
	if err != nil {
		return fmt.Errorf("evaluate: %w", err)
	}

	if triageJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	fmt.Printf("Route: %s (rules %s)\n", result.Route, result.RuleVersion)
	fmt.Printf("Score: %d\n", result.Score)
	if len(result.Flags) > 0 {
		fmt.Printf("Flags:\n")
		for _, f := range result.Flags {
			fmt.Printf("  - %s\n", f)
		}
	}
	if len(result.Reasons) > 0 {
		fmt.Printf("Reasons:\n")
		for _, r := range result.Reasons {
			fmt.Printf("  %s\n", r)
		}
	}
	fmt.Println(triage.Summary(result))
	return nil
}

// --- rules ---

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Rule table operations",
}

var rulesValidateCmd = &cobra.Command{
	Use:   "validate [rules.yaml]",
	Short: "Validate a triage rule table YAML file",
	Args:  cobra.ExactArgs(1),
	RunE:  runRulesValidate,
}

func runRulesValidate(cmd *cobra.Command, args []string) error {
	rs, errs := triage.ValidateFile(args[0])
	if len(errs) > 0 {
		fmt.Fprintf(os.Stderr, "Validation failed: %d error(s)\n\n", len(errs))
		for i, e := range errs {
			fmt.Fprintf(os.Stderr, "  %d. [%s] %s\n", i+1, e.Phase, e.Message)
			if e.Path != "" {
				fmt.Fprintf(os.Stderr, "     at: %s\n", e.Path)
			}
		}
		return fmt.Errorf("validation failed with %d error(s)", len(errs))
	}
	fmt.Printf("✓ rule table %s is valid (%d hard, %d SIU, %d scoring, %d bonus rules)\n",
		rs.Version, len(rs.HardRules), len(rs.SIURules), len(rs.ScoringRules), len(rs.BonusRules))
	return nil
}

// --- schema ---

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Export the rule table JSON Schema to stdout",
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := triage.GenerateJSONSchema()
		if err != nil {
			return fmt.Errorf("generate schema: %w", err)
		}
		fmt.Println(string(data))
		return nil
	},
}

// --- version ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("fnol %s (build: %s)\n", version, commit)
	},
}

func init() {
	triageCmd.Flags().StringVar(&triageRules, "rules", "", "Path to a rule table YAML (default: built-in table)")
	triageCmd.Flags().BoolVar(&triageJSON, "json", false, "Output the decision as JSON")

	chatCmd.Flags().StringVar(&chatSnapshot, "snapshot", "fnol-session.json", "Path for the session snapshot")
	chatCmd.Flags().StringVar(&chatTrace, "trace", "", "Append audit events to this JSONL file")
	chatCmd.Flags().StringVar(&chatPolicy, "policy", "", "Known policy ID to skip identity questions")
	chatCmd.Flags().StringVar(&chatThread, "thread", "", "Conversation thread ID (generated when omitted)")

	resumeCmd.Flags().StringVar(&chatTrace, "trace", "", "Append audit events to this JSONL file")

	rulesCmd.AddCommand(rulesValidateCmd)

	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(resumeCmd)
	rootCmd.AddCommand(triageCmd)
	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(schemaCmd)
	rootCmd.AddCommand(versionCmd)
}
