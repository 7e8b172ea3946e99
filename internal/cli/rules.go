package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/mdnames/internal/ui/pretty"
	"github.com/yaklabco/mdnames/pkg/config"
	"github.com/yaklabco/mdnames/pkg/lint"
)

type rulesFlags struct {
	ruleFormat string
	format     string
}

// ruleInfo represents a rule in JSON output.
type ruleInfo struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Aliases     []string `json:"aliases,omitempty"`
	Description string   `json:"description"`
	Severity    string   `json:"severity"`
	Fixable     bool     `json:"fixable"`
	Tags        []string `json:"tags,omitempty"`
	URL         string   `json:"url,omitempty"`
}

func newRulesCommand() *cobra.Command {
	flags := &rulesFlags{}

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List the available rules",
		Long: `List the available rules with their IDs, aliases, default severity,
whether they support auto-fixing, and a link to their documentation.
Any of the IDs and aliases can be used as a key in configuration files.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			registry := lint.DefaultRegistry
			switch flags.format {
			case "json":
				return outputRulesJSON(cmd, registry)
			case "text":
				return outputRulesText(cmd, registry, config.RuleFormat(flags.ruleFormat))
			default:
				return usageErrorf("invalid --format %q: must be text or json", flags.format)
			}
		},
	}

	cmd.Flags().StringVar(&flags.ruleFormat, "rule-format", string(config.RuleFormatCombined),
		"rule identifier format in output: name, id, combined")
	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text, json")

	return cmd
}

func outputRulesText(cmd *cobra.Command, registry *lint.Registry, ruleFormat config.RuleFormat) error {
	out := cmd.OutOrStdout()
	color, _ := cmd.Flags().GetString(flagColor)
	styles := pretty.NewStyles(pretty.IsColorEnabled(config.ColorMode(color), out))

	for _, rule := range registry.Rules() {
		fixable := "no"
		if rule.CanFix() {
			fixable = "yes"
		}

		fmt.Fprintf(out, "%s  %s\n",
			styles.RuleID.Render(config.FormatRuleID(ruleFormat, rule.ID(), rule.Name())),
			rule.Description())
		if aliases := registry.Aliases(rule.ID()); len(aliases) > 0 {
			fmt.Fprintf(out, "  aliases:  %s\n", strings.Join(aliases, ", "))
		}
		fmt.Fprintf(out, "  severity: %s\n", styles.FormatSeverity(rule.DefaultSeverity()))
		fmt.Fprintf(out, "  fixable:  %s\n", fixable)
		if tags := rule.Tags(); len(tags) > 0 {
			fmt.Fprintf(out, "  tags:     %s\n", strings.Join(tags, ", "))
		}
		if url := rule.InfoURL(); url != "" {
			fmt.Fprintf(out, "  docs:     %s\n", styles.Dim.Render(url))
		}
	}
	return nil
}

func outputRulesJSON(cmd *cobra.Command, registry *lint.Registry) error {
	rules := registry.Rules()
	infos := make([]ruleInfo, 0, len(rules))
	for _, rule := range rules {
		infos = append(infos, ruleInfo{
			ID:          rule.ID(),
			Name:        rule.Name(),
			Aliases:     registry.Aliases(rule.ID()),
			Description: rule.Description(),
			Severity:    string(rule.DefaultSeverity()),
			Fixable:     rule.CanFix(),
			Tags:        rule.Tags(),
			URL:         rule.InfoURL(),
		})
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(infos); err != nil {
		return fmt.Errorf("encode rules: %w", err)
	}
	return nil
}
