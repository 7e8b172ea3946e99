package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/mdnames/pkg/config"
	"github.com/yaklabco/mdnames/pkg/propernames"
)

// namesOutput is the JSON form of the names command.
type namesOutput struct {
	Names        []string `json:"names"`
	CodeBlocks   bool     `json:"code_blocks"`
	HTMLElements bool     `json:"html_elements"`
	HeadingID    bool     `json:"heading_id"`
	Sources      []string `json:"sources,omitempty"`
}

func newNamesCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "names",
		Short: "Print the effective list of proper names",
		Long: `Print the proper names the lint command would enforce, after merging
every configuration layer, in the order they are matched (longest first).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			loadResult, _, err := loadConfig(cmd, nil)
			if err != nil {
				return err
			}
			opts := propernames.OptionsFromMap(loadResult.Config.RuleOptions(config.ProperNamesRuleID))
			names := propernames.SortNames(opts.Names)
			if names == nil {
				names = []string{}
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(namesOutput{
					Names:        names,
					CodeBlocks:   opts.CodeBlocks,
					HTMLElements: opts.HTMLElements,
					HeadingID:    opts.HeadingID,
					Sources:      loadResult.LoadedFrom,
				}); err != nil {
					return fmt.Errorf("encode names: %w", err)
				}
				return nil
			}

			for _, name := range names {
				fmt.Fprintln(out, name)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print names and region settings as JSON")

	return cmd
}
