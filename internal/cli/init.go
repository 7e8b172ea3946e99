package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/yaklabco/mdnames/internal/configloader"
	"github.com/yaklabco/mdnames/internal/logging"
	"github.com/yaklabco/mdnames/pkg/config"
	"github.com/yaklabco/mdnames/pkg/fsutil"
	"github.com/yaklabco/mdnames/pkg/lint"
)

type initFlags struct {
	force  bool
	format string
	output string
	names  []string
}

func newInitCommand() *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a .mdnames configuration file",
		Long: `Create a starter .mdnames.yml (or .toml/.json) in the current directory.

The names list is seeded from --names, or else from the proper names
block of a markdownlint config in the current directory, or else from a
short example list.

Examples:
  mdnames init                       Create .mdnames.yml
  mdnames init --format toml         Create .mdnames.toml instead
  mdnames init --names GitHub,Go     Seed the names list
  mdnames init --output docs.yml     Write to a custom path`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd, flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "overwrite an existing file")
	cmd.Flags().StringVar(&flags.format, "format", config.TemplateYAML, "file format: yaml, toml, json")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output path (default: .mdnames.<format>)")
	cmd.Flags().StringSliceVar(&flags.names, "names", nil, "names to put in the file")

	return cmd
}

func runInit(cmd *cobra.Command, flags *initFlags) error {
	logger := logging.FromContext(commandContext(cmd))

	ext := map[string]string{
		config.TemplateYAML: ".yml",
		config.TemplateTOML: ".toml",
		config.TemplateJSON: ".json",
	}[flags.format]
	if ext == "" {
		return usageErrorf("invalid --format %q: must be yaml, toml or json", flags.format)
	}

	outputPath := flags.output
	if outputPath == "" {
		outputPath = ".mdnames" + ext
	}
	absPath, err := filepath.Abs(outputPath)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	names := flags.names
	if len(names) == 0 {
		names = importedNames(cmd, filepath.Dir(absPath))
	}

	content, err := config.GenerateTemplate(config.TemplateOptions{Format: flags.format, Names: names})
	if err != nil {
		return fmt.Errorf("generate template: %w", err)
	}

	force := flags.force
	err = fsutil.CreateExclusive(absPath, content)
	if errors.Is(err, os.ErrExist) && !force {
		force, err = confirmOverwrite(cmd, outputPath)
		if err != nil {
			return err
		}
		if !force {
			return fmt.Errorf("%s already exists; use --force to overwrite", outputPath)
		}
	}
	if force && errors.Is(err, os.ErrExist) {
		logger.Warn("overwriting existing file", logging.FieldPath, outputPath)
		err = fsutil.WriteAtomic(commandContext(cmd), absPath, content, fsutil.DefaultFileMode)
	}
	if err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	logger.Info("created configuration file", logging.FieldPath, outputPath, logging.FieldNames, len(names))
	logger.Info("run 'mdnames names' to see the effective list")

	return nil
}

// importedNames returns the proper names of a markdownlint config in dir,
// or nil.
func importedNames(cmd *cobra.Command, dir string) []string {
	path := configloader.FindMarkdownlintConfig(dir)
	if path == "" {
		return nil
	}
	logger := logging.FromContext(commandContext(cmd))

	imported, err := configloader.ImportMarkdownlint(path, lint.DefaultRegistry)
	if err != nil {
		logger.Warn("cannot import names", logging.FieldConfig, path, logging.FieldError, err)
		return nil
	}
	names := imported.Names()
	if len(names) > 0 {
		logger.Info("seeding names from markdownlint config", logging.FieldConfig, path)
	}
	return names
}

// confirmOverwrite asks on an interactive terminal whether path may be
// replaced. Without a terminal the answer is no.
func confirmOverwrite(cmd *cobra.Command, path string) (bool, error) {
	in, ok := cmd.InOrStdin().(*os.File)
	if !ok || !term.IsTerminal(int(in.Fd())) {
		return false, nil
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "%s already exists. Overwrite? [y/N] ", path)
	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("read answer: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
