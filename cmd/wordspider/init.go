package main

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nao1215/wordspider/internal/config"
	"github.com/nao1215/wordspider/internal/stopwords"
)

//go:embed templates/wordspider.yaml
var configTemplate embed.FS

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a site configuration file and a stop-word list",
		Long: `Init creates a .wordspider configuration file in the current directory,
and an ignore_words.txt stop-word list next to it when none exists yet.

The generated configuration file includes:
- Defaults for request delay, page limit and extra stop words
- Commented examples for site-specific cookies, headers and URL patterns

Examples:
  # Create .wordspider and ignore_words.txt in current directory
  wordspider init

  # Create config file at a specific path
  wordspider init -o myconfig.yaml

  # Write the stop-word list somewhere else
  wordspider init --ignore-file lists/stop.txt

  # Force overwrite existing files
  wordspider init -f`,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", config.DefaultConfigFile,
		"Output file path for the configuration")
	cmd.Flags().StringP("ignore-file", "i", stopwords.DefaultFileName,
		"Output file path for the stop-word list (empty to skip)")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing files")

	return cmd
}

// runInitCmd executes the init command.
func runInitCmd(cmd *cobra.Command, _ []string) error {
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	ignorePath, err := cmd.Flags().GetString("ignore-file")
	if err != nil {
		return err
	}

	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	// Check if file already exists
	if !force {
		if _, err := os.Stat(outputPath); err == nil {
			return fmt.Errorf("configuration file already exists: %s (use -f to overwrite)", outputPath)
		}
	}

	// Read template from embedded filesystem
	content, err := configTemplate.ReadFile("templates/wordspider.yaml")
	if err != nil {
		return fmt.Errorf("failed to read config template: %w", err)
	}

	// Create parent directories if needed
	dir := filepath.Dir(outputPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(outputPath, content, 0600); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created configuration file: %s\n", outputPath)

	if ignorePath != "" {
		written, err := writeStopWords(ignorePath, force)
		if err != nil {
			return err
		}
		if written {
			fmt.Fprintf(out, "Created stop-word list: %s\n", ignorePath)
		} else {
			fmt.Fprintf(out, "Keeping existing stop-word list: %s\n", ignorePath)
		}
	}

	fmt.Fprintln(out, "\nEdit the configuration file to set site-specific options such as:")
	fmt.Fprintln(out, "  - Authentication cookies and headers")
	fmt.Fprintln(out, "  - Request delay and page limit per site")
	fmt.Fprintln(out, "  - URL patterns to ignore or follow")
	fmt.Fprintln(out, "  - Extra stop words")

	return nil
}

// writeStopWords writes the default stop-word list to path. An existing
// file is kept unless force is set.
func writeStopWords(path string, force bool) (bool, error) {
	if !force {
		_, err := os.Stat(path)
		if err == nil {
			return false, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return false, fmt.Errorf("failed to check stop-word list: %w", err)
		}
	}
	if err := stopwords.WriteDefault(path); err != nil {
		return false, err
	}
	return true, nil
}
