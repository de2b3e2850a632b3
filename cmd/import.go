package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mohdfareed/health-vaults-sub001/internal/cli"
	"github.com/mohdfareed/health-vaults-sub001/internal/pipeline"
)

var importCmd = &cobra.Command{
	Use:   "import <dir>",
	Short: "Import JSONL health exports from a directory",
	Args:  cobra.ExactArgs(1),
	RunE:  runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func runImport(_ *cobra.Command, args []string) error {
	cfg, err := loadAppConfig()
	if err != nil {
		return err
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	progressFn := func(current, total int) {
		if flagQuiet {
			return
		}
		fmt.Fprintf(os.Stderr, "\r  Importing %s", cli.RenderProgressBar(current, total, 24))
	}

	result, err := pipeline.Import(args[0], st, progressFn)
	if err != nil {
		return err
	}

	if flagJSON {
		return printJSON(result)
	}

	if result.TotalFiles == 0 {
		fmt.Println("  No export files found.")
		return nil
	}

	fmt.Fprintf(os.Stderr, "\r")
	fmt.Printf("  Imported %d file(s), %d sample(s)", result.Imported, result.Samples)
	if result.Unchanged > 0 {
		fmt.Printf(", %d unchanged", result.Unchanged)
	}
	fmt.Println()
	if result.ParseErrors > 0 {
		fmt.Printf("  Skipped %d malformed line(s)\n", result.ParseErrors)
	}
	if result.FileErrors > 0 {
		fmt.Printf("  Failed to read %d file(s)\n", result.FileErrors)
	}
	return nil
}
