package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuasparkes/transcription-to-stories/internal/parser"
	"github.com/joshuasparkes/transcription-to-stories/internal/results"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "storyctl",
		Short:        "Normalize meeting transcripts and export extracted stories",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newNormalizeCmd())
	rootCmd.AddCommand(newExportCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newNormalizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "normalize FILE...",
		Short: "Print the plain-dialogue form of transcript files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for i, path := range args {
				f, err := os.Open(path)
				if err != nil {
					return err
				}
				text, err := parser.Transcript(f, path)
				f.Close()
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				if len(args) > 1 {
					if i > 0 {
						fmt.Fprintln(cmd.OutOrStdout())
					}
					fmt.Fprintf(cmd.OutOrStdout(), "# %s\n", path)
				}
				fmt.Fprintln(cmd.OutOrStdout(), text)
			}
			return nil
		},
	}
}

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export FILE.json",
		Short: "Render saved extraction results as TSV",
		Long: "Reads a JSON file of extraction results (any shape the model returns)\n" +
			"and writes the table as tab-separated values.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			records := results.Decode(data)
			if len(records) == 0 {
				return fmt.Errorf("%s: no records found", args[0])
			}

			rows, _ := cmd.Flags().GetIntSlice("rows")
			sel := results.NewSelection()
			for _, i := range rows {
				sel.Add(i)
			}

			fmt.Fprintln(cmd.OutOrStdout(), records.TSV(sel))
			return nil
		},
	}

	cmd.Flags().IntSlice("rows", nil, "Zero-based row indices to export (default all)")

	return cmd
}
