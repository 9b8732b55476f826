package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"trivia-board-host/internal/app"
	"trivia-board-host/internal/domain"
)

// NewExportCmd writes the current categories or teams to a file or stdout.
func NewExportCmd(configPath *string) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:       "export categories|teams",
		Short:     "Export categories or teams as JSON",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"categories", "teams"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			host, shutdown, err := openHost(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer shutdown()

			export := host.ExportCategories
			if args[0] == "teams" {
				export = host.ExportTeams
			}
			data, err := export()
			if err != nil {
				return err
			}
			if output == "" {
				_, err = cmd.OutOrStdout().Write(append(data, '\n'))
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return err
			}
			logger.Info("exported", "what", args[0], "file", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "file to write (default stdout)")
	return cmd
}

// NewImportCmd merges categories or replaces teams from a file.
func NewImportCmd(configPath *string) *cobra.Command {
	var input string
	cmd := &cobra.Command{
		Use:       "import categories|teams",
		Short:     "Import categories (merged) or teams (replaced) from JSON",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"categories", "teams"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if input == "" {
				input = defaultFileName(args[0])
			}
			data, err := readInput(cmd, input)
			if err != nil {
				return err
			}

			cfg, logger, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			host, shutdown, err := openHost(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer shutdown()

			apply := host.ImportCategories
			if args[0] == "teams" {
				apply = host.ImportTeams
			}
			snap, err := apply(data)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d teams, %d categories\n", len(snap.Document.Teams), len(snap.Document.Categories))
			return nil
		},
	}
	cmd.Flags().StringVarP(&input, "file", "f", "", "file to read, - for stdin (default quiz-<what>.json)")
	return cmd
}

// NewResetCmd zeroes scores and marks every question unused.
func NewResetCmd(configPath *string) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Reset scores and question progress",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("%w: rerun with --yes to reset all scores and used questions", domain.ErrConfirmationRequired)
			}
			cfg, logger, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			host, shutdown, err := openHost(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer shutdown()

			if _, err := host.Reset(); err != nil {
				return err
			}
			logger.Info("progress reset")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm the reset")
	return cmd
}

func defaultFileName(what string) string {
	if what == "teams" {
		return app.TeamsFileName
	}
	return app.CategoriesFileName
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(path)
}
