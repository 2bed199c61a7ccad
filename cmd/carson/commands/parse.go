package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/carsonhq/carson-bot/internal/issues"
)

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Print the status declared in a comment",
	Long: `Read a comment body from a file (or stdin) and print the status it declares.
Prints "no status" when the comment does not declare one.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			body []byte
			err  error
		)
		if len(args) == 1 {
			body, err = os.ReadFile(args[0])
		} else {
			body, err = io.ReadAll(cmd.InOrStdin())
		}
		if err != nil {
			return fmt.Errorf("failed to read comment: %w", err)
		}

		status, ok := issues.ParseDeclaration(string(body))
		if !ok {
			fmt.Fprintln(cmd.OutOrStdout(), "no status")
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", status.DisplayName(), status)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(parseCmd)
}
