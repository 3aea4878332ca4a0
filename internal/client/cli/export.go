package cli

import (
	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/afteryou/internal/client/export"
)

func newExportCmd(r *runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Work with exported locker files",
	}
	open := &cobra.Command{
		Use:   "open <file.sealed>",
		Short: "Decrypt a sealed export next to the original",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := GetPassword(r.reader, "Export passphrase", cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer wipe(pw)

			path, err := export.OpenFile(args[0], pw)
			if err != nil {
				return err
			}
			cmd.Println(successStyle.Render("Decrypted to " + path))
			return nil
		},
	}
	cmd.AddCommand(open)
	return cmd
}
