package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/afteryou/internal/client/config"
)

func newConfigCmd(r *runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and write the configuration",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := r.cfg.Marshal()
			if err != nil {
				return err
			}
			cmd.Print(string(data))
			return nil
		},
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the effective configuration to a yaml file",
		Args:  cobra.NoArgs,
		Annotations: map[string]string{
			annotationNewConfig: "true",
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString(config.ConfigFlag)
			if path == "" {
				path = config.DefaultPath()
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists; use --force to overwrite", path)
			}

			written, err := config.WriteFile(path, r.cfg)
			if err != nil {
				return err
			}
			cmd.Println(successStyle.Render("Wrote " + written))
			return nil
		},
	}
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")

	cmd.AddCommand(show, initCmd)
	return cmd
}
