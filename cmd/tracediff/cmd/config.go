package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/pstuifzand/tracediff/internal/config"
)

var (
	configWrite bool
	configKeys  bool
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long: `Print the configuration after the config file and --set overrides
have been applied, as TOML.

Examples:
  tracediff config
  tracediff config --keys
  tracediff config --set classify.workers=4 --write`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := GetConfig()
		if configWrite {
			var err error
			if configPath != "" {
				err = c.SaveToFile(configPath)
			} else {
				err = c.Save()
			}
			if err != nil {
				return err
			}
		}
		return printConfig(cmd.OutOrStdout(), c, configKeys)
	},
}

func init() {
	configCmd.Flags().BoolVar(&configWrite, "write", false, "save the effective configuration to the config file")
	configCmd.Flags().BoolVar(&configKeys, "keys", false, "list dotted keys accepted by --set")
	rootCmd.AddCommand(configCmd)
}

func printConfig(w io.Writer, c *config.Config, keys bool) error {
	if keys {
		all := c.GetAll()
		for _, k := range config.Keys() {
			fmt.Fprintf(w, "%s = %s\n", k, all[k])
		}
		return nil
	}
	data, err := c.Marshal()
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
