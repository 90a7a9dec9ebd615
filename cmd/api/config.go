package main

import (
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration as YAML",
	Run: func(cmd *cobra.Command, args []string) {
		c := *cfg
		if c.MySQLPass != "" {
			c.MySQLPass = "********"
		}
		if c.RedisPassword != "" {
			c.RedisPassword = "********"
		}
		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		if err := enc.Encode(&c); err != nil {
			fatal("Failed to encode config", err)
		}
		_ = enc.Close()
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
