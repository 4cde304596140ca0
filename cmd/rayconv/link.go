package main

import (
	"encoding/json"
	"fmt"

	"rayconv/internal/logger"
	"rayconv/internal/xray/parser"

	"github.com/spf13/cobra"
)

var toLinkCmd = &cobra.Command{
	Use:   "to-link <outbound-json>",
	Short: "Convert an outbound back to a share link (not supported yet)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var out parser.Outbound
		if err := json.Unmarshal([]byte(args[0]), &out); err != nil {
			return fmt.Errorf("invalid outbound json: %w", err)
		}

		link, err := parser.ToLink(&out)
		if err != nil {
			logger.Log.Debugf("No link: %v", err)
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), link)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(toLinkCmd)
}
