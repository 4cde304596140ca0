package main

import (
	"rayconv/internal/logger"
	"rayconv/internal/xray"

	"github.com/spf13/cobra"
)

var flagValidateOutbound bool

var toOutboundCmd = &cobra.Command{
	Use:   "to-outbound <link>",
	Short: "Print the xray outbound for a share link",
	Long:  `Parse a vless://, ss://, vmess:// or trojan:// link and print the outbound as JSON. Nothing is printed when the link cannot be parsed.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := xray.ToOutbound(args[0])
		if err != nil {
			logger.Log.Debugf("No outbound: %v", err)
			return nil
		}

		if flagValidateOutbound {
			if err := xray.ValidateOutbound(out); err != nil {
				return err
			}
		}

		return writeJSON(cmd.OutOrStdout(), out)
	},
}

func init() {
	toOutboundCmd.Flags().BoolVar(&flagValidateOutbound, "validate", false, "Check the outbound with xray-core's config builder")
	rootCmd.AddCommand(toOutboundCmd)
}
