package main

import (
	"fmt"
	"strconv"

	"rayconv/internal/config"
	"rayconv/internal/logger"
	"rayconv/internal/xray"

	"github.com/spf13/cobra"
)

var (
	flagValidateConfig bool
	flagResolve        map[string]string
)

// newResolver is swapped in tests.
var newResolver = func(cfg config.ResolverConfig) xray.Resolver {
	return xray.NewDNSResolver(cfg)
}

var testConfigCmd = &cobra.Command{
	Use:   "test-config <link> <port>",
	Short: "Print a complete xray config that exposes the link on a local socks port",
	Long:  `Build a runnable config for a single link: a socks inbound on the given port, the link's outbound with its server hostname resolved, and fixed DNS servers. Nothing is printed when the link cannot be parsed.`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		port, err := strconv.Atoi(args[1])
		if err != nil || port < 1 || port > 65535 {
			return fmt.Errorf("invalid port %q", args[1])
		}

		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}

		resolve := xray.WithOverrides(flagResolve, newResolver(cfg.Resolver))
		assembler := xray.NewAssembler(cfg.TestConfig, resolve)

		tc, err := assembler.Build(cmd.Context(), args[0], port)
		if err != nil {
			logger.Log.Debugf("No test config: %v", err)
			return nil
		}

		if flagValidateConfig {
			if err := xray.ValidateTestConfig(tc); err != nil {
				return err
			}
		}

		return writeJSON(cmd.OutOrStdout(), tc)
	},
}

func init() {
	testConfigCmd.Flags().BoolVar(&flagValidateConfig, "validate", false, "Check the config with xray-core's config builder")
	testConfigCmd.Flags().StringToStringVar(&flagResolve, "resolve", nil, "Pin hostnames to addresses (host=ip), bypassing DNS")
	rootCmd.AddCommand(testConfigCmd)
}
