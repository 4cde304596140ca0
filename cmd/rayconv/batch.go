package main

import (
	"fmt"
	"io"
	"strings"

	"rayconv/internal/collectors"
	"rayconv/internal/config"
	"rayconv/internal/logger"
	"rayconv/internal/metrics"
	"rayconv/internal/xray"
	"rayconv/internal/xray/parser"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var (
	flagBatchValidate bool
	flagBatchQuiet    bool
)

var batchCmd = &cobra.Command{
	Use:   "batch <file|url|->",
	Short: "Convert every link in a file, subscription URL or stdin",
	Long:  `Collect links from a local file, "-" for stdin, or an http(s) subscription URL (base64 subscriptions are decoded), convert each one and print the outbounds as a JSON array. Links that fail to parse are skipped; duplicates are dropped.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}

		kind, src := sourceFor(args[0], cfg.Fetch)
		collector, err := collectors.Get(kind)
		if err != nil {
			return err
		}

		links, err := collector.Collect(cmd.Context(), src)
		if err != nil {
			return fmt.Errorf("collect %s: %w", args[0], err)
		}
		logger.Log.Infof("🔍 Found %d links", len(links))

		stats := metrics.New()
		outbounds := convertLinks(links, stats, cmd.ErrOrStderr())
		logger.Log.Infof("✅ Converted %d/%d links", len(outbounds), len(links))
		if !flagBatchQuiet {
			stats.PrintReport(cmd.ErrOrStderr())
		}

		return writeJSON(cmd.OutOrStdout(), outbounds)
	},
}

// sourceFor picks the collector kind for a batch argument.
func sourceFor(location string, fetch config.FetchConfig) (string, collectors.Source) {
	src := collectors.Source{Location: location}
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		src.Timeout = fetch.Timeout
		src.Proxy = fetch.Proxy
		return "http", src
	}
	return "file", src
}

func convertLinks(links []string, stats *metrics.Collector, progress io.Writer) []*parser.Outbound {
	if flagBatchQuiet || len(links) == 0 {
		progress = io.Discard
	}
	bar := progressbar.NewOptions(len(links),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowBytes(false),
		progressbar.OptionSetWidth(15),
		progressbar.OptionSetDescription("[cyan]Converting...[reset]"),
		progressbar.OptionSetWriter(progress),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)

	seen := make(map[string]bool)
	outbounds := []*parser.Outbound{}
	for _, link := range links {
		bar.Add(1)

		out, err := xray.ToOutbound(link)
		if err != nil {
			logger.Log.Debugf("Skipping link: %v", err)
			stats.RecordParseFailure(err)
			continue
		}
		if flagBatchValidate {
			if err := xray.ValidateOutbound(out); err != nil {
				logger.Log.Debugf("Skipping %s: %v", out.Tag, err)
				stats.RecordSkip(metrics.ReasonInvalid)
				continue
			}
		}

		fp := out.Fingerprint()
		if seen[fp] {
			logger.Log.Debugf("Skipping duplicate of %s", out.Tag)
			stats.RecordSkip(metrics.ReasonDuplicate)
			continue
		}
		seen[fp] = true
		stats.RecordConverted(out.Protocol)
		outbounds = append(outbounds, out)
	}

	bar.Finish()
	if progress != io.Discard {
		fmt.Fprint(progress, "\n")
	}
	return outbounds
}

func init() {
	batchCmd.Flags().BoolVar(&flagBatchValidate, "validate", false, "Drop outbounds rejected by xray-core's config builder")
	batchCmd.Flags().BoolVarP(&flagBatchQuiet, "quiet", "q", false, "Do not draw a progress bar or the summary report")
	rootCmd.AddCommand(batchCmd)
}
