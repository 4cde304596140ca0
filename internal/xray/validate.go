package xray

import (
	"encoding/json"
	"fmt"
	"os"

	"rayconv/internal/logger"
	"rayconv/internal/xray/parser"

	"github.com/xtls/xray-core/infra/conf"
)

// ValidateOutbound runs the outbound through xray-core's config builder.
func ValidateOutbound(o *parser.Outbound) error {
	var detour conf.OutboundDetourConfig
	if err := recode(o, &detour); err != nil {
		return err
	}
	return build(func() error {
		_, err := detour.Build()
		return err
	})
}

// ValidateTestConfig runs the whole document through xray-core's config builder.
func ValidateTestConfig(tc *TestConfig) error {
	var c conf.Config
	if err := recode(tc, &c); err != nil {
		return err
	}
	return build(func() error {
		_, err := c.Build()
		return err
	})
}

// recode round-trips v through JSON into dst, the same path xray takes when
// loading a config file.
func recode(v any, dst any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return fmt.Errorf("xray rejected config json: %w", err)
	}
	return nil
}

func build(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Log.Errorf("CRITICAL: Xray config builder panic recovered: %v", r)
			err = fmt.Errorf("xray core panic: %v", r)
		}
	}()

	restore := muteLogs()
	defer restore()

	if err := fn(); err != nil {
		return fmt.Errorf("xray config build failed: %w", err)
	}
	return nil
}

func muteLogs() func() {
	origStdout := os.Stdout
	origStderr := os.Stderr

	devNull, _ := os.Open(os.DevNull)
	if devNull != nil {
		os.Stdout = devNull
		os.Stderr = devNull
	}

	return func() {
		os.Stdout = origStdout
		os.Stderr = origStderr
		if devNull != nil {
			devNull.Close()
		}
	}
}
