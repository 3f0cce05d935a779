package core

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
)

// CheckSeverity classifies a failed startup check.
type CheckSeverity int

const (
	// SeverityFatal aborts startup when the check fails.
	SeverityFatal CheckSeverity = iota
	// SeverityWarn prints a warning and continues.
	SeverityWarn
)

// StartupCheck is one item of the pre-flight validation suite.
type StartupCheck struct {
	Name     string
	Severity CheckSeverity
	Run      func(ctx context.Context) error
}

// checkTimeout bounds each individual network probe.
const checkTimeout = 10 * time.Second

// RunStartupChecks executes the pre-flight suite, printing a colored
// report to out. It returns an error if any fatal check failed.
func RunStartupChecks(ctx context.Context, cfg *Config, out io.Writer) error {
	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()

	fmt.Fprintln(out, color.New(color.Bold).Sprint("Startup validation"))

	var fatalFailures []string
	for _, check := range startupChecks(cfg) {
		checkCtx, cancel := context.WithTimeout(ctx, checkTimeout)
		err := check.Run(checkCtx)
		cancel()

		switch {
		case err == nil:
			fmt.Fprintf(out, "  %s %s\n", green("✓"), check.Name)
		case check.Severity == SeverityWarn:
			fmt.Fprintf(out, "  %s %s: %v\n", yellow("!"), check.Name, err)
		default:
			fmt.Fprintf(out, "  %s %s: %v\n", red("✗"), check.Name, err)
			fatalFailures = append(fatalFailures, check.Name)
		}
	}

	if len(fatalFailures) > 0 {
		return fmt.Errorf("startup validation failed: %s", strings.Join(fatalFailures, ", "))
	}
	return nil
}

func startupChecks(cfg *Config) []StartupCheck {
	return []StartupCheck{
		{
			Name:     "API key format",
			Severity: SeverityWarn,
			Run: func(context.Context) error {
				if !strings.HasPrefix(cfg.OpenAIAPIKey, "sk-") {
					return fmt.Errorf("key does not look like an OpenAI key")
				}
				return nil
			},
		},
		{
			Name:     "LLM endpoint reachable",
			Severity: SeverityWarn,
			Run: func(ctx context.Context) error {
				return probeURL(ctx, strings.TrimSuffix(cfg.OpenAIBaseURL, "/")+"/models", "Bearer "+cfg.OpenAIAPIKey)
			},
		},
		{
			Name:     "document store reachable",
			Severity: SeverityFatal,
			Run: func(ctx context.Context) error {
				url := fmt.Sprintf("%s/repos/%s/%s", strings.TrimSuffix(cfg.StoreBaseURL, "/"), cfg.StoreOwner, cfg.StoreRepo)
				return probeURL(ctx, url, "Bearer "+cfg.StoreToken)
			},
		},
		{
			Name:     "log directory writable",
			Severity: SeverityFatal,
			Run: func(context.Context) error {
				if cfg.LogFile == "" {
					return nil
				}
				dir := filepath.Dir(cfg.LogFile)
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return err
				}
				probe := filepath.Join(dir, ".write-probe")
				if err := os.WriteFile(probe, nil, 0o644); err != nil {
					return err
				}
				return os.Remove(probe)
			},
		},
	}
}

// probeURL issues a GET and accepts any response the server authenticated:
// 2xx and 3xx pass, 401/403/404 and 5xx fail.
func probeURL(ctx context.Context, url, authorization string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return nil
}
