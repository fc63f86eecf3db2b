package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/fatih/color"
	slogmulti "github.com/samber/slog-multi"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/networkteam/hrmcheck"
	"github.com/networkteam/hrmcheck/collector"
	"github.com/networkteam/hrmcheck/config"
	"github.com/networkteam/hrmcheck/fixture"
	"github.com/networkteam/hrmcheck/report"
	"github.com/networkteam/hrmcheck/scenario"
	"github.com/networkteam/hrmcheck/store"
)

type cmdRun struct {
	gs *globalState

	configPath string
	baseURL    string
	browser    string
	headed     bool
	slowMo     time.Duration
	filter     string
	reportPath string
	history    string
	serveAddr  string
	install    bool
	verbose    bool
}

func (c *cmdRun) flagSet() *pflag.FlagSet {
	flags := pflag.NewFlagSet("", pflag.ContinueOnError)
	flags.SortFlags = false
	flags.StringVarP(&c.configPath, "config", "c", "", "YAML configuration file")
	flags.StringVar(&c.baseURL, "base-url", "", "start URL of the OrangeHRM deployment")
	flags.StringVar(&c.browser, "browser", "", "browser engine: chromium, firefox or webkit")
	flags.BoolVar(&c.headed, "headed", false, "show the browser window")
	flags.DurationVar(&c.slowMo, "slow-mo", 0, "delay between browser operations")
	flags.StringVar(&c.filter, "filter", "", "only run scenarios whose name matches this regular expression")
	flags.StringVar(&c.reportPath, "report", "", "write an HTML report to this file")
	flags.StringVar(&c.history, "history", "", "append the results to this SQLite database (--history alone uses "+defaultHistoryPath+")")
	flags.Lookup("history").NoOptDefVal = defaultHistoryPath
	flags.StringVar(&c.serveAddr, "serve", "", "serve the report on this address after the run until interrupted")
	flags.BoolVar(&c.install, "install", false, "install the playwright driver and browser before running")
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "log debug messages")
	return flags
}

// loadConfig applies explicitly set flags over file and environment configuration.
func (c *cmdRun) loadConfig(flags *pflag.FlagSet) (config.Config, error) {
	cfg, err := config.Load(c.configPath, c.gs.lookupEnv)
	if err != nil {
		return config.Config{}, err
	}
	if flags.Changed("base-url") {
		cfg.BaseURL = c.baseURL
	}
	if flags.Changed("browser") {
		cfg.Browser = c.browser
	}
	if flags.Changed("headed") {
		cfg.Headless = !c.headed
	}
	if flags.Changed("slow-mo") {
		cfg.SlowMo = c.slowMo
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func (c *cmdRun) run(cmd *cobra.Command, _ []string) (err error) {
	ctx := cmd.Context()

	cfg, err := c.loadConfig(cmd.Flags())
	if err != nil {
		return err
	}
	scenarios, err := scenario.Filter(scenario.All(), c.filter)
	if err != nil {
		return err
	}
	if len(scenarios) == 0 {
		return fmt.Errorf("no scenario matches %q", c.filter)
	}

	instance := hrmcheck.New()
	defer instance.Close()

	level := slog.LevelInfo
	if c.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slogmulti.Fanout(
		slog.NewTextHandler(c.gs.stdErr, &slog.HandlerOptions{Level: level}),
		instance.CollectSlogLogs(collector.CollectSlogLogsOptions{Level: slog.LevelDebug}),
	))

	if c.install {
		logger.Info("Installing playwright", "browser", cfg.Browser)
		if err := c.gs.install(cfg); err != nil {
			return fmt.Errorf("installing playwright: %w", err)
		}
	}

	client := &http.Client{
		Transport: instance.CollectHTTPClient(http.DefaultTransport),
		Timeout:   cfg.Timeouts.Login,
	}
	if err := scenario.Preflight(ctx, client, cfg.BaseURL); err != nil {
		return err
	}

	session, err := c.gs.launch(instance, cfg, fixture.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("launching %s: %w", cfg.Browser, err)
	}
	defer func() {
		err = errors.Join(err, session.Close())
	}()

	runner := instance.NewRunner(session, scenario.RunnerOptions{
		Logger:   logger,
		OnResult: c.printResult,
	})
	summary := runner.Run(ctx, scenarios)
	c.printSummary(summary, len(scenarios))

	if c.reportPath != "" {
		if err := c.writeReport(ctx, instance); err != nil {
			return err
		}
		logger.Info("Wrote report", "path", c.reportPath)
	}

	if c.history != "" {
		if err := c.saveHistory(ctx, cfg, summary); err != nil {
			return err
		}
	}

	if c.serveAddr != "" {
		if err := c.serve(ctx, instance, logger); err != nil {
			return err
		}
	}

	if !summary.OK() {
		return errScenariosFailed
	}
	return nil
}

func (c *cmdRun) printResult(result collector.ScenarioResult) {
	duration := result.Duration.Round(time.Millisecond)
	if result.Passed() {
		fmt.Fprintf(c.gs.stdOut, "%s %s (%s)\n", color.GreenString("✓"), result.Name, duration)
		return
	}
	fmt.Fprintf(c.gs.stdOut, "%s %s (%s)\n    %s\n", color.RedString("✗"), result.Name, duration, color.RedString(result.Error))
}

func (c *cmdRun) printSummary(summary scenario.Summary, planned int) {
	line := fmt.Sprintf("%d passed, %d failed", summary.Passed(), summary.Failed())
	if skipped := planned - len(summary.Results); skipped > 0 {
		line += fmt.Sprintf(", %d not run", skipped)
	}
	line += fmt.Sprintf(" in %s", summary.Duration.Round(time.Millisecond))

	if summary.OK() && len(summary.Results) == planned {
		fmt.Fprintln(c.gs.stdOut, color.GreenString(line))
	} else {
		fmt.Fprintln(c.gs.stdOut, color.RedString(line))
	}
}

func (c *cmdRun) writeReport(ctx context.Context, instance *hrmcheck.Instance) (err error) {
	f, err := os.Create(c.reportPath)
	if err != nil {
		return fmt.Errorf("creating report: %w", err)
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()

	events := instance.Events(hrmcheck.DefaultEventCapacity)
	if err := report.Write(ctx, f, events, report.WithTruncateAfter(0)); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}

func (c *cmdRun) saveHistory(ctx context.Context, cfg config.Config, summary scenario.Summary) error {
	st, err := store.Open(c.history)
	if err != nil {
		return err
	}
	defer st.Close()

	_, err = st.SaveRun(ctx, store.Run{
		StartedAt: summary.Started,
		Duration:  summary.Duration,
		BaseURL:   cfg.BaseURL,
		Browser:   cfg.Browser,
		Results:   summary.Results,
	})
	return err
}

// serve blocks until ctx is done.
func (c *cmdRun) serve(ctx context.Context, instance *hrmcheck.Instance, logger *slog.Logger) error {
	server := &http.Server{
		Addr:              c.serveAddr,
		Handler:           instance.ReportHandler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()
	logger.Info("Serving report, press Ctrl+C to stop", "addr", c.serveAddr)

	select {
	case err := <-errCh:
		return fmt.Errorf("serving report: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func getCmdRun(gs *globalState) *cobra.Command {
	c := &cmdRun{gs: gs}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run the scenarios against an OrangeHRM deployment",
		Long: `Run the scenarios against an OrangeHRM deployment.

  Configuration is read from the defaults, the file given with --config and the
  environment (HRM_BASE_URL, HRM_USERNAME, HRM_PASSWORD, HRM_BROWSER, HEADLESS, ...).
  Flags override both. The exit status is 1 when a scenario fails.`,
		Args: cobra.NoArgs,
		RunE: c.run,
	}
	runCmd.Flags().AddFlagSet(c.flagSet())
	return runCmd
}
