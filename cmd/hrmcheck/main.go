// Command hrmcheck runs the OrangeHRM browser checks outside of go test.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/networkteam/hrmcheck"
	"github.com/networkteam/hrmcheck/config"
	"github.com/networkteam/hrmcheck/fixture"
)

// errScenariosFailed makes the process exit with status 1 without printing an error.
var errScenariosFailed = errors.New("scenarios failed")

type launchFunc func(instance *hrmcheck.Instance, cfg config.Config, opts ...fixture.Option) (*fixture.Session, error)

// globalState holds everything the commands touch outside of their flags.
type globalState struct {
	stdOut    io.Writer
	stdErr    io.Writer
	lookupEnv config.LookupFunc
	launch    launchFunc
	install   func(cfg config.Config) error
}

func newGlobalState() *globalState {
	return &globalState{
		stdOut:    color.Output,
		stdErr:    color.Error,
		lookupEnv: os.LookupEnv,
		launch: func(instance *hrmcheck.Instance, cfg config.Config, opts ...fixture.Option) (*fixture.Session, error) {
			return instance.Launch(cfg, opts...)
		},
		install: fixture.Install,
	}
}

func newRootCommand(gs *globalState) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "hrmcheck",
		Short:         "Browser end-to-end checks for an OrangeHRM deployment",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetOut(gs.stdOut)
	rootCmd.SetErr(gs.stdErr)

	rootCmd.AddCommand(
		getCmdList(gs),
		getCmdRun(gs),
		getCmdHistory(gs),
	)
	return rootCmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gs := newGlobalState()
	err := newRootCommand(gs).ExecuteContext(ctx)
	if err == nil {
		return
	}
	if !errors.Is(err, errScenariosFailed) {
		fmt.Fprintln(gs.stdErr, color.RedString("Error: %v", err))
	}
	stop()
	os.Exit(1)
}
