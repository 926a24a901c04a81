package main

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"time"

	"github.com/goliatone/go-cached-records/employee"
	"github.com/goliatone/go-cached-records/internal/config"
	"github.com/goliatone/go-cached-records/internal/logging"
	"github.com/goliatone/go-cached-records/pkg/di"
	"github.com/goliatone/go-cached-records/record"
	"github.com/goliatone/go-errors"
	"github.com/spf13/cobra"
)

// errUnsuccessful marks a command whose envelope reported a failure. The
// envelope itself was already printed.
var errUnsuccessful = errors.New("operation was not successful", errors.CategoryCommand)

// clock stamps audit fields; tests pin it.
var clock = time.Now

// app holds what every subcommand needs once the root pre-run has finished.
type app struct {
	configPath string
	out        io.Writer
	errOut     io.Writer

	logger    *slog.Logger
	closeLog  func() error
	container *di.Container
}

// execute runs one recordctl invocation and always releases what the
// pre-run opened.
func execute(ctx context.Context, args []string, out, errOut io.Writer) error {
	rootCmd, a := newRootCmd(out, errOut)
	rootCmd.SetArgs(args)

	err := rootCmd.ExecuteContext(ctx)
	return errors.Join(err, a.close())
}

func newRootCmd(out, errOut io.Writer) (*cobra.Command, *app) {
	a := &app{out: out, errOut: errOut}

	rootCmd := &cobra.Command{
		Use:   "recordctl",
		Short: "Manage employee records",
		Long: `Read and write employee records through a cache-aside repository.
Configuration comes from records.yaml in the working directory, the file
named by --config, and RECORDS_* environment variables.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.open(cmd)
		},
	}
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)
	rootCmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "path to a config file")

	rootCmd.AddCommand(
		newMigrateCmd(a),
		newListCmd(a),
		newGetCmd(a),
		newCreateCmd(a),
		newEditCmd(a),
		newDeleteCmd(a),
	)
	return rootCmd, a
}

func (a *app) open(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return a.report(err)
	}

	logger, closeLog, err := logging.New(cfg.Logging, a.errOut)
	if err != nil {
		return a.report(err)
	}
	a.logger = logger.With(slog.String("command", cmd.Name()))
	a.closeLog = closeLog

	container, err := di.NewContainer(cmd.Context(), cfg, di.WithLogger(a.logger))
	if err != nil {
		a.logger.Error("startup failed", "error", err)
		_ = closeLog()
		return err
	}
	a.container = container
	return nil
}

func (a *app) close() error {
	var errs []error
	if a.container != nil {
		errs = append(errs, a.container.Close())
		a.container = nil
	}
	if a.closeLog != nil {
		errs = append(errs, a.closeLog())
		a.closeLog = nil
	}
	return errors.Join(errs...)
}

// report writes err to stderr when no logger exists yet.
func (a *app) report(err error) error {
	_, _ = io.WriteString(a.errOut, err.Error()+"\n")
	return err
}

func (a *app) service() *employee.Service {
	return a.container.NewEmployeeService(employee.WithClock(clock))
}

// print writes v as indented JSON.
func (a *app) print(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// respond prints an envelope and turns an unsuccessful one into an error so
// the process exits non-zero.
func respond[T any](a *app, res record.ResponseMessage[T]) error {
	if err := a.print(res); err != nil {
		return err
	}
	if !res.IsSuccess {
		return errUnsuccessful
	}
	return nil
}
