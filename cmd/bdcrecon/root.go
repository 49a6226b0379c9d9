package main

import (
	"io"
	"log/slog"

	"github.com/JonMunkholm/bdcrecon/internal/logging"
	"github.com/spf13/cobra"
)

// cliOptions holds the persistent flags shared by every command.
type cliOptions struct {
	logLevel  string
	logFormat string
	out       io.Writer
	errOut    io.Writer
}

// logger writes diagnostics to stderr so stdout stays for results.
func (o *cliOptions) logger() *slog.Logger {
	return logging.New(o.errOut, o.logLevel, o.logFormat)
}

func newRootCommand(out, errOut io.Writer) *cobra.Command {
	opts := &cliOptions{out: out, errOut: errOut}

	cmd := &cobra.Command{
		Use:   "bdcrecon",
		Short: "Purchase-order reconciliation",
		Long: `bdcrecon joins the orders export with the optional dispatch log,
certification, invoice and workflow exports into a single workbook with one
sheet per source and a reconciled "Global" sheet.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetOut(out)
	cmd.SetErr(errOut)

	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level: debug, info, warn, error")
	cmd.PersistentFlags().StringVar(&opts.logFormat, "log-format", "text", "log format: text or json")

	cmd.AddCommand(newRunCommand(opts))
	cmd.AddCommand(newRulesCommand())
	cmd.AddCommand(newSourcesCommand())

	return cmd
}
