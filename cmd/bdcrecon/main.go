// Command bdcrecon reconciles the purchase-order exports into one workbook.
//
//	bdcrecon run --orders commandes.xlsx --invoices factures.xlsx --output rapport.xlsx
//	bdcrecon rules
//	bdcrecon sources
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/JonMunkholm/bdcrecon/internal/core"
	_ "github.com/JonMunkholm/bdcrecon/internal/core/sources" // Register all sources
	"github.com/joho/godotenv"
)

func main() {
	// A .env file is optional for the CLI; existing variables win.
	_ = godotenv.Load()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCommand(os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", errorText(err))
		os.Exit(1)
	}
}

// errorText prefers the coded user message when the error is a known one.
func errorText(err error) string {
	if core.IsUserFacing(err) {
		return core.FormatUserError(err)
	}
	return err.Error()
}
