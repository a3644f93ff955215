package main

import (
	"context"
	"log/slog"
	"mailman-admin/cmd/mailman-cli/commands"
	"mailman-admin/lib/serviceutil"
	"mailman-admin/lib/telemetry"
	"os"
)

func main() {
	ctx := serviceutil.SignalContext()

	tel, err := telemetry.SetupFromEnv(ctx, "mailman-cli")
	if err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to setup telemetry", "err", err)
	}

	err = commands.ExecuteContext(ctx)

	shutdownErr := tel.Shutdown(context.Background())
	if shutdownErr != nil {
		slog.Warn("failed to shutdown telemetry", "err", shutdownErr)
	}
	if err != nil {
		os.Exit(1)
	}
}
