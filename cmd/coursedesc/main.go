package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"coursedesc/cmd/coursedesc/commands"
	"coursedesc/lib/serviceutil"
	"coursedesc/lib/telemetry"
)

func main() {
	ctx := serviceutil.SignalContext()

	t, err := telemetry.SetupFromEnv(ctx, "coursedesc")
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to setup telemetry", "err", err)
	}
	if t.MeterProvider != nil {
		telemetry.InstrumentPerfStats(ctx, time.Second*30)
	}

	code := commands.ExecuteContext(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	err = t.Shutdown(shutdownCtx)
	cancel()
	if err != nil {
		slog.Warn("failed to shutdown telemetry", "err", err)
	}

	os.Exit(code)
}
