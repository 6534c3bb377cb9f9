package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/zoobzio/chassis"
	"github.com/zoobzio/chassis/internal/registration"
	chassisprom "github.com/zoobzio/chassis/pkg/prometheus"
)

var watchCmd = &cobra.Command{
	Use:   "watch <draft>",
	Short: "Follow a draft file and log every form snapshot",
	Long: `Binds a JSON or YAML draft file to the sign-up form. Every save is applied
as one patch and the resulting form status is logged. With --out, the form
values are written to a file each time the form becomes valid.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().Duration("debounce", chassis.DefaultDebounce, "Coalesce saves within this window")
	watchCmd.Flags().String("metrics-addr", "", "Serve Prometheus metrics on this address, e.g. :2112")
	watchCmd.Flags().String("out", "", "Write the form values here whenever the form becomes valid")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	logger, form, err := setup(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	debounce, _ := cmd.Flags().GetDuration("debounce")
	binding := chassis.Bind(form, chassis.NewFileWatcher(args[0])).
		Codec(chassis.CodecFor(args[0])).
		Debounce(debounce).
		IgnoreUnknown().
		ErrorHistorySize(5)

	if addr, _ := cmd.Flags().GetString("metrics-addr"); addr != "" {
		provider, err := chassisprom.New(prometheus.DefaultRegisterer, "chassis_cli")
		if err != nil {
			return err
		}
		form.Metrics(provider)
		binding.Metrics(provider)
		go serveMetrics(ctx, logger, addr)
	}

	var submitter *chassis.Submitter[registration.Form]
	if out, _ := cmd.Flags().GetString("out"); out != "" {
		submitter = chassis.NewSubmitter(form, writeValues(out),
			chassis.WithRetry[registration.Form](3),
			chassis.WithTimeout[registration.Form](5*time.Second),
		)
	}

	snapshots := form.Subscribe(ctx)

	if err := binding.Start(ctx); err != nil {
		logger.Warn("initial draft rejected", "error", err)
	}

	last := form.Status()
	for range snapshots {
		status := form.Status()
		logger.Info("snapshot", "revision", form.Revision(), "status", status.String())
		for _, fs := range form.Report() {
			if fs.Invalid {
				logger.Info("field invalid", "field", fs.Name, "reasons", fs.Reasons)
			}
		}
		if submitter != nil && status == chassis.StatusValid && last != chassis.StatusValid {
			if err := submitter.Submit(ctx); err != nil {
				logger.Warn("submit failed", "error", err)
			}
		}
		last = status
	}

	logger.Info("stopped", "binding", binding.State().String())
	return nil
}

func writeValues(path string) func(context.Context, *chassis.Request[registration.Form]) error {
	return func(_ context.Context, req *chassis.Request[registration.Form]) error {
		data, err := json.MarshalIndent(registration.Values(req.Snapshot), "", "  ")
		if err != nil {
			return err
		}
		return os.WriteFile(path, data, 0o600)
	}
}

func serveMetrics(ctx context.Context, logger *slog.Logger, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx) //nolint:errcheck // best effort on exit
	}()

	logger.Info("serving metrics", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("metrics server failed", "error", err)
	}
}
