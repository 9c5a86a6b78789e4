package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/PolarWolf314/lumen/internal/configs"
	"github.com/PolarWolf314/lumen/internal/workflows"
)

var (
	serveAddr           string
	serveTrustedProxies []string
)

// ServeCmd runs the price proxy server.
var ServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the price proxy HTTP server",
	Long: `Serves cached third-party prices to the dashboard so API keys stay on the server.

Endpoints:
  GET /api/prices?symbols=BTC,XLM       CoinGecko
  GET /api/cmc-prices?symbols=BTC,XLM   CoinMarketCap (needs an API key)
  GET /api/convert?amount=1&from=XLM&to=USDC
  GET /healthz

Clients are rate limited by peer address. X-Forwarded-For is only honoured
for peers listed in server.trusted_proxies or --trusted-proxy.

Stops gracefully on SIGINT or SIGTERM.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to load config: %v", err)
		}
		if serveAddr != "" {
			cfg.Server.Addr = serveAddr
		}
		if len(serveTrustedProxies) > 0 {
			cfg.Server.TrustedProxies = serveTrustedProxies
		}

		log, err := newServerLogger()
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to create logger: %v", err)
		}
		defer func() { _ = log.Sync() }()

		srv, err := workflows.NewServer(cfg, log)
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to build server: %v", err)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		errs := make(chan error, 1)
		go func() { errs <- srv.Start() }()

		select {
		case err := <-errs:
			return err
		case <-ctx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), configs.MustDuration(cfg.Server.ShutdownTimeout))
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return <-errs
	},
}

func init() {
	addCommonFlags(ServeCmd)
	ServeCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default: server.addr from config)")
	ServeCmd.Flags().StringSliceVar(&serveTrustedProxies, "trusted-proxy", nil, "proxy address or CIDR whose X-Forwarded-For is honoured (repeatable)")
}

// newServerLogger returns a JSON production logger, or a development logger
// with --debug.
func newServerLogger() (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
