package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/erraggy/oasgate/engine"
	"github.com/erraggy/oasgate/httpvalidator"
	"github.com/erraggy/oasgate/oaserrors"
	"github.com/erraggy/oasgate/parser"
)

const (
	defaultListen   = ":8080"
	shutdownTimeout = 10 * time.Second
)

// ProxyFlags contains flags for the proxy command. Flags override the
// configuration file.
type ProxyFlags struct {
	Config string
	Spec   string
	Target string
	Listen string
}

func newProxyCommand(g *globalFlags) *cobra.Command {
	flags := &ProxyFlags{}
	cmd := &cobra.Command{
		Use:   "proxy",
		Short: "Run a validating reverse proxy",
		Long: "Forward traffic to an upstream service through the validation middleware.\n" +
			"Invalid requests never reach the upstream; invalid responses are replaced\n" +
			"with an error unless validation.reportOnly is set.\n\n" +
			"Run 'oasgate config-schema' for the configuration file format.",
		Example: "  oasgate proxy --spec swagger.yaml --target http://localhost:9000\n" +
			"  oasgate proxy --config oasgate.yaml --log-level info",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := g.logger(cmd)
			if err != nil {
				return err
			}
			cfg, err := resolveProxyConfig(flags)
			if err != nil {
				return err
			}
			handler, err := newProxyHandler(cfg, logger)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serveProxy(ctx, cfg.Listen, handler, logger)
		},
	}
	cmd.Flags().StringVarP(&flags.Config, "config", "c", "", "YAML configuration file")
	cmd.Flags().StringVar(&flags.Spec, "spec", "", "path or URL of the Swagger 2.0 document")
	cmd.Flags().StringVar(&flags.Target, "target", "", "upstream base URL")
	cmd.Flags().StringVar(&flags.Listen, "listen", "", "listen address (default "+defaultListen+")")
	return cmd
}

// resolveProxyConfig merges the configuration file and flags.
func resolveProxyConfig(flags *ProxyFlags) (*ProxyConfig, error) {
	cfg := &ProxyConfig{}
	if flags.Config != "" {
		loaded, err := LoadProxyConfig(flags.Config)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if flags.Spec != "" {
		cfg.Spec = flags.Spec
	}
	if flags.Target != "" {
		cfg.Target = flags.Target
	}
	if flags.Listen != "" {
		cfg.Listen = flags.Listen
	}
	if cfg.Listen == "" {
		cfg.Listen = defaultListen
	}

	if cfg.Spec == "" {
		return nil, &oaserrors.ConfigError{Option: "spec", Message: "a document is required (--spec or spec:)"}
	}
	if cfg.Target == "" {
		return nil, &oaserrors.ConfigError{Option: "target", Message: "an upstream is required (--target or target:)"}
	}
	return cfg, nil
}

// newProxyHandler builds the reverse proxy wrapped in the middleware.
func newProxyHandler(cfg *ProxyConfig, logger parser.Logger) (http.Handler, error) {
	target, err := url.Parse(cfg.Target)
	if err != nil || target.Scheme == "" || target.Host == "" {
		return nil, &oaserrors.ConfigError{Option: "target", Value: cfg.Target, Message: "must be an absolute URL", Cause: err}
	}

	opts := append([]httpvalidator.Option{
		httpvalidator.WithFilePath(cfg.Spec),
		httpvalidator.WithLogger(logger),
	}, cfg.Validation.options(logger)...)
	mw, err := httpvalidator.Middleware(opts...)
	if err != nil {
		return nil, err
	}

	proxy := httputil.NewSingleHostReverseProxy(target)
	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		logger.Error("upstream request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		w.WriteHeader(http.StatusBadGateway)
	}
	return mw(proxy), nil
}

// options translates the configuration into middleware options.
func (vc ValidationConfig) options(logger parser.Logger) []httpvalidator.Option {
	var opts []httpvalidator.Option
	setBool := func(p *bool, opt func(bool) httpvalidator.Option) {
		if p != nil {
			opts = append(opts, opt(*p))
		}
	}
	setBool(vc.Request, httpvalidator.WithValidateRequest)
	setBool(vc.Response, httpvalidator.WithValidateResponse)
	setBool(vc.AllowNullable, httpvalidator.WithAllowNullable)
	setBool(vc.MergeDefinitions, httpvalidator.WithMergeDefinitions)
	setBool(vc.PreserveResponseContentType, httpvalidator.WithPreserveResponseContentType)

	opts = append(opts,
		httpvalidator.WithReturnRequestErrors(vc.ReturnRequestErrors),
		httpvalidator.WithReturnResponseErrors(vc.ReturnResponseErrors),
	)
	if vc.RequestRejectionStatus != 0 {
		opts = append(opts, httpvalidator.WithRequestRejectionStatus(vc.RequestRejectionStatus))
	}
	if vc.ResponseRejectionStatus != 0 {
		opts = append(opts, httpvalidator.WithResponseRejectionStatus(vc.ResponseRejectionStatus))
	}
	if vc.DisableFormats {
		eo := engine.Options{DisableFormatAssertion: true}
		opts = append(opts,
			httpvalidator.WithRequestEngineOptions(eo),
			httpvalidator.WithResponseEngineOptions(eo),
		)
	}
	if vc.ReportOnly {
		report := func(dir oaserrors.Direction) httpvalidator.ValidationFunc {
			return func(r *http.Request, _ any, errs []httpvalidator.FieldError) {
				for _, e := range errs {
					logger.Warn("schema violation",
						"direction", dir, "method", r.Method, "path", r.URL.Path,
						"at", e.Path, "error", e.Message)
				}
			}
		}
		opts = append(opts,
			httpvalidator.WithRequestValidationFunc(report(oaserrors.DirectionRequest)),
			httpvalidator.WithResponseValidationFunc(report(oaserrors.DirectionResponse)),
		)
	}
	return opts
}

// serveProxy serves handler on addr until ctx is done, then shuts down.
func serveProxy(ctx context.Context, addr string, handler http.Handler, logger parser.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("proxy listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("proxy: %w", err)
	case <-ctx.Done():
	}

	logger.Info("proxy shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("proxy: shutdown: %w", err)
	}
	return nil
}
