// Command pagetrack opens a page in headless Chrome and tracks it the way
// the embedded library would, sending real events to the collector. It is
// meant for synthetic sessions and for checking collector wiring.
//
// Usage:
//
//	pagetrack -url https://shop.example/p/42 -bindings bindings.yaml
//	pagetrack -url https://shop.example/ -duration 10m -metrics :9090
//
// Settings come from PAGETRACK_* environment variables (and .env). Without
// PAGETRACK_CONTENT_ENDPOINT the page configuration is read from
// PAGETRACK_PAGE_* variables instead of the content service.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/stealth"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrymomot/pagetrack"
	"github.com/dmitrymomot/pagetrack/pkg/beacon"
	"github.com/dmitrymomot/pagetrack/pkg/config"
	"github.com/dmitrymomot/pagetrack/pkg/ident"
	"github.com/dmitrymomot/pagetrack/pkg/logger"
	"github.com/dmitrymomot/pagetrack/pkg/rodpage"
)

type options struct {
	url      string
	bindings string
	device   string
	duration time.Duration
	env      string
	metrics  string
	browser  string
}

// pageEnv is the page configuration used when no content service is set.
type pageEnv struct {
	ProjectID        string        `env:"PROJECT_ID"`
	WebsiteID        string        `env:"WEBSITE_ID"`
	ContentServingID string        `env:"CONTENT_SERVING_ID"`
	ContentID        string        `env:"CONTENT_ID"`
	ContentStatus    string        `env:"CONTENT_STATUS"`
	ProductID        string        `env:"PRODUCT_ID"`
	IsProductPage    bool          `env:"IS_PDP"`
	IdleTime         time.Duration `env:"IDLE_TIME"`
}

func main() {
	var o options
	flag.StringVar(&o.url, "url", "", "page to track")
	flag.StringVar(&o.bindings, "bindings", "", "YAML file with click and scroll bindings")
	flag.StringVar(&o.device, "device", "", "device id (random when empty)")
	flag.DurationVar(&o.duration, "duration", 0, "stop after this long (0 waits for a signal)")
	flag.StringVar(&o.env, "env", logger.EnvDevelopment, "logging environment: development, staging, production")
	flag.StringVar(&o.metrics, "metrics", "", "serve Prometheus metrics on this address")
	flag.StringVar(&o.browser, "browser", "", "DevTools websocket URL of a running Chrome (launches one when empty)")
	flag.Parse()

	log := logger.New(logger.WithEnvironment(o.env, "pagetrack"))
	logger.SetAsDefault(log)

	if o.url == "" {
		fmt.Fprintln(os.Stderr, "usage: pagetrack -url <page> [-bindings file] [-device id] [-duration d] [-metrics addr]")
		os.Exit(2)
	}
	if o.device == "" {
		o.device = ident.NewDeviceID()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, log, o); err != nil {
		log.Error("pagetrack failed", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, log *slog.Logger, o options) error {
	settings, err := pagetrack.LoadSettings()
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	senderOpts := []beacon.Option{
		beacon.WithTimeout(settings.BeaconTimeout),
		beacon.WithLogger(log),
		beacon.WithCircuitBreaker(5, 30*time.Second),
	}
	if o.metrics != "" {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		senderOpts = append(senderOpts, beacon.WithMetrics(beacon.NewMetrics(reg)))
		srv := serveMetrics(log, o.metrics, reg)
		defer shutdown(log, srv)
	}
	sender := beacon.NewSender(senderOpts...)

	browser, closeBrowser, err := connect(o.browser)
	if err != nil {
		return err
	}
	defer closeBrowser()

	page, err := open(ctx, log, browser, o.url)
	if err != nil {
		return err
	}
	defer func() { _ = page.Close() }()

	rp, err := rodpage.Attach(ctx, page, rodpage.WithLogger(log))
	if err != nil {
		return fmt.Errorf("attach page: %w", err)
	}
	defer func() { _ = rp.Close() }()

	tr := pagetrack.New(rp, sender,
		pagetrack.WithSettings(settings),
		pagetrack.WithLogger(log),
	)

	if err := track(ctx, log, tr, o, settings); err != nil {
		if errors.Is(err, pagetrack.ErrOptedOut) {
			log.Info("page opted out of tracking", slog.String("url", o.url))
			return nil
		}
		return err
	}

	wait(ctx, o.duration)

	if err := tr.Close(); err != nil {
		log.Warn("session did not end cleanly", logger.Error(err))
	}
	closeCtx, cancel := context.WithTimeout(context.Background(), settings.BeaconTimeout+time.Second)
	defer cancel()
	if err := sender.Close(closeCtx); err != nil {
		log.Warn("pending beacons abandoned", logger.Error(err))
	}
	return nil
}

// track configures the session and binds the interactions.
func track(ctx context.Context, log *slog.Logger, tr *pagetrack.Tracker, o options, settings pagetrack.Settings) error {
	var cfg pagetrack.PageConfig
	if settings.ContentEndpoint != "" {
		c, err := tr.FetchContent(ctx, o.device)
		if err != nil {
			return fmt.Errorf("fetch content: %w", err)
		}
		cfg = pagetrack.ConfigFromContent(c)
		log.Info("content loaded", slog.Int("selectors", len(c.Selectors)))
	} else {
		var pe pageEnv
		if err := config.Load(&pe, config.WithPrefix(pagetrack.EnvPrefix+"PAGE_")); err != nil {
			return fmt.Errorf("load page config: %w", err)
		}
		cfg = pagetrack.PageConfig{
			DeviceID:         o.device,
			ProjectID:        pe.ProjectID,
			WebsiteID:        pe.WebsiteID,
			ContentServingID: pe.ContentServingID,
			ContentID:        pe.ContentID,
			ContentStatus:    pe.ContentStatus,
			ProductID:        pe.ProductID,
			IsProductPage:    pe.IsProductPage,
			IdleTime:         pe.IdleTime,
		}
	}

	if o.bindings != "" {
		b, err := pagetrack.LoadBindings(o.bindings)
		if err != nil {
			return fmt.Errorf("load bindings: %w", err)
		}
		if err := tr.BindClicks(b.Clicks...); err != nil {
			return err
		}
		if err := tr.BindScrolls(b.Scrolls...); err != nil {
			return err
		}
	}

	if err := tr.InitPageSession(cfg); err != nil {
		return fmt.Errorf("init session: %w", err)
	}
	log.Info("tracking page",
		slog.String("url", o.url),
		logger.DeviceID(o.device),
		logger.Duration(tr.Config().IdleTime),
	)
	return nil
}

func connect(remote string) (*rod.Browser, func(), error) {
	controlURL := remote
	var l *launcher.Launcher
	if controlURL == "" {
		l = launcher.New().Headless(true).Set("disable-blink-features", "AutomationControlled")
		u, err := l.Launch()
		if err != nil {
			return nil, nil, fmt.Errorf("launch browser: %w", err)
		}
		controlURL = u
	}

	b := rod.New().ControlURL(controlURL)
	if err := b.Connect(); err != nil {
		if l != nil {
			l.Cleanup()
		}
		return nil, nil, fmt.Errorf("connect browser: %w", err)
	}
	return b, func() {
		_ = b.Close()
		if l != nil {
			l.Cleanup()
		}
	}, nil
}

func open(ctx context.Context, log *slog.Logger, b *rod.Browser, url string) (*rod.Page, error) {
	page, err := stealth.Page(b)
	if err != nil {
		return nil, fmt.Errorf("open tab: %w", err)
	}

	navCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := page.Context(navCtx).Navigate(url); err != nil {
		_ = page.Close()
		return nil, fmt.Errorf("navigate %s: %w", url, err)
	}
	if err := page.Context(navCtx).WaitLoad(); err != nil {
		log.Warn("page load not confirmed", slog.String("url", url), logger.Error(err))
	}
	return page, nil
}

func wait(ctx context.Context, d time.Duration) {
	if d <= 0 {
		<-ctx.Done()
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

func serveMetrics(log *slog.Logger, addr string, reg *prometheus.Registry) *http.Server {
	srv := &http.Server{Addr: addr, Handler: metricsRouter(reg), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server stopped", logger.Error(err))
		}
	}()
	log.Info("serving metrics", slog.String("addr", addr))
	return srv
}

func metricsRouter(reg *prometheus.Registry) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	return r
}

func shutdown(log *slog.Logger, srv *http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Warn("metrics server shutdown", logger.Error(err))
	}
}
