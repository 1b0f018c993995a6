// Package web parses web command flags and launches the web server.
package web

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	entrypoint "github.com/louisbranch/userdesk/internal/platform/cmd"
	"github.com/louisbranch/userdesk/internal/services/web"
)

// Config holds the web command configuration.
type Config struct {
	HTTPAddr            string        `env:"USERDESK_WEB_HTTP_ADDR" envDefault:"localhost:8080"`
	APIBaseURL          string        `env:"USERDESK_WEB_API_BASE_URL" envDefault:"http://localhost:5000"`
	PageSize            int           `env:"USERDESK_WEB_PAGE_SIZE" envDefault:"5"`
	APITimeout          time.Duration `env:"USERDESK_WEB_API_TIMEOUT" envDefault:"0s"`
	ViewTTL             time.Duration `env:"USERDESK_WEB_VIEW_TTL" envDefault:"30m"`
	DisplayTZ           string        `env:"USERDESK_WEB_DISPLAY_TZ"`
	SubmitRPS           float64       `env:"USERDESK_WEB_SUBMIT_RPS" envDefault:"2"`
	SubmitBurst         int           `env:"USERDESK_WEB_SUBMIT_BURST" envDefault:"10"`
	TrustForwardedProto bool          `env:"USERDESK_WEB_TRUST_FORWARDED_PROTO" envDefault:"false"`
	TrustForwardedFor   bool          `env:"USERDESK_WEB_TRUST_FORWARDED_FOR" envDefault:"false"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP listen address")
	fs.StringVar(&cfg.APIBaseURL, "api-base-url", cfg.APIBaseURL, "Users API base URL")
	fs.IntVar(&cfg.PageSize, "page-size", cfg.PageSize, "Users shown per listing page")
	fs.DurationVar(&cfg.APITimeout, "api-timeout", cfg.APITimeout, "Per-call users API timeout (0 disables)")
	fs.DurationVar(&cfg.ViewTTL, "view-ttl", cfg.ViewTTL, "Idle time before view state is evicted")
	fs.StringVar(&cfg.DisplayTZ, "display-tz", cfg.DisplayTZ, "IANA time zone for timestamps (empty uses local time)")
	fs.Float64Var(&cfg.SubmitRPS, "submit-rps", cfg.SubmitRPS, "Registration submits per second per client IP (0 disables)")
	fs.IntVar(&cfg.SubmitBurst, "submit-burst", cfg.SubmitBurst, "Registration submit burst per client IP")
	fs.BoolVar(&cfg.TrustForwardedProto, "trust-forwarded-proto", cfg.TrustForwardedProto, "Trust X-Forwarded-Proto for the request scheme")
	fs.BoolVar(&cfg.TrustForwardedFor, "trust-forwarded-for", cfg.TrustForwardedFor, "Trust X-Forwarded-For for the client IP")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	if cfg.PageSize <= 0 {
		return Config{}, fmt.Errorf("page size must be positive, got %d", cfg.PageSize)
	}
	if cfg.APITimeout < 0 {
		return Config{}, fmt.Errorf("api timeout must not be negative, got %s", cfg.APITimeout)
	}
	if _, err := cfg.displayLocation(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) displayLocation() (*time.Location, error) {
	name := strings.TrimSpace(c.DisplayTZ)
	if name == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("display time zone %q: %w", name, err)
	}
	return loc, nil
}

// Run starts the web server.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceWeb, func(ctx context.Context) error {
		loc, err := cfg.displayLocation()
		if err != nil {
			return err
		}
		server, err := web.NewServer(web.Config{
			HTTPAddr:            cfg.HTTPAddr,
			APIBaseURL:          cfg.APIBaseURL,
			APITimeout:          cfg.APITimeout,
			PageSize:            cfg.PageSize,
			ViewTTL:             cfg.ViewTTL,
			DisplayLocation:     loc,
			SubmitRate:          cfg.SubmitRPS,
			SubmitBurst:         cfg.SubmitBurst,
			TrustForwardedProto: cfg.TrustForwardedProto,
			TrustForwardedFor:   cfg.TrustForwardedFor,
			Logger:              log.Default(),
		})
		if err != nil {
			return fmt.Errorf("init web server: %w", err)
		}
		defer server.Close()

		if err := server.ListenAndServe(ctx); err != nil {
			return fmt.Errorf("serve web: %w", err)
		}
		return nil
	})
}
