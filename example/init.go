package example

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/bodrovis/lokalise-actions-common/v2/parsers"
	"golang.org/x/term"

	"github.com/GoFurry/seafile-sdk-go/example/config"
	"github.com/GoFurry/seafile-sdk-go/internal/tokenstore"
	"github.com/GoFurry/seafile-sdk-go/pkg/metrics"
	"github.com/GoFurry/seafile-sdk-go/pkg/seafile"
)

var (
	// Cfg is loaded from SEAFILE_CONFIG (default seafile.yaml) and the environment.
	// 从 SEAFILE_CONFIG (默认 seafile.yaml) 和环境变量加载.
	Cfg = mustConfig()
	// Ctx bounds a whole example run; main defers Cancel.
	// Ctx 限定整个示例的运行时间, main 中 defer Cancel.
	Ctx, Cancel = context.WithTimeout(context.Background(), 5*time.Minute)
	Session     = connect(Ctx, Cfg)
	Library     = resolveLibrary(Ctx, Session, Cfg)
)

// Must aborts the example on error. 出错时终止示例.
func Must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}

func mustConfig() config.Config {
	path := os.Getenv("SEAFILE_CONFIG")
	if path == "" {
		path = "seafile.yaml"
	}
	cfg, err := config.LoadConfig(path)
	Must(err)
	return cfg
}

func connect(ctx context.Context, cfg config.Config) *seafile.Session {
	level := slog.LevelInfo
	if debug, _ := parsers.ParseBoolEnv("SEAFILE_DEBUG"); debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	opts := []seafile.Option{
		seafile.WithLogger(logger),
		seafile.WithTimeout(cfg.Timeout()),
	}
	// Optional dogstatsd sink, e.g. SEAFILE_STATSD=localhost:8125
	// 可选的 dogstatsd 指标上报
	if addr := os.Getenv("SEAFILE_STATSD"); addr != "" {
		sink, err := metrics.NewStatsd(addr, "app:seafile-example")
		Must(err)
		opts = append(opts, seafile.WithMetrics(sink))
	}
	conn := seafile.NewConnection(opts...)

	server, err := seafile.ParseServerURL(cfg.Server)
	Must(err)

	var store *tokenstore.Store
	if cfg.TokenCache != "" {
		store, err = tokenstore.Open(cfg.TokenCache)
		Must(err)
		defer store.Close()

		// Reuse a cached token when the server still accepts it
		// 优先使用缓存的令牌
		entry, err := store.Get(cfg.Server, cfg.Username)
		if err == nil {
			s, err := seafile.FromToken(ctx, conn, server, entry.Token)
			if err == nil {
				return s
			}
			logger.Info("cached token rejected, logging in again", "error", err)
			_ = store.Delete(cfg.Server, cfg.Username)
		} else if !errors.Is(err, tokenstore.ErrNotFound) {
			Must(err)
		}
	}

	password := readPassword(cfg.Username)
	s, err := seafile.Establish(ctx, conn, server, cfg.Username, password)
	Must(err)

	if store != nil {
		Must(store.Put(cfg.Server, cfg.Username, tokenstore.Entry{Token: s.AuthToken, ServerVersion: s.ServerVersion()}))
	}
	return s
}

// readPassword takes SEAFILE_PASSWORD or prompts on the terminal without echo.
// 读取 SEAFILE_PASSWORD, 否则在终端无回显输入.
func readPassword(username string) []byte {
	if v := os.Getenv("SEAFILE_PASSWORD"); v != "" {
		return []byte(v)
	}
	fmt.Fprintf(os.Stderr, "Password for %s: ", username)
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	Must(err)
	return password
}

func resolveLibrary(ctx context.Context, s *seafile.Session, cfg config.Config) string {
	if cfg.Library != "" {
		return cfg.Library
	}
	lib, err := s.GetDefaultLibrary(ctx)
	Must(err)
	return lib.ID
}
