package logger

import (
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	def *slog.Logger
	zl  *zap.Logger
)

// Init configures the default slog logger for the environment.
func Init(cfg Config) *slog.Logger {
	if cfg.Env == "" {
		cfg.Env = DetectEnv()
	}
	if cfg.Service == "" {
		cfg.Service = "workbench"
	}
	if cfg.Output == nil {
		cfg.Output = os.Stdout
	}
	cfg.InstanceID = ensureInstanceID(cfg.InstanceID)

	if cfg.Backend == "" {
		if cfg.Env == EnvDev {
			cfg.Backend = BackendStd
		} else {
			cfg.Backend = BackendZap
		}
	}

	var h slog.Handler
	switch cfg.Backend {
	case BackendZap:
		h, zl = newZapHandler(cfg)
	default:
		h, zl = newStdHandler(cfg), nil
	}

	h = contextHandler{h.WithAttrs(commonAttrs(cfg))}

	def = slog.New(h)
	slog.SetDefault(def)
	return def
}

// Sync flushes the zap backend, if any.
func Sync() {
	if zl != nil {
		_ = zl.Sync()
	}
}

func ensureInstanceID(v string) string {
	if v != "" {
		return v
	}
	hn, _ := os.Hostname()
	return hn + "-" + uuid.New().String()[:8]
}

func commonAttrs(cfg Config) []slog.Attr {
	return []slog.Attr{
		slog.String("service", cfg.Service),
		slog.String("env", string(cfg.Env)),
		slog.String("version", cfg.Version),
		slog.String("instance_id", cfg.InstanceID),
		slog.Time("started_at", time.Now()),
	}
}
