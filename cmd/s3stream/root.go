package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/input-output-hk/catalyst-forge-libs/s3stream"
	"github.com/input-output-hk/catalyst-forge-libs/s3stream/errors"
	"github.com/input-output-hk/catalyst-forge-libs/s3stream/s3types"
)

// envPrefix namespaces environment overrides, e.g. S3STREAM_BUCKET.
const envPrefix = "S3STREAM"

// deps holds what commands need from the outside world; tests replace it.
type deps struct {
	newStorage func(ctx context.Context, cfg s3stream.Config, opts ...s3types.Option) (*s3stream.Storage, error)
}

func defaultDeps() deps {
	return deps{newStorage: s3stream.New}
}

// app carries per-invocation state from the root command to subcommands.
type app struct {
	deps    deps
	v       *viper.Viper
	logger  *slog.Logger
	metrics *metricsServer

	abortTimeout time.Duration
}

func newRootCmd(d deps) *cobra.Command {
	a := &app{deps: d, v: viper.New()}

	root := &cobra.Command{
		Use:   "s3stream",
		Short: "Stream data into S3-compatible object storage",
		Long: `s3stream uploads files or standard input to an S3-compatible bucket using
multipart uploads, and resolves, checks and deletes stored objects.

Configuration is read from flags, S3STREAM_* environment variables and an
optional config file, in that order of precedence. Credentials are taken from
S3STREAM_ACCESS_KEY_ID and S3STREAM_SECRET_ACCESS_KEY or the config file.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return a.metrics.Shutdown(cmd.Context())
		},
	}

	f := root.PersistentFlags()
	f.String("config", "", "Path to a config file (yaml, json or toml)")
	f.String("bucket", "", "Bucket name")
	f.String("region", s3stream.DefaultRegion, "Bucket region")
	f.String("endpoint", "", "Endpoint URL for S3-compatible services")
	f.String("path_prefix", "", "Prefix joined in front of every key")
	f.Bool("use_path_style", false, "Use path-style bucket addressing")
	f.Bool("use_public_urls", false, "Resolve URLs as public, unsigned URLs")
	f.Bool("use_path_only", false, "Resolve URLs as bare object keys")
	f.Int("presigned_url_expiry", s3stream.DefaultPresignedURLExpiry, "Presigned URL lifetime in seconds")
	f.String("backend", s3stream.BackendAWS, "Gateway backend: aws or minio")
	f.Int("max_retries", 0, "Maximum SDK retry attempts (0 keeps the SDK default)")
	f.Int64("part_size", s3stream.MinPartSize, "Multipart part size in bytes, at least 5 MiB")
	f.String("log_level", "info", "Log level: debug, info, warn or error")
	f.String("metrics_addr", "", "Serve Prometheus metrics on this address, e.g. :9090")
	f.Duration("abort_timeout", s3stream.DefaultAbortTimeout, "Time allowed to abort an interrupted upload")

	_ = a.v.BindPFlags(f)

	root.AddCommand(
		newPutCmd(a),
		newURLCmd(a),
		newPathCmd(a),
		newRmCmd(a),
		newExistsCmd(a),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	loader := NewFlagLoader(cmd, a.v)

	var level slog.Level
	if err := level.UnmarshalText([]byte(loader.String("log_level"))); err != nil {
		return errors.NewError("setup", errors.ErrInvalidInput).WithMessage(err.Error())
	}
	a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	a.v.SetEnvPrefix(envPrefix)
	a.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	a.v.AutomaticEnv()
	// Keys without a flag are only visible to Unmarshal once viper knows them.
	a.v.SetDefault("access_key_id", "")
	a.v.SetDefault("secret_access_key", "")

	if path := loader.String("config"); path != "" {
		a.v.SetConfigFile(path)
		if err := a.v.ReadInConfig(); err != nil {
			return errors.NewError("setup", errors.ErrInvalidConfig).
				WithMessage(fmt.Sprintf("read config %s: %v", path, err))
		}
		a.logger.Debug("loaded config file", "path", a.v.ConfigFileUsed())
	}

	a.abortTimeout = loader.Duration("abort_timeout")
	if a.abortTimeout <= 0 {
		a.abortTimeout = s3stream.DefaultAbortTimeout
	}

	metrics, err := startMetrics(loader.String("metrics_addr"), a.logger)
	if err != nil {
		return err
	}
	a.metrics = metrics
	return nil
}

// loadConfig resolves the storage configuration from flags, env and config file.
func (a *app) loadConfig() (s3stream.Config, error) {
	var cfg s3stream.Config
	if err := a.v.Unmarshal(&cfg); err != nil {
		return s3stream.Config{}, errors.NewError("loadConfig", errors.ErrInvalidConfig).WithMessage(err.Error())
	}
	return cfg, nil
}

// openStorage builds an enabled Storage or explains why it cannot.
func (a *app) openStorage(ctx context.Context) (*s3stream.Storage, error) {
	cfg, err := a.loadConfig()
	if err != nil {
		return nil, err
	}
	if !cfg.IsEnabled() {
		return nil, errors.NewError("openStorage", errors.ErrNotEnabled).
			WithMessage("set a bucket and S3STREAM_ACCESS_KEY_ID / S3STREAM_SECRET_ACCESS_KEY")
	}

	opts := []s3types.Option{
		s3stream.WithLogger(a.logger),
		s3stream.WithAbortTimeout(a.abortTimeout),
	}
	if rec := a.metrics.Recorder(); rec != nil {
		opts = append(opts, s3stream.WithRecorder(rec))
	}
	return a.deps.newStorage(ctx, cfg, opts...)
}

func closeStorage(store *s3stream.Storage, logger *slog.Logger) {
	if err := store.Close(); err != nil {
		logger.Warn("failed to close storage", "error", err)
	}
}
