package s3stream

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"

	"github.com/input-output-hk/catalyst-forge-libs/s3stream/errors"
	"github.com/input-output-hk/catalyst-forge-libs/s3stream/gateway"
	"github.com/input-output-hk/catalyst-forge-libs/s3stream/internal/contenttype"
	"github.com/input-output-hk/catalyst-forge-libs/s3stream/internal/validation"
	"github.com/input-output-hk/catalyst-forge-libs/s3stream/s3types"
)

// sniffLen is how much of a file is read to detect its content type.
const sniffLen = 512

// Storage is the entry point to a bucket. It owns the gateway shared by the
// uploads it creates and is safe for concurrent use.
//
// A Storage built from a configuration without bucket or credentials is disabled:
// every operation reports ErrNotEnabled and the URL helpers return "".
type Storage struct {
	cfg          Config
	gateway      s3types.Gateway
	fs           billy.Filesystem
	logger       *slog.Logger
	recorder     s3types.UploadRecorder
	partSize     int64
	abortTimeout time.Duration
	httpClient   *http.Client
}

// New creates a Storage for cfg. Construction is the only initialization point:
// the AWS configuration is loaded here, once, and shared by every request.
//
// Example:
//
//	store, err := s3stream.New(ctx, cfg,
//	    s3stream.WithLogger(logger),
//	    s3stream.WithPartSize(8*1024*1024),
//	)
func New(ctx context.Context, cfg Config, opts ...s3types.Option) (*Storage, error) {
	clientCfg := &s3types.ClientConfig{
		PartSize:     MinPartSize,
		AbortTimeout: DefaultAbortTimeout,
	}
	if cfg.PartSize > 0 {
		clientCfg.PartSize = cfg.PartSize
	}
	for _, opt := range opts {
		opt(clientCfg)
	}

	if clientCfg.Logger == nil {
		clientCfg.Logger = slog.Default()
	}
	if clientCfg.Recorder == nil {
		clientCfg.Recorder = noopRecorder{}
	}
	if clientCfg.Filesystem == nil {
		clientCfg.Filesystem = osfs.New("/")
	}

	cfg = cfg.withDefaults()
	s := &Storage{
		cfg:          cfg,
		fs:           clientCfg.Filesystem,
		logger:       clientCfg.Logger,
		recorder:     clientCfg.Recorder,
		partSize:     clientCfg.PartSize,
		abortTimeout: clientCfg.AbortTimeout,
		httpClient:   clientCfg.CustomHTTPClient,
	}

	if !cfg.IsEnabled() {
		s.logger.Debug("storage disabled, bucket or credentials not configured")
		return s, nil
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s.gateway = clientCfg.Gateway
	if s.gateway == nil {
		gw, err := newGateway(ctx, cfg, clientCfg)
		if err != nil {
			return nil, err
		}
		s.gateway = gw
	}

	s.logger.Info("storage initialized",
		"bucket", cfg.Bucket,
		"backend", cfg.Backend,
		"endpoint", cfg.Endpoint,
		"prefix", cfg.PathPrefix)
	return s, nil
}

func newGateway(ctx context.Context, cfg Config, clientCfg *s3types.ClientConfig) (s3types.Gateway, error) {
	if cfg.Backend == BackendMinio {
		opts := gateway.MinioOptions{
			Endpoint:        cfg.Endpoint,
			Region:          cfg.Region,
			AccessKeyID:     cfg.AccessKeyID,
			SecretAccessKey: cfg.SecretAccessKey,
			PathStyle:       cfg.UsePathStyle,
		}
		if clientCfg.CustomHTTPClient != nil {
			opts.Transport = clientCfg.CustomHTTPClient.Transport
		}
		return gateway.NewMinioFromOptions(opts, cfg.Bucket)
	}

	awsCfg, err := loadAWSConfig(ctx, cfg, clientCfg)
	if err != nil {
		return nil, err
	}

	return gateway.NewAWSFromConfig(awsCfg, cfg.Bucket, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	}), nil
}

func loadAWSConfig(ctx context.Context, cfg Config, clientCfg *s3types.ClientConfig) (aws.Config, error) {
	creds := credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")

	if clientCfg.CustomAWSConfig != nil {
		awsCfg := clientCfg.CustomAWSConfig.Copy()
		awsCfg.Region = cfg.Region
		awsCfg.Credentials = aws.NewCredentialsCache(creds)
		if cfg.MaxRetries > 0 {
			awsCfg.RetryMaxAttempts = cfg.MaxRetries
		}
		if clientCfg.CustomHTTPClient != nil {
			awsCfg.HTTPClient = clientCfg.CustomHTTPClient
		}
		return awsCfg, nil
	}

	loadOpts := []func(*config.LoadOptions) error{
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(creds),
	}
	if cfg.MaxRetries > 0 {
		loadOpts = append(loadOpts, config.WithRetryMaxAttempts(cfg.MaxRetries))
	}
	if clientCfg.CustomHTTPClient != nil {
		loadOpts = append(loadOpts, config.WithHTTPClient(clientCfg.CustomHTTPClient))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return aws.Config{}, errors.NewError("loadAWSConfig", err).WithBucket(cfg.Bucket)
	}
	return awsCfg, nil
}

// IsEnabled reports whether the storage has a bucket and credentials.
func (s *Storage) IsEnabled() bool {
	return s.gateway != nil
}

// Config returns the effective configuration with defaults applied.
func (s *Storage) Config() Config {
	return s.cfg
}

// FullKey joins the configured path prefix and key.
func (s *Storage) FullKey(key string) string {
	if s.cfg.PathPrefix == "" {
		return key
	}
	return s.cfg.PathPrefix + "/" + key
}

// UploadFile uploads a local file in a single request and returns its full key.
// The content type is derived from the key, falling back to the file contents.
func (s *Storage) UploadFile(ctx context.Context, localPath, key string) (string, error) {
	if !s.IsEnabled() {
		return "", s.notEnabled("uploadFile", key)
	}

	fullKey, err := s.objectKey(key)
	if err != nil {
		return "", err
	}

	info, err := s.fs.Stat(localPath)
	if err != nil {
		return "", errors.NewObjectError("uploadFile", s.cfg.Bucket, fullKey, err).
			WithMessage("failed to read file")
	}

	f, err := s.fs.Open(localPath)
	if err != nil {
		return "", errors.NewObjectError("uploadFile", s.cfg.Bucket, fullKey, err).
			WithMessage("failed to read file")
	}
	defer func() {
		_ = f.Close()
	}()

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(f, head)
	if err != nil && !stderrors.Is(err, io.EOF) && !stderrors.Is(err, io.ErrUnexpectedEOF) {
		return "", errors.NewObjectError("uploadFile", s.cfg.Bucket, fullKey, err).
			WithMessage("failed to read file")
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", errors.NewObjectError("uploadFile", s.cfg.Bucket, fullKey, err).
			WithMessage("failed to rewind file")
	}

	contentType := contenttype.Detect(key, head[:n])
	if err := s.gateway.PutObject(ctx, fullKey, f, info.Size(), contentType); err != nil {
		return "", err
	}

	s.logger.Info("file uploaded",
		"key", fullKey,
		"size", info.Size(),
		"content_type", contentType)
	return fullKey, nil
}

// NewUpload creates a streaming upload of key. The upload borrows the storage's
// gateway, so the storage must outlive it.
func (s *Storage) NewUpload(key string, expectedSize int64, opts ...s3types.UploadOption) (*Upload, error) {
	if !s.IsEnabled() {
		return nil, s.notEnabled("newUpload", key)
	}

	fullKey, err := s.objectKey(key)
	if err != nil {
		return nil, err
	}

	base := []s3types.UploadOption{
		WithUploadLogger(s.logger),
		WithUploadPartSize(s.partSize),
	}
	u := NewUpload(s.gateway, fullKey, expectedSize, append(base, opts...)...)
	u.recorder = s.recorder
	u.abortTimeout = s.abortTimeout
	return u, nil
}

// PresignedURL returns a time-limited GET URL for key.
func (s *Storage) PresignedURL(ctx context.Context, key string) (string, error) {
	if !s.IsEnabled() {
		return "", s.notEnabled("presignedURL", key)
	}

	expiry := time.Duration(s.cfg.PresignedURLExpiry) * time.Second
	return s.gateway.PresignGetObject(ctx, s.FullKey(key), expiry)
}

// PublicURL returns the unauthenticated URL of key, or "" when disabled.
//
// With an endpoint override the URL is path-style (endpoint/bucket/key) or
// virtual-hosted (https://bucket.host/key) according to UsePathStyle; without
// one it is the regional AWS URL.
func (s *Storage) PublicURL(key string) string {
	if !s.IsEnabled() {
		return ""
	}

	fullKey := s.FullKey(key)
	endpoint := strings.TrimSuffix(s.cfg.Endpoint, "/")
	if endpoint == "" {
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.cfg.Bucket, s.cfg.Region, fullKey)
	}
	if s.cfg.UsePathStyle {
		return endpoint + "/" + s.cfg.Bucket + "/" + fullKey
	}

	host := strings.TrimPrefix(endpoint, "https://")
	host = strings.TrimPrefix(host, "http://")
	return "https://" + s.cfg.Bucket + "." + host + "/" + fullKey
}

// FileURL returns the address handed to consumers of key: the full key when
// UsePathOnly is set, the public URL when UsePublicURLs is set, and a presigned
// URL otherwise.
func (s *Storage) FileURL(ctx context.Context, key string) (string, error) {
	if !s.IsEnabled() {
		return "", s.notEnabled("fileURL", key)
	}

	switch {
	case s.cfg.UsePathOnly:
		return s.FullKey(key), nil
	case s.cfg.UsePublicURLs:
		return s.PublicURL(key), nil
	default:
		return s.PresignedURL(ctx, key)
	}
}

// FilePath returns the full key of key, or "" when disabled.
func (s *Storage) FilePath(key string) string {
	if !s.IsEnabled() {
		return ""
	}
	return s.FullKey(key)
}

// Delete removes key from the bucket.
func (s *Storage) Delete(ctx context.Context, key string) error {
	if !s.IsEnabled() {
		return s.notEnabled("delete", key)
	}

	fullKey := s.FullKey(key)
	if err := s.gateway.DeleteObject(ctx, fullKey); err != nil {
		return err
	}
	s.logger.Info("object deleted", "key", fullKey)
	return nil
}

// Exists reports whether key is present. A missing object is not an error.
func (s *Storage) Exists(ctx context.Context, key string) (bool, error) {
	if !s.IsEnabled() {
		return false, s.notEnabled("exists", key)
	}

	_, err := s.gateway.HeadObject(ctx, s.FullKey(key))
	if err != nil {
		if errors.IsObjectNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Close releases idle connections held by a caller-supplied HTTP client.
// Uploads created from the storage must be finished before Close.
func (s *Storage) Close() error {
	if s.httpClient != nil {
		s.httpClient.CloseIdleConnections()
	}
	return nil
}

// objectKey validates key on its own and once joined with the prefix.
func (s *Storage) objectKey(key string) (string, error) {
	if err := validation.ValidateObjectKey(key); err != nil {
		return "", err
	}
	fullKey := s.FullKey(key)
	if err := validation.ValidateObjectKey(fullKey); err != nil {
		return "", err
	}
	return fullKey, nil
}

func (s *Storage) notEnabled(op, key string) error {
	return errors.NewError(op, errors.ErrNotEnabled).WithKey(key)
}
