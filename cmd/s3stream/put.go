package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/input-output-hk/catalyst-forge-libs/s3stream"
	"github.com/input-output-hk/catalyst-forge-libs/s3stream/errors"
	"github.com/input-output-hk/catalyst-forge-libs/s3stream/s3types"
)

func newPutCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "put <file|-> [key]",
		Short: "Stream a file or standard input into the bucket",
		Long: `Stream a file, or standard input when the source is "-", into the bucket
through a multipart upload. When no key is given a random one is generated,
keeping the source file extension.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runPut(cmd, args)
		},
	}

	cmd.Flags().Int("chunk_size", 1<<20, "Bytes read from the source per write")
	cmd.Flags().String("content_type", "", "Content type (derived from the key when empty)")
	cmd.Flags().Bool("progress", false, "Print progress to stderr")
	_ = a.v.BindPFlags(cmd.Flags())
	return cmd
}

func (a *app) runPut(cmd *cobra.Command, args []string) error {
	loader := NewFlagLoader(cmd, a.v)

	chunkSize := loader.Int("chunk_size")
	if chunkSize <= 0 {
		return errors.NewError("put", errors.ErrInvalidInput).WithMessage("chunk size must be positive")
	}

	src := args[0]
	key := ""
	if len(args) > 1 {
		key = args[1]
	}
	if key == "" {
		key = defaultKey(src)
	}

	in, size, err := openSource(cmd, src)
	if err != nil {
		return err
	}
	defer func() {
		_ = in.Close()
	}()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := a.openStorage(ctx)
	if err != nil {
		return err
	}
	defer closeStorage(store, a.logger)

	var opts []s3types.UploadOption
	if ct := loader.String("content_type"); ct != "" {
		opts = append(opts, s3stream.WithContentType(ct))
	}
	if loader.Bool("progress") {
		opts = append(opts, s3stream.WithProgress(newProgressPrinter(cmd.ErrOrStderr())))
	}

	up, err := store.NewUpload(key, size, opts...)
	if err != nil {
		return err
	}
	defer func() {
		_ = up.Close()
	}()

	if err := up.Init(ctx); err != nil {
		return err
	}

	if err := stream(ctx, up, in, chunkSize); err != nil {
		abort(up, a.abortTimeout)
		return err
	}

	fullKey, err := up.Complete(ctx)
	if err != nil {
		abort(up, a.abortTimeout)
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d parts\t%s\n",
		fullKey, len(up.Parts()), humanize.IBytes(uint64(up.UploadedBytes())))
	return nil
}

// stream copies in to the upload in chunkSize writes until EOF or cancellation.
func stream(ctx context.Context, up *s3stream.Upload, in io.Reader, chunkSize int) error {
	buf := make([]byte, chunkSize)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		n, readErr := io.ReadFull(in, buf)
		if n > 0 {
			if err := up.Write(ctx, up.UploadedBytes(), buf[:n]); err != nil {
				return err
			}
		}

		switch {
		case readErr == nil:
		case stderrors.Is(readErr, io.EOF), stderrors.Is(readErr, io.ErrUnexpectedEOF):
			return nil
		default:
			return readErr
		}
	}
}

// abort discards a failed or interrupted upload without the caller's context,
// which may already be cancelled.
func abort(up *s3stream.Upload, timeout time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	_ = up.Abort(ctx)
}

func openSource(cmd *cobra.Command, src string) (io.ReadCloser, int64, error) {
	if src == "-" {
		return io.NopCloser(cmd.InOrStdin()), -1, nil
	}

	f, err := os.Open(src)
	if err != nil {
		return nil, 0, err
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, 0, err
	}
	if info.IsDir() {
		_ = f.Close()
		return nil, 0, errors.NewError("put", errors.ErrInvalidInput).WithMessage(src + " is a directory")
	}
	return f, info.Size(), nil
}

// defaultKey names an object after a random UUID, keeping the source extension.
func defaultKey(src string) string {
	if src == "-" {
		return uuid.NewString()
	}
	return uuid.NewString() + filepath.Ext(src)
}
