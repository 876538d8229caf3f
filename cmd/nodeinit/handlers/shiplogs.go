package handlers

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/imamik/nodeinit/internal/config"
	"github.com/imamik/nodeinit/internal/logging"
	"github.com/imamik/nodeinit/internal/util/async"
	"github.com/imamik/nodeinit/internal/util/naming"
	"github.com/imamik/nodeinit/internal/util/retry"
)

// ShipLogs uploads the background task log files of this node to the
// configured bucket under {prefix}/{host}/{file}. Missing log files are
// skipped; a worker node has none.
func ShipLogs(ctx context.Context, configPath, host string) error {
	ctx, cfg, err := setup(ctx, configPath)
	if err != nil {
		return err
	}
	logger := logging.FromContext(ctx)

	if !cfg.Shipping.Enabled() {
		return errors.New("log shipping is not configured: set shipping.endpoint and shipping.bucket")
	}

	if host == "" {
		if host, err = hostname(); err != nil {
			return fmt.Errorf("failed to determine hostname: %w", err)
		}
	}

	files := logFiles(cfg)
	if len(files) == 0 {
		logger.Info("no log files found, nothing to ship")
		return nil
	}

	client, err := newUploader(ctx, cfg.Shipping)
	if err != nil {
		return fmt.Errorf("failed to create S3 client: %w", err)
	}
	if err := client.EnsureBucket(ctx, cfg.Shipping.Bucket); err != nil {
		return err
	}

	tasks := make([]async.Task, 0, len(files))
	keys := make([]string, 0, len(files))
	for _, file := range files {
		key := naming.LogObjectKey(cfg.Shipping.Prefix, host, file)
		keys = append(keys, key)
		tasks = append(tasks, async.Task{
			Name: file,
			Func: func(ctx context.Context) error {
				return retry.Do(ctx, func(ctx context.Context) error {
					return client.UploadFile(ctx, cfg.Shipping.Bucket, key, file)
				},
					retry.WithMaxRetries(cfg.Shipping.Retries),
					retry.WithOnRetry(func(attempt int, err error, _ time.Duration) {
						logger.Info("retrying upload", "file", file, "attempt", attempt, "error", err.Error())
					}),
				)
			},
		})
	}

	if err := async.RunParallel(ctx, tasks); err != nil {
		return fmt.Errorf("failed to ship logs: %w", err)
	}

	sort.Strings(keys)
	for _, key := range keys {
		_, _ = fmt.Fprintf(stdout, "s3://%s/%s\n", cfg.Shipping.Bucket, key)
	}
	return nil
}

// logFiles returns the configured log files that exist.
func logFiles(cfg *config.Config) []string {
	var files []string
	for _, s := range cfg.Leader.Scripts {
		if info, err := os.Stat(s.LogFile); err == nil && info.Mode().IsRegular() {
			files = append(files, s.LogFile)
		}
	}
	return files
}
