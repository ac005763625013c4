package adapter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	m "gooze.dev/pkg/polymut/internal/model"
)

const (
	reportFileName    = "report.yaml"
	shardReportPrefix = "shard_"
)

// ReportStore persists run reports in a reports directory.
type ReportStore interface {
	SaveReport(ctx context.Context, dir m.Path, report m.RunReport) error
	LoadReport(ctx context.Context, dir m.Path) (m.RunReport, error)
	// ShardDirs lists shard_* subdirectories that hold a report.
	ShardDirs(ctx context.Context, dir m.Path) ([]m.Path, error)
}

// YAMLReportStore writes reports as report.yaml.
type YAMLReportStore struct{}

// NewReportStore constructs the default ReportStore.
func NewReportStore() *YAMLReportStore {
	return &YAMLReportStore{}
}

// ShardDir returns the directory used for one shard's report.
func ShardDir(dir m.Path, shardIndex int) m.Path {
	return m.Path(filepath.Join(string(dir), fmt.Sprintf("%s%d", shardReportPrefix, shardIndex)))
}

// SaveReport writes the report atomically.
func (s *YAMLReportStore) SaveReport(ctx context.Context, dir m.Path, report m.RunReport) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.MkdirAll(string(dir), 0o750); err != nil {
		slog.Error("Failed to create reports dir", "dir", dir, "error", err)
		return fmt.Errorf("create reports dir: %w", err)
	}

	data, err := yaml.Marshal(&report)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	path := filepath.Join(string(dir), reportFileName)
	if err := writeAtomic(path, data, 0o644); err != nil {
		slog.Error("Failed to write report", "path", path, "error", err)
		return fmt.Errorf("write report: %w", err)
	}

	slog.Info("Saved report", "path", path, "run_id", report.RunID, "mutations", len(report.Mutations), "outcomes", len(report.Outcomes))

	return nil
}

// LoadReport reads report.yaml from dir.
func (s *YAMLReportStore) LoadReport(ctx context.Context, dir m.Path) (m.RunReport, error) {
	if err := ctx.Err(); err != nil {
		return m.RunReport{}, err
	}

	path := filepath.Join(string(dir), reportFileName)

	// #nosec G304 - reports dir is user configuration
	data, err := os.ReadFile(path)
	if err != nil {
		return m.RunReport{}, fmt.Errorf("read report: %w", err)
	}

	var report m.RunReport
	if err := yaml.Unmarshal(data, &report); err != nil {
		return m.RunReport{}, fmt.Errorf("decode report %s: %w", path, err)
	}

	return report, nil
}

// ShardDirs returns shard directories in name order.
func (s *YAMLReportStore) ShardDirs(ctx context.Context, dir m.Path) ([]m.Path, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(string(dir))
	if err != nil {
		return nil, fmt.Errorf("read reports dir: %w", err)
	}

	var shards []m.Path

	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), shardReportPrefix) {
			continue
		}

		shardDir := filepath.Join(string(dir), entry.Name())
		if _, err := os.Stat(filepath.Join(shardDir, reportFileName)); errors.Is(err, os.ErrNotExist) {
			continue
		}

		shards = append(shards, m.Path(shardDir))
	}

	sort.Slice(shards, func(i, j int) bool { return shards[i] < shards[j] })

	return shards, nil
}
