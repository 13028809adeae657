package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/desertthunder/interlude/internal/formatter"
	"github.com/desertthunder/interlude/internal/models"
)

const (
	defaultWorkers = 4
	maxWorkers     = 10
	ManifestFile   = "export_manifest.json"
)

// BulkExportOpts contains configuration for bulk favorites exports.
type BulkExportOpts struct {
	Format     formatter.Format // Export format: csv, md, txt
	OutputDir  string           // Base output directory (default: favorites_export_{epoch})
	NumWorkers int              // Concurrent workers (default: 4, max: 10)
}

// UserExportResult is the outcome for a single user.
type UserExportResult struct {
	Username string
	File     string
	Success  bool
	Error    error
}

// BulkExportResult summarizes a bulk export. Results keep the order of the input users.
type BulkExportResult struct {
	TotalUsers      int
	Successful      int
	Failed          int
	OutputDirectory string
	ManifestPath    string
	Results         []UserExportResult
}

// BulkExport writes one favorites file per user with a bounded pool of workers, then a manifest.
//
// A failed user does not stop the others. Cancelling ctx stops starting new users.
func BulkExport(ctx context.Context, prog chan<- ProgressUpdate, users []*models.User, opts BulkExportOpts) (*BulkExportResult, error) {
	if opts.Format == "" {
		opts.Format = formatter.FormatMarkdown
	}
	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("favorites_export_%d", time.Now().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = defaultWorkers
	}
	if opts.NumWorkers > maxWorkers {
		opts.NumWorkers = maxWorkers
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	paths := planPaths(users, opts)
	ordered := make([]*UserExportResult, len(users))
	var mu sync.Mutex
	completed := 0

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.NumWorkers)

	for i, u := range users {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			r := exportUser(u, opts.Format, paths[i])

			mu.Lock()
			defer mu.Unlock()
			ordered[i] = &r
			completed++
			if r.Success {
				sendProgress(prog, exportCompletedUpdate(completed, len(users), r.Username, r.File))
			} else {
				sendProgress(prog, exportFailedUpdate(completed, len(users), r.Username, r.Error))
			}
			return nil
		})
	}
	waitErr := g.Wait()

	result := &BulkExportResult{
		TotalUsers:      len(users),
		OutputDirectory: opts.OutputDir,
		Results:         make([]UserExportResult, 0, len(users)),
	}
	for _, r := range ordered {
		if r == nil {
			continue
		}
		result.Results = append(result.Results, *r)
		if r.Success {
			result.Successful++
		} else {
			result.Failed++
		}
	}

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("export cancelled after %d of %d users: %w", len(result.Results), len(users), err)
	}
	if waitErr != nil {
		return result, waitErr
	}

	manifestPath := filepath.Join(opts.OutputDir, ManifestFile)
	if err := writeManifest(result, opts.Format, manifestPath); err != nil {
		return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath
	sendProgress(prog, manifestUpdate(manifestPath))

	return result, nil
}

// planPaths assigns every user a distinct file in the output directory.
// Names that collide after sanitizing get a numeric suffix, in input order.
func planPaths(users []*models.User, opts BulkExportOpts) []string {
	paths := make([]string, len(users))
	taken := make(map[string]bool, len(users))

	for i, u := range users {
		name := safeName(formatter.DefaultFilename(u, opts.Format))
		ext := filepath.Ext(name)
		base := strings.TrimSuffix(name, ext)

		for n := 2; taken[strings.ToLower(name)]; n++ {
			name = fmt.Sprintf("%s_%d%s", base, n, ext)
		}
		taken[strings.ToLower(name)] = true
		paths[i] = filepath.Join(opts.OutputDir, name)
	}
	return paths
}

func exportUser(u *models.User, format formatter.Format, path string) UserExportResult {
	result := UserExportResult{Username: u.Username}

	written, err := formatter.WriteExport(u, format, path)
	if err != nil {
		result.Error = err
		return result
	}

	result.File = written
	result.Success = true
	return result
}

// safeName keeps a username from escaping the output directory.
func safeName(name string) string {
	return strings.NewReplacer("/", "_", `\`, "_", "..", "_").Replace(name)
}

type manifestEntry struct {
	Username string `json:"username"`
	File     string `json:"file,omitempty"`
	Error    string `json:"error,omitempty"`
}

type manifest struct {
	ExportedAt time.Time       `json:"exported_at"`
	Format     string          `json:"format"`
	TotalUsers int             `json:"total_users"`
	Successful int             `json:"successful"`
	Failed     int             `json:"failed"`
	Users      []manifestEntry `json:"users"`
}

func writeManifest(result *BulkExportResult, format formatter.Format, path string) error {
	m := manifest{
		ExportedAt: time.Now().UTC(),
		Format:     string(format),
		TotalUsers: result.TotalUsers,
		Successful: result.Successful,
		Failed:     result.Failed,
		Users:      make([]manifestEntry, 0, len(result.Results)),
	}
	for _, r := range result.Results {
		entry := manifestEntry{Username: r.Username, File: filepath.Base(r.File)}
		if r.Error != nil {
			entry.File = ""
			entry.Error = r.Error.Error()
		}
		m.Users = append(m.Users, entry)
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
