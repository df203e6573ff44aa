package dlqueue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"subsearch/internal/fileutil"
)

// ManifestName is the queue file written under the temp directory.
const ManifestName = "queue.json"

const lockRetryDelay = 50 * time.Millisecond

// Manifest is the on-disk queue.
type Manifest struct {
	SearchID  string    `json:"search_id"`
	Release   string    `json:"release"`
	CreatedAt time.Time `json:"created_at"`
	Tasks     []Task    `json:"tasks"`
}

// ManifestPath returns the manifest location for tempDir.
func ManifestPath(tempDir string) string {
	return filepath.Join(tempDir, ManifestName)
}

// WriteManifest replaces the queue manifest in tempDir. The write holds an
// exclusive lock on "<manifest>.lock" so runs sharing a temp dir never
// interleave, and lands via rename so readers never see a partial file.
func WriteManifest(ctx context.Context, tempDir string, manifest Manifest) (string, error) {
	if err := fileutil.EnsureDir(tempDir); err != nil {
		return "", err
	}
	path := ManifestPath(tempDir)
	unlock, err := lockManifest(ctx, path)
	if err != nil {
		return "", err
	}
	defer unlock()

	if manifest.CreatedAt.IsZero() {
		manifest.CreatedAt = time.Now().UTC()
	}
	if manifest.Tasks == nil {
		manifest.Tasks = []Task{}
	}
	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode manifest: %w", err)
	}
	if err := fileutil.WriteAtomic(path, append(data, '\n'), 0o644); err != nil {
		return "", fmt.Errorf("write manifest: %w", err)
	}
	return path, nil
}

// ReadManifest loads the queue manifest from tempDir.
func ReadManifest(ctx context.Context, tempDir string) (Manifest, error) {
	path := ManifestPath(tempDir)
	unlock, err := lockManifest(ctx, path)
	if err != nil {
		return Manifest{}, err
	}
	defer unlock()

	data, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, fmt.Errorf("read manifest: %w", err)
	}
	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return Manifest{}, fmt.Errorf("decode manifest: %w", err)
	}
	return manifest, nil
}

func lockManifest(ctx context.Context, path string) (func(), error) {
	lock := flock.New(path + ".lock")
	ok, err := lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("lock manifest: %w", err)
	}
	if !ok {
		return nil, errors.New("lock manifest: not acquired")
	}
	return func() { _ = lock.Unlock() }, nil
}
