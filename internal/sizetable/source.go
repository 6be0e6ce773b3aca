package sizetable

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/pierrec/lz4/v4"
)

// Sentinel errors for table retrieval.
var (
	// ErrLoad indicates a table or index source could not be retrieved.
	ErrLoad = errors.New("failed to load size data")

	// ErrStatus indicates a source responded with a non-success status.
	ErrStatus = errors.New("size data source returned non-success status")
)

// snapshotExt is the file extension for lz4-compressed table snapshots.
const snapshotExt = ".csv.lz4"

// tableExt is the file extension for plain table files.
const tableExt = ".csv"

// indexFileName is the platform index document name.
const indexFileName = "index.json"

// Source retrieves raw size data for one artifact corpus. Implementations
// return bytes; parsing and caching belong to the Loader.
type Source interface {
	// Table returns the raw CSV for one (platform, version) table.
	Table(ctx context.Context, platform, version string) ([]byte, error)

	// Index returns the raw platform index JSON document.
	Index(ctx context.Context) ([]byte, error)

	// ID identifies the source for cache keying and log output.
	ID() string
}

// HTTPSource fetches tables from a base URL laid out as
// <base>/<platform>/<version>.csv with <base>/index.json alongside.
type HTTPSource struct {
	BaseURL string
	Client  *http.Client
}

// NewHTTPSource creates an HTTP source for the given base URL.
func NewHTTPSource(baseURL string) *HTTPSource {
	return &HTTPSource{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  http.DefaultClient,
	}
}

// Table fetches one table over HTTP.
func (s *HTTPSource) Table(ctx context.Context, platform, version string) ([]byte, error) {
	return s.get(ctx, s.BaseURL+"/"+platform+"/"+version+tableExt)
}

// Index fetches the platform index over HTTP.
func (s *HTTPSource) Index(ctx context.Context) ([]byte, error) {
	return s.get(ctx, s.BaseURL+"/"+indexFileName)
}

// ID returns the base URL.
func (s *HTTPSource) ID() string { return s.BaseURL }

func (s *HTTPSource) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLoad, url, err)
	}

	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("%w: %s: %s", ErrStatus, url, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLoad, url, err)
	}

	return body, nil
}

// DirSource reads tables from a local directory laid out like the HTTP
// source. Lz4 snapshots written by the snapshot command are read
// transparently when the plain CSV is absent.
type DirSource struct {
	Root string
}

// NewDirSource creates a filesystem source rooted at dir.
func NewDirSource(dir string) *DirSource {
	return &DirSource{Root: dir}
}

// Table reads one table from disk, preferring the plain CSV over a snapshot.
func (s *DirSource) Table(_ context.Context, platform, version string) ([]byte, error) {
	plain := filepath.Join(s.Root, platform, version+tableExt)

	data, err := os.ReadFile(plain)
	if err == nil {
		return data, nil
	}

	if !os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s: %w", ErrLoad, plain, err)
	}

	return readSnapshot(filepath.Join(s.Root, platform, version+snapshotExt))
}

// Index reads the platform index from disk.
func (s *DirSource) Index(_ context.Context) ([]byte, error) {
	path := filepath.Join(s.Root, indexFileName)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLoad, path, err)
	}

	return data, nil
}

// ID returns the root directory.
func (s *DirSource) ID() string { return s.Root }

// readSnapshot reads and decompresses an lz4 table snapshot.
func readSnapshot(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLoad, path, err)
	}

	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(lz4.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLoad, path, err)
	}

	return data, nil
}

// WriteSnapshot writes table bytes as an lz4 snapshot under root, creating
// the platform directory as needed.
func WriteSnapshot(root, platform, version string, data []byte) error {
	dir := filepath.Join(root, platform)

	err := os.MkdirAll(dir, 0o755)
	if err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}

	path := filepath.Join(dir, version+snapshotExt)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create snapshot: %w", err)
	}

	zw := lz4.NewWriter(f)

	_, err = zw.Write(data)
	if err != nil {
		_ = f.Close()

		return fmt.Errorf("write snapshot: %w", err)
	}

	err = zw.Close()
	if err != nil {
		_ = f.Close()

		return fmt.Errorf("flush snapshot: %w", err)
	}

	err = f.Close()
	if err != nil {
		return fmt.Errorf("close snapshot: %w", err)
	}

	return nil
}
