package image

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"github.com/tuanvumaihuynh/productstack/internal/config"
)

// PublicPrefix is the URL path under which FileStore references are served.
const PublicPrefix = "/uploads/"

const maxNameAttempts = 3

var _ Store = (*FileStore)(nil)

// FileStore writes uploads into a local directory. Files are named
// <unix millis>-<random><ext> and referenced as PublicPrefix + name.
type FileStore struct {
	dir          string
	writeTimeout time.Duration
}

// NewFileStore creates dir if needed.
func NewFileStore(dir string, writeTimeout time.Duration) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &FileStore{dir: dir, writeTimeout: writeTimeout}, nil
}

// Dir returns the directory files are written to.
func (s *FileStore) Dir() string {
	return s.dir
}

func (s *FileStore) Strategy() config.ImageStrategy {
	return config.ImageStrategyFilesystem
}

func (s *FileStore) Save(ctx context.Context, u Upload) (string, error) {
	if s.writeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.writeTimeout)
		defer cancel()
	}

	type result struct {
		name string
		err  error
	}
	done := make(chan result, 1)
	go func() {
		name, err := s.write(u)
		done <- result{name: name, err: err}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			return "", res.err
		}
		return PublicPrefix + res.name, nil
	case <-ctx.Done():
		// The write cannot be interrupted; drop its file once it lands.
		go func() {
			if res := <-done; res.err == nil {
				_ = os.Remove(filepath.Join(s.dir, res.name))
			}
		}()
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("%w: %s", ErrIOTimeout, u.Filename)
		}
		return "", ctx.Err()
	}
}

func (s *FileStore) write(u Upload) (string, error) {
	ext := extension(u)
	for range maxNameAttempts {
		name := fmt.Sprintf("%d-%d%s", time.Now().UnixMilli(), rand.Int64N(1_000_000_000), ext)
		path := filepath.Join(s.dir, name)

		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("create image file: %w", err)
		}

		if _, err := f.Write(u.Data); err != nil {
			_ = f.Close()
			_ = os.Remove(path)
			return "", fmt.Errorf("write image file: %w", err)
		}
		if err := f.Close(); err != nil {
			_ = os.Remove(path)
			return "", fmt.Errorf("close image file: %w", err)
		}
		return name, nil
	}
	return "", errors.New("create image file: name collision")
}

// Remove deletes the file behind a PublicPrefix reference. Other references
// (inline data, absolute URLs) are not owned by the store and are ignored.
func (s *FileStore) Remove(_ context.Context, ref string) error {
	path, ok := s.Path(ref)
	if !ok {
		return nil
	}

	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove image file: %w", err)
	}
	return nil
}

// Path maps a reference to its file path. It reports false for references
// that are not files of this store.
func (s *FileStore) Path(ref string) (string, bool) {
	name, ok := strings.CutPrefix(ref, PublicPrefix)
	if !ok || name == "" || name != filepath.Base(name) || name == "." || name == ".." {
		return "", false
	}
	return filepath.Join(s.dir, name), true
}

func extension(u Upload) string {
	if ext := strings.ToLower(filepath.Ext(u.Filename)); ext != "" && ext != "." {
		return ext
	}
	if mt := mimetype.Lookup(strings.ToLower(u.ContentType)); mt != nil {
		return mt.Extension()
	}
	return ""
}
