package sink

import (
	"context"
	"os"
	"path/filepath"

	errs "github.com/matzehuels/ttlorder/pkg/errors"
)

// FileSink writes documents as files under a directory.
type FileSink struct {
	dir   string
	check bool
}

// FileOption configures a FileSink.
type FileOption func(*FileSink)

// CheckOnly makes Put compare instead of write.
func CheckOnly() FileOption {
	return func(s *FileSink) { s.check = true }
}

// NewFileSink creates a sink writing into dir. The directory is created if
// it doesn't exist, unless the sink only checks.
func NewFileSink(dir string, opts ...FileOption) (*FileSink, error) {
	s := &FileSink{dir: dir}
	for _, opt := range opts {
		opt(s)
	}
	if !s.check {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errs.Wrap(errs.ErrCodeIO, err, "create output directory %s", dir)
		}
	}
	return s, nil
}

// Put writes data to dir/name through a temporary file and rename, so a
// failed write never leaves a truncated document behind.
func (s *FileSink) Put(ctx context.Context, name string, data []byte) (Status, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	path := s.Location(name)

	existing, err := os.ReadFile(path)
	switch {
	case err == nil && Hash(existing) == Hash(data):
		return StatusUnchanged, nil
	case err != nil && !os.IsNotExist(err):
		return "", errs.Wrap(errs.ErrCodeIO, err, "read %s", path)
	}
	if s.check {
		return StatusStale, nil
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return "", errs.Wrap(errs.ErrCodeIO, err, "write %s", path)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", errs.Wrap(errs.ErrCodeIO, err, "write %s", path)
	}
	if err := tmp.Close(); err != nil {
		return "", errs.Wrap(errs.ErrCodeIO, err, "write %s", path)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return "", errs.Wrap(errs.ErrCodeIO, err, "write %s", path)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", errs.Wrap(errs.ErrCodeIO, err, "write %s", path)
	}
	return StatusWritten, nil
}

// Location returns the file path for name.
func (s *FileSink) Location(name string) string {
	return filepath.Join(s.dir, name)
}

// Close does nothing for file sinks.
func (s *FileSink) Close() error {
	return nil
}

// Ensure FileSink implements Sink.
var _ Sink = (*FileSink)(nil)
