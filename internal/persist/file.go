package persist

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"
	"github.com/rs/zerolog"
	"github.com/tailscale/hujson"

	"github.com/dshills/keymarks/internal/mark"
)

// Version is the snapshot file format version written by Save.
const Version = 1

const (
	dirPerms  = 0o755
	filePerms = 0o644
)

// fileFormat is the on-disk envelope around a snapshot.
type fileFormat struct {
	Version int `json:"version"`
	mark.Snapshot
}

// Loader reads a snapshot.
type Loader interface {
	Load() (mark.Snapshot, bool, error)
}

// Saver writes a snapshot.
type Saver interface {
	Save(sn mark.Snapshot) error
}

// FileStore persists snapshots to a single file.
type FileStore struct {
	path string
	log  zerolog.Logger
}

// Option configures a FileStore.
type Option func(*FileStore)

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(fs *FileStore) {
		fs.log = l.With().Str("component", "persist").Logger()
	}
}

// NewFileStore creates a store for the snapshot file at path.
func NewFileStore(path string, opts ...Option) *FileStore {
	fs := &FileStore{
		path: path,
		log:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(fs)
	}
	return fs
}

// Path returns the snapshot file path.
func (fs *FileStore) Path() string {
	return fs.path
}

// Load reads the snapshot. A missing file yields an empty snapshot and false.
func (fs *FileStore) Load() (mark.Snapshot, bool, error) {
	data, err := os.ReadFile(fs.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return mark.Snapshot{}, false, nil
		}
		return mark.Snapshot{}, false, &FileError{Op: "load", Path: fs.path, Err: err}
	}

	sn, err := Decode(data)
	if err != nil {
		return mark.Snapshot{}, false, &FileError{Op: "load", Path: fs.path, Err: err}
	}

	fs.log.Debug().
		Str("path", fs.path).
		Int("global", len(sn.Global)).
		Int("local_buffers", len(sn.Local)).
		Msg("snapshot loaded")
	return sn, true, nil
}

// Save writes sn atomically, creating parent directories as needed.
func (fs *FileStore) Save(sn mark.Snapshot) error {
	data, err := Encode(sn)
	if err != nil {
		return &FileError{Op: "save", Path: fs.path, Err: err}
	}

	if err := os.MkdirAll(filepath.Dir(fs.path), dirPerms); err != nil {
		return &FileError{Op: "save", Path: fs.path, Err: err}
	}
	if err := atomic.WriteFile(fs.path, bytes.NewReader(data)); err != nil {
		return &FileError{Op: "save", Path: fs.path, Err: err}
	}
	// atomic.WriteFile doesn't set permissions for new files
	if err := os.Chmod(fs.path, filePerms); err != nil {
		return &FileError{Op: "save", Path: fs.path, Err: err}
	}

	fs.log.Debug().Str("path", fs.path).Int("bytes", len(data)).Msg("snapshot saved")
	return nil
}

// Encode renders sn in the file format.
func Encode(sn mark.Snapshot) ([]byte, error) {
	if sn.Global == nil {
		sn.Global = []mark.GlobalMark{}
	}
	if sn.Local == nil {
		sn.Local = []mark.LocalMarks{}
	}
	data, err := json.MarshalIndent(fileFormat{Version: Version, Snapshot: sn}, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// Decode parses the file format. Comments and trailing commas are accepted.
func Decode(data []byte) (mark.Snapshot, error) {
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return mark.Snapshot{}, fmt.Errorf("%w: invalid JSONC: %w", ErrCorruptSnapshot, err)
	}

	dec := json.NewDecoder(bytes.NewReader(standardized))
	dec.DisallowUnknownFields()

	var f fileFormat
	if err := dec.Decode(&f); err != nil {
		return mark.Snapshot{}, fmt.Errorf("%w: invalid JSON: %w", ErrCorruptSnapshot, err)
	}
	if f.Version != Version {
		return mark.Snapshot{}, fmt.Errorf("%w: unsupported version %d", ErrCorruptSnapshot, f.Version)
	}
	if err := f.Snapshot.Validate(); err != nil {
		return mark.Snapshot{}, fmt.Errorf("%w: %w", ErrCorruptSnapshot, err)
	}
	return f.Snapshot, nil
}
