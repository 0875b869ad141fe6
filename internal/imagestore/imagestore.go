// Package imagestore keeps image blobs in one flat directory.
//
// Blob names are generated here and never taken from the user. Names
// reaching Load, Delete or Clone are still checked for path separators
// before the filesystem is touched.
package imagestore

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"golang.org/x/crypto/blake2b"

	domainerrors "github.com/erazemk/itemize/internal/errors"
	"github.com/erazemk/itemize/internal/imaging"
	"github.com/erazemk/itemize/internal/model"
)

// Prefix starts every generated blob name.
const Prefix = "IMG-"

const defaultExt = ".jpg"

// tmpPattern names in-flight writes; they never match Prefix.
const tmpPattern = ".tmp-*"

// Store is an image folder.
type Store struct {
	dir    string
	logger *slog.Logger
}

// New opens the image folder at dir, creating it if needed.
// A nil logger uses slog.Default().
func New(dir string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating image directory: %w", err)
	}
	return &Store{dir: dir, logger: logger}, nil
}

// Dir returns the folder the store writes to.
func (s *Store) Dir() string {
	return s.dir
}

// validName reports whether name can only refer to a file directly inside
// the folder.
func validName(name string) bool {
	return name != "" && name != "." && name != ".." && !strings.ContainsAny(name, `/\`)
}

func newName(ext string) (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generating image name: %w", err)
	}
	return Prefix + id + ext, nil
}

// write stores r under a fresh name with the given extension. The blob only
// appears under its final name once fully written.
func (s *Store) write(r io.Reader, ext string) (string, error) {
	name, err := newName(ext)
	if err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp(s.dir, tmpPattern)
	if err != nil {
		return "", fmt.Errorf("creating temp image: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return "", fmt.Errorf("writing image: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("closing image: %w", err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(s.dir, name)); err != nil {
		return "", fmt.Errorf("renaming image: %w", err)
	}
	return name, nil
}

// Save writes data as a new blob and returns its name.
func (s *Store) Save(data []byte) (string, error) {
	return s.write(bytes.NewReader(data), defaultExt)
}

// SaveImage normalises a JPEG or PNG photo, stores it and returns an
// unattached asset with checksum and placeholder filled in.
func (s *Store) SaveImage(r io.Reader) (*model.ImageAsset, error) {
	res, err := imaging.Process(r)
	if err != nil {
		return nil, err
	}

	name, err := s.Save(res.Data)
	if err != nil {
		return nil, err
	}

	sum := blake2b.Sum256(res.Data)
	return &model.ImageAsset{
		Filename: name,
		Checksum: hex.EncodeToString(sum[:]),
		BlurHash: res.BlurHash,
	}, nil
}

// Load returns the blob's content, or nil if no such blob exists.
func (s *Store) Load(name string) ([]byte, error) {
	if !validName(name) {
		return nil, domainerrors.NotFoundf("invalid image name %q", name)
	}

	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading image: %w", err)
	}
	return data, nil
}

// Delete removes a blob. Invalid names, missing files and anything that is
// not a regular file are ignored. Failures are logged, not returned.
func (s *Store) Delete(name string) {
	if !validName(name) {
		return
	}

	path := filepath.Join(s.dir, name)
	info, err := os.Lstat(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn("checking image before delete", "name", name, "error", err)
		}
		return
	}
	if !info.Mode().IsRegular() {
		return
	}

	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		s.logger.Warn("deleting image", "name", name, "error", err)
	}
}

// Clone copies a blob to a new name and returns it. The copy keeps the
// source extension.
func (s *Store) Clone(name string) (string, error) {
	if !validName(name) {
		return "", domainerrors.NotFoundf("invalid image name %q", name)
	}

	src, err := s.openRegular(name)
	if err != nil {
		return "", err
	}
	defer src.Close()

	ext := filepath.Ext(name)
	if ext == "" {
		ext = defaultExt
	}
	return s.write(src, ext)
}

func (s *Store) openRegular(name string) (*os.File, error) {
	path := filepath.Join(s.dir, name)
	info, err := os.Lstat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, domainerrors.NotFoundf("image %q not found", name)
	}
	if err != nil {
		return nil, fmt.Errorf("checking image: %w", err)
	}
	if !info.Mode().IsRegular() {
		return nil, domainerrors.NotFoundf("image %q not found", name)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening image: %w", err)
	}
	return f, nil
}

// Deduplicate scans assets in order and clones every filename already seen
// earlier in the batch, rewriting that asset's filename. Afterwards every
// asset in the batch has its own blob.
func (s *Store) Deduplicate(assets []*model.ImageAsset) error {
	seen := make(map[string]bool, len(assets))
	for _, a := range assets {
		if !seen[a.Filename] {
			seen[a.Filename] = true
			continue
		}

		clone, err := s.Clone(a.Filename)
		if err != nil {
			return fmt.Errorf("cloning duplicate image %q: %w", a.Filename, err)
		}
		s.logger.Debug("cloned shared image", "from", a.Filename, "to", clone)
		a.Filename = clone
		seen[clone] = true
	}
	return nil
}

// Checksum returns the hex BLAKE2b-256 digest of a blob.
func (s *Store) Checksum(name string) (string, error) {
	if !validName(name) {
		return "", domainerrors.NotFoundf("invalid image name %q", name)
	}

	f, err := s.openRegular(name)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h, err := blake2b.New256(nil)
	if err != nil {
		return "", fmt.Errorf("creating hash: %w", err)
	}
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hashing image: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Orphans returns the generated blobs in the folder that no asset references,
// in name order.
func (s *Store) Orphans(ctx context.Context, referenced map[string]bool) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("listing image directory: %w", err)
	}

	var orphans []string
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !e.Type().IsRegular() || !strings.HasPrefix(e.Name(), Prefix) {
			continue
		}
		if !referenced[e.Name()] {
			orphans = append(orphans, e.Name())
		}
	}
	return orphans, nil
}
