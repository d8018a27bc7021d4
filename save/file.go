package save

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const fileExt = ".json"

// maxSlotAttempts bounds the suffixes tried when saves share a second.
const maxSlotAttempts = 100

// FileStore keeps one JSON file per slot in a directory.
type FileStore struct {
	dir string
}

// NewFileStore creates a store rooted at dir. The directory is created on first save.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// Dir returns the directory holding the save files.
func (s *FileStore) Dir() string {
	return s.dir
}

// Save implements Store.
func (s *FileStore) Save(_ context.Context, g SavedGame) (string, error) {
	data, err := encode(g)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create save dir: %w", err)
	}

	for n := 1; n <= maxSlotAttempts; n++ {
		slot := slotName(g.SavedAt, n)
		f, err := os.OpenFile(s.path(slot), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("create save file: %w", err)
		}
		if _, err := f.Write(data); err != nil {
			f.Close()
			os.Remove(f.Name())
			return "", fmt.Errorf("write save file: %w", err)
		}
		if err := f.Close(); err != nil {
			return "", fmt.Errorf("close save file: %w", err)
		}
		return slot, nil
	}
	return "", fmt.Errorf("no free slot for %s", slotName(g.SavedAt, 1))
}

// Load implements Store. slot may also be a path to a save file.
func (s *FileStore) Load(_ context.Context, slot string) (*SavedGame, error) {
	data, err := os.ReadFile(s.resolve(slot))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, slot)
	}
	if err != nil {
		return nil, fmt.Errorf("read save file: %w", err)
	}
	return decode(data)
}

// List implements Store. Unreadable files are skipped.
func (s *FileStore) List(_ context.Context) ([]SlotInfo, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read save dir: %w", err)
	}

	var infos []SlotInfo
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), fileExt) {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.dir, e.Name()))
		if err != nil {
			continue
		}
		g, err := decode(data)
		if err != nil {
			continue
		}
		infos = append(infos, infoOf(strings.TrimSuffix(e.Name(), fileExt), g))
	}
	sortNewestFirst(infos)
	return infos, nil
}

func (s *FileStore) path(slot string) string {
	return filepath.Join(s.dir, slot+fileExt)
}

// resolve maps a slot name or a file path to a file path.
func (s *FileStore) resolve(slot string) string {
	if strings.ContainsRune(slot, filepath.Separator) || strings.HasSuffix(slot, fileExt) {
		return slot
	}
	return s.path(slot)
}
