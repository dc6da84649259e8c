package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"dreamdesign/internal/storage"
)

const fileExt = ".json"

// LocalFileStorage keeps every key in its own file under baseDir.
type LocalFileStorage struct {
	mu      sync.Mutex
	baseDir string // Базовый каталог для хранения (например: "./data")
	maxSize int64  // Общий лимит на размер каталога, 0 - без ограничений
}

func NewLocalFileStorage(baseDir string, maxSize int64) (*LocalFileStorage, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, err
	}

	return &LocalFileStorage{
		baseDir: baseDir,
		maxSize: maxSize,
	}, nil
}

func (s *LocalFileStorage) Get(ctx context.Context, key string) ([]byte, error) {
	const op = "storage.filestorage.Get"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	data, err := os.ReadFile(s.GetFullPath(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrKeyNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return data, nil
}

func (s *LocalFileStorage) Set(ctx context.Context, key string, value []byte) error {
	const op = "storage.filestorage.Set"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	fullPath := s.GetFullPath(key)

	if s.maxSize > 0 {
		used, err := s.usedExcept(fullPath)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		if total := used + int64(len(value)); total > s.maxSize {
			return fmt.Errorf("%s: %w: %d of %d bytes", op, storage.ErrQuotaExceeded, total, s.maxSize)
		}
	}

	tmp, err := os.CreateTemp(s.baseDir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("%s: failed to create temp file: %w", op, err)
	}
	defer os.Remove(tmp.Name())

	select {
	case <-ctx.Done():
		tmp.Close()
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		return fmt.Errorf("%s: failed to write file: %w", op, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%s: failed to close file: %w", op, err)
	}

	if err := os.Rename(tmp.Name(), fullPath); err != nil {
		return fmt.Errorf("%s: failed to replace file: %w", op, err)
	}

	return nil
}

// Delete удаляет ключ из хранилища, отсутствующий ключ не считается ошибкой
func (s *LocalFileStorage) Delete(ctx context.Context, key string) error {
	const op = "storage.filestorage.Delete"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.GetFullPath(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// GetFullPath возвращает путь к файлу ключа на диске
func (s *LocalFileStorage) GetFullPath(key string) string {
	return filepath.Join(s.baseDir, url.PathEscape(key)+fileExt)
}

func (s *LocalFileStorage) GetBaseDir() string {
	return s.baseDir
}

func (s *LocalFileStorage) usedExcept(skip string) (int64, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return 0, err
	}

	var total int64
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), fileExt) {
			continue
		}
		if filepath.Join(s.baseDir, e.Name()) == skip {
			continue
		}

		info, err := e.Info()
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return 0, err
		}
		total += info.Size()
	}

	return total, nil
}
