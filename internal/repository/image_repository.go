package repository

import (
	"context"
	"fmt"

	"dreamdesign/internal/domain/models"
	"dreamdesign/internal/storage"
)

// KVImageRepo persists the whole image catalog as one JSON object keyed by record id.
type KVImageRepo struct {
	kv     storage.KeyValue
	prefix string
}

func NewKVImageRepo(kv storage.KeyValue, prefix string) *KVImageRepo {
	return &KVImageRepo{kv: kv, prefix: prefix}
}

// Images returns the snapshot under the primary key, storage.ErrKeyNotFound if none was saved.
func (r *KVImageRepo) Images(ctx context.Context) (map[string]models.ImageRecord, error) {
	const op = "repository.KVImageRepo.Images"

	images := make(map[string]models.ImageRecord)
	if err := readJSON(ctx, r.kv, r.prefix+ImagesKey, &images); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if images == nil {
		images = make(map[string]models.ImageRecord)
	}

	return images, nil
}

// LegacyImages returns the snapshot written by older releases under the v1 key.
func (r *KVImageRepo) LegacyImages(ctx context.Context) (map[string]models.ImageRecord, error) {
	const op = "repository.KVImageRepo.LegacyImages"

	images := make(map[string]models.ImageRecord)
	if err := readJSON(ctx, r.kv, r.prefix+LegacyImagesKey, &images); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if images == nil {
		images = make(map[string]models.ImageRecord)
	}

	return images, nil
}

// SaveImages always writes under the primary key.
func (r *KVImageRepo) SaveImages(ctx context.Context, images map[string]models.ImageRecord) error {
	const op = "repository.KVImageRepo.SaveImages"

	if err := writeJSON(ctx, r.kv, r.prefix+ImagesKey, images); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
