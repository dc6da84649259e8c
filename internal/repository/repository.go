package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"dreamdesign/internal/storage"
)

// Storage keys. A configured prefix is prepended to each of them.
const (
	ImagesKey         = "dreamdesign_images_db"
	LegacyImagesKey   = "dreamdesign_images_db_v1"
	AccountsKey       = "dreamdesign_users"
	CurrentAccountKey = "dreamdesign_current_user_id"
)

var ErrCorruptSnapshot = errors.New("stored snapshot is corrupt")

type Repository struct {
	Images   *KVImageRepo
	Accounts *KVAccountRepo
}

func NewRepository(kv storage.KeyValue, keyPrefix string) *Repository {
	return &Repository{
		Images:   NewKVImageRepo(kv, keyPrefix),
		Accounts: NewKVAccountRepo(kv, keyPrefix),
	}
}

func readJSON(ctx context.Context, kv storage.KeyValue, key string, dst any) error {
	data, err := kv.Get(ctx, key)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("%w: key %s: %s", ErrCorruptSnapshot, key, err.Error())
	}

	return nil
}

func writeJSON(ctx context.Context, kv storage.KeyValue, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	return kv.Set(ctx, key, data)
}
