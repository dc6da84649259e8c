package repository

import (
	"context"
	"errors"
	"fmt"

	"dreamdesign/internal/domain/models"
	"dreamdesign/internal/storage"
)

type KVAccountRepo struct {
	kv     storage.KeyValue
	prefix string
}

func NewKVAccountRepo(kv storage.KeyValue, prefix string) *KVAccountRepo {
	return &KVAccountRepo{kv: kv, prefix: prefix}
}

func (r *KVAccountRepo) Accounts(ctx context.Context) (map[string]models.Account, error) {
	const op = "repository.KVAccountRepo.Accounts"

	accounts := make(map[string]models.Account)
	if err := readJSON(ctx, r.kv, r.prefix+AccountsKey, &accounts); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	// a stored JSON null decodes to a nil map
	if accounts == nil {
		accounts = make(map[string]models.Account)
	}

	return accounts, nil
}

func (r *KVAccountRepo) SaveAccounts(ctx context.Context, accounts map[string]models.Account) error {
	const op = "repository.KVAccountRepo.SaveAccounts"

	if err := writeJSON(ctx, r.kv, r.prefix+AccountsKey, accounts); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// CurrentAccountID returns an empty id when no session is stored.
func (r *KVAccountRepo) CurrentAccountID(ctx context.Context) (string, error) {
	const op = "repository.KVAccountRepo.CurrentAccountID"

	data, err := r.kv.Get(ctx, r.prefix+CurrentAccountKey)
	if errors.Is(err, storage.ErrKeyNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return string(data), nil
}

func (r *KVAccountRepo) SetCurrentAccountID(ctx context.Context, id string) error {
	const op = "repository.KVAccountRepo.SetCurrentAccountID"

	if err := r.kv.Set(ctx, r.prefix+CurrentAccountKey, []byte(id)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *KVAccountRepo) ClearCurrentAccountID(ctx context.Context) error {
	const op = "repository.KVAccountRepo.ClearCurrentAccountID"

	if err := r.kv.Delete(ctx, r.prefix+CurrentAccountKey); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
