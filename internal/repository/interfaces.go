package repository

import (
	"context"

	"dreamdesign/internal/domain/models"
)

type ImageRepository interface {
	Images(ctx context.Context) (map[string]models.ImageRecord, error)
	LegacyImages(ctx context.Context) (map[string]models.ImageRecord, error)
	SaveImages(ctx context.Context, images map[string]models.ImageRecord) error
}

type AccountRepository interface {
	Accounts(ctx context.Context) (map[string]models.Account, error)
	SaveAccounts(ctx context.Context, accounts map[string]models.Account) error
	CurrentAccountID(ctx context.Context) (string, error)
	SetCurrentAccountID(ctx context.Context, id string) error
	ClearCurrentAccountID(ctx context.Context) error
}
