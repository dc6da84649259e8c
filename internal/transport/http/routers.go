package http

import (
	"context"
	"io"
	"log/slog"

	"dreamdesign/internal/domain/models"
	studio "dreamdesign/internal/services/studio_service"

	_ "dreamdesign/docs"
)

type AccountService interface {
	Signup(ctx context.Context, firstName, lastName, email, password string) (models.Account, error)
	Login(ctx context.Context, email, password string) (models.Account, error)
	LoginWithGoogle(ctx context.Context) (models.Account, error)
	Logout(ctx context.Context)
	CurrentAccount() (models.Account, bool)
	PurchaseCredits(ctx context.Context, accountID string, pack int) (models.Account, error)
	CreditPacks() []int
}

type StudioService interface {
	Generate(ctx context.Context, account *models.Account, in studio.GenerateInput) (models.GenerationBatch, error)
	InProgress() bool
	Results() []models.GenerationResult
	ActiveResult() (models.GenerationResult, int, bool)
	SetActiveResult(index int) error
	ClearResults()
}

type CatalogService interface {
	GetAll() []models.ImageRecord
	Get(id string) (models.ImageRecord, bool)
	ReplaceViaUpload(ctx context.Context, id string, file io.Reader) (models.ImageRecord, error)
	ReplaceViaURL(ctx context.Context, id, url string) (models.ImageRecord, error)
	UpdateBatch(ctx context.Context, patches []models.ImagePatch) int
	Reset(ctx context.Context, id string)
	ResetAll(ctx context.Context)
	HeroDemos() []models.DemoPair
	AuthDemos() []models.DemoPair
	FeatureImages() []models.ImageRecord
	GalleryItems() []models.ImageRecord
	Styles() []models.StyleDefinition
	Export() ([]byte, error)
}

type Routers struct {
	log            *slog.Logger
	AccountService AccountService
	StudioService  StudioService
	CatalogService CatalogService
}

func NewRouter(log *slog.Logger, accountService AccountService, studioService StudioService, catalogService CatalogService) *Routers {
	return &Routers{
		log:            log,
		AccountService: accountService,
		StudioService:  studioService,
		CatalogService: catalogService,
	}
}
