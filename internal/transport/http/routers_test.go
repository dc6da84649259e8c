package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	httpapp "dreamdesign/internal/app/http"
	"dreamdesign/internal/domain/models"
	"dreamdesign/internal/domain/seed"
	"dreamdesign/internal/lib/logger/handlers/slogdiscard"
	"dreamdesign/internal/providers/mock"
	"dreamdesign/internal/repository"
	accounts "dreamdesign/internal/services/account_service"
	catalog "dreamdesign/internal/services/catalog_service"
	studio "dreamdesign/internal/services/studio_service"
	"dreamdesign/internal/storage/memory"
	httprouters "dreamdesign/internal/transport/http"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type failingGenerator struct{}

func (failingGenerator) Generate(ctx context.Context, req models.GenerationRequest) (models.GenerationOutput, error) {
	return models.GenerationOutput{}, errors.New("model overloaded")
}

type envelope struct {
	Status  string          `json:"status"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Details string          `json:"details"`
}

type RoutersTestSuite struct {
	suite.Suite
	handler  http.Handler
	accounts *accounts.AccountService
	catalog  *catalog.CatalogService
	studio   *studio.StudioService
}

func (s *RoutersTestSuite) SetupTest() {
	s.setup(mock.New(0))
}

func (s *RoutersTestSuite) setup(generator studio.Generator) {
	ctx := context.Background()
	log := slogdiscard.NewDiscardLogger()

	repo := repository.NewRepository(memory.New(memory.DefaultQuota), "")

	s.catalog = catalog.New(ctx, log, repo.Images, seed.Default(), catalog.Options{})
	s.accounts = accounts.New(ctx, log, repo.Accounts, accounts.Options{
		SignupCredits: 1,
		GoogleCredits: 3,
		CreditPacks:   []int{5, 15, 40},
	})
	s.studio = studio.New(log, s.accounts, s.catalog, generator, studio.Options{})

	routers := httprouters.NewRouter(log, s.accounts, s.studio, s.catalog)
	s.handler = httpapp.New(log, "", "0", 0, routers).Handler()
}

func (s *RoutersTestSuite) do(method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &env))
	}

	return rec, env
}

func (s *RoutersTestSuite) TestHealth() {
	rec, _ := s.do(http.MethodGet, "/health", nil)
	s.Equal(http.StatusOK, rec.Code)
}

func (s *RoutersTestSuite) TestSignupLoginLogout() {
	rec, env := s.do(http.MethodGet, "/api/v1/me", nil)
	s.Equal(http.StatusUnauthorized, rec.Code)
	s.Equal("authentication_required", env.Error)

	signup := map[string]string{"firstName": "Ada", "lastName": "Lovelace", "email": "Ada@Example.com", "password": "x"}

	rec, env = s.do(http.MethodPost, "/api/v1/signup", signup)
	s.Require().Equal(http.StatusCreated, rec.Code)

	var account models.Account
	s.Require().NoError(json.Unmarshal(env.Data, &account))
	s.Equal("ada@example.com", account.ID)
	s.Equal(1, account.Credits)

	rec, env = s.do(http.MethodPost, "/api/v1/signup", signup)
	s.Equal(http.StatusConflict, rec.Code)
	s.Equal("user_already_exists", env.Error)

	rec, _ = s.do(http.MethodPost, "/api/v1/logout", nil)
	s.Equal(http.StatusOK, rec.Code)

	rec, env = s.do(http.MethodPost, "/api/v1/login", map[string]string{"email": "nobody@example.com", "password": "x"})
	s.Equal(http.StatusUnauthorized, rec.Code)
	s.Equal("authentication_failed", env.Error)

	rec, _ = s.do(http.MethodPost, "/api/v1/login", map[string]string{"email": "ADA@example.com", "password": "anything"})
	s.Equal(http.StatusOK, rec.Code)

	rec, env = s.do(http.MethodGet, "/api/v1/me", nil)
	s.Equal(http.StatusOK, rec.Code)
	s.Require().NoError(json.Unmarshal(env.Data, &account))
	s.Equal("ada@example.com", account.ID)
}

func (s *RoutersTestSuite) TestSignupValidation() {
	rec, env := s.do(http.MethodPost, "/api/v1/signup", map[string]string{"email": "not-an-email"})
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("invalid_request", env.Error)
	s.NotEmpty(env.Details)
}

func (s *RoutersTestSuite) TestPurchaseCredits() {
	rec, _ := s.do(http.MethodPost, "/api/v1/credits/purchase", map[string]int{"pack": 5})
	s.Equal(http.StatusUnauthorized, rec.Code)

	rec, _ = s.do(http.MethodPost, "/api/v1/login/google", nil)
	s.Require().Equal(http.StatusOK, rec.Code)

	rec, env := s.do(http.MethodPost, "/api/v1/credits/purchase", map[string]int{"pack": 7})
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Contains(env.Details, "unknown credit pack")

	rec, env = s.do(http.MethodPost, "/api/v1/credits/purchase", map[string]int{"pack": 15})
	s.Require().Equal(http.StatusOK, rec.Code)

	var account models.Account
	s.Require().NoError(json.Unmarshal(env.Data, &account))
	s.Equal(18, account.Credits)

	rec, env = s.do(http.MethodGet, "/api/v1/credits/packs", nil)
	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"packs":[5,15,40]}`, string(env.Data))
}

func (s *RoutersTestSuite) TestGenerateFlow() {
	req := map[string]any{
		"image":    "data:image/jpeg;base64,AA==",
		"roomType": "Kitchen",
		"styles":   []string{"Modern", "Zen"},
	}

	rec, _ := s.do(http.MethodPost, "/api/v1/generate", req)
	s.Equal(http.StatusUnauthorized, rec.Code)

	s.do(http.MethodPost, "/api/v1/login/google", nil)

	rec, env := s.do(http.MethodPost, "/api/v1/generate", req)
	s.Require().Equal(http.StatusOK, rec.Code)

	var batch models.GenerationBatch
	s.Require().NoError(json.Unmarshal(env.Data, &batch))
	s.Equal(2, batch.Cost)
	s.Equal(1, batch.Account.Credits)
	s.Require().Len(batch.Results, 2)
	s.Equal("Modern", batch.Results[0].Style)
	s.Equal("Zen", batch.Results[1].Style)

	rec, env = s.do(http.MethodPut, "/api/v1/results/active", map[string]int{"index": 1})
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Contains(string(env.Data), `"activeIndex":1`)

	rec, _ = s.do(http.MethodPut, "/api/v1/results/active", map[string]int{"index": 5})
	s.Equal(http.StatusBadRequest, rec.Code)

	rec, env = s.do(http.MethodPost, "/api/v1/generate", req)
	s.Equal(http.StatusPaymentRequired, rec.Code)
	s.Equal("insufficient_credits", env.Error)

	rec, _ = s.do(http.MethodDelete, "/api/v1/results", nil)
	s.Equal(http.StatusOK, rec.Code)
	s.Empty(s.studio.Results())

	rec, _ = s.do(http.MethodPost, "/api/v1/generate", map[string]any{"image": "x", "roomType": "Spaceship", "styles": []string{"Zen"}})
	s.Equal(http.StatusBadRequest, rec.Code)

	rec, env = s.do(http.MethodPost, "/api/v1/generate", map[string]any{"image": "data:image/jpeg;base64,AA==", "roomType": "Kitchen", "styles": []string{"Vaporwave"}})
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Contains(env.Details, "unknown style")

	current, ok := s.accounts.CurrentAccount()
	s.Require().True(ok)
	s.Equal(1, current.Credits)
}

func (s *RoutersTestSuite) TestGenerateFailureRefunds() {
	s.setup(failingGenerator{})
	s.do(http.MethodPost, "/api/v1/login/google", nil)

	rec, env := s.do(http.MethodPost, "/api/v1/generate", map[string]any{
		"image":    "data:image/jpeg;base64,AA==",
		"roomType": "Bedroom",
		"styles":   []string{"Modern"},
	})
	s.Equal(http.StatusBadGateway, rec.Code)
	s.Equal("generation_failed", env.Error)

	current, ok := s.accounts.CurrentAccount()
	s.Require().True(ok)
	s.Equal(3, current.Credits)
}

func (s *RoutersTestSuite) TestCatalogViews() {
	rec, env := s.do(http.MethodGet, "/api/v1/catalog/hero", nil)
	s.Require().Equal(http.StatusOK, rec.Code)

	var pairs []models.DemoPair
	s.Require().NoError(json.Unmarshal(env.Data, &pairs))
	s.Len(pairs, 3)
	s.Equal("Modern Living", pairs[0].Label)

	rec, env = s.do(http.MethodGet, "/api/v1/catalog/styles", nil)
	s.Require().Equal(http.StatusOK, rec.Code)

	var styles []models.StyleDefinition
	s.Require().NoError(json.Unmarshal(env.Data, &styles))
	s.Len(styles, len(models.StyleOptions))

	rec, env = s.do(http.MethodGet, "/api/v1/catalog/rooms", nil)
	s.Require().Equal(http.StatusOK, rec.Code)

	var rooms []string
	s.Require().NoError(json.Unmarshal(env.Data, &rooms))
	s.Len(rooms, 17)

	for _, path := range []string{"/api/v1/catalog/auth", "/api/v1/catalog/features", "/api/v1/catalog/gallery"} {
		rec, _ = s.do(http.MethodGet, path, nil)
		s.Equal(http.StatusOK, rec.Code, path)
	}
}

func (s *RoutersTestSuite) TestAdminImages() {
	id := "hero_0_before"

	rec, _ := s.do(http.MethodGet, "/api/v1/admin/images/missing", nil)
	s.Equal(http.StatusNotFound, rec.Code)

	rec, _ = s.do(http.MethodPut, "/api/v1/admin/images/"+id+"/url", map[string]string{"url": "https://cdn.example.com/a.jpg"})
	s.Require().Equal(http.StatusOK, rec.Code)

	got, ok := s.catalog.Get(id)
	s.Require().True(ok)
	s.Equal("https://cdn.example.com/a.jpg", got.Src)

	rec, _ = s.do(http.MethodPut, "/api/v1/admin/images/missing/url", map[string]string{"url": "https://cdn.example.com/a.jpg"})
	s.Equal(http.StatusNotFound, rec.Code)

	rec, env := s.do(http.MethodPut, "/api/v1/admin/images", map[string]any{
		"images": []map[string]string{{"id": id, "label": "Renamed"}, {"id": "nope", "label": "x"}},
	})
	s.Require().Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"updated":1}`, string(env.Data))

	rec, _ = s.do(http.MethodPut, "/api/v1/admin/images", map[string]any{
		"images": []map[string]string{{"id": id, "label": ""}},
	})
	s.Require().Equal(http.StatusOK, rec.Code)

	got, _ = s.catalog.Get(id)
	s.Empty(got.Label, "an empty label clears it")
	s.Equal("https://cdn.example.com/a.jpg", got.Src, "an omitted src is kept")

	rec, _ = s.do(http.MethodPost, "/api/v1/admin/images/"+id+"/reset", nil)
	s.Require().Equal(http.StatusOK, rec.Code)

	got, _ = s.catalog.Get(id)
	s.Equal("Modern Living (Before)", got.Label)

	rec, _ = s.do(http.MethodPost, "/api/v1/admin/images/reset", nil)
	s.Equal(http.StatusOK, rec.Code)

	rec, _ = s.do(http.MethodGet, "/api/v1/admin/images/export", nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Header().Get("Content-Disposition"), "catalog-seed-")
	s.Contains(rec.Body.String(), "images:")
}

func (s *RoutersTestSuite) TestUploadImage() {
	img := image.NewRGBA(image.Rect(0, 0, 1600, 800))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})

	var pngBuf bytes.Buffer
	s.Require().NoError(png.Encode(&pngBuf, img))

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "room.png")
	s.Require().NoError(err)
	_, err = fw.Write(pngBuf.Bytes())
	s.Require().NoError(err)
	s.Require().NoError(mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/images/gallery_0/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	got, ok := s.catalog.Get("gallery_0")
	s.Require().True(ok)
	s.True(strings.HasPrefix(got.Src, "data:image/jpeg;base64,"))

	req = httptest.NewRequest(http.MethodPost, "/api/v1/admin/images/gallery_0/upload", strings.NewReader(""))
	rec = httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func TestRoutersTestSuite(t *testing.T) {
	suite.Run(t, new(RoutersTestSuite))
}

func TestMetricsEndpoint(t *testing.T) {
	log := slogdiscard.NewDiscardLogger()
	repo := repository.NewRepository(memory.New(memory.DefaultQuota), "")

	catalogService := catalog.New(context.Background(), log, repo.Images, seed.Default(), catalog.Options{})
	accountService := accounts.New(context.Background(), log, repo.Accounts, accounts.Options{})
	studioService := studio.New(log, accountService, catalogService, mock.New(0), studio.Options{})

	handler := httpapp.New(log, "", "0", 0, httprouters.NewRouter(log, accountService, studioService, catalogService)).Handler()

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/catalog/rooms", nil))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "dreamdesign_http_requests_total")
}
