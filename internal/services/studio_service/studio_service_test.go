package services_test

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"dreamdesign/internal/domain/models"
	"dreamdesign/internal/lib/logger/handlers/slogdiscard"
	"dreamdesign/internal/repository"
	accountsvc "dreamdesign/internal/services/account_service"
	services "dreamdesign/internal/services/studio_service"
	"dreamdesign/internal/storage/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockLedger struct {
	mock.Mock
}

func (m *MockLedger) DebitCredits(ctx context.Context, accountID string, amount int) (models.Account, error) {
	args := m.Called(ctx, accountID, amount)
	return args.Get(0).(models.Account), args.Error(1)
}

func (m *MockLedger) CreditCredits(ctx context.Context, accountID string, amount int) (models.Account, error) {
	args := m.Called(ctx, accountID, amount)
	return args.Get(0).(models.Account), args.Error(1)
}

type staticStyles struct{}

func (staticStyles) Styles() []models.StyleDefinition {
	return models.StyleOptions
}

type funcGenerator struct {
	calls atomic.Int32
	fn    func(ctx context.Context, req models.GenerationRequest) (models.GenerationOutput, error)
}

func (g *funcGenerator) Generate(ctx context.Context, req models.GenerationRequest) (models.GenerationOutput, error) {
	g.calls.Add(1)
	return g.fn(ctx, req)
}

type gatedGenerator struct {
	funcGenerator
	capErr error
}

func (g *gatedGenerator) EnsureCapability(ctx context.Context) error {
	return g.capErr
}

func okGenerator() *funcGenerator {
	return &funcGenerator{fn: func(ctx context.Context, req models.GenerationRequest) (models.GenerationOutput, error) {
		return models.GenerationOutput{ImageURL: "data:image/png;base64," + req.StyleID, Notes: req.StyleDescription}, nil
	}}
}

var ctx = context.Background()

func newLedger(t *testing.T, credits int) (*accountsvc.AccountService, models.Account) {
	t.Helper()

	ledger := accountsvc.New(ctx, slogdiscard.NewDiscardLogger(), repository.NewKVAccountRepo(memory.New(0), ""), accountsvc.Options{SignupCredits: 0})

	acc, err := ledger.Signup(ctx, "Ana", "Ruiz", "ana@x.com", "secret1")
	require.NoError(t, err)

	if credits > 0 {
		acc, err = ledger.CreditCredits(ctx, acc.ID, credits)
		require.NoError(t, err)
	}

	return ledger, acc
}

func validInput(styles ...string) services.GenerateInput {
	return services.GenerateInput{
		SourceImage: "data:image/jpeg;base64,AAAA",
		RoomType:    "Living Room",
		Styles:      styles,
	}
}

func TestStudioService_Generate_Success(t *testing.T) {
	ledger, acc := newLedger(t, 5)

	// later styles finish first, results must still follow selection order
	delays := map[string]time.Duration{"Modern": 30 * time.Millisecond, "Zen": 15 * time.Millisecond, "Coastal": 0}
	gen := &funcGenerator{fn: func(ctx context.Context, req models.GenerationRequest) (models.GenerationOutput, error) {
		time.Sleep(delays[req.StyleID])
		return models.GenerationOutput{ImageURL: "url-" + req.StyleID, Notes: req.StyleDescription}, nil
	}}

	s := services.New(slogdiscard.NewDiscardLogger(), ledger, staticStyles{}, gen, services.Options{})

	batch, err := s.Generate(ctx, &acc, validInput("Modern", "Zen", "Coastal"))
	require.NoError(t, err)

	assert.Equal(t, 3, batch.Cost)
	assert.Equal(t, 2, batch.Account.Credits)
	require.Len(t, batch.Results, 3)
	assert.Equal(t, []string{"Modern", "Zen", "Coastal"}, []string{batch.Results[0].Style, batch.Results[1].Style, batch.Results[2].Style})
	assert.Equal(t, "url-Zen", batch.Results[1].ImageURL)
	assert.Equal(t, "Clean lines, neutral colors, sleek furniture.", batch.Results[0].Notes)

	cur, _ := ledger.Account(acc.ID)
	assert.Equal(t, 2, cur.Credits)

	assert.Equal(t, batch.Results, s.Results())
	active, idx, ok := s.ActiveResult()
	require.True(t, ok)
	assert.Equal(t, 0, idx)
	assert.Equal(t, "Modern", active.Style)
}

func TestStudioService_Generate_PartialFailureRefunds(t *testing.T) {
	ledger, acc := newLedger(t, 5)

	gen := &funcGenerator{fn: func(ctx context.Context, req models.GenerationRequest) (models.GenerationOutput, error) {
		if req.StyleID == "Zen" {
			return models.GenerationOutput{}, errors.New("model overloaded")
		}
		return models.GenerationOutput{ImageURL: "ok"}, nil
	}}

	s := services.New(slogdiscard.NewDiscardLogger(), ledger, staticStyles{}, gen, services.Options{})

	_, err := s.Generate(ctx, &acc, validInput("Modern", "Zen"))
	assert.ErrorIs(t, err, services.ErrGenerationFailed)

	cur, _ := ledger.Account(acc.ID)
	assert.Equal(t, 5, cur.Credits)
	assert.Empty(t, s.Results())

	_, _, ok := s.ActiveResult()
	assert.False(t, ok)
}

func TestStudioService_Generate_PreconditionsDoNotChangeState(t *testing.T) {
	tests := []struct {
		name    string
		credits int
		account bool
		input   services.GenerateInput
		wantErr error
	}{
		{"not authenticated", 5, false, validInput("Modern"), services.ErrAuthenticationRequired},
		{"insufficient credits", 2, true, validInput("Modern", "Zen", "Coastal"), services.ErrInsufficientCredits},
		{"too many styles", 10, true, validInput("Modern", "Zen", "Coastal", "Rustic", "Boho"), services.ErrTooManyStyles},
		{"no styles", 5, true, validInput(), services.ErrIncompleteRequest},
		{"no image", 5, true, services.GenerateInput{RoomType: "Kitchen", Styles: []string{"Modern"}}, services.ErrIncompleteRequest},
		{"unknown room", 5, true, services.GenerateInput{SourceImage: "x", RoomType: "Garage", Styles: []string{"Modern"}}, services.ErrIncompleteRequest},
		{"unknown style", 5, true, validInput("Modern", "Brutalist"), services.ErrUnknownStyle},
		{"style ids are case sensitive", 5, true, validInput("modern"), services.ErrUnknownStyle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ledger, acc := newLedger(t, tt.credits)
			gen := okGenerator()
			s := services.New(slogdiscard.NewDiscardLogger(), ledger, staticStyles{}, gen, services.Options{})

			var account *models.Account
			if tt.account {
				account = &acc
			}

			_, err := s.Generate(ctx, account, tt.input)
			assert.ErrorIs(t, err, tt.wantErr)

			cur, _ := ledger.Account(acc.ID)
			assert.Equal(t, tt.credits, cur.Credits)
			assert.Zero(t, gen.calls.Load())
			assert.False(t, s.InProgress())
		})
	}
}

func TestStudioService_Generate_CapabilityCheck(t *testing.T) {
	ledger, acc := newLedger(t, 5)

	gen := &gatedGenerator{funcGenerator: funcGenerator{fn: okGenerator().fn}, capErr: errors.New("no api key selected")}
	s := services.New(slogdiscard.NewDiscardLogger(), ledger, staticStyles{}, gen, services.Options{})

	_, err := s.Generate(ctx, &acc, validInput("Modern"))
	assert.ErrorIs(t, err, services.ErrCapabilityUnavailable)

	cur, _ := ledger.Account(acc.ID)
	assert.Equal(t, 5, cur.Credits)

	gen.capErr = nil
	_, err = s.Generate(ctx, &acc, validInput("Modern"))
	require.NoError(t, err)
}

type dataURIGenerator struct {
	funcGenerator
}

func (g *dataURIGenerator) ValidateSource(src string) error {
	if !strings.HasPrefix(src, "data:") {
		return errors.New("inline image required")
	}
	return nil
}

func TestStudioService_Generate_SourceValidation(t *testing.T) {
	acc := models.Account{ID: "ana@x.com", Credits: 5}

	ledger := new(MockLedger)
	gen := &dataURIGenerator{funcGenerator: funcGenerator{fn: okGenerator().fn}}
	s := services.New(slogdiscard.NewDiscardLogger(), ledger, staticStyles{}, gen, services.Options{})

	in := validInput("Modern")
	in.SourceImage = "https://cdn.example.com/room.jpg"

	_, err := s.Generate(ctx, &acc, in)
	assert.ErrorIs(t, err, services.ErrUnsupportedSource)
	assert.Zero(t, gen.calls.Load())
	ledger.AssertNotCalled(t, "DebitCredits", mock.Anything, mock.Anything, mock.Anything)

	ledger.On("DebitCredits", mock.Anything, acc.ID, 1).Return(models.Account{ID: acc.ID, Credits: 4}, nil)

	batch, err := s.Generate(ctx, &acc, validInput("Modern"))
	require.NoError(t, err)
	assert.Equal(t, 4, batch.Account.Credits)
	ledger.AssertExpectations(t)
}

func TestStudioService_Generate_TimeoutIsFailure(t *testing.T) {
	ledger, acc := newLedger(t, 3)

	gen := &funcGenerator{fn: func(ctx context.Context, req models.GenerationRequest) (models.GenerationOutput, error) {
		<-ctx.Done()
		return models.GenerationOutput{}, ctx.Err()
	}}

	s := services.New(slogdiscard.NewDiscardLogger(), ledger, staticStyles{}, gen, services.Options{CallTimeout: 20 * time.Millisecond})

	_, err := s.Generate(ctx, &acc, validInput("Modern", "Zen"))
	assert.ErrorIs(t, err, services.ErrGenerationFailed)

	cur, _ := ledger.Account(acc.ID)
	assert.Equal(t, 3, cur.Credits)
}

func TestStudioService_Generate_InProgress(t *testing.T) {
	ledger, acc := newLedger(t, 5)

	release := make(chan struct{})
	started := make(chan struct{}, 1)
	gen := &funcGenerator{fn: func(ctx context.Context, req models.GenerationRequest) (models.GenerationOutput, error) {
		started <- struct{}{}
		<-release
		return models.GenerationOutput{ImageURL: "ok"}, nil
	}}

	s := services.New(slogdiscard.NewDiscardLogger(), ledger, staticStyles{}, gen, services.Options{})

	done := make(chan error, 1)
	go func() {
		_, err := s.Generate(ctx, &acc, validInput("Modern"))
		done <- err
	}()

	<-started
	assert.True(t, s.InProgress())

	_, err := s.Generate(ctx, &acc, validInput("Zen"))
	assert.ErrorIs(t, err, services.ErrGenerationInProgress)

	close(release)
	require.NoError(t, <-done)

	cur, _ := ledger.Account(acc.ID)
	assert.Equal(t, 4, cur.Credits)
}

func TestStudioService_Generate_RefundFailure(t *testing.T) {
	acc := models.Account{ID: "ana@x.com", Credits: 2}

	ledger := new(MockLedger)
	ledger.On("DebitCredits", mock.Anything, acc.ID, 1).Return(models.Account{ID: acc.ID, Credits: 1}, nil)
	ledger.On("CreditCredits", mock.Anything, acc.ID, 1).Return(models.Account{}, errors.New("ledger unavailable"))

	gen := &funcGenerator{fn: func(ctx context.Context, req models.GenerationRequest) (models.GenerationOutput, error) {
		return models.GenerationOutput{}, errors.New("boom")
	}}

	s := services.New(slogdiscard.NewDiscardLogger(), ledger, staticStyles{}, gen, services.Options{})

	_, err := s.Generate(ctx, &acc, validInput("Modern"))
	assert.ErrorIs(t, err, services.ErrGenerationFailed)
	assert.ErrorContains(t, err, "ledger unavailable")

	ledger.AssertExpectations(t)
}

func TestStudioService_Generate_DebitRejected(t *testing.T) {
	// balance changed between the caller's snapshot and the debit
	acc := models.Account{ID: "ana@x.com", Credits: 2}

	ledger := new(MockLedger)
	ledger.On("DebitCredits", mock.Anything, acc.ID, 2).Return(models.Account{}, accountsvc.ErrInsufficientCredits)

	gen := okGenerator()
	s := services.New(slogdiscard.NewDiscardLogger(), ledger, staticStyles{}, gen, services.Options{})

	_, err := s.Generate(ctx, &acc, validInput("Modern", "Zen"))
	assert.ErrorIs(t, err, accountsvc.ErrInsufficientCredits)
	assert.Zero(t, gen.calls.Load())
	ledger.AssertNotCalled(t, "CreditCredits", mock.Anything, mock.Anything, mock.Anything)
}

func TestStudioService_ResultState(t *testing.T) {
	ledger, acc := newLedger(t, 5)
	s := services.New(slogdiscard.NewDiscardLogger(), ledger, staticStyles{}, okGenerator(), services.Options{})

	assert.ErrorIs(t, s.SetActiveResult(0), services.ErrResultIndexOutOfRange)

	_, err := s.Generate(ctx, &acc, validInput("Modern", "Zen"))
	require.NoError(t, err)

	require.NoError(t, s.SetActiveResult(1))
	active, idx, ok := s.ActiveResult()
	require.True(t, ok)
	assert.Equal(t, 1, idx)
	assert.Equal(t, "Zen", active.Style)

	assert.ErrorIs(t, s.SetActiveResult(2), services.ErrResultIndexOutOfRange)
	assert.ErrorIs(t, s.SetActiveResult(-1), services.ErrResultIndexOutOfRange)

	s.ClearResults()
	assert.Empty(t, s.Results())
}
