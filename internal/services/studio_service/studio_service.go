package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"dreamdesign/internal/domain/models"
	"dreamdesign/internal/lib/logger/sl"
	"dreamdesign/internal/metrics"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

var (
	ErrAuthenticationRequired = errors.New("authentication required")
	ErrInsufficientCredits    = errors.New("insufficient credits")
	ErrGenerationFailed       = errors.New("generation failed")
	ErrIncompleteRequest      = errors.New("image, room type and at least one style are required")
	ErrTooManyStyles          = errors.New("too many styles selected")
	ErrGenerationInProgress   = errors.New("a generation is already in progress")
	ErrCapabilityUnavailable  = errors.New("generation capability unavailable")
	ErrResultIndexOutOfRange  = errors.New("result index out of range")
	ErrUnknownStyle           = errors.New("unknown style")
	ErrUnsupportedSource      = errors.New("source image encoding not supported by the generator")
)

const DefaultMaxStyles = 4

// Ledger moves credits on an account.
type Ledger interface {
	DebitCredits(ctx context.Context, accountID string, amount int) (models.Account, error)
	CreditCredits(ctx context.Context, accountID string, amount int) (models.Account, error)
}

// StyleCatalog supplies style descriptions for the prompt.
type StyleCatalog interface {
	Styles() []models.StyleDefinition
}

// Generator produces one redesigned image for one style.
type Generator interface {
	Generate(ctx context.Context, req models.GenerationRequest) (models.GenerationOutput, error)
}

// SourceValidator is implemented by generators that accept only some source
// image encodings, such as inline data URIs.
type SourceValidator interface {
	ValidateSource(src string) error
}

// CapabilityChecker is implemented by generators that must acquire something,
// such as an API key, before any call can succeed.
type CapabilityChecker interface {
	EnsureCapability(ctx context.Context) error
}

type GenerateInput struct {
	SourceImage string
	RoomType    models.RoomType
	Styles      []string
}

type Options struct {
	MaxStyles   int
	CallTimeout time.Duration
}

// StudioService runs generation batches and keeps the latest result set.
type StudioService struct {
	log       *slog.Logger
	ledger    Ledger
	styles    StyleCatalog
	generator Generator
	opts      Options
	now       func() time.Time

	inFlight atomic.Bool

	mu          sync.RWMutex
	results     []models.GenerationResult
	activeIndex int
}

func New(log *slog.Logger, ledger Ledger, styles StyleCatalog, generator Generator, opts Options) *StudioService {
	if opts.MaxStyles <= 0 {
		opts.MaxStyles = DefaultMaxStyles
	}

	return &StudioService{
		log:       log,
		ledger:    ledger,
		styles:    styles,
		generator: generator,
		opts:      opts,
		now:       time.Now,
	}
}

// Generate charges one credit per style, generates every style concurrently and
// keeps the results only if all of them succeed. Any failure refunds the full cost.
func (s *StudioService) Generate(ctx context.Context, account *models.Account, in GenerateInput) (models.GenerationBatch, error) {
	const op = "studio_service.Generate"

	if account == nil {
		return models.GenerationBatch{}, fmt.Errorf("%s: %w", op, ErrAuthenticationRequired)
	}

	log := s.log.With(
		slog.String("op", op),
		slog.String("account", account.ID),
		slog.String("room_type", string(in.RoomType)),
		slog.Any("styles", in.Styles),
	)

	if !s.inFlight.CompareAndSwap(false, true) {
		log.Warn("generation already running")
		return models.GenerationBatch{}, fmt.Errorf("%s: %w", op, ErrGenerationInProgress)
	}
	defer s.inFlight.Store(false)

	if len(in.Styles) > s.opts.MaxStyles {
		return models.GenerationBatch{}, fmt.Errorf("%s: %w: %d of %d", op, ErrTooManyStyles, len(in.Styles), s.opts.MaxStyles)
	}

	cost := len(in.Styles)
	if account.Credits < cost {
		log.Info("insufficient credits", slog.Int("credits", account.Credits), slog.Int("cost", cost))
		return models.GenerationBatch{}, fmt.Errorf("%s: %w", op, ErrInsufficientCredits)
	}

	if checker, ok := s.generator.(CapabilityChecker); ok {
		if err := checker.EnsureCapability(ctx); err != nil {
			log.Error("generation capability unavailable", sl.Err(err))
			return models.GenerationBatch{}, fmt.Errorf("%s: %w: %w", op, ErrCapabilityUnavailable, err)
		}
	}

	if in.SourceImage == "" || in.RoomType == "" || len(in.Styles) == 0 || !in.RoomType.Valid() {
		return models.GenerationBatch{}, fmt.Errorf("%s: %w", op, ErrIncompleteRequest)
	}

	descriptions := s.styleDescriptions()
	for _, styleID := range in.Styles {
		if _, ok := descriptions[styleID]; !ok {
			log.Warn("unknown style requested", slog.String("style", styleID))
			return models.GenerationBatch{}, fmt.Errorf("%s: %w: %q", op, ErrUnknownStyle, styleID)
		}
	}

	if v, ok := s.generator.(SourceValidator); ok {
		if err := v.ValidateSource(in.SourceImage); err != nil {
			log.Warn("source image rejected", sl.Err(err))
			return models.GenerationBatch{}, fmt.Errorf("%s: %w: %w", op, ErrUnsupportedSource, err)
		}
	}

	debited, err := s.ledger.DebitCredits(ctx, account.ID, cost)
	if err != nil {
		log.Error("failed to debit credits", sl.Err(err))
		return models.GenerationBatch{}, fmt.Errorf("%s: %w", op, err)
	}

	s.ClearResults()

	batch := models.GenerationBatch{
		ID:        uuid.New(),
		Cost:      cost,
		StartedAt: s.now(),
	}

	log = log.With(slog.String("batch", batch.ID.String()))
	log.Info("generation started", slog.Int("cost", cost))

	results, err := s.fanOut(ctx, log, in, descriptions)
	if err != nil {
		metrics.GenerationBatchesTotal.WithLabelValues(metrics.OutcomeFailure).Inc()
		log.Error("generation failed, refunding", sl.Err(err))

		if _, refundErr := s.ledger.CreditCredits(context.WithoutCancel(ctx), account.ID, cost); refundErr != nil {
			log.Error("failed to refund credits", sl.Err(refundErr))
			return models.GenerationBatch{}, errors.Join(
				fmt.Errorf("%s: %w", op, ErrGenerationFailed),
				fmt.Errorf("%s: refund: %w", op, refundErr),
			)
		}

		return models.GenerationBatch{}, fmt.Errorf("%s: %w", op, ErrGenerationFailed)
	}

	s.mu.Lock()
	s.results = results
	s.activeIndex = 0
	s.mu.Unlock()

	metrics.GenerationBatchesTotal.WithLabelValues(metrics.OutcomeSuccess).Inc()

	batch.Account = debited
	batch.Results = append([]models.GenerationResult(nil), results...)
	batch.CompletedAt = s.now()

	log.Info("generation completed", slog.Duration("took", batch.CompletedAt.Sub(batch.StartedAt)))

	return batch, nil
}

// fanOut issues one call per style. Results keep the selection order; the first
// failure cancels the remaining calls.
func (s *StudioService) fanOut(ctx context.Context, log *slog.Logger, in GenerateInput, descriptions map[string]string) ([]models.GenerationResult, error) {
	results := make([]models.GenerationResult, len(in.Styles))

	g, gctx := errgroup.WithContext(ctx)
	for i, styleID := range in.Styles {
		g.Go(func() error {
			callCtx := gctx
			if s.opts.CallTimeout > 0 {
				var cancel context.CancelFunc
				callCtx, cancel = context.WithTimeout(gctx, s.opts.CallTimeout)
				defer cancel()
			}

			start := time.Now()
			out, err := s.generator.Generate(callCtx, models.GenerationRequest{
				SourceImage:      in.SourceImage,
				RoomType:         in.RoomType,
				StyleID:          styleID,
				StyleDescription: descriptions[styleID],
			})
			took := time.Since(start).Seconds()

			if err != nil {
				metrics.GenerationCallDuration.WithLabelValues(metrics.OutcomeFailure).Observe(took)
				log.Warn("style generation failed", slog.String("style", styleID), sl.Err(err))
				return fmt.Errorf("style %q: %w", styleID, err)
			}

			metrics.GenerationCallDuration.WithLabelValues(metrics.OutcomeSuccess).Observe(took)

			results[i] = models.GenerationResult{
				Style:    styleID,
				ImageURL: out.ImageURL,
				Notes:    out.Notes,
			}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

func (s *StudioService) styleDescriptions() map[string]string {
	styles := s.styles.Styles()

	descriptions := make(map[string]string, len(styles))
	for _, style := range styles {
		descriptions[style.ID] = style.Description
	}

	return descriptions
}

func (s *StudioService) InProgress() bool {
	return s.inFlight.Load()
}

func (s *StudioService) Results() []models.GenerationResult {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]models.GenerationResult(nil), s.results...)
}

func (s *StudioService) ActiveResult() (models.GenerationResult, int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.results) == 0 {
		return models.GenerationResult{}, 0, false
	}

	return s.results[s.activeIndex], s.activeIndex, true
}

func (s *StudioService) SetActiveResult(index int) error {
	const op = "studio_service.SetActiveResult"

	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.results) {
		return fmt.Errorf("%s: %w: %d", op, ErrResultIndexOutOfRange, index)
	}

	s.activeIndex = index
	return nil
}

// ClearResults drops the current result set ("redesign another").
func (s *StudioService) ClearResults() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.results = nil
	s.activeIndex = 0
}
