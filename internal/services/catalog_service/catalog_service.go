package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"dreamdesign/internal/domain/models"
	"dreamdesign/internal/domain/seed"
	"dreamdesign/internal/lib/imgcompress"
	"dreamdesign/internal/lib/logger/sl"
	"dreamdesign/internal/metrics"
	"dreamdesign/internal/repository"
	"dreamdesign/internal/storage"

	"github.com/gabriel-vasile/mimetype"
)

var (
	ErrImageNotFound  = errors.New("image not found")
	ErrUploadTooLarge = errors.New("upload exceeds size limit")
)

const demoPairs = 3

type Options struct {
	UploadMaxDimension int
	UploadQuality      float64
	UploadMaxBytes     int64
}

type CatalogService struct {
	log      *slog.Logger
	repo     repository.ImageRepository
	seed     []models.ImageRecord
	seedByID map[string]models.ImageRecord
	opts     Options
	now      func() time.Time

	mu      sync.RWMutex
	images  map[string]models.ImageRecord
	unsaved bool
}

// New builds the catalog from seed and overlays whatever the repository holds.
// Load problems are logged, the catalog then starts from the seed alone.
func New(ctx context.Context, log *slog.Logger, repo repository.ImageRepository, seedRecords []models.ImageRecord, opts Options) *CatalogService {
	if opts.UploadMaxDimension <= 0 {
		opts.UploadMaxDimension = 800
	}
	if opts.UploadQuality <= 0 || opts.UploadQuality > 1 {
		opts.UploadQuality = 0.7
	}

	s := &CatalogService{
		log:      log,
		repo:     repo,
		seed:     seedRecords,
		seedByID: make(map[string]models.ImageRecord, len(seedRecords)),
		opts:     opts,
		now:      time.Now,
	}

	for _, rec := range seedRecords {
		s.seedByID[rec.ID] = rec
	}

	s.load(ctx)

	return s
}

func (s *CatalogService) load(ctx context.Context) {
	const op = "catalog_service.load"

	log := s.log.With(slog.String("op", op))

	s.mu.Lock()
	defer s.mu.Unlock()

	s.images = s.seedImages()

	primary, err := s.repo.Images(ctx)
	switch {
	case err == nil:
		s.overlay(log, primary)
	case !errors.Is(err, storage.ErrKeyNotFound):
		log.Error("failed to load stored catalog", sl.Err(err))
	}

	legacy, err := s.repo.LegacyImages(ctx)
	switch {
	case err == nil:
		s.overlay(log, legacy)
		log.Info("merged legacy catalog snapshot", slog.Int("records", len(legacy)))
		s.persist(ctx, log)
	case !errors.Is(err, storage.ErrKeyNotFound):
		log.Error("failed to recover legacy catalog", sl.Err(err))
	}
}

func (s *CatalogService) overlay(log *slog.Logger, stored map[string]models.ImageRecord) {
	for id, rec := range stored {
		if _, ok := s.seedByID[id]; !ok {
			log.Debug("ignoring stored record without seed counterpart", slog.String("id", id))
			continue
		}
		rec.ID = id
		s.images[id] = rec
	}
}

func (s *CatalogService) seedImages() map[string]models.ImageRecord {
	images := make(map[string]models.ImageRecord, len(s.seed))
	for _, rec := range s.seed {
		images[rec.ID] = rec
	}
	return images
}

// refresh rebuilds the cache from the seed and the stored snapshot so writes
// made by another process sharing the store are kept. It is skipped while the
// last write failed. Callers hold the write lock.
func (s *CatalogService) refresh(ctx context.Context, log *slog.Logger) {
	if s.unsaved {
		return
	}

	stored, err := s.repo.Images(ctx)
	switch {
	case err == nil:
		s.images = s.seedImages()
		s.overlay(log, stored)
	case !errors.Is(err, storage.ErrKeyNotFound):
		log.Error("failed to reload catalog", sl.Err(err))
	}
}

func (s *CatalogService) reload() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.refresh(context.Background(), s.log)
}

// persist writes the whole catalog. Callers hold the write lock.
func (s *CatalogService) persist(ctx context.Context, log *slog.Logger) {
	snapshot := make(map[string]models.ImageRecord, len(s.images))
	for id, rec := range s.images {
		snapshot[id] = rec
	}

	err := s.repo.SaveImages(ctx, snapshot)
	s.unsaved = err != nil
	if err != nil {
		metrics.StoragePersistFailuresTotal.WithLabelValues(metrics.StoreCatalog).Inc()

		if errors.Is(err, storage.ErrQuotaExceeded) {
			log.Error("storage quota exceeded, catalog kept in memory only", sl.Err(err))
			return
		}
		log.Error("failed to persist catalog", sl.Err(err))
	}
}

// GetAll returns every record in seed order.
func (s *CatalogService) GetAll() []models.ImageRecord {
	s.reload()

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.ImageRecord, 0, len(s.images))
	for _, rec := range s.seed {
		if cur, ok := s.images[rec.ID]; ok {
			out = append(out, cur)
		}
	}

	return out
}

func (s *CatalogService) Get(id string) (models.ImageRecord, bool) {
	s.reload()

	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.images[id]
	return rec, ok
}

// ReplaceViaUpload compresses the uploaded image and stores it inline as a data URI.
func (s *CatalogService) ReplaceViaUpload(ctx context.Context, id string, file io.Reader) (models.ImageRecord, error) {
	const op = "catalog_service.ReplaceViaUpload"

	log := s.log.With(
		slog.String("op", op),
		slog.String("id", id),
	)

	if _, ok := s.Get(id); !ok {
		log.Warn("image not found")
		return models.ImageRecord{}, fmt.Errorf("%s: %w", op, ErrImageNotFound)
	}

	data, err := s.readUpload(file)
	if err != nil {
		log.Error("failed to read upload", sl.Err(err))
		return models.ImageRecord{}, fmt.Errorf("%s: %w", op, err)
	}

	mime := mimetype.Detect(data)
	if !strings.HasPrefix(mime.String(), "image/") {
		log.Warn("upload does not look like an image", slog.String("mime", mime.String()))
	}

	res := imgcompress.Compress(imgcompress.DataURI(mime.String(), data), s.opts.UploadMaxDimension, s.opts.UploadQuality)
	if res.Fallback {
		log.Warn("compression skipped, storing original", sl.Err(res.Err))
	} else {
		log.Debug("upload compressed",
			slog.Int("width", res.Width),
			slog.Int("height", res.Height),
			slog.Int("bytes_in", len(data)),
			slog.Int("bytes_out", len(res.Encoded)),
		)
	}

	return s.setSrc(ctx, log, op, id, res.Encoded)
}

// ReplaceViaURL points the record at a hosted image without touching its bytes.
func (s *CatalogService) ReplaceViaURL(ctx context.Context, id, url string) (models.ImageRecord, error) {
	const op = "catalog_service.ReplaceViaURL"

	log := s.log.With(
		slog.String("op", op),
		slog.String("id", id),
	)

	return s.setSrc(ctx, log, op, id, url)
}

func (s *CatalogService) setSrc(ctx context.Context, log *slog.Logger, op, id, src string) (models.ImageRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.refresh(ctx, log)

	rec, ok := s.images[id]
	if !ok {
		log.Warn("image not found")
		return models.ImageRecord{}, fmt.Errorf("%s: %w", op, ErrImageNotFound)
	}

	rec.Src = src
	s.images[id] = rec
	s.persist(ctx, log)

	log.Info("image replaced")

	return rec, nil
}

func (s *CatalogService) readUpload(file io.Reader) ([]byte, error) {
	if s.opts.UploadMaxBytes <= 0 {
		return io.ReadAll(file)
	}

	data, err := io.ReadAll(io.LimitReader(file, s.opts.UploadMaxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > s.opts.UploadMaxBytes {
		return nil, ErrUploadTooLarge
	}

	return data, nil
}

// UpdateBatch applies the label and src present in each patch to known records,
// skipping unknown ids, and persists once. It returns how many records were updated.
func (s *CatalogService) UpdateBatch(ctx context.Context, patches []models.ImagePatch) int {
	const op = "catalog_service.UpdateBatch"

	log := s.log.With(
		slog.String("op", op),
		slog.Int("records", len(patches)),
	)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.refresh(ctx, log)

	updated := 0
	for _, in := range patches {
		rec, ok := s.images[in.ID]
		if !ok {
			log.Debug("skipping unknown image", slog.String("id", in.ID))
			continue
		}

		if in.Label != nil {
			rec.Label = *in.Label
		}
		if in.Src != nil {
			rec.Src = *in.Src
		}

		s.images[in.ID] = rec
		updated++
	}

	s.persist(ctx, log)

	log.Info("batch applied", slog.Int("updated", updated))

	return updated
}

// Reset restores one record to its seed value. Unknown ids are ignored.
func (s *CatalogService) Reset(ctx context.Context, id string) {
	const op = "catalog_service.Reset"

	log := s.log.With(
		slog.String("op", op),
		slog.String("id", id),
	)

	initial, ok := s.seedByID[id]
	if !ok {
		log.Debug("no seed value for id")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.refresh(ctx, log)

	s.images[id] = initial
	s.persist(ctx, log)
}

func (s *CatalogService) ResetAll(ctx context.Context) {
	const op = "catalog_service.ResetAll"

	log := s.log.With(slog.String("op", op))

	s.mu.Lock()
	defer s.mu.Unlock()

	s.images = s.seedImages()
	s.persist(ctx, log)

	log.Info("catalog reset to seed")
}

func (s *CatalogService) HeroDemos() []models.DemoPair {
	return s.demos(models.SectionHero, func(label string) string {
		return strings.Replace(label, " (Before)", "", 1)
	})
}

func (s *CatalogService) AuthDemos() []models.DemoPair {
	return s.demos(models.SectionAuth, func(label string) string {
		label = strings.Replace(label, " (Before)", "", 1)
		return strings.Replace(label, "Auth ", "", 1)
	})
}

func (s *CatalogService) demos(section models.Section, label func(string) string) []models.DemoPair {
	s.reload()

	s.mu.RLock()
	defer s.mu.RUnlock()

	demos := make([]models.DemoPair, 0, demoPairs)
	for i := 0; i < demoPairs; i++ {
		before, okBefore := s.images[models.PairID(section, i, models.ImageTypeBefore)]
		after, okAfter := s.images[models.PairID(section, i, models.ImageTypeAfter)]
		if !okBefore || !okAfter {
			continue
		}

		demos = append(demos, models.DemoPair{
			ID:     i,
			Label:  label(before.Label),
			Before: before.Src,
			After:  after.Src,
		})
	}

	return demos
}

func (s *CatalogService) FeatureImages() []models.ImageRecord {
	s.reload()

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.ImageRecord, 0, 2)
	for _, typ := range []models.ImageType{models.ImageTypeBefore, models.ImageTypeAfter} {
		if rec, ok := s.images[models.PairID(models.SectionFeature, 0, typ)]; ok {
			out = append(out, rec)
		}
	}

	return out
}

// GalleryItems returns gallery records ordered by the index embedded in their id.
func (s *CatalogService) GalleryItems() []models.ImageRecord {
	s.reload()

	s.mu.RLock()
	items := make([]models.ImageRecord, 0)
	for _, rec := range s.images {
		if rec.Section == models.SectionGallery {
			items = append(items, rec)
		}
	}
	s.mu.RUnlock()

	sort.SliceStable(items, func(i, j int) bool {
		a, okA := items[i].SectionIndex()
		b, okB := items[j].SectionIndex()
		switch {
		case okA && okB && a != b:
			return a < b
		case okA != okB:
			return okA
		default:
			return items[i].ID < items[j].ID
		}
	})

	return items
}

// Styles returns the static style catalog with thumbnails overridden by style_<id> records.
func (s *CatalogService) Styles() []models.StyleDefinition {
	s.reload()

	s.mu.RLock()
	defer s.mu.RUnlock()

	styles := make([]models.StyleDefinition, len(models.StyleOptions))
	for i, style := range models.StyleOptions {
		if rec, ok := s.images[models.StyleImageID(style.ID)]; ok {
			style.Image = rec.Src
		}
		styles[i] = style
	}

	return styles
}

// Export renders the current catalog as a seed document usable as catalog.seed_path.
func (s *CatalogService) Export() ([]byte, error) {
	const op = "catalog_service.Export"

	data, err := seed.Marshal(s.GetAll(), s.now())
	if err != nil {
		s.log.Error("failed to export catalog", slog.String("op", op), sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return data, nil
}
