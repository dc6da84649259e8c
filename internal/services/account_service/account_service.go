package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"sort"
	"sync"
	"time"

	"dreamdesign/internal/domain/models"
	"dreamdesign/internal/lib/logger/sl"
	"dreamdesign/internal/metrics"
	"dreamdesign/internal/repository"
	"dreamdesign/internal/storage"
)

var (
	ErrDuplicateAccount    = errors.New("user already exists with this email")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrAccountNotFound     = errors.New("account not found")
	ErrInsufficientCredits = errors.New("insufficient credits")
	ErrInvalidAmount       = errors.New("credit amount must be positive")
	ErrUnknownCreditPack   = errors.New("unknown credit pack")
)

const (
	GoogleMockEmail  = "demo@gmail.com"
	googleMockAvatar = "https://lh3.googleusercontent.com/a/default-user=s96-c"
	avatarBaseURL    = "https://ui-avatars.com/api/"
)

type Options struct {
	Latency       time.Duration
	GoogleLatency time.Duration
	SignupCredits int
	GoogleCredits int
	CreditPacks   []int
}

// AccountService is the credit ledger. Passwords are accepted but never checked.
//
// The stored snapshot is the source of truth: every operation reloads it under
// the lock, so the admin CLI and the server can share one store. After a failed
// write the in-memory map stays authoritative until a write succeeds again.
type AccountService struct {
	log  *slog.Logger
	repo repository.AccountRepository
	opts Options

	mu        sync.Mutex
	accounts  map[string]models.Account
	currentID string
	unsaved   bool
}

func New(ctx context.Context, log *slog.Logger, repo repository.AccountRepository, opts Options) *AccountService {
	const op = "account_service.New"

	s := &AccountService{
		log:      log,
		repo:     repo,
		opts:     opts,
		accounts: make(map[string]models.Account),
	}

	logger := log.With(slog.String("op", op))

	accounts, err := repo.Accounts(ctx)
	switch {
	case err == nil && accounts != nil:
		s.accounts = accounts
	case err != nil && !errors.Is(err, storage.ErrKeyNotFound):
		logger.Error("failed to load accounts", sl.Err(err))
	}

	currentID, err := repo.CurrentAccountID(ctx)
	if err != nil {
		logger.Error("failed to load session", sl.Err(err))
	}
	s.currentID = currentID

	return s
}

// Signup creates an account with the signup bonus and opens a session for it.
func (s *AccountService) Signup(ctx context.Context, firstName, lastName, email, password string) (models.Account, error) {
	const op = "account_service.Signup"

	log := s.log.With(
		slog.String("op", op),
		slog.String("email", email),
	)

	log.Info("signup")

	if err := s.wait(ctx, s.opts.Latency); err != nil {
		return models.Account{}, fmt.Errorf("%s: %w", op, err)
	}

	id := models.AccountID(email)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.refresh(ctx, log)

	if _, exists := s.accounts[id]; exists {
		log.Warn("account already exists")
		return models.Account{}, fmt.Errorf("%s: %w", op, ErrDuplicateAccount)
	}

	acc := models.Account{
		ID:        id,
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
		Credits:   s.opts.SignupCredits,
		Avatar:    avatarURL(firstName, lastName),
	}

	s.accounts[id] = acc
	s.persistAccounts(ctx, log)
	s.setSession(ctx, log, id)

	log.Info("account created")

	return acc, nil
}

// Login resolves the account by email. The password is not verified.
func (s *AccountService) Login(ctx context.Context, email, password string) (models.Account, error) {
	const op = "account_service.Login"

	log := s.log.With(
		slog.String("op", op),
		slog.String("email", email),
	)

	log.Info("attempting to login user")

	if err := s.wait(ctx, s.opts.Latency); err != nil {
		return models.Account{}, fmt.Errorf("%s: %w", op, err)
	}

	id := models.AccountID(email)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.refresh(ctx, log)

	acc, ok := s.accounts[id]
	if !ok {
		log.Warn("user not found")
		return models.Account{}, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	s.setSession(ctx, log, id)

	log.Info("user logged in successfully")

	return acc, nil
}

// LoginWithGoogle signs in the fixed demo identity, creating it on first use.
func (s *AccountService) LoginWithGoogle(ctx context.Context) (models.Account, error) {
	const op = "account_service.LoginWithGoogle"

	log := s.log.With(slog.String("op", op))

	if err := s.wait(ctx, s.opts.GoogleLatency); err != nil {
		return models.Account{}, fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.refresh(ctx, log)

	acc, ok := s.accounts[GoogleMockEmail]
	if !ok {
		acc = models.Account{
			ID:        GoogleMockEmail,
			FirstName: "Demo",
			LastName:  "User",
			Email:     GoogleMockEmail,
			Credits:   s.opts.GoogleCredits,
			Avatar:    googleMockAvatar,
		}
		s.accounts[GoogleMockEmail] = acc
		s.persistAccounts(ctx, log)

		log.Info("demo account created")
	}

	s.setSession(ctx, log, GoogleMockEmail)

	return acc, nil
}

// Logout clears the session pointer only.
func (s *AccountService) Logout(ctx context.Context) {
	const op = "account_service.Logout"

	log := s.log.With(slog.String("op", op))

	s.mu.Lock()
	defer s.mu.Unlock()

	s.currentID = ""
	if err := s.repo.ClearCurrentAccountID(ctx); err != nil {
		metrics.StoragePersistFailuresTotal.WithLabelValues(metrics.StoreAccounts).Inc()
		log.Error("failed to clear session", sl.Err(err))
	}
}

func (s *AccountService) CurrentAccount() (models.Account, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.currentID == "" {
		return models.Account{}, false
	}

	s.refresh(context.Background(), s.log)

	acc, ok := s.accounts[s.currentID]
	return acc, ok
}

func (s *AccountService) Account(id string) (models.Account, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.refresh(context.Background(), s.log)

	acc, ok := s.accounts[id]
	return acc, ok
}

// List returns all accounts ordered by id.
func (s *AccountService) List() []models.Account {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.refresh(context.Background(), s.log)

	out := make([]models.Account, 0, len(s.accounts))
	for _, acc := range s.accounts {
		out = append(out, acc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out
}

// DebitCredits subtracts amount, failing instead of going below zero.
func (s *AccountService) DebitCredits(ctx context.Context, accountID string, amount int) (models.Account, error) {
	const op = "account_service.DebitCredits"

	log := s.log.With(
		slog.String("op", op),
		slog.String("account", accountID),
		slog.Int("amount", amount),
	)

	if amount < 0 {
		return models.Account{}, fmt.Errorf("%s: %w", op, ErrInvalidAmount)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.refresh(ctx, log)

	acc, ok := s.accounts[accountID]
	if !ok {
		log.Error("account not found")
		return models.Account{}, fmt.Errorf("%s: %w", op, ErrAccountNotFound)
	}

	if acc.Credits < amount {
		log.Info("insufficient credits", slog.Int("credits", acc.Credits))
		return models.Account{}, fmt.Errorf("%s: %w", op, ErrInsufficientCredits)
	}

	acc.Credits -= amount
	s.accounts[accountID] = acc
	s.persistAccounts(ctx, log)

	metrics.CreditsTotal.WithLabelValues(metrics.DirectionDebit).Add(float64(amount))

	return acc, nil
}

func (s *AccountService) CreditCredits(ctx context.Context, accountID string, amount int) (models.Account, error) {
	const op = "account_service.CreditCredits"

	log := s.log.With(
		slog.String("op", op),
		slog.String("account", accountID),
		slog.Int("amount", amount),
	)

	acc, err := s.credit(ctx, log, accountID, amount)
	if err != nil {
		return models.Account{}, fmt.Errorf("%s: %w", op, err)
	}

	metrics.CreditsTotal.WithLabelValues(metrics.DirectionCredit).Add(float64(amount))

	return acc, nil
}

// PurchaseCredits adds one of the configured credit packs. Payment is mocked.
func (s *AccountService) PurchaseCredits(ctx context.Context, accountID string, pack int) (models.Account, error) {
	const op = "account_service.PurchaseCredits"

	log := s.log.With(
		slog.String("op", op),
		slog.String("account", accountID),
		slog.Int("pack", pack),
	)

	if !s.knownPack(pack) {
		log.Warn("unknown credit pack")
		return models.Account{}, fmt.Errorf("%s: %w", op, ErrUnknownCreditPack)
	}

	acc, err := s.credit(ctx, log, accountID, pack)
	if err != nil {
		return models.Account{}, fmt.Errorf("%s: %w", op, err)
	}

	metrics.CreditsTotal.WithLabelValues(metrics.DirectionPurchase).Add(float64(pack))

	log.Info("credits purchased", slog.Int("credits", acc.Credits))

	return acc, nil
}

// CreditPacks returns the purchasable pack sizes.
func (s *AccountService) CreditPacks() []int {
	return append([]int(nil), s.opts.CreditPacks...)
}

func (s *AccountService) credit(ctx context.Context, log *slog.Logger, accountID string, amount int) (models.Account, error) {
	if amount < 0 {
		return models.Account{}, ErrInvalidAmount
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.refresh(ctx, log)

	acc, ok := s.accounts[accountID]
	if !ok {
		log.Error("account not found")
		return models.Account{}, ErrAccountNotFound
	}

	acc.Credits += amount
	s.accounts[accountID] = acc
	s.persistAccounts(ctx, log)

	return acc, nil
}

func (s *AccountService) knownPack(pack int) bool {
	for _, p := range s.opts.CreditPacks {
		if p == pack {
			return true
		}
	}
	return false
}

// persistAccounts writes the whole account map. Callers hold the lock.
func (s *AccountService) persistAccounts(ctx context.Context, log *slog.Logger) {
	snapshot := make(map[string]models.Account, len(s.accounts))
	for id, acc := range s.accounts {
		snapshot[id] = acc
	}

	err := s.repo.SaveAccounts(ctx, snapshot)
	s.unsaved = err != nil
	if err != nil {
		metrics.StoragePersistFailuresTotal.WithLabelValues(metrics.StoreAccounts).Inc()
		log.Error("failed to persist accounts", sl.Err(err))
	}
}

// refresh reloads the stored ledger. A missing key keeps the cached map. Callers hold the lock.
func (s *AccountService) refresh(ctx context.Context, log *slog.Logger) {
	if s.unsaved {
		return
	}

	accounts, err := s.repo.Accounts(ctx)
	switch {
	case err == nil && accounts != nil:
		s.accounts = accounts
	case err != nil && !errors.Is(err, storage.ErrKeyNotFound):
		log.Error("failed to reload accounts", sl.Err(err))
	}
}

func (s *AccountService) setSession(ctx context.Context, log *slog.Logger, id string) {
	s.currentID = id

	if err := s.repo.SetCurrentAccountID(ctx, id); err != nil {
		metrics.StoragePersistFailuresTotal.WithLabelValues(metrics.StoreAccounts).Inc()
		log.Error("failed to persist session", sl.Err(err))
	}
}

// wait simulates a remote round-trip.
func (s *AccountService) wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func avatarURL(firstName, lastName string) string {
	name := url.QueryEscape(firstName) + "+" + url.QueryEscape(lastName)
	return avatarBaseURL + "?name=" + name + "&background=154845&color=fff"
}
