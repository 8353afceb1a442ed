package verification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/solgate/solgate/internal/notifier"
	"github.com/solgate/solgate/internal/solana"
)

var (
	// ErrMissingInput indicates the request lacked a public key or token.
	// Returned before any I/O is attempted.
	ErrMissingInput = errors.New("missing public key or token")

	// ErrInvalidToken indicates the one-time token is not linked to any user.
	ErrInvalidToken = errors.New("invalid verification token")

	// ErrStoreUnavailable indicates the verification store could not be
	// read or written. Surfaced to callers as an opaque server error.
	ErrStoreUnavailable = errors.New("verification store unavailable")
)

// Options carries the engine's chain parameters and per-dependency deadlines.
type Options struct {
	TokenMint     string
	MinBalance    float64
	RPCTimeout    time.Duration
	StoreTimeout  time.Duration
	NotifyTimeout time.Duration
}

// Service owns the verification state machine: resolve the token to a user,
// query the chain for token custody, persist the outcome, then signal the bot.
type Service struct {
	store    Store
	checker  solana.BalanceChecker
	notifier notifier.Notifier
	logger   *slog.Logger
	opts     Options
}

// NewService constructs the verification engine. All dependencies are shared
// process-wide handles, safe for concurrent use.
func NewService(store Store, checker solana.BalanceChecker, n notifier.Notifier, logger *slog.Logger, opts Options) *Service {
	if opts.RPCTimeout <= 0 {
		opts.RPCTimeout = 10 * time.Second
	}
	if opts.StoreTimeout <= 0 {
		opts.StoreTimeout = 5 * time.Second
	}
	if opts.NotifyTimeout <= 0 {
		opts.NotifyTimeout = 5 * time.Second
	}
	return &Service{store: store, checker: checker, notifier: n, logger: logger, opts: opts}
}

// Verify runs one verification attempt for the claimed wallet and token.
//
// The store write is the durability point: once RecordOutcome succeeds the
// outcome stands regardless of notifier delivery. A failed chain query never
// reaches the store, so a transient RPC outage cannot overwrite a previously
// verified record with verified=false.
func (s *Service) Verify(ctx context.Context, publicKey, token string) (Outcome, error) {
	if publicKey == "" || token == "" {
		return Outcome{}, ErrMissingInput
	}
	if err := solana.ValidateAddress(publicKey); err != nil {
		return Outcome{}, err
	}

	findCtx, cancel := context.WithTimeout(ctx, s.opts.StoreTimeout)
	defer cancel()
	userID, err := s.store.FindByToken(findCtx, token)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Outcome{}, ErrInvalidToken
		}
		s.logger.Error("verification lookup failed", "token", token, "error", err)
		return Outcome{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	rpcCtx, cancel := context.WithTimeout(ctx, s.opts.RPCTimeout)
	defer cancel()
	holds, err := s.checker.HoldsMinimumBalance(rpcCtx, publicKey, s.opts.TokenMint, s.opts.MinBalance)
	if err != nil {
		// Could not verify, which is not the same as verified=false. The
		// record stays untouched so a prior outcome survives RPC outages.
		s.logger.Error("token balance check failed", "user_id", userID, "public_key", publicKey, "error", err)
		return Outcome{}, err
	}

	writeCtx, cancel := context.WithTimeout(ctx, s.opts.StoreTimeout)
	defer cancel()
	if err := s.store.RecordOutcome(writeCtx, userID, token, publicKey, holds); err != nil {
		if errors.Is(err, ErrNotFound) {
			// The pair stopped matching between lookup and write.
			return Outcome{}, ErrInvalidToken
		}
		s.logger.Error("record outcome failed", "user_id", userID, "token", token, "error", err)
		return Outcome{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	if s.notifier != nil {
		pushCtx, cancel := context.WithTimeout(ctx, s.opts.NotifyTimeout)
		defer cancel()
		if err := s.notifier.Push(pushCtx, userID, holds, token); err != nil {
			// Best-effort side channel: the recorded outcome stands.
			s.logger.Error("notifier push failed", "user_id", userID, "token", token, "verified", holds, "error", err)
		}
	}

	s.logger.Info("verification completed", "user_id", userID, "public_key", publicKey, "verified", holds)

	return Outcome{UserID: userID, PublicKey: publicKey, Verified: holds}, nil
}
