// README: Quota service orchestrating credit deduction.
package aiquota

import "context"

// QuotaStore is the persistence surface; *Store implements it.
type QuotaStore interface {
	UseCredit(ctx context.Context, uid string) error
	EnsureUser(ctx context.Context, uid string) error
}

type Service struct {
	store QuotaStore
}

func NewService(store QuotaStore) *Service {
	return &Service{store: store}
}

// UseCredit deducts one announcement credit from the organizer's monthly
// allowance, initialising the row on first use.
func (s *Service) UseCredit(ctx context.Context, uid string) error {
	err := s.store.UseCredit(ctx, uid)
	if err != ErrQuotaExhausted {
		return err
	}

	// Row may be missing: try to create it, then retry the deduction once.
	if initErr := s.store.EnsureUser(ctx, uid); initErr != nil {
		return initErr
	}
	return s.store.UseCredit(ctx, uid)
}
