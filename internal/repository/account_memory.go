package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/dashboard-gateway/internal/domain"
)

type memoryAccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]domain.Account
}

// NewMemoryAccountRepository returns a process-local implementation used when
// no database is configured. It mirrors the Postgres repository's errors:
// lookups of unknown accounts return pgx.ErrNoRows.
func NewMemoryAccountRepository() AccountRepository {
	return &memoryAccountRepository{accounts: make(map[string]domain.Account)}
}

func (r *memoryAccountRepository) Create(_ context.Context, account *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	account.Email = strings.ToLower(account.Email)
	now := time.Now().UTC()
	account.ID = uuid.NewString()
	account.CreatedAt = now
	account.UpdatedAt = now
	r.accounts[account.ID] = *account
	return nil
}

func (r *memoryAccountRepository) Update(_ context.Context, account *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.accounts[account.ID]; !ok {
		return pgx.ErrNoRows
	}
	account.Email = strings.ToLower(account.Email)
	account.UpdatedAt = time.Now().UTC()
	r.accounts[account.ID] = *account
	return nil
}

func (r *memoryAccountRepository) GetByID(_ context.Context, id string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	account, ok := r.accounts[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &account, nil
}

func (r *memoryAccountRepository) GetByEmail(_ context.Context, email string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	email = strings.ToLower(email)
	for _, account := range r.accounts {
		if account.Email == email {
			return &account, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memoryAccountRepository) List(_ context.Context, filter AccountFilter) ([]domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Account, 0, len(r.accounts))
	for _, account := range r.accounts {
		if filter.Role != nil && account.Role != *filter.Role {
			continue
		}
		if filter.Active != nil && account.Active != *filter.Active {
			continue
		}
		result = append(result, account)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	if offset >= len(result) {
		return nil, nil
	}
	end := offset + limit
	if end > len(result) {
		end = len(result)
	}
	return result[offset:end], nil
}
