package repository

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/dashboard-gateway/internal/domain"
)

func TestMemoryAccountRepositoryLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryAccountRepository()

	account := &domain.Account{Name: "Ana", Email: "Ana@Example.com", Role: domain.RoleManager, Active: true}
	require.NoError(t, repo.Create(ctx, account))
	require.NotEmpty(t, account.ID)

	byEmail, err := repo.GetByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, account.ID, byEmail.ID)

	byEmail.Active = false
	require.NoError(t, repo.Update(ctx, byEmail))

	byID, err := repo.GetByID(ctx, account.ID)
	require.NoError(t, err)
	assert.False(t, byID.Active)

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, pgx.ErrNoRows)
	assert.ErrorIs(t, repo.Update(ctx, &domain.Account{ID: "missing"}), pgx.ErrNoRows)
}

func TestMemoryAccountRepositoryListFilters(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryAccountRepository()
	for _, a := range []domain.Account{
		{Email: "a@x", Role: domain.RoleStaff, Active: true},
		{Email: "b@x", Role: domain.RoleAdmin, Active: true},
		{Email: "c@x", Role: domain.RoleStaff, Active: false},
	} {
		a := a
		require.NoError(t, repo.Create(ctx, &a))
	}

	staff := domain.RoleStaff
	active := true
	list, err := repo.List(ctx, AccountFilter{Role: &staff, Active: &active})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "a@x", list[0].Email)

	all, err := repo.List(ctx, AccountFilter{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	none, err := repo.List(ctx, AccountFilter{Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, none)
}
