package handlers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lucky83149028/CarShop/internal/domain/entities"
	"github.com/lucky83149028/CarShop/internal/domain/services"
)

func newTestQueryHandler(t *testing.T) (*QueryHandler, *LedgerHandler) {
	t.Helper()
	ledger, err := services.NewLedger(admin, nil, nil)
	require.NoError(t, err)
	return NewQueryHandler(ledger), NewLedgerHandler(ledger, nil)
}

func TestQueryHandler_HandleCar(t *testing.T) {
	query, mutate := newTestQueryHandler(t)
	ctx := context.Background()

	_, err := mutate.HandleMint(ctx, admin, 250)
	require.NoError(t, err)
	require.NoError(t, mutate.HandleRename(ctx, admin, 0, "Car 1"))

	view, err := query.HandleCar(0)
	require.NoError(t, err)
	assert.Equal(t, &CarView{ID: 0, Owner: admin.String(), Price: 250, Name: "Car 1"}, view)

	_, err = query.HandleCar(1)
	assert.ErrorIs(t, err, entities.ErrNotFound)
}

func TestQueryHandler_HandleList(t *testing.T) {
	query, mutate := newTestQueryHandler(t)
	ctx := context.Background()

	result, err := query.HandleList()
	require.NoError(t, err)
	assert.Empty(t, result.Cars)
	assert.Equal(t, uint64(0), result.Total)

	for i := 0; i < 3; i++ {
		_, err := mutate.HandleMint(ctx, admin, uint64(i*100))
		require.NoError(t, err)
	}
	require.NoError(t, mutate.HandleSell(ctx, admin, buyer, 1))

	result, err = query.HandleList()
	require.NoError(t, err)
	assert.Equal(t, uint64(3), result.Total)
	require.Len(t, result.Cars, 3)
	assert.Equal(t, buyer.String(), result.Cars[1].Owner)

	byOwner, err := query.HandleListByOwner(buyer)
	require.NoError(t, err)
	require.Len(t, byOwner.Cars, 1)
	assert.Equal(t, uint64(1), byOwner.Cars[0].ID)
}

func TestQueryHandler_Lookups(t *testing.T) {
	query, mutate := newTestQueryHandler(t)
	ctx := context.Background()

	_, err := mutate.HandleMint(ctx, admin, 100)
	require.NoError(t, err)
	require.NoError(t, mutate.HandleRename(ctx, admin, 0, "Car 1"))
	require.NoError(t, mutate.HandleSetOperator(ctx, admin, buyer, true))

	assert.Equal(t, uint64(1), query.HandleSupply())
	assert.True(t, query.HandleIsNameReserved("CAR 1"))
	assert.False(t, query.HandleIsNameReserved("Car 2"))
	assert.True(t, query.HandleIsApprovedForAll(admin, buyer))

	balance, err := query.HandleBalance(admin)
	require.NoError(t, err)
	assert.Equal(t, 1, balance)

	_, err = query.HandleBalance(entities.ZeroIdentity)
	assert.ErrorIs(t, err, entities.ErrZeroIdentity)
}
