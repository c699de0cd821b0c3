package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lucky83149028/CarShop/internal/domain/entities"
	"github.com/lucky83149028/CarShop/internal/infrastructure/config"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	repo, err := NewRepository(config.SQLiteConfig{
		Path: filepath.Join(t.TempDir(), "ledger.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	require.NoError(t, repo.EnsureSchema(context.Background()))
	return repo
}

func TestNewRepository_RequiresPath(t *testing.T) {
	_, err := NewRepository(config.SQLiteConfig{})
	assert.Error(t, err)
}

func TestRepository_LoadEmpty(t *testing.T) {
	repo := newTestRepository(t)

	snap, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, snap)
}

func TestRepository_SaveLoadRoundTrip(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	want := &entities.Snapshot{
		Admin: "0xadmin",
		Cars: []entities.Car{
			{ID: 0, Owner: "0xadmin", Price: 100, Name: "Tesla Model 3"},
			{ID: 1, Owner: "0xbuyer", Price: 250, Approved: "0xdealer"},
		},
		Operators: []entities.OperatorGrant{
			{Owner: "0xbuyer", Operator: "0xdealer"},
		},
	}
	require.NoError(t, repo.Save(ctx, want))

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestRepository_SaveReplaces(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	first := &entities.Snapshot{
		Admin: "0xadmin",
		Cars: []entities.Car{
			{ID: 0, Owner: "0xadmin", Price: 100},
			{ID: 1, Owner: "0xadmin", Price: 200},
		},
		Operators: []entities.OperatorGrant{{Owner: "0xa", Operator: "0xb"}},
	}
	require.NoError(t, repo.Save(ctx, first))

	second := &entities.Snapshot{
		Admin: "0xadmin",
		Cars: []entities.Car{
			{ID: 0, Owner: "0xbuyer", Price: 100},
		},
	}
	require.NoError(t, repo.Save(ctx, second))

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, second, got)
}

func TestRepository_Journal(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	repo.Transfer(entities.ZeroIdentity, "0xadmin", 0)
	repo.Sold("0xbuyer", 0)
	repo.NameChange(0, "Car 1")
	repo.Approval("0xbuyer", "0xdealer", 0)
	repo.ApprovalForAll("0xbuyer", "0xdealer", true)
	require.NoError(t, repo.JournalErr())

	events, err := repo.Events(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 5)

	kinds := make(map[string]int)
	for _, ev := range events {
		assert.NotEmpty(t, ev.ID)
		assert.NotEmpty(t, ev.Details)
		kinds[ev.Kind]++
	}
	assert.Equal(t, map[string]int{
		entities.EventTransfer:       1,
		entities.EventSold:           1,
		entities.EventNameChange:     1,
		entities.EventApproval:       1,
		entities.EventApprovalForAll: 1,
	}, kinds)
}

func TestRepository_JournalDetails(t *testing.T) {
	repo := newTestRepository(t)

	repo.Sold("0xbuyer", 3)

	events, err := repo.Events(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, entities.EventSold, events[0].Kind)
	assert.Equal(t, "0xbuyer", events[0].Details["to"])
	// JSON numbers decode as float64
	assert.Equal(t, float64(3), events[0].Details["id"])
}
