package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lucky83149028/CarShop/internal/domain/entities"
)

func populatedLedger(t *testing.T) *Ledger {
	t.Helper()
	ledger, _ := newTestLedger(t)

	for i := 0; i < 3; i++ {
		_, err := ledger.AddNewCar(admin, uint64(100*(i+1)))
		require.NoError(t, err)
	}
	require.NoError(t, ledger.ChangeName(admin, 0, "Tesla Model 3"))
	require.NoError(t, ledger.SellCar(admin, buyer, 1))
	require.NoError(t, ledger.Approve(admin, dealer, 2))
	require.NoError(t, ledger.SetApprovalForAll(buyer, dealer, true))
	return ledger
}

func TestSnapshotRestore_RoundTrip(t *testing.T) {
	ledger := populatedLedger(t)
	snap := ledger.Snapshot()

	restored, err := RestoreLedger(snap, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, ledger.TotalSupply(), restored.TotalSupply())
	assert.Equal(t, admin, restored.Admin())

	for id := uint64(0); id < ledger.TotalSupply(); id++ {
		wantOwner, err := ledger.OwnerOf(id)
		require.NoError(t, err)
		owner, err := restored.OwnerOf(id)
		require.NoError(t, err)
		assert.Equal(t, wantOwner, owner)

		wantPrice, err := ledger.CarPriceByIndex(id)
		require.NoError(t, err)
		price, err := restored.CarPriceByIndex(id)
		require.NoError(t, err)
		assert.Equal(t, wantPrice, price)
	}

	name, err := restored.TokenNameByIndex(0)
	require.NoError(t, err)
	assert.Equal(t, "Tesla Model 3", name)
	assert.True(t, restored.IsNameReserved("tesla model 3"))

	approved, err := restored.GetApproved(2)
	require.NoError(t, err)
	assert.Equal(t, dealer, approved)

	assert.True(t, restored.IsApprovedForAll(buyer, dealer))

	// The rebuilt ledger keeps enforcing invariants
	err = restored.ChangeName(admin, 1, "tesla MODEL 3")
	assert.ErrorIs(t, err, entities.ErrNameTaken)
}

func TestSnapshot_IsACopy(t *testing.T) {
	ledger := populatedLedger(t)
	snap := ledger.Snapshot()

	require.NoError(t, ledger.SellCar(admin, other, 2))

	// Mutating the ledger does not reach into the snapshot
	assert.Equal(t, admin.String(), snap.Cars[2].Owner.String())
}

func TestRestoreLedger_RejectsBadSnapshots(t *testing.T) {
	tests := []struct {
		name string
		snap entities.Snapshot
	}{
		{"zero admin", entities.Snapshot{}},
		{"sparse ids", entities.Snapshot{
			Admin: admin,
			Cars:  []entities.Car{{ID: 1, Owner: admin}},
		}},
		{"zero owner", entities.Snapshot{
			Admin: admin,
			Cars:  []entities.Car{{ID: 0}},
		}},
		{"duplicate folded names", entities.Snapshot{
			Admin: admin,
			Cars: []entities.Car{
				{ID: 0, Owner: admin, Name: "Car 1"},
				{ID: 1, Owner: admin, Name: "CAR 1"},
			},
		}},
		{"zero operator", entities.Snapshot{
			Admin:     admin,
			Operators: []entities.OperatorGrant{{Owner: buyer}},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := RestoreLedger(&tt.snap, nil, nil)
			assert.Error(t, err)
		})
	}
}
