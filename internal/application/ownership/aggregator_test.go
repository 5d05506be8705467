package ownership

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"artbridge-backend/internal/application/ledger"
	"artbridge-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

type fakeLedger struct {
	txs []domain.Transaction
	err error
}

func (f *fakeLedger) QueryTransactions(ctx context.Context, _ ledger.TxFilter) ([]domain.Transaction, error) {
	return f.txs, f.err
}

func purchaseTx(artworkID uuid.UUID, amount, pct float64) domain.Transaction {
	meta, _ := json.Marshal(domain.TxMetadata{OwnershipPercentage: pct})
	return domain.Transaction{
		TxID:      uuid.New(),
		Type:      "fraction_purchase",
		ArtworkID: artworkID,
		Amount:    amount,
		Status:    "completed",
		Metadata:  datatypes.JSON(meta),
	}
}

func TestHoldingsForUser_FoldsByArtwork(t *testing.T) {
	a1 := uuid.New()
	a2 := uuid.New()
	agg := &Aggregator{Ledger: &fakeLedger{txs: []domain.Transaction{
		purchaseTx(a1, 10, 10),
		purchaseTx(a1, 5.5, 5.5),
		purchaseTx(a2, 20, 2),
	}}}

	holdings, warnings, err := agg.HoldingsForUser(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Empty(t, warnings)
	require.Len(t, holdings, 2)

	byArtwork := map[uuid.UUID]Holding{}
	for _, h := range holdings {
		byArtwork[h.ArtworkID] = h
	}
	assert.Equal(t, 15.5, byArtwork[a1].SharesOwned)
	assert.Equal(t, 15.5, byArtwork[a1].PurchasePrice)
	assert.Equal(t, 2, byArtwork[a1].TxCount)
	assert.Equal(t, 2.0, byArtwork[a2].SharesOwned)
}

func TestHoldingsForUser_OverHundredPercentWarnsWithoutClamping(t *testing.T) {
	a := uuid.New()
	agg := &Aggregator{Ledger: &fakeLedger{txs: []domain.Transaction{
		purchaseTx(a, 60, 60),
		purchaseTx(a, 50, 50),
	}}}

	holdings, warnings, err := agg.HoldingsForUser(context.Background(), uuid.New())
	require.NoError(t, err)
	require.Len(t, holdings, 1)
	assert.Equal(t, 110.0, holdings[0].SharesOwned)
	require.Len(t, warnings, 1)
	assert.Equal(t, domain.WarnConsistency, warnings[0].Code)
	assert.Equal(t, a, warnings[0].ArtworkID)
}

func TestHoldingsForUser_DeterministicOrder(t *testing.T) {
	txs := []domain.Transaction{
		purchaseTx(uuid.New(), 1, 1),
		purchaseTx(uuid.New(), 2, 2),
		purchaseTx(uuid.New(), 3, 3),
	}
	agg := &Aggregator{Ledger: &fakeLedger{txs: txs}}

	first, _, err := agg.HoldingsForUser(context.Background(), uuid.New())
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, _, err := agg.HoldingsForUser(context.Background(), uuid.New())
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestHoldingsForUser_MalformedMetadataCountsZero(t *testing.T) {
	a := uuid.New()
	bad := domain.Transaction{
		TxID: uuid.New(), Type: "fraction_purchase", ArtworkID: a,
		Amount: 10, Status: "completed", Metadata: datatypes.JSON([]byte("not-json")),
	}
	agg := &Aggregator{Ledger: &fakeLedger{txs: []domain.Transaction{bad}}}

	holdings, _, err := agg.HoldingsForUser(context.Background(), uuid.New())
	require.NoError(t, err)
	require.Len(t, holdings, 1)
	assert.Equal(t, 0.0, holdings[0].SharesOwned)
	assert.Equal(t, 10.0, holdings[0].PurchasePrice)
}

func TestHoldingsForUser_LedgerErrorIsUpstreamUnavailable(t *testing.T) {
	agg := &Aggregator{Ledger: &fakeLedger{err: errors.New("connection refused")}}
	_, _, err := agg.HoldingsForUser(context.Background(), uuid.New())
	assert.True(t, domain.IsUpstreamUnavailable(err))
}

func TestOwnershipForArtwork_SumsContributions(t *testing.T) {
	a := uuid.New()
	agg := &Aggregator{Ledger: &fakeLedger{txs: []domain.Transaction{
		purchaseTx(a, 10, 10),
		purchaseTx(a, 2.25, 2.25),
	}}}

	total, txs, err := agg.OwnershipForArtwork(context.Background(), uuid.New(), a)
	require.NoError(t, err)
	assert.Equal(t, 12.25, total)
	assert.Len(t, txs, 2)
}
