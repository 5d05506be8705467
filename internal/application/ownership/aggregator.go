package ownership

import (
	"context"
	"math"
	"sort"

	"artbridge-backend/internal/application/ledger"
	"artbridge-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// TxQuerier is the slice of the ledger the aggregator reads.
type TxQuerier interface {
	QueryTransactions(ctx context.Context, f ledger.TxFilter) ([]domain.Transaction, error)
}

// Holding is a user's aggregated position in one artwork, before valuation.
// Derived on demand from the transaction ledger, never persisted.
type Holding struct {
	ArtworkID     uuid.UUID `json:"artwork_id"`
	SharesOwned   float64   `json:"shares_owned"`   // sum of ownership percentages
	PurchasePrice float64   `json:"purchase_price"` // cost basis
	TxCount       int       `json:"tx_count"`
}

// Aggregator folds completed fraction purchases into holdings. It is a pure
// function of the transaction set: same ledger snapshot, same result.
type Aggregator struct {
	Ledger TxQuerier
}

// HoldingsForUser groups the user's completed fraction purchases by artwork.
// An artwork whose summed ownership exceeds 100% (concurrent over-purchase
// anomaly) yields a ConsistencyWarning; the value is not clamped, the caller
// decides policy.
func (a *Aggregator) HoldingsForUser(ctx context.Context, userID uuid.UUID) ([]Holding, []domain.Warning, error) {
	txs, err := a.Ledger.QueryTransactions(ctx, ledger.TxFilter{
		BuyerUserID: &userID,
		Type:        "fraction_purchase",
		Status:      "completed",
	})
	if err != nil {
		return nil, nil, &domain.UpstreamUnavailable{Op: "ledger query", Err: err}
	}

	byArtwork := make(map[uuid.UUID]*Holding)
	for _, tx := range txs {
		h, ok := byArtwork[tx.ArtworkID]
		if !ok {
			h = &Holding{ArtworkID: tx.ArtworkID}
			byArtwork[tx.ArtworkID] = h
		}
		h.SharesOwned += tx.ParseMetadata().OwnershipPercentage
		h.PurchasePrice += tx.Amount
		h.TxCount++
	}

	holdings := make([]Holding, 0, len(byArtwork))
	var warnings []domain.Warning
	for _, h := range byArtwork {
		h.SharesOwned = math.Round(h.SharesOwned*10000) / 10000
		h.PurchasePrice = math.Round(h.PurchasePrice*100) / 100
		if h.SharesOwned > 100 {
			log.Warn().Str("artwork_id", h.ArtworkID.String()).Float64("shares_owned", h.SharesOwned).
				Msg("Aggregate ownership exceeds 100%")
			warnings = append(warnings, domain.Warning{
				Code:      domain.WarnConsistency,
				Message:   "Aggregate ownership exceeds 100%",
				ArtworkID: h.ArtworkID,
			})
		}
		holdings = append(holdings, *h)
	}

	// Deterministic output independent of map iteration order.
	sort.Slice(holdings, func(i, j int) bool {
		return holdings[i].ArtworkID.String() < holdings[j].ArtworkID.String()
	})
	return holdings, warnings, nil
}

// OwnershipForArtwork returns the user's cumulative percentage of one artwork
// along with the contributing transactions.
func (a *Aggregator) OwnershipForArtwork(ctx context.Context, userID, artworkID uuid.UUID) (float64, []domain.Transaction, error) {
	txs, err := a.Ledger.QueryTransactions(ctx, ledger.TxFilter{
		BuyerUserID: &userID,
		ArtworkID:   &artworkID,
		Type:        "fraction_purchase",
		Status:      "completed",
	})
	if err != nil {
		return 0, nil, &domain.UpstreamUnavailable{Op: "ledger query", Err: err}
	}
	var total float64
	for _, tx := range txs {
		total += tx.ParseMetadata().OwnershipPercentage
	}
	return math.Round(total*10000) / 10000, txs, nil
}
