package portfolio

import (
	"context"
	"math"
	"sort"
	"time"

	"artbridge-backend/internal/application/ownership"
	"artbridge-backend/internal/application/valuation"
	"artbridge-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Stats are portfolio-level aggregates across all holdings.
type Stats struct {
	TotalValue         float64 `json:"total_value"`
	TotalInvested      float64 `json:"total_invested"`
	TotalGains         float64 `json:"total_gains"`
	GainsPercentage    float64 `json:"gains_percentage"`
	ArtworksOwned      int     `json:"artworks_owned"`
	ActiveTransactions int     `json:"active_transactions"`
}

// Holding is one valued position, ready for presentation.
type Holding struct {
	ArtworkID           uuid.UUID `json:"artwork_id"`
	ArtworkTitle        string    `json:"artwork_title"`
	ArtworkImage        *string   `json:"artwork_image,omitempty"`
	SharesOwned         float64   `json:"shares_owned"`
	TotalFractions      int       `json:"total_fractions"`
	OwnershipPercentage float64   `json:"ownership_percentage"`
	PurchasePrice       float64   `json:"purchase_price"`
	CurrentValue        float64   `json:"current_value"`
	Gains               float64   `json:"gains"`
	GainsPercentage     float64   `json:"gains_percentage"`
}

type Portfolio struct {
	Stats    Stats            `json:"stats"`
	Holdings []Holding        `json:"holdings"`
	Warnings []domain.Warning `json:"warnings,omitempty"`
}

// Service composes the ownership aggregator with the valuation estimator.
// Read-only; safe to run fully in parallel over a consistent snapshot.
type Service struct {
	DB              *gorm.DB
	Aggregator      *ownership.Aggregator
	Estimator       valuation.Estimator
	EstimateTimeout time.Duration // bounded wait before degrading to cost basis
}

// ComputePortfolio builds per-user stats and a ranked holdings list. An
// unavailable estimator degrades that holding to its cost basis (flat,
// zero-gain) with a warning — never a hard failure on the read path.
func (s *Service) ComputePortfolio(ctx context.Context, userID uuid.UUID) (*Portfolio, error) {
	skeletons, warnings, err := s.Aggregator.HoldingsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	artworks, err := s.artworksByID(ctx, skeletons)
	if err != nil {
		return nil, err
	}

	holdings := make([]Holding, 0, len(skeletons))
	var totalValue, totalInvested float64
	txCount := 0
	for _, sk := range skeletons {
		h := Holding{
			ArtworkID:     sk.ArtworkID,
			SharesOwned:   sk.SharesOwned,
			PurchasePrice: sk.PurchasePrice,
		}
		if a, ok := artworks[sk.ArtworkID]; ok {
			h.ArtworkTitle = a.Title
			h.ArtworkImage = a.ImageURL
			h.TotalFractions = a.FractionsTotal
		}
		h.OwnershipPercentage = sk.SharesOwned

		value, degraded := s.estimate(ctx, sk.ArtworkID)
		if degraded {
			// Flat, zero-gain assumption until the estimator recovers.
			h.CurrentValue = sk.PurchasePrice
			warnings = append(warnings, domain.Warning{
				Code:      domain.WarnValuationDegraded,
				Message:   "Valuation unavailable, showing cost basis",
				ArtworkID: sk.ArtworkID,
			})
		} else {
			h.CurrentValue = math.Round(value*sk.SharesOwned) / 100
		}
		h.Gains = math.Round((h.CurrentValue-h.PurchasePrice)*100) / 100
		if h.PurchasePrice > 0 {
			h.GainsPercentage = math.Round(h.Gains/h.PurchasePrice*100*100) / 100
		}

		totalValue += h.CurrentValue
		totalInvested += h.PurchasePrice
		txCount += sk.TxCount
		holdings = append(holdings, h)
	}

	// Top holdings first; ties broken by artwork id for determinism.
	sort.Slice(holdings, func(i, j int) bool {
		if holdings[i].CurrentValue != holdings[j].CurrentValue {
			return holdings[i].CurrentValue > holdings[j].CurrentValue
		}
		return holdings[i].ArtworkID.String() < holdings[j].ArtworkID.String()
	})

	stats := Stats{
		TotalValue:         math.Round(totalValue*100) / 100,
		TotalInvested:      math.Round(totalInvested*100) / 100,
		ArtworksOwned:      len(holdings),
		ActiveTransactions: txCount,
	}
	stats.TotalGains = math.Round((stats.TotalValue-stats.TotalInvested)*100) / 100
	if stats.TotalInvested > 0 {
		stats.GainsPercentage = math.Round(stats.TotalGains/stats.TotalInvested*100*100) / 100
	}

	return &Portfolio{Stats: stats, Holdings: holdings, Warnings: warnings}, nil
}

// estimate returns the whole-artwork value and whether the result is degraded.
func (s *Service) estimate(ctx context.Context, artworkID uuid.UUID) (float64, bool) {
	if s.Estimator == nil {
		return 0, true
	}
	ectx := ctx
	if s.EstimateTimeout > 0 {
		var cancel context.CancelFunc
		ectx, cancel = context.WithTimeout(ctx, s.EstimateTimeout)
		defer cancel()
	}
	v, err := s.Estimator.Estimate(ectx, artworkID)
	if err != nil {
		log.Warn().Err(err).Str("artwork_id", artworkID.String()).Msg("Valuation degraded to cost basis")
		return 0, true
	}
	return v.Value, false
}

func (s *Service) artworksByID(ctx context.Context, skeletons []ownership.Holding) (map[uuid.UUID]domain.Artwork, error) {
	out := make(map[uuid.UUID]domain.Artwork, len(skeletons))
	if len(skeletons) == 0 {
		return out, nil
	}
	ids := make([]uuid.UUID, 0, len(skeletons))
	for _, sk := range skeletons {
		ids = append(ids, sk.ArtworkID)
	}
	var artworks []domain.Artwork
	if err := s.DB.WithContext(ctx).Where("artwork_id IN ?", ids).Find(&artworks).Error; err != nil {
		return nil, &domain.UpstreamUnavailable{Op: "artwork lookup", Err: err}
	}
	for _, a := range artworks {
		out[a.ArtworkID] = a
	}
	return out, nil
}
