package valuation

import (
	"context"
	"encoding/json"
	"math"
	"time"

	"artbridge-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const cachePrefix = "valuation:"

// Valuation is the estimated current value of a whole artwork.
type Valuation struct {
	Value float64   `json:"value"`
	AsOf  time.Time `json:"as_of"`
}

// Estimator maps an artwork to a current value. Pluggable policy; portfolio
// computation degrades to cost basis when an estimator is unavailable.
type Estimator interface {
	Estimate(ctx context.Context, artworkID uuid.UUID) (Valuation, error)
}

// IndexSource supplies a market-index drift factor per artwork. The factor is
// externally fed and reproducible — valuation is never a random simulation.
type IndexSource interface {
	Factor(ctx context.Context, artworkID uuid.UUID) (float64, error)
}

// StaticIndex applies one configured factor to every artwork.
type StaticIndex struct {
	Drift float64
}

func (s *StaticIndex) Factor(ctx context.Context, artworkID uuid.UUID) (float64, error) {
	return s.Drift, nil
}

// Service estimates artwork values from the last transaction price with a
// bounded multiplicative drift, cached in Redis per artwork with a TTL
// (successor of the valuation_cache table with ttl_seconds).
type Service struct {
	DB       *gorm.DB
	Rdb      *redis.Client
	Index    IndexSource
	TTL      time.Duration
	MaxDrift float64 // drift factor clamped to [-MaxDrift, +MaxDrift]
}

func (s *Service) Estimate(ctx context.Context, artworkID uuid.UUID) (Valuation, error) {
	key := cachePrefix + artworkID.String()
	if s.Rdb != nil {
		if b, err := s.Rdb.Get(ctx, key).Bytes(); err == nil {
			var v Valuation
			if json.Unmarshal(b, &v) == nil {
				return v, nil
			}
		}
	}

	base, err := s.basePrice(ctx, artworkID)
	if err != nil {
		return Valuation{}, err
	}

	factor := 0.0
	if s.Index != nil {
		f, err := s.Index.Factor(ctx, artworkID)
		if err != nil {
			return Valuation{}, &domain.UpstreamUnavailable{Op: "market index", Err: err}
		}
		factor = f
	}
	if s.MaxDrift > 0 {
		factor = math.Max(-s.MaxDrift, math.Min(s.MaxDrift, factor))
	}

	v := Valuation{
		Value: math.Round(base*(1+factor)*100) / 100,
		AsOf:  time.Now(),
	}

	if s.Rdb != nil {
		ttl := s.TTL
		if ttl <= 0 {
			ttl = 5 * time.Minute
		}
		b, _ := json.Marshal(v)
		if err := s.Rdb.Set(ctx, key, b, ttl).Err(); err != nil {
			// Cache is best-effort; a Redis outage must not fail the estimate.
			log.Warn().Err(err).Str("artwork_id", artworkID.String()).Msg("Valuation cache write failed")
		}
	}
	return v, nil
}

// basePrice is the whole-artwork value implied by the most recent completed
// fraction purchase (amount scaled up by the purchased percentage), falling
// back to the list price when the artwork has never traded.
func (s *Service) basePrice(ctx context.Context, artworkID uuid.UUID) (float64, error) {
	var artwork domain.Artwork
	if err := s.DB.WithContext(ctx).Where("artwork_id = ?", artworkID).First(&artwork).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return 0, domain.Validationf("Artwork not found")
		}
		return 0, &domain.UpstreamUnavailable{Op: "artwork lookup", Err: err}
	}

	var last domain.Transaction
	err := s.DB.WithContext(ctx).
		Where("artwork_id = ? AND transaction_type = ? AND status = ?", artworkID, "fraction_purchase", "completed").
		Order("created_at DESC").
		First(&last).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return artwork.PriceAmount, nil
		}
		return 0, &domain.UpstreamUnavailable{Op: "ledger query", Err: err}
	}

	pct := last.ParseMetadata().OwnershipPercentage
	if pct <= 0 {
		return artwork.PriceAmount, nil
	}
	return math.Round(last.Amount/pct*100*100) / 100, nil
}

// Invalidate drops the cached valuation for an artwork (e.g. after a trade).
func (s *Service) Invalidate(ctx context.Context, artworkID uuid.UUID) {
	if s.Rdb == nil {
		return
	}
	s.Rdb.Del(ctx, cachePrefix+artworkID.String())
}
