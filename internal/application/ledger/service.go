package ledger

import (
	"context"
	"encoding/json"
	"math"
	"time"

	"artbridge-backend/internal/domain"
	"artbridge-backend/internal/pkg/events"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Service is the durable, append-mostly store for artworks, transactions and
// bids. All write paths are single DB transactions: availability checks and
// decrements happen in one conditional UPDATE, never read-then-write.
type Service struct {
	DB     *gorm.DB
	Events events.Publisher
}

type CreateArtworkInput struct {
	Title          string
	Description    *string
	ImageURL       *string
	OwnerUserID    uuid.UUID
	PriceAmount    float64
	PriceDenom     string
	FractionsTotal int
	Status         string
}

func (s *Service) CreateArtwork(ctx context.Context, in CreateArtworkInput) (*domain.Artwork, error) {
	if in.Title == "" {
		return nil, domain.Validationf("Title is required")
	}
	if in.PriceAmount <= 0 {
		return nil, domain.Validationf("Price must be a positive number")
	}
	if in.FractionsTotal < 1 {
		return nil, domain.Validationf("Total fractions must be at least 1")
	}

	var owner domain.User
	if err := s.DB.WithContext(ctx).Where("user_id = ?", in.OwnerUserID).First(&owner).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.Validationf("Owner not found")
		}
		return nil, err
	}
	if owner.Role != "artist" {
		return nil, domain.Validationf("Only artists can create artworks")
	}

	status := in.Status
	if status == "" {
		status = "available"
	}
	denom := in.PriceDenom
	if denom == "" {
		denom = "USD"
	}

	artwork := &domain.Artwork{
		Title:              in.Title,
		Description:        in.Description,
		ImageURL:           in.ImageURL,
		OwnerUserID:        in.OwnerUserID,
		PriceAmount:        math.Round(in.PriceAmount*100) / 100,
		PriceDenom:         denom,
		FractionsTotal:     in.FractionsTotal,
		FractionsAvailable: in.FractionsTotal,
		Status:             status,
	}
	if err := s.DB.WithContext(ctx).Create(artwork).Error; err != nil {
		return nil, err
	}
	return artwork, nil
}

func (s *Service) GetArtwork(ctx context.Context, artworkID uuid.UUID) (*domain.Artwork, error) {
	var artwork domain.Artwork
	if err := s.DB.WithContext(ctx).Where("artwork_id = ?", artworkID).First(&artwork).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.Validationf("Artwork not found")
		}
		return nil, err
	}
	return &artwork, nil
}

type RecordTransactionInput struct {
	Type                string
	BuyerUserID         uuid.UUID
	SellerUserID        *uuid.UUID
	ArtworkID           uuid.UUID
	Amount              float64
	Currency            string
	Status              string
	OwnershipPercentage float64
	FractionCount       int
}

// RecordTransaction appends a ledger entry. For a completed fraction_purchase
// the availability decrement and the insert succeed or fail together; the
// decrement is a conditional UPDATE so two concurrent purchases can never
// oversell the artwork.
func (s *Service) RecordTransaction(ctx context.Context, in RecordTransactionInput) (*domain.Transaction, error) {
	switch in.Type {
	case "fraction_purchase", "sale", "bid":
	default:
		return nil, domain.Validationf("Invalid transaction type %q", in.Type)
	}
	if in.Amount <= 0 {
		return nil, domain.Validationf("Amount must be a positive number")
	}
	status := in.Status
	if status == "" {
		status = "pending"
	}
	currency := in.Currency
	if currency == "" {
		currency = "USD"
	}

	fractionCount := in.FractionCount
	if in.Type == "fraction_purchase" {
		if in.OwnershipPercentage <= 0 {
			return nil, domain.Validationf("Ownership percentage must be a positive number")
		}
		if fractionCount < 1 {
			fractionCount = 1
		}
	}

	txRecord := &domain.Transaction{
		Type:         in.Type,
		BuyerUserID:  in.BuyerUserID,
		SellerUserID: in.SellerUserID,
		ArtworkID:    in.ArtworkID,
		Amount:       math.Round(in.Amount*100) / 100,
		Currency:     currency,
		Status:       status,
	}
	if in.Type == "fraction_purchase" {
		meta, _ := json.Marshal(domain.TxMetadata{
			OwnershipPercentage:      in.OwnershipPercentage,
			FractionCount:            fractionCount,
			PurchasePricePerFraction: math.Round(in.Amount/float64(fractionCount)*100) / 100,
		})
		txRecord.Metadata = datatypes.JSON(meta)
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if in.Type == "fraction_purchase" && status == "completed" {
			res := tx.Model(&domain.Artwork{}).
				Where("artwork_id = ? AND fractions_available >= ?", in.ArtworkID, fractionCount).
				UpdateColumn("fractions_available", gorm.Expr("fractions_available - ?", fractionCount))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				var artwork domain.Artwork
				if err := tx.Where("artwork_id = ?", in.ArtworkID).First(&artwork).Error; err != nil {
					if err == gorm.ErrRecordNotFound {
						return domain.Validationf("Artwork not found")
					}
					return err
				}
				return domain.Conflictf("Insufficient fractions available")
			}
			// Lifecycle: available -> sold once the last fraction is gone.
			if err := tx.Model(&domain.Artwork{}).
				Where("artwork_id = ? AND fractions_available = 0 AND status = ?", in.ArtworkID, "available").
				UpdateColumn("status", "sold").Error; err != nil {
				return err
			}
		}
		return tx.Create(txRecord).Error
	})
	if err != nil {
		return nil, err
	}

	if status == "completed" && s.Events != nil {
		_ = s.Events.Publish(ctx, events.Event{
			Type: events.TypeTransactionCompleted,
			Payload: map[string]interface{}{
				"tx_id":            txRecord.TxID.String(),
				"artwork_id":       txRecord.ArtworkID.String(),
				"buyer_user_id":    txRecord.BuyerUserID.String(),
				"amount":           txRecord.Amount,
				"transaction_type": txRecord.Type,
			},
			OccurredAt: time.Now(),
		})
	}
	return txRecord, nil
}

// TxFilter selects ledger entries. Zero-value fields are not applied.
type TxFilter struct {
	BuyerUserID  *uuid.UUID
	SellerUserID *uuid.UUID
	ArtworkID    *uuid.UUID
	Type         string
	Status       string
}

// QueryTransactions returns matching entries ordered by creation time
// descending. The query is restartable; callers treat the result as a
// point-in-time snapshot.
func (s *Service) QueryTransactions(ctx context.Context, f TxFilter) ([]domain.Transaction, error) {
	q := s.DB.WithContext(ctx).Model(&domain.Transaction{})
	if f.BuyerUserID != nil {
		q = q.Where("buyer_user_id = ?", *f.BuyerUserID)
	}
	if f.SellerUserID != nil {
		q = q.Where("seller_user_id = ?", *f.SellerUserID)
	}
	if f.ArtworkID != nil {
		q = q.Where("artwork_id = ?", *f.ArtworkID)
	}
	if f.Type != "" {
		q = q.Where("transaction_type = ?", f.Type)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}

	var txs []domain.Transaction
	if err := q.Order("created_at DESC").Find(&txs).Error; err != nil {
		return nil, err
	}
	return txs, nil
}

// RecordBid appends an accepted bid. The denormalized current_bid update is a
// compare-and-set against the highest bid the caller observed: if another bid
// landed in between, zero rows match and the caller gets a ConflictError to
// retry with refreshed state. Bid row, pending ledger entry and auction update
// commit together.
func (s *Service) RecordBid(ctx context.Context, auction *domain.Auction, bidderUserID uuid.UUID, amount, observedHighest float64) (*domain.Bid, error) {
	bid := &domain.Bid{
		AuctionID:    auction.AuctionID,
		BidderUserID: bidderUserID,
		Amount:       math.Round(amount*100) / 100,
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&domain.Auction{}).
			Where("auction_id = ? AND status = ? AND COALESCE(current_bid, start_price) = ?",
				auction.AuctionID, "active", observedHighest).
			Updates(map[string]interface{}{
				"current_bid": bid.Amount,
				"bid_count":   gorm.Expr("bid_count + 1"),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.Conflictf("Highest bid changed, refresh and retry")
		}
		if err := tx.Create(bid).Error; err != nil {
			return err
		}
		sellerID := auction.SellerUserID
		return tx.Create(&domain.Transaction{
			Type:         "bid",
			BuyerUserID:  bidderUserID,
			SellerUserID: &sellerID,
			ArtworkID:    auction.ArtworkID,
			Amount:       bid.Amount,
			Currency:     "USD",
			Status:       "pending",
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return bid, nil
}
