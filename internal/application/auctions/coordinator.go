package auctions

import (
	"context"
	"math"
	"time"

	"artbridge-backend/internal/application/ledger"
	"artbridge-backend/internal/domain"
	"artbridge-backend/internal/pkg/events"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// DefaultMinIncrement: a new bid must exceed the current highest by 5%.
const DefaultMinIncrement = 0.05

// Coordinator drives the auction state machine (scheduled -> active ->
// closed_sold | closed_unsold, cancelled from scheduled/active) and enforces
// the bid-ordering and minimum-increment rules.
type Coordinator struct {
	DB           *gorm.DB
	Ledger       *ledger.Service
	Events       events.Publisher
	MinIncrement float64
	Now          func() time.Time // injectable clock for time-driven transitions
}

func (c *Coordinator) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

func (c *Coordinator) minIncrement() float64 {
	if c.MinIncrement > 0 {
		return c.MinIncrement
	}
	return DefaultMinIncrement
}

type CreateAuctionInput struct {
	ArtworkID    uuid.UUID
	SellerUserID uuid.UUID
	StartPrice   float64
	ReservePrice *float64
	StartsAt     *time.Time
	EndsAt       *time.Time
}

func (c *Coordinator) CreateAuction(ctx context.Context, in CreateAuctionInput) (*domain.Auction, error) {
	if in.StartPrice <= 0 {
		return nil, domain.Validationf("Start price must be a positive number")
	}
	if in.ReservePrice != nil && *in.ReservePrice < in.StartPrice {
		return nil, domain.Validationf("Reserve price cannot be below start price")
	}
	if in.StartsAt != nil && in.EndsAt != nil && !in.EndsAt.After(*in.StartsAt) {
		return nil, domain.Validationf("Auction must end after it starts")
	}

	var artwork domain.Artwork
	if err := c.DB.WithContext(ctx).Where("artwork_id = ?", in.ArtworkID).First(&artwork).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.Validationf("Artwork not found")
		}
		return nil, err
	}
	if artwork.OwnerUserID != in.SellerUserID {
		return nil, domain.Validationf("Only the artwork owner can open an auction")
	}

	status := "scheduled"
	if in.StartsAt == nil || !in.StartsAt.After(c.now()) {
		status = "active"
	}
	auction := &domain.Auction{
		ArtworkID:    in.ArtworkID,
		SellerUserID: in.SellerUserID,
		StartPrice:   math.Round(in.StartPrice*100) / 100,
		ReservePrice: in.ReservePrice,
		Status:       status,
		StartsAt:     in.StartsAt,
		EndsAt:       in.EndsAt,
	}
	if err := c.DB.WithContext(ctx).Create(auction).Error; err != nil {
		return nil, err
	}
	return auction, nil
}

// PlaceBid validates and appends a bid while the auction is active. The
// acceptance itself is a compare-and-set in the ledger: a concurrent bid that
// lands first turns this one into a ConflictError, never two bids that both
// believe themselves highest.
func (c *Coordinator) PlaceBid(ctx context.Context, auctionID, bidderUserID uuid.UUID, amount float64) (*domain.Bid, error) {
	auction, err := c.getAuction(ctx, auctionID)
	if err != nil {
		return nil, err
	}
	auction, err = c.applyTimeTransitions(ctx, auction)
	if err != nil {
		return nil, err
	}

	if auction.Status != "active" {
		return nil, domain.Validationf("Auction is not active")
	}
	if bidderUserID == auction.SellerUserID {
		return nil, domain.Validationf("Seller cannot bid on their own auction")
	}

	highest := auction.HighestBid()
	minimumBid := math.Round(highest*(1+c.minIncrement())*100) / 100
	if amount < minimumBid {
		return nil, domain.Validationf("Minimum bid is %.2f", minimumBid)
	}

	bid, err := c.Ledger.RecordBid(ctx, auction, bidderUserID, amount, highest)
	if err != nil {
		return nil, err
	}

	if c.Events != nil {
		_ = c.Events.Publish(ctx, events.Event{
			Type: events.TypeBidAccepted,
			Payload: map[string]interface{}{
				"auction_id":     auction.AuctionID.String(),
				"bid_id":         bid.BidID.String(),
				"bidder_user_id": bidderUserID.String(),
				"amount":         bid.Amount,
			},
			OccurredAt: c.now(),
		})
	}
	return bid, nil
}

// Close resolves an active auction on the seller's request. Scheduled
// auctions cannot be closed, only cancelled. Reserve unmet (or no bids)
// resolves to closed_unsold; otherwise closed_sold. Settlement of the winning
// bid into a fraction purchase is a follow-up write, out of scope here.
func (c *Coordinator) Close(ctx context.Context, auctionID, sellerUserID uuid.UUID) (*domain.Auction, error) {
	auction, err := c.getAuction(ctx, auctionID)
	if err != nil {
		return nil, err
	}
	if auction.SellerUserID != sellerUserID {
		return nil, domain.Validationf("Only the seller can close an auction")
	}
	if auction.Status != "active" {
		return nil, domain.Validationf("Auction is not active")
	}
	return c.resolve(ctx, auction)
}

// resolve writes the close resolution for an active auction.
func (c *Coordinator) resolve(ctx context.Context, auction *domain.Auction) (*domain.Auction, error) {
	resolved := "closed_unsold"
	if auction.CurrentBid != nil {
		if auction.ReservePrice == nil || *auction.CurrentBid >= *auction.ReservePrice {
			resolved = "closed_sold"
		}
	}
	if err := c.DB.WithContext(ctx).Model(auction).Update("status", resolved).Error; err != nil {
		return nil, err
	}
	log.Info().Str("auction_id", auction.AuctionID.String()).Str("resolution", resolved).Msg("Auction closed")
	auction.Status = resolved
	return auction, nil
}

// Cancel moves a scheduled or active auction to cancelled. Seller only.
func (c *Coordinator) Cancel(ctx context.Context, auctionID, sellerUserID uuid.UUID) (*domain.Auction, error) {
	auction, err := c.getAuction(ctx, auctionID)
	if err != nil {
		return nil, err
	}
	if auction.SellerUserID != sellerUserID {
		return nil, domain.Validationf("Only the seller can cancel an auction")
	}
	if auction.Status != "scheduled" && auction.Status != "active" {
		return nil, domain.Validationf("Auction cannot be cancelled from status %q", auction.Status)
	}
	if err := c.DB.WithContext(ctx).Model(auction).Update("status", "cancelled").Error; err != nil {
		return nil, err
	}
	auction.Status = "cancelled"
	return auction, nil
}

// CloseDue resolves every active auction whose end time has passed.
// Suitable for a periodic sweep.
func (c *Coordinator) CloseDue(ctx context.Context) (int, error) {
	var due []domain.Auction
	if err := c.DB.WithContext(ctx).
		Where("status = ? AND ends_at IS NOT NULL AND ends_at <= ?", "active", c.now()).
		Find(&due).Error; err != nil {
		return 0, err
	}
	closed := 0
	for i := range due {
		if _, err := c.resolve(ctx, &due[i]); err != nil {
			log.Warn().Err(err).Str("auction_id", due[i].AuctionID.String()).Msg("Auction close failed")
			continue
		}
		closed++
	}
	return closed, nil
}

// AuctionView is an auction with its artwork context for listing screens.
type AuctionView struct {
	domain.Auction
	ArtworkTitle string  `json:"artwork_title"`
	ArtworkImage *string `json:"artwork_image,omitempty"`
	ArtistName   string  `json:"artist_name"`
	CurrentBid   float64 `json:"current_bid"`
}

// ListActive returns active auctions newest first with the denormalized
// current bid (start price when no bids) and bid count.
func (c *Coordinator) ListActive(ctx context.Context) ([]AuctionView, error) {
	var active []domain.Auction
	if err := c.DB.WithContext(ctx).
		Where("status = ?", "active").
		Order(`"createdAt" DESC`).
		Find(&active).Error; err != nil {
		return nil, err
	}

	views := make([]AuctionView, 0, len(active))
	for _, a := range active {
		view := AuctionView{Auction: a, CurrentBid: a.HighestBid(), ArtworkTitle: "Unknown Artwork", ArtistName: "Unknown Artist"}
		var artwork domain.Artwork
		if err := c.DB.WithContext(ctx).Where("artwork_id = ?", a.ArtworkID).First(&artwork).Error; err == nil {
			view.ArtworkTitle = artwork.Title
			view.ArtworkImage = artwork.ImageURL
			var owner domain.User
			if err := c.DB.WithContext(ctx).Where("user_id = ?", artwork.OwnerUserID).First(&owner).Error; err == nil {
				view.ArtistName = owner.DisplayName
			}
		}
		views = append(views, view)
	}
	return views, nil
}

// Bids returns an auction's bids newest first.
func (c *Coordinator) Bids(ctx context.Context, auctionID uuid.UUID) ([]domain.Bid, error) {
	var bids []domain.Bid
	if err := c.DB.WithContext(ctx).
		Where("auction_id = ?", auctionID).
		Order("created_at DESC").
		Find(&bids).Error; err != nil {
		return nil, err
	}
	return bids, nil
}

func (c *Coordinator) getAuction(ctx context.Context, auctionID uuid.UUID) (*domain.Auction, error) {
	var auction domain.Auction
	if err := c.DB.WithContext(ctx).Where("auction_id = ?", auctionID).First(&auction).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.Validationf("Auction not found")
		}
		return nil, err
	}
	return &auction, nil
}

// applyTimeTransitions activates a scheduled auction whose start time passed
// and closes an active auction whose end time passed.
func (c *Coordinator) applyTimeTransitions(ctx context.Context, auction *domain.Auction) (*domain.Auction, error) {
	now := c.now()
	if auction.Status == "scheduled" && auction.StartsAt != nil && !auction.StartsAt.After(now) {
		if err := c.DB.WithContext(ctx).Model(auction).Update("status", "active").Error; err != nil {
			return nil, err
		}
		auction.Status = "active"
	}
	if auction.Status == "active" && auction.EndsAt != nil && auction.EndsAt.Before(now) {
		return c.resolve(ctx, auction)
	}
	return auction, nil
}
