package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Auction states: scheduled -> active -> closed_sold | closed_unsold,
// cancelled reachable from scheduled or active.
type Auction struct {
	AuctionID    uuid.UUID  `gorm:"column:auction_id;type:uuid;primaryKey" json:"auction_id"`
	ArtworkID    uuid.UUID  `gorm:"column:artwork_id;type:uuid;not null" json:"artwork_id"`
	SellerUserID uuid.UUID  `gorm:"column:seller_user_id;type:uuid;not null" json:"seller_user_id"`
	StartPrice   float64    `gorm:"column:start_price;type:decimal(18,2);not null" json:"start_price"`
	ReservePrice *float64   `gorm:"column:reserve_price;type:decimal(18,2)" json:"reserve_price"`
	Status       string     `gorm:"column:status;not null;default:scheduled" json:"status"`
	CurrentBid   *float64   `gorm:"column:current_bid;type:decimal(18,2)" json:"current_bid"`
	BidCount     int        `gorm:"column:bid_count;not null;default:0" json:"bid_count"`
	StartsAt     *time.Time `gorm:"column:starts_at" json:"starts_at"`
	EndsAt       *time.Time `gorm:"column:ends_at" json:"ends_at"`
	CreatedAt    time.Time  `gorm:"column:createdAt" json:"createdAt"`
	UpdatedAt    time.Time  `gorm:"column:updatedAt" json:"updatedAt"`
}

func (Auction) TableName() string {
	return "Auctions"
}

func (a *Auction) BeforeCreate(tx *gorm.DB) error {
	if a.AuctionID == uuid.Nil {
		a.AuctionID = uuid.New()
	}
	return nil
}

// HighestBid is the denormalized current bid, or the start price when no bid
// has been accepted yet. Authoritative value; subscribers reconcile against it.
func (a *Auction) HighestBid() float64 {
	if a.CurrentBid != nil {
		return *a.CurrentBid
	}
	return a.StartPrice
}
