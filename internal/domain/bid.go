package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Bid struct {
	BidID        uuid.UUID `gorm:"column:bid_id;type:uuid;primaryKey" json:"bid_id"`
	AuctionID    uuid.UUID `gorm:"column:auction_id;type:uuid;not null;index" json:"auction_id"`
	BidderUserID uuid.UUID `gorm:"column:bidder_user_id;type:uuid;not null" json:"bidder_user_id"`
	Amount       float64   `gorm:"column:amount;type:decimal(18,2);not null" json:"amount"`
	CreatedAt    time.Time `gorm:"column:created_at" json:"created_at"`
}

func (Bid) TableName() string {
	return "Bids"
}

func (b *Bid) BeforeCreate(tx *gorm.DB) error {
	if b.BidID == uuid.Nil {
		b.BidID = uuid.New()
	}
	return nil
}
