package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Artwork is a fractionalized artwork listed on the marketplace.
// fractions_available only decreases, via completed fraction purchases.
type Artwork struct {
	ArtworkID          uuid.UUID `gorm:"column:artwork_id;type:uuid;primaryKey" json:"artwork_id"`
	Title              string    `gorm:"column:title;not null" json:"title"`
	Description        *string   `gorm:"column:description" json:"description"`
	ImageURL           *string   `gorm:"column:image_url" json:"image_url"`
	OwnerUserID        uuid.UUID `gorm:"column:owner_user_id;type:uuid;not null" json:"owner_user_id"`
	PriceAmount        float64   `gorm:"column:price_amount;type:decimal(18,2);not null" json:"price_amount"`
	PriceDenom         string    `gorm:"column:price_denom;not null;default:USD" json:"price_denom"`
	FractionsTotal     int       `gorm:"column:fractions_total;not null" json:"fractions_total"`
	FractionsAvailable int       `gorm:"column:fractions_available;not null" json:"fractions_available"`
	Status             string    `gorm:"column:status;not null;default:available" json:"status"` // draft | available | sold
	CreatedAt          time.Time `gorm:"column:createdAt" json:"createdAt"`
	UpdatedAt          time.Time `gorm:"column:updatedAt" json:"updatedAt"`
}

func (Artwork) TableName() string {
	return "Artworks"
}

func (a *Artwork) BeforeCreate(tx *gorm.DB) error {
	if a.ArtworkID == uuid.Nil {
		a.ArtworkID = uuid.New()
	}
	return nil
}
