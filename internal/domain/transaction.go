package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Transaction is an append-only ledger entry. Rows are never edited once
// completed; corrections are new offsetting transactions.
type Transaction struct {
	TxID         uuid.UUID      `gorm:"column:tx_id;type:uuid;primaryKey" json:"tx_id"`
	Type         string         `gorm:"column:transaction_type;type:varchar(20);not null" json:"transaction_type"` // fraction_purchase | sale | bid
	BuyerUserID  uuid.UUID      `gorm:"column:buyer_user_id;type:uuid;not null" json:"buyer_user_id"`
	SellerUserID *uuid.UUID     `gorm:"column:seller_user_id;type:uuid" json:"seller_user_id"`
	ArtworkID    uuid.UUID      `gorm:"column:artwork_id;type:uuid;not null" json:"artwork_id"`
	Amount       float64        `gorm:"column:amount;type:decimal(18,2);not null" json:"amount"`
	Currency     string         `gorm:"column:currency;not null;default:USD" json:"currency"`
	Status       string         `gorm:"column:status;not null;default:pending" json:"status"` // pending | completed | failed
	Metadata     datatypes.JSON `gorm:"column:metadata" json:"metadata"`
	CreatedAt    time.Time      `gorm:"column:created_at" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"column:updated_at" json:"updated_at"`
}

func (Transaction) TableName() string {
	return "Transactions"
}

func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.TxID == uuid.Nil {
		t.TxID = uuid.New()
	}
	return nil
}

// TxMetadata is the metadata payload carried by fraction purchases.
type TxMetadata struct {
	OwnershipPercentage      float64 `json:"ownership_percentage"`
	FractionCount            int     `json:"fraction_count,omitempty"`
	PurchasePricePerFraction float64 `json:"purchase_price_per_fraction,omitempty"`
}

// ParseMetadata decodes the metadata column; a missing or malformed payload
// yields the zero value rather than an error (ledger rows predate the schema).
func (t *Transaction) ParseMetadata() TxMetadata {
	var m TxMetadata
	if len(t.Metadata) > 0 {
		_ = json.Unmarshal(t.Metadata, &m)
	}
	return m
}
