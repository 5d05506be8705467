package profile

import (
	"context"
	"errors"

	"artbridge-backend/internal/domain"
	"artbridge-backend/internal/pkg/validation"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Service struct {
	DB *gorm.DB
}

type UpdateInput struct {
	DisplayName   *string
	WalletAddress *string
}

func (s *Service) GetProfile(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	var u domain.User
	if err := s.DB.WithContext(ctx).Where("user_id = ?", userID).First(&u).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.New("User not found")
		}
		return nil, err
	}
	return &u, nil
}

// UpdateProfile updates display name and/or wallet address. An empty wallet
// address disconnects the wallet.
func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, in UpdateInput) (*domain.User, error) {
	u, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if in.DisplayName != nil {
		if *in.DisplayName == "" {
			return nil, domain.Validationf("Display name cannot be empty")
		}
		updates["display_name"] = *in.DisplayName
	}
	if in.WalletAddress != nil {
		if *in.WalletAddress == "" {
			updates["wallet_address"] = nil
		} else {
			if !validation.IsValidWalletAddress(*in.WalletAddress) {
				return nil, domain.Validationf("Invalid wallet address")
			}
			updates["wallet_address"] = *in.WalletAddress
		}
	}
	if len(updates) == 0 {
		return nil, domain.Validationf("No valid changes provided")
	}

	if err := s.DB.WithContext(ctx).Model(u).Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.GetProfile(ctx, userID)
}
