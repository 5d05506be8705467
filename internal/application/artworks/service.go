package artworks

import (
	"context"
	"strconv"
	"strings"

	"artbridge-backend/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Service struct {
	DB *gorm.DB
}

// Filter mirrors the marketplace browse controls: substring search,
// status, price range ("min-max" or "min-+") and sort key.
type Filter struct {
	Search     string
	Status     string
	PriceRange string
	SortBy     string // newest | oldest | price-low | price-high | title
}

// ArtworkView decorates an artwork with its artist name and a price tier.
type ArtworkView struct {
	domain.Artwork
	ArtistName string `json:"artist_name"`
	Category   string `json:"category"`
}

func (s *Service) ListArtworks(ctx context.Context, f Filter) ([]ArtworkView, error) {
	q := s.DB.WithContext(ctx).Model(&domain.Artwork{})

	if f.Search != "" {
		term := "%" + strings.ToLower(f.Search) + "%"
		q = q.Where("LOWER(title) LIKE ? OR LOWER(COALESCE(description, '')) LIKE ?", term, term)
	}
	if f.Status != "" && f.Status != "all" {
		q = q.Where("status = ?", f.Status)
	}
	if f.PriceRange != "" && f.PriceRange != "all" {
		if min, max, ok := parsePriceRange(f.PriceRange); ok {
			q = q.Where("price_amount >= ?", min)
			if max > 0 {
				q = q.Where("price_amount <= ?", max)
			}
		}
	}

	switch f.SortBy {
	case "oldest":
		q = q.Order(`"createdAt" ASC`)
	case "price-low":
		q = q.Order("price_amount ASC")
	case "price-high":
		q = q.Order("price_amount DESC")
	case "title":
		q = q.Order("title ASC")
	default: // newest
		q = q.Order(`"createdAt" DESC`)
	}

	var artworks []domain.Artwork
	if err := q.Find(&artworks).Error; err != nil {
		return nil, err
	}

	// Resolve artist display names in one pass.
	ownerIDs := map[uuid.UUID]bool{}
	for _, a := range artworks {
		ownerIDs[a.OwnerUserID] = true
	}
	names := map[uuid.UUID]string{}
	if len(ownerIDs) > 0 {
		ids := make([]uuid.UUID, 0, len(ownerIDs))
		for id := range ownerIDs {
			ids = append(ids, id)
		}
		var owners []domain.User
		s.DB.WithContext(ctx).Where("user_id IN ?", ids).Select("user_id, display_name").Find(&owners)
		for _, o := range owners {
			names[o.UserID] = o.DisplayName
		}
	}

	views := make([]ArtworkView, len(artworks))
	for i, a := range artworks {
		name := names[a.OwnerUserID]
		if name == "" {
			name = "Unknown Artist"
		}
		category := "Accessible"
		if a.PriceAmount > 10 {
			category = "Premium"
		}
		views[i] = ArtworkView{Artwork: a, ArtistName: name, Category: category}
	}
	return views, nil
}

// parsePriceRange parses "100-500" or "1000-+" (no upper bound).
func parsePriceRange(r string) (min, max float64, ok bool) {
	parts := strings.SplitN(r, "-", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	min, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return 0, 0, false
	}
	if parts[1] == "+" {
		return min, 0, true
	}
	max, err = strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return 0, 0, false
	}
	return min, max, true
}
