package constants

const (
	RoleInvestor = "investor"
	RoleArtist   = "artist"
)

const (
	CreateArtwork      = "create_artwork"
	UploadArtworkImage = "upload_artwork_image"
	CreateAuction      = "create_auction"
	CancelAuction      = "cancel_auction"
	PurchaseFraction   = "purchase_fraction"
	PlaceBid           = "place_bid"
	ViewPortfolio      = "view_portfolio"
)
