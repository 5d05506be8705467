package router

import (
	"context"
	"net/http"
	"time"

	artsvc "artbridge-backend/internal/application/artworks"
	aucsvc "artbridge-backend/internal/application/auctions"
	contactsvc "artbridge-backend/internal/application/contact"
	emailsvc "artbridge-backend/internal/application/emails"
	ledgersvc "artbridge-backend/internal/application/ledger"
	ownsvc "artbridge-backend/internal/application/ownership"
	pfsvc "artbridge-backend/internal/application/portfolio"
	profsvc "artbridge-backend/internal/application/profile"
	uploadsvc "artbridge-backend/internal/application/uploads"
	valsvc "artbridge-backend/internal/application/valuation"
	authsvc "artbridge-backend/internal/auth"
	"artbridge-backend/internal/config"
	"artbridge-backend/internal/constants"
	"artbridge-backend/internal/infrastructure/database"
	authhandler "artbridge-backend/internal/interfaces/handlers/auth"
	arthandler "artbridge-backend/internal/interfaces/handlers/artworks"
	auchandler "artbridge-backend/internal/interfaces/handlers/auctions"
	contacthandler "artbridge-backend/internal/interfaces/handlers/contact"
	healthhandler "artbridge-backend/internal/interfaces/handlers/health"
	pfhandler "artbridge-backend/internal/interfaces/handlers/portfolio"
	profhandler "artbridge-backend/internal/interfaces/handlers/profile"
	txhandler "artbridge-backend/internal/interfaces/handlers/transactions"
	uploadhandler "artbridge-backend/internal/interfaces/handlers/uploads"
	"artbridge-backend/internal/middleware"
	"artbridge-backend/internal/pkg/events"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type gormDBPinger struct {
	db *gorm.DB
}

func (g *gormDBPinger) Ping() error {
	if g == nil || g.db == nil {
		return nil
	}
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func CreateApp(cfg *config.Config) (*fiber.App, *gorm.DB, *redis.Client, error) {
	app := fiber.New(fiber.Config{
		DisableStartupMessage:   true,
		ErrorHandler:            middleware.ErrorHandler,
		EnableTrustedProxyCheck: true,
	})

	app.Use(middleware.CORS(middleware.CORSConfig{
		AllowedSuffix: cfg.FrontendURLEndsWith,
		DevPassword:   cfg.DevPassword,
	}))

	sessionHandler, rdb, err := middleware.Session(middleware.SessionConfig{
		Secret:            cfg.SessionSecret,
		RedisURL:          cfg.RedisURL,
		AllowCrossSiteDev: cfg.AllowCrossSiteDev,
		IsProduction:      cfg.Env == "production",
	})
	if err != nil {
		return nil, nil, nil, err
	}
	app.Use(sessionHandler)
	app.Use(middleware.ResponseFormatter())
	app.Use(middleware.Tracing())
	app.Use(middleware.RouteLogger())

	hh := &healthhandler.Handlers{Rdb: rdb}
	app.Get("/health/json", hh.JSON)

	var db *gorm.DB
	if cfg.DatabaseURL != "" {
		var errDB error
		db, errDB = database.Open(cfg.DatabaseURL)
		if errDB != nil {
			return nil, nil, nil, errDB
		}
		hh.DB = &gormDBPinger{db: db}
	}

	sessionCfg := middleware.SessionConfig{
		Secret:            cfg.SessionSecret,
		RedisURL:          cfg.RedisURL,
		AllowCrossSiteDev: cfg.AllowCrossSiteDev,
		IsProduction:      cfg.Env == "production",
	}

	var userFinder authsvc.UserFinder
	if db != nil {
		userFinder = &authsvc.GormUserFinder{DB: db}
	}
	ah := &authhandler.Handlers{
		UserFinder: userFinder,
		DB:         db,
		Rdb:        rdb,
		Config:     sessionCfg,
	}
	authGroup := app.Group("/api/v1/auth")
	authGroup.Post("/login", ah.Login)
	authGroup.Post("/register", ah.Register)
	authGroup.Get("/me", ah.Me)
	authGroup.Delete("/logout", ah.Logout)

	// Contact form is public; Resend/Turnstile degrade to no-ops without keys.
	var mailer emailsvc.Sender = &emailsvc.ResendClient{
		APIKey:       cfg.ResendAPIKey,
		MailFrom:     cfg.MailFrom,
		SupportEmail: cfg.SupportEmail,
	}
	cs := &contactsvc.Service{
		Verifier: &contactsvc.TurnstileVerifier{SecretKey: cfg.TurnstileSecretKey},
		Mailer:   mailer,
	}
	ch := &contacthandler.Handlers{Service: cs}
	app.Post("/api/v1/contact/submit", ch.Submit)

	if db != nil && rdb != nil {
		publisher := &events.RedisPublisher{Rdb: rdb}

		ls := &ledgersvc.Service{DB: db, Events: publisher}
		agg := &ownsvc.Aggregator{Ledger: ls}
		vs := &valsvc.Service{
			DB:       db,
			Rdb:      rdb,
			Index:    &valsvc.StaticIndex{Drift: cfg.ValuationIndexDrift},
			TTL:      time.Duration(cfg.ValuationTTLSeconds) * time.Second,
			MaxDrift: cfg.ValuationMaxDrift,
		}

		// Artworks + fractional ownership
		as := &artsvc.Service{DB: db}
		arth := &arthandler.Handlers{Artworks: as, Ledger: ls, Ownership: agg, Valuation: vs}
		app.Get("/api/v1/artworks/get-all-artworks", arth.GetAllArtworks)
		app.Get("/api/v1/artworks/get-artwork/:artwork_id", arth.GetArtwork)
		ag := app.Group("/api/v1/artworks", middleware.RequireAuth())
		ag.Post("/create-artwork", middleware.AuthorizePermission(constants.CreateArtwork), arth.CreateArtwork)
		ag.Post("/purchase-fraction", middleware.AuthorizePermission(constants.PurchaseFraction), arth.PurchaseFraction)
		ag.Get("/get-ownership/:artwork_id", arth.GetOwnership)

		// Auctions
		coordinator := &aucsvc.Coordinator{
			DB:           db,
			Ledger:       ls,
			Events:       publisher,
			MinIncrement: cfg.MinBidIncrement,
		}
		auch := &auchandler.Handlers{Coordinator: coordinator}
		app.Get("/api/v1/auctions/get-active-auctions", auch.GetActiveAuctions)
		aucg := app.Group("/api/v1/auctions", middleware.RequireAuth())
		aucg.Post("/create-auction", middleware.AuthorizePermission(constants.CreateAuction), auch.CreateAuction)
		aucg.Post("/place-bid", middleware.AuthorizePermission(constants.PlaceBid), auch.PlaceBid)
		aucg.Post("/close-auction", middleware.AuthorizePermission(constants.CancelAuction), auch.CloseAuction)
		aucg.Post("/cancel-auction", middleware.AuthorizePermission(constants.CancelAuction), auch.CancelAuction)
		aucg.Get("/get-bids/:auction_id", auch.GetBids)

		// Periodic sweep for auctions past their end time. Stops with the app.
		sweepDone := make(chan struct{})
		app.Hooks().OnShutdown(func() error {
			close(sweepDone)
			return nil
		})
		go func() {
			ticker := time.NewTicker(time.Minute)
			defer ticker.Stop()
			for {
				select {
				case <-sweepDone:
					return
				case <-ticker.C:
					if n, err := coordinator.CloseDue(context.Background()); err != nil {
						log.Warn().Err(err).Msg("Auction sweep failed")
					} else if n > 0 {
						log.Info().Int("closed", n).Msg("Auction sweep closed due auctions")
					}
				}
			}
		}()

		// Portfolio
		ps := &pfsvc.Service{
			DB:              db,
			Aggregator:      agg,
			Estimator:       vs,
			EstimateTimeout: 2 * time.Second,
		}
		pfh := &pfhandler.Handlers{Service: ps}
		pg := app.Group("/api/v1/portfolio", middleware.RequireAuth())
		pg.Get("/view-portfolio", middleware.AuthorizePermission(constants.ViewPortfolio), pfh.ViewPortfolio)

		// Transactions
		txh := &txhandler.Handlers{Ledger: ls}
		txg := app.Group("/api/v1/transactions", middleware.RequireAuth())
		txg.Get("/get-transactions", txh.GetTransactions)

		// Profile
		prs := &profsvc.Service{DB: db}
		prh := &profhandler.Handlers{Service: prs}
		prg := app.Group("/api/v1/profile", middleware.RequireAuth())
		prg.Get("/view-profile", prh.ViewProfile)
		prg.Put("/update-profile", prh.UpdateProfile)

		// Uploads
		sc := &uploadsvc.HTTPClient{BaseURL: cfg.StorageURL, SecretKey: cfg.StorageSecretKey}
		upsvc := &uploadsvc.Service{Client: sc, StorageURL: cfg.StorageURL}
		uph := &uploadhandler.Handlers{Service: upsvc}
		upg := app.Group("/api/v1/uploads", middleware.RequireAuth())
		upg.Post("/artwork-image", middleware.AuthorizePermission(constants.UploadArtworkImage), uph.UploadArtworkImage)
	}

	return app, db, rdb, nil
}

func Handler(app *fiber.App) http.Handler {
	return adaptor.FiberApp(app)
}
