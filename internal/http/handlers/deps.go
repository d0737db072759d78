package handlers

import (
	"time"

	"devicecover/internal/cache"
	"devicecover/internal/config"
	"devicecover/internal/events"
	"devicecover/internal/repos"
	"devicecover/internal/services"

	"github.com/jmoiron/sqlx"
)

type Deps struct {
	CategoryHandler *CategoryHandler
	DeviceHandler   *DeviceHandler
	SearchHandler   *SearchHandler
	QuoteHandler    *QuoteHandler
	AdminHandler    *AdminHandler
}

func NewDeps(db *sqlx.DB, cfg config.Config, c cache.Cache, pub events.Publisher) *Deps {
	catRepo := repos.NewCategoryRepo(db)
	deviceRepo := repos.NewDeviceRepo(db)
	quoteRepo := repos.NewQuoteRepo(db)

	catalogSvc := services.NewCatalogService(catRepo, deviceRepo)
	quoteSvc := services.NewQuoteService(catalogSvc, quoteRepo, c, pub, time.Duration(cfg.QuoteCacheTTL)*time.Second)

	return &Deps{
		CategoryHandler: &CategoryHandler{Catalog: catalogSvc},
		DeviceHandler:   &DeviceHandler{Catalog: catalogSvc, Quotes: quoteSvc},
		SearchHandler:   &SearchHandler{Catalog: catalogSvc, Now: quoteSvc.Now},
		QuoteHandler:    &QuoteHandler{Quotes: quoteSvc},
		AdminHandler:    &AdminHandler{Catalog: catalogSvc, Quotes: quoteSvc},
	}
}
