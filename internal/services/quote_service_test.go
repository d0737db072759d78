package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devicecover/internal/cache"
	"devicecover/internal/domain"
	"devicecover/internal/events"
	"devicecover/internal/pricing"
	"devicecover/internal/repos"
	"devicecover/internal/services"
)

var issuedAt = time.Date(2026, time.October, 16, 9, 30, 0, 0, time.UTC)

type recordingPublisher struct {
	mu   sync.Mutex
	evts []events.QuoteIssued
	err  error
}

func (p *recordingPublisher) PublishQuote(_ context.Context, evt events.QuoteIssued) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.evts = append(p.evts, evt)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

type fixture struct {
	catalog *services.CatalogService
	quotes  *services.QuoteService
	cache   *cache.MemoryCache
	pub     *recordingPublisher
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	catalog := services.NewCatalogService(repos.NewCategoryRepo(db), repos.NewDeviceRepo(db))
	mem := cache.NewMemoryCache()
	pub := &recordingPublisher{}
	qs := services.NewQuoteService(catalog, repos.NewQuoteRepo(db), mem, pub, time.Hour)
	qs.Now = func() time.Time { return issuedAt }
	return fixture{catalog: catalog, quotes: qs, cache: mem, pub: pub}
}

func TestQuoteDevice_Formula(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	d, iq, err := f.quotes.QuoteDevice(ctx, "macbook-air-m3", pricing.FullCoverage, 0)
	require.NoError(t, err)
	assert.Equal(t, "macbook-air-m3", d.ID)
	assert.Equal(t, services.ModeFormula, iq.Mode)
	require.NotNil(t, iq.Quote)
	assert.Nil(t, iq.Package)
	assert.NotEmpty(t, iq.ID)

	want := pricing.CalculateFromCatalog(pricing.CatalogInput{
		CatalogID: "macbook-air-m3", MarketPrice: 54999, DeviceCategory: "laptop",
		ReleaseYear: 2024, CoverageType: pricing.FullCoverage,
	}, issuedAt)
	assert.Equal(t, want, *iq.Quote)
	assert.Equal(t, issuedAt.Add(24*time.Hour), iq.ValidUntil())

	require.Len(t, f.pub.evts, 1)
	evt := f.pub.evts[0]
	assert.Equal(t, iq.ID, evt.QuoteID)
	assert.Equal(t, "macbook-air-m3", evt.DeviceID)
	assert.Equal(t, "FULL_COVERAGE", evt.CoverageType)
	assert.Equal(t, want.AnnualPremium, evt.Annual)

	stored, err := f.quotes.GetQuote(ctx, iq.ID, issuedAt.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, iq.ID, stored.ID)
	require.NotNil(t, stored.Quote)
	assert.Equal(t, want.AnnualPremium, stored.Quote.AnnualPremium)
	assert.True(t, stored.ValidUntil().Equal(iq.ValidUntil()))
}

func TestQuoteDevice_PhoneUsesPackage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, iq, err := f.quotes.QuoteDevice(ctx, "iphone-15-pro", pricing.TheftLoss, 3)
	require.NoError(t, err)
	assert.Equal(t, services.ModeFixed, iq.Mode)
	assert.Nil(t, iq.Quote)
	require.NotNil(t, iq.Package)
	assert.Equal(t, pricing.PhoneIPhone, iq.Package.Type)
	assert.Equal(t, 1490.0, iq.Package.AnnualPrice)
	assert.Equal(t, pricing.FullCoverage, iq.CoverageType())

	_, iq, err = f.quotes.QuoteDevice(ctx, "galaxy-s24", pricing.FullCoverage, 0)
	require.NoError(t, err)
	assert.Equal(t, 129.0, iq.Package.MonthlyPrice)
}

func TestQuoteDevice_Errors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, _, err := f.quotes.QuoteDevice(ctx, "does-not-exist", pricing.FullCoverage, 0)
	assert.ErrorIs(t, err, services.ErrDeviceNotFound)

	_, _, err = f.quotes.QuoteDevice(ctx, "ps5", "FULL", 0)
	assert.ErrorIs(t, err, services.ErrInvalidInput)

	require.NoError(t, f.catalog.SaveDevice(domain.Device{ID: "ps5", CategoryID: "console", Brand: "Sony", Model: "PlayStation 5", MarketPrice: 22999, ReleaseYear: 2020, Active: false}))
	_, _, err = f.quotes.QuoteDevice(ctx, "ps5", pricing.FullCoverage, 0)
	assert.ErrorIs(t, err, services.ErrDeviceNotFound)
	assert.Empty(t, f.pub.evts)
}

func TestQuoteDevice_PublishFailureDoesNotFail(t *testing.T) {
	f := newFixture(t)
	f.pub.err = errors.New("broker down")

	_, iq, err := f.quotes.QuoteDevice(context.Background(), "ps5", pricing.ExtendedWarranty, 2)
	require.NoError(t, err)
	_, err = f.quotes.GetQuote(context.Background(), iq.ID, issuedAt)
	assert.NoError(t, err)
}

func TestQuoteCustom(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	in := pricing.Input{DeclaredValue: 10000, DeviceCategory: "camera", PurchaseAgeMonths: 3, CoverageType: pricing.AccidentalDamage, TermYears: 3}
	iq, err := f.quotes.QuoteCustom(ctx, in, "")
	require.NoError(t, err)
	require.NotNil(t, iq.Quote)
	assert.Equal(t, pricing.CalculatePremium(in), iq.Quote.Output)
	assert.Equal(t, 10000.0, iq.Quote.MarketPrice)
	assert.Empty(t, iq.Quote.CatalogID)
	require.Len(t, f.pub.evts, 1)
	assert.Empty(t, f.pub.evts[0].DeviceID)

	phone, err := f.quotes.QuoteCustom(ctx, pricing.Input{DeclaredValue: 90000, DeviceCategory: "Akıllı Telefon", CoverageType: pricing.TheftLoss}, "Apple")
	require.NoError(t, err)
	require.NotNil(t, phone.Package)
	assert.Equal(t, 149.0, phone.Package.MonthlyPrice)

	_, err = f.quotes.QuoteCustom(ctx, pricing.Input{DeclaredValue: 0, DeviceCategory: "laptop", CoverageType: pricing.FullCoverage}, "")
	assert.ErrorIs(t, err, services.ErrInvalidInput)
	_, err = f.quotes.QuoteCustom(ctx, pricing.Input{DeclaredValue: 100, DeviceCategory: "laptop", PurchaseAgeMonths: -1, CoverageType: pricing.FullCoverage}, "")
	assert.ErrorIs(t, err, services.ErrInvalidInput)
	_, err = f.quotes.QuoteCustom(ctx, pricing.Input{DeclaredValue: 100, DeviceCategory: "laptop", CoverageType: "ALL"}, "")
	assert.ErrorIs(t, err, services.ErrInvalidInput)
}

func TestGetQuote_ExpiredAndMissing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, iq, err := f.quotes.QuoteDevice(ctx, "thinkpad-x1", pricing.TheftLoss, 0)
	require.NoError(t, err)

	_, err = f.quotes.GetQuote(ctx, iq.ID, issuedAt.Add(24*time.Hour))
	assert.NoError(t, err)

	expired, err := f.quotes.GetQuote(ctx, iq.ID, issuedAt.Add(24*time.Hour+time.Second))
	assert.ErrorIs(t, err, services.ErrQuoteExpired)
	assert.Equal(t, iq.ID, expired.ID)

	_, err = f.quotes.GetQuote(ctx, "missing", issuedAt)
	assert.ErrorIs(t, err, services.ErrQuoteNotFound)

	recent, err := f.quotes.Recent(10)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "thinkpad-x1", recent[0].DeviceID)
	assert.Equal(t, services.ModeFormula, recent[0].Mode)
}

func TestCompareDevice_CachesPerDevice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, cmp, err := f.quotes.CompareDevice(ctx, "ps5")
	require.NoError(t, err)
	require.Len(t, cmp.Quotes, len(pricing.CoverageTypes))
	assert.Nil(t, cmp.Package)

	_, ok := f.cache.Get(ctx, "quotes:ps5")
	assert.True(t, ok)

	// A price change is not visible until the cached entry is dropped.
	require.NoError(t, f.catalog.SaveDevice(domain.Device{ID: "ps5", CategoryID: "console", Brand: "Sony", Model: "PlayStation 5", MarketPrice: 45998, ReleaseYear: 2020, Active: true}))
	_, cached, err := f.quotes.CompareDevice(ctx, "ps5")
	require.NoError(t, err)
	assert.Equal(t, cmp.Quotes[pricing.FullCoverage].AnnualPremium, cached.Quotes[pricing.FullCoverage].AnnualPremium)

	require.NoError(t, f.quotes.InvalidateDevice(ctx, "ps5"))
	_, fresh, err := f.quotes.CompareDevice(ctx, "ps5")
	require.NoError(t, err)
	assert.Equal(t, 45998.0, fresh.Quotes[pricing.FullCoverage].MarketPrice)
	assert.Greater(t, fresh.Quotes[pricing.FullCoverage].AnnualPremium, cmp.Quotes[pricing.FullCoverage].AnnualPremium)

	assert.Empty(t, f.pub.evts, "comparisons are not issued quotes")
}

func TestCompareDevice_Phone(t *testing.T) {
	f := newFixture(t)
	_, cmp, err := f.quotes.CompareDevice(context.Background(), "pixel-8")
	require.NoError(t, err)
	assert.Empty(t, cmp.Quotes)
	require.NotNil(t, cmp.Package)
	assert.Equal(t, pricing.PhoneAndroid, cmp.Package.Type)
	assert.Equal(t, issuedAt.Add(pricing.QuoteValidity), cmp.Package.ValidUntil)
}

func TestCatalogService(t *testing.T) {
	f := newFixture(t)

	cats, err := f.catalog.ListCategories()
	require.NoError(t, err)
	assert.NotEmpty(t, cats)

	laptops, err := f.catalog.ListDevicesByCategory("laptop", 0, 0)
	require.NoError(t, err)
	assert.Len(t, laptops, 2)

	found, err := f.catalog.Search("galaxy", "", 1, 10)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "galaxy-s24", found[0].ID)

	err = f.catalog.SaveDevice(domain.Device{ID: "dji-mini", CategoryID: "drone", Brand: "DJI", Model: "Mini 4", MarketPrice: 30000, Active: true})
	assert.ErrorIs(t, err, services.ErrInvalidInput)
	err = f.catalog.SaveDevice(domain.Device{ID: "cheap", CategoryID: "watch", Brand: "X", Model: "Y", MarketPrice: 0, Active: true})
	assert.ErrorIs(t, err, services.ErrInvalidInput)
}
