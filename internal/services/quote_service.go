package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"devicecover/internal/cache"
	"devicecover/internal/domain"
	"devicecover/internal/events"
	applog "devicecover/internal/log"
	"devicecover/internal/metrics"
	"devicecover/internal/pricing"
	"devicecover/internal/repos"
)

var (
	ErrDeviceNotFound = errors.New("device not found")
	ErrQuoteNotFound  = errors.New("quote not found")
	ErrQuoteExpired   = errors.New("quote expired")
	ErrInvalidInput   = errors.New("invalid input")
)

const (
	ModeFormula = "formula"
	ModeFixed   = "fixed"
)

// FixedQuote is a phone package stamped with the same validity window as
// formula quotes.
type FixedQuote struct {
	pricing.PhonePackage
	DeviceCategory string    `json:"deviceCategory"`
	ValidUntil     time.Time `json:"validUntil"`
}

// IssuedQuote is a persisted quote. Exactly one of Quote and Package is set,
// according to Mode.
type IssuedQuote struct {
	ID      string         `json:"id"`
	Mode    string         `json:"mode"`
	Quote   *pricing.Quote `json:"quote,omitempty"`
	Package *FixedQuote    `json:"package,omitempty"`
}

func (q IssuedQuote) ValidUntil() time.Time {
	if q.Package != nil {
		return q.Package.ValidUntil
	}
	if q.Quote != nil {
		return q.Quote.ValidUntil
	}
	return time.Time{}
}

func (q IssuedQuote) CoverageType() pricing.CoverageType {
	if q.Package != nil {
		return q.Package.CoverageType
	}
	if q.Quote != nil {
		return q.Quote.CoverageType
	}
	return ""
}

func (q IssuedQuote) premiums() (annual, monthly float64) {
	if q.Package != nil {
		return q.Package.AnnualPrice, q.Package.MonthlyPrice
	}
	if q.Quote != nil {
		return q.Quote.AnnualPremium, q.Quote.MonthlyPremium
	}
	return 0, 0
}

// Comparison lists every coverage option for one device. Phones only ever
// have the package.
type Comparison struct {
	Quotes  map[pricing.CoverageType]pricing.Quote `json:"quotes,omitempty"`
	Package *FixedQuote                            `json:"package,omitempty"`
}

type QuoteService struct {
	Catalog  *CatalogService
	Quotes   *repos.QuoteRepo
	Cache    cache.Cache
	Events   events.Publisher
	CacheTTL time.Duration
	Now      func() time.Time
}

func NewQuoteService(catalog *CatalogService, quotes *repos.QuoteRepo, c cache.Cache, pub events.Publisher, ttl time.Duration) *QuoteService {
	if c == nil {
		c = cache.NewMemoryCache()
	}
	if pub == nil {
		pub = events.NopPublisher{}
	}
	return &QuoteService{Catalog: catalog, Quotes: quotes, Cache: c, Events: pub, CacheTTL: ttl, Now: time.Now}
}

func (s *QuoteService) now() time.Time { return s.Now().UTC() }

func fixedQuote(brand, category string, now time.Time) *FixedQuote {
	return &FixedQuote{
		PhonePackage:   pricing.GetPhonePackage(brand),
		DeviceCategory: category,
		ValidUntil:     now.Add(pricing.QuoteValidity),
	}
}

// QuoteDevice prices one coverage option for a catalog device and records it.
// Phones ignore coverage and termYears and get their brand package.
func (s *QuoteService) QuoteDevice(ctx context.Context, deviceID string, coverage pricing.CoverageType, termYears int) (domain.Device, IssuedQuote, error) {
	d, err := s.Catalog.GetDevice(deviceID)
	if err != nil {
		return domain.Device{}, IssuedQuote{}, err
	}
	now := s.now()

	var iq IssuedQuote
	if pricing.UsesFixedPricing(d.CategoryID) {
		iq = IssuedQuote{Mode: ModeFixed, Package: fixedQuote(d.Brand, d.CategoryID, now)}
	} else {
		if !coverage.Valid() {
			return d, IssuedQuote{}, fmt.Errorf("%w: coverage type %q", ErrInvalidInput, coverage)
		}
		q := pricing.CalculateFromCatalog(pricing.CatalogInput{
			CatalogID:      d.ID,
			MarketPrice:    d.MarketPrice,
			DeviceCategory: d.CategoryID,
			ReleaseYear:    d.ReleaseYear,
			CoverageType:   coverage,
			TermYears:      termYears,
		}, now)
		iq = IssuedQuote{Mode: ModeFormula, Quote: &q}
	}

	if err := s.issue(ctx, d.ID, &iq, now); err != nil {
		return d, IssuedQuote{}, err
	}
	return d, iq, nil
}

// QuoteCustom prices a user-entered device. A phone category is priced with
// the package for brand.
func (s *QuoteService) QuoteCustom(ctx context.Context, in pricing.Input, brand string) (IssuedQuote, error) {
	if in.DeclaredValue <= 0 {
		return IssuedQuote{}, fmt.Errorf("%w: declared value must be positive", ErrInvalidInput)
	}
	if in.PurchaseAgeMonths < 0 {
		return IssuedQuote{}, fmt.Errorf("%w: purchase age must not be negative", ErrInvalidInput)
	}
	now := s.now()

	var iq IssuedQuote
	if pricing.UsesFixedPricing(in.DeviceCategory) {
		iq = IssuedQuote{Mode: ModeFixed, Package: fixedQuote(brand, in.DeviceCategory, now)}
	} else {
		if !in.CoverageType.Valid() {
			return IssuedQuote{}, fmt.Errorf("%w: coverage type %q", ErrInvalidInput, in.CoverageType)
		}
		q := pricing.Quote{
			Output:         pricing.CalculatePremium(in),
			MarketPrice:    in.DeclaredValue,
			DeviceCategory: in.DeviceCategory,
			CoverageType:   in.CoverageType,
			ValidUntil:     now.Add(pricing.QuoteValidity),
		}
		iq = IssuedQuote{Mode: ModeFormula, Quote: &q}
	}

	if err := s.issue(ctx, "", &iq, now); err != nil {
		return IssuedQuote{}, err
	}
	return iq, nil
}

func (s *QuoteService) issue(ctx context.Context, deviceID string, iq *IssuedQuote, now time.Time) error {
	iq.ID = uuid.NewString()
	payload, err := json.Marshal(iq)
	if err != nil {
		return err
	}
	annual, monthly := iq.premiums()
	rec := domain.QuoteRecord{
		ID:           iq.ID,
		DeviceID:     deviceID,
		Mode:         iq.Mode,
		CoverageType: string(iq.CoverageType()),
		Annual:       annual,
		Monthly:      monthly,
		Payload:      string(payload),
		ValidUntil:   iq.ValidUntil().Format(time.RFC3339Nano),
	}
	if err := s.Quotes.Save(rec); err != nil {
		return fmt.Errorf("save quote: %w", err)
	}
	metrics.RecordQuote(rec.CoverageType, rec.Mode, annual)

	evt := events.QuoteIssued{
		QuoteID:      rec.ID,
		DeviceID:     deviceID,
		Mode:         rec.Mode,
		CoverageType: rec.CoverageType,
		Annual:       annual,
		Monthly:      monthly,
		ValidUntil:   iq.ValidUntil(),
		IssuedAt:     now,
	}
	// Publishing is best effort once the quote is stored.
	if err := s.Events.PublishQuote(ctx, evt); err != nil {
		applog.L().Warn("quote.publish.fail", zap.String("quote_id", rec.ID), zap.Error(err))
	}
	return nil
}

func comparisonKey(deviceID string) string { return "quotes:" + deviceID }

// CompareDevice returns every coverage option for a catalog device. Results
// are cached per device for at most the cache TTL and never past the quotes'
// validity.
func (s *QuoteService) CompareDevice(ctx context.Context, deviceID string) (domain.Device, Comparison, error) {
	d, err := s.Catalog.GetDevice(deviceID)
	if err != nil {
		return domain.Device{}, Comparison{}, err
	}
	now := s.now()
	key := comparisonKey(d.ID)

	if raw, ok := s.Cache.Get(ctx, key); ok {
		var cmp Comparison
		if err := json.Unmarshal([]byte(raw), &cmp); err == nil && !cmp.expired(now) {
			return d, cmp, nil
		}
	}

	var cmp Comparison
	if pricing.UsesFixedPricing(d.CategoryID) {
		cmp.Package = fixedQuote(d.Brand, d.CategoryID, now)
	} else {
		cmp.Quotes = pricing.CalculateAllQuotes(d.ID, d.MarketPrice, d.CategoryID, d.ReleaseYear, now)
	}

	ttl := pricing.QuoteValidity
	if s.CacheTTL > 0 && s.CacheTTL < ttl {
		ttl = s.CacheTTL
	}
	if b, err := json.Marshal(cmp); err == nil {
		if err := s.Cache.Set(ctx, key, string(b), ttl); err != nil {
			applog.L().Warn("quote.cache.set.fail", zap.String("device_id", d.ID), zap.Error(err))
		}
	}
	return d, cmp, nil
}

func (c Comparison) expired(now time.Time) bool {
	if c.Package != nil {
		return now.After(c.Package.ValidUntil)
	}
	if len(c.Quotes) == 0 {
		return true
	}
	for _, q := range c.Quotes {
		if q.Expired(now) {
			return true
		}
	}
	return false
}

// InvalidateDevice drops the cached comparison after a catalog change.
func (s *QuoteService) InvalidateDevice(ctx context.Context, deviceID string) error {
	return s.Cache.Delete(ctx, comparisonKey(deviceID))
}

// GetQuote loads an issued quote. Past its validity window the quote is still
// returned, together with ErrQuoteExpired, so callers can show it but must not
// bind it.
func (s *QuoteService) GetQuote(ctx context.Context, id string, now time.Time) (IssuedQuote, error) {
	rec, err := s.Quotes.Get(id)
	if errors.Is(err, sql.ErrNoRows) {
		return IssuedQuote{}, ErrQuoteNotFound
	}
	if err != nil {
		return IssuedQuote{}, fmt.Errorf("load quote %s: %w", id, err)
	}
	var iq IssuedQuote
	if err := json.Unmarshal([]byte(rec.Payload), &iq); err != nil {
		return IssuedQuote{}, fmt.Errorf("decode quote %s: %w", id, err)
	}
	iq.ID = rec.ID
	if now.After(iq.ValidUntil()) {
		return iq, ErrQuoteExpired
	}
	return iq, nil
}

// Recent lists the latest issued quotes for the back office.
func (s *QuoteService) Recent(limit int) ([]domain.QuoteRecord, error) {
	return s.Quotes.ListLatest(limit)
}
