package domain

type Category struct {
	ID        string `db:"id" json:"id"`
	Name      string `db:"name" json:"name"`
	Devices   int    `db:"devices" json:"devices"` // active devices only
	CreatedAt string `db:"created_at" json:"-"`
	UpdatedAt string `db:"updated_at" json:"-"`
}

type Device struct {
	ID          string  `db:"id" json:"id"`
	CategoryID  string  `db:"category_id" json:"category"`
	Brand       string  `db:"brand" json:"brand"`
	Model       string  `db:"model" json:"model"`
	MarketPrice float64 `db:"market_price" json:"marketPrice"`
	ReleaseYear int     `db:"release_year" json:"releaseYear,omitempty"` // 0 when unknown
	Active      bool    `db:"active" json:"active"`
	CreatedAt   string  `db:"created_at" json:"-"`
	UpdatedAt   string  `db:"updated_at" json:"-"`
}

// Title is the display name used by pages and logs.
func (d Device) Title() string {
	return d.Brand + " " + d.Model
}

// QuoteRecord is an issued quote as stored. Payload holds the JSON of either a
// pricing.Quote or a fixed phone package.
type QuoteRecord struct {
	ID           string  `db:"id" json:"id"`
	DeviceID     string  `db:"device_id" json:"deviceId,omitempty"`
	Mode         string  `db:"mode" json:"mode"` // formula | fixed
	CoverageType string  `db:"coverage_type" json:"coverageType"`
	Annual       float64 `db:"annual_premium" json:"annualPremium"`
	Monthly      float64 `db:"monthly_premium" json:"monthlyPremium"`
	Payload      string  `db:"payload" json:"-"`
	ValidUntil   string  `db:"valid_until" json:"validUntil"`
	CreatedAt    string  `db:"created_at" json:"createdAt"`
}
