package domain

// DashboardSnapshot is the chart-ready reduction of one product page.
// It is computed fresh on every fetch and never stored.
type DashboardSnapshot struct {
	TotalProducts      int               `json:"totalProducts"`
	TotalCategories    int               `json:"totalCategories"`
	AverageRating      float64           `json:"averageRating"`
	TotalValue         int64             `json:"totalValue"`
	RecentProducts     []Product         `json:"recentProducts"`
	CategoryBreakdown  map[string]int    `json:"categoryBreakdown"`
	CategoryShares     []CategoryShare   `json:"categoryShares"`
	PriceRanges        []PriceRange      `json:"priceRanges"`
	RatingDistribution []RatingBucket    `json:"ratingDistribution"`
	BrandAnalysis      []BrandSummary    `json:"brandAnalysis"`
	PriceVsRating      []ScatterPoint    `json:"priceVsRating"`
	StockAnalysis      []StockSummary    `json:"stockAnalysis"`
	DiscountAnalysis   []DiscountSummary `json:"discountAnalysis"`
}

type CategoryShare struct {
	Name       string  `json:"name"`
	Value      int     `json:"value"`
	Percentage float64 `json:"percentage"`
}

type PriceRange struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
	Range string `json:"range"`
}

type RatingBucket struct {
	Rating string `json:"rating"`
	Count  int    `json:"count"`
}

type BrandSummary struct {
	Brand     string  `json:"brand"`
	Count     int     `json:"count"`
	AvgPrice  float64 `json:"avgPrice"`
	AvgRating float64 `json:"avgRating"`
}

type ScatterPoint struct {
	Price    float64 `json:"price"`
	Rating   float64 `json:"rating"`
	Category string  `json:"category"`
	Title    string  `json:"title"`
}

type StockSummary struct {
	Category   string `json:"category"`
	TotalStock int    `json:"totalStock"`
	AvgStock   int    `json:"avgStock"`
	LowStock   int    `json:"lowStock"`
}

type DiscountSummary struct {
	Category             string  `json:"category"`
	AvgDiscount          float64 `json:"avgDiscount"`
	MaxDiscount          float64 `json:"maxDiscount"`
	ProductsWithDiscount int     `json:"productsWithDiscount"`
}

// CatalogSummary is the coarse overview shown next to the product table.
type CatalogSummary struct {
	TotalProducts   int            `json:"totalProducts"`
	TotalCategories int            `json:"totalCategories"`
	AverageRating   float64        `json:"averageRating"`
	Categories      map[string]int `json:"categories"`
	PriceRanges     []PriceRange   `json:"priceRanges"`
}

// ProductCatalog is a product page with its summary inlined alongside.
type ProductCatalog struct {
	ProductPage
	Summary *CatalogSummary `json:"summary"`
}
