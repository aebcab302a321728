package analytics

import (
	"fmt"
	"math"
	"sort"

	"github.com/otp-dashboard/internal/domain"
)

const (
	recentProductsLimit = 5
	topBrandsLimit      = 10
	lowStockThreshold   = 20
)

// priceBucket is an upper-inclusive price interval; the last bucket is open.
type priceBucket struct {
	name, rng string
	upper     float64
}

var dashboardPriceBuckets = []priceBucket{
	{"$0-$25", "0-25", 25},
	{"$25-$50", "25-50", 50},
	{"$50-$100", "50-100", 100},
	{"$100-$200", "100-200", 200},
	{"$200+", "200+", math.Inf(1)},
}

// catalogPriceBuckets are upper-exclusive.
var catalogPriceBuckets = []priceBucket{
	{"0-50", "0-50", 50},
	{"50-100", "50-100", 100},
	{"100-500", "100-500", 500},
	{"500+", "500+", math.Inf(1)},
}

type brandAcc struct {
	count       int
	totalPrice  float64
	totalRating float64
}

type stockAcc struct {
	total, count, low int
}

type discountAcc struct {
	total, max   float64
	count, withD int
}

// Aggregate reduces one page of products into a dashboard snapshot.
// An empty input yields zero counts and zero averages.
func Aggregate(products []domain.Product) *domain.DashboardSnapshot {
	var (
		categories = newCounter()
		brands     = map[string]*brandAcc{}
		brandOrder []string
		stock      = map[string]*stockAcc{}
		discount   = map[string]*discountAcc{}
		ratings    = map[int]int{}

		totalRating float64
		totalValue  float64
	)
	priceRanges := make([]domain.PriceRange, len(dashboardPriceBuckets))
	for i, b := range dashboardPriceBuckets {
		priceRanges[i] = domain.PriceRange{Name: b.name, Range: b.rng}
	}
	scatter := make([]domain.ScatterPoint, 0, len(products))

	for _, p := range products {
		categories.inc(p.Category)

		b, ok := brands[p.Brand]
		if !ok {
			b = &brandAcc{}
			brands[p.Brand] = b
			brandOrder = append(brandOrder, p.Brand)
		}
		b.count++
		b.totalPrice += p.Price
		b.totalRating += p.Rating

		priceRanges[bucketUpperInclusive(dashboardPriceBuckets, p.Price)].Count++
		ratings[int(math.Floor(p.Rating))]++

		s, ok := stock[p.Category]
		if !ok {
			s = &stockAcc{}
			stock[p.Category] = s
		}
		s.total += p.Stock
		s.count++
		if p.Stock < lowStockThreshold {
			s.low++
		}

		d, ok := discount[p.Category]
		if !ok {
			d = &discountAcc{}
			discount[p.Category] = d
		}
		d.total += p.DiscountPercentage
		d.max = math.Max(d.max, p.DiscountPercentage)
		d.count++
		if p.DiscountPercentage > 0 {
			d.withD++
		}

		totalRating += p.Rating
		totalValue += p.Price * float64(p.Stock)

		scatter = append(scatter, domain.ScatterPoint{
			Price:    p.Price,
			Rating:   p.Rating,
			Category: p.Category,
			Title:    p.Title,
		})
	}

	recent := make([]domain.Product, 0, recentProductsLimit)
	for i := 0; i < len(products) && i < recentProductsLimit; i++ {
		recent = append(recent, products[i])
	}

	return &domain.DashboardSnapshot{
		TotalProducts:      len(products),
		TotalCategories:    categories.len(),
		AverageRating:      round(mean(totalRating, len(products)), 2),
		TotalValue:         int64(math.Round(totalValue)),
		RecentProducts:     recent,
		CategoryBreakdown:  categories.counts,
		CategoryShares:     categoryShares(categories, len(products)),
		PriceRanges:        priceRanges,
		RatingDistribution: ratingDistribution(ratings),
		BrandAnalysis:      brandAnalysis(brands, brandOrder),
		PriceVsRating:      scatter,
		StockAnalysis:      stockAnalysis(stock, categories.order),
		DiscountAnalysis:   discountAnalysis(discount, categories.order),
	}
}

// Summarize builds the coarse overview shown next to the product table.
func Summarize(products []domain.Product) *domain.CatalogSummary {
	categories := newCounter()
	priceRanges := make([]domain.PriceRange, len(catalogPriceBuckets))
	for i, b := range catalogPriceBuckets {
		priceRanges[i] = domain.PriceRange{Name: b.name, Range: b.rng}
	}

	var totalRating float64
	for _, p := range products {
		categories.inc(p.Category)
		priceRanges[bucketUpperExclusive(catalogPriceBuckets, p.Price)].Count++
		totalRating += p.Rating
	}

	return &domain.CatalogSummary{
		TotalProducts:   len(products),
		TotalCategories: categories.len(),
		AverageRating:   round(mean(totalRating, len(products)), 2),
		Categories:      categories.counts,
		PriceRanges:     priceRanges,
	}
}

func categoryShares(c *counter, total int) []domain.CategoryShare {
	out := make([]domain.CategoryShare, 0, c.len())
	for _, name := range c.order {
		n := c.counts[name]
		out = append(out, domain.CategoryShare{
			Name:       name,
			Value:      n,
			Percentage: round(mean(float64(n)*100, total), 1),
		})
	}
	return out
}

func ratingDistribution(ratings map[int]int) []domain.RatingBucket {
	stars := make([]int, 0, len(ratings))
	for n := range ratings {
		stars = append(stars, n)
	}
	sort.Ints(stars)

	out := make([]domain.RatingBucket, 0, len(stars))
	for _, n := range stars {
		out = append(out, domain.RatingBucket{Rating: fmt.Sprintf("%d stars", n), Count: ratings[n]})
	}
	return out
}

func brandAnalysis(brands map[string]*brandAcc, order []string) []domain.BrandSummary {
	out := make([]domain.BrandSummary, 0, len(order))
	for _, name := range order {
		b := brands[name]
		out = append(out, domain.BrandSummary{
			Brand:     name,
			Count:     b.count,
			AvgPrice:  round(mean(b.totalPrice, b.count), 2),
			AvgRating: round(mean(b.totalRating, b.count), 2),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if len(out) > topBrandsLimit {
		out = out[:topBrandsLimit]
	}
	return out
}

func stockAnalysis(stock map[string]*stockAcc, order []string) []domain.StockSummary {
	out := make([]domain.StockSummary, 0, len(order))
	for _, cat := range order {
		s := stock[cat]
		out = append(out, domain.StockSummary{
			Category:   cat,
			TotalStock: s.total,
			AvgStock:   int(math.Round(mean(float64(s.total), s.count))),
			LowStock:   s.low,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].TotalStock > out[j].TotalStock })
	return out
}

func discountAnalysis(discount map[string]*discountAcc, order []string) []domain.DiscountSummary {
	out := make([]domain.DiscountSummary, 0, len(order))
	for _, cat := range order {
		d := discount[cat]
		out = append(out, domain.DiscountSummary{
			Category:             cat,
			AvgDiscount:          round(mean(d.total, d.count), 2),
			MaxDiscount:          d.max,
			ProductsWithDiscount: d.withD,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].AvgDiscount > out[j].AvgDiscount })
	return out
}

func bucketUpperInclusive(buckets []priceBucket, price float64) int {
	for i, b := range buckets {
		if price <= b.upper {
			return i
		}
	}
	return len(buckets) - 1
}

func bucketUpperExclusive(buckets []priceBucket, price float64) int {
	for i, b := range buckets {
		if price < b.upper {
			return i
		}
	}
	return len(buckets) - 1
}

// counter counts keys and remembers first-appearance order.
type counter struct {
	counts map[string]int
	order  []string
}

func newCounter() *counter { return &counter{counts: map[string]int{}} }

func (c *counter) inc(key string) {
	if _, ok := c.counts[key]; !ok {
		c.order = append(c.order, key)
	}
	c.counts[key]++
}

func (c *counter) len() int { return len(c.order) }

func mean(sum float64, n int) float64 {
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// round rounds half away from zero to the given number of decimals.
func round(x float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(x*p) / p
}
