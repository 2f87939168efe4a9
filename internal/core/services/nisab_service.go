package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/hifzmaal_backend/internal/core/domain"
	portssvc "github.com/SscSPs/hifzmaal_backend/internal/core/ports/services"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultMetalRateTTL       = time.Hour
	DefaultMetalRateCacheSize = 64

	metalRateFetchTimeout = 10 * time.Second
)

// Metal rate lookup results recorded as metrics.
const (
	rateLookupHit      = "hit"
	rateLookupMiss     = "miss"
	rateLookupFallback = "fallback"
)

type nisabThresholds struct {
	gold   decimal.Decimal
	silver decimal.Decimal
}

// fallbackNisab is used whenever rates cannot be fetched. Unknown currencies use PKR.
var fallbackNisab = map[string]nisabThresholds{
	"PKR": {gold: decimal.NewFromInt(850000), silver: decimal.NewFromInt(95000)},
	"USD": {gold: decimal.NewFromInt(3000), silver: decimal.NewFromInt(350)},
	"EUR": {gold: decimal.NewFromInt(2800), silver: decimal.NewFromInt(320)},
}

// FallbackNisabAmount returns the static nisab threshold of a metal in currency.
func FallbackNisabAmount(nisabType domain.NisabType, currency string) decimal.Decimal {
	t, ok := fallbackNisab[strings.ToUpper(currency)]
	if !ok {
		t = fallbackNisab[domain.DefaultCurrency]
	}
	if nisabType == domain.NisabGold {
		return t.gold
	}
	return t.silver
}

type nisabService struct {
	BaseService
	source portssvc.MetalPriceSource
	cache  *expirable.LRU[string, domain.MetalRates]
	group  singleflight.Group
}

// NewNisabService creates the nisab resolver. Rates are cached per currency for ttl and
// concurrent misses for the same currency share one fetch.
func NewNisabService(source portssvc.MetalPriceSource, cacheSize int, ttl time.Duration, options ...ServiceOption) portssvc.NisabSvc {
	if cacheSize <= 0 {
		cacheSize = DefaultMetalRateCacheSize
	}
	if ttl <= 0 {
		ttl = DefaultMetalRateTTL
	}
	return &nisabService{
		BaseService: newBase(options),
		source:      source,
		cache:       expirable.NewLRU[string, domain.MetalRates](cacheSize, nil, ttl),
	}
}

var _ portssvc.NisabSvc = (*nisabService)(nil)

func (s *nisabService) GetNisabAmount(ctx context.Context, nisabType domain.NisabType, currency string) decimal.Decimal {
	currency = strings.ToUpper(currency)
	if currency == "" {
		currency = domain.DefaultCurrency
	}

	rates, err := s.rates(ctx, currency)
	if err != nil || !rates.PricePerGram(nisabType).IsPositive() {
		s.Metrics.RecordMetalRateLookup(rateLookupFallback)
		if err != nil {
			s.LogError(ctx, err, "Failed to fetch metal rates, using fallback nisab",
				slog.String("currency", currency))
		}
		return FallbackNisabAmount(nisabType, currency)
	}
	return nisabType.Grams().Mul(rates.PricePerGram(nisabType)).Round(2)
}

func (s *nisabService) rates(ctx context.Context, currency string) (domain.MetalRates, error) {
	key := fmt.Sprintf("metal_rates_%s", currency)
	if rates, ok := s.cache.Get(key); ok {
		s.Metrics.RecordMetalRateLookup(rateLookupHit)
		return rates, nil
	}

	// The fetch is shared by every waiting caller, so it must outlive the one that started it.
	ch := s.group.DoChan(key, func() (any, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), metalRateFetchTimeout)
		defer cancel()
		rates, err := s.source.FetchRates(fetchCtx, currency)
		if err != nil {
			return domain.MetalRates{}, err
		}
		s.cache.Add(key, rates)
		return rates, nil
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			return domain.MetalRates{}, res.Err
		}
		s.Metrics.RecordMetalRateLookup(rateLookupMiss)
		return res.Val.(domain.MetalRates), nil
	case <-ctx.Done():
		return domain.MetalRates{}, ctx.Err()
	}
}

// staticRates are per gram prices used by StaticMetalPriceSource.
var staticRates = map[string]domain.MetalRates{
	"PKR": {Currency: "PKR", Gold: decimal.NewFromInt(9715), Silver: decimal.NewFromInt(155)},
	"USD": {Currency: "USD", Gold: decimal.NewFromInt(65), Silver: decimal.RequireFromString("0.85")},
}

// StaticMetalPriceSource serves fixed rates. Currencies without their own rates get the PKR rates.
type StaticMetalPriceSource struct{}

var _ portssvc.MetalPriceSource = StaticMetalPriceSource{}

func (StaticMetalPriceSource) FetchRates(_ context.Context, currency string) (domain.MetalRates, error) {
	rates, ok := staticRates[strings.ToUpper(currency)]
	if !ok {
		rates = staticRates[domain.DefaultCurrency]
	}
	return rates, nil
}
