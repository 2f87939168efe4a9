package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/hifzmaal_backend/internal/core/domain"
	"github.com/SscSPs/hifzmaal_backend/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockMetalPriceSource struct {
	mock.Mock
}

func (m *MockMetalPriceSource) FetchRates(ctx context.Context, currency string) (domain.MetalRates, error) {
	args := m.Called(ctx, currency)
	return args.Get(0).(domain.MetalRates), args.Error(1)
}

func TestGetNisabAmount_StaticRates(t *testing.T) {
	svc := services.NewNisabService(services.StaticMetalPriceSource{}, 0, 0)
	ctx := context.Background()

	tests := []struct {
		nisabType domain.NisabType
		currency  string
		want      string
	}{
		{domain.NisabSilver, "PKR", "94915.80"},
		{domain.NisabGold, "PKR", "849868.20"},
		{domain.NisabSilver, "usd", "520.51"},
		{domain.NisabGold, "USD", "5686.20"},
		// Currencies without their own rates use PKR.
		{domain.NisabSilver, "GBP", "94915.80"},
	}
	for _, tt := range tests {
		t.Run(string(tt.nisabType)+"/"+tt.currency, func(t *testing.T) {
			got := svc.GetNisabAmount(ctx, tt.nisabType, tt.currency)
			assert.Equal(t, tt.want, got.StringFixed(2))
		})
	}
}

func TestGetNisabAmount_CachesPerCurrency(t *testing.T) {
	source := new(MockMetalPriceSource)
	source.On("FetchRates", mock.Anything, "PKR").
		Return(domain.MetalRates{Currency: "PKR", Gold: dec("10000"), Silver: dec("200")}, nil).Once()
	svc := services.NewNisabService(source, 8, time.Hour)
	ctx := context.Background()

	first := svc.GetNisabAmount(ctx, domain.NisabSilver, "PKR")
	second := svc.GetNisabAmount(ctx, domain.NisabGold, "pkr")

	assert.Equal(t, "122472.00", first.StringFixed(2))
	assert.Equal(t, "874800.00", second.StringFixed(2))
	source.AssertExpectations(t)
}

func TestGetNisabAmount_ConcurrentMissesShareOneFetch(t *testing.T) {
	source := new(MockMetalPriceSource)
	source.On("FetchRates", mock.Anything, "USD").
		After(50*time.Millisecond).
		Return(domain.MetalRates{Currency: "USD", Gold: dec("65"), Silver: dec("0.85")}, nil)
	svc := services.NewNisabService(source, 8, time.Hour)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			svc.GetNisabAmount(context.Background(), domain.NisabSilver, "USD")
		}()
	}
	wg.Wait()

	source.AssertNumberOfCalls(t, "FetchRates", 1)
}

func TestGetNisabAmount_CancelledCallerDoesNotCancelSharedFetch(t *testing.T) {
	started := make(chan context.Context, 1)
	release := make(chan struct{})
	source := new(MockMetalPriceSource)
	source.On("FetchRates", mock.Anything, "PKR").
		Run(func(args mock.Arguments) {
			started <- args.Get(0).(context.Context)
			<-release
		}).
		Return(domain.MetalRates{Currency: "PKR", Gold: dec("10000"), Silver: dec("200")}, nil).Once()
	svc := services.NewNisabService(source, 8, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	first := make(chan string, 1)
	go func() {
		first <- svc.GetNisabAmount(ctx, domain.NisabSilver, "PKR").String()
	}()

	fetchCtx := <-started
	cancel()
	// The cancelled caller stops waiting and uses the fallback table on its own.
	assert.Equal(t, "95000", <-first)
	assert.NoError(t, fetchCtx.Err())

	close(release)
	assert.Eventually(t, func() bool {
		return svc.GetNisabAmount(context.Background(), domain.NisabSilver, "PKR").StringFixed(2) == "122472.00"
	}, time.Second, 10*time.Millisecond)
	source.AssertExpectations(t)
}

func TestGetNisabAmount_FallbackWhenSourceFails(t *testing.T) {
	source := new(MockMetalPriceSource)
	source.On("FetchRates", mock.Anything, mock.Anything).Return(domain.MetalRates{}, assert.AnError)
	svc := services.NewNisabService(source, 8, time.Hour)
	ctx := context.Background()

	assert.Equal(t, "95000", svc.GetNisabAmount(ctx, domain.NisabSilver, "PKR").String())
	assert.Equal(t, "3000", svc.GetNisabAmount(ctx, domain.NisabGold, "USD").String())
	assert.Equal(t, "320", svc.GetNisabAmount(ctx, domain.NisabSilver, "EUR").String())
	assert.Equal(t, "850000", svc.GetNisabAmount(ctx, domain.NisabGold, "SAR").String())
}

func TestFallbackNisabAmount(t *testing.T) {
	assert.Equal(t, "2800", services.FallbackNisabAmount(domain.NisabGold, "eur").String())
	assert.Equal(t, "95000", services.FallbackNisabAmount(domain.NisabSilver, "XYZ").String())
}
