package cache

import (
	"context"
	"testing"
	"time"

	"paylater/internal/afterpay"
)

func countingFetch(cfg *afterpay.Configuration, calls *int) FetchFunc {
	return func(ctx context.Context) *afterpay.Configuration {
		*calls++
		return cfg
	}
}

func TestGetFetchesOnceWithinTTL(t *testing.T) {
	c := New(nil, time.Hour, nil)
	cfg := &afterpay.Configuration{
		MaximumAmount: &afterpay.Money{Amount: "1000.00", Currency: "USD"},
	}

	var calls int
	fetch := countingFetch(cfg, &calls)

	for i := 0; i < 3; i++ {
		got := c.Get(context.Background(), "merchant-1", fetch)
		if got == nil || got.MaximumAmount.Amount != "1000.00" {
			t.Fatalf("Get() = %+v, want cached configuration", got)
		}
	}
	if calls != 1 {
		t.Errorf("fetch called %d times, want 1", calls)
	}
}

func TestGetRefetchesAfterExpiry(t *testing.T) {
	c := New(nil, time.Nanosecond, nil)
	cfg := &afterpay.Configuration{}

	var calls int
	fetch := countingFetch(cfg, &calls)

	c.Get(context.Background(), "merchant-1", fetch)
	time.Sleep(time.Millisecond)
	c.Get(context.Background(), "merchant-1", fetch)

	if calls != 2 {
		t.Errorf("fetch called %d times, want 2 after expiry", calls)
	}
}

func TestFailedFetchIsNotCached(t *testing.T) {
	c := New(nil, time.Hour, nil)

	var calls int
	fetch := countingFetch(nil, &calls)

	if got := c.Get(context.Background(), "merchant-1", fetch); got != nil {
		t.Errorf("Get() = %+v, want nil on failed fetch", got)
	}
	c.Get(context.Background(), "merchant-1", fetch)

	if calls != 2 {
		t.Errorf("fetch called %d times, want 2 when failures are not cached", calls)
	}
}

func TestEntriesAreKeyedByMerchant(t *testing.T) {
	c := New(nil, time.Hour, nil)

	a := &afterpay.Configuration{MaximumAmount: &afterpay.Money{Amount: "100.00", Currency: "USD"}}
	b := &afterpay.Configuration{MaximumAmount: &afterpay.Money{Amount: "200.00", Currency: "AUD"}}

	var callsA, callsB int
	c.Get(context.Background(), "merchant-a", countingFetch(a, &callsA))
	got := c.Get(context.Background(), "merchant-b", countingFetch(b, &callsB))

	if callsB != 1 {
		t.Errorf("merchant-b fetch called %d times, want 1", callsB)
	}
	if got.MaximumAmount.Currency != "AUD" {
		t.Errorf("Get(merchant-b) currency = %q, want AUD", got.MaximumAmount.Currency)
	}
}

func TestRefreshBypassesCachedValue(t *testing.T) {
	c := New(nil, time.Hour, nil)

	var calls int
	fetch := countingFetch(&afterpay.Configuration{}, &calls)

	c.Get(context.Background(), "merchant-1", fetch)
	c.Refresh(context.Background(), "merchant-1", fetch)

	if calls != 2 {
		t.Errorf("fetch called %d times, want 2 with explicit refresh", calls)
	}
}

func TestZeroTTLFallsBackToDefault(t *testing.T) {
	c := New(nil, 0, nil)
	if c.ttl != DefaultTTL {
		t.Errorf("ttl = %v, want %v", c.ttl, DefaultTTL)
	}
}
