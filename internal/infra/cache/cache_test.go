package cache_test

import (
	"strings"
	"testing"
	"time"

	"github.com/Ari-Han-t/CAPS/internal/domain"
	"github.com/Ari-Han-t/CAPS/internal/infra/cache"
)

func TestSnapshot_ReplaceAndGet(t *testing.T) {
	c := cache.New[domain.MerchantScoreData]()

	c.Replace(map[string]domain.MerchantScoreData{
		"shop@upi": {MerchantVPA: "shop@upi", Badge: domain.BadgeLikelySafe},
	})
	val, ok := c.Get("shop@upi")
	if !ok {
		t.Fatal("expected hit")
	}
	if val.Badge != domain.BadgeLikelySafe {
		t.Errorf("expected badge LIKELY_SAFE, got '%s'", val.Badge)
	}
}

func TestSnapshot_GetMiss(t *testing.T) {
	c := cache.New[string]()

	if _, ok := c.Get("nobody@upi"); ok {
		t.Fatal("expected miss")
	}
}

func TestSnapshot_EntriesLiveUntilReplaced(t *testing.T) {
	c := cache.New[string]()
	c.Replace(map[string]string{"tea@upi": "1"})

	time.Sleep(50 * time.Millisecond)

	if _, ok := c.Get("tea@upi"); !ok {
		t.Fatal("expected entry to survive until the next replace")
	}
}

func TestSnapshot_KeyedLookupIgnoresSpelling(t *testing.T) {
	c := cache.NewKeyed[string](func(k string) string {
		return strings.ToLower(strings.TrimSpace(k))
	})

	c.Replace(map[string]string{"Shop@UPI": "v"})

	if v, ok := c.Get("  shop@upi "); !ok || v != "v" {
		t.Fatalf("expected normalized hit, got %q %v", v, ok)
	}
}

func TestSnapshot_ReplaceDropsPreviousContent(t *testing.T) {
	c := cache.New[string]()

	c.Replace(map[string]string{"old@upi": "1"})
	c.Replace(map[string]string{"a@upi": "1", "b@upi": "2"})

	if _, ok := c.Get("old@upi"); ok {
		t.Fatal("expected replace to drop old@upi")
	}
	if _, ok := c.Get("b@upi"); !ok {
		t.Fatal("expected b@upi after replace")
	}

	c.Replace(nil)
	if _, ok := c.Get("a@upi"); ok {
		t.Fatal("expected nil replace to empty the snapshot")
	}
}
