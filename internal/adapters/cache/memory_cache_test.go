package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/mikey/email-triage/internal/core"
)

func email(subject string) *core.ParsedEmail {
	return &core.ParsedEmail{Subject: subject}
}

func TestCacheGetSet(t *testing.T) {
	c := NewMemoryCache(10, time.Minute, time.Minute, zap.NewNop())
	defer c.Stop()

	if _, ok := c.Get("missing"); ok {
		t.Error("got a hit for a key that was never set")
	}

	c.Set("fp1", email("hello"))
	got, ok := c.Get("fp1")
	if !ok {
		t.Fatal("expected a hit after Set")
	}
	if got.Subject != "hello" {
		t.Errorf("subject = %q", got.Subject)
	}
	if c.Len() != 1 {
		t.Errorf("Len = %d, want 1", c.Len())
	}
}

func TestCacheSetOverwrites(t *testing.T) {
	c := NewMemoryCache(10, time.Minute, time.Minute, zap.NewNop())
	defer c.Stop()

	c.Set("fp1", email("first"))
	c.Set("fp1", email("second"))

	got, ok := c.Get("fp1")
	if !ok || got.Subject != "second" {
		t.Errorf("got %v, %v", got, ok)
	}
	if c.Len() != 1 {
		t.Errorf("Len = %d, want 1", c.Len())
	}
}

func TestCacheEvictsLeastRecentlyUsed(t *testing.T) {
	c := NewMemoryCache(3, time.Minute, time.Minute, zap.NewNop())
	defer c.Stop()

	c.Set("fp1", email("1"))
	c.Set("fp2", email("2"))
	c.Set("fp3", email("3"))

	// Touch fp1 so fp2 becomes the eviction candidate.
	if _, ok := c.Get("fp1"); !ok {
		t.Fatal("fp1 missing before eviction")
	}

	c.Set("fp4", email("4"))

	if _, ok := c.Get("fp2"); ok {
		t.Error("least recently used entry survived eviction")
	}
	for _, fp := range []string{"fp1", "fp3", "fp4"} {
		if _, ok := c.Get(fp); !ok {
			t.Errorf("%s evicted unexpectedly", fp)
		}
	}
	if c.Len() != 3 {
		t.Errorf("Len = %d, want 3", c.Len())
	}
}

func TestCacheZeroSizeStoresNothing(t *testing.T) {
	c := NewMemoryCache(0, time.Minute, time.Minute, zap.NewNop())
	defer c.Stop()

	for i := 0; i < 5; i++ {
		c.Set(fmt.Sprintf("fp-%d", i), email("x"))
	}

	if c.Len() != 0 {
		t.Errorf("Len = %d with zero capacity, want 0", c.Len())
	}
	if _, ok := c.Get("fp-0"); ok {
		t.Error("zero-capacity cache served an entry")
	}
}

func TestCacheTTLExpiry(t *testing.T) {
	c := NewMemoryCache(10, 20*time.Millisecond, time.Minute, zap.NewNop())
	defer c.Stop()

	c.Set("fp1", email("short lived"))
	time.Sleep(40 * time.Millisecond)

	if _, ok := c.Get("fp1"); ok {
		t.Error("expired entry still served")
	}
	if c.Len() != 0 {
		t.Errorf("Len = %d after lazy expiry, want 0", c.Len())
	}
}

func TestCacheBackgroundCleanup(t *testing.T) {
	c := NewMemoryCache(10, 10*time.Millisecond, 20*time.Millisecond, zap.NewNop())
	defer c.Stop()

	c.Set("fp1", email("1"))
	c.Set("fp2", email("2"))

	deadline := time.Now().Add(time.Second)
	for c.Len() != 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if c.Len() != 0 {
		t.Errorf("Len = %d after cleanup window, want 0", c.Len())
	}
}

func TestCacheConcurrentAccess(t *testing.T) {
	c := NewMemoryCache(50, time.Minute, time.Minute, zap.NewNop())
	defer c.Stop()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				fp := fmt.Sprintf("fp-%d", j%20)
				c.Set(fp, email(fp))
				c.Get(fp)
			}
		}(i)
	}
	wg.Wait()

	if c.Len() > 20 {
		t.Errorf("Len = %d, want at most 20", c.Len())
	}
}
