package market

import (
	"testing"
	"time"
)

func TestListingActive(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 2, 10, 14, 0, 0, 0, time.UTC)
	l := Listing{ListedAt: now.Add(-time.Hour), ExpiresAt: now.Add(time.Hour)}

	if !l.Active(now) {
		t.Fatal("unsold, unexpired listing must be active")
	}

	sold := l
	sold.Sold = true
	if sold.Active(now) {
		t.Fatal("sold listing must be inactive")
	}

	expired := l
	expired.ExpiresAt = now.Add(-time.Minute)
	if expired.Active(now) {
		t.Fatal("expired listing must be inactive even before cleanup")
	}

	boundary := l
	boundary.ExpiresAt = now
	if boundary.Active(now) {
		t.Fatal("listing expiring exactly now must be inactive")
	}
}
