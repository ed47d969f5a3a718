package store

import (
	"testing"
	"time"
)

func TestLockStore_ReserveConflict(t *testing.T) {
	s := NewLockStore()
	now := time.Now()
	expiry := now.Add(5 * time.Minute)

	if !s.Reserve("47", expiry, now) {
		t.Fatal("first reservation should succeed")
	}
	if s.Reserve("47", expiry, now) {
		t.Fatal("second reservation of a live key should fail")
	}
	if !s.Reserve("48", expiry, now) {
		t.Fatal("reservation of a different key should succeed")
	}
}

func TestLockStore_Release(t *testing.T) {
	s := NewLockStore()
	now := time.Now()
	expiry := now.Add(5 * time.Minute)

	s.Reserve("47", expiry, now)
	s.Release("47")

	if !s.Reserve("47", expiry, now) {
		t.Fatal("released key should be reservable again")
	}

	// Releasing an absent key is a no-op.
	s.Release("no-such-key")
}

func TestLockStore_ReleaseIfExpiredBy(t *testing.T) {
	s := NewLockStore()
	now := time.Now()
	expiry := now.Add(5 * time.Minute)

	s.Reserve("47", expiry, now)

	// A cutoff before the lock's expiry must not touch it.
	if s.ReleaseIfExpiredBy("47", expiry.Add(-time.Second)) {
		t.Fatal("lock held past the cutoff should not be released")
	}
	if !s.Held("47", now) {
		t.Fatal("lock should survive a conditional release with an earlier cutoff")
	}

	// The lock's own expiry is a sufficient cutoff.
	if !s.ReleaseIfExpiredBy("47", expiry) {
		t.Fatal("lock should be released at its own expiry cutoff")
	}
	if !s.Reserve("47", expiry, now) {
		t.Fatal("released key should be reservable again")
	}

	// An absent key reports no release.
	s.Release("47")
	if s.ReleaseIfExpiredBy("47", expiry.Add(time.Hour)) {
		t.Fatal("absent key should report no release")
	}
}

func TestLockStore_LazyReclaimAfterExpiry(t *testing.T) {
	s := NewLockStore()
	now := time.Now()

	s.Reserve("47", now.Add(time.Minute), now)

	// Before expiry the key stays held.
	if s.Reserve("47", now.Add(time.Hour), now.Add(59*time.Second)) {
		t.Fatal("key should still be held before expiry")
	}

	// At and after expiry the row behaves as if absent.
	if !s.Reserve("47", now.Add(time.Hour), now.Add(time.Minute)) {
		t.Fatal("key should be reservable once the prior lock expired")
	}
}

func TestLockStore_ExpireDue(t *testing.T) {
	s := NewLockStore()
	now := time.Now()

	s.Reserve("47", now.Add(time.Minute), now)
	s.Reserve("48", now.Add(time.Hour), now)

	due := s.ExpireDue(now.Add(2 * time.Minute))
	if len(due) != 1 || due[0] != "47" {
		t.Fatalf("expected [47] due, got %v", due)
	}
	if s.Count() != 1 {
		t.Fatalf("expected 1 resident lock, got %d", s.Count())
	}
	if !s.Held("48", now) {
		t.Fatal("unexpired lock should survive the sweep")
	}
}
