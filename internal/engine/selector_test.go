package engine

import (
	"errors"
	"testing"
	"time"

	"github.com/Dev-Redad/cosmo-v1/internal/config"
	"github.com/Dev-Redad/cosmo-v1/internal/domain"
	"github.com/Dev-Redad/cosmo-v1/internal/store"
)

func intPtr(v int) *int       { return &v }
func int64Ptr(v int64) *int64 { return &v }

func newTestSelector(seed int64) (*AccountSelector, *store.AccountStore) {
	accounts := store.NewAccountStore()
	sel := NewAccountSelector(accounts, NewRand(seed), config.ReferenceTZ)
	return sel, accounts
}

func TestAccountSelector_EmptyPool(t *testing.T) {
	sel, _ := newTestSelector(1)

	if _, err := sel.SelectAccount(4700); !errors.Is(err, domain.ErrNoAccountConfigured) {
		t.Fatalf("expected ErrNoAccountConfigured, got %v", err)
	}
}

func TestAccountSelector_LeastUsedWins(t *testing.T) {
	sel, accounts := newTestSelector(1)
	accounts.SetPool([]domain.UpiAccount{
		{ID: "a@bank", IsMain: true},
		{ID: "b@bank"},
	})

	sel.RecordUsage("a@bank")
	sel.RecordUsage("a@bank")

	got, err := sel.SelectAccount(4700)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "b@bank" {
		t.Errorf("expected least-used b@bank, got %s", got)
	}
}

func TestAccountSelector_TieBreakFairness(t *testing.T) {
	sel, accounts := newTestSelector(7)
	accounts.SetPool([]domain.UpiAccount{
		{ID: "a@bank", IsMain: true},
		{ID: "b@bank"},
		{ID: "c@bank"},
	})

	// No usage is recorded, so every selection ties all three accounts
	// at zero and exercises the random tie-break.
	const rounds = 600
	counts := make(map[string]int)
	for i := 0; i < rounds; i++ {
		got, err := sel.SelectAccount(4700)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		counts[got]++
	}

	if len(counts) != 3 {
		t.Fatalf("expected all 3 accounts selected, got %v", counts)
	}
	// A uniform tie-break gives each account about a third; anything
	// below a sixth means one account is being starved.
	for _, id := range []string{"a@bank", "b@bank", "c@bank"} {
		if counts[id] < rounds/6 {
			t.Errorf("account %s selected %d of %d times", id, counts[id], rounds)
		}
	}
}

func TestAccountSelector_CapExcludes(t *testing.T) {
	sel, accounts := newTestSelector(1)
	accounts.SetPool([]domain.UpiAccount{
		{ID: "a@bank", IsMain: true, DailyCapFixed: intPtr(1)},
		{ID: "b@bank"},
	})

	sel.RecordUsage("a@bank") // a is now at cap

	for i := 0; i < 5; i++ {
		got, err := sel.SelectAccount(4700)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != "b@bank" {
			t.Fatalf("capped account selected: %s", got)
		}
	}
}

func TestAccountSelector_RangeExcludes(t *testing.T) {
	sel, accounts := newTestSelector(1)
	accounts.SetPool([]domain.UpiAccount{
		{ID: "small@bank", IsMain: true, MaxAmount: int64Ptr(10000)},
		{ID: "big@bank", MinAmount: int64Ptr(50000)},
	})

	got, err := sel.SelectAccount(80000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "big@bank" {
		t.Errorf("expected big@bank for 800.00, got %s", got)
	}
}

func TestAccountSelector_FallbackChain(t *testing.T) {
	t.Run("all capped prefers main when in range", func(t *testing.T) {
		sel, accounts := newTestSelector(1)
		accounts.SetPool([]domain.UpiAccount{
			{ID: "a@bank", DailyCapFixed: intPtr(1)},
			{ID: "main@bank", IsMain: true, DailyCapFixed: intPtr(1)},
		})
		sel.RecordUsage("a@bank")
		sel.RecordUsage("main@bank")

		got, err := sel.SelectAccount(4700)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != "main@bank" {
			t.Errorf("expected main fallback, got %s", got)
		}
	})

	t.Run("all capped falls to first in-range when main is not", func(t *testing.T) {
		sel, accounts := newTestSelector(1)
		accounts.SetPool([]domain.UpiAccount{
			{ID: "main@bank", IsMain: true, MaxAmount: int64Ptr(100)},
			{ID: "a@bank", DailyCapFixed: intPtr(1)},
		})
		sel.RecordUsage("a@bank")

		got, err := sel.SelectAccount(4700)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != "a@bank" {
			t.Errorf("expected in-range a@bank, got %s", got)
		}
	})

	t.Run("nothing in range lands on main anyway", func(t *testing.T) {
		sel, accounts := newTestSelector(1)
		accounts.SetPool([]domain.UpiAccount{
			{ID: "a@bank", MaxAmount: int64Ptr(100)},
			{ID: "main@bank", IsMain: true, MaxAmount: int64Ptr(100)},
		})

		got, err := sel.SelectAccount(4700)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != "main@bank" {
			t.Errorf("expected main@bank, got %s", got)
		}
	})
}

func TestAccountSelector_ForceOverride(t *testing.T) {
	setup := func() (*AccountSelector, *store.AccountStore) {
		sel, accounts := newTestSelector(1)
		accounts.SetPool([]domain.UpiAccount{
			{ID: "main@bank", IsMain: true},
			{ID: "forced@bank", MaxAmount: int64Ptr(10000), DailyCapFixed: intPtr(1)},
		})
		return sel, accounts
	}

	t.Run("unconditional force ignores range and cap", func(t *testing.T) {
		sel, accounts := setup()
		accounts.SetForce(&domain.ForceOverride{AccountID: "forced@bank"})
		sel.RecordUsage("forced@bank") // at cap

		got, err := sel.SelectAccount(80000) // out of range too
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != "forced@bank" {
			t.Errorf("expected forced@bank, got %s", got)
		}
	})

	t.Run("respect range vetoes out-of-range amount", func(t *testing.T) {
		sel, accounts := setup()
		accounts.SetForce(&domain.ForceOverride{AccountID: "forced@bank", RespectAmountRange: true})

		got, err := sel.SelectAccount(80000)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got == "forced@bank" {
			t.Error("range veto ignored")
		}
	})

	t.Run("respect cap vetoes capped account", func(t *testing.T) {
		sel, accounts := setup()
		accounts.SetForce(&domain.ForceOverride{AccountID: "forced@bank", RespectTxnCap: true})
		sel.RecordUsage("forced@bank")

		got, err := sel.SelectAccount(4700)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got == "forced@bank" {
			t.Error("cap veto ignored")
		}
	})

	t.Run("force on a deleted account falls through", func(t *testing.T) {
		sel, accounts := setup()
		accounts.SetForce(&domain.ForceOverride{AccountID: "ghost@bank"})

		got, err := sel.SelectAccount(4700)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got == "ghost@bank" {
			t.Error("ghost account selected")
		}
	})
}

func TestAccountSelector_DayRollover(t *testing.T) {
	sel, accounts := newTestSelector(1)
	accounts.SetPool([]domain.UpiAccount{
		{ID: "a@bank", IsMain: true, DailyCapMin: intPtr(3), DailyCapMax: intPtr(6)},
	})

	// 23:30 IST on day one.
	day1 := time.Date(2026, 8, 1, 18, 0, 0, 0, time.UTC)
	sel.now = func() time.Time { return day1 }

	sel.RecordUsage("a@bank")
	sel.RecordAmount("a@bank", 4700)

	st, ok := accounts.State("a@bank")
	if !ok {
		t.Fatal("expected state record")
	}
	if st.DateKey != "2026-08-01" {
		t.Fatalf("expected IST date key 2026-08-01, got %s", st.DateKey)
	}
	if st.TodaysCap == nil || *st.TodaysCap < 3 || *st.TodaysCap > 6 {
		t.Fatalf("cap outside configured range: %v", st.TodaysCap)
	}

	// One hour later it is past IST midnight.
	day2 := day1.Add(time.Hour)
	sel.now = func() time.Time { return day2 }

	rolled := sel.StateForToday(accounts.Pool()[0])
	if rolled.DateKey != "2026-08-02" {
		t.Fatalf("expected rollover to 2026-08-02, got %s", rolled.DateKey)
	}
	if rolled.TxnsUsedToday != 0 || rolled.CollectedToday != 0 {
		t.Error("today's counters should reset on rollover")
	}
	if rolled.CollectedYesterday != 4700 {
		t.Errorf("expected yesterday's collection 4700, got %d", rolled.CollectedYesterday)
	}
	if rolled.CollectedAllTime != 4700 {
		t.Errorf("all-time collection should survive rollover, got %d", rolled.CollectedAllTime)
	}

	// Rolling again on the same day changes nothing.
	again := sel.StateForToday(accounts.Pool()[0])
	if again != rolled {
		t.Errorf("second rollover on the same day not idempotent: %+v vs %+v", again, rolled)
	}
}

func TestAccountSelector_ResetToday(t *testing.T) {
	sel, accounts := newTestSelector(1)
	accounts.SetPool([]domain.UpiAccount{{ID: "a@bank", IsMain: true}})

	sel.RecordUsage("a@bank")
	sel.RecordAmount("a@bank", 4700)
	sel.ResetToday()

	st, _ := accounts.State("a@bank")
	if st.TxnsUsedToday != 0 || st.CollectedToday != 0 {
		t.Errorf("reset left today's counters: %+v", st)
	}
	if st.CollectedAllTime != 4700 {
		t.Errorf("reset must not touch the all-time total, got %d", st.CollectedAllTime)
	}
}
