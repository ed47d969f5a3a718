package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dev-Redad/cosmo-v1/internal/config"
	"github.com/Dev-Redad/cosmo-v1/internal/domain"
	"github.com/Dev-Redad/cosmo-v1/internal/engine"
	"github.com/Dev-Redad/cosmo-v1/internal/store"
)

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

func newAdminFixture() (*AdminService, *store.AccountStore, *engine.AccountSelector) {
	accounts := store.NewAccountStore()
	selector := engine.NewAccountSelector(accounts, engine.NewRand(1), config.ReferenceTZ)
	return NewAdminService(accounts, selector), accounts, selector
}

func TestAdminService_AddAccount(t *testing.T) {
	svc, _, _ := newAdminFixture()

	a, err := svc.AddAccount(AccountRequest{
		ID:          "shop@bank",
		DisplayName: "Shop",
		MinAmount:   floatPtr(10),
		MaxAmount:   floatPtr(5000),
		CapFixed:    intPtr(25),
	})
	require.NoError(t, err)

	assert.Equal(t, "shop@bank", a.ID)
	assert.True(t, a.IsMain, "first account becomes main")
	require.NotNil(t, a.MinAmount)
	assert.Equal(t, int64(1000), *a.MinAmount)
	require.NotNil(t, a.MaxAmount)
	assert.Equal(t, int64(500000), *a.MaxAmount)
	require.NotNil(t, a.DailyCapFixed)
	assert.Equal(t, 25, *a.DailyCapFixed)

	_, err = svc.AddAccount(AccountRequest{ID: "shop@bank"})
	assert.ErrorIs(t, err, domain.ErrAccountExists)
}

func TestAdminService_AddAccount_Validation(t *testing.T) {
	svc, _, _ := newAdminFixture()

	tests := []struct {
		name string
		req  AccountRequest
	}{
		{"bad upi id", AccountRequest{ID: "not-a-upi-id"}},
		{"missing handle", AccountRequest{ID: "@bank"}},
		{"numeric bank suffix", AccountRequest{ID: "shop@123"}},
		{"negative min", AccountRequest{ID: "shop@bank", MinAmount: floatPtr(-5)}},
		{"three decimals", AccountRequest{ID: "shop@bank", MinAmount: floatPtr(10.555)}},
		{"negative cap", AccountRequest{ID: "shop@bank", CapFixed: intPtr(-1)}},
		{"half cap range", AccountRequest{ID: "shop@bank", CapMin: intPtr(3)}},
		{"negative cap range", AccountRequest{ID: "shop@bank", CapMin: intPtr(-3), CapMax: intPtr(5)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.AddAccount(tt.req)
			var verr *domain.ValidationError
			assert.ErrorAs(t, err, &verr)
		})
	}
}

func TestAdminService_InvertedRangesAreSwapped(t *testing.T) {
	svc, _, _ := newAdminFixture()

	a, err := svc.AddAccount(AccountRequest{
		ID:        "shop@bank",
		MinAmount: floatPtr(5000),
		MaxAmount: floatPtr(10),
		CapMin:    intPtr(8),
		CapMax:    intPtr(3),
	})
	require.NoError(t, err)

	assert.Equal(t, int64(1000), *a.MinAmount)
	assert.Equal(t, int64(500000), *a.MaxAmount)
	assert.Equal(t, 3, *a.DailyCapMin)
	assert.Equal(t, 8, *a.DailyCapMax)
}

func TestAdminService_UpdateAccount(t *testing.T) {
	svc, _, _ := newAdminFixture()

	_, err := svc.AddAccount(AccountRequest{ID: "shop@bank", DisplayName: "Old"})
	require.NoError(t, err)

	a, err := svc.UpdateAccount(AccountRequest{ID: "shop@bank", DisplayName: "New", IsMain: true})
	require.NoError(t, err)
	assert.Equal(t, "New", a.DisplayName)

	_, err = svc.UpdateAccount(AccountRequest{ID: "ghost@bank"})
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestAdminService_Force(t *testing.T) {
	svc, accounts, _ := newAdminFixture()

	_, err := svc.AddAccount(AccountRequest{ID: "shop@bank"})
	require.NoError(t, err)

	require.NoError(t, svc.SetForce("shop@bank", true, false))
	f := accounts.Force()
	require.NotNil(t, f)
	assert.Equal(t, "shop@bank", f.AccountID)
	assert.True(t, f.RespectTxnCap)
	assert.False(t, f.RespectAmountRange)
	assert.False(t, f.SetAt.IsZero())

	assert.ErrorIs(t, svc.SetForce("ghost@bank", false, false), domain.ErrAccountNotFound)

	svc.ClearForce()
	assert.Nil(t, accounts.Force())
}

func TestAdminService_ResetToday(t *testing.T) {
	svc, accounts, selector := newAdminFixture()

	_, err := svc.AddAccount(AccountRequest{ID: "shop@bank"})
	require.NoError(t, err)
	selector.RecordUsage("shop@bank")
	selector.RecordAmount("shop@bank", 4700)

	svc.ResetToday()

	st, ok := accounts.State("shop@bank")
	require.True(t, ok)
	assert.Zero(t, st.TxnsUsedToday)
	assert.Zero(t, st.CollectedToday)
	assert.Equal(t, int64(4700), st.CollectedAllTime)
}

func TestAdminService_GetSettings(t *testing.T) {
	svc, _, selector := newAdminFixture()

	_, err := svc.AddAccount(AccountRequest{ID: "a@bank"})
	require.NoError(t, err)
	_, err = svc.AddAccount(AccountRequest{ID: "b@bank"})
	require.NoError(t, err)
	require.NoError(t, svc.SetForce("b@bank", false, false))
	selector.RecordUsage("a@bank")

	settings := svc.GetSettings()
	require.Len(t, settings.Accounts, 2)
	require.NotNil(t, settings.Force)
	assert.Equal(t, "b@bank", settings.Force.AccountID)

	for _, as := range settings.Accounts {
		switch as.Account.ID {
		case "a@bank":
			assert.True(t, as.Account.IsMain)
			assert.False(t, as.Forced)
			assert.Equal(t, 1, as.State.TxnsUsedToday)
		case "b@bank":
			assert.True(t, as.Forced)
			assert.Zero(t, as.State.TxnsUsedToday)
		}
	}
}
