package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dev-Redad/cosmo-v1/internal/domain"
	"github.com/Dev-Redad/cosmo-v1/internal/store"
)

func TestProductService_Create(t *testing.T) {
	svc := NewProductService(store.NewProductStore())

	p, err := svc.Create(CreateProductRequest{
		MinPrice:   500,
		MaxPrice:   510,
		ResourceID: "chan-1",
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(p.ItemID, "item_"))
	assert.Equal(t, int64(50000), p.MinPrice)
	assert.Equal(t, int64(51000), p.MaxPrice)
	assert.True(t, p.IsChannel())
	assert.False(t, p.IsFree())

	got, err := svc.Get(p.ItemID)
	require.NoError(t, err)
	assert.Equal(t, p, got)

	assert.Len(t, svc.List(), 1)
}

func TestProductService_Create_FixedAndFree(t *testing.T) {
	svc := NewProductService(store.NewProductStore())

	fixed, err := svc.Create(CreateProductRequest{MinPrice: 800, MaxPrice: 800, ResourceID: "chan-1"})
	require.NoError(t, err)
	assert.Equal(t, fixed.MinPrice, fixed.MaxPrice)

	free, err := svc.Create(CreateProductRequest{ResourceID: "chan-2"})
	require.NoError(t, err)
	assert.True(t, free.IsFree())
}

func TestProductService_Create_FileProduct(t *testing.T) {
	svc := NewProductService(store.NewProductStore())

	p, err := svc.Create(CreateProductRequest{
		MinPrice: 100,
		MaxPrice: 100,
		Files:    []domain.FileRef{{ChannelID: "store-chan", MessageID: "42"}},
	})
	require.NoError(t, err)
	assert.False(t, p.IsChannel())
	assert.Len(t, p.Files, 1)
}

func TestProductService_Create_Validation(t *testing.T) {
	svc := NewProductService(store.NewProductStore())

	tests := []struct {
		name string
		req  CreateProductRequest
	}{
		{"negative price", CreateProductRequest{MinPrice: -1, MaxPrice: 10, ResourceID: "c"}},
		{"three decimals", CreateProductRequest{MinPrice: 1.999, MaxPrice: 10, ResourceID: "c"}},
		{"inverted range", CreateProductRequest{MinPrice: 100, MaxPrice: 50, ResourceID: "c"}},
		{"no content", CreateProductRequest{MinPrice: 10, MaxPrice: 10}},
		{"both contents", CreateProductRequest{
			MinPrice: 10, MaxPrice: 10, ResourceID: "c",
			Files: []domain.FileRef{{ChannelID: "x", MessageID: "1"}},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(tt.req)
			var verr *domain.ValidationError
			assert.ErrorAs(t, err, &verr)
		})
	}
}

func TestProductService_GetMissing(t *testing.T) {
	svc := NewProductService(store.NewProductStore())

	_, err := svc.Get("ghost")
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}
