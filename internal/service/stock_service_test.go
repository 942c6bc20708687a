package service_test

import (
	"context"
	"testing"

	"github.com/tonsisouvanh/mineral-inventory-system/internal/apierror"
	"github.com/tonsisouvanh/mineral-inventory-system/internal/dto"
	"github.com/tonsisouvanh/mineral-inventory-system/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (f *fixture) stockService() service.StockService {
	return service.NewStockService(&stubMovementRepo{s: f.store}, f.products, f.stats, f.cfg)
}

func createReq(movementType string, quantity int) dto.CreateStockRequest {
	return dto.CreateStockRequest{MovementType: movementType, Quantity: quantity}
}

func updateReq(movementType string, quantity int) dto.UpdateStockRequest {
	return dto.UpdateStockRequest{MovementType: movementType, Quantity: quantity}
}

func TestLedgerSequenceKeepsQuantityEqualToSum(t *testing.T) {
	f := newFixture()
	f.store.seedProduct(1, 0)
	svc := f.stockService()
	ctx := context.Background()

	assertReconciled := func(step string) {
		t.Helper()
		assert.Equal(t, f.store.ledgerSum(1), f.store.quantity(1), step)
	}

	in, err := svc.Create(ctx, nil, 1, createReq("IN", 10))
	require.NoError(t, err)
	assertReconciled("after IN 10")

	out, err := svc.Create(ctx, nil, 1, createReq("OUT", 3))
	require.NoError(t, err)
	assertReconciled("after OUT 3")
	assert.Equal(t, 7, f.store.quantity(1))

	_, err = svc.Create(ctx, nil, 1, createReq("TRANSFER", 5))
	require.NoError(t, err)
	assertReconciled("after TRANSFER 5")
	assert.Equal(t, 7, f.store.quantity(1), "TRANSFER contributes nothing")

	_, err = svc.Update(ctx, out.ID, updateReq("IN", 4))
	require.NoError(t, err)
	assertReconciled("after OUT 3 -> IN 4")
	assert.Equal(t, 14, f.store.quantity(1))

	require.NoError(t, svc.Delete(ctx, in.ID))
	assertReconciled("after deleting IN 10")
	assert.Equal(t, 4, f.store.quantity(1))
}

func TestDeleteThenRecreateIsNeutral(t *testing.T) {
	f := newFixture()
	f.store.seedProduct(1, 0)
	svc := f.stockService()
	ctx := context.Background()

	_, err := svc.Create(ctx, nil, 1, createReq("IN", 20))
	require.NoError(t, err)
	out, err := svc.Create(ctx, nil, 1, createReq("OUT", 6))
	require.NoError(t, err)
	before := f.store.quantity(1)

	require.NoError(t, svc.Delete(ctx, out.ID))
	_, err = svc.Create(ctx, nil, 1, createReq("OUT", 6))
	require.NoError(t, err)

	assert.Equal(t, before, f.store.quantity(1))
}

func TestUpdateSameTypeAppliesDifference(t *testing.T) {
	cases := []struct {
		name       string
		moveType   string
		q1, q2     int
		wantChange int
	}{
		{"IN grows", "IN", 5, 8, 3},
		{"IN shrinks", "IN", 8, 5, -3},
		{"OUT grows", "OUT", 5, 8, -3},
		{"TRANSFER", "TRANSFER", 5, 8, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture()
			f.store.seedProduct(1, 100)
			svc := f.stockService()
			ctx := context.Background()

			m, err := svc.Create(ctx, nil, 1, createReq(tc.moveType, tc.q1))
			require.NoError(t, err)
			before := f.store.quantity(1)

			_, err = svc.Update(ctx, m.ID, updateReq(tc.moveType, tc.q2))
			require.NoError(t, err)

			assert.Equal(t, tc.wantChange, f.store.quantity(1)-before)
		})
	}
}

func TestCreateUnknownProductIsNotFound(t *testing.T) {
	f := newFixture()
	svc := f.stockService()

	_, err := svc.Create(context.Background(), nil, 42, createReq("IN", 1))

	assert.ErrorIs(t, err, apierror.ErrNotFound)
	assert.Empty(t, f.store.movementsOf(42))
}

func TestUpdateAndDeleteMissingMovement(t *testing.T) {
	f := newFixture()
	svc := f.stockService()
	ctx := context.Background()

	_, err := svc.Update(ctx, 99, updateReq("IN", 1))
	assert.ErrorIs(t, err, apierror.ErrNotFound)

	err = svc.Delete(ctx, 99)
	assert.ErrorIs(t, err, apierror.ErrNotFound)
}

func TestCreateRejectsBadMovement(t *testing.T) {
	f := newFixture()
	f.store.seedProduct(1, 0)
	svc := f.stockService()
	ctx := context.Background()

	_, err := svc.Create(ctx, nil, 1, createReq("LOST", 1))
	var ve *apierror.ValidationError
	assert.ErrorAs(t, err, &ve)

	_, err = svc.Create(ctx, nil, 1, createReq("IN", 0))
	assert.ErrorAs(t, err, &ve)
	assert.Equal(t, 0, f.store.quantity(1))
}

func TestNegativeStockPolicy(t *testing.T) {
	t.Run("allowed by default", func(t *testing.T) {
		f := newFixture()
		f.store.seedProduct(1, 2)

		_, err := f.stockService().Create(context.Background(), nil, 1, createReq("OUT", 5))

		require.NoError(t, err)
		assert.Equal(t, -3, f.store.quantity(1))
	})

	t.Run("rejected when disabled", func(t *testing.T) {
		f := newFixture()
		f.cfg.AllowNegativeStock = false
		f.store.seedProduct(1, 2)

		_, err := f.stockService().Create(context.Background(), nil, 1, createReq("OUT", 5))

		assert.ErrorIs(t, err, apierror.ErrInsufficientStock)
		assert.Equal(t, 2, f.store.quantity(1))
		assert.Empty(t, f.store.movementsOf(1))
	})

	t.Run("update that would overdraw is rejected", func(t *testing.T) {
		f := newFixture()
		f.cfg.AllowNegativeStock = false
		f.store.seedProduct(1, 0)
		svc := f.stockService()
		ctx := context.Background()

		in, err := svc.Create(ctx, nil, 1, createReq("IN", 4))
		require.NoError(t, err)
		_, err = svc.Update(ctx, in.ID, updateReq("OUT", 1))

		assert.ErrorIs(t, err, apierror.ErrInsufficientStock)
	})
}

func TestCreateParsesCreatedAt(t *testing.T) {
	f := newFixture()
	f.store.seedProduct(1, 0)
	svc := f.stockService()

	day := "2026-02-14"
	resp, err := svc.Create(context.Background(), nil, 1, dto.CreateStockRequest{
		MovementType: "IN", Quantity: 1, CreatedAt: &day,
	})
	require.NoError(t, err)
	assert.Equal(t, "2026-02-14", resp.CreatedAt.Format("2006-01-02"))

	bad := "14/02/2026"
	_, err = svc.Create(context.Background(), nil, 1, dto.CreateStockRequest{
		MovementType: "IN", Quantity: 1, CreatedAt: &bad,
	})
	var ve *apierror.ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestListRejectsNonNumericSearch(t *testing.T) {
	f := newFixture()

	_, err := f.stockService().List(context.Background(), dto.StockFilter{Page: 1, Limit: 10, Search: "abc"})

	var ve *apierror.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "search")
}

func TestListClampsPageAndBuildsURLs(t *testing.T) {
	f := newFixture()
	f.store.seedProduct(1, 0)
	svc := f.stockService()
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		_, err := svc.Create(ctx, nil, 1, createReq("IN", 1))
		require.NoError(t, err)
	}

	page, err := svc.List(ctx, dto.StockFilter{Page: 9, Limit: 2, MovementType: "IN"})
	require.NoError(t, err)

	assert.Equal(t, 3, page.Meta.CurrentPage)
	assert.Equal(t, 3, page.Meta.TotalPages)
	assert.Equal(t, int64(5), page.Meta.TotalElements)
	assert.Len(t, page.Data, 1)
	assert.Nil(t, page.Meta.NextPageURL)
	require.NotNil(t, page.Meta.PrevPageURL)
	assert.Equal(t, "http://localhost:8000/api/v1/stocks?page=2&limit=2&movementType=IN", *page.Meta.PrevPageURL)
}

func TestListEmptyLedger(t *testing.T) {
	f := newFixture()

	page, err := f.stockService().List(context.Background(), dto.StockFilter{Page: 3, Limit: 10})
	require.NoError(t, err)

	assert.Equal(t, 1, page.Meta.CurrentPage)
	assert.Equal(t, 0, page.Meta.TotalPages)
	assert.Empty(t, page.Data)
}

func TestLedgerMutationsInvalidateStats(t *testing.T) {
	f := newFixture()
	f.store.seedProduct(1, 0)
	svc := f.stockService()
	ctx := context.Background()

	m, err := svc.Create(ctx, nil, 1, createReq("IN", 3))
	require.NoError(t, err)
	_, err = svc.Update(ctx, m.ID, updateReq("IN", 4))
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, m.ID))

	// Each write clears before and after.
	assert.Equal(t, 6, f.stats.invalidated)
}

func TestLedgerWriteClearsStatsAroundTransaction(t *testing.T) {
	f := newFixture()
	f.store.seedProduct(1, 0)
	var seen []int
	f.stats.onInvalidate = func() { seen = append(seen, f.store.quantity(1)) }

	_, err := f.stockService().Create(context.Background(), nil, 1, createReq("IN", 3))
	require.NoError(t, err)

	assert.Equal(t, []int{0, 3}, seen)
}

func TestFailedLedgerWriteKeepsSingleClear(t *testing.T) {
	f := newFixture()
	f.cfg.AllowNegativeStock = false
	f.store.seedProduct(1, 2)

	_, err := f.stockService().Create(context.Background(), nil, 1, createReq("OUT", 5))
	require.ErrorIs(t, err, apierror.ErrInsufficientStock)

	assert.Equal(t, 1, f.stats.invalidated)
	assert.Equal(t, 2, f.store.quantity(1))
}

func TestCountByType(t *testing.T) {
	f := newFixture()
	f.store.seedProduct(1, 0)
	svc := f.stockService()
	ctx := context.Background()
	for _, mt := range []string{"IN", "IN", "OUT", "TRANSFER"} {
		_, err := svc.Create(ctx, nil, 1, createReq(mt, 1))
		require.NoError(t, err)
	}

	c, err := svc.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, dto.StockCountResponse{Total: 4, In: 2, Out: 1, Transfer: 1}, *c)
}
