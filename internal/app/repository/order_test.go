package repository

import (
	"testing"
	"time"

	"kidsevents/internal/app/ds"
	"kidsevents/internal/app/role"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// submitOrder кладёт услугу в корзину и оформляет черновик
func submitOrder(t *testing.T, r *Repository, customerID, serviceID uint, qty int) *ds.Order {
	t.Helper()
	draft, err := r.AddToCart(customerID, serviceID, nil, qty)
	require.NoError(t, err)
	order, err := r.Checkout(draft.ID, customerID, CheckoutInput{Address: "Москва"}, time.Now().UTC())
	require.NoError(t, err)
	return order
}

func orderIDs(orders []ds.Order) []uint {
	ids := make([]uint, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
	}
	return ids
}

func TestListOrders(t *testing.T) {
	r := setupTestRepository(t)
	mom := seedUser(t, r, "mom", role.Customer)
	dad := seedUser(t, r, "dad", role.Customer)
	animator := seedProfile(t, r, "animator", ds.KindAnimator)
	venue := seedProfile(t, r, "venue", ds.KindVenue)
	show := seedService(t, r, animator.ID, "Show", "4000")
	hall := seedService(t, r, venue.ID, "Hall", "10000")

	o1 := submitOrder(t, r, mom.ID, show.ID, 1)
	o2 := submitOrder(t, r, dad.ID, show.ID, 3)
	o3 := submitOrder(t, r, mom.ID, hall.ID, 1)

	// черновик не попадает в список оформленных
	_, err := r.AddToCart(dad.ID, hall.ID, nil, 1)
	require.NoError(t, err)

	t.Run("customer sees own", func(t *testing.T) {
		orders, err := r.ListOrders(OrderFilter{CustomerID: &mom.ID, Sort: "oldest"})
		require.NoError(t, err)
		assert.Equal(t, []uint{o1.ID, o3.ID}, orderIDs(orders))
	})

	t.Run("provider sees profile orders", func(t *testing.T) {
		orders, err := r.ListOrders(OrderFilter{ProfileID: &animator.ID, Sort: "total"})
		require.NoError(t, err)
		assert.Equal(t, []uint{o2.ID, o1.ID}, orderIDs(orders))
	})

	t.Run("admin sees all", func(t *testing.T) {
		orders, err := r.ListOrders(OrderFilter{})
		require.NoError(t, err)
		assert.Len(t, orders, 3)
	})

	t.Run("deleted status is never listed", func(t *testing.T) {
		orders, err := r.ListOrders(OrderFilter{Status: ds.OrderStatusDeleted})
		require.NoError(t, err)
		assert.Len(t, orders, 3)
	})

	t.Run("drafts by status", func(t *testing.T) {
		orders, err := r.ListOrders(OrderFilter{Status: ds.OrderStatusDraft})
		require.NoError(t, err)
		assert.Len(t, orders, 1)
	})

	t.Run("by stage", func(t *testing.T) {
		require.NoError(t, r.SetOrderStage(o3.ID, ds.StageConfirmed, time.Now().UTC()))
		orders, err := r.ListOrders(OrderFilter{Stage: ds.StageConfirmed})
		require.NoError(t, err)
		assert.Equal(t, []uint{o3.ID}, orderIDs(orders))
	})

	t.Run("date range", func(t *testing.T) {
		yesterday := time.Now().UTC().Add(-24 * time.Hour)
		orders, err := r.ListOrders(OrderFilter{DateFrom: &yesterday, DateTo: &yesterday})
		require.NoError(t, err)
		assert.Len(t, orders, 3)

		tomorrow := time.Now().UTC().Add(24 * time.Hour)
		orders, err = r.ListOrders(OrderFilter{DateFrom: &tomorrow})
		require.NoError(t, err)
		assert.Empty(t, orders)
	})
}

func TestSetOrderStage(t *testing.T) {
	r := setupTestRepository(t)
	mom := seedUser(t, r, "mom", role.Customer)
	animator := seedProfile(t, r, "animator", ds.KindAnimator)
	show := seedService(t, r, animator.ID, "Show", "4000")
	order := submitOrder(t, r, mom.ID, show.ID, 1)

	now := time.Now().UTC()

	// любые переходы, в том числе назад
	for _, stage := range []string{ds.StageCompleted, ds.StageNew, ds.StageCancelled, ds.StagePrepaid} {
		require.NoError(t, r.SetOrderStage(order.ID, stage, now))
		got, err := r.GetOrderWithItems(order.ID)
		require.NoError(t, err)
		assert.Equal(t, stage, got.Stage)
		require.NotNil(t, got.StageChangedAt)
	}

	assert.ErrorIs(t, r.SetOrderStage(order.ID, "archived", now), ErrInvalidStage)
	assert.ErrorIs(t, r.SetOrderStage(999, ds.StageNew, now), ErrNotFound)

	draft, err := r.AddToCart(mom.ID, show.ID, nil, 1)
	require.NoError(t, err)
	assert.ErrorIs(t, r.SetOrderStage(draft.ID, ds.StageConfirmed, now), ErrInvalidStatus)
}

func TestPurgeStaleDrafts(t *testing.T) {
	r := setupTestRepository(t)
	mom := seedUser(t, r, "mom", role.Customer)
	animator := seedProfile(t, r, "animator", ds.KindAnimator)
	show := seedService(t, r, animator.ID, "Show", "4000")

	submitted := submitOrder(t, r, mom.ID, show.ID, 1)
	draft, err := r.AddToCart(mom.ID, show.ID, nil, 1)
	require.NoError(t, err)

	n, err := r.PurgeStaleDrafts(time.Now().UTC().Add(-time.Hour))
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = r.PurgeStaleDrafts(time.Now().UTC().Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = r.GetOrderWithItems(draft.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = r.GetOrderWithItems(submitted.ID)
	assert.NoError(t, err)
}

func TestProviderOrdersBySubmittedAt(t *testing.T) {
	r := setupTestRepository(t)
	mom := seedUser(t, r, "mom", role.Customer)
	animator := seedProfile(t, r, "animator", ds.KindAnimator)
	show := seedService(t, r, animator.ID, "Show", "4000")

	now := time.Now().UTC()
	draft, err := r.AddToCart(mom.ID, show.ID, nil, 1)
	require.NoError(t, err)
	// черновик собирали давно, оформили сегодня
	created := now.AddDate(0, 0, -40)
	require.NoError(t, r.db.Model(&ds.Order{}).Where("id = ?", draft.ID).UpdateColumn("created_at", created).Error)
	order, err := r.Checkout(draft.ID, mom.ID, CheckoutInput{Address: "Москва"}, now)
	require.NoError(t, err)

	from, to := now.AddDate(0, 0, -29), now
	orders, err := r.ProviderOrders(animator.ID, &from, &to)
	require.NoError(t, err)
	assert.Equal(t, []uint{order.ID}, orderIDs(orders))

	oldFrom, oldTo := created.AddDate(0, 0, -1), created.AddDate(0, 0, 1)
	orders, err = r.ProviderOrders(animator.ID, &oldFrom, &oldTo)
	require.NoError(t, err)
	assert.Empty(t, orders)

	// общий список заявок по-прежнему фильтруется по дате создания
	listed, err := r.ListOrders(OrderFilter{ProfileID: &animator.ID, DateFrom: &oldFrom, DateTo: &oldTo, Page: NoLimit})
	require.NoError(t, err)
	assert.Equal(t, []uint{order.ID}, orderIDs(listed))
}
