package repository

import (
	"errors"
	"sync"
	"testing"
	"time"

	"kidsevents/internal/app/ds"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCampaign(profileID uint, name string) *ds.Campaign {
	return &ds.Campaign{
		ProfileID:    profileID,
		Name:         name,
		Placement:    ds.PlacementCatalogTop,
		Budget:       dec("100"),
		CostPerClick: dec("30"),
		StartsAt:     testNow.Add(-time.Hour),
		EndsAt:       testNow.Add(72 * time.Hour),
	}
}

func TestCreateCampaignValidation(t *testing.T) {
	r := setupTestRepository(t)
	p := seedProfile(t, r, "animator", ds.KindAnimator)

	c := newCampaign(p.ID, "bad window")
	c.EndsAt = c.StartsAt
	assert.ErrorIs(t, r.CreateCampaign(c), ErrInvalidInput)

	c = newCampaign(p.ID, "no budget")
	c.Budget = dec("0")
	assert.ErrorIs(t, r.CreateCampaign(c), ErrInvalidInput)

	c = newCampaign(p.ID, "too generous")
	c.DiscountPercent = 95
	assert.ErrorIs(t, r.CreateCampaign(c), ErrInvalidInput)

	c = newCampaign(p.ID, "wrong placement")
	c.Placement = "popup"
	assert.ErrorIs(t, r.CreateCampaign(c), ErrInvalidInput)

	code := "summer"
	c = newCampaign(p.ID, "ok")
	c.PromoCode = &code
	require.NoError(t, r.CreateCampaign(c))
	assert.Equal(t, ds.CampaignDraft, c.Status)
	assert.Equal(t, "SUMMER", *c.PromoCode)

	dup := " Summer "
	c2 := newCampaign(p.ID, "dup")
	c2.PromoCode = &dup
	assert.ErrorIs(t, r.CreateCampaign(c2), ErrAlreadyExists)

	// без промокода кампаний может быть сколько угодно
	require.NoError(t, r.CreateCampaign(newCampaign(p.ID, "a")))
	require.NoError(t, r.CreateCampaign(newCampaign(p.ID, "b")))

	list, err := r.ListCampaigns(&p.ID)
	require.NoError(t, err)
	assert.Len(t, list, 3)
}

func TestUpdateCampaign(t *testing.T) {
	r := setupTestRepository(t)
	p := seedProfile(t, r, "animator", ds.KindAnimator)

	taken := "TAKEN"
	other := newCampaign(p.ID, "other")
	other.PromoCode = &taken
	require.NoError(t, r.CreateCampaign(other))

	c := newCampaign(p.ID, "main")
	require.NoError(t, r.CreateCampaign(c))

	name := "renamed"
	percent := 15
	updated, err := r.UpdateCampaign(c.ID, CampaignUpdate{Name: &name, DiscountPercent: &percent})
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Name)
	assert.Equal(t, 15, updated.DiscountPercent)

	lower := "taken"
	_, err = r.UpdateCampaign(c.ID, CampaignUpdate{PromoCode: &lower})
	assert.ErrorIs(t, err, ErrAlreadyExists)

	empty := ""
	updated, err = r.UpdateCampaign(other.ID, CampaignUpdate{PromoCode: &empty})
	require.NoError(t, err)
	assert.Nil(t, updated.PromoCode)

	_, err = r.UpdateCampaign(999, CampaignUpdate{Name: &name})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCampaignLifecycle(t *testing.T) {
	r := setupTestRepository(t)
	p := seedProfile(t, r, "animator", ds.KindAnimator)
	c := newCampaign(p.ID, "main")
	require.NoError(t, r.CreateCampaign(c))

	assert.ErrorIs(t, r.PauseCampaign(c.ID), ErrInvalidStatus)
	assert.ErrorIs(t, r.RecordImpression(c.ID), ErrNotFound)

	require.NoError(t, r.ActivateCampaign(c.ID, testNow))
	assert.ErrorIs(t, r.ActivateCampaign(c.ID, testNow), ErrInvalidStatus)
	assert.ErrorIs(t, r.DeleteCampaign(c.ID), ErrInvalidStatus)

	require.NoError(t, r.RecordImpression(c.ID))
	require.NoError(t, r.RecordImpression(c.ID))

	clicked, err := r.RecordClick(c.ID, testNow)
	require.NoError(t, err)
	assert.Equal(t, ds.CampaignActive, clicked.Status)
	assert.True(t, clicked.Spent.Equal(dec("30")))

	require.NoError(t, r.PauseCampaign(c.ID))
	_, err = r.RecordClick(c.ID, testNow)
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, r.ActivateCampaign(c.ID, testNow))

	// 30 + 30 + 30 + 30 >= 100: бюджет исчерпан
	for i := 0; i < 3; i++ {
		clicked, err = r.RecordClick(c.ID, testNow)
		require.NoError(t, err)
	}
	assert.Equal(t, ds.CampaignFinished, clicked.Status)
	assert.True(t, clicked.Spent.Equal(dec("100")))

	stored, err := r.GetCampaign(c.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stored.Impressions)
	assert.Equal(t, int64(4), stored.Clicks)
	assert.Equal(t, ds.CampaignFinished, stored.Status)

	assert.ErrorIs(t, r.ActivateCampaign(c.ID, testNow), ErrInvalidStatus)
	require.NoError(t, r.DeleteCampaign(c.ID))
	_, err = r.GetCampaign(c.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRecordClickConcurrent(t *testing.T) {
	r := setupTestRepository(t)
	p := seedProfile(t, r, "animator", ds.KindAnimator)
	c := newCampaign(p.ID, "main")
	require.NoError(t, r.CreateCampaign(c))
	require.NoError(t, r.ActivateCampaign(c.ID, testNow))

	const clicks = 10
	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		ok    int
		other []error
	)
	for i := 0; i < clicks; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := r.RecordClick(c.ID, testNow)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				ok++
			} else if !errors.Is(err, ErrNotFound) {
				other = append(other, err)
			}
		}()
	}
	wg.Wait()

	require.Empty(t, other)
	// 4 клика по 30 исчерпывают бюджет 100, остальные приходят в завершённую кампанию
	assert.Equal(t, 4, ok)
	stored, err := r.GetCampaign(c.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(4), stored.Clicks)
	assert.True(t, stored.Spent.Equal(dec("100")), stored.Spent.String())
	assert.Equal(t, ds.CampaignFinished, stored.Status)
}

func TestListPromotedAndExpiry(t *testing.T) {
	r := setupTestRepository(t)
	p := seedProfile(t, r, "animator", ds.KindAnimator)

	cheap := newCampaign(p.ID, "cheap")
	cheap.CostPerClick = dec("5")
	require.NoError(t, r.CreateCampaign(cheap))
	require.NoError(t, r.ActivateCampaign(cheap.ID, testNow))

	rich := newCampaign(p.ID, "rich")
	rich.CostPerClick = dec("50")
	require.NoError(t, r.CreateCampaign(rich))
	require.NoError(t, r.ActivateCampaign(rich.ID, testNow))

	banner := newCampaign(p.ID, "banner")
	banner.Placement = ds.PlacementBanner
	require.NoError(t, r.CreateCampaign(banner))
	require.NoError(t, r.ActivateCampaign(banner.ID, testNow))

	draft := newCampaign(p.ID, "draft")
	require.NoError(t, r.CreateCampaign(draft))

	promoted, err := r.ListPromoted(ds.PlacementCatalogTop, testNow, 10)
	require.NoError(t, err)
	require.Len(t, promoted, 2)
	assert.Equal(t, rich.ID, promoted[0].ID)
	assert.Equal(t, cheap.ID, promoted[1].ID)
	assert.Equal(t, p.ID, promoted[0].Profile.ID)

	all, err := r.ListPromoted("", testNow, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	n, err := r.FinishExpiredCampaigns(testNow.Add(96 * time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	promoted, err = r.ListPromoted("", testNow, 10)
	require.NoError(t, err)
	assert.Empty(t, promoted)

	stored, err := r.GetCampaign(draft.ID)
	require.NoError(t, err)
	assert.Equal(t, ds.CampaignDraft, stored.Status)
}
