package repository

import (
	"testing"

	"kidsevents/internal/app/ds"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serviceIDs(services []ds.Service) []uint {
	ids := make([]uint, 0, len(services))
	for _, s := range services {
		ids = append(ids, s.ID)
	}
	return ids
}

func TestListServices(t *testing.T) {
	r := setupTestRepository(t)

	animator := seedProfile(t, r, "animator", ds.KindAnimator)
	venue := seedProfile(t, r, "venue", ds.KindVenue)

	show := seedService(t, r, animator.ID, "Bubble show", "4000")
	party := seedService(t, r, animator.ID, "Pirate party", "6500.50")
	hall := seedService(t, r, venue.ID, "Hall rent", "12000")
	old := seedService(t, r, venue.ID, "Old hall", "1000")
	require.NoError(t, r.DeleteService(old.ID))

	t.Run("default sort by name, deleted hidden", func(t *testing.T) {
		services, err := r.ListServices(ServiceFilter{})
		require.NoError(t, err)
		assert.Equal(t, []uint{show.ID, hall.ID, party.ID}, serviceIDs(services))
		assert.Equal(t, "animator", services[0].Profile.DisplayName)
	})

	t.Run("price range and sort", func(t *testing.T) {
		min, max := dec("5000"), dec("20000")
		services, err := r.ListServices(ServiceFilter{MinPrice: &min, MaxPrice: &max, Sort: "price_desc"})
		require.NoError(t, err)
		assert.Equal(t, []uint{hall.ID, party.ID}, serviceIDs(services))
	})

	t.Run("by profile kind", func(t *testing.T) {
		services, err := r.ListServices(ServiceFilter{Kind: ds.KindVenue})
		require.NoError(t, err)
		assert.Equal(t, []uint{hall.ID}, serviceIDs(services))
	})

	t.Run("query", func(t *testing.T) {
		services, err := r.ListServices(ServiceFilter{Query: "PIRATE", Sort: "price_asc"})
		require.NoError(t, err)
		assert.Equal(t, []uint{party.ID}, serviceIDs(services))
	})

	t.Run("unpublished profile hidden", func(t *testing.T) {
		unpublished := false
		require.NoError(t, r.UpdateProfile(venue.ID, ProfileUpdate{IsPublished: &unpublished}))
		services, err := r.ListServices(ServiceFilter{Sort: "price_asc"})
		require.NoError(t, err)
		assert.Equal(t, []uint{show.ID, party.ID}, serviceIDs(services))
	})
}

func TestUpdateAndDeleteService(t *testing.T) {
	r := setupTestRepository(t)
	p := seedProfile(t, r, "animator", ds.KindAnimator)
	s := seedService(t, r, p.ID, "Show", "4000")

	price := dec("4500")
	require.NoError(t, r.UpdateService(s.ID, ServiceUpdate{Price: &price}))

	got, err := r.GetServiceByID(s.ID)
	require.NoError(t, err)
	assert.True(t, got.Price.Equal(price))
	assert.Equal(t, "Show", got.Name)

	require.NoError(t, r.UpdateServiceImage(s.ID, "services/abc.png"))
	require.NoError(t, r.DeleteService(s.ID))

	_, err = r.GetServiceByID(s.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, r.DeleteService(s.ID), ErrNotFound)
	assert.ErrorIs(t, r.UpdateService(s.ID, ServiceUpdate{Price: &price}), ErrNotFound)
}

func TestQuestProgramValidation(t *testing.T) {
	r := setupTestRepository(t)
	p := seedProfile(t, r, "quest", ds.KindQuest)

	bad := &ds.QuestProgram{ProfileID: p.ID, Title: "Лабиринт", AgeMin: 10, AgeMax: 6, PlayersMin: 2, PlayersMax: 6, Price: dec("3000")}
	assert.ErrorIs(t, r.CreateQuestProgram(bad), ErrInvalidInput)

	good := &ds.QuestProgram{ProfileID: p.ID, Title: "Лабиринт", AgeMin: 6, AgeMax: 10, PlayersMin: 2, PlayersMax: 6, Price: dec("3000")}
	require.NoError(t, r.CreateQuestProgram(good))

	good.PlayersMax = 1
	assert.ErrorIs(t, r.SaveQuestProgram(good), ErrInvalidInput)

	require.NoError(t, r.DeleteQuestProgram(good.ID))
	quests, err := r.ListQuestPrograms(p.ID)
	require.NoError(t, err)
	assert.Empty(t, quests)
}

func TestListServicesQueryLiteral(t *testing.T) {
	r := setupTestRepository(t)
	p := seedProfile(t, r, "animator", ds.KindAnimator)
	sale := seedService(t, r, p.ID, "Balloons 100% free", "1000")
	seedService(t, r, p.ID, "Balloons 100 pcs", "2000")

	services, err := r.ListServices(ServiceFilter{Query: "100%"})
	require.NoError(t, err)
	assert.Equal(t, []uint{sale.ID}, serviceIDs(services))

	services, err = r.ListServices(ServiceFilter{Query: "%"})
	require.NoError(t, err)
	assert.Equal(t, []uint{sale.ID}, serviceIDs(services))

	services, err = r.ListServices(ServiceFilter{Query: `\`})
	require.NoError(t, err)
	assert.Empty(t, services)
}
