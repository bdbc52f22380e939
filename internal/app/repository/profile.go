package repository

import (
	"sort"
	"strings"

	"kidsevents/internal/app/ds"
	"kidsevents/internal/app/geo"
)

// Near поиск рядом с точкой
type Near struct {
	Lat      float64
	Lng      float64
	RadiusKm float64
}

// ProfileFilter параметры каталога исполнителей
type ProfileFilter struct {
	Kind  string
	City  string
	Query string
	Near  *Near
	Sort  string // name, newest
	Page  Page
}

// ProfileListItem профиль с расстоянием до точки поиска
type ProfileListItem struct {
	ds.Profile
	DistanceKm *float64
}

// ProfileDetails профиль со всем каталогом исполнителя
type ProfileDetails struct {
	Profile    ds.Profile
	Services   []ds.Service
	Characters []ds.Character
	Quests     []ds.QuestProgram
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// likePattern подстрока для LIKE ... ESCAPE '\': символы шаблона в запросе ищутся буквально
func likePattern(q string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(strings.TrimSpace(q))) + "%"
}

func (r *Repository) CreateProfile(p *ds.Profile) error {
	var count int64
	err := r.db.Model(&ds.Profile{}).Where("user_id = ?", p.UserID).Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrAlreadyExists
	}
	return r.db.Create(p).Error
}

func (r *Repository) GetProfileByID(id uint) (*ds.Profile, error) {
	var p ds.Profile
	err := r.db.First(&p, id).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

func (r *Repository) GetProfileByUserID(userID uint) (*ds.Profile, error) {
	var p ds.Profile
	err := r.db.Where("user_id = ?", userID).First(&p).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

// ProfileUpdate изменяемые поля профиля; nil означает "не менять"
type ProfileUpdate struct {
	DisplayName *string
	City        *string
	Description *string
	Phone       *string
	Latitude    *float64
	Longitude   *float64
	IsPublished *bool
}

func (r *Repository) UpdateProfile(id uint, upd ProfileUpdate) error {
	updates := map[string]interface{}{}
	if upd.DisplayName != nil {
		updates["display_name"] = *upd.DisplayName
	}
	if upd.City != nil {
		updates["city"] = *upd.City
	}
	if upd.Description != nil {
		updates["description"] = *upd.Description
	}
	if upd.Phone != nil {
		updates["phone"] = *upd.Phone
	}
	if upd.Latitude != nil {
		updates["latitude"] = *upd.Latitude
	}
	if upd.Longitude != nil {
		updates["longitude"] = *upd.Longitude
	}
	if upd.IsPublished != nil {
		updates["is_published"] = *upd.IsPublished
	}
	if len(updates) == 0 {
		return nil
	}

	result := r.db.Model(&ds.Profile{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) UpdateProfileAvatar(id uint, avatarURL string) error {
	return r.db.Model(&ds.Profile{}).Where("id = ?", id).Update("avatar_url", avatarURL).Error
}

// ListProfiles каталог опубликованных профилей. При поиске рядом с точкой
// сначала отбирает по прямоугольнику в SQL, затем уточняет расстояние и сортирует по нему.
func (r *Repository) ListProfiles(f ProfileFilter) ([]ProfileListItem, error) {
	q := r.db.Model(&ds.Profile{}).Where("is_published = ?", true)

	if f.Kind != "" {
		q = q.Where("kind = ?", f.Kind)
	}
	if f.City != "" {
		q = q.Where("LOWER(city) = ?", strings.ToLower(strings.TrimSpace(f.City)))
	}
	if f.Query != "" {
		pattern := likePattern(f.Query)
		q = q.Where(`(LOWER(display_name) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\')`, pattern, pattern)
	}

	if f.Near != nil {
		box := geo.Box(f.Near.Lat, f.Near.Lng, f.Near.RadiusKm)
		ranges := box.LngRanges()
		lng := r.db.Where("longitude BETWEEN ? AND ?", ranges[0].Min, ranges[0].Max)
		for _, rng := range ranges[1:] {
			lng = lng.Or("longitude BETWEEN ? AND ?", rng.Min, rng.Max)
		}
		q = q.Where("latitude IS NOT NULL AND longitude IS NOT NULL").
			Where("latitude BETWEEN ? AND ?", box.MinLat, box.MaxLat).
			Where(lng)
	}

	switch f.Sort {
	case "newest":
		q = q.Order("created_at DESC").Order("id DESC")
	default:
		q = q.Order("display_name ASC").Order("id ASC")
	}

	var profiles []ds.Profile
	if f.Near == nil {
		q = f.Page.apply(q)
	}
	if err := q.Find(&profiles).Error; err != nil {
		return nil, err
	}

	items := make([]ProfileListItem, 0, len(profiles))
	for _, p := range profiles {
		item := ProfileListItem{Profile: p}
		if f.Near != nil {
			d := geo.Distance(f.Near.Lat, f.Near.Lng, *p.Latitude, *p.Longitude)
			if d > f.Near.RadiusKm {
				continue
			}
			item.DistanceKm = &d
		}
		items = append(items, item)
	}

	if f.Near != nil {
		sort.SliceStable(items, func(i, j int) bool {
			return *items[i].DistanceKm < *items[j].DistanceKm
		})
		items = pageSlice(items, f.Page)
	}

	return items, nil
}

func pageSlice[T any](items []T, p Page) []T {
	if p.Limit < 0 {
		return items
	}
	limit := p.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if p.Offset >= len(items) {
		return []T{}
	}
	end := p.Offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[p.Offset:end]
}

// GetProfileDetails профиль с услугами, персонажами и квестами (без удалённых)
func (r *Repository) GetProfileDetails(id uint) (*ProfileDetails, error) {
	profile, err := r.GetProfileByID(id)
	if err != nil {
		return nil, err
	}

	details := &ProfileDetails{Profile: *profile}

	err = r.db.Where("profile_id = ? AND is_deleted = ?", id, false).Order("id").Find(&details.Services).Error
	if err != nil {
		return nil, err
	}
	details.Characters, err = r.ListCharacters(id)
	if err != nil {
		return nil, err
	}
	details.Quests, err = r.ListQuestPrograms(id)
	if err != nil {
		return nil, err
	}
	return details, nil
}
