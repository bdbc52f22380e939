package handler

import (
	"kidsevents/internal/app/ds"
	"kidsevents/internal/app/dto"
	"kidsevents/internal/app/repository"
)

// Преобразование моделей в ответы API

func toUserResponse(u *ds.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        u.ID,
		Login:     u.Login,
		FullName:  u.FullName,
		Email:     u.Email,
		Phone:     u.Phone,
		Role:      u.Role.String(),
		CreatedAt: u.CreatedAt,
	}
}

func toProfileResponse(p *ds.Profile) dto.ProfileResponse {
	return dto.ProfileResponse{
		ID:          p.ID,
		UserID:      p.UserID,
		Kind:        p.Kind,
		DisplayName: p.DisplayName,
		City:        p.City,
		Description: p.Description,
		Phone:       p.Phone,
		AvatarURL:   p.AvatarURL,
		Latitude:    p.Latitude,
		Longitude:   p.Longitude,
		IsPublished: p.IsPublished,
		CreatedAt:   p.CreatedAt,
	}
}

func toProfileDetailsResponse(d *repository.ProfileDetails) dto.ProfileDetailsResponse {
	resp := dto.ProfileDetailsResponse{
		ProfileResponse: toProfileResponse(&d.Profile),
		Services:        make([]dto.ServiceResponse, 0, len(d.Services)),
		Characters:      make([]dto.CharacterResponse, 0, len(d.Characters)),
		Quests:          make([]dto.QuestProgramResponse, 0, len(d.Quests)),
	}
	for i := range d.Services {
		resp.Services = append(resp.Services, toServiceResponse(&d.Services[i]))
	}
	for i := range d.Characters {
		resp.Characters = append(resp.Characters, toCharacterResponse(&d.Characters[i]))
	}
	for i := range d.Quests {
		resp.Quests = append(resp.Quests, toQuestResponse(&d.Quests[i]))
	}
	return resp
}

func toServiceResponse(s *ds.Service) dto.ServiceResponse {
	resp := dto.ServiceResponse{
		ID:              s.ID,
		ProfileID:       s.ProfileID,
		Name:            s.Name,
		Description:     s.Description,
		Price:           s.Price,
		DurationMinutes: s.DurationMinutes,
		ImageURL:        s.ImageURL,
		CreatedAt:       s.CreatedAt,
	}
	// профиль подгружается только в каталоге
	if s.Profile.ID != 0 {
		resp.ProfileName = s.Profile.DisplayName
		resp.ProfileKind = s.Profile.Kind
		resp.City = s.Profile.City
	}
	return resp
}

func toCharacterResponse(c *ds.Character) dto.CharacterResponse {
	return dto.CharacterResponse{
		ID:          c.ID,
		ProfileID:   c.ProfileID,
		Name:        c.Name,
		Description: c.Description,
		ImageURL:    c.ImageURL,
		ExtraPrice:  c.ExtraPrice,
	}
}

func toQuestResponse(q *ds.QuestProgram) dto.QuestProgramResponse {
	return dto.QuestProgramResponse{
		ID:              q.ID,
		ProfileID:       q.ProfileID,
		Title:           q.Title,
		Description:     q.Description,
		AgeMin:          q.AgeMin,
		AgeMax:          q.AgeMax,
		PlayersMin:      q.PlayersMin,
		PlayersMax:      q.PlayersMax,
		DurationMinutes: q.DurationMinutes,
		Price:           q.Price,
	}
}

func toOrderResponse(o *ds.Order) dto.OrderResponse {
	resp := dto.OrderResponse{
		ID:              o.ID,
		CustomerID:      o.CustomerID,
		ProfileID:       o.ProfileID,
		Status:          o.Status,
		Stage:           o.Stage,
		CreatedAt:       o.CreatedAt,
		SubmittedAt:     o.SubmittedAt,
		StageChangedAt:  o.StageChangedAt,
		EventDate:       o.EventDate,
		Address:         o.Address,
		ChildrenCount:   o.ChildrenCount,
		ContactPhone:    o.ContactPhone,
		Comment:         o.Comment,
		PromoCode:       o.PromoCode,
		Subtotal:        o.Subtotal,
		DiscountPercent: o.DiscountPercent,
		DiscountAmount:  o.DiscountAmount,
		Total:           o.Total,
		Items:           make([]dto.OrderItemResponse, 0, len(o.Items)),
	}
	if o.Customer.ID != 0 {
		resp.Customer = o.Customer.FullName
		if resp.Customer == "" {
			resp.Customer = o.Customer.Login
		}
	}
	if o.Profile.ID != 0 {
		resp.ProfileName = o.Profile.DisplayName
	}
	for _, it := range o.Items {
		item := dto.OrderItemResponse{
			ID:          it.ID,
			ServiceID:   it.ServiceID,
			ServiceName: it.Service.Name,
			CharacterID: it.CharacterID,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			SubTotal:    it.SubTotal,
		}
		if it.Character != nil {
			item.CharacterName = it.Character.Name
		}
		resp.Items = append(resp.Items, item)
	}
	return resp
}

// toCartOrderResponse черновик с итогами, рассчитанными на лету
func toCartOrderResponse(c *repository.CartOrder) dto.OrderResponse {
	resp := toOrderResponse(&c.Order)
	resp.Subtotal = c.Totals.Subtotal
	resp.DiscountPercent = c.Totals.DiscountPercent
	resp.DiscountAmount = c.Totals.DiscountAmount
	resp.Total = c.Totals.Total
	return resp
}

func toCampaignResponse(c *ds.Campaign) dto.CampaignResponse {
	resp := dto.CampaignResponse{
		ID:              c.ID,
		ProfileID:       c.ProfileID,
		Name:            c.Name,
		Placement:       c.Placement,
		Status:          c.Status,
		Budget:          c.Budget,
		CostPerClick:    c.CostPerClick,
		Spent:           c.Spent,
		Impressions:     c.Impressions,
		Clicks:          c.Clicks,
		StartsAt:        c.StartsAt,
		EndsAt:          c.EndsAt,
		PromoCode:       c.PromoCode,
		DiscountPercent: c.DiscountPercent,
	}
	if c.Profile.ID != 0 {
		profile := toProfileResponse(&c.Profile)
		resp.Profile = &profile
	}
	return resp
}

// maskAPIKey оставляет префикс и последние четыре символа ключа
func maskAPIKey(key string) string {
	if key == "" {
		return ""
	}
	if len(key) <= 8 {
		return "..." + key[len(key)-min(2, len(key)):]
	}
	return key[:3] + "..." + key[len(key)-4:]
}

func toAIProviderResponse(p *ds.AIProviderConfig) dto.AIProviderResponse {
	return dto.AIProviderResponse{
		ID:             p.ID,
		Name:           p.Name,
		Kind:           p.Kind,
		BaseURL:        p.BaseURL,
		Model:          p.Model,
		EmbeddingModel: p.EmbeddingModel,
		APIKeySet:      p.APIKey != "",
		APIKeyHint:     maskAPIKey(p.APIKey),
		Temperature:    p.Temperature,
		MaxTokens:      p.MaxTokens,
		IsDefault:      p.IsDefault,
		Enabled:        p.Enabled,
		UpdatedAt:      p.UpdatedAt,
	}
}
