package main

import (
	"errors"
	"fmt"
	"time"

	"kidsevents/internal/app/ds"
	"kidsevents/internal/app/dsn"
	"kidsevents/internal/app/repository"
	"kidsevents/internal/app/role"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// demoPassword пароль всех демонстрационных пользователей
const demoPassword = "password"

func main() {
	_ = godotenv.Load()

	dsnStr := dsn.FromEnv()
	if dsnStr == "" {
		logrus.Fatal("DSN string is empty. Check your .env file")
	}

	repo, err := repository.New(dsnStr)
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}

	if err := seed(repo); err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			logrus.Info("Demo data already present, skipping")
		} else {
			logrus.Fatalf("Failed to seed database: %v", err)
		}
	}

	if err := printCatalog(repo); err != nil {
		logrus.Fatalf("Failed to get services: %v", err)
	}
}

func seed(repo *repository.Repository) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(demoPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	if _, err := repo.CreateUser("admin", string(hash), "Администратор", role.Admin); err != nil {
		return err
	}
	if _, err := repo.CreateUser("parent", string(hash), "Анна Петрова", role.Customer); err != nil {
		return err
	}

	animatorUser, err := repo.CreateUser("animator", string(hash), "Весёлые герои", role.Provider)
	if err != nil {
		return err
	}
	lat, lng := 55.7558, 37.6173
	animator := &ds.Profile{
		UserID:      animatorUser.ID,
		Kind:        ds.KindAnimator,
		DisplayName: "Весёлые герои",
		City:        "Москва",
		Description: "Аниматоры на дни рождения и выпускные",
		Phone:       "+79990000001",
		Latitude:    &lat,
		Longitude:   &lng,
		IsPublished: true,
	}
	if err := repo.CreateProfile(animator); err != nil {
		return err
	}
	for _, s := range []ds.Service{
		{Name: "Программа на день рождения", Price: decimal.NewFromInt(5000), DurationMinutes: 60},
		{Name: "Шоу мыльных пузырей", Price: decimal.NewFromInt(7000), DurationMinutes: 45},
	} {
		s.ProfileID = animator.ID
		if err := repo.CreateService(&s); err != nil {
			return err
		}
	}
	for _, c := range []ds.Character{
		{Name: "Человек-паук", ExtraPrice: decimal.NewFromInt(1000)},
		{Name: "Эльза", ExtraPrice: decimal.NewFromInt(1500)},
	} {
		c.ProfileID = animator.ID
		if err := repo.CreateCharacter(&c); err != nil {
			return err
		}
	}

	questUser, err := repo.CreateUser("quest", string(hash), "Тайная комната", role.Provider)
	if err != nil {
		return err
	}
	quest := &ds.Profile{
		UserID:      questUser.ID,
		Kind:        ds.KindQuest,
		DisplayName: "Тайная комната",
		City:        "Москва",
		IsPublished: true,
	}
	if err := repo.CreateProfile(quest); err != nil {
		return err
	}
	if err := repo.CreateService(&ds.Service{
		ProfileID: quest.ID, Name: "Квест для детей", Price: decimal.NewFromInt(12000), DurationMinutes: 90,
	}); err != nil {
		return err
	}
	if err := repo.CreateQuestProgram(&ds.QuestProgram{
		ProfileID: quest.ID, Title: "Пираты Карибского моря", AgeMin: 7, AgeMax: 12,
		PlayersMin: 4, PlayersMax: 10, DurationMinutes: 90, Price: decimal.NewFromInt(12000),
	}); err != nil {
		return err
	}

	now := time.Now().UTC()
	promo := "HOLIDAY10"
	campaign := &ds.Campaign{
		ProfileID:       animator.ID,
		Name:            "Весенняя акция",
		Placement:       ds.PlacementCatalogTop,
		Status:          ds.CampaignDraft,
		Budget:          decimal.NewFromInt(3000),
		CostPerClick:    decimal.NewFromInt(10),
		StartsAt:        now,
		EndsAt:          now.AddDate(0, 1, 0),
		PromoCode:       &promo,
		DiscountPercent: 10,
	}
	if err := repo.CreateCampaign(campaign); err != nil {
		return err
	}
	if err := repo.ActivateCampaign(campaign.ID, now); err != nil {
		return err
	}

	logrus.Infof("Demo data created, password for all users: %s", demoPassword)
	return nil
}

func printCatalog(repo *repository.Repository) error {
	services, err := repo.ListServices(repository.ServiceFilter{Page: repository.NoLimit})
	if err != nil {
		return err
	}

	fmt.Println("Services in catalog:")
	for _, service := range services {
		imageURL := "NULL"
		if service.ImageURL != nil {
			imageURL = *service.ImageURL
		}
		fmt.Printf("ID: %d, Profile: %s, Name: %s, Price: %s, ImageURL: %s\n",
			service.ID, service.Profile.DisplayName, service.Name, service.Price.StringFixed(2), imageURL)
	}
	return nil
}
