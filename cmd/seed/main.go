package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/studioops-backend/pkg/config"
	"github.com/angelmondragon/studioops-backend/pkg/db"
	"github.com/angelmondragon/studioops-backend/pkg/db/models"
	"github.com/angelmondragon/studioops-backend/pkg/enums"
	"github.com/angelmondragon/studioops-backend/pkg/logger"
	"github.com/angelmondragon/studioops-backend/pkg/migrate"
)

// seed fills a dev database with enough gear, employees and clients to click
// through the deployment board locally.
func main() {
	logg := logger.New(logger.Options{ServiceName: "seed"})

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}
	if !cfg.App.IsDev() {
		logg.Error(context.Background(), "seed refused", fmt.Errorf("app env is %q, seeding is dev only", cfg.App.Env))
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "seed",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
	})

	dbClient, err := db.New(context.Background(), cfg.DB, cfg.FeatureFlags.UseSQLite, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer dbClient.Close()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	ctx := logg.WithField(context.Background(), "env", cfg.App.Env)
	if err := dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		return seedAll(tx)
	}); err != nil {
		logg.Error(ctx, "seeding failed", err)
		os.Exit(1)
	}
	logg.Info(ctx, "dev data seeded")
}

func seedAll(tx *gorm.DB) error {
	cameras := category("Cameras", "Bodies and cinema rigs")
	lighting := category("Lighting", "Strobes, LEDs and modifiers")
	audioGear := category("Audio", "Recorders and microphones")
	for _, row := range []*models.EquipmentCategory{cameras, lighting, audioGear} {
		if err := tx.Create(row).Error; err != nil {
			return fmt.Errorf("seed category %s: %w", row.Name, err)
		}
	}

	gear := []*models.Equipment{
		equipment("Canon R5 C", cameras.ID, "CR5C-2201", "185.00"),
		equipment("Sony FX6", cameras.ID, "FX6-0042", "210.00"),
		equipment("Aputure 600d Pro", lighting.ID, "AP600-118", "95.00"),
		equipment("Godox AD1200Pro", lighting.ID, "GAD-7733", "80.00"),
		equipment("Sennheiser MKH 416", audioGear.ID, "MKH-9210", "45.00"),
		equipment("Zoom F6", audioGear.ID, "ZF6-0305", "35.00"),
	}
	for _, row := range gear {
		if err := tx.Create(row).Error; err != nil {
			return fmt.Errorf("seed equipment %s: %w", row.Name, err)
		}
	}

	people := []*models.Profile{
		profile("Maya Torres", "maya@studio.dev", enums.ActorRoleAdmin),
		profile("Jordan Lee", "jordan@studio.dev", enums.ActorRoleEmployee),
		profile("Sam Okafor", "sam@studio.dev", enums.ActorRoleEmployee),
	}
	for _, row := range people {
		if err := tx.Create(row).Error; err != nil {
			return fmt.Errorf("seed profile %s: %w", row.Email, err)
		}
	}

	clients := []*models.Client{
		client("Harbor & Co", "Harbor Creative LLC"),
		client("Nightjar Records", "Nightjar Records"),
		client("Elena Vasquez", ""),
	}
	for _, row := range clients {
		if err := tx.Create(row).Error; err != nil {
			return fmt.Errorf("seed client %s: %w", row.Name, err)
		}
	}

	return nil
}

func category(name, description string) *models.EquipmentCategory {
	return &models.EquipmentCategory{
		ID:          uuid.New(),
		Name:        name,
		Description: &description,
	}
}

func equipment(name string, categoryID uuid.UUID, serial, dailyRate string) *models.Equipment {
	rate := decimal.RequireFromString(dailyRate)
	purchased := time.Now().AddDate(-1, 0, 0)
	return &models.Equipment{
		ID:           uuid.New(),
		Name:         name,
		CategoryID:   &categoryID,
		SerialNumber: &serial,
		Status:       enums.EquipmentStatusAvailable,
		DailyRate:    &rate,
		PurchasedAt:  &purchased,
	}
}

func profile(fullName, email string, role enums.ActorRole) *models.Profile {
	return &models.Profile{
		ID:       uuid.New(),
		FullName: fullName,
		Email:    email,
		Role:     role,
		IsActive: true,
	}
}

func client(name, companyName string) *models.Client {
	row := &models.Client{
		ID:       uuid.New(),
		Name:     name,
		IsActive: true,
	}
	if companyName != "" {
		row.CompanyName = &companyName
	}
	return row
}
