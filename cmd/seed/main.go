package main

import (
	"context"
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"

	"github.com/clinicdesk/frontdesk-api/internal/config"
	"github.com/clinicdesk/frontdesk-api/internal/model"
	"github.com/clinicdesk/frontdesk-api/internal/repository/postgres"
	"github.com/clinicdesk/frontdesk-api/pkg/security"
)

type seedConfig struct {
	DBHost     string `envconfig:"DB_HOST" default:"localhost"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" default:"postgres"`
	DBPassword string `envconfig:"DB_PASSWORD" default:"postgres"`
	DBName     string `envconfig:"DB_NAME" default:"frontdesk"`
	SSLMode    string `envconfig:"DB_SSLMODE" default:"disable"`

	AdminUsername string `envconfig:"SEED_ADMIN_USERNAME" default:"admin"`
	AdminPassword string `envconfig:"SEED_ADMIN_PASSWORD" default:"changeme"`
	DoctorCount   int    `envconfig:"SEED_DOCTOR_COUNT" default:"5"`
}

var specializations = []string{
	"General Medicine", "Pediatrics", "Cardiology",
	"Dermatology", "Orthopedics", "ENT",
}

func main() {
	var cfg seedConfig
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatal().Err(err).Msg("failed to read environment")
	}

	db, err := postgres.NewDB(config.DatabaseConfig{
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		Name:     cfg.DBName,
		SSLMode:  cfg.SSLMode,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	ctx := context.Background()

	staffRepo := postgres.NewStaffRepository(db)
	hasher := security.NewBcryptHasher(security.DefaultCost)

	if _, err := staffRepo.GetByUsername(ctx, cfg.AdminUsername); err == nil {
		log.Info().Str("username", cfg.AdminUsername).Msg("staff user already exists, skipping")
	} else {
		hash, err := hasher.Hash(cfg.AdminPassword)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to hash password")
		}
		staff := &model.Staff{
			Username:     cfg.AdminUsername,
			PasswordHash: hash,
			Role:         "receptionist",
		}
		if err := staffRepo.Create(ctx, staff); err != nil {
			log.Fatal().Err(err).Msg("failed to create staff user")
		}
		log.Info().Str("username", staff.Username).Msg("created staff user")
	}

	doctorRepo := postgres.NewDoctorRepository(db)
	for i := 0; i < cfg.DoctorCount; i++ {
		doctor := &model.Doctor{
			Name:           "Dr. " + gofakeit.Name(),
			Specialization: specializations[i%len(specializations)],
			Gender:         gofakeit.RandomString([]string{"Male", "Female"}),
			Phone:          fmt.Sprintf("+1555%07d", gofakeit.Number(0, 9999999)),
			Email:          gofakeit.Email(),
			Location:       gofakeit.City(),
			IsActive:       true,
			Availability: model.AvailabilityList{
				{Day: "monday", StartTime: "09:00", EndTime: "17:00"},
				{Day: "wednesday", StartTime: "09:00", EndTime: "17:00"},
				{Day: "friday", StartTime: "09:00", EndTime: "13:00"},
			},
		}
		if err := doctorRepo.Create(ctx, doctor); err != nil {
			log.Fatal().Err(err).Msg("failed to create doctor")
		}
		log.Info().Str("name", doctor.Name).Str("specialization", doctor.Specialization).Msg("created doctor")
	}

	log.Info().Int("doctors", cfg.DoctorCount).Time("at", time.Now()).Msg("seed complete")
}
