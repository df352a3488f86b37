package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"healthfirst/config"
	"healthfirst/pkg/auth"
	"healthfirst/pkg/database"
)

var specializations = []string{
	"Cardiology",
	"Dermatology",
	"General Practice",
	"Neurology",
	"Orthopedics",
	"Pediatrics",
	"Psychiatry",
	"Endocrinology",
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("наполнение базы тестовыми данными")

	_ = godotenv.Load()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("конфигурация: %v", err)
	}

	pool, err := database.NewPostgresDB(cfg.Postgres)
	if err != nil {
		log.Fatalf("подключение к БД: %v", err)
	}
	defer pool.Close()

	gofakeit.Seed(time.Now().UnixNano())

	passwordHash, err := auth.HashPassword("Passw0rd!")
	if err != nil {
		log.Fatalf("хеширование пароля: %v", err)
	}

	ctx := context.Background()

	if err := seedProviders(ctx, pool, 25, passwordHash); err != nil {
		log.Fatalf("врачи: %v", err)
	}
	if err := seedPatients(ctx, pool, 200, passwordHash); err != nil {
		log.Fatalf("пациенты: %v", err)
	}

	log.Println("готово")
}

func seedProviders(ctx context.Context, pool *pgxpool.Pool, count int, passwordHash string) error {
	log.Printf("создание %d врачей", count)

	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for i := 0; i < count; i++ {
		now := time.Now()
		_, err := tx.Exec(ctx, `
			INSERT INTO providers (
				id, first_name, last_name, email, phone_number, password_hash,
				specialization, license_number, years_of_experience,
				clinic_street, clinic_city, clinic_state, clinic_zip,
				verification_status, is_active, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, 'VERIFIED', true, $14, $14)
		`,
			uuid.New(),
			gofakeit.FirstName(),
			gofakeit.LastName(),
			gofakeit.Email(),
			fmt.Sprintf("+1%d", gofakeit.Number(2000000000, 9999999999)),
			passwordHash,
			specializations[gofakeit.Number(0, len(specializations)-1)],
			fmt.Sprintf("MD%d", gofakeit.Number(100000, 999999)),
			gofakeit.Number(1, 40),
			gofakeit.Street(),
			gofakeit.City(),
			gofakeit.StateAbr(),
			gofakeit.Zip(),
			now,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func seedPatients(ctx context.Context, pool *pgxpool.Pool, count int, passwordHash string) error {
	log.Printf("создание %d пациентов", count)

	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for i := 0; i < count; i++ {
		now := time.Now()
		birth := gofakeit.DateRange(
			time.Date(1950, 1, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2005, 12, 31, 0, 0, 0, 0, time.UTC),
		)

		_, err := tx.Exec(ctx, `
			INSERT INTO patients (
				id, first_name, last_name, email, phone_number, password_hash,
				date_of_birth, ssn, gender, blood_type,
				street, city, state, zip,
				emergency_contact_name, emergency_contact_phone, emergency_contact_relationship,
				medical_history, allergies, current_medications,
				verification_status, is_active, created_at, updated_at
			) VALUES (
				$1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
				$11, $12, $13, $14, $15, $16, $17, '', '', '', 'VERIFIED', true, $18, $18
			)
		`,
			uuid.New(),
			gofakeit.FirstName(),
			gofakeit.LastName(),
			gofakeit.Email(),
			fmt.Sprintf("+1%d", gofakeit.Number(2000000000, 9999999999)),
			passwordHash,
			birth,
			fmt.Sprintf("%09d", gofakeit.Number(100000000, 999999999)),
			gofakeit.Gender(),
			"O+",
			gofakeit.Street(),
			gofakeit.City(),
			gofakeit.StateAbr(),
			gofakeit.Zip(),
			gofakeit.Name(),
			fmt.Sprintf("+1%d", gofakeit.Number(2000000000, 9999999999)),
			"spouse",
			now,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}
