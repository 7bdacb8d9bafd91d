package main

import (
	"context"
	"database/sql"
	"errors"
	"sync"

	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/semaphore"

	"baanmae/internal/adapters/observability"
	"baanmae/internal/app"
	"baanmae/internal/domain"
	"baanmae/internal/shared"
	mysqlrepo "baanmae/internal/storage/mysql"
)

const seedWorkers = 4

// sampleVillas are the starter listings for a fresh environment
// (Pattaya/Jomtien area).
var sampleVillas = []app.CreateVillaInput{
	{
		Name: "Sea View Villa Jomtien", Slug: "sea-view-villa-jomtien",
		Location: "Jomtien Beach, Pattaya", Price: ptr(8500000.0),
		Bedrooms: 3, Bathrooms: 3,
		Description: "Luxury villa with stunning sea views",
		Images:      []string{"/placeholder-villa.jpg"},
		Latitude:    ptr(12.8797), Longitude: ptr(100.8878),
		IsFeatured: true,
	},
	{
		Name: "Modern Pool Villa Pattaya", Slug: "modern-pool-villa-pattaya",
		Location: "Central Pattaya", Price: ptr(12000000.0),
		Bedrooms: 4, Bathrooms: 4,
		Description: "Contemporary design with private pool",
		Images:      []string{"/placeholder-villa.jpg"},
		Latitude:    ptr(12.9236), Longitude: ptr(100.8825),
		IsFeatured: true,
	},
	{
		Name: "Garden Villa Na Jomtien", Slug: "garden-villa-na-jomtien",
		Location: "Na Jomtien", Price: ptr(6500000.0),
		Bedrooms: 2, Bathrooms: 2,
		Description: "Quiet garden setting close to the beach",
		Images:      []string{"/placeholder-villa.jpg"},
		Latitude:    ptr(12.8306), Longitude: ptr(100.9046),
	},
}

func ptr[T any](v T) *T { return &v }

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	log.Logger = observability.NewLogger(cfg.AppEnv)

	email := shared.Env("ADMIN_EMAIL", "admin@baanmae.com")
	password := shared.Env("ADMIN_PASSWORD", "")
	if password == "" {
		log.Fatal().Msg("ADMIN_PASSWORD must be set")
	}

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	repo := mysqlrepo.New(db)

	hash, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		log.Fatal().Err(err).Msg("bcrypt failed")
	}
	name := "Admin"
	if err := repo.UpsertUser(ctx, domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		Name:         &name,
		Role:         domain.RoleAdmin,
	}); err != nil {
		log.Fatal().Err(err).Msg("admin upsert failed")
	}
	log.Info().Str("email", email).Msg("admin user ready")

	villas := app.NewVillaService(repo, noCache{}, 0)
	sem := semaphore.NewWeighted(int64(seedWorkers))
	var wg sync.WaitGroup

	for _, in := range sampleVillas {
		in := in

		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func(in app.CreateVillaInput) {
			defer wg.Done()
			defer sem.Release(1)

			if _, err := villas.Create(ctx, in); err != nil {
				if errors.Is(err, domain.ErrConflict) {
					log.Info().Str("slug", in.Slug).Msg("villa already seeded")
					return
				}
				log.Warn().Str("slug", in.Slug).Err(err).Msg("seed failed")
				return
			}
			log.Info().Str("slug", in.Slug).Msg("villa seeded")
		}(in)
	}

	wg.Wait()
	log.Info().Msg("seeding completed")
}

// noCache keeps the seeder independent of redis.
type noCache struct{}

func (noCache) Get(context.Context, string, any) (bool, error) { return false, nil }
func (noCache) Set(context.Context, string, any, int) error    { return nil }
func (noCache) Del(context.Context, string) error              { return nil }
