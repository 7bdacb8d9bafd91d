//go:build integration || !unit

package mysql_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	"baanmae/internal/domain"
	mysqlrepo "baanmae/internal/storage/mysql"
)

// ---------- small helpers ----------
func pstr(s string) *string { return &s }

func mustEnv(t *testing.T, k string) string {
	t.Helper()
	v := os.Getenv(k)
	if v == "" {
		t.Fatalf("%s not set; export it (e.g. MIGRATIONS_DIR=/path/to/migrations)", k)
	}
	return v
}

func applyMigrations(t *testing.T, db *sql.DB) {
	t.Helper()
	dir := mustEnv(t, "MIGRATIONS_DIR")

	st, err := os.Stat(dir)
	if err != nil || !st.IsDir() {
		t.Fatalf("MIGRATIONS_DIR=%s is not a directory or missing", dir)
	}

	ents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read migrations dir: %v", err)
	}
	var files []string
	for _, e := range ents {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".sql" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	if len(files) == 0 {
		t.Fatalf("no .sql files in %s", dir)
	}
	sort.Strings(files)

	for _, f := range files {
		sqlBytes, err := os.ReadFile(f)
		if err != nil {
			t.Fatalf("read %s: %v", f, err)
		}
		if _, err := db.Exec(string(sqlBytes)); err != nil {
			t.Fatalf("exec %s: %v", f, err)
		}
	}
}

func startMySQL(t *testing.T) *sql.DB {
	t.Helper()
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}

	runOpts := &dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=root",
			"MYSQL_DATABASE=baanmae",
		},
	}
	resource, err := pool.RunWithOptions(runOpts, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	hostPort := resource.GetPort("3306/tcp")
	dsn := fmt.Sprintf("root:root@tcp(127.0.0.1:%s)/baanmae?parseTime=true&multiStatements=true&charset=utf8mb4,utf8&loc=UTC", hostPort)

	var db *sql.DB
	if err := pool.Retry(func() error {
		var e error
		db, e = sql.Open("mysql", dsn)
		if e != nil {
			return e
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	applyMigrations(t, db)
	return db
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ---------- the test ----------
func TestRepo_MySQL_VillasBookingsLeads(t *testing.T) {
	db := startMySQL(t)
	repo := mysqlrepo.New(db)
	ctx := context.Background()

	// Villas
	v := domain.Villa{
		ID:       "11111111-1111-1111-1111-111111111111",
		Name:     "Sea View Villa",
		Slug:     "sea-view-villa",
		Location: "Pattaya",
		Price:    4500000, Bedrooms: 3, Bathrooms: 2,
		Description:  pstr("Pool villa near the beach"),
		Images:       []string{"a.jpg"},
		Facilities:   []string{"pool"},
		NearbyPlaces: []string{},
		Status:       domain.VillaAvailable,
		NameTh:       pstr("วิลล่าวิวทะเล"),
	}
	if _, err := repo.CreateVilla(ctx, v); err != nil {
		t.Fatalf("CreateVilla: %v", err)
	}

	// duplicate slug surfaces as a conflict
	dup := v
	dup.ID = "22222222-2222-2222-2222-222222222222"
	if _, err := repo.CreateVilla(ctx, dup); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("duplicate slug: want ErrConflict, got %v", err)
	}

	got, err := repo.GetVillaBySlug(ctx, "sea-view-villa")
	if err != nil {
		t.Fatalf("GetVillaBySlug: %v", err)
	}
	if got.Name != v.Name || got.NameTh == nil || *got.NameTh != "วิลล่าวิวทะเล" {
		t.Fatalf("villa round trip: %+v", got)
	}
	if len(got.Images) != 1 || got.Images[0] != "a.jpg" {
		t.Fatalf("images: %v", got.Images)
	}

	// search matches case-insensitively on name and location
	found, err := repo.ListVillas(ctx, domain.VillasQuery{Q: "pattaya"})
	if err != nil || len(found) != 1 {
		t.Fatalf("ListVillas: %v (%d)", err, len(found))
	}

	// Bookings
	b1 := domain.Booking{
		ID: "b1b1b1b1-1111-1111-1111-111111111111", VillaID: v.ID,
		StartDate: day(2024, 6, 1), EndDate: day(2024, 6, 10),
		Status: domain.BookingBooked,
	}
	if _, err := repo.CreateBooking(ctx, b1); err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}

	// shared endpoint conflicts: checkout day is still blocked
	b2 := b1
	b2.ID = "b2b2b2b2-2222-2222-2222-222222222222"
	b2.StartDate, b2.EndDate = day(2024, 6, 10), day(2024, 6, 15)
	if _, err := repo.CreateBooking(ctx, b2); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("adjacent booking: want ErrConflict, got %v", err)
	}

	// disjoint range inserts
	b3 := b1
	b3.ID = "b3b3b3b3-3333-3333-3333-333333333333"
	b3.StartDate, b3.EndDate = day(2024, 6, 11), day(2024, 6, 15)
	if _, err := repo.CreateBooking(ctx, b3); err != nil {
		t.Fatalf("disjoint booking: %v", err)
	}

	// unknown villa reported after the overlap check
	b4 := b1
	b4.ID = "b4b4b4b4-4444-4444-4444-444444444444"
	b4.VillaID = "99999999-9999-9999-9999-999999999999"
	if _, err := repo.CreateBooking(ctx, b4); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("unknown villa: want ErrNotFound, got %v", err)
	}

	avail, err := repo.ListVillaBookings(ctx, v.ID)
	if err != nil {
		t.Fatalf("ListVillaBookings: %v", err)
	}
	if len(avail) != 2 || !avail[0].StartDate.Before(avail[1].StartDate) {
		t.Fatalf("availability order: %+v", avail)
	}

	villaID, err := repo.DeleteBooking(ctx, b3.ID)
	if err != nil || villaID != v.ID {
		t.Fatalf("DeleteBooking: %v (villa %q)", err, villaID)
	}

	// Leads: dangling villa reference survives and lists with a nil villa
	l := domain.Lead{
		ID: "cccccccc-1111-1111-1111-111111111111", Name: "Somchai", Tel: "0812345678",
		VillaID: pstr("99999999-9999-9999-9999-999999999999"),
		Status:  domain.LeadNew, CreatedAt: time.Now().UTC(),
	}
	if _, err := repo.CreateLead(ctx, l); err != nil {
		t.Fatalf("CreateLead: %v", err)
	}
	ls, err := repo.ListLeads(ctx)
	if err != nil || len(ls) != 1 {
		t.Fatalf("ListLeads: %v (%d)", err, len(ls))
	}
	if ls[0].Villa != nil {
		t.Fatalf("dangling villa must list as nil, got %+v", ls[0].Villa)
	}

	updated, err := repo.UpdateLeadStatus(ctx, l.ID, domain.LeadContacted)
	if err != nil || updated.Status != domain.LeadContacted {
		t.Fatalf("UpdateLeadStatus: %v (%s)", err, updated.Status)
	}

	// Users: upsert twice, last write wins
	u := domain.User{
		ID: "dddddddd-1111-1111-1111-111111111111", Email: "admin@example.com",
		PasswordHash: "hash1", Role: domain.RoleAdmin,
	}
	if err := repo.UpsertUser(ctx, u); err != nil {
		t.Fatalf("UpsertUser: %v", err)
	}
	u.PasswordHash = "hash2"
	if err := repo.UpsertUser(ctx, u); err != nil {
		t.Fatalf("UpsertUser again: %v", err)
	}
	stored, err := repo.GetUserByEmail(ctx, "admin@example.com")
	if err != nil || stored.PasswordHash != "hash2" {
		t.Fatalf("GetUserByEmail: %v (%+v)", err, stored)
	}
}
