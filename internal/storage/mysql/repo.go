package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"

	"baanmae/internal/domain"
)

func valStr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

func valF64(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}

func valTime(p *time.Time) any {
	if p == nil {
		return nil
	}
	return *p
}

func ptrFromNullStr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func ptrFromNullF64(nf sql.NullFloat64) *float64 {
	if !nf.Valid {
		return nil
	}
	f := nf.Float64
	return &f
}

func jsonList(xs []string) string {
	b, _ := json.Marshal(xs)
	return string(b)
}

// isDup reports a MySQL duplicate-key violation (error 1062).
func isDup(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}

// isDeadlock reports error 1213. Two booking creates racing on a villa
// with no existing BOOKED rows take compatible gap locks and deadlock
// on insert; MySQL rolls one back and the caller can retry.
func isDeadlock(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1213
}

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

// ---------- villas ----------

func (r *Repo) CreateVilla(ctx context.Context, v domain.Villa) (domain.Villa, error) {
	_, err := r.db.ExecContext(ctx, insertVillaSQL,
		v.ID, v.Name, v.Slug, v.Location, v.Price, v.Bedrooms, v.Bathrooms,
		valStr(v.Description),
		jsonList(v.Images), jsonList(v.Facilities), jsonList(v.NearbyPlaces),
		v.IsFeatured, string(v.Status), v.DiscountPercentage,
		valStr(v.NameTh), valStr(v.NameEn), valStr(v.NameCn),
		valStr(v.DescriptionTh), valStr(v.DescriptionEn), valStr(v.DescriptionCn),
		valStr(v.LocationEn), valStr(v.LocationCn),
		valStr(v.FeaturesEn), valStr(v.FeaturesCn),
		valStr(v.MapEmbedURL), valF64(v.Latitude), valF64(v.Longitude),
	)
	if err != nil {
		if isDup(err) {
			return domain.Villa{}, fmt.Errorf("%w: slug %q already exists", domain.ErrConflict, v.Slug)
		}
		return domain.Villa{}, err
	}
	return r.GetVilla(ctx, v.ID)
}

func (r *Repo) UpdateVilla(ctx context.Context, v domain.Villa) (domain.Villa, error) {
	_, err := r.db.ExecContext(ctx, updateVillaSQL,
		v.Name, v.Slug, v.Location, v.Price, v.Bedrooms, v.Bathrooms,
		valStr(v.Description),
		jsonList(v.Images), jsonList(v.Facilities), jsonList(v.NearbyPlaces),
		v.IsFeatured, string(v.Status), v.DiscountPercentage,
		valStr(v.NameTh), valStr(v.NameEn), valStr(v.NameCn),
		valStr(v.DescriptionTh), valStr(v.DescriptionEn), valStr(v.DescriptionCn),
		valStr(v.LocationEn), valStr(v.LocationCn),
		valStr(v.FeaturesEn), valStr(v.FeaturesCn),
		valStr(v.MapEmbedURL), valF64(v.Latitude), valF64(v.Longitude),
		v.ID,
	)
	if err != nil {
		if isDup(err) {
			return domain.Villa{}, fmt.Errorf("%w: slug %q already exists", domain.ErrConflict, v.Slug)
		}
		return domain.Villa{}, err
	}
	return r.GetVilla(ctx, v.ID)
}

func (r *Repo) DeleteVilla(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, deleteVillaSQL, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

type scanner interface{ Scan(dest ...any) error }

func scanVilla(row scanner) (domain.Villa, error) {
	var v domain.Villa
	var (
		desc                      sql.NullString
		imagesJSON                []byte
		facilitiesJSON            []byte
		nearbyJSON                []byte
		status                    string
		nameTh, nameEn, nameCn    sql.NullString
		descTh, descEn, descCn    sql.NullString
		locEn, locCn              sql.NullString
		featEn, featCn            sql.NullString
		mapURL                    sql.NullString
		lat, lon                  sql.NullFloat64
	)
	if err := row.Scan(
		&v.ID, &v.Name, &v.Slug, &v.Location, &v.Price, &v.Bedrooms, &v.Bathrooms,
		&desc, &imagesJSON, &facilitiesJSON, &nearbyJSON,
		&v.IsFeatured, &status, &v.DiscountPercentage,
		&nameTh, &nameEn, &nameCn,
		&descTh, &descEn, &descCn,
		&locEn, &locCn, &featEn, &featCn,
		&mapURL, &lat, &lon,
		&v.CreatedAt, &v.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return domain.Villa{}, domain.ErrNotFound
		}
		return domain.Villa{}, err
	}
	v.Description = ptrFromNullStr(desc)
	_ = json.Unmarshal(imagesJSON, &v.Images)
	_ = json.Unmarshal(facilitiesJSON, &v.Facilities)
	_ = json.Unmarshal(nearbyJSON, &v.NearbyPlaces)
	v.Status = domain.VillaStatus(status)
	v.NameTh, v.NameEn, v.NameCn = ptrFromNullStr(nameTh), ptrFromNullStr(nameEn), ptrFromNullStr(nameCn)
	v.DescriptionTh, v.DescriptionEn, v.DescriptionCn = ptrFromNullStr(descTh), ptrFromNullStr(descEn), ptrFromNullStr(descCn)
	v.LocationEn, v.LocationCn = ptrFromNullStr(locEn), ptrFromNullStr(locCn)
	v.FeaturesEn, v.FeaturesCn = ptrFromNullStr(featEn), ptrFromNullStr(featCn)
	v.MapEmbedURL = ptrFromNullStr(mapURL)
	v.Latitude, v.Longitude = ptrFromNullF64(lat), ptrFromNullF64(lon)
	return v, nil
}

func (r *Repo) GetVilla(ctx context.Context, id string) (domain.Villa, error) {
	return scanVilla(r.db.QueryRowContext(ctx, getVillaSQL, id))
}

func (r *Repo) GetVillaBySlug(ctx context.Context, slug string) (domain.Villa, error) {
	return scanVilla(r.db.QueryRowContext(ctx, getVillaBySlugSQL, slug))
}

func (r *Repo) ListVillas(ctx context.Context, q domain.VillasQuery) ([]domain.Villa, error) {
	var rows *sql.Rows
	var err error
	if q.Q == "" {
		rows, err = r.db.QueryContext(ctx, listVillasSQL)
	} else {
		like := "%" + strings.ToLower(q.Q) + "%"
		rows, err = r.db.QueryContext(ctx, searchVillasSQL, like, like)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Villa
	for rows.Next() {
		v, err := scanVilla(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// ---------- bookings ----------

// CreateBooking checks for overlap, verifies the villa, and inserts,
// all inside one transaction. Check order matters: a date conflict is
// reported even when the villa itself does not exist.
func (r *Repo) CreateBooking(ctx context.Context, b domain.Booking) (domain.BookingWithVilla, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.BookingWithVilla{}, err
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx, lockVillaBookingsSQL, b.VillaID)
	if err != nil {
		return domain.BookingWithVilla{}, err
	}
	conflict := false
	for rows.Next() {
		var es, ee time.Time
		if err := rows.Scan(&es, &ee); err != nil {
			rows.Close()
			return domain.BookingWithVilla{}, err
		}
		if domain.RangesOverlap(b.StartDate, b.EndDate, es, ee) {
			conflict = true
		}
	}
	if err := rows.Close(); err != nil {
		return domain.BookingWithVilla{}, err
	}
	if conflict {
		return domain.BookingWithVilla{}, fmt.Errorf("%w: booking dates overlap with existing booking", domain.ErrConflict)
	}

	var vs domain.VillaSummary
	if err := tx.QueryRowContext(ctx, villaSummarySQL, b.VillaID).Scan(&vs.ID, &vs.Name, &vs.Slug); err != nil {
		if err == sql.ErrNoRows {
			return domain.BookingWithVilla{}, fmt.Errorf("%w: villa not found", domain.ErrNotFound)
		}
		return domain.BookingWithVilla{}, err
	}

	b.CreatedAt = time.Now().UTC()
	if _, err := tx.ExecContext(ctx, insertBookingSQL,
		b.ID, b.VillaID, b.StartDate, b.EndDate, string(b.Status), valStr(b.Notes), b.CreatedAt,
	); err != nil {
		if isDeadlock(err) {
			return domain.BookingWithVilla{}, fmt.Errorf("%w: concurrent booking attempt, retry", domain.ErrConflict)
		}
		return domain.BookingWithVilla{}, err
	}

	if err := tx.Commit(); err != nil {
		if isDeadlock(err) {
			return domain.BookingWithVilla{}, fmt.Errorf("%w: concurrent booking attempt, retry", domain.ErrConflict)
		}
		return domain.BookingWithVilla{}, err
	}
	return domain.BookingWithVilla{Booking: b, Villa: vs}, nil
}

func (r *Repo) ListBookings(ctx context.Context) ([]domain.BookingWithVilla, error) {
	rows, err := r.db.QueryContext(ctx, listBookingsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.BookingWithVilla
	for rows.Next() {
		var bw domain.BookingWithVilla
		var status string
		var notes sql.NullString
		if err := rows.Scan(
			&bw.ID, &bw.VillaID, &bw.StartDate, &bw.EndDate, &status, &notes, &bw.CreatedAt,
			&bw.Villa.ID, &bw.Villa.Name, &bw.Villa.Slug,
		); err != nil {
			return nil, err
		}
		bw.Status = domain.BookingStatus(status)
		bw.Notes = ptrFromNullStr(notes)
		out = append(out, bw)
	}
	return out, rows.Err()
}

func (r *Repo) ListVillaBookings(ctx context.Context, villaID string) ([]domain.Booking, error) {
	rows, err := r.db.QueryContext(ctx, listVillaBookingsSQL, villaID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Booking
	for rows.Next() {
		var b domain.Booking
		var status string
		var notes sql.NullString
		if err := rows.Scan(&b.ID, &b.VillaID, &b.StartDate, &b.EndDate, &status, &notes, &b.CreatedAt); err != nil {
			return nil, err
		}
		b.Status = domain.BookingStatus(status)
		b.Notes = ptrFromNullStr(notes)
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *Repo) DeleteBooking(ctx context.Context, id string) (string, error) {
	var villaID string
	if err := r.db.QueryRowContext(ctx, getBookingVillaSQL, id).Scan(&villaID); err != nil {
		if err == sql.ErrNoRows {
			return "", domain.ErrNotFound
		}
		return "", err
	}
	if _, err := r.db.ExecContext(ctx, deleteBookingSQL, id); err != nil {
		return "", err
	}
	return villaID, nil
}

// ---------- leads ----------

func (r *Repo) CreateLead(ctx context.Context, l domain.Lead) (domain.Lead, error) {
	l.CreatedAt = time.Now().UTC()
	_, err := r.db.ExecContext(ctx, insertLeadSQL,
		l.ID, l.Name, l.Tel, valStr(l.LineID), valTime(l.VisitDate),
		valStr(l.Message), valStr(l.VillaID), string(l.Status), l.CreatedAt,
	)
	if err != nil {
		return domain.Lead{}, err
	}
	return l, nil
}

func (r *Repo) ListLeads(ctx context.Context) ([]domain.LeadWithVilla, error) {
	rows, err := r.db.QueryContext(ctx, listLeadsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.LeadWithVilla
	for rows.Next() {
		var lw domain.LeadWithVilla
		var lineID, message, villaID sql.NullString
		var visit sql.NullTime
		var status string
		var vID, vName, vSlug sql.NullString
		if err := rows.Scan(
			&lw.ID, &lw.Name, &lw.Tel, &lineID, &visit, &message, &villaID, &status, &lw.CreatedAt,
			&vID, &vName, &vSlug,
		); err != nil {
			return nil, err
		}
		lw.LineID = ptrFromNullStr(lineID)
		lw.Message = ptrFromNullStr(message)
		lw.VillaID = ptrFromNullStr(villaID)
		lw.Status = domain.LeadStatus(status)
		if visit.Valid {
			t := visit.Time
			lw.VisitDate = &t
		}
		if vID.Valid {
			lw.Villa = &domain.VillaSummary{ID: vID.String, Name: vName.String, Slug: vSlug.String}
		}
		out = append(out, lw)
	}
	return out, rows.Err()
}

func (r *Repo) UpdateLeadStatus(ctx context.Context, id string, status domain.LeadStatus) (domain.Lead, error) {
	if _, err := r.db.ExecContext(ctx, updateLeadStatusSQL, string(status), id); err != nil {
		return domain.Lead{}, err
	}

	var l domain.Lead
	var lineID, message, villaID sql.NullString
	var visit sql.NullTime
	var st string
	err := r.db.QueryRowContext(ctx, getLeadSQL, id).Scan(
		&l.ID, &l.Name, &l.Tel, &lineID, &visit, &message, &villaID, &st, &l.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.Lead{}, domain.ErrNotFound
		}
		return domain.Lead{}, err
	}
	l.LineID = ptrFromNullStr(lineID)
	l.Message = ptrFromNullStr(message)
	l.VillaID = ptrFromNullStr(villaID)
	l.Status = domain.LeadStatus(st)
	if visit.Valid {
		t := visit.Time
		l.VisitDate = &t
	}
	return l, nil
}

// ---------- users ----------

func (r *Repo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	var u domain.User
	var name sql.NullString
	err := r.db.QueryRowContext(ctx, getUserByEmailSQL, email).Scan(
		&u.ID, &u.Email, &u.PasswordHash, &name, &u.Role, &u.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.User{}, domain.ErrNotFound
		}
		return domain.User{}, err
	}
	u.Name = ptrFromNullStr(name)
	return u, nil
}

func (r *Repo) UpsertUser(ctx context.Context, u domain.User) error {
	_, err := r.db.ExecContext(ctx, upsertUserSQL,
		u.ID, u.Email, u.PasswordHash, valStr(u.Name), u.Role,
	)
	return err
}

// ---------- hero slides ----------

func (r *Repo) CreateHeroSlide(ctx context.Context, s domain.HeroSlide) (domain.HeroSlide, error) {
	_, err := r.db.ExecContext(ctx, insertHeroSlideSQL,
		s.ID, s.Title, valStr(s.Subtitle), s.ImageURL, valStr(s.CTALabel), valStr(s.CTAHref),
		s.SortOrder, s.IsActive,
	)
	if err != nil {
		return domain.HeroSlide{}, err
	}
	s.CreatedAt = time.Now().UTC()
	return s, nil
}

func (r *Repo) UpdateHeroSlide(ctx context.Context, s domain.HeroSlide) (domain.HeroSlide, error) {
	res, err := r.db.ExecContext(ctx, updateHeroSlideSQL,
		s.Title, valStr(s.Subtitle), s.ImageURL, valStr(s.CTALabel), valStr(s.CTAHref),
		s.SortOrder, s.IsActive, s.ID,
	)
	if err != nil {
		return domain.HeroSlide{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// Could be a no-op update of an existing row; verify.
		var exists int
		if err := r.db.QueryRowContext(ctx, `SELECT 1 FROM hero_slides WHERE id = ?`, s.ID).Scan(&exists); err != nil {
			if err == sql.ErrNoRows {
				return domain.HeroSlide{}, domain.ErrNotFound
			}
			return domain.HeroSlide{}, err
		}
	}
	return s, nil
}

func (r *Repo) DeleteHeroSlide(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, deleteHeroSlideSQL, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *Repo) ListHeroSlides(ctx context.Context, activeOnly bool) ([]domain.HeroSlide, error) {
	q := listHeroSlidesSQL
	if activeOnly {
		q = listActiveHeroSlidesSQL
	}
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.HeroSlide
	for rows.Next() {
		var s domain.HeroSlide
		var subtitle, ctaLabel, ctaHref sql.NullString
		if err := rows.Scan(&s.ID, &s.Title, &subtitle, &s.ImageURL, &ctaLabel, &ctaHref,
			&s.SortOrder, &s.IsActive, &s.CreatedAt); err != nil {
			return nil, err
		}
		s.Subtitle = ptrFromNullStr(subtitle)
		s.CTALabel = ptrFromNullStr(ctaLabel)
		s.CTAHref = ptrFromNullStr(ctaHref)
		out = append(out, s)
	}
	return out, rows.Err()
}

// ---------- articles ----------

func scanArticle(row scanner) (domain.Article, error) {
	var a domain.Article
	var excerpt, cover sql.NullString
	if err := row.Scan(&a.ID, &a.Title, &a.Slug, &excerpt, &a.Body, &cover,
		&a.Published, &a.CreatedAt, &a.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return domain.Article{}, domain.ErrNotFound
		}
		return domain.Article{}, err
	}
	a.Excerpt = ptrFromNullStr(excerpt)
	a.CoverImage = ptrFromNullStr(cover)
	return a, nil
}

func (r *Repo) CreateArticle(ctx context.Context, a domain.Article) (domain.Article, error) {
	_, err := r.db.ExecContext(ctx, insertArticleSQL,
		a.ID, a.Title, a.Slug, valStr(a.Excerpt), a.Body, valStr(a.CoverImage), a.Published,
	)
	if err != nil {
		if isDup(err) {
			return domain.Article{}, fmt.Errorf("%w: slug %q already exists", domain.ErrConflict, a.Slug)
		}
		return domain.Article{}, err
	}
	return scanArticle(r.db.QueryRowContext(ctx, getArticleSQL, a.ID))
}

func (r *Repo) UpdateArticle(ctx context.Context, a domain.Article) (domain.Article, error) {
	_, err := r.db.ExecContext(ctx, updateArticleSQL,
		a.Title, a.Slug, valStr(a.Excerpt), a.Body, valStr(a.CoverImage), a.Published, a.ID,
	)
	if err != nil {
		if isDup(err) {
			return domain.Article{}, fmt.Errorf("%w: slug %q already exists", domain.ErrConflict, a.Slug)
		}
		return domain.Article{}, err
	}
	return scanArticle(r.db.QueryRowContext(ctx, getArticleSQL, a.ID))
}

func (r *Repo) DeleteArticle(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, deleteArticleSQL, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *Repo) GetArticleBySlug(ctx context.Context, slug string) (domain.Article, error) {
	return scanArticle(r.db.QueryRowContext(ctx, getArticleBySlugSQL, slug))
}

func (r *Repo) ListArticles(ctx context.Context, publishedOnly bool) ([]domain.Article, error) {
	q := listArticlesSQL
	if publishedOnly {
		q = listPublishedArticlesSQL
	}
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
