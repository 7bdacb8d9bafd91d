// internal/adapters/http_server/handlers.go
package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"baanmae/internal/app"
	"baanmae/internal/domain"
)

type Handlers struct {
	Auth     *app.AuthService
	Villas   *app.VillaService
	Bookings *app.BookingService
	Leads    *app.LeadService
	Content  *app.ContentService
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	// public surface
	s.mux.Post("/v1/auth/login", h.login)
	s.mux.Post("/v1/leads", h.createLead)
	s.mux.Get("/v1/bookings", h.listBookings) // admin unless filtered by villa
	s.mux.Get("/v1/villas/{slug}", h.getVillaBySlug)
	s.mux.Get("/v1/hero", h.listActiveHeroSlides)
	s.mux.Get("/v1/articles", h.listPublishedArticles)
	s.mux.Get("/v1/articles/{slug}", h.getArticleBySlug)

	// admin back office, one gate for the whole group
	s.mux.Route("/v1/admin", func(r chi.Router) {
		r.Use(RequireAdmin(h.Auth))
		r.Get("/villas", h.listVillas)
		r.Post("/villas", h.createVilla)
		r.Put("/villas/{id}", h.updateVilla)
		r.Delete("/villas/{id}", h.deleteVilla)
		r.Post("/bookings", h.createBooking)
		r.Delete("/bookings/{id}", h.deleteBooking)
		r.Get("/leads", h.listLeads)
		r.Get("/leads/export", h.exportLeads)
		r.Patch("/leads/{id}", h.updateLeadStatus)
		r.Get("/hero", h.listAllHeroSlides)
		r.Post("/hero", h.createHeroSlide)
		r.Put("/hero/{id}", h.updateHeroSlide)
		r.Delete("/hero/{id}", h.deleteHeroSlide)
		r.Get("/articles", h.listAllArticles)
		r.Post("/articles", h.createArticle)
		r.Put("/articles/{id}", h.updateArticle)
		r.Delete("/articles/{id}", h.deleteArticle)
	})
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeError maps domain sentinels onto HTTP statuses. Unknown errors
// become an opaque 500; the detail stays in the log.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeProblem(w, http.StatusBadRequest, "Bad Request", err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		writeProblem(w, http.StatusUnauthorized, "Unauthorized", "admin session required")
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, domain.ErrConflict):
		writeProblem(w, http.StatusConflict, "Conflict", err.Error())
	default:
		log.Error().Err(err).Msg("internal error")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "unexpected error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

// looseString accepts strings, numbers, booleans and null, coercing
// everything to text the way the public lead form always has.
type looseString string

func (s *looseString) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*s = ""
		return nil
	}
	var str string
	if err := json.Unmarshal(b, &str); err == nil {
		*s = looseString(str)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(b, &num); err == nil {
		*s = looseString(num.String())
		return nil
	}
	var bo bool
	if err := json.Unmarshal(b, &bo); err == nil {
		*s = looseString(strconv.FormatBool(bo))
		return nil
	}
	*s = looseString(b)
	return nil
}

// ---- auth ----

func (h *Handlers) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	token, err := h.Auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

// ---- villas ----

func (h *Handlers) listVillas(w http.ResponseWriter, r *http.Request) {
	vs, err := h.Villas.List(r.Context(), domain.VillasQuery{Q: r.URL.Query().Get("q")})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toVillaDTOs(vs))
}

type villaRequest struct {
	Name               string   `json:"name"`
	Slug               string   `json:"slug"`
	Location           string   `json:"location"`
	Price              *float64 `json:"price"`
	Bedrooms           float64  `json:"bedrooms"`
	Bathrooms          float64  `json:"bathrooms"`
	Description        string   `json:"description"`
	Images             []string `json:"images"`
	Facilities         []string `json:"facilities"`
	NearbyPlaces       []string `json:"nearbyPlaces"`
	IsFeatured         bool     `json:"isFeatured"`
	Status             string   `json:"status"`
	DiscountPercentage float64  `json:"discountPercentage"`
	NameTh             string   `json:"nameTh"`
	NameEn             string   `json:"nameEn"`
	NameCn             string   `json:"nameCn"`
	DescriptionTh      string   `json:"descriptionTh"`
	DescriptionEn      string   `json:"descriptionEn"`
	DescriptionCn      string   `json:"descriptionCn"`
	LocationEn         string   `json:"locationEn"`
	LocationCn         string   `json:"locationCn"`
	FeaturesEn         string   `json:"featuresEn"`
	FeaturesCn         string   `json:"featuresCn"`
	MapEmbedURL        string   `json:"mapEmbedUrl"`
	Latitude           *float64 `json:"latitude"`
	Longitude          *float64 `json:"longitude"`
}

func (req villaRequest) toInput() app.CreateVillaInput {
	return app.CreateVillaInput{
		Name: req.Name, Slug: req.Slug, Location: req.Location, Price: req.Price,
		Bedrooms: req.Bedrooms, Bathrooms: req.Bathrooms,
		Description: req.Description, Images: req.Images,
		Facilities: req.Facilities, NearbyPlaces: req.NearbyPlaces,
		IsFeatured: req.IsFeatured, Status: req.Status,
		DiscountPercentage: req.DiscountPercentage,
		NameTh:             req.NameTh, NameEn: req.NameEn, NameCn: req.NameCn,
		DescriptionTh: req.DescriptionTh, DescriptionEn: req.DescriptionEn, DescriptionCn: req.DescriptionCn,
		LocationEn: req.LocationEn, LocationCn: req.LocationCn,
		FeaturesEn: req.FeaturesEn, FeaturesCn: req.FeaturesCn,
		MapEmbedURL: req.MapEmbedURL, Latitude: req.Latitude, Longitude: req.Longitude,
	}
}

func (h *Handlers) createVilla(w http.ResponseWriter, r *http.Request) {
	var req villaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	v, err := h.Villas.Create(r.Context(), req.toInput())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toVillaDTO(v))
}

func (h *Handlers) updateVilla(w http.ResponseWriter, r *http.Request) {
	var req villaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	in := req.toInput()
	price := 0.0
	if in.Price != nil {
		price = *in.Price
	}
	status := domain.VillaAvailable
	if in.Status == string(domain.VillaSoldOut) {
		status = domain.VillaSoldOut
	}
	v := domain.Villa{
		ID: chi.URLParam(r, "id"), Name: in.Name, Slug: in.Slug, Location: in.Location,
		Price: price, Bedrooms: int(in.Bedrooms), Bathrooms: int(in.Bathrooms),
		Images: in.Images, Facilities: in.Facilities, NearbyPlaces: in.NearbyPlaces,
		IsFeatured: in.IsFeatured, Status: status, DiscountPercentage: in.DiscountPercentage,
		Latitude: in.Latitude, Longitude: in.Longitude,
	}
	setOpt := func(src string, dst **string) {
		if strings.TrimSpace(src) != "" {
			val := src
			*dst = &val
		}
	}
	setOpt(in.Description, &v.Description)
	setOpt(in.NameTh, &v.NameTh)
	setOpt(in.NameEn, &v.NameEn)
	setOpt(in.NameCn, &v.NameCn)
	setOpt(in.DescriptionTh, &v.DescriptionTh)
	setOpt(in.DescriptionEn, &v.DescriptionEn)
	setOpt(in.DescriptionCn, &v.DescriptionCn)
	setOpt(in.LocationEn, &v.LocationEn)
	setOpt(in.LocationCn, &v.LocationCn)
	setOpt(in.FeaturesEn, &v.FeaturesEn)
	setOpt(in.FeaturesCn, &v.FeaturesCn)
	setOpt(in.MapEmbedURL, &v.MapEmbedURL)
	out, err := h.Villas.Update(r.Context(), v)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toVillaDTO(out))
}

func (h *Handlers) deleteVilla(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Villas.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	if c := claimsFrom(r.Context()); c != nil {
		log.Info().Str("villa_id", id).Str("admin", c.Email).Msg("villa deleted")
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) getVillaBySlug(w http.ResponseWriter, r *http.Request) {
	v, err := h.Villas.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toVillaDTO(v))
}

// ---- bookings ----

// listBookings: with villaId it is the public availability feed; the
// unfiltered listing needs an admin session.
func (h *Handlers) listBookings(w http.ResponseWriter, r *http.Request) {
	villaID := strings.TrimSpace(r.URL.Query().Get("villaId"))
	if villaID != "" {
		bs, err := h.Bookings.ListForVilla(r.Context(), villaID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toAvailabilityDTOs(bs))
		return
	}

	if adminClaims(h.Auth, r) == nil {
		writeProblem(w, http.StatusUnauthorized, "Unauthorized", "admin session required")
		return
	}
	bs, err := h.Bookings.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]bookingDTO, 0, len(bs))
	for _, b := range bs {
		out = append(out, toBookingWithVillaDTO(b))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) createBooking(w http.ResponseWriter, r *http.Request) {
	var req struct {
		VillaID   string `json:"villaId"`
		StartDate string `json:"startDate"`
		EndDate   string `json:"endDate"`
		Status    string `json:"status"`
		Notes     string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	b, err := h.Bookings.Create(r.Context(), app.CreateBookingInput{
		VillaID: req.VillaID, StartDate: req.StartDate, EndDate: req.EndDate,
		Status: req.Status, Notes: req.Notes,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toBookingWithVillaDTO(b))
}

func (h *Handlers) deleteBooking(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Bookings.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	if c := claimsFrom(r.Context()); c != nil {
		log.Info().Str("booking_id", id).Str("admin", c.Email).Msg("booking deleted")
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---- leads ----

type leadRequest struct {
	Name      looseString `json:"name"`
	Tel       looseString `json:"tel"`
	LineID    looseString `json:"lineId"`
	VisitDate looseString `json:"visitDate"`
	Message   looseString `json:"message"`
	VillaID   looseString `json:"villaId"`
}

func (h *Handlers) createLead(w http.ResponseWriter, r *http.Request) {
	var req leadRequest
	// A malformed body behaves like an empty submission, never a 500.
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		req = leadRequest{}
	}
	lead, err := h.Leads.Create(r.Context(), app.CreateLeadInput{
		Name:      string(req.Name),
		Tel:       string(req.Tel),
		LineID:    string(req.LineID),
		VisitDate: string(req.VisitDate),
		Message:   string(req.Message),
		VillaID:   string(req.VillaID),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toLeadDTO(lead))
}

func (h *Handlers) listLeads(w http.ResponseWriter, r *http.Request) {
	ls, err := h.Leads.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]leadDTO, 0, len(ls))
	for _, l := range ls {
		out = append(out, toLeadWithVillaDTO(l))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) updateLeadStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	l, err := h.Leads.UpdateStatus(r.Context(), chi.URLParam(r, "id"), req.Status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toLeadDTO(l))
}

func (h *Handlers) exportLeads(w http.ResponseWriter, r *http.Request) {
	ls, err := h.Leads.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	csv := app.BuildLeadsCSV(ls)
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+app.ExportFilename(time.Now())+`"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(csv)); err != nil {
		log.Error().Err(err).Msg("failed to write CSV export")
	}
}

// ---- hero slides ----

func (h *Handlers) listActiveHeroSlides(w http.ResponseWriter, r *http.Request) {
	h.writeHeroSlides(w, r, true)
}

func (h *Handlers) listAllHeroSlides(w http.ResponseWriter, r *http.Request) {
	h.writeHeroSlides(w, r, false)
}

func (h *Handlers) writeHeroSlides(w http.ResponseWriter, r *http.Request, activeOnly bool) {
	ss, err := h.Content.ListHeroSlides(r.Context(), activeOnly)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]heroSlideDTO, 0, len(ss))
	for _, s := range ss {
		out = append(out, toHeroSlideDTO(s))
	}
	writeJSON(w, http.StatusOK, out)
}

type heroSlideRequest struct {
	Title     string `json:"title"`
	Subtitle  string `json:"subtitle"`
	ImageURL  string `json:"imageUrl"`
	CTALabel  string `json:"ctaLabel"`
	CTAHref   string `json:"ctaHref"`
	SortOrder int    `json:"sortOrder"`
	IsActive  bool   `json:"isActive"`
}

func (h *Handlers) createHeroSlide(w http.ResponseWriter, r *http.Request) {
	var req heroSlideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	s, err := h.Content.CreateHeroSlide(r.Context(), app.HeroSlideInput{
		Title: req.Title, Subtitle: req.Subtitle, ImageURL: req.ImageURL,
		CTALabel: req.CTALabel, CTAHref: req.CTAHref,
		SortOrder: req.SortOrder, IsActive: req.IsActive,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toHeroSlideDTO(s))
}

func (h *Handlers) updateHeroSlide(w http.ResponseWriter, r *http.Request) {
	var req heroSlideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	slide := domain.HeroSlide{
		ID:        chi.URLParam(r, "id"),
		Title:     req.Title,
		ImageURL:  req.ImageURL,
		SortOrder: req.SortOrder,
		IsActive:  req.IsActive,
	}
	if strings.TrimSpace(req.Subtitle) != "" {
		slide.Subtitle = &req.Subtitle
	}
	if strings.TrimSpace(req.CTALabel) != "" {
		slide.CTALabel = &req.CTALabel
	}
	if strings.TrimSpace(req.CTAHref) != "" {
		slide.CTAHref = &req.CTAHref
	}
	s, err := h.Content.UpdateHeroSlide(r.Context(), slide)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toHeroSlideDTO(s))
}

func (h *Handlers) deleteHeroSlide(w http.ResponseWriter, r *http.Request) {
	if err := h.Content.DeleteHeroSlide(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---- articles ----

func (h *Handlers) listPublishedArticles(w http.ResponseWriter, r *http.Request) {
	h.writeArticles(w, r, true)
}

func (h *Handlers) listAllArticles(w http.ResponseWriter, r *http.Request) {
	h.writeArticles(w, r, false)
}

func (h *Handlers) writeArticles(w http.ResponseWriter, r *http.Request, publishedOnly bool) {
	as, err := h.Content.ListArticles(r.Context(), publishedOnly)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]articleDTO, 0, len(as))
	for _, a := range as {
		out = append(out, toArticleDTO(a))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) getArticleBySlug(w http.ResponseWriter, r *http.Request) {
	a, err := h.Content.GetArticleBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeError(w, err)
		return
	}
	if !a.Published {
		writeProblem(w, http.StatusNotFound, "Not Found", "article not found")
		return
	}
	writeJSON(w, http.StatusOK, toArticleDTO(a))
}

type articleRequest struct {
	Title      string `json:"title"`
	Slug       string `json:"slug"`
	Excerpt    string `json:"excerpt"`
	Body       string `json:"body"`
	CoverImage string `json:"coverImage"`
	Published  bool   `json:"published"`
}

func (h *Handlers) createArticle(w http.ResponseWriter, r *http.Request) {
	var req articleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	a, err := h.Content.CreateArticle(r.Context(), app.ArticleInput{
		Title: req.Title, Slug: req.Slug, Excerpt: req.Excerpt,
		Body: req.Body, CoverImage: req.CoverImage, Published: req.Published,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toArticleDTO(a))
}

func (h *Handlers) updateArticle(w http.ResponseWriter, r *http.Request) {
	var req articleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	article := domain.Article{
		ID:        chi.URLParam(r, "id"),
		Title:     req.Title,
		Slug:      req.Slug,
		Body:      req.Body,
		Published: req.Published,
	}
	if strings.TrimSpace(req.Excerpt) != "" {
		article.Excerpt = &req.Excerpt
	}
	if strings.TrimSpace(req.CoverImage) != "" {
		article.CoverImage = &req.CoverImage
	}
	a, err := h.Content.UpdateArticle(r.Context(), article)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toArticleDTO(a))
}

func (h *Handlers) deleteArticle(w http.ResponseWriter, r *http.Request) {
	if err := h.Content.DeleteArticle(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
