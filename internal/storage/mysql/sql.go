package mysql

const insertVillaSQL = `
INSERT INTO villas
  (id, name, slug, location, price, bedrooms, bathrooms, description,
   images, facilities, nearby_places, is_featured, status, discount_percentage,
   name_th, name_en, name_cn, description_th, description_en, description_cn,
   location_en, location_cn, features_en, features_cn,
   map_embed_url, latitude, longitude)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

const updateVillaSQL = `
UPDATE villas SET
  name = ?, slug = ?, location = ?, price = ?, bedrooms = ?, bathrooms = ?,
  description = ?, images = ?, facilities = ?, nearby_places = ?,
  is_featured = ?, status = ?, discount_percentage = ?,
  name_th = ?, name_en = ?, name_cn = ?,
  description_th = ?, description_en = ?, description_cn = ?,
  location_en = ?, location_cn = ?, features_en = ?, features_cn = ?,
  map_embed_url = ?, latitude = ?, longitude = ?,
  updated_at = CURRENT_TIMESTAMP
WHERE id = ?
`

// villaColumns keeps every SELECT over villas aligned with scanVilla.
const villaColumns = `
  id, name, slug, location, price, bedrooms, bathrooms, description,
  images, facilities, nearby_places, is_featured, status, discount_percentage,
  name_th, name_en, name_cn, description_th, description_en, description_cn,
  location_en, location_cn, features_en, features_cn,
  map_embed_url, latitude, longitude, created_at, updated_at
`

const getVillaSQL = `SELECT` + villaColumns + `FROM villas WHERE id = ?`

const getVillaBySlugSQL = `SELECT` + villaColumns + `FROM villas WHERE slug = ?`

const listVillasSQL = `SELECT` + villaColumns + `FROM villas ORDER BY created_at DESC`

const searchVillasSQL = `SELECT` + villaColumns + `FROM villas
WHERE LOWER(name) LIKE ? OR LOWER(location) LIKE ?
ORDER BY created_at DESC`

const deleteVillaSQL = `DELETE FROM villas WHERE id = ?`

// Existing BOOKED ranges for one villa, locked for the duration of the
// booking-create transaction. The next-key locks block a second create
// once a BOOKED row exists; with zero rows the gap locks are compatible
// and one racing insert aborts with error 1213, which CreateBooking
// reports as a conflict.
const lockVillaBookingsSQL = `
SELECT start_date, end_date FROM bookings
WHERE villa_id = ? AND status = 'BOOKED'
FOR UPDATE
`

const villaSummarySQL = `SELECT id, name, slug FROM villas WHERE id = ?`

const insertBookingSQL = `
INSERT INTO bookings (id, villa_id, start_date, end_date, status, notes, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
`

const listBookingsSQL = `
SELECT b.id, b.villa_id, b.start_date, b.end_date, b.status, b.notes, b.created_at,
       v.id, v.name, v.slug
FROM bookings b
JOIN villas v ON v.id = b.villa_id
ORDER BY b.created_at DESC
`

const listVillaBookingsSQL = `
SELECT id, villa_id, start_date, end_date, status, notes, created_at
FROM bookings
WHERE villa_id = ? AND status = 'BOOKED'
ORDER BY start_date ASC
`

const getBookingVillaSQL = `SELECT villa_id FROM bookings WHERE id = ?`

const deleteBookingSQL = `DELETE FROM bookings WHERE id = ?`

const insertLeadSQL = `
INSERT INTO leads (id, name, tel, line_id, visit_date, message, villa_id, status, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`

const listLeadsSQL = `
SELECT l.id, l.name, l.tel, l.line_id, l.visit_date, l.message, l.villa_id, l.status, l.created_at,
       v.id, v.name, v.slug
FROM leads l
LEFT JOIN villas v ON v.id = l.villa_id
ORDER BY l.created_at DESC
`

const getLeadSQL = `
SELECT id, name, tel, line_id, visit_date, message, villa_id, status, created_at
FROM leads WHERE id = ?
`

const updateLeadStatusSQL = `UPDATE leads SET status = ? WHERE id = ?`

const getUserByEmailSQL = `
SELECT id, email, password_hash, name, role, created_at
FROM users WHERE email = ?
`

const upsertUserSQL = `
INSERT INTO users (id, email, password_hash, name, role)
VALUES (?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  password_hash = VALUES(password_hash),
  name          = VALUES(name),
  role          = VALUES(role)
`

const insertHeroSlideSQL = `
INSERT INTO hero_slides (id, title, subtitle, image_url, cta_label, cta_href, sort_order, is_active)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`

const updateHeroSlideSQL = `
UPDATE hero_slides SET
  title = ?, subtitle = ?, image_url = ?, cta_label = ?, cta_href = ?,
  sort_order = ?, is_active = ?
WHERE id = ?
`

const deleteHeroSlideSQL = `DELETE FROM hero_slides WHERE id = ?`

const heroSlideColumns = `id, title, subtitle, image_url, cta_label, cta_href, sort_order, is_active, created_at`

const listHeroSlidesSQL = `SELECT ` + heroSlideColumns + ` FROM hero_slides ORDER BY sort_order ASC`

const listActiveHeroSlidesSQL = `SELECT ` + heroSlideColumns + ` FROM hero_slides WHERE is_active = TRUE ORDER BY sort_order ASC`

const insertArticleSQL = `
INSERT INTO articles (id, title, slug, excerpt, body, cover_image, published)
VALUES (?, ?, ?, ?, ?, ?, ?)
`

const updateArticleSQL = `
UPDATE articles SET
  title = ?, slug = ?, excerpt = ?, body = ?, cover_image = ?, published = ?,
  updated_at = CURRENT_TIMESTAMP
WHERE id = ?
`

const deleteArticleSQL = `DELETE FROM articles WHERE id = ?`

const articleColumns = `id, title, slug, excerpt, body, cover_image, published, created_at, updated_at`

const getArticleSQL = `SELECT ` + articleColumns + ` FROM articles WHERE id = ?`

const getArticleBySlugSQL = `SELECT ` + articleColumns + ` FROM articles WHERE slug = ?`

const listArticlesSQL = `SELECT ` + articleColumns + ` FROM articles ORDER BY created_at DESC`

const listPublishedArticlesSQL = `SELECT ` + articleColumns + ` FROM articles WHERE published = TRUE ORDER BY created_at DESC`
