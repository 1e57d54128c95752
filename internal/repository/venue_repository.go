package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"

	"github.com/restomap/booking-backend/internal/model"
)

// VenueRepo provides read access to the `venues` table plus the upsert
// used by the catalog importer. The booking flow treats venues as
// immutable reference data; only the importer writes to this table.
type VenueRepo struct{ DB *sql.DB }

func NewVenueRepo(db *sql.DB) *VenueRepo { return &VenueRepo{DB: db} }

const venueCols = `id, name, COALESCE(phone,''), COALESCE(address,''), COALESCE(type,''),
	COALESCE(average_check,''), COALESCE(description,''),
	COALESCE(lat,0), COALESCE(lon,0),
	COALESCE(source_url,''), COALESCE(source_domain,''), available_online`

// GetByID fetches a venue by id. Returns ErrVenueNotFound when no row
// exists.
func (r *VenueRepo) GetByID(ctx context.Context, id string) (model.Venue, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+venueCols+` FROM venues WHERE id=? LIMIT 1`, id)
	return scanVenue(row.Scan)
}

// ListByIDs fetches venues for the given set of ids in a single query.
// Missing ids are silently absent from the result map.
func (r *VenueRepo) ListByIDs(ctx context.Context, ids []string) (map[string]model.Venue, error) {
	out := make(map[string]model.Venue, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+venueCols+` FROM venues WHERE id IN (`+strings.Join(placeholders, ",")+`)`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		v, err := scanVenue(rows.Scan)
		if err != nil {
			return nil, err
		}
		out[v.ID] = v
	}
	return out, rows.Err()
}

// VenueSearchQuery defines filters & pagination for searching venues.
type VenueSearchQuery struct {
	Search   string
	Page     int
	PageSize int
}

// Search performs a case-insensitive substring match over venue name,
// address and description. Ranked full-text search is deliberately not
// implemented here; this is the discovery listing, not a search engine.
func (r *VenueRepo) Search(ctx context.Context, q VenueSearchQuery) ([]model.Venue, int64, error) {
	cond := "1=1"
	args := []any{}
	if s := strings.TrimSpace(q.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		cond = "(LOWER(name) LIKE ? OR LOWER(address) LIKE ? OR LOWER(description) LIKE ?)"
		args = append(args, like, like, like)
	}

	var total int64
	if err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM venues WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := q.PageSize
	offset := (q.Page - 1) * q.PageSize
	argsData := append(append([]any{}, args...), limit, offset)
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+venueCols+` FROM venues WHERE `+cond+` ORDER BY name ASC LIMIT ? OFFSET ?`, argsData...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]model.Venue, 0, limit)
	for rows.Next() {
		v, err := scanVenue(rows.Scan)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// UpsertBySourceURL inserts a venue or refreshes an existing one keyed
// by its unique source URL. Used by the catalog importer so that
// re-importing the same listings file is idempotent.
func (r *VenueRepo) UpsertBySourceURL(ctx context.Context, v model.Venue) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO venues (id, name, phone, address, type, average_check, description,
		                     lat, lon, source_url, source_domain, available_online)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?,?)
		 ON DUPLICATE KEY UPDATE
		   name=VALUES(name), phone=VALUES(phone), address=VALUES(address),
		   type=VALUES(type), average_check=VALUES(average_check),
		   description=VALUES(description), lat=VALUES(lat), lon=VALUES(lon),
		   source_domain=VALUES(source_domain), available_online=VALUES(available_online)`,
		v.ID, v.Name, nullable(v.Phone), nullable(v.Address), nullable(v.Type),
		nullable(v.AverageCheck), nullable(v.Description), v.Lat, v.Lon,
		nullable(v.SourceURL), nullable(v.SourceDomain), v.AvailableOnline)
	return err
}

func scanVenue(scan func(dest ...any) error) (model.Venue, error) {
	var v model.Venue
	err := scan(&v.ID, &v.Name, &v.Phone, &v.Address, &v.Type,
		&v.AverageCheck, &v.Description, &v.Lat, &v.Lon,
		&v.SourceURL, &v.SourceDomain, &v.AvailableOnline)
	if err == sql.ErrNoRows {
		return model.Venue{}, ErrVenueNotFound
	}
	return v, err
}
