package repository

import (
	"context"
	"database/sql"

	"github.com/clientxce/Pick-a-Padel/internal/model"
)

// CourtRepo provides read access to the `courts` table.  The court
// catalog is read-mostly; administrative mutation happens outside
// this service.  All methods honour a transaction carried by the
// context so the hold path can read court state inside its atomic
// unit of work.
type CourtRepo struct {
	db *sql.DB
}

// NewCourtRepo returns a new CourtRepo bound to the provided database.
func NewCourtRepo(db *sql.DB) *CourtRepo { return &CourtRepo{db: db} }

const courtColumns = `id, name, type, description, location, price_per_hour, status, max_players, created_at`

func scanCourt(row *sql.Row) (model.Court, error) {
	var c model.Court
	var desc, loc sql.NullString
	err := row.Scan(&c.ID, &c.Name, &c.Type, &desc, &loc, &c.PricePerHour, &c.Status, &c.MaxPlayers, &c.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return model.Court{}, ErrCourtNotFound
		}
		return model.Court{}, err
	}
	c.Description = desc.String
	c.Location = loc.String
	return c, nil
}

// CourtByID returns a single court by its UUID regardless of status.
// It returns ErrCourtNotFound when no such court exists.
func (r *CourtRepo) CourtByID(ctx context.Context, courtID string) (model.Court, error) {
	const q = `SELECT ` + courtColumns + ` FROM courts WHERE id = ?`
	return scanCourt(querier(ctx, r.db).QueryRowContext(ctx, q, courtID))
}

// ActiveCourts returns all ACTIVE courts, or just the one matching
// courtID when courtID is non-empty.  An empty result means there is
// no matching bookable court; callers surface that as not-found.
// Courts are ordered by name for deterministic output.
func (r *CourtRepo) ActiveCourts(ctx context.Context, courtID string) ([]model.Court, error) {
	q := `SELECT ` + courtColumns + ` FROM courts WHERE status = 'ACTIVE'`
	args := []any{}
	if courtID != "" {
		q += ` AND id = ?`
		args = append(args, courtID)
	}
	q += ` ORDER BY name`
	rows, err := querier(ctx, r.db).QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	courts := make([]model.Court, 0)
	for rows.Next() {
		var c model.Court
		var desc, loc sql.NullString
		if err := rows.Scan(&c.ID, &c.Name, &c.Type, &desc, &loc, &c.PricePerHour, &c.Status, &c.MaxPlayers, &c.CreatedAt); err != nil {
			return nil, err
		}
		c.Description = desc.String
		c.Location = loc.String
		courts = append(courts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return courts, nil
}

// ListAll returns every court in the catalog, bookable or not, for
// the public catalog endpoint.
func (r *CourtRepo) ListAll(ctx context.Context) ([]model.Court, error) {
	const q = `SELECT ` + courtColumns + ` FROM courts ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	courts := make([]model.Court, 0)
	for rows.Next() {
		var c model.Court
		var desc, loc sql.NullString
		if err := rows.Scan(&c.ID, &c.Name, &c.Type, &desc, &loc, &c.PricePerHour, &c.Status, &c.MaxPlayers, &c.CreatedAt); err != nil {
			return nil, err
		}
		c.Description = desc.String
		c.Location = loc.String
		courts = append(courts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return courts, nil
}
