package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/clientxce/Pick-a-Padel/internal/model"
)

// BookingRepo provides data access to the `bookings` and `payments`
// tables.  Bookings and their payment orders are always written
// together inside one transaction; the repo exposes WithTx so the
// service layer can delimit the atomic unit of work while individual
// methods join whatever transaction the context carries.  All
// timestamps are stored and compared in UTC.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// WithTx runs fn inside a single database transaction.  Any error
// aborts the whole unit; nothing partial is ever committed.
func (r *BookingRepo) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.db, fn)
}

// CourtByID reads a court through the booking repo so the hold
// transaction can validate the court inside its own unit of work.
func (r *BookingRepo) CourtByID(ctx context.Context, courtID string) (model.Court, error) {
	const q = `SELECT ` + courtColumns + ` FROM courts WHERE id = ?`
	return scanCourt(querier(ctx, r.db).QueryRowContext(ctx, q, courtID))
}

// ReleaseExpiredHold flips a stale HOLD on exactly the given
// (court, date, slot) to EXPIRED.  The hold transaction calls this
// before inserting so the unique index over active bookings stays
// authoritative: a hold whose window has elapsed must not block the
// slot.  Rows whose expiry has not passed are left untouched.
func (r *BookingRepo) ReleaseExpiredHold(ctx context.Context, courtID, date, slot string, now time.Time) error {
	const q = `UPDATE bookings
               SET status = 'EXPIRED', expires_at = NULL
               WHERE court_id = ? AND date = ? AND time_slot = ?
                 AND status = 'HOLD' AND expires_at <= ?`
	_, err := querier(ctx, r.db).ExecContext(ctx, q, courtID, date, slot, now.UTC())
	return err
}

// SlotTaken reports whether an active (HOLD or CONFIRMED) booking
// already occupies the given court, date and time slot.  The caller
// is expected to have released any stale hold first, so no expiry
// predicate is applied here; the unique index is the authority.
func (r *BookingRepo) SlotTaken(ctx context.Context, courtID, date, slot string) (bool, error) {
	const q = `SELECT COUNT(*) FROM bookings
               WHERE court_id = ? AND date = ? AND time_slot = ?
                 AND status IN ('HOLD','CONFIRMED')`
	var n int
	if err := querier(ctx, r.db).QueryRowContext(ctx, q, courtID, date, slot).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

// CreatePayment inserts a new payment order row.  Must run inside
// the same transaction as the booking insert that references it.
func (r *BookingRepo) CreatePayment(ctx context.Context, p *model.Payment) error {
	const q = `INSERT INTO payments (id, razorpay_order_id, amount, currency, status, email, phone)
               VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := querier(ctx, r.db).ExecContext(ctx, q,
		p.ID, p.RazorpayOrderID, p.Amount, p.Currency, p.Status, p.Email, p.Phone)
	return err
}

// CreateBooking inserts a new booking row.  The `bookings` table
// carries a unique index over (court_id, date, time_slot) restricted
// to active statuses via a generated column, so when two holds race
// for the same slot exactly one insert succeeds; the loser's
// duplicate-key error is surfaced as ErrSlotTaken.
func (r *BookingRepo) CreateBooking(ctx context.Context, b *model.Booking) error {
	const q = `INSERT INTO bookings
               (id, court_id, user_id, user_email, user_name, user_phone,
                date, time_slot, duration_min, status, amount, payment_id, notes, expires_at)
               VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	var expires any
	if b.ExpiresAt != nil {
		expires = b.ExpiresAt.UTC()
	}
	_, err := querier(ctx, r.db).ExecContext(ctx, q,
		b.ID, b.CourtID, b.UserID, b.UserEmail, b.UserName, b.UserPhone,
		b.Date, b.TimeSlot, b.DurationMin, b.Status, b.Amount, b.PaymentID, b.Notes, expires)
	if err != nil {
		if isDuplicateEntry(err) {
			return ErrSlotTaken
		}
		return err
	}
	return nil
}

const bookingColumns = `id, court_id, user_id, user_email, user_name, user_phone,
                DATE_FORMAT(date, '%Y-%m-%d'), time_slot, duration_min, status, amount,
                payment_id, notes, expires_at, confirmed_at, created_at`

func scanBooking(row *sql.Row) (model.Booking, error) {
	var b model.Booking
	var name, phone, notes sql.NullString
	var expires, confirmed sql.NullTime
	err := row.Scan(&b.ID, &b.CourtID, &b.UserID, &b.UserEmail, &name, &phone,
		&b.Date, &b.TimeSlot, &b.DurationMin, &b.Status, &b.Amount,
		&b.PaymentID, &notes, &expires, &confirmed, &b.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return model.Booking{}, ErrBookingNotFound
		}
		return model.Booking{}, err
	}
	if name.Valid {
		b.UserName = &name.String
	}
	if phone.Valid {
		b.UserPhone = &phone.String
	}
	if notes.Valid {
		b.Notes = &notes.String
	}
	if expires.Valid {
		t := expires.Time.UTC()
		b.ExpiresAt = &t
	}
	if confirmed.Valid {
		t := confirmed.Time.UTC()
		b.ConfirmedAt = &t
	}
	return b, nil
}

// BookingForUpdate loads a booking by id with a row lock so the
// confirmation transaction serialises against concurrent attempts on
// the same booking.  Returns ErrBookingNotFound when no row exists.
func (r *BookingRepo) BookingForUpdate(ctx context.Context, bookingID string) (model.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ? FOR UPDATE`
	return scanBooking(querier(ctx, r.db).QueryRowContext(ctx, q, bookingID))
}

// PaymentForUpdate loads a payment order by id with a row lock.
func (r *BookingRepo) PaymentForUpdate(ctx context.Context, paymentID string) (model.Payment, error) {
	const q = `SELECT id, razorpay_order_id, amount, currency, status, email, phone,
                      razorpay_payment_id, razorpay_signature, created_at
               FROM payments WHERE id = ? FOR UPDATE`
	var p model.Payment
	var phone, payID, sig sql.NullString
	err := querier(ctx, r.db).QueryRowContext(ctx, q, paymentID).Scan(
		&p.ID, &p.RazorpayOrderID, &p.Amount, &p.Currency, &p.Status, &p.Email,
		&phone, &payID, &sig, &p.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return model.Payment{}, ErrBookingNotFound
		}
		return model.Payment{}, err
	}
	if phone.Valid {
		p.Phone = &phone.String
	}
	if payID.Valid {
		p.RazorpayPaymentID = &payID.String
	}
	if sig.Valid {
		p.RazorpaySignature = &sig.String
	}
	return p, nil
}

// MarkPaymentPaid records the gateway payment id and signature on a
// payment order and moves it to PAID.  Runs inside the confirmation
// transaction.
func (r *BookingRepo) MarkPaymentPaid(ctx context.Context, paymentID, gatewayPaymentID, signature string) error {
	const q = `UPDATE payments
               SET razorpay_payment_id = ?, razorpay_signature = ?, status = 'PAID'
               WHERE id = ?`
	_, err := querier(ctx, r.db).ExecContext(ctx, q, gatewayPaymentID, signature, paymentID)
	return err
}

// ConfirmBooking promotes a HOLD booking to CONFIRMED, stamping the
// confirmation instant and clearing the hold expiry.  Runs inside
// the confirmation transaction after MarkPaymentPaid.
func (r *BookingRepo) ConfirmBooking(ctx context.Context, bookingID string, confirmedAt time.Time) error {
	const q = `UPDATE bookings
               SET status = 'CONFIRMED', confirmed_at = ?, expires_at = NULL
               WHERE id = ?`
	_, err := querier(ctx, r.db).ExecContext(ctx, q, confirmedAt.UTC(), bookingID)
	return err
}

// ExpireDue transitions every HOLD booking whose expiry has passed
// to EXPIRED and returns how many rows were released.  The expiry
// reaper calls this periodically so abandoned holds self-heal even
// when nobody requests the slot again.
func (r *BookingRepo) ExpireDue(ctx context.Context, now time.Time) (int64, error) {
	const q = `UPDATE bookings
               SET status = 'EXPIRED', expires_at = NULL
               WHERE status = 'HOLD' AND expires_at <= ?`
	res, err := r.db.ExecContext(ctx, q, now.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// BookedSlots returns, for the given date, the time slots occupied
// per court id.  A slot counts as booked when a CONFIRMED booking
// exists or a HOLD whose expiry is still in the future; stale holds
// are excluded by the time predicate so availability reads self-heal
// without waiting for the reaper.
func (r *BookingRepo) BookedSlots(ctx context.Context, date string, now time.Time) (map[string][]string, error) {
	const q = `SELECT court_id, time_slot FROM bookings
               WHERE date = ?
                 AND (status = 'CONFIRMED' OR (status = 'HOLD' AND expires_at > ?))
               ORDER BY court_id, time_slot`
	rows, err := querier(ctx, r.db).QueryContext(ctx, q, date, now.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	booked := make(map[string][]string)
	for rows.Next() {
		var courtID, slot string
		if err := rows.Scan(&courtID, &slot); err != nil {
			return nil, err
		}
		booked[courtID] = append(booked[courtID], slot)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return booked, nil
}

// UserBookingDetail is a booking joined with its court summary and
// payment status, shaped for the "my bookings" listing.
type UserBookingDetail struct {
	ID            string     `json:"id"`
	CourtName     string     `json:"court_name"`
	CourtType     string     `json:"court_type"`
	CourtLocation string     `json:"court_location"`
	Date          string     `json:"date"`
	TimeSlot      string     `json:"time_slot"`
	DurationMin   uint16     `json:"duration_min"`
	Status        string     `json:"status"`
	Amount        int64      `json:"amount"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
	ConfirmedAt   *time.Time `json:"confirmed_at,omitempty"`
	PaymentStatus string     `json:"payment_status"`
	CreatedAt     time.Time  `json:"created_at"`
}

// ListActiveByUser returns all HOLD and CONFIRMED bookings owned by
// the given user with court and payment details, ordered by booking
// date ascending.  When no bookings exist, an empty slice is
// returned.
func (r *BookingRepo) ListActiveByUser(ctx context.Context, userID uint64) ([]UserBookingDetail, error) {
	const q = `SELECT b.id, c.name, c.type, c.location,
                      DATE_FORMAT(b.date, '%Y-%m-%d'), b.time_slot, b.duration_min,
                      b.status, b.amount, b.expires_at, b.confirmed_at, p.status, b.created_at
               FROM bookings b
               JOIN courts c ON c.id = b.court_id
               JOIN payments p ON p.id = b.payment_id
               WHERE b.user_id = ? AND b.status IN ('HOLD','CONFIRMED')
               ORDER BY b.date ASC, b.time_slot ASC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	details := make([]UserBookingDetail, 0)
	for rows.Next() {
		var d UserBookingDetail
		var loc sql.NullString
		var expires, confirmed sql.NullTime
		if err := rows.Scan(&d.ID, &d.CourtName, &d.CourtType, &loc,
			&d.Date, &d.TimeSlot, &d.DurationMin,
			&d.Status, &d.Amount, &expires, &confirmed, &d.PaymentStatus, &d.CreatedAt); err != nil {
			return nil, err
		}
		d.CourtLocation = loc.String
		if expires.Valid {
			t := expires.Time.UTC()
			d.ExpiresAt = &t
		}
		if confirmed.Valid {
			t := confirmed.Time.UTC()
			d.ConfirmedAt = &t
		}
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return details, nil
}
