package booking

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"roombook/models"
)

var ErrNotFound = errors.New("booking not found")

const queryTimeout = 3 * time.Second

// Store persists bookings in the shared SQLite database.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Create inserts b and fills in its generated ID.
func (s *Store) Create(ctx context.Context, b *models.Booking) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO bookings (name, user, date, start_time, end_time) VALUES (?, ?, ?, ?, ?)`,
		b.Name, b.User, b.Date, b.StartTime, b.EndTime)
	if err != nil {
		return err
	}
	b.ID, err = res.LastInsertId()
	return err
}

func (s *Store) GetByID(ctx context.Context, id int64) (*models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var b models.Booking
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, user, date, start_time, end_time, created_at FROM bookings WHERE id = ?`, id).
		Scan(&b.ID, &b.Name, &b.User, &b.Date, &b.StartTime, &b.EndTime, &b.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// ListAll returns every booking ordered by date then start time, the
// order the list view shows them in.
func (s *Store) ListAll(ctx context.Context) ([]models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, user, date, start_time, end_time, created_at FROM bookings ORDER BY date, start_time`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBookings(rows)
}

// ListByDate returns the bookings sharing a date, ordered by start time.
func (s *Store) ListByDate(ctx context.Context, date string) ([]models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, user, date, start_time, end_time, created_at FROM bookings WHERE date = ? ORDER BY start_time`, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBookings(rows)
}

// Update rewrites the mutable fields of b in place.
func (s *Store) Update(ctx context.Context, b *models.Booking) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := s.db.ExecContext(ctx,
		`UPDATE bookings SET name = ?, date = ?, start_time = ?, end_time = ? WHERE id = ?`,
		b.Name, b.Date, b.StartTime, b.EndTime, b.ID)
	if err != nil {
		return err
	}
	return errIfNoRows(res)
}

func (s *Store) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := s.db.ExecContext(ctx, `DELETE FROM bookings WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return errIfNoRows(res)
}

// CreateValidated runs the conflict/quota check and the insert inside
// one transaction, so two concurrent requests for the same slot cannot
// both pass validation and both commit.
func (s *Store) CreateValidated(ctx context.Context, b *models.Booking, rules Rules) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	sameDate, err := listByDateTx(ctx, tx, b.Date)
	if err != nil {
		return err
	}
	if err := rules.Check(*b, sameDate, 0); err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO bookings (name, user, date, start_time, end_time) VALUES (?, ?, ?, ?, ?)`,
		b.Name, b.User, b.Date, b.StartTime, b.EndTime)
	if err != nil {
		return err
	}
	if b.ID, err = res.LastInsertId(); err != nil {
		return err
	}
	return tx.Commit()
}

// UpdateValidated is CreateValidated for the edit path: the record
// itself is excluded from both the overlap and quota scans.
func (s *Store) UpdateValidated(ctx context.Context, b *models.Booking, rules Rules) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	sameDate, err := listByDateTx(ctx, tx, b.Date)
	if err != nil {
		return err
	}
	if err := rules.Check(*b, sameDate, b.ID); err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE bookings SET name = ?, date = ?, start_time = ?, end_time = ? WHERE id = ?`,
		b.Name, b.Date, b.StartTime, b.EndTime, b.ID)
	if err != nil {
		return err
	}
	if err := errIfNoRows(res); err != nil {
		return err
	}
	return tx.Commit()
}

func listByDateTx(ctx context.Context, tx *sql.Tx, date string) ([]models.Booking, error) {
	rows, err := tx.QueryContext(ctx,
		`SELECT id, name, user, date, start_time, end_time, created_at FROM bookings WHERE date = ? ORDER BY start_time`, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBookings(rows)
}

func scanBookings(rows *sql.Rows) ([]models.Booking, error) {
	var out []models.Booking
	for rows.Next() {
		var b models.Booking
		if err := rows.Scan(&b.ID, &b.Name, &b.User, &b.Date, &b.StartTime, &b.EndTime, &b.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func errIfNoRows(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
