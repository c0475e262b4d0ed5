package schedule

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	contractx "github.com/techflow/ai-recruiter/agent/contract"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

type Config struct {
	DSN string `envconfig:"DSN" split_words:"true" required:"true"`
}

type slotModel struct {
	bun.BaseModel `bun:"table:slots,alias:s"`

	ID              string    `bun:"id,pk"`
	StartsAt        time.Time `bun:"starts_at,notnull"`
	DurationMinutes int       `bun:"duration_minutes,notnull"`
	Position        string    `bun:"position,notnull"`
	Available       bool      `bun:"available,notnull,default:true"`
}

type bookingModel struct {
	bun.BaseModel `bun:"table:bookings,alias:b"`

	ID        string    `bun:"id,pk"`
	SessionID string    `bun:"session_id,notnull,unique"`
	SlotID    string    `bun:"slot_id,notnull,unique"`
	Confirmed bool      `bun:"confirmed,notnull"`
	CreatedAt time.Time `bun:"created_at,notnull"`
}

// PostgresSlotStore persists interview slots and bookings in Postgres.
// Booking is atomic: the slot flips to unavailable and the booking row is
// inserted in one transaction, so two sessions can never take the same slot.
type PostgresSlotStore struct {
	db  *bun.DB
	now func() time.Time
}

func NewPostgresSlotStore(cfg Config) (*PostgresSlotStore, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("%w: postgres dsn is required", contractx.ErrValidation)
	}
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.DSN)))
	db := bun.NewDB(sqldb, pgdialect.New())
	return &PostgresSlotStore{db: db, now: time.Now}, nil
}

func (s *PostgresSlotStore) Close() error {
	return s.db.Close()
}

func (s *PostgresSlotStore) ListSlots(ctx context.Context, c contractx.SlotConstraints) ([]contractx.SlotOffer, error) {
	limit := c.Limit
	if limit <= 0 {
		limit = 3
	}

	q := s.db.NewSelect().
		Model((*slotModel)(nil)).
		Where("s.available").
		Limit(limit)

	if c.Position != "" {
		q = q.Where("s.position = ?", c.Position)
	}
	if !c.From.IsZero() {
		q = q.Where("s.starts_at >= ?", c.From)
	} else {
		q = q.Where("s.starts_at >= ?", s.now())
	}

	if c.Around != nil {
		q = q.OrderExpr("ABS(EXTRACT(EPOCH FROM (s.starts_at - ?)))", *c.Around)
	} else {
		q = q.Order("starts_at ASC")
	}

	var models []slotModel
	if err := q.Scan(ctx, &models); err != nil {
		return nil, fmt.Errorf("%w: list slots: %v", contractx.ErrStoreUnavailable, err)
	}

	offers := make([]contractx.SlotOffer, 0, len(models))
	for _, m := range models {
		offers = append(offers, contractx.SlotOffer{
			ID:              m.ID,
			StartsAt:        m.StartsAt,
			DurationMinutes: m.DurationMinutes,
			Position:        m.Position,
			Available:       m.Available,
		})
	}
	return offers, nil
}

// Book claims a slot for a session. A session may hold at most one booking.
// The conditional update on "available" is what makes concurrent claims of the
// same slot safe: exactly one transaction sees the row as still available.
func (s *PostgresSlotStore) Book(ctx context.Context, sessionID, slotID string) (contractx.Booking, error) {
	if sessionID == "" || slotID == "" {
		return contractx.Booking{}, fmt.Errorf("%w: session id and slot id are required", contractx.ErrValidation)
	}

	var booking contractx.Booking
	err := s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		exists, err := tx.NewSelect().
			Model((*bookingModel)(nil)).
			Where("b.session_id = ?", sessionID).
			Exists(ctx)
		if err != nil {
			return fmt.Errorf("%w: check session booking: %v", contractx.ErrStoreUnavailable, err)
		}
		if exists {
			return fmt.Errorf("%w: session=%s", contractx.ErrBookingExists, sessionID)
		}

		res, err := tx.NewUpdate().
			Model((*slotModel)(nil)).
			Set("available = FALSE").
			Where("s.id = ?", slotID).
			Where("s.available").
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("%w: claim slot: %v", contractx.ErrStoreUnavailable, err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("%w: claim slot result: %v", contractx.ErrStoreUnavailable, err)
		}
		if affected == 0 {
			return fmt.Errorf("%w: slot=%s", contractx.ErrSlotTaken, slotID)
		}

		rec := bookingModel{
			ID:        uuid.NewString(),
			SessionID: sessionID,
			SlotID:    slotID,
			Confirmed: true,
			CreatedAt: s.now().UTC(),
		}
		if _, err := tx.NewInsert().Model(&rec).Exec(ctx); err != nil {
			return fmt.Errorf("%w: insert booking: %v", contractx.ErrStoreUnavailable, err)
		}

		booking = contractx.Booking{
			ID:        rec.ID,
			SessionID: rec.SessionID,
			SlotID:    rec.SlotID,
			Confirmed: rec.Confirmed,
			CreatedAt: rec.CreatedAt,
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, contractx.ErrSlotTaken) || errors.Is(err, contractx.ErrBookingExists) || errors.Is(err, contractx.ErrStoreUnavailable) {
			return contractx.Booking{}, err
		}
		return contractx.Booking{}, fmt.Errorf("%w: book slot: %v", contractx.ErrStoreUnavailable, err)
	}
	return booking, nil
}

// ResetSchema drops and recreates the scheduling tables. Used by the console
// init flow, not by the running service.
func (s *PostgresSlotStore) ResetSchema(ctx context.Context) error {
	for _, model := range []any{(*bookingModel)(nil), (*slotModel)(nil)} {
		if _, err := s.db.NewDropTable().Model(model).IfExists().Exec(ctx); err != nil {
			return fmt.Errorf("%w: drop table: %v", contractx.ErrStoreUnavailable, err)
		}
	}
	for _, model := range []any{(*slotModel)(nil), (*bookingModel)(nil)} {
		if _, err := s.db.NewCreateTable().Model(model).Exec(ctx); err != nil {
			return fmt.Errorf("%w: create table: %v", contractx.ErrStoreUnavailable, err)
		}
	}
	return nil
}

// Seed inserts interview slots for the next two weeks, weekdays at 10:00 and
// 14:00 local time.
func (s *PostgresSlotStore) Seed(ctx context.Context, position string) error {
	start := s.now()
	var models []slotModel
	for day := 1; day <= 14; day++ {
		d := start.AddDate(0, 0, day)
		if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			continue
		}
		for _, hour := range []int{10, 14} {
			models = append(models, slotModel{
				ID:              uuid.NewString(),
				StartsAt:        time.Date(d.Year(), d.Month(), d.Day(), hour, 0, 0, 0, d.Location()),
				DurationMinutes: 45,
				Position:        position,
				Available:       true,
			})
		}
	}
	if _, err := s.db.NewInsert().Model(&models).Exec(ctx); err != nil {
		return fmt.Errorf("%w: seed slots: %v", contractx.ErrStoreUnavailable, err)
	}
	return nil
}
