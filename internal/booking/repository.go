package booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nekogravitycat/shareit-backend/internal/db"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/paging"
)

// Repository persists bookings and answers the temporal listing queries.
// Every List* method orders by end descending and evaluates "now" inside the store.
type Repository interface {
	Create(ctx context.Context, b *Booking) error
	GetByID(ctx context.Context, id int64) (*Booking, error)
	UpdateStatus(ctx context.Context, id int64, status Status) error

	ListAll(ctx context.Context, scope Scope, userID int64, page paging.Page) ([]*Booking, error)
	ListCurrent(ctx context.Context, scope Scope, userID int64, page paging.Page) ([]*Booking, error)
	ListPast(ctx context.Context, scope Scope, userID int64, page paging.Page) ([]*Booking, error)
	ListFuture(ctx context.Context, scope Scope, userID int64, page paging.Page) ([]*Booking, error)
	ListByStatus(ctx context.Context, scope Scope, userID int64, status Status, page paging.Page) ([]*Booking, error)

	// ListByItems returns every booking of the given items in id order.
	ListByItems(ctx context.Context, itemIDs []int64) ([]*Booking, error)
	// HasFinished reports whether the booker has a booking of the item that already ended.
	HasFinished(ctx context.Context, bookerID, itemID int64) (bool, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Create(ctx context.Context, b *Booking) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.bookings").
		Columns("item_id", "booker_id", "start_time", "end_time", "status").
		Values(b.ItemID, b.BookerID, b.Start, b.End, b.Status).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create booking query failed: %w", err)
	}

	if err := db.Conn(ctx, r.pool).QueryRow(ctx, query, args...).Scan(&b.ID); err != nil {
		return fmt.Errorf("create booking failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id int64) (*Booking, error) {
	query, args, err := selectBookings().
		Where(squirrel.Eq{"b.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get booking query failed: %w", err)
	}

	var b Booking
	if err := scanBooking(db.Conn(ctx, r.pool).QueryRow(ctx, query, args...), &b); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, NotFound(id)
		}
		return nil, fmt.Errorf("get booking failed: %w", err)
	}
	return &b, nil
}

func (r *pgxRepository) UpdateStatus(ctx context.Context, id int64, status Status) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.bookings").
		Set("status", status).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update booking query failed: %w", err)
	}

	ct, err := db.Conn(ctx, r.pool).Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update booking failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return NotFound(id)
	}
	return nil
}

func (r *pgxRepository) ListAll(ctx context.Context, scope Scope, userID int64, page paging.Page) ([]*Booking, error) {
	return r.listPage(ctx, scope, userID, nil, page)
}

func (r *pgxRepository) ListCurrent(ctx context.Context, scope Scope, userID int64, page paging.Page) ([]*Booking, error) {
	return r.listPage(ctx, scope, userID, squirrel.Expr("b.start_time <= now() AND b.end_time >= now()"), page)
}

func (r *pgxRepository) ListPast(ctx context.Context, scope Scope, userID int64, page paging.Page) ([]*Booking, error) {
	return r.listPage(ctx, scope, userID, squirrel.Expr("b.end_time < now()"), page)
}

func (r *pgxRepository) ListFuture(ctx context.Context, scope Scope, userID int64, page paging.Page) ([]*Booking, error) {
	return r.listPage(ctx, scope, userID, squirrel.Expr("b.start_time > now()"), page)
}

func (r *pgxRepository) ListByStatus(ctx context.Context, scope Scope, userID int64, status Status, page paging.Page) ([]*Booking, error) {
	return r.listPage(ctx, scope, userID, squirrel.Eq{"b.status": status}, page)
}

func (r *pgxRepository) ListByItems(ctx context.Context, itemIDs []int64) ([]*Booking, error) {
	if len(itemIDs) == 0 {
		return nil, nil
	}
	return r.list(ctx, selectBookings().
		Where(squirrel.Eq{"b.item_id": itemIDs}).
		OrderBy("b.id ASC"))
}

func (r *pgxRepository) HasFinished(ctx context.Context, bookerID, itemID int64) (bool, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	subQuery, args, err := psql.Select("1").
		From("public.bookings").
		Where(squirrel.Eq{"booker_id": bookerID, "item_id": itemID}).
		Where(squirrel.Expr("end_time < now()")).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build finished booking query failed: %w", err)
	}

	var exists bool
	if err := db.Conn(ctx, r.pool).QueryRow(ctx, "SELECT EXISTS ("+subQuery+")", args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("check finished booking failed: %w", err)
	}
	return exists, nil
}

// listPage applies the scope, an optional bucket condition, the end-descending order and the page.
func (r *pgxRepository) listPage(ctx context.Context, scope Scope, userID int64, cond squirrel.Sqlizer, page paging.Page) ([]*Booking, error) {
	query := selectBookings().Where(scopeCondition(scope, userID))
	if cond != nil {
		query = query.Where(cond)
	}
	query = query.
		OrderBy("b.end_time DESC", "b.id DESC").
		Limit(page.Limit()).
		Offset(page.Offset())

	return r.list(ctx, query)
}

func (r *pgxRepository) list(ctx context.Context, builder squirrel.SelectBuilder) ([]*Booking, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list bookings query failed: %w", err)
	}

	rows, err := db.Conn(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list bookings failed: %w", err)
	}
	defer rows.Close()

	var bookings []*Booking
	for rows.Next() {
		var b Booking
		if err := scanBooking(rows, &b); err != nil {
			return nil, fmt.Errorf("scan booking failed: %w", err)
		}
		bookings = append(bookings, &b)
	}
	return bookings, rows.Err()
}

func selectBookings() squirrel.SelectBuilder {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	return psql.Select(
		"b.id", "b.start_time", "b.end_time", "b.status",
		"b.item_id", "i.name", "i.owner_id",
		"b.booker_id", "u.name",
	).
		From("public.bookings b").
		Join("public.items i ON b.item_id = i.id").
		Join("public.users u ON b.booker_id = u.id")
}

func scopeCondition(scope Scope, userID int64) squirrel.Sqlizer {
	if scope == ScopeOwner {
		return squirrel.Eq{"i.owner_id": userID}
	}
	return squirrel.Eq{"b.booker_id": userID}
}

func scanBooking(row pgx.Row, b *Booking) error {
	return row.Scan(
		&b.ID, &b.Start, &b.End, &b.Status,
		&b.ItemID, &b.ItemName, &b.ItemOwnerID,
		&b.BookerID, &b.BookerName,
	)
}
