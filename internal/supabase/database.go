package supabase

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"stature-backend/internal/models"
)

var (
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned when a row exists but is not in a state the
	// requested change applies to.
	ErrConflict = errors.New("record state conflict")
)

// DatabaseClient is the Postgres store for user accounts and orders.
type DatabaseClient struct {
	pool *pgxpool.Pool
}

func NewDatabaseClient(ctx context.Context, connectionString string) (*DatabaseClient, error) {
	pool, err := pgxpool.New(ctx, connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DatabaseClient{pool: pool}, nil
}

func (d *DatabaseClient) Ping(ctx context.Context) error {
	return d.pool.Ping(ctx)
}

func (d *DatabaseClient) Close() {
	d.pool.Close()
}

const userColumns = `uid, email, display_name, role, credits, created_at`

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	if err := row.Scan(&u.UID, &u.Email, &u.DisplayName, &u.Role, &u.Credits, &u.CreatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

// EnsureUser returns the account for uid, creating it when missing. The
// first account ever created is an admin. The users table is locked for the
// duration so two concurrent first sign-ups cannot both become admin.
func (d *DatabaseClient) EnsureUser(ctx context.Context, uid, email, displayName string) (*models.User, bool, error) {
	tx, err := d.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, false, fmt.Errorf("starting transaction for user %s: %w", uid, err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if _, err := tx.Exec(ctx, `LOCK TABLE users IN SHARE ROW EXCLUSIVE MODE`); err != nil {
		return nil, false, fmt.Errorf("locking users table: %w", err)
	}

	existing, err := scanUser(tx.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE uid = $1`, uid))
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, fmt.Errorf("getting user %s: %w", uid, err)
	}

	var hasUsers bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users)`).Scan(&hasUsers); err != nil {
		return nil, false, fmt.Errorf("counting users: %w", err)
	}

	role := models.RoleUser
	if !hasUsers {
		role = models.RoleAdmin
	}

	created, err := scanUser(tx.QueryRow(ctx, `
		INSERT INTO users (uid, email, display_name, role, credits)
		VALUES ($1, $2, $3, $4, 0)
		RETURNING `+userColumns,
		uid, email, displayName, role,
	))
	if err != nil {
		return nil, false, fmt.Errorf("creating user %s: %w", uid, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, false, fmt.Errorf("committing user %s: %w", uid, err)
	}
	return created, true, nil
}

func (d *DatabaseClient) GetUser(ctx context.Context, uid string) (*models.User, error) {
	u, err := scanUser(d.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE uid = $1`, uid))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("getting user %s: %w", uid, err)
	}
	return u, nil
}

func (d *DatabaseClient) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := d.pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("querying users: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning user row: %w", err)
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating user rows: %w", err)
	}
	return users, nil
}

func (d *DatabaseClient) SetUserRole(ctx context.Context, uid, role string) (*models.User, error) {
	u, err := scanUser(d.pool.QueryRow(ctx, `
		UPDATE users SET role = $2 WHERE uid = $1
		RETURNING `+userColumns,
		uid, role,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("setting role for user %s: %w", uid, err)
	}
	return u, nil
}

const orderColumns = `id, uid, package, amount_cents, credits, status, payment_id, created_at`

func scanOrder(row pgx.Row) (*models.Order, error) {
	var o models.Order
	if err := row.Scan(&o.ID, &o.UID, &o.Package, &o.AmountCents, &o.Credits, &o.Status, &o.PaymentID, &o.CreatedAt); err != nil {
		return nil, err
	}
	return &o, nil
}

// CreateOrderWithCredits records the order and grants its credits in one
// transaction keyed by the payment reference. When the reference was already
// recorded nothing is granted, the stored order is returned and created is false.
func (d *DatabaseClient) CreateOrderWithCredits(ctx context.Context, order *models.Order) (*models.Order, bool, error) {
	tx, err := d.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, false, fmt.Errorf("starting transaction for payment %s: %w", order.PaymentID, err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}

	inserted, err := scanOrder(tx.QueryRow(ctx, `
		INSERT INTO orders (id, uid, package, amount_cents, credits, status, payment_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (payment_id) DO NOTHING
		RETURNING `+orderColumns,
		order.ID, order.UID, order.Package, order.AmountCents, order.Credits, order.Status, order.PaymentID,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		existing, err := scanOrder(tx.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE payment_id = $1`, order.PaymentID))
		if err != nil {
			return nil, false, fmt.Errorf("getting order for payment %s: %w", order.PaymentID, err)
		}
		return existing, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("creating order for payment %s: %w", order.PaymentID, err)
	}

	tag, err := tx.Exec(ctx, `UPDATE users SET credits = credits + $2 WHERE uid = $1`, order.UID, order.Credits)
	if err != nil {
		return nil, false, fmt.Errorf("granting credits to user %s: %w", order.UID, err)
	}
	if tag.RowsAffected() == 0 {
		return nil, false, ErrNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, false, fmt.Errorf("committing order for payment %s: %w", order.PaymentID, err)
	}
	return inserted, true, nil
}

func (d *DatabaseClient) GetOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	o, err := scanOrder(d.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, orderID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("getting order %s: %w", orderID, err)
	}
	return o, nil
}

func (d *DatabaseClient) ListOrders(ctx context.Context) ([]models.Order, error) {
	return d.queryOrders(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC`)
}

func (d *DatabaseClient) ListOrdersByUser(ctx context.Context, uid string) ([]models.Order, error) {
	return d.queryOrders(ctx, `SELECT `+orderColumns+` FROM orders WHERE uid = $1 ORDER BY created_at DESC`, uid)
}

func (d *DatabaseClient) queryOrders(ctx context.Context, query string, args ...any) ([]models.Order, error) {
	rows, err := d.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying orders: %w", err)
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning order row: %w", err)
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating order rows: %w", err)
	}
	return orders, nil
}

// CancelOrder moves an in progress or completed order to cancelled. It
// returns ErrConflict for an order that is already cancelled.
func (d *DatabaseClient) CancelOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	o, err := scanOrder(d.pool.QueryRow(ctx, `
		UPDATE orders SET status = $2
		WHERE id = $1 AND status IN ($3, $4)
		RETURNING `+orderColumns,
		orderID, models.OrderStatusCancelled, models.OrderStatusInProgress, models.OrderStatusCompleted,
	))
	if err == nil {
		return o, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("cancelling order %s: %w", orderID, err)
	}

	if _, err := d.GetOrder(ctx, orderID); err != nil {
		return nil, err
	}
	return nil, ErrConflict
}
