package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jshop/jshop/internal/shop/domain"
)

// CustomerRepository is the Postgres-backed customer store. Registration is
// handled elsewhere; this adapter reads registered customers and manages
// transient guest records.
type CustomerRepository struct {
	pool *pgxpool.Pool
}

// NewCustomerRepository constructs a CustomerRepository on the pool.
func NewCustomerRepository(pool *pgxpool.Pool) *CustomerRepository {
	return &CustomerRepository{pool: pool}
}

const customerColumns = `id, username, password_hash, first_name, last_name, email,
		street, house_no, flat_no, zip_code, city, country, guest`

// GetByUsername fetches a registered customer by username.
func (r *CustomerRepository) GetByUsername(ctx context.Context, username string) (*domain.Customer, error) {
	query := `
		SELECT ` + customerColumns + `
		FROM customers
		WHERE username = $1 AND NOT guest
	`
	return r.getOne(ctx, query, username)
}

// GetByID fetches a customer by identifier.
func (r *CustomerRepository) GetByID(ctx context.Context, id int64) (*domain.Customer, error) {
	query := `
		SELECT ` + customerColumns + `
		FROM customers
		WHERE id = $1
	`
	return r.getOne(ctx, query, id)
}

// CreateGuest stores a transient guest record and returns its identifier.
func (r *CustomerRepository) CreateGuest(ctx context.Context, customer domain.Customer) (int64, error) {
	query := `
		INSERT INTO customers (first_name, last_name, email, street, house_no, flat_no, zip_code, city, country, guest)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, TRUE)
		RETURNING id
	`

	var id int64
	err := querierFrom(ctx, r.pool).QueryRow(ctx, query,
		customer.FirstName,
		customer.LastName,
		customer.Email,
		customer.Address.Street,
		customer.Address.HouseNo,
		customer.Address.FlatNo,
		customer.Address.ZipCode,
		customer.Address.City,
		customer.Address.Country,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert guest customer: %w", err)
	}
	return id, nil
}

// Delete removes the customer record.
func (r *CustomerRepository) Delete(ctx context.Context, id int64) error {
	if _, err := querierFrom(ctx, r.pool).Exec(ctx, `DELETE FROM customers WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}
	return nil
}

func (r *CustomerRepository) getOne(ctx context.Context, query string, args ...any) (*domain.Customer, error) {
	var (
		customer domain.Customer
		username *string
	)
	err := querierFrom(ctx, r.pool).QueryRow(ctx, query, args...).Scan(
		&customer.ID,
		&username,
		&customer.PasswordHash,
		&customer.FirstName,
		&customer.LastName,
		&customer.Email,
		&customer.Address.Street,
		&customer.Address.HouseNo,
		&customer.Address.FlatNo,
		&customer.Address.ZipCode,
		&customer.Address.City,
		&customer.Address.Country,
		&customer.Guest,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("select customer: %w", err)
	}

	if username != nil {
		customer.Username = *username
	}

	return &customer, nil
}
