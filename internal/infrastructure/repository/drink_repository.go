package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Lecon-a/Coffee-Shop/internal/domain"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

// uniqueViolation is the postgres SQLSTATE for unique constraint violations
const uniqueViolation = "23505"

type DrinkRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewDrinkRepository(db *sql.DB, logger *zap.Logger) *DrinkRepository {
	return &DrinkRepository{db: db, logger: logger}
}

func (r *DrinkRepository) List(ctx context.Context) ([]*domain.Drink, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, title, recipe, created_at, updated_at
		FROM drinks
		ORDER BY created_at, id
	`)
	if err != nil {
		r.logger.Error("failed to list drinks", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", domain.ErrDatabaseQuery, err)
	}
	defer rows.Close()

	drinks := []*domain.Drink{}
	for rows.Next() {
		drink, err := scanDrink(rows)
		if err != nil {
			r.logger.Error("failed to scan drink", zap.Error(err))
			return nil, fmt.Errorf("%w: %v", domain.ErrDatabaseQuery, err)
		}
		drinks = append(drinks, drink)
	}
	if err := rows.Err(); err != nil {
		r.logger.Error("failed to iterate drinks", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", domain.ErrDatabaseQuery, err)
	}
	return drinks, nil
}

func (r *DrinkRepository) FindByID(ctx context.Context, id ulid.ULID) (*domain.Drink, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, title, recipe, created_at, updated_at
		FROM drinks WHERE id = $1
	`, id.String())

	drink, err := scanDrink(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrDrinkNotFound
	}
	if err != nil {
		r.logger.Error("failed to find drink by id", zap.String("id", id.String()), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", domain.ErrDatabaseQuery, err)
	}
	return drink, nil
}

func (r *DrinkRepository) ExistsByTitle(ctx context.Context, title string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM drinks WHERE title = $1)", title).Scan(&exists)
	if err != nil {
		r.logger.Error("failed to check if drink exists", zap.Error(err))
		return false, fmt.Errorf("%w: %v", domain.ErrDatabaseQuery, err)
	}
	return exists, nil
}

func (r *DrinkRepository) Create(ctx context.Context, drink *domain.Drink) error {
	recipe, err := json.Marshal(drink.Recipe)
	if err != nil {
		return fmt.Errorf("encoding recipe: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO drinks (id, title, recipe, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`, drink.ID.String(), drink.Title, recipe, drink.CreatedAt, drink.UpdatedAt)
	return r.writeError("create drink", err)
}

func (r *DrinkRepository) Update(ctx context.Context, drink *domain.Drink) error {
	recipe, err := json.Marshal(drink.Recipe)
	if err != nil {
		return fmt.Errorf("encoding recipe: %w", err)
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE drinks
		SET title = $1, recipe = $2, updated_at = $3
		WHERE id = $4
	`, drink.Title, recipe, drink.UpdatedAt, drink.ID.String())
	if err != nil {
		return r.writeError("update drink", err)
	}
	return r.expectOneRow(res)
}

func (r *DrinkRepository) Delete(ctx context.Context, id ulid.ULID) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM drinks WHERE id = $1", id.String())
	if err != nil {
		return r.writeError("delete drink", err)
	}
	return r.expectOneRow(res)
}

func (r *DrinkRepository) expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrDatabaseQuery, err)
	}
	if n == 0 {
		return domain.ErrDrinkNotFound
	}
	return nil
}

func (r *DrinkRepository) writeError(op string, err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return domain.ErrDrinkExists
	}
	r.logger.Error("failed to "+op, zap.Error(err))
	return fmt.Errorf("%w: %v", domain.ErrDatabaseQuery, err)
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanDrink(s scanner) (*domain.Drink, error) {
	var (
		id     string
		recipe []byte
		drink  domain.Drink
	)
	if err := s.Scan(&id, &drink.Title, &recipe, &drink.CreatedAt, &drink.UpdatedAt); err != nil {
		return nil, err
	}

	parsed, err := ulid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid drink id %q: %w", id, err)
	}
	drink.ID = parsed

	if err := json.Unmarshal(recipe, &drink.Recipe); err != nil {
		return nil, fmt.Errorf("decoding recipe of %s: %w", id, err)
	}
	return &drink, nil
}

var _ domain.DrinkRepository = (*DrinkRepository)(nil)
