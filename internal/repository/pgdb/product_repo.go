package pgdb

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/DRSN-tech/store/internal/domain"
	"github.com/DRSN-tech/store/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/store/pkg/e"
	"github.com/DRSN-tech/store/pkg/tr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

const productColumns = "id, name, quantity, price, status, created_at, updated_at"

// querier — общее подмножество pgxpool.Pool и pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// ProductRepo реализует коллекцию продуктов поверх PostgreSQL.
type ProductRepo struct {
	pool *pgxpool.Pool
	conv converter.ProductConverter
}

func NewProductRepo(pool *pgxpool.Pool, conv converter.ProductConverter) *ProductRepo {
	return &ProductRepo{
		pool: pool,
		conv: conv,
	}
}

// db возвращает транзакцию из контекста, если она есть, иначе пул.
func (p *ProductRepo) db(ctx context.Context) (querier, bool) {
	if tx, err := tr.TxFromCtx(ctx); err == nil {
		return tx, true
	}

	return p.pool, false
}

func (p *ProductRepo) InsertOne(ctx context.Context, product *domain.Product) error {
	db, _ := p.db(ctx)
	model := p.conv.ToModel(product)

	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := db.Exec(ctx, query,
		model.ID, model.Name, model.Quantity, model.Price,
		model.Status, model.CreatedAt, model.UpdatedAt,
	)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// FindOne внутри транзакции блокирует найденную строку до её завершения.
func (p *ProductRepo) FindOne(ctx context.Context, filter domain.ProductFilter) (*domain.Product, error) {
	db, inTx := p.db(ctx)

	where, args := buildWhere(filter, 1)
	query := fmt.Sprintf("SELECT %s FROM products %s LIMIT 1", productColumns, where)
	if inTx {
		query += " FOR UPDATE"
	}

	model, err := scanProduct(db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, mapErr(err)
	}

	return p.conv.ToEntity(model), nil
}

func (p *ProductRepo) Find(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	db, _ := p.db(ctx)

	where, args := buildWhere(filter, 1)
	query := fmt.Sprintf("SELECT %s FROM products %s", productColumns, where)

	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	result := make([]domain.Product, 0)
	for rows.Next() {
		model, err := scanProduct(rows)
		if err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		result = append(result, *p.conv.ToEntity(model))
	}
	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return result, nil
}

// FindOneAndUpdate обновляет одну подходящую строку и возвращает её новое состояние.
func (p *ProductRepo) FindOneAndUpdate(ctx context.Context, filter domain.ProductFilter, update domain.ProductUpdate) (*domain.Product, error) {
	db, _ := p.db(ctx)

	set, args := buildSet(update, 1)
	where, whereArgs := buildWhere(filter, len(args)+1)
	args = append(args, whereArgs...)

	query := fmt.Sprintf(`
		UPDATE products SET %s
		WHERE id = (SELECT id FROM products %s LIMIT 1 FOR UPDATE)
		RETURNING %s
	`, set, where, productColumns)

	model, err := scanProduct(db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, mapErr(err)
	}

	return p.conv.ToEntity(model), nil
}

func (p *ProductRepo) DeleteOne(ctx context.Context, filter domain.ProductFilter) (int64, error) {
	db, _ := p.db(ctx)

	where, args := buildWhere(filter, 1)
	query := fmt.Sprintf(
		"DELETE FROM products WHERE id = (SELECT id FROM products %s LIMIT 1 FOR UPDATE)", where,
	)

	tag, err := db.Exec(ctx, query, args...)
	if err != nil {
		return 0, e.Wrap(whereami.WhereAmI(), err)
	}

	return tag.RowsAffected(), nil
}

// buildWhere строит WHERE с плейсхолдерами, начиная с $start. Пустой фильтр даёт пустую строку.
func buildWhere(f domain.ProductFilter, start int) (string, []any) {
	var (
		conds []string
		args  []any
	)

	if f.ID != nil {
		args = append(args, *f.ID)
		conds = append(conds, fmt.Sprintf("%s = $%d", domain.FieldID, start+len(args)-1))
	}

	if f.Price != nil {
		args = append(args, f.Price.Gt, f.Price.Lt)
		conds = append(conds, fmt.Sprintf("%s > $%d AND %s < $%d",
			domain.FieldPrice, start+len(args)-2, domain.FieldPrice, start+len(args)-1))
	}

	if len(conds) == 0 {
		return "", nil
	}

	return "WHERE " + strings.Join(conds, " AND "), args
}

// buildSet строит список присваиваний только из переданных полей.
func buildSet(u domain.ProductUpdate, start int) (string, []any) {
	fields := u.Fields()
	assignments := make([]string, len(fields))
	args := make([]any, len(fields))

	for i, f := range fields {
		assignments[i] = fmt.Sprintf("%s = $%d", f.Name, start+i)
		args[i] = f.Value
	}

	return strings.Join(assignments, ", "), args
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProduct(row scanner) (*converter.ProductModel, error) {
	var model converter.ProductModel
	err := row.Scan(
		&model.ID, &model.Name, &model.Quantity, &model.Price,
		&model.Status, &model.CreatedAt, &model.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &model, nil
}

func mapErr(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return e.ErrNoDocuments
	}

	return e.Wrap(whereami.WhereAmI(), err)
}
