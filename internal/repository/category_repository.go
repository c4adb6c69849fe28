package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"asinlookup/internal/model"
)

type CategoryRepository struct {
	DB *sql.DB
}

const categoryColumns = `id, name, description, account_id, status, template_columns, created_at, updated_at`

func (r *CategoryRepository) ListByAccount(ctx context.Context, accountID string) ([]model.Category, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+categoryColumns+`
		FROM categories
		WHERE account_id = $1 AND status = 'active'
		ORDER BY name
	`, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []model.Category
	for rows.Next() {
		c, err := scanCategory(rows.Scan)
		if err != nil {
			return nil, err
		}
		categories = append(categories, *c)
	}
	return categories, rows.Err()
}

func (r *CategoryRepository) Create(ctx context.Context, c *model.Category) (*model.Category, error) {
	c.ID = uuid.New().String()
	if c.Status == "" {
		c.Status = "active"
	}
	if c.TemplateColumns == nil {
		c.TemplateColumns = []model.TemplateColumn{}
	}

	cols, err := json.Marshal(c.TemplateColumns)
	if err != nil {
		return nil, err
	}

	err = r.DB.QueryRowContext(ctx, `
		INSERT INTO categories (id, name, description, account_id, status, template_columns)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`, c.ID, c.Name, c.Description, c.AccountID, c.Status, cols).Scan(&c.CreatedAt, &c.UpdatedAt)
	if isUniqueViolation(err) {
		return nil, ErrDuplicate
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *CategoryRepository) Get(ctx context.Context, id string) (*model.Category, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT `+categoryColumns+`
		FROM categories
		WHERE id = $1
	`, id)

	c, err := scanCategory(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return c, err
}

func (r *CategoryRepository) Update(ctx context.Context, c *model.Category) (*model.Category, error) {
	err := r.DB.QueryRowContext(ctx, `
		UPDATE categories
		SET name = $2, description = $3, status = $4, updated_at = now()
		WHERE id = $1
		RETURNING created_at, updated_at
	`, c.ID, c.Name, c.Description, c.Status).Scan(&c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if isUniqueViolation(err) {
		return nil, ErrDuplicate
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *CategoryRepository) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// AddColumn appends a template column with a generated id.
func (r *CategoryRepository) AddColumn(ctx context.Context, categoryID, name, columnType string) (*model.Category, error) {
	c, err := r.Get(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if columnType == "" {
		columnType = "text"
	}
	c.TemplateColumns = append(c.TemplateColumns, model.TemplateColumn{
		ColumnID:   "col_" + uuid.New().String(),
		ColumnName: name,
		ColumnType: columnType,
		Order:      len(c.TemplateColumns),
	})
	return r.saveColumns(ctx, c)
}

func (r *CategoryRepository) UpdateColumn(ctx context.Context, categoryID, columnID string, name, columnType *string) (*model.Category, error) {
	c, err := r.Get(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	found := false
	for i := range c.TemplateColumns {
		if c.TemplateColumns[i].ColumnID != columnID {
			continue
		}
		if name != nil {
			c.TemplateColumns[i].ColumnName = *name
		}
		if columnType != nil {
			c.TemplateColumns[i].ColumnType = *columnType
		}
		found = true
		break
	}
	if !found {
		return nil, ErrNotFound
	}
	return r.saveColumns(ctx, c)
}

func (r *CategoryRepository) DeleteColumn(ctx context.Context, categoryID, columnID string) (*model.Category, error) {
	c, err := r.Get(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	kept := c.TemplateColumns[:0]
	for _, col := range c.TemplateColumns {
		if col.ColumnID != columnID {
			kept = append(kept, col)
		}
	}
	if len(kept) == len(c.TemplateColumns) {
		return nil, ErrNotFound
	}
	c.TemplateColumns = kept
	return r.saveColumns(ctx, c)
}

// ReorderColumns applies the requested columnId order and re-sorts.
func (r *CategoryRepository) ReorderColumns(ctx context.Context, categoryID string, order []string) (*model.Category, error) {
	c, err := r.Get(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	position := make(map[string]int, len(order))
	for i, id := range order {
		position[id] = i
	}
	for i := range c.TemplateColumns {
		if pos, ok := position[c.TemplateColumns[i].ColumnID]; ok {
			c.TemplateColumns[i].Order = pos
		}
	}
	sort.SliceStable(c.TemplateColumns, func(i, j int) bool {
		return c.TemplateColumns[i].Order < c.TemplateColumns[j].Order
	})
	return r.saveColumns(ctx, c)
}

func (r *CategoryRepository) saveColumns(ctx context.Context, c *model.Category) (*model.Category, error) {
	cols, err := json.Marshal(c.TemplateColumns)
	if err != nil {
		return nil, err
	}
	_, err = r.DB.ExecContext(ctx, `
		UPDATE categories SET template_columns = $2, updated_at = now()
		WHERE id = $1
	`, c.ID, cols)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func scanCategory(scan func(dest ...interface{}) error) (*model.Category, error) {
	var c model.Category
	var cols []byte
	if err := scan(&c.ID, &c.Name, &c.Description, &c.AccountID, &c.Status, &cols, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(cols, &c.TemplateColumns); err != nil {
		return nil, fmt.Errorf("failed to decode template columns for %s: %w", c.ID, err)
	}
	return &c, nil
}
