package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"asinlookup/internal/lookup"
	"asinlookup/internal/model"
)

const productColumns = `asin, title, description, images, brand, price, rating, review_count, source,
	ebay_title, ebay_description, ebay_image, ebay_image_links, ebay_price, ebay_item_id,
	account_id, category_id, template_values, spreadsheet, last_updated`

type ProductRepository struct {
	DB *pgxpool.Pool
}

func (r *ProductRepository) GetByASIN(ctx context.Context, asin string) (*model.Product, error) {
	row := r.DB.QueryRow(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE asin = $1
	`, strings.ToUpper(asin))

	p, err := scanProduct(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, lookup.ErrNoRecord
	}
	return p, err
}

// Upsert writes the fetched and derived fields keyed by ASIN. Collaborator
// columns (account_id, category_id, template_values, spreadsheet) are not
// in the column list, so concurrent operator edits are never clobbered.
func (r *ProductRepository) Upsert(ctx context.Context, p *model.Product) (*model.Product, error) {
	row := r.DB.QueryRow(ctx, `
		INSERT INTO products
			(asin, title, description, images, brand, price, rating, review_count, source,
			 ebay_title, ebay_description, ebay_image, ebay_image_links, ebay_price, ebay_item_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (asin) DO UPDATE SET
			title            = EXCLUDED.title,
			description      = EXCLUDED.description,
			images           = EXCLUDED.images,
			brand            = EXCLUDED.brand,
			price            = EXCLUDED.price,
			rating           = EXCLUDED.rating,
			review_count     = EXCLUDED.review_count,
			source           = EXCLUDED.source,
			ebay_title       = EXCLUDED.ebay_title,
			ebay_description = EXCLUDED.ebay_description,
			ebay_image       = EXCLUDED.ebay_image,
			ebay_image_links = EXCLUDED.ebay_image_links,
			ebay_price       = EXCLUDED.ebay_price,
			ebay_item_id     = EXCLUDED.ebay_item_id,
			last_updated     = now()
		RETURNING `+productColumns+`
	`, strings.ToUpper(p.ASIN), p.Title, p.Description, p.Images, p.Brand, p.Price,
		p.Rating, p.ReviewCount, p.Source,
		p.Ebay.Title, p.Ebay.Description, p.Ebay.Image, p.Ebay.ImageLinks,
		p.Ebay.Price, p.Ebay.ItemID)

	return scanProduct(row)
}

// UpdateEbay touches only the derived sub-record.
func (r *ProductRepository) UpdateEbay(ctx context.Context, asin string, ebay model.EbayContent) (*model.Product, error) {
	row := r.DB.QueryRow(ctx, `
		UPDATE products SET
			ebay_title       = $2,
			ebay_description = $3,
			ebay_image       = $4,
			ebay_image_links = $5,
			ebay_price       = $6,
			ebay_item_id     = $7,
			last_updated     = now()
		WHERE asin = $1
		RETURNING `+productColumns+`
	`, strings.ToUpper(asin), ebay.Title, ebay.Description, ebay.Image,
		ebay.ImageLinks, ebay.Price, ebay.ItemID)

	p, err := scanProduct(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, lookup.ErrNoRecord
	}
	return p, err
}

// ProductEdit carries the operator-editable fields; nil means untouched.
type ProductEdit struct {
	Title       *string
	Description *string
	Brand       *string
	Price       *string
	EbayPrice   *string
	EbayItemID  *string
}

func (r *ProductRepository) Update(ctx context.Context, asin string, edit ProductEdit) (*model.Product, error) {
	sets := []string{}
	params := []interface{}{strings.ToUpper(asin)}
	idx := 2

	addSet := func(column string, value *string) {
		if value == nil {
			return
		}
		sets = append(sets, fmt.Sprintf("%s = $%d", column, idx))
		params = append(params, *value)
		idx++
	}
	addSet("title", edit.Title)
	addSet("description", edit.Description)
	addSet("brand", edit.Brand)
	addSet("price", edit.Price)
	addSet("ebay_price", edit.EbayPrice)
	addSet("ebay_item_id", edit.EbayItemID)

	if len(sets) == 0 {
		return r.GetByASIN(ctx, asin)
	}
	sets = append(sets, "last_updated = now()")

	row := r.DB.QueryRow(ctx, `
		UPDATE products SET `+strings.Join(sets, ", ")+`
		WHERE asin = $1
		RETURNING `+productColumns+`
	`, params...)

	p, err := scanProduct(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, lookup.ErrNoRecord
	}
	return p, err
}

// Assign links a product to an account (and optionally a category). A
// product already linked elsewhere cannot be moved without unlinking.
func (r *ProductRepository) Assign(ctx context.Context, asin string, accountID, categoryID *string) (*model.Product, error) {
	current, err := r.GetByASIN(ctx, asin)
	if err != nil {
		return nil, err
	}
	if current.AccountID != nil && accountID != nil && *current.AccountID != *accountID {
		return nil, ErrAlreadyAssigned
	}

	query := `UPDATE products SET account_id = $2`
	params := []interface{}{strings.ToUpper(asin), accountID}
	if categoryID != nil {
		query += `, category_id = $3`
		params = append(params, *categoryID)
	}
	query += ` WHERE asin = $1 RETURNING ` + productColumns

	row := r.DB.QueryRow(ctx, query, params...)
	p, err := scanProduct(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, lookup.ErrNoRecord
	}
	return p, err
}

var ErrAlreadyAssigned = errors.New("repository: product already assigned to a different account")

func (r *ProductRepository) SetTemplateValue(ctx context.Context, asin, columnID, value string) (*model.Product, error) {
	row := r.DB.QueryRow(ctx, `
		UPDATE products SET
			template_values = jsonb_set(template_values, ARRAY[$2]::text[], to_jsonb($3::text)),
			last_updated    = now()
		WHERE asin = $1
		RETURNING `+productColumns+`
	`, strings.ToUpper(asin), columnID, value)

	p, err := scanProduct(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, lookup.ErrNoRecord
	}
	return p, err
}

// ClearTemplateValues removes a deleted column's values from every product
// in the category.
func (r *ProductRepository) ClearTemplateValues(ctx context.Context, categoryID, columnID string) error {
	_, err := r.DB.Exec(ctx, `
		UPDATE products SET template_values = template_values - $2::text
		WHERE category_id = $1
	`, categoryID, columnID)
	return err
}

func (r *ProductRepository) SetSpreadsheet(ctx context.Context, asin string, sheet *model.Spreadsheet) (*model.Product, error) {
	buf, err := json.Marshal(sheet)
	if err != nil {
		return nil, err
	}

	row := r.DB.QueryRow(ctx, `
		UPDATE products SET spreadsheet = $2
		WHERE asin = $1
		RETURNING `+productColumns+`
	`, strings.ToUpper(asin), buf)

	p, err := scanProduct(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, lookup.ErrNoRecord
	}
	return p, err
}

// ListAll returns every cached product, newest first.
func (r *ProductRepository) ListAll(ctx context.Context) ([]*model.Product, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT `+productColumns+`
		FROM products
		ORDER BY last_updated DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*model.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *ProductRepository) ListByAccount(ctx context.Context, accountID string) ([]*model.Product, error) {
	return r.list(ctx, "account_id", accountID)
}

func (r *ProductRepository) ListByCategory(ctx context.Context, categoryID string) ([]*model.Product, error) {
	return r.list(ctx, "category_id", categoryID)
}

func (r *ProductRepository) list(ctx context.Context, column, id string) ([]*model.Product, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE `+column+` = $1
		ORDER BY last_updated DESC
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*model.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// UnlinkAccount clears account links when an account is deleted.
func (r *ProductRepository) UnlinkAccount(ctx context.Context, accountID string) error {
	_, err := r.DB.Exec(ctx, `UPDATE products SET account_id = NULL WHERE account_id = $1`, accountID)
	return err
}

// UnlinkAccountCategories clears category links for every product in one of
// the account's categories. Must run before the account row is deleted,
// since that cascades the categories away.
func (r *ProductRepository) UnlinkAccountCategories(ctx context.Context, accountID string) error {
	_, err := r.DB.Exec(ctx, `
		UPDATE products SET category_id = NULL
		WHERE category_id IN (SELECT id FROM categories WHERE account_id = $1)
	`, accountID)
	return err
}

func (r *ProductRepository) UnlinkCategory(ctx context.Context, categoryID string) error {
	_, err := r.DB.Exec(ctx, `UPDATE products SET category_id = NULL WHERE category_id = $1`, categoryID)
	return err
}

func scanProduct(row pgx.Row) (*model.Product, error) {
	var p model.Product
	var sheet []byte
	err := row.Scan(
		&p.ASIN, &p.Title, &p.Description, &p.Images, &p.Brand, &p.Price,
		&p.Rating, &p.ReviewCount, &p.Source,
		&p.Ebay.Title, &p.Ebay.Description, &p.Ebay.Image, &p.Ebay.ImageLinks,
		&p.Ebay.Price, &p.Ebay.ItemID,
		&p.AccountID, &p.CategoryID, &p.TemplateValues, &sheet, &p.LastUpdated,
	)
	if err != nil {
		return nil, err
	}
	if len(sheet) > 0 {
		var s model.Spreadsheet
		if err := json.Unmarshal(sheet, &s); err != nil {
			return nil, fmt.Errorf("failed to decode spreadsheet for %s: %w", p.ASIN, err)
		}
		p.Spreadsheet = &s
	}
	return &p, nil
}
