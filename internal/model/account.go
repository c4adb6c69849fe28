package model

import "time"

type Account struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Description string    `json:"description"`
	Status      string    `json:"status"` // "active" or "inactive"
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type Category struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	Description     string           `json:"description"`
	AccountID       string           `json:"accountId"`
	Status          string           `json:"status"`
	TemplateColumns []TemplateColumn `json:"templateColumns"`
	CreatedAt       time.Time        `json:"createdAt"`
	UpdatedAt       time.Time        `json:"updatedAt"`
}

// TemplateColumn is one custom spreadsheet-like column shared by every
// product in a category.
type TemplateColumn struct {
	ColumnID   string `json:"columnId"`
	ColumnName string `json:"columnName"`
	ColumnType string `json:"columnType"` // text, number, date, url, textarea
	Order      int    `json:"order"`
}
