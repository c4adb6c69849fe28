package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/gin-gonic/gin"

	"asinlookup/internal/model"
	"asinlookup/internal/repository"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeProducts records the unlink call order so the deletion flow can be
// asserted without a database.
type fakeProducts struct {
	calls    *[]string
	products []*model.Product
}

func (f *fakeProducts) record(call string) {
	if f.calls != nil {
		*f.calls = append(*f.calls, call)
	}
}

func (f *fakeProducts) GetByASIN(ctx context.Context, asin string) (*model.Product, error) {
	return nil, nil
}

func (f *fakeProducts) Update(ctx context.Context, asin string, edit repository.ProductEdit) (*model.Product, error) {
	return nil, nil
}

func (f *fakeProducts) Assign(ctx context.Context, asin string, accountID, categoryID *string) (*model.Product, error) {
	return nil, nil
}

func (f *fakeProducts) SetTemplateValue(ctx context.Context, asin, columnID, value string) (*model.Product, error) {
	return nil, nil
}

func (f *fakeProducts) ClearTemplateValues(ctx context.Context, categoryID, columnID string) error {
	return nil
}

func (f *fakeProducts) SetSpreadsheet(ctx context.Context, asin string, sheet *model.Spreadsheet) (*model.Product, error) {
	return nil, nil
}

func (f *fakeProducts) ListAll(ctx context.Context) ([]*model.Product, error) {
	return f.products, nil
}

func (f *fakeProducts) ListByAccount(ctx context.Context, accountID string) ([]*model.Product, error) {
	return nil, nil
}

func (f *fakeProducts) ListByCategory(ctx context.Context, categoryID string) ([]*model.Product, error) {
	return nil, nil
}

func (f *fakeProducts) UnlinkAccount(ctx context.Context, accountID string) error {
	f.record("unlink-account " + accountID)
	return nil
}

func (f *fakeProducts) UnlinkCategory(ctx context.Context, categoryID string) error {
	f.record("unlink-category " + categoryID)
	return nil
}

func (f *fakeProducts) UnlinkAccountCategories(ctx context.Context, accountID string) error {
	f.record("unlink-account-categories " + accountID)
	return nil
}

type fakeAccounts struct {
	calls     *[]string
	deleteErr error
}

func (f *fakeAccounts) List(ctx context.Context) ([]model.Account, error) { return nil, nil }

func (f *fakeAccounts) Create(ctx context.Context, a *model.Account) (*model.Account, error) {
	return a, nil
}

func (f *fakeAccounts) Get(ctx context.Context, id string) (*model.Account, error) {
	return &model.Account{ID: id}, nil
}

func (f *fakeAccounts) Update(ctx context.Context, a *model.Account) (*model.Account, error) {
	return a, nil
}

func (f *fakeAccounts) Delete(ctx context.Context, id string) error {
	if f.calls != nil {
		*f.calls = append(*f.calls, "delete-account "+id)
	}
	return f.deleteErr
}

type fakeCategories struct{}

func (f *fakeCategories) ListByAccount(ctx context.Context, accountID string) ([]model.Category, error) {
	return nil, nil
}

func (f *fakeCategories) Create(ctx context.Context, c *model.Category) (*model.Category, error) {
	return c, nil
}

func (f *fakeCategories) Get(ctx context.Context, id string) (*model.Category, error) {
	return &model.Category{ID: id}, nil
}

func (f *fakeCategories) Update(ctx context.Context, c *model.Category) (*model.Category, error) {
	return c, nil
}

func (f *fakeCategories) Delete(ctx context.Context, id string) error { return nil }

func (f *fakeCategories) AddColumn(ctx context.Context, categoryID, name, columnType string) (*model.Category, error) {
	return nil, nil
}

func (f *fakeCategories) UpdateColumn(ctx context.Context, categoryID, columnID string, name, columnType *string) (*model.Category, error) {
	return nil, nil
}

func (f *fakeCategories) DeleteColumn(ctx context.Context, categoryID, columnID string) (*model.Category, error) {
	return nil, nil
}

func (f *fakeCategories) ReorderColumns(ctx context.Context, categoryID string, order []string) (*model.Category, error) {
	return nil, nil
}

func newTestServer(t *testing.T, calls *[]string, accounts *fakeAccounts, products *fakeProducts) *gin.Engine {
	t.Helper()
	if accounts == nil {
		accounts = &fakeAccounts{calls: calls}
	}
	if products == nil {
		products = &fakeProducts{calls: calls}
	}
	srv := &Server{
		Products:   products,
		Accounts:   accounts,
		Categories: &fakeCategories{},
	}
	return srv.Router(t.TempDir(), t.TempDir())
}

func TestDeleteAccountUnlinksCategoriesFirst(t *testing.T) {
	calls := []string{}
	r := newTestServer(t, &calls, nil, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("DELETE", "/accounts/acc-1", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body: %s)", w.Code, w.Body.String())
	}

	// Category links must be cleared before the delete cascades the
	// categories away; product-account links after.
	want := []string{
		"unlink-account-categories acc-1",
		"delete-account acc-1",
		"unlink-account acc-1",
	}
	if !reflect.DeepEqual(calls, want) {
		t.Errorf("call order = %v, want %v", calls, want)
	}
}

func TestDeleteAccountNotFound(t *testing.T) {
	calls := []string{}
	accounts := &fakeAccounts{calls: &calls, deleteErr: repository.ErrNotFound}
	r := newTestServer(t, &calls, accounts, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("DELETE", "/accounts/missing", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
	for _, call := range calls {
		if call == "unlink-account missing" {
			t.Error("products unlinked for an account that was never deleted")
		}
	}
}

func TestDebugAllProducts(t *testing.T) {
	products := &fakeProducts{products: []*model.Product{
		{ASIN: "B08N5WRWNW", Title: "Widget"},
		{ASIN: "B000000001", Title: "Gadget"},
	}}
	r := newTestServer(t, nil, nil, products)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/debug/all-products", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp struct {
		Count    int             `json:"count"`
		Products []model.Product `json:"products"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Count != 2 || len(resp.Products) != 2 {
		t.Errorf("count = %d, products = %d, want 2/2", resp.Count, len(resp.Products))
	}
	if resp.Products[0].ASIN != "B08N5WRWNW" {
		t.Errorf("products[0].ASIN = %q", resp.Products[0].ASIN)
	}
}
