package server

import (
	"context"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"asinlookup/internal/cache"
	"asinlookup/internal/lookup"
	"asinlookup/internal/model"
	"asinlookup/internal/repository"
)

// ProductStore is the product persistence surface the handlers need.
type ProductStore interface {
	GetByASIN(ctx context.Context, asin string) (*model.Product, error)
	Update(ctx context.Context, asin string, edit repository.ProductEdit) (*model.Product, error)
	Assign(ctx context.Context, asin string, accountID, categoryID *string) (*model.Product, error)
	SetTemplateValue(ctx context.Context, asin, columnID, value string) (*model.Product, error)
	ClearTemplateValues(ctx context.Context, categoryID, columnID string) error
	SetSpreadsheet(ctx context.Context, asin string, sheet *model.Spreadsheet) (*model.Product, error)
	ListAll(ctx context.Context) ([]*model.Product, error)
	ListByAccount(ctx context.Context, accountID string) ([]*model.Product, error)
	ListByCategory(ctx context.Context, categoryID string) ([]*model.Product, error)
	UnlinkAccount(ctx context.Context, accountID string) error
	UnlinkCategory(ctx context.Context, categoryID string) error
	UnlinkAccountCategories(ctx context.Context, accountID string) error
}

type AccountStore interface {
	List(ctx context.Context) ([]model.Account, error)
	Create(ctx context.Context, a *model.Account) (*model.Account, error)
	Get(ctx context.Context, id string) (*model.Account, error)
	Update(ctx context.Context, a *model.Account) (*model.Account, error)
	Delete(ctx context.Context, id string) error
}

type CategoryStore interface {
	ListByAccount(ctx context.Context, accountID string) ([]model.Category, error)
	Create(ctx context.Context, c *model.Category) (*model.Category, error)
	Get(ctx context.Context, id string) (*model.Category, error)
	Update(ctx context.Context, c *model.Category) (*model.Category, error)
	Delete(ctx context.Context, id string) error
	AddColumn(ctx context.Context, categoryID, name, columnType string) (*model.Category, error)
	UpdateColumn(ctx context.Context, categoryID, columnID string, name, columnType *string) (*model.Category, error)
	DeleteColumn(ctx context.Context, categoryID, columnID string) (*model.Category, error)
	ReorderColumns(ctx context.Context, categoryID string, order []string) (*model.Category, error)
}

// Server wires the lookup pipeline and the back-office CRUD surface. All
// dependencies are injected at startup; there is no package-level state.
type Server struct {
	Lookup     *lookup.Service
	Products   ProductStore
	Accounts   AccountStore
	Categories CategoryStore
	Cache      *cache.ProductCache // nil when Redis is not configured
}

func (s *Server) Router(processedDir, overlayDir string) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"https://asin-lookup.vercel.app", "http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	r.Static("/processed", processedDir)
	r.Static("/overlays", overlayDir)

	r.GET("/", s.health)
	r.GET("/debug/all-products", s.debugAllProducts)

	r.GET("/product/:asin", s.getProduct)
	r.POST("/products", s.getProductBatch)
	r.PUT("/products/:asin", s.updateProduct)
	r.POST("/products/:asin/assign", s.assignProduct)
	r.PUT("/products/:asin/template/:columnId", s.setTemplateValue)
	r.GET("/products/:asin/spreadsheet", s.getSpreadsheet)
	r.PUT("/products/:asin/spreadsheet", s.putSpreadsheet)
	r.POST("/generate-ebay/:asin", s.generateEbay)

	r.GET("/accounts", s.listAccounts)
	r.POST("/accounts", s.createAccount)
	r.GET("/accounts/:id", s.getAccount)
	r.PUT("/accounts/:id", s.updateAccount)
	r.DELETE("/accounts/:id", s.deleteAccount)
	r.GET("/accounts/:id/products", s.listAccountProducts)
	r.GET("/accounts/:id/categories", s.listAccountCategories)

	r.POST("/categories", s.createCategory)
	r.PUT("/categories/:id", s.updateCategory)
	r.DELETE("/categories/:id", s.deleteCategory)
	r.GET("/categories/:id/products", s.listCategoryProducts)
	r.POST("/categories/:id/template/column", s.addTemplateColumn)
	r.PUT("/categories/:id/template/column/:columnId", s.updateTemplateColumn)
	r.DELETE("/categories/:id/template/column/:columnId", s.deleteTemplateColumn)
	r.PUT("/categories/:id/template/reorder", s.reorderTemplateColumns)

	return r
}

func (s *Server) invalidate(ctx context.Context, asin string) {
	if s.Cache != nil {
		s.Cache.Invalidate(ctx, asin)
	}
}
