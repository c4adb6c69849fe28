package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"asinlookup/internal/lookup"
	"asinlookup/internal/model"
	"asinlookup/internal/repository"
)

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message":   "ASIN lookup API running",
		"status":    "active",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// debugAllProducts dumps the whole cache for inspection from the admin UI.
func (s *Server) debugAllProducts(c *gin.Context) {
	products, err := s.Products.ListAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if products == nil {
		products = []*model.Product{}
	}
	c.JSON(http.StatusOK, gin.H{"count": len(products), "products": products})
}

func (s *Server) getProduct(c *gin.Context) {
	asin := c.Param("asin")
	regenerate := c.Query("regenerate") == "true"

	product, err := s.Lookup.Lookup(c.Request.Context(), asin, regenerate)
	switch {
	case errors.Is(err, lookup.ErrInvalidASIN):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, lookup.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Product not found",
			"message": "Unable to fetch product data from the catalog API. Please verify the ASIN is correct.",
		})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusOK, product)
	}
}

func (s *Server) getProductBatch(c *gin.Context) {
	var req struct {
		ASINs []string `json:"asins"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "asins must be an array"})
		return
	}

	products, err := s.Lookup.LookupBatch(c.Request.Context(), req.ASINs)
	switch {
	case errors.Is(err, lookup.ErrEmptyBatch) || errors.Is(err, lookup.ErrBatchTooLarge):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusOK, products)
	}
}

func (s *Server) updateProduct(c *gin.Context) {
	asin := c.Param("asin")

	var edit struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
		Brand       *string `json:"brand"`
		Price       *string `json:"price"`
		EbayPrice   *string `json:"ebayPrice"`
		EbayItemID  *string `json:"ebayItemId"`
	}
	if err := c.ShouldBindJSON(&edit); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product, err := s.Products.Update(c.Request.Context(), asin, repository.ProductEdit{
		Title:       edit.Title,
		Description: edit.Description,
		Brand:       edit.Brand,
		Price:       edit.Price,
		EbayPrice:   edit.EbayPrice,
		EbayItemID:  edit.EbayItemID,
	})
	if errors.Is(err, lookup.ErrNoRecord) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	s.invalidate(c.Request.Context(), asin)
	c.JSON(http.StatusOK, product)
}

func (s *Server) assignProduct(c *gin.Context) {
	asin := c.Param("asin")

	var req struct {
		AccountID  *string `json:"accountId"`
		CategoryID *string `json:"categoryId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.AccountID != nil {
		if _, err := s.Accounts.Get(c.Request.Context(), *req.AccountID); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
			return
		}
	}
	if req.CategoryID != nil {
		if _, err := s.Categories.Get(c.Request.Context(), *req.CategoryID); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
			return
		}
	}

	product, err := s.Products.Assign(c.Request.Context(), asin, req.AccountID, req.CategoryID)
	switch {
	case errors.Is(err, lookup.ErrNoRecord):
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
	case errors.Is(err, repository.ErrAlreadyAssigned):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Product already assigned to a different account"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		s.invalidate(c.Request.Context(), asin)
		c.JSON(http.StatusOK, product)
	}
}

func (s *Server) setTemplateValue(c *gin.Context) {
	asin := c.Param("asin")
	columnID := c.Param("columnId")

	var req struct {
		Value string `json:"value"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product, err := s.Products.SetTemplateValue(c.Request.Context(), asin, columnID, req.Value)
	if errors.Is(err, lookup.ErrNoRecord) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	s.invalidate(c.Request.Context(), asin)
	c.JSON(http.StatusOK, product)
}

func (s *Server) getSpreadsheet(c *gin.Context) {
	product, err := s.Products.GetByASIN(c.Request.Context(), c.Param("asin"))
	if errors.Is(err, lookup.ErrNoRecord) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	sheet := product.Spreadsheet
	if sheet == nil {
		sheet = &model.Spreadsheet{Columns: []model.SpreadsheetColumn{}, Rows: []model.SpreadsheetRow{}}
	}
	c.JSON(http.StatusOK, sheet)
}

func (s *Server) putSpreadsheet(c *gin.Context) {
	asin := c.Param("asin")

	var sheet model.Spreadsheet
	if err := c.ShouldBindJSON(&sheet); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product, err := s.Products.SetSpreadsheet(c.Request.Context(), asin, &sheet)
	if errors.Is(err, lookup.ErrNoRecord) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	s.invalidate(c.Request.Context(), asin)
	c.JSON(http.StatusOK, gin.H{"success": true, "product": product})
}

// generateEbay forces content regeneration on an already cached product.
func (s *Server) generateEbay(c *gin.Context) {
	asin := c.Param("asin")

	if _, err := s.Products.GetByASIN(c.Request.Context(), asin); errors.Is(err, lookup.ErrNoRecord) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found. Fetch the product first."})
		return
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	product, err := s.Lookup.Lookup(c.Request.Context(), asin, true)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "product": product})
}
