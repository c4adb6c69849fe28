package server

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"asinlookup/internal/model"
	"asinlookup/internal/repository"
)

func (s *Server) createCategory(c *gin.Context) {
	var cat model.Category
	if err := c.ShouldBindJSON(&cat); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if cat.Name == "" || cat.AccountID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name and accountId are required"})
		return
	}

	if _, err := s.Accounts.Get(c.Request.Context(), cat.AccountID); errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
		return
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	created, err := s.Categories.Create(c.Request.Context(), &cat)
	if errors.Is(err, repository.ErrDuplicate) {
		c.JSON(http.StatusConflict, gin.H{"error": "Category with this name already exists for this account"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	log.Printf("server: category created: %s for account %s", created.Name, created.AccountID)
	c.JSON(http.StatusCreated, created)
}

func (s *Server) updateCategory(c *gin.Context) {
	var cat model.Category
	if err := c.ShouldBindJSON(&cat); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cat.ID = c.Param("id")

	updated, err := s.Categories.Update(c.Request.Context(), &cat)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
	case errors.Is(err, repository.ErrDuplicate):
		c.JSON(http.StatusConflict, gin.H{"error": "Category with this name already exists for this account"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusOK, updated)
	}
}

func (s *Server) deleteCategory(c *gin.Context) {
	id := c.Param("id")

	err := s.Categories.Delete(c.Request.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if err := s.Products.UnlinkCategory(c.Request.Context(), id); err != nil {
		log.Printf("server: failed to unlink products for category %s: %v", id, err)
	}
	c.JSON(http.StatusOK, gin.H{"message": "Category deleted successfully"})
}

func (s *Server) listCategoryProducts(c *gin.Context) {
	products, err := s.Products.ListByCategory(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if products == nil {
		products = []*model.Product{}
	}
	c.JSON(http.StatusOK, products)
}

func (s *Server) addTemplateColumn(c *gin.Context) {
	var req struct {
		ColumnName string `json:"columnName"`
		ColumnType string `json:"columnType"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.ColumnName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Column name is required"})
		return
	}

	category, err := s.Categories.AddColumn(c.Request.Context(), c.Param("id"), req.ColumnName, req.ColumnType)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, category)
}

func (s *Server) updateTemplateColumn(c *gin.Context) {
	var req struct {
		ColumnName *string `json:"columnName"`
		ColumnType *string `json:"columnType"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category, err := s.Categories.UpdateColumn(c.Request.Context(), c.Param("id"), c.Param("columnId"), req.ColumnName, req.ColumnType)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category or column not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, category)
}

func (s *Server) deleteTemplateColumn(c *gin.Context) {
	categoryID := c.Param("id")
	columnID := c.Param("columnId")

	category, err := s.Categories.DeleteColumn(c.Request.Context(), categoryID, columnID)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category or column not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// Drop the removed column's values from every product in the category.
	if err := s.Products.ClearTemplateValues(c.Request.Context(), categoryID, columnID); err != nil {
		log.Printf("server: failed to clear template values for column %s: %v", columnID, err)
	}
	c.JSON(http.StatusOK, category)
}

func (s *Server) reorderTemplateColumns(c *gin.Context) {
	var req struct {
		ColumnOrder []string `json:"columnOrder"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.ColumnOrder == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "columnOrder must be an array"})
		return
	}

	category, err := s.Categories.ReorderColumns(c.Request.Context(), c.Param("id"), req.ColumnOrder)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, category)
}
