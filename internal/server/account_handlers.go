package server

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"asinlookup/internal/model"
	"asinlookup/internal/repository"
)

func (s *Server) listAccounts(c *gin.Context) {
	accounts, err := s.Accounts.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if accounts == nil {
		accounts = []model.Account{}
	}
	c.JSON(http.StatusOK, accounts)
}

func (s *Server) createAccount(c *gin.Context) {
	var a model.Account
	if err := c.ShouldBindJSON(&a); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if a.Name == "" || a.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name and email are required"})
		return
	}

	created, err := s.Accounts.Create(c.Request.Context(), &a)
	if errors.Is(err, repository.ErrDuplicate) {
		c.JSON(http.StatusConflict, gin.H{"error": "Account with this name or email already exists"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	log.Printf("server: account created: %s", created.Name)
	c.JSON(http.StatusCreated, created)
}

func (s *Server) getAccount(c *gin.Context) {
	account, err := s.Accounts.Get(c.Request.Context(), c.Param("id"))
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, account)
}

func (s *Server) updateAccount(c *gin.Context) {
	var a model.Account
	if err := c.ShouldBindJSON(&a); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	a.ID = c.Param("id")

	updated, err := s.Accounts.Update(c.Request.Context(), &a)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
	case errors.Is(err, repository.ErrDuplicate):
		c.JSON(http.StatusConflict, gin.H{"error": "Account with this name or email already exists"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusOK, updated)
	}
}

func (s *Server) deleteAccount(c *gin.Context) {
	id := c.Param("id")
	ctx := c.Request.Context()

	// Clear category links first: deleting the account cascades its
	// categories away, which would leave the products pointing at nothing.
	if err := s.Products.UnlinkAccountCategories(ctx, id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	err := s.Accounts.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// Deleting an account leaves its products orphaned, not deleted.
	if err := s.Products.UnlinkAccount(ctx, id); err != nil {
		log.Printf("server: failed to unlink products for account %s: %v", id, err)
	}
	c.JSON(http.StatusOK, gin.H{"message": "Account deleted successfully"})
}

func (s *Server) listAccountProducts(c *gin.Context) {
	products, err := s.Products.ListByAccount(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if products == nil {
		products = []*model.Product{}
	}
	c.JSON(http.StatusOK, products)
}

func (s *Server) listAccountCategories(c *gin.Context) {
	categories, err := s.Categories.ListByAccount(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if categories == nil {
		categories = []model.Category{}
	}
	c.JSON(http.StatusOK, categories)
}
