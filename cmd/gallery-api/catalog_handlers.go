package main

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/mkimathi/gallery-api/internal/artwork"
	"github.com/mkimathi/gallery-api/internal/exhibition"
)

func paramID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return 0, false
	}
	return id, true
}

func listArtworksHandler(repo artwork.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := repo.List(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not list artworks"})
			return
		}
		if items == nil {
			items = []artwork.Artwork{}
		}
		c.JSON(http.StatusOK, gin.H{"artworks": items})
	}
}

func getArtworkHandler(repo artwork.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c)
		if !ok {
			return
		}
		a, err := repo.GetByID(c.Request.Context(), id)
		if err != nil {
			if errors.Is(err, artwork.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Artwork not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not load artwork"})
			return
		}
		c.JSON(http.StatusOK, a)
	}
}

func createArtworkHandler(repo artwork.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req artwork.CreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
			return
		}
		if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Artist) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "title and artist are required"})
			return
		}
		if _, err := decimal.NewFromString(req.Price); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "price must be a decimal number"})
			return
		}
		a := &artwork.Artwork{
			Title:       req.Title,
			Artist:      req.Artist,
			Description: req.Description,
			Price:       req.Price,
			ImageURL:    req.ImageURL,
			Category:    req.Category,
			Status:      artwork.StatusAvailable,
		}
		if err := repo.Create(c.Request.Context(), a); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create artwork"})
			return
		}
		c.JSON(http.StatusCreated, a)
	}
}

func updateArtworkHandler(repo artwork.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c)
		if !ok {
			return
		}
		var req artwork.UpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
			return
		}
		if req.Price != "" {
			if _, err := decimal.NewFromString(req.Price); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "price must be a decimal number"})
				return
			}
		}
		if req.Status != "" && req.Status != artwork.StatusAvailable && req.Status != artwork.StatusSold {
			c.JSON(http.StatusBadRequest, gin.H{"error": "status must be available or sold"})
			return
		}
		a := &artwork.Artwork{
			ID:          id,
			Title:       req.Title,
			Artist:      req.Artist,
			Description: req.Description,
			Price:       req.Price,
			ImageURL:    req.ImageURL,
			Category:    req.Category,
			Status:      req.Status,
		}
		if err := repo.Update(c.Request.Context(), a); err != nil {
			if errors.Is(err, artwork.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Artwork not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not update artwork"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

func deleteArtworkHandler(repo artwork.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c)
		if !ok {
			return
		}
		deleted, err := repo.Delete(c.Request.Context(), id)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not delete artwork"})
			return
		}
		if !deleted {
			c.JSON(http.StatusNotFound, gin.H{"error": "Artwork not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

func listExhibitionsHandler(repo exhibition.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := repo.List(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not list exhibitions"})
			return
		}
		if items == nil {
			items = []exhibition.Exhibition{}
		}
		c.JSON(http.StatusOK, gin.H{"exhibitions": items})
	}
}

func getExhibitionHandler(repo exhibition.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c)
		if !ok {
			return
		}
		e, err := repo.GetByID(c.Request.Context(), id)
		if err != nil {
			if errors.Is(err, exhibition.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Exhibition not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not load exhibition"})
			return
		}
		c.JSON(http.StatusOK, e)
	}
}

func createExhibitionHandler(repo exhibition.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req exhibition.CreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
			return
		}
		if strings.TrimSpace(req.Title) == "" || req.StartDate == "" || req.EndDate == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "title, start_date and end_date are required"})
			return
		}
		if _, err := decimal.NewFromString(req.TicketPrice); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "ticket_price must be a decimal number"})
			return
		}
		if req.TotalSlots <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "total_slots must be positive"})
			return
		}
		e := &exhibition.Exhibition{
			Title:          req.Title,
			Description:    req.Description,
			Location:       req.Location,
			StartDate:      req.StartDate,
			EndDate:        req.EndDate,
			TicketPrice:    req.TicketPrice,
			TotalSlots:     req.TotalSlots,
			AvailableSlots: req.TotalSlots,
			ImageURL:       req.ImageURL,
		}
		if err := repo.Create(c.Request.Context(), e); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create exhibition"})
			return
		}
		c.JSON(http.StatusCreated, e)
	}
}
