package main

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mkimathi/gallery-api/internal/auth"
	"github.com/mkimathi/gallery-api/internal/httpx"
	"github.com/mkimathi/gallery-api/internal/message"
	"github.com/mkimathi/gallery-api/internal/order"
)

func listOrdersHandler(store order.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		orders, err := store.ListArtworkOrders(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not list orders"})
			return
		}
		if orders == nil {
			orders = []order.Summary{}
		}
		c.JSON(http.StatusOK, gin.H{"orders": orders})
	}
}

func listTicketsHandler(store order.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		tickets, err := store.ListBookings(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not list tickets"})
			return
		}
		if tickets == nil {
			tickets = []order.BookingSummary{}
		}
		c.JSON(http.StatusOK, gin.H{"tickets": tickets})
	}
}

// userOrdersHandler serves a user their own order history. Admins may read
// any user's history.
func userOrdersHandler(store order.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c)
		if !ok {
			return
		}
		p, ok := httpx.PrincipalFrom(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}
		if p.Role != auth.RoleAdmin && p.UserID != id {
			c.JSON(http.StatusForbidden, gin.H{"error": "Cannot view another user's orders"})
			return
		}
		orders, bookings, err := store.ListUserOrders(c.Request.Context(), id)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not list orders"})
			return
		}
		if orders == nil {
			orders = []order.Summary{}
		}
		if bookings == nil {
			bookings = []order.Summary{}
		}
		c.JSON(http.StatusOK, gin.H{"orders": orders, "bookings": bookings})
	}
}

type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

func contactHandler(repo message.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req contactRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
			return
		}
		if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Email) == "" || strings.TrimSpace(req.Message) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name, email and message are required"})
			return
		}
		m := &message.Message{Name: req.Name, Email: req.Email, Subject: req.Subject, Body: req.Message}
		if err := repo.Create(c.Request.Context(), m); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not save message"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"success": true, "id": m.ID})
	}
}

func listMessagesHandler(repo message.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		msgs, err := repo.List(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not list messages"})
			return
		}
		if msgs == nil {
			msgs = []message.Message{}
		}
		c.JSON(http.StatusOK, gin.H{"messages": msgs})
	}
}

func updateMessageHandler(repo message.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c)
		if !ok {
			return
		}
		var req struct {
			Status string `json:"status"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
			return
		}
		if req.Status != message.StatusNew && req.Status != message.StatusRead {
			c.JSON(http.StatusBadRequest, gin.H{"error": "status must be new or read"})
			return
		}
		if err := repo.UpdateStatus(c.Request.Context(), id, req.Status); err != nil {
			if errors.Is(err, message.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Message not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not update message"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}
