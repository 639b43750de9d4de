package handlers

import (
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/hospitalcore/hospital-api/internal/models"
	"github.com/hospitalcore/hospital-api/internal/services"
)

// listFiltersFromQuery parses the common ?role&status&search&page&limit
// parameters, rejecting unknown enum values at the boundary.
func listFiltersFromQuery(c *gin.Context) (services.ListFilters, bool) {
	filters := services.ListFilters{
		Search: c.Query("search"),
		Page:   1,
		Limit:  10,
	}

	if roleStr := c.Query("role"); roleStr != "" {
		role, ok := models.ParseRole(roleStr)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid role filter"})
			return filters, false
		}
		filters.Role = &role
	}
	if statusStr := c.Query("status"); statusStr != "" {
		status, ok := models.ParseStatus(statusStr)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid status filter"})
			return filters, false
		}
		filters.Status = &status
	}
	if page, err := strconv.Atoi(c.Query("page")); err == nil && page > 0 {
		filters.Page = page
	}
	if limit, err := strconv.Atoi(c.Query("limit")); err == nil && limit > 0 {
		filters.Limit = limit
	}
	return filters, true
}

// ListUsers handles GET /users (administrators only).
func (h *Handler) ListUsers(c *gin.Context) {
	filters, ok := listFiltersFromQuery(c)
	if !ok {
		return
	}

	users, pagination, err := h.Users.ListUsers(filters)
	if err != nil {
		log.Printf("ListUsers: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to retrieve users"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"data":       users,
		"pagination": pagination,
	})
}

// GetUsersByRole handles GET /users/role/:role (administrators only).
func (h *Handler) GetUsersByRole(c *gin.Context) {
	role, ok := models.ParseRole(c.Param("role"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": fmt.Sprintf("Invalid role. Must be one of: %v", models.Roles()),
		})
		return
	}

	filters, ok := listFiltersFromQuery(c)
	if !ok {
		return
	}
	filters.Role = &role

	users, pagination, err := h.Users.ListUsers(filters)
	if err != nil {
		log.Printf("GetUsersByRole: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to retrieve users"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"role":       role,
		"data":       users,
		"pagination": pagination,
	})
}

// GetUserStats handles GET /users/stats (administrators only).
func (h *Handler) GetUserStats(c *gin.Context) {
	stats, err := h.Users.GetUserStats()
	if err != nil {
		log.Printf("GetUserStats: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to retrieve statistics"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": stats})
}

// GetUserByID handles GET /users/:id (any authenticated user).
func (h *Handler) GetUserByID(c *gin.Context) {
	user, err := h.Users.GetUserByID(c.Param("id"))
	if err != nil {
		log.Printf("GetUserByID: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to retrieve user"})
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": user})
}

// GetAllDoctors handles GET /users/doctors/all.
func (h *Handler) GetAllDoctors(c *gin.Context) {
	doctors, err := h.Users.GetAllDoctors()
	if err != nil {
		log.Printf("GetAllDoctors: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to retrieve doctors"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    doctors,
		"total":   len(doctors),
	})
}

// GetDoctorsBySpecialty handles GET /users/doctors/by-specialty.
func (h *Handler) GetDoctorsBySpecialty(c *gin.Context) {
	grouped, err := h.Users.GetDoctorsBySpecialty()
	if err != nil {
		log.Printf("GetDoctorsBySpecialty: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to retrieve doctors"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": grouped})
}
