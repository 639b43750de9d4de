package services

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hospitalcore/hospital-api/internal/models"
)

// SpecialtyUnspecified groups active doctors that have no specialty set.
const SpecialtyUnspecified = "unspecified"

// UserService answers the directory queries. The store handle is injected;
// there is no package-level client.
type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// ListFilters narrows a user listing. Role and Status are already parsed,
// so invalid enum values never reach query construction.
type ListFilters struct {
	Role   *models.Role
	Status *models.Status
	Search string
	Page   int
	Limit  int
}

type Pagination struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
}

// ListUsers returns users matching the filters, newest first, with their
// patient sub-record when present.
func (s *UserService) ListUsers(f ListFilters) ([]models.User, Pagination, error) {
	page := f.Page
	if page < 1 {
		page = 1
	}
	limit := f.Limit
	if limit < 1 {
		limit = 10
	}

	query := s.db.Model(&models.User{})
	if f.Role != nil {
		query = query.Where("role = ?", *f.Role)
	}
	if f.Status != nil {
		query = query.Where("status = ?", *f.Status)
	}
	if f.Search != "" {
		pattern := "%" + strings.ToLower(f.Search) + "%"
		query = query.Where("LOWER(email) LIKE ? OR LOWER(fullname) LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, Pagination{}, err
	}

	var users []models.User
	err := query.
		Preload("Patient").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, Pagination{}, err
	}

	return users, Pagination{
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages(total, limit),
	}, nil
}

func totalPages(total int64, limit int) int {
	if total <= 0 || limit <= 0 {
		return 0
	}
	pages := total / int64(limit)
	if total%int64(limit) != 0 {
		pages++
	}
	return int(pages)
}

// RoleStats is the per-role status breakdown.
type RoleStats struct {
	Total    int64 `json:"total"`
	Active   int64 `json:"active"`
	Inactive int64 `json:"inactive"`
	Pending  int64 `json:"pending"`
}

// GetUserStats aggregates user counts grouped by role and status. Statuses
// with no rows for a role stay zero.
func (s *UserService) GetUserStats() (map[models.Role]*RoleStats, error) {
	var rows []struct {
		Role   models.Role
		Status models.Status
		Count  int64
	}
	err := s.db.Model(&models.User{}).
		Select("role, status, COUNT(*) AS count").
		Group("role").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	stats := make(map[models.Role]*RoleStats)
	for _, row := range rows {
		entry, ok := stats[row.Role]
		if !ok {
			entry = &RoleStats{}
			stats[row.Role] = entry
		}
		entry.Total += row.Count
		switch row.Status {
		case models.StatusActive:
			entry.Active = row.Count
		case models.StatusInactive:
			entry.Inactive = row.Count
		case models.StatusPending:
			entry.Pending = row.Count
		}
	}
	return stats, nil
}

// GetUserByID loads a full profile including patient fields. Returns
// (nil, nil) when no such user exists; the handler maps that to 404.
func (s *UserService) GetUserByID(id string) (*models.User, error) {
	userID, err := uuid.Parse(id)
	if err != nil {
		return nil, nil
	}
	var user models.User
	err = s.db.Preload("Patient").First(&user, "id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// DoctorSummary is the public listing shape for a doctor.
type DoctorSummary struct {
	ID        uuid.UUID `json:"id"`
	FullName  string    `gorm:"column:fullname" json:"fullname"`
	Email     string    `json:"email"`
	Specialty *string   `json:"specialty"`
}

// GetAllDoctors lists active doctors ordered by name.
func (s *UserService) GetAllDoctors() ([]DoctorSummary, error) {
	var doctors []DoctorSummary
	err := s.db.Model(&models.User{}).
		Select("id, fullname, email, specialty").
		Where("role = ? AND status = ?", models.RoleDoctor, models.StatusActive).
		Order("fullname ASC").
		Scan(&doctors).Error
	if err != nil {
		return nil, err
	}
	if doctors == nil {
		doctors = make([]DoctorSummary, 0)
	}
	return doctors, nil
}

// DoctorRef is a doctor entry inside a specialty group.
type DoctorRef struct {
	ID       uuid.UUID `json:"id"`
	FullName string    `json:"fullname"`
	Email    string    `json:"email"`
}

// GetDoctorsBySpecialty groups every active doctor by specialty; doctors
// without one land under the "unspecified" key.
func (s *UserService) GetDoctorsBySpecialty() (map[string][]DoctorRef, error) {
	var doctors []DoctorSummary
	err := s.db.Model(&models.User{}).
		Select("id, fullname, email, specialty").
		Where("role = ? AND status = ?", models.RoleDoctor, models.StatusActive).
		Order("specialty ASC").
		Scan(&doctors).Error
	if err != nil {
		return nil, err
	}

	grouped := make(map[string][]DoctorRef)
	for _, doc := range doctors {
		specialty := SpecialtyUnspecified
		if doc.Specialty != nil && *doc.Specialty != "" {
			specialty = *doc.Specialty
		}
		grouped[specialty] = append(grouped[specialty], DoctorRef{
			ID:       doc.ID,
			FullName: doc.FullName,
			Email:    doc.Email,
		})
	}
	return grouped, nil
}
