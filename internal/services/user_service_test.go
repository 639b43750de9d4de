package services

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/hospitalcore/hospital-api/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Patient{}))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, email, fullname string, role models.Role, status models.Status) *models.User {
	t.Helper()
	user := &models.User{
		Email:    email,
		Password: "x",
		FullName: fullname,
		Role:     role,
		Status:   status,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedDoctor(t *testing.T, db *gorm.DB, email, fullname string, specialty *string, status models.Status) *models.User {
	t.Helper()
	user := &models.User{
		Email:     email,
		Password:  "x",
		FullName:  fullname,
		Role:      models.RoleDoctor,
		Status:    status,
		Specialty: specialty,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func strPtr(s string) *string { return &s }

func TestListUsersSearch(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)

	seedUser(t, db, "jane.smith@example.com", "Jane Smith", models.RolePatient, models.StatusActive)
	seedUser(t, db, "john@example.com", "John Smithson", models.RoleNurse, models.StatusActive)
	seedUser(t, db, "ada@example.com", "Ada Lovelace", models.RolePatient, models.StatusActive)

	users, pagination, err := svc.ListUsers(ListFilters{Search: "SMITH"})
	require.NoError(t, err)
	require.Len(t, users, 2)
	for _, u := range users {
		matches := strings.Contains(strings.ToLower(u.Email), "smith") ||
			strings.Contains(strings.ToLower(u.FullName), "smith")
		assert.True(t, matches, "user %s should match the search", u.Email)
	}
	assert.Equal(t, int64(2), pagination.Total)
}

func TestListUsersRoleAndStatusFilters(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)

	seedUser(t, db, "p1@example.com", "Patient One", models.RolePatient, models.StatusActive)
	seedUser(t, db, "p2@example.com", "Patient Two", models.RolePatient, models.StatusPending)
	seedUser(t, db, "n1@example.com", "Nurse One", models.RoleNurse, models.StatusActive)

	role := models.RolePatient
	status := models.StatusPending
	users, pagination, err := svc.ListUsers(ListFilters{Role: &role, Status: &status})
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "p2@example.com", users[0].Email)
	assert.Equal(t, int64(1), pagination.Total)
}

func TestListUsersPagination(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)

	for i := 0; i < 7; i++ {
		u := seedUser(t, db, fmt.Sprintf("user%d@example.com", i), fmt.Sprintf("User %d", i),
			models.RolePatient, models.StatusActive)
		// Spread creation times so the DESC ordering is deterministic.
		createdAt := time.Now().Add(time.Duration(i-10) * time.Minute)
		require.NoError(t, db.Model(u).Update("created_at", createdAt).Error)
	}

	users, pagination, err := svc.ListUsers(ListFilters{Page: 2, Limit: 3})
	require.NoError(t, err)
	require.Len(t, users, 3)
	assert.Equal(t, int64(7), pagination.Total)
	assert.Equal(t, 2, pagination.Page)
	assert.Equal(t, 3, pagination.Limit)
	assert.Equal(t, 3, pagination.TotalPages) // ceil(7/3)

	// Newest first: page 2 of limit 3 holds users 3, 2, 1.
	assert.Equal(t, "user3@example.com", users[0].Email)
	assert.Equal(t, "user1@example.com", users[2].Email)
}

func TestListUsersIncludesPatientRecord(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)

	user := seedUser(t, db, "pat@example.com", "Pat Doe", models.RolePatient, models.StatusActive)
	require.NoError(t, db.Create(&models.Patient{
		UserID:         user.ID,
		DocumentNumber: "DOC-42",
		Age:            34,
		Gender:         "F",
		Phone:          "555-0100",
		Address:        "12 Main St",
	}).Error)

	users, _, err := svc.ListUsers(ListFilters{})
	require.NoError(t, err)
	require.Len(t, users, 1)
	require.NotNil(t, users[0].Patient)
	assert.Equal(t, "DOC-42", users[0].Patient.DocumentNumber)
}

func TestGetUserStatsZeroFills(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)

	seedUser(t, db, "a@example.com", "A", models.RolePatient, models.StatusActive)
	seedUser(t, db, "b@example.com", "B", models.RolePatient, models.StatusActive)
	seedUser(t, db, "c@example.com", "C", models.RolePatient, models.StatusPending)
	seedUser(t, db, "d@example.com", "D", models.RoleNurse, models.StatusInactive)

	stats, err := svc.GetUserStats()
	require.NoError(t, err)

	patients := stats[models.RolePatient]
	require.NotNil(t, patients)
	assert.Equal(t, int64(3), patients.Total)
	assert.Equal(t, int64(2), patients.Active)
	assert.Equal(t, int64(1), patients.Pending)
	assert.Equal(t, int64(0), patients.Inactive)

	nurses := stats[models.RoleNurse]
	require.NotNil(t, nurses)
	assert.Equal(t, int64(1), nurses.Total)
	assert.Equal(t, int64(1), nurses.Inactive)
	assert.Equal(t, int64(0), nurses.Active)
	assert.Equal(t, int64(0), nurses.Pending)
}

func TestGetUserByID(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)

	user := seedUser(t, db, "pat@example.com", "Pat Doe", models.RolePatient, models.StatusActive)
	require.NoError(t, db.Create(&models.Patient{UserID: user.ID, DocumentNumber: "DOC-7"}).Error)

	got, err := svc.GetUserByID(user.ID.String())
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, user.Email, got.Email)
	require.NotNil(t, got.Patient)
	assert.Equal(t, "DOC-7", got.Patient.DocumentNumber)
}

func TestGetUserByIDNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)

	got, err := svc.GetUserByID("2c5ea4c0-4067-11e9-8bad-9b1deb4d3b7d")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = svc.GetUserByID("not-a-uuid")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestGetAllDoctors(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)

	seedDoctor(t, db, "zoe@example.com", "Zoe Ward", strPtr("Cardiology"), models.StatusActive)
	seedDoctor(t, db, "amy@example.com", "Amy Chen", strPtr("Neurology"), models.StatusActive)
	seedDoctor(t, db, "out@example.com", "Old Timer", strPtr("Cardiology"), models.StatusInactive)
	seedUser(t, db, "nurse@example.com", "Not A Doctor", models.RoleNurse, models.StatusActive)

	doctors, err := svc.GetAllDoctors()
	require.NoError(t, err)
	require.Len(t, doctors, 2)
	assert.Equal(t, "Amy Chen", doctors[0].FullName) // fullname ASC
	assert.Equal(t, "Zoe Ward", doctors[1].FullName)
}

func TestGetDoctorsBySpecialty(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)

	seedDoctor(t, db, "c1@example.com", "Cardio One", strPtr("Cardiology"), models.StatusActive)
	seedDoctor(t, db, "c2@example.com", "Cardio Two", strPtr("Cardiology"), models.StatusActive)
	seedDoctor(t, db, "none@example.com", "No Specialty", nil, models.StatusActive)
	seedDoctor(t, db, "gone@example.com", "Inactive Doc", strPtr("Cardiology"), models.StatusInactive)

	grouped, err := svc.GetDoctorsBySpecialty()
	require.NoError(t, err)

	require.Len(t, grouped["Cardiology"], 2)
	require.Len(t, grouped[SpecialtyUnspecified], 1)
	assert.Equal(t, "No Specialty", grouped[SpecialtyUnspecified][0].FullName)

	// Every active doctor appears exactly once.
	total := 0
	for _, group := range grouped {
		total += len(group)
	}
	assert.Equal(t, 3, total)
}
