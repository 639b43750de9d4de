package handlers

import (
	"errors"
	"log"
	"net/http"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/hospitalcore/hospital-api/internal/models"
	"github.com/hospitalcore/hospital-api/internal/utils"
)

const verificationCodeTTL = 15 * time.Minute

var emailRegex = regexp.MustCompile(`^[\w\-.]+@([\w-]+\.)+[\w-]{2,4}$`)

// validPassword enforces length >= 6 with at least one letter and one digit.
func validPassword(password string) bool {
	if len(password) < 6 {
		return false
	}
	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	return hasLetter && hasDigit
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

type SignupRequest struct {
	Email           string `json:"email"`
	CurrentPassword string `json:"current_password"`
	Fullname        string `json:"fullname"`
}

// Signup registers a PENDING account and emails its verification code.
// If the email cannot be sent the account is deleted again, so no user is
// ever stuck PENDING with no code on the way.
func (h *Handler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body"})
		return
	}

	if req.Email == "" || req.CurrentPassword == "" || req.Fullname == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Missing required fields"})
		return
	}

	email := normalizeEmail(req.Email)
	if !emailRegex.MatchString(email) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid email format"})
		return
	}

	if len(req.CurrentPassword) < 6 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Password must be at least 6 characters long"})
		return
	}
	if !validPassword(req.CurrentPassword) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Password must contain at least one letter and one number"})
		return
	}

	var existing models.User
	err := h.DB.Where("email = ?", email).First(&existing).Error
	if err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Email is already registered"})
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("Signup: failed to check existing email: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
		return
	}

	hashedPassword, err := utils.HashPassword(req.CurrentPassword)
	if err != nil {
		log.Printf("Signup: failed to hash password: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
		return
	}

	code, err := utils.GenerateVerificationCode()
	if err != nil {
		log.Printf("Signup: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
		return
	}
	expires := time.Now().Add(verificationCodeTTL)

	user := models.User{
		Email:                   email,
		Password:                hashedPassword,
		FullName:                req.Fullname,
		Role:                    models.RolePatient,
		Status:                  models.StatusPending,
		VerificationCode:        &code,
		VerificationCodeExpires: &expires,
	}

	if err := h.DB.Create(&user).Error; err != nil {
		// Two concurrent signups can both pass the existence check; the
		// unique index decides, and the loser gets the conflict answer.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Email is already registered"})
			return
		}
		log.Printf("Signup: failed to create user: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to create user"})
		return
	}

	if err := h.Mailer.SendVerificationEmail(email, req.Fullname, code); err != nil {
		log.Printf("Signup: failed to send verification email: %v", err)
		if delErr := h.DB.Delete(&models.User{}, "id = ?", user.ID).Error; delErr != nil {
			log.Printf("Signup: rollback of user %s failed: %v", user.ID, delErr)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to send verification email. Please try again."})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": user})
}

type VerifyEmailRequest struct {
	Email            string `json:"email"`
	VerificationCode string `json:"verificationCode"`
}

// VerifyEmail activates a PENDING account when the code matches before its
// expiry, and clears the challenge.
func (h *Handler) VerifyEmail(c *gin.Context) {
	var req VerifyEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body"})
		return
	}
	if req.Email == "" || req.VerificationCode == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Email and verification code are required"})
		return
	}

	var user models.User
	err := h.DB.Where("email = ?", normalizeEmail(req.Email)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User not found"})
		return
	}
	if err != nil {
		log.Printf("VerifyEmail: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
		return
	}

	if user.Status == models.StatusActive {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Account is already verified"})
		return
	}
	if user.VerificationCodeExpires == nil || time.Now().After(*user.VerificationCodeExpires) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Verification code has expired"})
		return
	}
	if user.VerificationCode == nil || *user.VerificationCode != req.VerificationCode {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Incorrect verification code"})
		return
	}

	updates := map[string]interface{}{
		"status":                    models.StatusActive,
		"verification_code":         nil,
		"verification_code_expires": nil,
	}
	if err := h.DB.Model(&user).Updates(updates).Error; err != nil {
		log.Printf("VerifyEmail: failed to activate user %s: %v", user.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Email verified successfully. Your account is now active.",
		"user": gin.H{
			"id":       user.ID,
			"email":    user.Email,
			"fullname": user.FullName,
			"status":   models.StatusActive,
		},
	})
}

type ResendVerificationRequest struct {
	Email string `json:"email"`
}

// ResendVerification regenerates the challenge and emails it again. Unlike
// Signup, a failed send leaves the fresh code persisted: the user can simply
// ask for another one.
func (h *Handler) ResendVerification(c *gin.Context) {
	var req ResendVerificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body"})
		return
	}
	if req.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Email is required"})
		return
	}

	var user models.User
	err := h.DB.Where("email = ?", normalizeEmail(req.Email)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User not found"})
		return
	}
	if err != nil {
		log.Printf("ResendVerification: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
		return
	}

	if user.Status == models.StatusActive {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Account is already verified"})
		return
	}

	code, err := utils.GenerateVerificationCode()
	if err != nil {
		log.Printf("ResendVerification: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
		return
	}
	expires := time.Now().Add(verificationCodeTTL)

	updates := map[string]interface{}{
		"verification_code":         code,
		"verification_code_expires": expires,
	}
	if err := h.DB.Model(&user).Updates(updates).Error; err != nil {
		log.Printf("ResendVerification: failed to store new code for %s: %v", user.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
		return
	}

	if err := h.Mailer.SendVerificationEmail(user.Email, user.FullName, code); err != nil {
		log.Printf("ResendVerification: failed to send email: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to send verification email"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "A new verification code has been sent to your email"})
}

type SigninRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Signin checks credentials and issues a 24h bearer token. Unknown email
// and wrong password share one generic answer so account existence never
// leaks.
func (h *Handler) Signin(c *gin.Context) {
	var req SigninRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body"})
		return
	}
	if req.Email == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Email and password are required"})
		return
	}

	email := normalizeEmail(req.Email)
	if !emailRegex.MatchString(email) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid email format"})
		return
	}

	var user models.User
	err := h.DB.Preload("Patient").Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid credentials"})
		return
	}
	if err != nil {
		log.Printf("Signin: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
		return
	}

	if !utils.CheckPasswordHash(req.Password, user.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid credentials"})
		return
	}

	if user.Status == models.StatusPending {
		c.JSON(http.StatusForbidden, gin.H{
			"success":              false,
			"message":              "You must verify your email before signing in",
			"requiresVerification": true,
		})
		return
	}
	if user.Status == models.StatusInactive {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "User inactive. Contact the administrator"})
		return
	}

	token, err := h.Tokens.Generate(user.ID.String(), user.Email, string(user.Role))
	if err != nil {
		log.Printf("Signin: failed to generate token: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Could not generate token"})
		return
	}

	userResponse := gin.H{
		"id":       user.ID,
		"email":    user.Email,
		"fullname": user.FullName,
		"role":     user.Role,
		"status":   user.Status,
	}
	if user.Role == models.RoleDoctor {
		userResponse["specialty"] = user.Specialty
	}
	if user.Role == models.RolePatient && user.Patient != nil {
		userResponse["patient"] = gin.H{
			"id":             user.Patient.ID,
			"documentNumber": user.Patient.DocumentNumber,
			"age":            user.Patient.Age,
			"gender":         user.Patient.Gender,
			"phone":          user.Patient.Phone,
			"address":        user.Patient.Address,
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Login successful",
		"token":   token,
		"user":    userResponse,
	})
}
