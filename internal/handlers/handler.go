package handlers

import (
	"gorm.io/gorm"

	"github.com/hospitalcore/hospital-api/internal/services"
	"github.com/hospitalcore/hospital-api/internal/utils"
)

// Handler carries every dependency the HTTP layer needs. All collaborators
// are injected here; there is no hidden process-wide state.
type Handler struct {
	DB     *gorm.DB
	Users  *services.UserService
	Mailer services.Mailer
	Tokens *utils.TokenManager
}

func NewHandler(db *gorm.DB, mailer services.Mailer, tokens *utils.TokenManager) *Handler {
	return &Handler{
		DB:     db,
		Users:  services.NewUserService(db),
		Mailer: mailer,
		Tokens: tokens,
	}
}
