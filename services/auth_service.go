// services/auth_service.go
package services

import (
	"errors"
	"strings"
	"time"

	"github.com/jaivial/backofficereact-sub001/entity"
	"github.com/jaivial/backofficereact-sub001/utils"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type AuthService struct {
	DB        *gorm.DB
	JWTSecret string
	JWTTTL    time.Duration
}

func NewAuthService(db *gorm.DB, secret string, ttl time.Duration) *AuthService {
	return &AuthService{DB: db, JWTSecret: secret, JWTTTL: ttl}
}

func (s *AuthService) Login(email, password string) (string, *entity.Staff, error) {
	var staff entity.Staff
	if err := s.DB.Where("email = ?", strings.ToLower(email)).First(&staff).Error; err != nil {
		return "", nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(staff.Password), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := utils.GenerateToken(staff.ID, staff.RestaurantID, staff.Role, s.JWTSecret, s.JWTTTL)
	if err != nil {
		return "", nil, err
	}
	return token, &staff, nil
}
