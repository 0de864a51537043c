package controllers

import (
	"github.com/jaivial/backofficereact-sub001/pkg/resp"
	"github.com/jaivial/backofficereact-sub001/services"

	"github.com/gin-gonic/gin"
)

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthController struct {
	Auth *services.AuthService
}

func NewAuthController(auth *services.AuthService) *AuthController {
	return &AuthController{Auth: auth}
}

// POST /auth/login
func (a *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	token, staff, err := a.Auth.Login(req.Email, req.Password)
	if err != nil {
		resp.Unauthorized(c, "invalid credentials")
		return
	}

	resp.OK(c, gin.H{
		"token": token,
		"staff": gin.H{
			"id":           staff.ID,
			"email":        staff.Email,
			"firstName":    staff.FirstName,
			"lastName":     staff.LastName,
			"role":         staff.Role,
			"restaurantId": staff.RestaurantID,
		},
	})
}
