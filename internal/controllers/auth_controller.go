package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/MEMOUE/ApiLanayaGo/internal/config"
	"github.com/MEMOUE/ApiLanayaGo/internal/middleware"
	"github.com/MEMOUE/ApiLanayaGo/internal/models"
)

type signupInput struct {
	LastName      string `json:"last_name" binding:"required"`
	FirstName     string `json:"first_name" binding:"required"`
	Email         string `json:"email" binding:"required,email"`
	Password      string `json:"password" binding:"required,min=6"`
	Phone         string `json:"phone" binding:"required"`
	Role          string `json:"role"`
	LicenseNumber string `json:"license_number"`
	LicensePhoto  string `json:"license_photo"`
}

func SignupUser(c *gin.Context) {
	var input signupInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	role, err := validateAndNormalizeRole(input.Role)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	input.Role = role

	hashedPassword, err := hashPassword(input.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not hash password"})
		return
	}

	tx := config.DB.Begin()
	if tx.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not start transaction"})
		return
	}

	user, err := createUserRecord(tx, input, hashedPassword)
	if err != nil {
		tx.Rollback()
		if pgErr, ok := err.(*pq.Error); ok && pgErr.Code == "23505" {
			c.JSON(http.StatusConflict, gin.H{"error": "email already in use"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create user: " + err.Error()})
		return
	}

	if err := createDriverRecord(tx, &user, input); err != nil {
		tx.Rollback()
		if strings.Contains(err.Error(), "required for driver role") ||
			strings.Contains(err.Error(), "license number already registered") {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create driver record: " + err.Error()})
		}
		return
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not commit transaction: " + err.Error()})
		return
	}

	token, err := middleware.GenerateToken(user.ID, user.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not generate token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"token": token,
		"user":  prepareUserResponse(user),
	})
}

func LoginUser(c *gin.Context) {
	var body struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	query := config.DB.Where("email = ?", body.Email).
		Preload("Driver").
		Preload("Driver.CurrentVehicle")

	if err := query.First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found or invalid credentials"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error: " + err.Error()})
		}
		return
	}

	if !user.Active {
		c.JSON(http.StatusForbidden, gin.H{"error": "account is deactivated"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(body.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "incorrect password"})
		return
	}

	token, err := middleware.GenerateToken(user.ID, user.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  prepareUserResponse(user),
	})
}

func validateAndNormalizeRole(roleInput string) (string, error) {
	role := strings.ToLower(strings.TrimSpace(roleInput))
	if role == "" {
		role = models.RoleClient
	}
	switch role {
	case models.RoleClient, models.RoleDriver, models.RoleOwner, models.RoleAdmin:
		return role, nil
	default:
		return "", errors.New("invalid role")
	}
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func createUserRecord(tx *gorm.DB, input signupInput, hashedPassword string) (models.User, error) {
	user := models.User{
		LastName:  input.LastName,
		FirstName: input.FirstName,
		Email:     input.Email,
		Password:  hashedPassword,
		Phone:     input.Phone,
		Role:      input.Role,
		Active:    true,
	}
	if err := tx.Create(&user).Error; err != nil {
		return models.User{}, err
	}
	return user, nil
}

// createDriverRecord attaches a driver profile when the new account has the
// driver role. The profile starts in EN_ATTENTE and stays there until an
// admin approves it.
func createDriverRecord(tx *gorm.DB, user *models.User, input signupInput) error {
	if user.Role != models.RoleDriver {
		return nil
	}
	if input.LicenseNumber == "" {
		return errors.New("license_number is required for driver role")
	}

	var count int64
	if err := tx.Model(&models.Driver{}).
		Where("license_number = ?", input.LicenseNumber).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return errors.New("license number already registered")
	}

	driver := models.Driver{
		UserID:         user.ID,
		LicenseNumber:  input.LicenseNumber,
		LicensePhoto:   input.LicensePhoto,
		ApprovalStatus: models.DriverPendingReview,
	}
	if err := tx.Create(&driver).Error; err != nil {
		return err
	}
	user.Driver = &driver
	return nil
}

func prepareUserResponse(user models.User) gin.H {
	responseUser := gin.H{
		"ID":         user.ID,
		"CreatedAt":  user.CreatedAt,
		"UpdatedAt":  user.UpdatedAt,
		"last_name":  user.LastName,
		"first_name": user.FirstName,
		"email":      user.Email,
		"phone":      user.Phone,
		"role":       user.Role,
		"active":     user.Active,
	}

	if user.Driver != nil {
		responseUser["driver"] = gin.H{
			"ID":                user.Driver.ID,
			"CreatedAt":         user.Driver.CreatedAt,
			"UpdatedAt":         user.Driver.UpdatedAt,
			"license_number":    user.Driver.LicenseNumber,
			"approval_status":   user.Driver.ApprovalStatus,
			"rating":            user.Driver.Rating,
			"completed_courses": user.Driver.CompletedCourses,
		}
	}
	return responseUser
}
