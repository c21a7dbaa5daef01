package handlers

import (
	"database/sql"
	"log"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/devalvin/storefront-golang/internal/auth"
	"github.com/devalvin/storefront-golang/internal/models"
	"github.com/gin-gonic/gin"
)

//
// --- Auth Handlers ---
//

var nameRegexp = regexp.MustCompile(`^[a-zA-Z\s]+$`)

// RegisterInput holds the *input* for registration. This is separate from
// models.User because we never accept an id or role from the client.
type RegisterInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Name     string `json:"name" binding:"required,min=2,max=50"`
}

// passwordComplexityOK requires at least one lowercase letter, one uppercase
// letter, and one digit.
func passwordComplexityOK(s string) bool {
	var lower, upper, digit bool
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		}
	}
	return lower && upper && digit
}

// Register is the handler for POST /auth/register.
func (h *Handlers) Register(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondValidationFailed(c, bindingErrors(err))
		return
	}

	// Checks the binding tags cannot express.
	var errs []FieldError
	if !nameRegexp.MatchString(strings.TrimSpace(input.Name)) {
		errs = append(errs, FieldError{Field: "name", Message: "Name can only contain letters and spaces"})
	}
	if !passwordComplexityOK(input.Password) {
		errs = append(errs, FieldError{
			Field:   "password",
			Message: "Password must contain at least one lowercase letter, one uppercase letter, and one number",
		})
	}
	if len(errs) > 0 {
		respondValidationFailed(c, errs)
		return
	}

	// Uniqueness check before we spend time hashing.
	var existingID int64
	err := h.DB.QueryRow("SELECT id FROM users WHERE email = ?", input.Email).Scan(&existingID)
	if err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "User already exists"})
		return
	}
	if err != sql.ErrNoRows {
		log.Printf("Error checking existing user: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	var password models.Password
	if err := password.Set(input.Password); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	user := &models.User{
		Email:        input.Email,
		PasswordHash: password.Hash,
		Name:         strings.TrimSpace(input.Name),
		Role:         models.RoleCustomer,
		CreatedAt:    time.Now(),
	}

	query := `
		INSERT INTO users (email, password_hash, name, role, created_at)
		VALUES (?, ?, ?, ?, ?)`
	result, err := h.DB.Exec(query, user.Email, user.PasswordHash, user.Name, user.Role, user.CreatedAt)
	if err != nil {
		// A concurrent registration can hit the unique index even after the
		// pre-check passed.
		if isDuplicateKeyErr(err) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "User already exists"})
			return
		}
		log.Printf("Error creating user: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating user"})
		return
	}

	user.ID, err = result.LastInsertId()
	if err != nil {
		log.Printf("Error reading new user ID: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating user"})
		return
	}

	token, err := auth.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		log.Printf("Error signing token: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User created successfully",
		"token":   token,
		"user":    user,
	})
}

// LoginInput holds the credentials for POST /auth/login.
type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login is the handler for POST /auth/login.
// Unknown email and wrong password fail with the exact same response, so the
// endpoint never reveals whether an account exists.
func (h *Handlers) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondValidationFailed(c, bindingErrors(err))
		return
	}

	var user models.User
	query := "SELECT id, email, password_hash, name, role, created_at FROM users WHERE email = ?"
	err := h.DB.QueryRow(query, input.Email).Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.Name, &user.Role, &user.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
			return
		}
		log.Printf("Error fetching user for login: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	password := models.Password{Hash: user.PasswordHash}
	match, err := password.Matches(input.Password)
	if err != nil {
		log.Printf("Error comparing password hash: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}
	if !match {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
		return
	}

	token, err := auth.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		log.Printf("Error signing token: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   token,
		"user":    user,
	})
}

// Me is the handler for GET /auth/me. It echoes the verified token identity.
func (h *Handlers) Me(c *gin.Context) {
	userID, _ := c.Get("userID")
	email, _ := c.Get("userEmail")
	role, _ := c.Get("userRole")

	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"id":    userID,
			"email": email,
			"role":  role,
		},
	})
}

// isDuplicateKeyErr detects unique-constraint violations from both drivers
// we run against (MySQL error 1062, SQLite "UNIQUE constraint failed").
func isDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") || strings.Contains(msg, "UNIQUE constraint failed")
}
