package auth

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"github.com/shadowhen89/storefront-api/models"
	"github.com/shadowhen89/storefront-api/store"
)

const tokenTTL = 24 * time.Hour

type credentials struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// POST /auth/register
func Register(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input credentials
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
			return
		}

		user := models.User{Username: input.Username, PasswordHash: string(hash)}
		if err := s.CreateUser(&user); err != nil {
			if errors.Is(err, store.ErrDuplicateUser) {
				c.JSON(http.StatusConflict, gin.H{"error": "Username already taken"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create account"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"username": user.Username})
	}
}

// POST /auth/login
func Login(s store.Store, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input credentials
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		user, err := s.GetUser(input.Username)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
			return
		}
		if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)) != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
			return
		}

		expiresAt := time.Now().Add(tokenTTL)
		token, err := IssueToken(user.Username, jwtSecret, expiresAt)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Token generation failed"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"username":   user.Username,
			"token":      token,
			"expires_at": expiresAt,
		})
	}
}

// IssueToken signs an HS256 token carrying the username.
func IssueToken(username, secret string, expiresAt time.Time) (string, error) {
	claims := jwt.MapClaims{
		"user_id": username,
		"exp":     expiresAt.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	return signed, errors.Wrap(err, "sign token")
}
