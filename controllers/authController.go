package controllers

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/modavia/modavia-api/initializers"
	"github.com/modavia/modavia-api/models"
	"golang.org/x/crypto/bcrypt"
)

const (
	// Default cost for bcrypt password hashing
	bcryptCost = 10

	// Standard response messages
	msgInvalidInput        = "invalid input"
	msgUserAlreadyExists   = "user already exists"
	msgFailedToHash        = "failed to hash password"
	msgInvalidCredentials  = "invalid username or password"
	msgFailedToGenToken    = "failed to generate token"
	msgInternalServerError = "Internal server error"
	msgUserNotFound        = "User not found"
)

func sendJSONResponse(ctx *gin.Context, status int, data gin.H) {
	ctx.JSON(status, data)
}

func sendErrorResponse(ctx *gin.Context, status int, message string) {
	sendJSONResponse(ctx, status, gin.H{"message": message})
}

func hashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

func comparePasswords(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

func generateJWT(user models.User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  user.ID,
		"email":    user.Email,
		"username": user.Username,
		"role":     user.Role,
		"iat":      time.Now().Unix(),
		"exp":      time.Now().Add(time.Hour * 24 * 30).Unix(),
	})

	jwtSecret := os.Getenv("JWT_SECRET")
	return token.SignedString([]byte(jwtSecret))
}

// currentUserID pulls the authenticated user's id out of the JWT claims
// set by the RequireAuth middleware.
func currentUserID(ctx *gin.Context) (uint, bool) {
	userClaims, exists := ctx.Get("user")
	if !exists {
		return 0, false
	}

	claims, ok := userClaims.(jwt.MapClaims)
	if !ok {
		return 0, false
	}

	id, ok := claims["user_id"].(float64)
	if !ok {
		return 0, false
	}
	return uint(id), true
}

func currentUserIsAdmin(ctx *gin.Context) bool {
	userClaims, exists := ctx.Get("user")
	if !exists {
		return false
	}

	claims, ok := userClaims.(jwt.MapClaims)
	if !ok {
		return false
	}

	role, ok := claims["role"].(string)
	return ok && role == "admin"
}

func checkUserExists(email, username string) (bool, error) {
	var existingUser models.User
	result := initializers.DB.Where("email = ? OR username = ?", email, username).Find(&existingUser)
	return result.RowsAffected > 0, result.Error
}

func findUserByIdentifier(identifier string) (models.User, error) {
	var user models.User
	result := initializers.DB.Where("email = ? OR username = ?", identifier, identifier).First(&user)
	return user, result.Error
}

// Signup handles user registration
func Signup(ctx *gin.Context) {
	var signUpData models.User
	if err := ctx.ShouldBindJSON(&signUpData); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	exists, err := checkUserExists(signUpData.Email, signUpData.Username)
	if err != nil {
		log.Println("Database error during user check:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
		return
	}
	if exists {
		sendErrorResponse(ctx, http.StatusBadRequest, msgUserAlreadyExists)
		return
	}

	hashedPassword, err := hashPassword(signUpData.Password)
	if err != nil {
		log.Println("Password hashing error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, msgFailedToHash)
		return
	}
	signUpData.Password = hashedPassword

	// Assign default role if not specified
	if signUpData.Role == "" {
		signUpData.Role = "user"
	}

	if result := initializers.DB.Create(&signUpData); result.Error != nil {
		log.Println("User creation error:", result.Error)
		sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
		return
	}

	sendJSONResponse(ctx, http.StatusCreated, gin.H{"message": "User created successfully."})
}

// Login handles user authentication
func Login(ctx *gin.Context) {
	var loginData models.LoginData
	if err := ctx.ShouldBindJSON(&loginData); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	user, err := findUserByIdentifier(loginData.Identifier)
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidCredentials)
		return
	}

	if err := comparePasswords(user.Password, loginData.Password); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidCredentials)
		return
	}

	tokenString, err := generateJWT(user)
	if err != nil {
		log.Println("JWT generation error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, msgFailedToGenToken)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"token": tokenString})
}

// GetProfile returns the authenticated user's account details.
func GetProfile(ctx *gin.Context) {
	userId, ok := currentUserID(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, "User not found in context")
		return
	}

	var user models.User
	if err := initializers.DB.First(&user, userId).Error; err != nil {
		sendErrorResponse(ctx, http.StatusNotFound, msgUserNotFound)
		return
	}

	user.Password = ""
	sendJSONResponse(ctx, http.StatusOK, gin.H{"user": user})
}

// UpdateProfile updates the authenticated user's name fields.
func UpdateProfile(ctx *gin.Context) {
	userId, ok := currentUserID(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, "User not found in context")
		return
	}

	var profileData struct {
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
	}
	if err := ctx.ShouldBindJSON(&profileData); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	var user models.User
	if err := initializers.DB.First(&user, userId).Error; err != nil {
		sendErrorResponse(ctx, http.StatusNotFound, msgUserNotFound)
		return
	}

	if profileData.FirstName != "" {
		user.FirstName = profileData.FirstName
	}
	if profileData.LastName != "" {
		user.LastName = profileData.LastName
	}

	if err := initializers.DB.Save(&user).Error; err != nil {
		log.Println("Profile update error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
		return
	}

	user.Password = ""
	sendJSONResponse(ctx, http.StatusOK, gin.H{"user": user})
}
