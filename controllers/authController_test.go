package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/modavia/modavia-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func authRouter() *gin.Engine {
	router := gin.New()
	router.POST("/auth/signup", Signup)
	router.POST("/auth/login", Login)
	return router
}

func postJSON(router *gin.Engine, path string, payload any) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	request.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(recorder, request)
	return recorder
}

func TestSignupAndLogin(t *testing.T) {
	db := setupTestDB(t)
	router := authRouter()

	signupBody := gin.H{
		"firstName": "Ada",
		"lastName":  "Lovelace",
		"username":  "ada",
		"email":     "ada@example.com",
		"password":  "correct-horse",
	}

	recorder := postJSON(router, "/auth/signup", signupBody)
	assert.Equal(t, http.StatusCreated, recorder.Code)

	// Passwords are stored hashed, never verbatim.
	var user models.User
	require.NoError(t, db.Where("username = ?", "ada").First(&user).Error)
	assert.NotEqual(t, "correct-horse", user.Password)
	assert.Equal(t, "user", user.Role)

	// Duplicate email is rejected.
	recorder = postJSON(router, "/auth/signup", signupBody)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	// Login with username.
	recorder = postJSON(router, "/auth/login", gin.H{
		"identifier": "ada",
		"password":   "correct-horse",
	})
	assert.Equal(t, http.StatusOK, recorder.Code)

	var loginResponse struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &loginResponse))
	assert.NotEmpty(t, loginResponse.Token)

	// Login with email also works.
	recorder = postJSON(router, "/auth/login", gin.H{
		"identifier": "ada@example.com",
		"password":   "correct-horse",
	})
	assert.Equal(t, http.StatusOK, recorder.Code)

	// Wrong password is rejected.
	recorder = postJSON(router, "/auth/login", gin.H{
		"identifier": "ada",
		"password":   "wrong",
	})
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestLoginUnknownUser(t *testing.T) {
	setupTestDB(t)
	router := authRouter()

	recorder := postJSON(router, "/auth/login", gin.H{
		"identifier": "ghost",
		"password":   "whatever",
	})
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestGetProfile(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db, "ada", "user")

	router := gin.New()
	router.GET("/auth/profile", authAs(user), GetProfile)

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/auth/profile", nil)
	router.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusOK, recorder.Code)

	var response struct {
		User models.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	assert.Equal(t, "ada", response.User.Username)
	assert.Empty(t, response.User.Password)
}
