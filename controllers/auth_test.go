package controllers

import (
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"

	"github.com/lawbridge/consult-api/models"
)

func authApp() *fiber.App {
	app := fiber.New()
	app.Post("/auth/register", Register)
	app.Post("/auth/login", Login)
	app.Post("/auth/refresh", RefreshToken)
	return app
}

func TestRegister(t *testing.T) {
	gdb := setupTestDB(t)
	app := authApp()

	resp, err := app.Test(jsonRequest(http.MethodPost, "/auth/register", RegisterInput{
		FirstName: "Carla",
		LastName:  "Nguyen",
		Email:     "carla@example.com",
		Password:  "secret123",
	}))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var created models.User
	decodeBody(t, resp, &created)
	assert.Equal(t, models.RoleClient, created.Role)
	assert.Empty(t, created.Password)

	// The stored password is a hash, not the plaintext.
	var stored models.User
	assert.NoError(t, gdb.Where("email = ?", "carla@example.com").First(&stored).Error)
	assert.NotEqual(t, "secret123", stored.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("secret123")))

	// Duplicate email is rejected.
	resp, err = app.Test(jsonRequest(http.MethodPost, "/auth/register", RegisterInput{
		FirstName: "Carla",
		Email:     "carla@example.com",
		Password:  "other",
	}))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestRegisterLawyerProfileFields(t *testing.T) {
	gdb := setupTestDB(t)
	app := authApp()

	resp, err := app.Test(jsonRequest(http.MethodPost, "/auth/register", RegisterInput{
		FirstName:       "Dana",
		LastName:        "Ortiz",
		Email:           "dana@example.com",
		Password:        "secret123",
		Role:            models.RoleLawyer,
		Specialty:       "Family Law",
		YearsExperience: 8,
		Bio:             "Family law specialist.",
		HourlyRate:      150,
	}))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var lawyer models.User
	assert.NoError(t, gdb.Where("email = ?", "dana@example.com").First(&lawyer).Error)
	assert.True(t, lawyer.IsLawyer())
	assert.Equal(t, "Family Law", lawyer.Specialty)
	assert.Equal(t, 8, lawyer.YearsExperience)
	assert.Equal(t, float64(150), lawyer.HourlyRate)
}

func TestRegisterClientIgnoresLawyerFields(t *testing.T) {
	gdb := setupTestDB(t)
	app := authApp()

	resp, err := app.Test(jsonRequest(http.MethodPost, "/auth/register", RegisterInput{
		FirstName: "Carla",
		Email:     "carla@example.com",
		Password:  "secret123",
		Role:      models.RoleClient,
		Specialty: "Not a lawyer",
	}))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var client models.User
	assert.NoError(t, gdb.Where("email = ?", "carla@example.com").First(&client).Error)
	assert.Empty(t, client.Specialty)
}

func TestRegisterValidation(t *testing.T) {
	setupTestDB(t)
	app := authApp()

	resp, err := app.Test(jsonRequest(http.MethodPost, "/auth/register", RegisterInput{
		Email: "nobody@example.com",
	}))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = app.Test(jsonRequest(http.MethodPost, "/auth/register", RegisterInput{
		FirstName: "Eve",
		Email:     "eve@example.com",
		Password:  "secret123",
		Role:      "admin",
	}))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLogin(t *testing.T) {
	t.Setenv("JWT_SECRET", "test_secret")
	setupTestDB(t)
	app := authApp()

	resp, err := app.Test(jsonRequest(http.MethodPost, "/auth/register", RegisterInput{
		FirstName: "Dana",
		Email:     "dana@example.com",
		Password:  "secret123",
		Role:      models.RoleLawyer,
	}))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, err = app.Test(jsonRequest(http.MethodPost, "/auth/login", fiber.Map{
		"email":    "dana@example.com",
		"password": "secret123",
	}))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Token        string `json:"token"`
		RefreshToken string `json:"refreshToken"`
		User         struct {
			Role models.Role `json:"role"`
		} `json:"user"`
	}
	decodeBody(t, resp, &body)
	assert.Equal(t, models.RoleLawyer, body.User.Role)

	token, err := jwt.Parse(body.Token, func(token *jwt.Token) (interface{}, error) {
		return []byte("test_secret"), nil
	})
	assert.NoError(t, err)
	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, "lawyer", claims["role"])
	assert.Equal(t, "dana@example.com", claims["email"])

	// The refresh token mints a fresh access token.
	resp, err = app.Test(jsonRequest(http.MethodPost, "/auth/refresh", fiber.Map{
		"refreshToken": body.RefreshToken,
	}))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Bad credentials.
	resp, err = app.Test(jsonRequest(http.MethodPost, "/auth/login", fiber.Map{
		"email":    "dana@example.com",
		"password": "wrong",
	}))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, err = app.Test(jsonRequest(http.MethodPost, "/auth/login", fiber.Map{
		"email":    "ghost@example.com",
		"password": "secret123",
	}))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRefreshTokenRejectsGarbage(t *testing.T) {
	setupTestDB(t)
	app := authApp()

	resp, err := app.Test(jsonRequest(http.MethodPost, "/auth/refresh", fiber.Map{
		"refreshToken": "not-a-token",
	}))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
