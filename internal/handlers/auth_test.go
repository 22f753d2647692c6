package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/equipehub/team-dashboard-api/internal/middleware"
	"github.com/equipehub/team-dashboard-api/internal/models"
	"github.com/equipehub/team-dashboard-api/internal/repository"
	"github.com/equipehub/team-dashboard-api/internal/services"
)

type AuthHandlerTestSuite struct {
	suite.Suite
	db     *gorm.DB
	router *gin.Engine
}

func (suite *AuthHandlerTestSuite) SetupTest() {
	var err error
	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(&models.Profile{}, &models.Department{})
	suite.Require().NoError(err)

	handler := NewAuthHandler(services.NewAuthService(repository.NewUserRepository(suite.db)))

	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	store := cookie.NewStore([]byte("test-secret"))
	suite.router.Use(sessions.Sessions("test_session", store))

	auth := suite.router.Group("/api/auth")
	{
		auth.POST("/signup", handler.Signup)
		auth.POST("/login", handler.Login)
		auth.POST("/logout", handler.Logout)
		auth.GET("/me", middleware.RequireAuth(), handler.GetCurrentUser)
	}
}

func (suite *AuthHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *AuthHandlerTestSuite) createAccount(username, password string) *models.Profile {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	suite.Require().NoError(err)

	profile := &models.Profile{
		Username:     username,
		PasswordHash: string(hash),
		DisplayName:  username,
		Role:         models.RoleMember,
	}
	suite.db.Create(profile)
	return profile
}

func (suite *AuthHandlerTestSuite) postJSON(url string, payload map[string]any) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest("POST", url, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *AuthHandlerTestSuite) TestSignup_Success() {
	w := suite.postJSON("/api/auth/signup", map[string]any{
		"username":     "carla",
		"password":     "supersegura1",
		"display_name": "Carla Souza",
	})

	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	var created models.Profile
	suite.db.Where("username = ?", "carla").First(&created)
	assert.Equal(suite.T(), "Carla Souza", created.DisplayName)
	assert.Equal(suite.T(), models.RoleMember, created.Role)
	assert.NotEqual(suite.T(), "supersegura1", created.PasswordHash)
}

func (suite *AuthHandlerTestSuite) TestSignup_ShortPassword() {
	w := suite.postJSON("/api/auth/signup", map[string]any{
		"username": "curta",
		"password": "abc",
	})

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *AuthHandlerTestSuite) TestSignup_DuplicateUsername() {
	suite.createAccount("duplicado", "senhasegura")

	w := suite.postJSON("/api/auth/signup", map[string]any{
		"username": "duplicado",
		"password": "outrasenha123",
	})

	assert.Equal(suite.T(), http.StatusConflict, w.Code)
}

func (suite *AuthHandlerTestSuite) TestLogin_Success() {
	suite.createAccount("pedro", "minhasenha123")

	w := suite.postJSON("/api/auth/login", map[string]any{
		"username": "pedro",
		"password": "minhasenha123",
	})

	assert.Equal(suite.T(), http.StatusOK, w.Code)
	assert.NotEmpty(suite.T(), w.Result().Cookies())
}

func (suite *AuthHandlerTestSuite) TestLogin_WrongPassword() {
	suite.createAccount("paula", "minhasenha123")

	w := suite.postJSON("/api/auth/login", map[string]any{
		"username": "paula",
		"password": "senhaerrada",
	})

	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
}

func (suite *AuthHandlerTestSuite) TestMe_WithSession() {
	suite.createAccount("silvia", "minhasenha123")

	login := suite.postJSON("/api/auth/login", map[string]any{
		"username": "silvia",
		"password": "minhasenha123",
	})
	suite.Require().Equal(http.StatusOK, login.Code)

	req := httptest.NewRequest("GET", "/api/auth/me", nil)
	for _, c := range login.Result().Cookies() {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response map[string]interface{}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(suite.T(), "silvia", response["username"])
}

func (suite *AuthHandlerTestSuite) TestMe_WithoutSession() {
	req := httptest.NewRequest("GET", "/api/auth/me", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
}

func TestAuthHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(AuthHandlerTestSuite))
}
