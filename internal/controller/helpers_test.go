package controller_test

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"authd/internal/config"
	"authd/internal/controller"
	"authd/internal/middleware"
	"authd/internal/model"
	"authd/internal/service"

	"github.com/gin-gonic/gin"
	"gotest.tools/v3/assert"
)

type testApp struct {
	router  *gin.Engine
	users   *service.UserService
	clients *service.ClientService
	tokens  *service.TokenService
	auth    *service.AuthService
}

func setupTestApp(t *testing.T, developMode bool) *testApp {
	t.Helper()

	gin.SetMode(gin.TestMode)

	databaseService := service.NewDatabaseService(service.DatabaseServiceConfig{
		DatabasePath: ":memory:",
	})
	assert.NilError(t, databaseService.Init())

	database := databaseService.GetDatabase()

	scopeService := service.NewScopeService(database)
	assert.NilError(t, scopeService.EnsureCatalog(config.ScopeCatalog))

	passwordService := service.NewPasswordService(service.PasswordServiceConfig{
		Algorithm:  service.PasswordAlgorithmSHA256,
		Iterations: 1000,
		Validators: []service.PasswordValidator{
			service.MinLengthValidator(8),
			service.MaxLengthValidator(16),
		},
	})

	userService := service.NewUserService(database, passwordService)
	clientService := service.NewClientService(database)
	codeService := service.NewCodeService(database)

	tokenService := service.NewTokenService(service.TokenServiceConfig{
		AppName:         config.AppName,
		Secret:          "controller-test-secret",
		AccessTokenTTL:  30 * time.Minute,
		RefreshTokenTTL: 24 * time.Hour,
	})

	authService := service.NewAuthService(service.AuthServiceConfig{
		FrontendURL: "https://frontend.example.com",
		CodeTTL:     5 * time.Minute,
	}, userService, clientService, codeService, tokenService)

	router := gin.New()
	router.Use(middleware.NewAuthMiddleware(authService).Middleware())

	apiRouter := router.Group("/api")

	controller.NewAuthController(controller.AuthControllerConfig{
		DevelopMode: developMode,
	}, apiRouter, authService).SetupRoutes()

	controller.NewUserController(apiRouter, userService).SetupRoutes()
	controller.NewClientController(apiRouter, clientService).SetupRoutes()
	controller.NewHealthController(apiRouter).SetupRoutes()

	return &testApp{
		router:  router,
		users:   userService,
		clients: clientService,
		tokens:  tokenService,
		auth:    authService,
	}
}

func requestJSON(t *testing.T, app *testApp, method string, path string, body any, bearer string) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(body)
	assert.NilError(t, err)

	req := httptest.NewRequest(method, path, strings.NewReader(string(payload)))
	req.Header.Set("Content-Type", "application/json")

	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	recorder := httptest.NewRecorder()
	app.router.ServeHTTP(recorder, req)

	return recorder
}

// seedUserAndClient registers the standard test fixtures: alice and her
// client with the profile-read scope.
func (app *testApp) seedUserAndClient(t *testing.T) (*model.User, *model.Client) {
	t.Helper()

	user, err := app.users.CreateUser("alice123456", "Secretpass1")
	assert.NilError(t, err)

	client, err := app.clients.CreateClient("app_client", user, []string{config.ScopeProfileRead})
	assert.NilError(t, err)

	return user, client
}
