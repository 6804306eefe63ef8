package controller

import (
	"strconv"

	"authd/internal/middleware"
	"authd/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type CredentialsRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type PasswordTokenRequest struct {
	Username     string `json:"username" binding:"required"`
	Password     string `json:"password" binding:"required"`
	ClientID     uint   `json:"client_id" binding:"required"`
	ClientSecret string `json:"client_secret" binding:"required"`
}

type CodeTokenRequest struct {
	ClientID     uint   `json:"client_id" binding:"required"`
	ClientSecret string `json:"client_secret" binding:"required"`
	RedirectURI  string `json:"redirect_uri" binding:"required"`
	Code         string `json:"code" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
	ClientID     uint   `json:"client_id" binding:"required"`
	ClientSecret string `json:"client_secret" binding:"required"`
}

type AuthControllerConfig struct {
	DevelopMode bool
}

type AuthController struct {
	config AuthControllerConfig
	router *gin.RouterGroup
	auth   *service.AuthService
}

func NewAuthController(config AuthControllerConfig, router *gin.RouterGroup, auth *service.AuthService) *AuthController {
	return &AuthController{
		config: config,
		router: router,
		auth:   auth,
	}
}

func (controller *AuthController) SetupRoutes() {
	authGroup := controller.router.Group("/auth")
	authGroup.GET("/get-auth-uri", controller.authURIHandler)
	authGroup.POST("/login-code/", controller.loginCodeHandler)
	authGroup.POST("/token-code/", controller.tokenCodeHandler)
	authGroup.POST("/token-password/", controller.tokenPasswordHandler)
	authGroup.POST("/refresh/", controller.refreshHandler)
	authGroup.POST("/verify/", controller.verifyHandler)
}

// clientQuery parses the client_id and redirect_uri query parameters shared
// by the authorization-code leg endpoints.
func clientQuery(c *gin.Context) (uint, string, bool) {
	clientID, err := strconv.ParseUint(c.Query("client_id"), 10, 32)
	if err != nil {
		c.JSON(400, gin.H{
			"status":  400,
			"message": "Bad Request",
		})
		return 0, "", false
	}

	redirectURI := c.Query("redirect_uri")
	if redirectURI == "" {
		c.JSON(400, gin.H{
			"status":  400,
			"message": "Bad Request",
		})
		return 0, "", false
	}

	return uint(clientID), redirectURI, true
}

func (controller *AuthController) flowError(c *gin.Context, err error) {
	if service.IsAuthenticationError(err) {
		log.Debug().Err(err).Msg("Authorization flow rejected")
		c.JSON(400, gin.H{
			"status":  400,
			"message": err.Error(),
		})
		return
	}

	log.Error().Err(err).Msg("Authorization flow failed")
	c.JSON(500, gin.H{
		"status":  500,
		"message": "Internal Server Error",
	})
}

func (controller *AuthController) authURIHandler(c *gin.Context) {
	clientID, redirectURI, ok := clientQuery(c)
	if !ok {
		return
	}

	c.JSON(200, gin.H{
		"status":       200,
		"redirect_uri": controller.auth.AuthURI(clientID, redirectURI),
	})
}

func (controller *AuthController) loginCodeHandler(c *gin.Context) {
	clientID, redirectURI, ok := clientQuery(c)
	if !ok {
		return
	}

	var req CredentialsRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		log.Debug().Err(err).Msg("Failed to bind JSON")
		c.JSON(400, gin.H{
			"status":  400,
			"message": "Bad Request",
		})
		return
	}

	code, err := controller.auth.Authorize(req.Username, req.Password, clientID, redirectURI)
	if err != nil {
		controller.flowError(c, err)
		return
	}

	log.Debug().Uint("client_id", clientID).Msg("Issued authorization code")

	c.JSON(200, gin.H{
		"status":       200,
		"redirect_uri": controller.auth.CallbackURI(code),
	})
}

func (controller *AuthController) tokenCodeHandler(c *gin.Context) {
	var req CodeTokenRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		log.Debug().Err(err).Msg("Failed to bind JSON")
		c.JSON(400, gin.H{
			"status":  400,
			"message": "Bad Request",
		})
		return
	}

	access, refresh, err := controller.auth.Exchange(req.ClientID, req.ClientSecret, req.RedirectURI, req.Code)
	if err != nil {
		controller.flowError(c, err)
		return
	}

	c.JSON(200, gin.H{
		"access_token":  access,
		"refresh_token": refresh,
		"token_type":    "bearer",
	})
}

// tokenPasswordHandler implements the password grant. It is a development
// convenience and refuses to serve outside develop mode.
func (controller *AuthController) tokenPasswordHandler(c *gin.Context) {
	if !controller.config.DevelopMode {
		c.JSON(403, gin.H{
			"status":  403,
			"message": "Only available in develop mode",
		})
		return
	}

	var req PasswordTokenRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		log.Debug().Err(err).Msg("Failed to bind JSON")
		c.JSON(400, gin.H{
			"status":  400,
			"message": "Bad Request",
		})
		return
	}

	access, _, err := controller.auth.CreatePasswordPair(req.Username, req.Password, req.ClientID, req.ClientSecret)
	if err != nil {
		controller.flowError(c, err)
		return
	}

	c.JSON(200, gin.H{
		"access_token":  access,
		"refresh_token": nil,
		"token_type":    "bearer",
	})
}

func (controller *AuthController) refreshHandler(c *gin.Context) {
	var req RefreshRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		log.Debug().Err(err).Msg("Failed to bind JSON")
		c.JSON(400, gin.H{
			"status":  400,
			"message": "Bad Request",
		})
		return
	}

	access, refresh, err := controller.auth.Refresh(req.RefreshToken, req.ClientID, req.ClientSecret)
	if err != nil {
		controller.flowError(c, err)
		return
	}

	c.JSON(200, gin.H{
		"access_token":  access,
		"refresh_token": refresh,
		"token_type":    "bearer",
	})
}

func (controller *AuthController) verifyHandler(c *gin.Context) {
	token := middleware.BearerToken(c)

	if token == "" {
		c.JSON(401, gin.H{
			"status":  401,
			"message": "Unauthorized",
		})
		return
	}

	subject, err := controller.auth.VerifyAccess(token, c.Query("scope"))
	if err != nil {
		log.Debug().Err(err).Msg("Token verification failed")
		c.JSON(401, gin.H{
			"status":  401,
			"message": "Unauthorized",
		})
		return
	}

	c.JSON(200, gin.H{
		"status":   200,
		"message":  "Token is valid",
		"username": subject,
	})
}
