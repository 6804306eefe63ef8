package controller

import (
	"errors"

	"authd/internal/middleware"
	"authd/internal/model"
	"authd/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type CreateUserRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type SetPasswordRequest struct {
	Password string `json:"password" binding:"required"`
}

type UserController struct {
	router *gin.RouterGroup
	users  *service.UserService
}

func NewUserController(router *gin.RouterGroup, users *service.UserService) *UserController {
	return &UserController{
		router: router,
		users:  users,
	}
}

func (controller *UserController) SetupRoutes() {
	userGroup := controller.router.Group("/user")
	userGroup.POST("", controller.createHandler)
	userGroup.GET("/me", controller.meHandler)
	userGroup.PUT("/password", controller.setPasswordHandler)
	userGroup.DELETE("", controller.deleteHandler)
}

// writeUserError maps the validation and uniqueness taxonomy onto HTTP
// statuses without leaking internals.
func writeUserError(c *gin.Context, err error) {
	var fieldErr *model.FieldValidationError
	var passwordErr *service.PasswordValidationError
	var uniqueErr *service.UniquenessError

	switch {
	case errors.As(err, &fieldErr):
		c.JSON(400, gin.H{
			"status":  400,
			"message": fieldErr.Error(),
		})
	case errors.As(err, &passwordErr):
		c.JSON(400, gin.H{
			"status":  400,
			"message": passwordErr.Error(),
		})
	case errors.As(err, &uniqueErr):
		c.JSON(409, gin.H{
			"status":  409,
			"message": uniqueErr.Error(),
		})
	default:
		log.Error().Err(err).Msg("User operation failed")
		c.JSON(500, gin.H{
			"status":  500,
			"message": "Internal Server Error",
		})
	}
}

func (controller *UserController) createHandler(c *gin.Context) {
	var req CreateUserRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		log.Debug().Err(err).Msg("Failed to bind JSON")
		c.JSON(400, gin.H{
			"status":  400,
			"message": "Bad Request",
		})
		return
	}

	user, err := controller.users.CreateUser(req.Username, req.Password)
	if err != nil {
		writeUserError(c, err)
		return
	}

	log.Info().Str("username", user.Username).Msg("User created")

	c.JSON(201, gin.H{
		"id":         user.ID,
		"username":   user.Username,
		"created_at": user.CreatedAt,
	})
}

func (controller *UserController) meHandler(c *gin.Context) {
	user := middleware.GetUser(c)

	if user == nil {
		c.JSON(401, gin.H{
			"status":  401,
			"message": "Unauthorized",
		})
		return
	}

	c.JSON(200, gin.H{
		"id":         user.ID,
		"username":   user.Username,
		"created_at": user.CreatedAt,
	})
}

func (controller *UserController) setPasswordHandler(c *gin.Context) {
	user := middleware.GetUser(c)

	if user == nil {
		c.JSON(401, gin.H{
			"status":  401,
			"message": "Unauthorized",
		})
		return
	}

	var req SetPasswordRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		log.Debug().Err(err).Msg("Failed to bind JSON")
		c.JSON(400, gin.H{
			"status":  400,
			"message": "Bad Request",
		})
		return
	}

	if err := controller.users.SetPassword(user, req.Password); err != nil {
		writeUserError(c, err)
		return
	}

	c.JSON(200, gin.H{
		"status":  200,
		"message": "Password updated",
	})
}

func (controller *UserController) deleteHandler(c *gin.Context) {
	user := middleware.GetUser(c)

	if user == nil {
		c.JSON(401, gin.H{
			"status":  401,
			"message": "Unauthorized",
		})
		return
	}

	if err := controller.users.DeleteUser(user.ID); err != nil {
		writeUserError(c, err)
		return
	}

	log.Info().Str("username", user.Username).Msg("User deleted")

	c.JSON(200, gin.H{
		"status":  200,
		"message": "User deleted",
	})
}
