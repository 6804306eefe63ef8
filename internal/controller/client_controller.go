package controller

import (
	"errors"
	"strconv"

	"authd/internal/middleware"
	"authd/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type CreateClientRequest struct {
	Name   string   `json:"name" binding:"required"`
	Scopes []string `json:"scopes"`
}

type SetScopesRequest struct {
	Scopes []string `json:"scopes" binding:"required"`
}

type ClientController struct {
	router  *gin.RouterGroup
	clients *service.ClientService
}

func NewClientController(router *gin.RouterGroup, clients *service.ClientService) *ClientController {
	return &ClientController{
		router:  router,
		clients: clients,
	}
}

func (controller *ClientController) SetupRoutes() {
	clientGroup := controller.router.Group("/client")
	clientGroup.POST("", controller.createHandler)
	clientGroup.GET("/:id", controller.getHandler)
	clientGroup.PUT("/:id/scopes", controller.setScopesHandler)
	clientGroup.DELETE("/:id", controller.deleteHandler)
}

func writeClientError(c *gin.Context, err error) {
	var uniqueErr *service.UniquenessError

	switch {
	case errors.As(err, &uniqueErr):
		c.JSON(409, gin.H{
			"status":  409,
			"message": uniqueErr.Error(),
		})
	case errors.Is(err, service.ErrInvalidScope):
		c.JSON(400, gin.H{
			"status":  400,
			"message": "Invalid scope",
		})
	default:
		log.Error().Err(err).Msg("Client operation failed")
		c.JSON(500, gin.H{
			"status":  500,
			"message": "Internal Server Error",
		})
	}
}

func (controller *ClientController) createHandler(c *gin.Context) {
	user := middleware.GetUser(c)

	if user == nil {
		c.JSON(401, gin.H{
			"status":  401,
			"message": "Unauthorized",
		})
		return
	}

	var req CreateClientRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		log.Debug().Err(err).Msg("Failed to bind JSON")
		c.JSON(400, gin.H{
			"status":  400,
			"message": "Bad Request",
		})
		return
	}

	client, err := controller.clients.CreateClient(req.Name, user, req.Scopes)
	if err != nil {
		writeClientError(c, err)
		return
	}

	log.Info().Str("name", client.Name).Uint("user_id", user.ID).Msg("Client created")

	// The secret is returned exactly once, at creation time.
	c.JSON(201, gin.H{
		"id":         client.ID,
		"name":       client.Name,
		"secret":     client.Secret,
		"created_at": client.CreatedAt,
	})
}

// ownedClient loads the client from the path id and checks it belongs to the
// authenticated user. Writes the response on failure.
func (controller *ClientController) ownedClient(c *gin.Context) (uint, bool) {
	user := middleware.GetUser(c)

	if user == nil {
		c.JSON(401, gin.H{
			"status":  401,
			"message": "Unauthorized",
		})
		return 0, false
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(400, gin.H{
			"status":  400,
			"message": "Bad Request",
		})
		return 0, false
	}

	return uint(id), true
}

func (controller *ClientController) getHandler(c *gin.Context) {
	id, ok := controller.ownedClient(c)
	if !ok {
		return
	}

	client, err := controller.clients.GetClientByID(id)
	if err != nil {
		writeClientError(c, err)
		return
	}

	if client == nil || client.UserID != middleware.GetUser(c).ID {
		c.JSON(404, gin.H{
			"status":  404,
			"message": "Not Found",
		})
		return
	}

	scopes, err := controller.clients.GetScopes(client)
	if err != nil {
		writeClientError(c, err)
		return
	}

	c.JSON(200, gin.H{
		"id":                 client.ID,
		"name":               client.Name,
		"scopes":             scopes,
		"last_authenticated": client.LastAuthenticated,
		"created_at":         client.CreatedAt,
	})
}

func (controller *ClientController) setScopesHandler(c *gin.Context) {
	id, ok := controller.ownedClient(c)
	if !ok {
		return
	}

	client, err := controller.clients.GetClientByID(id)
	if err != nil {
		writeClientError(c, err)
		return
	}

	if client == nil || client.UserID != middleware.GetUser(c).ID {
		c.JSON(404, gin.H{
			"status":  404,
			"message": "Not Found",
		})
		return
	}

	var req SetScopesRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		log.Debug().Err(err).Msg("Failed to bind JSON")
		c.JSON(400, gin.H{
			"status":  400,
			"message": "Bad Request",
		})
		return
	}

	if err := controller.clients.SetScopes(client, req.Scopes); err != nil {
		writeClientError(c, err)
		return
	}

	scopes, err := controller.clients.GetScopes(client)
	if err != nil {
		writeClientError(c, err)
		return
	}

	c.JSON(200, gin.H{
		"id":     client.ID,
		"scopes": scopes,
	})
}

func (controller *ClientController) deleteHandler(c *gin.Context) {
	id, ok := controller.ownedClient(c)
	if !ok {
		return
	}

	client, err := controller.clients.GetClientByID(id)
	if err != nil {
		writeClientError(c, err)
		return
	}

	if client == nil || client.UserID != middleware.GetUser(c).ID {
		c.JSON(404, gin.H{
			"status":  404,
			"message": "Not Found",
		})
		return
	}

	if err := controller.clients.DeleteClient(client.ID); err != nil {
		writeClientError(c, err)
		return
	}

	c.JSON(200, gin.H{
		"status":  200,
		"message": "Client deleted",
	})
}
