package controller

import (
	"book-chatbot-be/internal/dto"
	"book-chatbot-be/internal/pkg/serverutils"
	"book-chatbot-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router, middleware ...fiber.Handler)
	SendMessage(ctx *fiber.Ctx) error
	GetHistory(ctx *fiber.Ctx) error
	ListThreads(ctx *fiber.Ctx) error
}

type chatController struct {
	service     service.IChatService
	authService service.IAuthService
}

func NewChatController(chatService service.IChatService, authService service.IAuthService) IChatController {
	return &chatController{
		service:     chatService,
		authService: authService,
	}
}

func (c *chatController) RegisterRoutes(r fiber.Router, middleware ...fiber.Handler) {
	h := r.Group("/chat", serverutils.AuthMiddleware(c.authService))
	for _, m := range middleware {
		h.Use(m)
	}
	h.Post("/message", c.SendMessage)
	h.Get("/history", c.GetHistory)
	h.Get("/threads", c.ListThreads)
}

func (c *chatController) SendMessage(ctx *fiber.Ctx) error {
	var req dto.SendMessageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return service.NewValidationError("invalid request body")
	}
	if err := serverutils.ValidateStruct(&req); err != nil {
		return err
	}

	res, err := c.service.SendMessage(ctx.Context(), serverutils.CurrentUser(ctx), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "Message processed",
		"data":    res,
	})
}

func (c *chatController) GetHistory(ctx *fiber.Ctx) error {
	var req dto.GetHistoryRequest
	if err := ctx.QueryParser(&req); err != nil {
		return service.NewValidationError("invalid query parameters")
	}
	if err := serverutils.ValidateStruct(&req); err != nil {
		return err
	}

	res, err := c.service.GetHistory(ctx.Context(), serverutils.CurrentUser(ctx), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "OK",
		"data":    res,
	})
}

func (c *chatController) ListThreads(ctx *fiber.Ctx) error {
	res, err := c.service.ListThreads(ctx.Context(), serverutils.CurrentUser(ctx))
	if err != nil {
		return err
	}

	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "OK",
		"data":    res,
	})
}
