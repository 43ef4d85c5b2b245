package controller

import (
	"book-chatbot-be/internal/dto"
	"book-chatbot-be/internal/pkg/serverutils"
	"book-chatbot-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAuthController interface {
	RegisterRoutes(r fiber.Router)
	Register(ctx *fiber.Ctx) error
	Login(ctx *fiber.Ctx) error
	Logout(ctx *fiber.Ctx) error
	Me(ctx *fiber.Ctx) error
}

type authController struct {
	service service.IAuthService
}

func NewAuthController(service service.IAuthService) IAuthController {
	return &authController{service: service}
}

func (c *authController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/auth")
	h.Post("/register", c.Register)
	h.Post("/login", c.Login)
	h.Post("/logout", serverutils.AuthMiddleware(c.service), c.Logout)
	h.Get("/me", serverutils.AuthMiddleware(c.service), c.Me)
}

func (c *authController) Register(ctx *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := ctx.BodyParser(&req); err != nil {
		return service.NewValidationError("invalid request body")
	}
	if err := serverutils.ValidateStruct(&req); err != nil {
		return err
	}

	res, err := c.service.Register(ctx.Context(), &req)
	if err != nil {
		return err
	}

	setAuthCookie(ctx, res)

	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"code":    201,
		"message": "User registered successfully",
		"data":    res,
	})
}

func (c *authController) Login(ctx *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := ctx.BodyParser(&req); err != nil {
		return service.NewValidationError("invalid request body")
	}
	if err := serverutils.ValidateStruct(&req); err != nil {
		return err
	}

	res, err := c.service.Login(ctx.Context(), &req, ctx.Get("User-Agent"))
	if err != nil {
		return err
	}

	setAuthCookie(ctx, res)

	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "Login successful",
		"data":    res,
	})
}

func (c *authController) Logout(ctx *fiber.Ctx) error {
	if err := c.service.Logout(ctx.Context(), serverutils.CurrentToken(ctx)); err != nil {
		return err
	}

	ctx.ClearCookie(serverutils.AuthCookieName)

	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "Logged out",
		"data":    nil,
	})
}

func (c *authController) Me(ctx *fiber.Ctx) error {
	user := serverutils.CurrentUser(ctx)

	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "OK",
		"data": dto.UserProfileResponse{
			Id:             user.Id,
			Email:          user.Email,
			ChatDailyUsage: user.ChatDailyUsage,
			CreatedAt:      user.CreatedAt,
		},
	})
}

func setAuthCookie(ctx *fiber.Ctx, res *dto.LoginResponse) {
	ctx.Cookie(&fiber.Cookie{
		Name:     serverutils.AuthCookieName,
		Value:    res.AccessToken,
		Expires:  res.ExpiresAt,
		HTTPOnly: true,
		SameSite: "Lax",
	})
}
