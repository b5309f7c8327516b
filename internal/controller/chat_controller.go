package controller

import (
	"ai-legalchat-be/internal/dto"
	"ai-legalchat-be/internal/pkg/serverutils"
	"ai-legalchat-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router, guard fiber.Handler)
	Chat(ctx *fiber.Ctx) error
	History(ctx *fiber.Ctx) error
	Conversations(ctx *fiber.Ctx) error
	Cancel(ctx *fiber.Ctx) error
	Clear(ctx *fiber.Ctx) error
}

type chatController struct {
	chatService service.IChatService
}

func NewChatController(chatService service.IChatService) IChatController {
	return &chatController{
		chatService: chatService,
	}
}

func (c *chatController) RegisterRoutes(r fiber.Router, guard fiber.Handler) {
	h := r.Group("/chat/v1")
	h.Use(guard)
	h.Post("", c.Chat)
	h.Get("history", c.History)
	h.Get("conversations", c.Conversations)
	h.Post("cancel", c.Cancel)
	h.Delete("clear", c.Clear)
}

// sessionFromLocals reads the ids the guard placed on the request.
func sessionFromLocals(ctx *fiber.Ctx) (userId, sessionId uuid.UUID, err error) {
	userIdStr, _ := ctx.Locals("user_id").(string)
	sessionIdStr, _ := ctx.Locals("session_id").(string)

	userId, err = uuid.Parse(userIdStr)
	if err != nil {
		return uuid.Nil, uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "invalid user")
	}
	sessionId, err = uuid.Parse(sessionIdStr)
	if err != nil {
		return uuid.Nil, uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "invalid session")
	}
	return userId, sessionId, nil
}

func (c *chatController) Chat(ctx *fiber.Ctx) error {
	userId, sessionId, err := sessionFromLocals(ctx)
	if err != nil {
		return err
	}

	var req dto.ChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.chatService.Chat(ctx.Context(), userId, sessionId, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success chat", res))
}

func (c *chatController) History(ctx *fiber.Ctx) error {
	_, sessionId, err := sessionFromLocals(ctx)
	if err != nil {
		return err
	}

	page := ctx.QueryInt("page", 1)

	res, err := c.chatService.GetHistory(ctx.Context(), sessionId, page)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success show history", res))
}

func (c *chatController) Conversations(ctx *fiber.Ctx) error {
	userId, _, err := sessionFromLocals(ctx)
	if err != nil {
		return err
	}

	res, err := c.chatService.GetConversations(ctx.Context(), userId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success show conversations", res))
}

func (c *chatController) Cancel(ctx *fiber.Ctx) error {
	_, sessionId, err := sessionFromLocals(ctx)
	if err != nil {
		return err
	}

	res := c.chatService.Cancel(ctx.Context(), sessionId)
	return ctx.JSON(serverutils.SuccessResponse("Cancel signal processed", res))
}

func (c *chatController) Clear(ctx *fiber.Ctx) error {
	_, sessionId, err := sessionFromLocals(ctx)
	if err != nil {
		return err
	}

	if err := c.chatService.Clear(ctx.Context(), sessionId); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Success clear history", nil))
}
