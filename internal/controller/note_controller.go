package controller

import (
	"notekeeper-be/internal/apperrors"
	"notekeeper-be/internal/dto"
	"notekeeper-be/internal/pkg/serverutils"
	"notekeeper-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type INoteController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type noteController struct {
	noteService service.INoteService
}

func NewNoteController(noteService service.INoteService) INoteController {
	return &noteController{
		noteService: noteService,
	}
}

func (c *noteController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/api/notes")
	h.Use(serverutils.JwtMiddleware)
	h.Post("", c.Create)
	h.Get("", c.List)
	h.Get("/:id", c.Show)
	h.Put("/:id", c.Update)
	h.Delete("/:id", c.Delete)
}

func userIdFromCtx(ctx *fiber.Ctx) (uuid.UUID, error) {
	idStr, ok := ctx.Locals("user_id").(string)
	if !ok {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
	}
	return uuid.Parse(idStr)
}

func (c *noteController) Create(ctx *fiber.Ctx) error {
	userId, err := userIdFromCtx(ctx)
	if err != nil {
		return err
	}

	var req dto.CreateNoteRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.noteService.Create(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(res)
}

func (c *noteController) List(ctx *fiber.Ctx) error {
	userId, err := userIdFromCtx(ctx)
	if err != nil {
		return err
	}

	res, err := c.noteService.List(ctx.Context(), userId)
	if err != nil {
		return err
	}

	return ctx.JSON(res)
}

func (c *noteController) Show(ctx *fiber.Ctx) error {
	userId, err := userIdFromCtx(ctx)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return apperrors.ErrNoteNotFound
	}

	res, err := c.noteService.Show(ctx.Context(), userId, id)
	if err != nil {
		return err
	}

	return ctx.JSON(dto.NoteListItem{
		Id:       res.Id,
		Title:    res.Title,
		Content:  res.Content,
		FileName: res.FileName,
	})
}

func (c *noteController) Update(ctx *fiber.Ctx) error {
	userId, err := userIdFromCtx(ctx)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return apperrors.ErrNoteNotFound
	}

	var req dto.UpdateNoteRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	req.Id = id

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.noteService.Update(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(res)
}

func (c *noteController) Delete(ctx *fiber.Ctx) error {
	userId, err := userIdFromCtx(ctx)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return apperrors.ErrNoteNotFound
	}

	if err := c.noteService.Delete(ctx.Context(), userId, id); err != nil {
		return err
	}

	return ctx.JSON(fiber.Map{"message": "Note deleted successfully"})
}
