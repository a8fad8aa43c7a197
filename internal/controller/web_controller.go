package controller

import (
	"errors"

	"notekeeper-be/internal/apperrors"
	"notekeeper-be/internal/dto"
	"notekeeper-be/internal/pkg/serverutils"
	"notekeeper-be/internal/pkg/storage"
	"notekeeper-be/internal/service"
	"notekeeper-be/pkg/store"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// IWebController serves the HTML page family. Pages are produced by the
// Views collaborator: every handler hands a template name and a context
// mapping to ctx.Render.
type IWebController interface {
	RegisterRoutes(r fiber.Router)
}

type webController struct {
	authService service.IAuthService
	noteService service.INoteService
	sessions    store.SessionStore
	fileStorage storage.FileStorage
}

func NewWebController(
	authService service.IAuthService,
	noteService service.INoteService,
	sessions store.SessionStore,
	fileStorage storage.FileStorage,
) IWebController {
	return &webController{
		authService: authService,
		noteService: noteService,
		sessions:    sessions,
		fileStorage: fileStorage,
	}
}

func (c *webController) RegisterRoutes(r fiber.Router) {
	r.Get("/", c.LoginPage)
	r.Get("/login", c.LoginPage)
	r.Post("/login", c.Login)
	r.Get("/register", c.RegisterPage)
	r.Post("/register", c.Register)
	r.Get("/forgot-password", c.ForgotPasswordPage)
	r.Post("/forgot-password", c.ForgotPassword)
	r.Get("/reset-password/:token", c.ResetPasswordPage)
	r.Post("/reset-password/:token", c.ResetPassword)

	// The dashboard flow bounces unauthenticated clients to the login
	// page at /, the notes pages to /login. Same page, historical paths.
	// The guard is attached per route: a prefixless group would put one
	// redirect target in front of every path.
	dash := serverutils.RequireSession(c.sessions, "/")
	r.Get("/dashboard", dash, c.Dashboard)
	r.Post("/notes", dash, c.CreateNote)
	r.Get("/notes", dash, c.ListNotes)

	pages := serverutils.RequireSession(c.sessions, "/login")
	r.Get("/logout", pages, c.Logout)
	r.Get("/mynotes", pages, c.MyNotes)
	r.Get("/editnote/:id", pages, c.EditNotePage)
	r.Post("/editnote/:id", pages, c.EditNote)
	r.Get("/deletenote/:id", pages, c.DeleteNote)
	r.Get("/viewfile/:id", pages, c.ViewFile)
}

func (c *webController) LoginPage(ctx *fiber.Ctx) error {
	return ctx.Render("login", fiber.Map{})
}

func (c *webController) RegisterPage(ctx *fiber.Ctx) error {
	return ctx.Render("register", fiber.Map{})
}

func (c *webController) Register(ctx *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Render("register", fiber.Map{"Msg": "Invalid form submission"})
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Render("register", fiber.Map{"Msg": err.Error()})
	}

	_, err := c.authService.Register(ctx.Context(), &req)
	switch {
	case errors.Is(err, apperrors.ErrEmailRegistered):
		return ctx.Render("register", fiber.Map{"Msg": "Email already registered, try logging in."})
	case errors.Is(err, apperrors.ErrPasswordTooShort):
		return ctx.Render("register", fiber.Map{"Msg": "Password must be at least 6 characters"})
	case err != nil:
		return err
	}

	return ctx.Render("login", fiber.Map{"Msg": "Registration successful! Please log in."})
}

func (c *webController) Login(ctx *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Render("login", fiber.Map{"Msg": "Invalid form submission"})
	}

	res, err := c.authService.Login(ctx.Context(), &req)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidCredentials) {
			return ctx.Render("login", fiber.Map{"Msg": "Invalid login, please try again."})
		}
		return err
	}

	session := store.NewSession(res.User.Id, res.User.Username)
	if err := c.sessions.Save(ctx.Context(), session); err != nil {
		return err
	}

	ctx.Cookie(&fiber.Cookie{
		Name:     serverutils.SessionCookieName,
		Value:    session.ID,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	return ctx.Redirect("/dashboard", fiber.StatusFound)
}

func (c *webController) Logout(ctx *fiber.Ctx) error {
	if session := serverutils.SessionFromCtx(ctx); session != nil {
		if err := c.sessions.Delete(ctx.Context(), session.ID); err != nil {
			return err
		}
	}
	ctx.ClearCookie(serverutils.SessionCookieName)
	return ctx.Redirect("/", fiber.StatusFound)
}

func (c *webController) Dashboard(ctx *fiber.Ctx) error {
	session := serverutils.SessionFromCtx(ctx)

	var msg string
	if ctx.Query("success") != "" {
		msg = "Note successfully uploaded!"
	}

	return ctx.Render("dashboard", fiber.Map{
		"Username": session.Username,
		"Msg":      msg,
	})
}

func (c *webController) CreateNote(ctx *fiber.Ctx) error {
	session := serverutils.SessionFromCtx(ctx)

	req := dto.CreateNoteRequest{
		Title:   ctx.FormValue("title"),
		Content: ctx.FormValue("content"),
	}
	if req.Title == "" {
		return ctx.Render("dashboard", fiber.Map{
			"Username": session.Username,
			"Msg":      "Title is required",
		})
	}

	// Optional attachment: stored under a generated key, the original
	// name kept only for display.
	if fileHeader, err := ctx.FormFile("file"); err == nil && fileHeader.Filename != "" {
		src, err := fileHeader.Open()
		if err != nil {
			return err
		}
		defer src.Close()

		key, err := c.fileStorage.Save(fileHeader.Filename, src)
		if err != nil {
			return err
		}
		req.FileName = fileHeader.Filename
		req.FileKey = key
	}

	if _, err := c.noteService.Create(ctx.Context(), session.UserID, &req); err != nil {
		return err
	}

	return ctx.Redirect("/dashboard?success=1", fiber.StatusFound)
}

func (c *webController) ListNotes(ctx *fiber.Ctx) error {
	session := serverutils.SessionFromCtx(ctx)

	notes, err := c.noteService.List(ctx.Context(), session.UserID)
	if err != nil {
		return err
	}

	return ctx.JSON(notes)
}

func (c *webController) MyNotes(ctx *fiber.Ctx) error {
	session := serverutils.SessionFromCtx(ctx)

	notes, err := c.noteService.List(ctx.Context(), session.UserID)
	if err != nil {
		return err
	}

	var msg string
	if ctx.Query("updated") != "" {
		msg = "Note successfully updated!"
	}

	return ctx.Render("mynotes", fiber.Map{
		"Username": session.Username,
		"Notes":    notes,
		"Msg":      msg,
	})
}

func (c *webController) EditNotePage(ctx *fiber.Ctx) error {
	session := serverutils.SessionFromCtx(ctx)

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return apperrors.ErrNoteNotFound
	}

	note, err := c.noteService.Show(ctx.Context(), session.UserID, id)
	if err != nil {
		return err
	}

	return ctx.Render("editnote", fiber.Map{"Note": note})
}

func (c *webController) EditNote(ctx *fiber.Ctx) error {
	session := serverutils.SessionFromCtx(ctx)

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return apperrors.ErrNoteNotFound
	}

	req := dto.UpdateNoteRequest{
		Id:      id,
		Title:   ctx.FormValue("title"),
		Content: ctx.FormValue("content"),
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if _, err := c.noteService.Update(ctx.Context(), session.UserID, &req); err != nil {
		return err
	}

	return ctx.Redirect("/mynotes?updated=1", fiber.StatusSeeOther)
}

func (c *webController) DeleteNote(ctx *fiber.Ctx) error {
	session := serverutils.SessionFromCtx(ctx)

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return apperrors.ErrNoteNotFound
	}

	if err := c.noteService.Delete(ctx.Context(), session.UserID, id); err != nil {
		return err
	}

	return ctx.Redirect("/mynotes", fiber.StatusSeeOther)
}

func (c *webController) ViewFile(ctx *fiber.Ctx) error {
	session := serverutils.SessionFromCtx(ctx)

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return apperrors.ErrNoteNotFound
	}

	note, err := c.noteService.Show(ctx.Context(), session.UserID, id)
	if err != nil {
		return err
	}

	return ctx.Render("viewfile", fiber.Map{"Note": note})
}

func (c *webController) ForgotPasswordPage(ctx *fiber.Ctx) error {
	return ctx.Render("forgot_password", fiber.Map{})
}

func (c *webController) ForgotPassword(ctx *fiber.Ctx) error {
	var req dto.ForgotPasswordRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Render("forgot_password", fiber.Map{"Msg": "Invalid form submission"})
	}

	resetLink, err := c.authService.ForgotPassword(ctx.Context(), &req)
	if err != nil {
		if errors.Is(err, apperrors.ErrEmailNotFound) {
			return ctx.Render("forgot_password", fiber.Map{"Msg": "Email not found."})
		}
		return err
	}

	return ctx.Render("forgot_password", fiber.Map{
		"Msg":  "Reset link generated! Visit " + resetLink,
		"Link": resetLink,
	})
}

func (c *webController) ResetPasswordPage(ctx *fiber.Ctx) error {
	token := ctx.Params("token")
	if err := c.authService.ValidateResetToken(ctx.Context(), token); err != nil {
		return err
	}
	return ctx.Render("reset_password", fiber.Map{"Token": token})
}

func (c *webController) ResetPassword(ctx *fiber.Ctx) error {
	token := ctx.Params("token")
	req := dto.ResetPasswordRequest{
		Token:       token,
		NewPassword: ctx.FormValue("password"),
	}

	err := c.authService.ResetPassword(ctx.Context(), &req)
	switch {
	case errors.Is(err, apperrors.ErrPasswordTooShort):
		return ctx.Render("reset_password", fiber.Map{
			"Token": token,
			"Msg":   "Password must be at least 6 characters",
		})
	case err != nil:
		return err
	}

	return ctx.Render("login", fiber.Map{"Msg": "Password reset successful! Please log in."})
}
