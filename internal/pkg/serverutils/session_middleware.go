package serverutils

import (
	"notekeeper-be/pkg/store"

	"github.com/gofiber/fiber/v2"
)

const SessionCookieName = "session_id"

// RequireSession gates the HTML route family. The cookie carries only a
// random session id; identity lives server-side in the session store.
// Missing or stale sessions redirect rather than 401, matching the page
// flow.
func RequireSession(sessions store.SessionStore, redirectTo string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		sessionID := ctx.Cookies(SessionCookieName)
		if sessionID == "" {
			return ctx.Redirect(redirectTo, fiber.StatusFound)
		}

		session, found := sessions.Get(ctx.Context(), sessionID)
		if !found {
			ctx.ClearCookie(SessionCookieName)
			return ctx.Redirect(redirectTo, fiber.StatusFound)
		}

		ctx.Locals("session", session)
		return ctx.Next()
	}
}

// SessionFromCtx returns the session RequireSession stored, or nil on
// unguarded routes.
func SessionFromCtx(ctx *fiber.Ctx) *store.Session {
	if s, ok := ctx.Locals("session").(*store.Session); ok {
		return s
	}
	return nil
}
