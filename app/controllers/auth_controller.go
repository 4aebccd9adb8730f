package controllers

import (
	"errors"

	"github.com/shashiranjanraj/storefront/app/services"
	"github.com/shashiranjanraj/storefront/pkg/ctx"
	"github.com/shashiranjanraj/storefront/pkg/middleware"
	"github.com/shashiranjanraj/storefront/pkg/session"
)

const msgBadLogin = "Your login information was not correct. Please try again."

type AuthController struct {
	auth  *services.AuthService
	carts *services.CartService
}

func NewAuthController(auth *services.AuthService, carts *services.CartService) *AuthController {
	return &AuthController{auth: auth, carts: carts}
}

// Login renders the form on GET and authenticates on POST.
func (h *AuthController) Login(c *ctx.Context) {
	if !c.IsPost() {
		if id, ok := c.Identity(); ok {
			c.RedirectTo(services.HomeFor(id.Role))
			return
		}
		c.Render("login", map[string]string{"redirect_route": localPath(c.Query("next"))})
		return
	}

	user, err := h.auth.Attempt(c.Context(), c.PostForm("username"), c.PostForm("password"))
	if errors.Is(err, services.ErrInvalidCredentials) {
		c.Flash(session.FlashError, msgBadLogin)
		c.RedirectTo("/login")
		return
	}
	if err != nil {
		c.ServerError("auth: login failed", err)
		return
	}

	sess := c.Session()
	sess.Regenerate()
	sess.Set(middleware.SessionUserKey, user.ID)

	target := localPath(c.PostForm("redirect_route"))
	if target == "" {
		target = services.HomeFor(user.Role)
	}
	c.RedirectTo(target)
}

// Logout drops the cart and the session's login.
func (h *AuthController) Logout(c *ctx.Context) {
	sess := c.Session()
	if err := h.carts.Discard(c.Context(), sess.ID()); err != nil {
		c.ServerError("auth: logout: discard cart", err)
		return
	}
	sess.Invalidate()
	c.Flash(session.FlashSuccess, "You have been logged out.")
	c.RedirectTo("/")
}
