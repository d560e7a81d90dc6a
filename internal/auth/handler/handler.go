package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"identity-service/internal/auth/credentials"
	"identity-service/internal/auth/provider"
	"identity-service/internal/auth/resolver"
	"identity-service/internal/auth/token"
	"identity-service/internal/logger"
	"identity-service/internal/session"
)

// handshakeTTL bounds the session record created during the OAuth
// callback. The record only has to survive one round trip.
const handshakeTTL = 5 * time.Minute

type Handler struct {
	providers     *provider.Registry
	sessionStore  session.Store
	sessionSecret []byte
	resolver      resolver.Resolver
	credentials   *credentials.Service
	tokens        *token.Service
	frontendURL   string
}

func NewHandler(
	registry *provider.Registry,
	sessionStore session.Store,
	sessionSecret []byte,
	resolver resolver.Resolver,
	credentialService *credentials.Service,
	tokenService *token.Service,
	frontendURL string,
) *Handler {
	return &Handler{
		providers:     registry,
		sessionStore:  sessionStore,
		sessionSecret: sessionSecret,
		resolver:      resolver,
		credentials:   credentialService,
		tokens:        tokenService,
		frontendURL:   frontendURL,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/auth/google", h.beginGoogle)
	r.GET("/auth/google/callback", h.googleCallback)
	r.POST("/auth/login", h.Login)
	r.POST("/auth/signup", h.Signup)
	r.GET("/authenticated", h.Authenticated)
}

func (h *Handler) failureRedirect(c *gin.Context) {
	c.Redirect(http.StatusFound, h.frontendURL+"/login")
}

func (h *Handler) beginGoogle(c *gin.Context) {
	p, err := h.providers.Get("google")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "Internal Server Error",
		})
		return
	}

	state, err := generateState(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "Internal Server Error",
		})
		return
	}

	_, codeChallenge, err := generatePKCE(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "Internal Server Error",
		})
		return
	}

	c.Redirect(http.StatusFound, p.AuthCodeURL(state, codeChallenge))
}

func (h *Handler) googleCallback(c *gin.Context) {
	p, err := h.providers.Get("google")
	if err != nil {
		h.failureRedirect(c)
		return
	}

	if !validateState(c) {
		logger.Warn("oauth callback with bad state", nil)
		h.failureRedirect(c)
		return
	}

	if errParam := c.Query("error"); errParam != "" {
		logger.Warn("oauth callback returned error", map[string]any{
			"error": errParam,
			"desc":  c.Query("error_description"),
		})
		h.failureRedirect(c)
		return
	}

	code := c.Query("code")
	if code == "" {
		logger.Error("oauth callback missing code and error", nil)
		h.failureRedirect(c)
		return
	}

	identity, err := p.ExchangeCode(
		c.Request.Context(),
		code,
		getPKCEVerifier(c),
	)
	if err != nil {
		logger.Error("oauth code exchange failed", map[string]any{
			"error": err.Error(),
		})
		h.failureRedirect(c)
		return
	}

	user, err := h.resolver.Resolve(c.Request.Context(), identity)
	if err != nil {
		logger.Error("failed to resolve user", map[string]any{
			"error": err.Error(),
		})
		h.failureRedirect(c)
		return
	}

	// The session exists only for this round trip: created here,
	// promoted to a token, and cleared before the redirect. The token
	// is the only artifact that survives.
	sessionID, err := session.GenerateID()
	if err != nil {
		h.failureRedirect(c)
		return
	}

	expiresAt := time.Now().Add(handshakeTTL)
	sess := session.Session{
		SessionID: sessionID,
		UserID:    user.ID,
		ExpiresAt: expiresAt,
	}

	if err := h.sessionStore.Create(c.Request.Context(), sess); err != nil {
		logger.Error("failed to persist session", map[string]any{
			"error": err.Error(),
		})
		h.failureRedirect(c)
		return
	}

	session.SetCookie(c.Writer, sessionID, h.sessionSecret, expiresAt, session.CookieOptions{
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})

	signed, err := h.tokens.Issue(user.Email)
	if err != nil {
		logger.Error("failed to issue token", map[string]any{
			"error": err.Error(),
		})
		h.failureRedirect(c)
		return
	}

	if err := h.sessionStore.Delete(c.Request.Context(), sessionID); err != nil {
		logger.Warn("failed to clear handshake session", map[string]any{
			"error": err.Error(),
		})
	}
	session.ClearCookie(c.Writer, session.CookieOptions{
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})

	c.Redirect(http.StatusFound, h.frontendURL+"/?token="+signed)
}
