package auth

import (
	"encoding/json"
	"log/slog"
	"net/http"

	errors "github.com/alshifa/hospital-management/internal"
	"github.com/alshifa/hospital-management/internal/rbac"
	"github.com/alshifa/hospital-management/internal/transport"
	"github.com/alshifa/hospital-management/pkg/logger"
)

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
	}
}

// Login handles POST /auth/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session, err := h.Service.Login(dto)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, session)
}

// Register handles POST /auth/register. A successful registration logs the
// new account in immediately.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var dto RegisterDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session, err := h.Service.Register(dto)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, session)
}

// Refresh handles POST /auth/refresh, rotating both tokens.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	var dto RefreshTokenDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := dto.Validate(); err != nil {
		h.WriteAppError(w, err)
		return
	}

	tokens, err := h.Service.Refresh(dto.RefreshToken)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, tokens)
}

// CurrentUser handles GET /auth/me, reloading the live identity so the
// response reflects role or department changes made after token issuance.
func (h *Handler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	principal, ok := rbac.PrincipalFromContext(r.Context())
	if !ok || principal == nil {
		h.WriteAppError(w, errors.ErrInvalidToken)
		return
	}

	user, err := h.Service.CurrentUser(principal.UserID)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, user)
}

// AuthMiddleware gates protected routes on a valid access token. On success
// the verified claims are attached to the request context as the principal;
// every failure mode answers the same 401.
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := h.ExtractTokenFromHeader(r)
		if token == "" {
			h.WriteAppError(w, errors.ErrInvalidToken)
			return
		}

		claims, err := h.Service.VerifyAccessToken(token)
		if err != nil {
			h.WriteAppError(w, errors.ErrInvalidToken)
			return
		}

		principal := &rbac.Principal{
			UserID: claims.UserID,
			Email:  claims.Email,
			Role:   claims.Role,
		}

		ctx := rbac.ContextWithPrincipal(r.Context(), principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
