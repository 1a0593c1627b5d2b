package handlers

import (
	"log/slog"
	"net/http"

	"github.com/ivanquesadapalmero/planazo-backend/internal/api/dto"
	"github.com/ivanquesadapalmero/planazo-backend/internal/apperr"
	"github.com/ivanquesadapalmero/planazo-backend/internal/auth"
)

const forgotPasswordMessage = "Si el email existe, recibirás un enlace para resetear tu contraseña"

type AuthHandler struct {
	authService auth.Authenticator
	resetter    auth.PasswordResetter
	logger      *slog.Logger
}

func NewAuthHandler(authService auth.Authenticator, resetter auth.PasswordResetter, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, resetter: resetter, logger: logger}
}

// Register creates the account and logs it in with the same credentials.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	if _, err := h.authService.Register(r.Context(), auth.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	}); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	result, err := h.authService.Login(r.Context(), auth.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.ToAuthResponse(result))
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	result, err := h.authService.Login(r.Context(), auth.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToAuthResponse(result))
}

// Verify is mounted behind the auth middleware, so reaching it means the
// token is valid.
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: "Token válido", Status: "authenticated"})
}

// ForgotPassword always answers with the same message so callers cannot
// discover which addresses are registered.
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req dto.ForgotPasswordRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	if err := h.resetter.RequestReset(r.Context(), req.Email); err != nil {
		switch apperr.KindOf(err) {
		case apperr.KindNotFound, apperr.KindBadRequest:
			h.logger.Debug("password reset not issued", "reason", apperr.Message(err))
		default:
			writeError(w, r, h.logger, err)
			return
		}
	}

	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: forgotPasswordMessage})
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req dto.ResetPasswordRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	if err := h.resetter.ResetPassword(r.Context(), req.Token, req.NewPassword); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	h.logger.Info("password reset completed", "remote", r.RemoteAddr)
	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: "Contraseña actualizada exitosamente"})
}
