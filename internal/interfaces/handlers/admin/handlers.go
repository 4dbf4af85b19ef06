package admin

import (
	"encoding/json"
	"errors"

	authsvc "wedding-backend/internal/application/auth"
	invsvc "wedding-backend/internal/application/invitations"
	"wedding-backend/internal/middleware"
	"wedding-backend/internal/pkg/response"
	"wedding-backend/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// Handlers holds dependencies for the admin dashboard endpoints.
type Handlers struct {
	Auth        *authsvc.Service
	Invitations *invsvc.Service
	Cookies     middleware.CookieConfig
}

// LoginRequest body.
type LoginRequest struct {
	Password string `json:"password"`
}

// Login POST /api/v1/admin/login: rate-limited per client address; sets the admin_session cookie.
func (h *Handlers) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil || req.Password == "" {
		return response.BadRequest(c, "Password is required")
	}

	addr := middleware.ClientAddress(c)
	token, err := h.Auth.Login(c.UserContext(), req.Password, addr)
	if err != nil {
		var limited *authsvc.RateLimitedError
		switch {
		case errors.As(err, &limited):
			log.Warn().Str("ip", addr).Int("retry_after", limited.RetryAfterSeconds()).Msg("admin login locked out")
			return response.TooManyRequests(c, limited.Error(), limited.RetryAfter)
		case errors.Is(err, authsvc.ErrInvalidPassword):
			return response.Unauthorized(c, err.Error())
		case errors.Is(err, authsvc.ErrPasswordNotConfigured), errors.Is(err, authsvc.ErrSecretNotConfigured):
			log.Error().Err(err).Msg("admin login misconfigured")
			return response.Internal(c, err.Error())
		default:
			log.Error().Err(err).Str("trace_id", middleware.GetTraceID(c)).Msg("admin login failed")
			return response.Internal(c, "Failed to log in")
		}
	}

	middleware.SetAdminSession(c, h.Cookies, token)
	return response.Success(c, "Login successful", fiber.Map{"authenticated": true}, nil)
}

// Me GET /api/v1/admin/me: reports whether the caller holds a valid admin session.
func (h *Handlers) Me(c *fiber.Ctx) error {
	ok := h.Auth.CheckAuth(middleware.AdminToken(c))
	return response.Success(c, "Session checked", fiber.Map{"authenticated": ok}, nil)
}

// Logout DELETE /api/v1/admin/logout: clears the cookie.
func (h *Handlers) Logout(c *fiber.Ctx) error {
	middleware.ClearAdminSession(c, h.Cookies)
	return response.Success(c, "Logged out successfully", nil, nil)
}

// ListInvitations GET /api/v1/admin/invitations
func (h *Handlers) ListInvitations(c *fiber.Ctx) error {
	out, err := h.Invitations.ListInvitations(c.UserContext())
	if err != nil {
		log.Error().Err(err).Str("trace_id", middleware.GetTraceID(c)).Msg("list invitations failed")
		return response.Internal(c, "Failed to fetch invitations")
	}
	return response.Success(c, "Invitations fetched", out, fiber.Map{"count": len(out.Invitations)})
}

// CreateInvitationRequest accepts partyMembers as a JSON array or as the
// comma-separated string the admin form submits.
type CreateInvitationRequest struct {
	DisplayName    string          `json:"displayName"`
	InvitationCode string          `json:"invitationCode"`
	PartyMembers   json.RawMessage `json:"partyMembers"`
}

func (r CreateInvitationRequest) members() ([]string, bool) {
	if len(r.PartyMembers) == 0 {
		return nil, true
	}
	var list []string
	if err := json.Unmarshal(r.PartyMembers, &list); err == nil {
		return list, true
	}
	var csv string
	if err := json.Unmarshal(r.PartyMembers, &csv); err == nil {
		return validation.SplitMembers(csv), true
	}
	return nil, false
}

// CreateInvitation POST /api/v1/admin/invitations
func (h *Handlers) CreateInvitation(c *fiber.Ctx) error {
	var req CreateInvitationRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	members, ok := req.members()
	if !ok {
		return response.BadRequest(c, "partyMembers must be a list of names or a comma-separated string")
	}

	inv, err := h.Invitations.CreateInvitation(c.UserContext(), invsvc.CreateInput{
		DisplayName:    req.DisplayName,
		InvitationCode: req.InvitationCode,
		PartyMembers:   members,
	})
	if err != nil {
		switch {
		case errors.Is(err, invsvc.ErrInvalidInput), errors.Is(err, invsvc.ErrInvalidCode), errors.Is(err, invsvc.ErrDuplicateMember):
			return response.BadRequest(c, err.Error())
		case errors.Is(err, invsvc.ErrCodeExists):
			return response.Conflict(c, err.Error(), false)
		default:
			log.Error().Err(err).Str("trace_id", middleware.GetTraceID(c)).Msg("create invitation failed")
			return response.Internal(c, "Failed to create invitation")
		}
	}
	log.Info().Uint("id", inv.ID).Str("code", inv.InvitationCode).Msg("invitation created")
	return response.SuccessCreated(c, "Invitation created", inv, nil)
}

// DeleteInvitation DELETE /api/v1/admin/invitations/:id
func (h *Handlers) DeleteInvitation(c *fiber.Ctx) error {
	err := h.Invitations.DeleteInvitation(c.UserContext(), c.Params("id"))
	switch {
	case err == nil:
		return response.Success(c, "Invitation deleted", nil, nil)
	case errors.Is(err, invsvc.ErrInvalidID):
		return response.BadRequest(c, err.Error())
	case errors.Is(err, invsvc.ErrNotFound):
		return response.NotFound(c, err.Error())
	default:
		log.Error().Err(err).Str("trace_id", middleware.GetTraceID(c)).Msg("delete invitation failed")
		return response.Internal(c, "Failed to delete invitation")
	}
}
