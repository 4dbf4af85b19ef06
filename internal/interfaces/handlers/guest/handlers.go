package guest

import (
	"errors"
	"net/url"
	"strings"

	invsvc "wedding-backend/internal/application/invitations"
	"wedding-backend/internal/config"
	"wedding-backend/internal/domain"
	"wedding-backend/internal/middleware"
	"wedding-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// Handlers serves the invitation-gated guest pages.
type Handlers struct {
	Invitations *invsvc.Service
	Cookies     middleware.CookieConfig
	Event       config.EventConfig
	Registry    config.RegistryConfig
}

// PartyView is what a guest holding a code sees of their invitation.
type PartyView struct {
	DisplayName    string              `json:"displayName"`
	InvitationCode string              `json:"invitationCode"`
	Members        []domain.MemberRSVP `json:"members"`
	Tally          domain.Tally        `json:"tally"`
}

// GuestView is returned by every code-resolving endpoint. Unlocked is false
// when no valid code is held; that is not an error.
type GuestView struct {
	Unlocked   bool       `json:"unlocked"`
	Invitation *PartyView `json:"invitation"`
}

func viewOf(inv *domain.Invitation) GuestView {
	if inv == nil {
		return GuestView{}
	}
	return GuestView{
		Unlocked: true,
		Invitation: &PartyView{
			DisplayName:    inv.DisplayName,
			InvitationCode: inv.InvitationCode,
			Members:        inv.Statuses(),
			Tally:          inv.Tally(),
		},
	}
}

// resolve looks up the code; lookup failures are logged and treated as a miss
// so the public pages stay up. Without a database every code misses.
func (h *Handlers) resolve(c *fiber.Ctx, code string) *domain.Invitation {
	if h.Invitations == nil {
		return nil
	}
	inv, err := h.Invitations.Resolve(c.UserContext(), code)
	if err != nil {
		log.Error().Err(err).Str("trace_id", middleware.GetTraceID(c)).Msg("resolve invitation failed")
		return nil
	}
	return inv
}

// unlock resolves code and, on a hit, stores it in the invitation cookie.
// A miss leaves any existing cookie alone.
func (h *Handlers) unlock(c *fiber.Ctx, code string) error {
	inv := h.resolve(c, code)
	if inv != nil {
		middleware.SetInvitationCode(c, h.Cookies, inv.InvitationCode)
	}
	return response.Success(c, "Invitation resolved", viewOf(inv), nil)
}

// VisitCode GET /rsvp/:code: the link printed on the invitation.
func (h *Handlers) VisitCode(c *fiber.Ctx) error {
	code, err := url.PathUnescape(c.Params("code"))
	if err != nil {
		return response.BadRequest(c, "Invalid invitation code")
	}
	return h.unlock(c, strings.TrimSpace(code))
}

type codeRequest struct {
	InvitationCode string `json:"invitationCode"`
}

// SubmitCode POST /api/v1/guest/code: the code entry form.
func (h *Handlers) SubmitCode(c *fiber.Ctx) error {
	var req codeRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	return h.unlock(c, strings.TrimSpace(req.InvitationCode))
}

// Invitation GET /api/v1/guest/invitation: resolves the cookie.
func (h *Handlers) Invitation(c *fiber.Ctx) error {
	inv := h.resolve(c, middleware.InvitationCode(c))
	return response.Success(c, "Invitation resolved", viewOf(inv), nil)
}

// Forget DELETE /api/v1/guest/session
func (h *Handlers) Forget(c *fiber.Ctx) error {
	middleware.ClearInvitationCode(c, h.Cookies)
	return response.Success(c, "Invitation code cleared", viewOf(nil), nil)
}

type rsvpRequest struct {
	Member   string `json:"member"`
	Response string `json:"response"`
}

// RSVP POST /api/v1/guest/rsvp: records one member's response for the cookie's party.
func (h *Handlers) RSVP(c *fiber.Ctx) error {
	code := middleware.InvitationCode(c)
	if code == "" {
		return response.Unauthorized(c, "Enter your invitation code first")
	}
	var req rsvpRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	action, err := domain.ParseAction(req.Response)
	if err != nil {
		return response.BadRequest(c, "Response must be accept, decline or reset")
	}

	inv, err := h.Invitations.Respond(c.UserContext(), code, req.Member, action)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUnknownMember):
			return response.BadRequest(c, "That name is not on this invitation")
		case errors.Is(err, invsvc.ErrNotFound):
			return response.NotFound(c, err.Error())
		case errors.Is(err, invsvc.ErrConflict):
			return response.Conflict(c, err.Error(), true)
		default:
			log.Error().Err(err).Str("trace_id", middleware.GetTraceID(c)).Msg("save rsvp failed")
			return response.Internal(c, "Failed to save RSVP")
		}
	}
	log.Info().Str("code", inv.InvitationCode).Str("member", req.Member).Str("action", string(action)).Msg("rsvp recorded")
	return response.Success(c, "RSVP saved", viewOf(inv), nil)
}

// EventDetails is only revealed to guests holding a valid code.
type EventDetails struct {
	Date         string `json:"date"`
	Time         string `json:"time"`
	Location     string `json:"location"`
	Address      string `json:"address"`
	RSVPDeadline string `json:"rsvpDeadline"`
}

type RegistryLinks struct {
	VenmoURL  string `json:"venmoUrl,omitempty"`
	PayPalURL string `json:"paypalUrl,omitempty"`
}

type SiteInfo struct {
	CoupleNames string        `json:"coupleNames"`
	Registry    RegistryLinks `json:"registry"`
	Unlocked    bool          `json:"unlocked"`
	Event       *EventDetails `json:"event"`
}

// Site GET /api/v1/site: public site content plus the gated event details.
func (h *Handlers) Site(c *fiber.Ctx) error {
	info := SiteInfo{
		CoupleNames: h.Event.CoupleNames,
		Registry:    RegistryLinks{VenmoURL: h.Registry.VenmoURL, PayPalURL: h.Registry.PayPalURL},
	}
	if inv := h.resolve(c, middleware.InvitationCode(c)); inv != nil {
		info.Unlocked = true
		info.Event = &EventDetails{
			Date:         h.Event.Date,
			Time:         h.Event.Time,
			Location:     h.Event.Location,
			Address:      h.Event.Address,
			RSVPDeadline: h.Event.RSVPDeadline,
		}
	}
	return response.Success(c, "Site info", info, nil)
}
