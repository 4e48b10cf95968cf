package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/acme/intake-call-retry/internal/domain"
)

type contactResponse struct {
	ID            uuid.UUID  `json:"id"`
	PhoneNumber   string     `json:"phone_number"`
	Timezone      string     `json:"timezone"`
	AttemptCount  int        `json:"attempt_count"`
	EndedReason   *string    `json:"ended_reason,omitempty"`
	LastCallAt    *time.Time `json:"last_call_time,omitempty"`
	NextCallAt    *time.Time `json:"next_call_scheduled,omitempty"`
	NeedsFollowUp bool       `json:"needs_followup"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

type outcomeResponse struct {
	ID             uuid.UUID  `json:"id"`
	Attempt        int        `json:"attempt"`
	EndedReason    string     `json:"ended_reason"`
	Outcome        string     `json:"outcome"`
	Timezone       string     `json:"timezone"`
	NextCallAt     *time.Time `json:"next_call_at,omitempty"`
	FallbackAction string     `json:"fallback_action,omitempty"`
	RecordedAt     time.Time  `json:"recorded_at"`
}

func (h *HandlerSet) getContact(ctx *fiber.Ctx) error {
	phone := ctx.Params("phone")

	contact, err := h.container.Repositories().Contacts.Get(ctx.Context(), phone)
	if err != nil {
		return translateError(err)
	}

	return ctx.Status(http.StatusOK).JSON(toContactResponse(contact))
}

// listDueContacts returns contacts whose scheduled call time has passed,
// ordered soonest first. Useful for spotting a stalled dial worker.
func (h *HandlerSet) listDueContacts(ctx *fiber.Ctx) error {
	limit := ctx.QueryInt("limit", 50)

	before := time.Now().UTC()
	if raw := ctx.Query("before"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return fiber.NewError(http.StatusBadRequest, "before must be RFC3339")
		}
		before = parsed
	}

	contacts, err := h.container.Repositories().Contacts.ListDue(ctx.Context(), before, limit)
	if err != nil {
		return translateError(err)
	}

	resp := make([]contactResponse, 0, len(contacts))
	for _, c := range contacts {
		resp = append(resp, toContactResponse(c))
	}

	return ctx.Status(http.StatusOK).JSON(fiber.Map{"before": before, "contacts": resp})
}

func (h *HandlerSet) listOutcomes(ctx *fiber.Ctx) error {
	phone := ctx.Params("phone")
	limit := ctx.QueryInt("limit", 50)

	outcomes, err := h.container.Repositories().Outcomes.ListByPhone(ctx.Context(), phone, limit)
	if err != nil {
		return translateError(err)
	}

	resp := make([]outcomeResponse, 0, len(outcomes))
	for _, o := range outcomes {
		resp = append(resp, outcomeResponse{
			ID:             o.ID,
			Attempt:        o.Attempt,
			EndedReason:    o.EndedReason,
			Outcome:        o.Outcome,
			Timezone:       o.Timezone,
			NextCallAt:     o.NextCallAt,
			FallbackAction: o.FallbackAction,
			RecordedAt:     o.RecordedAt,
		})
	}

	return ctx.Status(http.StatusOK).JSON(fiber.Map{"phone_number": phone, "outcomes": resp})
}

func toContactResponse(contact *domain.Contact) contactResponse {
	return contactResponse{
		ID:            contact.ID,
		PhoneNumber:   contact.PhoneNumber,
		Timezone:      contact.Timezone,
		AttemptCount:  contact.AttemptCount,
		EndedReason:   contact.EndedReason,
		LastCallAt:    contact.LastCallAt,
		NextCallAt:    contact.NextCallAt,
		NeedsFollowUp: contact.NeedsFollowUp,
		CreatedAt:     contact.CreatedAt,
		UpdatedAt:     contact.UpdatedAt,
	}
}
