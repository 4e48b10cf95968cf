package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/acme/intake-call-retry/internal/domain"
	"github.com/acme/intake-call-retry/internal/engine"
	"github.com/acme/intake-call-retry/internal/repository"
)

type decideRequest struct {
	PhoneNumber   string `json:"phone_number"`
	EndedReason   string `json:"ended_reason"`
	AttemptsSoFar *int   `json:"attempts_so_far"`
	Timezone      string `json:"timezone"`
}

type retryResponse struct {
	NextAttempt              int       `json:"next_attempt"`
	NextCallAt               time.Time `json:"next_call_at"`
	Timezone                 string    `json:"timezone"`
	DelayAppliedMinutes      float64   `json:"delay_applied_minutes"`
	AdjustedForBusinessHours bool      `json:"adjusted_for_business_hours"`
}

type exhaustedResponse struct {
	TotalAttempts  int    `json:"total_attempts"`
	FallbackAction string `json:"fallback_action"`
}

type decideResponse struct {
	Outcome   engine.Outcome     `json:"outcome"`
	Retry     *retryResponse     `json:"retry,omitempty"`
	Exhausted *exhaustedResponse `json:"exhausted,omitempty"`
}

// decide runs the engine for a posted end-of-call event. When the caller
// omits attempts_so_far the contact record supplies it.
func (h *HandlerSet) decide(ctx *fiber.Ctx) error {
	var req decideRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid request body")
	}
	if req.PhoneNumber == "" {
		return fiber.NewError(http.StatusBadRequest, "phone_number is required")
	}
	if req.EndedReason == "" {
		return fiber.NewError(http.StatusBadRequest, "ended_reason is required")
	}

	attempts := 0
	if req.AttemptsSoFar != nil {
		attempts = *req.AttemptsSoFar
	} else {
		contact, err := h.container.Repositories().Contacts.Get(ctx.Context(), req.PhoneNumber)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return translateError(err)
		}
		if contact != nil {
			attempts = contact.AttemptCount
		}
	}

	decision, err := h.engine.Decide(ctx.Context(), domain.EndOfCallEvent{
		PhoneNumber:   req.PhoneNumber,
		EndedReason:   req.EndedReason,
		AttemptsSoFar: attempts,
		Timezone:      req.Timezone,
	})
	if err != nil {
		return translateError(err)
	}

	return ctx.Status(http.StatusOK).JSON(toDecideResponse(decision))
}

func (h *HandlerSet) resolveTimezone(ctx *fiber.Ctx) error {
	phone := ctx.Query("phone")
	if phone == "" {
		return fiber.NewError(http.StatusBadRequest, "phone query parameter is required")
	}

	zone := h.engine.ResolveTimezone(phone)
	resp := fiber.Map{"phone_number": phone, "timezone": zone}
	if code, ok := h.engine.CountryCodeOf(phone); ok {
		resp["country_code"] = code
	}
	return ctx.Status(http.StatusOK).JSON(resp)
}

func (h *HandlerSet) checkBusinessHours(ctx *fiber.Ctx) error {
	zone := ctx.Query("timezone")
	if zone == "" {
		return fiber.NewError(http.StatusBadRequest, "timezone query parameter is required")
	}

	at := time.Now().UTC()
	if raw := ctx.Query("at"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return fiber.NewError(http.StatusBadRequest, "at must be RFC3339")
		}
		at = parsed
	}

	callable, err := h.engine.IsWithinBusinessHours(at, zone)
	if err != nil {
		return translateError(err)
	}

	return ctx.Status(http.StatusOK).JSON(fiber.Map{
		"at":       at,
		"timezone": zone,
		"callable": callable,
	})
}

func toDecideResponse(decision engine.Decision) decideResponse {
	resp := decideResponse{Outcome: decision.Outcome}
	switch decision.Outcome {
	case engine.OutcomeRetry:
		resp.Retry = &retryResponse{
			NextAttempt:              decision.Retry.NextAttempt,
			NextCallAt:               decision.Retry.NextCallAt,
			Timezone:                 decision.Retry.Timezone,
			DelayAppliedMinutes:      decision.Retry.DelayApplied.Minutes(),
			AdjustedForBusinessHours: decision.Retry.AdjustedForBusinessHours,
		}
	case engine.OutcomeExhausted:
		resp.Exhausted = &exhaustedResponse{
			TotalAttempts:  decision.Exhausted.TotalAttempts,
			FallbackAction: decision.Exhausted.FallbackAction,
		}
	}
	return resp
}
