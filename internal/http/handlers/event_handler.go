package handlers

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"tavola/internal/domain"
	applog "tavola/internal/log"
	"tavola/internal/repos"
)

// EventHandler serves restaurant events: public listing, admin management.
type EventHandler struct {
	Events *repos.EventRepo
}

type eventBody struct {
	Title            string `json:"title"`
	Description      string `json:"description"`
	EventDate        string `json:"event_date"`
	EventTime        string `json:"event_time"`
	ImageURL         string `json:"image_url"`
	IsActive         *bool  `json:"is_active"`
	SpecialMenuItems string `json:"special_menu_items"`
}

// parseEventDate accepts RFC 3339 or a bare date and stores RFC 3339.
func parseEventDate(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.Format(time.RFC3339), true
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t.Format(time.RFC3339), true
	}
	return "", false
}

func (h *EventHandler) List(c *fiber.Ctx) error {
	activeOnly := c.Query("active") != "false"
	upcomingOnly := c.Query("upcoming") == "true"
	events, err := h.Events.List(activeOnly, upcomingOnly)
	if err != nil {
		return apiError(c, "event.list", err)
	}
	if events == nil {
		events = []domain.Event{}
	}
	return c.JSON(events)
}

func (h *EventHandler) Get(c *fiber.Ctx) error {
	e, err := h.Events.Get(c.Params("id"))
	if errors.Is(err, sql.ErrNoRows) {
		return jsonError(c, fiber.StatusNotFound, "not found")
	}
	if err != nil {
		return apiError(c, "event.get", err)
	}
	return c.JSON(e)
}

func (h *EventHandler) Create(c *fiber.Ctx) error {
	var body eventBody
	if err := c.BodyParser(&body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid JSON body")
	}
	if strings.TrimSpace(body.Title) == "" {
		return jsonError(c, fiber.StatusBadRequest, "title is required")
	}
	date, ok := parseEventDate(body.EventDate)
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid event_date, expected ISO format")
	}

	e := domain.Event{
		ID:               uuid.NewString(),
		Title:            strings.TrimSpace(body.Title),
		Description:      body.Description,
		EventDate:        date,
		EventTime:        body.EventTime,
		ImageURL:         body.ImageURL,
		IsActive:         body.IsActive == nil || *body.IsActive,
		SpecialMenuItems: body.SpecialMenuItems,
	}
	if u := currentUser(c); u != nil {
		e.CreatedBy = u.ID
	}
	if err := h.Events.Create(e); err != nil {
		return apiError(c, "event.create", err)
	}
	applog.Audit(c, "event.create", map[string]any{"event": e.ID, "title": e.Title})
	created, err := h.Events.Get(e.ID)
	if err != nil {
		return apiError(c, "event.create", err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *EventHandler) Update(c *fiber.Ctx) error {
	e, err := h.Events.Get(c.Params("id"))
	if errors.Is(err, sql.ErrNoRows) {
		return jsonError(c, fiber.StatusNotFound, "not found")
	}
	if err != nil {
		return apiError(c, "event.update", err)
	}

	var body eventBody
	if err := c.BodyParser(&body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid JSON body")
	}
	if body.Title != "" {
		e.Title = strings.TrimSpace(body.Title)
	}
	if body.Description != "" {
		e.Description = body.Description
	}
	if body.EventDate != "" {
		date, ok := parseEventDate(body.EventDate)
		if !ok {
			return jsonError(c, fiber.StatusBadRequest, "invalid event_date, expected ISO format")
		}
		e.EventDate = date
	}
	if body.EventTime != "" {
		e.EventTime = body.EventTime
	}
	if body.ImageURL != "" {
		e.ImageURL = body.ImageURL
	}
	if body.IsActive != nil {
		e.IsActive = *body.IsActive
	}
	if body.SpecialMenuItems != "" {
		e.SpecialMenuItems = body.SpecialMenuItems
	}

	if err := h.Events.Update(e); err != nil {
		return apiError(c, "event.update", err)
	}
	applog.Audit(c, "event.update", map[string]any{"event": e.ID})
	updated, err := h.Events.Get(e.ID)
	if err != nil {
		return apiError(c, "event.update", err)
	}
	return c.JSON(updated)
}

func (h *EventHandler) ToggleActive(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := h.Events.Get(id); errors.Is(err, sql.ErrNoRows) {
		return jsonError(c, fiber.StatusNotFound, "not found")
	} else if err != nil {
		return apiError(c, "event.toggle", err)
	}
	active, err := h.Events.ToggleActive(id)
	if err != nil {
		return apiError(c, "event.toggle", err)
	}
	applog.Audit(c, "event.toggle", map[string]any{"event": id, "is_active": active})
	return c.JSON(fiber.Map{"id": id, "is_active": active})
}

func (h *EventHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := h.Events.Get(id); errors.Is(err, sql.ErrNoRows) {
		return jsonError(c, fiber.StatusNotFound, "not found")
	} else if err != nil {
		return apiError(c, "event.delete", err)
	}
	if err := h.Events.Delete(id); err != nil {
		return apiError(c, "event.delete", err)
	}
	applog.Audit(c, "event.delete", map[string]any{"event": id})
	return c.SendStatus(fiber.StatusNoContent)
}
