package web

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/nudgecrm/nudge/pkg/crm"
	"github.com/nudgecrm/nudge/pkg/models"
	"github.com/nudgecrm/nudge/pkg/persistence"
	"github.com/nudgecrm/nudge/pkg/protocol"
	"github.com/nudgecrm/nudge/pkg/registry"
	"github.com/nudgecrm/nudge/pkg/rules"
	"github.com/nudgecrm/nudge/pkg/settings"
)

type APIHandlers struct {
	ruleStore  *rules.Store
	crmStore   *crm.Store
	settings   *settings.Store
	dispatcher protocol.Dispatcher
	registry   *registry.Registry
	blobs      persistence.BlobRepository
	validator  *validator.Validate
}

func NewAPIHandlers(
	ruleStore *rules.Store,
	crmStore *crm.Store,
	settingsStore *settings.Store,
	dispatcher protocol.Dispatcher,
	registry *registry.Registry,
	blobs persistence.BlobRepository,
) *APIHandlers {
	return &APIHandlers{
		ruleStore:  ruleStore,
		crmStore:   crmStore,
		settings:   settingsStore,
		dispatcher: dispatcher,
		registry:   registry,
		blobs:      blobs,
		validator:  validator.New(),
	}
}

func (h *APIHandlers) HealthCheck(c fiber.Ctx) error {
	err := h.blobs.HealthCheck(c.Context())

	status := "healthy"
	message := "Nudge API is healthy"
	httpStatus := http.StatusOK

	if err != nil {
		status = "unhealthy"
		message = "Nudge API is unhealthy: " + err.Error()
		httpStatus = http.StatusInternalServerError
	}

	return c.Status(httpStatus).JSON(fiber.Map{
		"status":    status,
		"message":   message,
		"timestamp": time.Now().UTC(),
	})
}

func (h *APIHandlers) GetRules(c fiber.Ctx) error {
	return c.JSON(h.ruleStore.List())
}

func (h *APIHandlers) GetRule(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Rule ID is required")
	}

	rule := h.ruleStore.Get(id)
	if rule == nil {
		return notFound(c, "Rule not found")
	}

	return c.JSON(rule)
}

func (h *APIHandlers) CreateRule(c fiber.Ctx) error {
	var req CreateRuleRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	if err := h.validateRuleSemantics(req.Trigger, req.Actions); err != nil {
		return badRequest(c, err.Error())
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	created, err := h.ruleStore.Add(c.Context(), models.AutomationRule{
		Name:        req.Name,
		Description: req.Description,
		IsActive:    isActive,
		Trigger:     req.Trigger,
		Actions:     req.Actions,
	})
	if err != nil {
		return internalError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *APIHandlers) UpdateRule(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Rule ID is required")
	}

	var patch models.RulePatch
	if err := c.Bind().JSON(&patch); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if patch.Trigger != nil || patch.Actions != nil {
		trigger := patch.Trigger
		if trigger == nil {
			existing := h.ruleStore.Get(id)
			if existing == nil {
				return notFound(c, "Rule not found")
			}

			trigger = &existing.Trigger
		}

		actions := []models.ActionItem{}
		if patch.Actions != nil {
			actions = *patch.Actions
		}

		if err := h.validateRuleSemantics(*trigger, actions); err != nil {
			return badRequest(c, err.Error())
		}
	}

	updated, err := h.ruleStore.Update(c.Context(), id, patch)
	if err != nil {
		return internalError(c, err)
	}

	if updated == nil {
		return notFound(c, "Rule not found")
	}

	return c.JSON(updated)
}

func (h *APIHandlers) DeleteRule(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Rule ID is required")
	}

	// Deleting an unknown rule is a no-op, same as the store.
	err := h.ruleStore.Remove(c.Context(), id)
	if err != nil {
		return internalError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// GetActions lists the registered action types.
func (h *APIHandlers) GetActions(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"actions": h.registry.AvailableActions()})
}

// InjectTrigger dispatches an ad-hoc trigger event with a free-form JSON
// context, useful for testing rules and for external integrations.
func (h *APIHandlers) InjectTrigger(c fiber.Ctx) error {
	trigger := models.TriggerType(c.Params("type"))
	if !models.KnownTriggerType(trigger) {
		return badRequest(c, fmt.Sprintf("Unknown trigger type '%s'", trigger))
	}

	data := map[string]any{}
	if len(c.Body()) > 0 {
		if err := c.Bind().JSON(&data); err != nil {
			return badRequest(c, "Invalid JSON format")
		}
	}

	result := h.dispatcher.ProcessTrigger(c.Context(), trigger, models.MapContext{Data: data})

	return c.JSON(TransformDispatchResponse(result))
}

func (h *APIHandlers) GetSettings(c fiber.Ctx) error {
	return c.JSON(h.settings.Get())
}

func (h *APIHandlers) UpdateSettings(c fiber.Ctx) error {
	var patch settings.Patch
	if err := c.Bind().JSON(&patch); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if patch.Theme != nil && *patch.Theme != "light" && *patch.Theme != "dark" {
		return badRequest(c, "Theme must be 'light' or 'dark'")
	}

	updated, err := h.settings.Update(c.Context(), patch)
	if err != nil {
		return internalError(c, err)
	}

	return c.JSON(updated)
}

func (h *APIHandlers) GetLanguages(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"languages": settings.AvailableLanguages})
}

func (h *APIHandlers) GetContacts(c fiber.Ctx) error {
	return c.JSON(h.crmStore.ListContacts(c.Context()))
}

func (h *APIHandlers) CreateContact(c fiber.Ctx) error {
	var contact models.Contact
	if err := c.Bind().JSON(&contact); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(contact); err != nil {
		return badRequest(c, err.Error())
	}

	created, err := h.crmStore.AddContact(c.Context(), contact)
	if err != nil {
		return internalError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *APIHandlers) FlagFollowUp(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Contact ID is required")
	}

	err := h.crmStore.FlagFollowUp(c.Context(), id)
	if err != nil {
		return notFound(c, "Contact not found")
	}

	return c.SendStatus(fiber.StatusAccepted)
}

func (h *APIHandlers) GetDeals(c fiber.Ctx) error {
	return c.JSON(h.crmStore.ListDeals(c.Context()))
}

func (h *APIHandlers) UpdateDealStage(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Deal ID is required")
	}

	var req UpdateDealStageRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	updated, err := h.crmStore.UpdateDealStage(c.Context(), id, req.Stage)
	if err != nil {
		return notFound(c, "Deal not found")
	}

	return c.JSON(updated)
}

func (h *APIHandlers) GetTasks(c fiber.Ctx) error {
	return c.JSON(h.crmStore.ListTasks(c.Context()))
}

func (h *APIHandlers) CreateTask(c fiber.Ctx) error {
	var draft models.NewTask
	if err := c.Bind().JSON(&draft); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(draft); err != nil {
		return badRequest(c, err.Error())
	}

	created, err := h.crmStore.CreateTask(c.Context(), draft)
	if err != nil {
		return internalError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *APIHandlers) UpdateTask(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Task ID is required")
	}

	var patch models.TaskPatch
	if err := c.Bind().JSON(&patch); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(patch); err != nil {
		return badRequest(c, err.Error())
	}

	updated, err := h.crmStore.UpdateTask(c.Context(), id, patch)
	if err != nil {
		return notFound(c, "Task not found")
	}

	return c.JSON(updated)
}

func (h *APIHandlers) ToggleTask(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Task ID is required")
	}

	toggled, err := h.crmStore.ToggleTaskStatus(c.Context(), id)
	if err != nil {
		return notFound(c, "Task not found")
	}

	return c.JSON(toggled)
}

func (h *APIHandlers) DeleteTask(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Task ID is required")
	}

	err := h.crmStore.DeleteTask(c.Context(), id)
	if err != nil {
		return notFound(c, "Task not found")
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *APIHandlers) GetActivities(c fiber.Ctx) error {
	return c.JSON(h.crmStore.ListActivities(c.Context()))
}

func (h *APIHandlers) AddActivity(c fiber.Ctx) error {
	var activity models.Activity
	if err := c.Bind().JSON(&activity); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if activity.ContactID == "" {
		return badRequest(c, "Contact ID is required")
	}

	created, err := h.crmStore.AddActivity(c.Context(), activity)
	if err != nil {
		return internalError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

// validateRuleSemantics checks the parts the struct validator cannot: the
// trigger type must be known and every action's params must satisfy its
// registered schema.
func (h *APIHandlers) validateRuleSemantics(trigger models.TriggerItem, actions []models.ActionItem) error {
	if !models.KnownTriggerType(trigger.Type) {
		return fmt.Errorf("unknown trigger type '%s'", trigger.Type)
	}

	for _, cond := range trigger.Conditions {
		if cond.Field == "" {
			return fmt.Errorf("condition field is required")
		}
	}

	for _, action := range actions {
		err := h.registry.ValidateActionParams(string(action.Type), action.Params)
		if err != nil {
			return err
		}
	}

	return nil
}
