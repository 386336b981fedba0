// Package engine dispatches trigger events against the rule set and runs
// the actions of every rule that matches.
package engine

import (
	"context"
	"log/slog"

	"github.com/nudgecrm/nudge/pkg/eventbus"
	"github.com/nudgecrm/nudge/pkg/events"
	"github.com/nudgecrm/nudge/pkg/log"
	"github.com/nudgecrm/nudge/pkg/models"
	"github.com/nudgecrm/nudge/pkg/otelhelper"
	"github.com/nudgecrm/nudge/pkg/registry"
	"github.com/nudgecrm/nudge/pkg/rules"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Scanner is a background trigger source the engine owns the lifecycle of.
type Scanner interface {
	Start(ctx context.Context)
	Stop()
}

type Engine struct {
	rules    *rules.Store
	registry *registry.Registry
	bus      eventbus.EventBus
	scanners []Scanner
	tracer   trace.Tracer
	logger   *slog.Logger
}

// NewEngine wires the dispatcher. bus may be nil when no event-driven
// triggers are needed; tracer may be nil to disable tracing.
func NewEngine(ruleStore *rules.Store, reg *registry.Registry, bus eventbus.EventBus, tracer trace.Tracer, scanners ...Scanner) *Engine {
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("engine")
	}

	return &Engine{
		rules:    ruleStore,
		registry: reg,
		bus:      bus,
		scanners: scanners,
		tracer:   tracer,
		logger:   log.WithModule("engine"),
	}
}

// AddScanner hands the engine a trigger source to own. Call before Start.
func (e *Engine) AddScanner(scanner Scanner) {
	e.scanners = append(e.scanners, scanner)
}

// ProcessTrigger runs every active rule listening for the trigger whose
// conditions all hold against the context. Matching rules run their actions
// in order; a failing action is recorded and the rest still run.
func (e *Engine) ProcessTrigger(ctx context.Context, trigger models.TriggerType, tc models.TriggerContext) models.DispatchResult {
	ctx, span := otelhelper.StartSpan(ctx, e.tracer, "engine.process_trigger",
		attribute.String(otelhelper.TriggerTypeKey, string(trigger)),
		attribute.String(otelhelper.ContactIDKey, tc.ContactID()),
	)
	defer span.End()

	result := models.DispatchResult{Trigger: trigger}

	for _, rule := range e.rules.List() {
		if !rule.IsActive || rule.Trigger.Type != trigger {
			continue
		}

		if !e.conditionsHold(rule, tc) {
			continue
		}

		result.Matched++

		e.logger.Info("Rule matched",
			"rule_id", rule.ID, "rule_name", rule.Name, "trigger", trigger)

		result.Results = append(result.Results, e.runActions(ctx, rule, tc)...)
	}

	span.SetAttributes(
		attribute.Int("nudge.rules.matched", result.Matched),
		attribute.Int("nudge.actions.failed", result.Failed()),
	)

	return result
}

func (e *Engine) conditionsHold(rule *models.AutomationRule, tc models.TriggerContext) bool {
	for _, cond := range rule.Trigger.Conditions {
		if !rules.EvaluateCondition(tc, cond) {
			return false
		}
	}

	return true
}

func (e *Engine) runActions(ctx context.Context, rule *models.AutomationRule, tc models.TriggerContext) []models.ActionResult {
	results := make([]models.ActionResult, 0, len(rule.Actions))

	for _, item := range rule.Actions {
		results = append(results, e.runAction(ctx, rule, item, tc))
	}

	return results
}

func (e *Engine) runAction(ctx context.Context, rule *models.AutomationRule, item models.ActionItem, tc models.TriggerContext) models.ActionResult {
	ctx, span := otelhelper.StartSpan(ctx, e.tracer, "engine.run_action",
		attribute.String(otelhelper.RuleIDKey, rule.ID),
		attribute.String(otelhelper.ActionTypeKey, string(item.Type)),
	)
	defer span.End()

	result := models.ActionResult{RuleID: rule.ID, Action: item.Type}

	action, err := e.registry.CreateAction(string(item.Type), item.Params)
	if err != nil {
		e.logger.Error("Failed to create action",
			"rule_id", rule.ID, "action", item.Type, "error", err)
		otelhelper.SetError(span, err)
		result.Err = err

		return result
	}

	output, err := action.Execute(ctx, tc, e.logger.With("rule_id", rule.ID, "action", item.Type))
	if err != nil {
		e.logger.Error("Action failed",
			"rule_id", rule.ID, "action", item.Type, "error", err)
		otelhelper.SetError(span, err)
		result.Err = err

		return result
	}

	result.Output = output

	return result
}

// Start subscribes the engine to domain events and launches the scanners.
func (e *Engine) Start(ctx context.Context) error {
	if e.bus != nil {
		e.bus.Handle(events.DealStageChangedEvent, func(ctx context.Context, event any) error {
			typed, ok := event.(*events.DealStageChanged)
			if !ok {
				return nil
			}

			e.ProcessTrigger(ctx, models.TriggerDealStageChange, models.DealContext{
				Deal:          typed.Deal,
				PreviousStage: typed.PreviousStage,
			})

			return nil
		})

		e.bus.Handle(events.TaskAssignedEvent, func(ctx context.Context, event any) error {
			typed, ok := event.(*events.TaskAssigned)
			if !ok {
				return nil
			}

			e.ProcessTrigger(ctx, models.TriggerTaskAssigned, models.TaskContext{Task: typed.Task})

			return nil
		})

		e.bus.Handle(events.FollowUpNeededEvent, func(ctx context.Context, event any) error {
			typed, ok := event.(*events.FollowUpNeeded)
			if !ok {
				return nil
			}

			e.ProcessTrigger(ctx, models.TriggerFollowUpNeeded, models.ContactContext{Contact: typed.Contact})

			return nil
		})

		err := e.bus.Subscribe(ctx)
		if err != nil {
			return err
		}
	}

	for _, scanner := range e.scanners {
		scanner.Start(ctx)
	}

	e.logger.Info("Automation engine started", "scanners", len(e.scanners))

	return nil
}

// Stop halts the scanners. The event bus is owned by the caller.
func (e *Engine) Stop() {
	for _, scanner := range e.scanners {
		scanner.Stop()
	}

	e.logger.Info("Automation engine stopped")
}
