// Package web provides the HTTP API for automation rules, trigger
// injection, CRM records and application settings.
package web

import "github.com/nudgecrm/nudge/pkg/models"

// CreateRuleRequest is the request body for creating an automation rule.
// IsActive defaults to true when omitted.
type CreateRuleRequest struct {
	Name        string              `json:"name"        validate:"required,min=3"`
	Description string              `json:"description"`
	IsActive    *bool               `json:"isActive,omitempty"`
	Trigger     models.TriggerItem  `json:"trigger"     validate:"required"`
	Actions     []models.ActionItem `json:"actions"`
}

// UpdateDealStageRequest moves a deal to a new pipeline stage.
type UpdateDealStageRequest struct {
	Stage models.DealStage `json:"stage" validate:"required,oneof=lead proposal negotiation closed"`
}

// ActionResultResponse is the wire form of one action outcome.
type ActionResultResponse struct {
	RuleID string `json:"ruleId"`
	Action string `json:"action"`
	Output any    `json:"output,omitempty"`
	Error  string `json:"error,omitempty"`
}

// DispatchResponse is the wire form of a trigger dispatch summary.
type DispatchResponse struct {
	Trigger string                 `json:"trigger"`
	Matched int                    `json:"matched"`
	Failed  int                    `json:"failed"`
	Results []ActionResultResponse `json:"results"`
}

// TransformDispatchResponse converts a dispatch result for the wire, since
// raw errors do not serialize.
func TransformDispatchResponse(result models.DispatchResult) DispatchResponse {
	response := DispatchResponse{
		Trigger: string(result.Trigger),
		Matched: result.Matched,
		Failed:  result.Failed(),
		Results: make([]ActionResultResponse, 0, len(result.Results)),
	}

	for _, actionResult := range result.Results {
		entry := ActionResultResponse{
			RuleID: actionResult.RuleID,
			Action: string(actionResult.Action),
			Output: actionResult.Output,
		}

		if actionResult.Err != nil {
			entry.Error = actionResult.Err.Error()
		}

		response.Results = append(response.Results, entry)
	}

	return response
}
