package flow

import (
	"fmt"

	"github.com/mohitkumar/cancelflow/model"
)

const ACCEPTED_OFFER_REASON = "Accepted retention offer"
const VISA_FLOW_REASON = "Completed visa support flow"

// reasonRoutes maps the selected cancellation reason to the follow-up step.
// An unset or unmatched reason falls through to retention-final.
var reasonRoutes = map[model.CancellationReason]model.FlowStep{
	model.REASON_TOO_EXPENSIVE:        model.STEP_RETENTION_PRICE,
	model.REASON_PLATFORM_NOT_HELPFUL: model.STEP_RETENTION_PLATFORM,
	model.REASON_NOT_ENOUGH_JOBS:      model.STEP_RETENTION_JOBS,
	model.REASON_DECIDED_NOT_TO_MOVE:  model.STEP_RETENTION_MOVE,
	model.REASON_OTHER:                model.STEP_RETENTION_OTHER,
}

// backTargets is a static map, not the inverse of the forward graph. Steps
// absent here have no back target and BACK from them is a no-op.
var backTargets = map[model.FlowStep]model.FlowStep{
	model.STEP_SURVEY:           model.STEP_JOB_QUESTION,
	model.STEP_FEEDBACK:         model.STEP_SURVEY,
	model.STEP_CONGRATULATIONS:  model.STEP_FEEDBACK,
	model.STEP_VISA_SUPPORT:     model.STEP_CONGRATULATIONS,
	model.STEP_VISA_YES:         model.STEP_VISA_SUPPORT,
	model.STEP_VISA_NO:          model.STEP_VISA_SUPPORT,
	model.STEP_RETENTION_SURVEY: model.STEP_RETENTION_OFFER,
	model.STEP_RETENTION_REASON: model.STEP_RETENTION_SURVEY,
	model.STEP_RETENTION_PRICE:  model.STEP_RETENTION_REASON,
}

var terminalSteps = map[model.FlowStep]bool{
	model.STEP_SUCCESS:            true,
	model.STEP_SUCCESS_ALT:        true,
	model.STEP_RETENTION_ACCEPTED: true,
	model.STEP_RETENTION_FINAL:    true,
}

func IsTerminal(step model.FlowStep) bool {
	return terminalSteps[step]
}

func BackTarget(step model.FlowStep) (model.FlowStep, bool) {
	target, ok := backTargets[step]
	return target, ok
}

// Transition computes the next flow state for a user action, plus an optional
// outcome submission the caller must dispatch. It is pure and total: a
// disallowed action returns the state unchanged with a nil submission, never
// an error and never an undefined step.
func Transition(state model.FlowState, action model.Action) (model.FlowState, *model.Submission) {
	switch action.Type {
	case model.ACTION_BACK:
		return goBack(state), nil
	case model.ACTION_UPDATE:
		return applyUpdate(state, action.Fields), nil
	}

	switch state.Step {
	case model.STEP_JOB_QUESTION:
		if action.Type == model.ACTION_ANSWER {
			value := action.Value
			state.HasJob = &value
			if value {
				return advance(state, model.STEP_SURVEY), nil
			}
			return advance(state, model.STEP_RETENTION_OFFER), nil
		}
	case model.STEP_SURVEY:
		if action.Type == model.ACTION_SUBMIT && SurveyValid(state) {
			return advance(state, model.STEP_FEEDBACK), nil
		}
	case model.STEP_FEEDBACK:
		if action.Type == model.ACTION_SUBMIT && FeedbackValid(state) {
			return advance(state, model.STEP_CONGRATULATIONS), nil
		}
	case model.STEP_CONGRATULATIONS:
		if action.Type == model.ACTION_NEXT {
			return advance(state, model.STEP_VISA_SUPPORT), nil
		}
	case model.STEP_VISA_SUPPORT:
		if action.Type == model.ACTION_ANSWER {
			value := action.Value
			state.HasLawyer = &value
			if value {
				return advance(state, model.STEP_VISA_YES), nil
			}
			return advance(state, model.STEP_VISA_NO), nil
		}
	case model.STEP_VISA_YES, model.STEP_VISA_NO:
		if action.Type == model.ACTION_SUBMIT && VisaDetailsValid(state) {
			next := model.STEP_SUCCESS_ALT
			if state.HasLawyer != nil && *state.HasLawyer {
				next = model.STEP_SUCCESS
			}
			return advance(state, next), &model.Submission{Accepted: false, Reason: VISA_FLOW_REASON}
		}
	case model.STEP_RETENTION_OFFER:
		if action.Type == model.ACTION_ACCEPT {
			if action.Value {
				return acceptOffer(state)
			}
			return advance(state, model.STEP_RETENTION_SURVEY), nil
		}
	case model.STEP_RETENTION_SURVEY:
		if action.Type == model.ACTION_ACCEPT && action.Value {
			return acceptOffer(state)
		}
		if action.Type == model.ACTION_SUBMIT && RetentionSurveyValid(state) {
			return advance(state, model.STEP_RETENTION_REASON), nil
		}
	case model.STEP_RETENTION_REASON:
		if action.Type == model.ACTION_ACCEPT && action.Value {
			return acceptOffer(state)
		}
		if action.Type == model.ACTION_SUBMIT {
			// no guard here: an unset or unmatched reason falls through to
			// retention-final, a defensive duplicate of the advisory
			// ReasonSelected predicate
			return advance(state, routeByReason(state.CancellationReason)), nil
		}
	case model.STEP_RETENTION_PRICE:
		if action.Type == model.ACTION_SUBMIT && PriceValid(state) {
			reason := fmt.Sprintf("Too expensive - willing to pay: $%s", state.MaxPrice)
			return advance(state, model.STEP_RETENTION_FINAL), &model.Submission{Accepted: false, Reason: reason}
		}
	case model.STEP_RETENTION_PLATFORM, model.STEP_RETENTION_JOBS,
		model.STEP_RETENTION_MOVE, model.STEP_RETENTION_OTHER:
		if action.Type == model.ACTION_ACCEPT && action.Value {
			return acceptOffer(state)
		}
		if action.Type == model.ACTION_SUBMIT && ReasonFeedbackValid(state) {
			reason := fmt.Sprintf("%s: %s", state.CancellationReason, state.ReasonFeedback)
			return advance(state, model.STEP_RETENTION_FINAL), &model.Submission{Accepted: false, Reason: reason}
		}
	}
	return state, nil
}

func advance(state model.FlowState, next model.FlowStep) model.FlowState {
	state.Step = next
	state.CompletedSteps++
	return state
}

func acceptOffer(state model.FlowState) (model.FlowState, *model.Submission) {
	return advance(state, model.STEP_RETENTION_ACCEPTED),
		&model.Submission{Accepted: true, Reason: ACCEPTED_OFFER_REASON}
}

func goBack(state model.FlowState) model.FlowState {
	target, ok := backTargets[state.Step]
	if !ok {
		return state
	}
	state.Step = target
	if target == model.STEP_VISA_SUPPORT {
		// force a fresh answer on re-entry
		state.HasLawyer = nil
	}
	if state.CompletedSteps > 0 {
		state.CompletedSteps--
	}
	return state
}

func routeByReason(reason model.CancellationReason) model.FlowStep {
	if next, ok := reasonRoutes[reason]; ok {
		return next
	}
	return model.STEP_RETENTION_FINAL
}

func applyUpdate(state model.FlowState, fields *model.FieldUpdate) model.FlowState {
	if fields == nil {
		return state
	}
	if fields.FoundJobWithPlatform != nil {
		value := *fields.FoundJobWithPlatform
		state.FoundJobWithPlatform = &value
	}
	if fields.RolesApplied != nil {
		state.RolesApplied = *fields.RolesApplied
	}
	if fields.CompaniesEmailed != nil {
		state.CompaniesEmailed = *fields.CompaniesEmailed
	}
	if fields.CompaniesInterviewed != nil {
		state.CompaniesInterviewed = *fields.CompaniesInterviewed
	}
	if fields.Feedback != nil {
		state.Feedback = *fields.Feedback
	}
	if fields.VisaType != nil {
		state.VisaType = *fields.VisaType
	}
	if fields.RetentionRolesApplied != nil {
		state.RetentionRolesApplied = *fields.RetentionRolesApplied
	}
	if fields.RetentionCompaniesEmailed != nil {
		state.RetentionCompaniesEmailed = *fields.RetentionCompaniesEmailed
	}
	if fields.RetentionCompaniesInterviewed != nil {
		state.RetentionCompaniesInterviewed = *fields.RetentionCompaniesInterviewed
	}
	if fields.CancellationReason != nil {
		state.CancellationReason = *fields.CancellationReason
	}
	if fields.MaxPrice != nil {
		state.MaxPrice = *fields.MaxPrice
	}
	if fields.ReasonFeedback != nil {
		state.ReasonFeedback = *fields.ReasonFeedback
	}
	return state
}
