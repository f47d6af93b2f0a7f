package flow

import (
	"strings"

	"github.com/mohitkumar/cancelflow/model"
)

const MIN_FEEDBACK_LENGTH = 25

func SurveyValid(state model.FlowState) bool {
	return state.FoundJobWithPlatform != nil &&
		state.RolesApplied != "" &&
		state.CompaniesEmailed != "" &&
		state.CompaniesInterviewed != ""
}

func RetentionSurveyValid(state model.FlowState) bool {
	return state.RetentionRolesApplied != "" &&
		state.RetentionCompaniesEmailed != "" &&
		state.RetentionCompaniesInterviewed != ""
}

func FeedbackValid(state model.FlowState) bool {
	return len(state.Feedback) >= MIN_FEEDBACK_LENGTH
}

func ReasonFeedbackValid(state model.FlowState) bool {
	return len(state.ReasonFeedback) >= MIN_FEEDBACK_LENGTH
}

func VisaDetailsValid(state model.FlowState) bool {
	return strings.TrimSpace(state.VisaType) != ""
}

func PriceValid(state model.FlowState) bool {
	return strings.TrimSpace(state.MaxPrice) != ""
}

func ReasonSelected(state model.FlowState) bool {
	return state.CancellationReason != ""
}

// StepValid reports whether the current step's primary forward action is
// permitted. Steps whose forward move carries no guard are always valid;
// terminal steps never are.
func StepValid(state model.FlowState) bool {
	switch state.Step {
	case model.STEP_JOB_QUESTION, model.STEP_CONGRATULATIONS,
		model.STEP_VISA_SUPPORT, model.STEP_RETENTION_OFFER:
		return true
	case model.STEP_SURVEY:
		return SurveyValid(state)
	case model.STEP_FEEDBACK:
		return FeedbackValid(state)
	case model.STEP_VISA_YES, model.STEP_VISA_NO:
		return VisaDetailsValid(state)
	case model.STEP_RETENTION_SURVEY:
		return RetentionSurveyValid(state)
	case model.STEP_RETENTION_REASON:
		return ReasonSelected(state)
	case model.STEP_RETENTION_PRICE:
		return PriceValid(state)
	case model.STEP_RETENTION_PLATFORM, model.STEP_RETENTION_JOBS,
		model.STEP_RETENTION_MOVE, model.STEP_RETENTION_OTHER:
		return ReasonFeedbackValid(state)
	}
	return false
}

// ActionAllowed reports whether the action is currently permitted. It is
// advisory: the shell uses it to enable controls, and the transition function
// treats a disallowed action as a no-op rather than an error. The one
// divergence is submit on retention-reason, where the transition additionally
// carries a defensive fallback to retention-final should the advisory guard
// be bypassed.
func ActionAllowed(state model.FlowState, action model.Action) bool {
	switch action.Type {
	case model.ACTION_UPDATE:
		return true
	case model.ACTION_BACK:
		_, ok := backTargets[state.Step]
		return ok
	case model.ACTION_ANSWER:
		return state.Step == model.STEP_JOB_QUESTION || state.Step == model.STEP_VISA_SUPPORT
	case model.ACTION_NEXT:
		return state.Step == model.STEP_CONGRATULATIONS
	case model.ACTION_ACCEPT:
		switch state.Step {
		case model.STEP_RETENTION_OFFER:
			return true
		case model.STEP_RETENTION_SURVEY, model.STEP_RETENTION_REASON,
			model.STEP_RETENTION_PLATFORM, model.STEP_RETENTION_JOBS,
			model.STEP_RETENTION_MOVE, model.STEP_RETENTION_OTHER:
			return action.Value
		}
		return false
	case model.ACTION_SUBMIT:
		switch state.Step {
		case model.STEP_SURVEY, model.STEP_FEEDBACK, model.STEP_VISA_YES,
			model.STEP_VISA_NO, model.STEP_RETENTION_SURVEY,
			model.STEP_RETENTION_REASON, model.STEP_RETENTION_PRICE,
			model.STEP_RETENTION_PLATFORM, model.STEP_RETENTION_JOBS,
			model.STEP_RETENTION_MOVE, model.STEP_RETENTION_OTHER:
			return StepValid(state)
		}
		return false
	}
	return false
}
