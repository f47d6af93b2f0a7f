package model

type ActionType string

const ACTION_ANSWER ActionType = "ANSWER"
const ACTION_SUBMIT ActionType = "SUBMIT"
const ACTION_ACCEPT ActionType = "ACCEPT"
const ACTION_NEXT ActionType = "NEXT"
const ACTION_BACK ActionType = "BACK"
const ACTION_UPDATE ActionType = "UPDATE"

// FieldUpdate is a partial update of the collectable answer fields. Nil fields
// are left untouched. HasJob and HasLawyer are deliberately absent; those are
// set only by an ANSWER action on their question step.
type FieldUpdate struct {
	FoundJobWithPlatform          *bool               `json:"foundJobWithPlatform,omitempty"`
	RolesApplied                  *RangeOption        `json:"rolesApplied,omitempty"`
	CompaniesEmailed              *RangeOption        `json:"companiesEmailed,omitempty"`
	CompaniesInterviewed          *RangeOption        `json:"companiesInterviewed,omitempty"`
	Feedback                      *string             `json:"feedback,omitempty"`
	VisaType                      *string             `json:"visaType,omitempty"`
	RetentionRolesApplied         *RangeOption        `json:"retentionRolesApplied,omitempty"`
	RetentionCompaniesEmailed     *RangeOption        `json:"retentionCompaniesEmailed,omitempty"`
	RetentionCompaniesInterviewed *RangeOption        `json:"retentionCompaniesInterviewed,omitempty"`
	CancellationReason            *CancellationReason `json:"cancellationReason,omitempty"`
	MaxPrice                      *string             `json:"maxPrice,omitempty"`
	ReasonFeedback                *string             `json:"reasonFeedback,omitempty"`
}

// Action is a discrete user action applied to a flow state. Value carries the
// boolean payload of ANSWER and ACCEPT; Fields carries the UPDATE payload.
type Action struct {
	Type   ActionType
	Value  bool
	Fields *FieldUpdate
}

func AnswerAction(value bool) Action {
	return Action{Type: ACTION_ANSWER, Value: value}
}

func SubmitAction() Action {
	return Action{Type: ACTION_SUBMIT}
}

func AcceptAction(value bool) Action {
	return Action{Type: ACTION_ACCEPT, Value: value}
}

func NextAction() Action {
	return Action{Type: ACTION_NEXT}
}

func BackAction() Action {
	return Action{Type: ACTION_BACK}
}

func UpdateAction(fields FieldUpdate) Action {
	return Action{Type: ACTION_UPDATE, Fields: &fields}
}

// Submission is the outcome report emitted by a transition. The ambient
// identity pair and variant are attached by the flow execution service.
type Submission struct {
	Accepted bool
	Reason   string
}

type SubmissionRequest struct {
	UserId         string
	SubscriptionId string
	Variant        Variant
	Accepted       bool
	Reason         string
}
