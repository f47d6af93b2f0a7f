package model

type Variant string

const VARIANT_A Variant = "A"
const VARIANT_B Variant = "B"

// FlowStep is one named screen in the cancellation wizard's directed graph.
// The set is closed; the transition function never produces a step outside it.
type FlowStep string

const STEP_JOB_QUESTION FlowStep = "job-question"
const STEP_SURVEY FlowStep = "survey"
const STEP_FEEDBACK FlowStep = "feedback"
const STEP_CONGRATULATIONS FlowStep = "congratulations"
const STEP_VISA_SUPPORT FlowStep = "visa-support"
const STEP_VISA_YES FlowStep = "visa-yes"
const STEP_VISA_NO FlowStep = "visa-no"
const STEP_SUCCESS FlowStep = "success"
const STEP_SUCCESS_ALT FlowStep = "success-alt"
const STEP_RETENTION_OFFER FlowStep = "retention-offer"
const STEP_RETENTION_ACCEPTED FlowStep = "retention-accepted"
const STEP_RETENTION_SURVEY FlowStep = "retention-survey"
const STEP_RETENTION_REASON FlowStep = "retention-reason"
const STEP_RETENTION_PRICE FlowStep = "retention-price"
const STEP_RETENTION_PLATFORM FlowStep = "retention-platform"
const STEP_RETENTION_JOBS FlowStep = "retention-jobs"
const STEP_RETENTION_MOVE FlowStep = "retention-move"
const STEP_RETENTION_OTHER FlowStep = "retention-other"
const STEP_RETENTION_FINAL FlowStep = "retention-final"

// RangeOption is a bucketed answer to the "how many" survey questions.
type RangeOption string

const RANGE_ZERO RangeOption = "0"
const RANGE_ONE_TO_FIVE RangeOption = "1-5"
const RANGE_SIX_TO_TWENTY RangeOption = "6-20"
const RANGE_TWENTY_PLUS RangeOption = "20+"

type CancellationReason string

const REASON_TOO_EXPENSIVE CancellationReason = "Too expensive"
const REASON_PLATFORM_NOT_HELPFUL CancellationReason = "Platform not helpful"
const REASON_NOT_ENOUGH_JOBS CancellationReason = "Not enough relevant jobs"
const REASON_DECIDED_NOT_TO_MOVE CancellationReason = "Decided not to move"
const REASON_OTHER CancellationReason = "Other"

// FlowState is the full aggregate a cancellation wizard collects. It is owned
// by the flow transition function; callers hold the only mutable reference and
// replace the value wholesale after each transition.
type FlowState struct {
	Step                          FlowStep           `json:"step"`
	HasJob                        *bool              `json:"hasJob,omitempty"`
	FoundJobWithPlatform          *bool              `json:"foundJobWithPlatform,omitempty"`
	RolesApplied                  RangeOption        `json:"rolesApplied,omitempty"`
	CompaniesEmailed              RangeOption        `json:"companiesEmailed,omitempty"`
	CompaniesInterviewed          RangeOption        `json:"companiesInterviewed,omitempty"`
	Feedback                      string             `json:"feedback,omitempty"`
	HasLawyer                     *bool              `json:"hasLawyer,omitempty"`
	VisaType                      string             `json:"visaType,omitempty"`
	RetentionRolesApplied         RangeOption        `json:"retentionRolesApplied,omitempty"`
	RetentionCompaniesEmailed     RangeOption        `json:"retentionCompaniesEmailed,omitempty"`
	RetentionCompaniesInterviewed RangeOption        `json:"retentionCompaniesInterviewed,omitempty"`
	CancellationReason            CancellationReason `json:"cancellationReason,omitempty"`
	MaxPrice                      string             `json:"maxPrice,omitempty"`
	ReasonFeedback                string             `json:"reasonFeedback,omitempty"`
	CompletedSteps                int                `json:"completedSteps"`
}

func NewFlowState() FlowState {
	return FlowState{
		Step: STEP_JOB_QUESTION,
	}
}
