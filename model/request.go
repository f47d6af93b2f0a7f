package model

// CancellationRequest is the body of POST /cancellation. AcceptedDownsell and
// Reason are pointers so that a missing field is distinguishable from a zero
// value, and a wrong-typed field fails JSON decoding outright.
type CancellationRequest struct {
	UserId           string  `json:"user_id"`
	SubscriptionId   string  `json:"subscription_id"`
	GetVariant       bool    `json:"get_variant,omitempty"`
	AcceptedDownsell *bool   `json:"accepted_downsell,omitempty"`
	Reason           *string `json:"reason,omitempty"`
}

type FlowStartRequest struct {
	UserId         string `json:"user_id"`
	SubscriptionId string `json:"subscription_id"`
}

type FlowActionRequest struct {
	Action string       `json:"action"`
	Value  *bool        `json:"value,omitempty"`
	Fields *FieldUpdate `json:"fields,omitempty"`
}

// FlowExecution is the view of an active flow returned to the shell. The shell
// renders from Step and uses the permission flags to enable or disable controls;
// it never needs to re-derive guards itself.
type FlowExecution struct {
	FlowId         string    `json:"flowId"`
	Variant        Variant   `json:"variant"`
	Step           FlowStep  `json:"step"`
	CompletedSteps int       `json:"completedSteps"`
	StepValid      bool      `json:"stepValid"`
	CanGoBack      bool      `json:"canGoBack"`
	Terminal       bool      `json:"terminal"`
	State          FlowState `json:"state"`
}
