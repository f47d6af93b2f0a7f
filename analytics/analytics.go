package analytics

import "github.com/mohitkumar/cancelflow/model"

type DataCollectorConfig struct {
	FileName      string
	CollectorType DataCollectorType
}

type DataCollectorType string

const LOG_FILE_DATA_COLLECTOR DataCollectorType = "LOG_FILE_DATA_COLLECTOR"
const NOOP_DATA_COLLECTOR DataCollectorType = "NOOP_DATA_COLLECTOR"

// OutcomeCollector is the observability sink for submission outcomes.
// Submission failures go here and nowhere else; they never reach flow state.
type OutcomeCollector interface {
	RecordSubmission(userId string, subscriptionId string, variant model.Variant, accepted bool, reason string)
	RecordSubmissionFailure(userId string, subscriptionId string, variant model.Variant, reason string, cause string)
}

var outcomeCollector OutcomeCollector

func InitDataCollector(config DataCollectorConfig) error {
	switch config.CollectorType {
	case LOG_FILE_DATA_COLLECTOR:
		c, err := NewLogFileOutcomeCollector(config.FileName)
		if err != nil {
			return err
		}
		outcomeCollector = c
	}
	return nil
}

func RecordSubmission(userId string, subscriptionId string, variant model.Variant, accepted bool, reason string) {
	if outcomeCollector == nil {
		return
	}
	outcomeCollector.RecordSubmission(userId, subscriptionId, variant, accepted, reason)
}

func RecordSubmissionFailure(userId string, subscriptionId string, variant model.Variant, reason string, cause string) {
	if outcomeCollector == nil {
		return
	}
	outcomeCollector.RecordSubmissionFailure(userId, subscriptionId, variant, reason, cause)
}
