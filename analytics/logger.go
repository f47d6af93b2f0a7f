package analytics

import (
	"os"

	"github.com/mohitkumar/cancelflow/model"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type LogFileOutcomeCollector struct {
	fileName string
	logger   *zap.Logger
}

func NewLogFileOutcomeCollector(fileName string) (*LogFileOutcomeCollector, error) {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.StacktraceKey = ""
	fileEncoder := zapcore.NewJSONEncoder(encoderConfig)
	logFile, err := os.OpenFile(fileName, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	writer := zapcore.AddSync(logFile)
	core := zapcore.NewTee(zapcore.NewCore(fileEncoder, writer, zapcore.InfoLevel))
	logger := zap.New(core)
	return &LogFileOutcomeCollector{
		fileName: fileName,
		logger:   logger,
	}, nil
}

func (lc *LogFileOutcomeCollector) RecordSubmission(userId string, subscriptionId string, variant model.Variant, accepted bool, reason string) {
	lc.logger.Info("submission",
		zap.String("userId", userId),
		zap.String("subscriptionId", subscriptionId),
		zap.String("variant", string(variant)),
		zap.Bool("accepted", accepted),
		zap.String("reason", reason))
}

func (lc *LogFileOutcomeCollector) RecordSubmissionFailure(userId string, subscriptionId string, variant model.Variant, reason string, cause string) {
	lc.logger.Info("submission_failure",
		zap.String("userId", userId),
		zap.String("subscriptionId", subscriptionId),
		zap.String("variant", string(variant)),
		zap.String("reason", reason),
		zap.String("cause", cause))
}
