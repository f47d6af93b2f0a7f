package config

import (
	"github.com/mohitkumar/cancelflow/analytics"
)

type StorageType string

const STORAGE_TYPE_REDIS StorageType = "redis"
const STORAGE_TYPE_INMEM StorageType = "memory"

type Config struct {
	RedisConfig        RedisStorageConfig
	HttpPort           int
	StorageType        StorageType
	AnalyticsConfig    analytics.DataCollectorConfig
	SessionTtlMinutes  int
	SubmissionCapacity int
}

type RedisStorageConfig struct {
	Addrs     []string
	Namespace string
}
