package redis

import (
	"github.com/mohitkumar/cancelflow/persistence"
)

var _ persistence.Storage = new(redisStorage)

type redisStorage struct {
	variants      *redisVariantDao
	cancellations *redisCancellationDao
	subscriptions *redisSubscriptionDao
}

func NewRedisStorage(conf Config) *redisStorage {
	baseDao := newBaseDao(conf)
	return &redisStorage{
		variants:      newRedisVariantDao(baseDao),
		cancellations: newRedisCancellationDao(baseDao),
		subscriptions: newRedisSubscriptionDao(baseDao),
	}
}

func (s *redisStorage) Variants() persistence.VariantDao {
	return s.variants
}

func (s *redisStorage) Cancellations() persistence.CancellationDao {
	return s.cancellations
}

func (s *redisStorage) Subscriptions() persistence.SubscriptionDao {
	return s.subscriptions
}
