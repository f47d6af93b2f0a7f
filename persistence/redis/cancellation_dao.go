package redis

import (
	"context"

	rd "github.com/go-redis/redis/v9"
	"github.com/mohitkumar/cancelflow/model"
	"github.com/mohitkumar/cancelflow/persistence"
	"github.com/mohitkumar/cancelflow/util"
)

const CANCELLATION_KEY string = "CANCELLATION"
const SUBSCRIPTION_KEY string = "SUBSCRIPTION"

var _ persistence.CancellationDao = new(redisCancellationDao)

type redisCancellationDao struct {
	*baseDao
	encoderDecoder util.EncoderDecoder[model.CancellationRecord]
}

func newRedisCancellationDao(baseDao *baseDao) *redisCancellationDao {
	return &redisCancellationDao{
		baseDao:        baseDao,
		encoderDecoder: util.NewJsonEncoderDecoder[model.CancellationRecord](),
	}
}

func (r *redisCancellationDao) SaveCancellation(ctx context.Context, record model.CancellationRecord) error {
	key := r.baseDao.getNamespaceKey(CANCELLATION_KEY)
	data, err := r.encoderDecoder.Encode(record)
	if err != nil {
		return err
	}
	field := identityField(record.UserId, record.SubscriptionId)
	if err := r.baseDao.redisClient.HSet(ctx, key, field, string(data)).Err(); err != nil {
		return persistence.StorageLayerError{Message: err.Error()}
	}
	return nil
}

func (r *redisCancellationDao) GetCancellation(ctx context.Context, userId string, subscriptionId string) (*model.CancellationRecord, error) {
	key := r.baseDao.getNamespaceKey(CANCELLATION_KEY)
	data, err := r.baseDao.redisClient.HGet(ctx, key, identityField(userId, subscriptionId)).Result()
	if err == rd.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, persistence.StorageLayerError{Message: err.Error()}
	}
	record, err := r.encoderDecoder.Decode([]byte(data))
	if err != nil {
		return nil, err
	}
	return record, nil
}

var _ persistence.SubscriptionDao = new(redisSubscriptionDao)

type redisSubscriptionDao struct {
	*baseDao
}

func newRedisSubscriptionDao(baseDao *baseDao) *redisSubscriptionDao {
	return &redisSubscriptionDao{baseDao: baseDao}
}

func (r *redisSubscriptionDao) UpdateStatus(ctx context.Context, userId string, subscriptionId string, status model.SubscriptionStatus) error {
	key := r.baseDao.getNamespaceKey(SUBSCRIPTION_KEY)
	field := identityField(userId, subscriptionId)
	if err := r.baseDao.redisClient.HSet(ctx, key, field, string(status)).Err(); err != nil {
		return persistence.StorageLayerError{Message: err.Error()}
	}
	return nil
}

func (r *redisSubscriptionDao) GetStatus(ctx context.Context, userId string, subscriptionId string) (model.SubscriptionStatus, error) {
	key := r.baseDao.getNamespaceKey(SUBSCRIPTION_KEY)
	status, err := r.baseDao.redisClient.HGet(ctx, key, identityField(userId, subscriptionId)).Result()
	if err == rd.Nil {
		return model.SUBSCRIPTION_ACTIVE, nil
	}
	if err != nil {
		return "", persistence.StorageLayerError{Message: err.Error()}
	}
	return model.SubscriptionStatus(status), nil
}
