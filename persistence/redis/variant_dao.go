package redis

import (
	"context"

	rd "github.com/go-redis/redis/v9"
	"github.com/mohitkumar/cancelflow/model"
	"github.com/mohitkumar/cancelflow/persistence"
	"github.com/mohitkumar/cancelflow/util"
)

const VARIANT_KEY string = "VARIANT"

var _ persistence.VariantDao = new(redisVariantDao)

type redisVariantDao struct {
	*baseDao
	encoderDecoder util.EncoderDecoder[model.VariantRecord]
}

func newRedisVariantDao(baseDao *baseDao) *redisVariantDao {
	return &redisVariantDao{
		baseDao:        baseDao,
		encoderDecoder: util.NewJsonEncoderDecoder[model.VariantRecord](),
	}
}

func (r *redisVariantDao) GetVariant(ctx context.Context, userId string, subscriptionId string) (*model.VariantRecord, error) {
	key := r.baseDao.getNamespaceKey(VARIANT_KEY)
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

func (r *redisVariantDao) CreateVariant(ctx context.Context, record model.VariantRecord) (model.VariantRecord, error) {
	key := r.baseDao.getNamespaceKey(VARIANT_KEY)
	field := identityField(record.UserId, record.SubscriptionId)
	data, err := r.encoderDecoder.Encode(record)
	if err != nil {
		return model.VariantRecord{}, err
	}
	// HSetNX is the uniqueness constraint on the identity pair: the first
	// writer wins, a losing writer reads back the persisted assignment.
	created, err := r.baseDao.redisClient.HSetNX(ctx, key, field, string(data)).Result()
	if err != nil {
		return model.VariantRecord{}, persistence.StorageLayerError{Message: err.Error()}
	}
	if created {
		return record, nil
	}
	existing, err := r.GetVariant(ctx, record.UserId, record.SubscriptionId)
	if err != nil {
		return model.VariantRecord{}, err
	}
	if existing == nil {
		return model.VariantRecord{}, persistence.StorageLayerError{Message: "variant record lost after insert conflict"}
	}
	return *existing, nil
}
