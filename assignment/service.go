package assignment

import (
	"context"
	"crypto/rand"
	"math/big"
	"strings"
	"time"

	api "github.com/mohitkumar/cancelflow/api/v1"
	"github.com/mohitkumar/cancelflow/logger"
	"github.com/mohitkumar/cancelflow/model"
	"github.com/mohitkumar/cancelflow/persistence"
	c "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// Service hands out the experiment bucket for an identity pair: read-or-create,
// idempotent, never two different variants for the same pair.
type Service interface {
	GetOrAssignVariant(ctx context.Context, userId string, subscriptionId string) (model.Variant, error)
}

type ServiceImpl struct {
	variants persistence.VariantDao
	cache    *c.Cache
}

func NewService(variants persistence.VariantDao) Service {
	return &ServiceImpl{
		variants: variants,
		cache:    c.New(c.NoExpiration, 10*time.Minute),
	}
}

func (s *ServiceImpl) GetOrAssignVariant(ctx context.Context, userId string, subscriptionId string) (model.Variant, error) {
	if strings.TrimSpace(userId) == "" || strings.TrimSpace(subscriptionId) == "" {
		return "", api.InvalidIdentityError{}
	}
	cacheKey := userId + ":" + subscriptionId
	if cached, found := s.cache.Get(cacheKey); found {
		return cached.(model.Variant), nil
	}
	record, err := s.variants.GetVariant(ctx, userId, subscriptionId)
	if err != nil {
		return "", api.AssignmentStorageError{Err: err}
	}
	if record == nil {
		variant, err := drawVariant()
		if err != nil {
			return "", api.AssignmentStorageError{Err: err}
		}
		stored, err := s.variants.CreateVariant(ctx, model.VariantRecord{
			UserId:         userId,
			SubscriptionId: subscriptionId,
			Variant:        variant,
		})
		if err != nil {
			return "", api.AssignmentStorageError{Err: err}
		}
		logger.Info("assigned variant",
			zap.String("userId", userId),
			zap.String("subscriptionId", subscriptionId),
			zap.String("variant", string(stored.Variant)))
		record = &stored
	}
	s.cache.Set(cacheKey, record.Variant, c.NoExpiration)
	return record.Variant, nil
}

// drawVariant draws one uniformly random bit from a cryptographically strong
// source. No byte-parity tricks; the bit itself is the assignment.
func drawVariant() (model.Variant, error) {
	bit, err := rand.Int(rand.Reader, big.NewInt(2))
	if err != nil {
		return "", err
	}
	if bit.Int64() == 0 {
		return model.VARIANT_A, nil
	}
	return model.VARIANT_B, nil
}
