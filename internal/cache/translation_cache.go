package cache

import (
	"errors"
	"fmt"
	"github.com/dgraph-io/ristretto"
	"go.uber.org/zap"
)

// TranslationCache is a read-through cache for expensive derived values such
// as LLM query translations. Eviction is based on LRU and LFU policies.
type TranslationCache[ValueType interface{}] interface {
	Get(key string) (ValueType, error)
	Put(key string, value ValueType) error
}

type TranslationCacheImpl[ValueType interface{}] struct {
	cache  *ristretto.Cache
	logger *zap.Logger
}

func NewTranslationCacheImpl[ValueType interface{}](
	cache *ristretto.Cache,
	logger *zap.Logger,
) *TranslationCacheImpl[ValueType] {
	return &TranslationCacheImpl[ValueType]{
		cache:  cache,
		logger: logger,
	}
}

func (tc *TranslationCacheImpl[ValueType]) Get(key string) (ValueType, error) {
	var zero ValueType
	value, found := tc.cache.Get(key)
	if !found {
		return zero, ErrKeyNotFound
	}
	typedValue, ok := value.(ValueType)
	if !ok {
		return zero, fmt.Errorf("value not of expected type %T returned from cache when getting", value)
	}
	return typedValue, nil
}

func (tc *TranslationCacheImpl[ValueType]) Put(key string, value ValueType) error {
	set := tc.cache.Set(key, value, 1)
	if !set {
		return ErrSetFailed
	}
	return nil
}

var (
	ErrKeyNotFound = errors.New("key not found within the cache")
	ErrSetFailed   = errors.New("failed to set value in cache")
)
