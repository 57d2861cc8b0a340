package game

import (
	"context"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
)

type RedisHandStateTracker struct {
	rdclient *redis.Client
}

func NewRedisHandStateTracker(redisURL string, redisPW string, redisDB int) *RedisHandStateTracker {
	rdclient := redis.NewClient(&redis.Options{
		Addr:     redisURL,
		Password: redisPW,
		DB:       redisDB,
	})
	return &RedisHandStateTracker{
		rdclient: rdclient,
	}
}

func (r *RedisHandStateTracker) Load(tableID string) (*HandState, error) {
	handStateBytes, err := r.rdclient.Get(context.Background(), tableID).Result()
	if err == redis.Nil {
		return nil, UnknownTableError{TableID: tableID}
	} else if err != nil {
		return nil, errors.Wrapf(err, "loading table %s", tableID)
	}
	handState := &HandState{}
	if err := json.Unmarshal([]byte(handStateBytes), handState); err != nil {
		return nil, errors.Wrapf(err, "decoding table %s", tableID)
	}
	return handState, nil
}

func (r *RedisHandStateTracker) Save(handState *HandState) error {
	stateInBytes, err := json.Marshal(handState)
	if err != nil {
		return err
	}
	return r.rdclient.Set(context.Background(), handState.TableID, stateInBytes, 0).Err()
}

func (r *RedisHandStateTracker) Remove(tableID string) error {
	return r.rdclient.Del(context.Background(), tableID).Err()
}
