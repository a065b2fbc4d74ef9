package utils

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/aurifex/jewelry_backend/config"
)

var mutex sync.Mutex

/* generic functions */

func GetTypeName[T any]() string {
	var v T
	typeOfT := reflect.TypeOf(v)
	return typeOfT.Name()
}

/* Redis */

// store instance, obj should be a pointer
func StoreRedis[T any](obj any, id int) error {
	key := GetTypeName[T]() + ":" + fmt.Sprint(id)
	return config.SetRedisObject(key, &obj, 0)
}

// get from redis
// returns nil if does not exist
func RetrieveRedis[T any](id int) (*T, error) {
	var result *T
	key := GetTypeName[T]() + ":" + fmt.Sprint(id)
	exists, err := config.GetRedisObject(key, &result)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, nil
	}
	return result, nil
}

// remove an instance, Type:$id
func RemoveRedisItem[T any](id int) error {
	key := GetTypeName[T]() + ":" + fmt.Sprint(id)
	return config.RemoveRedisKey(key)
}

// GetSequence hands out the next store-scoped sequence number for a document
// type. Redis INCR is the fast path; on a cold counter the DB max(sequence_no)
// seeds it. The uniqueness re-check guards against a stale counter after a
// Redis flush.
func GetSequence[T any](ctx context.Context, storeId string) (int64, error) {
	// lock
	var model T
	mutex.Lock()
	defer mutex.Unlock()
	cacheKey := storeId + "-" + strings.ToLower(GetTypeName[T]()) + "_seq"
	var seqNo int64
	var err error
	db := config.GetDB()

	for {
		seqNo, err = config.GetRedisCounter(ctx, cacheKey)
		if err != nil {
			return 0, err
		}
		// if not found in redis, get from db
		if seqNo <= 1 {
			// get max seq no from db
			var dbSeq *int64
			if err := db.WithContext(ctx).Model(&model).Select("max(sequence_no)").
				Where("store_id = ?", storeId).
				Scan(&dbSeq).Error; err != nil {
				return 0, err
			}
			// in case db has no records yet
			if dbSeq == nil {
				seqNo = 0
			} else {
				seqNo = *dbSeq
			}
			// set redis
			seqNo++
			if err := config.SetRedisObject(cacheKey, &seqNo, 0); err != nil {
				return 0, err
			}
		}
		// check if sequence number exists in db
		err = ValidateUnique[T](ctx, storeId, "sequence_no", seqNo, 0)
		if err == nil {
			break
		}
	}
	return seqNo, nil
}
