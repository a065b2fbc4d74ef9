package utils

import (
	"context"
	"reflect"

	"github.com/aurifex/jewelry_backend/config"
)

// check if id exists, using storeId in WHERE, return RecordNotFound error
func ValidateResourceId[T any](ctx context.Context, storeId string, id interface{}) error {

	count, err := ResourceCountWhere[T](ctx, storeId, "id = ?", id)
	if err != nil {
		return err
	}
	if count <= 0 {
		return ErrorRecordNotFound
	}

	return nil
}

// check if ALL ids exist, using storeId in WHERE, return RecordNotFound error
func ValidateResourcesId[M any, ID comparable](ctx context.Context, storeId string, ids []ID) error {
	unqIds := UniqueSlice(ids)

	count, err := ResourceCountWhere[M](ctx, storeId, "id IN ?", unqIds)
	if err != nil {
		return err
	}
	if count != int64(len(unqIds)) {
		return ErrorRecordNotFound
	}

	return nil
}

func ValidateUnique[T any](ctx context.Context, storeId string, column string, value interface{}, exceptId interface{}) error {
	var count int64
	var err error
	if reflect.ValueOf(exceptId).IsZero() {
		count, err = ResourceCountWhere[T](ctx, storeId, column+" = ?", value)
	} else {
		count, err = ResourceCountWhere[T](ctx, storeId, column+" = ? AND NOT id = ?", value, exceptId)
	}

	if err != nil {
		return err
	}
	if count > 0 {
		return &DuplicateValueError{Column: column}
	}
	return nil
}

// count records, using WHERE store_id = ? AND $condition
// store_id can be blank for internal ops tooling
func ResourceCountWhere[T any](ctx context.Context, storeId string, condition string, value ...interface{}) (int64, error) {
	var model T

	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Model(&model)
	var count int64
	if storeId != "" {
		dbCtx.Where("store_id = ?", storeId)
	}
	dbCtx.Where(condition, value...)
	if err := dbCtx.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
