package utils

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aurifex/jewelry_backend/config"
	"github.com/bsm/redislock"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/ttacon/libphonenumber"
)

// CountryCode is the default region used to parse phone numbers given
// without an international prefix.
var CountryCode = "US"

// ValidatePhoneNumber checks that the number parses and is a valid number for
// the region.
func ValidatePhoneNumber(phoneNumber string, countryCode string) error {
	num, err := libphonenumber.Parse(phoneNumber, countryCode)
	if err != nil {
		return err
	}
	if !libphonenumber.IsValidNumber(num) {
		return errors.New("phone number is not valid")
	}
	return nil
}

func ProcessValidationErrors(err error) map[string]string {

	validationErrors := err.(validator.ValidationErrors)

	errorResponse := make(map[string]string)

	for _, ve := range validationErrors {
		errorResponse[ve.Field()] = ve.Tag()
	}

	return errorResponse
}

func NewTrue() *bool {
	b := true
	return &b
}

func NewFalse() *bool {
	b := false
	return &b
}

func UniqueSlice[T comparable](slice []T) []T {
	keys := make(map[T]bool)
	list := []T{}
	for _, entry := range slice {
		if _, value := keys[entry]; !value {
			keys[entry] = true
			list = append(list, entry)
		}
	}
	return list
}

func DereferencePtr[T any](ptr *T, defaults ...T) T {
	if ptr != nil {
		return *ptr
	}
	var def T
	if len(defaults) > 0 {
		def = defaults[0]
	}
	return def
}

// ParseDecimal converts a string to a decimal.Decimal value.
func ParseDecimal(value string) (decimal.Decimal, error) {
	// Remove any whitespace and check for empty strings
	value = strings.TrimSpace(value)
	if value == "" {
		return decimal.Zero, errors.New("empty decimal string")
	}

	dec, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, err
	}

	return dec, nil
}

// StoreLock obtains a short-lived per-store lock and returns its release func.
// Callers must defer the release so the lock is held across the whole
// critical section (stock mutations for one store are serialized through it).
func StoreLock(ctx context.Context, storeId string, lockType string, moduleName string, functionName string) (func(), error) {
	logger := config.GetLogger()
	locker := config.GetRedisLock()
	if locker == nil {
		// Avoid nil-pointer panics when Redis lock isn't initialized yet.
		config.LogError(logger, moduleName, functionName, "Redis lock not initialized", storeId, errors.New("redis lock is nil"))
		return nil, errors.New("service not ready (redis lock not initialized)")
	}
	lockKey := fmt.Sprintf("%s:%s", lockType, storeId)
	lock, err := locker.Obtain(ctx, lockKey, 30*time.Second, nil)
	if err == redislock.ErrNotObtained {
		config.LogError(logger, moduleName, functionName, "Could not obtain lock for store", storeId, err)
		return nil, errors.New("could not obtain lock for store")
	} else if err != nil {
		config.LogError(logger, moduleName, functionName, "Error obtaining lock for store", storeId, err)
		return nil, err
	}

	return func() { _ = lock.Release(context.WithoutCancel(ctx)) }, nil
}
