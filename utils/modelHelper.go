package utils

import (
	"context"
	"reflect"

	"bitbucket.org/mmdatafocus/store_backend/config"
)

/* DB fetching */

// fetch model from db by primary key
// (may return RecordNotFound)
func FetchModel[T any](ctx context.Context, id any, associations ...string) (*T, error) {

	db := config.GetDB()
	dbCtx := db.WithContext(ctx)
	// preloading
	for _, field := range associations {
		dbCtx = dbCtx.Preload(field)
	}
	var result T
	err := dbCtx.First(&result, "id = ?", id).Error
	if err != nil {
		return nil, ErrorRecordNotFound
	}
	return &result, nil
}

// fetch all models from db
func FetchAllModels[T any](ctx context.Context, associations ...string) ([]*T, error) {

	db := config.GetDB()
	dbCtx := db.WithContext(ctx)
	// preloading
	for _, field := range associations {
		dbCtx = dbCtx.Preload(field)
	}
	var results []*T
	err := dbCtx.Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

// read model list, redis or db, cache result
func ListModels[T any](ctx context.Context, associations ...string) ([]*T, error) {
	key := GetTypeName[T]() + "List"

	var results []*T
	if exists, err := config.GetRedisObject(key, &results); err != nil {
		return nil, err
	} else if exists {
		return results, nil
	}

	results, err := FetchAllModels[T](ctx, associations...)
	if err != nil {
		return nil, err
	}
	// caching; mutators call InvalidateList to drop the key
	if err := config.SetRedisObject(key, results, 0); err != nil {
		return nil, err
	}
	return results, nil
}

// drop the cached list for T after a mutation
func InvalidateList[T any]() error {
	return config.RemoveRedisKey(GetTypeName[T]() + "List")
}

func GetTypeName[T any]() string {
	var v T
	t := reflect.TypeOf(v)
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t == nil {
		return ""
	}
	return t.Name()
}
