package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pawaninkhiya/chawla-cabinets-backend/internal/database"
	"github.com/pawaninkhiya/chawla-cabinets-backend/internal/models"
)

const (
	ProductCacheTTL = 10 * time.Minute
	OptionsCacheTTL = time.Hour
)

const categoryOptionsKey = "categories:options"

// Tous les helpers dégradent silencieusement quand Redis est absent.

func GetProduct(ctx context.Context, id string) (*models.Product, bool) {
	if database.RedisClient == nil {
		return nil, false
	}
	data, err := database.RedisClient.Get(ctx, "product:"+id).Result()
	if err != nil {
		return nil, false
	}
	var product models.Product
	if json.Unmarshal([]byte(data), &product) != nil {
		return nil, false
	}
	return &product, true
}

func SetProduct(ctx context.Context, product *models.Product) {
	if database.RedisClient == nil {
		return
	}
	if data, err := json.Marshal(product); err == nil {
		database.RedisClient.Set(ctx, "product:"+product.ID.Hex(), data, ProductCacheTTL)
	}
}

func InvalidateProduct(ctx context.Context, id string) {
	if database.RedisClient == nil {
		return
	}
	database.RedisClient.Del(ctx, "product:"+id)
}

func GetCategoryOptions(ctx context.Context) ([]models.CategoryOption, bool) {
	if database.RedisClient == nil {
		return nil, false
	}
	data, err := database.RedisClient.Get(ctx, categoryOptionsKey).Result()
	if err != nil {
		return nil, false
	}
	var opts []models.CategoryOption
	if json.Unmarshal([]byte(data), &opts) != nil {
		return nil, false
	}
	return opts, true
}

func SetCategoryOptions(ctx context.Context, opts []models.CategoryOption) {
	if database.RedisClient == nil {
		return
	}
	if data, err := json.Marshal(opts); err == nil {
		database.RedisClient.Set(ctx, categoryOptionsKey, data, OptionsCacheTTL)
	}
}

func InvalidateCategoryOptions(ctx context.Context) {
	if database.RedisClient == nil {
		return
	}
	database.RedisClient.Del(ctx, categoryOptionsKey)
}
