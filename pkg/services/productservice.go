package services

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/Art-Code2025/perfumes-sub001/internal/events"
	"github.com/Art-Code2025/perfumes-sub001/internal/kv"
	"github.com/Art-Code2025/perfumes-sub001/pkg/models"
	"github.com/Art-Code2025/perfumes-sub001/pkg/util"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const productsCacheKey = "cachedAllProducts"

type ProductServiceImpl struct {
	productCollection *mongo.Collection
	cache             kv.Store
	publisher         *events.Publisher
}

func NewProductService(cache kv.Store, publisher *events.Publisher) *ProductServiceImpl {
	return &ProductServiceImpl{
		productCollection: util.GetCollection(util.DB, "Product"),
		cache:             cache,
		publisher:         publisher,
	}
}

// productIdentifierBson accepts either a hex object id or a slug, so
// storefront URLs can use human readable paths.
func productIdentifierBson(identifier string) (bson.M, error) {
	identifier = strings.TrimSpace(identifier)
	if objectID, err := primitive.ObjectIDFromHex(identifier); err == nil {
		return bson.M{"_id": objectID}, nil
	}
	if util.IsSlug(identifier) {
		return bson.M{"slug": identifier}, nil
	}
	return nil, errors.Errorf("invalid product identifier: %s", identifier)
}

func (s *ProductServiceImpl) GetProduct(ctx context.Context, identifier string) (*models.Product, error) {
	filter, err := productIdentifierBson(identifier)
	if err != nil {
		return nil, err
	}

	var product models.Product
	if err := s.productCollection.FindOne(ctx, filter).Decode(&product); err != nil {
		return nil, err
	}
	return &product, nil
}

// GetProducts serves active products, preferring the instant-paint cache and
// falling back to Mongo. A cache miss repopulates the cache for the next
// caller.
func (s *ProductServiceImpl) GetProducts(ctx context.Context) ([]models.Product, error) {
	if raw, err := s.cache.Get(ctx, productsCacheKey); err == nil {
		var cached []models.Product
		if err := json.Unmarshal([]byte(raw), &cached); err == nil {
			return cached, nil
		}
		util.LogWarning("discarding unreadable products cache entry")
	}

	find := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := s.productCollection.Find(ctx, bson.M{"is_active": true}, find)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	products := []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(products); err == nil {
		if err := s.cache.Set(ctx, productsCacheKey, string(raw)); err != nil {
			util.LogWarning("failed to cache product list: " + err.Error())
		}
	}
	return products, nil
}

func (s *ProductServiceImpl) GetProductsByCategory(ctx context.Context, categoryID primitive.ObjectID, pagination util.PaginationArgs) ([]models.Product, int64, error) {
	filter := bson.M{"category_id": categoryID, "is_active": true}

	count, err := s.productCollection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	find := options.Find().
		SetSort(util.GetCreatedSortBson(pagination.Sort)).
		SetLimit(int64(pagination.Limit)).
		SetSkip(int64(pagination.Skip))
	cursor, err := s.productCollection.Find(ctx, filter, find)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	products := []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, 0, err
	}
	return products, count, nil
}

func (s *ProductServiceImpl) SearchProducts(ctx context.Context, query string, pagination util.PaginationArgs) ([]models.Product, int64, error) {
	filter := bson.M{
		"is_active": true,
		"$or": []bson.M{
			{"name": bson.M{"$regex": query, "$options": "i"}},
			{"description": bson.M{"$regex": query, "$options": "i"}},
		},
	}

	count, err := s.productCollection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	find := options.Find().
		SetSort(util.GetCreatedSortBson(pagination.Sort)).
		SetLimit(int64(pagination.Limit)).
		SetSkip(int64(pagination.Skip))
	cursor, err := s.productCollection.Find(ctx, filter, find)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	products := []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, 0, err
	}
	return products, count, nil
}

func parseCategoryID(raw string) (primitive.ObjectID, error) {
	if strings.TrimSpace(raw) == "" {
		return primitive.NilObjectID, nil
	}
	return primitive.ObjectIDFromHex(strings.TrimSpace(raw))
}

func (s *ProductServiceImpl) CreateProduct(ctx context.Context, req models.ProductRequest) (primitive.ObjectID, error) {
	categoryID, err := parseCategoryID(req.CategoryId)
	if err != nil {
		return primitive.NilObjectID, errors.Wrap(err, "invalid category id")
	}

	now := time.Now()
	product := models.Product{
		Id:            primitive.NewObjectID(),
		Name:          req.Name,
		Slug:          util.Slugify(req.Name),
		Description:   req.Description,
		CategoryId:    categoryID,
		Price:         req.Price,
		OriginalPrice: req.OriginalPrice,
		MainImage:     req.MainImage,
		Images:        req.Images,
		Stock:         req.Stock,
		Options:       req.Options,
		IsActive:      true,
		CreatedAt:     now,
		ModifiedAt:    now,
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}

	if _, err := s.productCollection.InsertOne(ctx, product); err != nil {
		return primitive.NilObjectID, err
	}
	s.invalidateProducts(ctx, product.Id)
	return product.Id, nil
}

func (s *ProductServiceImpl) UpdateProduct(ctx context.Context, productID primitive.ObjectID, req models.ProductRequest) error {
	categoryID, err := parseCategoryID(req.CategoryId)
	if err != nil {
		return errors.Wrap(err, "invalid category id")
	}

	set := bson.M{
		"name":           req.Name,
		"slug":           util.Slugify(req.Name),
		"description":    req.Description,
		"category_id":    categoryID,
		"price":          req.Price,
		"original_price": req.OriginalPrice,
		"main_image":     req.MainImage,
		"images":         req.Images,
		"stock":          req.Stock,
		"options":        req.Options,
		"modified_at":    time.Now(),
	}
	if req.IsActive != nil {
		set["is_active"] = *req.IsActive
	}

	result, err := s.productCollection.UpdateOne(ctx, bson.M{"_id": productID}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	s.invalidateProducts(ctx, productID)
	return nil
}

func (s *ProductServiceImpl) UpdateProductStock(ctx context.Context, productID primitive.ObjectID, delta int) error {
	update := bson.M{
		"$inc": bson.M{"stock": delta},
		"$set": bson.M{"modified_at": time.Now()},
	}
	result, err := s.productCollection.UpdateOne(ctx, bson.M{"_id": productID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	s.invalidateProducts(ctx, productID)
	return nil
}

// DeleteProduct deactivates instead of removing, so existing cart snapshots
// and orders keep resolving their product references.
func (s *ProductServiceImpl) DeleteProduct(ctx context.Context, productID primitive.ObjectID) error {
	update := bson.M{"$set": bson.M{"is_active": false, "modified_at": time.Now()}}
	result, err := s.productCollection.UpdateOne(ctx, bson.M{"_id": productID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	s.invalidateProducts(ctx, productID)
	return nil
}

func (s *ProductServiceImpl) invalidateProducts(ctx context.Context, productID primitive.ObjectID) {
	if err := s.cache.Delete(ctx, productsCacheKey); err != nil && !errors.Is(err, kv.ErrNotFound) {
		util.LogWarning("failed to invalidate products cache: " + err.Error())
	}
	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, events.CacheInvalidateProduct, productID.Hex()); err != nil {
			util.LogWarning("failed to publish product invalidation: " + err.Error())
		}
	}
}
