package services

import (
	"context"
	"encoding/json"
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

const categoriesCacheKey = "cachedCategories"

type CategoryServiceImpl struct {
	categoryCollection *mongo.Collection
	cache              kv.Store
	publisher          *events.Publisher
}

func NewCategoryService(cache kv.Store, publisher *events.Publisher) *CategoryServiceImpl {
	return &CategoryServiceImpl{
		categoryCollection: util.GetCollection(util.DB, "Category"),
		cache:              cache,
		publisher:          publisher,
	}
}

func (s *CategoryServiceImpl) GetCategories(ctx context.Context) ([]models.Category, error) {
	if raw, err := s.cache.Get(ctx, categoriesCacheKey); err == nil {
		var cached []models.Category
		if err := json.Unmarshal([]byte(raw), &cached); err == nil {
			return cached, nil
		}
		util.LogWarning("discarding unreadable categories cache entry")
	}

	find := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := s.categoryCollection.Find(ctx, bson.D{}, find)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	categories := []models.Category{}
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(categories); err == nil {
		if err := s.cache.Set(ctx, categoriesCacheKey, string(raw)); err != nil {
			util.LogWarning("failed to cache category list: " + err.Error())
		}
	}
	return categories, nil
}

func (s *CategoryServiceImpl) GetCategory(ctx context.Context, identifier string) (*models.Category, error) {
	var filter bson.M
	if objectID, err := primitive.ObjectIDFromHex(identifier); err == nil {
		filter = bson.M{"_id": objectID}
	} else if util.IsSlug(identifier) {
		filter = bson.M{"slug": identifier}
	} else {
		return nil, errors.Errorf("invalid category identifier: %s", identifier)
	}

	var category models.Category
	if err := s.categoryCollection.FindOne(ctx, filter).Decode(&category); err != nil {
		return nil, err
	}
	return &category, nil
}

func (s *CategoryServiceImpl) CreateCategory(ctx context.Context, req models.CategoryRequest) (primitive.ObjectID, error) {
	now := time.Now()
	category := models.Category{
		Id:          primitive.NewObjectID(),
		Name:        req.Name,
		Slug:        util.Slugify(req.Name),
		Description: req.Description,
		Image:       req.Image,
		CreatedAt:   now,
		ModifiedAt:  now,
	}

	if _, err := s.categoryCollection.InsertOne(ctx, category); err != nil {
		return primitive.NilObjectID, err
	}
	s.invalidateCategories(ctx)
	return category.Id, nil
}

func (s *CategoryServiceImpl) UpdateCategory(ctx context.Context, categoryID primitive.ObjectID, req models.CategoryRequest) error {
	update := bson.M{"$set": bson.M{
		"name":        req.Name,
		"slug":        util.Slugify(req.Name),
		"description": req.Description,
		"image":       req.Image,
		"modified_at": time.Now(),
	}}

	result, err := s.categoryCollection.UpdateOne(ctx, bson.M{"_id": categoryID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	s.invalidateCategories(ctx)
	return nil
}

func (s *CategoryServiceImpl) DeleteCategory(ctx context.Context, categoryID primitive.ObjectID) error {
	result, err := s.categoryCollection.DeleteOne(ctx, bson.M{"_id": categoryID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	s.invalidateCategories(ctx)
	return nil
}

func (s *CategoryServiceImpl) invalidateCategories(ctx context.Context) {
	if err := s.cache.Delete(ctx, categoriesCacheKey); err != nil && !errors.Is(err, kv.ErrNotFound) {
		util.LogWarning("failed to invalidate categories cache: " + err.Error())
	}
	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, events.CacheInvalidateCategories, ""); err != nil {
			util.LogWarning("failed to publish category invalidation: " + err.Error())
		}
	}
}
