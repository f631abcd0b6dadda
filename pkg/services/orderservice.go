package services

import (
	"context"
	"math/rand"
	"time"

	"github.com/Art-Code2025/perfumes-sub001/pkg/models"
	"github.com/Art-Code2025/perfumes-sub001/pkg/util"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type OrderServiceImpl struct {
	orderCollection *mongo.Collection
}

func NewOrderService() *OrderServiceImpl {
	return &OrderServiceImpl{
		orderCollection: util.GetCollection(util.DB, "Order"),
	}
}

// GenerateOrderReference builds a customer facing reference like ORD-XKQT-4821.
func GenerateOrderReference() string {
	letterChars := "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	numberChars := "0123456789"
	letters := make([]byte, 4)
	for i := range letters {
		letters[i] = letterChars[rand.Intn(len(letterChars))]
	}

	numbers := make([]byte, 4)
	for i := range numbers {
		numbers[i] = numberChars[rand.Intn(len(numberChars))]
	}

	return "ORD-" + string(letters) + "-" + string(numbers)
}

func (s *OrderServiceImpl) CreateOrder(ctx context.Context, order models.Order) (models.Order, error) {
	now := time.Now()
	order.Id = primitive.NewObjectID()
	order.Reference = GenerateOrderReference()
	order.Status = models.OrderStatusPending
	order.CreatedAt = now
	order.ModifiedAt = now

	if _, err := s.orderCollection.InsertOne(ctx, order); err != nil {
		return models.Order{}, err
	}
	return order, nil
}

func (s *OrderServiceImpl) GetOrderByReference(ctx context.Context, reference string) (*models.Order, error) {
	var order models.Order
	if err := s.orderCollection.FindOne(ctx, bson.M{"reference": reference}).Decode(&order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *OrderServiceImpl) GetUserOrders(ctx context.Context, userID primitive.ObjectID, pagination util.PaginationArgs) ([]models.Order, int64, error) {
	return s.findOrders(ctx, bson.M{"user_id": userID}, pagination)
}

func (s *OrderServiceImpl) GetSessionOrders(ctx context.Context, sessionID string, pagination util.PaginationArgs) ([]models.Order, int64, error) {
	return s.findOrders(ctx, bson.M{"session_id": sessionID}, pagination)
}

func (s *OrderServiceImpl) GetOrders(ctx context.Context, status models.OrderStatus, pagination util.PaginationArgs) ([]models.Order, int64, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	return s.findOrders(ctx, filter, pagination)
}

func (s *OrderServiceImpl) findOrders(ctx context.Context, filter bson.M, pagination util.PaginationArgs) ([]models.Order, int64, error) {
	count, err := s.orderCollection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	find := options.Find().
		SetSort(util.GetCreatedSortBson(pagination.Sort)).
		SetLimit(int64(pagination.Limit)).
		SetSkip(int64(pagination.Skip))
	cursor, err := s.orderCollection.Find(ctx, filter, find)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	orders := []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, 0, err
	}
	return orders, count, nil
}

func (s *OrderServiceImpl) UpdateOrderStatus(ctx context.Context, orderID primitive.ObjectID, status models.OrderStatus) error {
	update := bson.M{"$set": bson.M{"status": status, "modified_at": time.Now()}}
	result, err := s.orderCollection.UpdateOne(ctx, bson.M{"_id": orderID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
