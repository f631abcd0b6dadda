package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Art-Code2025/perfumes-sub001/pkg/models"
	"github.com/Art-Code2025/perfumes-sub001/pkg/util"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// CouponRejectedError marks a local coupon rejection so callers can keep the
// previously applied coupon untouched.
type CouponRejectedError struct {
	Reason string
}

func (e *CouponRejectedError) Error() string { return e.Reason }

// CouponServiceImpl looks coupons up and enforces eligibility.
type CouponServiceImpl struct {
	couponCollection *mongo.Collection
}

func NewCouponService() *CouponServiceImpl {
	return &CouponServiceImpl{
		couponCollection: util.GetCollection(util.DB, "Coupon"),
	}
}

// ApplyCoupon validates a code against the current subtotal. Unknown,
// inactive, expired and below-minimum codes are rejected with a specific
// reason; rejection never clears a previously applied coupon.
func (s *CouponServiceImpl) ApplyCoupon(ctx context.Context, code string, subtotal float64) (*models.Coupon, error) {
	code = strings.TrimSpace(strings.ToUpper(code))
	if code == "" {
		return nil, &CouponRejectedError{Reason: "invalid coupon code"}
	}

	var coupon models.Coupon
	err := s.couponCollection.FindOne(ctx, bson.M{"code": code}).Decode(&coupon)
	if err == mongo.ErrNoDocuments {
		return nil, &CouponRejectedError{Reason: "invalid coupon code"}
	}
	if err != nil {
		return nil, err
	}

	return CheckCouponEligibility(&coupon, subtotal, time.Now())
}

// CheckCouponEligibility is the pure eligibility rule, shared with tests.
func CheckCouponEligibility(coupon *models.Coupon, subtotal float64, now time.Time) (*models.Coupon, error) {
	if !coupon.IsActive {
		return nil, &CouponRejectedError{Reason: "invalid coupon code"}
	}
	if coupon.ExpiresAt != nil && now.After(*coupon.ExpiresAt) {
		return nil, &CouponRejectedError{Reason: "invalid coupon code"}
	}
	if subtotal < coupon.MinAmount {
		return nil, &CouponRejectedError{
			Reason: fmt.Sprintf("minimum order amount of %.2f required for this coupon", coupon.MinAmount),
		}
	}
	return coupon, nil
}

func (s *CouponServiceImpl) CreateCoupon(ctx context.Context, req models.CouponRequest) (primitive.ObjectID, error) {
	coupon := models.Coupon{
		Id:          primitive.NewObjectID(),
		Code:        strings.TrimSpace(strings.ToUpper(req.Code)),
		Type:        req.Type,
		Amount:      req.Amount,
		MaxDiscount: req.MaxDiscount,
		MinAmount:   req.MinAmount,
		IsActive:    req.IsActive == nil || *req.IsActive,
		ExpiresAt:   req.ExpiresAt,
		CreatedAt:   time.Now(),
	}

	if _, err := s.couponCollection.InsertOne(ctx, coupon); err != nil {
		return primitive.NilObjectID, err
	}
	return coupon.Id, nil
}

func (s *CouponServiceImpl) DeleteCoupon(ctx context.Context, couponID primitive.ObjectID) error {
	res, err := s.couponCollection.DeleteOne(ctx, bson.M{"_id": couponID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (s *CouponServiceImpl) ListCoupons(ctx context.Context) ([]models.Coupon, error) {
	cursor, err := s.couponCollection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var coupons []models.Coupon
	if err := cursor.All(ctx, &coupons); err != nil {
		return nil, err
	}
	return coupons, nil
}
