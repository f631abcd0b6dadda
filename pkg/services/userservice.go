package services

import (
	"context"
	"strings"
	"time"

	"github.com/Art-Code2025/perfumes-sub001/internal/common"
	"github.com/Art-Code2025/perfumes-sub001/internal/events"
	"github.com/Art-Code2025/perfumes-sub001/pkg/models"
	"github.com/Art-Code2025/perfumes-sub001/pkg/util"

	googleAuthIDTokenVerifier "github.com/futurenda/google-auth-id-token-verifier"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrEmailTaken         = errors.New("an account with this email already exists")
	ErrEmailNotRegistered = errors.New("email not registered")
	ErrInvalidCredentials = errors.New("wrong password")
)

type UserServiceImpl struct {
	userCollection     *mongo.Collection
	wishlistCollection *mongo.Collection
	merge              *CartMergeEngine
	publisher          *events.Publisher
}

// NewUserService wires the user store to the cart merge engine so a sign-in
// can reconcile the guest cart in the background.
func NewUserService(merge *CartMergeEngine, publisher *events.Publisher) *UserServiceImpl {
	return &UserServiceImpl{
		userCollection:     util.GetCollection(util.DB, "User"),
		wishlistCollection: util.GetCollection(util.DB, "Wishlist"),
		merge:              merge,
		publisher:          publisher,
	}
}

func (s *UserServiceImpl) CreateUser(ctx context.Context, req models.CreateUserRequest) (primitive.ObjectID, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	count, err := s.userCollection.CountDocuments(ctx, bson.M{"email": email})
	if err != nil {
		return primitive.NilObjectID, err
	}
	if count > 0 {
		return primitive.NilObjectID, ErrEmailTaken
	}

	hash, err := util.HashPassword(req.Password)
	if err != nil {
		return primitive.NilObjectID, err
	}

	now := time.Now()
	user := models.User{
		Id:           primitive.NewObjectID(),
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Email:        email,
		PasswordHash: hash,
		AuthProvider: models.AuthProviderLocal,
		CreatedAt:    now,
		ModifiedAt:   now,
	}

	if _, err := s.userCollection.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, ErrEmailTaken
		}
		return primitive.NilObjectID, err
	}
	return user.Id, nil
}

// AuthenticateUser checks local credentials. An unknown email and a wrong
// password are distinct errors so the client can show a specific message for
// each. A successful sign-in kicks off the guest cart merge in the background.
func (s *UserServiceImpl) AuthenticateUser(ctx context.Context, req models.UserAuthRequest, sessionID string) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	var user models.User
	if err := s.userCollection.FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrEmailNotRegistered
		}
		return nil, err
	}

	if err := util.CheckPassword(user.PasswordHash, req.Password); err != nil {
		return nil, ErrInvalidCredentials
	}

	s.mergeCartInBackground(sessionID, user.Id)
	return &user, nil
}

// AuthenticateGoogleUser verifies a Google ID token, provisioning an account
// on first sign-in.
func (s *UserServiceImpl) AuthenticateGoogleUser(ctx context.Context, idToken, sessionID string) (*models.User, error) {
	v := googleAuthIDTokenVerifier.Verifier{}
	googleClientID := util.LoadEnvFor("GOOGLE_CLIENT_ID")
	if err := v.VerifyIDToken(idToken, []string{googleClientID}); err != nil {
		return nil, err
	}

	claimSet, err := googleAuthIDTokenVerifier.Decode(idToken)
	if err != nil {
		return nil, errors.New("cannot decode token")
	}

	email := strings.ToLower(claimSet.Email)

	var user models.User
	if err := s.userCollection.FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
		if err != mongo.ErrNoDocuments {
			return nil, err
		}
		now := time.Now()
		user = models.User{
			Id:           primitive.NewObjectID(),
			FirstName:    claimSet.GivenName,
			LastName:     claimSet.FamilyName,
			Email:        email,
			Thumbnail:    claimSet.Picture,
			AuthProvider: models.AuthProviderGoogle,
			CreatedAt:    now,
			ModifiedAt:   now,
		}
		if _, err := s.userCollection.InsertOne(ctx, user); err != nil {
			return nil, errors.New("error setting up user")
		}
	}

	s.mergeCartInBackground(sessionID, user.Id)
	return &user, nil
}

// mergeCartInBackground runs the once-per-sign-in cart merge without holding
// up the auth response. Merge failures are logged inside the engine and never
// affect the sign-in.
func (s *UserServiceImpl) mergeCartInBackground(sessionID string, userID primitive.ObjectID) {
	if s.merge == nil || common.IsEmptyString(sessionID) {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), common.REQUEST_TIMEOUT_SECS)
		defer cancel()
		s.merge.MergeOnSignIn(ctx, sessionID, userID)
	}()
}

func (s *UserServiceImpl) GetUserByID(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	var user models.User
	if err := s.userCollection.FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserServiceImpl) AddToWishlist(ctx context.Context, userID, productID primitive.ObjectID) (primitive.ObjectID, error) {
	filter := bson.M{"user_id": userID, "product_id": productID}

	var existing models.WishlistEntry
	err := s.wishlistCollection.FindOne(ctx, filter).Decode(&existing)
	if err == nil {
		return existing.Id, nil
	}
	if err != mongo.ErrNoDocuments {
		return primitive.NilObjectID, err
	}

	entry := models.WishlistEntry{
		Id:        primitive.NewObjectID(),
		UserId:    userID,
		ProductId: productID,
		AddedAt:   time.Now(),
	}
	if _, err := s.wishlistCollection.InsertOne(ctx, entry); err != nil {
		return primitive.NilObjectID, err
	}
	s.publishWishlistUpdate(ctx, userID)
	return entry.Id, nil
}

func (s *UserServiceImpl) RemoveFromWishlist(ctx context.Context, userID, productID primitive.ObjectID) error {
	result, err := s.wishlistCollection.DeleteOne(ctx, bson.M{"user_id": userID, "product_id": productID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	s.publishWishlistUpdate(ctx, userID)
	return nil
}

func (s *UserServiceImpl) publishWishlistUpdate(ctx context.Context, userID primitive.ObjectID) {
	if s.publisher == nil {
		return
	}
	_ = s.publisher.Publish(ctx, events.WishlistUpdated, userID.Hex())
}

func (s *UserServiceImpl) GetWishlist(ctx context.Context, userID primitive.ObjectID) ([]models.WishlistEntry, error) {
	cursor, err := s.wishlistCollection.Find(ctx, bson.M{"user_id": userID},
		options.Find().SetSort(bson.D{{Key: "added_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	entries := []models.WishlistEntry{}
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
