package services

import (
	"context"
	"sync"
	"time"

	"github.com/Art-Code2025/perfumes-sub001/pkg/models"
	"github.com/Art-Code2025/perfumes-sub001/pkg/util"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// RemoteCart is the authoritative per-user cart. It owns deduplication of
// merged items against whatever it already holds.
type RemoteCart interface {
	Merge(ctx context.Context, userID primitive.ObjectID, items []models.LineItem) error
	Fetch(ctx context.Context, userID primitive.ObjectID) ([]models.LineItem, error)
}

// CartMergeEngine reconciles a guest cart with the remote user cart exactly
// once per sign-in transition. The remote side wins: after a successful merge
// the local store is overwritten with the re-fetched authoritative cart.
type CartMergeEngine struct {
	store  *CartStoreService
	remote RemoteCart

	mu       sync.Mutex
	inflight map[string]bool
}

func NewCartMergeEngine(store *CartStoreService, remote RemoteCart) *CartMergeEngine {
	return &CartMergeEngine{
		store:    store,
		remote:   remote,
		inflight: make(map[string]bool),
	}
}

// MergeOnSignIn pushes the guest items to the remote cart and replaces the
// local cart with the merged result. On any remote failure the guest cart is
// left untouched and usable; the error is logged, never surfaced, and the
// merge is not retried automatically. Concurrent duplicate invocations for
// the same session coalesce into one run.
func (e *CartMergeEngine) MergeOnSignIn(ctx context.Context, sessionID string, userID primitive.ObjectID) {
	e.mu.Lock()
	if e.inflight[sessionID] {
		e.mu.Unlock()
		return
	}
	e.inflight[sessionID] = true
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		delete(e.inflight, sessionID)
		e.mu.Unlock()
	}()

	guestItems := e.store.Load(ctx, sessionID)

	if err := e.remote.Merge(ctx, userID, guestItems); err != nil {
		util.LogError("background cart merge failed, keeping local cart", err)
		util.CartMerges.WithLabelValues("failure").Inc()
		return
	}

	merged, err := e.remote.Fetch(ctx, userID)
	if err != nil {
		util.LogError("failed to fetch merged cart, keeping local cart", err)
		util.CartMerges.WithLabelValues("failure").Inc()
		return
	}

	if err := e.store.Replace(ctx, sessionID, merged); err != nil {
		util.LogError("failed to overwrite local cart after merge", err)
		util.CartMerges.WithLabelValues("failure").Inc()
		return
	}

	util.CartMerges.WithLabelValues("success").Inc()
}

// MongoRemoteCart implements RemoteCart on the UserCart collection, keyed by
// user and dedup key so repeated merges of the same item increment quantity
// instead of duplicating entries.
type MongoRemoteCart struct {
	userCartCollection *mongo.Collection
}

func NewMongoRemoteCart() *MongoRemoteCart {
	return &MongoRemoteCart{
		userCartCollection: util.GetCollection(util.DB, "UserCart"),
	}
}

type userCartDoc struct {
	UserId   primitive.ObjectID `bson:"user_id"`
	DedupKey string             `bson:"dedup_key"`
	Item     models.LineItem    `bson:"item"`
}

func (r *MongoRemoteCart) Merge(ctx context.Context, userID primitive.ObjectID, items []models.LineItem) error {
	now := time.Now()
	for _, item := range items {
		filter := bson.M{"user_id": userID, "dedup_key": item.DedupKey()}

		var existing userCartDoc
		err := r.userCartCollection.FindOne(ctx, filter).Decode(&existing)
		switch {
		case err == mongo.ErrNoDocuments:
			doc := userCartDoc{UserId: userID, DedupKey: item.DedupKey(), Item: item}
			doc.Item.ModifiedAt = now
			if _, err := r.userCartCollection.InsertOne(ctx, doc); err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			update := bson.M{
				"$inc": bson.M{"item.quantity": item.Quantity},
				"$set": bson.M{"item.modified_at": now},
			}
			if _, err := r.userCartCollection.UpdateOne(ctx, filter, update); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *MongoRemoteCart) Fetch(ctx context.Context, userID primitive.ObjectID) ([]models.LineItem, error) {
	cursor, err := r.userCartCollection.Find(ctx, bson.M{"user_id": userID},
		options.Find().SetSort(bson.D{{Key: "item.added_at", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []userCartDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	items := make([]models.LineItem, 0, len(docs))
	for _, doc := range docs {
		items = append(items, doc.Item)
	}
	return items, nil
}
