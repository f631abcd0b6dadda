package services

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Art-Code2025/perfumes-sub001/internal/events"
	"github.com/Art-Code2025/perfumes-sub001/internal/kv"
	"github.com/Art-Code2025/perfumes-sub001/pkg/models"
	"github.com/Art-Code2025/perfumes-sub001/pkg/util"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	zonesCacheKey          = "shippingZones"
	shippingSettingsDocKey = "global"
)

// ShippingQuote is the outcome of resolving shipping for a subtotal and city.
type ShippingQuote struct {
	Cost         float64              `json:"shippingCost"`
	FreeShipping bool                 `json:"isFreeShipping"`
	Zone         *models.ShippingZone `json:"matchedZone,omitempty"`
	Eta          string               `json:"etaText"`
}

// ShippingResolver holds an immutable snapshot of settings and zones and
// answers quote queries. Pure; build one per request from the service.
type ShippingResolver struct {
	Settings models.ShippingSettings
	Zones    []models.ShippingZone
}

// Resolve maps a subtotal and optional city to a shipping cost, free-shipping
// eligibility and an ETA. Precedence: express flat cost, then the first
// matching active zone by ascending priority, then the global fallback.
// Threshold comparisons are inclusive; free shipping is exactly 0.
func (r ShippingResolver) Resolve(subtotal float64, city string, express bool) ShippingQuote {
	if express && r.Settings.ExpressEnabled {
		// No free-shipping override applies to express.
		return ShippingQuote{
			Cost: r.Settings.ExpressShippingCost,
			Eta:  r.Settings.ExpressEstimatedDays,
		}
	}

	if r.Settings.ZoneShippingEnabled && strings.TrimSpace(city) != "" {
		if zone := r.matchZone(city); zone != nil {
			if r.Settings.FreeShippingEnabled && subtotal >= zone.FreeShippingThreshold {
				return ShippingQuote{FreeShipping: true, Zone: zone, Eta: zone.EstimatedDays}
			}
			return ShippingQuote{Cost: zone.ShippingCost, Zone: zone, Eta: zone.EstimatedDays}
		}
	}

	if r.Settings.FreeShippingEnabled && subtotal >= r.Settings.GlobalFreeShippingThreshold {
		return ShippingQuote{FreeShipping: true, Eta: r.Settings.DefaultEstimatedDays}
	}
	return ShippingQuote{Cost: r.Settings.DefaultShippingCost, Eta: r.Settings.DefaultEstimatedDays}
}

// matchZone returns the first active zone, lowest priority value first, where
// any zone city is a case-insensitive substring match against the input.
func (r ShippingResolver) matchZone(city string) *models.ShippingZone {
	needle := strings.ToLower(strings.TrimSpace(city))

	zones := make([]models.ShippingZone, len(r.Zones))
	copy(zones, r.Zones)
	sort.SliceStable(zones, func(i, j int) bool { return zones[i].Priority < zones[j].Priority })

	for i := range zones {
		if !zones[i].IsActive {
			continue
		}
		for _, zoneCity := range zones[i].Cities {
			candidate := strings.ToLower(strings.TrimSpace(zoneCity))
			if candidate == "" {
				continue
			}
			if strings.Contains(needle, candidate) || strings.Contains(candidate, needle) {
				return &zones[i]
			}
		}
	}
	return nil
}

// ShippingServiceImpl loads zones and settings from MongoDB, keeps a Redis
// snapshot of the zone table for instant reads, and owns the admin CRUD.
type ShippingServiceImpl struct {
	zoneCollection     *mongo.Collection
	settingsCollection *mongo.Collection
	cache              kv.Store
	publisher          *events.Publisher

	// settings are replaced wholesale on admin update; the mutex keeps
	// concurrent quote reads from seeing a partially written snapshot.
	mu       sync.RWMutex
	settings models.ShippingSettings
}

func NewShippingService(cache kv.Store, publisher *events.Publisher) *ShippingServiceImpl {
	s := &ShippingServiceImpl{
		zoneCollection:     util.GetCollection(util.DB, "ShippingZone"),
		settingsCollection: util.GetCollection(util.DB, "ShippingSettings"),
		cache:              cache,
		publisher:          publisher,
	}
	s.swapSettings(s.loadSettings(context.Background()))
	return s
}

// Resolver builds a point-in-time resolver snapshot.
func (s *ShippingServiceImpl) Resolver(ctx context.Context) ShippingResolver {
	return ShippingResolver{Settings: s.Settings(), Zones: s.Zones(ctx)}
}

// Resolve is the service-level entry point for quote queries.
func (s *ShippingServiceImpl) Resolve(ctx context.Context, subtotal float64, city string, express bool) ShippingQuote {
	return s.Resolver(ctx).Resolve(subtotal, city, express)
}

// Zones returns the zone table, serving the Redis snapshot when present.
func (s *ShippingServiceImpl) Zones(ctx context.Context) []models.ShippingZone {
	if raw, err := s.cache.Get(ctx, zonesCacheKey); err == nil {
		var zones []models.ShippingZone
		if err := json.Unmarshal([]byte(raw), &zones); err == nil {
			return zones
		}
	}

	cursor, err := s.zoneCollection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "priority", Value: 1}}))
	if err != nil {
		util.LogError("failed to load shipping zones", err)
		return nil
	}
	defer cursor.Close(ctx)

	var zones []models.ShippingZone
	if err := cursor.All(ctx, &zones); err != nil {
		util.LogError("failed to decode shipping zones", err)
		return nil
	}

	if data, err := json.Marshal(zones); err == nil {
		if err := s.cache.Set(ctx, zonesCacheKey, string(data)); err != nil {
			util.LogError("failed to cache shipping zones", err)
		}
	}
	return zones
}

// Settings returns the active settings snapshot.
func (s *ShippingServiceImpl) Settings() models.ShippingSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

func (s *ShippingServiceImpl) swapSettings(settings models.ShippingSettings) {
	s.mu.Lock()
	s.settings = settings
	s.mu.Unlock()
}

// UpdateSettings persists an override and swaps the in-memory snapshot.
func (s *ShippingServiceImpl) UpdateSettings(ctx context.Context, settings models.ShippingSettings) error {
	_, err := s.settingsCollection.UpdateOne(
		ctx,
		bson.M{"_id": shippingSettingsDocKey},
		bson.M{"$set": settings},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return err
	}

	s.swapSettings(settings)
	return nil
}

func (s *ShippingServiceImpl) CreateZone(ctx context.Context, req models.ShippingZoneRequest) (primitive.ObjectID, error) {
	now := time.Now()
	zone := models.ShippingZone{
		Id:                    primitive.NewObjectID(),
		Name:                  req.Name,
		Cities:                req.Cities,
		ShippingCost:          req.ShippingCost,
		FreeShippingThreshold: req.FreeShippingThreshold,
		EstimatedDays:         req.EstimatedDays,
		IsActive:              req.IsActive == nil || *req.IsActive,
		Priority:              req.Priority,
		CreatedAt:             now,
		ModifiedAt:            now,
	}

	if _, err := s.zoneCollection.InsertOne(ctx, zone); err != nil {
		return primitive.NilObjectID, err
	}

	s.invalidateZones(ctx)
	return zone.Id, nil
}

func (s *ShippingServiceImpl) UpdateZone(ctx context.Context, zoneID primitive.ObjectID, req models.ShippingZoneRequest) error {
	update := bson.M{
		"name":                    req.Name,
		"cities":                  req.Cities,
		"shipping_cost":           req.ShippingCost,
		"free_shipping_threshold": req.FreeShippingThreshold,
		"estimated_days":          req.EstimatedDays,
		"priority":                req.Priority,
		"modified_at":             time.Now(),
	}
	if req.IsActive != nil {
		update["is_active"] = *req.IsActive
	}

	res, err := s.zoneCollection.UpdateOne(ctx, bson.M{"_id": zoneID}, bson.M{"$set": update})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}

	s.invalidateZones(ctx)
	return nil
}

func (s *ShippingServiceImpl) DeleteZone(ctx context.Context, zoneID primitive.ObjectID) error {
	res, err := s.zoneCollection.DeleteOne(ctx, bson.M{"_id": zoneID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}

	s.invalidateZones(ctx)
	return nil
}

func (s *ShippingServiceImpl) invalidateZones(ctx context.Context) {
	if err := s.cache.Delete(ctx, zonesCacheKey); err != nil {
		util.LogError("failed to drop zone cache", err)
	}
	if s.publisher != nil {
		_ = s.publisher.Publish(ctx, events.CacheInvalidateZones, "")
	}
}

func (s *ShippingServiceImpl) loadSettings(ctx context.Context) models.ShippingSettings {
	settings := models.DefaultShippingSettings()
	err := s.settingsCollection.FindOne(ctx, bson.M{"_id": shippingSettingsDocKey}).Decode(&settings)
	if err != nil && err != mongo.ErrNoDocuments {
		util.LogError("failed to load shipping settings, using defaults", err)
	}
	return settings
}
