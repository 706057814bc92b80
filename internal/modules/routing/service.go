package routing

import (
	"context"
	"fmt"
	"strings"

	"github.com/georgemunganga/medexpress-backend/internal/modules/geocode"
	"github.com/georgemunganga/medexpress-backend/internal/modules/inventory"
	"github.com/georgemunganga/medexpress-backend/internal/platform/apperr"
	"github.com/georgemunganga/medexpress-backend/internal/platform/logging"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service picks the store that fulfils an order.
type Service interface {
	// ResolveStore returns the explicit store when storeID is set, otherwise the store nearest
	// to the geocoded address. It fails with NotFound when neither yields a store.
	ResolveStore(ctx context.Context, storeID *uuid.UUID, address string) (*Decision, error)
}

// StoreLocator is the part of the inventory service used for resolution.
type StoreLocator interface {
	GetStore(ctx context.Context, id uuid.UUID) (*inventory.Store, error)
	NearestStore(ctx context.Context, p inventory.Point) (*inventory.Store, error)
}

type service struct {
	stores   StoreLocator
	geocoder geocode.Geocoder
}

func NewService(stores StoreLocator, geocoder geocode.Geocoder) Service {
	return &service{stores: stores, geocoder: geocoder}
}

func (s *service) ResolveStore(ctx context.Context, storeID *uuid.UUID, address string) (*Decision, error) {
	if storeID != nil && *storeID != uuid.Nil {
		store, err := s.stores.GetStore(ctx, *storeID)
		if err != nil {
			return nil, err
		}
		return &Decision{Store: store, Strategy: StrategyExplicit}, nil
	}

	if strings.TrimSpace(address) == "" {
		return nil, apperr.NotFound("no fulfillment store: provide a storeId or a delivery address")
	}

	loc, err := s.geocoder.Geocode(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("resolve fulfillment store: %w", err)
	}
	origin := inventory.Point{Longitude: loc.Longitude, Latitude: loc.Latitude}
	store, err := s.stores.NearestStore(ctx, origin)
	if err != nil {
		return nil, err
	}

	logging.FromContext(ctx).Debug("resolved fulfillment store",
		zap.String("store_id", store.ID.String()),
		zap.Float64("longitude", origin.Longitude),
		zap.Float64("latitude", origin.Latitude))
	return &Decision{Store: store, Strategy: StrategyGeoProximity, Origin: &origin}, nil
}
