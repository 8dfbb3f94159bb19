// File: database/repository/catalogue/interface.go
package catalogueRepo

import (
	"context"
	"errors"
	"fmt"

	"sokoni/database"
	"sokoni/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

var ErrNotFound = errors.New("catalogue item not found")

// CatalogueRepository reads the service and product galleries.
type CatalogueRepository interface {
	GetService(ctx context.Context, id string) (*models.Service, error)
	GetProduct(ctx context.Context, id string) (*models.Product, error)
}

type mongoCatalogueRepo struct {
	services *mongo.Collection
	products *mongo.Collection
}

// NewMongoCatalogueRepo constructs a new MongoDB CatalogueRepository.
func NewMongoCatalogueRepo() CatalogueRepository {
	db := database.DB()
	return &mongoCatalogueRepo{
		services: db.Collection("services"),
		products: db.Collection("products"),
	}
}

func (r *mongoCatalogueRepo) GetService(ctx context.Context, id string) (*models.Service, error) {
	var svc models.Service
	if err := r.services.FindOne(ctx, bson.M{"id": id}).Decode(&svc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching service %s: %w", id, err)
	}
	return &svc, nil
}

func (r *mongoCatalogueRepo) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	var p models.Product
	if err := r.products.FindOne(ctx, bson.M{"id": id}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching product %s: %w", id, err)
	}
	return &p, nil
}
