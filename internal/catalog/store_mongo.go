package catalog

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pawaninkhiya/chawla-cabinets-backend/internal/models"
)

// MongoStore persiste les produits dans la collection "products".
// Les variantes restent imbriquées dans le document parent ; les
// mutations passent par des opérateurs de tableau atomiques pour que
// deux requêtes concurrentes ne s'écrasent pas mutuellement.
type MongoStore struct {
	products *mongo.Collection
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{products: db.Collection("products")}
}

func (s *MongoStore) FindProduct(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	var product models.Product
	err := s.products.FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if err == mongo.ErrNoDocuments {
		return nil, NewError(KindNotFound, "Produit introuvable")
	}
	if err != nil {
		return nil, WrapError(KindInternal, "Erreur lecture produit", err)
	}
	return &product, nil
}

// AppendColor ajoute la variante en fin de liste via $push : l'ajout
// est atomique, colorsAvailable repasse à true dans la même écriture.
func (s *MongoStore) AppendColor(ctx context.Context, productID primitive.ObjectID, color models.ColorOption) error {
	update := bson.M{
		"$push": bson.M{"colors": color},
		"$set": bson.M{
			"colorsAvailable": true,
			"updatedAt":       time.Now(),
		},
	}
	res, err := s.products.UpdateByID(ctx, productID, update)
	if err != nil {
		return WrapError(KindInternal, "Erreur ajout de la variante", err)
	}
	if res.MatchedCount == 0 {
		return NewError(KindNotFound, "Produit introuvable")
	}
	return nil
}

// UpdateColor remplace la variante ciblée par un $set positionnel
// (arrayFilters) : seule cette entrée du tableau est réécrite.
func (s *MongoStore) UpdateColor(ctx context.Context, productID primitive.ObjectID, color models.ColorOption, colorsAvailable bool) error {
	update := bson.M{
		"$set": bson.M{
			"colors.$[c]":     color,
			"colorsAvailable": colorsAvailable,
			"updatedAt":       time.Now(),
		},
	}
	opts := options.Update().SetArrayFilters(options.ArrayFilters{
		Filters: []interface{}{bson.M{"c._id": color.ID}},
	})
	res, err := s.products.UpdateByID(ctx, productID, update, opts)
	if err != nil {
		return WrapError(KindInternal, "Erreur mise à jour de la variante", err)
	}
	if res.MatchedCount == 0 {
		return NewError(KindNotFound, "Produit introuvable")
	}
	return nil
}

func (s *MongoStore) DeleteProduct(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.products.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return WrapError(KindInternal, "Erreur suppression du produit", err)
	}
	if res.DeletedCount == 0 {
		return NewError(KindNotFound, "Produit introuvable")
	}
	return nil
}
