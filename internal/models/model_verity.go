package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ModelVerity — gamme de modèle rattachée à une catégorie (référence
// faible : la catégorie peut être supprimée indépendamment).
type ModelVerity struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description" json:"description"`
	CategoryID  primitive.ObjectID `bson:"categoryId" json:"categoryId"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}
