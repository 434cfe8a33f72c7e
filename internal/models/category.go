package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Category struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	CategoryName string             `bson:"categoryName" json:"categoryName"`
	Description  string             `bson:"description" json:"description"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// CategoryOption — projection allégée pour les listes déroulantes du front.
type CategoryOption struct {
	ID           primitive.ObjectID `bson:"_id" json:"_id"`
	CategoryName string             `bson:"categoryName" json:"categoryName"`
}
