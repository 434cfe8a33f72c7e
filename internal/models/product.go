package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ColorOption — variante de couleur embarquée dans le document produit.
// Le _id n'est unique qu'au sein du produit parent (attribué à l'ajout).
type ColorOption struct {
	ID        primitive.ObjectID `bson:"_id" json:"_id"`
	Name      string             `bson:"name" json:"name"`
	Body      string             `bson:"body" json:"body"`
	Door      string             `bson:"door" json:"door"`
	Images    []string           `bson:"images" json:"images"`
	Price     float64            `bson:"price" json:"price"`
	MRP       float64            `bson:"mrp" json:"mrp"`
	Available bool               `bson:"available" json:"available"`
}

// Product — l'agrégat catalogue : le produit et ses variantes forment une
// seule frontière de cohérence (un seul document Mongo).
type Product struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name              string             `bson:"name" json:"name"`
	ModelID           primitive.ObjectID `bson:"modelId" json:"modelId"`
	CategoryID        primitive.ObjectID `bson:"categoryId" json:"categoryId"`
	CreatedBy         primitive.ObjectID `bson:"createdBy" json:"createdBy"`
	Description       string             `bson:"description" json:"description"`
	NumberOfDoors     int                `bson:"numberOfDoors" json:"numberOfDoors"`
	ColorOptionsCount int                `bson:"colorOptionsCount" json:"colorOptionsCount"`
	Price             float64            `bson:"price" json:"price"`
	MRP               float64            `bson:"mrp" json:"mrp"`
	Material          string             `bson:"material" json:"material"`
	Warranty          string             `bson:"warranty" json:"warranty"`
	PaintType         string             `bson:"paintType" json:"paintType"`
	CardImage         string             `bson:"cardImage,omitempty" json:"cardImage,omitempty"`
	Colors            []ColorOption      `bson:"colors" json:"colors"`
	ColorsAvailable   bool               `bson:"colorsAvailable" json:"colorsAvailable"`
	CreatedAt         time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// AllImageRefs retourne toutes les références d'images détenues par le
// produit : cardImage + les images de chaque variante.
func (p *Product) AllImageRefs() []string {
	var refs []string
	if p.CardImage != "" {
		refs = append(refs, p.CardImage)
	}
	for _, color := range p.Colors {
		refs = append(refs, color.Images...)
	}
	return refs
}
