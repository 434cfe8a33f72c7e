package catalog

import (
	"context"
	"io"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/pawaninkhiya/chawla-cabinets-backend/internal/models"
)

// Upload est un fichier à envoyer vers le stockage objet, détaché de
// multipart.FileHeader pour rester testable sans requête HTTP.
type Upload struct {
	Name        string
	ContentType string
	Size        int64
	Content     io.Reader
}

// ObjectStorage est la passerelle vers le stockage objet. UploadMany
// préserve l'ordre des fichiers ; DeleteMany dérive les clés des
// références et ignore les clés déjà absentes.
type ObjectStorage interface {
	UploadMany(ctx context.Context, uploads []Upload) ([]string, error)
	DeleteMany(ctx context.Context, refs []string) error
}

// ProductStore persiste l'agrégat produit. Les écritures de variantes
// sont atomiques côté store ($push / $set positionnel) : deux ajouts
// concurrents sur le même produit atterrissent tous les deux.
type ProductStore interface {
	FindProduct(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	AppendColor(ctx context.Context, productID primitive.ObjectID, color models.ColorOption) error
	UpdateColor(ctx context.Context, productID primitive.ObjectID, color models.ColorOption, colorsAvailable bool) error
	DeleteProduct(ctx context.Context, id primitive.ObjectID) error
}
