package handlers

import (
	"io"
	"mime/multipart"
	"sync"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/pawaninkhiya/chawla-cabinets-backend/internal/catalog"
	"github.com/pawaninkhiya/chawla-cabinets-backend/internal/database"
	"github.com/pawaninkhiya/chawla-cabinets-backend/internal/services"
)

//
// --- COLLECTIONS MONGO ---
//

func getCategoryCollection() *mongo.Collection {
	return database.MongoDB.Collection("categories")
}

func getModelVerityCollection() *mongo.Collection {
	return database.MongoDB.Collection("modelverities")
}

func getProductCollection() *mongo.Collection {
	return database.MongoDB.Collection("products")
}

func getUserCollection() *mongo.Collection {
	return database.MongoDB.Collection("users")
}

//
// --- GESTIONNAIRE DE CYCLE DE VIE ---
//

var (
	catalogOnce sync.Once
	catalogMgr  *catalog.Manager
	storageGW   *services.MinioStorage
)

func catalogManager() *catalog.Manager {
	catalogOnce.Do(func() {
		storageGW = services.NewMinioStorage()
		catalogMgr = catalog.NewManager(catalog.NewMongoStore(database.MongoDB), storageGW)
	})
	return catalogMgr
}

func storage() *services.MinioStorage {
	catalogManager()
	return storageGW
}

//
// --- RÉPONSES ---
//

func successResponse(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, gin.H{"success": true, "message": message, "data": data})
}

func errorResponse(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "error": message})
}

func catalogError(c *gin.Context, err error) {
	errorResponse(c, catalog.HTTPStatus(err), catalog.ErrorMessage(err))
}

//
// --- FICHIERS MULTIPART ---
//

// uploadsFromFiles ouvre les fichiers reçus et les convertit pour la
// passerelle de stockage. Le closer doit être appelé après l'upload.
func uploadsFromFiles(files []*multipart.FileHeader) ([]catalog.Upload, func(), error) {
	var uploads []catalog.Upload
	var closers []io.Closer

	closeAll := func() {
		for _, closer := range closers {
			closer.Close()
		}
	}

	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		closers = append(closers, f)
		uploads = append(uploads, catalog.Upload{
			Name:        fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Size:        fh.Size,
			Content:     f,
		})
	}
	return uploads, closeAll, nil
}
