package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pawaninkhiya/chawla-cabinets-backend/internal/catalog"
	"github.com/pawaninkhiya/chawla-cabinets-backend/internal/models"
)

// 🟢 Créer un modèle (admin)
func CreateModelVerity(c *gin.Context) {
	var req struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
		CategoryID  string `json:"categoryId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, "Les champs 'name' et 'categoryId' sont obligatoires")
		return
	}

	categoryID, err := primitive.ObjectIDFromHex(req.CategoryID)
	if err != nil {
		errorResponse(c, http.StatusBadRequest, "ID de catégorie invalide")
		return
	}

	ctx := context.Background()
	name := strings.TrimSpace(req.Name)

	count, err := getModelVerityCollection().CountDocuments(ctx, bson.M{"name": name})
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, "Erreur serveur")
		return
	}
	if count > 0 {
		errorResponse(c, http.StatusConflict, "Un modèle avec ce nom existe déjà")
		return
	}

	now := time.Now()
	modelVerity := models.ModelVerity{
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		CategoryID:  categoryID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	res, err := getModelVerityCollection().InsertOne(ctx, modelVerity)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			errorResponse(c, http.StatusConflict, "Un modèle avec ce nom existe déjà")
			return
		}
		errorResponse(c, http.StatusInternalServerError, "Erreur création modèle")
		return
	}
	modelVerity.ID = res.InsertedID.(primitive.ObjectID)

	successResponse(c, http.StatusCreated, "Modèle créé avec succès", modelVerity)
}

// 🔵 Lister les modèles (recherche + pagination)
func GetAllModelVerities(c *gin.Context) {
	ctx := context.Background()

	search := c.Query("search")
	page, _ := strconv.ParseInt(c.Query("page"), 10, 64)
	limit, _ := strconv.ParseInt(c.Query("limit"), 10, 64)

	filter := catalog.BuildSearchQuery(search, []string{"name"})

	total, err := getModelVerityCollection().CountDocuments(ctx, filter)
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, "Erreur serveur")
		return
	}
	if total == 0 {
		errorResponse(c, http.StatusNotFound, "Aucun modèle trouvé")
		return
	}

	window := catalog.Paginate(total, catalog.PageRequest{Page: page, Limit: limit}, 10)

	opts := options.Find().
		SetSort(bson.M{"createdAt": -1}).
		SetSkip(window.Skip).
		SetLimit(window.Limit)

	cursor, err := getModelVerityCollection().Find(ctx, filter, opts)
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, "Erreur serveur")
		return
	}

	var modelVerities []models.ModelVerity
	if err := cursor.All(ctx, &modelVerities); err != nil {
		errorResponse(c, http.StatusInternalServerError, "Erreur serveur")
		return
	}

	successResponse(c, http.StatusOK, "Modèles récupérés avec succès", gin.H{
		"modelVerities": modelVerities,
		"pagination":    window,
	})
}

// 🔴 Supprimer un modèle (admin) — les produits rattachés survivent.
func DeleteModelVerity(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		errorResponse(c, http.StatusBadRequest, "ID de modèle invalide")
		return
	}

	res, err := getModelVerityCollection().DeleteOne(context.Background(), bson.M{"_id": id})
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, "Erreur serveur")
		return
	}
	if res.DeletedCount == 0 {
		errorResponse(c, http.StatusNotFound, "Modèle introuvable")
		return
	}

	successResponse(c, http.StatusOK, "Modèle supprimé avec succès", nil)
}
