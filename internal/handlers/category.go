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

	"github.com/pawaninkhiya/chawla-cabinets-backend/internal/cache"
	"github.com/pawaninkhiya/chawla-cabinets-backend/internal/catalog"
	"github.com/pawaninkhiya/chawla-cabinets-backend/internal/models"
)

// 🟢 Créer une catégorie (admin)
func CreateCategory(c *gin.Context) {
	var req struct {
		CategoryName string `json:"categoryName" binding:"required"`
		Description  string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, "Le champ 'categoryName' est obligatoire")
		return
	}

	ctx := context.Background()
	name := strings.TrimSpace(req.CategoryName)

	// Pré-lecture pour un 409 propre ; l'index unique reste le garde-fou.
	count, err := getCategoryCollection().CountDocuments(ctx, bson.M{"categoryName": name})
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, "Erreur vérification catégorie")
		return
	}
	if count > 0 {
		errorResponse(c, http.StatusConflict, "Une catégorie avec ce nom existe déjà")
		return
	}

	now := time.Now()
	category := models.Category{
		CategoryName: name,
		Description:  strings.TrimSpace(req.Description),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	res, err := getCategoryCollection().InsertOne(ctx, category)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			errorResponse(c, http.StatusConflict, "Une catégorie avec ce nom existe déjà")
			return
		}
		errorResponse(c, http.StatusInternalServerError, "Erreur création catégorie")
		return
	}
	category.ID = res.InsertedID.(primitive.ObjectID)

	cache.InvalidateCategoryOptions(ctx)
	successResponse(c, http.StatusCreated, "Catégorie créée avec succès", category)
}

// 🔵 Lister les catégories (recherche + pagination)
func GetAllCategories(c *gin.Context) {
	ctx := context.Background()

	search := c.Query("search")
	page, _ := strconv.ParseInt(c.Query("page"), 10, 64)
	limit, _ := strconv.ParseInt(c.Query("limit"), 10, 64)

	filter := catalog.BuildSearchQuery(search, []string{"categoryName"})

	total, err := getCategoryCollection().CountDocuments(ctx, filter)
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, "Erreur serveur")
		return
	}
	if total == 0 {
		errorResponse(c, http.StatusOK, "Aucune catégorie trouvée")
		return
	}

	window := catalog.Paginate(total, catalog.PageRequest{Page: page, Limit: limit}, 10)

	opts := options.Find().
		SetSort(bson.M{"createdAt": -1}).
		SetSkip(window.Skip).
		SetLimit(window.Limit)

	cursor, err := getCategoryCollection().Find(ctx, filter, opts)
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, "Erreur serveur")
		return
	}

	var categories []models.Category
	if err := cursor.All(ctx, &categories); err != nil {
		errorResponse(c, http.StatusInternalServerError, "Erreur serveur")
		return
	}

	successResponse(c, http.StatusOK, "Catégories récupérées avec succès", gin.H{
		"categories": categories,
		"pagination": window,
	})
}

// 🔵 Options de catégories pour les listes déroulantes (cache Redis)
func GetCategoryOptions(c *gin.Context) {
	ctx := context.Background()

	if cached, ok := cache.GetCategoryOptions(ctx); ok {
		successResponse(c, http.StatusOK, "Options de catégories récupérées avec succès", cached)
		return
	}

	opts := options.Find().
		SetProjection(bson.M{"_id": 1, "categoryName": 1}).
		SetSort(bson.M{"categoryName": 1})

	cursor, err := getCategoryCollection().Find(ctx, bson.M{}, opts)
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, "Erreur serveur")
		return
	}

	var categoryOptions []models.CategoryOption
	if err := cursor.All(ctx, &categoryOptions); err != nil {
		errorResponse(c, http.StatusInternalServerError, "Erreur serveur")
		return
	}
	if len(categoryOptions) == 0 {
		errorResponse(c, http.StatusNotFound, "Aucune catégorie trouvée")
		return
	}

	cache.SetCategoryOptions(ctx, categoryOptions)
	successResponse(c, http.StatusOK, "Options de catégories récupérées avec succès", categoryOptions)
}

// 🔵 Récupérer une catégorie par ID
func GetCategoryByID(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		errorResponse(c, http.StatusBadRequest, "ID de catégorie invalide")
		return
	}

	var category models.Category
	err = getCategoryCollection().FindOne(context.Background(), bson.M{"_id": id}).Decode(&category)
	if err == mongo.ErrNoDocuments {
		errorResponse(c, http.StatusNotFound, "Catégorie introuvable")
		return
	}
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, "Erreur serveur")
		return
	}

	successResponse(c, http.StatusOK, "Catégorie récupérée avec succès", category)
}

// 🟡 Mettre à jour une catégorie (admin)
func UpdateCategory(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		errorResponse(c, http.StatusBadRequest, "ID de catégorie invalide")
		return
	}

	var req struct {
		CategoryName *string `json:"categoryName"`
		Description  *string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, "Données invalides")
		return
	}

	ctx := context.Background()
	update := bson.M{"updatedAt": time.Now()}

	if req.CategoryName != nil {
		name := strings.TrimSpace(*req.CategoryName)
		count, err := getCategoryCollection().CountDocuments(ctx, bson.M{
			"categoryName": name,
			"_id":          bson.M{"$ne": id},
		})
		if err != nil {
			errorResponse(c, http.StatusInternalServerError, "Erreur serveur")
			return
		}
		if count > 0 {
			errorResponse(c, http.StatusConflict, "Une catégorie avec ce nom existe déjà")
			return
		}
		update["categoryName"] = name
	}
	if req.Description != nil {
		update["description"] = strings.TrimSpace(*req.Description)
	}

	after := options.After
	opts := options.FindOneAndUpdate().SetReturnDocument(after)

	var category models.Category
	err = getCategoryCollection().
		FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": update}, opts).
		Decode(&category)
	if err == mongo.ErrNoDocuments {
		errorResponse(c, http.StatusNotFound, "Catégorie introuvable")
		return
	}
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			errorResponse(c, http.StatusConflict, "Une catégorie avec ce nom existe déjà")
			return
		}
		errorResponse(c, http.StatusInternalServerError, "Erreur serveur")
		return
	}

	cache.InvalidateCategoryOptions(ctx)
	successResponse(c, http.StatusOK, "Catégorie mise à jour avec succès", category)
}

// 🔴 Supprimer une catégorie (admin) — pas de contrôle de cascade :
// les modèles et produits rattachés gardent une référence morte.
func DeleteCategory(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		errorResponse(c, http.StatusBadRequest, "ID de catégorie invalide")
		return
	}

	ctx := context.Background()
	res, err := getCategoryCollection().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, "Erreur serveur")
		return
	}
	if res.DeletedCount == 0 {
		errorResponse(c, http.StatusNotFound, "Catégorie introuvable")
		return
	}

	cache.InvalidateCategoryOptions(ctx)
	successResponse(c, http.StatusOK, "Catégorie supprimée avec succès", nil)
}
