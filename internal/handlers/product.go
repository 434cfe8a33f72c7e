package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"mime/multipart"
	"net/http"
	"sort"
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
	"github.com/pawaninkhiya/chawla-cabinets-backend/internal/services"
)

// colorInput — variante telle que reçue dans le champ "colors" (JSON)
// du formulaire de création.
type colorInput struct {
	Name      string   `json:"name"`
	Body      string   `json:"body"`
	Door      string   `json:"door"`
	Price     float64  `json:"price"`
	MRP       float64  `json:"mrp"`
	Available *bool    `json:"available"`
	Images    []string `json:"images"`
}

// 🟢 Créer un produit (admin, multipart)
//
// Champs scalaires + "colors" en JSON ; fichiers : "cardImage" et
// "color_{i}_image_*" pour les images de la variante i. Les uploads
// déjà effectués sont supprimés (best-effort) si l'insertion échoue.
func CreateProduct(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		errorResponse(c, http.StatusBadRequest, "Formulaire multipart invalide")
		return
	}

	createdBy, err := primitive.ObjectIDFromHex(c.GetString("user_id"))
	if err != nil {
		errorResponse(c, http.StatusUnauthorized, "Identité de l'utilisateur invalide")
		return
	}

	name := strings.TrimSpace(c.PostForm("name"))
	if name == "" {
		errorResponse(c, http.StatusBadRequest, "Le champ 'name' est obligatoire")
		return
	}
	modelID, err := primitive.ObjectIDFromHex(c.PostForm("modelId"))
	if err != nil {
		errorResponse(c, http.StatusBadRequest, "ID de modèle invalide")
		return
	}
	categoryID, err := primitive.ObjectIDFromHex(c.PostForm("categoryId"))
	if err != nil {
		errorResponse(c, http.StatusBadRequest, "ID de catégorie invalide")
		return
	}
	numberOfDoors, err := strconv.Atoi(c.PostForm("numberOfDoors"))
	if err != nil || numberOfDoors < 1 {
		errorResponse(c, http.StatusBadRequest, "Le champ 'numberOfDoors' doit être un entier positif")
		return
	}
	colorOptionsCount, err := strconv.Atoi(c.PostForm("colorOptionsCount"))
	if err != nil || colorOptionsCount < 0 {
		errorResponse(c, http.StatusBadRequest, "Le champ 'colorOptionsCount' doit être un entier positif ou nul")
		return
	}
	price, err := strconv.ParseFloat(c.PostForm("price"), 64)
	if err != nil || price < 0 {
		errorResponse(c, http.StatusBadRequest, "Le champ 'price' doit être un nombre positif")
		return
	}
	mrp, err := strconv.ParseFloat(c.PostForm("mrp"), 64)
	if err != nil || mrp < 0 {
		errorResponse(c, http.StatusBadRequest, "Le champ 'mrp' doit être un nombre positif")
		return
	}

	var colorInputs []colorInput
	if raw := c.PostForm("colors"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &colorInputs); err != nil {
			errorResponse(c, http.StatusBadRequest, "Le champ 'colors' doit être un tableau JSON valide")
			return
		}
	}

	ctx := context.Background()

	count, err := getProductCollection().CountDocuments(ctx, bson.M{"name": name, "modelId": modelID})
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, "Erreur serveur")
		return
	}
	if count > 0 {
		errorResponse(c, http.StatusConflict, "Un produit avec ce nom existe déjà pour ce modèle")
		return
	}

	// Suivi de tout ce qui part vers le stockage pour pouvoir compenser.
	var uploadedRefs []string
	rollback := func() {
		if len(uploadedRefs) == 0 {
			return
		}
		if err := storage().DeleteMany(ctx, uploadedRefs); err != nil {
			log.Println("⚠️ Rollback des uploads échoué, objets orphelins:", err)
		}
	}

	var cardImage string
	if fhs := form.File["cardImage"]; len(fhs) > 0 {
		refs, err := uploadHeaders(ctx, fhs[:1])
		if err != nil {
			errorResponse(c, http.StatusBadGateway, "Échec de l'upload de l'image de carte")
			return
		}
		cardImage = refs[0]
		uploadedRefs = append(uploadedRefs, refs...)
	}

	colors := make([]models.ColorOption, 0, len(colorInputs))
	for i, in := range colorInputs {
		images := in.Images
		if images == nil {
			images = []string{}
		}

		if fhs := colorFiles(form, i); len(fhs) > 0 {
			refs, err := uploadHeaders(ctx, fhs)
			if err != nil {
				rollback()
				errorResponse(c, http.StatusBadGateway, "Échec de l'upload des images de variante")
				return
			}
			images = refs
			uploadedRefs = append(uploadedRefs, refs...)
		}

		available := true
		if in.Available != nil {
			available = *in.Available
		}
		colors = append(colors, models.ColorOption{
			ID:        primitive.NewObjectID(),
			Name:      in.Name,
			Body:      in.Body,
			Door:      in.Door,
			Images:    images,
			Price:     in.Price,
			MRP:       in.MRP,
			Available: available,
		})
	}

	now := time.Now()
	product := models.Product{
		Name:              name,
		ModelID:           modelID,
		CategoryID:        categoryID,
		CreatedBy:         createdBy,
		Description:       strings.TrimSpace(c.PostForm("description")),
		NumberOfDoors:     numberOfDoors,
		ColorOptionsCount: colorOptionsCount,
		Price:             price,
		MRP:               mrp,
		Material:          c.DefaultPostForm("material", "Steel"),
		Warranty:          c.DefaultPostForm("warranty", "5 Years"),
		PaintType:         c.DefaultPostForm("paintType", "Powder Coating"),
		CardImage:         cardImage,
		Colors:            colors,
		ColorsAvailable:   len(colors) > 0,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	res, err := getProductCollection().InsertOne(ctx, product)
	if err != nil {
		rollback()
		if mongo.IsDuplicateKeyError(err) {
			errorResponse(c, http.StatusConflict, "Un produit avec ce nom existe déjà pour ce modèle")
			return
		}
		errorResponse(c, http.StatusInternalServerError, "Erreur création produit")
		return
	}
	product.ID = res.InsertedID.(primitive.ObjectID)

	// 🔄 Indexation Elastic en arrière-plan
	go services.IndexProduct(product)

	successResponse(c, http.StatusCreated, "Produit créé avec succès", product)
}

// 🔵 Lister les produits (recherche + filtres + pagination)
func GetAllProducts(c *gin.Context) {
	ctx := context.Background()

	search := c.Query("search")
	page, _ := strconv.ParseInt(c.Query("page"), 10, 64)
	limit, _ := strconv.ParseInt(c.Query("limit"), 10, 64)

	filter := catalog.BuildSearchQuery(search, []string{"name"})
	if raw := c.Query("categoryId"); raw != "" {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			errorResponse(c, http.StatusBadRequest, "ID de catégorie invalide")
			return
		}
		filter["categoryId"] = id
	}
	if raw := c.Query("modelId"); raw != "" {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			errorResponse(c, http.StatusBadRequest, "ID de modèle invalide")
			return
		}
		filter["modelId"] = id
	}

	total, err := getProductCollection().CountDocuments(ctx, filter)
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, "Erreur serveur")
		return
	}
	if total == 0 {
		errorResponse(c, http.StatusOK, "Aucun produit trouvé")
		return
	}

	window := catalog.Paginate(total, catalog.PageRequest{Page: page, Limit: limit}, 20)

	opts := options.Find().
		SetSort(bson.M{"createdAt": -1}).
		SetSkip(window.Skip).
		SetLimit(window.Limit)

	cursor, err := getProductCollection().Find(ctx, filter, opts)
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, "Erreur serveur")
		return
	}

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		errorResponse(c, http.StatusInternalServerError, "Erreur serveur")
		return
	}

	successResponse(c, http.StatusOK, "Produits récupérés avec succès", gin.H{
		"products":   products,
		"pagination": window,
	})
}

// 🔍 Recherche de produits via Elasticsearch, fallback MongoDB
func SearchProducts(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		errorResponse(c, http.StatusBadRequest, "Paramètre 'q' manquant")
		return
	}

	if results, err := services.SearchProducts(query); err == nil && len(results) > 0 {
		successResponse(c, http.StatusOK, "Produits trouvés", results)
		return
	}

	ctx := context.Background()
	filter := catalog.BuildSearchQuery(query, []string{"name", "description"})

	cursor, err := getProductCollection().Find(ctx, filter)
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, "Erreur recherche MongoDB")
		return
	}

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		errorResponse(c, http.StatusInternalServerError, "Erreur serveur")
		return
	}
	if len(products) == 0 {
		errorResponse(c, http.StatusOK, "Aucun produit trouvé")
		return
	}

	successResponse(c, http.StatusOK, "Produits trouvés", products)
}

// 🔵 Récupérer un produit par ID (cache Redis)
func GetProductByID(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		errorResponse(c, http.StatusBadRequest, "ID de produit invalide")
		return
	}

	ctx := context.Background()

	if cached, ok := cache.GetProduct(ctx, id.Hex()); ok {
		successResponse(c, http.StatusOK, "Produit récupéré avec succès", cached)
		return
	}

	var product models.Product
	err = getProductCollection().FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if err == mongo.ErrNoDocuments {
		errorResponse(c, http.StatusNotFound, "Produit introuvable")
		return
	}
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, "Erreur serveur")
		return
	}

	cache.SetProduct(ctx, &product)
	successResponse(c, http.StatusOK, "Produit récupéré avec succès", product)
}

// 🟡 Mettre à jour un produit (admin) — champs généraux uniquement :
// toute mutation de 'colors' passe par les endpoints de variantes.
func UpdateProduct(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		errorResponse(c, http.StatusBadRequest, "ID de produit invalide")
		return
	}

	var raw map[string]json.RawMessage
	if err := c.ShouldBindJSON(&raw); err != nil {
		errorResponse(c, http.StatusBadRequest, "Données invalides")
		return
	}
	if _, ok := raw["colors"]; ok {
		errorResponse(c, http.StatusBadRequest, "Les options de couleur se modifient via les endpoints dédiés")
		return
	}

	update := bson.M{"updatedAt": time.Now()}

	for _, field := range []string{"name", "description", "material", "warranty", "paintType"} {
		if data, ok := raw[field]; ok {
			var value string
			if err := json.Unmarshal(data, &value); err != nil {
				errorResponse(c, http.StatusBadRequest, fmt.Sprintf("Le champ '%s' doit être une chaîne", field))
				return
			}
			update[field] = strings.TrimSpace(value)
		}
	}
	for _, field := range []string{"numberOfDoors", "colorOptionsCount"} {
		if data, ok := raw[field]; ok {
			var value int
			if err := json.Unmarshal(data, &value); err != nil {
				errorResponse(c, http.StatusBadRequest, fmt.Sprintf("Le champ '%s' doit être un entier", field))
				return
			}
			update[field] = value
		}
	}
	for _, field := range []string{"price", "mrp"} {
		if data, ok := raw[field]; ok {
			var value float64
			if err := json.Unmarshal(data, &value); err != nil {
				errorResponse(c, http.StatusBadRequest, fmt.Sprintf("Le champ '%s' doit être un nombre", field))
				return
			}
			update[field] = value
		}
	}
	for _, field := range []string{"modelId", "categoryId"} {
		if data, ok := raw[field]; ok {
			var hex string
			if err := json.Unmarshal(data, &hex); err != nil {
				errorResponse(c, http.StatusBadRequest, fmt.Sprintf("Le champ '%s' doit être un ObjectId", field))
				return
			}
			oid, err := primitive.ObjectIDFromHex(hex)
			if err != nil {
				errorResponse(c, http.StatusBadRequest, fmt.Sprintf("Le champ '%s' doit être un ObjectId", field))
				return
			}
			update[field] = oid
		}
	}

	ctx := context.Background()
	after := options.After
	opts := options.FindOneAndUpdate().SetReturnDocument(after)

	var product models.Product
	err = getProductCollection().
		FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": update}, opts).
		Decode(&product)
	if err == mongo.ErrNoDocuments {
		errorResponse(c, http.StatusNotFound, "Produit introuvable")
		return
	}
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			errorResponse(c, http.StatusConflict, "Un produit avec ce nom existe déjà pour ce modèle")
			return
		}
		errorResponse(c, http.StatusInternalServerError, "Erreur mise à jour produit")
		return
	}

	cache.InvalidateProduct(ctx, id.Hex())
	go services.IndexProduct(product)

	successResponse(c, http.StatusOK, "Produit mis à jour avec succès (couleurs non modifiées)", product)
}

// 🔴 Supprimer un produit (admin) — les images partent d'abord, le
// document ensuite.
func DeleteProduct(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		errorResponse(c, http.StatusBadRequest, "ID de produit invalide")
		return
	}

	ctx := context.Background()
	if err := catalogManager().DeleteProduct(ctx, id); err != nil {
		catalogError(c, err)
		return
	}

	cache.InvalidateProduct(ctx, id.Hex())
	go services.RemoveProductIndex(id.Hex())

	successResponse(c, http.StatusOK, "Produit supprimé avec succès", nil)
}

// uploadHeaders ouvre puis uploade des fichiers multipart, URLs dans
// l'ordre des fichiers.
func uploadHeaders(ctx context.Context, fhs []*multipart.FileHeader) ([]string, error) {
	uploads, closeAll, err := uploadsFromFiles(fhs)
	if err != nil {
		return nil, err
	}
	defer closeAll()
	return storage().UploadMany(ctx, uploads)
}

// colorFiles rassemble les fichiers "color_{i}_image_*" de la variante
// i, champs triés pour garder un ordre déterministe.
func colorFiles(form *multipart.Form, i int) []*multipart.FileHeader {
	prefix := fmt.Sprintf("color_%d_image_", i)

	var fields []string
	for field := range form.File {
		if strings.HasPrefix(field, prefix) {
			fields = append(fields, field)
		}
	}
	sort.Strings(fields)

	var fhs []*multipart.FileHeader
	for _, field := range fields {
		fhs = append(fhs, form.File[field]...)
	}
	return fhs
}
