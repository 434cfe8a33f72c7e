package handlers

import (
	"context"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/pawaninkhiya/chawla-cabinets-backend/internal/cache"
	"github.com/pawaninkhiya/chawla-cabinets-backend/internal/catalog"
)

// Endpoints de variantes : toute mutation de l'ensemble {variante,
// images stockées} passe par le gestionnaire de cycle de vie.

// 🟢 Ajouter une option de couleur (admin, multipart, fichiers "images")
func AddColorOption(c *gin.Context) {
	productID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		errorResponse(c, http.StatusBadRequest, "ID de produit invalide")
		return
	}

	name := c.PostForm("name")
	body := c.PostForm("body")
	if name == "" || body == "" {
		errorResponse(c, http.StatusBadRequest, "Les champs 'name' et 'body' sont obligatoires")
		return
	}

	input := catalog.ColorOptionInput{
		Name: name,
		Body: body,
		Door: c.PostForm("door"),
	}
	if raw, ok := c.GetPostForm("price"); ok {
		if input.Price, err = strconv.ParseFloat(raw, 64); err != nil {
			errorResponse(c, http.StatusBadRequest, "Le champ 'price' doit être un nombre")
			return
		}
	}
	if raw, ok := c.GetPostForm("mrp"); ok {
		if input.MRP, err = strconv.ParseFloat(raw, 64); err != nil {
			errorResponse(c, http.StatusBadRequest, "Le champ 'mrp' doit être un nombre")
			return
		}
	}
	if raw, ok := c.GetPostForm("available"); ok {
		available, err := strconv.ParseBool(raw)
		if err != nil {
			errorResponse(c, http.StatusBadRequest, "Le champ 'available' doit être un booléen")
			return
		}
		input.Available = &available
	}

	form, _ := c.MultipartForm()
	var uploads []catalog.Upload
	if form != nil && len(form.File["images"]) > 0 {
		var closeAll func()
		uploads, closeAll, err = uploadsFromFiles(form.File["images"])
		if err != nil {
			errorResponse(c, http.StatusBadRequest, "Fichiers d'images illisibles")
			return
		}
		defer closeAll()
	}

	ctx := context.Background()
	color, err := catalogManager().AddColorOption(ctx, productID, input, uploads)
	if err != nil {
		catalogError(c, err)
		return
	}

	cache.InvalidateProduct(ctx, productID.Hex())
	successResponse(c, http.StatusCreated, "Option de couleur ajoutée avec succès", color)
}

// 🟡 Mettre à jour une option de couleur (admin, multipart)
//
// "removeImages" (répétable) retire des références, les fichiers
// "images" s'ajoutent en fin de séquence. Les champs absents du
// formulaire restent inchangés.
func UpdateColorOption(c *gin.Context) {
	productID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		errorResponse(c, http.StatusBadRequest, "ID de produit invalide")
		return
	}
	colorID, err := primitive.ObjectIDFromHex(c.Param("colorId"))
	if err != nil {
		errorResponse(c, http.StatusBadRequest, "ID de couleur invalide")
		return
	}

	var patch catalog.ColorOptionPatch
	if raw, ok := c.GetPostForm("name"); ok {
		patch.Name = &raw
	}
	if raw, ok := c.GetPostForm("body"); ok {
		patch.Body = &raw
	}
	if raw, ok := c.GetPostForm("door"); ok {
		patch.Door = &raw
	}
	if raw, ok := c.GetPostForm("price"); ok {
		price, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			errorResponse(c, http.StatusBadRequest, "Le champ 'price' doit être un nombre")
			return
		}
		patch.Price = &price
	}
	if raw, ok := c.GetPostForm("mrp"); ok {
		mrp, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			errorResponse(c, http.StatusBadRequest, "Le champ 'mrp' doit être un nombre")
			return
		}
		patch.MRP = &mrp
	}
	if raw, ok := c.GetPostForm("available"); ok {
		available, err := strconv.ParseBool(raw)
		if err != nil {
			errorResponse(c, http.StatusBadRequest, "Le champ 'available' doit être un booléen")
			return
		}
		patch.Available = &available
	}

	removeImages := c.PostFormArray("removeImages")

	form, _ := c.MultipartForm()
	var uploads []catalog.Upload
	if form != nil && len(form.File["images"]) > 0 {
		var closeAll func()
		uploads, closeAll, err = uploadsFromFiles(form.File["images"])
		if err != nil {
			errorResponse(c, http.StatusBadRequest, "Fichiers d'images illisibles")
			return
		}
		defer closeAll()
	}

	ctx := context.Background()
	color, err := catalogManager().UpdateColorOption(ctx, productID, colorID, patch, removeImages, uploads)
	if err != nil {
		catalogError(c, err)
		return
	}

	cache.InvalidateProduct(ctx, productID.Hex())
	successResponse(c, http.StatusOK, "Option de couleur mise à jour avec succès", color)
}

// 🟡 Réordonner les images d'une option de couleur (admin)
func ReorderColorImages(c *gin.Context) {
	productID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		errorResponse(c, http.StatusBadRequest, "ID de produit invalide")
		return
	}
	colorID, err := primitive.ObjectIDFromHex(c.Param("colorId"))
	if err != nil {
		errorResponse(c, http.StatusBadRequest, "ID de couleur invalide")
		return
	}

	var req struct {
		NewOrder []string `json:"newOrder"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.NewOrder == nil {
		errorResponse(c, http.StatusBadRequest, "Le champ 'newOrder' doit être un tableau d'URLs d'images")
		return
	}

	ctx := context.Background()
	color, err := catalogManager().ReorderColorImages(ctx, productID, colorID, req.NewOrder)
	if err != nil {
		catalogError(c, err)
		return
	}

	cache.InvalidateProduct(ctx, productID.Hex())
	successResponse(c, http.StatusOK, "Ordre des images mis à jour avec succès", color)
}

// 🔵 Lister les images d'une option de couleur en URLs signées (24h)
func GetColorImages(c *gin.Context) {
	productID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		errorResponse(c, http.StatusBadRequest, "ID de produit invalide")
		return
	}
	colorID, err := primitive.ObjectIDFromHex(c.Param("colorId"))
	if err != nil {
		errorResponse(c, http.StatusBadRequest, "ID de couleur invalide")
		return
	}

	ctx := context.Background()
	color, err := catalogManager().GetColorOption(ctx, productID, colorID)
	if err != nil {
		catalogError(c, err)
		return
	}

	signed := []string{}
	for _, ref := range color.Images {
		if ref == "" {
			continue
		}
		u, err := storage().SignedImageURL(ctx, ref)
		if err != nil {
			log.Println("⚠️ URL signée impossible pour", ref, ":", err)
			continue
		}
		signed = append(signed, u)
	}

	successResponse(c, http.StatusOK, "Images récupérées avec succès", gin.H{
		"colorId": colorID.Hex(),
		"images":  signed,
	})
}
