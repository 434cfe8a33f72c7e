package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/pawaninkhiya/chawla-cabinets-backend/internal/models"
	"github.com/pawaninkhiya/chawla-cabinets-backend/internal/utils"
)

// 🟢 Créer un utilisateur
func CreateUser(c *gin.Context) {
	var req struct {
		Name     string `json:"name" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=6"`
		Role     string `json:"role"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, "Données invalides: "+err.Error())
		return
	}

	role := req.Role
	if role == "" {
		role = "admin"
	}
	if role != "admin" && role != "user" {
		errorResponse(c, http.StatusBadRequest, "Le rôle doit être 'admin' ou 'user'")
		return
	}

	ctx := context.Background()
	email := strings.ToLower(strings.TrimSpace(req.Email))

	count, err := getUserCollection().CountDocuments(ctx, bson.M{"email": email})
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, "Erreur serveur")
		return
	}
	if count > 0 {
		errorResponse(c, http.StatusConflict, "Un utilisateur avec cet email existe déjà")
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, "Erreur hashage du mot de passe")
		return
	}

	now := time.Now()
	user := models.User{
		Name:      strings.TrimSpace(req.Name),
		Email:     email,
		Password:  hash,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}

	res, err := getUserCollection().InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			errorResponse(c, http.StatusConflict, "Un utilisateur avec cet email existe déjà")
			return
		}
		errorResponse(c, http.StatusInternalServerError, "Erreur création utilisateur")
		return
	}
	user.ID = res.InsertedID.(primitive.ObjectID)

	successResponse(c, http.StatusCreated, "Utilisateur créé avec succès", user)
}

// 🔐 Connexion
func Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, "Email et mot de passe obligatoires")
		return
	}

	ctx := context.Background()
	email := strings.ToLower(strings.TrimSpace(req.Email))

	var user models.User
	err := getUserCollection().FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		errorResponse(c, http.StatusUnauthorized, "Email ou mot de passe invalide")
		return
	}

	ok, err := utils.VerifyPassword(req.Password, user.Password)
	if err != nil || !ok {
		errorResponse(c, http.StatusUnauthorized, "Email ou mot de passe invalide")
		return
	}

	token, err := utils.GenerateJWT(user)
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, "Erreur génération du token")
		return
	}

	successResponse(c, http.StatusOK, "Connexion réussie", gin.H{
		"user":  user,
		"token": token,
	})
}

// 🔵 Récupérer un utilisateur par ID
func GetUserByID(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		errorResponse(c, http.StatusBadRequest, "ID d'utilisateur invalide")
		return
	}

	var user models.User
	err = getUserCollection().FindOne(context.Background(), bson.M{"_id": id}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		errorResponse(c, http.StatusNotFound, "Utilisateur introuvable")
		return
	}
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, "Erreur serveur")
		return
	}

	successResponse(c, http.StatusOK, "Utilisateur récupéré avec succès", user)
}
