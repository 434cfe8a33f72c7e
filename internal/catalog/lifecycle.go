package catalog

import (
	"context"
	"log"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/pawaninkhiya/chawla-cabinets-backend/internal/models"
)

// Manager coordonne la mutation des variantes avec le cycle de vie des
// images : chaque opération calcule le nouvel ensemble d'images
// (upload / suppression via la passerelle) puis persiste la variante.
type Manager struct {
	store   ProductStore
	storage ObjectStorage
}

func NewManager(store ProductStore, storage ObjectStorage) *Manager {
	return &Manager{store: store, storage: storage}
}

// ColorOptionInput — champs d'une nouvelle variante.
type ColorOptionInput struct {
	Name      string
	Body      string
	Door      string
	Price     float64
	MRP       float64
	Available *bool
}

// ColorOptionPatch — mise à jour partielle : nil signifie "inchangé".
type ColorOptionPatch struct {
	Name      *string
	Body      *string
	Door      *string
	Price     *float64
	MRP       *float64
	Available *bool
}

// AddColorOption uploade les fichiers dans l'ordre reçu, construit la
// variante (identifiant local frais, available=true par défaut) et
// l'ajoute en fin de liste. Si la persistance échoue après l'upload,
// les objets tout juste créés sont supprimés en best-effort.
func (m *Manager) AddColorOption(ctx context.Context, productID primitive.ObjectID, in ColorOptionInput, files []Upload) (*models.ColorOption, error) {
	if _, err := m.store.FindProduct(ctx, productID); err != nil {
		return nil, err
	}

	images := []string{}
	if len(files) > 0 {
		uploaded, err := m.storage.UploadMany(ctx, files)
		if err != nil {
			return nil, WrapError(KindStorage, "Échec de l'upload des images", err)
		}
		images = uploaded
	}

	available := true
	if in.Available != nil {
		available = *in.Available
	}

	color := models.ColorOption{
		ID:        primitive.NewObjectID(),
		Name:      in.Name,
		Body:      in.Body,
		Door:      in.Door,
		Images:    images,
		Price:     in.Price,
		MRP:       in.MRP,
		Available: available,
	}

	if err := m.store.AppendColor(ctx, productID, color); err != nil {
		m.rollbackUploads(ctx, images)
		return nil, err
	}
	return &color, nil
}

// UpdateColorOption applique removeImages puis les nouveaux uploads
// (dans cet ordre : un remplacement atterrit en fin de séquence, pas à
// la position retirée), puis les champs du patch explicitement fournis.
func (m *Manager) UpdateColorOption(ctx context.Context, productID, colorID primitive.ObjectID, patch ColorOptionPatch, removeImages []string, files []Upload) (*models.ColorOption, error) {
	product, err := m.store.FindProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	color := findColor(product, colorID)
	if color == nil {
		return nil, NewError(KindNotFound, "Option de couleur introuvable")
	}

	images := append([]string{}, color.Images...)
	if len(removeImages) > 0 {
		if err := m.storage.DeleteMany(ctx, removeImages); err != nil {
			return nil, WrapError(KindStorage, "Échec de la suppression des images", err)
		}
		images = difference(images, removeImages)
	}

	var added []string
	if len(files) > 0 {
		added, err = m.storage.UploadMany(ctx, files)
		if err != nil {
			return nil, WrapError(KindStorage, "Échec de l'upload des images", err)
		}
		images = append(images, added...)
	}

	if patch.Name != nil {
		color.Name = *patch.Name
	}
	if patch.Body != nil {
		color.Body = *patch.Body
	}
	if patch.Door != nil {
		color.Door = *patch.Door
	}
	if patch.Price != nil {
		color.Price = *patch.Price
	}
	if patch.MRP != nil {
		color.MRP = *patch.MRP
	}
	if patch.Available != nil {
		color.Available = *patch.Available
	}
	color.Images = images

	if err := m.store.UpdateColor(ctx, productID, *color, len(product.Colors) > 0); err != nil {
		m.rollbackUploads(ctx, added)
		return nil, err
	}
	return color, nil
}

// ReorderColorImages remplace la séquence d'images par newOrder.
// Chaque entrée doit déjà exister pour cette couleur ; l'ordre peut
// réduire l'ensemble, auquel cas les références écartées sont aussi
// supprimées du stockage (best-effort) pour ne pas laisser d'orphelins.
func (m *Manager) ReorderColorImages(ctx context.Context, productID, colorID primitive.ObjectID, newOrder []string) (*models.ColorOption, error) {
	product, err := m.store.FindProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	color := findColor(product, colorID)
	if color == nil {
		return nil, NewError(KindNotFound, "Option de couleur introuvable")
	}

	current := make(map[string]bool, len(color.Images))
	for _, ref := range color.Images {
		current[ref] = true
	}
	for _, ref := range newOrder {
		if !current[ref] {
			return nil, NewError(KindInvalidOrder, "Toutes les images de newOrder doivent déjà exister pour cette couleur")
		}
	}

	dropped := difference(color.Images, newOrder)
	color.Images = append([]string{}, newOrder...)

	if err := m.store.UpdateColor(ctx, productID, *color, len(product.Colors) > 0); err != nil {
		return nil, err
	}

	if len(dropped) > 0 {
		if err := m.storage.DeleteMany(ctx, dropped); err != nil {
			log.Println("⚠️ Images écartées du réordonnancement non supprimées du stockage:", err)
		}
	}
	return color, nil
}

// DeleteProduct supprime d'abord tous les objets détenus (cardImage +
// images de chaque variante) puis le document. Si la suppression du
// document échoue ensuite, il reste un document sans images — état
// dégradé accepté, pas de corruption.
func (m *Manager) DeleteProduct(ctx context.Context, productID primitive.ObjectID) error {
	product, err := m.store.FindProduct(ctx, productID)
	if err != nil {
		return err
	}

	if refs := product.AllImageRefs(); len(refs) > 0 {
		if err := m.storage.DeleteMany(ctx, refs); err != nil {
			return WrapError(KindStorage, "Échec de la suppression des images du produit", err)
		}
	}
	return m.store.DeleteProduct(ctx, productID)
}

// GetColorOption localise une variante par son identifiant local.
func (m *Manager) GetColorOption(ctx context.Context, productID, colorID primitive.ObjectID) (*models.ColorOption, error) {
	product, err := m.store.FindProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	color := findColor(product, colorID)
	if color == nil {
		return nil, NewError(KindNotFound, "Option de couleur introuvable")
	}
	return color, nil
}

// rollbackUploads compense un échec de persistance survenu après un
// upload : seuls les objets tout juste créés sont visés, jamais les
// images préexistantes. L'échec du rollback laisse des orphelins et
// se contente d'un log.
func (m *Manager) rollbackUploads(ctx context.Context, refs []string) {
	if len(refs) == 0 {
		return
	}
	if err := m.storage.DeleteMany(ctx, refs); err != nil {
		log.Println("⚠️ Rollback des uploads échoué, objets orphelins dans le stockage:", err)
	}
}

func findColor(product *models.Product, colorID primitive.ObjectID) *models.ColorOption {
	for i := range product.Colors {
		if product.Colors[i].ID == colorID {
			return &product.Colors[i]
		}
	}
	return nil
}

// difference retire de refs toutes les valeurs présentes dans remove,
// en préservant l'ordre (différence par valeur, pas par position).
func difference(refs, remove []string) []string {
	removeSet := make(map[string]bool, len(remove))
	for _, ref := range remove {
		removeSet[ref] = true
	}
	kept := []string{}
	for _, ref := range refs {
		if !removeSet[ref] {
			kept = append(kept, ref)
		}
	}
	return kept
}
