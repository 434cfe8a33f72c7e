package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/pawaninkhiya/chawla-cabinets-backend/internal/models"
)

//
// --- FAKES ---
//

type fakeStore struct {
	mu        sync.Mutex
	products  map[primitive.ObjectID]*models.Product
	appendErr error
	updateErr error
}

func newFakeStore(products ...*models.Product) *fakeStore {
	s := &fakeStore{products: make(map[primitive.ObjectID]*models.Product)}
	for _, p := range products {
		s.products[p.ID] = p
	}
	return s
}

func (s *fakeStore) FindProduct(_ context.Context, id primitive.ObjectID) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return nil, NewError(KindNotFound, "Produit introuvable")
	}
	// Copie profonde des variantes : chaque appel lit son propre document.
	cp := *p
	cp.Colors = make([]models.ColorOption, len(p.Colors))
	for i, color := range p.Colors {
		cp.Colors[i] = color
		cp.Colors[i].Images = append([]string{}, color.Images...)
	}
	return &cp, nil
}

func (s *fakeStore) AppendColor(_ context.Context, productID primitive.ObjectID, color models.ColorOption) error {
	if s.appendErr != nil {
		return s.appendErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[productID]
	if !ok {
		return NewError(KindNotFound, "Produit introuvable")
	}
	p.Colors = append(p.Colors, color)
	p.ColorsAvailable = true
	return nil
}

func (s *fakeStore) UpdateColor(_ context.Context, productID primitive.ObjectID, color models.ColorOption, colorsAvailable bool) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[productID]
	if !ok {
		return NewError(KindNotFound, "Produit introuvable")
	}
	for i := range p.Colors {
		if p.Colors[i].ID == color.ID {
			p.Colors[i] = color
			p.ColorsAvailable = colorsAvailable
			return nil
		}
	}
	return NewError(KindNotFound, "Option de couleur introuvable")
}

func (s *fakeStore) DeleteProduct(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[id]; !ok {
		return NewError(KindNotFound, "Produit introuvable")
	}
	delete(s.products, id)
	return nil
}

type fakeStorage struct {
	mu        sync.Mutex
	counter   int
	uploaded  []string
	deleted   []string
	uploadErr error
	deleteErr error
}

func (s *fakeStorage) UploadMany(_ context.Context, uploads []Upload) ([]string, error) {
	if s.uploadErr != nil {
		return nil, s.uploadErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	refs := make([]string, 0, len(uploads))
	for _, up := range uploads {
		s.counter++
		ref := fmt.Sprintf("http://minio.local/cabinets/up-%d-%s", s.counter, up.Name)
		refs = append(refs, ref)
		s.uploaded = append(s.uploaded, ref)
	}
	return refs, nil
}

func (s *fakeStorage) DeleteMany(_ context.Context, refs []string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, refs...)
	return nil
}

func upload(name string) Upload {
	return Upload{Name: name, ContentType: "image/jpeg", Size: 3, Content: strings.NewReader("img")}
}

func testProduct(colors ...models.ColorOption) *models.Product {
	return &models.Product{
		ID:              primitive.NewObjectID(),
		Name:            "Armoire 2 portes",
		Colors:          colors,
		ColorsAvailable: len(colors) > 0,
	}
}

//
// --- AJOUT DE VARIANTE ---
//

func TestAddColorOptionAppendsWithUploadOrder(t *testing.T) {
	product := testProduct()
	store := newFakeStore(product)
	storage := &fakeStorage{}
	mgr := NewManager(store, storage)

	color, err := mgr.AddColorOption(context.Background(), product.ID, ColorOptionInput{
		Name: "Bleu nuit",
		Body: "Bleu",
		Door: "Blanc",
	}, []Upload{upload("a.jpg"), upload("b.jpg")})

	require.NoError(t, err)
	require.NotNil(t, color)
	assert.False(t, color.ID.IsZero())
	assert.True(t, color.Available)
	assert.Equal(t, float64(0), color.Price)
	assert.Equal(t, storage.uploaded, color.Images)

	stored, err := store.FindProduct(context.Background(), product.ID)
	require.NoError(t, err)
	require.Len(t, stored.Colors, 1)
	assert.Equal(t, color.Images, stored.Colors[0].Images)
	assert.True(t, stored.ColorsAvailable)
}

func TestAddColorOptionWithoutFiles(t *testing.T) {
	product := testProduct()
	store := newFakeStore(product)
	mgr := NewManager(store, &fakeStorage{})

	color, err := mgr.AddColorOption(context.Background(), product.ID, ColorOptionInput{Name: "Gris", Body: "Gris"}, nil)

	require.NoError(t, err)
	assert.Equal(t, []string{}, color.Images)
}

func TestAddColorOptionProductNotFound(t *testing.T) {
	mgr := NewManager(newFakeStore(), &fakeStorage{})

	_, err := mgr.AddColorOption(context.Background(), primitive.NewObjectID(), ColorOptionInput{Name: "Gris", Body: "Gris"}, nil)

	require.Error(t, err)
	assert.Equal(t, KindNotFound, ErrorKind(err))
}

func TestAddColorOptionRollsBackUploadsOnPersistFailure(t *testing.T) {
	product := testProduct()
	store := newFakeStore(product)
	store.appendErr = WrapError(KindInternal, "Erreur ajout de la variante", errors.New("write failed"))
	storage := &fakeStorage{}
	mgr := NewManager(store, storage)

	_, err := mgr.AddColorOption(context.Background(), product.ID, ColorOptionInput{Name: "Gris", Body: "Gris"}, []Upload{upload("a.jpg")})

	require.Error(t, err)
	// Compensation : les objets tout juste uploadés sont supprimés.
	assert.Equal(t, storage.uploaded, storage.deleted)
}

func TestAddColorOptionStorageFailure(t *testing.T) {
	product := testProduct()
	store := newFakeStore(product)
	storage := &fakeStorage{uploadErr: errors.New("minio down")}
	mgr := NewManager(store, storage)

	_, err := mgr.AddColorOption(context.Background(), product.ID, ColorOptionInput{Name: "Gris", Body: "Gris"}, []Upload{upload("a.jpg")})

	require.Error(t, err)
	assert.Equal(t, KindStorage, ErrorKind(err))

	stored, _ := store.FindProduct(context.Background(), product.ID)
	assert.Empty(t, stored.Colors)
}

// Deux ajouts simultanés sur le même produit : l'append est atomique
// côté store, les deux variantes atterrissent.
func TestConcurrentAddColorOptionsBothLand(t *testing.T) {
	product := testProduct()
	store := newFakeStore(product)
	mgr := NewManager(store, &fakeStorage{})

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := mgr.AddColorOption(context.Background(), product.ID, ColorOptionInput{
				Name: fmt.Sprintf("Couleur %d", i),
				Body: "Gris",
			}, nil)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	stored, err := store.FindProduct(context.Background(), product.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Colors, 2)
}

//
// --- MISE À JOUR DE VARIANTE ---
//

func TestUpdateColorOptionRemoveThenAppend(t *testing.T) {
	color := models.ColorOption{
		ID:     primitive.NewObjectID(),
		Name:   "Rouge",
		Body:   "Rouge",
		Images: []string{"a.jpg", "b.jpg", "c.jpg"},
	}
	product := testProduct(color)
	store := newFakeStore(product)
	storage := &fakeStorage{}
	mgr := NewManager(store, storage)

	updated, err := mgr.UpdateColorOption(context.Background(), product.ID, color.ID,
		ColorOptionPatch{}, []string{"b.jpg"}, []Upload{upload("d.jpg")})

	require.NoError(t, err)
	// (images \ removeImages) ++ uploads, dans cet ordre.
	require.Len(t, updated.Images, 3)
	assert.Equal(t, "a.jpg", updated.Images[0])
	assert.Equal(t, "c.jpg", updated.Images[1])
	assert.Equal(t, storage.uploaded[0], updated.Images[2])
	assert.Equal(t, []string{"b.jpg"}, storage.deleted)
}

func TestUpdateColorOptionPartialPatch(t *testing.T) {
	color := models.ColorOption{
		ID:        primitive.NewObjectID(),
		Name:      "Rouge",
		Body:      "Rouge",
		Door:      "Blanc",
		Price:     100,
		MRP:       120,
		Available: true,
	}
	product := testProduct(color)
	store := newFakeStore(product)
	mgr := NewManager(store, &fakeStorage{})

	newPrice := 90.0
	available := false
	updated, err := mgr.UpdateColorOption(context.Background(), product.ID, color.ID,
		ColorOptionPatch{Price: &newPrice, Available: &available}, nil, nil)

	require.NoError(t, err)
	// Les champs absents du patch restent inchangés.
	assert.Equal(t, "Rouge", updated.Name)
	assert.Equal(t, "Blanc", updated.Door)
	assert.Equal(t, 90.0, updated.Price)
	assert.Equal(t, 120.0, updated.MRP)
	assert.False(t, updated.Available)
}

func TestUpdateColorOptionVariantNotFound(t *testing.T) {
	product := testProduct()
	store := newFakeStore(product)
	mgr := NewManager(store, &fakeStorage{})

	_, err := mgr.UpdateColorOption(context.Background(), product.ID, primitive.NewObjectID(),
		ColorOptionPatch{}, nil, nil)

	require.Error(t, err)
	assert.Equal(t, KindNotFound, ErrorKind(err))
}

func TestUpdateColorOptionRollsBackNewUploadsOnly(t *testing.T) {
	color := models.ColorOption{
		ID:     primitive.NewObjectID(),
		Name:   "Rouge",
		Body:   "Rouge",
		Images: []string{"a.jpg"},
	}
	product := testProduct(color)
	store := newFakeStore(product)
	store.updateErr = WrapError(KindInternal, "Erreur mise à jour de la variante", errors.New("write failed"))
	storage := &fakeStorage{}
	mgr := NewManager(store, storage)

	_, err := mgr.UpdateColorOption(context.Background(), product.ID, color.ID,
		ColorOptionPatch{}, nil, []Upload{upload("d.jpg")})

	require.Error(t, err)
	// Seuls les nouveaux uploads sont compensés, jamais a.jpg.
	assert.Equal(t, storage.uploaded, storage.deleted)
	assert.NotContains(t, storage.deleted, "a.jpg")
}

//
// --- RÉORDONNANCEMENT DES IMAGES ---
//

func TestReorderColorImagesPermutation(t *testing.T) {
	color := models.ColorOption{
		ID:     primitive.NewObjectID(),
		Name:   "Rouge",
		Body:   "Rouge",
		Images: []string{"a.jpg", "b.jpg", "c.jpg"},
	}
	product := testProduct(color)
	store := newFakeStore(product)
	storage := &fakeStorage{}
	mgr := NewManager(store, storage)

	updated, err := mgr.ReorderColorImages(context.Background(), product.ID, color.ID,
		[]string{"c.jpg", "a.jpg", "b.jpg"})

	require.NoError(t, err)
	assert.Equal(t, []string{"c.jpg", "a.jpg", "b.jpg"}, updated.Images)
	assert.Empty(t, storage.deleted)
}

func TestReorderColorImagesSubsetDeletesDropped(t *testing.T) {
	color := models.ColorOption{
		ID:     primitive.NewObjectID(),
		Name:   "Rouge",
		Body:   "Rouge",
		Images: []string{"a.jpg", "b.jpg", "c.jpg"},
	}
	product := testProduct(color)
	store := newFakeStore(product)
	storage := &fakeStorage{}
	mgr := NewManager(store, storage)

	updated, err := mgr.ReorderColorImages(context.Background(), product.ID, color.ID,
		[]string{"c.jpg", "a.jpg"})

	require.NoError(t, err)
	assert.Equal(t, []string{"c.jpg", "a.jpg"}, updated.Images)
	// Les références écartées ne restent pas orphelines dans le stockage.
	assert.Equal(t, []string{"b.jpg"}, storage.deleted)
}

func TestReorderColorImagesRejectsUnknownRef(t *testing.T) {
	color := models.ColorOption{
		ID:     primitive.NewObjectID(),
		Name:   "Rouge",
		Body:   "Rouge",
		Images: []string{"a.jpg", "b.jpg"},
	}
	product := testProduct(color)
	store := newFakeStore(product)
	storage := &fakeStorage{}
	mgr := NewManager(store, storage)

	_, err := mgr.ReorderColorImages(context.Background(), product.ID, color.ID,
		[]string{"a.jpg", "z.jpg"})

	require.Error(t, err)
	assert.Equal(t, KindInvalidOrder, ErrorKind(err))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(err))

	// La séquence n'a pas bougé, rien n'a été supprimé.
	stored, _ := store.FindProduct(context.Background(), product.ID)
	assert.Equal(t, []string{"a.jpg", "b.jpg"}, stored.Colors[0].Images)
	assert.Empty(t, storage.deleted)
}

//
// --- SUPPRESSION DE PRODUIT ---
//

func TestDeleteProductReleasesAllAssets(t *testing.T) {
	color := models.ColorOption{
		ID:     primitive.NewObjectID(),
		Name:   "Rouge",
		Body:   "Rouge",
		Images: []string{"a.jpg", "b.jpg"},
	}
	product := testProduct(color)
	product.CardImage = "x.jpg"
	store := newFakeStore(product)
	storage := &fakeStorage{}
	mgr := NewManager(store, storage)

	err := mgr.DeleteProduct(context.Background(), product.ID)

	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"x.jpg", "a.jpg", "b.jpg"}, storage.deleted)

	_, err = store.FindProduct(context.Background(), product.ID)
	assert.Equal(t, KindNotFound, ErrorKind(err))
}

func TestDeleteProductStorageFailureKeepsDocument(t *testing.T) {
	product := testProduct()
	product.CardImage = "x.jpg"
	store := newFakeStore(product)
	storage := &fakeStorage{deleteErr: errors.New("minio down")}
	mgr := NewManager(store, storage)

	err := mgr.DeleteProduct(context.Background(), product.ID)

	require.Error(t, err)
	assert.Equal(t, KindStorage, ErrorKind(err))
	assert.Equal(t, http.StatusBadGateway, HTTPStatus(err))

	_, err = store.FindProduct(context.Background(), product.ID)
	assert.NoError(t, err)
}

func TestDeleteProductWithoutAssets(t *testing.T) {
	product := testProduct()
	store := newFakeStore(product)
	storage := &fakeStorage{}
	mgr := NewManager(store, storage)

	require.NoError(t, mgr.DeleteProduct(context.Background(), product.ID))
	assert.Empty(t, storage.deleted)
}
