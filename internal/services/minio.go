package services

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"

	"github.com/pawaninkhiya/chawla-cabinets-backend/internal/catalog"
	"github.com/pawaninkhiya/chawla-cabinets-backend/internal/database"
)

// Chaque appel au stockage est borné : on préfère un StorageFailure
// net à une requête qui pend.
const storageTimeout = 15 * time.Second

// MinioStorage — passerelle de stockage objet du catalogue.
type MinioStorage struct {
	client *minio.Client
	bucket string
}

func NewMinioStorage() *MinioStorage {
	bucket := os.Getenv("MINIO_BUCKET")
	if bucket == "" {
		bucket = "chawla-cabinets"
	}
	return &MinioStorage{client: database.MinIO, bucket: bucket}
}

// UploadMany envoie les fichiers séquentiellement, dans l'ordre reçu,
// et retourne les URLs dans le même ordre.
func (s *MinioStorage) UploadMany(ctx context.Context, uploads []catalog.Upload) ([]string, error) {
	refs := make([]string, 0, len(uploads))
	for _, up := range uploads {
		ref, err := s.upload(ctx, up)
		if err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

func (s *MinioStorage) upload(ctx context.Context, up catalog.Upload) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, storageTimeout)
	defer cancel()

	// Nom d'objet plat et unique : la clé se retrouve depuis l'URL en
	// prenant le dernier segment du chemin.
	objectName := uuid.New().String() + filepath.Ext(up.Name)

	_, err := s.client.PutObject(ctx, s.bucket, objectName, up.Content, up.Size,
		minio.PutObjectOptions{ContentType: up.ContentType})
	if err != nil {
		return "", err
	}
	return s.objectURL(objectName), nil
}

// DeleteMany supprime les objets désignés par les références. Une clé
// déjà absente n'est pas une erreur.
func (s *MinioStorage) DeleteMany(ctx context.Context, refs []string) error {
	for _, ref := range refs {
		key := ObjectKey(ref)
		if key == "" {
			continue
		}
		callCtx, cancel := context.WithTimeout(ctx, storageTimeout)
		err := s.client.RemoveObject(callCtx, s.bucket, key, minio.RemoveObjectOptions{})
		cancel()
		if err != nil {
			if minio.ToErrorResponse(err).Code == "NoSuchKey" {
				continue
			}
			return err
		}
	}
	return nil
}

// SignedImageURL génère une URL GET signée (24h) pour une référence.
func (s *MinioStorage) SignedImageURL(ctx context.Context, ref string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, storageTimeout)
	defer cancel()

	presigned, err := s.client.PresignedGetObject(ctx, s.bucket, ObjectKey(ref), 24*time.Hour, url.Values{})
	if err != nil {
		return "", err
	}
	return presigned.String(), nil
}

func (s *MinioStorage) objectURL(objectName string) string {
	scheme := "http"
	if os.Getenv("MINIO_USE_SSL") == "true" {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, os.Getenv("MINIO_ENDPOINT"), s.bucket, objectName)
}

// ObjectKey dérive la clé de stockage d'une référence : dernier
// segment du chemin de l'URL.
func ObjectKey(ref string) string {
	if i := strings.LastIndex(ref, "/"); i >= 0 {
		return ref[i+1:]
	}
	return ref
}
