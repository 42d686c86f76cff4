package services

import (
	stdContext "context"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/on-their-footsteps/footsteps_api/dto"
	"github.com/on-their-footsteps/footsteps_api/model"
	"github.com/on-their-footsteps/footsteps_api/services/repositories"
	"github.com/on-their-footsteps/footsteps_api/shared"

	"github.com/alphabatem/common/context"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type MediaService struct {
	context.DefaultService

	sqlSvc   *PostgresService
	minioSvc *MinIOService

	mediaRepo   *repositories.MediaRepository
	contentRepo *repositories.ContentRepository
}

const MEDIA_SVC = "media_svc"

const maxImageSize = 10 * 1024 * 1024

var allowedImageExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
}

func (svc MediaService) Id() string {
	return MEDIA_SVC
}

func (svc *MediaService) Configure(ctx *context.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *MediaService) Start() error {
	svc.sqlSvc = svc.Service(POSTGRES_SVC).(*PostgresService)
	svc.minioSvc = svc.Service(MINIO_SVC).(*MinIOService)
	svc.mediaRepo = repositories.NewMediaRepository(svc.sqlSvc.Db())
	svc.contentRepo = repositories.NewContentRepository(svc.sqlSvc.Db())
	return nil
}

// UploadCharacterImage stores a portrait for a character and points the
// character's ImageURL at it.
func (svc *MediaService) UploadCharacterImage(characterID string, file *multipart.FileHeader) (*dto.MediaUploadResponse, error) {
	character, err := svc.contentRepo.GetCharacter(characterID)
	if err != nil {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	contentType, ok := allowedImageExtensions[ext]
	if !ok {
		return nil, shared.NewBadRequestError(nil, "Invalid image file format. Supported: JPG, JPEG, PNG, WEBP")
	}

	if file.Size > maxImageSize {
		return nil, shared.NewBadRequestError(nil, "Image file too large. Maximum size: 10MB")
	}

	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	id, _ := uuid.NewV7()
	objectKey := fmt.Sprintf("characters/%s/%s%s", characterID, id.String(), ext)

	ctx, cancel := stdContext.WithTimeout(stdContext.Background(), 30*time.Second)
	defer cancel()

	if err := svc.minioSvc.UploadFile(ctx, objectKey, src, file.Size, contentType); err != nil {
		return nil, err
	}

	asset := &model.MediaAsset{
		EntityType:  "character",
		EntityID:    characterID,
		ObjectKey:   objectKey,
		FileName:    file.Filename,
		ContentType: contentType,
		SizeBytes:   file.Size,
		URL:         svc.minioSvc.FileURL(objectKey),
	}

	if err := svc.mediaRepo.CreateMediaAsset(asset); err != nil {
		// Best effort: don't leave an orphaned object behind
		if delErr := svc.minioSvc.DeleteFile(ctx, objectKey); delErr != nil {
			log.WithError(delErr).WithField("object_key", objectKey).Warn("Failed to clean up orphaned upload")
		}
		return nil, svc.sqlSvc.HandleError(err)
	}

	character.ImageURL = asset.URL
	if err := svc.contentRepo.UpdateCharacter(character); err != nil {
		log.WithError(err).WithField("character_id", characterID).Warn("Failed to update character image URL")
	}

	return &dto.MediaUploadResponse{
		AssetID:     asset.ID,
		FileName:    asset.FileName,
		ContentType: asset.ContentType,
		SizeBytes:   asset.SizeBytes,
		URL:         asset.URL,
	}, nil
}

func (svc *MediaService) DeleteMediaAsset(assetID string) error {
	asset, err := svc.mediaRepo.GetMediaAsset(assetID)
	if err != nil {
		return err
	}

	ctx, cancel := stdContext.WithTimeout(stdContext.Background(), 30*time.Second)
	defer cancel()

	if err := svc.minioSvc.DeleteFile(ctx, asset.ObjectKey); err != nil {
		log.WithError(err).WithField("object_key", asset.ObjectKey).Warn("Failed to delete object from storage")
	}

	return svc.mediaRepo.DeleteMediaAsset(assetID)
}
