package intake

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"qualityhome/lib/constants"
	"qualityhome/lib/models"
	"qualityhome/lib/util"
)

const uploadTokenLength = 6

// ObjectStore is one storage bucket able to resolve public URLs
type ObjectStore interface {
	Upload(ctx context.Context, key string, body []byte, contentType string, upsert bool) (string, error)
	PublicURL(key string) string
}

// Uploader stores queued photos concurrently and returns their public URLs
type Uploader struct {
	Store       ObjectStore
	Logger      *logrus.Logger
	MaxParallel int
	MaxBytes    int64
	Now         func() time.Time
	Token       func(n int) string
}

func NewUploader(store ObjectStore, logger *logrus.Logger, maxParallel int, maxBytes int64) *Uploader {
	return &Uploader{
		Store:       store,
		Logger:      logger,
		MaxParallel: maxParallel,
		MaxBytes:    maxBytes,
		Now:         time.Now,
		Token:       util.RandomToken,
	}
}

// PhotoPrefix returns the destination prefix for the photos of laudoID
func PhotoPrefix(laudoID string) string {
	return constants.PHOTO_KEY_PREFIX + "/" + laudoID
}

// UploadAll uploads every file under destinationPrefix and waits for all of them.
// URLs are returned in input order. If any file fails, no URLs are returned and the
// *UploadError lists each failure.
func (u *Uploader) UploadAll(ctx context.Context, files []models.PhotoFile, destinationPrefix string) ([]string, error) {
	if len(files) == 0 {
		return nil, nil
	}

	tasks := make([]util.Task[string], len(files))
	for i, file := range files {
		tasks[i] = func(ctx context.Context) (string, error) {
			return u.uploadOne(ctx, file, destinationPrefix)
		}
	}

	results := util.RunTasks(ctx, u.MaxParallel, tasks)

	if failed := results.Failed(); len(failed) > 0 {
		uploadErr := &UploadError{}
		for _, result := range failed {
			uploadErr.Failures = append(uploadErr.Failures, UploadFailure{
				Index:    result.Index,
				FileName: files[result.Index].FileName,
				Err:      result.Err,
			})
		}
		u.Logger.WithFields(logrus.Fields{
			"operation":    "UploadAll",
			"prefix":       destinationPrefix,
			"total":        len(files),
			"failed":       len(failed),
			"failed_files": uploadErr.FileNames(),
		}).Error("Photo upload failed")
		return nil, uploadErr
	}

	u.Logger.WithFields(logrus.Fields{
		"operation": "UploadAll",
		"prefix":    destinationPrefix,
		"total":     len(files),
	}).Info("Photos uploaded successfully")
	return results.Values(), nil
}

// ObjectKey builds <prefix>/<unixMillis>-<token>-<cleaned file name>
func (u *Uploader) ObjectKey(destinationPrefix, fileName string) string {
	return fmt.Sprintf("%s/%d-%s-%s", destinationPrefix, u.now().UnixMilli(), u.token(), models.CleanFileName(fileName))
}

func (u *Uploader) uploadOne(ctx context.Context, file models.PhotoFile, destinationPrefix string) (string, error) {
	if !models.ValidatePhotoType(file.FileName) {
		return "", fmt.Errorf("file type not allowed: %s", file.FileName)
	}
	if len(file.Content) == 0 {
		return "", errors.New("file is empty")
	}
	if u.MaxBytes > 0 && int64(len(file.Content)) > u.MaxBytes {
		return "", fmt.Errorf("file exceeds %d bytes", u.MaxBytes)
	}

	path, err := u.Store.Upload(ctx, u.ObjectKey(destinationPrefix, file.FileName), file.Content, file.ResolvedContentType(), false)
	if err != nil {
		return "", err
	}

	publicURL := u.Store.PublicURL(path)
	if publicURL == "" {
		return "", fmt.Errorf("no public url for %s", path)
	}
	return publicURL, nil
}

func (u *Uploader) now() time.Time {
	if u.Now == nil {
		return time.Now()
	}
	return u.Now()
}

func (u *Uploader) token() string {
	if u.Token == nil {
		return util.RandomToken(uploadTokenLength)
	}
	return u.Token(uploadTokenLength)
}
