// Package objectstore issues presigned upload and download URLs against an
// S3-compatible bucket (Cloudflare R2 in production) and stores
// server-generated media.
package objectstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/sirupsen/logrus"
)

// ErrInvalidFile marks upload requests rejected by validation (extension,
// size). Handlers map it to a 400.
var ErrInvalidFile = errors.New("invalid file")

// MaxFileSize is the upload ceiling enforced in the presigned POST policy.
const MaxFileSize = 500 * 1024 * 1024

// UploadTicket is everything a client needs to upload straight to the
// bucket and tell us where the file ended up.
type UploadTicket struct {
	UploadURL string            `json:"upload_url"`
	Fields    map[string]string `json:"fields,omitempty"`
	PublicURL string            `json:"public_url"`
	FileKey   string            `json:"file_key"`
}

// ObjectStore is the presigned-URL gateway the content service talks to.
type ObjectStore interface {
	PresignUpload(ctx context.Context, fileKey, contentType string) (UploadTicket, error)
	SignedDownloadURL(ctx context.Context, fileKey string) (string, error)
	Upload(ctx context.Context, fileKey string, data []byte, contentType string) (string, error)
	Remove(ctx context.Context, fileKey string) error
	PublicURL(fileKey string) (string, bool)
}

// R2 implements ObjectStore with minio-go. Path-style addressing and
// signature v4 are required for R2 compatibility.
type R2 struct {
	client    *minio.Client
	bucket    string
	publicURL string
	expiry    time.Duration
	log       logrus.FieldLogger
}

type R2Config struct {
	AccountID       string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	PublicURL       string
	Expiry          time.Duration
}

func NewR2(cfg R2Config, log logrus.FieldLogger) (*R2, error) {
	if cfg.AccountID == "" || cfg.AccessKeyID == "" || cfg.SecretAccessKey == "" {
		return nil, errors.New("R2 credentials not configured")
	}
	endpoint := fmt.Sprintf("%s.r2.cloudflarestorage.com", cfg.AccountID)
	client, err := minio.New(endpoint, &minio.Options{
		Creds:        credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure:       true,
		Region:       "auto",
		BucketLookup: minio.BucketLookupPath,
	})
	if err != nil {
		return nil, fmt.Errorf("init R2 client: %w", err)
	}
	return &R2{
		client:    client,
		bucket:    cfg.Bucket,
		publicURL: strings.TrimSuffix(cfg.PublicURL, "/"),
		expiry:    cfg.Expiry,
		log:       log.WithField("component", "objectstore"),
	}, nil
}

func (r *R2) PresignUpload(ctx context.Context, fileKey, contentType string) (UploadTicket, error) {
	policy := minio.NewPostPolicy()
	if err := policy.SetBucket(r.bucket); err != nil {
		return UploadTicket{}, err
	}
	if err := policy.SetKey(fileKey); err != nil {
		return UploadTicket{}, err
	}
	if err := policy.SetExpires(time.Now().UTC().Add(r.expiry)); err != nil {
		return UploadTicket{}, err
	}
	// Accept any subtype of the declared kind (video/mp4, video/quicktime, ...).
	mainType := strings.SplitN(contentType, "/", 2)[0]
	if err := policy.SetContentTypeStartsWith(mainType + "/"); err != nil {
		return UploadTicket{}, err
	}
	if err := policy.SetContentLengthRange(0, MaxFileSize); err != nil {
		return UploadTicket{}, err
	}

	uploadURL, fields, err := r.client.PresignedPostPolicy(ctx, policy)
	if err != nil {
		return UploadTicket{}, fmt.Errorf("presign upload for %s: %w", fileKey, err)
	}

	public, _ := r.PublicURL(fileKey)
	r.log.WithFields(logrus.Fields{"bucket": r.bucket, "key": fileKey}).Info("generated presigned upload URL")
	return UploadTicket{
		UploadURL: uploadURL.String(),
		Fields:    fields,
		PublicURL: public,
		FileKey:   fileKey,
	}, nil
}

func (r *R2) SignedDownloadURL(ctx context.Context, fileKey string) (string, error) {
	u, err := r.client.PresignedGetObject(ctx, r.bucket, fileKey, r.expiry, url.Values{})
	if err != nil {
		return "", fmt.Errorf("presign download for %s: %w", fileKey, err)
	}
	return u.String(), nil
}

// Upload stores server-generated bytes (TTS output) and returns the URL the
// file should be served from.
func (r *R2) Upload(ctx context.Context, fileKey string, data []byte, contentType string) (string, error) {
	_, err := r.client.PutObject(ctx, r.bucket, fileKey, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", fileKey, err)
	}
	if public, ok := r.PublicURL(fileKey); ok {
		return public, nil
	}
	return r.SignedDownloadURL(ctx, fileKey)
}

func (r *R2) Remove(ctx context.Context, fileKey string) error {
	return r.client.RemoveObject(ctx, r.bucket, fileKey, minio.RemoveObjectOptions{})
}

// PublicURL reports the stable public URL for a key, when the bucket has a
// public base configured. Private buckets return false and callers sign at
// read time instead.
func (r *R2) PublicURL(fileKey string) (string, bool) {
	if r.publicURL == "" {
		return "", false
	}
	return r.publicURL + "/" + fileKey, true
}

// File validation. Extensions and MIME types mirror what the upload UI
// produces; anything else is rejected before a ticket is issued.

var allowedExtensions = map[string]map[string]bool{
	"video": {".mp4": true, ".mov": true, ".avi": true, ".mkv": true},
	"audio": {".mp3": true, ".wav": true, ".flac": true, ".aac": true, ".m4a": true},
}

var contentTypes = map[string]string{
	".mp4":  "video/mp4",
	".mov":  "video/quicktime",
	".avi":  "video/x-msvideo",
	".mkv":  "video/x-matroska",
	".mp3":  "audio/mpeg",
	".wav":  "audio/wav",
	".flac": "audio/flac",
	".aac":  "audio/aac",
	".m4a":  "audio/mp4",
}

// ValidateFile checks extension and declared size for the given kind
// ("video" or "audio") and returns the content type to presign with.
func ValidateFile(kind, filename string, size int64) (string, error) {
	ext := strings.ToLower(path.Ext(filename))
	allowed, ok := allowedExtensions[kind]
	if !ok {
		return "", fmt.Errorf("%w: unknown media kind %q", ErrInvalidFile, kind)
	}
	if !allowed[ext] {
		return "", fmt.Errorf("%w: extension %q not allowed for %s uploads", ErrInvalidFile, ext, kind)
	}
	if size > MaxFileSize {
		return "", fmt.Errorf("%w: file exceeds 500MB limit", ErrInvalidFile)
	}
	ct, ok := contentTypes[ext]
	if !ok {
		ct = "application/octet-stream"
	}
	return ct, nil
}

// FileKey builds the bucket key for a new media object.
func FileKey(kind, sectionID, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return fmt.Sprintf("%ss/%s/%s%s", kind, sectionID, uuid.New().String(), ext)
}
