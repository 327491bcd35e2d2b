package services

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"healsyAPI/internal/photo"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PhotoService stores progress photos in S3-compatible object storage
// (DigitalOcean Spaces) and records them per user.
type PhotoService struct {
	db     *pgxpool.Pool
	client *s3.Client
	bucket string
	region string
}

func NewPhotoService(db *pgxpool.Pool, spacesKey, spacesSecret, region, bucket string) (*PhotoService, error) {
	resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		return aws.Endpoint{
			URL: fmt.Sprintf("https://%s.digitaloceanspaces.com", region),
		}, nil
	})

	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithEndpointResolverWithOptions(resolver),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(spacesKey, spacesSecret, "")),
		config.WithRegion(region),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to load object storage config: %w", err)
	}

	return &PhotoService{
		db:     db,
		client: s3.NewFromConfig(cfg),
		bucket: bucket,
		region: region,
	}, nil
}

// UploadProgressPhoto stores the image and records it for the caller.
// challengeID is optional; photos can also be free-standing before/after
// shots attached to nothing.
func (s *PhotoService) UploadProgressPhoto(ctx context.Context, clerkID string, challengeID *uuid.UUID, filename, contentType string, data []byte) (*photo.ProgressPhoto, error) {
	userID, err := lookupUserID(ctx, s.db, clerkID)
	if err != nil {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		ext = ".jpg"
	}
	key := fmt.Sprintf("progress/%s/%s%s", userID, uuid.New(), ext)

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
		ACL:         types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload photo: %w", err)
	}

	p := &photo.ProgressPhoto{
		ID:          uuid.New(),
		UserID:      userID,
		ChallengeID: challengeID,
		ObjectKey:   key,
		URL:         fmt.Sprintf("https://%s.%s.digitaloceanspaces.com/%s", s.bucket, s.region, key),
		UploadedAt:  time.Now(),
	}

	_, err = s.db.Exec(ctx, `
		INSERT INTO progress_photos (id, user_id, challenge_id, object_key, url, uploaded_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, p.ID, p.UserID, p.ChallengeID, p.ObjectKey, p.URL, p.UploadedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to record photo: %w", err)
	}

	return p, nil
}

// ListProgressPhotos returns the caller's photos, newest first.
func (s *PhotoService) ListProgressPhotos(ctx context.Context, clerkID string) ([]*photo.ProgressPhoto, error) {
	userID, err := lookupUserID(ctx, s.db, clerkID)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(ctx, `
		SELECT id, user_id, challenge_id, object_key, url, uploaded_at
		FROM progress_photos
		WHERE user_id = $1
		ORDER BY uploaded_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list photos: %w", err)
	}
	defer rows.Close()

	var photos []*photo.ProgressPhoto
	for rows.Next() {
		p := &photo.ProgressPhoto{}
		if err := rows.Scan(&p.ID, &p.UserID, &p.ChallengeID, &p.ObjectKey, &p.URL, &p.UploadedAt); err != nil {
			return nil, fmt.Errorf("failed to scan photo: %w", err)
		}
		photos = append(photos, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading photos: %w", err)
	}

	return photos, nil
}
