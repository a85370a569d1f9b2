package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	storage_go "github.com/supabase-community/storage-go"
)

// SupabaseStore keeps objects in a public Supabase Storage bucket.
type SupabaseStore struct {
	client  *storage_go.Client
	bucket  string
	baseURL string
}

func NewSupabaseStore(supabaseURL, serviceRoleKey, bucket string) *SupabaseStore {
	baseURL := strings.TrimRight(supabaseURL, "/")
	client := storage_go.NewClient(baseURL+"/storage/v1", serviceRoleKey, nil)

	return &SupabaseStore{
		client:  client,
		bucket:  bucket,
		baseURL: baseURL,
	}
}

func (s *SupabaseStore) Put(_ context.Context, key string, data []byte, contentType string) (Object, error) {
	upsert := true
	_, err := s.client.UploadFile(s.bucket, key, bytes.NewReader(data), storage_go.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	})
	if err != nil {
		return Object{}, fmt.Errorf("failed to upload %s: %w", key, err)
	}

	return Object{Key: key, URL: s.PublicURL(key), Size: int64(len(data))}, nil
}

// List walks prefix recursively. Supabase lists one folder level per call
// and reports folders as entries without an id.
func (s *SupabaseStore) List(ctx context.Context, prefix string) ([]Object, error) {
	prefix = strings.TrimSuffix(prefix, "/")

	files, err := s.client.ListFiles(s.bucket, prefix, storage_go.FileSearchOptions{Limit: 1000})
	if err != nil {
		return nil, fmt.Errorf("failed to list files under %s: %w", prefix, err)
	}

	var objects []Object
	for _, f := range files {
		key := prefix + "/" + f.Name
		if f.Id == "" {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			nested, err := s.List(ctx, key)
			if err != nil {
				return nil, err
			}
			objects = append(objects, nested...)
			continue
		}
		objects = append(objects, Object{Key: key, URL: s.PublicURL(key), Size: metadataSize(f.Metadata)})
	}
	return objects, nil
}

func (s *SupabaseStore) Delete(_ context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if _, err := s.client.RemoveFile(s.bucket, keys); err != nil {
		return fmt.Errorf("failed to delete files: %w", err)
	}
	return nil
}

func (s *SupabaseStore) PublicURL(key string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.baseURL, s.bucket, key)
}

func metadataSize(meta interface{}) int64 {
	m, ok := meta.(map[string]interface{})
	if !ok {
		return 0
	}
	if size, ok := m["size"].(float64); ok {
		return int64(size)
	}
	return 0
}
