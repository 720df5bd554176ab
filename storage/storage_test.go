package storage

import (
	"bytes"
	"context"
	"errors"
	"poolcare_server/structs"
	"poolcare_server/structs/tables"
	"regexp"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectKey(t *testing.T) {
	id := uuid.MustParse("6f1c1b5e-2a8e-4f57-9f0c-1d2e3f4a5b6c")

	tests := []struct {
		itemType tables.ItemType
		filename string
		pattern  string
	}{
		{tables.ItemTypeProduct, "Pump.JPG", `^products/6f1c1b5e-2a8e-4f57-9f0c-1d2e3f4a5b6c/[0-9a-f-]{36}\.jpg$`},
		{tables.ItemTypeService, "manual.pdf", `^services/6f1c1b5e-2a8e-4f57-9f0c-1d2e3f4a5b6c/[0-9a-f-]{36}\.pdf$`},
		{tables.ItemTypeBundle, "noext", `^bundles/6f1c1b5e-2a8e-4f57-9f0c-1d2e3f4a5b6c/[0-9a-f-]{36}$`},
		{tables.ItemTypeProduct, `..\..\evil.png`, `^products/6f1c1b5e-2a8e-4f57-9f0c-1d2e3f4a5b6c/[0-9a-f-]{36}\.png$`},
	}
	for _, tt := range tests {
		assert.Regexp(t, regexp.MustCompile(tt.pattern), ObjectKey(tt.itemType, id, tt.filename))
	}

	assert.NotEqual(t, ObjectKey(tables.ItemTypeProduct, id, "a.png"), ObjectKey(tables.ItemTypeProduct, id, "a.png"))
}

func TestMediaTypeFor(t *testing.T) {
	assert.Equal(t, tables.MediaTypeImage, MediaTypeFor("image/webp"))
	assert.Equal(t, tables.MediaTypeVideo, MediaTypeFor("video/mp4"))
	assert.Equal(t, tables.MediaTypeDocument, MediaTypeFor("application/pdf"))
}

type fakeS3 struct {
	s3iface.S3API
	put     *s3.PutObjectInput
	deleted string
	err     error
}

func (f *fakeS3) PutObjectWithContext(_ aws.Context, in *s3.PutObjectInput, _ ...request.Option) (*s3.PutObjectOutput, error) {
	f.put = in
	return &s3.PutObjectOutput{}, f.err
}

func (f *fakeS3) DeleteObjectWithContext(_ aws.Context, in *s3.DeleteObjectInput, _ ...request.Option) (*s3.DeleteObjectOutput, error) {
	f.deleted = aws.StringValue(in.Key)
	return &s3.DeleteObjectOutput{}, f.err
}

func TestS3Store(t *testing.T) {
	fake := &fakeS3{}
	store := NewS3StoreWithClient(fake, &structs.StorageConfig{Bucket: "media", Region: "us-east-1", ACL: "public-read"})

	require.NoError(t, store.Upload(context.Background(), "products/x/y.png", bytes.NewReader([]byte("png")), 3, "image/png"))
	assert.Equal(t, "media", aws.StringValue(fake.put.Bucket))
	assert.Equal(t, "public-read", aws.StringValue(fake.put.ACL))
	assert.Equal(t, int64(3), aws.Int64Value(fake.put.ContentLength))

	require.NoError(t, store.Delete(context.Background(), "products/x/y.png"))
	assert.Equal(t, "products/x/y.png", fake.deleted)

	assert.Equal(t, "https://media.s3.us-east-1.amazonaws.com/products/x/y.png", store.PublicURL("products/x/y.png"))

	fake.err = errors.New("denied")
	assert.Error(t, store.Upload(context.Background(), "k", bytes.NewReader(nil), 0, "image/png"))
}

func TestPublicURLWithEndpoint(t *testing.T) {
	store := NewS3StoreWithClient(&fakeS3{}, &structs.StorageConfig{Bucket: "media", Endpoint: "https://minio.local/"})
	assert.Equal(t, "https://minio.local/media/a/b.png", store.PublicURL("a/b.png"))

	store = NewS3StoreWithClient(&fakeS3{}, &structs.StorageConfig{Bucket: "media", PublicBaseURL: "https://cdn.example.com/"})
	assert.Equal(t, "https://cdn.example.com/a/b.png", store.PublicURL("a/b.png"))
}
