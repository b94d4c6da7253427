package storage

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectKey(t *testing.T) {
	tests := []struct {
		name     string
		prefix   string
		fileName string
		want     string
	}{
		{"strips extension", "", "cat.jpg", "cat"},
		{"keeps inner dots", "", "holiday.2024.png", "holiday.2024"},
		{"no extension", "", "README", "README"},
		{"with prefix", "drive", "cat.jpg", "drive/cat"},
		{"prefix trailing slash", "drive/", "cat.jpg", "drive/cat"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ObjectKey(tt.prefix, tt.fileName))
		})
	}
}

func TestPublicObjectURL(t *testing.T) {
	assert.Equal(t,
		"http://localhost:9000/images/drive/cat",
		publicObjectURL("http://localhost:9000/", "images", "drive/cat"),
	)
	assert.Equal(t,
		"https://cdn.example.com/images/my%20cat",
		publicObjectURL("https://cdn.example.com", "images", "my cat"),
	)
}

func TestNew_UnknownBackend(t *testing.T) {
	_, err := New(context.Background(), Config{Backend: "ftp"})
	assert.Error(t, err)
}

type fakePutObject struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakePutObject) PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.input = in
	body, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.body = body
	return &s3.PutObjectOutput{}, nil
}

func TestS3Uploader_Upload(t *testing.T) {
	api := &fakePutObject{}
	u := &S3Uploader{client: api, bucket: "images", publicURL: "http://s3.local"}

	url, err := u.Upload(context.Background(), "drive/cat", []byte("pixels"), "image/jpeg")
	require.NoError(t, err)

	assert.Equal(t, "http://s3.local/images/drive/cat", url)
	assert.Equal(t, "images", aws.ToString(api.input.Bucket))
	assert.Equal(t, "drive/cat", aws.ToString(api.input.Key))
	assert.Equal(t, "image/jpeg", aws.ToString(api.input.ContentType))
	assert.Equal(t, int64(6), aws.ToInt64(api.input.ContentLength))
	assert.Equal(t, []byte("pixels"), api.body)
}

func TestS3Uploader_UploadError(t *testing.T) {
	api := &fakePutObject{err: errors.New("access denied")}
	u := &S3Uploader{client: api, bucket: "images", publicURL: "http://s3.local"}

	_, err := u.Upload(context.Background(), "cat", []byte("x"), "image/png")
	assert.ErrorContains(t, err, "access denied")
}
