package storage

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	objects map[string][]byte
	types   map[string]string
}

func (f *fakeClient) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[*in.Key] = data
	f.types[*in.Key] = *in.ContentType
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeClient) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	delete(f.objects, *in.Key)
	return &s3.DeleteObjectOutput{}, nil
}

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func TestUploadAndLinks(t *testing.T) {
	client := &fakeClient{objects: map[string][]byte{}, types: map[string]string{}}
	s := newAwsS3(client, "foodshare", "us-east-1")
	ctx := context.Background()

	key, err := s.UploadBytes(ctx, "duke-1", pngHeader, "maps", AllowImage...)
	require.NoError(t, err)
	assert.Equal(t, "maps/duke-1.png", key)
	assert.Equal(t, "image/png", client.types[key])
	assert.True(t, bytes.Equal(pngHeader, client.objects[key]))

	link := s.GetPublicLinkKey(key)
	assert.Equal(t, "https://foodshare.s3.us-east-1.amazonaws.com/maps/duke-1.png", link)
	assert.Equal(t, key, s.GetObjectKeyFromLink(link))
	assert.Empty(t, s.GetObjectKeyFromLink("https://elsewhere.example/x.png"))

	require.NoError(t, s.DeleteFile(ctx, key))
	assert.NotContains(t, client.objects, key)
}

func TestUploadRejectsContentType(t *testing.T) {
	client := &fakeClient{objects: map[string][]byte{}, types: map[string]string{}}
	s := newAwsS3(client, "foodshare", "us-east-1")
	_, err := s.UploadBytes(context.Background(), "notes", []byte("plain text"), "maps", AllowImage...)
	assert.ErrorIs(t, err, ErrContentNotAllowed)
	assert.Empty(t, client.objects)
}

func TestDisabledStorage(t *testing.T) {
	s := &awsS3{}
	assert.False(t, s.Enabled())
	_, err := s.UploadBytes(context.Background(), "x", pngHeader, "maps")
	assert.ErrorIs(t, err, ErrStorageDisabled)
}
