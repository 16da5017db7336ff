package storage

import (
	"context"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	putKeys    []string
	deleteKeys []string
}

func (f *fakeS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.putKeys = append(f.putKeys, *params.Key)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.deleteKeys = append(f.deleteKeys, *params.Key)
	return &s3.DeleteObjectOutput{}, nil
}

func TestClientUploadAndRemove(t *testing.T) {
	fake := &fakeS3{}
	client := New(fake, "kivaia-media", "https://media.example.com/")

	err := client.Upload(context.Background(), "courses/abc/pdfs/poster.pdf", "application/pdf", strings.NewReader("%PDF"))
	require.NoError(t, err)
	require.Len(t, fake.putKeys, 1)
	assert.Equal(t, "courses/abc/pdfs/poster.pdf", fake.putKeys[0])

	err = client.Remove(context.Background(), "courses/abc/pdfs/poster.pdf")
	require.NoError(t, err)
	require.Len(t, fake.deleteKeys, 1)
}

func TestClientPublicURL(t *testing.T) {
	client := New(&fakeS3{}, "kivaia-media", "https://media.example.com/")

	assert.Equal(t, "https://media.example.com/a/b.png", client.PublicURL("a/b.png"))
	assert.Equal(t, "https://media.example.com/a/b.png", client.PublicURL("/a/b.png"))
}
