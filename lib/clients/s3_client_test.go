package clients

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MockS3API struct {
	Inputs []*s3.PutObjectInput
	Bodies [][]byte
	Err    error
}

func (m *MockS3API) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	m.Inputs = append(m.Inputs, params)
	body, _ := io.ReadAll(params.Body)
	m.Bodies = append(m.Bodies, body)
	if m.Err != nil {
		return nil, m.Err
	}
	return &s3.PutObjectOutput{}, nil
}

func Test_Upload_CreateOnly(t *testing.T) {
	//Arrange
	mock := &MockS3API{}
	store := NewObjectStore(mock, "quallity-home", "https://cdn.example.com/")

	//Act
	key, err := store.Upload(context.Background(), "fotos_imoveis/QH-1/a.jpg", []byte("jpeg"), "image/jpeg", false)

	//Assert
	require.NoError(t, err)
	assert.Equal(t, "fotos_imoveis/QH-1/a.jpg", key)
	require.Len(t, mock.Inputs, 1)
	assert.Equal(t, "quallity-home", *mock.Inputs[0].Bucket)
	assert.Equal(t, "image/jpeg", *mock.Inputs[0].ContentType)
	assert.Equal(t, "*", *mock.Inputs[0].IfNoneMatch)
	assert.Equal(t, int64(4), *mock.Inputs[0].ContentLength)
	assert.Equal(t, []byte("jpeg"), mock.Bodies[0])
}

func Test_Upload_Upsert(t *testing.T) {
	mock := &MockS3API{}
	store := NewObjectStore(mock, "laudos_pdf", "https://cdn.example.com")

	_, err := store.Upload(context.Background(), "QH-1.pdf", []byte("%PDF"), "application/pdf", true)

	require.NoError(t, err)
	assert.Nil(t, mock.Inputs[0].IfNoneMatch)
}

func Test_Upload_Failure(t *testing.T) {
	mock := &MockS3API{Err: errors.New("PreconditionFailed")}
	store := NewObjectStore(mock, "quallity-home", "https://cdn.example.com")

	key, err := store.Upload(context.Background(), "k", nil, "image/png", false)

	assert.Empty(t, key)
	assert.ErrorContains(t, err, "PreconditionFailed")
	assert.ErrorContains(t, err, "quallity-home")
}

func Test_PublicURL(t *testing.T) {
	store := NewObjectStore(&MockS3API{}, "quallity-home", "https://cdn.example.com/storage/v1/object/public/")

	assert.Equal(t,
		"https://cdn.example.com/storage/v1/object/public/quallity-home/fotos_imoveis/QH-1/1700-abc123-sala%20nova.jpg",
		store.PublicURL("fotos_imoveis/QH-1/1700-abc123-sala nova.jpg"))
	assert.Equal(t, "", store.PublicURL(""))
	assert.Equal(t, "", NewObjectStore(&MockS3API{}, "b", "").PublicURL("k"))
	assert.Equal(t, "quallity-home", store.Bucket())
}
