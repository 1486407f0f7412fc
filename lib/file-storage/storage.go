package filestorage

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/pkg/errors"

	"leave-backend/config"
)

type Provider interface {
	UploadDocument(ctx context.Context, leaveID, fileName, contentType string, file []byte) (key string, err error)
	GetDocument(ctx context.Context, key string) ([]byte, error)
	DeleteDocument(ctx context.Context, key string) error
	MakeBucket(ctx context.Context) error
}

var Instance Provider

type impl struct {
	s3client *minio.Client
}

func NewInstance(s3client *minio.Client) Provider {
	return &impl{
		s3client: s3client,
	}
}

func NewHandler(s3client *minio.Client) {
	Instance = NewInstance(s3client)
}

func (i impl) UploadDocument(ctx context.Context, leaveID, fileName, contentType string, file []byte) (string, error) {
	maxSize := config.Conf.S3.MaxUploadSizeMB * 1024 * 1024
	if int64(len(file)) > maxSize {
		return "", errors.Errorf("размер файла превышает допустимый (%d МБ)", config.Conf.S3.MaxUploadSizeMB)
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	key := fmt.Sprintf("leave-documents/%s/%s", leaveID, fileName)
	_, err := i.s3client.PutObject(ctx, config.Conf.S3.BucketName, key,
		bytes.NewReader(file), int64(len(file)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", errors.Wrap(err, "ошибка загрузки документа в S3")
	}
	return key, nil
}

func (i impl) GetDocument(ctx context.Context, key string) ([]byte, error) {
	obj, err := i.s3client.GetObject(ctx, config.Conf.S3.BucketName, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения документа из S3")
	}
	defer obj.Close()
	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка чтения документа из S3")
	}
	return data, nil
}

func (i impl) DeleteDocument(ctx context.Context, key string) error {
	err := i.s3client.RemoveObject(ctx, config.Conf.S3.BucketName, key, minio.RemoveObjectOptions{})
	if err != nil {
		return errors.Wrap(err, "ошибка удаления документа из S3")
	}
	return nil
}

func (i impl) MakeBucket(ctx context.Context) error {
	bucketName := config.Conf.S3.BucketName
	location := "us-east-1"
	exists, err := i.s3client.BucketExists(ctx, bucketName)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return i.s3client.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{Region: location})
}
