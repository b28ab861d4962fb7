// SPDX-FileCopyrightText: 2022 Sascha Brawer <sascha@brawer.ch>
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"sort"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// S3 is the subset of minio.Client used in this program.
//
// We define our own interface for easier testing, so we only have to fake
// those parts of the (rather big) S3 interface that we actually use.
// A fake implementation for tests is in FakeS3, implemented in storage_test.go.
type S3 interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	ListObjects(ctx context.Context, bucketName string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo
	FPutObject(ctx context.Context, bucketName, objectName, filePath string, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
}

// NewStorageClient sets up a client for accessing S3-compatible object storage.
func NewStorageClient(keypath string) (*minio.Client, error) {
	data, err := os.ReadFile(keypath)
	if err != nil {
		return nil, err
	}

	var config struct{ Endpoint, Key, Secret string }
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	client, err := minio.New(config.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(config.Key, config.Secret, ""),
		Secure: true,
	})
	if err != nil {
		return nil, err
	}

	client.SetAppInfo("BBoxIndexBuilder", "0.1")
	return client, nil
}

// PutInStorage stores a file in S3 storage.
func PutInStorage(ctx context.Context, file string, s3 S3, bucket string, dest string, contentType string) error {
	options := minio.PutObjectOptions{ContentType: contentType}
	_, err := s3.FPutObject(ctx, bucket, dest, file, options)
	return err
}

var reportPathRegexp = regexp.MustCompile(`^public/bboxindex-\d{8}\.txt(\.br|\.zst)?$`)

// Cleanup removes old index reports from storage, keeping the most
// recent `keep` ones. Reports are named after their build date,
// so the lexicographic order is also the chronological one.
func Cleanup(ctx context.Context, s3 S3, bucket string, keep int) error {
	found := make([]string, 0, keep+10)
	opts := minio.ListObjectsOptions{Prefix: "public/bboxindex-", Recursive: true}
	for obj := range s3.ListObjects(ctx, bucket, opts) {
		if obj.Err != nil {
			return obj.Err
		}
		if reportPathRegexp.MatchString(obj.Key) {
			found = append(found, obj.Key)
		}
	}

	if len(found) <= keep {
		return nil
	}

	sort.Strings(found)
	for _, path := range found[0 : len(found)-keep] {
		msg := fmt.Sprintf("Deleting from storage: %s/%s", bucket, path)
		fmt.Println(msg)
		if logger != nil {
			logger.Println(msg)
		}
		if err := s3.RemoveObject(ctx, bucket, path, minio.RemoveObjectOptions{}); err != nil {
			return err
		}
	}
	return nil
}
