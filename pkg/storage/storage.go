package storage

import "context"

type Storage interface {
	Upload(context.Context, *UploadObject) (*UploadResponse, error)
}

// UploadObject is written under Key in Bucket. Uploading the same key twice
// overwrites the previous object.
type UploadObject struct {
	Bucket string
	Key    string
	Mime   string
	Data   []byte
}

type UploadResponse struct {
	Key string
}
