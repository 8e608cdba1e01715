// Package storage is a small bucketed key/value layer used to keep run
// metadata. It never stores generated records.
package storage

import "errors"

var ErrBucketNotFound = errors.New("bucket not found")

// Backend is a bucketed key/value store. Keys within a bucket are iterated in
// byte order.
type Backend interface {
	CreateBucket(name []byte) error
	DeleteBucket(name []byte) error
	BucketExists(name []byte) (bool, error)

	Put(bucket, key, value []byte) error
	// Get returns nil without error when key is absent.
	Get(bucket, key []byte) ([]byte, error)
	Delete(bucket, key []byte) error

	ForEach(bucket []byte, fn func(k, v []byte) error) error

	Close() error
}

// PutString is Put with a string key.
func PutString(b Backend, bucket []byte, key string, value []byte) error {
	return b.Put(bucket, []byte(key), value)
}

// GetString is Get with a string key.
func GetString(b Backend, bucket []byte, key string) ([]byte, error) {
	return b.Get(bucket, []byte(key))
}

// DeleteString is Delete with a string key.
func DeleteString(b Backend, bucket []byte, key string) error {
	return b.Delete(bucket, []byte(key))
}
