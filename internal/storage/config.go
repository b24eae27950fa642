package storage

import "fmt"

// MinIOConfig holds MinIO connection configuration
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
	// Prefix is prepended to every object key, e.g. "documents/".
	Prefix string
}

// Validate reports the first missing required field.
func (c *MinIOConfig) Validate() error {
	if c == nil || c.Endpoint == "" {
		return fmt.Errorf("minio endpoint is required")
	}
	if c.Bucket == "" {
		return fmt.Errorf("minio bucket is required")
	}
	return nil
}
