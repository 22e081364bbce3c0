// Package cloudwriter buffers an object in memory and uploads it on Close.
package cloudwriter

import (
	"io"
	"path"
	"strings"
)

const s3Scheme = "s3://"

// CloudWriter collects the bytes of one object. Nothing is uploaded until
// Close.
type CloudWriter interface {
	io.WriteCloser
}

type CloudWriterFactory interface {
	NewWriter(bucket, key string) (CloudWriter, error)
}

// IsRemote reports whether dest names an object store location.
func IsRemote(dest string) bool {
	return strings.HasPrefix(dest, s3Scheme)
}

// ParseLocation splits "s3://bucket/key" into its parts.
func ParseLocation(dest string) (bucket, key string, ok bool) {
	rest, found := strings.CutPrefix(dest, s3Scheme)
	if !found {
		return "", "", false
	}
	bucket, key, found = strings.Cut(rest, "/")
	if !found || bucket == "" || key == "" {
		return "", "", false
	}
	return bucket, key, true
}

var contentTypes = map[string]string{
	".parquet": "application/vnd.apache.parquet",
	".json":    "application/json",
	".jsonl":   "application/x-ndjson",
	".csv":     "text/csv",
}

func contentTypeFor(key string) string {
	if ct, ok := contentTypes[strings.ToLower(path.Ext(key))]; ok {
		return ct
	}
	return "application/octet-stream"
}
