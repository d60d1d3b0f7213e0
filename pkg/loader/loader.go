// Package loader fetches the raw reference snapshot from wherever it is kept.
package loader

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// Source yields the raw bytes of a reference snapshot. Implementations may
// read the local filesystem, object storage or anything else.
type Source interface {
	// Name is a human readable location used in logs and in parse errors.
	// Its extension selects the snapshot format.
	Name() string
	Fetch(ctx context.Context) ([]byte, error)
}

type Scheme string

const (
	SchemeFile Scheme = "file"
	SchemeS3   Scheme = "s3"
)

// Location is a parsed snapshot URI.
type Location struct {
	Scheme Scheme
	// Path is set for file locations.
	Path string
	// Bucket and Key are set for s3 locations.
	Bucket string
	Key    string
}

// ParseURI accepts a plain path, file://path or s3://bucket/key.
//
// Example:
//
//	loc, err := loader.ParseURI("s3://reference-data/ddi/snapshot.yaml")
//	// loc.Bucket == "reference-data", loc.Key == "ddi/snapshot.yaml"
func ParseURI(uri string) (Location, error) {
	uri = strings.TrimSpace(uri)
	if uri == "" {
		return Location{}, fmt.Errorf("empty snapshot uri")
	}
	if !strings.Contains(uri, "://") {
		return Location{Scheme: SchemeFile, Path: uri}, nil
	}

	u, err := url.Parse(uri)
	if err != nil {
		return Location{}, fmt.Errorf("parse snapshot uri %q: %w", uri, err)
	}

	switch Scheme(strings.ToLower(u.Scheme)) {
	case SchemeFile:
		p := u.Host + u.Path
		if p == "" {
			return Location{}, fmt.Errorf("snapshot uri %q has no path", uri)
		}
		return Location{Scheme: SchemeFile, Path: p}, nil
	case SchemeS3:
		key := strings.TrimPrefix(u.Path, "/")
		if u.Host == "" || key == "" {
			return Location{}, fmt.Errorf("snapshot uri %q needs s3://bucket/key", uri)
		}
		return Location{Scheme: SchemeS3, Bucket: u.Host, Key: key}, nil
	default:
		return Location{}, fmt.Errorf("unsupported snapshot scheme %q", u.Scheme)
	}
}

func (l Location) String() string {
	if l.Scheme == SchemeS3 {
		return "s3://" + l.Bucket + "/" + l.Key
	}
	return l.Path
}
