package s3

import "github.com/aws/aws-sdk-go-v2/feature/s3/manager"

type options struct {
	prefix      string
	region      string
	endpoint    string
	partSize    int64
	concurrency int
}

// Option configures a Store.
type Option func(*options)

// WithPrefix prepends prefix to every blob name.
func WithPrefix(prefix string) Option {
	return func(o *options) {
		o.prefix = prefix
	}
}

// WithRegion overrides the region from the shared AWS configuration.
func WithRegion(region string) Option {
	return func(o *options) {
		o.region = region
	}
}

// WithEndpoint targets an S3-compatible service. Path-style addressing is
// enabled with it.
func WithEndpoint(endpoint string) Option {
	return func(o *options) {
		o.endpoint = endpoint
	}
}

// WithPartSize sets the multipart upload part size (minimum 5 MiB).
func WithPartSize(n int64) Option {
	return func(o *options) {
		if n >= manager.MinUploadPartSize {
			o.partSize = n
		}
	}
}

// WithUploadConcurrency sets the number of parts uploaded in parallel.
func WithUploadConcurrency(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.concurrency = n
		}
	}
}

func applyOptions(opts []Option) options {
	o := options{
		partSize:    8 * 1024 * 1024,
		concurrency: manager.DefaultUploadConcurrency,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
