package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"sync"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/mwantia/vinyl/data"
	"github.com/mwantia/vinyl/log"
	"github.com/mwantia/vinyl/sink"
)

// uploadFunc streams r into the bucket under key. Size is unknown.
type uploadFunc func(ctx context.Context, key string, r io.Reader, opts minio.PutObjectOptions) error

// S3Sink uploads objects into an S3 compatible bucket.
// Streams are uploaded while they are read and never buffered as a whole.
type S3Sink struct {
	mu sync.RWMutex

	client     *minio.Client
	bucketName string
	upload     uploadFunc
	log        *log.Logger
}

type Option func(*S3Sink)

func WithLogger(logger *log.Logger) Option {
	return func(sb *S3Sink) {
		sb.log = logger.Named("s3")
	}
}

func NewS3Sink(endpoint, bucketName, accessKey, secretKey string, useSsl bool, opts ...Option) (*S3Sink, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSsl,
	})
	if err != nil {
		return nil, err
	}

	sb := &S3Sink{
		client:     client,
		bucketName: bucketName,
		log:        log.Nop(),
	}
	sb.upload = sb.putObject

	for _, opt := range opts {
		opt(sb)
	}

	return sb, nil
}

// Name returns the identifier name defined for this sink
func (*S3Sink) Name() string {
	return "s3"
}

// Open is part of the lifecycle behaviour and checks that the bucket exists.
func (sb *S3Sink) Open(ctx context.Context) error {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	exists, err := sb.client.BucketExists(ctx, sb.bucketName)
	if err != nil {
		return fmt.Errorf("%w: %v", data.ErrSinkUnavailable, err)
	}

	if !exists {
		return fmt.Errorf("%w: bucket '%s' does not exist", data.ErrSinkUnavailable, sb.bucketName)
	}

	return nil
}

// Close is part of the lifecycle behaviour and gets called when closing this sink.
func (sb *S3Sink) Close(ctx context.Context) error {
	return nil
}

// Capabilities returns a list of capabilities supported by this sink.
func (sb *S3Sink) Capabilities() *sink.Capabilities {
	return &sink.Capabilities{
		Capabilities: []sink.Capability{
			sink.CapabilityStreaming,
			sink.CapabilityContentType,
			sink.CapabilityStat,
			sink.CapabilityRead,
		},
	}
}

func (sb *S3Sink) Writer(ctx context.Context, key string, stat *data.Stat) (io.WriteCloser, error) {
	key, err := sink.CleanKey(key)
	if err != nil {
		return nil, err
	}

	contentType := data.GetMIMEType(key)
	opts := minio.PutObjectOptions{
		UserMetadata: map[string]string{},
	}
	if stat != nil {
		if stat.ContentType != "" {
			contentType = stat.ContentType
		}
		opts.UserMetadata["mode"] = strconv.FormatUint(uint64(stat.Mode.Perm()), 8)
	}
	opts.ContentType = contentType.String()

	pr, pw := io.Pipe()
	ow := &objectWriter{
		pw:   pw,
		done: make(chan error, 1),
	}

	go func() {
		err := sb.upload(ctx, key, pr, opts)
		// Unblock pending writes if the upload stopped early
		pr.CloseWithError(err)
		ow.done <- err
	}()

	sb.log.Debug("uploading '%s' to bucket '%s'", key, sb.bucketName)
	return ow, nil
}

func (sb *S3Sink) putObject(ctx context.Context, key string, r io.Reader, opts minio.PutObjectOptions) error {
	_, err := sb.client.PutObject(ctx, sb.bucketName, key, r, -1, opts)
	return err
}

func (sb *S3Sink) Get(ctx context.Context, key string) (*sink.Object, error) {
	key, err := sink.CleanKey(key)
	if err != nil {
		return nil, err
	}

	obj, err := sb.client.GetObject(ctx, sb.bucketName, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	defer obj.Close()

	info, err := obj.Stat()
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, fmt.Errorf("%w: %s", data.ErrNotExist, key)
		}
		return nil, err
	}

	buf, err := io.ReadAll(obj)
	if err != nil {
		return nil, err
	}

	stat := data.NewFileStat(key, info.Size, 0644)
	stat.ModifyTime = info.LastModified
	stat.ETag = info.ETag
	if info.ContentType != "" {
		stat.ContentType = data.ContentType(info.ContentType)
	}
	if mode, err := strconv.ParseUint(info.UserMetadata["Mode"], 8, 32); err == nil {
		stat.Mode = data.FileMode(mode)
	}

	return sink.NewObject(info.ETag, key, buf, stat), nil
}

func (sb *S3Sink) Keys(ctx context.Context) ([]string, error) {
	var keys []string

	for info := range sb.client.ListObjects(ctx, sb.bucketName, minio.ListObjectsOptions{Recursive: true}) {
		if info.Err != nil {
			return nil, info.Err
		}
		keys = append(keys, info.Key)
	}

	sort.Strings(keys)
	return keys, nil
}

// objectWriter feeds an upload running in the background.
// Close waits for the upload to finish.
type objectWriter struct {
	pw     *io.PipeWriter
	done   chan error
	closed bool
}

func (ow *objectWriter) Write(p []byte) (int, error) {
	if ow.closed {
		return 0, data.ErrClosed
	}
	return ow.pw.Write(p)
}

func (ow *objectWriter) Close() error {
	if ow.closed {
		return data.ErrClosed
	}
	ow.closed = true

	if err := ow.pw.Close(); err != nil {
		return err
	}
	return <-ow.done
}

// Abort fails the upload so no object is created.
func (ow *objectWriter) Abort() error {
	if ow.closed {
		return data.ErrClosed
	}
	ow.closed = true

	ow.pw.CloseWithError(errAborted)
	if err := <-ow.done; err != nil && !errors.Is(err, errAborted) {
		return err
	}
	return nil
}

var errAborted = errors.New("upload aborted")
