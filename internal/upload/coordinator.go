package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/qadesk/cli/internal/api"
)

// Progress is one snapshot of a tracked file's lifecycle. Snapshots are
// immutable once delivered; the coordinator never mutates a delivered value.
type Progress struct {
	FileID   string
	FileName string
	Stage    api.Stage
	Percent  int
	Message  string
	Err      string
}

// ProgressFunc receives progress snapshots. It is called from upload and
// polling goroutines; implementations must do their own serialization.
type ProgressFunc func(Progress)

// File is one file queued for upload
type File struct {
	Name    string
	Size    int64
	MIME    string
	Content io.Reader
}

// Info returns the validation view of the file
func (f File) Info() FileInfo {
	return FileInfo{Name: f.Name, Size: f.Size, MIME: f.MIME}
}

// FromPath opens a file on disk for upload. The coordinator closes the
// content reader once the upload request settles.
func FromPath(path string) (File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return File{}, fmt.Errorf("failed to open file: %w", err)
	}
	stat, err := fh.Stat()
	if err != nil {
		fh.Close()
		return File{}, fmt.Errorf("failed to stat file: %w", err)
	}
	return File{
		Name:    filepath.Base(path),
		Size:    stat.Size(),
		MIME:    mime.TypeByExtension(filepath.Ext(path)),
		Content: fh,
	}, nil
}

// StatusFetcher is the polling side of the backend: the real client and the
// degraded-mode simulator both satisfy it, so either can sit behind a
// coordinator without the call sites changing.
type StatusFetcher interface {
	GetProcessingStatus(ctx context.Context, id int64) (*api.ProcessingStatus, error)
}

// Uploader is the upload side of the backend
type Uploader interface {
	UploadDocument(ctx context.Context, filename string, content io.Reader, uploadedBy string) (*api.UploadResponse, error)
}

// Coordinator drives one multipart upload plus a bounded polling loop per
// file, surfacing a unified progress stream through caller callbacks.
// Construct one per process and inject it; all uploads share its registry.
type Coordinator struct {
	uploader   Uploader
	status     StatusFetcher
	fallback   StatusFetcher
	uploadedBy string
	interval   time.Duration
	maxRetries int

	mu    sync.Mutex
	polls map[string]chan struct{}
}

// Option configures a Coordinator
type Option func(*Coordinator)

// WithPollInterval overrides the default 2s status poll interval
func WithPollInterval(d time.Duration) Option {
	return func(c *Coordinator) {
		if d > 0 {
			c.interval = d
		}
	}
}

// WithMaxRetries overrides the default of 3 transient poll retries
func WithMaxRetries(n int) Option {
	return func(c *Coordinator) {
		if n > 0 {
			c.maxRetries = n
		}
	}
}

// WithFallback installs a degraded-mode status source consulted when the
// real status endpoint answers with a server error
func WithFallback(f StatusFetcher) Option {
	return func(c *Coordinator) { c.fallback = f }
}

// NewCoordinator creates an upload coordinator backed by the given client
func NewCoordinator(client *api.Client, uploadedBy string, opts ...Option) *Coordinator {
	c := &Coordinator{
		uploader:   client,
		status:     client,
		uploadedBy: uploadedBy,
		interval:   2 * time.Second,
		maxRetries: 3,
		polls:      make(map[string]chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// UploadFile uploads one file and starts polling its processing status.
// The returned response is the raw upload acknowledgement; it resolves as
// soon as the upload request settles, not when processing finishes. Progress
// keeps flowing through onProgress until the file reaches a terminal stage.
func (c *Coordinator) UploadFile(ctx context.Context, file File, onProgress ProgressFunc) (*api.UploadResponse, error) {
	fileID := fmt.Sprintf("%s_%d_%d", file.Name, file.Size, time.Now().UnixMilli())

	onProgress(Progress{
		FileID:   fileID,
		FileName: file.Name,
		Stage:    api.StageUploading,
		Percent:  0,
		Message:  "Starting upload...",
	})

	content := &progressReader{
		r:     file.Content,
		total: file.Size,
		onPercent: func(pct int) {
			onProgress(Progress{
				FileID:   fileID,
				FileName: file.Name,
				Stage:    api.StageUploading,
				Percent:  pct,
				Message:  fmt.Sprintf("Uploading... %d%%", pct),
			})
		},
	}

	resp, err := c.uploader.UploadDocument(ctx, file.Name, content, c.uploadedBy)
	if closer, ok := file.Content.(io.Closer); ok {
		closer.Close()
	}
	if err != nil {
		onProgress(Progress{
			FileID:   fileID,
			FileName: file.Name,
			Stage:    api.StageError,
			Percent:  0,
			Message:  "Upload failed",
			Err:      uploadErrorText(err),
		})
		return nil, err
	}

	if n, ok := c.fallback.(interface{ UploadStarted(int64) }); ok {
		n.UploadStarted(resp.ID)
	}
	c.startPolling(fileID, resp.ID, file.Name, onProgress)

	return resp, nil
}

// UploadFiles uploads a batch concurrently. It resolves when every upload
// request has settled (polling continues in the background); the first
// upload failure fails the batch.
func (c *Coordinator) UploadFiles(ctx context.Context, files []File, onProgress ProgressFunc) ([]*api.UploadResponse, error) {
	g, ctx := errgroup.WithContext(ctx)
	responses := make([]*api.UploadResponse, len(files))

	for i, file := range files {
		g.Go(func() error {
			resp, err := c.UploadFile(ctx, file, onProgress)
			if err != nil {
				return err
			}
			responses[i] = resp
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return responses, nil
}

// CancelUpload stops the polling loop for a file and discards its state.
// Unknown or already-terminal file IDs are a no-op.
func (c *Coordinator) CancelUpload(fileID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if stop, ok := c.polls[fileID]; ok {
		delete(c.polls, fileID)
		close(stop)
	}
}

// CancelAllUploads stops every active polling loop. Used on teardown.
func (c *Coordinator) CancelAllUploads() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for id, stop := range c.polls {
		delete(c.polls, id)
		close(stop)
	}
}

// ActivePolls reports how many files are currently being polled
func (c *Coordinator) ActivePolls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.polls)
}

func (c *Coordinator) startPolling(fileID string, docID int64, fileName string, onProgress ProgressFunc) {
	stop := make(chan struct{})
	c.mu.Lock()
	c.polls[fileID] = stop
	c.mu.Unlock()

	go c.poll(fileID, docID, fileName, onProgress, stop)
}

func (c *Coordinator) poll(fileID string, docID int64, fileName string, onProgress ProgressFunc, stop chan struct{}) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	retries := 0
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
		}

		status, err := c.fetchStatus(docID)
		if err != nil {
			if errors.Is(err, api.ErrDocumentNotFound) {
				// Permanent: the document is gone, never retry
				onProgress(Progress{
					FileID:   fileID,
					FileName: fileName,
					Stage:    api.StageError,
					Percent:  0,
					Message:  "Document not found - upload may have failed",
					Err:      err.Error(),
				})
				c.endPolling(fileID)
				return
			}

			if retries >= c.maxRetries {
				onProgress(Progress{
					FileID:   fileID,
					FileName: fileName,
					Stage:    api.StageError,
					Percent:  0,
					Message:  "Failed to get processing status after multiple retries",
					Err:      err.Error(),
				})
				c.endPolling(fileID)
				return
			}

			retries++
			onProgress(Progress{
				FileID:   fileID,
				FileName: fileName,
				Stage:    api.StageProcessing,
				Percent:  0,
				Message:  fmt.Sprintf("Connection issue, retrying... (%d/%d)", retries, c.maxRetries),
			})
			continue
		}

		retries = 0
		onProgress(Progress{
			FileID:   fileID,
			FileName: fileName,
			Stage:    status.Status,
			Percent:  status.Progress,
			Message:  status.Message,
			Err:      status.Error,
		})

		if status.Status.Terminal() {
			c.endPolling(fileID)
			return
		}
	}
}

// fetchStatus consults the real endpoint first; a server-side 5xx degrades
// to the fallback simulator when one is installed.
func (c *Coordinator) fetchStatus(docID int64) (*api.ProcessingStatus, error) {
	ctx, cancel := context.WithTimeout(context.Background(), c.interval)
	defer cancel()

	status, err := c.status.GetProcessingStatus(ctx, docID)
	if err != nil {
		var se *api.StatusError
		if errors.As(err, &se) && se.Code >= 500 && c.fallback != nil {
			return c.fallback.GetProcessingStatus(ctx, docID)
		}
		return nil, err
	}
	return status, nil
}

// endPolling removes the registry entry after a terminal stage. The stop
// channel is left open for the entry's lifetime; cancellation after a
// natural finish finds no entry and is a no-op.
func (c *Coordinator) endPolling(fileID string) {
	c.mu.Lock()
	delete(c.polls, fileID)
	c.mu.Unlock()
}

// uploadErrorText normalizes an upload failure to one readable message,
// preferring whatever the backend said over transport noise.
func uploadErrorText(err error) string {
	var se *api.StatusError
	if errors.As(err, &se) && se.Body != "" {
		return se.Body
	}
	if err != nil {
		return err.Error()
	}
	return "Unknown error"
}

// progressReader emits a rounded percent each time the transport consumes
// more of the file. Percent values are monotonically non-decreasing and
// deduplicated, so a callback tick always carries new information.
type progressReader struct {
	r         io.Reader
	total     int64
	loaded    int64
	last      int
	onPercent func(int)
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 && p.total > 0 {
		p.loaded += int64(n)
		pct := int((p.loaded*100 + p.total/2) / p.total)
		if pct > 100 {
			pct = 100
		}
		if pct > p.last {
			p.last = pct
			p.onPercent(pct)
		}
	}
	return n, err
}
