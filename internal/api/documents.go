package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
)

// ErrDocumentNotFound signals a permanently missing document: it was deleted
// or its upload failed server-side. Callers must not retry.
var ErrDocumentNotFound = errors.New("document not found - may have been deleted or processing failed")

// Stage is a named point in a document's upload/processing lifecycle.
type Stage string

const (
	StageUploading  Stage = "uploading"
	StageProcessing Stage = "processing"
	StageEmbedding  Stage = "embedding"
	StageCompleted  Stage = "completed"
	StageError      Stage = "error"
)

// Terminal reports whether no further transitions occur from this stage.
func (s Stage) Terminal() bool {
	return s == StageCompleted || s == StageError
}

// Document is a document record as stored by the backend
type Document struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	FileSize   int64  `json:"file_size"`
	FileType   string `json:"file_type"`
	UploadedBy string `json:"uploaded_by"`
	UploadDate string `json:"upload_date"`
	FilePath   string `json:"file_path"`
}

// UploadResponse is the backend's acknowledgement of a document upload
type UploadResponse struct {
	ID       int64  `json:"id"`
	Filename string `json:"filename"`
	Status   string `json:"status"`
	Message  string `json:"message"`
}

// ProcessingStatus reports where a document is in the backend pipeline
type ProcessingStatus struct {
	ID       int64  `json:"id"`
	Status   Stage  `json:"status"`
	Progress int    `json:"progress"`
	Message  string `json:"message"`
	Error    string `json:"error,omitempty"`
}

// DocumentContent is the extracted text of a processed document
type DocumentContent struct {
	Content  string `json:"content"`
	Metadata struct {
		Name       string `json:"name"`
		FileSize   int64  `json:"file_size"`
		FileType   string `json:"file_type"`
		UploadDate string `json:"upload_date"`
	} `json:"metadata"`
}

// ListDocuments retrieves all document records
func (c *Client) ListDocuments(ctx context.Context) ([]Document, error) {
	var docs []Document
	if err := c.doJSON(ctx, "GET", "/api/v1/documents/", nil, &docs); err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	return docs, nil
}

// DeleteDocument deletes a document and its derived data
func (c *Client) DeleteDocument(ctx context.Context, id int64) error {
	if err := c.doJSON(ctx, "DELETE", fmt.Sprintf("/api/v1/documents/%d", id), nil, nil); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	return nil
}

// GetDocumentContent retrieves the extracted content of a document
func (c *Client) GetDocumentContent(ctx context.Context, id int64) (*DocumentContent, error) {
	var content DocumentContent
	if err := c.doJSON(ctx, "GET", fmt.Sprintf("/api/v1/documents/%d/content", id), nil, &content); err != nil {
		return nil, fmt.Errorf("failed to get document content: %w", err)
	}
	return &content, nil
}

// GetProcessingStatus polls the backend pipeline status for a document.
// A 404 maps to ErrDocumentNotFound; other non-2xx codes surface as
// *StatusError so callers can tell transient server trouble apart.
func (c *Client) GetProcessingStatus(ctx context.Context, id int64) (*ProcessingStatus, error) {
	var status ProcessingStatus
	err := c.doJSON(ctx, "GET", fmt.Sprintf("/api/v1/documents/%d/status", id), nil, &status)
	if err != nil {
		var se *StatusError
		if errors.As(err, &se) && se.Code == http.StatusNotFound {
			return nil, ErrDocumentNotFound
		}
		return nil, err
	}
	return &status, nil
}

// UploadDocument uploads one file as multipart form data. The content reader
// is consumed as the transport sends, so wrapping it is enough to observe
// transfer progress. The multipart boundary type is set by this method; the
// request decorator never applies application/json here.
func (c *Client) UploadDocument(ctx context.Context, filename string, content io.Reader, uploadedBy string) (*UploadResponse, error) {
	pr, pw := io.Pipe()
	writer := multipart.NewWriter(pw)

	go func() {
		part, err := writer.CreateFormFile("file", filename)
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, content); err != nil {
			pw.CloseWithError(err)
			return
		}
		if err := writer.WriteField("uploaded_by", uploadedBy); err != nil {
			pw.CloseWithError(err)
			return
		}
		pw.CloseWithError(writer.Close())
	}()

	req, err := c.newRequest(ctx, "POST", "/api/v1/documents/upload", pr, writer.FormDataContentType())
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(resp.Body)
		return nil, &StatusError{Code: resp.StatusCode, Body: string(data)}
	}

	var upload UploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&upload); err != nil {
		return nil, fmt.Errorf("failed to decode upload response: %w", err)
	}
	return &upload, nil
}
