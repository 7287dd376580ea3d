// Package engine is the client for the BeatStitch engine API, the external
// backend that owns media storage, beat detection, timeline generation and
// rendering. Everything durable lives behind this client; the web frontend
// only issues requests and renders the results.
package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/google/uuid"

	"beatstitch/internal/metrics"
	"beatstitch/internal/models"
)

// Client communicates with the engine's JSON/HTTP API.
type Client struct {
	baseURL string
	token   string // bearer token attached to every request
	http    *http.Client
	stream  *http.Client // no overall timeout, for uploads and downloads
}

// NewClient creates an engine client. token is the service token used when
// no user token is set; timeout applies to JSON calls only.
func NewClient(baseURL, token string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: timeout},
		stream:  &http.Client{},
	}
}

// ForUser returns a client that authenticates with the given user token
// instead of the service token. The underlying transports are shared.
func (c *Client) ForUser(token string) *Client {
	if token == "" {
		return c
	}
	derived := *c
	derived.token = token
	return &derived
}

// envelope is the engine's standard response wrapper.
type envelope struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
	Error  string          `json:"error"`
}

// apiError carries the HTTP status and engine error message for a failed call.
type apiError struct {
	status  int
	message string
}

func (e *apiError) Error() string {
	if e.message != "" {
		return fmt.Sprintf("engine: %s (HTTP %d)", e.message, e.status)
	}
	return fmt.Sprintf("engine: HTTP %d", e.status)
}

// do performs a JSON request against the engine and decodes the enveloped
// response into out (which may be nil for calls without a payload).
func (c *Client) do(ctx context.Context, method, path string, body, out any) (err error) {
	start := time.Now()
	defer func() { metrics.ObserveEngineRequest(method, time.Since(start), err) }()

	var reqBody io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.setAuth(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	return decodeEnvelope(resp, out)
}

func (c *Client) setAuth(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}

// decodeEnvelope maps transport-level failures to sentinels and unwraps the
// data payload on success.
func decodeEnvelope(resp *http.Response, out any) error {
	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return ErrUnauthorized
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: HTTP %d", ErrUnavailable, resp.StatusCode)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	if resp.StatusCode >= 400 || env.Status == "error" {
		return &apiError{status: resp.StatusCode, message: env.Error}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode data: %w", err)
	}
	return nil
}

// notFound converts a 404 apiError into the given sentinel.
func notFound(err, sentinel error) error {
	var ae *apiError
	if errors.As(err, &ae) && ae.status == http.StatusNotFound {
		return sentinel
	}
	return err
}

// --- Projects ---

// ListProjects returns the caller's projects for the dashboard.
func (c *Client) ListProjects(ctx context.Context) ([]models.Project, error) {
	var projects []models.Project
	if err := c.do(ctx, http.MethodGet, "/api/projects", nil, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// GetProject fetches a single project.
func (c *Client) GetProject(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	var project models.Project
	if err := c.do(ctx, http.MethodGet, "/api/projects/"+id.String(), nil, &project); err != nil {
		return nil, notFound(err, ErrProjectNotFound)
	}
	return &project, nil
}

// CreateProject creates a project on the engine.
func (c *Client) CreateProject(ctx context.Context, req models.CreateProjectRequest) (*models.Project, error) {
	var project models.Project
	if err := c.do(ctx, http.MethodPost, "/api/projects", req, &project); err != nil {
		var ae *apiError
		if errors.As(err, &ae) && ae.status == http.StatusConflict {
			return nil, ErrDuplicateName
		}
		return nil, err
	}
	return &project, nil
}

// UpdateProject updates project settings (name, beat rule, aspect ratio).
func (c *Client) UpdateProject(ctx context.Context, id uuid.UUID, req models.UpdateProjectRequest) (*models.Project, error) {
	var project models.Project
	if err := c.do(ctx, http.MethodPut, "/api/projects/"+id.String(), req, &project); err != nil {
		return nil, notFound(err, ErrProjectNotFound)
	}
	return &project, nil
}

// DeleteProject removes a project and all of its media on the engine.
func (c *Client) DeleteProject(ctx context.Context, id uuid.UUID) error {
	if err := c.do(ctx, http.MethodDelete, "/api/projects/"+id.String(), nil, nil); err != nil {
		return notFound(err, ErrProjectNotFound)
	}
	return nil
}

// --- Media ---

// ListMedia returns a project's media assets in sort order.
func (c *Client) ListMedia(ctx context.Context, projectID uuid.UUID) ([]models.MediaAsset, error) {
	var assets []models.MediaAsset
	path := "/api/projects/" + projectID.String() + "/media"
	if err := c.do(ctx, http.MethodGet, path, nil, &assets); err != nil {
		return nil, notFound(err, ErrProjectNotFound)
	}
	return assets, nil
}

// UploadMedia streams a video clip or image to the engine as multipart form
// data and returns the created asset.
func (c *Client) UploadMedia(ctx context.Context, projectID uuid.UUID, filename, contentType string, r io.Reader) (*models.MediaAsset, error) {
	var asset models.MediaAsset
	path := "/api/projects/" + projectID.String() + "/media"
	if err := c.upload(ctx, path, filename, contentType, r, &asset); err != nil {
		return nil, notFound(err, ErrProjectNotFound)
	}
	return &asset, nil
}

// DeleteMedia removes a media asset.
func (c *Client) DeleteMedia(ctx context.Context, projectID, mediaID uuid.UUID) error {
	path := "/api/projects/" + projectID.String() + "/media/" + mediaID.String()
	if err := c.do(ctx, http.MethodDelete, path, nil, nil); err != nil {
		return notFound(err, ErrMediaNotFound)
	}
	return nil
}

// ReorderMedia sends the new clip order chosen by drag-and-drop.
func (c *Client) ReorderMedia(ctx context.Context, projectID uuid.UUID, order []uuid.UUID) error {
	path := "/api/projects/" + projectID.String() + "/media/order"
	body := map[string][]uuid.UUID{"order": order}
	if err := c.do(ctx, http.MethodPut, path, body, nil); err != nil {
		return notFound(err, ErrProjectNotFound)
	}
	return nil
}

// --- Audio ---

// UploadAudio streams the project's music track to the engine, which starts
// beat detection asynchronously.
func (c *Client) UploadAudio(ctx context.Context, projectID uuid.UUID, filename, contentType string, r io.Reader) (*models.AudioTrack, error) {
	var track models.AudioTrack
	path := "/api/projects/" + projectID.String() + "/audio"
	if err := c.upload(ctx, path, filename, contentType, r, &track); err != nil {
		return nil, notFound(err, ErrProjectNotFound)
	}
	return &track, nil
}

// GetAudio fetches the project's audio track and its analysis status.
func (c *Client) GetAudio(ctx context.Context, projectID uuid.UUID) (*models.AudioTrack, error) {
	var track models.AudioTrack
	path := "/api/projects/" + projectID.String() + "/audio"
	if err := c.do(ctx, http.MethodGet, path, nil, &track); err != nil {
		return nil, notFound(err, ErrAudioNotFound)
	}
	return &track, nil
}

// --- Timeline ---

// GenerateTimeline asks the engine to build a timeline from the analyzed
// audio, the current media order, and the parsed beats-per-cut value.
func (c *Client) GenerateTimeline(ctx context.Context, projectID uuid.UUID, req models.GenerateTimelineRequest) (*models.Timeline, error) {
	var timeline models.Timeline
	path := "/api/projects/" + projectID.String() + "/timeline"
	if err := c.do(ctx, http.MethodPost, path, req, &timeline); err != nil {
		return nil, notFound(err, ErrProjectNotFound)
	}
	return &timeline, nil
}

// GetTimeline fetches the most recently generated timeline for a project.
// Returns ErrTimelineNotFound when no timeline has been generated yet.
func (c *Client) GetTimeline(ctx context.Context, projectID uuid.UUID) (*models.Timeline, error) {
	var timeline models.Timeline
	path := "/api/projects/" + projectID.String() + "/timeline"
	if err := c.do(ctx, http.MethodGet, path, nil, &timeline); err != nil {
		return nil, notFound(err, ErrTimelineNotFound)
	}
	return &timeline, nil
}

// --- Render jobs ---

// SubmitRender starts an asynchronous render and returns the queued job.
func (c *Client) SubmitRender(ctx context.Context, projectID uuid.UUID, req models.SubmitRenderRequest) (*models.RenderJob, error) {
	var job models.RenderJob
	path := "/api/projects/" + projectID.String() + "/render"
	if err := c.do(ctx, http.MethodPost, path, req, &job); err != nil {
		return nil, notFound(err, ErrProjectNotFound)
	}
	return &job, nil
}

// JobStatus fetches the current state of a render job.
func (c *Client) JobStatus(ctx context.Context, jobID uuid.UUID) (*models.RenderJob, error) {
	var job models.RenderJob
	if err := c.do(ctx, http.MethodGet, "/api/jobs/"+jobID.String(), nil, &job); err != nil {
		return nil, notFound(err, ErrJobNotFound)
	}
	return &job, nil
}

// CancelJob cancels a queued or processing render job.
func (c *Client) CancelJob(ctx context.Context, jobID uuid.UUID) error {
	if err := c.do(ctx, http.MethodPost, "/api/jobs/"+jobID.String()+"/cancel", nil, nil); err != nil {
		return notFound(err, ErrJobNotFound)
	}
	return nil
}

// --- Binary downloads ---

// Download fetches an authenticated binary resource (rendered output, media
// preview) and returns the body stream with its content type and length.
// The caller must close the returned reader. This is the server-side
// counterpart of the browser creating a blob URL from an authenticated fetch.
func (c *Client) Download(ctx context.Context, path string) (io.ReadCloser, string, int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, "", 0, fmt.Errorf("create request: %w", err)
	}
	c.setAuth(req)

	resp, err := c.stream.Do(req)
	if err != nil {
		return nil, "", 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		resp.Body.Close()
		return nil, "", 0, ErrUnauthorized
	case resp.StatusCode == http.StatusNotFound:
		resp.Body.Close()
		return nil, "", 0, ErrMediaNotFound
	case resp.StatusCode != http.StatusOK:
		resp.Body.Close()
		return nil, "", 0, &apiError{status: resp.StatusCode}
	}

	return resp.Body, resp.Header.Get("Content-Type"), resp.ContentLength, nil
}

// Healthy checks the engine's health endpoint. Used by the readiness probe.
func (c *Client) Healthy(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: HTTP %d", ErrUnavailable, resp.StatusCode)
	}
	return nil
}

// upload streams a single file as multipart form data. The multipart body is
// produced through a pipe so large uploads never buffer fully in memory.
func (c *Client) upload(ctx context.Context, path, filename, contentType string, r io.Reader, out any) (err error) {
	start := time.Now()
	defer func() { metrics.ObserveEngineRequest("UPLOAD", time.Since(start), err) }()

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		part, err := mw.CreateFormFile("file", filename)
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, r); err != nil {
			pw.CloseWithError(err)
			return
		}
		pw.CloseWithError(mw.Close())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, pr)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if contentType != "" {
		req.Header.Set("X-Upload-Content-Type", contentType)
	}
	c.setAuth(req)

	resp, err := c.stream.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	return decodeEnvelope(resp, out)
}
