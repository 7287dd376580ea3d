package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"beatstitch/internal/config"
	"beatstitch/internal/engine"
	"beatstitch/internal/middleware"
	"beatstitch/internal/validation"
	"beatstitch/internal/viewstate"
)

// MediaHandler handles clip and audio uploads, ordering, and streaming.
type MediaHandler struct {
	client *engine.Client
	cfg    *config.Config
}

// NewMediaHandler creates a new media handler.
func NewMediaHandler(client *engine.Client, cfg *config.Config) *MediaHandler {
	return &MediaHandler{client: client, cfg: cfg}
}

func (h *MediaHandler) clientFor(c fiber.Ctx) *engine.Client {
	return h.client.ForUser(middleware.EngineToken(c))
}

// renderMediaList re-fetches the project's media and renders the bin
// partial, applying any pending drag-and-drop order from the session.
func (h *MediaHandler) renderMediaList(c fiber.Ctx, projectID uuid.UUID) error {
	media, err := h.clientFor(c).ListMedia(c.Context(), projectID)
	if err != nil {
		return engineError(err)
	}

	state := loadViewState(c)
	if state.LastProjectID == projectID {
		media = viewstate.ApplyOrder(media, state.ClipOrder)
	}

	return c.Render("partials/media_list", fiber.Map{
		"ProjectID": projectID,
		"Media":     media,
	}, "")
}

// Upload accepts a video clip or still image and forwards it to the engine.
func (h *MediaHandler) Upload(c fiber.Ctx) error {
	projectID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid project id")
	}

	file, err := c.FormFile("file")
	if err != nil {
		return htmxError(c, "No file provided")
	}
	if file.Size > h.cfg.MaxUploadBytes {
		return htmxError(c, "File too large")
	}

	contentType := file.Header.Get("Content-Type")
	if ok, msg := validation.ValidateMediaUpload(file.Filename, contentType); !ok {
		return htmxError(c, msg)
	}

	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	if _, err := h.clientFor(c).UploadMedia(c.Context(), projectID, file.Filename, contentType, src); err != nil {
		return engineError(err)
	}

	return h.renderMediaList(c, projectID)
}

// Delete removes a clip from the project.
func (h *MediaHandler) Delete(c fiber.Ctx) error {
	projectID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid project id")
	}
	mediaID, err := uuid.Parse(c.Params("mediaID"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid media id")
	}

	if err := h.clientFor(c).DeleteMedia(c.Context(), projectID, mediaID); err != nil {
		return engineError(err)
	}

	return h.renderMediaList(c, projectID)
}

// Reorder commits a drag-and-drop clip ordering. The form carries repeated
// "order" fields, one media ID per position.
func (h *MediaHandler) Reorder(c fiber.Ctx) error {
	projectID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid project id")
	}

	form, err := c.MultipartForm()
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid form")
	}

	var order []uuid.UUID
	for _, raw := range form.Value["order"] {
		id, err := uuid.Parse(raw)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid media id in order")
		}
		order = append(order, id)
	}
	if len(order) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "empty order")
	}

	// Remember the order locally first so the UI stays stable even if the
	// engine call fails and the user retries.
	state := loadViewState(c)
	state.SetClipOrder(projectID, order)
	saveViewState(c, state)

	if err := h.clientFor(c).ReorderMedia(c.Context(), projectID, order); err != nil {
		return engineError(err)
	}

	state.ClearClipOrder()
	saveViewState(c, state)

	return h.renderMediaList(c, projectID)
}

// Stream proxies clip content from the engine for in-browser previews.
func (h *MediaHandler) Stream(c fiber.Ctx) error {
	projectID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid project id")
	}
	mediaID, err := uuid.Parse(c.Params("mediaID"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid media id")
	}

	path := "/api/projects/" + projectID.String() + "/media/" + mediaID.String() + "/content"
	body, contentType, length, err := h.clientFor(c).Download(c.Context(), path)
	if err != nil {
		return engineError(err)
	}

	c.Set(fiber.HeaderContentType, contentType)
	if length > 0 {
		c.Set(fiber.HeaderContentLength, strconv.FormatInt(length, 10))
	}
	return c.SendStream(body)
}

// UploadAudio accepts the project's music track and forwards it to the
// engine, which starts beat detection.
func (h *MediaHandler) UploadAudio(c fiber.Ctx) error {
	projectID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid project id")
	}

	file, err := c.FormFile("file")
	if err != nil {
		return htmxError(c, "No file provided")
	}
	if file.Size > h.cfg.MaxUploadBytes {
		return htmxError(c, "File too large")
	}

	contentType := file.Header.Get("Content-Type")
	if ok, msg := validation.ValidateAudioUpload(file.Filename, contentType); !ok {
		return htmxError(c, msg)
	}

	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	audio, err := h.clientFor(c).UploadAudio(c.Context(), projectID, file.Filename, contentType, src)
	if err != nil {
		return engineError(err)
	}

	return c.Render("partials/audio_status", fiber.Map{
		"ProjectID": projectID,
		"Audio":     audio,
	}, "")
}

// AudioStatus renders the audio panel partial. The editor polls this while
// beat detection is running.
func (h *MediaHandler) AudioStatus(c fiber.Ctx) error {
	projectID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid project id")
	}

	audio, err := h.clientFor(c).GetAudio(c.Context(), projectID)
	if err != nil {
		if errors.Is(err, engine.ErrAudioNotFound) {
			return c.Render("partials/audio_status", fiber.Map{
				"ProjectID": projectID,
			}, "")
		}
		return engineError(err)
	}

	return c.Render("partials/audio_status", fiber.Map{
		"ProjectID": projectID,
		"Audio":     audio,
	}, "")
}
