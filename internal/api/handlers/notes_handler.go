package handlers

import (
	"errors"
	"log"

	"clinician-notes-service/internal/domain"
	"clinician-notes-service/internal/domain/dtos"
	"clinician-notes-service/internal/domain/entities"
	"clinician-notes-service/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// NotesHandler exposes the note-version state machine over HTTP. The acting
// user id arrives in the X-User-ID header, set by the authentication
// middleware that fronts this service.
type NotesHandler struct {
	notesService services.NotesServiceContract
	logger       *log.Logger
}

func NewNotesHandler(notesService services.NotesServiceContract, logger *log.Logger) *NotesHandler {
	return &NotesHandler{notesService: notesService, logger: logger}
}

func actorID(c *fiber.Ctx) (uuid.UUID, error) {
	return uuid.Parse(c.Get("X-User-ID"))
}

// statusForError maps the domain error taxonomy onto HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrInvalidState):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

func (h *NotesHandler) Generate(c *fiber.Ctx) error {
	sessionID, err := uuid.Parse(c.Params("sessionId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid session id"})
	}
	userID, err := actorID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing or invalid X-User-ID header"})
	}

	req := dtos.GenerateRequest{PromptVersion: "v1", Mode: dtos.ModeFull}
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "could not parse request body: " + err.Error()})
	}
	if req.Mode != dtos.ModeFull && req.Mode != dtos.ModeSafe {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "mode must be full or safe"})
	}
	if req.Temperature < 0 || req.Temperature > 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "temperature must be between 0 and 1"})
	}

	resp, err := h.notesService.GenerateSuggestions(c.Context(), sessionID, userID, req)
	if err != nil {
		h.logger.Printf("Generate failed for session %s: %v", sessionID, err)
		return c.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}

func (h *NotesHandler) ListVersions(c *fiber.Ctx) error {
	sessionID, err := uuid.Parse(c.Params("sessionId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid session id"})
	}

	versions, err := h.notesService.ListVersions(c.Context(), sessionID)
	if err != nil {
		return c.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
	}

	responses := make([]dtos.NoteVersionResponse, 0, len(versions))
	for _, v := range versions {
		responses = append(responses, toVersionResponse(v))
	}
	return c.JSON(fiber.Map{"total": len(responses), "versions": responses})
}

func (h *NotesHandler) UpdateVersion(c *fiber.Ctx) error {
	versionID, err := uuid.Parse(c.Params("versionId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid version id"})
	}
	userID, err := actorID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing or invalid X-User-ID header"})
	}

	var req dtos.UpdateVersionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "could not parse request body: " + err.Error()})
	}

	version, err := h.notesService.UpdateVersion(c.Context(), versionID, userID, req)
	if err != nil {
		return c.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(toVersionResponse(version))
}

func (h *NotesHandler) FinalizeVersion(c *fiber.Ctx) error {
	versionID, err := uuid.Parse(c.Params("versionId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid version id"})
	}
	userID, err := actorID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing or invalid X-User-ID header"})
	}

	version, err := h.notesService.FinalizeVersion(c.Context(), versionID, userID)
	if err != nil {
		return c.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(toVersionResponse(version))
}

func (h *NotesHandler) Rollback(c *fiber.Ctx) error {
	sessionID, err := uuid.Parse(c.Params("sessionId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid session id"})
	}
	userID, err := actorID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing or invalid X-User-ID header"})
	}

	var req dtos.RollbackRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "could not parse request body: " + err.Error()})
	}
	if req.TargetVersionID == uuid.Nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "target_version_id is required"})
	}

	version, err := h.notesService.RollbackToVersion(c.Context(), sessionID, req.TargetVersionID, userID)
	if err != nil {
		return c.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(toVersionResponse(version))
}

func toVersionResponse(v *entities.NoteVersion) dtos.NoteVersionResponse {
	return dtos.NoteVersionResponse{
		ID:              v.ID,
		SessionID:       v.SessionID,
		VersionNumber:   v.VersionNumber,
		Status:          v.Status,
		SoapJSON:        string(v.SoapJSON),
		DxJSON:          string(v.DxJSON),
		MedsJSON:        string(v.MedsJSON),
		SafetyJSON:      string(v.SafetyJSON),
		AiSuggestionID:  v.AiSuggestionID,
		CreatedByUserID: v.CreatedByUserID,
		CreatedAt:       v.CreatedAt,
	}
}

// RegisterNotesRoutes wires the note endpoints onto the app.
func RegisterNotesRoutes(app *fiber.App, h *NotesHandler) {
	sessions := app.Group("/sessions")
	sessions.Post("/:sessionId/ai/generate", h.Generate)
	sessions.Get("/:sessionId/versions", h.ListVersions)
	sessions.Post("/:sessionId/notes/rollback", h.Rollback)

	notes := app.Group("/notes")
	notes.Put("/versions/:versionId", h.UpdateVersion)
	notes.Post("/versions/:versionId/finalize", h.FinalizeVersion)
}
