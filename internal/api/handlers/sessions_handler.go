package handlers

import (
	"log"

	"clinician-notes-service/internal/domain/dtos"
	"clinician-notes-service/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// SessionsHandler exposes session creation and lookup.
type SessionsHandler struct {
	sessionService services.SessionServiceContract
	logger         *log.Logger
}

func NewSessionsHandler(sessionService services.SessionServiceContract, logger *log.Logger) *SessionsHandler {
	return &SessionsHandler{sessionService: sessionService, logger: logger}
}

func (h *SessionsHandler) Create(c *fiber.Ctx) error {
	userID, err := actorID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing or invalid X-User-ID header"})
	}

	var req dtos.CreateSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "could not parse request body: " + err.Error()})
	}
	if req.PatientID == uuid.Nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "patient_id is required"})
	}
	if req.Transcript == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "transcript is required"})
	}

	session, err := h.sessionService.CreateSession(c.Context(), req.PatientID, userID, req.Transcript)
	if err != nil {
		h.logger.Printf("Session creation failed: %v", err)
		return c.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(dtos.SessionResponse{
		ID:             session.ID,
		PatientID:      session.PatientID,
		TranscriptHash: session.TranscriptHash,
		CreatedAt:      session.CreatedAt,
	})
}

func (h *SessionsHandler) Get(c *fiber.Ctx) error {
	sessionID, err := uuid.Parse(c.Params("sessionId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid session id"})
	}

	session, err := h.sessionService.GetSession(c.Context(), sessionID)
	if err != nil {
		return c.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(dtos.SessionResponse{
		ID:             session.ID,
		PatientID:      session.PatientID,
		TranscriptHash: session.TranscriptHash,
		CreatedAt:      session.CreatedAt,
	})
}

// RegisterSessionRoutes wires the session endpoints onto the app.
func RegisterSessionRoutes(app *fiber.App, h *SessionsHandler) {
	sessions := app.Group("/sessions")
	sessions.Post("/", h.Create)
	sessions.Get("/:sessionId", h.Get)
}
