package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"docstore/internal/http/middleware"
	"docstore/internal/service"
)

// scanURLTTL bounds how long a presigned scan download link stays valid.
const scanURLTTL = 15 * time.Minute

func registerDocumentRoutes(r fiber.Router, manager fiber.Handler, svc service.DocumentService) {
	r.Get("/documents", func(c *fiber.Ctx) error {
		folderID := c.Query("folder_id")
		if folderID == "" {
			return writeError(c, fiber.StatusBadRequest, "VALIDATION", "folder_id is required")
		}
		pq, err := pageQueryFromCtx(c)
		if err != nil {
			return err
		}
		res, err := svc.ListByFolder(c.UserContext(), folderID, pq)
		if err != nil {
			return serviceError(c, err)
		}
		return success(c, fiber.StatusOK, "success", listEnvelope(res.Items, res.Total))
	})

	// Return closes the open checkout; the desk manager records an optional note.
	// Registered before /:id routes so the literal segments win.
	r.Post("/documents/return", manager, func(c *fiber.Ctx) error {
		actor, _ := middleware.ActorFromCtx(c)
		var body struct {
			DocumentID string `json:"document_id"`
			Note       string `json:"note"`
		}
		if err := c.BodyParser(&body); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "malformed body")
		}
		res, err := svc.Return(c.UserContext(), actor, body.DocumentID, body.Note)
		if err != nil {
			return serviceError(c, err)
		}
		return success(c, fiber.StatusOK, "document returned", res)
	})

	// CheckReturn previews on-time status without mutating anything.
	r.Post("/documents/check-return", func(c *fiber.Ctx) error {
		var body struct {
			DocumentID string `json:"document_id"`
		}
		if err := c.BodyParser(&body); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "malformed body")
		}
		res, err := svc.CheckReturn(c.UserContext(), body.DocumentID)
		if err != nil {
			return serviceError(c, err)
		}
		return success(c, fiber.StatusOK, "success", res)
	})

	// The actor's own checkout history with the live overdue count.
	r.Get("/borrow-histories", func(c *fiber.Ctx) error {
		actor, ok := middleware.ActorFromCtx(c)
		if !ok {
			return fiber.ErrUnauthorized
		}
		pq, err := pageQueryFromCtx(c)
		if err != nil {
			return err
		}
		res, overdue, err := svc.BorrowHistory(c.UserContext(), actor, pq)
		if err != nil {
			return serviceError(c, err)
		}
		return success(c, fiber.StatusOK, "success", fiber.Map{
			"data":    res.Items,
			"total":   res.Total,
			"overdue": overdue,
		})
	})

	r.Get("/documents/:id", func(c *fiber.Ctx) error {
		actor, ok := middleware.ActorFromCtx(c)
		if !ok {
			return fiber.ErrUnauthorized
		}
		doc, err := svc.Get(c.UserContext(), actor, c.Params("id"))
		if err != nil {
			return serviceError(c, err)
		}
		return success(c, fiber.StatusOK, "success", doc)
	})

	r.Post("/documents/:id/confirm", manager, func(c *fiber.Ctx) error {
		actor, _ := middleware.ActorFromCtx(c)
		var body struct {
			FolderID string `json:"folder_id"`
		}
		if err := c.BodyParser(&body); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "malformed body")
		}
		if err := svc.Confirm(c.UserContext(), actor, c.Params("id"), body.FolderID); err != nil {
			return serviceError(c, err)
		}
		return success(c, fiber.StatusOK, "document placement confirmed", nil)
	})

	r.Post("/documents/:id/move", manager, func(c *fiber.Ctx) error {
		actor, _ := middleware.ActorFromCtx(c)
		var body struct {
			FolderID string `json:"folder_id"`
		}
		if err := c.BodyParser(&body); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "malformed body")
		}
		if err := svc.Move(c.UserContext(), actor, c.Params("id"), body.FolderID); err != nil {
			return serviceError(c, err)
		}
		return success(c, fiber.StatusOK, "document moved", nil)
	})

	// Scan upload (multipart/form-data, field name: file)
	r.Post("/documents/:id/scan", manager, func(c *fiber.Ctx) error {
		actor, _ := middleware.ActorFromCtx(c)
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		ct := fh.Header.Get("Content-Type")
		if ct == "" {
			ct = "application/octet-stream"
		}

		doc, err := svc.AttachScan(c.UserContext(), actor, c.Params("id"), f, fh.Filename, ct, fh.Size)
		if err != nil {
			return serviceError(c, err)
		}
		return success(c, fiber.StatusCreated, "scan attached", doc)
	})

	r.Get("/documents/:id/scan", func(c *fiber.Ctx) error {
		actor, ok := middleware.ActorFromCtx(c)
		if !ok {
			return fiber.ErrUnauthorized
		}
		url, err := svc.ScanURL(c.UserContext(), actor, c.Params("id"), scanURLTTL)
		if err != nil {
			return serviceError(c, err)
		}
		return success(c, fiber.StatusOK, "success", fiber.Map{"url": url})
	})
}
