package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"docstore/internal/http/middleware"
	"docstore/internal/model"
	"docstore/internal/repository"
	"docstore/internal/service"
)

type rejectPayload struct {
	Reason string `json:"reason"`
}

type verifyPayload struct {
	Token string `json:"token"`
}

// pageQueryFromCtx reads limit/offset query params with sane defaults.
func pageQueryFromCtx(c *fiber.Ctx) (repository.PageQuery, error) {
	limit, err := strconv.Atoi(c.Query("limit", "10"))
	if err != nil {
		return repository.PageQuery{}, writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
	}
	offset, err := strconv.Atoi(c.Query("offset", "0"))
	if err != nil {
		return repository.PageQuery{}, writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
	}
	return repository.PageQuery{Limit: limit, Offset: offset}, nil
}

func registerImportRequestRoutes(r fiber.Router, manager fiber.Handler, svc service.ImportRequestService) {
	r.Post("/import-requests", func(c *fiber.Ctx) error {
		actor, ok := middleware.ActorFromCtx(c)
		if !ok {
			return fiber.ErrUnauthorized
		}
		var in service.CreateImportInput
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "malformed body")
		}
		req, err := svc.Create(c.UserContext(), actor, in)
		if err != nil {
			return serviceError(c, err)
		}
		return success(c, fiber.StatusCreated, "import request created", req)
	})

	r.Get("/import-requests", func(c *fiber.Ctx) error {
		actor, ok := middleware.ActorFromCtx(c)
		if !ok {
			return fiber.ErrUnauthorized
		}
		pq, err := pageQueryFromCtx(c)
		if err != nil {
			return err
		}
		res, err := svc.List(c.UserContext(), actor, model.RequestStatus(c.Query("status")), pq)
		if err != nil {
			return serviceError(c, err)
		}
		return success(c, fiber.StatusOK, "success", listEnvelope(res.Items, res.Total))
	})

	// Registered before /:id so the literal segment wins.
	r.Post("/import-requests/verify", manager, func(c *fiber.Ctx) error {
		actor, _ := middleware.ActorFromCtx(c)
		var body verifyPayload
		if err := c.BodyParser(&body); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "malformed body")
		}
		if err := svc.Verify(c.UserContext(), actor, body.Token); err != nil {
			return serviceError(c, err)
		}
		return success(c, fiber.StatusOK, "import request verified", nil)
	})

	r.Get("/import-requests/:id", func(c *fiber.Ctx) error {
		actor, ok := middleware.ActorFromCtx(c)
		if !ok {
			return fiber.ErrUnauthorized
		}
		req, err := svc.Get(c.UserContext(), actor, c.Params("id"))
		if err != nil {
			return serviceError(c, err)
		}
		return success(c, fiber.StatusOK, "success", req)
	})

	r.Post("/import-requests/:id/accept", manager, func(c *fiber.Ctx) error {
		actor, _ := middleware.ActorFromCtx(c)
		if err := svc.Accept(c.UserContext(), actor, c.Params("id")); err != nil {
			return serviceError(c, err)
		}
		return success(c, fiber.StatusOK, "import request accepted", nil)
	})

	r.Post("/import-requests/:id/reject", manager, func(c *fiber.Ctx) error {
		actor, _ := middleware.ActorFromCtx(c)
		var body rejectPayload
		if err := c.BodyParser(&body); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "malformed body")
		}
		if err := svc.Reject(c.UserContext(), actor, c.Params("id"), body.Reason); err != nil {
			return serviceError(c, err)
		}
		return success(c, fiber.StatusOK, "import request rejected", nil)
	})

	r.Post("/import-requests/:id/cancel", func(c *fiber.Ctx) error {
		actor, ok := middleware.ActorFromCtx(c)
		if !ok {
			return fiber.ErrUnauthorized
		}
		if err := svc.Cancel(c.UserContext(), actor, c.Params("id")); err != nil {
			return serviceError(c, err)
		}
		return success(c, fiber.StatusOK, "import request canceled", nil)
	})
}

func registerBorrowRequestRoutes(r fiber.Router, manager fiber.Handler, svc service.BorrowRequestService) {
	r.Post("/borrow-requests", func(c *fiber.Ctx) error {
		actor, ok := middleware.ActorFromCtx(c)
		if !ok {
			return fiber.ErrUnauthorized
		}
		var in service.CreateBorrowInput
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "malformed body")
		}
		req, err := svc.Create(c.UserContext(), actor, in)
		if err != nil {
			return serviceError(c, err)
		}
		return success(c, fiber.StatusCreated, "borrow request created", req)
	})

	r.Get("/borrow-requests", func(c *fiber.Ctx) error {
		actor, ok := middleware.ActorFromCtx(c)
		if !ok {
			return fiber.ErrUnauthorized
		}
		pq, err := pageQueryFromCtx(c)
		if err != nil {
			return err
		}
		res, err := svc.List(c.UserContext(), actor, model.RequestStatus(c.Query("status")), pq)
		if err != nil {
			return serviceError(c, err)
		}
		return success(c, fiber.StatusOK, "success", listEnvelope(res.Items, res.Total))
	})

	r.Post("/borrow-requests/verify", manager, func(c *fiber.Ctx) error {
		actor, _ := middleware.ActorFromCtx(c)
		var body verifyPayload
		if err := c.BodyParser(&body); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "malformed body")
		}
		if err := svc.Verify(c.UserContext(), actor, body.Token); err != nil {
			return serviceError(c, err)
		}
		return success(c, fiber.StatusOK, "borrow request verified", nil)
	})

	r.Get("/borrow-requests/:id", func(c *fiber.Ctx) error {
		actor, ok := middleware.ActorFromCtx(c)
		if !ok {
			return fiber.ErrUnauthorized
		}
		req, err := svc.Get(c.UserContext(), actor, c.Params("id"))
		if err != nil {
			return serviceError(c, err)
		}
		return success(c, fiber.StatusOK, "success", req)
	})

	r.Post("/borrow-requests/:id/accept", manager, func(c *fiber.Ctx) error {
		actor, _ := middleware.ActorFromCtx(c)
		if err := svc.Accept(c.UserContext(), actor, c.Params("id")); err != nil {
			return serviceError(c, err)
		}
		return success(c, fiber.StatusOK, "borrow request accepted", nil)
	})

	r.Post("/borrow-requests/:id/reject", manager, func(c *fiber.Ctx) error {
		actor, _ := middleware.ActorFromCtx(c)
		var body rejectPayload
		if err := c.BodyParser(&body); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "malformed body")
		}
		if err := svc.Reject(c.UserContext(), actor, c.Params("id"), body.Reason); err != nil {
			return serviceError(c, err)
		}
		return success(c, fiber.StatusOK, "borrow request rejected", nil)
	})

	r.Post("/borrow-requests/:id/cancel", func(c *fiber.Ctx) error {
		actor, ok := middleware.ActorFromCtx(c)
		if !ok {
			return fiber.ErrUnauthorized
		}
		if err := svc.Cancel(c.UserContext(), actor, c.Params("id")); err != nil {
			return serviceError(c, err)
		}
		return success(c, fiber.StatusOK, "borrow request canceled", nil)
	})
}
