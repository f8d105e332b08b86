package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"docstore/internal/http/middleware"
	"docstore/internal/service"
)

type createRoomPayload struct {
	DepartmentID string `json:"department_id"`
	Name         string `json:"name"`
	Capacity     int    `json:"capacity"`
}

type createLockerPayload struct {
	RoomID   string `json:"room_id"`
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
}

type createFolderPayload struct {
	LockerID string `json:"locker_id"`
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
}

type capacityPayload struct {
	Capacity int `json:"capacity"`
}

func registerHierarchyRoutes(r fiber.Router, manager fiber.Handler, svc service.HierarchyService, docs service.DocumentService) {
	r.Post("/departments", manager, func(c *fiber.Ctx) error {
		var body struct {
			Name string `json:"name"`
		}
		if err := c.BodyParser(&body); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "malformed body")
		}
		dept, err := svc.CreateDepartment(c.UserContext(), body.Name)
		if err != nil {
			return serviceError(c, err)
		}
		return success(c, fiber.StatusCreated, "department created", dept)
	})

	r.Get("/departments", func(c *fiber.Ctx) error {
		depts, err := svc.ListDepartments(c.UserContext())
		if err != nil {
			return serviceError(c, err)
		}
		return success(c, fiber.StatusOK, "success", depts)
	})

	r.Post("/rooms", manager, func(c *fiber.Ctx) error {
		var body createRoomPayload
		if err := c.BodyParser(&body); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "malformed body")
		}
		if body.DepartmentID == "" {
			if actor, ok := middleware.ActorFromCtx(c); ok {
				body.DepartmentID = actor.DepartmentID
			}
		}
		room, err := svc.CreateRoom(c.UserContext(), body.DepartmentID, body.Name, body.Capacity)
		if err != nil {
			return serviceError(c, err)
		}
		return success(c, fiber.StatusCreated, "room created", room)
	})

	r.Get("/rooms", func(c *fiber.Ctx) error {
		deptID := c.Query("department_id")
		if deptID == "" {
			if actor, ok := middleware.ActorFromCtx(c); ok {
				deptID = actor.DepartmentID
			}
		}
		rooms, err := svc.ListRooms(c.UserContext(), deptID)
		if err != nil {
			return serviceError(c, err)
		}
		return success(c, fiber.StatusOK, "success", rooms)
	})

	r.Patch("/rooms/:id/capacity", manager, func(c *fiber.Ctx) error {
		var body capacityPayload
		if err := c.BodyParser(&body); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "malformed body")
		}
		if err := svc.UpdateRoomCapacity(c.UserContext(), c.Params("id"), body.Capacity); err != nil {
			return serviceError(c, err)
		}
		return success(c, fiber.StatusOK, "room capacity updated", nil)
	})

	r.Post("/lockers", manager, func(c *fiber.Ctx) error {
		var body createLockerPayload
		if err := c.BodyParser(&body); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "malformed body")
		}
		locker, err := svc.CreateLocker(c.UserContext(), body.RoomID, body.Name, body.Capacity)
		if err != nil {
			return serviceError(c, err)
		}
		return success(c, fiber.StatusCreated, "locker created", locker)
	})

	r.Get("/lockers", func(c *fiber.Ctx) error {
		lockers, err := svc.ListLockers(c.UserContext(), c.Query("room_id"))
		if err != nil {
			return serviceError(c, err)
		}
		return success(c, fiber.StatusOK, "success", lockers)
	})

	r.Patch("/lockers/:id/capacity", manager, func(c *fiber.Ctx) error {
		var body capacityPayload
		if err := c.BodyParser(&body); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "malformed body")
		}
		if err := svc.UpdateLockerCapacity(c.UserContext(), c.Params("id"), body.Capacity); err != nil {
			return serviceError(c, err)
		}
		return success(c, fiber.StatusOK, "locker capacity updated", nil)
	})

	r.Post("/folders", manager, func(c *fiber.Ctx) error {
		var body createFolderPayload
		if err := c.BodyParser(&body); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "malformed body")
		}
		folder, err := svc.CreateFolder(c.UserContext(), body.LockerID, body.Name, body.Capacity)
		if err != nil {
			return serviceError(c, err)
		}
		return success(c, fiber.StatusCreated, "folder created", folder)
	})

	r.Get("/folders", func(c *fiber.Ctx) error {
		folders, err := svc.ListFolders(c.UserContext(), c.Query("locker_id"))
		if err != nil {
			return serviceError(c, err)
		}
		return success(c, fiber.StatusOK, "success", folders)
	})

	// Folders in the actor's department that still fit a document of the
	// given page count, widest remaining space first.
	r.Get("/folders/possible", func(c *fiber.Ctx) error {
		actor, ok := middleware.ActorFromCtx(c)
		if !ok {
			return fiber.ErrUnauthorized
		}
		pages, err := strconv.Atoi(c.Query("pages", "0"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "VALIDATION", "invalid pages")
		}
		spaces, err := docs.PossibleLocations(c.UserContext(), actor, pages)
		if err != nil {
			return serviceError(c, err)
		}
		return success(c, fiber.StatusOK, "success", spaces)
	})

	r.Patch("/folders/:id/capacity", manager, func(c *fiber.Ctx) error {
		var body capacityPayload
		if err := c.BodyParser(&body); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "malformed body")
		}
		if err := svc.UpdateFolderCapacity(c.UserContext(), c.Params("id"), body.Capacity); err != nil {
			return serviceError(c, err)
		}
		return success(c, fiber.StatusOK, "folder capacity updated", nil)
	})

	r.Post("/categories", manager, func(c *fiber.Ctx) error {
		var body struct {
			DepartmentID string `json:"department_id"`
			Name         string `json:"name"`
		}
		if err := c.BodyParser(&body); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "malformed body")
		}
		if body.DepartmentID == "" {
			if actor, ok := middleware.ActorFromCtx(c); ok {
				body.DepartmentID = actor.DepartmentID
			}
		}
		cat, err := svc.CreateCategory(c.UserContext(), body.DepartmentID, body.Name)
		if err != nil {
			return serviceError(c, err)
		}
		return success(c, fiber.StatusCreated, "category created", cat)
	})

	r.Get("/categories", func(c *fiber.Ctx) error {
		deptID := c.Query("department_id")
		if deptID == "" {
			if actor, ok := middleware.ActorFromCtx(c); ok {
				deptID = actor.DepartmentID
			}
		}
		cats, err := svc.ListCategories(c.UserContext(), deptID)
		if err != nil {
			return serviceError(c, err)
		}
		return success(c, fiber.StatusOK, "success", cats)
	})
}
