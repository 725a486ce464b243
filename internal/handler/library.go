package handler

import (
    "net/http"
    "strconv"
    "strings"

    "github.com/labstack/echo/v4"
    "github.com/pkg/errors"

    "github.com/iliyamo/quic/internal/middleware"
    "github.com/iliyamo/quic/internal/model"
    "github.com/iliyamo/quic/internal/queue"
    "github.com/iliyamo/quic/internal/repository"
    "github.com/iliyamo/quic/internal/service"
)

// Messages carried in the JSON envelope of the library endpoints.
const (
    MsgFolderNameRequired = "Folder name is required"
    MsgFolderExists       = "Folder already exists for this user"
    MsgSetFieldsRequired  = "Set name and folder are required"
    MsgFolderNotFound     = "Folder not found"
    MsgSetExists          = "Set already exists in this folder"
    msgServerError        = "Something went wrong, please try again later."
)

// LibraryHandler serves the folder and set endpoints.  Every response is
// a {success, ...} JSON envelope whose status comes from StatusFor.
type LibraryHandler struct {
    Folders *repository.FolderRepo
    Sets    *repository.SetRepo
    Events  service.Publisher
}

func NewLibraryHandler(f *repository.FolderRepo, s *repository.SetRepo, ev service.Publisher) *LibraryHandler {
    if f == nil || s == nil {
        panic("nil repository passed to NewLibraryHandler")
    }
    return &LibraryHandler{Folders: f, Sets: s, Events: ev}
}

type createFolderReq struct {
    FolderName string `json:"folder_name" form:"folder_name"`
}

type createSetReq struct {
    SetName        string `json:"set_name" form:"set_name"`
    SetDescription string `json:"set_description" form:"set_description"`
    FolderID       uint64 `json:"folder_id" form:"folder_id"`
}

// fail writes the failure envelope.  Server errors are logged and get a
// generic message.
func fail(c echo.Context, err error, msg string) error {
    code := StatusFor(err)
    if code >= http.StatusInternalServerError {
        middleware.Logger(c).WithError(err).Error("library request failed")
        msg = msgServerError
    }
    return c.JSON(code, echo.Map{"success": false, "message": msg})
}

// ListFolders returns the current user's folders ordered by name.
func (h *LibraryHandler) ListFolders(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return err
    }
    ctx, cancel := dbContext(c)
    defer cancel()

    folders, err := h.Folders.ListByUser(ctx, uid)
    if err != nil {
        middleware.Logger(c).WithError(err).Error("list folders")
        return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "folders": []model.Folder{}})
    }
    return c.JSON(http.StatusOK, echo.Map{"success": true, "folders": folders})
}

// CreateFolder creates a folder owned by the current user.
func (h *LibraryHandler) CreateFolder(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return err
    }
    var req createFolderReq
    if err := c.Bind(&req); err != nil || strings.TrimSpace(req.FolderName) == "" {
        return fail(c, repository.ErrInvalidInput, MsgFolderNameRequired)
    }

    ctx, cancel := dbContext(c)
    defer cancel()

    f, err := h.Folders.Create(ctx, uid, req.FolderName)
    switch {
    case errors.Is(err, repository.ErrConflict):
        return fail(c, err, MsgFolderExists)
    case errors.Is(err, repository.ErrInvalidInput):
        return fail(c, err, MsgFolderNameRequired)
    case err != nil:
        return fail(c, errors.Wrap(err, "create folder"), "")
    }

    ev := queue.NewActivityEvent(queue.EventFolderCreated, uid)
    ev.Username = username(c)
    ev.FolderID = f.ID
    ev.Name = f.Name
    publish(c, h.Events, ev)
    return c.JSON(http.StatusCreated, echo.Map{"success": true, "folder": f})
}

// ListSets returns the sets in a folder owned by the current user.  A
// folder owned by someone else yields an empty list.
func (h *LibraryHandler) ListSets(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return err
    }
    folderID, err := strconv.ParseUint(c.Param("folder_id"), 10, 64)
    if err != nil || folderID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "sets": []model.Set{}})
    }

    ctx, cancel := dbContext(c)
    defer cancel()

    sets, err := h.Sets.ListByFolder(ctx, uid, folderID)
    if err != nil {
        middleware.Logger(c).WithError(err).Error("list sets")
        return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "sets": []model.Set{}})
    }
    return c.JSON(http.StatusOK, echo.Map{"success": true, "sets": sets})
}

// CreateSet creates a set inside one of the current user's folders.
func (h *LibraryHandler) CreateSet(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return err
    }
    var req createSetReq
    if err := c.Bind(&req); err != nil || strings.TrimSpace(req.SetName) == "" || req.FolderID == 0 {
        return fail(c, repository.ErrInvalidInput, MsgSetFieldsRequired)
    }

    ctx, cancel := dbContext(c)
    defer cancel()

    s, err := h.Sets.Create(ctx, uid, repository.NewSet{
        FolderID:    req.FolderID,
        Name:        req.SetName,
        Description: req.SetDescription,
    })
    switch {
    case errors.Is(err, repository.ErrNotFound):
        return fail(c, err, MsgFolderNotFound)
    case errors.Is(err, repository.ErrConflict):
        return fail(c, err, MsgSetExists)
    case errors.Is(err, repository.ErrInvalidInput):
        return fail(c, err, MsgSetFieldsRequired)
    case err != nil:
        return fail(c, errors.Wrap(err, "create set"), "")
    }

    ev := queue.NewActivityEvent(queue.EventSetCreated, uid)
    ev.Username = username(c)
    ev.FolderID = req.FolderID
    ev.SetID = s.ID
    ev.Name = s.Name
    publish(c, h.Events, ev)
    return c.JSON(http.StatusCreated, echo.Map{"success": true, "set": s})
}
