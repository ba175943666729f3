package handler

import (
	"net/http"

	"github.com/KAFKA2306/chat-code-architect-ai2/internal/middleware"
	"github.com/KAFKA2306/chat-code-architect-ai2/internal/service"
)

// GenerateCode invokes the collaborator's code generation and persists the
// returned artifacts when a project id is supplied.
func (h *Handler) GenerateCode(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req service.GenerateInput
	if err := h.DecodeJSON(r, &req); err != nil {
		h.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.generateService.Generate(r.Context(), userID, req)
	if err != nil {
		h.ServiceError(w, err)
		return
	}
	h.JSON(w, http.StatusOK, result)
}

// ListProjectFiles returns a project's generated files
func (h *Handler) ListProjectFiles(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	projectID, ok := parseID(r, "projectId")
	if !ok {
		h.Error(w, http.StatusNotFound, "Project not found")
		return
	}

	files, err := h.fileService.ListProjectFiles(r.Context(), userID, projectID)
	if err != nil {
		h.ServiceError(w, err)
		return
	}
	h.JSON(w, http.StatusOK, files)
}

// GetFile returns a single generated file
func (h *Handler) GetFile(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	fileID, ok := parseID(r, "fileId")
	if !ok {
		h.Error(w, http.StatusNotFound, "File not found")
		return
	}

	file, err := h.fileService.GetFile(r.Context(), userID, fileID)
	if err != nil {
		h.ServiceError(w, err)
		return
	}
	h.JSON(w, http.StatusOK, file)
}

// DownloadProject returns the download manifest for a project's files
func (h *Handler) DownloadProject(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	projectID, ok := parseID(r, "projectId")
	if !ok {
		h.Error(w, http.StatusNotFound, "Project not found")
		return
	}

	manifest, err := h.fileService.Download(r.Context(), userID, projectID)
	if err != nil {
		h.ServiceError(w, err)
		return
	}
	h.JSON(w, http.StatusOK, manifest)
}
