package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"app/internal/api/v1/dto"
	"app/internal/apperr"
	"app/internal/model"
	"app/internal/service"

	"github.com/go-playground/validator/v10"
)

// BatchHandler handles enrollment batch endpoints nested under courses.
type BatchHandler struct {
	courseService service.CourseService
	validate      *validator.Validate
}

func NewBatchHandler(courseService service.CourseService, v *validator.Validate) *BatchHandler {
	return &BatchHandler{courseService: courseService, validate: v}
}

func (h *BatchHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("/batches/course/", authMw(http.HandlerFunc(h.dispatch)))
}

// dispatch resolves /batches/course/{courseId} and
// /batches/course/{courseId}/batch/{batchId}.
func (h *BatchHandler) dispatch(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/batches/course/")
	courseID, tail, _ := strings.Cut(rest, "/")
	if courseID == "" {
		http.NotFound(w, r)
		return
	}

	switch {
	case tail == "" && r.Method == http.MethodGet:
		h.listBatches(w, r, courseID)
	case tail == "" && r.Method == http.MethodPost:
		if !requireAdmin(w, r) {
			return
		}
		h.createBatch(w, r, courseID)
	case strings.HasPrefix(tail, "batch/") && r.Method == http.MethodGet:
		batchID := strings.TrimPrefix(tail, "batch/")
		if batchID == "" || strings.Contains(batchID, "/") {
			http.NotFound(w, r)
			return
		}
		h.getBatch(w, r, courseID, batchID)
	default:
		http.NotFound(w, r)
	}
}

// createBatch godoc
// @Summary Add an enrollment batch to a course
// @Tags batches
// @Accept json
// @Produce json
// @Param courseId path string true "Course ID"
// @Param batch body dto.BatchCreateDTO true "Batch creation request"
// @Success 201 {object} dto.BatchResponseDTO
// @Failure 400 {object} handler.errorBody
// @Failure 404 {object} handler.errorBody
// @Router /batches/course/{courseId} [post]
func (h *BatchHandler) createBatch(w http.ResponseWriter, r *http.Request, courseID string) {
	var req dto.BatchCreateDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperr.New(apperr.Invalid, "Invalid JSON payload"))
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		writeError(w, apperr.Newf(apperr.Invalid, "Validation failed: %v", err))
		return
	}
	batch, err := h.courseService.AddBatch(r.Context(), courseID, req.Name, req.StartDate, req.EndDate)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toBatchDTO(batch))
}

// listBatches godoc
// @Summary List a course's batches
// @Tags batches
// @Produce json
// @Param courseId path string true "Course ID"
// @Success 200 {array} dto.BatchResponseDTO
// @Failure 404 {object} handler.errorBody
// @Router /batches/course/{courseId} [get]
func (h *BatchHandler) listBatches(w http.ResponseWriter, r *http.Request, courseID string) {
	batches, err := h.courseService.ListBatches(r.Context(), courseID)
	if err != nil {
		writeError(w, err)
		return
	}
	resp := make([]dto.BatchResponseDTO, 0, len(batches))
	for i := range batches {
		resp = append(resp, toBatchDTO(&batches[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

// getBatch godoc
// @Summary Get a batch by ID
// @Tags batches
// @Produce json
// @Param courseId path string true "Course ID"
// @Param batchId path string true "Batch ID"
// @Success 200 {object} dto.BatchResponseDTO
// @Failure 404 {object} handler.errorBody
// @Router /batches/course/{courseId}/batch/{batchId} [get]
func (h *BatchHandler) getBatch(w http.ResponseWriter, r *http.Request, courseID, batchID string) {
	batch, err := h.courseService.GetBatch(r.Context(), courseID, batchID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toBatchDTO(batch))
}

func toBatchDTO(b *model.Batch) dto.BatchResponseDTO {
	return dto.BatchResponseDTO{
		ID:        b.ID,
		CourseID:  b.CourseID,
		Name:      b.Name,
		StartDate: b.StartDate,
		EndDate:   b.EndDate,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}
