package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"app/internal/api/v1/dto"
	"app/internal/apperr"
	"app/internal/middleware"
	"app/internal/model"
	"app/internal/service"

	"github.com/go-playground/validator/v10"
)

// CourseHandler handles course CRUD and thumbnail upload endpoints.
type CourseHandler struct {
	courseService service.CourseService
	validate      *validator.Validate
}

func NewCourseHandler(courseService service.CourseService, v *validator.Validate) *CourseHandler {
	return &CourseHandler{courseService: courseService, validate: v}
}

// RegisterRoutes mounts course routes. All of them require authentication;
// mutations additionally require the admin role, enforced per method.
func (h *CourseHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("/courses", authMw(http.HandlerFunc(h.handleCourses)))
	mux.Handle("/courses/", authMw(http.HandlerFunc(h.handleCourseByID)))
}

func (h *CourseHandler) handleCourses(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listCourses(w, r)
	case http.MethodPost:
		if !requireAdmin(w, r) {
			return
		}
		h.createCourse(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *CourseHandler) handleCourseByID(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/courses/")
	courseID, action, _ := strings.Cut(rest, "/")
	if courseID == "" {
		http.NotFound(w, r)
		return
	}

	switch {
	case action == "" && r.Method == http.MethodGet:
		h.getCourse(w, r, courseID)
	case action == "" && r.Method == http.MethodDelete:
		if !requireAdmin(w, r) {
			return
		}
		h.deleteCourse(w, r, courseID)
	case action == "thumbnail-upload-url" && r.Method == http.MethodPost:
		if !requireAdmin(w, r) {
			return
		}
		h.thumbnailUploadURL(w, r, courseID)
	default:
		http.NotFound(w, r)
	}
}

// createCourse godoc
// @Summary Create a course
// @Tags courses
// @Accept json
// @Produce json
// @Param course body dto.CourseCreateDTO true "Course creation request"
// @Success 201 {object} dto.CourseResponseDTO
// @Failure 400 {object} handler.errorBody
// @Failure 409 {object} handler.errorBody
// @Router /courses [post]
func (h *CourseHandler) createCourse(w http.ResponseWriter, r *http.Request) {
	var req dto.CourseCreateDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperr.New(apperr.Invalid, "Invalid JSON payload"))
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		writeError(w, apperr.Newf(apperr.Invalid, "Validation failed: %v", err))
		return
	}
	userID, _ := middleware.UserID(r.Context())
	course, err := h.courseService.CreateCourse(r.Context(), &model.Course{
		Name:        req.Name,
		Code:        req.Code,
		Description: req.Description,
		Level:       req.Level,
		CreatedBy:   userID,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCourseDTO(course))
}

// listCourses godoc
// @Summary List all courses
// @Tags courses
// @Produce json
// @Success 200 {array} dto.CourseResponseDTO
// @Router /courses [get]
func (h *CourseHandler) listCourses(w http.ResponseWriter, r *http.Request) {
	courses, err := h.courseService.ListCourses(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	resp := make([]dto.CourseResponseDTO, 0, len(courses))
	for i := range courses {
		resp = append(resp, toCourseDTO(&courses[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

// getCourse godoc
// @Summary Get a course by ID
// @Tags courses
// @Produce json
// @Param courseId path string true "Course ID"
// @Success 200 {object} dto.CourseResponseDTO
// @Failure 404 {object} handler.errorBody
// @Router /courses/{courseId} [get]
func (h *CourseHandler) getCourse(w http.ResponseWriter, r *http.Request, courseID string) {
	course, err := h.courseService.GetCourseByID(r.Context(), courseID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCourseDTO(course))
}

// deleteCourse godoc
// @Summary Delete a course and its lectures
// @Tags courses
// @Produce json
// @Param courseId path string true "Course ID"
// @Success 200 {object} map[string]any
// @Failure 404 {object} handler.errorBody
// @Router /courses/{courseId} [delete]
func (h *CourseHandler) deleteCourse(w http.ResponseWriter, r *http.Request, courseID string) {
	if err := h.courseService.DeleteCourse(r.Context(), courseID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Course deleted"})
}

// thumbnailUploadURL godoc
// @Summary Get a presigned thumbnail upload URL
// @Tags courses
// @Produce json
// @Param courseId path string true "Course ID"
// @Success 200 {object} dto.ThumbnailUploadResponseDTO
// @Failure 404 {object} handler.errorBody
// @Router /courses/{courseId}/thumbnail-upload-url [post]
func (h *CourseHandler) thumbnailUploadURL(w http.ResponseWriter, r *http.Request, courseID string) {
	url, err := h.courseService.ThumbnailUploadURL(r.Context(), courseID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.ThumbnailUploadResponseDTO{UploadURL: url})
}

// requireAdmin writes a 403 and returns false when the caller does not hold
// the admin role.
func requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	role, ok := middleware.Role(r.Context())
	if !ok {
		writeError(w, apperr.New(apperr.Unauthorized, "Role not found in context"))
		return false
	}
	if role != model.RoleAdmin {
		writeJSON(w, http.StatusForbidden, errorBody{Success: false, Message: "Forbidden: insufficient role"})
		return false
	}
	return true
}

func toCourseDTO(c *model.Course) dto.CourseResponseDTO {
	return dto.CourseResponseDTO{
		ID:            c.ID,
		Name:          c.Name,
		Code:          c.Code,
		Description:   c.Description,
		Level:         c.Level,
		ThumbnailPath: c.ThumbnailPath,
		CreatedBy:     c.CreatedBy,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}
