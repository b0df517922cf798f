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

// LectureHandler handles lecture scheduling and listing endpoints.
type LectureHandler struct {
	lectureService service.LectureService
	validate       *validator.Validate
}

func NewLectureHandler(lectureService service.LectureService, v *validator.Validate) *LectureHandler {
	return &LectureHandler{lectureService: lectureService, validate: v}
}

func (h *LectureHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("/lectures", authMw(http.HandlerFunc(h.handleLectures)))
	mux.Handle("/lectures/", authMw(http.HandlerFunc(h.handleLectureSubpaths)))
}

func (h *LectureHandler) handleLectures(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listAllLectures(w, r)
	case http.MethodPost:
		if !requireAdmin(w, r) {
			return
		}
		h.createLecture(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *LectureHandler) handleLectureSubpaths(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	rest := strings.TrimPrefix(r.URL.Path, "/lectures/")
	head, id, _ := strings.Cut(rest, "/")
	switch {
	case head == "my-lectures" && id == "":
		h.listMyLectures(w, r)
	case head == "instructor" && id != "" && !strings.Contains(id, "/"):
		h.listByInstructor(w, r, id)
	case head == "course" && id != "" && !strings.Contains(id, "/"):
		h.listByCourse(w, r, id)
	default:
		http.NotFound(w, r)
	}
}

// createLecture godoc
// @Summary Schedule a lecture
// @Description Schedules a lecture for an instructor. An instructor can hold
// @Description at most one lecture per calendar day.
// @Tags lectures
// @Accept json
// @Produce json
// @Param lecture body dto.LectureCreateDTO true "Lecture creation request"
// @Success 201 {object} dto.LectureResponseDTO
// @Failure 400 {object} handler.errorBody
// @Failure 404 {object} handler.errorBody
// @Failure 409 {object} handler.errorBody
// @Router /lectures [post]
func (h *LectureHandler) createLecture(w http.ResponseWriter, r *http.Request) {
	var req dto.LectureCreateDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperr.New(apperr.Invalid, "Invalid JSON payload"))
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		writeError(w, apperr.New(apperr.Invalid, "Required fields missing"))
		return
	}
	userID, _ := middleware.UserID(r.Context())
	detail, err := h.lectureService.CreateLecture(r.Context(), service.CreateLectureInput{
		CourseID:     req.CourseID,
		InstructorID: req.InstructorID,
		Title:        req.Title,
		Description:  req.Description,
		StartTime:    req.StartTime,
		CreatedBy:    userID,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toLectureDTO(detail))
}

// listAllLectures godoc
// @Summary List all lectures
// @Tags lectures
// @Produce json
// @Success 200 {array} dto.LectureResponseDTO
// @Router /lectures [get]
func (h *LectureHandler) listAllLectures(w http.ResponseWriter, r *http.Request) {
	lectures, err := h.lectureService.ListAllLectures(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toLectureDTOs(lectures))
}

// listMyLectures godoc
// @Summary List the authenticated instructor's lectures
// @Tags lectures
// @Produce json
// @Success 200 {array} dto.LectureResponseDTO
// @Router /lectures/my-lectures [get]
func (h *LectureHandler) listMyLectures(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		writeError(w, apperr.New(apperr.Unauthorized, "User ID not found in context"))
		return
	}
	lectures, err := h.lectureService.ListMyLectures(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toLectureDTOs(lectures))
}

// listByInstructor godoc
// @Summary List lectures assigned to an instructor
// @Tags lectures
// @Produce json
// @Param instructorId path string true "Instructor ID"
// @Success 200 {array} dto.LectureResponseDTO
// @Router /lectures/instructor/{instructorId} [get]
func (h *LectureHandler) listByInstructor(w http.ResponseWriter, r *http.Request, instructorID string) {
	lectures, err := h.lectureService.ListLecturesByInstructor(r.Context(), instructorID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toLectureDTOs(lectures))
}

// listByCourse godoc
// @Summary List lectures belonging to a course
// @Description Responds 404 when the course has no lectures.
// @Tags lectures
// @Produce json
// @Param courseId path string true "Course ID"
// @Success 200 {array} dto.LectureResponseDTO
// @Failure 404 {object} handler.errorBody
// @Router /lectures/course/{courseId} [get]
func (h *LectureHandler) listByCourse(w http.ResponseWriter, r *http.Request, courseID string) {
	lectures, err := h.lectureService.ListLecturesByCourse(r.Context(), courseID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toLectureDTOs(lectures))
}

func toLectureDTO(d *model.LectureDetail) dto.LectureResponseDTO {
	return dto.LectureResponseDTO{
		ID:          d.ID,
		Title:       d.Title,
		Description: d.Description,
		StartTime:   d.StartTime,
		Course: dto.CourseSummaryDTO{
			ID:   d.Course.ID,
			Name: d.Course.Name,
			Code: d.Course.Code,
		},
		Instructor: dto.InstructorSummaryDTO{
			ID:    d.Instructor.ID,
			Name:  d.Instructor.Name,
			Email: d.Instructor.Email,
		},
		CreatedBy: d.CreatedBy,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func toLectureDTOs(details []model.LectureDetail) []dto.LectureResponseDTO {
	resp := make([]dto.LectureResponseDTO, 0, len(details))
	for i := range details {
		resp = append(resp, toLectureDTO(&details[i]))
	}
	return resp
}
