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

// AuthHandler handles registration, login and instructor management
// endpoints.
type AuthHandler struct {
	authService service.AuthService
	validate    *validator.Validate
}

func NewAuthHandler(authService service.AuthService, v *validator.Validate) *AuthHandler {
	return &AuthHandler{authService: authService, validate: v}
}

// RegisterRoutes mounts auth routes. Register and login are public; the
// instructor management routes are admin-only.
func (h *AuthHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	adminMw := middleware.RequireRoles(model.RoleAdmin)
	mux.Handle("/auth/register", http.HandlerFunc(h.register))
	mux.Handle("/auth/login", http.HandlerFunc(h.login))
	mux.Handle("/auth/logout", authMw(http.HandlerFunc(h.logout)))
	mux.Handle("/auth/me", authMw(http.HandlerFunc(h.getCurrentUser)))
	mux.Handle("/auth/instructors", authMw(adminMw(http.HandlerFunc(h.handleInstructors))))
	mux.Handle("/auth/instructors/", authMw(adminMw(http.HandlerFunc(h.updateInstructor))))
}

// register godoc
// @Summary Register an account
// @Description Creates a new account. An empty role defaults to instructor.
// @Tags auth
// @Accept json
// @Produce json
// @Param user body dto.RegisterDTO true "Registration request"
// @Success 201 {object} dto.UserResponseDTO
// @Failure 400 {object} handler.errorBody
// @Failure 409 {object} handler.errorBody
// @Router /auth/register [post]
func (h *AuthHandler) register(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req dto.RegisterDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperr.New(apperr.Invalid, "Invalid JSON payload"))
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		writeError(w, apperr.Newf(apperr.Invalid, "Validation failed: %v", err))
		return
	}
	user, err := h.authService.Register(r.Context(), req.Name, req.Email, req.Password, req.Role)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toUserDTO(user))
}

// login godoc
// @Summary Log in
// @Description Verifies credentials and returns an access token.
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body dto.LoginDTO true "Login request"
// @Success 200 {object} dto.LoginResponseDTO
// @Failure 401 {object} handler.errorBody
// @Failure 404 {object} handler.errorBody
// @Router /auth/login [post]
func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req dto.LoginDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperr.New(apperr.Invalid, "Invalid JSON payload"))
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		writeError(w, apperr.Newf(apperr.Invalid, "Validation failed: %v", err))
		return
	}
	token, user, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.LoginResponseDTO{User: toUserDTO(user), AccessToken: token})
}

// logout exists for wire compatibility; tokens are discarded client-side.
func (h *AuthHandler) logout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "User logged out"})
}

// getCurrentUser godoc
// @Summary Get the authenticated user
// @Tags auth
// @Produce json
// @Success 200 {object} dto.UserResponseDTO
// @Failure 404 {object} handler.errorBody
// @Router /auth/me [get]
func (h *AuthHandler) getCurrentUser(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		writeError(w, apperr.New(apperr.Unauthorized, "User ID not found in context"))
		return
	}
	user, err := h.authService.GetCurrentUser(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserDTO(user))
}

func (h *AuthHandler) handleInstructors(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listInstructors(w, r)
	case http.MethodPost:
		h.createInstructor(w, r)
	default:
		http.NotFound(w, r)
	}
}

// listInstructors godoc
// @Summary List instructors
// @Tags auth
// @Produce json
// @Success 200 {array} dto.UserResponseDTO
// @Router /auth/instructors [get]
func (h *AuthHandler) listInstructors(w http.ResponseWriter, r *http.Request) {
	instructors, err := h.authService.ListInstructors(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	resp := make([]dto.UserResponseDTO, 0, len(instructors))
	for i := range instructors {
		resp = append(resp, toUserDTO(&instructors[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

// createInstructor godoc
// @Summary Create an instructor account
// @Tags auth
// @Accept json
// @Produce json
// @Param instructor body dto.InstructorCreateDTO true "Instructor creation request"
// @Success 201 {object} dto.UserResponseDTO
// @Failure 409 {object} handler.errorBody
// @Router /auth/instructors [post]
func (h *AuthHandler) createInstructor(w http.ResponseWriter, r *http.Request) {
	var req dto.InstructorCreateDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperr.New(apperr.Invalid, "Invalid JSON payload"))
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		writeError(w, apperr.Newf(apperr.Invalid, "Validation failed: %v", err))
		return
	}
	instructor, err := h.authService.CreateInstructor(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toUserDTO(instructor))
}

// updateInstructor godoc
// @Summary Update an instructor
// @Tags auth
// @Accept json
// @Produce json
// @Param instructorId path string true "Instructor ID"
// @Param instructor body dto.InstructorUpdateDTO true "Instructor update request"
// @Success 200 {object} dto.UserResponseDTO
// @Failure 404 {object} handler.errorBody
// @Failure 409 {object} handler.errorBody
// @Router /auth/instructors/{instructorId} [put]
func (h *AuthHandler) updateInstructor(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		http.NotFound(w, r)
		return
	}
	instructorID := strings.TrimPrefix(r.URL.Path, "/auth/instructors/")
	if instructorID == "" || strings.Contains(instructorID, "/") {
		http.NotFound(w, r)
		return
	}
	var req dto.InstructorUpdateDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperr.New(apperr.Invalid, "Invalid JSON payload"))
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		writeError(w, apperr.Newf(apperr.Invalid, "Validation failed: %v", err))
		return
	}
	name, email := "", ""
	if req.Name != nil {
		name = *req.Name
	}
	if req.Email != nil {
		email = *req.Email
	}
	instructor, err := h.authService.UpdateInstructor(r.Context(), instructorID, name, email)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserDTO(instructor))
}

func toUserDTO(u *model.User) dto.UserResponseDTO {
	return dto.UserResponseDTO{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
