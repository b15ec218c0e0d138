package api

import (
	"mime"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/DusanM998/ToDoApplication/internal/api/shared"
	"github.com/DusanM998/ToDoApplication/internal/service"
)

// maxRegisterBodyBytes bounds multipart registration bodies, avatar
// included.
const maxRegisterBodyBytes = 10 << 20 // 10 MiB

// AuthHandler handles authentication-related API requests.
type AuthHandler struct {
	authService service.AuthService
	validator   *validator.Validate
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validator:   validator.New(),
	}
}

// registerForm mirrors the multipart registration form fields.
type registerForm struct {
	Username    string `validate:"required,email"`
	Name        string `validate:"required,max=100"`
	Password    string `validate:"required,min=8,max=72"`
	PhoneNumber string `validate:"max=30"`
	Role        string
}

// updateDetailsForm mirrors the multipart profile update form fields.
// An empty password means the stored credential stays as it is.
type updateDetailsForm struct {
	Username    string `validate:"required,email"`
	Name        string `validate:"required,max=100"`
	Password    string `validate:"omitempty,min=8,max=72"`
	PhoneNumber string `validate:"max=30"`
}

// Register handles POST /api/auth/register. The request is
// multipart/form-data so an avatar image can ride along with the account
// fields.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mediaType != "multipart/form-data" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Expected multipart/form-data")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxRegisterBodyBytes)
	if err := r.ParseMultipartForm(maxRegisterBodyBytes); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	form := registerForm{
		Username:    r.FormValue("username"),
		Name:        r.FormValue("name"),
		Password:    r.FormValue("password"),
		PhoneNumber: r.FormValue("phone_number"),
		Role:        r.FormValue("role"),
	}
	if err := h.validator.Struct(form); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	input := service.RegisterInput{
		Username:    form.Username,
		Name:        form.Name,
		Password:    form.Password,
		PhoneNumber: form.PhoneNumber,
		Role:        form.Role,
	}

	file, header, err := r.FormFile("avatar")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: avatar is required")
		return
	}
	defer func() { _ = file.Close() }()
	input.Avatar = &service.AvatarUpload{
		Filename: header.Filename,
		Content:  file,
	}

	user, err := h.authService.Register(r.Context(), input)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, NewUserResponse(user))
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest

	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		// Malformed usernames get the credentials error, not a validation
		// error, so the response shape cannot reveal which field failed.
		HandleAPIError(w, r, service.ErrInvalidCredentials, "")
		return
	}

	result, err := h.authService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, AuthResponse{
		User:         NewUserResponse(result.User),
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
	})
}

// Refresh handles POST /api/auth/refresh.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshTokenRequest

	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		HandleAPIError(w, r, service.ErrInvalidRefreshToken, "")
		return
	}

	result, err := h.authService.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, AuthResponse{
		User:         NewUserResponse(result.User),
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
	})
}

// Logout handles POST /api/auth/logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	if err := h.authService.Logout(r.Context(), userID); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Me handles GET /api/auth/me.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	user, err := h.authService.GetUser(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewUserResponse(user))
}

// ListUsers handles GET /api/auth/users. Admin only.
func (h *AuthHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.authService.GetAllUsers(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewUserWithTasksResponse(users))
}

// VerifyPassword handles POST /api/auth/verify-password.
func (h *AuthHandler) VerifyPassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req VerifyPasswordRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	if err := h.authService.VerifyPassword(r.Context(), userID, req.Password); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// UpdateDetails handles PUT /api/auth/details. Like registration the
// request is multipart/form-data so the avatar can be replaced.
func (h *AuthHandler) UpdateDetails(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mediaType != "multipart/form-data" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Expected multipart/form-data")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxRegisterBodyBytes)
	if err := r.ParseMultipartForm(maxRegisterBodyBytes); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	form := updateDetailsForm{
		Username:    r.FormValue("username"),
		Name:        r.FormValue("name"),
		Password:    r.FormValue("password"),
		PhoneNumber: r.FormValue("phone_number"),
	}
	if err := h.validator.Struct(form); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	input := service.UpdateUserInput{
		Username:    form.Username,
		Name:        form.Name,
		PhoneNumber: form.PhoneNumber,
	}
	if form.Password != "" {
		input.Password = &form.Password
	}
	if file, header, err := r.FormFile("avatar"); err == nil {
		defer func() { _ = file.Close() }()
		input.Avatar = &service.AvatarUpload{
			Filename: header.Filename,
			Content:  file,
		}
	}

	user, err := h.authService.UpdateUserDetails(r.Context(), userID, input)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewUserResponse(user))
}

// ForgotPassword handles POST /api/auth/forgot-password. The response is
// 202 regardless of whether the username exists.
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req ForgotPasswordRequest

	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	if err := h.authService.ForgotPassword(r.Context(), req.Username); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	w.WriteHeader(http.StatusAccepted)
}

// ResetPassword handles POST /api/auth/reset-password.
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequest

	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	if err := h.authService.ResetPassword(r.Context(), req.Username, req.Token, req.NewPassword); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
