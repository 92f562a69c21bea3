package controllers

import (
	"net/http"

	"hotel-backoffice/models"
	"hotel-backoffice/services"
	"hotel-backoffice/utils"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	UserSvc *services.UserService
}

func NewUserController(svc *services.UserService) *UserController {
	return &UserController{UserSvc: svc}
}

type createUserRequest struct {
	Name     string      `json:"name"`
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Role     models.Role `json:"role"`
	Phone    string      `json:"phone"`
	Address  string      `json:"address"`
}

func (r createUserRequest) input() services.CreateUserInput {
	return services.CreateUserInput{
		Name: r.Name, Email: r.Email, Password: r.Password, Role: r.Role, Phone: r.Phone, Address: r.Address,
	}
}

type updateUserRequest struct {
	Name     *string      `json:"name"`
	Phone    *string      `json:"phone"`
	Address  *string      `json:"address"`
	IsActive *bool        `json:"isActive"`
	Role     *models.Role `json:"role"`
}

// GET /api/users?role=
func (ctrl *UserController) ListUsers(c *gin.Context) {
	users, err := ctrl.UserSvc.List(c.Request.Context(), models.Role(c.Query("role")))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, users)
}

// GET /api/users/:id
func (ctrl *UserController) GetUser(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	user, ok := currentUser(c)
	if !ok {
		return
	}
	if user.ID != id && !user.isStaff() {
		respondError(c, services.Forbiddenf("not authorized to view this user"))
		return
	}
	found, err := ctrl.UserSvc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, found)
}

// POST /api/users
func (ctrl *UserController) CreateUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}
	created, err := ctrl.UserSvc.Create(c.Request.Context(), req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, created)
}

// PUT /api/users/:id
func (ctrl *UserController) UpdateUser(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	user, ok := currentUser(c)
	if !ok {
		return
	}
	isAdmin := user.Role == models.RoleAdmin
	if user.ID != id && !isAdmin {
		respondError(c, services.Forbiddenf("not authorized to update this user"))
		return
	}

	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}
	if !isAdmin && (req.Role != nil || req.IsActive != nil) {
		respondError(c, services.Forbiddenf("only an admin can change role or account status"))
		return
	}

	updated, err := ctrl.UserSvc.Update(c.Request.Context(), id, services.UpdateUserInput{
		Name:     req.Name,
		Phone:    req.Phone,
		Address:  req.Address,
		IsActive: req.IsActive,
		Role:     req.Role,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, updated)
}

// DELETE /api/users/:id
func (ctrl *UserController) DeleteUser(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := ctrl.UserSvc.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"message": "user deleted"})
}
