package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tracklite-dev/tracklite/db"
	"github.com/tracklite-dev/tracklite/internal/models"
	"github.com/tracklite-dev/tracklite/internal/types"
	"github.com/tracklite-dev/tracklite/internal/utils"
	"gorm.io/gorm"
)

type CreateProjectRequest struct {
	Title       string     `json:"title" binding:"required,max=100"`
	Description string     `json:"description" binding:"required,max=500"`
	Status      string     `json:"status" binding:"omitempty,oneof='Not Started' 'In Progress' 'Completed' 'On Hold'"`
	DueDate     *time.Time `json:"dueDate"`
}

// UpdateProjectRequest carries a partial merge. Absent fields keep their
// prior value. DueDate is raw so an explicit null (clear the date) stays
// distinguishable from omission.
type UpdateProjectRequest struct {
	Title       *string         `json:"title" binding:"omitempty,max=100"`
	Description *string         `json:"description" binding:"omitempty,max=500"`
	Status      *string         `json:"status" binding:"omitempty,oneof='Not Started' 'In Progress' 'Completed' 'On Hold'"`
	DueDate     json.RawMessage `json:"dueDate"`
}

func projectResponse(project models.Project) types.ProjectResponse {
	return types.ProjectResponse{
		ID:          project.ID,
		Title:       project.Title,
		Description: project.Description,
		Status:      project.Status,
		DueDate:     project.DueDate,
		CreatedBy:   project.OwnerID,
		CreatedAt:   project.CreatedAt,
	}
}

// findOwnedProject fetches the project and enforces the ownership-equality
// check, writing the failure response itself. A missing record is reported
// before ownership is ever considered.
func findOwnedProject(ctx *gin.Context, callerID string) (models.Project, bool) {
	var project models.Project

	if err := db.DB.First(&project, "id = ?", ctx.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"msg": "Project not found"})
		} else {
			log.Printf("Failed to fetch project: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"msg": "Server error"})
		}
		return models.Project{}, false
	}

	if project.OwnerID != callerID {
		ctx.JSON(http.StatusUnauthorized, gin.H{"msg": "Not authorized"})
		return models.Project{}, false
	}

	return project, true
}

func ListProjects(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"msg": "User not authenticated"})
		return
	}

	var projects []models.Project

	if err := db.DB.Where("owner_id = ?", userID).Order("created_at DESC").Find(&projects).Error; err != nil {
		log.Printf("Failed to list projects: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"msg": "Server error"})
		return
	}

	response := make([]types.ProjectResponse, 0, len(projects))

	for _, project := range projects {
		response = append(response, projectResponse(project))
	}

	ctx.JSON(http.StatusOK, response)
}

func GetProject(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"msg": "User not authenticated"})
		return
	}

	project, ok := findOwnedProject(ctx, userID)

	if !ok {
		return
	}

	ctx.JSON(http.StatusOK, projectResponse(project))
}

func CreateProject(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"msg": "User not authenticated"})
		return
	}

	var body CreateProjectRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"msg": validationMessage(err)})
		return
	}

	if body.Status == "" {
		body.Status = types.StatusNotStarted
	}

	project := models.Project{
		Title:       body.Title,
		Description: body.Description,
		Status:      body.Status,
		DueDate:     body.DueDate,
		OwnerID:     userID,
	}

	if err := db.DB.Create(&project).Error; err != nil {
		log.Printf("Failed to create project: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"msg": "Server error"})
		return
	}

	BroadcastProjectEvent(userID, "created", project.ID)

	ctx.JSON(http.StatusCreated, projectResponse(project))
}

func UpdateProject(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"msg": "User not authenticated"})
		return
	}

	var body UpdateProjectRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"msg": validationMessage(err)})
		return
	}

	project, ok := findOwnedProject(ctx, userID)

	if !ok {
		return
	}

	updates := make(map[string]interface{})

	if body.Title != nil && *body.Title != "" {
		updates["title"] = *body.Title
	}

	if body.Description != nil && *body.Description != "" {
		updates["description"] = *body.Description
	}

	if body.Status != nil && *body.Status != "" {
		updates["status"] = *body.Status
	}

	if body.DueDate != nil {
		if string(body.DueDate) == "null" {
			updates["due_date"] = nil
		} else {
			var dueDate time.Time
			if err := json.Unmarshal(body.DueDate, &dueDate); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"msg": "DueDate must be a valid date"})
				return
			}
			updates["due_date"] = dueDate
		}
	}

	if len(updates) > 0 {
		if err := db.DB.Model(&project).Updates(updates).Error; err != nil {
			log.Printf("Failed to update project: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"msg": "Server error"})
			return
		}
	}

	if err := db.DB.First(&project, "id = ?", project.ID).Error; err != nil {
		log.Printf("Failed to refresh project: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"msg": "Server error"})
		return
	}

	BroadcastProjectEvent(userID, "updated", project.ID)

	ctx.JSON(http.StatusOK, projectResponse(project))
}

func DeleteProject(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"msg": "User not authenticated"})
		return
	}

	project, ok := findOwnedProject(ctx, userID)

	if !ok {
		return
	}

	if err := db.DB.Delete(&project).Error; err != nil {
		log.Printf("Failed to delete project: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"msg": "Server error"})
		return
	}

	BroadcastProjectEvent(userID, "deleted", project.ID)

	ctx.JSON(http.StatusOK, gin.H{"msg": "Project removed"})
}
