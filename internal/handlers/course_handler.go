package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"oneacademy/internal/models"
	"oneacademy/internal/repositories"
	"oneacademy/internal/services"
)

type CourseHandler struct {
	service services.CourseService
}

func NewCourseHandler(service services.CourseService) *CourseHandler {
	return &CourseHandler{service: service}
}

// ListCourses handles the filtered catalog listing.
// Query params: sortBy=newest|oldest, category=1,2, level=beginner,advanced,
// promo=true, courseType=gratis|premium, name=..., page, record.
func (h *CourseHandler) ListCourses(c *gin.Context) {
	f := repositories.CourseFilter{
		SortBy: c.Query("sortBy"),
		Name:   c.Query("name"),
		Promo:  c.Query("promo") != "",
	}

	if raw := c.Query("category"); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			if id, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
				f.CategoryIDs = append(f.CategoryIDs, id)
			}
		}
	}
	if raw := c.Query("level"); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			switch strings.ToLower(strings.TrimSpace(s)) {
			case "beginner":
				f.Levels = append(f.Levels, "Beginner")
			case "intermediate":
				f.Levels = append(f.Levels, "Intermediate")
			case "advanced":
				f.Levels = append(f.Levels, "Advanced")
			}
		}
	}
	switch strings.ToLower(c.Query("courseType")) {
	case "gratis":
		f.CourseType = models.CourseTypeFree
	case "premium":
		f.CourseType = models.CourseTypePremium
	}

	page := queryInt(c, "page", 1)
	record := queryInt(c, "record", 10)

	res, err := h.service.List(c.Request.Context(), f, page, record)
	if err != nil {
		log.Printf("[courses][list] failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *CourseHandler) GetCourse(c *gin.Context) {
	courseID, err := strconv.Atoi(c.Param("courseId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid course ID"})
		return
	}
	userID, _ := getUserAndRole(c)

	detail, err := h.service.GetDetail(c.Request.Context(), courseID, userID)
	if err != nil {
		if errors.Is(err, services.ErrCourseNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Data not found"})
			return
		}
		log.Printf("[courses][get] failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
		return
	}
	c.JSON(http.StatusOK, detail)
}

type courseRequest struct {
	Title       string  `json:"title" binding:"required"`
	Instructor  string  `json:"instructor" binding:"required"`
	CourseType  string  `json:"course_type" binding:"required"`
	Level       string  `json:"level" binding:"required"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	CategoryID  int     `json:"category_id" binding:"required"`
	ImageURL    string  `json:"image"`
}

func (h *CourseHandler) CreateCourse(c *gin.Context) {
	var req courseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	course := &models.Course{
		Title:       req.Title,
		Instructor:  req.Instructor,
		CourseType:  req.CourseType,
		Level:       req.Level,
		Price:       req.Price,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		ImageURL:    req.ImageURL,
	}
	if err := h.service.Create(c.Request.Context(), course); err != nil {
		log.Printf("[courses][create] failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Course created successfully",
		"course":  course,
	})
}

func (h *CourseHandler) UpdateCourse(c *gin.Context) {
	courseID, err := strconv.Atoi(c.Param("courseId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid course ID"})
		return
	}

	var req courseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	course := &models.Course{
		ID:          courseID,
		Title:       req.Title,
		Instructor:  req.Instructor,
		CourseType:  req.CourseType,
		Level:       req.Level,
		Price:       req.Price,
		Description: req.Description,
		CategoryID:  req.CategoryID,
	}
	if err := h.service.Update(c.Request.Context(), course); err != nil {
		log.Printf("[courses][update] failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Course updated successfully", "course": course})
}

func (h *CourseHandler) DeleteCourse(c *gin.Context) {
	courseID, err := strconv.Atoi(c.Param("courseId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid course ID"})
		return
	}
	if err := h.service.Delete(c.Request.Context(), courseID); err != nil {
		log.Printf("[courses][delete] failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Course deleted"})
}
