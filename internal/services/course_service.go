package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"oneacademy/internal/cache"
	"oneacademy/internal/models"
	"oneacademy/internal/repositories"
)

var ErrCourseNotFound = errors.New("course not found")

// CoursePage is the pagination envelope of the catalog listing.
type CoursePage struct {
	Courses      []*models.Course `json:"courses"`
	PreviousPage *int             `json:"previousPage"`
	NextPage     *int             `json:"nextPage"`
	TotalRows    int              `json:"totalRows"`
	TotalPages   int              `json:"totalPages"`
}

// CourseDetail bundles a course with its chapters and the caller's purchase
// record, which gates premium content on the client side.
type CourseDetail struct {
	Course      *models.Course      `json:"course"`
	Chapters    []models.Chapter    `json:"chapters"`
	Transaction *models.Transaction `json:"transaction"`
}

type CourseService interface {
	List(ctx context.Context, f repositories.CourseFilter, page, record int) (*CoursePage, error)
	GetDetail(ctx context.Context, courseID, userID int) (*CourseDetail, error)
	Create(ctx context.Context, course *models.Course) error
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id int) error
}

type courseService struct {
	repo  repositories.CourseRepository
	cache *cache.Cache
}

func NewCourseService(repo repositories.CourseRepository, c *cache.Cache) CourseService {
	return &courseService{repo: repo, cache: c}
}

func (s *courseService) List(ctx context.Context, f repositories.CourseFilter, page, record int) (*CoursePage, error) {
	if page < 1 {
		page = 1
	}
	if record < 1 {
		record = 10
	}
	f.Limit = record
	f.Offset = (page - 1) * record

	key := fmt.Sprintf("courses:list:%+v:p%d:r%d", f, page, record)
	var cached CoursePage
	if s.cache.GetJSON(ctx, key, &cached) {
		return &cached, nil
	}

	total, err := s.repo.Count(f)
	if err != nil {
		return nil, fmt.Errorf("count courses: %w", err)
	}
	courses, err := s.repo.Filter(f)
	if err != nil {
		return nil, fmt.Errorf("filter courses: %w", err)
	}

	totalPages := (total + record - 1) / record
	res := &CoursePage{
		Courses:    courses,
		TotalRows:  total,
		TotalPages: totalPages,
	}
	if page > 1 {
		prev := page - 1
		res.PreviousPage = &prev
	}
	if page < totalPages {
		next := page + 1
		res.NextPage = &next
	}

	s.cache.SetJSON(ctx, key, res)
	return res, nil
}

func (s *courseService) GetDetail(ctx context.Context, courseID, userID int) (*CourseDetail, error) {
	key := fmt.Sprintf("courses:detail:%d", courseID)

	var course models.Course
	var chapters []models.Chapter
	cachedCourse := struct {
		Course   *models.Course   `json:"course"`
		Chapters []models.Chapter `json:"chapters"`
	}{Course: &course}

	if !s.cache.GetJSON(ctx, key, &cachedCourse) {
		c, err := s.repo.GetByID(courseID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, ErrCourseNotFound
			}
			return nil, fmt.Errorf("get course: %w", err)
		}
		course = *c
		chapters, err = s.repo.ListChapters(courseID)
		if err != nil {
			return nil, fmt.Errorf("list chapters: %w", err)
		}
		cachedCourse.Chapters = chapters
		s.cache.SetJSON(ctx, key, cachedCourse)
	} else {
		chapters = cachedCourse.Chapters
	}

	// the purchase record is per caller and never cached
	var tx *models.Transaction
	if userID > 0 {
		var err error
		tx, err = s.repo.GetUserTransaction(userID, courseID)
		if err != nil {
			return nil, fmt.Errorf("get transaction: %w", err)
		}
	}

	return &CourseDetail{Course: &course, Chapters: chapters, Transaction: tx}, nil
}

func (s *courseService) Create(ctx context.Context, course *models.Course) error {
	if err := s.repo.Create(course); err != nil {
		return fmt.Errorf("create course: %w", err)
	}
	s.cache.Invalidate(ctx, "courses:*")
	return nil
}

func (s *courseService) Update(ctx context.Context, course *models.Course) error {
	if err := s.repo.Update(course); err != nil {
		return fmt.Errorf("update course: %w", err)
	}
	s.cache.Invalidate(ctx, "courses:*")
	return nil
}

func (s *courseService) Delete(ctx context.Context, id int) error {
	if err := s.repo.Delete(id); err != nil {
		return fmt.Errorf("delete course: %w", err)
	}
	s.cache.Invalidate(ctx, "courses:*")
	return nil
}
