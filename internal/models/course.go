package models

import "time"

const (
	CourseTypeFree    = "Gratis"
	CourseTypePremium = "Premium"
)

type Course struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Instructor  string    `json:"instructor"`
	CourseType  string    `json:"course_type"` // Gratis | Premium
	Level       string    `json:"level"`       // Beginner | Intermediate | Advanced
	Price       float64   `json:"price"`
	Description string    `json:"description"`
	CategoryID  int       `json:"category_id"`
	Category    string    `json:"category,omitempty"`
	ImageURL    string    `json:"image,omitempty"`
	Rating      float64   `json:"rating"`
	CreatedAt   time.Time `json:"created_at"`
}

type Category struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type Chapter struct {
	ID        int        `json:"id"`
	CourseID  int        `json:"course_id"`
	Title     string     `json:"title"`
	Step      int        `json:"step"`
	Materials []Material `json:"materials"`
}

type Material struct {
	ID        int    `json:"id"`
	ChapterID int    `json:"chapter_id"`
	Title     string `json:"title"`
	Step      int    `json:"step"`
	VideoURL  string `json:"video_url"`
}

// Transaction records a course purchase; its presence gates premium content.
type Transaction struct {
	ID       int        `json:"id"`
	UserID   int        `json:"user_id"`
	CourseID int        `json:"course_id"`
	Status   string     `json:"status"`
	PaidAt   *time.Time `json:"paid_at,omitempty"`
	Course   *Course    `json:"course,omitempty"`
}
