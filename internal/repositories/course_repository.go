package repositories

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"oneacademy/internal/models"
)

// CourseFilter carries the composable catalog filters. Zero values mean
// "not filtered".
type CourseFilter struct {
	CategoryIDs []int
	Levels      []string
	CourseType  string
	Promo       bool // price below the promo threshold
	Name        string
	SortBy      string // newest | oldest
	Limit       int
	Offset      int
}

const promoPriceBelow = 100000

type CourseRepository interface {
	Filter(f CourseFilter) ([]*models.Course, error)
	Count(f CourseFilter) (int, error)
	GetByID(id int) (*models.Course, error)
	ListChapters(courseID int) ([]models.Chapter, error)
	GetUserTransaction(userID, courseID int) (*models.Transaction, error)
	ListUserTransactions(userID int) ([]*models.Transaction, error)
	Create(course *models.Course) error
	Update(course *models.Course) error
	Delete(id int) error
}

type courseRepository struct {
	db *sql.DB
}

func NewCourseRepository(db *sql.DB) CourseRepository {
	return &courseRepository{db: db}
}

const courseSelect = `
	SELECT c.id, c.title, c.instructor, c.course_type, c.level, c.price,
	       c.description, c.category_id, cat.name, COALESCE(c.image_url,''),
	       COALESCE((SELECT AVG(score) FROM reviews WHERE course_id = c.id), 0),
	       c.created_at
	FROM courses c
	JOIN categories cat ON cat.id = c.category_id
`

// buildWhere composes the WHERE clause shared by Filter and Count.
func buildWhere(f CourseFilter) (string, []interface{}) {
	clauses := []string{"1=1"}
	args := []interface{}{}
	i := 1

	if len(f.CategoryIDs) > 0 {
		clauses = append(clauses, fmt.Sprintf("c.category_id = ANY($%d)", i))
		args = append(args, pq.Array(f.CategoryIDs))
		i++
	}
	if len(f.Levels) > 0 {
		clauses = append(clauses, fmt.Sprintf("c.level = ANY($%d)", i))
		args = append(args, pq.Array(f.Levels))
		i++
	}
	if f.CourseType != "" {
		clauses = append(clauses, fmt.Sprintf("c.course_type = $%d", i))
		args = append(args, f.CourseType)
		i++
	}
	if f.Promo {
		clauses = append(clauses, fmt.Sprintf("c.price < $%d", i))
		args = append(args, promoPriceBelow)
		i++
	}
	if f.Name != "" {
		clauses = append(clauses, fmt.Sprintf(
			"(c.title ILIKE $%d OR c.instructor ILIKE $%d OR c.description ILIKE $%d OR c.level ILIKE $%d)",
			i, i, i, i))
		args = append(args, "%"+f.Name+"%")
		i++
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func (r *courseRepository) Filter(f CourseFilter) ([]*models.Course, error) {
	where, args := buildWhere(f)

	order := " ORDER BY c.created_at DESC"
	if f.SortBy == "oldest" {
		order = " ORDER BY c.created_at ASC"
	}

	query := courseSelect + where + order
	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
		args = append(args, f.Limit, f.Offset)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*models.Course
	for rows.Next() {
		c := &models.Course{}
		if err := rows.Scan(
			&c.ID, &c.Title, &c.Instructor, &c.CourseType, &c.Level, &c.Price,
			&c.Description, &c.CategoryID, &c.Category, &c.ImageURL, &c.Rating, &c.CreatedAt,
		); err != nil {
			return nil, err
		}
		res = append(res, c)
	}
	return res, rows.Err()
}

func (r *courseRepository) Count(f CourseFilter) (int, error) {
	where, args := buildWhere(f)
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM courses c`+where, args...).Scan(&count)
	return count, err
}

func (r *courseRepository) GetByID(id int) (*models.Course, error) {
	c := &models.Course{}
	err := r.db.QueryRow(courseSelect+` WHERE c.id = $1`, id).Scan(
		&c.ID, &c.Title, &c.Instructor, &c.CourseType, &c.Level, &c.Price,
		&c.Description, &c.CategoryID, &c.Category, &c.ImageURL, &c.Rating, &c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *courseRepository) ListChapters(courseID int) ([]models.Chapter, error) {
	const q = `
		SELECT id, course_id, title, step
		FROM chapters
		WHERE course_id = $1
		ORDER BY step ASC
	`
	rows, err := r.db.Query(q, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chapters []models.Chapter
	for rows.Next() {
		var ch models.Chapter
		if err := rows.Scan(&ch.ID, &ch.CourseID, &ch.Title, &ch.Step); err != nil {
			return nil, err
		}
		chapters = append(chapters, ch)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range chapters {
		mats, err := r.listMaterials(chapters[i].ID)
		if err != nil {
			return nil, err
		}
		chapters[i].Materials = mats
	}
	return chapters, nil
}

func (r *courseRepository) listMaterials(chapterID int) ([]models.Material, error) {
	const q = `
		SELECT id, chapter_id, title, step, COALESCE(video_url,'')
		FROM materials
		WHERE chapter_id = $1
		ORDER BY step ASC
	`
	rows, err := r.db.Query(q, chapterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var mats []models.Material
	for rows.Next() {
		var m models.Material
		if err := rows.Scan(&m.ID, &m.ChapterID, &m.Title, &m.Step, &m.VideoURL); err != nil {
			return nil, err
		}
		mats = append(mats, m)
	}
	return mats, rows.Err()
}

func (r *courseRepository) GetUserTransaction(userID, courseID int) (*models.Transaction, error) {
	const q = `
		SELECT id, user_id, course_id, status, paid_at
		FROM transactions
		WHERE user_id = $1 AND course_id = $2
		LIMIT 1
	`
	t := &models.Transaction{}
	var paidAt sql.NullTime
	err := r.db.QueryRow(q, userID, courseID).Scan(&t.ID, &t.UserID, &t.CourseID, &t.Status, &paidAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	if paidAt.Valid {
		t.PaidAt = &paidAt.Time
	}
	return t, nil
}

func (r *courseRepository) ListUserTransactions(userID int) ([]*models.Transaction, error) {
	const q = `
		SELECT t.id, t.user_id, t.course_id, t.status, t.paid_at,
		       c.id, c.title, c.instructor, c.course_type, c.level, c.price,
		       c.description, c.category_id, cat.name, COALESCE(c.image_url,''),
		       COALESCE((SELECT AVG(score) FROM reviews WHERE course_id = c.id), 0),
		       c.created_at
		FROM transactions t
		JOIN courses c ON c.id = t.course_id
		JOIN categories cat ON cat.id = c.category_id
		WHERE t.user_id = $1
		ORDER BY t.id DESC
	`
	rows, err := r.db.Query(q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*models.Transaction
	for rows.Next() {
		t := &models.Transaction{Course: &models.Course{}}
		var paidAt sql.NullTime
		c := t.Course
		if err := rows.Scan(
			&t.ID, &t.UserID, &t.CourseID, &t.Status, &paidAt,
			&c.ID, &c.Title, &c.Instructor, &c.CourseType, &c.Level, &c.Price,
			&c.Description, &c.CategoryID, &c.Category, &c.ImageURL, &c.Rating, &c.CreatedAt,
		); err != nil {
			return nil, err
		}
		if paidAt.Valid {
			t.PaidAt = &paidAt.Time
		}
		res = append(res, t)
	}
	return res, rows.Err()
}

func (r *courseRepository) Create(course *models.Course) error {
	const q = `
		INSERT INTO courses (title, instructor, course_type, level, price, description, category_id, image_url)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING id, created_at
	`
	return r.db.QueryRow(q,
		course.Title, course.Instructor, course.CourseType, course.Level,
		course.Price, course.Description, course.CategoryID, course.ImageURL,
	).Scan(&course.ID, &course.CreatedAt)
}

func (r *courseRepository) Update(course *models.Course) error {
	const q = `
		UPDATE courses
		SET title=$1, instructor=$2, course_type=$3, level=$4, price=$5, description=$6, category_id=$7
		WHERE id=$8
	`
	_, err := r.db.Exec(q,
		course.Title, course.Instructor, course.CourseType, course.Level,
		course.Price, course.Description, course.CategoryID, course.ID,
	)
	return err
}

func (r *courseRepository) Delete(id int) error {
	_, err := r.db.Exec(`DELETE FROM courses WHERE id=$1`, id)
	return err
}
