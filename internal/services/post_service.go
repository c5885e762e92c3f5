package services

import (
	"database/sql"
	"errors"

	"github.com/isdelr/blog-api-be/internal/models"
)

// Sentinel errors for post operations.
var (
	ErrPostNotFound = errors.New("post not found")
	ErrNotPostOwner = errors.New("post belongs to another user")
)

// PostServiceProvider defines the interface for post services.
type PostServiceProvider interface {
	ListPosts() ([]models.Post, error)
	GetPostByID(id int64) (models.Post, error)
	CreatePost(ownerID int64, title, description string) (models.Post, error)
	UpdatePost(id, callerID int64, title, description string) (models.Post, error)
	DeletePost(id, callerID int64) error
}

// PostService provides ownership-scoped CRUD over posts.
type PostService struct {
	db *sql.DB
}

// NewPostService creates a new PostService.
func NewPostService(db *sql.DB) *PostService {
	return &PostService{db: db}
}

const postColumns = `p.id, p.title, p.description, p.user_id, p.created_at, p.updated_at,
	u.id, u.username, u.email, u.created_at, u.updated_at`

// scanPost reads a post row joined with its owner.
func scanPost(scanner interface{ Scan(...interface{}) error }) (models.Post, error) {
	var post models.Post
	var owner models.User
	err := scanner.Scan(
		&post.ID, &post.Title, &post.Description, &post.UserID, &post.CreatedAt, &post.UpdatedAt,
		&owner.ID, &owner.Username, &owner.Email, &owner.CreatedAt, &owner.UpdatedAt,
	)
	if err != nil {
		return post, err
	}
	post.User = &owner
	return post, nil
}

// ListPosts retrieves all posts with their owners eager-loaded, in storage
// order.
func (s *PostService) ListPosts() ([]models.Post, error) {
	rows, err := s.db.Query("SELECT " + postColumns + " FROM posts p JOIN users u ON u.id = p.user_id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := []models.Post{}
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

// GetPostByID retrieves a single post with its owner eager-loaded.
func (s *PostService) GetPostByID(id int64) (models.Post, error) {
	row := s.db.QueryRow("SELECT "+postColumns+" FROM posts p JOIN users u ON u.id = p.user_id WHERE p.id = ?", id)
	post, err := scanPost(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Post{}, ErrPostNotFound
		}
		return models.Post{}, err
	}
	return post, nil
}

// CreatePost persists a new post owned by ownerID and returns it with the
// owner embedded.
func (s *PostService) CreatePost(ownerID int64, title, description string) (models.Post, error) {
	res, err := s.db.Exec("INSERT INTO posts(title, description, user_id) VALUES(?, ?, ?)",
		title, description, ownerID)
	if err != nil {
		return models.Post{}, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return models.Post{}, err
	}

	return s.GetPostByID(id)
}

// UpdatePost overwrites a post's title and description. Only the owner may
// update a post; the write is a single conditional UPDATE so concurrent
// writers cannot silently clobber each other through a stale read.
func (s *PostService) UpdatePost(id, callerID int64, title, description string) (models.Post, error) {
	res, err := s.db.Exec(
		"UPDATE posts SET title = ?, description = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND user_id = ?",
		title, description, id, callerID)
	if err != nil {
		return models.Post{}, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return models.Post{}, err
	}
	if affected == 0 {
		return models.Post{}, s.classifyMiss(id)
	}

	return s.GetPostByID(id)
}

// DeletePost removes a post. Only the owner may delete a post; a missing
// post is reported as ErrPostNotFound rather than surfacing as a fault.
func (s *PostService) DeletePost(id, callerID int64) error {
	res, err := s.db.Exec("DELETE FROM posts WHERE id = ? AND user_id = ?", id, callerID)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return s.classifyMiss(id)
	}
	return nil
}

// classifyMiss tells a nonexistent post apart from one owned by someone
// else after a conditional write matched no rows.
func (s *PostService) classifyMiss(id int64) error {
	var ownerID int64
	err := s.db.QueryRow("SELECT user_id FROM posts WHERE id = ?", id).Scan(&ownerID)
	if err == sql.ErrNoRows {
		return ErrPostNotFound
	}
	if err != nil {
		return err
	}
	return ErrNotPostOwner
}
