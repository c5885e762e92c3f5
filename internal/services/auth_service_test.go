package services

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/isdelr/blog-api-be/internal/database"
)

// setupTestDB initializes an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := database.New(":memory:")
	if err != nil {
		t.Fatalf("Failed to initialize test database: %v", err)
	}
	// Each pooled in-memory connection would see a distinct database.
	db.SetMaxOpenConns(1)

	if err := database.Migrate(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("Failed to close test database: %v", err)
		}
	})

	return db
}

func TestRegister(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db)

	user, err := svc.Register("alice", "alice@example.com", "password123")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if user.ID == 0 {
		t.Errorf("Register() returned user with ID 0")
	}
	if user.Email != "alice@example.com" {
		t.Errorf("Register() email = %q, want %q", user.Email, "alice@example.com")
	}
	if user.Username != "alice" {
		t.Errorf("Register() username = %q, want %q", user.Username, "alice")
	}
	if user.PasswordHash != "" {
		t.Errorf("Register() leaked password hash")
	}
	if user.CreatedAt.IsZero() {
		t.Errorf("Register() CreatedAt is zero")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db)

	first, err := svc.Register("alice", "alice@example.com", "password123")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	_, err = svc.Register("impostor", "alice@example.com", "other-password")
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("Register() with duplicate email error = %v, want ErrEmailTaken", err)
	}

	// The first user must be unaffected.
	got, err := svc.Authenticate("alice@example.com", "password123")
	if err != nil {
		t.Fatalf("Authenticate() after duplicate attempt error = %v", err)
	}
	if got.ID != first.ID || got.Username != "alice" {
		t.Errorf("Authenticate() got user %+v, want the original user %d", got, first.ID)
	}
}

func TestAuthenticate(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db)

	created, err := svc.Register("bob", "bob@example.com", "secret")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	t.Run("correct credentials", func(t *testing.T) {
		user, err := svc.Authenticate("bob@example.com", "secret")
		if err != nil {
			t.Fatalf("Authenticate() error = %v", err)
		}
		if user.ID != created.ID {
			t.Errorf("Authenticate() ID = %d, want %d", user.ID, created.ID)
		}
		if user.PasswordHash != "" {
			t.Errorf("Authenticate() leaked password hash")
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Authenticate("bob@example.com", "wrong")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("Authenticate() error = %v, want ErrInvalidCredentials", err)
		}
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Authenticate("nobody@example.com", "secret")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("Authenticate() error = %v, want ErrInvalidCredentials", err)
		}
	})

	t.Run("failure modes are indistinguishable", func(t *testing.T) {
		_, wrongPass := svc.Authenticate("bob@example.com", "wrong")
		_, unknown := svc.Authenticate("nobody@example.com", "secret")
		if wrongPass.Error() != unknown.Error() {
			t.Errorf("failure errors differ: %q vs %q", wrongPass, unknown)
		}
	})
}

func TestGetUserByID(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db)

	created, err := svc.Register("carol", "carol@example.com", "pw")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	user, err := svc.GetUserByID(created.ID)
	if err != nil {
		t.Fatalf("GetUserByID() error = %v", err)
	}
	if user.Email != "carol@example.com" {
		t.Errorf("GetUserByID() email = %q, want %q", user.Email, "carol@example.com")
	}

	_, err = svc.GetUserByID(99999)
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("GetUserByID() for missing id error = %v, want ErrUserNotFound", err)
	}
}

func TestDeleteUserCascadesPosts(t *testing.T) {
	db := setupTestDB(t)
	authSvc := NewAuthService(db)
	postSvc := NewPostService(db)

	user, err := authSvc.Register("dave", "dave@example.com", "pw")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	other, err := authSvc.Register("erin", "erin@example.com", "pw")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	for _, title := range []string{"first", "second"} {
		if _, err := postSvc.CreatePost(user.ID, title, "body"); err != nil {
			t.Fatalf("CreatePost() error = %v", err)
		}
	}
	kept, err := postSvc.CreatePost(other.ID, "unrelated", "body")
	if err != nil {
		t.Fatalf("CreatePost() error = %v", err)
	}

	if err := authSvc.DeleteUser(user.ID); err != nil {
		t.Fatalf("DeleteUser() error = %v", err)
	}

	posts, err := postSvc.ListPosts()
	if err != nil {
		t.Fatalf("ListPosts() error = %v", err)
	}
	if len(posts) != 1 {
		t.Fatalf("ListPosts() after cascade = %d posts, want 1", len(posts))
	}
	if posts[0].ID != kept.ID {
		t.Errorf("ListPosts() surviving post = %d, want %d", posts[0].ID, kept.ID)
	}

	if err := authSvc.DeleteUser(user.ID); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("DeleteUser() for missing user error = %v, want ErrUserNotFound", err)
	}
}
