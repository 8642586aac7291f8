package validate

import (
	"strings"

	"github.com/baharkarakas/blog-backend/internal/apperr"
)

// Raw inputs decoded from request bodies. Validate turns each into the
// normalized value consumed by the services.

type RegisterInput struct {
	Username        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type Registration struct {
	Username string
	Password string
}

func (in RegisterInput) Validate() (Registration, error) {
	username, err := CheckUsername(in.Username)
	if err != nil {
		return Registration{}, err
	}
	password, err := CheckPassword(in.Password, in.ConfirmPassword)
	if err != nil {
		return Registration{}, err
	}
	return Registration{Username: username, Password: password}, nil
}

type LoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type Credentials struct {
	Username string
	Password string
}

func (in LoginInput) Validate() (Credentials, error) {
	username := NormalizeUsername(in.Username)
	if username == "" || in.Password == "" {
		return Credentials{}, apperr.InvalidInput("Username and password are required")
	}
	return Credentials{Username: username, Password: in.Password}, nil
}

type UpdateUserInput struct {
	Username        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// UserChanges holds the fields to change; nil means keep.
type UserChanges struct {
	Username *string
	Password *string
}

func (in UpdateUserInput) Validate() (UserChanges, error) {
	if strings.TrimSpace(in.Username) == "" && in.Password == "" {
		return UserChanges{}, apperr.InvalidInput("Nothing to update")
	}
	var ch UserChanges
	if strings.TrimSpace(in.Username) != "" {
		u, err := CheckUsername(in.Username)
		if err != nil {
			return UserChanges{}, err
		}
		ch.Username = &u
	}
	if in.Password != "" {
		p, err := CheckPassword(in.Password, in.ConfirmPassword)
		if err != nil {
			return UserChanges{}, err
		}
		ch.Password = &p
	}
	return ch, nil
}

type PostInput struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type NewPost struct {
	Title string
	Body  string
}

func (in PostInput) Validate() (NewPost, error) {
	title, err := CheckTextField(in.Title, "Title")
	if err != nil {
		return NewPost{}, err
	}
	body, err := CheckTextField(in.Body, "Body")
	if err != nil {
		return NewPost{}, err
	}
	return NewPost{Title: title, Body: body}, nil
}

type UpdatePostInput struct {
	Title *string `json:"title"`
	Body  *string `json:"body"`
}

// PostChanges is a partial update; a blank field counts as not given.
type PostChanges struct {
	Title *string
	Body  *string
}

func (in UpdatePostInput) Validate() (PostChanges, error) {
	ch := PostChanges{Title: trimmedOrNil(in.Title), Body: trimmedOrNil(in.Body)}
	if ch.Title == nil && ch.Body == nil {
		return PostChanges{}, apperr.InvalidInput("Title or body is required")
	}
	return ch, nil
}

type CommentInput struct {
	Body string `json:"body"`
}

func (in CommentInput) Validate() (string, error) {
	return CheckTextField(in.Body, "Comment")
}

type RoleInput struct {
	Role string `json:"role"`
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}
