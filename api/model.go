package api

import (
	"errors"
	"time"
)

type validator interface {
	Validate() error
}

// Order represents a client order.
type Order struct {
	ID          int        `json:"id,omitempty" yaml:"id,omitempty"`
	Client      *int       `json:"client,omitempty" yaml:"client,omitempty"`
	Service     *int       `json:"service,omitempty" yaml:"service,omitempty"`
	Status      string     `json:"status,omitempty" yaml:"status,omitempty"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	Address     string     `json:"address,omitempty" yaml:"address,omitempty"`
	CreatedAt   *time.Time `json:"created_at,omitempty" yaml:"createdAt,omitempty"`
}

func (o *Order) Validate() error {
	if o.ID <= 0 {
		return errors.New("order id was empty")
	}
	if o.Status == "" {
		return errors.New("order status was empty")
	}
	return nil
}

// Service represents an offered service.
type Service struct {
	ID          int    `json:"id,omitempty" yaml:"id,omitempty"`
	Name        string `json:"name,omitempty" yaml:"name,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Price       string `json:"price,omitempty" yaml:"price,omitempty"`
}

func (s *Service) Validate() error {
	if s.ID <= 0 {
		return errors.New("service id was empty")
	}
	if s.Name == "" {
		return errors.New("service name was empty")
	}
	return nil
}

// Task represents a unit of work attached to an order.
type Task struct {
	ID          int    `json:"id,omitempty" yaml:"id,omitempty"`
	Order       *int   `json:"order,omitempty" yaml:"order,omitempty"`
	Title       string `json:"title,omitempty" yaml:"title,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Status      string `json:"status,omitempty" yaml:"status,omitempty"`
	Assignee    *int   `json:"assignee,omitempty" yaml:"assignee,omitempty"`
	DueDate     string `json:"due_date,omitempty" yaml:"dueDate,omitempty"`
}

func (t *Task) Validate() error {
	if t.ID <= 0 {
		return errors.New("task id was empty")
	}
	if t.Title == "" {
		return errors.New("task title was empty")
	}
	return nil
}

// User represents an account.
type User struct {
	ID        int    `json:"id,omitempty" yaml:"id,omitempty"`
	Username  string `json:"username,omitempty" yaml:"username,omitempty"`
	Email     string `json:"email,omitempty" yaml:"email,omitempty"`
	FirstName string `json:"first_name,omitempty" yaml:"firstName,omitempty"`
	LastName  string `json:"last_name,omitempty" yaml:"lastName,omitempty"`
	Role      string `json:"role,omitempty" yaml:"role,omitempty"`
	IsActive  bool   `json:"is_active" yaml:"isActive"`
}

func (u *User) Validate() error {
	if u.ID <= 0 {
		return errors.New("user id was empty")
	}
	if u.Username == "" {
		return errors.New("username was empty")
	}
	return nil
}

// TokenPair is the response of the token endpoint.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh,omitempty"`
}

func (p *TokenPair) Validate() error {
	if p.Access == "" {
		return errors.New("access token was empty")
	}
	if p.Refresh == "" {
		return errors.New("refresh token was empty")
	}
	return nil
}

// Registration is the account creation payload.
type Registration struct {
	Username  string `json:"username" yaml:"username"`
	Email     string `json:"email,omitempty" yaml:"email,omitempty"`
	Password  string `json:"password" yaml:"password"`
	FirstName string `json:"first_name,omitempty" yaml:"firstName,omitempty"`
	LastName  string `json:"last_name,omitempty" yaml:"lastName,omitempty"`
	Phone     string `json:"phone,omitempty" yaml:"phone,omitempty"`
}

// RegistrationResult is the account creation response; tokens are optional.
type RegistrationResult struct {
	User    *User  `json:"user,omitempty"`
	Access  string `json:"access,omitempty"`
	Refresh string `json:"refresh,omitempty"`
}

func (r *RegistrationResult) Validate() error {
	if r.User != nil {
		if err := r.User.Validate(); err != nil {
			return err
		}
	}
	if (r.Access == "") != (r.Refresh == "") {
		return errors.New("registration returned a partial token pair")
	}
	return nil
}
