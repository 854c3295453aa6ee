package cli

import (
	"errors"

	"github.com/viant/portal/api"
)

type loginCommand struct {
	runner   *Runner
	Username string `short:"n" long:"username" description:"account username" required:"true"`
	Password string `short:"p" long:"password" description:"account password" env:"PORTAL_PASSWORD"`
}

func (c *loginCommand) Execute(args []string) error {
	if c.Password == "" {
		return errors.New("password was empty, use --password or PORTAL_PASSWORD")
	}
	client, err := c.runner.apiClient()
	if err != nil {
		return err
	}
	current, err := client.Auth.Login(c.runner.ctx, c.Username, c.Password)
	if err != nil {
		return err
	}
	return c.runner.write(&status{Authenticated: current.IsAuthenticated(), User: current.Identity})
}

type registerCommand struct {
	runner    *Runner
	Username  string `short:"n" long:"username" required:"true"`
	Password  string `short:"p" long:"password" env:"PORTAL_PASSWORD"`
	Email     string `long:"email"`
	FirstName string `long:"first-name"`
	LastName  string `long:"last-name"`
	Phone     string `long:"phone"`
}

func (c *registerCommand) Execute(args []string) error {
	client, err := c.runner.apiClient()
	if err != nil {
		return err
	}
	result, err := client.Auth.Register(c.runner.ctx, &api.Registration{
		Username:  c.Username,
		Password:  c.Password,
		Email:     c.Email,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Phone:     c.Phone,
	})
	if err != nil {
		return err
	}
	return c.runner.write(&registration{User: result.User, Authenticated: result.Access != ""})
}

type logoutCommand struct {
	runner *Runner
}

func (c *logoutCommand) Execute(args []string) error {
	client, err := c.runner.apiClient()
	if err != nil {
		return err
	}
	if err = client.Auth.Logout(c.runner.ctx); err != nil {
		return err
	}
	return c.runner.write(&status{})
}

type statusCommand struct {
	runner *Runner
}

func (c *statusCommand) Execute(args []string) error {
	client, err := c.runner.apiClient()
	if err != nil {
		return err
	}
	current, err := client.Auth.Session(c.runner.ctx)
	if err != nil {
		return err
	}
	return c.runner.write(&status{Authenticated: current.IsAuthenticated(), User: current.Identity})
}

type dashboardCommand struct {
	runner *Runner
}

func (c *dashboardCommand) Execute(args []string) error {
	client, err := c.runner.apiClient()
	if err != nil {
		return err
	}
	summary, err := client.Dashboard(c.runner.ctx)
	if err != nil {
		return err
	}
	return c.runner.write(summary)
}

type status struct {
	Authenticated bool   `json:"authenticated" yaml:"authenticated"`
	User          string `json:"user,omitempty" yaml:"user,omitempty"`
}

type registration struct {
	User          *api.User `json:"user,omitempty" yaml:"user,omitempty"`
	Authenticated bool      `json:"authenticated" yaml:"authenticated"`
}
