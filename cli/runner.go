package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/jessevdk/go-flags"
	"github.com/viant/afs"
	"github.com/viant/portal"
	"github.com/viant/portal/api"
	"gopkg.in/yaml.v3"
)

// Runner executes portal commands.
type Runner struct {
	Options Options

	ctx    context.Context
	in     io.Reader
	out    io.Writer
	fs     afs.Service
	client *api.Client
}

// Run parses args and executes the selected command, writing results to stdout.
func Run(args []string) error {
	return New(context.Background(), os.Stdin, os.Stdout).Run(args)
}

// New creates a runner reading input documents from in and writing results to out.
func New(ctx context.Context, in io.Reader, out io.Writer) *Runner {
	return &Runner{ctx: ctx, in: in, out: out, fs: afs.New()}
}

func (r *Runner) Run(args []string) error {
	parser := flags.NewParser(&r.Options, flags.HelpFlag|flags.PassDoubleDash)
	parser.Name = "portal"
	if err := r.register(parser); err != nil {
		return err
	}
	_, err := parser.ParseArgs(args)
	var flagsErr *flags.Error
	if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
		_, err = fmt.Fprintln(r.out, flagsErr.Message)
	}
	return err
}

func (r *Runner) register(parser *flags.Parser) error {
	if _, err := parser.AddCommand("login", "log in", "Exchange credentials for a session.", &loginCommand{runner: r}); err != nil {
		return err
	}
	if _, err := parser.AddCommand("register", "create an account", "Create an account; logs in when the server returns tokens.", &registerCommand{runner: r}); err != nil {
		return err
	}
	if _, err := parser.AddCommand("logout", "log out", "Clear the stored session.", &logoutCommand{runner: r}); err != nil {
		return err
	}
	if _, err := parser.AddCommand("status", "show session status", "Report whether a session is stored and for whom.", &statusCommand{runner: r}); err != nil {
		return err
	}
	if _, err := parser.AddCommand("dashboard", "show overview", "Summarise orders, tasks and services.", &dashboardCommand{runner: r}); err != nil {
		return err
	}
	if err := addWritable(parser, r, "orders", func(c *api.Client) writableResource[api.Order] { return c.Orders }); err != nil {
		return err
	}
	if err := addWritable(parser, r, "services", func(c *api.Client) writableResource[api.Service] { return c.Services }); err != nil {
		return err
	}
	if err := addWritable(parser, r, "tasks", func(c *api.Client) writableResource[api.Task] { return c.Tasks }); err != nil {
		return err
	}
	return addReadable(parser, r, "users", func(c *api.Client) resource[api.User] { return c.Users })
}

// apiClient lazily builds the client once flags are parsed.
func (r *Runner) apiClient() (*api.Client, error) {
	if r.client != nil {
		return r.client, nil
	}
	var loaded *portal.ClientOptions
	if r.Options.Config != "" {
		var err error
		if loaded, err = portal.LoadOptions(r.ctx, r.Options.Config); err != nil {
			return nil, err
		}
	}
	client, err := portal.NewClient(r.Options.clientOptions(loaded))
	if err != nil {
		return nil, err
	}
	r.client = client
	return client, nil
}

func (r *Runner) write(value interface{}) error {
	if r.Options.Output == "yaml" {
		encoder := yaml.NewEncoder(r.out)
		encoder.SetIndent(2)
		if err := encoder.Encode(value); err != nil {
			return err
		}
		return encoder.Close()
	}
	encoder := json.NewEncoder(r.out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}

// read decodes a JSON or YAML document from location, "-" reads standard input.
func (r *Runner) read(location string, target interface{}) error {
	var data []byte
	var err error
	if location == "-" {
		data, err = io.ReadAll(r.in)
	} else {
		data, err = r.fs.DownloadWithURL(r.ctx, location)
	}
	if err != nil {
		return fmt.Errorf("failed to read %v: %w", location, err)
	}
	switch strings.ToLower(path.Ext(location)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, target)
	default:
		err = json.Unmarshal(data, target)
	}
	if err != nil {
		return fmt.Errorf("failed to decode %v: %w", location, err)
	}
	return nil
}
