package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/jessevdk/go-flags"
	"github.com/viant/portal/api"
)

type resource[T any] interface {
	List(ctx context.Context, query url.Values) ([]*T, error)
	Get(ctx context.Context, id int) (*T, error)
	Patch(ctx context.Context, id int, fields map[string]interface{}) (*T, error)
	Delete(ctx context.Context, id int) error
}

type writableResource[T any] interface {
	resource[T]
	Create(ctx context.Context, item *T) (*T, error)
	Update(ctx context.Context, id int, item *T) (*T, error)
}

type target struct {
	ID int `positional-arg-name:"id" required:"yes"`
}

// binding resolves a resource once the client is available.
type binding[T any, R resource[T]] struct {
	runner *Runner
	lookup func(*api.Client) R
}

func (b *binding[T, R]) resource() (R, error) {
	var zero R
	client, err := b.runner.apiClient()
	if err != nil {
		return zero, err
	}
	return b.lookup(client), nil
}

type listCommand[T any, R resource[T]] struct {
	binding[T, R]
	Query []string `short:"q" long:"query" description:"filter as key=value, repeatable"`
}

func (c *listCommand[T, R]) Execute(args []string) error {
	query := url.Values{}
	for _, pair := range c.Query {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			return fmt.Errorf("invalid query %q, expected key=value", pair)
		}
		query.Add(key, value)
	}
	res, err := c.resource()
	if err != nil {
		return err
	}
	items, err := res.List(c.runner.ctx, query)
	if err != nil {
		return err
	}
	if items == nil {
		items = []*T{}
	}
	return c.runner.write(items)
}

type getCommand[T any, R resource[T]] struct {
	binding[T, R]
	Target target `positional-args:"yes" required:"yes"`
}

func (c *getCommand[T, R]) Execute(args []string) error {
	res, err := c.resource()
	if err != nil {
		return err
	}
	item, err := res.Get(c.runner.ctx, c.Target.ID)
	if err != nil {
		return err
	}
	return c.runner.write(item)
}

type patchCommand[T any, R resource[T]] struct {
	binding[T, R]
	Set    []string `short:"s" long:"set" description:"field as key=value, value is parsed as JSON when possible" required:"true"`
	Target target   `positional-args:"yes" required:"yes"`
}

func (c *patchCommand[T, R]) Execute(args []string) error {
	fields, err := parseFields(c.Set)
	if err != nil {
		return err
	}
	res, err := c.resource()
	if err != nil {
		return err
	}
	item, err := res.Patch(c.runner.ctx, c.Target.ID, fields)
	if err != nil {
		return err
	}
	return c.runner.write(item)
}

type deleteCommand[T any, R resource[T]] struct {
	binding[T, R]
	Target target `positional-args:"yes" required:"yes"`
}

func (c *deleteCommand[T, R]) Execute(args []string) error {
	res, err := c.resource()
	if err != nil {
		return err
	}
	return res.Delete(c.runner.ctx, c.Target.ID)
}

type createCommand[T any] struct {
	binding[T, writableResource[T]]
	File string `short:"f" long:"file" description:"JSON or YAML document, - for stdin" required:"true"`
}

func (c *createCommand[T]) Execute(args []string) error {
	item := new(T)
	if err := c.runner.read(c.File, item); err != nil {
		return err
	}
	res, err := c.resource()
	if err != nil {
		return err
	}
	created, err := res.Create(c.runner.ctx, item)
	if err != nil {
		return err
	}
	return c.runner.write(created)
}

type updateCommand[T any] struct {
	binding[T, writableResource[T]]
	File   string `short:"f" long:"file" description:"JSON or YAML document, - for stdin" required:"true"`
	Target target `positional-args:"yes" required:"yes"`
}

func (c *updateCommand[T]) Execute(args []string) error {
	item := new(T)
	if err := c.runner.read(c.File, item); err != nil {
		return err
	}
	res, err := c.resource()
	if err != nil {
		return err
	}
	updated, err := res.Update(c.runner.ctx, c.Target.ID, item)
	if err != nil {
		return err
	}
	return c.runner.write(updated)
}

func parseFields(pairs []string) (map[string]interface{}, error) {
	ret := make(map[string]interface{}, len(pairs))
	for _, pair := range pairs {
		key, raw, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid field %q, expected key=value", pair)
		}
		var value interface{}
		if err := json.Unmarshal([]byte(raw), &value); err != nil {
			value = raw
		}
		ret[key] = value
	}
	return ret, nil
}

func addReadable[T any](parser *flags.Parser, runner *Runner, name string, lookup func(*api.Client) resource[T]) error {
	_, err := addResource[T, resource[T]](parser, runner, name, lookup)
	return err
}

func addWritable[T any](parser *flags.Parser, runner *Runner, name string, lookup func(*api.Client) writableResource[T]) error {
	group, err := addResource[T, writableResource[T]](parser, runner, name, lookup)
	if err != nil {
		return err
	}
	bound := binding[T, writableResource[T]]{runner: runner, lookup: lookup}
	if _, err = group.AddCommand("create", "create "+name, "", &createCommand[T]{binding: bound}); err != nil {
		return err
	}
	_, err = group.AddCommand("update", "replace "+name, "", &updateCommand[T]{binding: bound})
	return err
}

func addResource[T any, R resource[T]](parser *flags.Parser, runner *Runner, name string, lookup func(*api.Client) R) (*flags.Command, error) {
	group, err := parser.AddCommand(name, "manage "+name, "", &struct{}{})
	if err != nil {
		return nil, err
	}
	bound := binding[T, R]{runner: runner, lookup: lookup}
	if _, err = group.AddCommand("list", "list "+name, "", &listCommand[T, R]{binding: bound}); err != nil {
		return nil, err
	}
	if _, err = group.AddCommand("get", "get one of "+name, "", &getCommand[T, R]{binding: bound}); err != nil {
		return nil, err
	}
	if _, err = group.AddCommand("patch", "update fields of "+name, "", &patchCommand[T, R]{binding: bound}); err != nil {
		return nil, err
	}
	if _, err = group.AddCommand("delete", "delete one of "+name, "", &deleteCommand[T, R]{binding: bound}); err != nil {
		return nil, err
	}
	return group, nil
}
