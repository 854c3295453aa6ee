package api

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Counts summarises a collection by status.
type Counts struct {
	Total    int            `json:"total" yaml:"total"`
	ByStatus map[string]int `json:"byStatus,omitempty" yaml:"byStatus,omitempty"`
}

func (c *Counts) add(status string) {
	c.Total++
	if status == "" {
		return
	}
	if c.ByStatus == nil {
		c.ByStatus = map[string]int{}
	}
	c.ByStatus[status]++
}

// Summary is the dashboard overview.
type Summary struct {
	Orders   Counts `json:"orders" yaml:"orders"`
	Tasks    Counts `json:"tasks" yaml:"tasks"`
	Services int    `json:"services" yaml:"services"`
}

// Dashboard loads orders, tasks and services concurrently and summarises them.
// The first failure cancels the remaining calls and is returned.
func (c *Client) Dashboard(ctx context.Context) (*Summary, error) {
	var orders []*Order
	var tasks []*Task
	var services []*Service
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() (err error) {
		orders, err = c.Orders.List(groupCtx, nil)
		return err
	})
	group.Go(func() (err error) {
		tasks, err = c.Tasks.List(groupCtx, nil)
		return err
	})
	group.Go(func() (err error) {
		services, err = c.Services.List(groupCtx, nil)
		return err
	})
	if err := group.Wait(); err != nil {
		return nil, err
	}
	ret := &Summary{Services: len(services)}
	for _, order := range orders {
		ret.Orders.add(order.Status)
	}
	for _, task := range tasks {
		ret.Tasks.add(task.Status)
	}
	return ret, nil
}
