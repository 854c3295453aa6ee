// Package portal provides a client for the back-office REST API (orders,
// services, tasks and users) with a persistent login session.
//
// NewClient composes the three layers explicitly:
//  1. a session store (file backed by default, see package session),
//  2. a transport that injects the bearer token and refreshes it once on 401
//     (package transport), and
//  3. the typed API client (package api).
//
// Example:
//
//	cli, _ := portal.NewClient(&portal.ClientOptions{BaseURL: "https://example.com/api"})
//	_, _ = cli.Auth.Login(ctx, "alice", "secret")
//	tasks, _ := cli.Tasks.List(ctx, nil)
//
// The cli sub-package exposes the same operations on the command line.
package portal
