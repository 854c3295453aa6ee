// Package cli implements the portal command line.
//
// Global options select the API and session location; commands cover the
// session lifecycle (login, register, logout, status), the dashboard and the
// orders, services, tasks and users resources:
//
//	portal -u https://example.com/api login -n alice -p secret
//	portal tasks list -q status=open
//	portal tasks patch -s status=done -s assignee=3 7
package cli
