// Package sales defines the domain types and collaborator contracts of
// the salesdesk application: daily reports, customer visits, comments,
// and the master data they reference (customers, sales staff), plus
// role-based visibility rules.
//
// The CRUD persistence, credential verification, CSRF token handling,
// and password policy live in external collaborators. This package only
// fixes their call contracts so the HTTP layer can be wired against
// interfaces; see the interface docs for the expected semantics.
package sales
