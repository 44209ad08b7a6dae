// Package pg initializes the PostgreSQL connection pool backing the
// application's persistence collaborators.
//
// Connect builds a pgxpool.Pool from the environment-driven Config,
// pings it with retry and returns the verified pool. Healthcheck
// returns a probe function for the health endpoint. An empty
// DATABASE_URL disables the backend; the caller decides whether that
// is acceptable.
package pg
