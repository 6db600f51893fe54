//go:build integration

package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"os/exec"
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func skipIfNoDocker(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if exec.CommandContext(ctx, "docker", "info").Run() != nil {
		t.Skip("Skipping test: Docker not available")
	}
}

// startMySQL runs mysql:8 and returns a DSN for the seeded sakila database.
func startMySQL(t *testing.T) string {
	t.Helper()
	skipIfNoDocker(t)
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "mysql:8",
			ExposedPorts: []string{"3306/tcp"},
			Env: map[string]string{
				"MYSQL_ROOT_PASSWORD": "root",
				"MYSQL_DATABASE":      "sakila",
			},
			WaitingFor: wait.ForLog("port: 3306  MySQL Community Server").WithStartupTimeout(120 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("Warning: failed to terminate container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "3306")
	require.NoError(t, err)

	mc := mysql.NewConfig()
	mc.User = "root"
	mc.Passwd = "root"
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(host, port.Port())
	mc.DBName = "sakila"
	mc.ParseTime = true
	return mc.FormatDSN()
}

func seedMySQL(t *testing.T, dsn string) {
	t.Helper()
	db, err := sql.Open("mysql", dsn)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	stmts := []string{
		`CREATE TABLE category (category_id INT PRIMARY KEY, name VARCHAR(25))`,
		`CREATE TABLE film (film_id INT PRIMARY KEY, title VARCHAR(128), release_year YEAR, rating VARCHAR(8))`,
		`CREATE TABLE film_category (film_id INT, category_id INT)`,
	}
	for id, name := range seedCategories {
		stmts = append(stmts, fmt.Sprintf(`INSERT INTO category VALUES (%d, '%s')`, id, name))
	}
	for _, f := range seedFilms {
		stmts = append(stmts, fmt.Sprintf(`INSERT INTO film VALUES (%d, '%s', %d, '%s')`, f.id, f.title, f.year, f.rating))
		for _, g := range f.genres {
			stmts = append(stmts, fmt.Sprintf(`INSERT INTO film_category VALUES (%d, %d)`, f.id, g))
		}
	}
	for _, s := range stmts {
		_, err := db.Exec(s)
		require.NoError(t, err, s)
	}
}

func TestMySQLDialect(t *testing.T) {
	assert := require.New(t)
	dsn := startMySQL(t)
	seedMySQL(t, dsn)
	c := New(Config{Driver: DialectMySQL, DSN: dsn}, zerolog.Nop())
	ctx := context.Background()

	films, err := c.SearchByTitle(ctx, "matrix", 0)
	assert.NoError(err)
	assert.Equal([]string{"MATRIX RELOADED", "THE MATRIX"}, titles(films))

	filtered, err := c.SearchByFilters(ctx, Filter{Genres: []string{"action", "COMEDY"}, YearFrom: intPtr(2000), YearTo: intPtr(2010)}, 0)
	assert.NoError(err)
	assert.Equal([]string{"ACE GOLDFINGER", "AFFAIR PREJUDICE", "MATRIX RELOADED"}, titles(filtered))
	assert.Equal("Action, Comedy", filtered[0].Genres)
	assert.Equal("Action, Sci-Fi", filtered[2].Genres)

	all, err := c.SearchByFilters(ctx, Filter{}, 0)
	assert.NoError(err)
	assert.Len(all, PageSize)
	for _, g := range all {
		if g.Title == "NO GENRE FILM" {
			assert.Equal(NoGenres, g.Genres)
		}
	}
}
