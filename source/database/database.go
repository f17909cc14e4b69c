package database

// The macro store keeps recorded macros in a SQL database, one row per line. By default this is
// a SQLite file in the user's home directory, but any of the drivers below will do.

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"

	// SQL drivers

	_ "github.com/go-sql-driver/mysql"  // MariaDB & MySQL
	_ "github.com/lib/pq"               // Postgres
	_ "github.com/microsoft/go-mssqldb" // SQL Server
	_ "github.com/nakagami/firebirdsql" // Firebird
	_ "github.com/sijms/go-ora"         // Oracle
	_ "modernc.org/sqlite"              // SQLite
)

var (
	drivers = map[string]string{"Firebird SQL": "firebirdsql", "MariaDB": "mysql", "MySQL": "mysql",
		"Oracle": "oracle", "Postgres": "postgres", "SQL Server": "sqlserver", "SQLite": "sqlite"}
)

// Finds the Go driver for a friendly name like "Postgres". The Go driver name itself is also
// accepted, and case doesn't matter.
func DriverName(driver string) (string, bool) {
	for k, v := range drivers {
		if strings.EqualFold(k, driver) || strings.EqualFold(v, driver) {
			return v, true
		}
	}
	return "", false
}

func GetSortedDrivers() []string {
	dr := []string{}
	for k := range drivers {
		dr = append(dr, k)
	}
	sort.Strings(dr)
	return dr
}

func GetDriverOptions() string {
	result := "The following SQL drivers are available for storing macros: \n\n"
	for _, v := range GetSortedDrivers() {
		result = result + fmt.Sprintf("  %v\n", v)
	}
	return result
}

type MacroStore struct {
	db     *sql.DB
	driver string
}

// Opens the store, creating the table if it isn't there. For SQLite the source is a file path,
// and its directory is created if need be; otherwise it's the driver's connection string.
func Open(driver, source string) (*MacroStore, error) {
	driverName, ok := DriverName(driver)
	if !ok {
		return nil, errors.Errorf("unknown SQL driver '%v'", driver)
	}
	if driverName == "sqlite" {
		if dir := filepath.Dir(source); dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, errors.Wrap(err, "creating macro directory")
			}
		}
	}
	db, err := sql.Open(driverName, source)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %v macro store", driver)
	}
	if err = db.Ping(); err != nil {
		db.Close()
		return nil, errors.Wrapf(err, "connecting to %v macro store", driver)
	}
	store := &MacroStore{db: db, driver: driverName}
	if err = store.createTable(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// Not every database understands CREATE TABLE IF NOT EXISTS, so we see if we can read from it
// first.
func (s *MacroStore) createTable() error {
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM dsh_macros").Scan(&count); err == nil {
		return nil
	}
	query :=
		`CREATE TABLE dsh_macros (
    macro_name VARCHAR(64) NOT NULL,
    line_no INTEGER NOT NULL,
    line_text VARCHAR(1024) NOT NULL,
PRIMARY KEY (macro_name, line_no))`
	_, err := s.db.Exec(query)
	return errors.Wrap(err, "creating macro table")
}

// The nth placeholder in a query, counting from 1, in the dialect of the driver.
func (s *MacroStore) placeholder(n int) string {
	switch s.driver {
	case "postgres":
		return fmt.Sprintf("$%v", n)
	case "sqlserver":
		return fmt.Sprintf("@p%v", n)
	case "oracle":
		return fmt.Sprintf(":%v", n)
	}
	return "?"
}

// Replaces whatever is stored under the name with the given lines.
func (s *MacroStore) Save(name string, lines []string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return errors.Wrap(err, "starting transaction")
	}
	if _, err = tx.Exec("DELETE FROM dsh_macros WHERE macro_name = "+s.placeholder(1), name); err != nil {
		tx.Rollback()
		return errors.Wrap(err, "clearing old macro")
	}
	insert := fmt.Sprintf("INSERT INTO dsh_macros (macro_name, line_no, line_text) VALUES (%v, %v, %v)",
		s.placeholder(1), s.placeholder(2), s.placeholder(3))
	for i, line := range lines {
		if _, err = tx.Exec(insert, name, i+1, line); err != nil {
			tx.Rollback()
			return errors.Wrapf(err, "saving line %v", i+1)
		}
	}
	return errors.Wrap(tx.Commit(), "committing macro")
}

func (s *MacroStore) Delete(name string) error {
	_, err := s.db.Exec("DELETE FROM dsh_macros WHERE macro_name = "+s.placeholder(1), name)
	return errors.Wrap(err, "deleting macro")
}

// Reads every macro, its lines in order.
func (s *MacroStore) LoadAll() (map[string][]string, error) {
	rows, err := s.db.Query("SELECT macro_name, line_text FROM dsh_macros ORDER BY macro_name, line_no")
	if err != nil {
		return nil, errors.Wrap(err, "reading macros")
	}
	defer rows.Close()

	result := map[string][]string{}
	for rows.Next() {
		var name, line string
		if err := rows.Scan(&name, &line); err != nil {
			return nil, errors.Wrap(err, "reading macro line")
		}
		result[name] = append(result[name], line)
	}
	return result, errors.Wrap(rows.Err(), "reading macros")
}

func (s *MacroStore) Close() error {
	return s.db.Close()
}
