package database

import (
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// OpenDB creates the store handle for the configured driver. Supported
// drivers are sqlite3 (embedded, the default) and postgres; all repository
// queries are written with "?" placeholders and rebound per driver.
func OpenDB(driver, dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database")
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err = db.Ping(); err != nil {
		return nil, errors.Wrap(err, "failed to connect to database")
	}
	return db, nil
}

// InitSchema creates the three tables if they are missing and seeds the
// pizza catalog once, when it is empty. Safe to run on every startup.
func InitSchema(db *sqlx.DB) error {
	idColumn := "INTEGER PRIMARY KEY AUTOINCREMENT"
	if db.DriverName() == "postgres" {
		idColumn = "SERIAL PRIMARY KEY"
	}

	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS pizzas (
			id ` + idColumn + `,
			name TEXT NOT NULL,
			price REAL NOT NULL
		)`)
	if err != nil {
		return errors.Wrap(err, "failed to create pizzas table")
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS orders (
			id ` + idColumn + `,
			customer_name TEXT NOT NULL,
			phone TEXT NOT NULL,
			address TEXT NOT NULL,
			total_price REAL NOT NULL,
			order_date TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`)
	if err != nil {
		return errors.Wrap(err, "failed to create orders table")
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS order_items (
			id ` + idColumn + `,
			order_id INTEGER NOT NULL,
			pizza_id INTEGER NOT NULL,
			pizza_name TEXT NOT NULL,
			price REAL NOT NULL,
			quantity INTEGER NOT NULL
		)`)
	if err != nil {
		return errors.Wrap(err, "failed to create order_items table")
	}

	return seedPizzas(db)
}

func seedPizzas(db *sqlx.DB) error {
	var count int
	if err := db.Get(&count, "SELECT COUNT(*) FROM pizzas"); err != nil {
		return errors.Wrap(err, "failed to count pizzas")
	}
	if count > 0 {
		return nil
	}

	samplePizzas := []struct {
		name  string
		price float64
	}{
		{"Margherita", 299.0},
		{"Pepperoni", 399.0},
		{"Vegetarian", 349.0},
		{"BBQ Chicken", 449.0},
		{"Hawaiian", 379.0},
		{"Four Cheese", 429.0},
	}
	insert := db.Rebind("INSERT INTO pizzas (name, price) VALUES (?, ?)")
	for _, p := range samplePizzas {
		if _, err := db.Exec(insert, p.name, p.price); err != nil {
			return errors.Wrap(err, "failed to seed pizzas")
		}
	}
	log.WithField("pizzas", len(samplePizzas)).Info("seeded pizza catalog")
	return nil
}
