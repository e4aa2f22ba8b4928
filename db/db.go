package db

import (
	"database/sql"
	"log"

	_ "github.com/mattn/go-sqlite3"
	"golang.org/x/crypto/bcrypt"
)

var DB *sql.DB

// The accounts created on a fresh database. Passwords are stored
// bcrypt-hashed; the plain values are the well-known dev defaults.
var seedUsers = []struct {
	Username string
	Password string
	Role     string
}{
	{"user1", "123456", "user"},
	{"user2", "234567", "user"},
	{"user3", "345678", "user"},
	{"user4", "456789", "user"},
	{"user5", "567890", "user"},
	{"admin1", "admin123", "admin"},
	{"admin2", "admin123", "admin"},
}

func InitDB(dataSourceName string) {
	var err error
	DB, err = sql.Open("sqlite3", dataSourceName)
	if err != nil {
		log.Fatal(err)
	}

	// busy_timeout matters here: validation and insert share one write
	// transaction, so concurrent creates queue instead of failing.
	for _, pragma := range []string{
		`PRAGMA journal_mode=WAL`,
		`PRAGMA busy_timeout=5000`,
		`PRAGMA foreign_keys=ON`,
	} {
		if _, err := DB.Exec(pragma); err != nil {
			log.Printf("pragma %q failed: %v", pragma, err)
		}
	}

	createTables := `
	CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT UNIQUE NOT NULL,
		password_hash TEXT NOT NULL,
		role TEXT DEFAULT 'user',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS bookings (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL DEFAULT '',
		user TEXT NOT NULL,
		date TEXT NOT NULL,
		start_time TEXT NOT NULL,
		end_time TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_bookings_date ON bookings(date);
	`

	if _, err = DB.Exec(createTables); err != nil {
		log.Fatalf("Error creating tables: %v", err)
	}

	seedDefaultUsers()
}

// seedDefaultUsers creates the default accounts on first boot. A
// non-empty users table is left untouched.
func seedDefaultUsers() {
	var count int
	if err := DB.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		log.Fatalf("Error checking users table: %v", err)
	}
	if count > 0 {
		return
	}

	for _, u := range seedUsers {
		hash, err := HashPassword(u.Password)
		if err != nil {
			log.Fatalf("Error hashing seed password: %v", err)
		}
		if _, err := DB.Exec("INSERT INTO users (username, password_hash, role) VALUES (?, ?, ?)",
			u.Username, hash, u.Role); err != nil {
			log.Fatalf("Error seeding user %s: %v", u.Username, err)
		}
	}
	log.Printf("Seeded %d default accounts", len(seedUsers))
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
