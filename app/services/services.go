// Package services holds the sample capabilities wired by the release and
// debug profiles.
package services

import (
	"fmt"
	"io"
	"os"
)

// ── Logger ───────────────────────────────────────────────────────────────────

type Logger interface {
	Log(message string)
}

// ConsoleLogger writes to Out, or stdout when Out is unset.
type ConsoleLogger struct {
	Out io.Writer
}

func (l *ConsoleLogger) Log(message string) {
	fmt.Fprintf(writer(l.Out), "[Console] %s\n", message)
}

// FileLoggerStub pretends to log to a file.
type FileLoggerStub struct {
	Filename string `inject:"filename"`
	Out      io.Writer
}

func (l *FileLoggerStub) Log(message string) {
	name := l.Filename
	if name == "" {
		name = "default.log"
	}
	fmt.Fprintf(writer(l.Out), "[File: %s] %s\n", name, message)
}

// CreateSpecialLogger returns an opaque factory that announces every logger it creates.
func CreateSpecialLogger(out io.Writer) func() Logger {
	return func() Logger {
		l := &ConsoleLogger{Out: out}
		l.Log("Factory Created This Logger!")
		return l
	}
}

// ── Database ─────────────────────────────────────────────────────────────────

type Database interface {
	Connect() string
}

type PostgresDB struct {
	connStr string
}

// NewPostgresDB announces itself on out, which the container supplies by type.
func NewPostgresDB(connectionString string, out io.Writer) *PostgresDB {
	db := &PostgresDB{connStr: connectionString}
	fmt.Fprintf(writer(out), "-> Init PostgresDB (%p)\n", db)
	return db
}

func (db *PostgresDB) Connect() string { return "Connected to PG: " + db.connStr }

type InMemoryDB struct{}

func NewInMemoryDB(out io.Writer) *InMemoryDB {
	db := &InMemoryDB{}
	fmt.Fprintf(writer(out), "-> Init InMemoryDB (%p)\n", db)
	return db
}

func (db *InMemoryDB) Connect() string { return "Connected to Memory" }

// ── AppService ───────────────────────────────────────────────────────────────

type AppService interface {
	Run()
}

// BackendService is built field by field; AppName falls back to "Unknown".
type BackendService struct {
	Logger  Logger
	DB      Database
	AppName string `inject:"app_name"`
}

func (s *BackendService) Run() {
	name := s.AppName
	if name == "" {
		name = "Unknown"
	}
	s.Logger.Log(fmt.Sprintf("Starting %s...", name))
	s.Logger.Log("DB Status: " + s.DB.Connect())
}

// TestService runs without a database.
type TestService struct {
	logger Logger
}

func NewTestService(logger Logger) *TestService {
	return &TestService{logger: logger}
}

func (s *TestService) Run() {
	s.logger.Log("Running TEST mode without real DB")
}

func writer(w io.Writer) io.Writer {
	if w == nil {
		return os.Stdout
	}
	return w
}
