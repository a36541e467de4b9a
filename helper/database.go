package helper

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

const (
	EnvDatabaseHost     = "CAREPATH_DB_HOST"
	EnvDatabasePort     = "CAREPATH_DB_PORT"
	EnvDatabaseName     = "CAREPATH_DB_DATABASE"
	EnvDatabaseUsername = "CAREPATH_DB_USERNAME"
	EnvDatabasePassword = "CAREPATH_DB_PASSWORD"
	EnvDatabaseSchema   = "CAREPATH_DB_SCHEMA"
	EnvDatabaseSSLMode  = "CAREPATH_DB_SSLMODE"
)

// Database holds a named postgres connection and its logger
type Database struct {
	Name     string
	Logger   *slog.Logger
	Instance *sql.DB
}

// DatabaseConfiguration holds the connection parameters for postgres
type DatabaseConfiguration struct {
	Host     string
	Port     string
	Database string
	Username string
	Password string
	Schema   string
	SSLMode  string
}

// NewDatabaseConfiguration reads the configuration from the environment.
// A .env file in the working directory is loaded first if present;
// variables already set in the environment take precedence.
func NewDatabaseConfiguration() (*DatabaseConfiguration, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, NewError("load .env", err)
	}

	config := &DatabaseConfiguration{
		Host:     os.Getenv(EnvDatabaseHost),
		Port:     os.Getenv(EnvDatabasePort),
		Database: os.Getenv(EnvDatabaseName),
		Username: os.Getenv(EnvDatabaseUsername),
		Password: os.Getenv(EnvDatabasePassword),
		Schema:   os.Getenv(EnvDatabaseSchema),
		SSLMode:  os.Getenv(EnvDatabaseSSLMode),
	}

	if config.Schema == "" {
		config.Schema = "public"
	}
	if config.SSLMode == "" {
		config.SSLMode = "disable"
	}

	var missing []string
	if config.Host == "" {
		missing = append(missing, EnvDatabaseHost)
	}
	if config.Port == "" {
		missing = append(missing, EnvDatabasePort)
	}
	if config.Database == "" {
		missing = append(missing, EnvDatabaseName)
	}
	if config.Username == "" {
		missing = append(missing, EnvDatabaseUsername)
	}
	if len(missing) > 0 {
		return nil, NewError("database configuration", fmt.Errorf("missing environment variables: %s", strings.Join(missing, ", ")))
	}

	return config, nil
}

// DSN returns the lib/pq connection string
func (c *DatabaseConfiguration) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s dbname=%s user=%s password=%s sslmode=%s search_path=%s",
		c.Host, c.Port, c.Database, c.Username, c.Password, c.SSLMode, c.Schema,
	)
}

// NewDatabase connects to postgres and panics if the connection cannot be established
func NewDatabase(name string, config *DatabaseConfiguration, logger *slog.Logger) *Database {
	db := &Database{
		Name:   name,
		Logger: logger,
	}

	if err := db.ConnectToDatabase(config); err != nil {
		log.Panicf("error connecting to database %s: %v", name, err)
	}

	return db
}

// NewTestDatabase connects with a discarding logger
func NewTestDatabase(config *DatabaseConfiguration) *Database {
	return NewDatabase("test", config, slog.New(slog.DiscardHandler))
}

// ConnectToDatabase opens the connection and pings it
func (d *Database) ConnectToDatabase(config *DatabaseConfiguration) error {
	if config == nil {
		return NewError("connect", fmt.Errorf("database configuration is nil"))
	}

	instance, err := sql.Open("postgres", config.DSN())
	if err != nil {
		return NewError("open", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := instance.PingContext(ctx); err != nil {
		instance.Close()
		return NewError("ping", err)
	}

	instance.SetMaxOpenConns(10)
	instance.SetMaxIdleConns(5)
	instance.SetConnMaxLifetime(30 * time.Minute)

	d.Instance = instance
	d.Logger.Info("Connected to database", slog.String("name", d.Name), slog.String("host", config.Host))

	return nil
}

// CheckTableExistance reports whether a table exists in the current schema
func (d *Database) CheckTableExistance(tableName string) (bool, error) {
	var exists bool
	err := d.Instance.QueryRow(
		`SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_schema = current_schema() AND table_name = $1);`,
		tableName,
	).Scan(&exists)
	if err != nil {
		return false, NewError("check table existance", err)
	}
	return exists, nil
}

// Close closes the underlying connection
func (d *Database) Close() error {
	if d.Instance == nil {
		return nil
	}
	return d.Instance.Close()
}
