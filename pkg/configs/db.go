package configs

import (
	"fmt"

	"github.com/spf13/viper"
)

type (
	DBType string
)

const (
	// PostgreSQL protocol aliases.
	PostgreSQL DBType = "postgresql"
	Postgres   DBType = "postgre"
	Pg         DBType = "pg"

	// MySQL protocol aliases.
	MySQL   DBType = "mysql"
	MariaDB DBType = "mariadb"
	// SQLite protocol.
	SQLite DBType = "sqlite"
)

const (
	DefaultDatabaseHost     = "localhost"
	DefaultDatabasePort     = 5432
	DefaultDatabaseUser     = "postgres"
	DefaultDatabasePassword = ""
	DefaultDatabaseName     = "mediavault"
	DefaultDatabaseSSLMode  = "disable"
	DefaultMaxOpenConns     = 0 // unlimited
	DefaultMaxIdleConns     = 5
)

// DBConfig describes one database connection. The same shape is used for the
// primary catalog store, the overflow mirror and the users/groups data store.
type DBConfig struct {
	Type         DBType `mapstructure:"type"           rule:"oneof=postgresql postgre pg mysql mariadb sqlite"`
	Host         string `mapstructure:"host"           rule:"hostname"`
	Port         int    `mapstructure:"port"           rule:"min=1,max=65535"`
	User         string `mapstructure:"user"`
	Password     string `mapstructure:"password"`
	Database     string `mapstructure:"database"`
	SSLMode      string `mapstructure:"sslmode"`
	MaxOpenConns int    `mapstructure:"max_open_conns" rule:"min=0"`
	MaxIdleConns int    `mapstructure:"max_idle_conns" rule:"min=0"`
}

// OverflowDBConfig is a DBConfig that may be absent. When Enabled is false the
// catalog runs without an overflow mirror and a full primary store is reported
// to the caller instead of retried.
type OverflowDBConfig struct {
	Enabled  bool     `mapstructure:"enabled"`
	DBConfig `mapstructure:",squash"`
}

// GetDBType returns a human readable database type name.
func (c *DBConfig) GetDBType() string {
	switch c.Type {
	case PostgreSQL, Postgres, Pg:
		return "PostgreSQL"
	case MySQL, MariaDB:
		return "MySQL"
	case SQLite:
		return "SQLite"
	default:
		return "Unknown"
	}
}

// GetDSN builds the driver DSN for the configured database type.
func (c *DBConfig) GetDSN() string {
	dsnMap := map[DBType]func() string{
		PostgreSQL: c.getPgSQLDSN,
		Postgres:   c.getPgSQLDSN,
		Pg:         c.getPgSQLDSN,
		MySQL:      c.getMySQLDSN,
		MariaDB:    c.getMySQLDSN,
		SQLite:     c.getSQLiteDSN,
	}

	if fn, ok := dsnMap[c.Type]; ok {
		return fn()
	}

	return ""
}

func (c *DBConfig) getPgSQLDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode)
}

func (c *DBConfig) getMySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.User, c.Password, c.Host, c.Port, c.Database)
}

func (c *DBConfig) getSQLiteDSN() string {
	// For SQLite the Database field is the file path (or :memory:).
	return c.Database
}

// setDefaults applies defaults under the given config section key, so the
// primary and data databases can share the same struct.
func (c *DBConfig) setDefaults(v *viper.Viper, section string) {
	v.SetDefault(section+".type", string(SQLite))
	v.SetDefault(section+".host", DefaultDatabaseHost)
	v.SetDefault(section+".port", DefaultDatabasePort)
	v.SetDefault(section+".user", DefaultDatabaseUser)
	v.SetDefault(section+".password", DefaultDatabasePassword)
	v.SetDefault(section+".database", DefaultDatabaseName+".db")
	v.SetDefault(section+".sslmode", DefaultDatabaseSSLMode)
	v.SetDefault(section+".max_open_conns", DefaultMaxOpenConns)
	v.SetDefault(section+".max_idle_conns", DefaultMaxIdleConns)
}

func (c *OverflowDBConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("overflow_db.enabled", false)
	c.DBConfig.setDefaults(v, "overflow_db")
	v.SetDefault("overflow_db.database", DefaultDatabaseName+"-overflow.db")
}
