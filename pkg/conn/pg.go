// Package conn opens the PostgreSQL pool used by the fill journal.
package conn

import (
	"fmt"
	"net/url"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Option describes a PostgreSQL endpoint. ConnString, when set, wins over
// the discrete fields.
type Option struct {
	Host       string
	Port       int
	User       string
	Password   string
	Database   string
	SSLMode    string
	ConnString string
}

// Open connects to PostgreSQL and returns the gorm handle.
func Open(opt Option) (*gorm.DB, error) {
	dsn, err := opt.dsn()
	if err != nil {
		return nil, err
	}
	return gorm.Open(postgres.Open(dsn), &gorm.Config{})
}

func (o Option) dsn() (string, error) {
	if o.ConnString != "" {
		return o.ConnString, nil
	}
	if o.Database == "" {
		return "", fmt.Errorf("postgres: database name is required")
	}

	host := o.Host
	if host == "" {
		host = "localhost"
	}
	port := o.Port
	if port <= 0 {
		port = 5432
	}
	sslMode := o.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	u := url.URL{
		Scheme: "postgres",
		Host:   fmt.Sprintf("%s:%d", host, port),
		Path:   o.Database,
	}
	if o.User != "" {
		u.User = url.UserPassword(o.User, o.Password)
	}
	q := u.Query()
	q.Set("sslmode", sslMode)
	u.RawQuery = q.Encode()

	return u.String(), nil
}
