package flupdo

import (
	"database/sql"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/biyonik/go-flupdo/dialect"
)

/*
 * ----------------------------------------------------------------------------
 * FLUPDO TYPE DEFINITIONS
 * ----------------------------------------------------------------------------
 *
 * Bu dosya, Flupdo paketinin sonuç ve yapılandırma tiplerini içerir:
 * 1. QueryResult: Ham `sql.Result` nesnesini sarmalar.
 * 2. Config: Bağlantının "nereye" (sürücü, sunucu, veritabanı) ve "nasıl"
 *    (charset, time zone, pooling, sorgu loglama) yapılacağını tanımlar.
 *
 * @author Ahmet ALTUN
 * @github github.com/biyonik
 * @linkedin linkedin.com/in/biyonik
 * @email ahmet.altun60@gmail.com
 * ----------------------------------------------------------------------------
 */

// QueryResult, çalıştırılan bir statement'ın sql.Result değerini sarar.
type QueryResult struct {
	result sql.Result
}

// NewQueryResult, result'ı sarar.
func NewQueryResult(result sql.Result) *QueryResult {
	return &QueryResult{result: result}
}

// LastInsertID, INSERT tarafından üretilen id'yi döndürür.
func (r *QueryResult) LastInsertID() (int64, error) {
	if r == nil || r.result == nil {
		return 0, ErrNoRows
	}
	return r.result.LastInsertId()
}

// RowsAffected, statement'ın değiştirdiği satır sayısını döndürür.
func (r *QueryResult) RowsAffected() (int64, error) {
	if r == nil || r.result == nil {
		return 0, ErrNoRows
	}
	return r.result.RowsAffected()
}

// Sürücü başına varsayılan portlar.
const (
	defaultMySQLPort  = 3306
	defaultSphinxPort = 9306
)

// Config, bir veritabanı bağlantısını tanımlar. Ya tam bir DSN olan Source
// ya da tek tek bağlantı alanları kullanılır; ikisi de doluysa Source kazanır.
type Config struct {
	Driver    string `koanf:"driver"`    // "mysql", "sphinx" veya "sqlite"
	Source    string `koanf:"dsn"`       // Sürücüye olduğu gibi verilen bağlantı dizesi
	Host      string `koanf:"host"`      // Sunucu adresi
	Port      int    `koanf:"port"`      // Bağlantı portu (0 = sürücü varsayılanı)
	Database  string `koanf:"database"`  // Veritabanı adı; sqlite için dosya yolu
	Username  string `koanf:"username"`  // Kullanıcı adı
	Password  string `koanf:"password"`  // Parola
	Charset   string `koanf:"charset"`   // Karakter seti (varsayılan: utf8mb4)
	Collation string `koanf:"collation"` // Sıralama kuralları
	TimeZone  string `koanf:"time_zone"` // Oturum time_zone değeri, örn. "+00:00"
	TLS       bool   `koanf:"tls"`       // TLS/SSL şifreli bağlantı

	LogQuery   bool `koanf:"log_query"`   // Her sorguyu logla
	LogExplain bool `koanf:"log_explain"` // SELECT sorgularının EXPLAIN çıktısını logla

	MaxOpenConns int           `koanf:"max_open_conns"`    // Havuzdaki maksimum açık bağlantı sayısı (0 = sınırsız)
	MaxIdleConns int           `koanf:"max_idle_conns"`    // Boşta bekletilecek maksimum bağlantı sayısı
	ConnMaxLife  time.Duration `koanf:"conn_max_lifetime"` // Bir bağlantının yaşam süresi
	ConnMaxIdle  time.Duration `koanf:"conn_max_idle"`     // Bir bağlantının boşta kalabileceği maksimum süre
}

// DefaultConfig, yapılandırma verilmediğinde kullanılan değerleri döndürür.
func DefaultConfig() *Config {
	return &Config{
		Driver:       "mysql",
		Host:         "localhost",
		Charset:      "utf8mb4",
		MaxOpenConns: 25,
		MaxIdleConns: 5,
		ConnMaxLife:  5 * time.Minute,
		ConnMaxIdle:  5 * time.Minute,
	}
}

func (c *Config) driver() string {
	return strings.ToLower(strings.TrimSpace(c.Driver))
}

// Dialect, yapılandırılan sürücünün SQL lehçesini döndürür.
func (c *Config) Dialect() (dialect.Dialect, error) {
	d, err := dialect.ForDriver(c.driver())
	if err != nil {
		return dialect.Dialect{}, fmt.Errorf("%w: %q", ErrUnknownDriver, c.Driver)
	}
	return d, nil
}

// DriverName, açılacak database/sql sürücüsünü döndürür. Sphinx MySQL
// protokolünü konuşur.
func (c *Config) DriverName() string {
	switch c.driver() {
	case "mysql", "mariadb", "sphinx", "manticore":
		return "mysql"
	case "sqlite", "sqlite3":
		return "sqlite"
	default:
		return c.driver()
	}
}

// DSN, yapılandırılan sürücü için data source name döndürür.
func (c *Config) DSN() (string, error) {
	if c.Source != "" {
		return c.Source, nil
	}

	switch c.driver() {
	case "mysql", "mariadb":
		return c.mysqlDSN(defaultMySQLPort), nil
	case "sphinx", "manticore":
		return c.mysqlDSN(defaultSphinxPort), nil
	case "sqlite", "sqlite3":
		if c.Database == "" {
			return ":memory:", nil
		}
		return c.Database, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownDriver, c.Driver)
	}
}

func (c *Config) mysqlDSN(defaultPort int) string {
	mc := mysql.NewConfig()
	mc.User = c.Username
	mc.Passwd = c.Password
	mc.Net = "tcp"
	mc.DBName = c.Database
	mc.ParseTime = true

	port := c.Port
	if port == 0 {
		port = defaultPort
	}
	host := c.Host
	if host == "" {
		host = "localhost"
	}
	mc.Addr = net.JoinHostPort(host, strconv.Itoa(port))

	mc.Params = map[string]string{}
	if c.Charset != "" {
		mc.Params["charset"] = c.Charset
	}
	if c.TimeZone != "" {
		mc.Params["time_zone"] = "'" + c.TimeZone + "'"
	}
	if c.Collation != "" {
		mc.Collation = c.Collation
	}
	if c.TLS {
		mc.TLSConfig = "true"
	}
	return mc.FormatDSN()
}

// applyPool, havuz ayarlarını db'ye kopyalar.
func (c *Config) applyPool(db *sql.DB) {
	if c.MaxOpenConns > 0 {
		db.SetMaxOpenConns(c.MaxOpenConns)
	}
	if c.MaxIdleConns > 0 {
		db.SetMaxIdleConns(c.MaxIdleConns)
	}
	if c.ConnMaxLife > 0 {
		db.SetConnMaxLifetime(c.ConnMaxLife)
	}
	if c.ConnMaxIdle > 0 {
		db.SetConnMaxIdleTime(c.ConnMaxIdle)
	}
}
