package config

import (
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	ServeRESTAddress string `envconfig:"serve_rest_address" default:":8080"`
	DBDriver         string `envconfig:"db_driver" default:"sqlite3"`
	DBDSN            string `envconfig:"db_dsn" default:"pizza_shop.db"`
	RedisHost        string `envconfig:"redis_host" default:"localhost"`
	RedisPort        string `envconfig:"redis_port" default:"6379"`
	CartTTLHours     int    `envconfig:"cart_ttl_hours" default:"24"`
	// bcrypt hash of the manager dashboard password
	ManagerPasswordHash string `envconfig:"manager_password_hash"`
}

func Parse() (*Config, error) {
	c := new(Config)
	if err := envconfig.Process("pizzashop", c); err != nil {
		return nil, err
	}
	return c, nil
}
