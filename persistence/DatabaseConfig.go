package persistence

import (
	"errors"
	"os"
	"strings"

	"database/sql"

	_ "github.com/go-sql-driver/mysql"
)

type DatabaseConfig struct {
	DriverType string
	DriverArgs string
}

// ParseDatabaseConfigFromEnv MYSQL_SERVICE=root:root@(127.0.0.1:3306) MYSQL_DATABASE=orderflow
func ParseDatabaseConfigFromEnv() (*DatabaseConfig, error) {
	mysqlSvc := os.ExpandEnv(os.Getenv("MYSQL_SERVICE"))
	if mysqlSvc == "" {
		return nil, errors.New("environment variable MYSQL_SERVICE is not configured")
	}
	database := os.Getenv("MYSQL_DATABASE")
	if database == "" {
		database = "orderflow"
	}

	return &DatabaseConfig{
		DriverType: "mysql",
		DriverArgs: mysqlSvc + "/" + database + "?charset=utf8mb4&parseTime=True&loc=Local&timeout=5s",
	}, nil
}

// PrepareMysqlDatabase create the database of the DSN when it does not exist yet
func PrepareMysqlDatabase(driverArgs string) error {
	idx := strings.LastIndex(driverArgs, "/")
	if idx < 0 {
		return errors.New("invalid mysql driver args")
	}
	databaseAndParams := driverArgs[idx+1:]
	database := databaseAndParams
	if paramsIdx := strings.Index(databaseAndParams, "?"); paramsIdx >= 0 {
		database = databaseAndParams[0:paramsIdx]
	}
	if database == "" {
		return errors.New("database name is empty")
	}

	conn, err := sql.Open("mysql", driverArgs[0:idx+1])
	if err != nil {
		return err
	}
	defer conn.Close()

	_, err = conn.Exec("CREATE DATABASE IF NOT EXISTS " + database + " CHARACTER SET utf8mb4")
	return err
}
