package main

import (
	"log"
	"net/http"

	"orderflow/account"
	"orderflow/bizerror"
	"orderflow/client/es"
	"orderflow/client/s3"
	"orderflow/common"
	"orderflow/domain"
	"orderflow/event"
	"orderflow/indices"
	"orderflow/infra/tracing"
	"orderflow/persistence"
	"orderflow/servehttp"
	"orderflow/session"
	"orderflow/sessions"

	"github.com/gin-gonic/gin"
)

func main() {
	log.Println("service start")

	tracingCloser, err := tracing.Bootstrap()
	if err != nil {
		log.Fatalf("tracing bootstrap failed %v\n", err)
	}
	defer tracingCloser.Close()

	dbConfig, err := persistence.ParseDatabaseConfigFromEnv()
	if err != nil {
		log.Fatalf("parse database config failed %v\n", err)
	}

	// create database (no conflict)
	if dbConfig.DriverType == "mysql" {
		if err := persistence.PrepareMysqlDatabase(dbConfig.DriverArgs); err != nil {
			log.Fatalf("failed to prepare database %v\n", err)
		}
	}

	// connect database
	ds := &persistence.DataSourceManager{DatabaseConfig: dbConfig}
	if err := ds.Start(); err != nil {
		log.Fatalf("database connection failed %v\n", err)
	}
	defer ds.Stop()
	persistence.ActiveDataSourceManager = ds

	// database migration (race condition)
	err = ds.GormDB(nil).AutoMigrate(
		&domain.WorkOrder{}, &domain.OrderStage{}, &domain.StageAttachment{},
		&account.User{}, &account.Department{}, &event.EventRecord{}).Error
	if err != nil {
		log.Fatalf("database migration failed %v\n", err)
	}

	if err := account.BootstrapAdmin(); err != nil {
		log.Fatalf("admin account bootstrap failed %v\n", err)
	}

	s3.Bootstrap()
	es.CreateClientFromEnv()
	indices.BootstrapIndexSync()
	indices.StartCron()

	engine := gin.Default()
	engine.Use(tracing.TracingIngress(), bizerror.ErrorHandling())
	engine.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, common.GetServiceName())
	})

	sessions.RegisterSessionsHandler(engine)

	servehttp.RegisterWorkOrderRestAPI(engine, session.SimpleAuthFilter())
	servehttp.RegisterOrderTransitionRestAPI(engine, session.SimpleAuthFilter())
	servehttp.RegisterOrderStageRestAPI(engine, session.SimpleAuthFilter())
	servehttp.RegisterAttachmentRestAPI(engine, session.SimpleAuthFilter())
	servehttp.RegisterOrderSearchRestAPI(engine, session.SimpleAuthFilter())
	account.RegisterUsersRestAPI(engine, session.SimpleAuthFilter())
	indices.RegisterIndicesRestAPI(engine, session.SimpleAuthFilter())

	servehttp.StartHTTPServer(engine)
}
