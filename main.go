package main

import (
	"easylog/bizerror"
	"easylog/deployment"
	"easylog/domain/eventtype"
	"easylog/domain/record"
	"easylog/domain/template"
	"easylog/infra/tracing"
	"easylog/misc"
	"easylog/persistence"
	"easylog/report"
	"easylog/session"
	"easylog/sessions"
	"easylog/workspace"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	_ = godotenv.Load()

	if err := deployment.Load(""); err != nil {
		logrus.Fatalf("failed to load deployment config: %v", err)
	}

	closer, err := tracing.InitTracing()
	if err != nil {
		logrus.Warnf("tracing disabled: %v", err)
	} else {
		defer closer.Close()
	}

	dbConfig, err := persistence.ParseDatabaseConfigFromEnv()
	if err != nil {
		logrus.Fatalf("parse database config failed: %v", err)
	}
	if dbConfig.DriverType == "mysql" {
		if err := persistence.PrepareMysqlDatabase(dbConfig.DriverArgs); err != nil {
			logrus.Fatalf("failed to prepare database: %v", err)
		}
	}

	ds := &persistence.DataSourceManager{DatabaseConfig: dbConfig}
	if err := ds.Start(); err != nil {
		logrus.Fatalf("database connection failed: %v", err)
	}
	defer ds.Stop()
	persistence.ActiveDataSourceManager = ds

	if err := ds.GormDB().AutoMigrate(
		&record.WorkRecord{}, &template.Template{}, &eventtype.EventTypeDefinition{}).Error; err != nil {
		logrus.Fatalf("database migration failed: %v", err)
	}

	engine := gin.Default()
	engine.Use(tracing.TracingIngress(), bizerror.ErrorHandling())
	engine.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, misc.GetServiceName())
	})

	sessions.RegisterSessionsHandler(engine)
	workspace.RegisterWorkspaceRestAPI(engine, session.SimpleAuthFilter())
	report.RegisterReportsRestAPI(engine, session.SimpleAuthFilter())
	template.RegisterTemplatesRestAPI(engine, session.SimpleAuthFilter())
	eventtype.RegisterEventTypesRestAPI(engine, session.SimpleAuthFilter())
	deployment.RegisterCatalogRestAPI(engine, session.SimpleAuthFilter())

	logrus.Infof("service starting on %s", deployment.Current.ServerAddr)
	if err := engine.Run(deployment.Current.ServerAddr); err != nil {
		logrus.Fatalf("server exited: %v", err)
	}
}
