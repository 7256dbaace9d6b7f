package main

import (
	"Backend-Plotter/internal/app/config"
	"Backend-Plotter/internal/app/repository"
	"Backend-Plotter/internal/pkg"

	_ "Backend-Plotter/docs"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// @title Time Series Plotter API
// @version 1.0
// @description Upload CSV or XLSX time series, filter by date, smooth with a moving average and get chart and table data

// @contact.name API Support
// @contact.url http://localhost:8080

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Session token. Example: "Bearer {token}"

// @tag.name Sessions
// @tag.description Plotting sessions: upload, parameters and views
// @tag.name Plot
// @tag.description Stateless plotting
// @tag.name System
// @tag.description Service health
func main() {
	router := gin.Default()

	// Загружаем конфигурацию
	conf, err := config.NewConfig()
	if err != nil {
		logrus.Fatalf("error loading config: %v", err)
	}

	// Инициализируем репозиторий
	repo, err := repository.NewRepository(conf)
	if err != nil {
		logrus.Fatalf("error initializing repository: %v", err)
	}

	application := pkg.NewApp(conf, router, repo)
	application.RunApp()
}
