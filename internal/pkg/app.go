package pkg

import (
	"fmt"

	"Backend-Plotter/internal/app/config"
	"Backend-Plotter/internal/app/controller"
	"Backend-Plotter/internal/app/handler"
	"Backend-Plotter/internal/app/repository"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type Application struct {
	Config     *config.Config
	Router     *gin.Engine
	Repository *repository.Repository
	Controller *controller.Controller
}

func NewApp(c *config.Config, r *gin.Engine, repo *repository.Repository) *Application {
	return &Application{
		Config:     c,
		Router:     r,
		Repository: repo,
		Controller: NewController(repo),
	}
}

// NewController собирает контроллер из доступных хранилищ
func NewController(repo *repository.Repository) *controller.Controller {
	var archive controller.UploadArchive
	if repo.Uploads != nil {
		archive = repo.Uploads
	}

	var uploadLog controller.UploadLogger
	if repo.UploadLogs != nil {
		uploadLog = repo.UploadLogs
	}

	return controller.NewController(repo.Sessions, archive, uploadLog)
}

func (a *Application) RunApp() {
	logrus.Info("Server start up")
	defer a.Repository.Close()

	a.Config.ConfigureLogger()
	if a.Config.MaxUploadSize > 0 {
		a.Router.MaxMultipartMemory = a.Config.MaxUploadSize
	}

	handler.RegisterHandlers(a.Router, a.Repository, a.Controller, a.Config)

	serverAddress := fmt.Sprintf("%s:%d", a.Config.ServiceHost, a.Config.ServicePort)
	if err := a.Router.Run(serverAddress); err != nil {
		logrus.Fatal(err)
	}
	logrus.Info("Server down")
}
