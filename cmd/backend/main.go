package main

import (
	"kidsevents/internal/api"

	_ "kidsevents/docs"

	"github.com/sirupsen/logrus"
)

//	@title			Kids Events API
//	@version		1.0
//	@description	Маркетплейс услуг для детских праздников

//	@host		localhost:8080
//	@BasePath	/

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Введите "Bearer {token}"

func main() {
	logrus.Info("App start")
	if err := api.StartServer(); err != nil {
		logrus.Fatal(err)
	}
	logrus.Info("App terminated")
}
