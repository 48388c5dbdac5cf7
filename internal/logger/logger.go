package logger

import "go.uber.org/zap"

// New builds a development logger for env "development" and a production JSON logger otherwise.
func New(env string) *zap.Logger {
	var log *zap.Logger
	var err error
	if env == "development" {
		log, err = zap.NewDevelopment()
	} else {
		log, err = zap.NewProduction()
	}
	if err != nil {
		panic(err)
	}
	return log
}
