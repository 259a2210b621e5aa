package main

import (
	"log"
)

var (
	GitCommit string
	GitTag    string
	BuildTime string
)

// @title        Livros API
// @version      1.0
// @description  Book catalog backend. Stores covers and epub files into an
// @description  S3-compatible object storage and book records into redis.
// @BasePath     /
// @securityDefinitions.basic AdminAuth
func main() {
	app, err := NewApp()
	if err != nil {
		log.Fatal("application failed to initialized: ", err)
	}
	err = app.Run()
	if err != nil {
		log.Fatal("application exited. check logs for more details.", err)
	}
}
