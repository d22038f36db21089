package main

import (
	_ "github.com/joho/godotenv/autoload" // Autoload .env file.

	"github.com/unidrl/campus-connect/cmd/app"
)

// @title        Campus Connect API
// @version      1.0
// @description  Event registration, check-in and checkout for VNUK students.
// @BasePath     /api/v1
//
// @contact.name   Student Affairs IT
// @contact.email  it@vnuk.edu.vn
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Bearer token. The live feed also accepts it as ?token=.
func main() {
	if err := app.Start(); err != nil {
		panic(err)
	}
}
