package main

import (
	_ "github.com/joho/godotenv/autoload" // Autoload .env file.

	"github.com/ojass-festival/ojass-api/cmd/app"
)

// @contact.name   OJASS Web Team
// @contact.url    https://ojass.org
// @contact.email  webteam@ojass.org
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Bearer token
func main() {
	if err := app.Start(); err != nil {
		panic(err)
	}
}
