package main

import (
	_ "github.com/joho/godotenv/autoload" // Autoload .env file.

	"github.com/eventpulse/eventpulse-api/cmd/app"
)

// @contact.name   API Support
// @contact.url    https://eventpulse.dev/support
//
// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT
//
// @externalDocs.description  OpenAPI
// @externalDocs.url          https://swagger.io/resources/open-api/
func main() {
	if err := app.Start(); err != nil {
		panic(err)
	}
}
