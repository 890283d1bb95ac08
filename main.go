package main

import (
	"context"
	"time"

	"github.com/shandysiswandi/trimly/internal/app"
)

// @title           Trimly API
// @version         1.0
// @description     Trimly issues and verifies one-time email codes and streams challenge changes.
// @contact.name    Trimly Support
// @contact.email   support@trimly.id
// @license.name    MIT
// @license.url     https://mit-license.org/
// @server          http://localhost:8080
// @server          http://localhost:8081
// @securityDefinitions.apikey  BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the X-Session-Token value.
func main() {
	application := app.New()    // Initialize the application
	wait := application.Start() // Start the application and wait for the termination signal
	<-wait                      // Wait for the application to receive a termination signal
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	application.Stop(ctx) // Stop the application gracefully
}
