package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/propkeeper/internal/logging"
	"github.com/dmitrijs2005/propkeeper/internal/server"
	"github.com/dmitrijs2005/propkeeper/internal/server/config"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := server.NewApp(cfg, logging.NewJSONLogger(os.Stdout))

	if err != nil {
		log.Printf("%v", err)
		return
	}

	app.Run(ctx)

}
