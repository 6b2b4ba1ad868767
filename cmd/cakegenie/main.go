package main

import (
	"github.com/sirupsen/logrus"

	"github.com/apcaballes87/cake-genie/config"
	"github.com/apcaballes87/cake-genie/internal/appserver"
)

func main() {
	v, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("error loading config: %s", err.Error())
	}

	cfg, err := config.ParseConfig(v)
	if err != nil {
		logrus.Fatalf("error parsing config: %s", err.Error())
	}

	appserver.NewServer(cfg)
}
