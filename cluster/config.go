package main

import (
	"encoding/json"
	"fmt"
	"os"

	cluster "github.com/mg-exp/cluster_go/pkg"
)

func LoadConfiguration(filename string) (cluster.Configuration, error) {
	var config cluster.Configuration

	// Set default values
	config.MaxEvents = 1000000000
	config.Verbosity = 0
	config.Layout = cluster.LayoutFull
	config.RunNumber = 0
	config.NoDB = false
	config.CalibFile = ""
	config.Discard = true
	config.Skip = 0
	config.Host = "mg.esss.se"
	config.User = "mgreader"
	config.Passwd = "readonly"
	config.DBName = "MGCNCS"
	config.NumWorkers = 1
	config.WriteData = true
	config.Parallel = false

	data, err := os.ReadFile(filename)
	if err != nil {
		return config, err
	}
	err = json.Unmarshal(data, &config)
	if err != nil {
		return config, err
	}
	return config, nil
}

func printConfiguration(config cluster.Configuration, logger Logger) {
	logger.Info(fmt.Sprintf("Files in: %v", config.FilesIn), "config")
	logger.Info(fmt.Sprintf("File out: %s", config.FileOut), "config")
	logger.Info(fmt.Sprintf("Layout: %s", config.Layout), "config")
	logger.Info(fmt.Sprintf("Run number: %d", config.RunNumber), "config")
	logger.Info(fmt.Sprintf("No DB: %t", config.NoDB), "config")
	logger.Info(fmt.Sprintf("Calibration file: %s", config.CalibFile), "config")
	logger.Info(fmt.Sprintf("Host: %s", config.Host), "config")
	logger.Info(fmt.Sprintf("DB name: %s", config.DBName), "config")
	logger.Info(fmt.Sprintf("Skip: %d", config.Skip), "config")
	logger.Info(fmt.Sprintf("Max events: %d", config.MaxEvents), "config")
	logger.Info(fmt.Sprintf("Verbosity: %d", config.Verbosity), "config")
	logger.Info(fmt.Sprintf("Discard: %t", config.Discard), "config")
	logger.Info(fmt.Sprintf("Write data: %t", config.WriteData), "config")
	logger.Info(fmt.Sprintf("Number of workers: %d", config.NumWorkers), "config")
	logger.Info(fmt.Sprintf("Parallel: %t", config.Parallel), "config")
}
