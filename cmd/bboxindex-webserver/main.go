// SPDX-FileCopyrightText: 2022 Sascha Brawer <sascha@brawer.ch>
// SPDX-License-Identifier: MIT

package main

import (
	"flag"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
)

var logger *log.Logger

func main() {
	port := flag.Int("port", 0, "port for serving HTTP requests")
	flag.Parse()

	if *port == 0 {
		*port, _ = strconv.Atoi(os.Getenv("PORT"))
	}

	logger = NewLogger("bboxindex-webserver.log")
	server := NewWebserver()
	logger.Printf("Listening for HTTP requests on port %d", *port)
	if err := http.ListenAndServe(":"+strconv.Itoa(*port), server.Handler()); err != nil {
		logger.Fatal(err)
	}
}

// NewLogger creates a logger. If the log file already exists, its
// present content is preserved, and new log entries will get appended
// after the existing ones.
func NewLogger(logname string) *log.Logger {
	logpath := filepath.Join("logs", logname)
	if err := os.MkdirAll("logs", os.ModePerm); err != nil {
		log.Fatal(err)
	}

	logfile, err := os.OpenFile(logpath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		log.Fatal(err)
	}

	return log.New(logfile, "", log.Ldate|log.Ltime|log.LUTC|log.Lshortfile)
}
