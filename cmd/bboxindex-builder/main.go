// SPDX-FileCopyrightText: 2022 Sascha Brawer <sascha@brawer.ch>
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var logger *log.Logger

func main() {
	ctx := context.Background()

	in := flag.String("in", "-", `path to input file with one "lat1,lon1 lat2,lon2" bounding box per line, or "-" for stdin`)
	out := flag.String("out", "", "path to output file; default is bboxindex-YYYYMMDD.txt.br")
	storagekey := flag.String("storage-key", "", "path to key with storage access credentials")
	bucket := flag.String("bucket", "bboxindex", "name of storage bucket for uploading the output")
	keep := flag.Int("keep", 3, "number of reports to keep in storage")
	flag.Parse()

	logfile, err := createLogFile()
	if err != nil {
		log.Fatal(err)
	}
	defer logfile.Close()
	logger = log.New(logfile, "", log.Ldate|log.Ltime|log.LUTC|log.Lshortfile)

	var storage S3
	if *storagekey != "" {
		client, err := NewStorageClient(*storagekey)
		if err != nil {
			logger.Fatal(err)
		}

		bucketExists, err := client.BucketExists(ctx, *bucket)
		if err != nil {
			logger.Fatal(err)
		}
		if !bucketExists {
			logger.Fatalf("storage bucket %q does not exist", *bucket)
		}
		storage = client
	}

	outpath := *out
	if outpath == "" {
		date := time.Now().UTC().Format("20060102")
		outpath = fmt.Sprintf("bboxindex-%s.txt.br", date)
	}

	stats, err := buildIndexFile(*in, outpath, ctx)
	if err != nil {
		logger.Fatal(err)
	}

	p := message.NewPrinter(language.English)
	msg := p.Sprintf("Indexed %d of %d lines into %s; skipped %d malformed lines and %d outside Web Mercator",
		stats.Indexed, stats.Lines, outpath, stats.Malformed, stats.OutOfDomain)
	fmt.Println(msg)
	logger.Println(msg)

	// Upload the output file to storage.
	if storage != nil {
		remotepath := "public/" + filepath.Base(outpath)
		if err := PutInStorage(ctx, outpath, storage, *bucket, remotepath, ContentType(outpath)); err != nil {
			logger.Fatal(err)
		}
		msg := fmt.Sprintf("Uploaded to storage: %s/%s", *bucket, remotepath)
		fmt.Println(msg)
		logger.Println(msg)

		if err := Cleanup(ctx, storage, *bucket, *keep); err != nil {
			logger.Fatal(err)
		}
	}
}

// Create a file for keeping logs. If the file already exists, its
// present content is preserved, and new log entries will get appended
// after the existing ones.
func createLogFile() (*os.File, error) {
	logpath := filepath.Join("logs", "bboxindex-builder.log")
	if err := os.MkdirAll("logs", os.ModePerm); err != nil {
		return nil, err
	}

	logfile, err := os.OpenFile(logpath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}

	return logfile, nil
}
