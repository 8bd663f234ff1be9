package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"mcquiz/internal/gameclient"
)

func main() {
	userID := flag.String("user", "", "user id to play as (required)")
	topic := flag.String("topic", "", "quiz topic (required)")
	server := flag.String("server", "http://127.0.0.1:8080", "quiz service base URL")
	timeout := flag.Duration("timeout", 90*time.Second, "HTTP timeout")
	flag.Parse()

	if *userID == "" || *topic == "" {
		fmt.Fprintln(os.Stderr, "error: --user and --topic are required")
		os.Exit(1)
	}

	err := gameclient.Run(context.Background(), os.Stdin, os.Stdout, gameclient.Config{
		UserID:      *userID,
		Topic:       *topic,
		ServerURL:   *server,
		HTTPTimeout: *timeout,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
