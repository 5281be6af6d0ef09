package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/shravanasati/courier/client"
	"github.com/shravanasati/courier/internal/console"
)

func usage() {
	fmt.Fprintf(os.Stderr, "usage: ws [flags] host port [path]\n\n")
	flag.PrintDefaults()
}

func main() {
	var (
		verbose = flag.Bool("v", false, "log each step of the handshake")
		ipv6    = flag.Bool("6", false, "also try IPv6 addresses")
		timeout = flag.Duration("timeout", 10*time.Second, "read and write timeout for the handshake")
	)
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() < 2 || flag.NArg() > 3 {
		usage()
		os.Exit(2)
	}
	host, port, path := flag.Arg(0), flag.Arg(1), "/"
	if flag.NArg() == 3 {
		path = flag.Arg(2)
	}

	logger, err := console.NewLogger(*verbose)
	if err != nil {
		fmt.Fprintln(os.Stderr, "ws:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	opts := client.Options{
		ReadTimeout:  *timeout,
		WriteTimeout: *timeout,
		Logger:       logger,
	}
	if *ipv6 {
		opts.Network = "tcp"
	}

	printer := console.NewPrinter(os.Stderr)
	onHead := func(r *client.Response) {
		printer.Head(r.Status, r.Headers)
	}
	up, err := client.New(opts).Upgrade(host, port, path, os.Stdout, onHead)
	if err != nil {
		fmt.Fprintln(os.Stderr, "ws:", err)
		os.Exit(1)
	}
	defer up.Close()
	fmt.Fprintf(os.Stderr, "upgraded, %d byte(s) of frame data pending\n", len(up.Pending))
}
