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
	fmt.Fprintf(os.Stderr, "usage: httpget [flags] host port [path]\n\n")
	flag.PrintDefaults()
}

func main() {
	var (
		verbose = flag.Bool("v", false, "log each step of the exchange")
		quiet   = flag.Bool("q", false, "do not print the status line and headers")
		ipv6    = flag.Bool("6", false, "also try IPv6 addresses")
		strict  = flag.Bool("strict", false, "reject status codes missing from the status table")
		timeout = flag.Duration("timeout", 30*time.Second, "read and write timeout for the exchange")
		chunk   = flag.Int("chunk", 256, "largest body write to stdout")
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
		fmt.Fprintln(os.Stderr, "httpget:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	opts := client.Options{
		ReadTimeout:  *timeout,
		WriteTimeout: *timeout,
		ChunkSize:    *chunk,
		StrictStatus: *strict,
		Logger:       logger,
	}
	if *ipv6 {
		opts.Network = "tcp"
	}

	printer := console.NewPrinter(os.Stderr)
	onHead := func(r *client.Response) {
		if !*quiet {
			printer.Head(r.Status, r.Headers)
		}
	}
	if _, err := client.New(opts).Get(host, port, path, os.Stdout, onHead); err != nil {
		fmt.Fprintln(os.Stderr, "httpget:", err)
		os.Exit(1)
	}
}
