// Command lampctl sends one command to a lamp and prints its status page.
//
//	lampctl --addr lamp.local:8080 State?R=0.5
//	lampctl Night
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"touchlamp/lamp/cmdserver"
)

var (
	addr    = "localhost:8080"
	timeout = 5 * time.Second
	check   = false
)

func init() {
	pflag.StringVarP(&addr, "addr", "a", addr, "lamp command channel address")
	pflag.DurationVar(&timeout, "timeout", timeout, "request timeout")
	pflag.BoolVar(&check, "check", check, "only validate the command locally")
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: lampctl [flags] <command>\n\n"+
			"commands: State?<channel>=<0..1>, Off, On, Night, Bright\n"+
			"channels: N, W, R, G, B or their long names\n\n")
		pflag.PrintDefaults()
	}
}

func main() {
	log.SetFlags(0)
	pflag.Parse()
	if pflag.NArg() != 1 {
		pflag.Usage()
		os.Exit(2)
	}
	path := strings.TrimPrefix(pflag.Arg(0), "/")

	cmd, err := cmdserver.Parse(path)
	if err != nil {
		log.Fatalf("lampctl: %v", err)
	}
	if check {
		fmt.Println(cmd)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	body, err := cmdserver.Send(ctx, addr, path)
	if err != nil {
		log.Fatalf("lampctl: %v", err)
	}
	fmt.Println(body)
}
