// Command qropen follows a dynamic QR code redirect link from the terminal.
// It resolves the link through the gRPC service, counts down and then opens
// the destination in the default browser. Press Enter to go immediately,
// Ctrl-C to cancel.
//
// Usage:
//
//	qropen [-g localhost:3200] [-countdown 3] http://localhost:8080/r/Ab3dE7q
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	grpcserver "github.com/atinyakov/neoqrc/internal/app/server/grpc"
	"github.com/atinyakov/neoqrc/internal/redirect"
)

func main() {
	addr := flag.String("g", "localhost:3200", "grpc address of the service")
	countdown := flag.Int("countdown", redirect.DefaultCountdown, "seconds before navigating")
	device := flag.String("device", "desktop", "device class reported with the scan")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(flag.CommandLine.Output(), "usage: qropen [flags] <redirect link>")
		flag.PrintDefaults()
		return
	}

	conn, err := grpcserver.Dial(*addr)
	if err != nil {
		panic(err)
	}
	defer conn.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	session := redirect.NewSession(
		grpcserver.NewClient(conn),
		redirect.BrowserNavigator{Out: os.Stdout},
		redirect.WithCountdown(*countdown, redirect.DefaultTick),
		redirect.WithDevice(*device),
		redirect.WithStateHook(printState),
	)

	if err := session.Start(ctx, flag.Arg(0)); err != nil {
		if errors.Is(err, redirect.ErrMissingCode) {
			fmt.Println("No redirect code was provided.")
		} else {
			fmt.Println("QR Code not found or deactivated.")
		}
		return
	}

	go func() {
		if _, err := bufio.NewReader(os.Stdin).ReadString('\n'); err == nil {
			session.NavigateNow()
		}
	}()

	<-session.Done()

	if err := session.Err(); err != nil {
		fmt.Printf("Navigation failed: %v\n", err)
	}
}

func printState(state redirect.State, remaining int) {
	switch state {
	case redirect.StateResolving:
		fmt.Println("Resolving...")
	case redirect.StateCountingDown:
		fmt.Printf("Redirecting in %d... (Enter to go now)\n", remaining)
	case redirect.StateClosed:
		fmt.Println("Cancelled.")
	}
}
