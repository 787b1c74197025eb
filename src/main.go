package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"net"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/soundworks/rtsynth/src/synth"
	"golang.org/x/sync/errgroup"
)

var (
	backend    = flag.String("backend", "portaudio", "audio backend: portaudio, oto or headless")
	sampleRate = flag.Int("samplerate", 48000, "sample rate in Hz")
	blockSize  = flag.Int("blocksize", 128, "frames per block")
	channels   = flag.Int("channels", 1, "output channel count")
	genName    = flag.String("gen", "sine", "initial generator")
	sockFile   = flag.String("sock", "/tmp/rtsynth.sock", "control socket path; empty to run without IPC")
)

func main() {
	flag.Parse()
	log.SetFlags(log.Lshortfile)

	gen, err := synth.NewGenerator(*genName)
	if err != nil {
		log.Fatalf("error: %v (available: %v)\n", err, synth.Names())
	}
	engine, err := synth.NewEngine(gen, synth.Config{
		SampleRate: *sampleRate,
		BlockSize:  *blockSize,
		Channels:   *channels,
		Backend:    *backend,
	})
	if err != nil {
		log.Fatalf("error: %v\n", err)
	}
	defer func() {
		if err := engine.Close(); err != nil {
			log.Printf("error while closing engine: %v", err)
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, os.Interrupt, syscall.SIGTERM)
	defer func() {
		signal.Stop(signalCh)
		cancel()
	}()
	go func() {
		sig := <-signalCh
		log.Printf("Caught signal %s: shutting down...\n", sig)
		cancel()
	}()

	if *sockFile == "" {
		if err := engine.Start(); err != nil {
			log.Fatalf("error: %v\n", err)
		}
		<-ctx.Done()
		log.Println("main() ended.")
		return
	}

	err = withIPCConnection(ctx, *sockFile, func(conn net.Conn) error {
		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			return receiveCommands(ctx, conn, engine)
		})
		g.Go(func() error {
			return sendReports(ctx, conn, engine)
		})
		return g.Wait()
	})
	if err != nil {
		log.Fatalf("error: %v\n", err)
	}
	log.Println("main() ended.")
}

func withIPCConnection(ctx context.Context, sockFile string, f func(net.Conn) error) error {
	os.Remove(sockFile)
	listener, err := new(net.ListenConfig).Listen(ctx, "unix", sockFile)
	if err != nil {
		return err
	}
	defer func() {
		log.Println("Closing IPC...")
		err := listener.Close()
		if err != nil {
			log.Printf("error while closing listener: %v", err)
		}
		os.Remove(sockFile)
	}()
	log.Printf("start listening...\n")
	conn, err := listener.Accept()
	if err != nil {
		return err
	}
	defer func() {
		err := conn.Close()
		if err != nil {
			log.Printf("error while closing connection: %v", err)
		}
	}()
	return f(conn)
}

func receiveCommands(ctx context.Context, conn net.Conn, engine *synth.Engine) error {
	reader := bufio.NewReader(conn)
	var line []byte
loop:
	for {
		select {
		case <-ctx.Done():
			log.Println("Connection interrupted")
			break loop
		default:
		}
		next, isPrefix, err := reader.ReadLine()
		if err == io.EOF {
			break loop
		}
		if err != nil {
			return err
		}
		line = append(line, next...)
		if isPrefix {
			continue
		}
		command, err := parseCommand(string(line))
		if err != nil {
			return err
		}
		if err := handleCommand(engine, command); err != nil {
			log.Printf("command %v failed: %v\n", command, err)
		}
		line = []byte{}
	}
	log.Println("receiveCommands() ended.")
	return nil
}

func parseCommand(line string) ([]string, error) {
	lineStr := strings.Split(line, " ")
	for i, item := range lineStr {
		escaped, err := url.QueryUnescape(item)
		if err != nil {
			return nil, err
		}
		lineStr[i] = escaped
	}
	return lineStr, nil
}

func handleCommand(engine *synth.Engine, command []string) error {
	switch command[0] {
	case "start":
		return engine.Start()
	case "stop":
		return engine.Stop()
	case "gen":
		if len(command) != 2 {
			return fmt.Errorf("usage: gen <name>")
		}
		gen, err := synth.NewGenerator(command[1])
		if err != nil {
			return err
		}
		engine.SetGenerator(gen)
		return nil
	case "set":
		values := make([]float64, 0, len(command)-1)
		for _, item := range command[1:] {
			value, err := strconv.ParseFloat(item, 64)
			if err != nil {
				return err
			}
			values = append(values, value)
		}
		engine.SetParams(values)
		return nil
	}
	return fmt.Errorf("unknown command %v", command[0])
}

func sendReports(ctx context.Context, conn net.Conn, engine *synth.Engine) error {
	fftTicker := time.NewTicker(time.Second / 60)
	defer fftTicker.Stop()
	readoutTicker := time.NewTicker(time.Second / 10)
	defer readoutTicker.Stop()
loop:
	for {
		select {
		case <-ctx.Done():
			log.Println("sendReports() interrupted")
			break loop
		case <-fftTicker.C:
			s := "fft"
			for _, value := range engine.Spectrum() {
				s += " " + strconv.FormatFloat(value, 'f', 6, 64)
			}
			if _, err := conn.Write([]byte(s + "\n")); err != nil {
				return err
			}
		case <-readoutTicker.C:
			s := "readouts"
			for _, readout := range engine.Readouts() {
				s += " " + url.QueryEscape(readout)
			}
			diag := engine.Diagnostics()
			s += fmt.Sprintf("\nstats underflows=%d overflows=%d", diag.Underflows, diag.Overflows)
			if _, err := conn.Write([]byte(s + "\n")); err != nil {
				return err
			}
		}
	}
	log.Println("sendReports() ended.")
	return nil
}
