package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"
	"github.com/t2bot/url-media-nodes/common/config"
	"github.com/t2bot/url-media-nodes/common/logging"
	"github.com/t2bot/url-media-nodes/common/rcontext"
	"github.com/t2bot/url-media-nodes/common/runtime"
	"github.com/t2bot/url-media-nodes/common/version"
	"github.com/t2bot/url-media-nodes/metrics"
	"github.com/t2bot/url-media-nodes/nodes"
	"github.com/t2bot/url-media-nodes/pool"
)

func main() {
	configPath := flag.String("config", "url-nodes.yaml", "The path to the configuration")
	listFlag := flag.Bool("list", false, "Prints the schema of every node as JSON and exits")
	nodeId := flag.String("node", "", "The node to execute once")
	inputsJson := flag.String("inputs", "{}", "The JSON object of inputs for -node")
	stdinFlag := flag.Bool("stdin", false, "Reads one JSON request per line from stdin until EOF")
	versionFlag := flag.Bool("version", false, "Prints the version and exits")
	flag.Parse()

	if *versionFlag {
		version.Print(false)
		return // exit 0
	}

	// Override config path with config for Docker users
	configEnv := os.Getenv("NODES_CONFIG")
	if configEnv != "" {
		configPath = &configEnv
	}

	config.Path = *configPath
	if config.Get().Sentry.Enabled {
		logrus.Info("Setting up Sentry for debugging...")
		err := sentry.Init(sentry.ClientOptions{
			Dsn:         config.Get().Sentry.Dsn,
			Environment: config.Get().Sentry.Environment,
			Debug:       config.Get().Sentry.Debug,
			Release:     fmt.Sprintf("%s-%s", version.Version, version.GitCommit),
		})
		if err != nil {
			panic(err)
		}
	}
	defer sentry.Flush(2 * time.Second)
	defer sentry.Recover()

	err := logging.Setup(
		config.Get().General.LogDirectory,
		config.Get().General.LogColors,
		config.Get().General.JsonLogs,
		config.Get().General.LogLevel,
	)
	if err != nil {
		panic(err)
	}

	if *listFlag {
		registry := runtime.BuildRegistry()
		writeJson(registry.List())
		return
	}

	logrus.Info("Starting up...")
	runtime.RunStartupSequence()
	defer pool.Drain()

	logrus.Info("Starting config watcher...")
	watcher, err := config.Watch()
	if err != nil {
		logrus.Warn("Config watcher not started: ", err)
	} else {
		defer func(watcher *fsnotify.Watcher) {
			_ = watcher.Close()
		}(watcher)
	}
	setupReloads()

	metrics.Init()
	defer metrics.Stop()

	runtime.ReloadRegistry()

	if !*stdinFlag {
		if *nodeId == "" {
			logrus.Fatal("One of -list, -node or -stdin is required")
		}
		raw := make(map[string]interface{})
		if err = json.Unmarshal([]byte(*inputsJson), &raw); err != nil {
			logrus.Fatal("Inputs are not a JSON object: ", err)
		}
		res := execute(runtime.Registry(), request{Node: *nodeId, Inputs: raw})
		writeJson(res)
		if res.Error != "" {
			os.Exit(1)
		}
		return
	}

	// Stop reading on SIGINT, finishing the request in progress
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	lines := make(chan []byte)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
		for scanner.Scan() {
			line := make([]byte, len(scanner.Bytes()))
			copy(line, scanner.Bytes())
			lines <- line
		}
		if err := scanner.Err(); err != nil {
			logrus.Error("Error reading stdin: ", err)
		}
	}()

	for {
		select {
		case <-stop:
			logrus.Warn("Stop signal received")
			logrus.Info("Goodbye!")
			return
		case line, ok := <-lines:
			if !ok {
				logrus.Info("Goodbye!")
				return
			}
			if len(line) == 0 {
				continue
			}
			req := request{}
			if err := json.Unmarshal(line, &req); err != nil {
				writeJson(response{Error: "invalid request: " + err.Error()})
				continue
			}
			writeJson(execute(runtime.Registry(), req))
		}
	}
}

type request struct {
	Id     string                 `json:"id,omitempty"`
	Node   string                 `json:"node"`
	Inputs map[string]interface{} `json:"inputs"`
}

type response struct {
	Id          string        `json:"id,omitempty"`
	Node        string        `json:"node,omitempty"`
	Fingerprint string        `json:"fingerprint,omitempty"`
	Outputs     []interface{} `json:"outputs,omitempty"`
	Error       string        `json:"error,omitempty"`
}

// execute runs one request against registry under a context carrying the current config.
func execute(registry *nodes.Registry, req request) response {
	ctx := rcontext.Initial().LogWithFields(logrus.Fields{"request": req.Id})
	res := response{Id: req.Id, Node: req.Node}
	if req.Inputs == nil {
		req.Inputs = make(map[string]interface{})
	}

	if fingerprint, ok, err := registry.Fingerprint(req.Node, req.Inputs); err == nil && ok {
		res.Fingerprint = fingerprint
	}

	outputs, err := registry.Execute(ctx, req.Node, req.Inputs)
	if err != nil {
		sentry.CaptureException(err)
		res.Error = err.Error()
		return res
	}
	res.Outputs = summarize(outputs)
	return res
}

func writeJson(v interface{}) {
	b, err := json.Marshal(v)
	if err != nil {
		logrus.Error("Error encoding output: ", err)
		return
	}
	_, _ = os.Stdout.Write(append(b, '\n'))
}
